package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sixty-content-api/internal/domain/entity"
)

func seedUsageEvent(t *testing.T, repo *LLMUsageEventRepository, userID string, createdAt time.Time, prompt, completion, costCents int) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &entity.LLMUsageEvent{
		UserID:           userID,
		MeetingID:        "meeting-1",
		Provider:         "anthropic",
		Model:            "claude-sonnet-4-20250514",
		Workflow:         "content_generate",
		TokensPrompt:     prompt,
		TokensCompletion: completion,
		CostCents:        costCents,
		DurationMs:       1000,
		CreatedAt:        createdAt,
	}))
}

func TestLLMUsageEventRepository_WindowAggregation(t *testing.T) {
	repo := NewLLMUsageEventRepository(newTestClient(t))
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	seedUsageEvent(t, repo, "user-1", base, 4000, 1000, 3)
	seedUsageEvent(t, repo, "user-1", base.Add(time.Hour), 2000, 500, 2)
	// 窗口之外
	seedUsageEvent(t, repo, "user-1", base.Add(-48*time.Hour), 9000, 9000, 99)
	// 其他用户
	seedUsageEvent(t, repo, "user-2", base, 1000, 1000, 7)

	start := base.Add(-time.Hour)
	end := base.Add(24 * time.Hour)

	tokens, err := repo.GetTokenUsage(ctx, "user-1", start, end)
	require.NoError(t, err)
	assert.EqualValues(t, 7500, tokens)

	spend, err := repo.GetSpendCents(ctx, "user-1", start, end)
	require.NoError(t, err)
	assert.EqualValues(t, 5, spend)
}

func TestLLMUsageEventRepository_WindowBoundsAreHalfOpen(t *testing.T) {
	repo := NewLLMUsageEventRepository(newTestClient(t))
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	seedUsageEvent(t, repo, "user-1", base, 100, 0, 1)

	// created_at == start 包含
	spend, err := repo.GetSpendCents(ctx, "user-1", base, base.Add(time.Minute))
	require.NoError(t, err)
	assert.EqualValues(t, 1, spend)

	// created_at == end 排除
	spend, err = repo.GetSpendCents(ctx, "user-1", base.Add(-time.Minute), base)
	require.NoError(t, err)
	assert.EqualValues(t, 0, spend)
}

func TestLLMUsageEventRepository_EmptyWindow(t *testing.T) {
	repo := NewLLMUsageEventRepository(newTestClient(t))
	ctx := context.Background()

	tokens, err := repo.GetTokenUsage(ctx, "user-none", time.Now().Add(-time.Hour), time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, 0, tokens)
}
