package quota

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sixty-content-api/internal/domain/entity"
	"sixty-content-api/internal/domain/service"
	apperrors "sixty-content-api/pkg/errors"
)

type fakeUsageRepo struct {
	spendCents int64
	spendErr   error
	created    []*entity.LLMUsageEvent
	lastStart  time.Time
	lastEnd    time.Time
}

func (f *fakeUsageRepo) Create(ctx context.Context, event *entity.LLMUsageEvent) error {
	f.created = append(f.created, event)
	return nil
}

func (f *fakeUsageRepo) GetTokenUsage(ctx context.Context, userID string, start, end time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeUsageRepo) GetSpendCents(ctx context.Context, userID string, start, end time.Time) (int64, error) {
	f.lastStart, f.lastEnd = start, end
	return f.spendCents, f.spendErr
}

func TestSpendLimitChecker_UnderLimit(t *testing.T) {
	repo := &fakeUsageRepo{spendCents: 499}
	checker := NewSpendLimitChecker(repo, 500)

	assert.NoError(t, checker.Check(context.Background(), "user-1"))
}

func TestSpendLimitChecker_AtLimitBlocks(t *testing.T) {
	repo := &fakeUsageRepo{spendCents: 500}
	checker := NewSpendLimitChecker(repo, 500)

	err := checker.Check(context.Background(), "user-1")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeSpendLimitExceeded))
	assert.Contains(t, err.Error(), "spent=500 limit=500")
}

func TestSpendLimitChecker_ZeroLimitMeansUnlimited(t *testing.T) {
	repo := &fakeUsageRepo{spendCents: 1_000_000}
	checker := NewSpendLimitChecker(repo, 0)

	assert.NoError(t, checker.Check(context.Background(), "user-1"))
}

func TestSpendLimitChecker_EmptyUserSkipsCheck(t *testing.T) {
	repo := &fakeUsageRepo{spendCents: 1_000_000}
	checker := NewSpendLimitChecker(repo, 1)

	assert.NoError(t, checker.Check(context.Background(), ""))
}

func TestSpendLimitChecker_Uses30DayWindow(t *testing.T) {
	repo := &fakeUsageRepo{}
	checker := NewSpendLimitChecker(repo, 100)
	fixed := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	checker.now = func() time.Time { return fixed }

	require.NoError(t, checker.Check(context.Background(), "user-1"))
	assert.Equal(t, fixed, repo.lastEnd)
	assert.Equal(t, fixed.Add(-30*24*time.Hour), repo.lastStart)
}

func TestSpendLimitChecker_SpentSharesCheckWindow(t *testing.T) {
	repo := &fakeUsageRepo{spendCents: 42}
	checker := NewSpendLimitChecker(repo, 100)
	fixed := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	checker.now = func() time.Time { return fixed }

	spent, err := checker.Spent(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(42), spent)
	assert.Equal(t, fixed, repo.lastEnd)
	assert.Equal(t, fixed.Add(-30*24*time.Hour), repo.lastStart)
}

func TestSpendLimitChecker_SpentEmptyUserIsZero(t *testing.T) {
	repo := &fakeUsageRepo{spendCents: 42}
	checker := NewSpendLimitChecker(repo, 100)

	spent, err := checker.Spent(context.Background(), "")
	require.NoError(t, err)
	assert.Zero(t, spent)
	assert.True(t, repo.lastEnd.IsZero())
}

func TestSpendLimitChecker_RepoErrorMapsToDatabaseError(t *testing.T) {
	repo := &fakeUsageRepo{spendErr: errors.New("connection reset")}
	checker := NewSpendLimitChecker(repo, 100)

	err := checker.Check(context.Background(), "user-1")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeDatabaseError))
}

func TestLLMUsageRecorder_Record(t *testing.T) {
	repo := &fakeUsageRepo{}
	recorder := NewLLMUsageRecorder(repo)

	err := recorder.Record(context.Background(), service.LLMUsageInput{
		UserID:           "user-1",
		MeetingID:        "meeting-1",
		Workflow:         "content_generate",
		Provider:         "anthropic",
		Model:            "claude-sonnet-4-20250514",
		PromptTokens:     4000,
		CompletionTokens: 1000,
		CostCents:        3,
		DurationMs:       1200,
	})
	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "user-1", repo.created[0].UserID)
	assert.Equal(t, 4000, repo.created[0].TokensPrompt)
	assert.Equal(t, 3, repo.created[0].CostCents)
}

func TestLLMUsageRecorder_SkipsAnonymousCaller(t *testing.T) {
	repo := &fakeUsageRepo{}
	recorder := NewLLMUsageRecorder(repo)

	require.NoError(t, recorder.Record(context.Background(), service.LLMUsageInput{
		Provider: "anthropic",
	}))
	assert.Empty(t, repo.created)
}
