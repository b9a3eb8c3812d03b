package content

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sixty-content-api/internal/config"
	"sixty-content-api/internal/domain/entity"
	"sixty-content-api/internal/domain/repository"
	"sixty-content-api/internal/domain/service"
	apperrors "sixty-content-api/pkg/errors"
)

// --- fakes ---

type fakeMeetings struct {
	meeting *entity.Meeting
	err     error
}

func (f *fakeMeetings) GetByID(ctx context.Context, id string) (*entity.Meeting, error) {
	return f.meeting, f.err
}

type fakeTopics struct {
	extraction *entity.TopicExtraction
	links      []*entity.ContentTopicLink
	linksErr   error
}

func (f *fakeTopics) GetLatestByMeeting(ctx context.Context, meetingID string) (*entity.TopicExtraction, error) {
	return f.extraction, nil
}

func (f *fakeTopics) CreateLinks(ctx context.Context, links []*entity.ContentTopicLink) error {
	if f.linksErr != nil {
		return f.linksErr
	}
	f.links = append(f.links, links...)
	return nil
}

type fakeStore struct {
	latest    *entity.GeneratedContent
	appended  []*entity.GeneratedContent
	appendErr error
}

func (f *fakeStore) FindLatest(ctx context.Context, meetingID string, kind entity.ContentKind) (*entity.GeneratedContent, error) {
	return f.latest, nil
}

func (f *fakeStore) GetByID(ctx context.Context, id string) (*entity.GeneratedContent, error) {
	return nil, nil
}

func (f *fakeStore) ListVersions(ctx context.Context, meetingID string, kind entity.ContentKind, p repository.Pagination) (*repository.PagedResult[*entity.GeneratedContent], error) {
	return repository.NewPagedResult(f.appended, int64(len(f.appended)), p), nil
}

func (f *fakeStore) AppendVersion(ctx context.Context, content *entity.GeneratedContent) (*entity.GeneratedContent, error) {
	if f.appendErr != nil {
		return nil, f.appendErr
	}
	fresh := *content
	fresh.Version, fresh.ParentID = entity.NextVersion(f.latest)
	fresh.IsLatest = true
	fresh.ID = fmt.Sprintf("gen-%d", fresh.Version)
	f.appended = append(f.appended, &fresh)
	f.latest = &fresh
	return &fresh, nil
}

func (f *fakeStore) SoftDelete(ctx context.Context, id string) error {
	return nil
}

type fakeGenerator struct {
	out   *GenerateOutput
	err   error
	calls int
}

func (f *fakeGenerator) Generate(ctx context.Context, in GenerateInput) (*GenerateOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

type fakeInvalidator struct{ calls int }

func (f *fakeInvalidator) InvalidateLatestContent(ctx context.Context, meetingID, kind string) error {
	f.calls++
	return nil
}

type fakeSpend struct{ err error }

func (f *fakeSpend) Check(ctx context.Context, userID string) error { return f.err }

type fakeUsage struct{ events []service.LLMUsageInput }

func (f *fakeUsage) Record(ctx context.Context, in service.LLMUsageInput) error {
	f.events = append(f.events, in)
	return nil
}

// --- fixture ---

type orchestratorFixture struct {
	meetings  *fakeMeetings
	topics    *fakeTopics
	store     *fakeStore
	generator *fakeGenerator
	cache     *fakeInvalidator
	spend     *fakeSpend
	usage     *fakeUsage
	orch      *Orchestrator
}

func newOrchestratorFixture(t *testing.T) *orchestratorFixture {
	t.Helper()

	f := &orchestratorFixture{
		meetings: &fakeMeetings{meeting: &entity.Meeting{
			ID:         "meeting-1",
			Title:      "Q3 Planning Sync",
			Transcript: "We talked about the roadmap, pricing tiers and the hiring plan for next quarter.",
		}},
		topics: &fakeTopics{extraction: &entity.TopicExtraction{
			ID:        "extraction-1",
			MeetingID: "meeting-1",
			Topics: []entity.TopicDescriptor{
				{Title: "Roadmap"},
				{Title: "Pricing"},
				{Title: "Hiring"},
				{Title: "Budget"},
				{Title: "Partnerships"},
			},
		}},
		store: &fakeStore{},
		generator: &fakeGenerator{out: &GenerateOutput{
			Text:         "# Launch Recap\n\nWe shipped it.",
			InputTokens:  4000,
			OutputTokens: 1000,
			DurationMs:   1200,
			ProviderUsed: "anthropic",
			ModelUsed:    "claude-sonnet-4-20250514",
		}},
		cache: &fakeInvalidator{},
		spend: &fakeSpend{},
		usage: &fakeUsage{},
	}

	cfg := &config.GenerationConfig{
		Timeout:               30 * time.Second,
		MaxTokens:             2048,
		Temperature:           0.7,
		MinTranscriptRunes:    10,
		ExcerptThresholdRunes: 12000,
		ExcerptRunes:          12000,
	}
	cost := NewCostModel(&config.PricingConfig{InputPerMillion: 3.0, OutputPerMillion: 15.0})

	f.orch = NewOrchestrator(f.meetings, f.topics, f.store, f.generator, cost, f.usage, f.cache, f.spend, nil, cfg)
	return f
}

func validRequest() GenerateRequest {
	return GenerateRequest{
		MeetingID:    "meeting-1",
		Kind:         entity.ContentKindBlog,
		TopicIndices: []int{0, 2},
		Provider:     "anthropic",
		Model:        "claude-sonnet-4-20250514",
		UserID:       "user-1",
	}
}

// --- tests ---

func TestOrchestrator_GeneratesAndAppends(t *testing.T) {
	f := newOrchestratorFixture(t)

	result, err := f.orch.Handle(context.Background(), validRequest())
	require.NoError(t, err)

	assert.False(t, result.Cached)
	assert.Equal(t, 2, result.TopicsUsed)
	require.Len(t, f.store.appended, 1)

	record := f.store.appended[0]
	assert.Equal(t, 1, record.Version)
	assert.Nil(t, record.ParentID)
	assert.True(t, record.IsLatest)
	assert.Equal(t, "Launch Recap", record.Title)
	assert.Equal(t, "We shipped it.", record.Body)
	assert.Equal(t, 5000, record.TokensUsed)
	// 1.2 + 1.5 = 2.7 美分 → 3
	assert.Equal(t, 3, record.CostCents)
	assert.Equal(t, "user-1", record.CreatedBy)

	// 副写：话题关联、用量流水、缓存失效
	require.Len(t, f.topics.links, 2)
	assert.Equal(t, 0, f.topics.links[0].TopicIndex)
	assert.Equal(t, 2, f.topics.links[1].TopicIndex)
	assert.Equal(t, "Hiring", f.topics.links[1].TopicTitle)
	require.Len(t, f.usage.events, 1)
	assert.Equal(t, "anthropic", f.usage.events[0].Provider)
	assert.Equal(t, 3, f.usage.events[0].CostCents)
	assert.Equal(t, 1, f.cache.calls)
}

func TestOrchestrator_ReturnsExistingLatestWithoutGenerating(t *testing.T) {
	f := newOrchestratorFixture(t)
	f.store.latest = &entity.GeneratedContent{
		ID:        "gen-1",
		MeetingID: "meeting-1",
		Kind:      entity.ContentKindBlog,
		Version:   1,
		IsLatest:  true,
	}

	result, err := f.orch.Handle(context.Background(), validRequest())
	require.NoError(t, err)

	assert.True(t, result.Cached)
	assert.Equal(t, "gen-1", result.Record.ID)
	assert.Equal(t, 0, f.generator.calls)
	assert.Empty(t, f.store.appended)
}

func TestOrchestrator_ForceRegenerateAppendsNewVersion(t *testing.T) {
	f := newOrchestratorFixture(t)
	f.store.latest = &entity.GeneratedContent{
		ID:        "gen-1",
		MeetingID: "meeting-1",
		Kind:      entity.ContentKindBlog,
		Version:   1,
		IsLatest:  true,
	}

	req := validRequest()
	req.ForceRegenerate = true
	result, err := f.orch.Handle(context.Background(), req)
	require.NoError(t, err)

	assert.False(t, result.Cached)
	assert.Equal(t, 1, f.generator.calls)
	require.Len(t, f.store.appended, 1)
	assert.Equal(t, 2, result.Record.Version)
	require.NotNil(t, result.Record.ParentID)
	assert.Equal(t, "gen-1", *result.Record.ParentID)
}

func TestOrchestrator_InvalidKind(t *testing.T) {
	f := newOrchestratorFixture(t)
	req := validRequest()
	req.Kind = entity.ContentKind("tweet")

	_, err := f.orch.Handle(context.Background(), req)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidContentKind))
	assert.Equal(t, 0, f.generator.calls)
}

func TestOrchestrator_EmptyTopicIndices(t *testing.T) {
	f := newOrchestratorFixture(t)
	req := validRequest()
	req.TopicIndices = nil

	_, err := f.orch.Handle(context.Background(), req)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidParam))
}

func TestOrchestrator_TopicIndexOutOfRange(t *testing.T) {
	f := newOrchestratorFixture(t)
	req := validRequest()
	req.TopicIndices = []int{0, 7}

	_, err := f.orch.Handle(context.Background(), req)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeTopicIndexOutOfRange))
	assert.Contains(t, err.Error(), "index 7 out of range (max index 4)")

	// 越界在任何 LLM 花费与持久写入之前失败
	assert.Equal(t, 0, f.generator.calls)
	assert.Empty(t, f.store.appended)
	assert.Empty(t, f.topics.links)
	assert.Empty(t, f.usage.events)
}

func TestOrchestrator_TopicsMissing(t *testing.T) {
	f := newOrchestratorFixture(t)
	f.topics.extraction = nil

	_, err := f.orch.Handle(context.Background(), validRequest())
	assert.True(t, apperrors.HasCode(err, apperrors.CodeTopicsMissing))
}

func TestOrchestrator_MeetingNotFound(t *testing.T) {
	f := newOrchestratorFixture(t)
	f.meetings.meeting = nil

	_, err := f.orch.Handle(context.Background(), validRequest())
	assert.True(t, apperrors.HasCode(err, apperrors.CodeMeetingNotFound))
}

func TestOrchestrator_TranscriptTooShort(t *testing.T) {
	f := newOrchestratorFixture(t)
	f.meetings.meeting.Transcript = "short"

	_, err := f.orch.Handle(context.Background(), validRequest())
	assert.True(t, apperrors.HasCode(err, apperrors.CodeTranscriptMissing))
	assert.Equal(t, 0, f.generator.calls)
}

func TestOrchestrator_SpendLimitBlocksBeforeGeneration(t *testing.T) {
	f := newOrchestratorFixture(t)
	f.spend.err = apperrors.New(apperrors.CodeSpendLimitExceeded, "llm spend limit reached")

	_, err := f.orch.Handle(context.Background(), validRequest())
	assert.True(t, apperrors.HasCode(err, apperrors.CodeSpendLimitExceeded))
	assert.Equal(t, 0, f.generator.calls)
}

func TestOrchestrator_ProviderErrorPassesThroughUnchanged(t *testing.T) {
	f := newOrchestratorFixture(t)
	f.generator.err = apperrors.ErrProviderUnavailable.WithError(errors.New("upstream 503"))

	_, err := f.orch.Handle(context.Background(), validRequest())
	assert.True(t, apperrors.HasCode(err, apperrors.CodeProviderUnavailable))
	assert.Empty(t, f.store.appended)
	assert.Empty(t, f.usage.events)
}

func TestOrchestrator_AppendContentionSurfaces(t *testing.T) {
	f := newOrchestratorFixture(t)
	f.store.appendErr = apperrors.ErrWriteContention

	_, err := f.orch.Handle(context.Background(), validRequest())
	assert.True(t, apperrors.HasCode(err, apperrors.CodeWriteContention))
	assert.Empty(t, f.usage.events)
}

func TestOrchestrator_SideWriteFailureDoesNotFailRequest(t *testing.T) {
	f := newOrchestratorFixture(t)
	f.topics.linksErr = errors.New("links table unavailable")

	result, err := f.orch.Handle(context.Background(), validRequest())
	require.NoError(t, err)
	assert.False(t, result.Cached)
	require.Len(t, f.store.appended, 1)
}
