package content

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"sixty-content-api/internal/config"
	"sixty-content-api/internal/domain/entity"
	"sixty-content-api/internal/domain/repository"
	"sixty-content-api/internal/domain/service"
	apperrors "sixty-content-api/pkg/errors"
	"sixty-content-api/pkg/logger"
	"sixty-content-api/pkg/metrics"
)

var orchestratorTracer = otel.Tracer("content.orchestrator")

// TextGenerator 执行单次生成调用
type TextGenerator interface {
	Generate(ctx context.Context, in GenerateInput) (*GenerateOutput, error)
}

// CacheInvalidator 在版本链变更后使读缓存失效
type CacheInvalidator interface {
	InvalidateLatestContent(ctx context.Context, meetingID, kind string) error
}

// SpendLimitChecker 在产生 LLM 费用前检查调用方的花费上限
type SpendLimitChecker interface {
	Check(ctx context.Context, userID string) error
}

// GenerateRequest 一次内容生成请求
type GenerateRequest struct {
	MeetingID       string
	Kind            entity.ContentKind
	TopicIndices    []int
	ForceRegenerate bool

	Provider string
	Model    string
	UserID   string
}

// GenerateResult 生成结果；Cached 为 true 时 Record 为已存在的最新版本
type GenerateResult struct {
	Record     *entity.GeneratedContent
	Cached     bool
	TopicsUsed int
}

// Orchestrator 内容生成编排器。
// 每次 Handle 调用是一个独立的请求单元，除记录存储外不共享任何进程内状态。
type Orchestrator struct {
	meetings  repository.MeetingRepository
	topics    repository.TopicRepository
	store     repository.ContentRepository
	generator TextGenerator
	cost      *CostModel
	usage     service.LLMUsageRecorder
	cache     CacheInvalidator
	spend     SpendLimitChecker
	tx        repository.Transactor
	cfg       *config.GenerationConfig
}

func NewOrchestrator(
	meetings repository.MeetingRepository,
	topics repository.TopicRepository,
	store repository.ContentRepository,
	generator TextGenerator,
	cost *CostModel,
	usage service.LLMUsageRecorder,
	cache CacheInvalidator,
	spend SpendLimitChecker,
	tx repository.Transactor,
	cfg *config.GenerationConfig,
) *Orchestrator {
	return &Orchestrator{
		meetings:  meetings,
		topics:    topics,
		store:     store,
		generator: generator,
		cost:      cost,
		usage:     usage,
		cache:     cache,
		spend:     spend,
		tx:        tx,
		cfg:       cfg,
	}
}

// Handle 执行完整的生成流程：
// 校验 → 缓存判定 → 取材 → 生成 → 标题/成本 → 原子追加 → best-effort 副写。
// appendVersion 之前没有任何持久副作用，中途失败可安全地整体重试。
func (o *Orchestrator) Handle(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	ctx, span := orchestratorTracer.Start(ctx, "orchestrator.Handle")
	span.SetAttributes(
		attribute.String("content.meeting_id", req.MeetingID),
		attribute.String("content.kind", string(req.Kind)),
		attribute.Bool("content.force_regenerate", req.ForceRegenerate),
	)
	defer span.End()

	// 1. 校验：类别、话题下标。越界在任何 LLM 花费前失败。
	if _, err := entity.ParseContentKind(string(req.Kind)); err != nil {
		return nil, apperrors.ErrInvalidContentKind.WithDetail(string(req.Kind))
	}
	if len(req.TopicIndices) == 0 {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "topic indices must not be empty")
	}

	extraction, err := o.topics.GetLatestByMeeting(ctx, req.MeetingID)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	if extraction == nil || extraction.TopicCount() == 0 {
		return nil, apperrors.ErrTopicsMissing
	}
	for _, idx := range req.TopicIndices {
		if idx < 0 || idx >= extraction.TopicCount() {
			return nil, apperrors.New(apperrors.CodeTopicIndexOutOfRange,
				fmt.Sprintf("topic index %d out of range (max index %d)", idx, extraction.TopicCount()-1))
		}
	}

	// 2. 缓存判定：非强制重新生成时命中已有最新版直接返回，零 LLM 成本
	if !req.ForceRegenerate {
		latest, err := o.store.FindLatest(ctx, req.MeetingID, req.Kind)
		if err != nil {
			return nil, apperrors.ErrDatabaseError.WithError(err)
		}
		if latest != nil {
			metrics.ContentCacheHits.WithLabelValues(string(req.Kind)).Inc()
			span.SetAttributes(attribute.Bool("content.cached", true))
			return &GenerateResult{
				Record:     latest,
				Cached:     true,
				TopicsUsed: len(req.TopicIndices),
			}, nil
		}
	}

	// 3. 取材：会议与转写文本
	meeting, err := o.meetings.GetByID(ctx, req.MeetingID)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	if meeting == nil {
		return nil, apperrors.ErrMeetingNotFound
	}
	if meeting.TranscriptRunes() < o.cfg.MinTranscriptRunes {
		return nil, apperrors.ErrTranscriptMissing
	}

	if o.spend != nil {
		if err := o.spend.Check(ctx, req.UserID); err != nil {
			return nil, err
		}
	}

	// 4. 确定性构建提示词
	selected := extraction.SelectTopics(req.TopicIndices)
	prompt := BuildPrompt(meeting, selected, req.Kind, o.cfg.ExcerptThresholdRunes, o.cfg.ExcerptRunes)

	// 5. 单次阻塞生成调用，失败不重试、原样上抛
	ctx = service.WithWorkflow(ctx, "content_generate")
	start := time.Now()
	out, err := o.generator.Generate(ctx, GenerateInput{
		Provider: req.Provider,
		Model:    req.Model,
		Prompt:   prompt,
	})
	if err != nil {
		metrics.ContentGenerationTotal.WithLabelValues(string(req.Kind), "error").Inc()
		span.RecordError(err)
		return nil, err
	}

	// 6. 标题提取 + 成本计算
	extracted := ExtractTitleAndBody(out.Text, req.Kind)
	costCents := o.cost.ComputeCostCents(out.InputTokens, out.OutputTokens)

	// 7. 唯一的持久写入：原子追加新版本
	record, err := o.store.AppendVersion(ctx, &entity.GeneratedContent{
		MeetingID:  req.MeetingID,
		Kind:       req.Kind,
		Title:      extracted.Title,
		Body:       extracted.Body,
		ModelUsed:  out.ModelUsed,
		TokensUsed: out.InputTokens + out.OutputTokens,
		CostCents:  costCents,
		CreatedBy:  req.UserID,
	})
	if err != nil {
		metrics.ContentGenerationTotal.WithLabelValues(string(req.Kind), "error").Inc()
		span.RecordError(err)
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	metrics.ContentGenerationTotal.WithLabelValues(string(req.Kind), "success").Inc()
	metrics.ContentGenerationDuration.WithLabelValues(string(req.Kind)).Observe(time.Since(start).Seconds())
	metrics.ContentVersionDepth.WithLabelValues(string(req.Kind)).Observe(float64(record.Version))
	metrics.LLMCostCents.WithLabelValues(out.ProviderUsed, out.ModelUsed).Add(float64(costCents))

	// 8. best-effort 副写：话题关联、用量流水、缓存失效。
	// 主记录已落库，任何一项失败只记日志，不影响结果。
	o.writeSideEffects(ctx, req, record, selected, out, costCents)

	span.SetAttributes(attribute.Int("content.version", record.Version))
	return &GenerateResult{
		Record:     record,
		Cached:     false,
		TopicsUsed: len(selected),
	}, nil
}

func (o *Orchestrator) writeSideEffects(
	ctx context.Context,
	req GenerateRequest,
	record *entity.GeneratedContent,
	selected []entity.TopicDescriptor,
	out *GenerateOutput,
	costCents int,
) {
	links := make([]*entity.ContentTopicLink, 0, len(selected))
	for i, t := range selected {
		links = append(links, &entity.ContentTopicLink{
			ContentID:  record.ID,
			TopicIndex: req.TopicIndices[i],
			TopicTitle: t.Title,
		})
	}

	// 话题关联与用量流水在同一事务中落库，保持两者一致
	write := func(ctx context.Context) error {
		if err := o.topics.CreateLinks(ctx, links); err != nil {
			return err
		}
		if o.usage == nil {
			return nil
		}
		return o.usage.Record(ctx, service.LLMUsageInput{
			UserID:           req.UserID,
			MeetingID:        req.MeetingID,
			Workflow:         service.WorkflowFromContext(ctx),
			Provider:         out.ProviderUsed,
			Model:            out.ModelUsed,
			PromptTokens:     out.InputTokens,
			CompletionTokens: out.OutputTokens,
			CostCents:        costCents,
			DurationMs:       out.DurationMs,
		})
	}

	var err error
	if o.tx != nil {
		err = o.tx.WithTransaction(ctx, write)
	} else {
		err = write(ctx)
	}
	if err != nil {
		logger.Warn(ctx, "failed to write generation side records",
			"content_id", record.ID, "error", err.Error())
	}

	if o.cache != nil {
		if err := o.cache.InvalidateLatestContent(ctx, req.MeetingID, string(req.Kind)); err != nil {
			logger.Warn(ctx, "failed to invalidate latest content cache",
				"meeting_id", req.MeetingID, "kind", string(req.Kind), "error", err.Error())
		}
	}
}
