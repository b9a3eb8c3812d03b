package content

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"sixty-content-api/internal/config"
	"sixty-content-api/internal/domain/service"
	apperrors "sixty-content-api/pkg/errors"
	"sixty-content-api/pkg/logger"
	"sixty-content-api/pkg/metrics"
)

// ModelProvider 按名称提供 ChatModel 实例
type ModelProvider interface {
	Get(ctx context.Context, provider, modelOverride string) (model.BaseChatModel, error)
	ResolveModel(provider, override string) (string, error)
	DefaultProvider() string
}

// GenerateInput 单次生成调用的输入
type GenerateInput struct {
	Provider string
	Model    string
	Prompt   string
}

// GenerateOutput 单次生成调用的结果与用量
type GenerateOutput struct {
	Text         string
	InputTokens  int
	OutputTokens int
	DurationMs   int
	ProviderUsed string
	ModelUsed    string
}

// Generator 执行单次阻塞的 LLM 调用。
// 不做任何内部重试：失败立即上抛，由调用方决定是否重新提交。
type Generator struct {
	provider ModelProvider
	cfg      *config.GenerationConfig
}

func NewGenerator(provider ModelProvider, cfg *config.GenerationConfig) *Generator {
	return &Generator{provider: provider, cfg: cfg}
}

// Generate 以硬性墙钟超时执行一次生成调用。
// 调用方取消会直接传播给 provider，避免为不再需要的生成付费。
func (g *Generator) Generate(ctx context.Context, in GenerateInput) (*GenerateOutput, error) {
	providerName := in.Provider
	if providerName == "" {
		providerName = g.provider.DefaultProvider()
	}

	modelName, err := g.provider.ResolveModel(providerName, in.Model)
	if err != nil {
		return nil, apperrors.ErrProviderUnavailable.WithError(err)
	}

	chatModel, err := g.provider.Get(ctx, providerName, in.Model)
	if err != nil {
		return nil, apperrors.ErrProviderUnavailable.WithError(err)
	}

	ctx = service.WithProvider(ctx, providerName)
	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	msgs := []*schema.Message{
		schema.UserMessage(in.Prompt),
	}

	start := time.Now()
	outMsg, err := chatModel.Generate(ctx, msgs,
		model.WithMaxTokens(g.cfg.MaxTokens),
		model.WithTemperature(float32(g.cfg.Temperature)),
	)
	elapsed := time.Since(start)

	metrics.LLMCallDuration.WithLabelValues(providerName, modelName).Observe(elapsed.Seconds())

	if err != nil {
		metrics.LLMCallTotal.WithLabelValues(providerName, modelName, "error").Inc()
		classified := classifyProviderError(ctx, err)
		logger.Error(ctx, "llm generate failed", err,
			"provider", providerName,
			"model", modelName,
			"duration_ms", elapsed.Milliseconds(),
		)
		return nil, classified
	}
	if outMsg == nil || strings.TrimSpace(outMsg.Content) == "" {
		metrics.LLMCallTotal.WithLabelValues(providerName, modelName, "error").Inc()
		return nil, apperrors.New(apperrors.CodeLLMProviderError, "empty llm response")
	}

	metrics.LLMCallTotal.WithLabelValues(providerName, modelName, "success").Inc()

	out := &GenerateOutput{
		Text:         outMsg.Content,
		DurationMs:   int(elapsed.Milliseconds()),
		ProviderUsed: providerName,
		ModelUsed:    modelName,
	}
	if outMsg.ResponseMeta != nil && outMsg.ResponseMeta.Usage != nil {
		out.InputTokens = outMsg.ResponseMeta.Usage.PromptTokens
		out.OutputTokens = outMsg.ResponseMeta.Usage.CompletionTokens
	}

	metrics.LLMTokensUsed.WithLabelValues(providerName, modelName, "prompt").Add(float64(out.InputTokens))
	metrics.LLMTokensUsed.WithLabelValues(providerName, modelName, "completion").Add(float64(out.OutputTokens))

	return out, nil
}

// classifyProviderError 将 provider 返回的错误归入错误分类：
// 超时、限流/过载（可稍后重试）、其他 provider 错误。
func classifyProviderError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperrors.ErrGenerationTimeout.WithError(err)
	}
	if errors.Is(err, context.Canceled) {
		return apperrors.New(apperrors.CodeLLMProviderError, "generation canceled").WithError(err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429"),
		strings.Contains(msg, "rate limit"),
		strings.Contains(msg, "rate_limit"),
		strings.Contains(msg, "overloaded"),
		strings.Contains(msg, "quota"),
		strings.Contains(msg, "503"),
		strings.Contains(msg, "service unavailable"):
		return apperrors.ErrProviderUnavailable.WithError(err)
	case strings.Contains(msg, "timeout"),
		strings.Contains(msg, "deadline exceeded"):
		return apperrors.ErrGenerationTimeout.WithError(err)
	default:
		return apperrors.New(apperrors.CodeLLMProviderError, "llm provider error").WithError(err)
	}
}
