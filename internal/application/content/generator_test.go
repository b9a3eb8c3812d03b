package content

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sixty-content-api/internal/config"
	apperrors "sixty-content-api/pkg/errors"
)

type fakeChatModel struct {
	msg *schema.Message
	err error
}

func (f *fakeChatModel) Generate(ctx context.Context, in []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	return f.msg, f.err
}

func (f *fakeChatModel) Stream(ctx context.Context, in []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

type fakeModelProvider struct {
	chatModel model.BaseChatModel
	getErr    error
}

func (f *fakeModelProvider) Get(ctx context.Context, provider, modelOverride string) (model.BaseChatModel, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.chatModel, nil
}

func (f *fakeModelProvider) ResolveModel(provider, override string) (string, error) {
	if override != "" {
		return override, nil
	}
	return "claude-sonnet-4-20250514", nil
}

func (f *fakeModelProvider) DefaultProvider() string { return "anthropic" }

func generatorConfig() *config.GenerationConfig {
	return &config.GenerationConfig{
		Timeout:     30 * time.Second,
		MaxTokens:   2048,
		Temperature: 0.7,
	}
}

func TestGenerator_Success(t *testing.T) {
	provider := &fakeModelProvider{chatModel: &fakeChatModel{
		msg: &schema.Message{
			Role:    schema.Assistant,
			Content: "# Launch Recap\n\nWe shipped it.",
			ResponseMeta: &schema.ResponseMeta{
				Usage: &schema.TokenUsage{PromptTokens: 4000, CompletionTokens: 1000},
			},
		},
	}}
	gen := NewGenerator(provider, generatorConfig())

	out, err := gen.Generate(context.Background(), GenerateInput{Prompt: "write something"})
	require.NoError(t, err)

	assert.Equal(t, "# Launch Recap\n\nWe shipped it.", out.Text)
	assert.Equal(t, 4000, out.InputTokens)
	assert.Equal(t, 1000, out.OutputTokens)
	assert.Equal(t, "anthropic", out.ProviderUsed)
	assert.Equal(t, "claude-sonnet-4-20250514", out.ModelUsed)
}

func TestGenerator_ModelOverride(t *testing.T) {
	provider := &fakeModelProvider{chatModel: &fakeChatModel{
		msg: &schema.Message{Role: schema.Assistant, Content: "ok"},
	}}
	gen := NewGenerator(provider, generatorConfig())

	out, err := gen.Generate(context.Background(), GenerateInput{Model: "gpt-4o", Prompt: "x"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", out.ModelUsed)
}

func TestGenerator_ProviderUnavailableOnFactoryError(t *testing.T) {
	provider := &fakeModelProvider{getErr: errors.New("provider not configured")}
	gen := NewGenerator(provider, generatorConfig())

	_, err := gen.Generate(context.Background(), GenerateInput{Prompt: "x"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeProviderUnavailable))
}

func TestGenerator_EmptyResponseIsProviderError(t *testing.T) {
	provider := &fakeModelProvider{chatModel: &fakeChatModel{
		msg: &schema.Message{Role: schema.Assistant, Content: "   "},
	}}
	gen := NewGenerator(provider, generatorConfig())

	_, err := gen.Generate(context.Background(), GenerateInput{Prompt: "x"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeLLMProviderError))
}

func TestClassifyProviderError(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		err  error
		code apperrors.ErrorCode
	}{
		{"deadline exceeded", fmt.Errorf("call failed: %w", context.DeadlineExceeded), apperrors.CodeGenerationTimeout},
		{"http 429", errors.New("upstream returned 429 Too Many Requests"), apperrors.CodeProviderUnavailable},
		{"rate limit text", errors.New("rate limit reached for model"), apperrors.CodeProviderUnavailable},
		{"overloaded", errors.New("Overloaded, please retry"), apperrors.CodeProviderUnavailable},
		{"quota exhausted", errors.New("insufficient_quota: billing limit"), apperrors.CodeProviderUnavailable},
		{"http 503", errors.New("503 service unavailable"), apperrors.CodeProviderUnavailable},
		{"socket timeout", errors.New("dial tcp: i/o timeout"), apperrors.CodeGenerationTimeout},
		{"anything else", errors.New("invalid api key"), apperrors.CodeLLMProviderError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyProviderError(ctx, tt.err)
			assert.True(t, apperrors.HasCode(got, tt.code), "got %v", got)
		})
	}
}
