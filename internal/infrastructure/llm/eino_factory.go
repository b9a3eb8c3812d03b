package llm

import (
	"context"
	"fmt"
	"sync"

	"sixty-content-api/internal/config"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
)

// EinoFactory 管理多个 Eino ChatModel 客户端实例
type EinoFactory struct {
	config *config.LLMConfig
	models map[string]model.BaseChatModel
	mu     sync.RWMutex
}

// NewEinoFactory 创建 Eino LLM 工厂
func NewEinoFactory(cfg *config.Config) *EinoFactory {
	return &EinoFactory{
		config: &cfg.LLM,
		models: make(map[string]model.BaseChatModel),
	}
}

// ResolveModel 返回某 provider 生效的模型名（override 为空时取配置值）
func (f *EinoFactory) ResolveModel(provider, override string) (string, error) {
	if provider == "" {
		provider = f.config.DefaultProvider
	}
	providerCfg, ok := f.config.Providers[provider]
	if !ok {
		return "", fmt.Errorf("provider %s not found in LLM config", provider)
	}
	if override != "" {
		return override, nil
	}
	return providerCfg.Model, nil
}

// DefaultProvider 返回默认 provider 名称
func (f *EinoFactory) DefaultProvider() string {
	return f.config.DefaultProvider
}

// Get 获取指定 provider 的 ChatModel；modelOverride 非空时按请求覆盖模型名。
// 实例按 provider:model 缓存，惰性创建。
func (f *EinoFactory) Get(ctx context.Context, provider, modelOverride string) (model.BaseChatModel, error) {
	if provider == "" {
		provider = f.config.DefaultProvider
	}

	providerCfg, ok := f.config.Providers[provider]
	if !ok {
		return nil, fmt.Errorf("provider %s not found in LLM config", provider)
	}

	modelName := providerCfg.Model
	if modelOverride != "" {
		modelName = modelOverride
	}
	key := provider + ":" + modelName

	f.mu.RLock()
	m, ok := f.models[key]
	f.mu.RUnlock()
	if ok {
		return m, nil
	}

	// 惰性加载
	f.mu.Lock()
	defer f.mu.Unlock()

	// 再次检查防止竞态
	if m, ok = f.models[key]; ok {
		return m, nil
	}

	// 使用 Eino 的 OpenAI 适配器
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:      providerCfg.APIKey,
		BaseURL:     providerCfg.BaseURL,
		Model:       modelName,
		MaxTokens:   &providerCfg.MaxTokens,
		Temperature: ptrFloat32(float32(providerCfg.Temperature)),
		Timeout:     providerCfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create eino chat model for %s: %w", key, err)
	}

	f.models[key] = chatModel
	return chatModel, nil
}

func ptrFloat32(f float32) *float32 {
	return &f
}
