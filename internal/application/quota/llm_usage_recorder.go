// Package quota 提供用量记录与花费上限能力
package quota

import (
	"context"
	"fmt"
	"strings"

	"sixty-content-api/internal/domain/entity"
	"sixty-content-api/internal/domain/repository"
	"sixty-content-api/internal/domain/service"
)

// LLMUsageRecorder 将 LLM 用量与成本写入流水表。
// best-effort：落库失败不向上传播为业务错误。
type LLMUsageRecorder struct {
	usageRepo repository.LLMUsageEventRepository
}

func NewLLMUsageRecorder(usageRepo repository.LLMUsageEventRepository) *LLMUsageRecorder {
	return &LLMUsageRecorder{usageRepo: usageRepo}
}

func (r *LLMUsageRecorder) Record(ctx context.Context, in service.LLMUsageInput) error {
	if r == nil || r.usageRepo == nil {
		return nil
	}

	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return nil
	}
	if in.PromptTokens < 0 || in.CompletionTokens < 0 || in.CostCents < 0 {
		return fmt.Errorf("invalid usage input")
	}

	evt := &entity.LLMUsageEvent{
		UserID:           userID,
		MeetingID:        strings.TrimSpace(in.MeetingID),
		Provider:         strings.TrimSpace(in.Provider),
		Model:            strings.TrimSpace(in.Model),
		Workflow:         strings.TrimSpace(in.Workflow),
		TokensPrompt:     in.PromptTokens,
		TokensCompletion: in.CompletionTokens,
		CostCents:        in.CostCents,
		DurationMs:       in.DurationMs,
	}
	return r.usageRepo.Create(ctx, evt)
}
