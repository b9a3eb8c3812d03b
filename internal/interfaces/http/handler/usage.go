package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"sixty-content-api/internal/application/quota"
	"sixty-content-api/internal/config"
	"sixty-content-api/internal/domain/repository"
	"sixty-content-api/internal/interfaces/http/dto"
	apperrors "sixty-content-api/pkg/errors"
)

const usageWindowDays = 30

// UsageHandler LLM 用量查询处理器
type UsageHandler struct {
	usage repository.LLMUsageEventRepository
	spend *quota.SpendLimitChecker
	cfg   *config.Config
}

// NewUsageHandler 创建用量处理器
func NewUsageHandler(usage repository.LLMUsageEventRepository, spend *quota.SpendLimitChecker, cfg *config.Config) *UsageHandler {
	return &UsageHandler{usage: usage, spend: spend, cfg: cfg}
}

// Get 查询调用方近 30 天的 Token 用量与花费
// @Summary 查询用量
// @Tags Usage
// @Produce json
// @Success 200 {object} dto.Response[dto.UsageResponse]
// @Router /v1/usage [get]
func (h *UsageHandler) Get(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	ctx := c.Request.Context()
	end := time.Now().UTC()
	start := end.Add(-usageWindowDays * 24 * time.Hour)

	tokens, err := h.usage.GetTokenUsage(ctx, userID, start, end)
	if err != nil {
		respondError(c, apperrors.ErrDatabaseError.WithError(err))
		return
	}

	// 花费口径与限额检查保持一致
	spend, err := h.spend.Spent(ctx, userID)
	if err != nil {
		respondError(c, apperrors.ErrDatabaseError.WithError(err))
		return
	}

	dto.Success(c, dto.UsageResponse{
		UserID:          userID,
		WindowDays:      usageWindowDays,
		TokensUsed:      tokens,
		SpendCents:      spend,
		SpendLimitCents: h.cfg.Generation.MonthlySpendLimitCents,
	})
}
