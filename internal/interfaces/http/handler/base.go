package handler

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"sixty-content-api/internal/config"
	"sixty-content-api/internal/interfaces/http/dto"
	apperrors "sixty-content-api/pkg/errors"
	"sixty-content-api/pkg/logger"
)

// resolveProviderModel 解析 LLM Provider 和 Model
func resolveProviderModel(cfg *config.Config, provider, model string) (string, string, error) {
	if cfg == nil {
		return "", "", fmt.Errorf("server config not configured")
	}

	p := strings.TrimSpace(provider)
	if p == "" {
		p = strings.TrimSpace(cfg.LLM.DefaultProvider)
	}
	if p == "" {
		return "", "", fmt.Errorf("llm provider not specified")
	}
	if len(p) > 32 {
		return "", "", fmt.Errorf("llm provider too long")
	}

	providerCfg, ok := cfg.LLM.Providers[p]
	if !ok {
		return "", "", fmt.Errorf("llm provider not found: %s", p)
	}

	m := strings.TrimSpace(model)
	if m == "" {
		m = strings.TrimSpace(providerCfg.Model)
	}
	if len(m) > 64 {
		return "", "", fmt.Errorf("llm model too long")
	}
	return p, m, nil
}

// respondError 将应用层错误映射为统一错误响应。
// 非 AppError 的内部细节不外泄，只记日志。
func respondError(c *gin.Context, err error) {
	appErr := apperrors.AsAppError(err)
	if appErr.HTTPStatus >= 500 {
		logger.Error(c.Request.Context(), "request failed", err,
			"path", c.Request.URL.Path,
			"code", string(appErr.Code),
		)
	}

	detail := &dto.ErrorDetail{
		ErrorCode: string(appErr.Code),
		Details:   appErr.Detail,
	}
	if appErr.Code == apperrors.CodeUnknown {
		// 未分类错误按内部错误处理，不透出底层信息
		dto.ErrorWithDetail(c, 500, "internal server error", &dto.ErrorDetail{
			ErrorCode: string(apperrors.CodeInternalError),
		})
		return
	}
	dto.ErrorWithDetail(c, appErr.HTTPStatus, appErr.Message, detail)
}

// currentUserID 从认证中间件注入的上下文取调用方 ID
func currentUserID(c *gin.Context) string {
	return c.GetString("user_id")
}
