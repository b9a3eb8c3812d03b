package quota

import (
	"context"
	"fmt"
	"time"

	"sixty-content-api/internal/domain/repository"
	apperrors "sixty-content-api/pkg/errors"
)

const spendWindow = 30 * 24 * time.Hour

// SpendLimitChecker 检查调用方近 30 天的 LLM 花费是否超过上限。
// 上限为 0 表示不限制。
type SpendLimitChecker struct {
	usageRepo  repository.LLMUsageEventRepository
	limitCents int64
	now        func() time.Time
}

func NewSpendLimitChecker(usageRepo repository.LLMUsageEventRepository, limitCents int64) *SpendLimitChecker {
	return &SpendLimitChecker{
		usageRepo:  usageRepo,
		limitCents: limitCents,
		now:        time.Now,
	}
}

// Check 在产生新的 LLM 花费前调用；超限返回 CodeSpendLimitExceeded
func (c *SpendLimitChecker) Check(ctx context.Context, userID string) error {
	if c == nil || c.usageRepo == nil || c.limitCents <= 0 || userID == "" {
		return nil
	}

	end := c.now().UTC()
	start := end.Add(-spendWindow)

	spent, err := c.usageRepo.GetSpendCents(ctx, userID, start, end)
	if err != nil {
		return apperrors.ErrDatabaseError.WithError(err)
	}
	if spent >= c.limitCents {
		return apperrors.New(apperrors.CodeSpendLimitExceeded,
			fmt.Sprintf("llm spend limit reached: spent=%d limit=%d cents", spent, c.limitCents))
	}
	return nil
}

// Spent 返回窗口内累计花费（用量查询接口使用），与 Check 共用同一个窗口
func (c *SpendLimitChecker) Spent(ctx context.Context, userID string) (int64, error) {
	if c == nil || c.usageRepo == nil || userID == "" {
		return 0, nil
	}
	end := c.now().UTC()
	start := end.Add(-spendWindow)
	return c.usageRepo.GetSpendCents(ctx, userID, start, end)
}
