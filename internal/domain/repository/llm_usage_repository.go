// Package repository 定义数据访问层接口
package repository

import (
	"context"
	"time"

	"sixty-content-api/internal/domain/entity"
)

type LLMUsageEventRepository interface {
	Create(ctx context.Context, event *entity.LLMUsageEvent) error
	GetTokenUsage(ctx context.Context, userID string, startInclusive, endExclusive time.Time) (int64, error)
	GetSpendCents(ctx context.Context, userID string, startInclusive, endExclusive time.Time) (int64, error)
}
