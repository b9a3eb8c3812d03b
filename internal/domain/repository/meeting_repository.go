// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"sixty-content-api/internal/domain/entity"
)

type MeetingRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Meeting, error)
}
