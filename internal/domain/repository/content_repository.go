// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"sixty-content-api/internal/domain/entity"
)

// ContentReader 生成内容的只读访问
type ContentReader interface {
	// FindLatest 返回版本链上的最新记录；链为空返回 (nil, nil)
	FindLatest(ctx context.Context, meetingID string, kind entity.ContentKind) (*entity.GeneratedContent, error)
	GetByID(ctx context.Context, id string) (*entity.GeneratedContent, error)
	// ListVersions 按 version 降序返回整条版本链
	ListVersions(ctx context.Context, meetingID string, kind entity.ContentKind, pagination Pagination) (*PagedResult[*entity.GeneratedContent], error)
}

// ContentWriter 生成内容的写入访问
type ContentWriter interface {
	// AppendVersion 向 (meeting_id, kind) 版本链原子追加一个新版本：
	// 取当前最新、将其 is_latest 置 false、以 version+1 插入新记录。
	// 并发追加撞到 (meeting_id, kind, version) 唯一约束时重试一次，
	// 仍冲突则返回 write contention 错误。返回落库后的新记录。
	AppendVersion(ctx context.Context, content *entity.GeneratedContent) (*entity.GeneratedContent, error)
	// SoftDelete 软删除单个版本；若删除的是最新版，链上前驱重新成为最新
	SoftDelete(ctx context.Context, id string) error
}

// ContentRepository 生成内容仓储
type ContentRepository interface {
	ContentReader
	ContentWriter
}
