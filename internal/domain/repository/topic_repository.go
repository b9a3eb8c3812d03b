// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"sixty-content-api/internal/domain/entity"
)

type TopicRepository interface {
	// GetLatestByMeeting 返回该会议最近一次话题提取；无记录返回 (nil, nil)
	GetLatestByMeeting(ctx context.Context, meetingID string) (*entity.TopicExtraction, error)
	// CreateLinks 批量写入内容-话题关联
	CreateLinks(ctx context.Context, links []*entity.ContentTopicLink) error
}
