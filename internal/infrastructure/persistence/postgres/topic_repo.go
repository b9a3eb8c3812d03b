// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"sixty-content-api/internal/domain/entity"
)

type TopicRepository struct {
	client *Client
}

func NewTopicRepository(client *Client) *TopicRepository {
	return &TopicRepository{client: client}
}

// GetLatestByMeeting 返回该会议最近一次话题提取；无记录返回 (nil, nil)
func (r *TopicRepository) GetLatestByMeeting(ctx context.Context, meetingID string) (*entity.TopicExtraction, error) {
	ctx, span := tracer.Start(ctx, "postgres.TopicRepository.GetLatestByMeeting")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var extraction entity.TopicExtraction
	err := db.Where("meeting_id = ?", meetingID).
		Order("created_at DESC").
		First(&extraction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get topic extraction: %w", err)
	}
	return &extraction, nil
}

// CreateLinks 批量写入内容-话题关联
func (r *TopicRepository) CreateLinks(ctx context.Context, links []*entity.ContentTopicLink) error {
	if len(links) == 0 {
		return nil
	}

	ctx, span := tracer.Start(ctx, "postgres.TopicRepository.CreateLinks")
	defer span.End()

	for _, link := range links {
		if link.ID == "" {
			link.ID = uuid.NewString()
		}
	}

	db := getDB(ctx, r.client.db)
	if err := db.Create(links).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create content topic links: %w", err)
	}
	return nil
}
