// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"sixty-content-api/internal/domain/entity"
)

type MeetingRepository struct {
	client *Client
}

func NewMeetingRepository(client *Client) *MeetingRepository {
	return &MeetingRepository{client: client}
}

func (r *MeetingRepository) GetByID(ctx context.Context, id string) (*entity.Meeting, error) {
	ctx, span := tracer.Start(ctx, "postgres.MeetingRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var meeting entity.Meeting
	if err := db.First(&meeting, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get meeting: %w", err)
	}
	return &meeting, nil
}
