// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"sixty-content-api/internal/domain/entity"
	"sixty-content-api/internal/domain/repository"
	apperrors "sixty-content-api/pkg/errors"
	"sixty-content-api/pkg/metrics"
)

type ContentRepository struct {
	client *Client
}

func NewContentRepository(client *Client) *ContentRepository {
	return &ContentRepository{client: client}
}

// FindLatest 返回版本链当前最新记录；链为空返回 (nil, nil)
func (r *ContentRepository) FindLatest(ctx context.Context, meetingID string, kind entity.ContentKind) (*entity.GeneratedContent, error) {
	ctx, span := tracer.Start(ctx, "postgres.ContentRepository.FindLatest")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var content entity.GeneratedContent
	err := db.Where("meeting_id = ? AND kind = ? AND is_latest = ?", meetingID, kind, true).
		First(&content).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to find latest content: %w", err)
	}
	return &content, nil
}

func (r *ContentRepository) GetByID(ctx context.Context, id string) (*entity.GeneratedContent, error) {
	ctx, span := tracer.Start(ctx, "postgres.ContentRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var content entity.GeneratedContent
	if err := db.First(&content, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get content: %w", err)
	}
	return &content, nil
}

// ListVersions 按 version 降序返回版本链
func (r *ContentRepository) ListVersions(ctx context.Context, meetingID string, kind entity.ContentKind, pagination repository.Pagination) (*repository.PagedResult[*entity.GeneratedContent], error) {
	ctx, span := tracer.Start(ctx, "postgres.ContentRepository.ListVersions")
	defer span.End()

	db := getDB(ctx, r.client.db)
	query := db.Model(&entity.GeneratedContent{}).
		Where("meeting_id = ? AND kind = ?", meetingID, kind)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count content versions: %w", err)
	}

	var versions []*entity.GeneratedContent
	if err := query.Order("version DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&versions).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list content versions: %w", err)
	}

	return repository.NewPagedResult(versions, total, pagination), nil
}

// AppendVersion 原子追加新版本：事务内读取链上最新记录、将其 is_latest
// 置 false、以 version+1 插入。并发写撞到 (meeting_id, kind, version)
// 唯一约束时重试一次，仍冲突返回 ErrWriteContention。
func (r *ContentRepository) AppendVersion(ctx context.Context, content *entity.GeneratedContent) (*entity.GeneratedContent, error) {
	ctx, span := tracer.Start(ctx, "postgres.ContentRepository.AppendVersion")
	defer span.End()

	for attempt := 0; attempt < 2; attempt++ {
		created, err := r.appendOnce(ctx, content)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to append content version: %w", err)
		}
		if attempt == 0 {
			metrics.VersionAppendRetries.Inc()
			continue
		}
	}

	metrics.VersionAppendContention.Inc()
	return nil, apperrors.ErrWriteContention
}

func (r *ContentRepository) appendOnce(ctx context.Context, content *entity.GeneratedContent) (*entity.GeneratedContent, error) {
	db := getDB(ctx, r.client.db)

	fresh := *content
	err := db.Transaction(func(tx *gorm.DB) error {
		var prev entity.GeneratedContent
		var prevPtr *entity.GeneratedContent
		err := tx.Where("meeting_id = ? AND kind = ? AND is_latest = ?", content.MeetingID, content.Kind, true).
			First(&prev).Error
		if err == nil {
			prevPtr = &prev
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if prevPtr != nil {
			if err := tx.Model(&entity.GeneratedContent{}).
				Where("id = ?", prevPtr.ID).
				Update("is_latest", false).Error; err != nil {
				return err
			}
		}

		version, parentID := entity.NextVersion(prevPtr)

		// 软删除的行仍占用版本号，取链上历史最大值避免撞唯一约束
		var maxVersion int
		if err := tx.Unscoped().Model(&entity.GeneratedContent{}).
			Where("meeting_id = ? AND kind = ?", content.MeetingID, content.Kind).
			Select("COALESCE(MAX(version),0)").
			Scan(&maxVersion).Error; err != nil {
			return err
		}
		if maxVersion >= version {
			version = maxVersion + 1
		}

		fresh.Version = version
		fresh.ParentID = parentID
		fresh.IsLatest = true
		if fresh.ID == "" {
			fresh.ID = uuid.NewString()
		}
		return tx.Create(&fresh).Error
	})
	if err != nil {
		return nil, err
	}
	return &fresh, nil
}

// SoftDelete 软删除单个版本；删除的是最新版时，链上前驱重新成为最新
func (r *ContentRepository) SoftDelete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.ContentRepository.SoftDelete")
	defer span.End()

	db := getDB(ctx, r.client.db)
	err := db.Transaction(func(tx *gorm.DB) error {
		var content entity.GeneratedContent
		if err := tx.First(&content, "id = ?", id).Error; err != nil {
			return err
		}

		if err := tx.Delete(&content).Error; err != nil {
			return err
		}

		if !content.IsLatest {
			return nil
		}

		// 提升剩余最高版本为新的最新记录
		var prev entity.GeneratedContent
		err := tx.Where("meeting_id = ? AND kind = ?", content.MeetingID, content.Kind).
			Order("version DESC").
			First(&prev).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		return tx.Model(&entity.GeneratedContent{}).
			Where("id = ?", prev.ID).
			Update("is_latest", true).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrContentNotFound
		}
		span.RecordError(err)
		return fmt.Errorf("failed to soft delete content: %w", err)
	}
	return nil
}
