// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"sixty-content-api/internal/domain/entity"
)

// GenerateContentRequest 内容生成请求
type GenerateContentRequest struct {
	Kind            string `json:"kind" binding:"required"`
	TopicIndices    []int  `json:"topic_indices" binding:"required"`
	ForceRegenerate bool   `json:"force_regenerate,omitempty"`

	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
}

// ContentResponse 单条生成内容
type ContentResponse struct {
	ID        string  `json:"id"`
	MeetingID string  `json:"meeting_id"`
	Kind      string  `json:"kind"`
	Title     string  `json:"title"`
	Body      string  `json:"body"`
	Version   int     `json:"version"`
	ParentID  *string `json:"parent_id,omitempty"`
	IsLatest  bool    `json:"is_latest"`
	CreatedAt string  `json:"created_at"`
}

// GenerateMetadata 生成过程元数据
type GenerateMetadata struct {
	ModelUsed  string `json:"model_used"`
	TokensUsed int    `json:"tokens_used"`
	CostCents  int    `json:"cost_cents"`
	Cached     bool   `json:"cached"`
	TopicsUsed int    `json:"topics_used"`
}

// GenerateContentResponse 内容生成响应
type GenerateContentResponse struct {
	Content  *ContentResponse  `json:"content"`
	Metadata *GenerateMetadata `json:"metadata"`
}

// VersionListResponse 版本链响应
type VersionListResponse struct {
	Versions []*ContentResponse `json:"versions"`
}

// UsageResponse 用量查询响应
type UsageResponse struct {
	UserID          string `json:"user_id"`
	WindowDays      int    `json:"window_days"`
	TokensUsed      int64  `json:"tokens_used"`
	SpendCents      int64  `json:"spend_cents"`
	SpendLimitCents int64  `json:"spend_limit_cents,omitempty"`
}

// FromContentEntity 由实体构建响应
func FromContentEntity(e *entity.GeneratedContent) *ContentResponse {
	if e == nil {
		return nil
	}
	return &ContentResponse{
		ID:        e.ID,
		MeetingID: e.MeetingID,
		Kind:      string(e.Kind),
		Title:     e.Title,
		Body:      e.Body,
		Version:   e.Version,
		ParentID:  e.ParentID,
		IsLatest:  e.IsLatest,
		CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// FromContentEntities 由实体列表构建响应
func FromContentEntities(items []*entity.GeneratedContent) []*ContentResponse {
	out := make([]*ContentResponse, 0, len(items))
	for _, item := range items {
		out = append(out, FromContentEntity(item))
	}
	return out
}
