// Package entity 定义领域实体
package entity

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ContentKind 营销内容类别
type ContentKind string

const (
	ContentKindSocial ContentKind = "social"
	ContentKindBlog   ContentKind = "blog"
	ContentKindVideo  ContentKind = "video"
	ContentKindEmail  ContentKind = "email"
)

// ParseContentKind 校验并解析内容类别
func ParseContentKind(s string) (ContentKind, error) {
	switch ContentKind(s) {
	case ContentKindSocial, ContentKindBlog, ContentKindVideo, ContentKindEmail:
		return ContentKind(s), nil
	default:
		return "", fmt.Errorf("invalid content kind: %q", s)
	}
}

// ContentKinds 返回全部合法类别
func ContentKinds() []ContentKind {
	return []ContentKind{ContentKindSocial, ContentKindBlog, ContentKindVideo, ContentKindEmail}
}

// GeneratedContent 一条生成内容的单个版本。
// 同一 (meeting_id, kind) 构成一条版本链：version 从 1 起逐一递增，
// parent_id 指向链上前驱（版本 1 为 null），且链上恰有一条未删除记录 is_latest=true。
// 记录创建后不可变；重新生成追加新版本而不是原地修改。
type GeneratedContent struct {
	ID        string      `json:"id" gorm:"type:uuid;primaryKey"`
	MeetingID string      `json:"meeting_id" gorm:"type:uuid;not null;index:idx_content_chain,priority:1;uniqueIndex:uniq_content_version,priority:1"`
	Kind      ContentKind `json:"kind" gorm:"type:varchar(16);not null;index:idx_content_chain,priority:2;uniqueIndex:uniq_content_version,priority:2"`

	Title string `json:"title" gorm:"type:varchar(255);not null"`
	Body  string `json:"body" gorm:"type:text;not null"`

	Version  int     `json:"version" gorm:"not null;uniqueIndex:uniq_content_version,priority:3"`
	ParentID *string `json:"parent_id,omitempty" gorm:"type:uuid"`
	IsLatest bool    `json:"is_latest" gorm:"not null;default:false;index:idx_content_chain,priority:3"`

	ModelUsed  string `json:"model_used" gorm:"type:varchar(64);not null"`
	TokensUsed int    `json:"tokens_used" gorm:"not null;default:0"`
	CostCents  int    `json:"cost_cents" gorm:"not null;default:0"`

	CreatedBy string         `json:"created_by,omitempty" gorm:"type:uuid"`
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// TableName 指定表名
func (GeneratedContent) TableName() string {
	return "generated_contents"
}

// NextVersion 由当前最新版本派生链上下一个版本号与父指针。
// prev 为 nil 表示链为空，返回 (1, nil)。
func NextVersion(prev *GeneratedContent) (int, *string) {
	if prev == nil {
		return 1, nil
	}
	parentID := prev.ID
	return prev.Version + 1, &parentID
}
