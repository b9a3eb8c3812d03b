// Package entity 定义领域实体
package entity

import "time"

// ContentTopicLink 内容与所选话题的关联行。
// 由编排器在主记录落库后以 best-effort 方式写入，写失败不回滚主记录。
type ContentTopicLink struct {
	ID         string    `json:"id" gorm:"type:uuid;primaryKey"`
	ContentID  string    `json:"content_id" gorm:"type:uuid;index;not null"`
	TopicIndex int       `json:"topic_index" gorm:"not null"`
	TopicTitle string    `json:"topic_title" gorm:"type:varchar(255)"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName 指定表名
func (ContentTopicLink) TableName() string {
	return "content_topic_links"
}
