// Package entity 定义领域实体
package entity

import "time"

// TopicDescriptor 从会议转写中提取出的单个话题
type TopicDescriptor struct {
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	OffsetSeconds int    `json:"offset_seconds,omitempty"`
}

// TopicExtraction 一次话题提取的结果快照。
// 同一会议可存在多次提取，meeting_id 上按 created_at 最新的一条为准。
type TopicExtraction struct {
	ID        string            `json:"id" gorm:"type:uuid;primaryKey"`
	MeetingID string            `json:"meeting_id" gorm:"type:uuid;index;not null"`
	Topics    []TopicDescriptor `json:"topics" gorm:"type:jsonb;serializer:json;not null"`
	ModelUsed string            `json:"model_used,omitempty" gorm:"type:varchar(64)"`
	CreatedAt time.Time         `json:"created_at" gorm:"autoCreateTime"`
}

// TableName 指定表名
func (TopicExtraction) TableName() string {
	return "topic_extractions"
}

// TopicCount 返回话题数量
func (t *TopicExtraction) TopicCount() int {
	if t == nil {
		return 0
	}
	return len(t.Topics)
}

// SelectTopics 按下标挑选话题；调用方需保证下标已校验
func (t *TopicExtraction) SelectTopics(indices []int) []TopicDescriptor {
	if t == nil {
		return nil
	}
	out := make([]TopicDescriptor, 0, len(indices))
	for _, idx := range indices {
		if idx >= 0 && idx < len(t.Topics) {
			out = append(out, t.Topics[idx])
		}
	}
	return out
}
