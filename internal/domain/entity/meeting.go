// Package entity 定义领域实体
package entity

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Meeting 会议记录（内容生成的主体）
type Meeting struct {
	ID         string `json:"id" gorm:"type:uuid;primaryKey"`
	OwnerID    string `json:"owner_id" gorm:"type:uuid;index;not null"`
	Title      string `json:"title" gorm:"type:varchar(255);not null"`
	Transcript string `json:"transcript,omitempty" gorm:"type:text"`

	StartedAt       *time.Time `json:"started_at,omitempty"`
	DurationSeconds int        `json:"duration_seconds,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Meeting) TableName() string {
	return "meetings"
}

// TranscriptRunes 返回转写文本的有效长度（按 rune 计）
func (m *Meeting) TranscriptRunes() int {
	if m == nil {
		return 0
	}
	return utf8.RuneCountInString(strings.TrimSpace(m.Transcript))
}
