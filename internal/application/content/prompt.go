package content

import (
	"fmt"
	"strings"

	"sixty-content-api/internal/domain/entity"
)

const truncationMarker = "\n\n[transcript truncated]"

// 各类别的生成指令
var kindInstructions = map[entity.ContentKind]string{
	entity.ContentKindSocial: "Write a short, punchy social media post (under 280 words) that highlights the key insight. Start with a hook line.",
	entity.ContentKindBlog:   "Write a well-structured blog article with a markdown H1 title, an introduction, subheadings, and a conclusion.",
	entity.ContentKindVideo:  "Write a video script with a markdown H1 title, an opening hook, numbered scene beats, and a closing call to action.",
	entity.ContentKindEmail:  "Write a marketing email with a markdown H1 subject line, a personal opening, 2-3 short paragraphs, and a call to action.",
}

// BuildPrompt 从会议元数据、所选话题与转写摘录确定性地构建生成提示词。
// 同样的输入必须产生字节相同的提示词，方便排查与回归比对。
func BuildPrompt(meeting *entity.Meeting, topics []entity.TopicDescriptor, kind entity.ContentKind, thresholdRunes, excerptRunes int) string {
	var b strings.Builder

	b.WriteString("You are a marketing content writer. ")
	b.WriteString(kindInstructions[kind])
	b.WriteString("\n\n")

	b.WriteString("Meeting: ")
	b.WriteString(strings.TrimSpace(meeting.Title))
	b.WriteString("\n\n")

	b.WriteString("Focus on these discussion topics:\n")
	for i, t := range topics {
		b.WriteString(fmt.Sprintf("%d. %s", i+1, strings.TrimSpace(t.Title)))
		if desc := strings.TrimSpace(t.Description); desc != "" {
			b.WriteString(" - ")
			b.WriteString(desc)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString("Transcript:\n")
	b.WriteString(buildExcerpt(meeting.Transcript, thresholdRunes, excerptRunes))

	return b.String()
}

// buildExcerpt 控制提示词体量：转写低于阈值时整段使用，
// 否则取固定长度前缀并附截断标记。
func buildExcerpt(transcript string, thresholdRunes, excerptRunes int) string {
	trimmed := strings.TrimSpace(transcript)
	runes := []rune(trimmed)
	if thresholdRunes <= 0 || len(runes) <= thresholdRunes {
		return trimmed
	}
	if excerptRunes > len(runes) {
		excerptRunes = len(runes)
	}
	return string(runes[:excerptRunes]) + truncationMarker
}
