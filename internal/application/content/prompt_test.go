package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"sixty-content-api/internal/domain/entity"
)

func promptFixture() (*entity.Meeting, []entity.TopicDescriptor) {
	meeting := &entity.Meeting{
		Title:      "Q3 Planning Sync",
		Transcript: "We discussed the roadmap and the new pricing tiers in depth.",
	}
	topics := []entity.TopicDescriptor{
		{Title: "Roadmap", Description: "What ships next quarter"},
		{Title: "Pricing"},
	}
	return meeting, topics
}

func TestBuildPrompt_IncludesMeetingAndTopics(t *testing.T) {
	meeting, topics := promptFixture()
	prompt := BuildPrompt(meeting, topics, entity.ContentKindBlog, 1000, 1000)

	assert.Contains(t, prompt, "Meeting: Q3 Planning Sync")
	assert.Contains(t, prompt, "1. Roadmap - What ships next quarter")
	assert.Contains(t, prompt, "2. Pricing\n")
	assert.Contains(t, prompt, kindInstructions[entity.ContentKindBlog])
	assert.Contains(t, prompt, "Transcript:\n"+meeting.Transcript)
	assert.NotContains(t, prompt, truncationMarker)
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	meeting, topics := promptFixture()
	a := BuildPrompt(meeting, topics, entity.ContentKindSocial, 1000, 1000)
	b := BuildPrompt(meeting, topics, entity.ContentKindSocial, 1000, 1000)
	assert.Equal(t, a, b)
}

func TestBuildPrompt_TruncatesLongTranscript(t *testing.T) {
	meeting, topics := promptFixture()
	meeting.Transcript = strings.Repeat("字", 500)

	prompt := BuildPrompt(meeting, topics, entity.ContentKindVideo, 100, 100)

	assert.Contains(t, prompt, strings.Repeat("字", 100)+truncationMarker)
	assert.NotContains(t, prompt, strings.Repeat("字", 101))
}

func TestBuildExcerpt_AtThresholdKeepsFullText(t *testing.T) {
	text := strings.Repeat("a", 100)
	assert.Equal(t, text, buildExcerpt(text, 100, 50))
}

func TestBuildExcerpt_ZeroThresholdDisablesTruncation(t *testing.T) {
	text := strings.Repeat("a", 100)
	assert.Equal(t, text, buildExcerpt(text, 0, 10))
}
