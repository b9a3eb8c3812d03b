package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseContentKind(t *testing.T) {
	for _, kind := range ContentKinds() {
		got, err := ParseContentKind(string(kind))
		require.NoError(t, err)
		assert.Equal(t, kind, got)
	}

	_, err := ParseContentKind("tweet")
	assert.Error(t, err)
	_, err = ParseContentKind("")
	assert.Error(t, err)
	// 大小写敏感
	_, err = ParseContentKind("Blog")
	assert.Error(t, err)
}

func TestNextVersion(t *testing.T) {
	version, parentID := NextVersion(nil)
	assert.Equal(t, 1, version)
	assert.Nil(t, parentID)

	prev := &GeneratedContent{ID: "gen-3", Version: 3}
	version, parentID = NextVersion(prev)
	assert.Equal(t, 4, version)
	require.NotNil(t, parentID)
	assert.Equal(t, "gen-3", *parentID)
}

func TestMeetingTranscriptRunes(t *testing.T) {
	assert.Equal(t, 0, (*Meeting)(nil).TranscriptRunes())
	assert.Equal(t, 0, (&Meeting{Transcript: "   \n "}).TranscriptRunes())
	assert.Equal(t, 4, (&Meeting{Transcript: " 会议记录 "}).TranscriptRunes())
}

func TestTopicExtraction_SelectTopics(t *testing.T) {
	extraction := &TopicExtraction{Topics: []TopicDescriptor{
		{Title: "Roadmap"},
		{Title: "Pricing"},
		{Title: "Hiring"},
	}}

	assert.Equal(t, 3, extraction.TopicCount())

	selected := extraction.SelectTopics([]int{2, 0})
	require.Len(t, selected, 2)
	assert.Equal(t, "Hiring", selected[0].Title)
	assert.Equal(t, "Roadmap", selected[1].Title)

	// 越界下标被忽略（调用方应事先校验）
	assert.Len(t, extraction.SelectTopics([]int{5}), 0)
	assert.Equal(t, 0, (*TopicExtraction)(nil).TopicCount())
}
