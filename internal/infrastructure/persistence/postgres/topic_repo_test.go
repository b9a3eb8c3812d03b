package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sixty-content-api/internal/domain/entity"
)

func TestTopicRepository_GetLatestByMeeting(t *testing.T) {
	client := newTestClient(t)
	repo := NewTopicRepository(client)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	older := &entity.TopicExtraction{
		ID:        "extraction-old",
		MeetingID: "meeting-1",
		Topics:    []entity.TopicDescriptor{{Title: "Old Topic"}},
		CreatedAt: base,
	}
	newer := &entity.TopicExtraction{
		ID:        "extraction-new",
		MeetingID: "meeting-1",
		Topics: []entity.TopicDescriptor{
			{Title: "Roadmap", Description: "Next quarter"},
			{Title: "Pricing"},
		},
		CreatedAt: base.Add(time.Hour),
	}
	require.NoError(t, client.DB().Create(older).Error)
	require.NoError(t, client.DB().Create(newer).Error)

	got, err := repo.GetLatestByMeeting(ctx, "meeting-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "extraction-new", got.ID)
	assert.Equal(t, 2, got.TopicCount())
	assert.Equal(t, "Roadmap", got.Topics[0].Title)

	missing, err := repo.GetLatestByMeeting(ctx, "meeting-none")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestTopicRepository_CreateLinks(t *testing.T) {
	client := newTestClient(t)
	repo := NewTopicRepository(client)
	ctx := context.Background()

	links := []*entity.ContentTopicLink{
		{ContentID: "gen-1", TopicIndex: 0, TopicTitle: "Roadmap"},
		{ContentID: "gen-1", TopicIndex: 2, TopicTitle: "Hiring"},
	}
	require.NoError(t, repo.CreateLinks(ctx, links))

	// ID 由仓储填充
	for _, link := range links {
		assert.NotEmpty(t, link.ID)
	}

	var count int64
	require.NoError(t, client.DB().Model(&entity.ContentTopicLink{}).
		Where("content_id = ?", "gen-1").Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestTopicRepository_CreateLinks_EmptySliceIsNoop(t *testing.T) {
	repo := NewTopicRepository(newTestClient(t))
	assert.NoError(t, repo.CreateLinks(context.Background(), nil))
}
