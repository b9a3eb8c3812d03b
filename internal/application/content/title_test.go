package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"sixty-content-api/internal/domain/entity"
)

func TestExtractTitleAndBody_MarkdownHeading(t *testing.T) {
	got := ExtractTitleAndBody("# Quarterly Roadmap\n\nWe shipped three features.", entity.ContentKindBlog)
	assert.Equal(t, "Quarterly Roadmap", got.Title)
	assert.Equal(t, "We shipped three features.", got.Body)
}

func TestExtractTitleAndBody_H2Heading(t *testing.T) {
	got := ExtractTitleAndBody("## Sprint Recap\nDetails below.", entity.ContentKindEmail)
	assert.Equal(t, "Sprint Recap", got.Title)
	assert.Equal(t, "Details below.", got.Body)
}

func TestExtractTitleAndBody_HeadingNotOnFirstLine(t *testing.T) {
	raw := "intro line\n# Real Title\nrest of text"
	got := ExtractTitleAndBody(raw, entity.ContentKindBlog)
	assert.Equal(t, "Real Title", got.Title)
	// 标题行被剔除，其余行保留
	assert.Equal(t, "intro line\nrest of text", got.Body)
}

func TestExtractTitleAndBody_DeepHeadingIgnored(t *testing.T) {
	// 三级以下标题不算标题
	got := ExtractTitleAndBody("### minor note\nbody", entity.ContentKindBlog)
	assert.Equal(t, "Blog Article", got.Title)
	assert.Equal(t, "### minor note\nbody", got.Body)
}

func TestExtractTitleAndBody_SocialFallbackUsesFirstLine(t *testing.T) {
	raw := "Big launch today!\nMore details in thread."
	got := ExtractTitleAndBody(raw, entity.ContentKindSocial)
	assert.Equal(t, "Big launch today!", got.Title)
	// social 的首行既是标题也是正文开头，不从正文剔除
	assert.Equal(t, raw, got.Body)
}

func TestExtractTitleAndBody_SocialFallbackTruncates(t *testing.T) {
	first := strings.Repeat("很", 120)
	got := ExtractTitleAndBody(first+"\nsecond line", entity.ContentKindSocial)
	assert.Equal(t, 80, len([]rune(got.Title)))
	assert.Equal(t, strings.Repeat("很", 80), got.Title)
	assert.Contains(t, got.Body, "second line")
}

func TestExtractTitleAndBody_DefaultTitles(t *testing.T) {
	tests := []struct {
		kind entity.ContentKind
		want string
	}{
		{entity.ContentKindBlog, "Blog Article"},
		{entity.ContentKindVideo, "Video Script"},
		{entity.ContentKindEmail, "Email Draft"},
	}
	for _, tt := range tests {
		got := ExtractTitleAndBody("no heading anywhere", tt.kind)
		assert.Equal(t, tt.want, got.Title)
		assert.Equal(t, "no heading anywhere", got.Body)
	}
}

func TestExtractTitleAndBody_NeverFails(t *testing.T) {
	got := ExtractTitleAndBody("   \n  ", entity.ContentKindBlog)
	assert.Equal(t, "Blog Article", got.Title)
	assert.Equal(t, "", got.Body)
}
