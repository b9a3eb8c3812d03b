package content

import (
	"regexp"
	"strings"

	"sixty-content-api/internal/domain/entity"
)

const socialTitleMaxRunes = 80

var headingPattern = regexp.MustCompile(`^#{1,2}\s+(.+)$`)

// 无标题时按类别使用的兜底标题
var defaultTitles = map[entity.ContentKind]string{
	entity.ContentKindSocial: "Social Post",
	entity.ContentKindBlog:   "Blog Article",
	entity.ContentKindVideo:  "Video Script",
	entity.ContentKindEmail:  "Email Draft",
}

// ExtractedContent 标题提取结果
type ExtractedContent struct {
	Title string
	Body  string
}

// ExtractTitleAndBody 从模型输出里拆出标题与正文。纯函数，永不失败：
//  1. 取首个 markdown 一级/二级标题作为 title，其余行为 body；
//  2. 无标题且类别为 social 时，首行截断作 title，全文保留为 body
//     （短内容的开头一行既是钩子也是标题，不从正文剔除）；
//  3. 其他类别无标题时用类别兜底标题，全文为 body。
func ExtractTitleAndBody(rawText string, kind entity.ContentKind) ExtractedContent {
	trimmed := strings.TrimSpace(rawText)
	lines := strings.Split(trimmed, "\n")

	for i, line := range lines {
		m := headingPattern.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		rest := append(append([]string{}, lines[:i]...), lines[i+1:]...)
		return ExtractedContent{
			Title: strings.TrimSpace(m[1]),
			Body:  strings.TrimSpace(strings.Join(rest, "\n")),
		}
	}

	if kind == entity.ContentKindSocial {
		first := ""
		if len(lines) > 0 {
			first = strings.TrimSpace(lines[0])
		}
		return ExtractedContent{
			Title: truncateRunes(first, socialTitleMaxRunes),
			Body:  trimmed,
		}
	}

	title, ok := defaultTitles[kind]
	if !ok {
		title = "Generated Content"
	}
	return ExtractedContent{Title: title, Body: trimmed}
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
