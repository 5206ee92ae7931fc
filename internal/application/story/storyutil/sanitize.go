package storyutil

import (
	"regexp"
	"strings"
)

// sanitizeRule 一条有序的清洗规则
type sanitizeRule struct {
	name    string
	pattern *regexp.Regexp
	repl    string
}

// metadataRules 去除模型泄漏的元数据头。
// 逐行匹配，命中行连同其后的空行一并删除。
var metadataRules = []sanitizeRule{
	{
		name:    "heading_title",
		pattern: regexp.MustCompile(`(?m)^#{1,6}\s*(?:Story|Title|The Story)\s*:?\s*.*\n?\n?`),
		repl:    "",
	},
	{
		name:    "bold_label",
		pattern: regexp.MustCompile(`(?m)^\*\*(?:Story|Title|Word Count)\s*:?\*\*\s*:?\s*.*\n?\n?`),
		repl:    "",
	},
	{
		name:    "plain_label",
		pattern: regexp.MustCompile(`(?m)^(?:Story|Title|Word Count)\s*:\s*.*\n?\n?`),
		repl:    "",
	},
}

// markdownRules 去除 Markdown 记号，保留内层文字。
// 顺序敏感：链接先于强调，粗体先于斜体。
var markdownRules = []sanitizeRule{
	{
		name:    "link",
		pattern: regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`),
		repl:    "$1",
	},
	{
		name:    "heading_marker",
		pattern: regexp.MustCompile(`(?m)^#{1,6}\s+`),
		repl:    "",
	},
	{
		name:    "bold_asterisk",
		pattern: regexp.MustCompile(`\*\*([^*]+)\*\*`),
		repl:    "$1",
	},
	{
		name:    "bold_underscore",
		pattern: regexp.MustCompile(`__([^_]+)__`),
		repl:    "$1",
	},
	{
		name:    "italic_asterisk",
		pattern: regexp.MustCompile(`\*([^*\n]+)\*`),
		repl:    "$1",
	},
	{
		name:    "italic_underscore",
		pattern: regexp.MustCompile(`\b_([^_\n]+)_\b`),
		repl:    "$1",
	},
}

func applyRules(text string, rules []sanitizeRule) string {
	for _, r := range rules {
		text = r.pattern.ReplaceAllString(text, r.repl)
	}
	return text
}

// StripMetadata 去除模型输出里泄漏的标题与标签行，幂等。
func StripMetadata(text string) string {
	if text == "" {
		return text
	}
	cleaned := applyRules(text, metadataRules)
	// 删除行之后可能留下的孤立空行
	cleaned = regexp.MustCompile(`^\n+`).ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}

// CleanMarkdown 去除 Markdown 记号但保留正文，幂等。
func CleanMarkdown(text string) string {
	if text == "" {
		return text
	}
	return applyRules(text, markdownRules)
}

// Sanitize 对模型产出做完整清洗：先去元数据，再去 Markdown 记号。
func Sanitize(text string) string {
	return strings.TrimSpace(CleanMarkdown(StripMetadata(text)))
}
