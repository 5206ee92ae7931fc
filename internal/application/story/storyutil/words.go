package storyutil

import "strings"

// CountWords 按空白切分统计单词数，空串为 0。
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// TailWords 取文本末尾约 n 个单词，原样保留其间空白的语义（重新以空格拼接）。
func TailWords(text string, n int) string {
	if n <= 0 {
		return ""
	}
	words := strings.Fields(text)
	if len(words) <= n {
		return strings.TrimSpace(text)
	}
	return strings.Join(words[len(words)-n:], " ")
}

// EndsProperly 判断文本是否以终结标点收尾。
// 允许结尾引号包裹标点的情况（…he said." 同样算完结）。
func EndsProperly(text string) bool {
	trimmed := strings.TrimRight(text, " \t\n\r")
	if trimmed == "" {
		return false
	}
	last := trimmed[len(trimmed)-1]
	switch last {
	case '.', '!', '?', '"', '\'':
		return true
	}
	return false
}
