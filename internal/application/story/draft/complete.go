package draft

import "shortstory-ai-api/internal/application/story/storyutil"

// softAcceptRatio 略短但已收尾的故事的放行比例
const softAcceptRatio = 0.8

// IsComplete 判定一篇故事是否完整。
// 截断信号优先：无论多长，未以终结标点收尾一律视为不完整。
// 已收尾时，字数达到 minWords 或其八成即判完整。
func IsComplete(text string, minWords int) bool {
	if text == "" {
		return false
	}
	if !storyutil.EndsProperly(text) {
		return false
	}
	wordCount := storyutil.CountWords(text)
	if wordCount >= minWords {
		return true
	}
	return float64(wordCount) >= softAcceptRatio*float64(minWords)
}
