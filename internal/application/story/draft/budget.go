// Package draft 实现初稿生成：token 预算、完整性判定与续写控制
package draft

// token 预算的估算系数
const (
	// charsPerToken 英文文本的经验字符/token 比
	charsPerToken = 4.0
	// bufferMult 估算值的安全放大系数
	bufferMult = 1.05
	// bufferAdd 估算值的固定补偿量
	bufferAdd = 10
	// tokensPerWord 输出字数换算 token 的经验比
	tokensPerWord = 1.5
	// contextUsableRatio 上下文窗口中允许占用的比例，剩余留给对齐与停止标记
	contextUsableRatio = 0.8
)

// BudgetCalculator 依据模型窗口限制计算单次调用的输出 token 预算
type BudgetCalculator struct {
	contextWindow  int
	minTokens      int
	providerMaxOut int
}

// NewBudgetCalculator 创建预算计算器
// contextWindow 为模型上下文窗口，minTokens/providerMaxOut 为输出预算的下/上限
func NewBudgetCalculator(contextWindow, minTokens, providerMaxOut int) *BudgetCalculator {
	return &BudgetCalculator{
		contextWindow:  contextWindow,
		minTokens:      minTokens,
		providerMaxOut: providerMaxOut,
	}
}

// EstimateTokens 粗估一段文本的 token 数，空文本为 0
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	return int(float64(len(text))/charsPerToken*bufferMult + bufferAdd)
}

// TokensForWords 估算写出 targetWords 个单词所需的输出 token 数
func TokensForWords(targetWords int) int {
	return int(float64(targetWords)*tokensPerWord*bufferMult + bufferAdd)
}

// MaxOutputTokens 计算本次调用的输出 token 预算
// targetWords 为 0 表示没有明确的目标字数，只受窗口余量约束。
// 窗口被提示词占满时不报错，回落到 minTokens 由上游记录告警。
func (c *BudgetCalculator) MaxOutputTokens(prompt, systemPrompt string, targetWords int) int {
	promptTokens := EstimateTokens(prompt) + EstimateTokens(systemPrompt)
	available := int(float64(c.contextWindow)*contextUsableRatio) - promptTokens

	budget := available
	if targetWords > 0 {
		needed := TokensForWords(targetWords)
		if needed < budget {
			budget = needed
		}
	}
	if budget > c.providerMaxOut {
		budget = c.providerMaxOut
	}
	if budget < c.minTokens {
		budget = c.minTokens
	}
	return budget
}

// Overflowed 报告提示词是否已占满可用窗口
func (c *BudgetCalculator) Overflowed(prompt, systemPrompt string) bool {
	promptTokens := EstimateTokens(prompt) + EstimateTokens(systemPrompt)
	return int(float64(c.contextWindow)*contextUsableRatio)-promptTokens <= 0
}
