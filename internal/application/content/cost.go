// Package content 实现内容生成编排核心
package content

import (
	"math"

	"sixty-content-api/internal/config"
)

// 1 美分 = 1e9 纳美分。费率在构造时换算为整数纳美分，
// 计费全程整数运算，恰好整美分的金额不受浮点误差影响。
const nanoCentsPerCent = 1_000_000_000

// CostModel 按 Token 用量计算成本（美分）。
// 费率在构造时注入，便于测试时固定费率做确定性断言。
type CostModel struct {
	inputNanoCentsPerToken  int64
	outputNanoCentsPerToken int64
}

// NewCostModel 由每百万 Token 的美元价格构造。
// 每 Token 纳美分 = 美元价 × 100 美分 × 1e9 纳美分 / 1e6 Token。
func NewCostModel(cfg *config.PricingConfig) *CostModel {
	return &CostModel{
		inputNanoCentsPerToken:  int64(math.Round(cfg.InputPerMillion * 100_000)),
		outputNanoCentsPerToken: int64(math.Round(cfg.OutputPerMillion * 100_000)),
	}
}

// ComputeCostCents 计算单次调用成本，向上取整到整数美分。
// 取整方向必须是 ceiling：不足一美分的部分不能被抹掉。
// 负数入参视为 0。
func (m *CostModel) ComputeCostCents(inputTokens, outputTokens int) int {
	if inputTokens < 0 {
		inputTokens = 0
	}
	if outputTokens < 0 {
		outputTokens = 0
	}
	total := int64(inputTokens)*m.inputNanoCentsPerToken + int64(outputTokens)*m.outputNanoCentsPerToken
	return int((total + nanoCentsPerCent - 1) / nanoCentsPerCent)
}
