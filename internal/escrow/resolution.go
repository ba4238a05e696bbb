package escrow

import "github.com/shopspring/decimal"

// Window 投票窗口 [Start, End]
type Window struct {
	Start     int64
	End       int64
	Unbounded bool
}

// Closed 窗口在 now 时刻是否已结束
func (w Window) Closed(now int64) bool {
	return !w.Unbounded && now > w.End
}

var two = decimal.NewFromInt(2)

// Resolve 根据预算、投票和时间给出决议结果，纯函数。
//
// 未达到目标的项目不进入投票，调用方需要先单独处理；这里返回 OutcomeFailure。
// 检查顺序：赞成过半 -> 反对过半或平票 -> 窗口超时 -> 未定。
// 平票判为失败，超时未决也判为失败。
func Resolve(budget, goal decimal.Decimal, tally Tally, w Window, now int64) Outcome {
	if budget.LessThan(goal) {
		return OutcomeFailure
	}
	if two.Mul(tally.Yes).GreaterThan(budget) {
		return OutcomeSuccess
	}
	if two.Mul(tally.No).GreaterThanOrEqual(budget) {
		return OutcomeFailure
	}
	if w.Closed(now) {
		return OutcomeFailure
	}
	return OutcomeUndetermined
}
