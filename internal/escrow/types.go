package escrow

import (
	"github.com/shopspring/decimal"
)

// Call 单次调用上下文，由调度层提供
type Call struct {
	Caller    string          // 调用者身份
	Timestamp int64           // 逻辑时间（毫秒）
	Value     decimal.Decimal // 随调用附带的金额，仅捐款使用
	Deposit   string          // 金额的入账凭证（如链上交易哈希），同一凭证只能使用一次
}

// Project 项目元数据，创建后不可变
type Project struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Author      string          `json:"author"`
	CreateTime  int64           `json:"createTime"`
	Deadline    int64           `json:"deadline"`
	Goal        decimal.Decimal `json:"goal"`
}

// Tally 投票统计，权重为投票者的捐款金额
type Tally struct {
	Yes decimal.Decimal `json:"ovrVotedYes"`
	No  decimal.Decimal `json:"ovrVotedNo"`
}

// Outcome 投票决议结果
type Outcome int

const (
	OutcomeUndetermined Outcome = iota
	OutcomeSuccess
	OutcomeFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	default:
		return "undetermined"
	}
}

// Status 项目生命周期状态（派生，只读）
type Status string

const (
	StatusFundraising    Status = "fundraising"      // 募资中
	StatusVoting         Status = "voting"           // 投票中
	StatusSucceeded      Status = "succeeded"        // 成功，待领取
	StatusFailed         Status = "failed"           // 失败，可退款
	StatusGoalNotReached Status = "goal_not_reached" // 未达目标，可退款
	StatusClaimed        Status = "claimed"          // 已领取
)

// PayoutKind 出款类型
type PayoutKind string

const (
	PayoutClaim  PayoutKind = "claim"
	PayoutFee    PayoutKind = "fee"
	PayoutRefund PayoutKind = "refund"
)

// Payout 一笔出款及其结果
type Payout struct {
	Kind      PayoutKind
	Project   string
	To        string
	Amount    decimal.Decimal
	Timestamp int64
	Err       error
}

func isWhole(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(0))
}

// validAmount 金额必须是非负整数
func validAmount(d decimal.Decimal) bool {
	return !d.IsNegative() && isWhole(d)
}
