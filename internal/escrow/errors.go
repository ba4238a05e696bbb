package escrow

import (
	"errors"
	"fmt"
)

// Code 机器可读的错误码
type Code string

const (
	// 存在性
	CodeProjectDoesntExist Code = "PROJECT_DOESNT_EXIST"
	CodeAlreadyExists      Code = "ALREADY_EXISTS"

	// 时间
	CodeDeadlinePassed       Code = "DEADLINE_PASSED"
	CodeDeadlineNotPassedYet Code = "DEADLINE_NOT_PASSED_YET"
	CodeVotingWindowClosed   Code = "VOTING_WINDOW_CLOSED"
	CodeDeadlineTooEarly     Code = "DEADLINE_TOO_EARLY"

	// 参数
	CodeNameTooLong        Code = "NAME_TOO_LONG"
	CodeDescriptionTooLong Code = "DESCRIPTION_TOO_LONG"
	CodeInvalidName        Code = "INVALID_NAME"
	CodeInvalidGoal        Code = "INVALID_GOAL"
	CodeInvalidAmount      Code = "INVALID_AMOUNT"
	CodeInvalidCaller      Code = "INVALID_CALLER"
	CodeInvalidDeposit     Code = "INVALID_DEPOSIT"

	// 权限
	CodeNotAuthor    Code = "NOT_AUTHOR"
	CodeSelfDonation Code = "SELF_DONATION"

	// 状态 / 重放
	CodeAlreadyVoted      Code = "ALREADY_VOTED"
	CodeNoSuchVote        Code = "NO_SUCH_VOTE"
	CodeNothingToVoteWith Code = "NOTHING_TO_VOTE_WITH"
	CodeAlreadyClaimed    Code = "ALREADY_CLAIMED"
	CodeAlreadyRefunded   Code = "ALREADY_REFUNDED"
	CodeNoFundsToRefund   Code = "NO_FUNDS_TO_REFUND"
	CodeDepositUsed       Code = "DEPOSIT_USED"

	// 结果
	CodeCampaignSucceeded Code = "CAMPAIGN_SUCCEEDED"
	CodeCampaignFailed    Code = "CAMPAIGN_FAILED"
	CodeResultUnknown     Code = "RESULT_UNKNOWN"
	CodeGoalNotReached    Code = "GOAL_NOT_REACHED"

	// 转账
	CodeTransferFailed Code = "TRANSFER_FAILED"

	CodeInternal Code = "INTERNAL"
)

// Error 领域错误，errors.Is 按错误码匹配
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is 按错误码比较
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

func newError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func wrapError(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// internal 包装存储层错误
func internal(op string, cause error) *Error {
	return wrapError(CodeInternal, op, cause)
}

var (
	ErrProjectDoesntExist = newError(CodeProjectDoesntExist, "项目不存在")
	ErrAlreadyExists      = newError(CodeAlreadyExists, "项目名称已存在")

	ErrDeadlinePassed       = newError(CodeDeadlinePassed, "项目已截止，无法捐款")
	ErrDeadlineNotPassedYet = newError(CodeDeadlineNotPassedYet, "项目尚未截止")
	ErrVotingWindowClosed   = newError(CodeVotingWindowClosed, "投票窗口已关闭")
	ErrDeadlineTooEarly     = newError(CodeDeadlineTooEarly, "截止时间必须晚于当前时间")

	ErrNameTooLong        = newError(CodeNameTooLong, "项目名称过长")
	ErrDescriptionTooLong = newError(CodeDescriptionTooLong, "项目描述过长")
	ErrInvalidName        = newError(CodeInvalidName, "项目名称不能为空")
	ErrInvalidGoal        = newError(CodeInvalidGoal, "目标金额必须为正整数")
	ErrInvalidAmount      = newError(CodeInvalidAmount, "金额必须为非负整数")
	ErrInvalidCaller      = newError(CodeInvalidCaller, "调用者身份无效")
	ErrInvalidDeposit     = newError(CodeInvalidDeposit, "入账凭证无效")

	ErrNotAuthor    = newError(CodeNotAuthor, "只有项目作者可以领取")
	ErrSelfDonation = newError(CodeSelfDonation, "作者不能给自己的项目捐款")

	ErrAlreadyVoted      = newError(CodeAlreadyVoted, "已经投过票")
	ErrNoSuchVote        = newError(CodeNoSuchVote, "该地址没有投票")
	ErrNothingToVoteWith = newError(CodeNothingToVoteWith, "没有捐款，无法投票")
	ErrAlreadyClaimed    = newError(CodeAlreadyClaimed, "资金已被领取")
	ErrAlreadyRefunded   = newError(CodeAlreadyRefunded, "该地址已经退款")
	ErrNoFundsToRefund   = newError(CodeNoFundsToRefund, "没有可退款的资金")
	ErrDepositUsed       = newError(CodeDepositUsed, "入账凭证已被使用")

	ErrCampaignSucceeded = newError(CodeCampaignSucceeded, "众筹成功，无法退款")
	ErrCampaignFailed    = newError(CodeCampaignFailed, "众筹失败，无法领取")
	ErrResultUnknown     = newError(CodeResultUnknown, "投票结果尚未确定")
	ErrGoalNotReached    = newError(CodeGoalNotReached, "未达到目标金额")

	ErrTransferFailed    = newError(CodeTransferFailed, "转账失败")
	ErrUnpayableReceiver = newError(CodeInternal, "收款地址不被转账通道支持")
)

// CodeOf 取出错误码，非领域错误返回 CodeInternal
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
