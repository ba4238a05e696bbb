package escrow

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
)

const (
	// MaxVotingWindow 投票窗口上限（30 天，毫秒）
	MaxVotingWindow int64 = 30 * 24 * 60 * 60 * 1000
	// MaxFeePercent 平台手续费比例上限
	MaxFeePercent int64 = 20

	MaxNameLength        = 64
	MaxDescriptionLength = 1000
)

// Config 全局配置，初始化时设定
type Config struct {
	VotingWindow int64 // 毫秒，只有 0 表示不限时
	FeePercent   int64
	FeeRecipient string
}

// NewConfig 数值超出范围时截断到边界，不会返回错误。
// 负的投票时长截断为 1 毫秒而不是 0，不限时必须显式配置为 0。
func NewConfig(votingWindow, feePercent int64, feeRecipient string) Config {
	if votingWindow < 0 {
		votingWindow = 1
	}
	return Config{
		VotingWindow: clamp(votingWindow, 0, MaxVotingWindow),
		FeePercent:   clamp(feePercent, 0, MaxFeePercent),
		FeeRecipient: feeRecipient,
	}
}

func clamp(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Transferer 转账通道
type Transferer interface {
	Transfer(ctx context.Context, to string, amount decimal.Decimal) error
}

// AddressValidator 由 Transferer 选择实现，声明转账通道能够付款的地址。
// 未实现时任何非空身份都视为可付款。
type AddressValidator interface {
	ValidAddress(addr string) bool
}

// Observer 接收已提交的状态变更，用于记录流水和推送通知。
// 回调发生在状态提交之后，回调本身不影响调用结果。
type Observer interface {
	ProjectCreated(ctx context.Context, p Project)
	Donated(ctx context.Context, name, donor string, amount decimal.Decimal, ts int64)
	Voted(ctx context.Context, name, voter string, choice bool, weight decimal.Decimal, ts int64)
	Paid(ctx context.Context, p Payout)
}

// Engine 托管状态机
type Engine struct {
	mu        sync.RWMutex
	store     Store
	rail      Transferer
	cfg       Config
	observers []Observer
}

// NewEngine 创建托管状态机
func NewEngine(store Store, rail Transferer, cfg Config, observers ...Observer) *Engine {
	return &Engine{
		store:     store,
		rail:      rail,
		cfg:       NewConfig(cfg.VotingWindow, cfg.FeePercent, cfg.FeeRecipient),
		observers: observers,
	}
}

// Config 返回截断后的配置
func (e *Engine) Config() Config {
	return e.cfg
}

// votingEnd 投票窗口结束时间，unbounded 为 true 表示不限时
func (e *Engine) votingEnd(deadline int64) (end int64, unbounded bool) {
	if e.cfg.VotingWindow == 0 {
		return 0, true
	}
	end = deadline + e.cfg.VotingWindow
	if end < deadline {
		// 溢出
		return 0, true
	}
	return end, false
}

func (e *Engine) window(p *Project) Window {
	end, unbounded := e.votingEnd(p.Deadline)
	return Window{Start: p.Deadline, End: end, Unbounded: unbounded}
}

func (e *Engine) notify(fn func(o Observer)) {
	for _, o := range e.observers {
		fn(o)
	}
}

// payable 转账通道能否向 addr 付款
func (e *Engine) payable(addr string) bool {
	if addr == "" {
		return false
	}
	if v, ok := e.rail.(AddressValidator); ok {
		return v.ValidAddress(addr)
	}
	return true
}
