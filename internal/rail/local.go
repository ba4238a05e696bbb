package rail

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

// Transfer 一笔已完成的转账
type Transfer struct {
	To     string
	Amount decimal.Decimal
}

// Local 进程内转账通道：记录每个地址收到的金额，可对指定地址注入失败
type Local struct {
	mu        sync.Mutex
	balances  map[string]decimal.Decimal
	transfers []Transfer
	failing   map[string]error
}

// NewLocal 创建本地转账通道
func NewLocal() *Local {
	return &Local{
		balances: make(map[string]decimal.Decimal),
		failing:  make(map[string]error),
	}
}

// Transfer 实现 escrow.Transferer
func (l *Local) Transfer(_ context.Context, to string, amount decimal.Decimal) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if to == "" {
		return fmt.Errorf("empty recipient")
	}
	if amount.IsNegative() {
		return fmt.Errorf("negative amount %s", amount)
	}
	if err, ok := l.failing[to]; ok {
		return err
	}
	l.balances[to] = l.balances[to].Add(amount)
	l.transfers = append(l.transfers, Transfer{To: to, Amount: amount})
	return nil
}

// FailFor 之后发往 to 的转账都返回 err，err 为 nil 时取消
func (l *Local) FailFor(to string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err == nil {
		delete(l.failing, to)
		return
	}
	l.failing[to] = err
}

// Balance 某地址累计收到的金额
func (l *Local) Balance(addr string) decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[addr]
}

// Transfers 已完成转账的拷贝
func (l *Local) Transfers() []Transfer {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Transfer, len(l.transfers))
	copy(out, l.transfers)
	return out
}

// Total 所有已完成转账的总额
func (l *Local) Total() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()

	total := decimal.Zero
	for _, t := range l.transfers {
		total = total.Add(t.Amount)
	}
	return total
}
