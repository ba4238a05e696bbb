package cache

import (
	"context"
	"encoding/json"

	"github.com/blues/cfescrow/internal/escrow"
	"github.com/blues/cfescrow/internal/logger"
	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
)

// DefaultNotifyChannel 默认通知频道
const DefaultNotifyChannel = "cfs_escrow_notify"

// 通知事件类型
const (
	EventProjectCreated = "project_created"
	EventDonated        = "donated"
	EventVoted          = "voted"
	EventPaid           = "paid"
)

// Notification 推送到频道的消息
type Notification struct {
	Event     string `json:"event"`
	Project   string `json:"project"`
	Address   string `json:"address,omitempty"`
	Amount    string `json:"amount,omitempty"`
	Choice    *bool  `json:"choice,omitempty"`
	Kind      string `json:"kind,omitempty"`
	Success   *bool  `json:"success,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// Publisher 把已提交的托管事件发布到 redis 频道，实现 escrow.Observer
type Publisher struct {
	rds     *redis.Client
	channel string
}

// NewPublisher channel 为空时使用默认频道
func NewPublisher(rds *redis.Client, channel string) *Publisher {
	if channel == "" {
		channel = DefaultNotifyChannel
	}
	return &Publisher{rds: rds, channel: channel}
}

func (p *Publisher) ProjectCreated(ctx context.Context, project escrow.Project) {
	p.publish(ctx, Notification{
		Event:     EventProjectCreated,
		Project:   project.Name,
		Address:   project.Author,
		Amount:    project.Goal.String(),
		Timestamp: project.CreateTime,
	})
}

func (p *Publisher) Donated(ctx context.Context, name, donor string, amount decimal.Decimal, ts int64) {
	p.publish(ctx, Notification{
		Event:     EventDonated,
		Project:   name,
		Address:   donor,
		Amount:    amount.String(),
		Timestamp: ts,
	})
}

func (p *Publisher) Voted(ctx context.Context, name, voter string, choice bool, weight decimal.Decimal, ts int64) {
	p.publish(ctx, Notification{
		Event:     EventVoted,
		Project:   name,
		Address:   voter,
		Amount:    weight.String(),
		Choice:    &choice,
		Timestamp: ts,
	})
}

func (p *Publisher) Paid(ctx context.Context, payout escrow.Payout) {
	ok := payout.Err == nil
	p.publish(ctx, Notification{
		Event:     EventPaid,
		Project:   payout.Project,
		Address:   payout.To,
		Amount:    payout.Amount.String(),
		Kind:      string(payout.Kind),
		Success:   &ok,
		Timestamp: payout.Timestamp,
	})
}

func (p *Publisher) publish(ctx context.Context, n Notification) {
	body, err := json.Marshal(n)
	if err != nil {
		logger.Error("Failed to encode %s notification: %v", n.Event, err)
		return
	}
	if err := p.rds.Publish(ctx, p.channel, string(body)).Err(); err != nil {
		logger.Warn("Failed to publish %s notification for %q: %v", n.Event, n.Project, err)
	}
}
