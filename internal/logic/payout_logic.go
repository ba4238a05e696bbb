package logic

import (
	"context"

	"github.com/blues/cfescrow/internal/escrow"
	"github.com/blues/cfescrow/internal/model"
)

// PayoutLogic 领取与退款业务逻辑
type PayoutLogic struct {
	engine  *escrow.Engine
	records Records
}

// NewPayoutLogic 创建出款业务逻辑
func NewPayoutLogic(engine *escrow.Engine, records Records) *PayoutLogic {
	return &PayoutLogic{engine: engine, records: records}
}

// Claim 作者领取
func (p *PayoutLogic) Claim(ctx context.Context, call escrow.Call, name string) error {
	return p.engine.Claim(ctx, call, name)
}

// Refund 捐款人退款
func (p *PayoutLogic) Refund(ctx context.Context, call escrow.Call, name string) error {
	return p.engine.Refund(ctx, call, name)
}

func (p *PayoutLogic) GetAuthorClaimed(ctx context.Context, name string) (bool, error) {
	return p.engine.AuthorClaimed(ctx, name)
}

func (p *PayoutLogic) GetDonorRefunded(ctx context.Context, name, donor string) (bool, error) {
	return p.engine.DonorRefunded(ctx, name, donor)
}

// Settlements 结算和退款记录
type Settlements struct {
	Settlements []model.SettlementRecordModel `json:"settlements"`
	Refunds     []model.RefundRecordModel     `json:"refunds"`
	Total       int64                         `json:"total"`
}

// GetProjectSettlements 分页获取结算和退款记录，两类记录各自分页，Total 为两者之和
func (p *PayoutLogic) GetProjectSettlements(ctx context.Context, name string, page, pageSize int) (*Settlements, error) {
	if p.records == nil {
		return nil, ErrRecordsUnavailable
	}
	if _, err := p.engine.Project(ctx, name); err != nil {
		return nil, err
	}

	settlements, settlementTotal, err := p.records.SettlementRecords(ctx, name, page, pageSize)
	if err != nil {
		return nil, err
	}
	refunds, refundTotal, err := p.records.RefundRecords(ctx, name, page, pageSize)
	if err != nil {
		return nil, err
	}
	return &Settlements{
		Settlements: settlements,
		Refunds:     refunds,
		Total:       settlementTotal + refundTotal,
	}, nil
}
