package logic

import (
	"context"

	"github.com/blues/cfescrow/internal/escrow"
	"github.com/blues/cfescrow/internal/model"
	"github.com/shopspring/decimal"
)

// DepositVerifier 核验随捐款附带的入账凭证，返回规范化的凭证和实际入账金额
type DepositVerifier interface {
	VerifyDeposit(ctx context.Context, ref, from string) (string, decimal.Decimal, error)
}

// DonationLogic 捐款业务逻辑
type DonationLogic struct {
	engine   *escrow.Engine
	records  Records
	deposits DepositVerifier
}

// NewDonationLogic 创建捐款业务逻辑。deposits 为 nil 时金额取自请求，
// 否则每笔捐款都必须附带凭证，金额以核验结果为准
func NewDonationLogic(engine *escrow.Engine, records Records, deposits DepositVerifier) *DonationLogic {
	return &DonationLogic{engine: engine, records: records, deposits: deposits}
}

// Donate 捐款，value 为请求声明的金额，txHash 为入账凭证
func (d *DonationLogic) Donate(ctx context.Context, call escrow.Call, name, value, txHash string) error {
	if d.deposits != nil {
		if txHash == "" {
			return escrow.ErrInvalidDeposit
		}
		ref, amount, err := d.deposits.VerifyDeposit(ctx, txHash, call.Caller)
		if err != nil {
			return err
		}
		call.Value = amount
		call.Deposit = ref
		return d.engine.Donate(ctx, call, name)
	}

	amount, err := ParseAmount(value)
	if err != nil {
		return escrow.ErrInvalidAmount
	}
	call.Value = amount
	return d.engine.Donate(ctx, call, name)
}

// GetDonatedAmount 获取某地址的累计捐款
func (d *DonationLogic) GetDonatedAmount(ctx context.Context, name, donor string) (decimal.Decimal, error) {
	return d.engine.DonatedAmount(ctx, name, donor)
}

// GetProjectContributeRecords 分页获取项目捐款记录
func (d *DonationLogic) GetProjectContributeRecords(ctx context.Context, name string, page, pageSize int) ([]model.ContributeRecordModel, int64, error) {
	if d.records == nil {
		return nil, 0, ErrRecordsUnavailable
	}
	if _, err := d.engine.Project(ctx, name); err != nil {
		return nil, 0, err
	}
	return d.records.ContributeRecords(ctx, name, page, pageSize)
}
