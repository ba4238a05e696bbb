package ethereum

import (
	"context"
	"errors"
	"fmt"

	"github.com/blues/cfescrow/internal/escrow"
	"github.com/blues/cfescrow/internal/logger"
	geth "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"
)

// VerifyDeposit 核验 from 向托管账户的一笔已上链转账，返回规范化的交易哈希和转入金额（wei）。
//
// 交易必须已打包且执行成功，接收方是托管账户，签名者是 from。
// 凭证是否已被使用由托管状态机在入账时判断。
func (c *Client) VerifyDeposit(ctx context.Context, txHash, from string) (string, decimal.Decimal, error) {
	raw, err := hexutil.Decode(txHash)
	if err != nil || len(raw) != common.HashLength {
		return "", decimal.Zero, rejected("malformed transaction hash %q", txHash)
	}
	if !common.IsHexAddress(from) {
		return "", decimal.Zero, rejected("sender %q is not an address", from)
	}
	hash := common.BytesToHash(raw)

	tx, pending, err := c.backend.TransactionByHash(ctx, hash)
	if errors.Is(err, geth.NotFound) {
		return "", decimal.Zero, rejected("transaction %s not found", hash.Hex())
	}
	if err != nil {
		return "", decimal.Zero, fmt.Errorf("get transaction %s: %w", hash.Hex(), err)
	}
	if pending {
		return "", decimal.Zero, rejected("transaction %s is still pending", hash.Hex())
	}

	receipt, err := c.backend.TransactionReceipt(ctx, hash)
	if errors.Is(err, geth.NotFound) {
		return "", decimal.Zero, rejected("receipt of %s not found", hash.Hex())
	}
	if err != nil {
		return "", decimal.Zero, fmt.Errorf("get receipt %s: %w", hash.Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return "", decimal.Zero, rejected("transaction %s failed on chain", hash.Hex())
	}

	escrowAddr := c.Address()
	if tx.To() == nil || *tx.To() != escrowAddr {
		return "", decimal.Zero, rejected("transaction %s is not sent to %s", hash.Hex(), escrowAddr.Hex())
	}
	sender, err := types.Sender(types.LatestSignerForChainID(c.chainID), tx)
	if err != nil {
		return "", decimal.Zero, rejected("recover sender of %s: %v", hash.Hex(), err)
	}
	if sender != common.HexToAddress(from) {
		return "", decimal.Zero, rejected("transaction %s is sent by %s, not %s", hash.Hex(), sender.Hex(), from)
	}

	amount := decimal.NewFromBigInt(tx.Value(), 0)
	logger.Info("Verified deposit %s from %s, value: %s wei", hash.Hex(), sender.Hex(), amount)
	return hash.Hex(), amount, nil
}

func rejected(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", escrow.ErrInvalidDeposit, fmt.Sprintf(format, args...))
}
