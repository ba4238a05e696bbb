package ethereum

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/blues/cfescrow/internal/config"
	"github.com/blues/cfescrow/internal/logger"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"
)

// 普通转账的 gas 用量
const transferGas uint64 = 21000

// Backend 发送和查询交易所需的节点接口，ethclient.Client 满足该接口
type Backend interface {
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionByHash(ctx context.Context, hash common.Hash) (tx *types.Transaction, isPending bool, err error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Client 托管账户的链上转账通道，金额单位为 wei
type Client struct {
	mu         sync.Mutex // 保证 nonce 顺序
	backend    Backend
	privateKey *ecdsa.PrivateKey
	chainID    *big.Int
	closeFn    func()
}

func Init(cfg config.ChainConfig) (*Client, error) {
	// 连接以太坊客户端
	client, err := ethclient.Dial(cfg.RpcUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ethereum client: %w", err)
	}

	// 解析私钥
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	c := NewClient(client, privateKey, big.NewInt(cfg.ChainId))
	c.closeFn = client.Close
	return c, nil
}

// NewClient 使用已有的节点连接创建转账通道
func NewClient(backend Backend, privateKey *ecdsa.PrivateKey, chainID *big.Int) *Client {
	return &Client{
		backend:    backend,
		privateKey: privateKey,
		chainID:    chainID,
	}
}

// Address 托管账户地址
func (c *Client) Address() common.Address {
	return crypto.PubkeyToAddress(c.privateKey.PublicKey)
}

// ValidAddress 只能向十六进制地址转账，实现 escrow.AddressValidator
func (c *Client) ValidAddress(addr string) bool {
	return common.IsHexAddress(addr)
}

// Transfer 从托管账户向 to 转账，实现 escrow.Transferer
func (c *Client) Transfer(ctx context.Context, to string, amount decimal.Decimal) error {
	if !common.IsHexAddress(to) {
		return fmt.Errorf("invalid recipient address %q", to)
	}
	value, err := ToWei(amount)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	nonce, err := c.backend.PendingNonceAt(ctx, c.Address())
	if err != nil {
		return fmt.Errorf("get pending nonce: %w", err)
	}
	gasPrice, err := c.backend.SuggestGasPrice(ctx)
	if err != nil {
		return fmt.Errorf("suggest gas price: %w", err)
	}

	recipient := common.HexToAddress(to)
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      transferGas,
		To:       &recipient,
		Value:    value,
	})
	signed, err := types.SignTx(tx, types.NewEIP155Signer(c.chainID), c.privateKey)
	if err != nil {
		return fmt.Errorf("sign transfer: %w", err)
	}
	if err := c.backend.SendTransaction(ctx, signed); err != nil {
		return fmt.Errorf("send transfer: %w", err)
	}

	logger.Info("Sent %s wei to %s, tx: %s, nonce: %d", value, recipient.Hex(), signed.Hash().Hex(), nonce)
	return nil
}

// Close 关闭节点连接
func (c *Client) Close() {
	if c.closeFn != nil {
		c.closeFn()
	}
}

// ToWei 金额必须是非负整数
func ToWei(amount decimal.Decimal) (*big.Int, error) {
	if amount.IsNegative() || !amount.Equal(amount.Truncate(0)) {
		return nil, fmt.Errorf("invalid transfer amount %s", amount)
	}
	return amount.BigInt(), nil
}
