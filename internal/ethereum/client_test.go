package ethereum

import (
	"context"
	"errors"
	"math/big"
	"testing"

	geth "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// minedTx 节点上已知的一笔交易
type minedTx struct {
	tx      *types.Transaction
	pending bool
	status  uint64
}

type fakeBackend struct {
	nonce   uint64
	sent    []*types.Transaction
	sendErr error
	txs     map[common.Hash]minedTx
}

// include 把交易放到节点上，返回交易哈希
func (f *fakeBackend) include(tx *types.Transaction, pending bool, status uint64) string {
	f.txs[tx.Hash()] = minedTx{tx: tx, pending: pending, status: status}
	return tx.Hash().Hex()
}

func (f *fakeBackend) TransactionByHash(_ context.Context, hash common.Hash) (*types.Transaction, bool, error) {
	m, ok := f.txs[hash]
	if !ok {
		return nil, false, geth.NotFound
	}
	return m.tx, m.pending, nil
}

func (f *fakeBackend) TransactionReceipt(_ context.Context, hash common.Hash) (*types.Receipt, error) {
	m, ok := f.txs[hash]
	if !ok || m.pending {
		return nil, geth.NotFound
	}
	return &types.Receipt{Status: m.status, TxHash: hash}, nil
}

func (f *fakeBackend) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	return f.nonce, nil
}

func (f *fakeBackend) SuggestGasPrice(context.Context) (*big.Int, error) {
	return big.NewInt(1_000_000_000), nil
}

func (f *fakeBackend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, tx)
	f.nonce++
	return nil
}

const recipient = "0x8ba1f109551bD432803012645Ac136ddd64DBA72"

func newTestClient(t *testing.T) (*Client, *fakeBackend) {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	backend := &fakeBackend{nonce: 7, txs: make(map[common.Hash]minedTx)}
	return NewClient(backend, key, big.NewInt(1337)), backend
}

func TestTransferSignsValueTransfer(t *testing.T) {
	c, backend := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Transfer(ctx, recipient, decimal.NewFromInt(950)))
	require.NoError(t, c.Transfer(ctx, recipient, decimal.NewFromInt(50)))
	require.Len(t, backend.sent, 2)

	tx := backend.sent[0]
	assert.Equal(t, uint64(7), tx.Nonce())
	assert.Equal(t, uint64(8), backend.sent[1].Nonce())
	assert.Equal(t, transferGas, tx.Gas())
	assert.Equal(t, int64(950), tx.Value().Int64())
	assert.Equal(t, common.HexToAddress(recipient), *tx.To())

	from, err := types.Sender(types.LatestSignerForChainID(big.NewInt(1337)), tx)
	require.NoError(t, err)
	assert.Equal(t, c.Address(), from)
}

func TestTransferRejectsBadInput(t *testing.T) {
	c, backend := newTestClient(t)
	ctx := context.Background()

	assert.Error(t, c.Transfer(ctx, "alice", decimal.NewFromInt(1)))
	assert.Error(t, c.Transfer(ctx, recipient, decimal.NewFromInt(-1)))
	assert.Error(t, c.Transfer(ctx, recipient, decimal.RequireFromString("0.5")))
	assert.Empty(t, backend.sent)
}

func TestValidAddress(t *testing.T) {
	c, _ := newTestClient(t)
	assert.True(t, c.ValidAddress(recipient))
	assert.False(t, c.ValidAddress("alice"))
	assert.False(t, c.ValidAddress(""))
}

func TestTransferSendFailure(t *testing.T) {
	c, backend := newTestClient(t)
	backend.sendErr = errors.New("insufficient funds")

	err := c.Transfer(context.Background(), recipient, decimal.NewFromInt(1))
	require.Error(t, err)
	assert.ErrorIs(t, err, backend.sendErr)
}

func TestToWei(t *testing.T) {
	wei, err := ToWei(decimal.RequireFromString("1000000000000000000000"))
	require.NoError(t, err)
	want, _ := new(big.Int).SetString("1000000000000000000000", 10)
	assert.Equal(t, 0, want.Cmp(wei))

	_, err = ToWei(decimal.RequireFromString("1.1"))
	assert.Error(t, err)
}
