package escrow

import (
	"context"
	"errors"
)

// ErrNotFound 存储中不存在该键
var ErrNotFound = errors.New("key not found")

// Write 一次写入
type Write struct {
	Key   string
	Value string
}

// Store 持久化键值存储。Apply 必须原子地写入整批数据。
type Store interface {
	// Get 返回键对应的值，不存在时返回 ErrNotFound
	Get(ctx context.Context, key string) (string, error)
	// Apply 原子写入一批键值
	Apply(ctx context.Context, writes []Write) error
}

// txn 单次调用的写缓冲。读取优先命中缓冲，commit 前所有修改都不可见。
type txn struct {
	ctx    context.Context
	store  Store
	writes map[string]string
	order  []string
}

func newTxn(ctx context.Context, store Store) *txn {
	return &txn{
		ctx:    ctx,
		store:  store,
		writes: make(map[string]string),
	}
}

func (t *txn) get(key string) (string, bool, error) {
	if v, ok := t.writes[key]; ok {
		return v, true, nil
	}
	v, err := t.store.Get(t.ctx, key)
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (t *txn) contains(key string) (bool, error) {
	_, ok, err := t.get(key)
	return ok, err
}

func (t *txn) put(key, value string) {
	if _, ok := t.writes[key]; !ok {
		t.order = append(t.order, key)
	}
	t.writes[key] = value
}

// commit 按写入顺序提交，空批次直接返回
func (t *txn) commit() error {
	if len(t.order) == 0 {
		return nil
	}
	batch := make([]Write, 0, len(t.order))
	for _, k := range t.order {
		batch = append(batch, Write{Key: k, Value: t.writes[k]})
	}
	if err := t.store.Apply(t.ctx, batch); err != nil {
		return err
	}
	t.writes = make(map[string]string)
	t.order = nil
	return nil
}
