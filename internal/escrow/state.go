package escrow

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

const flagSet = "1"

func (t *txn) loadProject(name string) (*Project, error) {
	raw, ok, err := t.get(BuildProjectKey(name))
	if err != nil {
		return nil, internal("load project", err)
	}
	if !ok {
		return nil, ErrProjectDoesntExist
	}
	var p Project
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, internal("decode project", err)
	}
	return &p, nil
}

func (t *txn) putProject(p *Project) error {
	data, err := json.Marshal(p)
	if err != nil {
		return internal("encode project", err)
	}
	t.put(BuildProjectKey(p.Name), string(data))
	return nil
}

// loadAmount 不存在的金额视为 0
func (t *txn) loadAmount(key string) (decimal.Decimal, error) {
	raw, ok, err := t.get(key)
	if err != nil {
		return decimal.Zero, internal("load amount", err)
	}
	if !ok {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, internal("decode amount", fmt.Errorf("key %q: %w", key, err))
	}
	return d, nil
}

func (t *txn) putAmount(key string, amount decimal.Decimal) {
	t.put(key, amount.String())
}

func (t *txn) loadTally(name string) (Tally, error) {
	tally := Tally{Yes: decimal.Zero, No: decimal.Zero}
	raw, ok, err := t.get(BuildTallyKey(name))
	if err != nil {
		return tally, internal("load tally", err)
	}
	if !ok {
		return tally, nil
	}
	if err := json.Unmarshal([]byte(raw), &tally); err != nil {
		return tally, internal("decode tally", err)
	}
	return tally, nil
}

func (t *txn) putTally(name string, tally Tally) error {
	data, err := json.Marshal(tally)
	if err != nil {
		return internal("encode tally", err)
	}
	t.put(BuildTallyKey(name), string(data))
	return nil
}

func (t *txn) loadFlag(key string) (bool, error) {
	raw, ok, err := t.get(key)
	if err != nil {
		return false, internal("load flag", err)
	}
	return ok && raw == flagSet, nil
}

func (t *txn) setFlag(key string) {
	t.put(key, flagSet)
}

// loadVote 第二个返回值表示是否投过票，与"投了反对票"区分
func (t *txn) loadVote(name, voter string) (bool, bool, error) {
	raw, ok, err := t.get(BuildVoteKey(name, voter))
	if err != nil {
		return false, false, internal("load vote", err)
	}
	if !ok {
		return false, false, nil
	}
	choice, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false, internal("decode vote", err)
	}
	return choice, true, nil
}

func (t *txn) putVote(name, voter string, choice bool) {
	t.put(BuildVoteKey(name, voter), strconv.FormatBool(choice))
}

func (t *txn) projectCount() (uint64, error) {
	raw, ok, err := t.get(BuildProjectCountKey())
	if err != nil {
		return 0, internal("load project count", err)
	}
	if !ok {
		return 0, nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, internal("decode project count", err)
	}
	return n, nil
}

// appendIndex 追加到项目索引末尾
func (t *txn) appendIndex(name string) error {
	n, err := t.projectCount()
	if err != nil {
		return err
	}
	t.put(BuildIndexKey(n), name)
	t.put(BuildProjectCountKey(), strconv.FormatUint(n+1, 10))
	return nil
}

func (t *txn) listIndex() ([]string, error) {
	n, err := t.projectCount()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, n)
	for i := uint64(0); i < n; i++ {
		name, ok, err := t.get(BuildIndexKey(i))
		if err != nil {
			return nil, internal("load project index", err)
		}
		if !ok {
			return nil, internal("load project index", fmt.Errorf("missing index entry %d", i))
		}
		names = append(names, name)
	}
	return names, nil
}
