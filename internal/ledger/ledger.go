package ledger

import (
	"fmt"

	"github.com/google/orderedcode"

	"github.com/tendermint/auctiond/types"
)

const (
	// prefixes are reserved in the range 1-9; the app uses 10 and up.
	prefixAccount = int64(1)
	prefixTx      = int64(2)
)

// Ledger reads and writes accounts and the executed-transaction set through
// a KV, usually a Cache.
type Ledger struct {
	kv KV
}

// New returns a Ledger over kv.
func New(kv KV) *Ledger {
	return &Ledger{kv: kv}
}

// Account loads the account at addr. It returns nil and no error when
// nothing is stored there.
func (l *Ledger) Account(addr types.Address) (*types.Account, error) {
	bz, err := l.kv.Get(accountKey(addr))
	if err != nil {
		return nil, err
	}
	if len(bz) == 0 {
		return nil, nil
	}
	acc, err := types.UnmarshalAccount(bz)
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", addr, err)
	}
	return acc, nil
}

// SetAccount stores acc at addr.
func (l *Ledger) SetAccount(addr types.Address, acc *types.Account) error {
	if acc == nil {
		return fmt.Errorf("nil account for %s", addr)
	}
	if len(acc.Data) > types.MaxAccountDataSize {
		return fmt.Errorf("account %s data is %d bytes, max %d", addr, len(acc.Data), types.MaxAccountDataSize)
	}
	return l.kv.Set(accountKey(addr), acc.Marshal())
}

// HasTx reports whether a transaction with key was already executed.
func (l *Ledger) HasTx(key []byte) (bool, error) {
	bz, err := l.kv.Get(txKey(key))
	if err != nil {
		return false, err
	}
	return len(bz) > 0, nil
}

// MarkTx records that the transaction with key executed at height.
func (l *Ledger) MarkTx(key []byte, height int64) error {
	bz, err := orderedcode.Append(nil, height)
	if err != nil {
		return err
	}
	return l.kv.Set(txKey(key), bz)
}

func accountKey(addr types.Address) []byte {
	key, err := orderedcode.Append(nil, prefixAccount, string(addr[:]))
	if err != nil {
		panic(err)
	}
	return key
}

func txKey(hash []byte) []byte {
	key, err := orderedcode.Append(nil, prefixTx, string(hash))
	if err != nil {
		panic(err)
	}
	return key
}
