package types

import (
	"fmt"

	tmmath "github.com/tendermint/auctiond/libs/math"
)

// MaxAccountDataSize bounds the data stored in a single account.
const MaxAccountDataSize = 10 * 1024

// Account is the unit of state in the ledger: a balance, the program that
// may debit it or write its data, and opaque program data.
type Account struct {
	Owner   Address
	Balance uint64
	Data    []byte
}

// NewWallet returns an empty system-owned account holding balance.
func NewWallet(balance uint64) *Account {
	return &Account{Owner: SystemProgramID, Balance: balance}
}

// HasData reports whether the account holds program data.
func (acc *Account) HasData() bool {
	return acc != nil && len(acc.Data) > 0
}

// Copy returns a deep copy of acc.
func (acc *Account) Copy() *Account {
	if acc == nil {
		return nil
	}
	cp := *acc
	if acc.Data != nil {
		cp.Data = make([]byte, len(acc.Data))
		copy(cp.Data, acc.Data)
	}
	return &cp
}

// Credit adds amount to the balance.
func (acc *Account) Credit(amount uint64) error {
	balance, err := tmmath.SafeAddUint64(acc.Balance, amount)
	if err != nil {
		return fmt.Errorf("%w: crediting %d to balance %d", ErrArithmeticOverflow, amount, acc.Balance)
	}
	acc.Balance = balance
	return nil
}

// Debit subtracts amount from the balance.
func (acc *Account) Debit(amount uint64) error {
	balance, err := tmmath.SafeSubUint64(acc.Balance, amount)
	if err != nil {
		return fmt.Errorf("%w: debiting %d from balance %d", ErrArithmeticOverflow, amount, acc.Balance)
	}
	acc.Balance = balance
	return nil
}

// Marshal encodes the account as owner | balance | data length | data.
func (acc *Account) Marshal() []byte {
	enc := newEncoder(AddressSize + 8 + 4 + len(acc.Data))
	enc.raw(acc.Owner[:])
	enc.u64(acc.Balance)
	enc.u32(uint32(len(acc.Data)))
	enc.raw(acc.Data)
	return enc.bytes()
}

// UnmarshalAccount decodes an account written by Marshal.
func UnmarshalAccount(bz []byte) (*Account, error) {
	dec := newDecoder(bz)
	acc := &Account{
		Owner:   dec.address(),
		Balance: dec.u64(),
	}
	n := dec.u32()
	if n > MaxAccountDataSize {
		return nil, fmt.Errorf("account data size %d exceeds %d", n, MaxAccountDataSize)
	}
	if n > 0 {
		acc.Data = append([]byte(nil), dec.next(int(n))...)
	}
	if err := dec.finish(); err != nil {
		return nil, fmt.Errorf("decoding account: %w", err)
	}
	return acc, nil
}
