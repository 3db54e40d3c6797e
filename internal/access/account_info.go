package access

import (
	"fmt"

	"github.com/tendermint/auctiond/types"
)

// AccountInfo is an account as seen by one instruction: its address, the
// privileges the transaction grants on it and its current state. Account is
// nil when nothing is stored at Address yet.
//
// When an address appears more than once in an instruction, every slot points
// at the same AccountInfo so a balance change through one slot is visible
// through the others.
type AccountInfo struct {
	Address  types.Address
	Signer   bool
	Writable bool
	Account  *types.Account
}

// Exists reports whether the account is stored in the ledger.
func (info *AccountInfo) Exists() bool { return info.Account != nil }

// Balance returns the account balance, zero for a missing account.
func (info *AccountInfo) Balance() uint64 {
	if info.Account == nil {
		return 0
	}
	return info.Account.Balance
}

func (info *AccountInfo) String() string {
	return fmt.Sprintf("AccountInfo{%s signer:%t writable:%t}", info.Address, info.Signer, info.Writable)
}

// RequireSigner fails with ErrUnauthorized unless info signed the transaction.
func RequireSigner(info *AccountInfo) error {
	if !info.Signer {
		return fmt.Errorf("%w: %s did not sign", types.ErrUnauthorized, info.Address)
	}
	return nil
}

// RequireWritable fails with ErrInvalidAccount unless info may be written.
func RequireWritable(info *AccountInfo) error {
	if !info.Writable {
		return fmt.Errorf("%w: %s is read-only", types.ErrInvalidAccount, info.Address)
	}
	return nil
}

// RequireAddress fails with ErrInvalidAccount unless info is at want.
func RequireAddress(info *AccountInfo, want types.Address) error {
	if info.Address != want {
		return fmt.Errorf("%w: got %s, want %s", types.ErrInvalidAccount, info.Address, want)
	}
	return nil
}

// RequireProgramAccount fails with ErrInvalidAccount unless info exists and
// is owned by programID.
func RequireProgramAccount(info *AccountInfo, programID types.Address) error {
	if info.Account == nil {
		return fmt.Errorf("%w: %s does not exist", types.ErrInvalidAccount, info.Address)
	}
	if info.Account.Owner != programID {
		return fmt.Errorf("%w: %s is owned by %s, not %s",
			types.ErrInvalidAccount, info.Address, info.Account.Owner, programID)
	}
	return nil
}

// RequireWallet fails with ErrInvalidAccount unless info is a plain wallet:
// either not created yet or owned by the system program without data.
func RequireWallet(info *AccountInfo) error {
	if info.Account == nil {
		return nil
	}
	if info.Account.Owner != types.SystemProgramID || info.Account.HasData() {
		return fmt.Errorf("%w: %s is not a wallet", types.ErrInvalidAccount, info.Address)
	}
	return nil
}

// RequireFundingAccount fails unless info is an existing wallet that signed
// the transaction, the only way funds may leave a wallet.
func RequireFundingAccount(info *AccountInfo) error {
	if err := RequireSigner(info); err != nil {
		return err
	}
	if err := RequireWritable(info); err != nil {
		return err
	}
	if info.Account == nil {
		return fmt.Errorf("%w: funding account %s does not exist", types.ErrInsufficientFunds, info.Address)
	}
	return RequireWallet(info)
}

// RequireUninitialized fails with ErrAlreadyInitialized when info already
// holds data or is owned by another program.
func RequireUninitialized(info *AccountInfo) error {
	if info.Account == nil {
		return nil
	}
	if info.Account.HasData() || info.Account.Owner != types.SystemProgramID {
		return fmt.Errorf("%w: %s", types.ErrAlreadyInitialized, info.Address)
	}
	return nil
}
