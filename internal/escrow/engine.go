// Package escrow moves funds between wallets and an auction's custody
// account. It is only ever called from inside a state machine transition, so
// its effects share the transition's write batch.
package escrow

import (
	"fmt"

	"github.com/tendermint/auctiond/internal/access"
	tmmath "github.com/tendermint/auctiond/libs/math"
	"github.com/tendermint/auctiond/types"
)

// Engine performs deposits into and payouts out of escrow custody.
type Engine struct {
	minimumBalance uint64
}

// NewEngine returns an Engine enforcing params.MinimumBalance on funding
// wallets.
func NewEngine(params types.Params) *Engine {
	return &Engine{minimumBalance: params.MinimumBalance}
}

// Deposit moves amount from the funding wallet into custody. The wallet must
// keep the minimum balance afterwards.
func (e *Engine) Deposit(from, custody *access.AccountInfo, amount uint64) error {
	if from.Address == custody.Address {
		return fmt.Errorf("%w: cannot deposit from custody into itself", types.ErrInvalidAccount)
	}
	if err := access.RequireFundingAccount(from); err != nil {
		return err
	}
	if err := requireCustody(custody); err != nil {
		return err
	}

	required, err := tmmath.SafeAddUint64(amount, e.minimumBalance)
	if err != nil || from.Account.Balance < required {
		return fmt.Errorf("%w: %s holds %d, needs %d plus minimum balance %d",
			types.ErrInsufficientFunds, from.Address, from.Account.Balance, amount, e.minimumBalance)
	}
	if err := custody.Account.Credit(amount); err != nil {
		return err
	}
	return from.Account.Debit(amount)
}

// Refund returns amount from custody to an outbid or losing bidder.
func (e *Engine) Refund(custody, to *access.AccountInfo, amount uint64) error {
	return e.payout(custody, to, amount)
}

// Release pays amount from custody to the seller.
func (e *Engine) Release(custody, to *access.AccountInfo, amount uint64) error {
	return e.payout(custody, to, amount)
}

func (e *Engine) payout(custody, to *access.AccountInfo, amount uint64) error {
	if custody.Address == to.Address {
		return fmt.Errorf("%w: cannot pay custody into itself", types.ErrInvalidAccount)
	}
	if err := requireCustody(custody); err != nil {
		return err
	}
	if err := access.RequireWritable(to); err != nil {
		return err
	}
	if err := access.RequireWallet(to); err != nil {
		return err
	}
	if custody.Account.Balance < amount {
		return fmt.Errorf("%w: custody %s holds %d, owes %d",
			types.ErrInsufficientEscrow, custody.Address, custody.Account.Balance, amount)
	}

	if to.Account == nil {
		to.Account = types.NewWallet(0)
	}
	if err := to.Account.Credit(amount); err != nil {
		return err
	}
	return custody.Account.Debit(amount)
}

func requireCustody(custody *access.AccountInfo) error {
	if err := access.RequireWritable(custody); err != nil {
		return err
	}
	return access.RequireProgramAccount(custody, types.AuctionProgramID)
}
