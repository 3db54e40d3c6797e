// Package custody keeps the item sold by an auction in a program owned record
// until the auction ends, then hands it to the winner or back to the seller.
package custody

import (
	"fmt"

	"github.com/tendermint/auctiond/internal/access"
	"github.com/tendermint/auctiond/types"
)

// Ledger is the default custodian. The item custody account at
// DeriveItem(auction) records the item reference and its current holder.
type Ledger struct{}

// New returns the ledger backed custodian.
func New() *Ledger { return &Ledger{} }

// Lock creates the custody record for ref with the auction as holder.
func (*Ledger) Lock(item *access.AccountInfo, auction types.Address, ref types.ItemReference) error {
	if err := access.RequireWritable(item); err != nil {
		return err
	}
	if err := access.RequireUninitialized(item); err != nil {
		return err
	}

	record := &types.ItemCustody{Auction: auction, Reference: ref, Holder: auction}
	var balance uint64
	if item.Account != nil {
		balance = item.Account.Balance
	}
	item.Account = &types.Account{
		Owner:   types.AuctionProgramID,
		Balance: balance,
		Data:    record.Marshal(),
	}
	return nil
}

// Release hands the item held for auction to the account at to. It fails
// once the item has left custody.
func (*Ledger) Release(item *access.AccountInfo, auction, to types.Address) error {
	record, err := Load(item)
	if err != nil {
		return err
	}
	if err := access.RequireWritable(item); err != nil {
		return err
	}
	if record.Auction != auction {
		return fmt.Errorf("%w: item %s belongs to auction %s", types.ErrInvalidAccount, item.Address, record.Auction)
	}
	if record.Holder != auction {
		return fmt.Errorf("%w: item %s already released to %s", types.ErrInvalidAccount, item.Address, record.Holder)
	}

	record.Holder = to
	item.Account.Data = record.Marshal()
	return nil
}

// Load decodes the custody record stored in item.
func Load(item *access.AccountInfo) (*types.ItemCustody, error) {
	if err := access.RequireProgramAccount(item, types.AuctionProgramID); err != nil {
		return nil, err
	}
	return types.UnmarshalItemCustody(item.Account.Data)
}
