package auction

import (
	"github.com/tendermint/auctiond/internal/access"
	"github.com/tendermint/auctiond/types"
)

// Custodian holds the item sold by an auction.
type Custodian interface {
	// Lock takes ref into custody on behalf of auction.
	Lock(item *access.AccountInfo, auction types.Address, ref types.ItemReference) error
	// Release hands the item out of custody to the account at to.
	Release(item *access.AccountInfo, auction, to types.Address) error
}

// InitializeAccounts are the accounts of an Initialize instruction.
type InitializeAccounts struct {
	Auction *access.AccountInfo
	Seller  *access.AccountInfo
	Escrow  *access.AccountInfo
	Item    *access.AccountInfo
}

// PlaceBidAccounts are the accounts of a PlaceBid instruction.
// PreviousBidder must be the current leader, or the zero address when no bid
// was accepted yet.
type PlaceBidAccounts struct {
	Auction        *access.AccountInfo
	Bidder         *access.AccountInfo
	Funding        *access.AccountInfo
	PreviousBidder *access.AccountInfo
	Escrow         *access.AccountInfo
}

// CloseAccounts are the accounts of a Close instruction.
type CloseAccounts struct {
	Auction *access.AccountInfo
	Caller  *access.AccountInfo
}

// SettleAccounts are the accounts of a Settle instruction. Leader must be the
// leading bidder, or the zero address when nobody bid.
type SettleAccounts struct {
	Auction *access.AccountInfo
	Caller  *access.AccountInfo
	Seller  *access.AccountInfo
	Leader  *access.AccountInfo
	Escrow  *access.AccountInfo
	Item    *access.AccountInfo
}

// CancelAccounts are the accounts of a Cancel instruction.
type CancelAccounts struct {
	Auction   *access.AccountInfo
	Authority *access.AccountInfo
	Escrow    *access.AccountInfo
	Item      *access.AccountInfo
}
