package dispatch

import (
	"github.com/tendermint/auctiond/internal/access"
	"github.com/tendermint/auctiond/types"
)

// InitializeAccounts returns the account list of an Initialize by seller
// with nonce.
func InitializeAccounts(seller types.Address, nonce uint64) ([]types.Address, error) {
	auctionAddr, _, err := access.DeriveAuction(seller, nonce)
	if err != nil {
		return nil, err
	}
	escrowAddr, itemAddr, err := custodyAccounts(auctionAddr)
	if err != nil {
		return nil, err
	}
	return []types.Address{auctionAddr, seller, escrowAddr, itemAddr}, nil
}

// PlaceBidAccounts returns the account list of a bid. previous is the current
// leader or the zero address.
func PlaceBidAccounts(auctionAddr, bidder, funding, previous types.Address) ([]types.Address, error) {
	escrowAddr, _, err := access.DeriveEscrow(auctionAddr)
	if err != nil {
		return nil, err
	}
	return []types.Address{auctionAddr, bidder, funding, previous, escrowAddr}, nil
}

// CloseAccounts returns the account list of a Close.
func CloseAccounts(auctionAddr, caller types.Address) []types.Address {
	return []types.Address{auctionAddr, caller}
}

// SettleAccounts returns the account list of a Settle. leader is the leading
// bidder or the zero address.
func SettleAccounts(auctionAddr, caller, seller, leader types.Address) ([]types.Address, error) {
	escrowAddr, itemAddr, err := custodyAccounts(auctionAddr)
	if err != nil {
		return nil, err
	}
	return []types.Address{auctionAddr, caller, seller, leader, escrowAddr, itemAddr}, nil
}

// CancelAccounts returns the account list of a Cancel.
func CancelAccounts(auctionAddr, authority types.Address) ([]types.Address, error) {
	escrowAddr, itemAddr, err := custodyAccounts(auctionAddr)
	if err != nil {
		return nil, err
	}
	return []types.Address{auctionAddr, authority, escrowAddr, itemAddr}, nil
}

func custodyAccounts(auctionAddr types.Address) (escrowAddr, itemAddr types.Address, err error) {
	if escrowAddr, _, err = access.DeriveEscrow(auctionAddr); err != nil {
		return
	}
	itemAddr, _, err = access.DeriveItem(auctionAddr)
	return
}
