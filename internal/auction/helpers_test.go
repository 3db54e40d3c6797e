package auction_test

import (
	"github.com/stretchr/testify/require"

	"github.com/tendermint/auctiond/internal/access"
	"github.com/tendermint/auctiond/internal/auction"
	"github.com/tendermint/auctiond/internal/custody"
	"github.com/tendermint/auctiond/types"
)

func addr(b byte) types.Address {
	var a types.Address
	a[0] = b
	return a
}

// world is an in-memory ledger running the machine with the same
// all-or-nothing write back the dispatcher performs.
type world struct {
	machine  *auction.Machine
	accounts map[types.Address]*types.Account
	now      int64
}

func newWorld(params types.Params, balances map[types.Address]uint64) *world {
	w := &world{
		machine:  auction.NewMachine(params, custody.New()),
		accounts: make(map[types.Address]*types.Account),
	}
	for a, balance := range balances {
		w.accounts[a] = types.NewWallet(balance)
	}
	return w
}

// exec loads addrs, marks signers and runs fn. Changes are kept only when fn
// succeeds.
func (w *world) exec(signers []types.Address, addrs []types.Address, fn func([]*access.AccountInfo) error) error {
	isSigner := make(map[types.Address]bool, len(signers))
	for _, s := range signers {
		isSigner[s] = true
	}
	loaded := make(map[types.Address]*access.AccountInfo)
	infos := make([]*access.AccountInfo, len(addrs))
	for i, a := range addrs {
		info, ok := loaded[a]
		if !ok {
			info = &access.AccountInfo{
				Address:  a,
				Signer:   isSigner[a],
				Writable: true,
				Account:  w.accounts[a].Copy(),
			}
			loaded[a] = info
		}
		infos[i] = info
	}
	if err := fn(infos); err != nil {
		return err
	}
	for a, info := range loaded {
		if info.Account != nil {
			w.accounts[a] = info.Account
		}
	}
	return nil
}

func derived(seller types.Address, nonce uint64) (auctionAddr, escrowAddr, itemAddr types.Address) {
	auctionAddr, _, err := access.DeriveAuction(seller, nonce)
	if err != nil {
		panic(err)
	}
	escrowAddr, _, err = access.DeriveEscrow(auctionAddr)
	if err != nil {
		panic(err)
	}
	itemAddr, _, err = access.DeriveItem(auctionAddr)
	if err != nil {
		panic(err)
	}
	return auctionAddr, escrowAddr, itemAddr
}

func (w *world) initialize(seller types.Address, msg *types.Initialize) (types.Address, error) {
	a, e, i := derived(seller, msg.Nonce)
	return a, w.exec([]types.Address{seller}, []types.Address{a, seller, e, i}, func(infos []*access.AccountInfo) error {
		_, err := w.machine.Initialize(w.now, msg, auction.InitializeAccounts{
			Auction: infos[0], Seller: infos[1], Escrow: infos[2], Item: infos[3],
		})
		return err
	})
}

// bid places a bid funded by the bidder's own wallet.
func (w *world) bid(auctionAddr, bidder types.Address, amount uint64) error {
	e, _, _ := access.DeriveEscrow(auctionAddr)
	prev := types.Address{}
	if a := w.auction(auctionAddr); a != nil && a.HighestBidder != nil {
		prev = *a.HighestBidder
	}
	return w.exec([]types.Address{bidder}, []types.Address{auctionAddr, bidder, bidder, prev, e}, func(infos []*access.AccountInfo) error {
		_, err := w.machine.PlaceBid(w.now, &types.PlaceBid{Amount: amount}, auction.PlaceBidAccounts{
			Auction: infos[0], Bidder: infos[1], Funding: infos[2], PreviousBidder: infos[3], Escrow: infos[4],
		})
		return err
	})
}

func (w *world) close(auctionAddr, caller types.Address) error {
	return w.exec([]types.Address{caller}, []types.Address{auctionAddr, caller}, func(infos []*access.AccountInfo) error {
		_, err := w.machine.Close(w.now, auction.CloseAccounts{Auction: infos[0], Caller: infos[1]})
		return err
	})
}

func (w *world) settle(auctionAddr, caller types.Address) error {
	a := w.auction(auctionAddr)
	e, _, _ := access.DeriveEscrow(auctionAddr)
	i, _, _ := access.DeriveItem(auctionAddr)
	leader := types.Address{}
	if a.HighestBidder != nil {
		leader = *a.HighestBidder
	}
	addrs := []types.Address{auctionAddr, caller, a.Authority, leader, e, i}
	return w.exec([]types.Address{caller}, addrs, func(infos []*access.AccountInfo) error {
		_, err := w.machine.Settle(w.now, auction.SettleAccounts{
			Auction: infos[0], Caller: infos[1], Seller: infos[2], Leader: infos[3], Escrow: infos[4], Item: infos[5],
		})
		return err
	})
}

func (w *world) cancel(auctionAddr, authority types.Address) error {
	e, _, _ := access.DeriveEscrow(auctionAddr)
	i, _, _ := access.DeriveItem(auctionAddr)
	return w.exec([]types.Address{authority}, []types.Address{auctionAddr, authority, e, i}, func(infos []*access.AccountInfo) error {
		_, err := w.machine.Cancel(w.now, auction.CancelAccounts{
			Auction: infos[0], Authority: infos[1], Escrow: infos[2], Item: infos[3],
		})
		return err
	})
}

func (w *world) auction(a types.Address) *types.Auction {
	acc, ok := w.accounts[a]
	if !ok {
		return nil
	}
	rec, err := types.UnmarshalAuction(acc.Data)
	if err != nil {
		panic(err)
	}
	return rec
}

func (w *world) balance(a types.Address) uint64 {
	if acc, ok := w.accounts[a]; ok {
		return acc.Balance
	}
	return 0
}

func (w *world) escrowBalance(auctionAddr types.Address) uint64 {
	e, _, _ := access.DeriveEscrow(auctionAddr)
	return w.balance(e)
}

func (w *world) holder(t require.TestingT, auctionAddr types.Address) types.Address {
	i, _, _ := access.DeriveItem(auctionAddr)
	rec, err := types.UnmarshalItemCustody(w.accounts[i].Data)
	require.NoError(t, err)
	return rec.Holder
}

func (w *world) supply() (total uint64) {
	for _, acc := range w.accounts {
		total += acc.Balance
	}
	return total
}
