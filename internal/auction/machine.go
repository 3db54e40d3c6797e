package auction

import (
	"fmt"

	"github.com/tendermint/auctiond/internal/access"
	"github.com/tendermint/auctiond/internal/escrow"
	tmmath "github.com/tendermint/auctiond/libs/math"
	"github.com/tendermint/auctiond/types"
)

// Machine executes auction transitions.
type Machine struct {
	escrow    *escrow.Engine
	custodian Custodian
}

// NewMachine returns a Machine moving funds under params and items through
// custodian.
func NewMachine(params types.Params, custodian Custodian) *Machine {
	return &Machine{
		escrow:    escrow.NewEngine(params),
		custodian: custodian,
	}
}

// Initialize creates the auction record, its empty escrow and the item
// custody record, and opens the auction.
func (m *Machine) Initialize(now int64, msg *types.Initialize, accs InitializeAccounts) (*types.Auction, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := access.RequireSigner(accs.Seller); err != nil {
		return nil, err
	}

	seller := accs.Seller.Address
	auctionAddr, bump, err := access.DeriveAuction(seller, msg.Nonce)
	if err != nil {
		return nil, err
	}
	if err := access.RequireAddress(accs.Auction, auctionAddr); err != nil {
		return nil, err
	}
	if err := requireDerivedEscrow(accs.Escrow, auctionAddr); err != nil {
		return nil, err
	}
	if err := requireDerivedItem(accs.Item, auctionAddr); err != nil {
		return nil, err
	}
	for _, info := range []*access.AccountInfo{accs.Auction, accs.Escrow} {
		if err := access.RequireWritable(info); err != nil {
			return nil, err
		}
		if err := access.RequireUninitialized(info); err != nil {
			return nil, err
		}
	}
	if accs.Escrow.Balance() != 0 {
		return nil, fmt.Errorf("%w: escrow %s already holds %d", types.ErrInvalidAccount,
			accs.Escrow.Address, accs.Escrow.Balance())
	}

	auction := &types.Auction{
		Authority:       seller,
		Nonce:           msg.Nonce,
		ItemReference:   msg.ItemReference,
		ReservePrice:    msg.ReservePrice,
		MinIncrement:    msg.MinIncrement,
		StartTime:       msg.StartTime,
		EndTime:         msg.EndTime,
		Bump:            bump,
		AllowEarlyClose: msg.AllowEarlyClose,
	}
	if err := auction.SetPhase(types.PhaseOpen); err != nil {
		return nil, err
	}
	if err := m.custodian.Lock(accs.Item, auctionAddr, msg.ItemReference); err != nil {
		return nil, err
	}

	accs.Escrow.Account = &types.Account{Owner: types.AuctionProgramID}
	accs.Auction.Account = &types.Account{
		Owner:   types.AuctionProgramID,
		Balance: accs.Auction.Balance(),
	}
	store(accs.Auction, auction)
	return auction, nil
}

// PlaceBid refunds the current leader in full, deposits amount from the
// funding wallet and makes the bidder the new leader.
func (m *Machine) PlaceBid(now int64, msg *types.PlaceBid, accs PlaceBidAccounts) (*types.Auction, error) {
	auction, err := load(accs.Auction)
	if err != nil {
		return nil, err
	}
	if err := access.RequireSigner(accs.Bidder); err != nil {
		return nil, err
	}
	if err := requireDerivedEscrow(accs.Escrow, accs.Auction.Address); err != nil {
		return nil, err
	}

	switch {
	case auction.Phase != types.PhaseOpen:
		return nil, fmt.Errorf("%w: auction is %s", types.ErrAuctionNotOpen, auction.Phase)
	case now < auction.StartTime:
		return nil, fmt.Errorf("%w: bidding starts at %d, now %d", types.ErrAuctionNotOpen, auction.StartTime, now)
	case now >= auction.EndTime:
		return nil, fmt.Errorf("%w: bidding ended at %d, now %d", types.ErrAuctionExpired, auction.EndTime, now)
	}

	threshold, err := tmmath.SafeAddUint64(auction.HighestBid, auction.MinIncrement)
	if err != nil || msg.Amount <= threshold {
		return nil, fmt.Errorf("%w: bid %d must exceed %d plus increment %d",
			types.ErrBidTooLow, msg.Amount, auction.HighestBid, auction.MinIncrement)
	}

	if err := requireLeaderSlot(accs.PreviousBidder, auction); err != nil {
		return nil, err
	}
	if auction.HasBidder() {
		if err := m.escrow.Refund(accs.Escrow, accs.PreviousBidder, auction.HighestBid); err != nil {
			return nil, err
		}
	}
	if err := m.escrow.Deposit(accs.Funding, accs.Escrow, msg.Amount); err != nil {
		return nil, err
	}

	bidder := accs.Bidder.Address
	auction.HighestBid = msg.Amount
	auction.HighestBidder = &bidder
	store(accs.Auction, auction)
	return auction, nil
}

// Close ends bidding. After the end time anyone may close the auction; before
// it only the authority may, and only when early close was allowed.
func (m *Machine) Close(now int64, accs CloseAccounts) (*types.Auction, error) {
	auction, err := load(accs.Auction)
	if err != nil {
		return nil, err
	}
	if err := access.RequireSigner(accs.Caller); err != nil {
		return nil, err
	}
	if auction.Phase != types.PhaseOpen {
		return nil, fmt.Errorf("%w: auction is %s", types.ErrAuctionNotOpen, auction.Phase)
	}
	if now < auction.EndTime {
		if !auction.AllowEarlyClose {
			return nil, fmt.Errorf("%w: auction ends at %d, now %d", types.ErrTooEarly, auction.EndTime, now)
		}
		if accs.Caller.Address != auction.Authority {
			return nil, fmt.Errorf("%w: only the authority may close early", types.ErrUnauthorized)
		}
	}

	if err := auction.SetPhase(types.PhaseClosed); err != nil {
		return nil, err
	}
	store(accs.Auction, auction)
	return auction, nil
}

// Settle pays the seller and hands the item to the winner when the reserve
// was met. Otherwise the leader, if any, is refunded, the item goes back to
// the seller and the auction ends Cancelled.
func (m *Machine) Settle(now int64, accs SettleAccounts) (*types.Auction, error) {
	auction, err := load(accs.Auction)
	if err != nil {
		return nil, err
	}
	if err := access.RequireSigner(accs.Caller); err != nil {
		return nil, err
	}
	switch {
	case auction.Phase.IsTerminal():
		return nil, fmt.Errorf("%w: auction is %s", types.ErrAlreadySettled, auction.Phase)
	case auction.Phase != types.PhaseClosed:
		return nil, fmt.Errorf("%w: auction is %s", types.ErrNotClosed, auction.Phase)
	}
	caller := accs.Caller.Address
	if caller != auction.Authority && !auction.IsLeader(caller) {
		return nil, fmt.Errorf("%w: %s is neither authority nor leading bidder", types.ErrUnauthorized, caller)
	}

	auctionAddr := accs.Auction.Address
	if err := access.RequireAddress(accs.Seller, auction.Authority); err != nil {
		return nil, err
	}
	if err := requireLeaderSlot(accs.Leader, auction); err != nil {
		return nil, err
	}
	if err := requireDerivedEscrow(accs.Escrow, auctionAddr); err != nil {
		return nil, err
	}
	if err := requireDerivedItem(accs.Item, auctionAddr); err != nil {
		return nil, err
	}

	if auction.HasBidder() && auction.HighestBid >= auction.ReservePrice {
		if err := m.escrow.Release(accs.Escrow, accs.Seller, auction.HighestBid); err != nil {
			return nil, err
		}
		if err := m.custodian.Release(accs.Item, auctionAddr, *auction.HighestBidder); err != nil {
			return nil, err
		}
		if err := auction.SetPhase(types.PhaseSettled); err != nil {
			return nil, err
		}
	} else {
		if auction.HasBidder() {
			if err := m.escrow.Refund(accs.Escrow, accs.Leader, auction.HighestBid); err != nil {
				return nil, err
			}
		}
		if err := m.custodian.Release(accs.Item, auctionAddr, auction.Authority); err != nil {
			return nil, err
		}
		if err := auction.SetPhase(types.PhaseCancelled); err != nil {
			return nil, err
		}
	}

	store(accs.Auction, auction)
	return auction, nil
}

// Cancel withdraws an open auction that has no bids and returns the item to
// the seller.
func (m *Machine) Cancel(now int64, accs CancelAccounts) (*types.Auction, error) {
	auction, err := load(accs.Auction)
	if err != nil {
		return nil, err
	}
	if err := access.RequireSigner(accs.Authority); err != nil {
		return nil, err
	}
	if accs.Authority.Address != auction.Authority {
		return nil, fmt.Errorf("%w: only the authority may cancel", types.ErrUnauthorized)
	}
	switch {
	case auction.Phase.IsTerminal():
		return nil, fmt.Errorf("%w: auction is %s", types.ErrAlreadySettled, auction.Phase)
	case auction.Phase != types.PhaseOpen:
		return nil, fmt.Errorf("%w: auction is %s", types.ErrAuctionNotOpen, auction.Phase)
	case auction.HasBidder():
		return nil, fmt.Errorf("%w: leading bid %d", types.ErrBidsAlreadyPlaced, auction.HighestBid)
	}

	auctionAddr := accs.Auction.Address
	if err := requireDerivedEscrow(accs.Escrow, auctionAddr); err != nil {
		return nil, err
	}
	if err := requireDerivedItem(accs.Item, auctionAddr); err != nil {
		return nil, err
	}
	if accs.Escrow.Balance() != 0 {
		return nil, fmt.Errorf("%w: escrow holds %d without a bid", types.ErrInvalidAccount, accs.Escrow.Balance())
	}

	if err := m.custodian.Release(accs.Item, auctionAddr, auction.Authority); err != nil {
		return nil, err
	}
	if err := auction.SetPhase(types.PhaseCancelled); err != nil {
		return nil, err
	}
	store(accs.Auction, auction)
	return auction, nil
}

// load decodes the auction record held by info and checks the record sits at
// the address its own seeds derive.
func load(info *access.AccountInfo) (*types.Auction, error) {
	if err := access.RequireWritable(info); err != nil {
		return nil, err
	}
	if err := access.RequireProgramAccount(info, types.AuctionProgramID); err != nil {
		return nil, err
	}
	auction, err := types.UnmarshalAuction(info.Account.Data)
	if err != nil {
		return nil, err
	}
	seeds := access.AuctionSeeds(auction.Authority, auction.Nonce)
	if err := access.VerifyProgramAddress(info.Address, seeds, auction.Bump, types.AuctionProgramID); err != nil {
		return nil, err
	}
	return auction, nil
}

func store(info *access.AccountInfo, auction *types.Auction) {
	info.Account.Data = auction.Marshal()
}

func requireDerivedEscrow(info *access.AccountInfo, auction types.Address) error {
	addr, _, err := access.DeriveEscrow(auction)
	if err != nil {
		return err
	}
	return access.RequireAddress(info, addr)
}

func requireDerivedItem(info *access.AccountInfo, auction types.Address) error {
	addr, _, err := access.DeriveItem(auction)
	if err != nil {
		return err
	}
	return access.RequireAddress(info, addr)
}

// requireLeaderSlot checks info is the leading bidder, or the zero address
// when there is none.
func requireLeaderSlot(info *access.AccountInfo, auction *types.Auction) error {
	if auction.HasBidder() {
		return access.RequireAddress(info, *auction.HighestBidder)
	}
	return access.RequireAddress(info, types.Address{})
}
