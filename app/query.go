package app

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	abci "github.com/tendermint/tendermint/abci/types"
	tmbytes "github.com/tendermint/tendermint/libs/bytes"

	"github.com/tendermint/auctiond/internal/access"
	"github.com/tendermint/auctiond/internal/custody"
	"github.com/tendermint/auctiond/internal/ledger"
	"github.com/tendermint/auctiond/types"
)

// Query paths.
const (
	QueryAuction = "/auction"
	QueryAccount = "/account"
	QueryDerive  = "/derive"
)

// AuctionView is the /auction query result.
type AuctionView struct {
	Address         types.Address    `json:"address"`
	Authority       types.Address    `json:"authority"`
	Nonce           uint64           `json:"nonce,string"`
	ItemReference   tmbytes.HexBytes `json:"item_reference"`
	ReservePrice    uint64           `json:"reserve_price,string"`
	MinIncrement    uint64           `json:"min_increment,string"`
	StartTime       int64            `json:"start_time,string"`
	EndTime         int64            `json:"end_time,string"`
	HighestBid      uint64           `json:"highest_bid,string"`
	HighestBidder   *types.Address   `json:"highest_bidder,omitempty"`
	Phase           types.Phase      `json:"phase"`
	Bump            uint8            `json:"bump"`
	AllowEarlyClose bool             `json:"allow_early_close"`
	Escrow          types.Address    `json:"escrow"`
	EscrowBalance   uint64           `json:"escrow_balance,string"`
	Item            types.Address    `json:"item"`
	ItemHolder      *types.Address   `json:"item_holder,omitempty"`
}

// AccountView is the /account query result.
type AccountView struct {
	Address types.Address    `json:"address"`
	Owner   types.Address    `json:"owner"`
	Balance uint64           `json:"balance,string"`
	Data    tmbytes.HexBytes `json:"data,omitempty"`
}

// DeriveView is the /derive query result.
type DeriveView struct {
	Auction types.Address `json:"auction"`
	Bump    uint8         `json:"bump"`
	Escrow  types.Address `json:"escrow"`
	Item    types.Address `json:"item"`
}

// Query serves committed state. Data is a base58 address for /auction and
// /account and "authority/nonce" for /derive.
func (app *Application) Query(req abci.RequestQuery) abci.ResponseQuery {
	app.mtx.Lock()
	height := app.state.Height
	app.mtx.Unlock()

	l := ledger.New(app.db)
	var (
		view interface{}
		err  error
	)
	switch req.Path {
	case QueryAuction:
		view, err = queryAuction(l, string(req.Data))
	case QueryAccount:
		view, err = queryAccount(l, string(req.Data))
	case QueryDerive:
		view, err = queryDerive(string(req.Data))
	default:
		err = fmt.Errorf("unknown query path %q", req.Path)
	}
	if err != nil {
		return abci.ResponseQuery{
			Code:      types.CodeOf(err),
			Codespace: types.Codespace,
			Log:       err.Error(),
			Height:    height,
		}
	}

	bz, err := json.Marshal(view)
	if err != nil {
		return abci.ResponseQuery{Code: types.CodeTypeInternal, Codespace: types.Codespace, Log: err.Error()}
	}
	return abci.ResponseQuery{
		Code:   types.CodeTypeOK,
		Key:    req.Data,
		Value:  bz,
		Height: height,
	}
}

func loadAccount(l *ledger.Ledger, data string) (types.Address, *types.Account, error) {
	addr, err := types.ParseAddress(data)
	if err != nil {
		return addr, nil, fmt.Errorf("%w: %v", types.ErrInvalidAccount, err)
	}
	acc, err := l.Account(addr)
	if err != nil {
		return addr, nil, err
	}
	if acc == nil {
		return addr, nil, fmt.Errorf("%w: %s does not exist", types.ErrInvalidAccount, addr)
	}
	return addr, acc, nil
}

func queryAccount(l *ledger.Ledger, data string) (*AccountView, error) {
	addr, acc, err := loadAccount(l, data)
	if err != nil {
		return nil, err
	}
	return &AccountView{Address: addr, Owner: acc.Owner, Balance: acc.Balance, Data: acc.Data}, nil
}

func queryAuction(l *ledger.Ledger, data string) (*AuctionView, error) {
	addr, acc, err := loadAccount(l, data)
	if err != nil {
		return nil, err
	}
	if acc.Owner != types.AuctionProgramID {
		return nil, fmt.Errorf("%w: %s is not an auction", types.ErrInvalidAccount, addr)
	}
	a, err := types.UnmarshalAuction(acc.Data)
	if err != nil {
		return nil, err
	}

	view := &AuctionView{
		Address:         addr,
		Authority:       a.Authority,
		Nonce:           a.Nonce,
		ItemReference:   a.ItemReference[:],
		ReservePrice:    a.ReservePrice,
		MinIncrement:    a.MinIncrement,
		StartTime:       a.StartTime,
		EndTime:         a.EndTime,
		HighestBid:      a.HighestBid,
		HighestBidder:   a.HighestBidder,
		Phase:           a.Phase,
		Bump:            a.Bump,
		AllowEarlyClose: a.AllowEarlyClose,
	}
	if view.Escrow, _, err = access.DeriveEscrow(addr); err != nil {
		return nil, err
	}
	if view.Item, _, err = access.DeriveItem(addr); err != nil {
		return nil, err
	}
	if escrow, err := l.Account(view.Escrow); err != nil {
		return nil, err
	} else if escrow != nil {
		view.EscrowBalance = escrow.Balance
	}
	item, err := l.Account(view.Item)
	if err != nil {
		return nil, err
	}
	if item != nil {
		record, err := custody.Load(&access.AccountInfo{Address: view.Item, Account: item})
		if err != nil {
			return nil, err
		}
		view.ItemHolder = &record.Holder
	}
	return view, nil
}

func queryDerive(data string) (*DeriveView, error) {
	parts := strings.Split(data, "/")
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: want authority/nonce, got %q", types.ErrMalformedInstruction, data)
	}
	authority, err := types.ParseAddress(parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidAccount, err)
	}
	nonce, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: nonce: %v", types.ErrMalformedInstruction, err)
	}

	view := &DeriveView{}
	if view.Auction, view.Bump, err = access.DeriveAuction(authority, nonce); err != nil {
		return nil, err
	}
	if view.Escrow, _, err = access.DeriveEscrow(view.Auction); err != nil {
		return nil, err
	}
	if view.Item, _, err = access.DeriveItem(view.Auction); err != nil {
		return nil, err
	}
	return view, nil
}
