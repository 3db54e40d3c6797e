package app

import (
	"strconv"

	abci "github.com/tendermint/tendermint/abci/types"

	"github.com/tendermint/auctiond/internal/dispatch"
)

const (
	EventTypeAuction = "auction"

	AttributeKeyAction     = "action"
	AttributeKeyAddress    = "address"
	AttributeKeyPhase      = "phase"
	AttributeKeyHighestBid = "highest_bid"
	AttributeKeyBidder     = "bidder"
)

func attr(key, value string) abci.EventAttribute {
	return abci.EventAttribute{Key: []byte(key), Value: []byte(value), Index: true}
}

// auctionEvent describes the auction after a successful instruction.
func auctionEvent(res *dispatch.Result) abci.Event {
	attrs := []abci.EventAttribute{
		attr(AttributeKeyAction, res.Opcode.String()),
		attr(AttributeKeyAddress, res.Auction.String()),
		attr(AttributeKeyPhase, res.Record.Phase.String()),
		attr(AttributeKeyHighestBid, strconv.FormatUint(res.Record.HighestBid, 10)),
	}
	if res.Record.HighestBidder != nil {
		attrs = append(attrs, attr(AttributeKeyBidder, res.Record.HighestBidder.String()))
	}
	return abci.Event{Type: EventTypeAuction, Attributes: attrs}
}
