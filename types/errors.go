package types

import (
	"errors"
	"fmt"
)

// Codespace is the ABCI codespace attached to every failed response.
const Codespace = "auction"

const (
	// CodeTypeOK is returned for every successful request.
	CodeTypeOK uint32 = 0
	// CodeTypeInternal is returned for errors outside the taxonomy below.
	CodeTypeInternal uint32 = 99
)

// Error is a registered program error. Every Error has a stable ABCI code so
// clients can tell failures apart without parsing log strings.
type Error struct {
	code uint32
	name string
	desc string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.name, e.desc) }

// Code returns the ABCI code of the error.
func (e *Error) Code() uint32 { return e.code }

// Name returns the taxonomy name of the error, e.g. "BidTooLow".
func (e *Error) Name() string { return e.name }

var registry = map[uint32]*Error{}

func register(code uint32, name, desc string) *Error {
	if _, ok := registry[code]; ok {
		panic(fmt.Sprintf("error code %d registered twice", code))
	}
	e := &Error{code: code, name: name, desc: desc}
	registry[code] = e
	return e
}

// Program errors.
var (
	ErrUnauthorized         = register(1, "Unauthorized", "required signer is missing")
	ErrInvalidAccount       = register(2, "InvalidAccount", "account address, owner or layout does not match")
	ErrAlreadyInitialized   = register(3, "AlreadyInitialized", "account already holds data")
	ErrAuctionNotOpen       = register(4, "AuctionNotOpen", "auction is not open for this operation")
	ErrAuctionExpired       = register(5, "AuctionExpired", "auction bidding window has ended")
	ErrBidTooLow            = register(6, "BidTooLow", "bid does not exceed highest bid plus increment")
	ErrTooEarly             = register(7, "TooEarly", "auction end time has not been reached")
	ErrNotClosed            = register(8, "NotClosed", "auction must be closed first")
	ErrAlreadySettled       = register(9, "AlreadySettled", "auction already reached a terminal phase")
	ErrBidsAlreadyPlaced    = register(10, "BidsAlreadyPlaced", "auction already has a bid")
	ErrInsufficientFunds    = register(11, "InsufficientFunds", "funding account cannot cover amount")
	ErrInsufficientEscrow   = register(12, "InsufficientEscrow", "escrow balance is below the amount owed")
	ErrMalformedInstruction = register(13, "MalformedInstruction", "instruction cannot be decoded")
)

// Host errors, raised before an instruction reaches the program.
var (
	ErrTxDecode           = register(20, "TxDecode", "transaction envelope cannot be decoded")
	ErrInvalidSignature   = register(21, "InvalidSignature", "signature does not verify")
	ErrTxReplay           = register(22, "TxReplay", "transaction was already executed")
	ErrArithmeticOverflow = register(23, "ArithmeticOverflow", "balance arithmetic overflowed")
)

// CodeOf returns the ABCI code of err: CodeTypeOK for nil, the registered
// code when err wraps an *Error, CodeTypeInternal otherwise.
func CodeOf(err error) uint32 {
	if err == nil {
		return CodeTypeOK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.code
	}
	return CodeTypeInternal
}

// ErrorForCode returns the registered error with the given code, or nil.
func ErrorForCode(code uint32) *Error {
	return registry[code]
}
