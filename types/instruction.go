package types

import (
	"fmt"
)

// Opcode is the leading byte of every encoded instruction.
type Opcode uint8

const (
	OpInitialize Opcode = iota
	OpPlaceBid
	OpClose
	OpSettle
	OpCancel
)

var opcodeNames = map[Opcode]string{
	OpInitialize: "initialize",
	OpPlaceBid:   "place_bid",
	OpClose:      "close",
	OpSettle:     "settle",
	OpCancel:     "cancel",
}

func (op Opcode) String() string {
	if s, ok := opcodeNames[op]; ok {
		return s
	}
	return fmt.Sprintf("opcode(%d)", uint8(op))
}

// Instruction is one of the five auction operations. The set is closed: only
// the types in this file implement it.
type Instruction interface {
	Opcode() Opcode
	ValidateBasic() error

	encodeArgs(enc *encoder)
	decodeArgs(dec *decoder)
}

// Initialize creates an auction record and opens it for bidding.
type Initialize struct {
	Nonce           uint64
	ItemReference   ItemReference
	ReservePrice    uint64
	MinIncrement    uint64
	StartTime       int64
	EndTime         int64
	AllowEarlyClose bool
}

// PlaceBid offers Amount for the item, replacing the current leader.
type PlaceBid struct {
	Amount uint64
}

// Close ends the bidding phase.
type Close struct{}

// Settle pays the seller or refunds the leader, depending on the reserve.
type Settle struct{}

// Cancel withdraws an auction that has not received any bid.
type Cancel struct{}

var (
	_ Instruction = (*Initialize)(nil)
	_ Instruction = (*PlaceBid)(nil)
	_ Instruction = (*Close)(nil)
	_ Instruction = (*Settle)(nil)
	_ Instruction = (*Cancel)(nil)
)

func (*Initialize) Opcode() Opcode { return OpInitialize }
func (*PlaceBid) Opcode() Opcode   { return OpPlaceBid }
func (*Close) Opcode() Opcode      { return OpClose }
func (*Settle) Opcode() Opcode     { return OpSettle }
func (*Cancel) Opcode() Opcode     { return OpCancel }

// ValidateBasic performs stateless checks on the arguments.
func (msg *Initialize) ValidateBasic() error {
	if msg.EndTime <= msg.StartTime {
		return fmt.Errorf("%w: end time %d must be after start time %d",
			ErrMalformedInstruction, msg.EndTime, msg.StartTime)
	}
	return nil
}

// ValidateBasic is a no-op: any amount is well formed, the state machine
// decides whether it is high enough.
func (*PlaceBid) ValidateBasic() error { return nil }

func (*Close) ValidateBasic() error  { return nil }
func (*Settle) ValidateBasic() error { return nil }
func (*Cancel) ValidateBasic() error { return nil }

func (msg *Initialize) encodeArgs(enc *encoder) {
	enc.u64(msg.Nonce)
	enc.raw(msg.ItemReference[:])
	enc.u64(msg.ReservePrice)
	enc.u64(msg.MinIncrement)
	enc.i64(msg.StartTime)
	enc.i64(msg.EndTime)
	enc.bool(msg.AllowEarlyClose)
}

func (msg *Initialize) decodeArgs(dec *decoder) {
	msg.Nonce = dec.u64()
	copy(msg.ItemReference[:], dec.next(ItemReferenceSize))
	msg.ReservePrice = dec.u64()
	msg.MinIncrement = dec.u64()
	msg.StartTime = dec.i64()
	msg.EndTime = dec.i64()
	msg.AllowEarlyClose = dec.bool()
}

func (msg *PlaceBid) encodeArgs(enc *encoder) { enc.u64(msg.Amount) }
func (msg *PlaceBid) decodeArgs(dec *decoder) { msg.Amount = dec.u64() }

func (*Close) encodeArgs(*encoder)  {}
func (*Close) decodeArgs(*decoder)  {}
func (*Settle) encodeArgs(*encoder) {}
func (*Settle) decodeArgs(*decoder) {}
func (*Cancel) encodeArgs(*encoder) {}
func (*Cancel) decodeArgs(*decoder) {}

// EncodeInstruction returns the opcode byte followed by the little-endian
// arguments of ix.
func EncodeInstruction(ix Instruction) []byte {
	enc := newEncoder(64)
	enc.u8(uint8(ix.Opcode()))
	ix.encodeArgs(enc)
	return enc.bytes()
}

// DecodeInstruction parses instruction data. Unknown opcodes, short
// arguments and trailing bytes are all ErrMalformedInstruction.
func DecodeInstruction(bz []byte) (Instruction, error) {
	if len(bz) == 0 {
		return nil, fmt.Errorf("%w: empty instruction data", ErrMalformedInstruction)
	}

	var ix Instruction
	switch op := Opcode(bz[0]); op {
	case OpInitialize:
		ix = new(Initialize)
	case OpPlaceBid:
		ix = new(PlaceBid)
	case OpClose:
		ix = new(Close)
	case OpSettle:
		ix = new(Settle)
	case OpCancel:
		ix = new(Cancel)
	default:
		return nil, fmt.Errorf("%w: unknown %s", ErrMalformedInstruction, op)
	}

	dec := newDecoder(bz[1:])
	ix.decodeArgs(dec)
	if err := dec.finish(); err != nil {
		return nil, fmt.Errorf("%w: %s arguments: %v", ErrMalformedInstruction, ix.Opcode(), err)
	}
	return ix, nil
}
