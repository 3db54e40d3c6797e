package types

import (
	"fmt"

	"github.com/tendermint/tendermint/crypto/tmhash"
)

// Phase is the lifecycle stage of an auction.
type Phase uint8

const (
	PhaseUninitialized Phase = iota
	PhaseOpen
	PhaseClosed
	PhaseSettled
	PhaseCancelled
)

var phaseNames = map[Phase]string{
	PhaseUninitialized: "Uninitialized",
	PhaseOpen:          "Open",
	PhaseClosed:        "Closed",
	PhaseSettled:       "Settled",
	PhaseCancelled:     "Cancelled",
}

func (p Phase) String() string {
	if s, ok := phaseNames[p]; ok {
		return s
	}
	return fmt.Sprintf("Phase(%d)", uint8(p))
}

// IsTerminal reports whether no transition leaves p.
func (p Phase) IsTerminal() bool {
	return p == PhaseSettled || p == PhaseCancelled
}

// CanTransitionTo reports whether moving from p to next is a legal, forward
// step of the lifecycle.
func (p Phase) CanTransitionTo(next Phase) bool {
	switch p {
	case PhaseUninitialized:
		return next == PhaseOpen
	case PhaseOpen:
		return next == PhaseClosed || next == PhaseCancelled
	case PhaseClosed:
		return next == PhaseSettled || next == PhaseCancelled
	default:
		return false
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Phase) UnmarshalText(text []byte) error {
	for phase, name := range phaseNames {
		if name == string(text) {
			*p = phase
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", text)
}

const (
	// DiscriminatorSize is the length of the record type tag that prefixes
	// program-owned account data.
	DiscriminatorSize = 8

	// RecordVersion is the current layout version of program records.
	RecordVersion uint8 = 1

	// AuctionSize is the encoded size of an Auction record.
	AuctionSize = DiscriminatorSize + 1 + AddressSize + 8 + ItemReferenceSize +
		8 + 8 + 8 + 8 + 8 + 1 + AddressSize + 1 + 1 + 1

	// ItemReferenceSize is the size of an opaque item identifier.
	ItemReferenceSize = 32
)

// Discriminator tags the type of a program-owned record.
type Discriminator [DiscriminatorSize]byte

func discriminator(name string) (d Discriminator) {
	copy(d[:], tmhash.Sum([]byte("account:"+name)))
	return d
}

var (
	AuctionDiscriminator     = discriminator("Auction")
	ItemCustodyDiscriminator = discriminator("ItemCustody")
)

// ItemReference is an opaque identifier of the asset or right being sold.
type ItemReference [ItemReferenceSize]byte

// Auction is the persistent record of one auction instance.
type Auction struct {
	Authority       Address
	Nonce           uint64
	ItemReference   ItemReference
	ReservePrice    uint64
	MinIncrement    uint64
	StartTime       int64
	EndTime         int64
	HighestBid      uint64
	HighestBidder   *Address
	Phase           Phase
	Bump            uint8
	AllowEarlyClose bool
}

// HasBidder reports whether a bid has been accepted.
func (a *Auction) HasBidder() bool { return a.HighestBidder != nil }

// IsLeader reports whether addr is the current leading bidder.
func (a *Auction) IsLeader(addr Address) bool {
	return a.HighestBidder != nil && *a.HighestBidder == addr
}

// SetPhase moves the auction to next, refusing any step that is not a
// forward edge of the lifecycle.
func (a *Auction) SetPhase(next Phase) error {
	if !a.Phase.CanTransitionTo(next) {
		return fmt.Errorf("illegal phase transition %s -> %s", a.Phase, next)
	}
	a.Phase = next
	return nil
}

// Copy returns a deep copy of a.
func (a *Auction) Copy() *Auction {
	cp := *a
	if a.HighestBidder != nil {
		bidder := *a.HighestBidder
		cp.HighestBidder = &bidder
	}
	return &cp
}

// Marshal encodes the record in its fixed binary layout.
func (a *Auction) Marshal() []byte {
	enc := newEncoder(AuctionSize)
	enc.raw(AuctionDiscriminator[:])
	enc.u8(RecordVersion)
	enc.raw(a.Authority[:])
	enc.u64(a.Nonce)
	enc.raw(a.ItemReference[:])
	enc.u64(a.ReservePrice)
	enc.u64(a.MinIncrement)
	enc.i64(a.StartTime)
	enc.i64(a.EndTime)
	enc.u64(a.HighestBid)
	if a.HighestBidder != nil {
		enc.u8(1)
		enc.raw(a.HighestBidder[:])
	} else {
		enc.u8(0)
		enc.raw(make([]byte, AddressSize))
	}
	enc.u8(uint8(a.Phase))
	enc.u8(a.Bump)
	enc.bool(a.AllowEarlyClose)
	return enc.bytes()
}

// UnmarshalAuction decodes an Auction record, rejecting data with a foreign
// discriminator, an unknown version or out-of-range fields.
func UnmarshalAuction(bz []byte) (*Auction, error) {
	if len(bz) != AuctionSize {
		return nil, fmt.Errorf("%w: auction record is %d bytes, want %d", ErrInvalidAccount, len(bz), AuctionSize)
	}
	dec := newDecoder(bz)
	if err := readHeader(dec, AuctionDiscriminator, "auction"); err != nil {
		return nil, err
	}

	a := &Auction{
		Authority: dec.address(),
		Nonce:     dec.u64(),
	}
	copy(a.ItemReference[:], dec.next(ItemReferenceSize))
	a.ReservePrice = dec.u64()
	a.MinIncrement = dec.u64()
	a.StartTime = dec.i64()
	a.EndTime = dec.i64()
	a.HighestBid = dec.u64()
	hasBidder := dec.bool()
	bidder := dec.address()
	a.Phase = Phase(dec.u8())
	a.Bump = dec.u8()
	a.AllowEarlyClose = dec.bool()
	if err := dec.finish(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAccount, err)
	}

	if hasBidder {
		a.HighestBidder = &bidder
	} else if !bidder.IsZero() || a.HighestBid != 0 {
		return nil, fmt.Errorf("%w: bid recorded without a bidder", ErrInvalidAccount)
	}
	if a.Phase < PhaseOpen || a.Phase > PhaseCancelled {
		return nil, fmt.Errorf("%w: invalid phase %d", ErrInvalidAccount, uint8(a.Phase))
	}
	return a, nil
}

func readHeader(dec *decoder, want Discriminator, name string) error {
	var got Discriminator
	copy(got[:], dec.next(DiscriminatorSize))
	version := dec.u8()
	if dec.err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAccount, dec.err)
	}
	if got != want {
		return fmt.Errorf("%w: data is not a %s record", ErrInvalidAccount, name)
	}
	if version != RecordVersion {
		return fmt.Errorf("%w: unsupported %s record version %d", ErrInvalidAccount, name, version)
	}
	return nil
}
