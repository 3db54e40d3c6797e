package types

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/btcsuite/btcutil/base58"
	"github.com/tendermint/tendermint/crypto/tmhash"
)

// AddressSize is the size of every ledger address. Wallet addresses are raw
// ed25519 public keys; program derived addresses are sha256 digests that lie
// off the ed25519 curve.
const AddressSize = 32

// Address identifies an account in the ledger.
type Address [AddressSize]byte

var (
	// SystemProgramID owns every plain wallet account.
	SystemProgramID = Address{}

	// AuctionProgramID owns auction, escrow and item custody accounts.
	AuctionProgramID = programID("auctiond/program/auction")
)

func programID(name string) (addr Address) {
	copy(addr[:], tmhash.Sum([]byte(name)))
	return addr
}

// AddressFromBytes converts a 32 byte slice into an Address.
func AddressFromBytes(bz []byte) (Address, error) {
	var addr Address
	if len(bz) != AddressSize {
		return addr, fmt.Errorf("invalid address length %d, want %d", len(bz), AddressSize)
	}
	copy(addr[:], bz)
	return addr, nil
}

// ParseAddress decodes a base58 textual address.
func ParseAddress(s string) (Address, error) {
	bz := base58.Decode(s)
	if len(bz) == 0 && s != "" {
		return Address{}, fmt.Errorf("invalid base58 address %q", s)
	}
	return AddressFromBytes(bz)
}

// MustParseAddress is ParseAddress that panics on error.
func MustParseAddress(s string) Address {
	addr, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return addr
}

// Bytes returns a copy of the address bytes.
func (a Address) Bytes() []byte {
	bz := make([]byte, AddressSize)
	copy(bz, a[:])
	return bz
}

// IsZero reports whether a is the all-zero address.
func (a Address) IsZero() bool { return a == Address{} }

// Compare orders addresses bytewise.
func (a Address) Compare(b Address) int { return bytes.Compare(a[:], b[:]) }

// String returns the base58 form of the address.
func (a Address) String() string { return base58.Encode(a[:]) }

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	addr, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

var (
	_ json.Marshaler   = Address{}
	_ json.Unmarshaler = (*Address)(nil)
)

// MarshalJSON implements json.Marshaler.
func (a Address) MarshalJSON() ([]byte, error) { return json.Marshal(a.String()) }

// UnmarshalJSON implements json.Unmarshaler.
func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return a.UnmarshalText([]byte(s))
}
