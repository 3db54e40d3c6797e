package access

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/oasisprotocol/curve25519-voi/curve"
	"github.com/tendermint/tendermint/crypto/tmhash"

	"github.com/tendermint/auctiond/types"
)

const (
	// MaxSeeds is the maximum number of seeds, bump included.
	MaxSeeds = 16
	// MaxSeedLen is the maximum length of a single seed.
	MaxSeedLen = 32
)

var (
	pdaMarker = []byte("ProgramDerivedAddress")

	// ErrOnCurve is returned by CreateProgramAddress when the seeds hash to a
	// valid ed25519 public key.
	ErrOnCurve = errors.New("derived address lies on the ed25519 curve")

	errNoBump = errors.New("no bump seed yields an off-curve address")
)

// Seed prefixes of the program's account kinds.
var (
	AuctionSeedPrefix = []byte("auction")
	EscrowSeedPrefix  = []byte("escrow")
	ItemSeedPrefix    = []byte("item")
)

// CreateProgramAddress hashes seeds (bump included) into an address owned by
// programID.
func CreateProgramAddress(seeds [][]byte, programID types.Address) (types.Address, error) {
	var addr types.Address
	if len(seeds) > MaxSeeds {
		return addr, fmt.Errorf("%d seeds exceed the maximum of %d", len(seeds), MaxSeeds)
	}

	h := tmhash.New()
	for i, seed := range seeds {
		if len(seed) > MaxSeedLen {
			return addr, fmt.Errorf("seed %d is %d bytes, max %d", i, len(seed), MaxSeedLen)
		}
		h.Write(seed)
	}
	h.Write(programID[:])
	h.Write(pdaMarker)
	copy(addr[:], h.Sum(nil))

	if isOnCurve(addr) {
		return types.Address{}, ErrOnCurve
	}
	return addr, nil
}

// FindProgramAddress searches bump seeds from 255 down and returns the first
// off-curve address together with its bump.
func FindProgramAddress(seeds [][]byte, programID types.Address) (types.Address, uint8, error) {
	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)

	for bump := 255; bump >= 0; bump-- {
		withBump[len(seeds)] = []byte{uint8(bump)}
		addr, err := CreateProgramAddress(withBump, programID)
		switch {
		case err == nil:
			return addr, uint8(bump), nil
		case !errors.Is(err, ErrOnCurve):
			return types.Address{}, 0, err
		}
	}
	return types.Address{}, 0, errNoBump
}

// VerifyProgramAddress re-derives the address from seeds and bump and fails
// with ErrInvalidAccount when it differs from addr.
func VerifyProgramAddress(addr types.Address, seeds [][]byte, bump uint8, programID types.Address) error {
	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)
	withBump[len(seeds)] = []byte{bump}

	derived, err := CreateProgramAddress(withBump, programID)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", types.ErrInvalidAccount, addr, err)
	}
	if derived != addr {
		return fmt.Errorf("%w: %s is not the derived address %s", types.ErrInvalidAccount, addr, derived)
	}
	return nil
}

func isOnCurve(addr types.Address) bool {
	var compressed curve.CompressedEdwardsY
	copy(compressed[:], addr[:])
	_, err := curve.NewEdwardsPoint().SetCompressedY(&compressed)
	return err == nil
}

// AuctionSeeds are the seeds of the auction created by authority with nonce.
func AuctionSeeds(authority types.Address, nonce uint64) [][]byte {
	var n [8]byte
	binary.LittleEndian.PutUint64(n[:], nonce)
	return [][]byte{AuctionSeedPrefix, authority[:], n[:]}
}

// EscrowSeeds are the seeds of the escrow custody account of auction.
func EscrowSeeds(auction types.Address) [][]byte {
	return [][]byte{EscrowSeedPrefix, auction[:]}
}

// ItemSeeds are the seeds of the item custody account of auction.
func ItemSeeds(auction types.Address) [][]byte {
	return [][]byte{ItemSeedPrefix, auction[:]}
}

// DeriveAuction returns the address and bump of an auction.
func DeriveAuction(authority types.Address, nonce uint64) (types.Address, uint8, error) {
	return FindProgramAddress(AuctionSeeds(authority, nonce), types.AuctionProgramID)
}

// DeriveEscrow returns the address and bump of an auction's escrow account.
func DeriveEscrow(auction types.Address) (types.Address, uint8, error) {
	return FindProgramAddress(EscrowSeeds(auction), types.AuctionProgramID)
}

// DeriveItem returns the address and bump of an auction's item custody
// account.
func DeriveItem(auction types.Address) (types.Address, uint8, error) {
	return FindProgramAddress(ItemSeeds(auction), types.AuctionProgramID)
}
