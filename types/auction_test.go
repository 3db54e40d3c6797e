package types

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func testAuction() *Auction {
	bidder := Address{9}
	return &Auction{
		Authority:       Address{1},
		Nonce:           42,
		ItemReference:   ItemReference{0xab},
		ReservePrice:    100,
		MinIncrement:    5,
		StartTime:       -10,
		EndTime:         2000,
		HighestBid:      150,
		HighestBidder:   &bidder,
		Phase:           PhaseClosed,
		Bump:            254,
		AllowEarlyClose: true,
	}
}

func TestAuctionEncoding(t *testing.T) {
	a := testAuction()
	bz := a.Marshal()
	require.Len(t, bz, AuctionSize)
	require.Equal(t, AuctionDiscriminator[:], bz[:DiscriminatorSize])
	require.Equal(t, RecordVersion, bz[DiscriminatorSize])

	got, err := UnmarshalAuction(bz)
	require.NoError(t, err)
	if diff := cmp.Diff(a, got); diff != "" {
		t.Fatalf("auction mismatch (-want +got):\n%s", diff)
	}

	a.HighestBidder, a.HighestBid = nil, 0
	got, err = UnmarshalAuction(a.Marshal())
	require.NoError(t, err)
	require.False(t, got.HasBidder())
}

func TestAuctionRejectsForeignData(t *testing.T) {
	bz := testAuction().Marshal()

	testCases := []struct {
		name   string
		mutate func([]byte) []byte
	}{
		{"short", func(bz []byte) []byte { return bz[:len(bz)-1] }},
		{"long", func(bz []byte) []byte { return append(bz, 0) }},
		{"discriminator", func(bz []byte) []byte { bz[0] ^= 0xff; return bz }},
		{"item record", func(bz []byte) []byte { copy(bz, ItemCustodyDiscriminator[:]); return bz }},
		{"version", func(bz []byte) []byte { bz[DiscriminatorSize] = 2; return bz }},
		{"phase", func(bz []byte) []byte { bz[AuctionSize-3] = 9; return bz }},
		{"uninitialized phase", func(bz []byte) []byte { bz[AuctionSize-3] = 0; return bz }},
		{"bidder flag", func(bz []byte) []byte { bz[AuctionSize-3-AddressSize-1] = 2; return bz }},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			cp := append([]byte(nil), bz...)
			_, err := UnmarshalAuction(tc.mutate(cp))
			require.ErrorIs(t, err, ErrInvalidAccount)
		})
	}
}

func TestAuctionBidWithoutBidder(t *testing.T) {
	a := testAuction()
	a.HighestBidder = nil
	_, err := UnmarshalAuction(a.Marshal())
	require.ErrorIs(t, err, ErrInvalidAccount)
}

func TestPhaseTransitions(t *testing.T) {
	legal := map[Phase][]Phase{
		PhaseUninitialized: {PhaseOpen},
		PhaseOpen:          {PhaseClosed, PhaseCancelled},
		PhaseClosed:        {PhaseSettled, PhaseCancelled},
	}
	all := []Phase{PhaseUninitialized, PhaseOpen, PhaseClosed, PhaseSettled, PhaseCancelled}
	for _, from := range all {
		for _, to := range all {
			want := false
			for _, p := range legal[from] {
				want = want || p == to
			}
			require.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)

			a := &Auction{Phase: from}
			if want {
				require.NoError(t, a.SetPhase(to))
				require.Equal(t, to, a.Phase)
			} else {
				require.Error(t, a.SetPhase(to))
				require.Equal(t, from, a.Phase)
			}
		}
	}
	require.True(t, PhaseSettled.IsTerminal())
	require.True(t, PhaseCancelled.IsTerminal())
	require.False(t, PhaseClosed.IsTerminal())
	require.Equal(t, "Phase(7)", Phase(7).String())
}

func TestAuctionCopy(t *testing.T) {
	a := testAuction()
	cp := a.Copy()
	cp.HighestBidder[0] = 0xff
	require.Equal(t, byte(9), a.HighestBidder[0])
}

func TestItemCustodyEncoding(t *testing.T) {
	ic := &ItemCustody{Auction: Address{1}, Reference: ItemReference{2}, Holder: Address{3}}
	bz := ic.Marshal()
	require.Len(t, bz, ItemCustodySize)

	got, err := UnmarshalItemCustody(bz)
	require.NoError(t, err)
	require.Equal(t, ic, got)

	_, err = UnmarshalItemCustody(testAuction().Marshal())
	require.ErrorIs(t, err, ErrInvalidAccount)
}
