package escrow

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tendermint/auctiond/internal/access"
	"github.com/tendermint/auctiond/types"
)

func wallet(b byte, balance uint64) *access.AccountInfo {
	var a types.Address
	a[0] = b
	return &access.AccountInfo{Address: a, Signer: true, Writable: true, Account: types.NewWallet(balance)}
}

func custody(balance uint64) *access.AccountInfo {
	var a types.Address
	a[0] = 0xee
	return &access.AccountInfo{
		Address:  a,
		Writable: true,
		Account:  &types.Account{Owner: types.AuctionProgramID, Balance: balance},
	}
}

func TestDeposit(t *testing.T) {
	testCases := []struct {
		name       string
		balance    uint64
		minBalance uint64
		amount     uint64
		err        error
	}{
		{"exact", 100, 0, 100, nil},
		{"keeps minimum", 110, 10, 100, nil},
		{"below minimum", 109, 10, 100, types.ErrInsufficientFunds},
		{"short", 99, 0, 100, types.ErrInsufficientFunds},
		{"overflowing requirement", math.MaxUint64, 1, math.MaxUint64, types.ErrInsufficientFunds},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			e := NewEngine(types.Params{MinimumBalance: tc.minBalance})
			from, to := wallet(1, tc.balance), custody(0)

			err := e.Deposit(from, to, tc.amount)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				require.Equal(t, tc.balance, from.Account.Balance)
				require.Zero(t, to.Account.Balance)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.balance-tc.amount, from.Account.Balance)
			require.Equal(t, tc.amount, to.Account.Balance)
		})
	}
}

func TestDepositRequiresSignedWallet(t *testing.T) {
	e := NewEngine(types.DefaultParams())

	unsigned := wallet(1, 100)
	unsigned.Signer = false
	require.ErrorIs(t, e.Deposit(unsigned, custody(0), 1), types.ErrUnauthorized)

	missing := wallet(1, 0)
	missing.Account = nil
	require.ErrorIs(t, e.Deposit(missing, custody(0), 1), types.ErrInsufficientFunds)

	programOwned := custody(100)
	programOwned.Signer = true
	require.ErrorIs(t, e.Deposit(programOwned, custody(0), 1), types.ErrInvalidAccount)

	notCustody := wallet(2, 0)
	require.ErrorIs(t, e.Deposit(wallet(1, 100), notCustody, 1), types.ErrInvalidAccount)
}

func TestDepositCustodyOverflow(t *testing.T) {
	e := NewEngine(types.DefaultParams())
	from, to := wallet(1, 10), custody(math.MaxUint64)
	require.ErrorIs(t, e.Deposit(from, to, 1), types.ErrArithmeticOverflow)
	require.EqualValues(t, 10, from.Account.Balance)
}

func TestRefundAndRelease(t *testing.T) {
	e := NewEngine(types.DefaultParams())

	c := custody(150)
	seller := wallet(2, 5)
	require.NoError(t, e.Release(c, seller, 150))
	require.Zero(t, c.Account.Balance)
	require.EqualValues(t, 155, seller.Account.Balance)

	// payouts create missing wallets
	c = custody(60)
	bidder := &access.AccountInfo{Address: wallet(3, 0).Address, Writable: true}
	require.NoError(t, e.Refund(c, bidder, 60))
	require.Zero(t, c.Account.Balance)
	require.EqualValues(t, 60, bidder.Account.Balance)
	require.Equal(t, types.SystemProgramID, bidder.Account.Owner)
}

func TestPayoutErrors(t *testing.T) {
	e := NewEngine(types.DefaultParams())

	c := custody(10)
	require.ErrorIs(t, e.Refund(c, wallet(1, 0), 11), types.ErrInsufficientEscrow)
	require.ErrorIs(t, e.Release(c, wallet(1, 0), 11), types.ErrInsufficientEscrow)
	require.EqualValues(t, 10, c.Account.Balance)

	readOnly := wallet(1, 0)
	readOnly.Writable = false
	require.ErrorIs(t, e.Refund(c, readOnly, 1), types.ErrInvalidAccount)

	require.ErrorIs(t, e.Refund(c, custody(0), 1), types.ErrInvalidAccount)

	rich := wallet(1, math.MaxUint64)
	require.ErrorIs(t, e.Refund(c, rich, 1), types.ErrArithmeticOverflow)
	require.EqualValues(t, 10, c.Account.Balance)
}
