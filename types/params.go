package types

// Params are consensus-critical settings of the auction program, fixed at
// genesis.
type Params struct {
	// MinimumBalance is the balance a funding wallet must keep after a
	// deposit.
	MinimumBalance uint64 `json:"minimum_balance,string"`
}

// DefaultParams returns the params used when genesis does not set any.
func DefaultParams() Params {
	return Params{MinimumBalance: 0}
}
