package types

import (
	"encoding/json"
	"fmt"
)

// GenesisAccount funds a wallet at genesis.
type GenesisAccount struct {
	Address Address `json:"address"`
	Balance uint64  `json:"balance,string"`
}

// GenesisState is the app_state section of the genesis document.
type GenesisState struct {
	Params   Params           `json:"params"`
	Accounts []GenesisAccount `json:"accounts,omitempty"`
}

// DefaultGenesisState returns an empty genesis with default params.
func DefaultGenesisState() *GenesisState {
	return &GenesisState{Params: DefaultParams()}
}

// GenesisStateFromJSON parses app_state bytes. Empty input yields the default
// genesis.
func GenesisStateFromJSON(bz []byte) (*GenesisState, error) {
	gs := DefaultGenesisState()
	if len(bz) == 0 {
		return gs, nil
	}
	if err := json.Unmarshal(bz, gs); err != nil {
		return nil, fmt.Errorf("couldn't parse app state: %w", err)
	}
	if err := gs.ValidateBasic(); err != nil {
		return nil, err
	}
	return gs, nil
}

// ValidateBasic rejects duplicate or program-owned genesis accounts.
func (gs *GenesisState) ValidateBasic() error {
	seen := make(map[Address]struct{}, len(gs.Accounts))
	for i, acc := range gs.Accounts {
		if acc.Address == SystemProgramID || acc.Address == AuctionProgramID {
			return fmt.Errorf("genesis account %d uses a program id", i)
		}
		if _, ok := seen[acc.Address]; ok {
			return fmt.Errorf("genesis account %s declared twice", acc.Address)
		}
		seen[acc.Address] = struct{}{}
	}
	return nil
}
