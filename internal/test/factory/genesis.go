package factory

import (
	"encoding/json"

	"github.com/tendermint/auctiond/types"
)

// Genesis funds every key with balance.
func Genesis(params types.Params, balance uint64, keys ...Key) *types.GenesisState {
	gs := &types.GenesisState{Params: params}
	for _, key := range keys {
		gs.Accounts = append(gs.Accounts, types.GenesisAccount{Address: key.Address, Balance: balance})
	}
	return gs
}

// GenesisBytes is Genesis encoded as app_state bytes.
func GenesisBytes(params types.Params, balance uint64, keys ...Key) []byte {
	bz, err := json.Marshal(Genesis(params, balance, keys...))
	if err != nil {
		panic(err)
	}
	return bz
}
