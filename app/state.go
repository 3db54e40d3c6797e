package app

import (
	"encoding/json"
	"fmt"

	"github.com/google/orderedcode"
	tmbytes "github.com/tendermint/tendermint/libs/bytes"
	dbm "github.com/tendermint/tm-db"

	"github.com/tendermint/auctiond/internal/ledger"
	"github.com/tendermint/auctiond/types"
)

const prefixAppState = int64(10)

var stateKey = mustKey(prefixAppState)

func mustKey(parts ...interface{}) []byte {
	key, err := orderedcode.Append(nil, parts...)
	if err != nil {
		panic(err)
	}
	return key
}

// State is the application state committed with every block.
type State struct {
	ChainID   string           `json:"chain_id"`
	Height    int64            `json:"height"`
	AppHash   tmbytes.HexBytes `json:"app_hash"`
	BlockTime int64            `json:"block_time"`
	Params    types.Params     `json:"params"`
}

func loadState(db dbm.DB) (State, error) {
	var state State
	bz, err := db.Get(stateKey)
	if err != nil {
		return state, err
	}
	if len(bz) == 0 {
		state.Params = types.DefaultParams()
		return state, nil
	}
	if err := json.Unmarshal(bz, &state); err != nil {
		return state, fmt.Errorf("decoding app state: %w", err)
	}
	return state, nil
}

func (s State) save(w ledger.Writer) error {
	bz, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return w.Set(stateKey, bz)
}

// nextAppHash chains the previous app hash with the height and every write of
// the block, in key order.
func nextAppHash(prev []byte, height int64, changes []ledger.Change) []byte {
	h := newHasher()
	h.bytes(prev)
	h.u64(uint64(height))
	h.u64(uint64(len(changes)))
	for _, ch := range changes {
		h.bytes(ch.Key)
		if ch.Value == nil {
			h.u8(0)
			continue
		}
		h.u8(1)
		h.bytes(ch.Value)
	}
	return h.sum()
}
