package factory

import (
	"fmt"

	"github.com/tendermint/tendermint/crypto/ed25519"

	"github.com/tendermint/auctiond/types"
)

// Key is a deterministic test identity.
type Key struct {
	PrivKey ed25519.PrivKey
	Address types.Address
}

// NewKey derives a key from secret.
func NewKey(secret string) Key {
	priv := ed25519.GenPrivKeyFromSecret([]byte(secret))
	addr, err := types.AddressFromBytes(priv.PubKey().Bytes())
	if err != nil {
		panic(err)
	}
	return Key{PrivKey: priv, Address: addr}
}

// Keys returns n distinct deterministic keys.
func Keys(n int) []Key {
	keys := make([]Key, n)
	for i := range keys {
		keys[i] = NewKey(fmt.Sprintf("key-%d", i))
	}
	return keys
}
