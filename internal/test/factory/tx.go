package factory

import (
	"github.com/tendermint/auctiond/types"
)

// ChainID is the chain id used by test transactions.
const ChainID = "auctiond-test"

// MakeTx builds ix over accounts and signs it with every signer.
func MakeTx(nonce uint64, ix types.Instruction, accounts []types.Address, signers ...Key) *types.Tx {
	tx := types.NewTx(nonce, ix, accounts...)
	for _, key := range signers {
		if err := tx.Sign(ChainID, key.PrivKey); err != nil {
			panic(err)
		}
	}
	return tx
}

// MakeTxBytes is MakeTx followed by Marshal.
func MakeTxBytes(nonce uint64, ix types.Instruction, accounts []types.Address, signers ...Key) []byte {
	return MakeTx(nonce, ix, accounts, signers...).Marshal()
}
