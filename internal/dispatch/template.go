package dispatch

import (
	"github.com/tendermint/auctiond/types"
)

// AccountMeta describes one slot of an instruction's account list.
type AccountMeta struct {
	Name     string
	Signer   bool
	Writable bool
}

func signerWritable(name string) AccountMeta { return AccountMeta{Name: name, Signer: true, Writable: true} }
func signer(name string) AccountMeta         { return AccountMeta{Name: name, Signer: true} }
func writable(name string) AccountMeta       { return AccountMeta{Name: name, Writable: true} }

var templates = map[types.Opcode][]AccountMeta{
	types.OpInitialize: {
		writable("auction"),
		signerWritable("seller"),
		writable("escrow"),
		writable("item"),
	},
	types.OpPlaceBid: {
		writable("auction"),
		signer("bidder"),
		signerWritable("funding"),
		writable("previous_bidder"),
		writable("escrow"),
	},
	types.OpClose: {
		writable("auction"),
		signer("caller"),
	},
	types.OpSettle: {
		writable("auction"),
		signer("caller"),
		writable("seller"),
		writable("leader"),
		writable("escrow"),
		writable("item"),
	},
	types.OpCancel: {
		writable("auction"),
		signer("authority"),
		writable("escrow"),
		writable("item"),
	},
}

// Template returns the account template of op, or nil for an unknown opcode.
func Template(op types.Opcode) []AccountMeta {
	tmpl, ok := templates[op]
	if !ok {
		return nil
	}
	out := make([]AccountMeta, len(tmpl))
	copy(out, tmpl)
	return out
}
