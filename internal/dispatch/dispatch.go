// Package dispatch turns a verified transaction into exactly one auction
// transition. It decodes the instruction, loads the template's accounts into
// a write batch of their own and commits the batch only when the transition
// succeeds.
package dispatch

import (
	"bytes"
	"fmt"

	"github.com/tendermint/auctiond/internal/access"
	"github.com/tendermint/auctiond/internal/auction"
	"github.com/tendermint/auctiond/internal/ledger"
	"github.com/tendermint/auctiond/types"
)

// Result describes a successful instruction.
type Result struct {
	Opcode  types.Opcode
	Auction types.Address
	Record  *types.Auction
	// Written lists the accounts the instruction changed, in account list
	// order.
	Written []types.Address
}

// Dispatcher routes instructions to the auction machine.
type Dispatcher struct {
	machine *auction.Machine
}

// New returns a Dispatcher executing through machine.
func New(machine *auction.Machine) *Dispatcher {
	return &Dispatcher{machine: machine}
}

// Execute runs tx's instruction against parent at ledger time now. signers is
// the set of addresses with a verified signature on tx. On error nothing is
// written to parent.
func (d *Dispatcher) Execute(parent ledger.KV, now int64, tx *types.Tx, signers map[types.Address]bool) (*Result, error) {
	ix, err := types.DecodeInstruction(tx.Instruction)
	if err != nil {
		return nil, err
	}
	tmpl := templates[ix.Opcode()]
	if len(tx.Accounts) != len(tmpl) {
		return nil, fmt.Errorf("%w: %s takes %d accounts, got %d",
			types.ErrMalformedInstruction, ix.Opcode(), len(tmpl), len(tx.Accounts))
	}

	batch := ledger.NewCache(parent)
	l := ledger.New(batch)
	set, err := load(l, tx.Accounts, tmpl, signers)
	if err != nil {
		batch.Discard()
		return nil, err
	}

	record, err := d.route(now, ix, set.slots)
	if err != nil {
		batch.Discard()
		return nil, err
	}

	written, err := set.store(l)
	if err != nil {
		batch.Discard()
		return nil, err
	}
	if err := batch.Write(); err != nil {
		return nil, err
	}
	return &Result{
		Opcode:  ix.Opcode(),
		Auction: tx.Accounts[0],
		Record:  record,
		Written: written,
	}, nil
}

func (d *Dispatcher) route(now int64, ix types.Instruction, slots []*access.AccountInfo) (*types.Auction, error) {
	switch msg := ix.(type) {
	case *types.Initialize:
		return d.machine.Initialize(now, msg, auction.InitializeAccounts{
			Auction: slots[0],
			Seller:  slots[1],
			Escrow:  slots[2],
			Item:    slots[3],
		})
	case *types.PlaceBid:
		return d.machine.PlaceBid(now, msg, auction.PlaceBidAccounts{
			Auction:        slots[0],
			Bidder:         slots[1],
			Funding:        slots[2],
			PreviousBidder: slots[3],
			Escrow:         slots[4],
		})
	case *types.Close:
		return d.machine.Close(now, auction.CloseAccounts{
			Auction: slots[0],
			Caller:  slots[1],
		})
	case *types.Settle:
		return d.machine.Settle(now, auction.SettleAccounts{
			Auction: slots[0],
			Caller:  slots[1],
			Seller:  slots[2],
			Leader:  slots[3],
			Escrow:  slots[4],
			Item:    slots[5],
		})
	case *types.Cancel:
		return d.machine.Cancel(now, auction.CancelAccounts{
			Auction:   slots[0],
			Authority: slots[1],
			Escrow:    slots[2],
			Item:      slots[3],
		})
	default:
		return nil, fmt.Errorf("%w: unhandled instruction %T", types.ErrMalformedInstruction, ix)
	}
}

// accountSet holds the accounts of one instruction. An address listed in
// several slots is loaded once and every slot shares the same AccountInfo.
type accountSet struct {
	slots    []*access.AccountInfo
	unique   []*access.AccountInfo
	original map[types.Address][]byte
}

func load(l *ledger.Ledger, addrs []types.Address, tmpl []AccountMeta, signers map[types.Address]bool) (*accountSet, error) {
	set := &accountSet{
		slots:    make([]*access.AccountInfo, len(addrs)),
		original: make(map[types.Address][]byte, len(addrs)),
	}
	byAddr := make(map[types.Address]*access.AccountInfo, len(addrs))
	for i, addr := range addrs {
		meta := tmpl[i]
		if meta.Signer && !signers[addr] {
			return nil, fmt.Errorf("%w: %s account %s did not sign", types.ErrUnauthorized, meta.Name, addr)
		}

		info, ok := byAddr[addr]
		if !ok {
			acc, err := l.Account(addr)
			if err != nil {
				return nil, err
			}
			info = &access.AccountInfo{Address: addr, Signer: signers[addr], Account: acc}
			if acc != nil {
				set.original[addr] = acc.Marshal()
			}
			byAddr[addr] = info
			set.unique = append(set.unique, info)
		}
		info.Writable = info.Writable || meta.Writable
		set.slots[i] = info
	}
	return set, nil
}

// store writes back every account the transition changed.
func (set *accountSet) store(l *ledger.Ledger) ([]types.Address, error) {
	var written []types.Address
	for _, info := range set.unique {
		if info.Account == nil {
			continue
		}
		bz := info.Account.Marshal()
		if bytes.Equal(bz, set.original[info.Address]) {
			continue
		}
		if !info.Writable {
			return nil, fmt.Errorf("read-only account %s was modified", info.Address)
		}
		if err := l.SetAccount(info.Address, info.Account); err != nil {
			return nil, err
		}
		written = append(written, info.Address)
	}
	return written, nil
}
