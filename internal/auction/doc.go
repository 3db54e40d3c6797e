/*
Package auction implements the auction lifecycle as a deterministic state
machine over ledger accounts:

	Uninitialized -> Open -> Closed -> Settled
	                   |        |
	                   +--------+--> Cancelled

Every transition receives the accounts of one instruction, already loaded
and privilege-checked by the dispatcher, and the ledger clock. A transition
either returns nil having updated the accounts in memory, or an error after
which the caller must discard every account it handed in.

Funds only move through the escrow engine and the item only moves through a
Custodian, so the auction record, the escrow balance and the item holder
always change together.
*/
package auction
