/*
Package access derives program addresses and validates the accounts an
instruction touches.

A program derived address (PDA) is the sha256 digest of a list of seeds, the
owning program id and a fixed marker, rejected whenever the digest decodes to a
point on the ed25519 curve. Because such an address has no private key, only
the owning program can authorize writes to it, and because the seeds fully
determine it, anyone can locate the account.

Every check here is side-effect free and runs before the state machine mutates
anything.
*/
package access
