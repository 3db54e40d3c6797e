package types

import (
	"fmt"

	"github.com/tendermint/tendermint/crypto/ed25519"
	"github.com/tendermint/tendermint/crypto/tmhash"
)

const (
	// TxVersion is the only envelope version accepted.
	TxVersion uint8 = 1

	// MaxTxAccounts bounds the account list of a transaction.
	MaxTxAccounts = 16
	// MaxTxSignatures bounds the signature list of a transaction.
	MaxTxSignatures = 8
	// MaxInstructionSize bounds the encoded instruction.
	MaxInstructionSize = 1024

	signDomain = "auctiond/tx/v1"
)

// Signature is an ed25519 signature together with the public key that
// produced it. The public key doubles as the signer's address.
type Signature struct {
	PubKey    Address
	Signature [ed25519.SignatureSize]byte
}

// Tx is the signed envelope submitted to the ledger. Nonce is chosen by the
// client and only makes otherwise identical transactions distinct.
type Tx struct {
	Nonce       uint64
	Instruction []byte
	Accounts    []Address
	Signatures  []Signature
}

// NewTx builds an unsigned transaction for ix over accounts.
func NewTx(nonce uint64, ix Instruction, accounts ...Address) *Tx {
	return &Tx{
		Nonce:       nonce,
		Instruction: EncodeInstruction(ix),
		Accounts:    accounts,
	}
}

// SignBytes returns the canonical bytes covered by every signature. The chain
// id is included so a transaction cannot be replayed on another chain.
func (tx *Tx) SignBytes(chainID string) []byte {
	enc := newEncoder(len(signDomain) + len(chainID) + len(tx.Instruction) + len(tx.Accounts)*AddressSize + 16)
	enc.raw([]byte(signDomain))
	enc.u8(uint8(len(chainID)))
	enc.raw([]byte(chainID))
	enc.u64(tx.Nonce)
	enc.u16(uint16(len(tx.Instruction)))
	enc.raw(tx.Instruction)
	enc.u8(uint8(len(tx.Accounts)))
	for _, addr := range tx.Accounts {
		enc.raw(addr[:])
	}
	return enc.bytes()
}

// Key identifies the transaction for replay protection. It covers the sign
// bytes only, so attaching extra signatures does not produce a new key.
func (tx *Tx) Key(chainID string) []byte {
	return tmhash.Sum(tx.SignBytes(chainID))
}

// Sign appends a signature by priv over the sign bytes.
func (tx *Tx) Sign(chainID string, priv ed25519.PrivKey) error {
	sig, err := priv.Sign(tx.SignBytes(chainID))
	if err != nil {
		return err
	}
	var s Signature
	copy(s.PubKey[:], priv.PubKey().Bytes())
	copy(s.Signature[:], sig)
	tx.Signatures = append(tx.Signatures, s)
	return nil
}

// VerifySignatures checks every attached signature and returns the set of
// addresses that signed.
func (tx *Tx) VerifySignatures(chainID string) (map[Address]bool, error) {
	signBytes := tx.SignBytes(chainID)
	signers := make(map[Address]bool, len(tx.Signatures))
	for i, s := range tx.Signatures {
		pub := ed25519.PubKey(s.PubKey.Bytes())
		if !pub.VerifySignature(signBytes, s.Signature[:]) {
			return nil, fmt.Errorf("%w: signature %d by %s", ErrInvalidSignature, i, s.PubKey)
		}
		signers[s.PubKey] = true
	}
	return signers, nil
}

// ValidateBasic performs stateless checks on the envelope.
func (tx *Tx) ValidateBasic() error {
	switch {
	case len(tx.Instruction) == 0:
		return fmt.Errorf("%w: empty instruction", ErrTxDecode)
	case len(tx.Instruction) > MaxInstructionSize:
		return fmt.Errorf("%w: instruction is %d bytes", ErrTxDecode, len(tx.Instruction))
	case len(tx.Accounts) > MaxTxAccounts:
		return fmt.Errorf("%w: %d accounts", ErrTxDecode, len(tx.Accounts))
	case len(tx.Signatures) == 0:
		return fmt.Errorf("%w: unsigned transaction", ErrTxDecode)
	case len(tx.Signatures) > MaxTxSignatures:
		return fmt.Errorf("%w: %d signatures", ErrTxDecode, len(tx.Signatures))
	}
	return nil
}

// Marshal encodes the envelope.
func (tx *Tx) Marshal() []byte {
	enc := newEncoder(1 + 8 + 2 + len(tx.Instruction) + 1 + len(tx.Accounts)*AddressSize +
		1 + len(tx.Signatures)*(AddressSize+ed25519.SignatureSize))
	enc.u8(TxVersion)
	enc.u64(tx.Nonce)
	enc.u16(uint16(len(tx.Instruction)))
	enc.raw(tx.Instruction)
	enc.u8(uint8(len(tx.Accounts)))
	for _, addr := range tx.Accounts {
		enc.raw(addr[:])
	}
	enc.u8(uint8(len(tx.Signatures)))
	for _, s := range tx.Signatures {
		enc.raw(s.PubKey[:])
		enc.raw(s.Signature[:])
	}
	return enc.bytes()
}

// UnmarshalTx decodes and basic-validates an envelope.
func UnmarshalTx(bz []byte) (*Tx, error) {
	dec := newDecoder(bz)
	if v := dec.u8(); dec.err == nil && v != TxVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrTxDecode, v)
	}

	tx := &Tx{Nonce: dec.u64()}
	ixLen := int(dec.u16())
	if ixLen > MaxInstructionSize {
		return nil, fmt.Errorf("%w: instruction is %d bytes", ErrTxDecode, ixLen)
	}
	tx.Instruction = append([]byte(nil), dec.next(ixLen)...)

	nAccounts := int(dec.u8())
	if nAccounts > MaxTxAccounts {
		return nil, fmt.Errorf("%w: %d accounts", ErrTxDecode, nAccounts)
	}
	for i := 0; i < nAccounts && dec.err == nil; i++ {
		tx.Accounts = append(tx.Accounts, dec.address())
	}

	nSigs := int(dec.u8())
	if nSigs > MaxTxSignatures {
		return nil, fmt.Errorf("%w: %d signatures", ErrTxDecode, nSigs)
	}
	for i := 0; i < nSigs && dec.err == nil; i++ {
		var s Signature
		s.PubKey = dec.address()
		copy(s.Signature[:], dec.next(ed25519.SignatureSize))
		tx.Signatures = append(tx.Signatures, s)
	}

	if err := dec.finish(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTxDecode, err)
	}
	if err := tx.ValidateBasic(); err != nil {
		return nil, err
	}
	return tx, nil
}
