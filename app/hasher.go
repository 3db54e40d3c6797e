package app

import (
	"encoding/binary"
	"hash"

	"github.com/tendermint/tendermint/crypto/tmhash"
)

// hasher feeds length-prefixed fields into tmhash.
type hasher struct {
	h   hash.Hash
	buf [8]byte
}

func newHasher() *hasher { return &hasher{h: tmhash.New()} }

func (h *hasher) u8(v uint8) { h.h.Write([]byte{v}) }

func (h *hasher) u64(v uint64) {
	binary.BigEndian.PutUint64(h.buf[:], v)
	h.h.Write(h.buf[:])
}

func (h *hasher) bytes(bz []byte) {
	h.u64(uint64(len(bz)))
	h.h.Write(bz)
}

func (h *hasher) sum() []byte { return h.h.Sum(nil) }
