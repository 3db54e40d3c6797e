package types

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// errShortBuffer is returned by decoder when a read runs past the end of the
// input.
var errShortBuffer = errors.New("unexpected end of data")

// encoder appends fixed-width little-endian fields to a byte slice.
type encoder struct {
	buf []byte
}

func newEncoder(size int) *encoder {
	return &encoder{buf: make([]byte, 0, size)}
}

func (e *encoder) u8(v uint8) { e.buf = append(e.buf, v) }

func (e *encoder) bool(v bool) {
	if v {
		e.u8(1)
		return
	}
	e.u8(0)
}

func (e *encoder) u16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	e.buf = append(e.buf, b[:]...)
}

func (e *encoder) u32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	e.buf = append(e.buf, b[:]...)
}

func (e *encoder) u64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	e.buf = append(e.buf, b[:]...)
}

func (e *encoder) i64(v int64) { e.u64(uint64(v)) }

func (e *encoder) raw(bz []byte) { e.buf = append(e.buf, bz...) }

func (e *encoder) bytes() []byte { return e.buf }

// decoder reads the fields written by encoder. The first failure is sticky:
// later reads return zero values and err reports the original problem.
type decoder struct {
	buf []byte
	pos int
	err error
}

func newDecoder(bz []byte) *decoder {
	return &decoder{buf: bz}
}

func (d *decoder) next(n int) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || len(d.buf)-d.pos < n {
		d.err = fmt.Errorf("%w: need %d bytes at offset %d, have %d",
			errShortBuffer, n, d.pos, len(d.buf)-d.pos)
		return nil
	}
	bz := d.buf[d.pos : d.pos+n]
	d.pos += n
	return bz
}

func (d *decoder) u8() uint8 {
	bz := d.next(1)
	if bz == nil {
		return 0
	}
	return bz[0]
}

func (d *decoder) bool() bool {
	switch v := d.u8(); v {
	case 0:
		return false
	case 1:
		return true
	default:
		if d.err == nil {
			d.err = fmt.Errorf("invalid boolean byte %#x at offset %d", v, d.pos-1)
		}
		return false
	}
}

func (d *decoder) u16() uint16 {
	bz := d.next(2)
	if bz == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(bz)
}

func (d *decoder) u32() uint32 {
	bz := d.next(4)
	if bz == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(bz)
}

func (d *decoder) u64() uint64 {
	bz := d.next(8)
	if bz == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(bz)
}

func (d *decoder) i64() int64 { return int64(d.u64()) }

func (d *decoder) address() (addr Address) {
	copy(addr[:], d.next(AddressSize))
	return addr
}

// finish reports the sticky error, or an error if unread bytes remain.
func (d *decoder) finish() error {
	if d.err != nil {
		return d.err
	}
	if d.pos != len(d.buf) {
		return fmt.Errorf("%d trailing bytes after offset %d", len(d.buf)-d.pos, d.pos)
	}
	return nil
}
