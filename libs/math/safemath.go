package math

import (
	"errors"
	"math/bits"
)

var (
	ErrOverflowUint64  = errors.New("uint64 overflow")
	ErrUnderflowUint64 = errors.New("uint64 underflow")
)

// SafeAddUint64 adds two uint64 integers.
// If there is an overflow it returns ErrOverflowUint64.
func SafeAddUint64(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrOverflowUint64
	}
	return sum, nil
}

// SafeSubUint64 subtracts b from a.
// If b is larger than a it returns ErrUnderflowUint64.
func SafeSubUint64(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, ErrUnderflowUint64
	}
	return diff, nil
}
