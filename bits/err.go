package bits

import (
	"github.com/UCSBarchlab/MapacheSim/translate"
)

var f = translate.From

// ErrMaskBits indicates an invalid bit count.
type ErrMaskBits int

func (err ErrMaskBits) Error() string {
	return f("invalid bit count %d", int(err))
}

// ErrBitRange indicates a bit selection whose upper bound is below its
// lower bound.
type ErrBitRange struct {
	Upper int
	Lower int
}

func (err *ErrBitRange) Error() string {
	return f("upper bit %d is lower than lower bit %d", err.Upper, err.Lower)
}

// ErrValueRange indicates a value with bits set above its declared width.
type ErrValueRange struct {
	Value uint64
	Bits  int
}

func (err *ErrValueRange) Error() string {
	return f("upper bits of %#x not 0 above bit %d", err.Value, err.Bits-1)
}
