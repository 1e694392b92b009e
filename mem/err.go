package mem

import (
	"github.com/UCSBarchlab/MapacheSim/translate"
)

var f = translate.From

// ErrOutOfRange indicates an access outside the mapped region.
type ErrOutOfRange struct {
	Addr uint64
	Len  int
	Size int
}

func (err *ErrOutOfRange) Error() string {
	return f("access of %d bytes at %#x outside %d byte region", err.Len, err.Addr, err.Size)
}
