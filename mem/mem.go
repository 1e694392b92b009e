// Package mem provides the flat byte-addressable memory attached to a
// simulated machine. The region starts at address zero and is sized
// once when mapped.
package mem

// Memory is a contiguous byte-addressable region.
type Memory struct {
	data []byte
}

// Map creates a zero-initialized memory region of the given size.
func Map(size int) *Memory {
	return &Memory{
		data: make([]byte, size),
	}
}

// Size returns the size of the mapped region in bytes.
func (m *Memory) Size() int {
	return len(m.data)
}

// Read returns a copy of n bytes starting at addr.
func (m *Memory) Read(addr uint64, n int) (data []byte, err error) {
	if n < 0 || addr > uint64(len(m.data)) || uint64(n) > uint64(len(m.data))-addr {
		err = &ErrOutOfRange{Addr: addr, Len: n, Size: len(m.data)}
		return
	}

	data = make([]byte, n)
	copy(data, m.data[addr:])
	return
}

// Write copies data into memory starting at addr.
func (m *Memory) Write(addr uint64, data []byte) (err error) {
	if addr > uint64(len(m.data)) || uint64(len(data)) > uint64(len(m.data))-addr {
		err = &ErrOutOfRange{Addr: addr, Len: len(data), Size: len(m.data)}
		return
	}

	copy(m.data[addr:], data)
	return
}
