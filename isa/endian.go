package isa

// Endian selects the byte order used to assemble instruction bytes
// into a word.
type Endian int

const (
	Big    = Endian(0)
	Little = Endian(1)
)

func (e Endian) String() string {
	if e == Little {
		return "little"
	}
	return "big"
}

// Word assembles data into an unsigned integer honoring the byte order.
func (e Endian) Word(data []byte) (word uint64) {
	if e == Little {
		for n := len(data) - 1; n >= 0; n-- {
			word = word<<8 | uint64(data[n])
		}
		return
	}
	for _, b := range data {
		word = word<<8 | uint64(b)
	}
	return
}

// PutWord splits word into data honoring the byte order.
func (e Endian) PutWord(data []byte, word uint64) {
	if e == Little {
		for n := range data {
			data[n] = byte(word >> (8 * n))
		}
		return
	}
	for n := range data {
		data[n] = byte(word >> (8 * (len(data) - 1 - n)))
	}
}
