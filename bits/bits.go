package bits

// Mask returns an n-bit mask (e.g. Mask(3) returns 0x7).
func Mask(n int) (uint64, error) {
	if n < 0 {
		return 0, ErrMaskBits(n)
	}
	if n >= 64 {
		return ^uint64(0), nil
	}
	return (uint64(1) << n) - 1, nil
}

// Select masks out all but a field of bits (from upper to lower,
// inclusive). If shift is set, the field is shifted down to bit 0.
func Select(value uint64, upper, lower int, shift bool) (uint64, error) {
	if upper < lower {
		return 0, &ErrBitRange{Upper: upper, Lower: lower}
	}

	umask, err := Mask(upper + 1)
	if err != nil {
		return 0, err
	}
	lmask, err := Mask(lower)
	if err != nil {
		return 0, err
	}

	smask := umask &^ lmask
	shamt := 0
	if shift {
		shamt = lower
	}
	return (value & smask) >> shamt, nil
}

// SignExtend treats value as an n-bit two's-complement quantity and
// extends it to 64 bits. The value must already be masked to n bits.
func SignExtend(value uint64, n int) (uint64, error) {
	if n < 1 || n > 64 {
		return 0, ErrMaskBits(n)
	}

	lmask, _ := Mask(n)
	upper := ^lmask
	if value&upper != 0 {
		return 0, &ErrValueRange{Value: value, Bits: n}
	}

	if value&(uint64(1)<<(n-1)) == 0 {
		return value, nil
	}
	return value | upper, nil
}
