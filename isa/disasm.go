package isa

import (
	"fmt"
	"strings"
)

// Decoded pairs a matched instruction with its extracted fields. It is
// produced by decode and consumed immediately by execute and by
// disassembly.
type Decoded struct {
	Inst   *Instruction
	Fields Fields
}

// Disassemble renders the instruction's display template with the
// extracted field values. Register fields render as "$<value>", address
// fields as hex of the value shifted up by addrShift, and immediate
// fields as hex of the raw value.
func (d *Decoded) Disassemble(addrShift int) (text string, err error) {
	parts := strings.Fields(d.Inst.Asm)
	rendered := make([]string, 0, len(parts))

	for n, part := range parts {
		if n == 0 {
			// instruction name
			rendered = append(rendered, part)
			continue
		}

		if isLiteral(part) {
			rendered = append(rendered, part)
			continue
		}

		if len(part) != 2 {
			err = ErrOperandSigil(part)
			return
		}
		value, ok := d.Fields[part[1]]
		if !ok {
			err = ErrUnknownField(part[1])
			return
		}

		switch part[0] {
		case '$':
			rendered = append(rendered, fmt.Sprintf("$%d", value))
		case '@':
			rendered = append(rendered, fmt.Sprintf("%#x", value<<addrShift))
		case '!':
			rendered = append(rendered, fmt.Sprintf("%#x", value))
		default:
			err = ErrOperandSigil(part)
			return
		}
	}

	text = strings.Join(rendered, " ")
	return
}

// isLiteral reports whether a display token is literal text rather
// than an operand reference.
func isLiteral(part string) bool {
	c := part[0]
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
		return true
	}
	return false
}
