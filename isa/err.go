package isa

import (
	"github.com/UCSBarchlab/MapacheSim/translate"
)

var f = translate.From

// ErrTemplateWidth indicates a bit template whose length does not match
// the catalog's instruction width. Detected when the catalog is built.
type ErrTemplateWidth struct {
	Mnemonic string
	Got      int
	Want     int
}

func (err *ErrTemplateWidth) Error() string {
	return f("%v: template is %d bits not %d", err.Mnemonic, err.Got, err.Want)
}

// ErrInstructionWidth indicates a byte buffer of the wrong length
// passed to decode.
type ErrInstructionWidth struct {
	Got  int
	Want int
}

func (err *ErrInstructionWidth) Error() string {
	return f("instruction is %d bytes not %d", err.Got, err.Want)
}

// ErrUnknownInstruction indicates bytes that match no catalog entry.
type ErrUnknownInstruction []byte

func (err ErrUnknownInstruction) Error() string {
	return f("unable to decode bytes as instruction: % x", []byte(err))
}

func (err ErrUnknownInstruction) Is(target error) (ok bool) {
	_, ok = target.(ErrUnknownInstruction)
	return
}

// ErrNotDeclared indicates an instruction that is not part of the catalog.
type ErrNotDeclared string

func (err ErrNotDeclared) Error() string {
	return f("instruction %v not declared in catalog", string(err))
}

// ErrOperandSigil indicates a disassembly template token with an
// unsupported operand marker.
type ErrOperandSigil string

func (err ErrOperandSigil) Error() string {
	return f("unknown operand specifier %q", string(err))
}

// ErrUnknownField indicates a reference to a field identifier that the
// instruction's bit template does not define.
type ErrUnknownField byte

func (err ErrUnknownField) Error() string {
	return f("field %q not defined by template", rune(err))
}

// ErrFieldRange indicates a field value too wide for its bit positions.
type ErrFieldRange struct {
	Field byte
	Value uint64
	Bits  int
}

func (err *ErrFieldRange) Error() string {
	return f("field %q value %#x wider than %d bits", rune(err.Field), err.Value, err.Bits)
}
