package asm

import (
	"errors"

	"github.com/UCSBarchlab/MapacheSim/translate"
)

var f = translate.From

var (
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate  = errors.New(f("label duplicated"))
	ErrOperandCount    = errors.New(f("operand count mismatch"))
	ErrOperandLiteral  = errors.New(f("operand literal mismatch"))
	ErrWordSyntax      = errors.New(f(".word syntax"))
)

// ErrSyntax indicates the location of an assembly error.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrMnemonicUnknown string

func (err ErrMnemonicUnknown) Error() string {
	return f("mnemonic '%v' not declared", string(err))
}

type ErrDirectiveUnknown string

func (err ErrDirectiveUnknown) Error() string {
	return f("directive '%v' unknown", string(err))
}

type ErrRegisterInvalid string

func (err ErrRegisterInvalid) Error() string {
	return f("'%v' is not a register", string(err))
}

type ErrLabelMissing string

func (err ErrLabelMissing) Error() string {
	return f("label %v missing", string(err))
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

// ErrImmediateRange indicates an immediate that does not fit its field.
type ErrImmediateRange struct {
	Value int64
	Bits  int
}

func (err *ErrImmediateRange) Error() string {
	return f("immediate %d does not fit in %d bits", err.Value, err.Bits)
}
