// Package asm implements the assembler collaborator: it turns assembly
// text into machine-code bytes using the same instruction catalog the
// decode engine matches against, so assembled programs decode back to
// the definitions that produced them.
//
// Syntax: one statement per line; '#' and ';' start comments; labels
// end with ':'; commas between operands are optional. Directives:
// .text (section marker), .word VALUE, .equ NAME VALUE. Operands and
// .word values may use compile-time $( ) expressions, evaluated with
// equates and labels in scope.
package asm

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"regexp"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/UCSBarchlab/MapacheSim/isa"
)

// statement is one sized line of the program, located during the first
// pass and encoded during the second.
type statement struct {
	lineNo int
	line   string
	words  []string
	addr   uint64
	isWord bool // .word directive rather than an instruction
}

// Assembler encodes assembly text against an instruction catalog.
type Assembler struct {
	Verbose bool // If set, verbosely logs the assembler actions.

	Catalog   *isa.Catalog
	Endian    isa.Endian
	AddrShift int // word-alignment shift applied to '@' operands

	// Registers maps register display names (e.g. "$t0") to numbers.
	// Plain "$<number>" operands always parse.
	Registers map[string]uint64

	Label  map[string]uint64 // label -> absolute address, filled by pass one
	Equate map[string]string // .equ definitions
}

// Assemble reads a program and returns its machine-code bytes, laid
// out contiguously from textStart.
func (asm *Assembler) Assemble(input io.Reader, textStart uint64) (data []byte, err error) {
	stmts, err := asm.locate(input, textStart)
	if err != nil {
		return
	}

	for n := range stmts {
		st := &stmts[n]

		var encoded []byte
		encoded, err = asm.encode(st)
		if err != nil {
			err = &ErrSyntax{LineNo: st.lineNo, Line: st.line, Err: err}
			return nil, err
		}
		data = append(data, encoded...)
	}

	return
}

// locate is the first pass: split statements, record label addresses,
// and collect equates.
func (asm *Assembler) locate(input io.Reader, textStart uint64) (stmts []statement, err error) {
	asm.Label = make(map[string]uint64, 16)
	asm.Equate = make(map[string]string, 16)

	scanner := bufio.NewScanner(input)

	var line string
	var lineNo int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineNo, Line: line, Err: err}
		}
	}()

	addr := textStart
	for scanner.Scan() {
		lineNo++

		text := scanner.Text()
		for _, sep := range []string{"#", ";"} {
			text, _, _ = strings.Cut(text, sep)
		}
		line = strings.TrimSpace(strings.ReplaceAll(text, ",", " "))

		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}

		if asm.Verbose {
			log.Printf("%v: %v", lineNo, line)
		}

		// .equ NAME VALUE
		if words[0] == ".equ" {
			if len(words) < 3 {
				err = ErrEquateSyntax
				return
			}
			_, ok := asm.Equate[words[1]]
			if ok {
				err = ErrEquateDuplicate
				return
			}
			asm.Equate[words[1]] = strings.Join(words[2:], " ")
			continue
		}

		for len(words) > 0 && strings.HasSuffix(words[0], ":") {
			label := strings.TrimSuffix(words[0], ":")
			_, ok := asm.Label[label]
			if ok {
				err = ErrLabelDuplicate
				return
			}
			asm.Label[label] = addr
			words = words[1:]
		}
		if len(words) == 0 {
			continue
		}

		switch words[0] {
		case ".text", ".data":
			// section markers; everything is laid out contiguously
			continue
		case ".word":
			if len(words) < 2 {
				err = ErrWordSyntax
				return
			}
			stmts = append(stmts, statement{lineNo: lineNo, line: line, words: words[1:], addr: addr, isWord: true})
			addr += uint64(asm.Catalog.Size())
			continue
		}
		if strings.HasPrefix(words[0], ".") {
			err = ErrDirectiveUnknown(words[0])
			return
		}

		stmts = append(stmts, statement{lineNo: lineNo, line: line, words: words, addr: addr})
		addr += uint64(asm.Catalog.Size())
	}

	return
}

// encode is the second pass for one statement, with every label known.
func (asm *Assembler) encode(st *statement) (data []byte, err error) {
	words, err := asm.expand(st.words)
	if err != nil {
		return
	}

	if st.isWord {
		var value uint64
		value, err = asm.valueOf(words[0])
		if err != nil {
			return
		}
		data = make([]byte, asm.Catalog.Size())
		asm.Endian.PutWord(data, value)
		return
	}

	insts := asm.Catalog.Find(words[0])
	if len(insts) == 0 {
		err = ErrMnemonicUnknown(words[0])
		return
	}

	var firstErr error
	for _, inst := range insts {
		fields, _err := asm.operands(inst, words)
		if _err != nil {
			// try the next declaration of this mnemonic
			if firstErr == nil {
				firstErr = _err
			}
			continue
		}
		return asm.Catalog.Encode(inst, fields, asm.Endian)
	}

	err = firstErr
	return
}

// expand substitutes equates and evaluates $( ) expressions. The words
// are rejoined before evaluation so expressions may contain spaces.
func (asm *Assembler) expand(words []string) (out []string, err error) {
	subbed := make([]string, len(words))
	for n, word := range words {
		if equate, ok := asm.Equate[word]; ok {
			word = equate
		}
		subbed[n] = word
	}
	line := strings.Join(subbed, " ")

	re := regexp.MustCompile(`\$\([^$)]*\)`)
	line = re.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.exprEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#v", value)
	})
	if err != nil {
		return
	}

	out = strings.Fields(line)
	return
}

// exprEval does compile-time $(...) evaluations, with integer equates
// and labels predefined.
func (asm *Assembler) exprEval(expr string) (value uint64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		value64, _err := strconv.ParseInt(str, 0, 64)
		if _err != nil {
			// Ignore non-integer equates.
			continue
		}
		pred[key] = starlark.MakeInt64(value64)
	}
	for key, addr := range asm.Label {
		pred[key] = starlark.MakeUint64(addr)
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = uint64(st_int64)
	return
}

// operands matches source words against the instruction's display
// template and produces the field assignment to encode.
func (asm *Assembler) operands(inst *isa.Instruction, words []string) (fields isa.Fields, err error) {
	parts := strings.Fields(inst.Asm)
	if len(parts) != len(words) {
		err = ErrOperandCount
		return
	}

	widths, err := asm.Catalog.FieldWidths(inst)
	if err != nil {
		return
	}

	fields = isa.Fields{}
	for id := range widths {
		fields[id] = 0
	}

	for n := 1; n < len(parts); n++ {
		part := parts[n]
		word := words[n]

		var sigil byte
		if len(part) == 2 {
			sigil = part[0]
		}

		switch sigil {
		case '$':
			var number uint64
			number, err = asm.register(word)
			if err != nil {
				return
			}
			fields[part[1]] = number
		case '@':
			var addr uint64
			addr, err = asm.target(word)
			if err != nil {
				return
			}
			fields[part[1]] = addr >> asm.AddrShift
		case '!':
			var value uint64
			value, err = asm.immediate(word, widths[part[1]])
			if err != nil {
				return
			}
			fields[part[1]] = value
		default:
			// literal text must match exactly
			if part != word {
				err = ErrOperandLiteral
				return
			}
		}
	}

	return
}

// register resolves a register operand by display name or "$<number>".
func (asm *Assembler) register(word string) (number uint64, err error) {
	number, ok := asm.Registers[word]
	if ok {
		return
	}

	if strings.HasPrefix(word, "$") {
		value64, _err := strconv.ParseUint(word[1:], 10, 64)
		if _err == nil {
			number = value64
			return
		}
	}

	err = ErrRegisterInvalid(word)
	return
}

// target resolves an address operand: a label or a plain value.
func (asm *Assembler) target(word string) (addr uint64, err error) {
	addr, ok := asm.Label[word]
	if ok {
		return
	}

	addr, err = asm.valueOf(word)
	if err != nil {
		err = ErrLabelMissing(word)
	}
	return
}

// immediate parses a (possibly negative) immediate and masks it to the
// field width.
func (asm *Assembler) immediate(word string, bits int) (value uint64, err error) {
	value64, _err := strconv.ParseInt(word, 0, 64)
	if _err != nil {
		// Out-of-int64 values such as 0xffffffffffffffff
		uvalue, _uerr := strconv.ParseUint(word, 0, 64)
		if _uerr != nil {
			err = ErrParseNumber(word)
			return
		}
		value64 = int64(uvalue)
	}

	limit := int64(1) << bits
	if value64 >= limit || value64 < -(limit>>1) {
		err = &ErrImmediateRange{Value: value64, Bits: bits}
		return
	}

	value = uint64(value64) & (uint64(1)<<bits - 1)
	return
}

// valueOf parses a plain unsigned value.
func (asm *Assembler) valueOf(word string) (value uint64, err error) {
	value64, _err := strconv.ParseInt(word, 0, 64)
	if _err != nil {
		err = ErrParseNumber(word)
		return
	}
	value = uint64(value64)
	return
}
