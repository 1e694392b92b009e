package isa

import (
	"strings"
)

// Fields maps a field identifier to the unsigned value extracted from
// its bit positions.
type Fields map[byte]uint64

// Action is the semantic body of an instruction. It may read and write
// any register or memory location of the machine.
type Action func(m *Machine, fields Fields) error

// Instruction declares one catalog entry.
//
// Bits is a fixed-width template, one character per instruction bit,
// most significant first. '0' and '1' are literal bits; any other
// character names an operand field. Spaces are ignored. Bits sharing a
// field character are concatenated left to right into that field's
// value, whether or not they are contiguous.
//
// Asm is the display template: mnemonic first, then literal text or
// operand tokens ("$x" register, "@x" address, "!x" immediate).
type Instruction struct {
	Mnemonic string
	Bits     string
	Asm      string
	Action   Action
	Jump     bool // Set if the action assigns the program counter itself.
}

// fieldBits holds the template positions of one field identifier,
// most significant first.
type fieldBits struct {
	id        byte
	positions []int
}

type entry struct {
	inst   Instruction
	care   uint64 // positions holding literal template bits
	match  uint64 // required values of the literal bits
	fields []fieldBits
}

// Catalog is the ordered, immutable collection of instruction
// definitions for one machine. Declaration order is the match priority:
// the first entry whose literal bits all match wins.
type Catalog struct {
	size    int // instruction width in bytes
	entries []entry
}

// NewCatalog compiles the declared instructions against an instruction
// width of size bytes. Template lengths are checked here, before any
// decoding can occur.
func NewCatalog(size int, instructions []Instruction) (cat *Catalog, err error) {
	cat = &Catalog{
		size:    size,
		entries: make([]entry, 0, len(instructions)),
	}

	width := size * 8
	for _, inst := range instructions {
		cleaned := strings.ReplaceAll(inst.Bits, " ", "")
		if len(cleaned) != width {
			err = &ErrTemplateWidth{Mnemonic: inst.Mnemonic, Got: len(cleaned), Want: width}
			return nil, err
		}

		e := entry{inst: inst}
		for n := range len(cleaned) {
			c := cleaned[n]
			pos := width - 1 - n
			switch c {
			case '0':
				e.care |= uint64(1) << pos
			case '1':
				e.care |= uint64(1) << pos
				e.match |= uint64(1) << pos
			default:
				slot := -1
				for i := range e.fields {
					if e.fields[i].id == c {
						slot = i
						break
					}
				}
				if slot < 0 {
					e.fields = append(e.fields, fieldBits{id: c})
					slot = len(e.fields) - 1
				}
				e.fields[slot].positions = append(e.fields[slot].positions, pos)
			}
		}

		cat.entries = append(cat.entries, e)
	}

	return
}

// Size returns the instruction width in bytes.
func (cat *Catalog) Size() int {
	return cat.size
}

// Width returns the instruction width in bits.
func (cat *Catalog) Width() int {
	return cat.size * 8
}

// Len returns the number of declared instructions.
func (cat *Catalog) Len() int {
	return len(cat.entries)
}

// Find returns the declared instructions carrying the mnemonic, in
// declaration order.
func (cat *Catalog) Find(mnemonic string) (insts []*Instruction) {
	for n := range cat.entries {
		if cat.entries[n].inst.Mnemonic == mnemonic {
			insts = append(insts, &cat.entries[n].inst)
		}
	}
	return
}

// FieldWidths returns the bit count of every field the instruction's
// template declares.
func (cat *Catalog) FieldWidths(inst *Instruction) (widths map[byte]int, err error) {
	e := cat.entryOf(inst)
	if e == nil {
		err = ErrNotDeclared(inst.Mnemonic)
		return
	}

	widths = make(map[byte]int, len(e.fields))
	for _, fb := range e.fields {
		widths[fb.id] = len(fb.positions)
	}
	return
}

// Decode matches an instruction's bytes against the catalog and
// extracts its operand fields. The buffer length must equal the
// instruction width. Entries are tried in declaration order.
func (cat *Catalog) Decode(instr []byte, endian Endian) (d *Decoded, err error) {
	if len(instr) != cat.size {
		err = &ErrInstructionWidth{Got: len(instr), Want: cat.size}
		return
	}

	word := endian.Word(instr)
	for n := range cat.entries {
		e := &cat.entries[n]
		if word&e.care != e.match {
			continue
		}

		fields := make(Fields, len(e.fields))
		for _, fb := range e.fields {
			var value uint64
			for _, pos := range fb.positions {
				value = value<<1 | (word>>pos)&1
			}
			fields[fb.id] = value
		}

		d = &Decoded{Inst: &e.inst, Fields: fields}
		return
	}

	err = ErrUnknownInstruction(append([]byte(nil), instr...))
	return
}

// Encode packs field values into the instruction's bit template and
// returns the instruction bytes. Each value must fit the width of its
// field; fields not named by the template are ignored.
func (cat *Catalog) Encode(inst *Instruction, fields Fields, endian Endian) (data []byte, err error) {
	e := cat.entryOf(inst)
	if e == nil {
		err = ErrNotDeclared(inst.Mnemonic)
		return
	}

	word := e.match
	for _, fb := range e.fields {
		value, ok := fields[fb.id]
		if !ok {
			err = ErrUnknownField(fb.id)
			return
		}
		width := len(fb.positions)
		if width < 64 && value >= uint64(1)<<width {
			err = &ErrFieldRange{Field: fb.id, Value: value, Bits: width}
			return
		}
		for n, pos := range fb.positions {
			bit := (value >> (width - 1 - n)) & 1
			word |= bit << pos
		}
	}

	data = make([]byte, cat.size)
	endian.PutWord(data, word)
	return
}

func (cat *Catalog) entryOf(inst *Instruction) *entry {
	for n := range cat.entries {
		if &cat.entries[n].inst == inst {
			return &cat.entries[n]
		}
	}
	return nil
}
