package isa

import (
	"log"
)

// Memory is the byte-addressable memory collaborator contract. Reads
// and writes operate on contiguous byte ranges; behavior outside the
// mapped region is the collaborator's to define.
type Memory interface {
	Read(addr uint64, n int) ([]byte, error)
	Write(addr uint64, data []byte) error
}

// Machine binds a register layout, an instruction catalog, and a
// memory collaborator into a steppable simulator. One Machine is one
// logical thread of control; distinct Machines share nothing.
type Machine struct {
	Verbose bool // Set to enable verbose execution logging.

	Layout  *Layout
	Catalog *Catalog
	Mem     Memory
	Endian  Endian

	// PC is the program counter register used by fetch.
	PC *Register

	// AddrShift is the word-alignment shift applied to address fields
	// during disassembly (2 for word-aligned 4-byte instructions).
	AddrShift int

	// Finalize, when set, runs after every executed instruction.
	// Typical duties: pin a hard-wired zero register and advance PC
	// past non-jump instructions.
	Finalize func(m *Machine, d *Decoded) error

	Steps int // Executed instruction counter.
}

// Fetch reads the next instruction's bytes at PC.
func (m *Machine) Fetch() ([]byte, error) {
	return m.Mem.Read(m.PC.Get(), m.Catalog.Size())
}

// ReadWord reads one instruction-width word from memory.
func (m *Machine) ReadWord(addr uint64) (word uint64, err error) {
	data, err := m.Mem.Read(addr, m.Catalog.Size())
	if err != nil {
		return
	}
	word = m.Endian.Word(data)
	return
}

// WriteWord writes one instruction-width word to memory.
func (m *Machine) WriteWord(addr uint64, word uint64) error {
	data := make([]byte, m.Catalog.Size())
	m.Endian.PutWord(data, word)
	return m.Mem.Write(addr, data)
}

// Run repeatedly steps the machine, stopping at the first error or
// once limit instructions have executed. A limit of zero means no
// limit. When trace is set it receives the PC and disassembly of every
// executed instruction.
func (m *Machine) Run(limit int, trace func(pc uint64, text string)) (err error) {
	for limit == 0 || m.Steps < limit {
		pc := m.PC.Get()

		var text string
		text, err = m.Step()
		if err != nil {
			return
		}

		if trace != nil {
			trace(pc, text)
		}
	}

	return
}

// Step runs a single fetch, decode, execute, finalize cycle and
// returns the disassembly of the executed instruction. A decode
// failure aborts the step before any register or memory changes.
func (m *Machine) Step() (text string, err error) {
	raw, err := m.Fetch()
	if err != nil {
		return
	}

	d, err := m.Catalog.Decode(raw, m.Endian)
	if err != nil {
		return
	}

	if m.Verbose {
		log.Printf("%#x: % x %v", m.PC.Get(), raw, d.Inst.Mnemonic)
	}

	err = d.Inst.Action(m, d.Fields)
	if err != nil {
		return
	}

	if m.Finalize != nil {
		err = m.Finalize(m, d)
		if err != nil {
			return
		}
	}

	m.Steps++

	return d.Disassemble(m.AddrShift)
}
