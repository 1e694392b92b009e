// Package mips defines an example machine: a big-endian MIPS subset
// with 32-bit instructions, a 32-entry register file, and the PC, HI,
// and LO special registers. It demonstrates how a machine definition
// declares its layout and catalog against the shared engine.
package mips

import (
	"github.com/UCSBarchlab/MapacheSim/asm"
	"github.com/UCSBarchlab/MapacheSim/bits"
	"github.com/UCSBarchlab/MapacheSim/isa"
	"github.com/UCSBarchlab/MapacheSim/mem"
)

const (
	InstructionSize = 4       // bytes per instruction
	AddrShift       = 2       // word alignment of address operands
	MemorySize      = 1 << 20 // bytes of mapped memory
	TextStart       = 0       // default program load address
)

// RegisterNames holds the conventional display names, indexed by
// register number.
var RegisterNames = []string{
	"$0", "$at", "$v0", "$v1",
	"$a0", "$a1", "$a2", "$a3",
	"$t0", "$t1", "$t2", "$t3",
	"$t4", "$t5", "$t6", "$t7",
	"$s0", "$s1", "$s2", "$s3",
	"$s4", "$s5", "$s6", "$s7",
	"$t8", "$t9", "$k0", "$k1",
	"$gp", "$sp", "$fp", "$ra",
}

// MIPS is a machine instance with its register handles.
type MIPS struct {
	*isa.Machine

	R  *isa.RegisterFile
	PC *isa.Register
	HI *isa.Register
	LO *isa.Register
}

// New builds a MIPS machine with freshly mapped memory.
func New() (p *MIPS, err error) {
	p = &MIPS{}

	layout := isa.NewLayout()
	p.R = layout.RegisterFile("R", 32, 32, RegisterNames)
	p.PC = layout.Register("PC", 32)
	p.HI = layout.Register("HI", 32)
	p.LO = layout.Register("LO", 32)

	cat, err := isa.NewCatalog(InstructionSize, p.catalog())
	if err != nil {
		return nil, err
	}

	p.Machine = &isa.Machine{
		Layout:    layout,
		Catalog:   cat,
		Mem:       mem.Map(MemorySize),
		Endian:    isa.Big,
		PC:        p.PC,
		AddrShift: AddrShift,
		Finalize:  p.finalize,
	}

	return
}

// Assembler returns an assembler bound to this machine's catalog and
// register names.
func (p *MIPS) Assembler() *asm.Assembler {
	regs := make(map[string]uint64, len(RegisterNames))
	for n, name := range RegisterNames {
		regs[name] = uint64(n)
	}

	return &asm.Assembler{
		Catalog:   p.Catalog,
		Endian:    p.Endian,
		AddrShift: p.AddrShift,
		Registers: regs,
	}
}

// Load writes a program into memory and points PC at it.
func (p *MIPS) Load(data []byte, start uint64) (err error) {
	err = p.Mem.Write(start, data)
	if err != nil {
		return
	}
	p.PC.Set(start)
	return
}

// finalize pins the hard-wired zero register and advances PC past any
// instruction that did not assign it itself.
func (p *MIPS) finalize(m *isa.Machine, d *isa.Decoded) error {
	p.R.Set(0, 0)
	if !d.Inst.Jump {
		p.PC.Set(p.PC.Get() + InstructionSize)
	}
	return nil
}

// catalog declares the instruction set in match-priority order.
func (p *MIPS) catalog() []isa.Instruction {
	return []isa.Instruction{
		{
			Mnemonic: "nop",
			Bits:     "000000 00000 00000 00000 00000 000000",
			Asm:      "nop",
			Action:   func(m *isa.Machine, f isa.Fields) error { return nil },
		},
		{
			Mnemonic: "add",
			Bits:     "000000 sssss ttttt ddddd xxxxx 100000",
			Asm:      "add $d $s $t",
			Action: func(m *isa.Machine, f isa.Fields) error {
				p.R.Set(int(f['d']), p.R.Get(int(f['s']))+p.R.Get(int(f['t'])))
				return nil
			},
		},
		{
			Mnemonic: "sub",
			Bits:     "000000 sssss ttttt ddddd xxxxx 100010",
			Asm:      "sub $d $s $t",
			Action: func(m *isa.Machine, f isa.Fields) error {
				p.R.Set(int(f['d']), p.R.Get(int(f['s']))-p.R.Get(int(f['t'])))
				return nil
			},
		},
		{
			Mnemonic: "and",
			Bits:     "000000 sssss ttttt ddddd xxxxx 100100",
			Asm:      "and $d $s $t",
			Action: func(m *isa.Machine, f isa.Fields) error {
				p.R.Set(int(f['d']), p.R.Get(int(f['s']))&p.R.Get(int(f['t'])))
				return nil
			},
		},
		{
			Mnemonic: "or",
			Bits:     "000000 sssss ttttt ddddd xxxxx 100101",
			Asm:      "or $d $s $t",
			Action: func(m *isa.Machine, f isa.Fields) error {
				p.R.Set(int(f['d']), p.R.Get(int(f['s']))|p.R.Get(int(f['t'])))
				return nil
			},
		},
		{
			Mnemonic: "slt",
			Bits:     "000000 sssss ttttt ddddd xxxxx 101010",
			Asm:      "slt $d $s $t",
			Action: func(m *isa.Machine, f isa.Fields) error {
				var flag uint64
				if int32(p.R.Get(int(f['s']))) < int32(p.R.Get(int(f['t']))) {
					flag = 1
				}
				p.R.Set(int(f['d']), flag)
				return nil
			},
		},
		{
			Mnemonic: "jr",
			Bits:     "000000 sssss 00000 00000 00000 001000",
			Asm:      "jr $s",
			Jump:     true,
			Action: func(m *isa.Machine, f isa.Fields) error {
				p.PC.Set(p.R.Get(int(f['s'])))
				return nil
			},
		},
		{
			Mnemonic: "addi",
			Bits:     "001000 sssss ttttt iiiiiiiiiiiiiiii",
			Asm:      "addi $t $s !i",
			Action: func(m *isa.Machine, f isa.Fields) error {
				imm, err := bits.SignExtend(f['i'], 16)
				if err != nil {
					return err
				}
				p.R.Set(int(f['t']), p.R.Get(int(f['s']))+imm)
				return nil
			},
		},
		{
			Mnemonic: "lui",
			Bits:     "001111 00000 ttttt iiiiiiiiiiiiiiii",
			Asm:      "lui $t !i",
			Action: func(m *isa.Machine, f isa.Fields) error {
				p.R.Set(int(f['t']), f['i']<<16)
				return nil
			},
		},
		{
			Mnemonic: "lw",
			Bits:     "100011 sssss ttttt iiiiiiiiiiiiiiii",
			Asm:      "lw $t !i $s",
			Action: func(m *isa.Machine, f isa.Fields) error {
				offset, err := bits.SignExtend(f['i'], 16)
				if err != nil {
					return err
				}
				word, err := m.ReadWord(p.R.Get(int(f['s'])) + offset)
				if err != nil {
					return err
				}
				p.R.Set(int(f['t']), word)
				return nil
			},
		},
		{
			Mnemonic: "sw",
			Bits:     "101011 sssss ttttt iiiiiiiiiiiiiiii",
			Asm:      "sw $t !i $s",
			Action: func(m *isa.Machine, f isa.Fields) error {
				offset, err := bits.SignExtend(f['i'], 16)
				if err != nil {
					return err
				}
				return m.WriteWord(p.R.Get(int(f['s']))+offset, p.R.Get(int(f['t'])))
			},
		},
		{
			Mnemonic: "beq",
			Bits:     "000100 sssss ttttt iiiiiiiiiiiiiiii",
			Asm:      "beq $s $t !i",
			Jump:     true,
			Action: func(m *isa.Machine, f isa.Fields) error {
				next := p.PC.Get() + InstructionSize
				if p.R.Get(int(f['s'])) == p.R.Get(int(f['t'])) {
					offset, err := bits.SignExtend(f['i'], 16)
					if err != nil {
						return err
					}
					next += offset << 2
				}
				p.PC.Set(next)
				return nil
			},
		},
		{
			Mnemonic: "j",
			Bits:     "000010 aaaaaaaaaaaaaaaaaaaaaaaaaa",
			Asm:      "j @a",
			Jump:     true,
			Action: func(m *isa.Machine, f isa.Fields) error {
				upper, err := bits.Select(p.PC.Get()+InstructionSize, 31, 28, false)
				if err != nil {
					return err
				}
				p.PC.Set(upper | f['a']<<2)
				return nil
			},
		},
		{
			Mnemonic: "jal",
			Bits:     "000011 aaaaaaaaaaaaaaaaaaaaaaaaaa",
			Asm:      "jal @a",
			Jump:     true,
			Action: func(m *isa.Machine, f isa.Fields) error {
				upper, err := bits.Select(p.PC.Get()+InstructionSize, 31, 28, false)
				if err != nil {
					return err
				}
				p.R.Set(31, p.PC.Get()+InstructionSize)
				p.PC.Set(upper | f['a']<<2)
				return nil
			},
		},
	}
}
