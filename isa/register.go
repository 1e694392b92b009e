package isa

import (
	"fmt"
	"iter"
)

// RegisterInfo is one row of a register enumeration.
type RegisterInfo struct {
	Name  string
	Bits  int
	Value uint64
}

// Register is a scalar machine register with a declared bit width.
// Writes are masked to the declared width.
type Register struct {
	name  string
	bits  int
	mask  uint64
	value uint64
}

func (r *Register) Name() string {
	return r.name
}

func (r *Register) Bits() int {
	return r.bits
}

func (r *Register) Get() uint64 {
	return r.value
}

func (r *Register) Set(value uint64) {
	r.value = value & r.mask
}

// RegisterFile is a fixed-size, zero-indexed collection of registers
// sharing one bit width, each with its own display name.
type RegisterFile struct {
	name   string
	bits   int
	mask   uint64
	names  []string
	values []uint64
}

func (rf *RegisterFile) Name() string {
	return rf.name
}

func (rf *RegisterFile) Bits() int {
	return rf.bits
}

func (rf *RegisterFile) Size() int {
	return len(rf.values)
}

// NameOf returns the display name of the register at index n.
func (rf *RegisterFile) NameOf(n int) string {
	return rf.names[n]
}

func (rf *RegisterFile) Get(n int) uint64 {
	return rf.values[n]
}

func (rf *RegisterFile) Set(n int, value uint64) {
	rf.values[n] = value & rf.mask
}

// Layout is a machine's register specification: scalar registers and
// register files in declaration order. The layout is fixed once the
// machine is constructed; only register values change afterwards.
type Layout struct {
	entries []layoutEntry
}

type layoutEntry struct {
	reg  *Register
	file *RegisterFile
}

func NewLayout() *Layout {
	return &Layout{}
}

// Register adds a scalar register to the machine specification,
// initial value 0.
func (l *Layout) Register(name string, bits int) (r *Register) {
	r = &Register{
		name: name,
		bits: bits,
		mask: widthMask(bits),
	}
	l.entries = append(l.entries, layoutEntry{reg: r})
	return
}

// RegisterFile adds an indexed file of size registers to the machine
// specification, each initial value 0. The optional display names
// override the default "$<name><index>" naming.
func (l *Layout) RegisterFile(name string, size, bits int, names []string) (rf *RegisterFile) {
	if names == nil {
		names = make([]string, size)
		for n := range names {
			names[n] = fmt.Sprintf("$%s%d", name, n)
		}
	}
	if len(names) != size {
		panic("register file display names do not cover the file")
	}

	rf = &RegisterFile{
		name:   name,
		bits:   bits,
		mask:   widthMask(bits),
		names:  names,
		values: make([]uint64, size),
	}
	l.entries = append(l.entries, layoutEntry{file: rf})
	return
}

// Enumerate yields a RegisterInfo for every register in declaration
// order, register files expanding to their entries in index order.
func (l *Layout) Enumerate() iter.Seq[RegisterInfo] {
	return func(yield func(RegisterInfo) bool) {
		for _, e := range l.entries {
			if e.reg != nil {
				if !yield(RegisterInfo{Name: e.reg.name, Bits: e.reg.bits, Value: e.reg.value}) {
					return
				}
				continue
			}
			for n := range e.file.values {
				if !yield(RegisterInfo{Name: e.file.names[n], Bits: e.file.bits, Value: e.file.values[n]}) {
					return
				}
			}
		}
	}
}

func widthMask(bits int) uint64 {
	if bits >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << bits) - 1
}
