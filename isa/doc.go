// Package isa implements the machine-definition core: an ordered
// instruction catalog with fixed-width bit templates, a pattern decode
// engine that extracts named operand fields, a register model, and the
// fetch/decode/execute step loop shared by all machine definitions.
//
// A machine definition declares its register layout, builds a Catalog
// from an ordered list of Instruction records, and binds both to a
// Machine together with a memory collaborator. Stepping the Machine
// executes one instruction and returns its disassembled form.
package isa
