package isa

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testCatalog(t *testing.T) *Catalog {
	cat, err := NewCatalog(4, []Instruction{
		{Mnemonic: "addi", Bits: "001000 sssss ttttt iiiiiiiiiiiiiiii", Asm: "addi $t $s !i"},
		{Mnemonic: "j", Bits: "000010 aaaaaaaaaaaaaaaaaaaaaaaaaa", Asm: "j @a", Jump: true},
		{Mnemonic: "nop", Bits: "000000 00000 00000 00000 00000 000000", Asm: "nop"},
	})
	if err != nil {
		t.Fatal(err)
	}
	return cat
}

func TestNewCatalog(t *testing.T) {
	assert := assert.New(t)

	cat := testCatalog(t)
	assert.Equal(4, cat.Size())
	assert.Equal(32, cat.Width())
	assert.Equal(3, cat.Len())
}

func TestNewCatalog_TemplateWidth(t *testing.T) {
	assert := assert.New(t)

	// 31 template bits against a 32-bit instruction width.
	_, err := NewCatalog(4, []Instruction{
		{Mnemonic: "bad", Bits: "001000 sssss ttttt iiiiiiiiiiiiiii", Asm: "bad"},
	})
	var etw *ErrTemplateWidth
	assert.True(errors.As(err, &etw))
	assert.Equal("bad", etw.Mnemonic)
	assert.Equal(31, etw.Got)
	assert.Equal(32, etw.Want)
}

func TestDecode_Fields(t *testing.T) {
	assert := assert.New(t)

	cat := testCatalog(t)

	d, err := cat.Decode([]byte{0x21, 0x08, 0x00, 0x04}, Big)
	assert.NoError(err)
	assert.Equal("addi", d.Inst.Mnemonic)
	assert.Equal(uint64(8), d.Fields['s'])
	assert.Equal(uint64(8), d.Fields['t'])
	assert.Equal(uint64(4), d.Fields['i'])
}

func TestDecode_LittleEndian(t *testing.T) {
	assert := assert.New(t)

	cat := testCatalog(t)

	d, err := cat.Decode([]byte{0x04, 0x00, 0x08, 0x21}, Little)
	assert.NoError(err)
	assert.Equal("addi", d.Inst.Mnemonic)
	assert.Equal(uint64(8), d.Fields['s'])
	assert.Equal(uint64(8), d.Fields['t'])
	assert.Equal(uint64(4), d.Fields['i'])
}

func TestDecode_Deterministic(t *testing.T) {
	assert := assert.New(t)

	cat := testCatalog(t)

	first, err := cat.Decode([]byte{0x21, 0x08, 0x00, 0x04}, Big)
	assert.NoError(err)
	second, err := cat.Decode([]byte{0x21, 0x08, 0x00, 0x04}, Big)
	assert.NoError(err)

	assert.Equal(first.Inst, second.Inst)
	assert.Equal(first.Fields, second.Fields)
}

func TestDecode_WidthMismatch(t *testing.T) {
	assert := assert.New(t)

	cat := testCatalog(t)

	_, err := cat.Decode([]byte{0x21, 0x08, 0x00}, Big)
	var eiw *ErrInstructionWidth
	assert.True(errors.As(err, &eiw))
	assert.Equal(3, eiw.Got)
	assert.Equal(4, eiw.Want)
}

func TestDecode_Unknown(t *testing.T) {
	assert := assert.New(t)

	cat := testCatalog(t)

	_, err := cat.Decode([]byte{0xff, 0xff, 0xff, 0xff}, Big)
	assert.True(errors.Is(err, ErrUnknownInstruction(nil)))
}

func TestDecode_DeclarationOrder(t *testing.T) {
	assert := assert.New(t)

	// Both templates match 0x0f; the earlier declared entry wins.
	wide := Instruction{Mnemonic: "wide", Bits: "0000aaaa", Asm: "wide !a"}
	narrow := Instruction{Mnemonic: "narrow", Bits: "00001111", Asm: "narrow"}

	cat, err := NewCatalog(1, []Instruction{wide, narrow})
	assert.NoError(err)
	d, err := cat.Decode([]byte{0x0f}, Big)
	assert.NoError(err)
	assert.Equal("wide", d.Inst.Mnemonic)

	cat, err = NewCatalog(1, []Instruction{narrow, wide})
	assert.NoError(err)
	d, err = cat.Decode([]byte{0x0f}, Big)
	assert.NoError(err)
	assert.Equal("narrow", d.Inst.Mnemonic)
}

func TestDecode_SplitField(t *testing.T) {
	assert := assert.New(t)

	// 'a' occupies bits 7,6 and 3,2; the pieces concatenate MSB first.
	cat, err := NewCatalog(1, []Instruction{
		{Mnemonic: "split", Bits: "aa00aa00", Asm: "split !a"},
	})
	assert.NoError(err)

	d, err := cat.Decode([]byte{0b10_00_01_00}, Big)
	assert.NoError(err)
	assert.Equal(uint64(0b1001), d.Fields['a'])
}

func TestFieldWidths(t *testing.T) {
	assert := assert.New(t)

	cat := testCatalog(t)
	addi := cat.Find("addi")
	assert.Equal(1, len(addi))

	widths, err := cat.FieldWidths(addi[0])
	assert.NoError(err)
	assert.Equal(map[byte]int{'s': 5, 't': 5, 'i': 16}, widths)

	outside := &Instruction{Mnemonic: "addi"}
	_, err = cat.FieldWidths(outside)
	assert.True(errors.As(err, new(ErrNotDeclared)))
}

func TestEncode_RoundTrip(t *testing.T) {
	assert := assert.New(t)

	cat := testCatalog(t)
	addi := cat.Find("addi")[0]

	table := []Fields{
		{'s': 8, 't': 8, 'i': 4},
		{'s': 31, 't': 0, 'i': 0xffff},
		{'s': 0, 't': 31, 'i': 0},
		{'s': 17, 't': 3, 'i': 0x8000},
	}

	for _, fields := range table {
		for _, endian := range []Endian{Big, Little} {
			data, err := cat.Encode(addi, fields, endian)
			assert.NoError(err)
			assert.Equal(4, len(data))

			d, err := cat.Decode(data, endian)
			assert.NoError(err)
			assert.Equal(addi, d.Inst)
			assert.Equal(fields, d.Fields)
		}
	}
}

func TestEncode_Scenario(t *testing.T) {
	assert := assert.New(t)

	cat := testCatalog(t)
	addi := cat.Find("addi")[0]

	data, err := cat.Encode(addi, Fields{'s': 8, 't': 8, 'i': 4}, Big)
	assert.NoError(err)
	assert.Equal([]byte{0x21, 0x08, 0x00, 0x04}, data)
}

func TestEncode_Err(t *testing.T) {
	assert := assert.New(t)

	cat := testCatalog(t)
	addi := cat.Find("addi")[0]

	_, err := cat.Encode(addi, Fields{'s': 8, 't': 8}, Big)
	var euf ErrUnknownField
	assert.True(errors.As(err, &euf))
	assert.Equal(byte('i'), byte(euf))

	_, err = cat.Encode(addi, Fields{'s': 32, 't': 8, 'i': 4}, Big)
	var efr *ErrFieldRange
	assert.True(errors.As(err, &efr))
	assert.Equal(byte('s'), efr.Field)
	assert.Equal(5, efr.Bits)

	outside := &Instruction{Mnemonic: "addi"}
	_, err = cat.Encode(outside, Fields{}, Big)
	assert.True(errors.As(err, new(ErrNotDeclared)))
}

func TestEndianWord(t *testing.T) {
	assert := assert.New(t)

	data := []byte{0x21, 0x08, 0x00, 0x04}
	assert.Equal(uint64(0x21080004), Big.Word(data))
	assert.Equal(uint64(0x04000821), Little.Word(data))

	out := make([]byte, 4)
	Big.PutWord(out, 0x21080004)
	assert.Equal(data, out)
	Little.PutWord(out, 0x04000821)
	assert.Equal(data, out)

	assert.Equal("big", Big.String())
	assert.Equal("little", Little.String())
}
