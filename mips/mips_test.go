package mips

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// load assembles a program and loads it at TextStart, ready to step.
func load(t *testing.T, program []string) *MIPS {
	t.Helper()

	p, err := New()
	if err != nil {
		t.Fatal(err)
	}

	data, err := p.Assembler().Assemble(strings.NewReader(strings.Join(program, "\n")), TextStart)
	if err != nil {
		t.Fatal(err)
	}

	err = p.Load(data, TextStart)
	if err != nil {
		t.Fatal(err)
	}

	return p
}

func step(t *testing.T, p *MIPS, n int) {
	t.Helper()
	for range n {
		_, err := p.Step()
		if err != nil {
			t.Fatal(err)
		}
	}
}

func TestNew(t *testing.T) {
	assert := assert.New(t)

	p, err := New()
	assert.NoError(err)

	var names []string
	for info := range p.Layout.Enumerate() {
		names = append(names, info.Name)
		assert.Equal(32, info.Bits)
	}

	assert.Len(names, 35)
	assert.Equal("$0", names[0])
	assert.Equal("$t0", names[8])
	assert.Equal("$sp", names[29])
	assert.Equal("$ra", names[31])
	assert.Equal([]string{"PC", "HI", "LO"}, names[32:])

	assert.Equal(uint64(0), p.PC.Get())
	assert.Equal(4, p.Catalog.Size())
}

func TestRun(t *testing.T) {
	assert := assert.New(t)

	p := load(t, []string{
		".text",
		"main: addi $t0, $t0, 4",
		"loop: addi $t1, $t1, 4",
		"      j loop",
	})

	text, err := p.Step()
	assert.NoError(err)
	assert.Equal("addi $8 $8 0x4", text)
	assert.Equal(uint64(4), p.R.Get(8))
	assert.Equal(uint64(4), p.PC.Get())

	step(t, p, 1)
	assert.Equal(uint64(4), p.R.Get(9))
	assert.Equal(uint64(8), p.PC.Get())

	text, err = p.Step()
	assert.NoError(err)
	assert.Equal("j 0x4", text)
	assert.Equal(uint64(4), p.PC.Get())

	step(t, p, 1)
	assert.Equal(uint64(8), p.R.Get(9))
	assert.Equal(5, p.Steps)
}

func TestArith(t *testing.T) {
	assert := assert.New(t)

	p := load(t, []string{
		"addi $t0 $0 -5",
		"addi $t1 $0 3",
		"slt  $t2 $t0 $t1",
		"sub  $t3 $t1 $t0",
		"and  $t4 $t0 $t1",
		"or   $t5 $t0 $t1",
		"add  $t6 $t0 $t1",
	})

	step(t, p, 7)

	assert.Equal(uint64(0xfffffffb), p.R.Get(8))
	assert.Equal(uint64(3), p.R.Get(9))
	assert.Equal(uint64(1), p.R.Get(10))
	assert.Equal(uint64(8), p.R.Get(11))
	assert.Equal(uint64(3), p.R.Get(12))
	assert.Equal(uint64(0xfffffffb), p.R.Get(13))
	assert.Equal(uint64(0xfffffffe), p.R.Get(14))
}

func TestMemory(t *testing.T) {
	assert := assert.New(t)

	p := load(t, []string{
		"lui  $t0 0x1",
		"addi $t1 $0 42",
		"sw   $t1 4 $t0",
		"lw   $t2 4 $t0",
	})

	step(t, p, 4)

	assert.Equal(uint64(0x10000), p.R.Get(8))
	assert.Equal(uint64(42), p.R.Get(10))

	data, err := p.Mem.Read(0x10004, 4)
	assert.NoError(err)
	assert.Equal([]byte{0, 0, 0, 42}, data)
}

func TestBranch(t *testing.T) {
	assert := assert.New(t)

	p := load(t, []string{
		"addi $t0 $0 4",
		"beq  $t0 $t1 1",
		"beq  $t0 $t0 1",
	})

	step(t, p, 2)
	// Not taken: falls through to the next instruction.
	assert.Equal(uint64(8), p.PC.Get())

	step(t, p, 1)
	// Taken: skips one instruction past the fall-through address.
	assert.Equal(uint64(16), p.PC.Get())
}

func TestBranch_Backward(t *testing.T) {
	assert := assert.New(t)

	p := load(t, []string{
		"top: addi $t0 $t0 1",
		"     beq $0 $0 -2",
	})

	step(t, p, 2)
	assert.Equal(uint64(0), p.PC.Get())

	step(t, p, 2)
	assert.Equal(uint64(2), p.R.Get(8))
}

func TestCall(t *testing.T) {
	assert := assert.New(t)

	p := load(t, []string{
		"      jal func",
		"      nop",
		"func: jr $ra",
	})

	step(t, p, 1)
	assert.Equal(uint64(4), p.R.Get(31))
	assert.Equal(uint64(8), p.PC.Get())

	step(t, p, 1)
	assert.Equal(uint64(4), p.PC.Get())

	step(t, p, 1)
	assert.Equal(uint64(8), p.PC.Get())
}

func TestZeroRegister(t *testing.T) {
	assert := assert.New(t)

	p := load(t, []string{
		"addi $0 $0 5",
	})

	step(t, p, 1)
	assert.Equal(uint64(0), p.R.Get(0))
	assert.Equal(uint64(4), p.PC.Get())
}
