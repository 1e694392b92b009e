package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/davecgh/go-spew/spew"

	"github.com/UCSBarchlab/MapacheSim/isa"
	"github.com/UCSBarchlab/MapacheSim/mem"
	"github.com/UCSBarchlab/MapacheSim/mips"
)

func main() {
	var text uint64
	var limit int
	var dump bool
	var verbose bool

	flag.Uint64Var(&text, "text", mips.TextStart, "Program load address")
	flag.IntVar(&limit, "limit", 0, "Maximum instructions to execute (0 for no limit)")
	flag.BoolVar(&dump, "dump", false, "Dump registers after execution")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("%v: Expected one assembly file, got: %v", os.Args[0], flag.Args())
	}
	source := flag.Arg(0)

	machine, err := mips.New()
	if err != nil {
		log.Fatal(err)
	}
	machine.Verbose = verbose

	inf, err := os.Open(source)
	if err != nil {
		log.Fatalf("%v: %v", source, err)
	}
	defer inf.Close()

	asm := machine.Assembler()
	asm.Verbose = verbose

	data, err := asm.Assemble(inf, text)
	if err != nil {
		log.Fatalf("%v: %v", source, err)
	}

	err = machine.Load(data, text)
	if err != nil {
		log.Fatal(err)
	}

	err = machine.Run(limit, func(pc uint64, line string) {
		fmt.Printf("%#010x: %v\n", pc, line)
	})
	if err != nil {
		var oor *mem.ErrOutOfRange
		if !errors.Is(err, isa.ErrUnknownInstruction(nil)) && !errors.As(err, &oor) {
			log.Fatal(err)
		}
		// Otherwise the machine ran off the end of the program.
	}

	if dump {
		for info := range machine.Layout.Enumerate() {
			spew.Dump(info)
		}
	}
}
