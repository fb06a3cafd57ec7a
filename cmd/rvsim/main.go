// Package main provides the entry point for rvsim.
// rvsim is a functional emulator for the compact RV64 instruction stream.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/rvsim/emu"
	"github.com/sarchlab/rvsim/insts"
	"github.com/sarchlab/rvsim/loader"
	"github.com/sarchlab/rvsim/timing/cache"
)

var (
	disasm   = flag.Bool("d", false, "Disassemble the program instead of running it")
	useL1D   = flag.Bool("l1d", false, "Route data accesses through a modeled L1 data cache")
	maxInsts = flag.Uint64("max", 0, "Maximum number of instructions to execute (0 = no limit)")
	verbose  = flag.Bool("v", false, "Verbose output")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: rvsim [options] <program.elf>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	programPath := flag.Arg(0)

	prog, err := loader.Load(programPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		fmt.Printf("Loaded: %s\n", programPath)
		fmt.Printf("Entry point: 0x%X\n", prog.EntryPoint)
		fmt.Printf("Segments: %d\n", len(prog.Segments))
	}

	if *disasm {
		os.Exit(disassemble(prog))
	}
	os.Exit(run(prog, programPath))
}

// run executes the program in functional emulation mode.
func run(prog *loader.Program, programPath string) int {
	opts := []emu.EmulatorOption{
		emu.WithStackPointer(prog.InitialSP),
		emu.WithMaxInstructions(*maxInsts),
	}
	if *useL1D {
		opts = append(opts, emu.WithL1D(cache.DefaultL1DConfig()))
	}
	emulator := emu.NewEmulator(opts...)

	memory := emulator.Memory()
	for _, seg := range prog.Segments {
		memory.Write(seg.VirtAddr, seg.Data)
		// Zero-fill BSS (memsize > filesize)
		for i := uint64(len(seg.Data)); i < seg.MemSize; i++ {
			memory.Write8(seg.VirtAddr+i, 0)
		}
	}
	emulator.RegFile().PC = prog.EntryPoint

	if err := emulator.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if *verbose {
		fmt.Printf("\nProgram: %s\n", programPath)
		fmt.Printf("Instructions executed: %d\n", emulator.InstructionCount())
		if l1d := emulator.L1D(); l1d != nil {
			stats := l1d.Stats()
			fmt.Printf("L1D: %d reads, %d writes, %d hits, %d misses\n",
				stats.Reads, stats.Writes, stats.Hits, stats.Misses)
		}
	}

	return 0
}

// disassemble prints the executable segments as compact assembly.
func disassemble(prog *loader.Program) int {
	decoder := insts.NewDecoder()

	for _, seg := range prog.Segments {
		if seg.Flags&loader.SegmentFlagExecute == 0 {
			continue
		}

		for off := uint64(0); off+2 <= uint64(len(seg.Data)); off += 2 {
			word := binary.LittleEndian.Uint16(seg.Data[off:])
			addr := seg.VirtAddr + off

			inst, err := decoder.Decode(word)
			if err != nil {
				fmt.Printf("%8x:  %04x  .short 0x%04x\n", addr, word, word)
				continue
			}
			fmt.Printf("%8x:  %04x  %s\n", addr, word, insts.Disassemble(inst))
		}
	}

	return 0
}
