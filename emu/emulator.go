package emu

import (
	"errors"
	"fmt"

	"github.com/sarchlab/rvsim/insts"
	"github.com/sarchlab/rvsim/mmu"
	"github.com/sarchlab/rvsim/timing/cache"
)

// compactInstSize is the fetch width of the compact instruction stream.
const compactInstSize = 2

// defaultTLBCapacity sizes the translation cache when none is supplied.
const defaultTLBCapacity = 16

// StepResult represents the result of executing a single instruction.
type StepResult struct {
	// Stopped is true if the program hit a breakpoint trap.
	Stopped bool

	// Err is set if execution cannot continue.
	Err error
}

// Emulator executes compact RV64 instructions functionally.
type Emulator struct {
	regFile    *RegFile
	memory     *Memory
	decoder    *insts.Decoder
	translator *Translator
	engine     *Engine
	compact    *CompactExec

	tlb       *mmu.TLB
	walker    PageWalker
	l1dConfig *cache.Config

	instructionCount uint64
	maxInstructions  uint64 // 0 means no limit
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithStackPointer sets the initial stack pointer (x2) value.
func WithStackPointer(sp uint64) EmulatorOption {
	return func(e *Emulator) {
		e.regFile.X[regSP] = sp
	}
}

// WithMaxInstructions sets the maximum number of instructions to execute.
// A value of 0 means no limit.
func WithMaxInstructions(max uint64) EmulatorOption {
	return func(e *Emulator) {
		e.maxInstructions = max
	}
}

// WithPageWalker enables address translation backed by the given walker.
func WithPageWalker(walker PageWalker) EmulatorOption {
	return func(e *Emulator) {
		e.walker = walker
	}
}

// WithTLB replaces the default translation cache.
func WithTLB(tlb *mmu.TLB) EmulatorOption {
	return func(e *Emulator) {
		e.tlb = tlb
	}
}

// WithL1D routes data accesses through an L1 cache of the given
// configuration, backed by the emulator's memory.
func WithL1D(config cache.Config) EmulatorOption {
	return func(e *Emulator) {
		e.l1dConfig = &config
	}
}

// NewEmulator creates a new compact RV64 emulator.
func NewEmulator(opts ...EmulatorOption) *Emulator {
	e := &Emulator{
		regFile: &RegFile{},
		memory:  NewMemory(),
		decoder: insts.NewDecoder(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.tlb == nil {
		e.tlb = mmu.New(defaultTLBCapacity)
	}
	e.translator = NewTranslator(e.tlb, e.walker)
	e.engine = NewEngine(e.regFile, e.memory, e.translator, compactInstSize)
	if e.l1dConfig != nil {
		e.engine.LoadStoreUnit().AttachL1D(cache.New(*e.l1dConfig, e.memory))
	}
	e.compact = NewCompactExec(e.engine)

	return e
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// Memory returns the emulator's memory.
func (e *Emulator) Memory() *Memory {
	return e.memory
}

// Translator returns the emulator's translation stage.
func (e *Emulator) Translator() *Translator {
	return e.translator
}

// L1D returns the attached data cache, or nil.
func (e *Emulator) L1D() *cache.Cache {
	return e.engine.LoadStoreUnit().l1d
}

// InstructionCount returns the number of instructions executed.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// LoadProgram loads a program image into memory and sets the entry point.
func (e *Emulator) LoadProgram(entry uint64, program []byte) {
	e.memory.LoadProgram(entry, program)
	e.regFile.PC = entry
}

// Step executes a single instruction.
// Returns a StepResult indicating whether execution should continue.
func (e *Emulator) Step() StepResult {
	if e.maxInstructions > 0 && e.instructionCount >= e.maxInstructions {
		return StepResult{Err: fmt.Errorf("max instructions reached")}
	}

	// 1. Fetch: read a 16-bit parcel at PC.
	word := e.memory.Read16(e.regFile.PC)
	if word&0x3 == 0x3 {
		return StepResult{Err: fmt.Errorf(
			"32-bit encoding 0x%04x at PC=0x%X: base ISA fetch not supported", word, e.regFile.PC)}
	}

	// 2. Decode. A decode failure is an illegal-instruction trap request.
	inst, err := e.decoder.Decode(word)
	if err != nil {
		return StepResult{Err: &Trap{Kind: TrapIllegalInstruction, PC: e.regFile.PC}}
	}

	// 3. Execute, then advance PC unless the instruction redirected it.
	e.engine.BeginStep()
	execErr := e.compact.Execute(inst)
	e.instructionCount++

	if execErr != nil {
		var trap *Trap
		if errors.As(execErr, &trap) && trap.Kind == TrapBreakpoint {
			return StepResult{Stopped: true}
		}
		return StepResult{Err: execErr}
	}

	if !e.engine.Redirected() {
		e.regFile.PC += compactInstSize
	}
	return StepResult{}
}

// Run executes instructions until the program stops at a breakpoint or an
// error occurs.
func (e *Emulator) Run() error {
	for {
		result := e.Step()
		if result.Stopped {
			return nil
		}
		if result.Err != nil {
			return result.Err
		}
	}
}
