package emu

// Canonical operation records. Every compact instruction lowers into
// exactly one of these and calls the matching Engine entry point with
// fully resolved operands: register ids already remapped out of the
// compact window, immediates already widened to 64 bits.

// ALUImmOp is a canonical immediate-arithmetic operation.
type ALUImmOp struct {
	Fn   AluFn
	Rd   uint8
	Rs1  uint8
	Imm  int64
	Word bool // narrow to 32-bit operands, sign-extend the result
}

// ALURegOp is a canonical register-arithmetic operation.
type ALURegOp struct {
	Fn   AluFn
	Rd   uint8
	Rs1  uint8
	Rs2  uint8
	Word bool
}

// LoadOp is a canonical memory load.
type LoadOp struct {
	Rd     uint8
	Rs1    uint8
	Offset uint64
	Size   int // access width in bytes: 1, 2, 4 or 8
	Signed bool
}

// StoreOp is a canonical memory store.
type StoreOp struct {
	Rs2    uint8 // source value
	Rs1    uint8 // base address
	Offset uint64
	Size   int
}

// BranchOp is a canonical conditional branch.
type BranchOp struct {
	Fn     BranchFn
	Rs1    uint8
	Rs2    uint8
	Offset int64
}

// JALOp is a canonical jump-and-link.
type JALOp struct {
	Rd     uint8
	Offset int64
}

// JALROp is a canonical indirect jump-and-link.
type JALROp struct {
	Rd     uint8
	Rs1    uint8
	Offset int64
}

// Engine is the base-ISA execution engine: the single set of entry points
// all decoded instructions delegate their effects through.
type Engine struct {
	regFile    *RegFile
	alu        *ALU
	lsu        *LoadStoreUnit
	branchUnit *BranchUnit
}

// NewEngine wires an engine over the given register file, memory and
// translator. instSize is the fetch width in bytes.
func NewEngine(regFile *RegFile, memory *Memory, translator *Translator, instSize uint64) *Engine {
	return &Engine{
		regFile:    regFile,
		alu:        NewALU(regFile),
		lsu:        NewLoadStoreUnit(regFile, memory, translator),
		branchUnit: NewBranchUnit(regFile, instSize),
	}
}

// BeginStep resets per-instruction state. Called once before each execute.
func (e *Engine) BeginStep() {
	e.branchUnit.BeginStep()
}

// Redirected reports whether the executed instruction wrote PC.
func (e *Engine) Redirected() bool {
	return e.branchUnit.Redirected()
}

// LoadStoreUnit exposes the memory path for cache attachment.
func (e *Engine) LoadStoreUnit() *LoadStoreUnit {
	return e.lsu
}

// ALUImm executes a canonical immediate-arithmetic operation.
func (e *Engine) ALUImm(op ALUImmOp) error {
	e.alu.OpImm(op.Fn, op.Rd, op.Rs1, op.Imm, op.Word)
	return nil
}

// ALUReg executes a canonical register-arithmetic operation.
func (e *Engine) ALUReg(op ALURegOp) error {
	e.alu.OpReg(op.Fn, op.Rd, op.Rs1, op.Rs2, op.Word)
	return nil
}

// Load executes a canonical memory load.
func (e *Engine) Load(op LoadOp) error {
	return e.lsu.Load(op.Rd, op.Rs1, op.Offset, op.Size, op.Signed)
}

// Store executes a canonical memory store.
func (e *Engine) Store(op StoreOp) error {
	return e.lsu.Store(op.Rs2, op.Rs1, op.Offset, op.Size)
}

// Branch executes a canonical conditional branch.
func (e *Engine) Branch(op BranchOp) error {
	e.branchUnit.Branch(op.Fn, op.Rs1, op.Rs2, op.Offset)
	return nil
}

// JAL executes a canonical jump-and-link.
func (e *Engine) JAL(op JALOp) error {
	e.branchUnit.JAL(op.Rd, op.Offset)
	return nil
}

// JALR executes a canonical indirect jump-and-link.
func (e *Engine) JALR(op JALROp) error {
	e.branchUnit.JALR(op.Rd, op.Rs1, op.Offset)
	return nil
}

// Break raises a breakpoint trap request.
func (e *Engine) Break() error {
	return &Trap{Kind: TrapBreakpoint, PC: e.regFile.PC}
}
