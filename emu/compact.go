package emu

import (
	"github.com/sarchlab/rvsim/insts"
)

// ABI register ids used by compact lowering conventions.
const (
	regZero = 0
	regRA   = 1
	regSP   = 2
)

// CompactExec executes decoded compact instructions by lowering each to
// one canonical base-ISA operation. It never re-interprets encoding bits:
// it remaps the 3-bit register window (once, up front), widens the
// immediate (sign-extend for arithmetic and control offsets, zero-extend
// for memory offsets and shift amounts), and delegates to the engine.
type CompactExec struct {
	engine *Engine
}

// NewCompactExec creates a compact instruction executor over the engine.
func NewCompactExec(engine *Engine) *CompactExec {
	return &CompactExec{engine: engine}
}

// signExtend widens a width-bit immediate field to int64.
func signExtend(imm uint32, width int) int64 {
	if imm&(1<<(width-1)) != 0 {
		return int64(imm) - int64(1)<<width
	}
	return int64(imm)
}

// Execute runs one compact instruction. The returned error, if any, is a
// trap request from the delegated operation.
func (c *CompactExec) Execute(in *insts.Instruction) error {
	rd, rs1, rs2 := in.Rd, in.Rs1, in.Rs2
	if insts.UsesCompactRegs(in.Op) {
		// The register-window remap happens exactly once, here.
		rd += insts.CompactRegOffset
		rs1 += insts.CompactRegOffset
		rs2 += insts.CompactRegOffset
	}

	switch in.Op {
	case insts.OpNOP:
		return c.engine.ALUImm(ALUImmOp{Fn: AluAdd, Rd: regZero, Rs1: regZero})
	case insts.OpADDI4SPN:
		return c.engine.ALUImm(ALUImmOp{Fn: AluAdd, Rd: rd, Rs1: regSP, Imm: int64(in.Imm)})
	case insts.OpLW:
		return c.engine.Load(LoadOp{Rd: rd, Rs1: rs1, Offset: uint64(in.Imm), Size: 4, Signed: true})
	case insts.OpLD:
		return c.engine.Load(LoadOp{Rd: rd, Rs1: rs1, Offset: uint64(in.Imm), Size: 8})
	case insts.OpSW:
		return c.engine.Store(StoreOp{Rs2: rs2, Rs1: rs1, Offset: uint64(in.Imm), Size: 4})
	case insts.OpSD:
		return c.engine.Store(StoreOp{Rs2: rs2, Rs1: rs1, Offset: uint64(in.Imm), Size: 8})

	case insts.OpADDI:
		return c.engine.ALUImm(ALUImmOp{Fn: AluAdd, Rd: rd, Rs1: rd, Imm: signExtend(in.Imm, 6)})
	case insts.OpADDIW:
		return c.engine.ALUImm(ALUImmOp{Fn: AluAdd, Rd: rd, Rs1: rd, Imm: signExtend(in.Imm, 6), Word: true})
	case insts.OpLI:
		// Load-immediate convention: add with the hard zero source.
		return c.engine.ALUImm(ALUImmOp{Fn: AluAdd, Rd: rd, Rs1: regZero, Imm: signExtend(in.Imm, 6)})
	case insts.OpADDI16SP:
		return c.engine.ALUImm(ALUImmOp{Fn: AluAdd, Rd: regSP, Rs1: regSP, Imm: signExtend(in.Imm, 10)})
	case insts.OpLUI:
		return c.engine.ALUImm(ALUImmOp{Fn: AluAdd, Rd: rd, Rs1: regZero, Imm: signExtend(in.Imm, 6) << 12})

	case insts.OpSRLI:
		return c.engine.ALUImm(ALUImmOp{Fn: AluSrl, Rd: rd, Rs1: rd, Imm: int64(in.Imm)})
	case insts.OpSRAI:
		return c.engine.ALUImm(ALUImmOp{Fn: AluSra, Rd: rd, Rs1: rd, Imm: int64(in.Imm)})
	case insts.OpSLLI:
		return c.engine.ALUImm(ALUImmOp{Fn: AluSll, Rd: rd, Rs1: rd, Imm: int64(in.Imm)})
	case insts.OpANDI:
		return c.engine.ALUImm(ALUImmOp{Fn: AluAnd, Rd: rd, Rs1: rd, Imm: signExtend(in.Imm, 6)})

	case insts.OpSUB:
		return c.engine.ALUReg(ALURegOp{Fn: AluSub, Rd: rd, Rs1: rd, Rs2: rs2})
	case insts.OpXOR:
		return c.engine.ALUReg(ALURegOp{Fn: AluXor, Rd: rd, Rs1: rd, Rs2: rs2})
	case insts.OpOR:
		return c.engine.ALUReg(ALURegOp{Fn: AluOr, Rd: rd, Rs1: rd, Rs2: rs2})
	case insts.OpAND:
		return c.engine.ALUReg(ALURegOp{Fn: AluAnd, Rd: rd, Rs1: rd, Rs2: rs2})
	case insts.OpSUBW:
		return c.engine.ALUReg(ALURegOp{Fn: AluSub, Rd: rd, Rs1: rd, Rs2: rs2, Word: true})
	case insts.OpADDW:
		return c.engine.ALUReg(ALURegOp{Fn: AluAdd, Rd: rd, Rs1: rd, Rs2: rs2, Word: true})

	case insts.OpJ:
		// Plain jump: jump-and-link into the hard-wired discard register.
		return c.engine.JAL(JALOp{Rd: regZero, Offset: signExtend(in.Imm, 12)})
	case insts.OpBEQZ:
		return c.engine.Branch(BranchOp{Fn: BranchEQ, Rs1: rs1, Rs2: regZero, Offset: signExtend(in.Imm, 9)})
	case insts.OpBNEZ:
		return c.engine.Branch(BranchOp{Fn: BranchNE, Rs1: rs1, Rs2: regZero, Offset: signExtend(in.Imm, 9)})

	case insts.OpLWSP:
		return c.engine.Load(LoadOp{Rd: rd, Rs1: regSP, Offset: uint64(in.Imm), Size: 4, Signed: true})
	case insts.OpLDSP:
		return c.engine.Load(LoadOp{Rd: rd, Rs1: regSP, Offset: uint64(in.Imm), Size: 8})
	case insts.OpSWSP:
		return c.engine.Store(StoreOp{Rs2: rs2, Rs1: regSP, Offset: uint64(in.Imm), Size: 4})
	case insts.OpSDSP:
		return c.engine.Store(StoreOp{Rs2: rs2, Rs1: regSP, Offset: uint64(in.Imm), Size: 8})

	case insts.OpJR:
		return c.engine.JALR(JALROp{Rd: regZero, Rs1: rs1})
	case insts.OpJALR:
		return c.engine.JALR(JALROp{Rd: regRA, Rs1: rs1})
	case insts.OpMV:
		// Register-move convention: add with the hard zero source.
		return c.engine.ALUReg(ALURegOp{Fn: AluAdd, Rd: rd, Rs1: regZero, Rs2: rs2})
	case insts.OpADD:
		return c.engine.ALUReg(ALURegOp{Fn: AluAdd, Rd: rd, Rs1: rd, Rs2: rs2})
	case insts.OpEBREAK:
		return c.engine.Break()

	default:
		return &Trap{Kind: TrapIllegalInstruction, PC: c.engine.regFile.PC}
	}
}
