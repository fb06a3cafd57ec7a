package emu

// AluFn selects an ALU operation.
type AluFn uint8

// ALU operations reachable from canonical arithmetic records.
const (
	AluAdd AluFn = iota
	AluSub
	AluAnd
	AluOr
	AluXor
	AluSll
	AluSrl
	AluSra
)

// ALU implements RV64 integer arithmetic and logic operations.
type ALU struct {
	regFile *RegFile
}

// NewALU creates a new ALU connected to the given register file.
func NewALU(regFile *RegFile) *ALU {
	return &ALU{regFile: regFile}
}

// OpImm computes rd = rs1 <fn> imm. When word is set the operation runs on
// 32-bit operands and the result is sign-extended (the RV64 *W forms).
func (a *ALU) OpImm(fn AluFn, rd, rs1 uint8, imm int64, word bool) {
	a.apply(fn, rd, a.regFile.Read(rs1), uint64(imm), word)
}

// OpReg computes rd = rs1 <fn> rs2, with the same word narrowing rule.
func (a *ALU) OpReg(fn AluFn, rd, rs1, rs2 uint8, word bool) {
	a.apply(fn, rd, a.regFile.Read(rs1), a.regFile.Read(rs2), word)
}

func (a *ALU) apply(fn AluFn, rd uint8, op1, op2 uint64, word bool) {
	if word {
		a.regFile.Write32(rd, compute32(fn, uint32(op1), uint32(op2)))
		return
	}
	a.regFile.Write(rd, compute64(fn, op1, op2))
}

func compute64(fn AluFn, op1, op2 uint64) uint64 {
	switch fn {
	case AluAdd:
		return op1 + op2
	case AluSub:
		return op1 - op2
	case AluAnd:
		return op1 & op2
	case AluOr:
		return op1 | op2
	case AluXor:
		return op1 ^ op2
	case AluSll:
		return op1 << (op2 & 63)
	case AluSrl:
		return op1 >> (op2 & 63)
	case AluSra:
		return uint64(int64(op1) >> (op2 & 63))
	default:
		return 0
	}
}

func compute32(fn AluFn, op1, op2 uint32) uint32 {
	switch fn {
	case AluAdd:
		return op1 + op2
	case AluSub:
		return op1 - op2
	case AluAnd:
		return op1 & op2
	case AluOr:
		return op1 | op2
	case AluXor:
		return op1 ^ op2
	case AluSll:
		return op1 << (op2 & 31)
	case AluSrl:
		return op1 >> (op2 & 31)
	case AluSra:
		return uint32(int32(op1) >> (op2 & 31))
	default:
		return 0
	}
}
