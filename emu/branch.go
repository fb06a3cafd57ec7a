package emu

// BranchFn selects a conditional branch comparison.
type BranchFn uint8

// RV64 branch comparison kinds. The compact set only reaches EQ and NE
// (C.BEQZ/C.BNEZ); the remaining kinds complete the base-ISA entry point.
const (
	BranchEQ BranchFn = iota
	BranchNE
	BranchLT
	BranchGE
	BranchLTU
	BranchGEU
)

// BranchUnit implements RV64 control transfer. It owns the PC redirection
// bookkeeping for a single instruction step: redirected reports whether
// the current instruction already wrote PC, in which case the fetch stage
// must not advance it again.
type BranchUnit struct {
	regFile    *RegFile
	instSize   uint64
	redirected bool
}

// NewBranchUnit creates a new BranchUnit connected to the given register
// file. instSize is the fetch width in bytes used for link addresses and
// sequential PC advance (2 for the compact fetch path).
func NewBranchUnit(regFile *RegFile, instSize uint64) *BranchUnit {
	return &BranchUnit{regFile: regFile, instSize: instSize}
}

// BeginStep resets the redirection flag. Called once per fetched
// instruction before execution.
func (b *BranchUnit) BeginStep() {
	b.redirected = false
}

// Redirected reports whether the current instruction wrote PC.
func (b *BranchUnit) Redirected() bool {
	return b.redirected
}

// Branch performs a conditional PC-relative branch. PC still holds the
// address of the executing instruction when this runs.
func (b *BranchUnit) Branch(fn BranchFn, rs1, rs2 uint8, offset int64) {
	if !b.taken(fn, rs1, rs2) {
		return
	}
	b.regFile.PC = uint64(int64(b.regFile.PC) + offset)
	b.redirected = true
}

func (b *BranchUnit) taken(fn BranchFn, rs1, rs2 uint8) bool {
	v1 := b.regFile.Read(rs1)
	v2 := b.regFile.Read(rs2)
	switch fn {
	case BranchEQ:
		return v1 == v2
	case BranchNE:
		return v1 != v2
	case BranchLT:
		return int64(v1) < int64(v2)
	case BranchGE:
		return int64(v1) >= int64(v2)
	case BranchLTU:
		return v1 < v2
	case BranchGEU:
		return v1 >= v2
	default:
		return false
	}
}

// JAL performs a PC-relative jump, writing the sequential return address
// to rd (x0 discards it, giving the plain-jump form).
func (b *BranchUnit) JAL(rd uint8, offset int64) {
	b.regFile.Write(rd, b.regFile.PC+b.instSize)
	b.regFile.PC = uint64(int64(b.regFile.PC) + offset)
	b.redirected = true
}

// JALR performs an indirect jump through rs1, writing the sequential
// return address to rd. The target's lowest bit is cleared as the
// architecture requires.
func (b *BranchUnit) JALR(rd, rs1 uint8, offset int64) {
	target := uint64(int64(b.regFile.Read(rs1))+offset) &^ 1
	b.regFile.Write(rd, b.regFile.PC+b.instSize)
	b.regFile.PC = target
	b.redirected = true
}
