package insts

// Op represents an RV64C compact opcode.
type Op uint8

// RV64C opcodes.
const (
	OpUnknown Op = iota

	// Quadrant 0
	OpADDI4SPN
	OpLW
	OpLD
	OpSW
	OpSD

	// Quadrant 1
	OpNOP
	OpADDI
	OpADDIW
	OpLI
	OpADDI16SP
	OpLUI
	OpSRLI
	OpSRAI
	OpANDI
	OpSUB
	OpXOR
	OpOR
	OpAND
	OpSUBW
	OpADDW
	OpJ
	OpBEQZ
	OpBNEZ

	// Quadrant 2
	OpSLLI
	OpLWSP
	OpLDSP
	OpJR
	OpMV
	OpEBREAK
	OpJALR
	OpADD
	OpSWSP
	OpSDSP
)

// Instruction represents a decoded compact instruction.
//
// Register fields keep their encoded width: ops that address the x8-x15
// window store a 3-bit compact id (0-7); ops that address the full register
// file store a 5-bit id (0-31). The window offset is applied at execution
// time, not here.
//
// Imm holds the architectural immediate at its encoded field width (6-12
// bits depending on the opcode, see ImmWidth). Low-order bits dropped by
// the encoding for alignment are reinstated as zeros; no sign or zero
// extension beyond the field width is applied.
type Instruction struct {
	Op Op // Operation code

	Rd  uint8 // Destination register (also first source where rd = rs1)
	Rs1 uint8 // Base/source register
	Rs2 uint8 // Second source register

	Imm uint32 // Immediate value at field width
}

// String renders the instruction in its fixed assembly form.
func (i *Instruction) String() string {
	return Disassemble(i)
}

// CompactRegOffset is the distance between a 3-bit compact register id and
// the architectural register it denotes (x8-x15).
const CompactRegOffset = 8

// immWidths maps each opcode to its immediate field width in bits,
// counting the alignment zeros the encoding drops.
var immWidths = map[Op]int{
	OpADDI4SPN: 10,
	OpLW:       7,
	OpLD:       8,
	OpSW:       7,
	OpSD:       8,
	OpNOP:      6,
	OpADDI:     6,
	OpADDIW:    6,
	OpLI:       6,
	OpADDI16SP: 10,
	OpLUI:      6,
	OpSRLI:     6,
	OpSRAI:     6,
	OpANDI:     6,
	OpJ:        12,
	OpBEQZ:     9,
	OpBNEZ:     9,
	OpSLLI:     6,
	OpLWSP:     8,
	OpLDSP:     9,
	OpSWSP:     8,
	OpSDSP:     9,
}

// ImmWidth returns the immediate field width of op in bits, or 0 for
// opcodes that carry no immediate.
func ImmWidth(op Op) int {
	return immWidths[op]
}

// compactRegOps lists, per opcode, which register fields are 3-bit compact
// ids. Ops not present use full 5-bit ids (or no registers at all).
var compactRegOps = map[Op]bool{
	OpADDI4SPN: true,
	OpLW:       true,
	OpLD:       true,
	OpSW:       true,
	OpSD:       true,
	OpSRLI:     true,
	OpSRAI:     true,
	OpANDI:     true,
	OpSUB:      true,
	OpXOR:      true,
	OpOR:       true,
	OpAND:      true,
	OpSUBW:     true,
	OpADDW:     true,
	OpBEQZ:     true,
	OpBNEZ:     true,
}

// UsesCompactRegs reports whether op addresses registers through the 3-bit
// x8-x15 window.
func UsesCompactRegs(op Op) bool {
	return compactRegOps[op]
}
