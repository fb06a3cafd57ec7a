package insts

// Compact encodings scatter each immediate across non-contiguous word bits
// in a permutation fixed per opcode. A bitMove records one bit of that
// permutation: word bit `word` holds immediate bit `imm`.
type bitMove struct {
	word, imm uint8
}

// immPerm is the full permutation for one opcode. gather and scatter are
// exact inverses, which is what makes decode and encode round-trip.
type immPerm []bitMove

func (p immPerm) gather(word uint16) uint32 {
	var imm uint32
	for _, m := range p {
		imm |= uint32((word>>m.word)&1) << m.imm
	}
	return imm
}

func (p immPerm) scatter(imm uint32) uint16 {
	var word uint16
	for _, m := range p {
		word |= uint16((imm>>m.imm)&1) << m.word
	}
	return word
}

// Immediate bit layouts per opcode, from the RVC encoding tables.
var (
	// C.ADDI4SPN: word[12:5] = nzuimm[5|4|9:6|2|3]
	permADDI4SPN = immPerm{{12, 5}, {11, 4}, {10, 9}, {9, 8}, {8, 7}, {7, 6}, {6, 2}, {5, 3}}

	// C.LW/C.SW: word[12:10|6|5] = uimm[5:3|2|6]
	permMemW = immPerm{{12, 5}, {11, 4}, {10, 3}, {6, 2}, {5, 6}}

	// C.LD/C.SD: word[12:10|6:5] = uimm[5:3|7:6]
	permMemD = immPerm{{12, 5}, {11, 4}, {10, 3}, {6, 7}, {5, 6}}

	// CI-format (C.ADDI, C.ADDIW, C.LI, C.LUI, shifts): word[12|6:2] = imm[5|4:0]
	permCI = immPerm{{12, 5}, {6, 4}, {5, 3}, {4, 2}, {3, 1}, {2, 0}}

	// C.ADDI16SP: word[12|6:2] = nzimm[9|4|6|8:7|5]
	permADDI16SP = immPerm{{12, 9}, {6, 4}, {5, 6}, {4, 8}, {3, 7}, {2, 5}}

	// C.J: word[12:2] = imm[11|4|9:8|10|6|7|3:1|5]
	permJ = immPerm{{12, 11}, {11, 4}, {10, 9}, {9, 8}, {8, 10}, {7, 6}, {6, 7}, {5, 3}, {4, 2}, {3, 1}, {2, 5}}

	// C.BEQZ/C.BNEZ: word[12:10|6:2] = imm[8|4:3|7:6|2:1|5]
	permBranch = immPerm{{12, 8}, {11, 4}, {10, 3}, {6, 7}, {5, 6}, {4, 2}, {3, 1}, {2, 5}}

	// C.LWSP: word[12|6:2] = uimm[5|4:2|7:6]
	permLWSP = immPerm{{12, 5}, {6, 4}, {5, 3}, {4, 2}, {3, 7}, {2, 6}}

	// C.LDSP: word[12|6:2] = uimm[5|4:3|8:6]
	permLDSP = immPerm{{12, 5}, {6, 4}, {5, 3}, {4, 8}, {3, 7}, {2, 6}}

	// C.SWSP: word[12:7] = uimm[5:2|7:6]
	permSWSP = immPerm{{12, 5}, {11, 4}, {10, 3}, {9, 2}, {8, 7}, {7, 6}}

	// C.SDSP: word[12:7] = uimm[5:3|8:6]
	permSDSP = immPerm{{12, 5}, {11, 4}, {10, 3}, {9, 8}, {8, 7}, {7, 6}}
)

// immPerms maps each immediate-carrying opcode to its bit layout. Opcodes
// absent from this table carry no immediate, so their Imm must be zero.
// C.NOP is deliberately absent: its immediate field exists in the encoding
// but only the all-zero pattern is the no-op.
var immPerms = map[Op]immPerm{
	OpADDI4SPN: permADDI4SPN,
	OpLW:       permMemW,
	OpSW:       permMemW,
	OpLD:       permMemD,
	OpSD:       permMemD,
	OpADDI:     permCI,
	OpADDIW:    permCI,
	OpLI:       permCI,
	OpLUI:      permCI,
	OpSRLI:     permCI,
	OpSRAI:     permCI,
	OpANDI:     permCI,
	OpSLLI:     permCI,
	OpADDI16SP: permADDI16SP,
	OpJ:        permJ,
	OpBEQZ:     permBranch,
	OpBNEZ:     permBranch,
	OpLWSP:     permLWSP,
	OpLDSP:     permLDSP,
	OpSWSP:     permSWSP,
	OpSDSP:     permSDSP,
}

// Field extraction helpers.
func quadrant(word uint16) uint16 { return word & 0x3 }
func funct3(word uint16) uint16   { return (word >> 13) & 0x7 }

// 3-bit compact register fields (x8-x15 window).
func rdC(word uint16) uint8  { return uint8((word >> 2) & 0x7) }
func rs1C(word uint16) uint8 { return uint8((word >> 7) & 0x7) }
func rs2C(word uint16) uint8 { return uint8((word >> 2) & 0x7) }

// 5-bit full register fields.
func rdF(word uint16) uint8  { return uint8((word >> 7) & 0x1F) }
func rs2F(word uint16) uint8 { return uint8((word >> 2) & 0x1F) }

// Decoder decodes 16-bit compact instruction words.
type Decoder struct{}

// NewDecoder creates a new compact instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes a 16-bit compact instruction word. It returns a
// *DecodeError for reserved or otherwise illegal encodings; the caller is
// expected to raise an illegal-instruction trap in that case.
func (d *Decoder) Decode(word uint16) (*Instruction, error) {
	var inst *Instruction

	switch quadrant(word) {
	case 0b00:
		inst = d.decodeQuadrant0(word)
	case 0b01:
		inst = d.decodeQuadrant1(word)
	case 0b10:
		inst = d.decodeQuadrant2(word)
	default:
		// Low bits 11 select the 32-bit base encoding, not a compact word.
		return nil, &DecodeError{Word: word}
	}

	if inst == nil || violation(inst) != "" {
		return nil, &DecodeError{Word: word}
	}
	return inst, nil
}

// decodeQuadrant0 handles stack-frame setup and register-relative memory
// ops. funct3 001/101 are the unsupported double-float forms and 100 is
// reserved; both decode to nil (illegal).
func (d *Decoder) decodeQuadrant0(word uint16) *Instruction {
	switch funct3(word) {
	case 0b000:
		return &Instruction{Op: OpADDI4SPN, Rd: rdC(word), Imm: permADDI4SPN.gather(word)}
	case 0b010:
		return &Instruction{Op: OpLW, Rd: rdC(word), Rs1: rs1C(word), Imm: permMemW.gather(word)}
	case 0b011:
		return &Instruction{Op: OpLD, Rd: rdC(word), Rs1: rs1C(word), Imm: permMemD.gather(word)}
	case 0b110:
		return &Instruction{Op: OpSW, Rs1: rs1C(word), Rs2: rs2C(word), Imm: permMemW.gather(word)}
	case 0b111:
		return &Instruction{Op: OpSD, Rs1: rs1C(word), Rs2: rs2C(word), Imm: permMemD.gather(word)}
	}
	return nil
}

// decodeQuadrant1 handles immediate arithmetic, register-register ALU ops,
// and control transfer.
func (d *Decoder) decodeQuadrant1(word uint16) *Instruction {
	switch funct3(word) {
	case 0b000:
		if rdF(word) == 0 {
			// Only the all-zero immediate is C.NOP; the rest of the
			// rd=0 space is reserved here.
			if permCI.gather(word) != 0 {
				return nil
			}
			return &Instruction{Op: OpNOP}
		}
		return &Instruction{Op: OpADDI, Rd: rdF(word), Imm: permCI.gather(word)}
	case 0b001:
		return &Instruction{Op: OpADDIW, Rd: rdF(word), Imm: permCI.gather(word)}
	case 0b010:
		return &Instruction{Op: OpLI, Rd: rdF(word), Imm: permCI.gather(word)}
	case 0b011:
		if rdF(word) == 2 {
			return &Instruction{Op: OpADDI16SP, Imm: permADDI16SP.gather(word)}
		}
		return &Instruction{Op: OpLUI, Rd: rdF(word), Imm: permCI.gather(word)}
	case 0b100:
		return d.decodeQuadrant1ALU(word)
	case 0b101:
		return &Instruction{Op: OpJ, Imm: permJ.gather(word)}
	case 0b110:
		return &Instruction{Op: OpBEQZ, Rs1: rs1C(word), Imm: permBranch.gather(word)}
	case 0b111:
		return &Instruction{Op: OpBNEZ, Rs1: rs1C(word), Imm: permBranch.gather(word)}
	}
	return nil
}

// decodeQuadrant1ALU handles the funct3=100 sub-space: shifts, C.ANDI, and
// the register-register ALU group, discriminated by word[11:10], word[12],
// and word[6:5].
func (d *Decoder) decodeQuadrant1ALU(word uint16) *Instruction {
	rd := rs1C(word) // rd' and rs1' share the 9:7 field in this group

	switch (word >> 10) & 0x3 {
	case 0b00:
		return &Instruction{Op: OpSRLI, Rd: rd, Imm: permCI.gather(word)}
	case 0b01:
		return &Instruction{Op: OpSRAI, Rd: rd, Imm: permCI.gather(word)}
	case 0b10:
		return &Instruction{Op: OpANDI, Rd: rd, Imm: permCI.gather(word)}
	}

	rs2 := rs2C(word)
	if (word>>12)&1 == 0 {
		switch (word >> 5) & 0x3 {
		case 0b00:
			return &Instruction{Op: OpSUB, Rd: rd, Rs2: rs2}
		case 0b01:
			return &Instruction{Op: OpXOR, Rd: rd, Rs2: rs2}
		case 0b10:
			return &Instruction{Op: OpOR, Rd: rd, Rs2: rs2}
		case 0b11:
			return &Instruction{Op: OpAND, Rd: rd, Rs2: rs2}
		}
	}
	switch (word >> 5) & 0x3 {
	case 0b00:
		return &Instruction{Op: OpSUBW, Rd: rd, Rs2: rs2}
	case 0b01:
		return &Instruction{Op: OpADDW, Rd: rd, Rs2: rs2}
	}
	return nil // word[6:5] = 10/11 with word[12] = 1 is reserved
}

// decodeQuadrant2 handles stack-pointer-relative memory ops and register
// jumps. funct3 001/101 are the unsupported double-float forms.
func (d *Decoder) decodeQuadrant2(word uint16) *Instruction {
	switch funct3(word) {
	case 0b000:
		return &Instruction{Op: OpSLLI, Rd: rdF(word), Imm: permCI.gather(word)}
	case 0b010:
		return &Instruction{Op: OpLWSP, Rd: rdF(word), Imm: permLWSP.gather(word)}
	case 0b011:
		return &Instruction{Op: OpLDSP, Rd: rdF(word), Imm: permLDSP.gather(word)}
	case 0b100:
		return d.decodeQuadrant2Jump(word)
	case 0b110:
		return &Instruction{Op: OpSWSP, Rs2: rs2F(word), Imm: permSWSP.gather(word)}
	case 0b111:
		return &Instruction{Op: OpSDSP, Rs2: rs2F(word), Imm: permSDSP.gather(word)}
	}
	return nil
}

// decodeQuadrant2Jump handles the funct3=100 sub-space: C.JR, C.MV,
// C.EBREAK, C.JALR, C.ADD, discriminated by word[12] and the zero-ness of
// the two register fields.
func (d *Decoder) decodeQuadrant2Jump(word uint16) *Instruction {
	r1 := rdF(word)
	r2 := rs2F(word)

	if (word>>12)&1 == 0 {
		if r2 == 0 {
			return &Instruction{Op: OpJR, Rs1: r1}
		}
		return &Instruction{Op: OpMV, Rd: r1, Rs2: r2}
	}
	if r2 == 0 {
		if r1 == 0 {
			return &Instruction{Op: OpEBREAK}
		}
		return &Instruction{Op: OpJALR, Rs1: r1}
	}
	return &Instruction{Op: OpADD, Rd: r1, Rs2: r2}
}
