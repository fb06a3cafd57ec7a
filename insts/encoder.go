package insts

// regKind classifies how an instruction field addresses the register file.
type regKind uint8

const (
	regNone    regKind = iota // field unused, must be zero
	regCompact                // 3-bit id into the x8-x15 window
	regFull                   // 5-bit id into the full register file
)

type opShape struct {
	rd, rs1, rs2 regKind
}

// opShapes records which register fields each opcode carries and at what
// width. Decode, encode, and assembly parsing all validate against it.
var opShapes = map[Op]opShape{
	OpADDI4SPN: {rd: regCompact},
	OpLW:       {rd: regCompact, rs1: regCompact},
	OpLD:       {rd: regCompact, rs1: regCompact},
	OpSW:       {rs1: regCompact, rs2: regCompact},
	OpSD:       {rs1: regCompact, rs2: regCompact},
	OpNOP:      {},
	OpADDI:     {rd: regFull},
	OpADDIW:    {rd: regFull},
	OpLI:       {rd: regFull},
	OpADDI16SP: {},
	OpLUI:      {rd: regFull},
	OpSRLI:     {rd: regCompact},
	OpSRAI:     {rd: regCompact},
	OpANDI:     {rd: regCompact},
	OpSUB:      {rd: regCompact, rs2: regCompact},
	OpXOR:      {rd: regCompact, rs2: regCompact},
	OpOR:       {rd: regCompact, rs2: regCompact},
	OpAND:      {rd: regCompact, rs2: regCompact},
	OpSUBW:     {rd: regCompact, rs2: regCompact},
	OpADDW:     {rd: regCompact, rs2: regCompact},
	OpJ:        {},
	OpBEQZ:     {rs1: regCompact},
	OpBNEZ:     {rs1: regCompact},
	OpSLLI:     {rd: regFull},
	OpLWSP:     {rd: regFull},
	OpLDSP:     {rd: regFull},
	OpJR:       {rs1: regFull},
	OpMV:       {rd: regFull, rs2: regFull},
	OpEBREAK:   {},
	OpJALR:     {rs1: regFull},
	OpADD:      {rd: regFull, rs2: regFull},
	OpSWSP:     {rs2: regFull},
	OpSDSP:     {rs2: regFull},
}

func regFieldOK(kind regKind, v uint8) bool {
	switch kind {
	case regNone:
		return v == 0
	case regCompact:
		return v < 8
	default:
		return v < 32
	}
}

// violation is the shared legality predicate behind decode, encode, and
// assembly parsing. It returns "" when the instruction is legal, otherwise
// a short reason. An instruction passes exactly when some 16-bit word
// decodes to it, which is what keeps decode and encode mutual inverses.
func violation(in *Instruction) string {
	shape, ok := opShapes[in.Op]
	if !ok {
		return "unknown opcode"
	}
	if !regFieldOK(shape.rd, in.Rd) ||
		!regFieldOK(shape.rs1, in.Rs1) ||
		!regFieldOK(shape.rs2, in.Rs2) {
		return "register field out of range"
	}

	// The immediate must survive scatter/gather through the opcode's bit
	// layout: in range, and with the alignment zeros the encoding implies.
	if p, hasImm := immPerms[in.Op]; hasImm {
		if p.gather(p.scatter(in.Imm)) != in.Imm {
			return "immediate not representable"
		}
	} else if in.Imm != 0 {
		return "immediate on immediate-less opcode"
	}

	switch in.Op {
	case OpADDI4SPN, OpADDI16SP:
		if in.Imm == 0 {
			return "zero immediate is reserved"
		}
	case OpADDI:
		// rd=0 is C.NOP; imm=0 with rd!=0 is HINT space, rejected to keep
		// the accepted domain closed under round-trip.
		if in.Rd == 0 || in.Imm == 0 {
			return "reserved C.ADDI form"
		}
	case OpADDIW, OpLI, OpLWSP, OpLDSP:
		if in.Rd == 0 {
			return "rd must not be x0"
		}
	case OpLUI:
		if in.Rd == 0 || in.Rd == 2 || in.Imm == 0 {
			return "reserved C.LUI form"
		}
	case OpSRLI, OpSRAI:
		if in.Imm == 0 {
			return "zero shift amount is reserved"
		}
	case OpSLLI:
		if in.Rd == 0 || in.Imm == 0 {
			return "reserved C.SLLI form"
		}
	case OpJR, OpJALR:
		if in.Rs1 == 0 {
			return "rs1 must not be x0"
		}
	case OpMV, OpADD:
		if in.Rd == 0 || in.Rs2 == 0 {
			return "reserved register-pair form"
		}
	}
	return ""
}

// Base word patterns per opcode: quadrant, funct3, and any fixed
// discriminant bits. Register fields and immediates are OR-ed in.
var baseWords = map[Op]uint16{
	OpADDI4SPN: 0x0000,
	OpLW:       0x4000,
	OpLD:       0x6000,
	OpSW:       0xC000,
	OpSD:       0xE000,
	OpNOP:      0x0001,
	OpADDI:     0x0001,
	OpADDIW:    0x2001,
	OpLI:       0x4001,
	OpADDI16SP: 0x6101, // rd field fixed to x2
	OpLUI:      0x6001,
	OpSRLI:     0x8001,
	OpSRAI:     0x8401,
	OpANDI:     0x8801,
	OpSUB:      0x8C01,
	OpXOR:      0x8C21,
	OpOR:       0x8C41,
	OpAND:      0x8C61,
	OpSUBW:     0x9C01,
	OpADDW:     0x9C21,
	OpJ:        0xA001,
	OpBEQZ:     0xC001,
	OpBNEZ:     0xE001,
	OpSLLI:     0x0002,
	OpLWSP:     0x4002,
	OpLDSP:     0x6002,
	OpJR:       0x8002,
	OpMV:       0x8002,
	OpEBREAK:   0x9002,
	OpJALR:     0x9002,
	OpADD:      0x9002,
	OpSWSP:     0xC002,
	OpSDSP:     0xE002,
}

// Register field placement within the word.
func placeRdC(v uint8) uint16  { return uint16(v&0x7) << 2 }
func placeRs1C(v uint8) uint16 { return uint16(v&0x7) << 7 }
func placeRs2C(v uint8) uint16 { return uint16(v&0x7) << 2 }
func placeRdF(v uint8) uint16  { return uint16(v&0x1F) << 7 }
func placeRs2F(v uint8) uint16 { return uint16(v&0x1F) << 2 }

// Encode reconstructs the 16-bit word for a compact instruction. It is the
// inverse of Decoder.Decode over the legal domain and is total for every
// instruction that passes the shared legality predicate; a non-nil error
// signals an ill-formed instruction value, not an encodable corner case.
func Encode(in *Instruction) (uint16, error) {
	if v := violation(in); v != "" {
		return 0, &EncodeError{Op: in.Op, Reason: v}
	}

	word := baseWords[in.Op]
	if p, hasImm := immPerms[in.Op]; hasImm {
		word |= p.scatter(in.Imm)
	}

	switch in.Op {
	case OpADDI4SPN:
		word |= placeRdC(in.Rd)
	case OpLW, OpLD:
		word |= placeRdC(in.Rd) | placeRs1C(in.Rs1)
	case OpSW, OpSD:
		word |= placeRs2C(in.Rs2) | placeRs1C(in.Rs1)
	case OpADDI, OpADDIW, OpLI, OpLUI, OpSLLI, OpLWSP, OpLDSP:
		word |= placeRdF(in.Rd)
	case OpSRLI, OpSRAI, OpANDI:
		word |= placeRs1C(in.Rd) // rd' lives in the rs1' field here
	case OpSUB, OpXOR, OpOR, OpAND, OpSUBW, OpADDW:
		word |= placeRs1C(in.Rd) | placeRs2C(in.Rs2)
	case OpBEQZ, OpBNEZ:
		word |= placeRs1C(in.Rs1)
	case OpJR, OpJALR:
		word |= placeRdF(in.Rs1)
	case OpMV, OpADD:
		word |= placeRdF(in.Rd) | placeRs2F(in.Rs2)
	case OpSWSP, OpSDSP:
		word |= placeRs2F(in.Rs2)
	}
	return word, nil
}
