package insts

import (
	"fmt"
	"strconv"
	"strings"
)

// fullRegNames is the ABI name table for the full 5-bit register space.
var fullRegNames = [32]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

// compactRegNames is the name table for the 3-bit x8-x15 window.
var compactRegNames = [8]string{
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
}

var mnemonics = map[Op]string{
	OpADDI4SPN: "c.addi4spn",
	OpLW:       "c.lw",
	OpLD:       "c.ld",
	OpSW:       "c.sw",
	OpSD:       "c.sd",
	OpNOP:      "c.nop",
	OpADDI:     "c.addi",
	OpADDIW:    "c.addiw",
	OpLI:       "c.li",
	OpADDI16SP: "c.addi16sp",
	OpLUI:      "c.lui",
	OpSRLI:     "c.srli",
	OpSRAI:     "c.srai",
	OpANDI:     "c.andi",
	OpSUB:      "c.sub",
	OpXOR:      "c.xor",
	OpOR:       "c.or",
	OpAND:      "c.and",
	OpSUBW:     "c.subw",
	OpADDW:     "c.addw",
	OpJ:        "c.j",
	OpBEQZ:     "c.beqz",
	OpBNEZ:     "c.bnez",
	OpSLLI:     "c.slli",
	OpLWSP:     "c.lwsp",
	OpLDSP:     "c.ldsp",
	OpJR:       "c.jr",
	OpMV:       "c.mv",
	OpEBREAK:   "c.ebreak",
	OpJALR:     "c.jalr",
	OpADD:      "c.add",
	OpSWSP:     "c.swsp",
	OpSDSP:     "c.sdsp",
}

var opsByMnemonic = func() map[string]Op {
	m := make(map[string]Op, len(mnemonics))
	for op, name := range mnemonics {
		m[name] = op
	}
	return m
}()

func mnemonic(op Op) string {
	if name, ok := mnemonics[op]; ok {
		return name
	}
	return "c.unknown"
}

// operand identifies one slot of an instruction's fixed operand order.
type operand uint8

const (
	opndRdC operand = iota
	opndRs1C
	opndRs2C
	opndRdF
	opndRs1F
	opndRs2F
	opndImm
)

// operandOrders fixes the textual operand order per opcode. Disassembly
// renders exactly this order and assembly parsing accepts nothing else.
var operandOrders = map[Op][]operand{
	OpADDI4SPN: {opndRdC, opndImm},
	OpLW:       {opndRdC, opndRs1C, opndImm},
	OpLD:       {opndRdC, opndRs1C, opndImm},
	OpSW:       {opndRs2C, opndRs1C, opndImm},
	OpSD:       {opndRs2C, opndRs1C, opndImm},
	OpNOP:      {},
	OpADDI:     {opndRdF, opndImm},
	OpADDIW:    {opndRdF, opndImm},
	OpLI:       {opndRdF, opndImm},
	OpADDI16SP: {opndImm},
	OpLUI:      {opndRdF, opndImm},
	OpSRLI:     {opndRdC, opndImm},
	OpSRAI:     {opndRdC, opndImm},
	OpANDI:     {opndRdC, opndImm},
	OpSUB:      {opndRdC, opndRs2C},
	OpXOR:      {opndRdC, opndRs2C},
	OpOR:       {opndRdC, opndRs2C},
	OpAND:      {opndRdC, opndRs2C},
	OpSUBW:     {opndRdC, opndRs2C},
	OpADDW:     {opndRdC, opndRs2C},
	OpJ:        {opndImm},
	OpBEQZ:     {opndRs1C, opndImm},
	OpBNEZ:     {opndRs1C, opndImm},
	OpSLLI:     {opndRdF, opndImm},
	OpLWSP:     {opndRdF, opndImm},
	OpLDSP:     {opndRdF, opndImm},
	OpJR:       {opndRs1F},
	OpMV:       {opndRdF, opndRs2F},
	OpEBREAK:   {},
	OpJALR:     {opndRs1F},
	OpADD:      {opndRdF, opndRs2F},
	OpSWSP:     {opndRs2F, opndImm},
	OpSDSP:     {opndRs2F, opndImm},
}

// immDigits is the fixed hex digit count for an opcode's immediate.
func immDigits(op Op) int {
	return (ImmWidth(op) + 3) / 4
}

// Disassemble renders an instruction in its fixed assembly form: mnemonic,
// one space, then ", "-separated operands with the immediate as
// fixed-width hex.
func Disassemble(in *Instruction) string {
	order, ok := operandOrders[in.Op]
	if !ok {
		return "c.unknown"
	}

	parts := make([]string, 0, len(order))
	for _, o := range order {
		switch o {
		case opndRdC:
			parts = append(parts, compactRegNames[in.Rd&0x7])
		case opndRs1C:
			parts = append(parts, compactRegNames[in.Rs1&0x7])
		case opndRs2C:
			parts = append(parts, compactRegNames[in.Rs2&0x7])
		case opndRdF:
			parts = append(parts, fullRegNames[in.Rd&0x1F])
		case opndRs1F:
			parts = append(parts, fullRegNames[in.Rs1&0x1F])
		case opndRs2F:
			parts = append(parts, fullRegNames[in.Rs2&0x1F])
		case opndImm:
			parts = append(parts, fmt.Sprintf("0x%0*x", immDigits(in.Op), in.Imm))
		}
	}

	if len(parts) == 0 {
		return mnemonic(in.Op)
	}
	return mnemonic(in.Op) + " " + strings.Join(parts, ", ")
}

// Assemble parses the fixed assembly form back into an instruction. It
// accepts exactly the output domain of Disassemble over legal
// instructions, so an instruction decode would reject can never be
// produced here.
func Assemble(text string) (*Instruction, error) {
	name, rest, _ := strings.Cut(text, " ")
	op, ok := opsByMnemonic[name]
	if !ok {
		return nil, &ParseError{Text: text, Reason: "unknown mnemonic"}
	}

	order := operandOrders[op]
	var fields []string
	if rest != "" {
		fields = strings.Split(rest, ", ")
	}
	if len(fields) != len(order) {
		return nil, &ParseError{Text: text, Reason: "wrong operand count"}
	}

	in := &Instruction{Op: op}
	for idx, o := range order {
		tok := fields[idx]
		switch o {
		case opndRdC, opndRs1C, opndRs2C:
			r, ok := lookupReg(compactRegNames[:], tok)
			if !ok {
				return nil, &ParseError{Text: text, Reason: "bad compact register " + tok}
			}
			in.setReg(o, r)
		case opndRdF, opndRs1F, opndRs2F:
			r, ok := lookupReg(fullRegNames[:], tok)
			if !ok {
				return nil, &ParseError{Text: text, Reason: "bad register " + tok}
			}
			in.setReg(o, r)
		case opndImm:
			imm, err := parseImm(op, tok)
			if err != nil {
				return nil, &ParseError{Text: text, Reason: err.Error()}
			}
			in.Imm = imm
		}
	}

	if v := violation(in); v != "" {
		return nil, &ParseError{Text: text, Reason: v}
	}
	return in, nil
}

func (i *Instruction) setReg(o operand, r uint8) {
	switch o {
	case opndRdC, opndRdF:
		i.Rd = r
	case opndRs1C, opndRs1F:
		i.Rs1 = r
	case opndRs2C, opndRs2F:
		i.Rs2 = r
	}
}

func lookupReg(names []string, tok string) (uint8, bool) {
	for i, n := range names {
		if n == tok {
			return uint8(i), true
		}
	}
	return 0, false
}

// parseImm accepts only the fixed-width 0x form Disassemble emits.
func parseImm(op Op, tok string) (uint32, error) {
	digits, found := strings.CutPrefix(tok, "0x")
	if !found {
		return 0, fmt.Errorf("immediate %q lacks 0x prefix", tok)
	}
	if len(digits) != immDigits(op) {
		return 0, fmt.Errorf("immediate %q has wrong width", tok)
	}
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("immediate %q is not hex", tok)
	}
	return uint32(v), nil
}
