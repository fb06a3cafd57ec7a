// Package insts provides RV64C compact instruction definitions, decoding,
// encoding, and assembly rendering.
//
// This package implements the 16-bit compressed instruction set. Decoding
// produces a structured instruction representation, encoding reproduces the
// exact 16-bit word, and the two are mutual inverses over the legal
// encoding domain. It supports:
//   - Quadrant 0: C.ADDI4SPN, C.LW, C.LD, C.SW, C.SD
//   - Quadrant 1: C.NOP, C.ADDI, C.ADDIW, C.LI, C.ADDI16SP, C.LUI,
//     C.SRLI, C.SRAI, C.ANDI, C.SUB, C.XOR, C.OR, C.AND, C.SUBW, C.ADDW,
//     C.J, C.BEQZ, C.BNEZ
//   - Quadrant 2: C.SLLI, C.LWSP, C.LDSP, C.JR, C.MV, C.EBREAK, C.JALR,
//     C.ADD, C.SWSP, C.SDSP
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst, err := decoder.Decode(0x0028) // c.addi4spn a0, 0x008
//	word, err := insts.Encode(inst)     // 0x0028 again
package insts
