package insts_test

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rvsim/insts"
)

var _ = Describe("Assembly", func() {
	Describe("Disassemble", func() {
		It("should render the fixed textual form", func() {
			for _, tc := range []struct {
				inst insts.Instruction
				text string
			}{
				{insts.Instruction{Op: insts.OpNOP}, "c.nop"},
				{insts.Instruction{Op: insts.OpEBREAK}, "c.ebreak"},
				{insts.Instruction{Op: insts.OpADDI4SPN, Rd: 2, Imm: 8}, "c.addi4spn a0, 0x008"},
				{insts.Instruction{Op: insts.OpLW, Rd: 3, Rs1: 2, Imm: 4}, "c.lw a1, a0, 0x04"},
				{insts.Instruction{Op: insts.OpSW, Rs2: 3, Rs1: 2, Imm: 8}, "c.sw a1, a0, 0x08"},
				{insts.Instruction{Op: insts.OpADDI, Rd: 15, Imm: 0x3f}, "c.addi a5, 0x3f"},
				{insts.Instruction{Op: insts.OpADDI16SP, Imm: 0x20}, "c.addi16sp 0x020"},
				{insts.Instruction{Op: insts.OpJ, Imm: 0xa}, "c.j 0x00a"},
				{insts.Instruction{Op: insts.OpBEQZ, Rs1: 0, Imm: 0x10}, "c.beqz s0, 0x010"},
				{insts.Instruction{Op: insts.OpJR, Rs1: 1}, "c.jr ra"},
				{insts.Instruction{Op: insts.OpMV, Rd: 21, Rs2: 10}, "c.mv s5, a0"},
				{insts.Instruction{Op: insts.OpSWSP, Rs2: 31, Imm: 4}, "c.swsp t6, 0x04"},
			} {
				Expect(insts.Disassemble(&tc.inst)).To(Equal(tc.text))
			}
		})

		It("should be the Stringer form of an instruction", func() {
			inst := insts.Instruction{Op: insts.OpLI, Rd: 10, Imm: 5}
			Expect(inst.String()).To(Equal("c.li a0, 0x05"))
		})
	})

	Describe("Assemble", func() {
		It("should parse the fixed textual form back", func() {
			inst, err := insts.Assemble("c.lw a1, a0, 0x04")
			Expect(err).ToNot(HaveOccurred())
			Expect(*inst).To(Equal(insts.Instruction{
				Op: insts.OpLW, Rd: 3, Rs1: 2, Imm: 4,
			}))

			inst, err = insts.Assemble("c.ebreak")
			Expect(err).ToNot(HaveOccurred())
			Expect(inst.Op).To(Equal(insts.OpEBREAK))
		})

		It("should reject unknown mnemonics", func() {
			_, err := insts.Assemble("c.bogus a0, 0x04")
			Expect(err).To(HaveOccurred())
		})

		It("should reject wrong operand counts", func() {
			_, err := insts.Assemble("c.lw a1, 0x04")
			Expect(err).To(HaveOccurred())
		})

		It("should reject immediates outside the fixed-width 0x form", func() {
			_, err := insts.Assemble("c.lw a1, a0, 0x4") // too few digits
			Expect(err).To(HaveOccurred())
			_, err = insts.Assemble("c.lw a1, a0, 4") // missing prefix
			Expect(err).To(HaveOccurred())
		})

		It("should reject text that names an illegal instruction", func() {
			_, err := insts.Assemble("c.addi zero, 0x01")
			Expect(err).To(HaveOccurred())
			_, err = insts.Assemble("c.addi4spn a0, 0x000")
			Expect(err).To(HaveOccurred())
			_, err = insts.Assemble("c.jr zero")
			Expect(err).To(HaveOccurred())

			var parseErr *insts.ParseError
			Expect(err).To(BeAssignableToTypeOf(parseErr))
		})

		It("should reject registers outside the compact window", func() {
			_, err := insts.Assemble("c.lw t6, a0, 0x04")
			Expect(err).To(HaveOccurred())
		})
	})

	It("should round-trip every legal instruction through text", func() {
		decoder := insts.NewDecoder()
		for w := 0; w <= 0xFFFF; w++ {
			inst, err := decoder.Decode(uint16(w))
			if err != nil {
				continue
			}

			text := insts.Disassemble(inst)
			parsed, err := insts.Assemble(text)
			Expect(err).ToNot(HaveOccurred(),
				fmt.Sprintf("%q from word 0x%04x must parse", text, w))
			Expect(parsed).To(Equal(inst),
				fmt.Sprintf("%q from word 0x%04x must parse back to the same instruction", text, w))
		}
	})
})
