package insts_test

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rvsim/insts"
)

var _ = Describe("Encoder", func() {
	var decoder *insts.Decoder

	BeforeEach(func() {
		decoder = insts.NewDecoder()
	})

	It("should encode known instructions to their exact words", func() {
		for _, tc := range []struct {
			inst insts.Instruction
			word uint16
		}{
			{insts.Instruction{Op: insts.OpNOP}, 0x0001},
			{insts.Instruction{Op: insts.OpEBREAK}, 0x9002},
			{insts.Instruction{Op: insts.OpADDI4SPN, Rd: 2, Imm: 8}, 0x0028},
			{insts.Instruction{Op: insts.OpADDI, Rd: 0x1f, Imm: 1}, 0x0f85},
			{insts.Instruction{Op: insts.OpLI, Rd: 0x1f, Imm: 1 << 5}, 0x5f81},
			{insts.Instruction{Op: insts.OpADDI16SP, Imm: 1 << 5}, 0x6105},
			{insts.Instruction{Op: insts.OpSUB, Rd: 3, Rs2: 6}, 0x8D99},
			{insts.Instruction{Op: insts.OpJ, Imm: 1 << 11}, 0xB001},
			{insts.Instruction{Op: insts.OpJR, Rs1: 0x1f}, 0x8F82},
			{insts.Instruction{Op: insts.OpMV, Rd: 0x15, Rs2: 0xa}, 0x8AAA},
			{insts.Instruction{Op: insts.OpSWSP, Rs2: 0x1f, Imm: 4}, 0xC27E},
		} {
			word, err := insts.Encode(&tc.inst)
			Expect(err).ToNot(HaveOccurred())
			Expect(word).To(Equal(tc.word),
				fmt.Sprintf("op %v encoded to 0x%04x, want 0x%04x", tc.inst.Op, word, tc.word))
		}
	})

	It("should reject ill-formed instruction values", func() {
		for _, inst := range []insts.Instruction{
			{Op: insts.OpADDI4SPN, Rd: 2},                // zero immediate reserved
			{Op: insts.OpADDI4SPN, Rd: 2, Imm: 1},        // bit 0 not representable
			{Op: insts.OpADDI4SPN, Rd: 8, Imm: 8},        // compact id out of range
			{Op: insts.OpADDI, Rd: 0, Imm: 1},            // rd=0 is the C.NOP space
			{Op: insts.OpADDI, Rd: 5},                    // imm=0 is HINT space
			{Op: insts.OpADDIW, Rd: 0, Imm: 1},           // rd must not be x0
			{Op: insts.OpLUI, Rd: 2, Imm: 1},             // rd=2 selects C.ADDI16SP
			{Op: insts.OpLUI, Rd: 5},                     // zero immediate reserved
			{Op: insts.OpSRLI, Rd: 3},                    // zero shift reserved
			{Op: insts.OpSLLI, Rd: 0, Imm: 1},            // rd must not be x0
			{Op: insts.OpLWSP, Rd: 0, Imm: 4},            // rd must not be x0
			{Op: insts.OpLW, Rd: 3, Rs1: 2, Imm: 2},      // misaligned offset
			{Op: insts.OpJR},                             // rs1 must not be x0
			{Op: insts.OpMV, Rd: 5},                      // rs2 must not be x0
			{Op: insts.OpEBREAK, Imm: 1},                 // no immediate field
			{Op: insts.OpADDI, Rd: 5, Imm: 1 << 6},       // beyond field width
			{Op: insts.OpJ, Imm: 1},                      // bit 0 not representable
			{Op: insts.OpUnknown},                        // unknown opcode
		} {
			_, err := insts.Encode(&inst)
			Expect(err).To(HaveOccurred(),
				fmt.Sprintf("op %v with imm 0x%x should be rejected", inst.Op, inst.Imm))

			var encodeErr *insts.EncodeError
			Expect(err).To(BeAssignableToTypeOf(encodeErr))
		}
	})

	It("should invert decode over the entire 16-bit word space", func() {
		decodable := 0
		for w := 0; w <= 0xFFFF; w++ {
			word := uint16(w)
			inst, err := decoder.Decode(word)
			if err != nil {
				continue
			}
			decodable++

			encoded, err := insts.Encode(inst)
			Expect(err).ToNot(HaveOccurred(),
				fmt.Sprintf("decoded word 0x%04x must re-encode", word))
			Expect(encoded).To(Equal(word),
				fmt.Sprintf("word 0x%04x decoded to %v but re-encoded to 0x%04x", word, inst, encoded))
		}

		// Most of the word space is legal; this guards against a decoder
		// that silently rejects everything.
		Expect(decodable).To(BeNumerically(">", 30000))
	})

	It("should invert encode over the legal instruction domain", func() {
		// Every instruction that encodes must decode back to the same value.
		for w := 0; w <= 0xFFFF; w++ {
			inst, err := decoder.Decode(uint16(w))
			if err != nil {
				continue
			}
			word, err := insts.Encode(inst)
			Expect(err).ToNot(HaveOccurred())

			again, err := decoder.Decode(word)
			Expect(err).ToNot(HaveOccurred())
			Expect(again).To(Equal(inst))
		}
	})
})
