package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rvsim/emu"
	"github.com/sarchlab/rvsim/insts"
)

var _ = Describe("CompactExec", func() {
	var (
		regFile *emu.RegFile
		memory  *emu.Memory
		engine  *emu.Engine
		exec    *emu.CompactExec
	)

	BeforeEach(func() {
		regFile = &emu.RegFile{}
		memory = emu.NewMemory()
		engine = emu.NewEngine(regFile, memory, nil, 2)
		exec = emu.NewCompactExec(engine)
	})

	run := func(in *insts.Instruction) {
		engine.BeginStep()
		Expect(exec.Execute(in)).To(Succeed())
	}

	Describe("Register window remap", func() {
		It("should land compact ids on x8-x15", func() {
			regFile.X[2] = 0x100 // sp
			run(&insts.Instruction{Op: insts.OpADDI4SPN, Rd: 0, Imm: 8})
			Expect(regFile.X[8]).To(Equal(uint64(0x108)))

			run(&insts.Instruction{Op: insts.OpADDI4SPN, Rd: 7, Imm: 8})
			Expect(regFile.X[15]).To(Equal(uint64(0x108)))
		})

		It("should not remap full-register ops", func() {
			run(&insts.Instruction{Op: insts.OpLI, Rd: 7, Imm: 3})
			Expect(regFile.X[7]).To(Equal(uint64(3)))
			Expect(regFile.X[15]).To(BeZero())
		})
	})

	Describe("Arithmetic", func() {
		It("should execute C.ADDI with a sign-extended immediate", func() {
			regFile.X[7] = 5
			run(&insts.Instruction{Op: insts.OpADDI, Rd: 7, Imm: 3})
			Expect(regFile.X[7]).To(Equal(uint64(8)))

			// imm field 0x3F is -1 after sign extension.
			run(&insts.Instruction{Op: insts.OpADDI, Rd: 7, Imm: 0x3F})
			Expect(regFile.X[7]).To(Equal(uint64(7)))
		})

		It("should narrow and sign-extend C.ADDIW results", func() {
			regFile.X[7] = 0x7FFFFFFF
			run(&insts.Instruction{Op: insts.OpADDIW, Rd: 7, Imm: 1})
			Expect(regFile.X[7]).To(Equal(uint64(0xFFFFFFFF80000000)))
		})

		It("should execute C.LI as load-immediate", func() {
			regFile.X[7] = 99
			run(&insts.Instruction{Op: insts.OpLI, Rd: 7, Imm: 3})
			Expect(regFile.X[7]).To(Equal(uint64(3)))

			run(&insts.Instruction{Op: insts.OpLI, Rd: 7, Imm: 0x20})
			Expect(regFile.X[7]).To(Equal(uint64(0xFFFFFFFFFFFFFFE0)))
		})

		It("should adjust the stack pointer with C.ADDI16SP", func() {
			regFile.X[2] = 100
			run(&insts.Instruction{Op: insts.OpADDI16SP, Imm: 0x20})
			Expect(regFile.X[2]).To(Equal(uint64(132)))

			// imm field 1<<9 is -512 after sign extension.
			run(&insts.Instruction{Op: insts.OpADDI16SP, Imm: 1 << 9})
			Expect(int64(regFile.X[2])).To(Equal(int64(132 - 512)))
		})

		It("should shift the C.LUI immediate into bits 17:12", func() {
			run(&insts.Instruction{Op: insts.OpLUI, Rd: 3, Imm: 0x1F})
			Expect(regFile.X[3]).To(Equal(uint64(0x1F000)))

			// imm field 0x20 is -32, so the result is sign-extended.
			run(&insts.Instruction{Op: insts.OpLUI, Rd: 3, Imm: 0x20})
			Expect(regFile.X[3]).To(Equal(uint64(0xFFFFFFFFFFFE0000)))
		})

		It("should execute the shifts with zero-extended amounts", func() {
			regFile.X[9] = 7
			run(&insts.Instruction{Op: insts.OpSRLI, Rd: 1, Imm: 2})
			Expect(regFile.X[9]).To(Equal(uint64(1)))

			regFile.X[9] = 0xFFFFFFFFFFFFFFF8 // -8
			run(&insts.Instruction{Op: insts.OpSRAI, Rd: 1, Imm: 2})
			Expect(regFile.X[9]).To(Equal(uint64(0xFFFFFFFFFFFFFFFE)))

			regFile.X[1] = 1
			run(&insts.Instruction{Op: insts.OpSLLI, Rd: 1, Imm: 0x21})
			Expect(regFile.X[1]).To(Equal(uint64(1) << 33))
		})

		It("should execute C.ANDI with a sign-extended mask", func() {
			regFile.X[9] = 0xFF0A
			run(&insts.Instruction{Op: insts.OpANDI, Rd: 1, Imm: 3})
			Expect(regFile.X[9]).To(Equal(uint64(2)))

			regFile.X[9] = 0xFF0A
			run(&insts.Instruction{Op: insts.OpANDI, Rd: 1, Imm: 0x3F}) // -1
			Expect(regFile.X[9]).To(Equal(uint64(0xFF0A)))
		})

		It("should execute the register-register group", func() {
			regFile.X[9] = 8
			regFile.X[10] = 3
			run(&insts.Instruction{Op: insts.OpSUB, Rd: 1, Rs2: 2})
			Expect(regFile.X[9]).To(Equal(uint64(5)))

			regFile.X[9] = 0b1100
			regFile.X[10] = 0b1010
			run(&insts.Instruction{Op: insts.OpXOR, Rd: 1, Rs2: 2})
			Expect(regFile.X[9]).To(Equal(uint64(0b0110)))

			regFile.X[9] = 0b1100
			run(&insts.Instruction{Op: insts.OpOR, Rd: 1, Rs2: 2})
			Expect(regFile.X[9]).To(Equal(uint64(0b1110)))

			regFile.X[9] = 0b1100
			run(&insts.Instruction{Op: insts.OpAND, Rd: 1, Rs2: 2})
			Expect(regFile.X[9]).To(Equal(uint64(0b1000)))
		})

		It("should narrow the word-op results", func() {
			regFile.X[9] = 0
			regFile.X[10] = 1
			run(&insts.Instruction{Op: insts.OpSUBW, Rd: 1, Rs2: 2})
			Expect(regFile.X[9]).To(Equal(uint64(0xFFFFFFFFFFFFFFFF)))

			regFile.X[9] = 0x7FFFFFFF
			regFile.X[10] = 1
			run(&insts.Instruction{Op: insts.OpADDW, Rd: 1, Rs2: 2})
			Expect(regFile.X[9]).To(Equal(uint64(0xFFFFFFFF80000000)))
		})

		It("should execute C.MV and C.ADD", func() {
			regFile.X[10] = 0xCAFE
			run(&insts.Instruction{Op: insts.OpMV, Rd: 21, Rs2: 10})
			Expect(regFile.X[21]).To(Equal(uint64(0xCAFE)))

			regFile.X[21] = 2
			run(&insts.Instruction{Op: insts.OpADD, Rd: 21, Rs2: 10})
			Expect(regFile.X[21]).To(Equal(uint64(0xCAFE + 2)))
		})

		It("should leave all state untouched on C.NOP", func() {
			regFile.X[5] = 77
			run(&insts.Instruction{Op: insts.OpNOP})
			Expect(regFile.X[5]).To(Equal(uint64(77)))
			Expect(regFile.X[0]).To(BeZero())
			Expect(engine.Redirected()).To(BeFalse())
		})
	})

	Describe("Memory", func() {
		It("should execute C.LW with sign extension", func() {
			memory.Write32(0x1004, 0x09080706)
			regFile.X[10] = 0x1000
			run(&insts.Instruction{Op: insts.OpLW, Rd: 3, Rs1: 2, Imm: 4})
			Expect(regFile.X[11]).To(Equal(uint64(0x09080706)))

			memory.Write32(0x1004, 0x80000000)
			run(&insts.Instruction{Op: insts.OpLW, Rd: 3, Rs1: 2, Imm: 4})
			Expect(regFile.X[11]).To(Equal(uint64(0xFFFFFFFF80000000)))
		})

		It("should execute C.LD", func() {
			memory.Write64(0x1008, 0x11100F0E0D0C0B0A)
			regFile.X[10] = 0x1000
			run(&insts.Instruction{Op: insts.OpLD, Rd: 3, Rs1: 2, Imm: 8})
			Expect(regFile.X[11]).To(Equal(uint64(0x11100F0E0D0C0B0A)))
		})

		It("should execute C.SW and C.SD", func() {
			regFile.X[9] = 0x1000
			regFile.X[10] = 0x0D0C0B0A
			run(&insts.Instruction{Op: insts.OpSW, Rs1: 1, Rs2: 2, Imm: 4})
			Expect(memory.Read32(0x1004)).To(Equal(uint32(0x0D0C0B0A)))

			regFile.X[10] = 0x0807060504030201
			run(&insts.Instruction{Op: insts.OpSD, Rs1: 1, Rs2: 2, Imm: 8})
			Expect(memory.Read64(0x1008)).To(Equal(uint64(0x0807060504030201)))
		})

		It("should use the stack pointer for the sp-relative forms", func() {
			regFile.X[2] = 0x2000
			regFile.X[3] = 0x12345678
			run(&insts.Instruction{Op: insts.OpSWSP, Rs2: 3, Imm: 4})
			Expect(memory.Read32(0x2004)).To(Equal(uint32(0x12345678)))

			run(&insts.Instruction{Op: insts.OpLWSP, Rd: 4, Imm: 4})
			Expect(regFile.X[4]).To(Equal(uint64(0x12345678)))

			regFile.X[3] = 0x0102030405060708
			run(&insts.Instruction{Op: insts.OpSDSP, Rs2: 3, Imm: 8})
			run(&insts.Instruction{Op: insts.OpLDSP, Rd: 5, Imm: 8})
			Expect(regFile.X[5]).To(Equal(uint64(0x0102030405060708)))
		})
	})

	Describe("Control transfer", func() {
		It("should execute C.J relative to the current PC", func() {
			regFile.PC = 0x100
			run(&insts.Instruction{Op: insts.OpJ, Imm: 0x20})
			Expect(regFile.PC).To(Equal(uint64(0x120)))
			Expect(engine.Redirected()).To(BeTrue())

			// imm field 1<<11 is a negative offset.
			regFile.PC = 0x1000
			run(&insts.Instruction{Op: insts.OpJ, Imm: 1 << 11})
			Expect(regFile.PC).To(Equal(uint64(0x800)))
		})

		It("should take C.BEQZ only on zero", func() {
			regFile.PC = 0x100
			regFile.X[9] = 0
			run(&insts.Instruction{Op: insts.OpBEQZ, Rs1: 1, Imm: 0x20})
			Expect(regFile.PC).To(Equal(uint64(0x120)))
			Expect(engine.Redirected()).To(BeTrue())

			regFile.PC = 0x100
			regFile.X[9] = 1
			run(&insts.Instruction{Op: insts.OpBEQZ, Rs1: 1, Imm: 0x20})
			Expect(regFile.PC).To(Equal(uint64(0x100)))
			Expect(engine.Redirected()).To(BeFalse())
		})

		It("should take C.BNEZ only on nonzero", func() {
			regFile.PC = 0x100
			regFile.X[9] = 1
			run(&insts.Instruction{Op: insts.OpBNEZ, Rs1: 1, Imm: 0x20})
			Expect(regFile.PC).To(Equal(uint64(0x120)))

			regFile.PC = 0x100
			regFile.X[9] = 0
			run(&insts.Instruction{Op: insts.OpBNEZ, Rs1: 1, Imm: 0x20})
			Expect(regFile.PC).To(Equal(uint64(0x100)))
		})

		It("should jump through a register with C.JR", func() {
			regFile.PC = 0x100
			regFile.X[3] = 0xCAFE
			run(&insts.Instruction{Op: insts.OpJR, Rs1: 3})
			Expect(regFile.PC).To(Equal(uint64(0xCAFE)))
			Expect(regFile.X[1]).To(BeZero())
		})

		It("should link the return address in ra with C.JALR", func() {
			regFile.PC = 0x100
			regFile.X[3] = 0xCAFE
			run(&insts.Instruction{Op: insts.OpJALR, Rs1: 3})
			Expect(regFile.PC).To(Equal(uint64(0xCAFE)))
			Expect(regFile.X[1]).To(Equal(uint64(0x102)))
		})

		It("should clear the low bit of an indirect target", func() {
			regFile.X[3] = 0xCAFF
			run(&insts.Instruction{Op: insts.OpJR, Rs1: 3})
			Expect(regFile.PC).To(Equal(uint64(0xCAFE)))
		})

		It("should raise a breakpoint trap for C.EBREAK", func() {
			regFile.PC = 0x100
			engine.BeginStep()
			err := exec.Execute(&insts.Instruction{Op: insts.OpEBREAK})
			Expect(err).To(HaveOccurred())

			trap, ok := err.(*emu.Trap)
			Expect(ok).To(BeTrue())
			Expect(trap.Kind).To(Equal(emu.TrapBreakpoint))
			Expect(trap.PC).To(Equal(uint64(0x100)))
		})
	})
})
