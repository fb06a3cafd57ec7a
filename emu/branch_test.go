package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rvsim/emu"
)

var _ = Describe("BranchUnit", func() {
	var (
		regFile *emu.RegFile
		bu      *emu.BranchUnit
	)

	BeforeEach(func() {
		regFile = &emu.RegFile{}
		bu = emu.NewBranchUnit(regFile, 2)
		bu.BeginStep()
	})

	It("should redirect only when the condition holds", func() {
		regFile.PC = 0x100
		regFile.X[1] = 5
		regFile.X[2] = 5

		bu.Branch(emu.BranchEQ, 1, 2, 0x40)
		Expect(regFile.PC).To(Equal(uint64(0x140)))
		Expect(bu.Redirected()).To(BeTrue())

		bu.BeginStep()
		bu.Branch(emu.BranchNE, 1, 2, 0x40)
		Expect(regFile.PC).To(Equal(uint64(0x140)))
		Expect(bu.Redirected()).To(BeFalse())
	})

	It("should branch backwards with negative offsets", func() {
		regFile.PC = 0x100
		bu.Branch(emu.BranchEQ, 0, 0, -0x20)
		Expect(regFile.PC).To(Equal(uint64(0xE0)))
	})

	It("should compare signed and unsigned correctly", func() {
		regFile.X[1] = uint64(0xFFFFFFFFFFFFFFFF) // -1 signed, max unsigned
		regFile.X[2] = 1

		regFile.PC = 0x100
		bu.Branch(emu.BranchLT, 1, 2, 0x10)
		Expect(regFile.PC).To(Equal(uint64(0x110))) // -1 < 1

		regFile.PC = 0x100
		bu.BeginStep()
		bu.Branch(emu.BranchLTU, 1, 2, 0x10)
		Expect(regFile.PC).To(Equal(uint64(0x100))) // max >= 1 unsigned
	})

	It("should link the sequential address on JAL", func() {
		regFile.PC = 0x100
		bu.JAL(1, 0x40)
		Expect(regFile.PC).To(Equal(uint64(0x140)))
		Expect(regFile.X[1]).To(Equal(uint64(0x102)))
		Expect(bu.Redirected()).To(BeTrue())
	})

	It("should discard the link through x0", func() {
		regFile.PC = 0x100
		bu.JAL(0, 0x40)
		Expect(regFile.X[0]).To(BeZero())
	})

	It("should clear the low target bit on JALR", func() {
		regFile.PC = 0x100
		regFile.X[5] = 0x201
		bu.JALR(1, 5, 0)
		Expect(regFile.PC).To(Equal(uint64(0x200)))
		Expect(regFile.X[1]).To(Equal(uint64(0x102)))
	})

	It("should read rs1 before writing the link register", func() {
		// c.jalr ra with rs1=ra must jump through the old ra value.
		regFile.PC = 0x100
		regFile.X[1] = 0x500
		bu.JALR(1, 1, 0)
		Expect(regFile.PC).To(Equal(uint64(0x500)))
		Expect(regFile.X[1]).To(Equal(uint64(0x102)))
	})
})
