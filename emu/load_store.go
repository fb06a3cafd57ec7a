package emu

import (
	"github.com/sarchlab/rvsim/timing/cache"
)

// LoadStoreUnit implements the translating memory access path: virtual
// address formation, TLB translation, then the physically-addressed L1
// data cache (when configured) or memory directly.
type LoadStoreUnit struct {
	regFile    *RegFile
	memory     *Memory
	translator *Translator
	l1d        *cache.Cache
}

// NewLoadStoreUnit creates a LoadStoreUnit connected to the given register
// file and memory. translator may be nil for untranslated access.
func NewLoadStoreUnit(regFile *RegFile, memory *Memory, translator *Translator) *LoadStoreUnit {
	return &LoadStoreUnit{
		regFile:    regFile,
		memory:     memory,
		translator: translator,
	}
}

// AttachL1D routes data accesses through a physically-indexed L1 cache
// backed by this unit's memory.
func (lsu *LoadStoreUnit) AttachL1D(c *cache.Cache) {
	lsu.l1d = c
}

// Load performs rd = mem[rs1 + offset], size bytes wide, sign- or
// zero-extending per the signed flag.
func (lsu *LoadStoreUnit) Load(rd, rs1 uint8, offset uint64, size int, signed bool) error {
	vaddr := lsu.regFile.Read(rs1) + offset
	paddr, err := lsu.translator.Translate(vaddr, TrapLoadPageFault)
	if err != nil {
		return err
	}

	value := lsu.read(paddr, size)
	if signed {
		value = signExtendValue(value, size)
	}
	lsu.regFile.Write(rd, value)
	return nil
}

// Store performs mem[rs1 + offset] = rs2, size bytes wide.
func (lsu *LoadStoreUnit) Store(rs2, rs1 uint8, offset uint64, size int) error {
	vaddr := lsu.regFile.Read(rs1) + offset
	paddr, err := lsu.translator.Translate(vaddr, TrapStorePageFault)
	if err != nil {
		return err
	}

	lsu.write(paddr, size, lsu.regFile.Read(rs2))
	return nil
}

func (lsu *LoadStoreUnit) read(paddr uint64, size int) uint64 {
	if lsu.l1d != nil {
		return lsu.l1d.Read(paddr, size).Data
	}
	switch size {
	case 1:
		return uint64(lsu.memory.Read8(paddr))
	case 2:
		return uint64(lsu.memory.Read16(paddr))
	case 4:
		return uint64(lsu.memory.Read32(paddr))
	default:
		return lsu.memory.Read64(paddr)
	}
}

func (lsu *LoadStoreUnit) write(paddr uint64, size int, value uint64) {
	if lsu.l1d != nil {
		lsu.l1d.Write(paddr, size, value)
		return
	}
	switch size {
	case 1:
		lsu.memory.Write8(paddr, uint8(value))
	case 2:
		lsu.memory.Write16(paddr, uint16(value))
	case 4:
		lsu.memory.Write32(paddr, uint32(value))
	default:
		lsu.memory.Write64(paddr, value)
	}
}

func signExtendValue(value uint64, size int) uint64 {
	switch size {
	case 1:
		return uint64(int64(int8(value)))
	case 2:
		return uint64(int64(int16(value)))
	case 4:
		return uint64(int64(int32(value)))
	default:
		return value
	}
}
