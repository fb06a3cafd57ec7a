// Package emu provides functional RV64 emulation of the compact
// instruction set.
package emu

// RegFile represents the RV64 integer register file: 32 general-purpose
// registers and the program counter. x2 is the stack pointer by ABI
// convention but needs no special handling here.
type RegFile struct {
	// X holds general-purpose registers x0-x31.
	// X[0] is the hard-wired zero register.
	X [32]uint64

	// PC is the program counter.
	PC uint64
}

// Read reads a register value. Register 0 always returns 0.
func (r *RegFile) Read(reg uint8) uint64 {
	if reg == 0 || reg >= 32 {
		return 0
	}
	return r.X[reg]
}

// Write writes a value to a register. Writes to register 0 are discarded.
func (r *RegFile) Write(reg uint8, value uint64) {
	if reg == 0 || reg >= 32 {
		return
	}
	r.X[reg] = value
}

// Read32 reads the lower 32 bits of a register.
func (r *RegFile) Read32(reg uint8) uint32 {
	return uint32(r.Read(reg))
}

// Write32 writes a 32-bit value sign-extended to 64 bits, the RV64
// convention for word-narrowed results.
func (r *RegFile) Write32(reg uint8, value uint32) {
	r.Write(reg, uint64(int64(int32(value))))
}
