package emu

// memPageSize is the granularity of the sparse backing store. It matches
// the base page size so translated accesses never straddle more pages than
// the architecture allows.
const memPageSize = 4096

// Memory is a sparse byte-addressable physical memory. Pages are allocated
// on first write; reads of unmapped memory return zeros.
type Memory struct {
	pages map[uint64][]byte
}

// NewMemory creates an empty memory.
func NewMemory() *Memory {
	return &Memory{pages: make(map[uint64][]byte)}
}

func (m *Memory) pageFor(addr uint64, alloc bool) ([]byte, uint64) {
	base := addr &^ uint64(memPageSize-1)
	page, ok := m.pages[base]
	if !ok {
		if !alloc {
			return nil, 0
		}
		page = make([]byte, memPageSize)
		m.pages[base] = page
	}
	return page, addr - base
}

// Read returns size bytes starting at addr. It satisfies the cache
// package's BackingStore interface.
func (m *Memory) Read(addr uint64, size int) []byte {
	data := make([]byte, size)
	for i := 0; i < size; i++ {
		page, off := m.pageFor(addr+uint64(i), false)
		if page != nil {
			data[i] = page[off]
		}
	}
	return data
}

// Write stores data starting at addr. It satisfies the cache package's
// BackingStore interface.
func (m *Memory) Write(addr uint64, data []byte) {
	for i, b := range data {
		page, off := m.pageFor(addr+uint64(i), true)
		page[off] = b
	}
}

// Read8 reads a byte.
func (m *Memory) Read8(addr uint64) uint8 {
	page, off := m.pageFor(addr, false)
	if page == nil {
		return 0
	}
	return page[off]
}

// Write8 writes a byte.
func (m *Memory) Write8(addr uint64, value uint8) {
	page, off := m.pageFor(addr, true)
	page[off] = value
}

// Read16 reads a little-endian 16-bit value.
func (m *Memory) Read16(addr uint64) uint16 {
	return uint16(m.Read8(addr)) | uint16(m.Read8(addr+1))<<8
}

// Write16 writes a little-endian 16-bit value.
func (m *Memory) Write16(addr uint64, value uint16) {
	m.Write8(addr, uint8(value))
	m.Write8(addr+1, uint8(value>>8))
}

// Read32 reads a little-endian 32-bit value.
func (m *Memory) Read32(addr uint64) uint32 {
	return uint32(m.Read16(addr)) | uint32(m.Read16(addr+2))<<16
}

// Write32 writes a little-endian 32-bit value.
func (m *Memory) Write32(addr uint64, value uint32) {
	m.Write16(addr, uint16(value))
	m.Write16(addr+2, uint16(value>>16))
}

// Read64 reads a little-endian 64-bit value.
func (m *Memory) Read64(addr uint64) uint64 {
	return uint64(m.Read32(addr)) | uint64(m.Read32(addr+4))<<32
}

// Write64 writes a little-endian 64-bit value.
func (m *Memory) Write64(addr uint64, value uint64) {
	m.Write32(addr, uint32(value))
	m.Write32(addr+4, uint32(value>>32))
}

// LoadProgram copies a program image into memory at the given address.
func (m *Memory) LoadProgram(addr uint64, program []byte) {
	m.Write(addr, program)
}
