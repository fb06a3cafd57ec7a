// Package mmu provides the translation cache for virtual memory emulation.
//
// The TLB caches page-table walk results, including superpage mappings: an
// entry inserted at level N covers a naturally aligned region of
// 2^(pageOffsetBits + N*bitsPerLevel) bytes, and matching compares only the
// address bits above that region.
package mmu

// Entry is one cached translation. VAddr and PAddr hold only the bits above
// the mapped region (the low AddrMask bits are zero); the offset within the
// region carries over from the virtual address on use.
type Entry struct {
	ASID   uint16
	Global bool

	VAddr uint64
	PAddr uint64

	// MatchMask selects the address bits compared during lookup.
	// AddrMask is its complement: the offset bits within the mapped
	// region. MatchMask == ^AddrMask always holds.
	MatchMask uint64
	AddrMask  uint64

	// PTE and PTEAddr record the leaf page-table entry and its location,
	// so a walker can write back dirty/accessed bits without re-walking.
	PTE     uint64
	PTEAddr uint64

	// Age is the insertion or last-hit time, used for eviction.
	Age uint64
}

// Physical combines the cached physical frame with the in-region offset of
// the given virtual address.
func (e *Entry) Physical(vaddr uint64) uint64 {
	return e.PAddr | (vaddr & e.AddrMask)
}

// matches reports whether this entry translates vaddr in the given address
// space. Global entries match any address space.
func (e *Entry) matches(asid uint16, vaddr uint64) bool {
	if !e.Global && e.ASID != asid {
		return false
	}
	return vaddr&e.MatchMask == e.VAddr
}

// InsertReq carries the parameters of one resolved page-table walk.
type InsertReq struct {
	ASID    uint16
	VAddr   uint64
	PAddr   uint64
	PTE     uint64
	PTEAddr uint64

	// Level is the page-table level of the leaf entry. Level 0 is a base
	// page; higher levels are superpages covering bitsPerLevel more
	// address bits each.
	Level int

	Global bool

	// Geometry of the page-table format, e.g. 9 and 12 for Sv39/Sv48.
	BitsPerLevel   int
	PageOffsetBits int
}

// TLB is a fully associative translation cache with age-based eviction.
type TLB struct {
	entries []Entry
	valid   []bool
	tick    uint64
}

// New creates a TLB with the given number of entry slots.
func New(capacity int) *TLB {
	return &TLB{
		entries: make([]Entry, capacity),
		valid:   make([]bool, capacity),
	}
}

// Capacity returns the number of entry slots.
func (t *TLB) Capacity() int {
	return len(t.entries)
}

// Lookup finds the entry translating vaddr in the given address space.
// A hit refreshes the entry's age and returns its slot index and the entry;
// a miss returns (-1, nil). Misses are expected, not errors.
func (t *TLB) Lookup(asid uint16, vaddr uint64) (int, *Entry) {
	t.tick++
	for i := range t.entries {
		if !t.valid[i] {
			continue
		}
		if t.entries[i].matches(asid, vaddr) {
			t.entries[i].Age = t.tick
			return i, &t.entries[i]
		}
	}
	return -1, nil
}

// Insert caches a resolved translation, evicting the oldest entry if no
// slot is free. The virtual and physical addresses are masked down to the
// region boundary implied by the level, so superpage entries translate
// every address within their region.
func (t *TLB) Insert(req InsertReq) {
	addrMask := uint64(1)<<(req.PageOffsetBits+req.Level*req.BitsPerLevel) - 1
	matchMask := ^addrMask

	t.tick++
	slot := t.victim()
	t.entries[slot] = Entry{
		ASID:      req.ASID,
		Global:    req.Global,
		VAddr:     req.VAddr & matchMask,
		PAddr:     req.PAddr & matchMask,
		MatchMask: matchMask,
		AddrMask:  addrMask,
		PTE:       req.PTE,
		PTEAddr:   req.PTEAddr,
		Age:       t.tick,
	}
	t.valid[slot] = true
}

// victim picks an invalid slot if one exists, otherwise the oldest entry.
func (t *TLB) victim() int {
	oldest := 0
	for i := range t.entries {
		if !t.valid[i] {
			return i
		}
		if t.entries[i].Age < t.entries[oldest].Age {
			oldest = i
		}
	}
	return oldest
}

// Flush selectively invalidates entries. Both selectors are optional:
//
//   - asid nil, vaddr nil: invalidate everything.
//   - asid set, vaddr nil: invalidate the address space, except global
//     entries.
//   - asid nil, vaddr set: invalidate entries translating vaddr in any
//     address space.
//   - both set: invalidate entries translating vaddr in that address
//     space, except global entries.
//
// The address comparison uses each entry's own match mask, so a flush of
// one base-page address also removes a superpage entry covering it.
func (t *TLB) Flush(asid *uint16, vaddr *uint64) {
	for i := range t.entries {
		if !t.valid[i] {
			continue
		}
		e := &t.entries[i]
		if asid != nil {
			if e.Global || e.ASID != *asid {
				continue
			}
		}
		if vaddr != nil && *vaddr&e.MatchMask != e.VAddr {
			continue
		}
		t.valid[i] = false
	}
}
