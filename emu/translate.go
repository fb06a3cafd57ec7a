package emu

import (
	"github.com/sarchlab/rvsim/mmu"
)

// PageWalker resolves translations the TLB does not hold. On a miss the
// translator calls Walk, which performs the page-table walk and inserts
// the resolved mapping into the TLB (including level and mask parameters
// for superpages). A non-nil error means the walk faulted.
type PageWalker interface {
	Walk(asid uint16, vaddr uint64) error
}

// Translator is the virtual-to-physical stage of the memory access path.
// With no walker configured, translation is disabled and addresses pass
// through unchanged (bare machine mode).
type Translator struct {
	tlb    *mmu.TLB
	walker PageWalker
	asid   uint16
}

// NewTranslator creates a translator over the given TLB. walker may be nil
// to disable translation.
func NewTranslator(tlb *mmu.TLB, walker PageWalker) *Translator {
	return &Translator{tlb: tlb, walker: walker}
}

// SetASID switches the active address space.
func (t *Translator) SetASID(asid uint16) {
	t.asid = asid
}

// TLB exposes the underlying translation cache.
func (t *Translator) TLB() *mmu.TLB {
	return t.tlb
}

// Translate resolves vaddr for the active address space. A TLB miss
// triggers one walk and one retry; a failed walk surfaces as a page fault
// trap of the given kind.
func (t *Translator) Translate(vaddr uint64, fault TrapKind) (uint64, error) {
	if t == nil || t.walker == nil {
		return vaddr, nil
	}

	if _, entry := t.tlb.Lookup(t.asid, vaddr); entry != nil {
		return entry.Physical(vaddr), nil
	}

	if err := t.walker.Walk(t.asid, vaddr); err != nil {
		return 0, &Trap{Kind: fault, Addr: vaddr}
	}
	if _, entry := t.tlb.Lookup(t.asid, vaddr); entry != nil {
		return entry.Physical(vaddr), nil
	}
	// The walker reported success without inserting a mapping.
	return 0, &Trap{Kind: fault, Addr: vaddr}
}

// SFenceVMA applies an explicit translation fence: the four-way selective
// invalidation keyed on the optional address space and virtual address.
func (t *Translator) SFenceVMA(asid *uint16, vaddr *uint64) {
	if t == nil {
		return
	}
	t.tlb.Flush(asid, vaddr)
}
