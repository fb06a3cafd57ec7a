package emu

import "fmt"

// TrapKind identifies the architectural cause of a trap.
type TrapKind uint8

// Trap kinds raised by this core.
const (
	TrapIllegalInstruction TrapKind = iota
	TrapBreakpoint
	TrapLoadPageFault
	TrapStorePageFault
)

func (k TrapKind) String() string {
	switch k {
	case TrapIllegalInstruction:
		return "illegal instruction"
	case TrapBreakpoint:
		return "breakpoint"
	case TrapLoadPageFault:
		return "load page fault"
	case TrapStorePageFault:
		return "store page fault"
	default:
		return "unknown trap"
	}
}

// Trap is a trap request raised during execution. Delivery (privilege
// switch, cause CSRs) is the surrounding system's concern; the core only
// reports the request.
type Trap struct {
	Kind TrapKind
	PC   uint64
	Addr uint64 // faulting address for memory traps
}

func (t *Trap) Error() string {
	return fmt.Sprintf("%s trap at PC=0x%X", t.Kind, t.PC)
}
