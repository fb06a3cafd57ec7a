package insts

import "fmt"

// DecodeError reports a 16-bit word that matches no legal compact
// encoding. The caller turns it into an illegal-instruction trap.
type DecodeError struct {
	Word uint16
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("illegal compact instruction 0x%04x", e.Word)
}

// EncodeError reports an instruction value that violates its opcode's
// legality predicate. Well-formed instructions always encode, so this
// signals a programming error in the caller.
type EncodeError struct {
	Op     Op
	Reason string
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("cannot encode %s: %s", mnemonic(e.Op), e.Reason)
}

// ParseError reports assembly text that does not match the fixed
// mnemonic/operand grammar.
type ParseError struct {
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q: %s", e.Text, e.Reason)
}
