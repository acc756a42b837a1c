package ppc

import "fmt"

// EncodingError is raised when an operand does not fit the field it is packed into,
// or when an instruction is requested in a form its opcode does not have.
// Either one is a defect in the code generator and is never recovered locally.
type EncodingError struct {
	// Op names the instruction being encoded, e.g. "addi" or "opcode 14".
	Op string
	// Field names the offending operand.
	Field string
	Value int64
	// Bits is the width of the field. Zero when the error is not about a width.
	Bits   uint
	Signed bool
	// Reason replaces the width message when set.
	Reason string
}

// Error implements error.
func (e *EncodingError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Reason)
	}
	sign := "unsigned"
	if e.Signed {
		sign = "signed"
	}
	return fmt.Sprintf("%s: %s %d does not fit in %d-bit %s field", e.Op, e.Field, e.Value, e.Bits, sign)
}

// BranchRangeError is raised when a branch distance cannot be represented.
// There is no long-branch fallback, so this is a hard limit of the generator.
type BranchRangeError struct {
	From, To int64
	Bits     uint
}

// Error implements error.
func (e *BranchRangeError) Error() string {
	if (e.To-e.From)%4 != 0 {
		return fmt.Sprintf("branch from %#x to %#x is not word aligned", e.From, e.To)
	}
	return fmt.Sprintf("branch from %#x to %#x does not fit in %d-bit displacement", e.From, e.To, e.Bits)
}

// ProtocolError is raised on misuse of the label or frame state machines.
type ProtocolError struct {
	Msg string
}

// Error implements error.
func (e *ProtocolError) Error() string {
	return e.Msg
}

func protocolViolation(format string, args ...interface{}) {
	panic(&ProtocolError{Msg: fmt.Sprintf(format, args...)})
}
