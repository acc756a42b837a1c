package ppc

import "fmt"

// Address is a memory operand: a base register plus a signed displacement.
// The displacement is checked against the field of the instruction it is used
// in when that instruction is encoded.
type Address struct {
	Base         Register
	Displacement int64
}

// NewAddress returns base+disp. It panics if base is not a usable base
// register: in D and DS forms r0 reads as the literal zero, not as a register.
func NewAddress(base Register, disp int64) Address {
	if !base.IsValid() {
		panic(&EncodingError{Op: "address", Field: "base", Value: int64(base),
			Reason: fmt.Sprintf("invalid base register %d", int8(base))})
	}
	if base == R0 {
		panic(&EncodingError{Op: "address", Field: "base", Value: 0,
			Reason: "r0 cannot be used as a base register"})
	}
	return Address{Base: base, Displacement: disp}
}

// Offset returns the same base with the displacement moved by delta.
func (a Address) Offset(delta int64) Address {
	return Address{Base: a.Base, Displacement: a.Displacement + delta}
}

// String implements fmt.Stringer using the assembler syntax "disp(rN)".
func (a Address) String() string {
	return fmt.Sprintf("%d(%s)", a.Displacement, a.Base)
}
