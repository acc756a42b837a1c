package ppc

import (
	"fmt"

	"github.com/tetratelabs/ppcasm/internal/asm"
)

// Label is a symbolic branch target which may be referenced before its
// address is known. It is an index into the label arena of the Assembler that
// created it and is meaningless to any other Assembler.
type Label int

// patchSite is a branch emitted with a zero displacement, waiting for its
// label to be bound.
type patchSite struct {
	offset int
	form   Form
}

type labelState struct {
	bound   bool
	offset  int
	pending []patchSite
}

// BranchTarget returns the word displacement (to-from)/4 of a branch at from
// targeting to. It errs when the distance is not a multiple of the
// instruction width, or does not fit a signed field of the given width.
func BranchTarget(from, to int64, bits uint) (int64, error) {
	d := to - from
	if d%asm.InstructionWidth != 0 {
		return 0, &BranchRangeError{From: from, To: to, Bits: bits}
	}
	d /= asm.InstructionWidth
	if !fitsSigned(d, bits) {
		return 0, &BranchRangeError{From: from, To: to, Bits: bits}
	}
	return d, nil
}

// displacementBits returns the width of the displacement field of a branch form.
func displacementBits(f Form) uint {
	if f == FormI {
		return 24
	}
	return 14
}

// NewLabel allocates an unbound label.
func (a *Assembler) NewLabel() Label {
	a.labels = append(a.labels, labelState{})
	return Label(len(a.labels) - 1)
}

func (a *Assembler) label(l Label) *labelState {
	if l < 0 || int(l) >= len(a.labels) {
		protocolViolation("label %d was not created by this assembler", int(l))
	}
	return &a.labels[l]
}

// IsBound reports whether l has been bound.
func (a *Assembler) IsBound(l Label) bool {
	return a.label(l).bound
}

// LabelOffset returns the offset l is bound to. It panics if l is unbound.
func (a *Assembler) LabelOffset(l Label) int {
	s := a.label(l)
	if !s.bound {
		protocolViolation("label %d is not bound", int(l))
	}
	return s.offset
}

// Bind binds l to the current offset and resolves every branch emitted
// against it so far. A label is bound exactly once.
func (a *Assembler) Bind(l Label) {
	s := a.label(l)
	if s.bound {
		protocolViolation("label %d bound twice (at %#x and %#x)", int(l), s.offset, a.Offset())
	}
	s.bound = true
	s.offset = a.Offset()
	for _, site := range s.pending {
		a.patch(site, s.offset)
	}
	s.pending = nil
}

// patch ORs the displacement to target into the zeroed field of the branch at site.
func (a *Assembler) patch(site patchSite, target int) {
	word := a.buf.Uint32At(site.offset)

	var form Form
	switch word >> 26 {
	case OpB:
		form = FormI
	case OpBC:
		form = FormB
	default:
		panic(fmt.Errorf("BUG: opcode %d at patch site %#x is not a branch", word>>26, site.offset))
	}
	if form != site.form {
		panic(fmt.Errorf("BUG: patch site %#x recorded as %s-form but holds %s-form", site.offset, site.form, form))
	}

	if word&2 != 0 {
		panic(fmt.Errorf("BUG: patch site %#x holds an absolute branch", site.offset))
	}

	bits := displacementBits(form)
	mask := uint32(1<<bits-1) << 2
	if word&mask != 0 {
		panic(fmt.Errorf("BUG: patch collision at %#x: displacement field already %#x", site.offset, word&mask))
	}

	d, err := BranchTarget(int64(site.offset), int64(target), bits)
	if err != nil {
		panic(err)
	}
	word |= uint32(d) << 2 & mask
	a.buf.PutUint32At(site.offset, word)
	if a.listener != nil {
		a.listener.OnPatch(site.offset, word)
	}
}

// branchToLabel emits a branch of the given form to l. The displacement is
// encoded directly for a bound label; otherwise a zero placeholder is emitted
// and the site recorded on the label.
func (a *Assembler) branchToLabel(l Label, form Form, encode func(disp int64) (uint32, error)) {
	s := a.label(l)
	if s.bound {
		d, err := BranchTarget(int64(a.Offset()), int64(s.offset), displacementBits(form))
		if err != nil {
			panic(err)
		}
		a.emit(encode(d))
		return
	}
	s.pending = append(s.pending, patchSite{offset: a.Offset(), form: form})
	a.emit(encode(0))
}

// checkLabels panics if a label has branches waiting on it but was never bound.
func (a *Assembler) checkLabels() {
	for i := range a.labels {
		if s := &a.labels[i]; !s.bound && len(s.pending) > 0 {
			protocolViolation("label %d is unbound but referenced by %d branch(es), first at %#x",
				i, len(s.pending), s.pending[0].offset)
		}
	}
}
