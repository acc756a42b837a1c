package ppc

import "fmt"

// 32-bit (System V) frame, from the stack pointer upward:
//
//	+----------------------+  <- caller's SP
//	| FPR save area    f31 |  high addresses
//	|                  ... |
//	|                  f14 |
//	+----------------------+
//	| GPR save area    r31 |
//	|                  ... |
//	|                  r14 |
//	+----------------------+
//	| CR save word         |  if condition fields were requested
//	+----------------------+
//	| volatile save area   |  if PreserveVolatiles: r0, r3-r12, ctr, f0-f13
//	+----------------------+
//	| locals (+ padding)   |
//	+----------------------+
//	| parameter area       |
//	+----------------------+
//	| LR save word         |
//	| back chain           |  <- SP      low addresses
//	+----------------------+
//
// The 64-bit (ELF v1) frame is the same except that the link area is six
// doublewords (back chain, CR save, LR save, two reserved, TOC save), the
// parameter area is at least eight doublewords, and the condition register is
// saved in the CR save word of the caller's link area instead of the frame.

const (
	maxFrameGPRs     = 18 // r14-r31
	maxFrameFPRs     = 18 // f14-f31
	maxFrameCRFields = 3  // cr2-cr4
	volatileGPRWords = 11 // r0, r3-r12
	volatileSPRWords = 1  // ctr
	volatileFPRs     = 14 // f0-f13
	fprSize          = 8
	firstVolatileGPR = R3
	lastVolatileGPR  = R12
)

// Frame accumulates the requirements of an activation frame. Once Prolog is
// called the layout is frozen: every further request panics, and the frame is
// continued by the returned OpenFrame.
type Frame struct {
	target            *Target
	params, locals    int
	crFields          int
	gprs, fprs        int
	preserveVolatiles bool
	frozen            bool
}

// NewFrame returns an empty frame for the given target.
func NewFrame(t *Target) *Frame {
	return &Frame{target: t}
}

func (f *Frame) accumulating(what string) {
	if f.frozen {
		protocolViolation("frame: %s requested after the prolog was emitted", what)
	}
}

// ParameterSlot reserves the next word of the outgoing parameter area.
// Parameters must be requested before any local slot.
func (f *Frame) ParameterSlot() Address {
	f.accumulating("parameter slot")
	if f.locals > 0 {
		protocolViolation("frame: parameter slot requested after %d local slot(s)", f.locals)
	}
	addr := NewAddress(SP, int64((f.target.linkAreaWords+f.params)*f.target.wordSize))
	f.params++
	return addr
}

// LocalSlot reserves the next word of local variable space. The parameter
// area is first grown to the ABI minimum so that locals never overlap it.
func (f *Frame) LocalSlot() Address {
	f.accumulating("local slot")
	if f.params < f.target.minParamWords {
		f.params = f.target.minParamWords
	}
	addr := NewAddress(SP, int64((f.target.linkAreaWords+f.params+f.locals)*f.target.wordSize))
	f.locals++
	return addr
}

// ConditionField reserves a non-volatile condition register field, starting at
// cr4 and going down to cr2.
func (f *Frame) ConditionField() ConditionRegister {
	f.accumulating("condition field")
	if f.crFields >= maxFrameCRFields {
		protocolViolation("frame: no non-volatile condition register fields left")
	}
	cr := CR4 - ConditionRegister(f.crFields)
	f.crFields++
	return cr
}

// GeneralRegister reserves a non-volatile general register, starting at r31
// and going down to r14.
func (f *Frame) GeneralRegister() Register {
	f.accumulating("general register")
	if f.gprs >= maxFrameGPRs {
		protocolViolation("frame: no non-volatile general registers left")
	}
	r := R31 - Register(f.gprs)
	f.gprs++
	return r
}

// FloatRegister reserves a non-volatile floating point register, starting at
// f31 and going down to f14.
func (f *Frame) FloatRegister() FloatRegister {
	f.accumulating("float register")
	if f.fprs >= maxFrameFPRs {
		protocolViolation("frame: no non-volatile float registers left")
	}
	r := F31 - FloatRegister(f.fprs)
	f.fprs++
	return r
}

// PreserveVolatiles makes the frame save and restore every volatile register,
// for frames around calls that must not disturb their caller's state.
func (f *Frame) PreserveVolatiles() {
	f.accumulating("volatile save area")
	f.preserveVolatiles = true
}

func (f *Frame) paramWords() int {
	if f.params < f.target.minParamWords {
		return f.target.minParamWords
	}
	return f.params
}

func (f *Frame) fprWords() int {
	return fprSize / f.target.wordSize
}

func (f *Frame) volatileWords() int {
	if !f.preserveVolatiles {
		return 0
	}
	return volatileGPRWords + volatileSPRWords + volatileFPRs*f.fprWords()
}

func (f *Frame) crWords() int {
	if f.crFields > 0 && f.target.crSaveWords < 0 {
		return 1
	}
	return 0
}

// UnalignedSize returns the size in bytes of the frame before padding.
func (f *Frame) UnalignedSize() int {
	words := f.target.linkAreaWords + f.paramWords() + f.locals +
		f.volatileWords() + f.crWords() + f.gprs + f.fprs*f.fprWords()
	return words * f.target.wordSize
}

// padding returns the number of words added to the locals to align the frame.
func (f *Frame) padding() (words int) {
	size, align := f.UnalignedSize(), f.target.stackAlignment
	for (size+words*f.target.wordSize)%align != 0 {
		words++
	}
	return
}

// Size returns the smallest multiple of the stack alignment that holds the frame.
func (f *Frame) Size() int {
	return f.UnalignedSize() + f.padding()*f.target.wordSize
}

// OpenFrame is a frame whose prolog has been emitted. Its epilog must be
// emitted on every path leaving the code, before the assembler is finalized.
type OpenFrame struct {
	frame        Frame
	asm          *Assembler
	size         int
	prologOffset int
	epilogs      int

	// Offsets from the new stack pointer.
	r0Save, volatileGPRSave, ctrSave, volatileFPRSave int64
	crSave, gprSave, fprSave                          int64
}

// Size returns the frame size in bytes.
func (o *OpenFrame) Size() int { return o.size }

// SizeInWords returns the frame size in target words.
func (o *OpenFrame) SizeInWords() int { return o.size / o.frame.target.wordSize }

// Closed reports whether at least one epilog has been emitted.
func (o *OpenFrame) Closed() bool { return o.epilogs > 0 }

// crMask returns the mtcrf field mask of the reserved condition fields.
func (o *OpenFrame) crMask() (mask int64) {
	for i := 0; i < o.frame.crFields; i++ {
		mask |= 0x80 >> uint(CR4-ConditionRegister(i))
	}
	return
}

// Prolog freezes the frame layout and emits code which saves the return
// address, allocates the frame and spills every requested register.
func (f *Frame) Prolog(a *Assembler) *OpenFrame {
	if f.frozen {
		protocolViolation("frame: prolog emitted twice")
	}
	if a.target != f.target {
		protocolViolation("frame: %s frame used with a %s assembler", f.target, a.target)
	}
	f.frozen = true

	t := f.target
	w := int64(t.wordSize)
	o := &OpenFrame{frame: *f, asm: a, size: f.Size(), prologOffset: a.Offset()}
	size := int64(o.size)

	off := int64(t.linkAreaWords+f.paramWords()+f.locals+f.padding()) * w
	if f.preserveVolatiles {
		o.r0Save = off
		off += w
		o.volatileGPRSave = off
		off += int64(lastVolatileGPR-firstVolatileGPR+1) * w
		o.ctrSave = off
		off += w
		o.volatileFPRSave = off
		off += volatileFPRs * fprSize
	}
	if f.crFields > 0 {
		if t.crSaveWords < 0 {
			o.crSave = off
			off += w
		} else {
			o.crSave = size + int64(t.crSaveWords)*w
		}
	}
	o.gprSave = off
	off += int64(f.gprs) * w
	o.fprSave = off
	off += int64(f.fprs) * fprSize
	if off != size {
		panic(fmt.Errorf("BUG: frame layout ends at %d but frame size is %d", off, size))
	}

	lr := int64(t.LRSaveOffset())
	if f.preserveVolatiles {
		a.StoreUpdate(SP, NewAddress(SP, -size))
		a.Store(R0, NewAddress(SP, o.r0Save))
		a.Mflr(R0)
		a.Store(R0, NewAddress(SP, size+lr))
	} else {
		a.Mflr(R0)
		a.Store(R0, NewAddress(SP, lr))
		a.StoreUpdate(SP, NewAddress(SP, -size))
	}

	if f.preserveVolatiles {
		for r := firstVolatileGPR; r <= lastVolatileGPR; r++ {
			a.Store(r, NewAddress(SP, o.volatileGPRSave+int64(r-firstVolatileGPR)*w))
		}
		a.Mfctr(R0)
		a.Store(R0, NewAddress(SP, o.ctrSave))
		for i := 0; i < volatileFPRs; i++ {
			a.Stfd(FloatRegister(i), NewAddress(SP, o.volatileFPRSave+int64(i)*fprSize))
		}
	}

	if f.crFields > 0 {
		a.Mfcr(R0)
		a.Stw(R0, NewAddress(SP, o.crSave))
	}
	for i := 0; i < f.gprs; i++ {
		a.Store(R31-Register(f.gprs-1-i), NewAddress(SP, o.gprSave+int64(i)*w))
	}
	for i := 0; i < f.fprs; i++ {
		a.Stfd(F31-FloatRegister(f.fprs-1-i), NewAddress(SP, o.fprSave+int64(i)*fprSize))
	}

	if f.preserveVolatiles {
		a.Load(R0, NewAddress(SP, o.r0Save))
	}

	a.frames = append(a.frames, o)
	return o
}

// Epilog emits code which restores every register the prolog spilled, in
// reverse order, and deallocates the frame. It does not return: the caller
// emits blr, or a tail branch. Epilog may be emitted once per exit path.
func (o *OpenFrame) Epilog(a *Assembler) {
	if a != o.asm {
		protocolViolation("frame: epilog emitted on a different assembler than its prolog")
	}
	f := &o.frame
	t := f.target
	w := int64(t.wordSize)
	size := int64(o.size)

	for i := f.fprs - 1; i >= 0; i-- {
		a.Lfd(F31-FloatRegister(f.fprs-1-i), NewAddress(SP, o.fprSave+int64(i)*fprSize))
	}
	for i := f.gprs - 1; i >= 0; i-- {
		a.Load(R31-Register(f.gprs-1-i), NewAddress(SP, o.gprSave+int64(i)*w))
	}
	if f.crFields > 0 {
		a.Lwz(R0, NewAddress(SP, o.crSave))
		a.Mtcrf(o.crMask(), R0)
	}

	if f.preserveVolatiles {
		for i := volatileFPRs - 1; i >= 0; i-- {
			a.Lfd(FloatRegister(i), NewAddress(SP, o.volatileFPRSave+int64(i)*fprSize))
		}
		a.Load(R0, NewAddress(SP, o.ctrSave))
		a.Mtctr(R0)
		for r := lastVolatileGPR; r >= firstVolatileGPR; r-- {
			a.Load(r, NewAddress(SP, o.volatileGPRSave+int64(r-firstVolatileGPR)*w))
		}
	}

	lr := int64(t.LRSaveOffset())
	if f.preserveVolatiles {
		a.Load(R0, NewAddress(SP, size+lr))
		a.Mtlr(R0)
		a.Load(R0, NewAddress(SP, o.r0Save))
		a.Addi(SP, SP, size)
	} else {
		a.Addi(SP, SP, size)
		a.Load(R0, NewAddress(SP, lr))
		a.Mtlr(R0)
	}
	o.epilogs++
}
