package ppc

import "fmt"

// The methods in this file name operations whose encoding depends on the
// word size of the target, or which expand to more than one instruction.

func (a *Assembler) sized(m memOp, r Register, addr Address) {
	if m.ds {
		a.memDS(m.mnemonic, m.opcode, m.xo, r, addr)
	} else {
		a.mem(m.mnemonic, m.opcode, r, addr)
	}
}

// Load loads a word-sized value: lwz or ld.
func (a *Assembler) Load(rt Register, addr Address) { a.sized(a.target.load, rt, addr) }

// Store stores a word-sized value: stw or std.
func (a *Assembler) Store(rs Register, addr Address) { a.sized(a.target.store, rs, addr) }

// StoreUpdate stores a word-sized value and writes the effective address back
// to the base register: stwu or stdu.
func (a *Assembler) StoreUpdate(rs Register, addr Address) {
	a.sized(a.target.storeUpdate, rs, addr)
}

func (a *Assembler) LoadIndexed(rt, ra, rb Register) {
	a.x31(a.target.loadIndexed.mnemonic, rt, ra, rb, a.target.loadIndexed.xo, false)
}

func (a *Assembler) StoreIndexed(rs, ra, rb Register) {
	a.x31(a.target.storeIndexed.mnemonic, rs, ra, rb, a.target.storeIndexed.xo, false)
}

func (a *Assembler) StoreUpdateIndexed(rs, ra, rb Register) {
	a.x31(a.target.storeUpdateIndexed.mnemonic, rs, ra, rb, a.target.storeUpdateIndexed.xo, false)
}

// LoadReserve is lwarx or ldarx.
func (a *Assembler) LoadReserve(rt, ra, rb Register) {
	a.x31(a.target.loadReserve.mnemonic, rt, ra, rb, a.target.loadReserve.xo, false)
}

// StoreConditional is stwcx. or stdcx.; CR0.eq is set when the store was performed.
func (a *Assembler) StoreConditional(rs, ra, rb Register) {
	a.x31(a.target.storeCond.mnemonic, rs, ra, rb, a.target.storeCond.xo, true)
}

// Compare is a signed word-sized compare: cmpw or cmpd.
func (a *Assembler) Compare(cr ConditionRegister, ra, rb Register) {
	if a.target.Is64() {
		a.Cmpd(cr, ra, rb)
	} else {
		a.Cmpw(cr, ra, rb)
	}
}

func (a *Assembler) CompareImm(cr ConditionRegister, ra Register, si int64) {
	if a.target.Is64() {
		a.Cmpdi(cr, ra, si)
	} else {
		a.Cmpwi(cr, ra, si)
	}
}

func (a *Assembler) CompareLogical(cr ConditionRegister, ra, rb Register) {
	if a.target.Is64() {
		a.Cmpld(cr, ra, rb)
	} else {
		a.Cmplw(cr, ra, rb)
	}
}

func (a *Assembler) CompareLogicalImm(cr ConditionRegister, ra Register, ui int64) {
	if a.target.Is64() {
		a.Cmpldi(cr, ra, ui)
	} else {
		a.Cmplwi(cr, ra, ui)
	}
}

func (a *Assembler) ShiftLeftImm(ra, rs Register, n int64) {
	a.target.shiftLeftImm(a, ra, rs, n)
}

func (a *Assembler) ShiftRightImm(ra, rs Register, n int64) {
	a.target.shiftRightImm(a, ra, rs, n)
}

func (a *Assembler) ShiftRightAlgebraicImm(ra, rs Register, n int64) {
	a.target.shiftRightAlgebraicImm(a, ra, rs, n)
}

func (a *Assembler) ShiftLeft(ra, rs, rb Register) {
	a.x31(a.target.shiftLeft.mnemonic, rs, ra, rb, a.target.shiftLeft.xo, false)
}

func (a *Assembler) ShiftRight(ra, rs, rb Register) {
	a.x31(a.target.shiftRight.mnemonic, rs, ra, rb, a.target.shiftRight.xo, false)
}

func (a *Assembler) ShiftRightAlgebraic(ra, rs, rb Register) {
	a.x31(a.target.shiftRightAlgebraic.mnemonic, rs, ra, rb, a.target.shiftRightAlgebraic.xo, false)
}

// Simplified mnemonics.

// Mr is or ra, rs, rs.
func (a *Assembler) Mr(ra, rs Register) { a.Or(ra, rs, rs) }

// Nop is ori r0, r0, 0.
func (a *Assembler) Nop() { a.Ori(R0, R0, 0) }

// Li is addi rt, 0, si.
func (a *Assembler) Li(rt Register, si int64) { a.d("li", OpADDI, rt, R0, si, true) }

// Lis is addis rt, 0, si.
func (a *Assembler) Lis(rt Register, si int64) { a.d("lis", OpADDIS, rt, R0, si, true) }

// La loads the effective address of addr.
func (a *Assembler) La(rt Register, addr Address) { a.Addi(rt, addr.Base, addr.Displacement) }

// Subi is addi rt, ra, -si.
func (a *Assembler) Subi(rt, ra Register, si int64) { a.Addi(rt, ra, -si) }

// Subfic emits rt = si - ra.
func (a *Assembler) Subfic(rt, ra Register, si int64) { a.d("subfic", OpSUBFIC, rt, ra, si, true) }

// Lbax loads a sign-extended byte: lbzx then extsb.
func (a *Assembler) Lbax(rt, ra, rb Register) {
	a.Lbzx(rt, ra, rb)
	a.Extsb(rt, rt)
}

// Lhax loads a sign-extended halfword: lhzx then extsh.
func (a *Assembler) Lhax(rt, ra, rb Register) {
	a.Lhzx(rt, ra, rb)
	a.Extsh(rt, rt)
}

// Mpclr moves the address of the next instruction to LR. BO=20, BI=31 is the
// form which does not disturb the link stack predictor.
func (a *Assembler) Mpclr() {
	a.emit(encodeB("bcl", OpBC, BOAlways, 31, 1, false, true))
}

// LoadConst loads an arbitrary constant into rt using the shortest sequence of
// 16-bit immediate loads and shifts. On a 32-bit target v is truncated to 32 bits.
func (a *Assembler) LoadConst(rt Register, v int64) {
	if !a.target.Is64() {
		v = int64(int32(v))
	}
	switch {
	case fitsSigned(v, 16):
		a.Li(rt, v)
		return
	case fitsSigned(v, 32):
		a.Lis(rt, int64(int16(v>>16)))
		if lo := v & 0xffff; lo != 0 {
			a.Ori(rt, rt, lo)
		}
		return
	}

	q3, q2 := v>>48&0xffff, v>>32&0xffff
	q1, q0 := v>>16&0xffff, v&0xffff
	if q3 == 0 && q2 == 0 {
		// Bit 31 is set, so lis would sign extend into the high word.
		a.Li(rt, 0)
		a.Oris(rt, rt, q1)
		if q0 != 0 {
			a.Ori(rt, rt, q0)
		}
		return
	}

	switch {
	case q3 != 0:
		a.Lis(rt, int64(int16(q3)))
		if q2 != 0 {
			a.Ori(rt, rt, q2)
		}
	case q2 < 0x8000:
		a.Li(rt, q2)
	default:
		a.Li(rt, 0)
		a.Ori(rt, rt, q2)
	}
	a.Sldi(rt, rt, 32)
	if q1 != 0 {
		a.Oris(rt, rt, q1)
	}
	if q0 != 0 {
		a.Ori(rt, rt, q0)
	}
}

// CmpXchg atomically replaces the word at dest with exchange if it equals
// compare, spinning while the reservation is lost. CR0.eq is set if the store
// was performed. r0 is clobbered.
func (a *Assembler) CmpXchg(exchange, dest, compare Register) {
	if exchange == R0 || dest == R0 || compare == R0 ||
		exchange == dest || exchange == compare || dest == compare {
		protocolViolation("cmpxchg operands %s, %s, %s must be distinct and not r0", exchange, dest, compare)
	}
	loop, done := a.NewLabel(), a.NewLabel()
	a.Sync()
	a.Bind(loop)
	a.LoadReserve(R0, R0, dest)
	a.Compare(CR0, R0, compare)
	a.Bne(done)
	a.StoreConditional(exchange, R0, dest)
	a.Bne(loop)
	a.Bind(done)
	a.Isync()
}

// CallRegister calls the function addressed by fn. On targets which call
// through function descriptors, fn points at the descriptor and the TOC
// pointer in r2 is switched for the duration of the call.
func (a *Assembler) CallRegister(fn Register) {
	t := a.target
	if t.descriptors {
		a.Store(R2, NewAddress(SP, t.tocSaveOffset))
		a.Load(R2, Address{Base: fn, Displacement: int64(t.wordSize)})
		a.Load(R0, Address{Base: fn})
		fn = R0
	}
	a.Mtctr(fn)
	a.Bctrl()
	if t.descriptors {
		a.Load(R2, NewAddress(SP, t.tocSaveOffset))
	}
}

// Call calls the function at the absolute address entry, which must be word aligned.
func (a *Assembler) Call(entry int64) {
	if entry&3 != 0 {
		panic(&EncodingError{Op: "call", Field: "entry", Value: entry,
			Reason: fmt.Sprintf("call target %#x is not word aligned", entry)})
	}
	a.LoadConst(a.target.callRegister, entry)
	a.CallRegister(a.target.callRegister)
}

// Unimplemented marks a code path with no implementation. The all-zero word
// is an illegal instruction.
func (a *Assembler) Unimplemented() {
	a.Word(0)
}

// Align pads with nops until the offset is a multiple of modulus, which must
// be a positive multiple of the instruction width.
func (a *Assembler) Align(modulus int) {
	if modulus <= 0 || modulus&3 != 0 {
		panic(&EncodingError{Op: "align", Field: "modulus", Value: int64(modulus),
			Reason: fmt.Sprintf("invalid alignment %d", modulus)})
	}
	for a.Offset()%modulus != 0 {
		a.Nop()
	}
}

// CalcPaddingForAlignment computes into dst the number of bytes to add to src
// to reach a multiple of align, which must be a power of two that fits andi.
func (a *Assembler) CalcPaddingForAlignment(dst, src Register, align int64) {
	if align <= 0 || align&(align-1) != 0 {
		panic(&EncodingError{Op: "align", Field: "align", Value: align,
			Reason: fmt.Sprintf("alignment %d is not a power of two", align)})
	}
	a.AndiDot(dst, src, align-1)
	a.Subfic(dst, dst, align)
	a.AndiDot(dst, dst, align-1)
}

// MaybeExtendFrame grows the current frame by at least required-available
// bytes, keeping the stack aligned, when required exceeds available. The back
// chain, and on 64-bit the CR save word, are copied to the new bottom of the
// frame. Both registers are clobbered.
func (a *Assembler) MaybeExtendFrame(required, available Register) {
	done := a.NewLabel()
	a.Compare(CR0, required, available)
	a.Ble(done)

	extra, padding := required, available
	a.Sub(extra, required, available)
	a.CalcPaddingForAlignment(padding, extra, int64(a.target.stackAlignment))
	a.Add(extra, extra, padding)

	savedSP, scratch := padding, extra
	a.Mr(savedSP, SP)
	a.Neg(scratch, extra)
	a.StoreUpdateIndexed(SP, SP, scratch)
	a.Load(scratch, NewAddress(savedSP, 0))
	a.Store(scratch, NewAddress(SP, 0))
	if w := a.target.crSaveWords; w >= 0 {
		off := int64(w * a.target.wordSize)
		a.Load(scratch, NewAddress(savedSP, off))
		a.Store(scratch, NewAddress(SP, off))
	}
	a.Bind(done)
}
