package ppc

import (
	"fmt"

	"github.com/tetratelabs/ppcasm/internal/asm"
)

// Assembler emits PowerPC instruction words into a code buffer. Method names
// follow the assembler mnemonics, with destination operands first.
//
// Every method panics on an operand which does not fit its field, with
// *EncodingError, and on a branch which cannot reach its target, with
// *BranchRangeError. These are defects of the calling code generator.
type Assembler struct {
	target   *Target
	buf      asm.Buffer
	listener EmitListener
	labels   []labelState
	frames   []*OpenFrame
}

// NewAssembler returns an assembler writing at the end of seg. A nil seg means
// a fresh code segment in the configured byte order; otherwise words are
// written in the byte order of seg.
func NewAssembler(cfg *AssemblerConfig, seg *asm.CodeSegment) *Assembler {
	if cfg == nil {
		cfg = NewAssemblerConfig()
	}
	if seg == nil {
		seg = asm.NewCodeSegment(nil, cfg.order)
	}
	return &Assembler{target: cfg.target, buf: seg.Next(), listener: cfg.listener}
}

// Target returns the target selected at construction.
func (a *Assembler) Target() *Target {
	return a.target
}

// Offset returns the byte offset at which the next instruction will be written.
func (a *Assembler) Offset() int {
	return a.buf.Len()
}

// Finalize checks that every referenced label was bound and every frame
// opened on this assembler was closed, then returns the assembled code.
func (a *Assembler) Finalize() []byte {
	a.checkLabels()
	for _, f := range a.frames {
		if !f.Closed() {
			protocolViolation("frame opened at %#x has no epilog", f.prologOffset)
		}
	}
	return a.buf.Bytes()
}

// emit appends a packed word, or panics with the packing error.
func (a *Assembler) emit(word uint32, err error) {
	if err != nil {
		panic(err)
	}
	offset := a.buf.Len()
	a.buf.AppendUint32(word)
	if a.listener != nil {
		a.listener.OnEmit(offset, word)
	}
}

// Word emits a raw data or instruction word.
func (a *Assembler) Word(w uint32) {
	a.emit(w, nil)
}

func (r Register) encoding() int64          { return int64(r) }
func (f FloatRegister) encoding() int64     { return int64(f) }
func (c ConditionRegister) encoding() int64 { return int64(c) }

// bf returns the BF/L operand of the compare instructions.
func bf(cr ConditionRegister, l int64) int64 {
	return cr.encoding()<<2 | l
}

func checkShift(op string, n, max int64) {
	if n < 0 || n > max {
		panic(&EncodingError{Op: op, Field: "n", Value: n,
			Reason: fmt.Sprintf("shift amount %d out of range [0, %d]", n, max)})
	}
}

func (a *Assembler) d(op string, opcode int64, x, y Register, imm int64, signed bool) {
	a.emit(encodeD(op, opcode, x.encoding(), y.encoding(), imm, signed))
}

func (a *Assembler) x31(op string, x, y, z Register, xo int64, rc bool) {
	a.emit(encodeX(op, OpX, x.encoding(), y.encoding(), z.encoding(), xo, rc))
}

// Integer arithmetic.

func (a *Assembler) Addi(rt, ra Register, si int64)  { a.d("addi", OpADDI, rt, ra, si, true) }
func (a *Assembler) Addis(rt, ra Register, si int64) { a.d("addis", OpADDIS, rt, ra, si, true) }
func (a *Assembler) Mulli(rt, ra Register, si int64) { a.d("mulli", OpMULLI, rt, ra, si, true) }
func (a *Assembler) Add(rt, ra, rb Register)         { a.x31("add", rt, ra, rb, XoADD, false) }

// Subf emits rt = rb - ra.
func (a *Assembler) Subf(rt, ra, rb Register) { a.x31("subf", rt, ra, rb, XoSUBF, false) }

// Sub emits rt = ra - rb as subf rt, rb, ra.
func (a *Assembler) Sub(rt, ra, rb Register) { a.x31("subf", rt, rb, ra, XoSUBF, false) }

func (a *Assembler) Neg(rt, ra Register)       { a.x31("neg", rt, ra, R0, XoNEG, false) }
func (a *Assembler) Mullw(rt, ra, rb Register) { a.x31("mullw", rt, ra, rb, XoMULLW, false) }
func (a *Assembler) Mulld(rt, ra, rb Register) { a.x31("mulld", rt, ra, rb, XoMULLD, false) }
func (a *Assembler) Divw(rt, ra, rb Register)  { a.x31("divw", rt, ra, rb, XoDIVW, false) }
func (a *Assembler) Divd(rt, ra, rb Register)  { a.x31("divd", rt, ra, rb, XoDIVD, false) }
func (a *Assembler) Divwu(rt, ra, rb Register) { a.x31("divwu", rt, ra, rb, XoDIVWU, false) }
func (a *Assembler) Divdu(rt, ra, rb Register) { a.x31("divdu", rt, ra, rb, XoDIVDU, false) }

// Logical operations. The source register comes before the destination in
// the encoding, but not in the operand order of these methods.

func (a *Assembler) Ori(ra, rs Register, ui int64)     { a.d("ori", OpORI, rs, ra, ui, false) }
func (a *Assembler) Oris(ra, rs Register, ui int64)    { a.d("oris", OpORIS, rs, ra, ui, false) }
func (a *Assembler) Xori(ra, rs Register, ui int64)    { a.d("xori", OpXORI, rs, ra, ui, false) }
func (a *Assembler) Xoris(ra, rs Register, ui int64)   { a.d("xoris", OpXORIS, rs, ra, ui, false) }
func (a *Assembler) AndiDot(ra, rs Register, ui int64) { a.d("andi.", OpANDI, rs, ra, ui, false) }
func (a *Assembler) Or(ra, rs, rb Register)            { a.x31("or", rs, ra, rb, XoOR, false) }
func (a *Assembler) And(ra, rs, rb Register)           { a.x31("and", rs, ra, rb, XoAND, false) }
func (a *Assembler) Andc(ra, rs, rb Register)          { a.x31("andc", rs, ra, rb, XoANDC, false) }
func (a *Assembler) Xor(ra, rs, rb Register)           { a.x31("xor", rs, ra, rb, XoXOR, false) }
func (a *Assembler) Nor(ra, rs, rb Register)           { a.x31("nor", rs, ra, rb, XoNOR, false) }
func (a *Assembler) Extsb(ra, rs Register)             { a.x31("extsb", rs, ra, R0, XoEXTSB, false) }
func (a *Assembler) Extsh(ra, rs Register)             { a.x31("extsh", rs, ra, R0, XoEXTSH, false) }
func (a *Assembler) Extsw(ra, rs Register)             { a.x31("extsw", rs, ra, R0, XoEXTSW, false) }
func (a *Assembler) Cntlzw(ra, rs Register)            { a.x31("cntlzw", rs, ra, R0, XoCNTLZW, false) }
func (a *Assembler) Cntlzd(ra, rs Register)            { a.x31("cntlzd", rs, ra, R0, XoCNTLZD, false) }

// Loads and stores.

func (a *Assembler) mem(op string, opcode int64, r Register, addr Address) {
	a.d(op, opcode, r, addr.Base, addr.Displacement, true)
}

func (a *Assembler) memDS(op string, opcode, xo int64, r Register, addr Address) {
	a.emit(encodeDS(op, opcode, r.encoding(), addr.Base.encoding(), addr.Displacement, xo))
}

func (a *Assembler) Lbz(rt Register, addr Address)  { a.mem("lbz", OpLBZ, rt, addr) }
func (a *Assembler) Lhz(rt Register, addr Address)  { a.mem("lhz", OpLHZ, rt, addr) }
func (a *Assembler) Lha(rt Register, addr Address)  { a.mem("lha", OpLHA, rt, addr) }
func (a *Assembler) Lwz(rt Register, addr Address)  { a.mem("lwz", OpLWZ, rt, addr) }
func (a *Assembler) Stb(rs Register, addr Address)  { a.mem("stb", OpSTB, rs, addr) }
func (a *Assembler) Sth(rs Register, addr Address)  { a.mem("sth", OpSTH, rs, addr) }
func (a *Assembler) Stw(rs Register, addr Address)  { a.mem("stw", OpSTW, rs, addr) }
func (a *Assembler) Stwu(rs Register, addr Address) { a.mem("stwu", OpSTWU, rs, addr) }
func (a *Assembler) Lwa(rt Register, addr Address)  { a.memDS("lwa", OpDSLoad, XoLWA, rt, addr) }
func (a *Assembler) Ld(rt Register, addr Address)   { a.memDS("ld", OpDSLoad, XoLD, rt, addr) }
func (a *Assembler) Std(rs Register, addr Address)  { a.memDS("std", OpDSStor, XoSTD, rs, addr) }
func (a *Assembler) Stdu(rs Register, addr Address) { a.memDS("stdu", OpDSStor, XoSTDU, rs, addr) }

func (a *Assembler) Lbzx(rt, ra, rb Register) { a.x31("lbzx", rt, ra, rb, XoLBZX, false) }
func (a *Assembler) Lhzx(rt, ra, rb Register) { a.x31("lhzx", rt, ra, rb, XoLHZX, false) }
func (a *Assembler) Lwzx(rt, ra, rb Register) { a.x31("lwzx", rt, ra, rb, XoLWZX, false) }
func (a *Assembler) Lwax(rt, ra, rb Register) { a.x31("lwax", rt, ra, rb, XoLWAX, false) }
func (a *Assembler) Ldx(rt, ra, rb Register)  { a.x31("ldx", rt, ra, rb, XoLDX, false) }
func (a *Assembler) Stbx(rs, ra, rb Register) { a.x31("stbx", rs, ra, rb, XoSTBX, false) }
func (a *Assembler) Stwx(rs, ra, rb Register) { a.x31("stwx", rs, ra, rb, XoSTWX, false) }
func (a *Assembler) Stdx(rs, ra, rb Register) { a.x31("stdx", rs, ra, rb, XoSTDX, false) }

func (a *Assembler) fmem(op string, opcode int64, f FloatRegister, addr Address) {
	a.emit(encodeD(op, opcode, f.encoding(), addr.Base.encoding(), addr.Displacement, true))
}

func (a *Assembler) Lfs(ft FloatRegister, addr Address)  { a.fmem("lfs", OpLFS, ft, addr) }
func (a *Assembler) Lfd(ft FloatRegister, addr Address)  { a.fmem("lfd", OpLFD, ft, addr) }
func (a *Assembler) Stfs(fs FloatRegister, addr Address) { a.fmem("stfs", OpSTFS, fs, addr) }
func (a *Assembler) Stfd(fs FloatRegister, addr Address) { a.fmem("stfd", OpSTFD, fs, addr) }

func (a *Assembler) Lfdx(ft FloatRegister, ra, rb Register) {
	a.emit(encodeX("lfdx", OpX, ft.encoding(), ra.encoding(), rb.encoding(), XoLFDX, false))
}

func (a *Assembler) Stfdx(fs FloatRegister, ra, rb Register) {
	a.emit(encodeX("stfdx", OpX, fs.encoding(), ra.encoding(), rb.encoding(), XoSTFDX, false))
}

// Compares. The word forms clear the L bit and the doubleword forms set it.

func (a *Assembler) cmp(op string, cr ConditionRegister, l int64, ra, rb Register, xo int64) {
	a.emit(encodeX(op, OpX, bf(cr, l), ra.encoding(), rb.encoding(), xo, false))
}

func (a *Assembler) cmpi(op string, opcode int64, cr ConditionRegister, l int64, ra Register, imm int64, signed bool) {
	a.emit(encodeD(op, opcode, bf(cr, l), ra.encoding(), imm, signed))
}

func (a *Assembler) Cmpw(cr ConditionRegister, ra, rb Register)  { a.cmp("cmpw", cr, 0, ra, rb, XoCMP) }
func (a *Assembler) Cmpd(cr ConditionRegister, ra, rb Register)  { a.cmp("cmpd", cr, 1, ra, rb, XoCMP) }
func (a *Assembler) Cmplw(cr ConditionRegister, ra, rb Register) { a.cmp("cmplw", cr, 0, ra, rb, XoCMPL) }
func (a *Assembler) Cmpld(cr ConditionRegister, ra, rb Register) { a.cmp("cmpld", cr, 1, ra, rb, XoCMPL) }

func (a *Assembler) Cmpwi(cr ConditionRegister, ra Register, si int64) {
	a.cmpi("cmpwi", OpCMPI, cr, 0, ra, si, true)
}

func (a *Assembler) Cmpdi(cr ConditionRegister, ra Register, si int64) {
	a.cmpi("cmpdi", OpCMPI, cr, 1, ra, si, true)
}

func (a *Assembler) Cmplwi(cr ConditionRegister, ra Register, ui int64) {
	a.cmpi("cmplwi", OpCMPLI, cr, 0, ra, ui, false)
}

func (a *Assembler) Cmpldi(cr ConditionRegister, ra Register, ui int64) {
	a.cmpi("cmpldi", OpCMPLI, cr, 1, ra, ui, false)
}

// Rotates and shifts.

func (a *Assembler) Rlwinm(ra, rs Register, sh, mb, me int64) {
	a.emit(encodeRotate("rlwinm", OpRLWINM, rs.encoding(), ra.encoding(), sh, mb, me, false))
}

func (a *Assembler) Rldicl(ra, rs Register, sh, mb int64) {
	a.emit(encodeRotate("rldicl", OpMD, rs.encoding(), ra.encoding(), sh, mb, XoRLDICL, false))
}

func (a *Assembler) Rldicr(ra, rs Register, sh, me int64) {
	a.emit(encodeRotate("rldicr", OpMD, rs.encoding(), ra.encoding(), sh, me, XoRLDICR, false))
}

func (a *Assembler) Rldic(ra, rs Register, sh, mb int64) {
	a.emit(encodeRotate("rldic", OpMD, rs.encoding(), ra.encoding(), sh, mb, XoRLDIC, false))
}

// Slwi is rlwinm ra, rs, n, 0, 31-n.
func (a *Assembler) Slwi(ra, rs Register, n int64) {
	checkShift("slwi", n, 31)
	a.Rlwinm(ra, rs, n, 0, 31-n)
}

// Srwi is rlwinm ra, rs, 32-n, n, 31.
func (a *Assembler) Srwi(ra, rs Register, n int64) {
	checkShift("srwi", n, 31)
	a.Rlwinm(ra, rs, (32-n)&31, n, 31)
}

// Sldi is rldicr ra, rs, n, 63-n.
func (a *Assembler) Sldi(ra, rs Register, n int64) {
	checkShift("sldi", n, 63)
	a.Rldicr(ra, rs, n, 63-n)
}

// Srdi is rldicl ra, rs, 64-n, n.
func (a *Assembler) Srdi(ra, rs Register, n int64) {
	checkShift("srdi", n, 63)
	a.Rldicl(ra, rs, (64-n)&63, n)
}

// Clrldi clears the high n bits: rldicl ra, rs, 0, n.
func (a *Assembler) Clrldi(ra, rs Register, n int64) {
	checkShift("clrldi", n, 63)
	a.Rldicl(ra, rs, 0, n)
}

func (a *Assembler) Srawi(ra, rs Register, n int64) {
	checkShift("srawi", n, 31)
	a.emit(encodeX("srawi", OpX, rs.encoding(), ra.encoding(), n, XoSRAWI, false))
}

// Sradi is XS-form: bit 5 of the shift amount lands in the low bit of the extended opcode.
func (a *Assembler) Sradi(ra, rs Register, n int64) {
	checkShift("sradi", n, 63)
	a.emit(encodeX("sradi", OpX, rs.encoding(), ra.encoding(), n&0x1f, XoSRADI|n>>5, false))
}

func (a *Assembler) Slw(ra, rs, rb Register)  { a.x31("slw", rs, ra, rb, XoSLW, false) }
func (a *Assembler) Srw(ra, rs, rb Register)  { a.x31("srw", rs, ra, rb, XoSRW, false) }
func (a *Assembler) Sraw(ra, rs, rb Register) { a.x31("sraw", rs, ra, rb, XoSRAW, false) }
func (a *Assembler) Sld(ra, rs, rb Register)  { a.x31("sld", rs, ra, rb, XoSLD, false) }
func (a *Assembler) Srd(ra, rs, rb Register)  { a.x31("srd", rs, ra, rb, XoSRD, false) }
func (a *Assembler) Srad(ra, rs, rb Register) { a.x31("srad", rs, ra, rb, XoSRAD, false) }

// Branches.

// Condition is a branch condition on one condition register field.
type Condition byte

const (
	CondEQ Condition = iota
	CondNE
	CondLT
	CondGE
	CondGT
	CondLE
)

// bo returns the BO and condition bit testing c.
func (c Condition) bo() (int64, ConditionBit) {
	switch c {
	case CondEQ:
		return BOTrue, BitEQ
	case CondNE:
		return BOFalse, BitEQ
	case CondLT:
		return BOTrue, BitLT
	case CondGE:
		return BOFalse, BitLT
	case CondGT:
		return BOTrue, BitGT
	case CondLE:
		return BOFalse, BitGT
	}
	panic(fmt.Errorf("BUG: unknown condition %d", c))
}

// String implements fmt.Stringer.
func (c Condition) String() string {
	switch c {
	case CondEQ:
		return "eq"
	case CondNE:
		return "ne"
	case CondLT:
		return "lt"
	case CondGE:
		return "ge"
	case CondGT:
		return "gt"
	case CondLE:
		return "le"
	}
	return fmt.Sprintf("cond(%d)", byte(c))
}

// Negate returns the condition which holds exactly when c does not.
func (c Condition) Negate() Condition {
	return c ^ 1
}

// B emits an unconditional branch to l.
func (a *Assembler) B(l Label) {
	a.branchToLabel(l, FormI, func(disp int64) (uint32, error) {
		return encodeI("b", OpB, disp, false, false)
	})
}

// Bl emits a branch to l which saves the return address in LR.
func (a *Assembler) Bl(l Label) {
	a.branchToLabel(l, FormI, func(disp int64) (uint32, error) {
		return encodeI("bl", OpB, disp, false, true)
	})
}

// Bc emits a conditional branch to l with raw BO and BI operands.
func (a *Assembler) Bc(bo, bi int64, l Label) {
	a.branchToLabel(l, FormB, func(disp int64) (uint32, error) {
		return encodeB("bc", OpBC, bo, bi, disp, false, false)
	})
}

// BranchCond emits a branch to l taken when c holds in cr.
func (a *Assembler) BranchCond(cr ConditionRegister, c Condition, l Label) {
	bo, bit := c.bo()
	a.Bc(bo, cr.Bit(bit), l)
}

func (a *Assembler) Beq(l Label) { a.BranchCond(CR0, CondEQ, l) }
func (a *Assembler) Bne(l Label) { a.BranchCond(CR0, CondNE, l) }
func (a *Assembler) Blt(l Label) { a.BranchCond(CR0, CondLT, l) }
func (a *Assembler) Bge(l Label) { a.BranchCond(CR0, CondGE, l) }
func (a *Assembler) Bgt(l Label) { a.BranchCond(CR0, CondGT, l) }
func (a *Assembler) Ble(l Label) { a.BranchCond(CR0, CondLE, l) }

// BOffset emits an unconditional branch by a byte displacement relative to itself.
func (a *Assembler) BOffset(disp int64) {
	d, err := BranchTarget(0, disp, 24)
	if err != nil {
		panic(err)
	}
	a.emit(encodeI("b", OpB, d, false, false))
}

// BlOffset is BOffset which also saves the return address in LR.
func (a *Assembler) BlOffset(disp int64) {
	d, err := BranchTarget(0, disp, 24)
	if err != nil {
		panic(err)
	}
	a.emit(encodeI("bl", OpB, d, false, true))
}

// BcOffset emits a conditional branch by a byte displacement relative to itself.
func (a *Assembler) BcOffset(bo, bi, disp int64) {
	d, err := BranchTarget(0, disp, 14)
	if err != nil {
		panic(err)
	}
	a.emit(encodeB("bc", OpBC, bo, bi, d, false, false))
}

// BranchCondOffset is BranchCond with a byte displacement instead of a label.
func (a *Assembler) BranchCondOffset(cr ConditionRegister, c Condition, disp int64) {
	bo, bit := c.bo()
	a.BcOffset(bo, cr.Bit(bit), disp)
}

func (a *Assembler) xl(op string, bo, bi, xo int64, lk bool) {
	a.emit(encodeX(op, OpXL, bo, bi, 0, xo, lk))
}

func (a *Assembler) Blr()   { a.xl("blr", BOAlways, 0, XoBCLR, false) }
func (a *Assembler) Bctr()  { a.xl("bctr", BOAlways, 0, XoBCCTR, false) }
func (a *Assembler) Bctrl() { a.xl("bctrl", BOAlways, 0, XoBCCTR, true) }
func (a *Assembler) Isync() { a.xl("isync", 0, 0, XoISYNC, false) }

// Special purpose and condition register moves.

// Mfspr emits mfspr rt, spr. The ten-bit SPR number is encoded with its two
// five-bit halves swapped.
func (a *Assembler) Mfspr(rt Register, spr SpecialRegister) {
	s := int64(spr)
	a.emit(encodeX("mfspr", OpX, rt.encoding(), s&0x1f, s>>5, XoMFSPR, false))
}

func (a *Assembler) Mtspr(spr SpecialRegister, rs Register) {
	s := int64(spr)
	a.emit(encodeX("mtspr", OpX, rs.encoding(), s&0x1f, s>>5, XoMTSPR, false))
}

func (a *Assembler) Mflr(rt Register)  { a.Mfspr(rt, LR) }
func (a *Assembler) Mtlr(rs Register)  { a.Mtspr(LR, rs) }
func (a *Assembler) Mfctr(rt Register) { a.Mfspr(rt, CTR) }
func (a *Assembler) Mtctr(rs Register) { a.Mtspr(CTR, rs) }
func (a *Assembler) Mfcr(rt Register)  { a.x31("mfcr", rt, R0, R0, XoMFCR, false) }

// Mtcrf copies the fields of rs selected by the 8-bit mask fxm into the
// condition register. The most significant mask bit selects cr0.
func (a *Assembler) Mtcrf(fxm int64, rs Register) {
	if !fitsUnsigned(fxm, 8) {
		panic(&EncodingError{Op: "mtcrf", Field: "FXM", Value: fxm, Bits: 8})
	}
	a.emit(encodeX("mtcrf", OpX, rs.encoding(), fxm>>4, (fxm&0xf)<<1, XoMTCRF, false))
}

// Mtcr copies all of rs into the condition register.
func (a *Assembler) Mtcr(rs Register) { a.Mtcrf(0xff, rs) }

// Synchronization.

func (a *Assembler) Sync()                     { a.x31("sync", R0, R0, R0, XoSYNC, false) }
func (a *Assembler) Lwarx(rt, ra, rb Register) { a.x31("lwarx", rt, ra, rb, XoLWARX, false) }
func (a *Assembler) Ldarx(rt, ra, rb Register) { a.x31("ldarx", rt, ra, rb, XoLDARX, false) }
func (a *Assembler) Stwcx(rs, ra, rb Register) { a.x31("stwcx.", rs, ra, rb, XoSTWCX, true) }
func (a *Assembler) Stdcx(rs, ra, rb Register) { a.x31("stdcx.", rs, ra, rb, XoSTDCX, true) }

// Traps.

// Tw emits tw to, ra, rb.
func (a *Assembler) Tw(to int64, ra, rb Register) {
	a.emit(encodeX("tw", OpX, to, ra.encoding(), rb.encoding(), XoTW, false))
}

// Trap emits an unconditional trap.
func (a *Assembler) Trap() { a.Tw(TOAlways, R0, R0) }

// Floating point.

func (a *Assembler) fx(op string, ft, fa, fb FloatRegister, xo int64) {
	a.emit(encodeX(op, OpFP, ft.encoding(), fa.encoding(), fb.encoding(), xo, false))
}

// arith emits an A-form instruction; FRC occupies the top five bits of the X-form extended opcode.
func (a *Assembler) arith(op string, ft, fa, fb, fc FloatRegister, xo int64) {
	if !fc.IsValid() {
		panic(&EncodingError{Op: op, Field: "FRC", Value: fc.encoding(), Bits: 5})
	}
	a.emit(encodeX(op, OpFP, ft.encoding(), fa.encoding(), fb.encoding(), fc.encoding()<<5|xo, false))
}

func (a *Assembler) Fmr(ft, fb FloatRegister)      { a.fx("fmr", ft, F0, fb, XoFMR) }
func (a *Assembler) Fneg(ft, fb FloatRegister)     { a.fx("fneg", ft, F0, fb, XoFNEG) }
func (a *Assembler) Fadd(ft, fa, fb FloatRegister) { a.arith("fadd", ft, fa, fb, F0, XoFADD) }
func (a *Assembler) Fsub(ft, fa, fb FloatRegister) { a.arith("fsub", ft, fa, fb, F0, XoFSUB) }
func (a *Assembler) Fdiv(ft, fa, fb FloatRegister) { a.arith("fdiv", ft, fa, fb, F0, XoFDIV) }

// Fmul emits ft = fa * fc. The multiplier travels in the FRC field.
func (a *Assembler) Fmul(ft, fa, fc FloatRegister) { a.arith("fmul", ft, fa, F0, fc, XoFMUL) }

func (a *Assembler) Fcmpu(cr ConditionRegister, fa, fb FloatRegister) {
	a.emit(encodeX("fcmpu", OpFP, bf(cr, 0), fa.encoding(), fb.encoding(), XoFCMPU, false))
}
