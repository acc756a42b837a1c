package ppc

import "fmt"

// fitsUnsigned reports whether v has no bit set outside the low `bits` bits.
func fitsUnsigned(v int64, bits uint) bool {
	return v >= 0 && v>>bits == 0
}

// fitsSigned reports whether v is representable in a two's complement field
// of the given width: every bit above the field's sign bit must be a copy of it.
func fitsSigned(v int64, bits uint) bool {
	hi := v >> (bits - 1)
	return hi == 0 || hi == -1
}

func signExtend(v uint32, bits uint) int64 {
	shift := 64 - bits
	return int64(uint64(v)<<shift) >> shift
}

func boolBit(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// packer accumulates fields of a single instruction word, keeping the first
// range violation.
type packer struct {
	op   string
	word uint32
	err  error
}

func newPacker(op string, opcode int64) *packer {
	p := &packer{op: op}
	p.unsigned("opcode", opcode, 6, 26)
	return p
}

// check records an error if v does not fit an unsigned field of `bits` bits.
func (p *packer) check(field string, v int64, bits uint) {
	if p.err == nil && !fitsUnsigned(v, bits) {
		p.err = &EncodingError{Op: p.op, Field: field, Value: v, Bits: bits}
	}
}

// unsigned places v at the given shift after checking it fits `bits` bits.
func (p *packer) unsigned(field string, v int64, bits, shift uint) {
	p.check(field, v, bits)
	if p.err == nil {
		p.word |= uint32(v) << shift
	}
}

// signed places the low `bits` bits of v at the given shift after checking v
// is representable as a signed field of that width.
func (p *packer) signed(field string, v int64, bits, shift uint) {
	if p.err != nil {
		return
	}
	if !fitsSigned(v, bits) {
		p.err = &EncodingError{Op: p.op, Field: field, Value: v, Bits: bits, Signed: true}
		return
	}
	p.word |= (uint32(v) & (1<<bits - 1)) << shift
}

// immediate is signed for D and DS fields, which also take the unsigned range
// of the same width so that 0xffff and -1 encode identically.
func (p *packer) immediate(field string, v int64, bits, shift uint) {
	if p.err == nil && fitsUnsigned(v, bits) {
		p.word |= uint32(v) << shift
		return
	}
	p.signed(field, v, bits, shift)
}

func (p *packer) bit(b bool, shift uint) {
	p.word |= boolBit(b) << shift
}

func (p *packer) result() (uint32, error) {
	if p.err != nil {
		return 0, p.err
	}
	return p.word, nil
}

func opName(opcode int64) string {
	return fmt.Sprintf("opcode %d", opcode)
}

// EncodeI packs an I-form word: opcode(6) | LI(24) | AA | LK.
// li is the signed word displacement.
func EncodeI(opcode, li int64, aa, lk bool) (uint32, error) {
	return encodeI(opName(opcode), opcode, li, aa, lk)
}

func encodeI(op string, opcode, li int64, aa, lk bool) (uint32, error) {
	p := newPacker(op, opcode)
	p.signed("LI", li, 24, 2)
	p.bit(aa, 1)
	p.bit(lk, 0)
	return p.result()
}

// EncodeB packs a B-form word: opcode(6) | BO(5) | BI(5) | BD(14) | AA | LK.
// bd is the signed word displacement.
func EncodeB(opcode, bo, bi, bd int64, aa, lk bool) (uint32, error) {
	return encodeB(opName(opcode), opcode, bo, bi, bd, aa, lk)
}

func encodeB(op string, opcode, bo, bi, bd int64, aa, lk bool) (uint32, error) {
	p := newPacker(op, opcode)
	p.unsigned("BO", bo, 5, 21)
	p.unsigned("BI", bi, 5, 16)
	p.signed("BD", bd, 14, 2)
	p.bit(aa, 1)
	p.bit(lk, 0)
	return p.result()
}

// EncodeD packs a D-form word: opcode(6) | A(5) | B(5) | IMM(16).
// A signed immediate may also be given as its unsigned 16-bit pattern.
func EncodeD(opcode, a, b, imm int64, signed bool) (uint32, error) {
	return encodeD(opName(opcode), opcode, a, b, imm, signed)
}

func encodeD(op string, opcode, a, b, imm int64, signed bool) (uint32, error) {
	p := newPacker(op, opcode)
	p.unsigned("A", a, 5, 21)
	p.unsigned("B", b, 5, 16)
	if signed {
		p.immediate("IMM", imm, 16, 0)
	} else {
		p.unsigned("IMM", imm, 16, 0)
	}
	return p.result()
}

// EncodeDS packs a DS-form word: opcode(6) | A(5) | B(5) | DS(14) | XO(2).
// disp is a byte displacement which must be a multiple of four.
func EncodeDS(opcode, a, b, disp, xo int64) (uint32, error) {
	return encodeDS(opName(opcode), opcode, a, b, disp, xo)
}

func encodeDS(op string, opcode, a, b, disp, xo int64) (uint32, error) {
	if disp&3 != 0 {
		return 0, &EncodingError{Op: op, Field: "DS", Value: disp,
			Reason: fmt.Sprintf("displacement %d is not a multiple of 4", disp)}
	}
	p := newPacker(op, opcode)
	p.unsigned("A", a, 5, 21)
	p.unsigned("B", b, 5, 16)
	p.immediate("DS", disp>>2, 14, 2)
	p.unsigned("XO", xo, 2, 0)
	return p.result()
}

// EncodeX packs an X-form word: opcode(6) | A(5) | B(5) | C(5) | XO(10) | Rc.
func EncodeX(opcode, a, b, c, xo int64, rc bool) (uint32, error) {
	return encodeX(opName(opcode), opcode, a, b, c, xo, rc)
}

func encodeX(op string, opcode, a, b, c, xo int64, rc bool) (uint32, error) {
	p := newPacker(op, opcode)
	p.unsigned("A", a, 5, 21)
	p.unsigned("B", b, 5, 16)
	p.unsigned("C", c, 5, 11)
	p.unsigned("XO", xo, 10, 1)
	p.bit(rc, 0)
	return p.result()
}

// EncodeRotate packs the rotate-and-mask forms, selected by opcode:
//
//	21 (M-form):  opcode | RS | RA | SH(5) | MB(5) | ME(5) | Rc, where e is ME.
//	30 (MD-form): opcode | RS | RA | sh[0:4] | m[0:4] m[5] | XO(3) | sh[5] | Rc,
//	              where m is the 6-bit mask begin/end and e is XO.
//
// Any other opcode is an encoding error.
func EncodeRotate(opcode, rs, ra, sh, m, e int64, rc bool) (uint32, error) {
	return encodeRotate(opName(opcode), opcode, rs, ra, sh, m, e, rc)
}

func encodeRotate(op string, opcode, rs, ra, sh, m, e int64, rc bool) (uint32, error) {
	switch opcode {
	case OpRLWINM:
		p := newPacker(op, opcode)
		p.unsigned("RS", rs, 5, 21)
		p.unsigned("RA", ra, 5, 16)
		p.unsigned("SH", sh, 5, 11)
		p.unsigned("MB", m, 5, 6)
		p.unsigned("ME", e, 5, 1)
		p.bit(rc, 0)
		return p.result()
	case OpMD:
		p := newPacker(op, opcode)
		p.unsigned("RS", rs, 5, 21)
		p.unsigned("RA", ra, 5, 16)
		p.check("SH", sh, 6)
		p.check("M", m, 6)
		p.unsigned("XO", e, 3, 2)
		if p.err != nil {
			return 0, p.err
		}
		// Bit 5 of each 6-bit operand is relocated away from its low five bits.
		p.word |= uint32(sh&0x1f) << 11
		p.word |= uint32(sh>>5) << 1
		p.word |= (uint32(m&0x1f)<<1 | uint32(m>>5)) << 5
		p.bit(rc, 0)
		return p.result()
	default:
		return 0, &EncodingError{Op: op, Field: "opcode", Value: opcode,
			Reason: fmt.Sprintf("opcode %d is not a rotate form (want 21 or 30)", opcode)}
	}
}

// DecodeMD splits an MD-form word back into its operands. It is the inverse of
// EncodeRotate for opcode 30 and is shared with the disassembler.
func DecodeMD(w uint32) (rs, ra, sh, m, xo int64, rc bool) {
	rs = int64(w >> 21 & 0x1f)
	ra = int64(w >> 16 & 0x1f)
	sh = int64(w>>11&0x1f) | int64(w>>1&1)<<5
	field := w >> 5 & 0x3f
	m = int64(field>>1) | int64(field&1)<<5
	xo = int64(w >> 2 & 0x7)
	rc = w&1 == 1
	return
}
