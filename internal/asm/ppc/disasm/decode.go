package disasm

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/tetratelabs/ppcasm/internal/asm"
	"github.com/tetratelabs/ppcasm/internal/asm/ppc"
)

// entry matches the words w with w&mask == value.
type entry struct {
	mnemonic string
	value    uint32
	mask     uint32
	args     func(w uint32, pc int64) []Arg
}

// Masks of the instruction forms: the primary opcode plus the bits each form
// reserves for its extended opcode and record bit.
const (
	maskD    = 0xfc000000
	maskDS   = 0xfc000003
	maskI    = 0xfc000003
	maskB    = 0xfc000003
	maskX    = 0xfc0007ff
	maskXNoB = 0xfc00ffff // X-form with RB reserved
	maskXRT  = 0xfc1fffff // X-form with RA and RB reserved
	maskXFT  = 0xfc1f07ff // X-form with FRA reserved
	maskXS   = 0xfc0007fd // sh[5] travels in bit 1
	maskM    = 0xfc000001
	maskMD   = 0xfc00001d // sh[5] travels in bit 1
	maskCmp  = 0xfc6007ff // L and the reserved bit next to BF
	maskCmpi = 0xfc600000
	maskA    = 0xfc00f83f // A-form with FRB unused
	exact    = 0xffffffff
)

func primary(op uint32) uint32        { return op << 26 }
func xform(op, xo uint32) uint32      { return op<<26 | xo<<1 }
func dsform(op, xo uint32) uint32     { return op<<26 | xo }
func mdform(xo uint32) uint32         { return ppc.OpMD<<26 | xo<<2 }
func cmpform(op, xo, l uint32) uint32 { return op<<26 | l<<21 | xo<<1 }

// Fields, numbered from the most significant five-bit register field.
func f1(w uint32) uint32 { return w >> 21 & 0x1f }
func f2(w uint32) uint32 { return w >> 16 & 0x1f }
func f3(w uint32) uint32 { return w >> 11 & 0x1f }
func si(w uint32) int64  { return signExtend(w&0xffff, 16) }
func ui(w uint32) int64  { return int64(w & 0xffff) }

func signExtend(v uint32, bits uint) int64 {
	shift := 64 - bits
	return int64(uint64(v)<<shift) >> shift
}

// Operand layouts. The names list the operands in printed order.

func rtRaSi(w uint32, _ int64) []Arg { return []Arg{reg(f1(w)), reg(f2(w)), imm(si(w))} }
func raRsUi(w uint32, _ int64) []Arg { return []Arg{reg(f2(w)), reg(f1(w)), imm(ui(w))} }
func rtRaRb(w uint32, _ int64) []Arg { return []Arg{reg(f1(w)), reg(f2(w)), reg(f3(w))} }
func raRsRb(w uint32, _ int64) []Arg { return []Arg{reg(f2(w)), reg(f1(w)), reg(f3(w))} }
func rtRa(w uint32, _ int64) []Arg   { return []Arg{reg(f1(w)), reg(f2(w))} }
func raRs(w uint32, _ int64) []Arg   { return []Arg{reg(f2(w)), reg(f1(w))} }
func rt(w uint32, _ int64) []Arg     { return []Arg{reg(f1(w))} }
func rtMem(w uint32, _ int64) []Arg  { return []Arg{reg(f1(w)), mem(si(w), f2(w))} }
func ftMem(w uint32, _ int64) []Arg  { return []Arg{freg(f1(w)), mem(si(w), f2(w))} }
func ftRaRb(w uint32, _ int64) []Arg { return []Arg{freg(f1(w)), reg(f2(w)), reg(f3(w))} }
func ftFaFb(w uint32, _ int64) []Arg { return []Arg{freg(f1(w)), freg(f2(w)), freg(f3(w))} }
func ftFb(w uint32, _ int64) []Arg   { return []Arg{freg(f1(w)), freg(f3(w))} }
func crRaRb(w uint32, _ int64) []Arg { return []Arg{cr(f1(w) >> 2), reg(f2(w)), reg(f3(w))} }
func crRaSi(w uint32, _ int64) []Arg { return []Arg{cr(f1(w) >> 2), reg(f2(w)), imm(si(w))} }
func crRaUi(w uint32, _ int64) []Arg { return []Arg{cr(f1(w) >> 2), reg(f2(w)), imm(ui(w))} }
func crFaFb(w uint32, _ int64) []Arg { return []Arg{cr(f1(w) >> 2), freg(f2(w)), freg(f3(w))} }
func boBi(w uint32, _ int64) []Arg   { return []Arg{imm(int64(f1(w))), imm(int64(f2(w)))} }
func noArgs(uint32, int64) []Arg     { return nil }

// rtMemDS decodes a DS-form displacement, whose low two bits hold the sub-opcode.
func rtMemDS(w uint32, _ int64) []Arg {
	return []Arg{reg(f1(w)), mem(signExtend(w&0xfffc, 16), f2(w))}
}

// ftFaFc decodes fmul, whose multiplier is in the FRC field.
func ftFaFc(w uint32, _ int64) []Arg {
	return []Arg{freg(f1(w)), freg(f2(w)), freg(w >> 6 & 0x1f)}
}

func rlwinm(w uint32, _ int64) []Arg {
	return []Arg{reg(f2(w)), reg(f1(w)), imm(int64(f3(w))), imm(int64(w >> 6 & 0x1f)), imm(int64(w >> 1 & 0x1f))}
}

func md(w uint32, _ int64) []Arg {
	rs, ra, sh, m, _, _ := ppc.DecodeMD(w)
	return []Arg{reg(uint32(ra)), reg(uint32(rs)), imm(sh), imm(m)}
}

func srawi(w uint32, _ int64) []Arg {
	return []Arg{reg(f2(w)), reg(f1(w)), imm(int64(f3(w)))}
}

func sradi(w uint32, _ int64) []Arg {
	return []Arg{reg(f2(w)), reg(f1(w)), imm(int64(f3(w) | (w>>1&1)<<5))}
}

// spr reassembles the ten-bit SPR number, whose five-bit halves are swapped in the word.
func spr(w uint32) int64 {
	return int64(f2(w) | f3(w)<<5)
}

func mfspr(w uint32, _ int64) []Arg { return []Arg{reg(f1(w)), imm(spr(w))} }
func mtspr(w uint32, _ int64) []Arg { return []Arg{imm(spr(w)), reg(f1(w))} }

func mtcrf(w uint32, _ int64) []Arg {
	return []Arg{imm(int64(w >> 12 & 0xff)), reg(f1(w))}
}

func tw(w uint32, _ int64) []Arg {
	return []Arg{imm(int64(f1(w))), reg(f2(w)), reg(f3(w))}
}

func iform(w uint32, pc int64) []Arg {
	return []Arg{target(pc + signExtend(w&0x03fffffc, 26))}
}

func bform(w uint32, pc int64) []Arg {
	return []Arg{imm(int64(f1(w))), imm(int64(f2(w))), target(pc + signExtend(w&0xfffc, 16))}
}

// entries lists every instruction the assembler emits. Entries with
// stricter masks come first within a primary opcode.
var entries = []entry{
	{"sync", 0x7c0004ac, exact, noArgs},
	{"isync", 0x4c00012c, exact, noArgs},

	{"mulli", primary(ppc.OpMULLI), maskD, rtRaSi},
	{"subfic", primary(ppc.OpSUBFIC), maskD, rtRaSi},
	{"cmplwi", cmpform(ppc.OpCMPLI, 0, 0), maskCmpi, crRaUi},
	{"cmpldi", cmpform(ppc.OpCMPLI, 0, 1), maskCmpi, crRaUi},
	{"cmpwi", cmpform(ppc.OpCMPI, 0, 0), maskCmpi, crRaSi},
	{"cmpdi", cmpform(ppc.OpCMPI, 0, 1), maskCmpi, crRaSi},
	{"addi", primary(ppc.OpADDI), maskD, rtRaSi},
	{"addis", primary(ppc.OpADDIS), maskD, rtRaSi},
	{"bc", primary(ppc.OpBC), maskB, bform},
	{"bcl", primary(ppc.OpBC) | 1, maskB, bform},
	{"b", primary(ppc.OpB), maskI, iform},
	{"bl", primary(ppc.OpB) | 1, maskI, iform},
	{"bclr", xform(ppc.OpXL, ppc.XoBCLR), maskX, boBi},
	{"bcctr", xform(ppc.OpXL, ppc.XoBCCTR), maskX, boBi},
	{"bcctrl", xform(ppc.OpXL, ppc.XoBCCTR) | 1, maskX, boBi},
	{"rlwinm", primary(ppc.OpRLWINM), maskM, rlwinm},
	{"ori", primary(ppc.OpORI), maskD, raRsUi},
	{"oris", primary(ppc.OpORIS), maskD, raRsUi},
	{"xori", primary(ppc.OpXORI), maskD, raRsUi},
	{"xoris", primary(ppc.OpXORIS), maskD, raRsUi},
	{"andi.", primary(ppc.OpANDI), maskD, raRsUi},
	{"rldicl", mdform(ppc.XoRLDICL), maskMD, md},
	{"rldicr", mdform(ppc.XoRLDICR), maskMD, md},
	{"rldic", mdform(ppc.XoRLDIC), maskMD, md},

	{"cmpw", cmpform(ppc.OpX, ppc.XoCMP, 0), maskCmp, crRaRb},
	{"cmpd", cmpform(ppc.OpX, ppc.XoCMP, 1), maskCmp, crRaRb},
	{"cmplw", cmpform(ppc.OpX, ppc.XoCMPL, 0), maskCmp, crRaRb},
	{"cmpld", cmpform(ppc.OpX, ppc.XoCMPL, 1), maskCmp, crRaRb},
	{"tw", xform(ppc.OpX, ppc.XoTW), maskX, tw},
	{"mfcr", xform(ppc.OpX, ppc.XoMFCR), maskXRT, rt},
	{"lwarx", xform(ppc.OpX, ppc.XoLWARX), maskX, rtRaRb},
	{"ldx", xform(ppc.OpX, ppc.XoLDX), maskX, rtRaRb},
	{"lwzx", xform(ppc.OpX, ppc.XoLWZX), maskX, rtRaRb},
	{"slw", xform(ppc.OpX, ppc.XoSLW), maskX, raRsRb},
	{"cntlzw", xform(ppc.OpX, ppc.XoCNTLZW), maskXNoB, raRs},
	{"sld", xform(ppc.OpX, ppc.XoSLD), maskX, raRsRb},
	{"and", xform(ppc.OpX, ppc.XoAND), maskX, raRsRb},
	{"subf", xform(ppc.OpX, ppc.XoSUBF), maskX, rtRaRb},
	{"cntlzd", xform(ppc.OpX, ppc.XoCNTLZD), maskXNoB, raRs},
	{"andc", xform(ppc.OpX, ppc.XoANDC), maskX, raRsRb},
	{"ldarx", xform(ppc.OpX, ppc.XoLDARX), maskX, rtRaRb},
	{"lbzx", xform(ppc.OpX, ppc.XoLBZX), maskX, rtRaRb},
	{"neg", xform(ppc.OpX, ppc.XoNEG), maskXNoB, rtRa},
	{"nor", xform(ppc.OpX, ppc.XoNOR), maskX, raRsRb},
	{"mtcrf", xform(ppc.OpX, ppc.XoMTCRF), maskX, mtcrf},
	{"stdx", xform(ppc.OpX, ppc.XoSTDX), maskX, rtRaRb},
	{"stwcx.", xform(ppc.OpX, ppc.XoSTWCX) | 1, maskX, rtRaRb},
	{"stwx", xform(ppc.OpX, ppc.XoSTWX), maskX, rtRaRb},
	{"stdux", xform(ppc.OpX, ppc.XoSTDUX), maskX, rtRaRb},
	{"stwux", xform(ppc.OpX, ppc.XoSTWUX), maskX, rtRaRb},
	{"stdcx.", xform(ppc.OpX, ppc.XoSTDCX) | 1, maskX, rtRaRb},
	{"stbx", xform(ppc.OpX, ppc.XoSTBX), maskX, rtRaRb},
	{"mulld", xform(ppc.OpX, ppc.XoMULLD), maskX, rtRaRb},
	{"mullw", xform(ppc.OpX, ppc.XoMULLW), maskX, rtRaRb},
	{"add", xform(ppc.OpX, ppc.XoADD), maskX, rtRaRb},
	{"lhzx", xform(ppc.OpX, ppc.XoLHZX), maskX, rtRaRb},
	{"xor", xform(ppc.OpX, ppc.XoXOR), maskX, raRsRb},
	{"mfspr", xform(ppc.OpX, ppc.XoMFSPR), maskX, mfspr},
	{"lwax", xform(ppc.OpX, ppc.XoLWAX), maskX, rtRaRb},
	{"or", xform(ppc.OpX, ppc.XoOR), maskX, raRsRb},
	{"divdu", xform(ppc.OpX, ppc.XoDIVDU), maskX, rtRaRb},
	{"divwu", xform(ppc.OpX, ppc.XoDIVWU), maskX, rtRaRb},
	{"mtspr", xform(ppc.OpX, ppc.XoMTSPR), maskX, mtspr},
	{"divd", xform(ppc.OpX, ppc.XoDIVD), maskX, rtRaRb},
	{"divw", xform(ppc.OpX, ppc.XoDIVW), maskX, rtRaRb},
	{"srw", xform(ppc.OpX, ppc.XoSRW), maskX, raRsRb},
	{"srd", xform(ppc.OpX, ppc.XoSRD), maskX, raRsRb},
	{"lfdx", xform(ppc.OpX, ppc.XoLFDX), maskX, ftRaRb},
	{"stfdx", xform(ppc.OpX, ppc.XoSTFDX), maskX, ftRaRb},
	{"sraw", xform(ppc.OpX, ppc.XoSRAW), maskX, raRsRb},
	{"srad", xform(ppc.OpX, ppc.XoSRAD), maskX, raRsRb},
	{"srawi", xform(ppc.OpX, ppc.XoSRAWI), maskX, srawi},
	{"sradi", xform(ppc.OpX, ppc.XoSRADI), maskXS, sradi},
	{"extsh", xform(ppc.OpX, ppc.XoEXTSH), maskXNoB, raRs},
	{"extsb", xform(ppc.OpX, ppc.XoEXTSB), maskXNoB, raRs},
	{"extsw", xform(ppc.OpX, ppc.XoEXTSW), maskXNoB, raRs},

	{"lwz", primary(ppc.OpLWZ), maskD, rtMem},
	{"lbz", primary(ppc.OpLBZ), maskD, rtMem},
	{"stw", primary(ppc.OpSTW), maskD, rtMem},
	{"stwu", primary(ppc.OpSTWU), maskD, rtMem},
	{"stb", primary(ppc.OpSTB), maskD, rtMem},
	{"lhz", primary(ppc.OpLHZ), maskD, rtMem},
	{"lha", primary(ppc.OpLHA), maskD, rtMem},
	{"sth", primary(ppc.OpSTH), maskD, rtMem},
	{"lfs", primary(ppc.OpLFS), maskD, ftMem},
	{"lfd", primary(ppc.OpLFD), maskD, ftMem},
	{"stfs", primary(ppc.OpSTFS), maskD, ftMem},
	{"stfd", primary(ppc.OpSTFD), maskD, ftMem},
	{"ld", dsform(ppc.OpDSLoad, ppc.XoLD), maskDS, rtMemDS},
	{"lwa", dsform(ppc.OpDSLoad, ppc.XoLWA), maskDS, rtMemDS},
	{"std", dsform(ppc.OpDSStor, ppc.XoSTD), maskDS, rtMemDS},
	{"stdu", dsform(ppc.OpDSStor, ppc.XoSTDU), maskDS, rtMemDS},

	{"fcmpu", cmpform(ppc.OpFP, ppc.XoFCMPU, 0), maskCmp, crFaFb},
	{"fdiv", xform(ppc.OpFP, ppc.XoFDIV), maskX, ftFaFb},
	{"fsub", xform(ppc.OpFP, ppc.XoFSUB), maskX, ftFaFb},
	{"fadd", xform(ppc.OpFP, ppc.XoFADD), maskX, ftFaFb},
	{"fmul", xform(ppc.OpFP, ppc.XoFMUL), maskA, ftFaFc},
	{"fneg", xform(ppc.OpFP, ppc.XoFNEG), maskXFT, ftFb},
	{"fmr", xform(ppc.OpFP, ppc.XoFMR), maskXFT, ftFb},
}

// byOpcode indexes entries by primary opcode.
var byOpcode [64][]*entry

func init() {
	for i := range entries {
		e := &entries[i]
		if e.value&^e.mask != 0 {
			panic(fmt.Errorf("BUG: %s: value 0x%08x has bits outside mask 0x%08x", e.mnemonic, e.value, e.mask))
		}
		op := e.value >> 26
		byOpcode[op] = append(byOpcode[op], e)
	}
}

// Decode decodes a single instruction word located at pc. Words which match
// no known instruction decode to the ".long" directive.
func Decode(word uint32, pc int64) Inst {
	for _, e := range byOpcode[word>>26] {
		if word&e.mask == e.value {
			inst := Inst{Op: e.mnemonic, Base: e.mnemonic, Args: e.args(word, pc), Word: word, PC: pc}
			simplify(&inst)
			return inst
		}
	}
	return Inst{Op: ".long", Args: []Arg{imm(int64(word))}, Word: word, PC: pc}
}

// Line formats the word at pc as a listing line: address, the four bytes as
// laid out in memory, and the decoded instruction.
func Line(pc int64, word uint32, order binary.ByteOrder) string {
	var b [asm.InstructionWidth]byte
	order.PutUint32(b[:], word)
	return fmt.Sprintf("%08x:  %02x %02x %02x %02x  %s", pc, b[0], b[1], b[2], b[3], Decode(word, pc))
}

// Disassemble writes one listing line per instruction word of code, which is
// loaded at base.
func Disassemble(w io.Writer, code []byte, base int64, order binary.ByteOrder) error {
	return disassemble(w, code, base, order, func(pc int64, word uint32) string {
		return Line(pc, word, order)
	})
}

// DisassembleGo is like Disassemble but prints each instruction in Go
// assembler syntax after its address.
func DisassembleGo(w io.Writer, code []byte, base int64, order binary.ByteOrder) error {
	return disassemble(w, code, base, order, func(pc int64, word uint32) string {
		return fmt.Sprintf("%08x:  %s", pc, GoSyntax(Decode(word, pc)))
	})
}

func disassemble(w io.Writer, code []byte, base int64, order binary.ByteOrder, line func(pc int64, word uint32) string) error {
	if n := len(code) % asm.InstructionWidth; n != 0 {
		return fmt.Errorf("%d trailing byte(s) at %#x", n, base+int64(len(code)-n))
	}
	for off := 0; off < len(code); off += asm.InstructionWidth {
		pc := base + int64(off)
		if _, err := fmt.Fprintln(w, line(pc, order.Uint32(code[off:]))); err != nil {
			return err
		}
	}
	return nil
}
