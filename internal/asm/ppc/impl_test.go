package ppc

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestAssembler(target *Target) *Assembler {
	return NewAssembler(NewAssemblerConfig().WithTarget(target), nil)
}

// words finalizes a big-endian assembler and returns its instruction words.
func words(t *testing.T, a *Assembler) []uint32 {
	b := a.Finalize()
	require.Zero(t, len(b)%4)
	ret := make([]uint32, len(b)/4)
	for i := range ret {
		ret[i] = binary.BigEndian.Uint32(b[i*4:])
	}
	return ret
}

func TestAssembler_instructions(t *testing.T) {
	for _, tc := range []struct {
		name   string
		target *Target
		emit   func(a *Assembler)
		exp    uint32
	}{
		{name: "addi r3, r1, -8", emit: func(a *Assembler) { a.Addi(R3, R1, -8) }, exp: 0x3861fff8},
		{name: "add r3, r4, r5", emit: func(a *Assembler) { a.Add(R3, R4, R5) }, exp: 0x7c642a14},
		{name: "sub r3, r4, r5", emit: func(a *Assembler) { a.Sub(R3, R4, R5) }, exp: 0x7c652050},
		{name: "subf r3, r5, r4", emit: func(a *Assembler) { a.Subf(R3, R5, R4) }, exp: 0x7c652050},
		{name: "neg r3, r4", emit: func(a *Assembler) { a.Neg(R3, R4) }, exp: 0x7c6400d0},
		{name: "mr r3, r4", emit: func(a *Assembler) { a.Mr(R3, R4) }, exp: 0x7c832378},
		{name: "nop", emit: func(a *Assembler) { a.Nop() }, exp: 0x60000000},
		{name: "li r3, -1", emit: func(a *Assembler) { a.Li(R3, -1) }, exp: 0x3860ffff},
		{name: "lis r3, 0x1234", emit: func(a *Assembler) { a.Lis(R3, 0x1234) }, exp: 0x3c601234},
		{name: "ori r3, r3, 0x5678", emit: func(a *Assembler) { a.Ori(R3, R3, 0x5678) }, exp: 0x60635678},
		{name: "andi. r3, r4, 0xf", emit: func(a *Assembler) { a.AndiDot(R3, R4, 0xf) }, exp: 0x7083000f},
		{name: "extsw r3, r3", emit: func(a *Assembler) { a.Extsw(R3, R3) }, exp: 0x7c6307b4},
		{name: "blr", emit: func(a *Assembler) { a.Blr() }, exp: 0x4e800020},
		{name: "bctr", emit: func(a *Assembler) { a.Bctr() }, exp: 0x4e800420},
		{name: "bctrl", emit: func(a *Assembler) { a.Bctrl() }, exp: 0x4e800421},
		{name: "mflr r0", emit: func(a *Assembler) { a.Mflr(R0) }, exp: 0x7c0802a6},
		{name: "mtlr r0", emit: func(a *Assembler) { a.Mtlr(R0) }, exp: 0x7c0803a6},
		{name: "mfctr r0", emit: func(a *Assembler) { a.Mfctr(R0) }, exp: 0x7c0902a6},
		{name: "mtctr r3", emit: func(a *Assembler) { a.Mtctr(R3) }, exp: 0x7c6903a6},
		{name: "mfcr r0", emit: func(a *Assembler) { a.Mfcr(R0) }, exp: 0x7c000026},
		{name: "mtcrf 0xff, r0", emit: func(a *Assembler) { a.Mtcrf(0xff, R0) }, exp: 0x7c0ff120},
		{name: "mtcrf 0x08, r0", emit: func(a *Assembler) { a.Mtcrf(0x08, R0) }, exp: 0x7c008120},
		{name: "mtcr r0", emit: func(a *Assembler) { a.Mtcr(R0) }, exp: 0x7c0ff120},
		{name: "sync", emit: func(a *Assembler) { a.Sync() }, exp: 0x7c0004ac},
		{name: "isync", emit: func(a *Assembler) { a.Isync() }, exp: 0x4c00012c},
		{name: "lwarx r0, 0, r4", emit: func(a *Assembler) { a.Lwarx(R0, R0, R4) }, exp: 0x7c002028},
		{name: "ldarx r0, 0, r4", emit: func(a *Assembler) { a.Ldarx(R0, R0, R4) }, exp: 0x7c0020a8},
		{name: "stwcx. r5, 0, r4", emit: func(a *Assembler) { a.Stwcx(R5, R0, R4) }, exp: 0x7ca0212d},
		{name: "stdcx. r5, 0, r4", emit: func(a *Assembler) { a.Stdcx(R5, R0, R4) }, exp: 0x7ca021ad},
		{name: "cmpd cr0, r3, r4", emit: func(a *Assembler) { a.Cmpd(CR0, R3, R4) }, exp: 0x7c232000},
		{name: "cmpw cr7, r3, r4", emit: func(a *Assembler) { a.Cmpw(CR7, R3, R4) }, exp: 0x7f832000},
		{name: "cmpwi cr0, r3, 0", emit: func(a *Assembler) { a.Cmpwi(CR0, R3, 0) }, exp: 0x2c030000},
		{name: "cmpdi cr0, r3, -1", emit: func(a *Assembler) { a.Cmpdi(CR0, R3, -1) }, exp: 0x2c23ffff},
		{name: "cmplwi cr1, r3, 0xffff", emit: func(a *Assembler) { a.Cmplwi(CR1, R3, 0xffff) }, exp: 0x2883ffff},
		{name: "lwz r3, 8(r1)", emit: func(a *Assembler) { a.Lwz(R3, NewAddress(R1, 8)) }, exp: 0x80610008},
		{name: "stw r0, 4(r1)", emit: func(a *Assembler) { a.Stw(R0, NewAddress(R1, 4)) }, exp: 0x90010004},
		{name: "stwu r1, -16(r1)", emit: func(a *Assembler) { a.Stwu(R1, NewAddress(R1, -16)) }, exp: 0x9421fff0},
		{name: "ld r0, 16(r1)", emit: func(a *Assembler) { a.Ld(R0, NewAddress(R1, 16)) }, exp: 0xe8010010},
		{name: "std r0, 16(r1)", emit: func(a *Assembler) { a.Std(R0, NewAddress(R1, 16)) }, exp: 0xf8010010},
		{name: "stdu r1, -128(r1)", emit: func(a *Assembler) { a.Stdu(R1, NewAddress(R1, -128)) }, exp: 0xf821ff81},
		{name: "lwa r3, 8(r4)", emit: func(a *Assembler) { a.Lwa(R3, NewAddress(R4, 8)) }, exp: 0xe864000a},
		{name: "slwi r3, r4, 2", emit: func(a *Assembler) { a.Slwi(R3, R4, 2) }, exp: 0x5483103a},
		{name: "srwi r3, r4, 2", emit: func(a *Assembler) { a.Srwi(R3, R4, 2) }, exp: 0x5483f0be},
		{name: "sldi r3, r4, 32", emit: func(a *Assembler) { a.Sldi(R3, R4, 32) }, exp: 0x788307c6},
		{name: "srdi r3, r4, 8", emit: func(a *Assembler) { a.Srdi(R3, R4, 8) }, exp: 0x7883c202},
		{name: "clrldi r3, r3, 32", emit: func(a *Assembler) { a.Clrldi(R3, R3, 32) }, exp: 0x78630020},
		{name: "srawi r3, r4, 2", emit: func(a *Assembler) { a.Srawi(R3, R4, 2) }, exp: 0x7c831670},
		{name: "sradi r3, r4, 33", emit: func(a *Assembler) { a.Sradi(R3, R4, 33) }, exp: 0x7c830e76},
		{name: "trap", emit: func(a *Assembler) { a.Trap() }, exp: 0x7fe00008},
		{name: "fadd f1, f2, f3", emit: func(a *Assembler) { a.Fadd(F1, F2, F3) }, exp: 0xfc22182a},
		{name: "fmul f1, f2, f3", emit: func(a *Assembler) { a.Fmul(F1, F2, F3) }, exp: 0xfc2200f2},
		{name: "fmr f1, f2", emit: func(a *Assembler) { a.Fmr(F1, F2) }, exp: 0xfc201090},
		{name: "fcmpu cr0, f1, f2", emit: func(a *Assembler) { a.Fcmpu(CR0, F1, F2) }, exp: 0xfc011000},
		{name: "lfd f1, 8(r1)", emit: func(a *Assembler) { a.Lfd(F1, NewAddress(R1, 8)) }, exp: 0xc8210008},
		{name: "stfd f31, -8(r1)", emit: func(a *Assembler) { a.Stfd(F31, NewAddress(R1, -8)) }, exp: 0xdbe1fff8},
		{name: "bcl 20, 31, +4", emit: func(a *Assembler) { a.Mpclr() }, exp: 0x429f0005},
		{name: "b +8", emit: func(a *Assembler) { a.BOffset(8) }, exp: 0x48000008},
		{name: "bne -4", emit: func(a *Assembler) { a.BcOffset(BOFalse, 2, -4) }, exp: 0x4082fffc},
		{name: "unimplemented", emit: func(a *Assembler) { a.Unimplemented() }, exp: 0},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			target := tc.target
			if target == nil {
				target = PPC64
			}
			a := newTestAssembler(target)
			tc.emit(a)
			actual := words(t, a)
			require.Equal(t, 1, len(actual))
			require.Equal(t, tc.exp, actual[0], "%#08x != %#08x", tc.exp, actual[0])
		})
	}
}

func TestAssembler_errors(t *testing.T) {
	for _, tc := range []struct {
		name   string
		emit   func(a *Assembler)
		expErr string
	}{
		{
			name:   "immediate out of range",
			emit:   func(a *Assembler) { a.Addi(R3, R1, 70000) },
			expErr: "addi: IMM 70000 does not fit in 16-bit signed field",
		},
		{
			name:   "negative unsigned immediate",
			emit:   func(a *Assembler) { a.Ori(R3, R3, -1) },
			expErr: "ori: IMM -1 does not fit in 16-bit unsigned field",
		},
		{
			name:   "no register",
			emit:   func(a *Assembler) { a.Li(NoRegister, 0) },
			expErr: "li: A -1 does not fit in 5-bit unsigned field",
		},
		{
			name:   "unaligned ds displacement",
			emit:   func(a *Assembler) { a.Ld(R3, NewAddress(R1, 6)) },
			expErr: "ld: displacement 6 is not a multiple of 4",
		},
		{
			name:   "r0 base",
			emit:   func(a *Assembler) { a.Lwz(R3, NewAddress(R0, 0)) },
			expErr: "address: r0 cannot be used as a base register",
		},
		{
			name:   "slwi by 32",
			emit:   func(a *Assembler) { a.Slwi(R3, R4, 32) },
			expErr: "slwi: shift amount 32 out of range [0, 31]",
		},
		{
			name:   "sldi by 64",
			emit:   func(a *Assembler) { a.Sldi(R3, R4, 64) },
			expErr: "sldi: shift amount 64 out of range [0, 63]",
		},
		{
			name:   "mtcrf mask",
			emit:   func(a *Assembler) { a.Mtcrf(0x100, R0) },
			expErr: "mtcrf: FXM 256 does not fit in 8-bit unsigned field",
		},
		{
			name:   "fmul with no register",
			emit:   func(a *Assembler) { a.Fmul(F1, F2, NoFloatRegister) },
			expErr: "fmul: FRC -1 does not fit in 5-bit unsigned field",
		},
		{
			name:   "unaligned branch",
			emit:   func(a *Assembler) { a.BOffset(6) },
			expErr: "branch from 0x0 to 0x6 is not word aligned",
		},
		{
			name:   "conditional branch too far",
			emit:   func(a *Assembler) { a.BcOffset(BOTrue, 2, 1<<15) },
			expErr: "branch from 0x0 to 0x8000 does not fit in 14-bit displacement",
		},
		{
			name:   "call unaligned",
			emit:   func(a *Assembler) { a.Call(0x1002) },
			expErr: "call: call target 0x1002 is not word aligned",
		},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			a := newTestAssembler(PPC64)
			require.PanicsWithError(t, tc.expErr, func() { tc.emit(a) })
			require.Zero(t, a.Offset(), "no word may be emitted by a failed instruction")
		})
	}
}

func TestAssembler_byteOrder(t *testing.T) {
	for _, tc := range []struct {
		name  string
		order binary.ByteOrder
		exp   []byte
	}{
		{name: "big endian", order: binary.BigEndian, exp: []byte{0x38, 0x60, 0x00, 0x05}},
		{name: "little endian", order: binary.LittleEndian, exp: []byte{0x05, 0x00, 0x60, 0x38}},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			a := NewAssembler(NewAssemblerConfig().WithByteOrder(tc.order), nil)
			a.Li(R3, 5)
			require.Equal(t, tc.exp, a.Finalize())
		})
	}
}

func TestCondition(t *testing.T) {
	for _, tc := range []struct {
		c, negated Condition
		exp        string
	}{
		{c: CondEQ, negated: CondNE, exp: "eq"},
		{c: CondLT, negated: CondGE, exp: "lt"},
		{c: CondGT, negated: CondLE, exp: "gt"},
	} {
		require.Equal(t, tc.exp, tc.c.String())
		require.Equal(t, tc.negated, tc.c.Negate())
		require.Equal(t, tc.c, tc.c.Negate().Negate())

		bo, bit := tc.c.bo()
		negBo, negBit := tc.negated.bo()
		require.Equal(t, bit, negBit)
		require.NotEqual(t, bo, negBo)
	}
}

func TestAssembler_BranchCond(t *testing.T) {
	a := newTestAssembler(PPC64)
	l := a.NewLabel()
	a.Bind(l)
	a.BranchCond(CR7, CondGT, l)
	// bc 12, 4*7+1, 0
	require.Equal(t, []uint32{0x419d0000}, words(t, a))
}
