package disasm

import (
	"fmt"
	"strings"

	"github.com/tetratelabs/ppcasm/internal/asm"
	"github.com/tetratelabs/ppcasm/internal/asm/ppc"
)

// form is how one mnemonic is emitted through the Assembler.
type form struct {
	// layouts are the accepted sequences of operand kinds.
	layouts [][]ArgKind
	emit    func(a *ppc.Assembler, args []Arg, pc int64)
}

type (
	r    = ppc.Register
	fr   = ppc.FloatRegister
	addr = ppc.Address
)

func gpr(a Arg) r                     { return ppc.Register(a.Reg) }
func fpr(a Arg) fr                    { return ppc.FloatRegister(a.Reg) }
func crf(a Arg) ppc.ConditionRegister { return ppc.ConditionRegister(a.Reg) }

// address builds the memory operand without the base register checks of
// ppc.NewAddress, so any decoded word can be reproduced.
func address(a Arg) addr { return ppc.Address{Base: ppc.Register(a.Reg), Displacement: a.Imm} }

func kinds(k ...ArgKind) [][]ArgKind { return [][]ArgKind{k} }

func none(f func(*ppc.Assembler)) form {
	return form{kinds(), func(a *ppc.Assembler, _ []Arg, _ int64) { f(a) }}
}

func rrr(f func(*ppc.Assembler, r, r, r)) form {
	return form{kinds(ArgReg, ArgReg, ArgReg), func(a *ppc.Assembler, x []Arg, _ int64) {
		f(a, gpr(x[0]), gpr(x[1]), gpr(x[2]))
	}}
}

func rr(f func(*ppc.Assembler, r, r)) form {
	return form{kinds(ArgReg, ArgReg), func(a *ppc.Assembler, x []Arg, _ int64) {
		f(a, gpr(x[0]), gpr(x[1]))
	}}
}

func one(f func(*ppc.Assembler, r)) form {
	return form{kinds(ArgReg), func(a *ppc.Assembler, x []Arg, _ int64) { f(a, gpr(x[0])) }}
}

func rri(f func(*ppc.Assembler, r, r, int64)) form {
	return form{kinds(ArgReg, ArgReg, ArgImm), func(a *ppc.Assembler, x []Arg, _ int64) {
		f(a, gpr(x[0]), gpr(x[1]), x[2].Imm)
	}}
}

func rrii(f func(*ppc.Assembler, r, r, int64, int64)) form {
	return form{kinds(ArgReg, ArgReg, ArgImm, ArgImm), func(a *ppc.Assembler, x []Arg, _ int64) {
		f(a, gpr(x[0]), gpr(x[1]), x[2].Imm, x[3].Imm)
	}}
}

func ri(f func(*ppc.Assembler, r, int64)) form {
	return form{kinds(ArgReg, ArgImm), func(a *ppc.Assembler, x []Arg, _ int64) {
		f(a, gpr(x[0]), x[1].Imm)
	}}
}

func rm(f func(*ppc.Assembler, r, addr)) form {
	return form{kinds(ArgReg, ArgMem), func(a *ppc.Assembler, x []Arg, _ int64) {
		f(a, gpr(x[0]), address(x[1]))
	}}
}

func fm(f func(*ppc.Assembler, fr, addr)) form {
	return form{kinds(ArgFReg, ArgMem), func(a *ppc.Assembler, x []Arg, _ int64) {
		f(a, fpr(x[0]), address(x[1]))
	}}
}

func frr(f func(*ppc.Assembler, fr, r, r)) form {
	return form{kinds(ArgFReg, ArgReg, ArgReg), func(a *ppc.Assembler, x []Arg, _ int64) {
		f(a, fpr(x[0]), gpr(x[1]), gpr(x[2]))
	}}
}

func fff(f func(*ppc.Assembler, fr, fr, fr)) form {
	return form{kinds(ArgFReg, ArgFReg, ArgFReg), func(a *ppc.Assembler, x []Arg, _ int64) {
		f(a, fpr(x[0]), fpr(x[1]), fpr(x[2]))
	}}
}

func ff(f func(*ppc.Assembler, fr, fr)) form {
	return form{kinds(ArgFReg, ArgFReg), func(a *ppc.Assembler, x []Arg, _ int64) {
		f(a, fpr(x[0]), fpr(x[1]))
	}}
}

func crr(f func(*ppc.Assembler, ppc.ConditionRegister, r, r)) form {
	return form{kinds(ArgCR, ArgReg, ArgReg), func(a *ppc.Assembler, x []Arg, _ int64) {
		f(a, crf(x[0]), gpr(x[1]), gpr(x[2]))
	}}
}

func cri(f func(*ppc.Assembler, ppc.ConditionRegister, r, int64)) form {
	return form{kinds(ArgCR, ArgReg, ArgImm), func(a *ppc.Assembler, x []Arg, _ int64) {
		f(a, crf(x[0]), gpr(x[1]), x[2].Imm)
	}}
}

// x31 emits an opcode 31 instruction with no target independent method.
func x31(xo int64) form {
	return form{kinds(ArgReg, ArgReg, ArgReg), func(a *ppc.Assembler, x []Arg, _ int64) {
		a.Word(must(ppc.EncodeX(ppc.OpX, int64(x[0].Reg), int64(x[1].Reg), int64(x[2].Reg), xo, false)))
	}}
}

// xl emits a branch to LR or CTR with explicit BO and BI operands.
func xl(xo int64, lk bool) form {
	return form{kinds(ArgImm, ArgImm), func(a *ppc.Assembler, x []Arg, _ int64) {
		a.Word(must(ppc.EncodeX(ppc.OpXL, x[0].Imm, x[1].Imm, 0, xo, lk)))
	}}
}

func must(w uint32, err error) uint32 {
	if err != nil {
		panic(err)
	}
	return w
}

// cond emits a conditional branch, with or without a leading condition register field.
func cond(c ppc.Condition) form {
	layouts := [][]ArgKind{{ArgTarget}, {ArgCR, ArgTarget}}
	return form{layouts, func(a *ppc.Assembler, x []Arg, pc int64) {
		field := ppc.CR0
		if len(x) == 2 {
			field = crf(x[0])
		}
		a.BranchCondOffset(field, c, x[len(x)-1].Imm-pc)
	}}
}

var forms = map[string]form{
	".long": {kinds(ArgImm), func(a *ppc.Assembler, x []Arg, _ int64) {
		if x[0].Imm < 0 || x[0].Imm > 0xffffffff {
			panic(&ppc.EncodingError{Op: ".long", Field: "value", Value: x[0].Imm, Bits: 32})
		}
		a.Word(uint32(x[0].Imm))
	}},

	"addi":   rri((*ppc.Assembler).Addi),
	"addis":  rri((*ppc.Assembler).Addis),
	"mulli":  rri((*ppc.Assembler).Mulli),
	"subfic": rri((*ppc.Assembler).Subfic),
	"li":     ri((*ppc.Assembler).Li),
	"lis":    ri((*ppc.Assembler).Lis),
	"add":    rrr((*ppc.Assembler).Add),
	"sub":    rrr((*ppc.Assembler).Sub),
	"subf":   rrr((*ppc.Assembler).Subf),
	"neg":    rr((*ppc.Assembler).Neg),
	"mullw":  rrr((*ppc.Assembler).Mullw),
	"mulld":  rrr((*ppc.Assembler).Mulld),
	"divw":   rrr((*ppc.Assembler).Divw),
	"divd":   rrr((*ppc.Assembler).Divd),
	"divwu":  rrr((*ppc.Assembler).Divwu),
	"divdu":  rrr((*ppc.Assembler).Divdu),

	"ori":    rri((*ppc.Assembler).Ori),
	"oris":   rri((*ppc.Assembler).Oris),
	"xori":   rri((*ppc.Assembler).Xori),
	"xoris":  rri((*ppc.Assembler).Xoris),
	"andi.":  rri((*ppc.Assembler).AndiDot),
	"or":     rrr((*ppc.Assembler).Or),
	"and":    rrr((*ppc.Assembler).And),
	"andc":   rrr((*ppc.Assembler).Andc),
	"xor":    rrr((*ppc.Assembler).Xor),
	"nor":    rrr((*ppc.Assembler).Nor),
	"mr":     rr((*ppc.Assembler).Mr),
	"nop":    none((*ppc.Assembler).Nop),
	"extsb":  rr((*ppc.Assembler).Extsb),
	"extsh":  rr((*ppc.Assembler).Extsh),
	"extsw":  rr((*ppc.Assembler).Extsw),
	"cntlzw": rr((*ppc.Assembler).Cntlzw),
	"cntlzd": rr((*ppc.Assembler).Cntlzd),

	"lbz":  rm((*ppc.Assembler).Lbz),
	"lhz":  rm((*ppc.Assembler).Lhz),
	"lha":  rm((*ppc.Assembler).Lha),
	"lwz":  rm((*ppc.Assembler).Lwz),
	"stb":  rm((*ppc.Assembler).Stb),
	"sth":  rm((*ppc.Assembler).Sth),
	"stw":  rm((*ppc.Assembler).Stw),
	"stwu": rm((*ppc.Assembler).Stwu),
	"lwa":  rm((*ppc.Assembler).Lwa),
	"ld":   rm((*ppc.Assembler).Ld),
	"std":  rm((*ppc.Assembler).Std),
	"stdu": rm((*ppc.Assembler).Stdu),
	"lfs":  fm((*ppc.Assembler).Lfs),
	"lfd":  fm((*ppc.Assembler).Lfd),
	"stfs": fm((*ppc.Assembler).Stfs),
	"stfd": fm((*ppc.Assembler).Stfd),

	"lbzx":   rrr((*ppc.Assembler).Lbzx),
	"lhzx":   rrr((*ppc.Assembler).Lhzx),
	"lwzx":   rrr((*ppc.Assembler).Lwzx),
	"lwax":   rrr((*ppc.Assembler).Lwax),
	"ldx":    rrr((*ppc.Assembler).Ldx),
	"stbx":   rrr((*ppc.Assembler).Stbx),
	"stwx":   rrr((*ppc.Assembler).Stwx),
	"stdx":   rrr((*ppc.Assembler).Stdx),
	"stwux":  x31(ppc.XoSTWUX),
	"stdux":  x31(ppc.XoSTDUX),
	"lfdx":   frr((*ppc.Assembler).Lfdx),
	"stfdx":  frr((*ppc.Assembler).Stfdx),
	"lwarx":  rrr((*ppc.Assembler).Lwarx),
	"ldarx":  rrr((*ppc.Assembler).Ldarx),
	"stwcx.": rrr((*ppc.Assembler).Stwcx),
	"stdcx.": rrr((*ppc.Assembler).Stdcx),
	"sync":   none((*ppc.Assembler).Sync),
	"isync":  none((*ppc.Assembler).Isync),

	"cmpw":   crr((*ppc.Assembler).Cmpw),
	"cmpd":   crr((*ppc.Assembler).Cmpd),
	"cmplw":  crr((*ppc.Assembler).Cmplw),
	"cmpld":  crr((*ppc.Assembler).Cmpld),
	"cmpwi":  cri((*ppc.Assembler).Cmpwi),
	"cmpdi":  cri((*ppc.Assembler).Cmpdi),
	"cmplwi": cri((*ppc.Assembler).Cmplwi),
	"cmpldi": cri((*ppc.Assembler).Cmpldi),

	"rlwinm": {kinds(ArgReg, ArgReg, ArgImm, ArgImm, ArgImm), func(a *ppc.Assembler, x []Arg, _ int64) {
		a.Rlwinm(gpr(x[0]), gpr(x[1]), x[2].Imm, x[3].Imm, x[4].Imm)
	}},
	"rldicl": rrii((*ppc.Assembler).Rldicl),
	"rldicr": rrii((*ppc.Assembler).Rldicr),
	"rldic":  rrii((*ppc.Assembler).Rldic),
	"slwi":   rri((*ppc.Assembler).Slwi),
	"srwi":   rri((*ppc.Assembler).Srwi),
	"sldi":   rri((*ppc.Assembler).Sldi),
	"srdi":   rri((*ppc.Assembler).Srdi),
	"clrldi": rri((*ppc.Assembler).Clrldi),
	"srawi":  rri((*ppc.Assembler).Srawi),
	"sradi":  rri((*ppc.Assembler).Sradi),
	"slw":    rrr((*ppc.Assembler).Slw),
	"srw":    rrr((*ppc.Assembler).Srw),
	"sraw":   rrr((*ppc.Assembler).Sraw),
	"sld":    rrr((*ppc.Assembler).Sld),
	"srd":    rrr((*ppc.Assembler).Srd),
	"srad":   rrr((*ppc.Assembler).Srad),

	"b":  {kinds(ArgTarget), func(a *ppc.Assembler, x []Arg, pc int64) { a.BOffset(x[0].Imm - pc) }},
	"bl": {kinds(ArgTarget), func(a *ppc.Assembler, x []Arg, pc int64) { a.BlOffset(x[0].Imm - pc) }},

	"bc": {kinds(ArgImm, ArgImm, ArgTarget), func(a *ppc.Assembler, x []Arg, pc int64) {
		a.BcOffset(x[0].Imm, x[1].Imm, x[2].Imm-pc)
	}},
	"bcl": {kinds(ArgImm, ArgImm, ArgTarget), func(a *ppc.Assembler, x []Arg, pc int64) {
		if x[0].Imm == ppc.BOAlways && x[1].Imm == 31 && x[2].Imm == pc+asm.InstructionWidth {
			a.Mpclr()
			return
		}
		d, err := ppc.BranchTarget(pc, x[2].Imm, 14)
		if err != nil {
			panic(err)
		}
		a.Word(must(ppc.EncodeB(ppc.OpBC, x[0].Imm, x[1].Imm, d, false, true)))
	}},

	"beq":    cond(ppc.CondEQ),
	"bne":    cond(ppc.CondNE),
	"blt":    cond(ppc.CondLT),
	"bge":    cond(ppc.CondGE),
	"bgt":    cond(ppc.CondGT),
	"ble":    cond(ppc.CondLE),
	"blr":    none((*ppc.Assembler).Blr),
	"bctr":   none((*ppc.Assembler).Bctr),
	"bctrl":  none((*ppc.Assembler).Bctrl),
	"bclr":   xl(ppc.XoBCLR, false),
	"bcctr":  xl(ppc.XoBCCTR, false),
	"bcctrl": xl(ppc.XoBCCTR, true),

	"mfspr": {kinds(ArgReg, ArgImm), func(a *ppc.Assembler, x []Arg, _ int64) {
		a.Mfspr(gpr(x[0]), ppc.SpecialRegister(x[1].Imm))
	}},
	"mtspr": {kinds(ArgImm, ArgReg), func(a *ppc.Assembler, x []Arg, _ int64) {
		a.Mtspr(ppc.SpecialRegister(x[0].Imm), gpr(x[1]))
	}},
	"mflr":  one((*ppc.Assembler).Mflr),
	"mtlr":  one((*ppc.Assembler).Mtlr),
	"mfctr": one((*ppc.Assembler).Mfctr),
	"mtctr": one((*ppc.Assembler).Mtctr),
	"mfcr":  one((*ppc.Assembler).Mfcr),
	"mtcr":  one((*ppc.Assembler).Mtcr),
	"mtcrf": {kinds(ArgImm, ArgReg), func(a *ppc.Assembler, x []Arg, _ int64) {
		a.Mtcrf(x[0].Imm, gpr(x[1]))
	}},
	"tw": {kinds(ArgImm, ArgReg, ArgReg), func(a *ppc.Assembler, x []Arg, _ int64) {
		a.Tw(x[0].Imm, gpr(x[1]), gpr(x[2]))
	}},
	"trap": none((*ppc.Assembler).Trap),

	"fmr":   ff((*ppc.Assembler).Fmr),
	"fneg":  ff((*ppc.Assembler).Fneg),
	"fadd":  fff((*ppc.Assembler).Fadd),
	"fsub":  fff((*ppc.Assembler).Fsub),
	"fdiv":  fff((*ppc.Assembler).Fdiv),
	"fmul":  fff((*ppc.Assembler).Fmul),
	"fcmpu": {kinds(ArgCR, ArgFReg, ArgFReg), func(a *ppc.Assembler, x []Arg, _ int64) {
		a.Fcmpu(crf(x[0]), fpr(x[1]), fpr(x[2]))
	}},
}

func matches(args []Arg, layout []ArgKind) bool {
	if len(args) != len(layout) {
		return false
	}
	for i, k := range layout {
		if args[i].Kind != k {
			return false
		}
	}
	return true
}

func operandError(op string, args []Arg, layouts [][]ArgKind) error {
	got := make([]string, len(args))
	for i, a := range args {
		got[i] = a.Kind.String()
	}
	want := make([]string, len(layouts))
	for i, l := range layouts {
		names := make([]string, len(l))
		for j, k := range l {
			names[j] = k.String()
		}
		want[i] = "(" + strings.Join(names, ", ") + ")"
	}
	return fmt.Errorf("%s: operands (%s) do not match %s", op, strings.Join(got, ", "), strings.Join(want, " or "))
}

// Reassemble emits inst through the Assembler method for its mnemonic. pc is
// the address the instruction will be loaded at; branch targets are made
// relative to it. Encoding and branch range failures are returned as errors.
func Reassemble(a *ppc.Assembler, inst Inst, pc int64) (err error) {
	f, ok := forms[inst.Op]
	if !ok {
		return fmt.Errorf("unknown mnemonic %q", inst.Op)
	}
	matched := false
	for _, l := range f.layouts {
		matched = matched || matches(inst.Args, l)
	}
	if !matched {
		return operandError(inst.Op, inst.Args, f.layouts)
	}

	defer func() {
		if rec := recover(); rec != nil {
			switch e := rec.(type) {
			case *ppc.EncodingError:
				err = e
			case *ppc.BranchRangeError:
				err = e
			case *ppc.ProtocolError:
				err = e
			default:
				panic(rec)
			}
		}
	}()
	f.emit(a, inst.Args, pc)
	return nil
}
