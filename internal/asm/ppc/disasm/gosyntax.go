package disasm

import (
	"fmt"
	"strings"

	"github.com/twitchyliquid64/golang-asm/obj"
	"github.com/twitchyliquid64/golang-asm/obj/ppc64"
)

// goOps maps mnemonics to the Go assembler opcode of the same operation.
var goOps = map[string]obj.As{
	"add": ppc64.AADD, "addi": ppc64.AADD, "sub": ppc64.ASUB, "neg": ppc64.ANEG,
	"mullw": ppc64.AMULLW, "mulld": ppc64.AMULLD,
	"divw": ppc64.ADIVW, "divd": ppc64.ADIVD, "divwu": ppc64.ADIVWU, "divdu": ppc64.ADIVDU,
	"or": ppc64.AOR, "ori": ppc64.AOR, "and": ppc64.AAND, "andc": ppc64.AANDN, "andi.": ppc64.AANDCC,
	"xor": ppc64.AXOR, "xori": ppc64.AXOR, "nor": ppc64.ANOR,
	"slw": ppc64.ASLW, "srw": ppc64.ASRW, "sraw": ppc64.ASRAW,
	"sld": ppc64.ASLD, "srd": ppc64.ASRD, "srad": ppc64.ASRAD,
	"cntlzw": ppc64.ACNTLZW, "cntlzd": ppc64.ACNTLZD,
	"extsb": ppc64.AEXTSB, "extsh": ppc64.AEXTSH, "extsw": ppc64.AEXTSW,
	"sync": ppc64.ASYNC, "isync": ppc64.AISYNC,
	"lwarx": ppc64.ALWAR, "ldarx": ppc64.ALDAR, "stwcx.": ppc64.ASTWCCC, "stdcx.": ppc64.ASTDCCC,
	"b": ppc64.ABR, "bl": ppc64.ABL, "bc": ppc64.ABC,
	"fadd": ppc64.AFADD, "fsub": ppc64.AFSUB, "fmul": ppc64.AFMUL, "fdiv": ppc64.AFDIV,
	"fmr": ppc64.AFMOVD, "fneg": ppc64.AFNEG, "fcmpu": ppc64.AFCMPU,
	"lfd": ppc64.AFMOVD, "stfd": ppc64.AFMOVD, "lfs": ppc64.AFMOVS, "stfs": ppc64.AFMOVS,
	"ld": ppc64.AMOVD, "std": ppc64.AMOVD, "mr": ppc64.AMOVD, "li": ppc64.AMOVD,
	"mflr": ppc64.AMOVD, "mtlr": ppc64.AMOVD, "mfctr": ppc64.AMOVD, "mtctr": ppc64.AMOVD,
	"lwa": ppc64.AMOVW, "lwz": ppc64.AMOVWZ, "stw": ppc64.AMOVW,
	"lbz": ppc64.AMOVBZ, "stb": ppc64.AMOVB, "lhz": ppc64.AMOVHZ, "lha": ppc64.AMOVH, "sth": ppc64.AMOVH,
	"cmpd": ppc64.ACMP, "cmpdi": ppc64.ACMP, "cmpw": ppc64.ACMPW, "cmpwi": ppc64.ACMPW,
	"cmpld": ppc64.ACMPU, "cmpldi": ppc64.ACMPU, "cmplw": ppc64.ACMPWU, "cmplwi": ppc64.ACMPWU,
	"tw": ppc64.ATW, "nop": obj.ANOP,
}

// stores keep their operand order in Go syntax: source first, as in the
// GNU syntax. So do the branches listed in parse.go.
var stores = map[string]bool{
	"stb": true, "sth": true, "stw": true, "stwu": true, "std": true, "stdu": true,
	"stfs": true, "stfd": true, "stbx": true, "stwx": true, "stdx": true,
	"stwux": true, "stdux": true, "stfdx": true, "stwcx.": true, "stdcx.": true,
}

// GoSyntax returns inst in the syntax of the Go assembler, for comparing
// listings against Go compiler output. Operands are in source, destination
// order, and mnemonics without a Go counterpart are upper-cased.
func GoSyntax(inst Inst) string {
	if !inst.Known() {
		return fmt.Sprintf("WORD $0x%08x", inst.Word)
	}
	var args []string
	switch inst.Op {
	case "mflr":
		args = []string{obj.Rconv(ppc64.REG_LR), goArg(inst.Args[0])}
	case "mfctr":
		args = []string{obj.Rconv(ppc64.REG_CTR), goArg(inst.Args[0])}
	case "mtlr":
		args = []string{goArg(inst.Args[0]), obj.Rconv(ppc64.REG_LR)}
	case "mtctr":
		args = []string{goArg(inst.Args[0]), obj.Rconv(ppc64.REG_CTR)}
	default:
		for _, a := range inst.Args {
			args = append(args, goArg(a))
		}
		switch {
		case stores[inst.Op], branches[inst.Op]:
		case len(inst.Args) > 0 && inst.Args[0].Kind == ArgCR:
			// Compares name the condition register field last.
			args = append(args[1:], args[0])
		default:
			for i, j := 0, len(args)-1; i < j; i, j = i+1, j-1 {
				args[i], args[j] = args[j], args[i]
			}
		}
	}

	op := strings.ToUpper(inst.Op)
	if as, ok := goOps[inst.Op]; ok {
		op = as.String()
	}
	if len(args) == 0 {
		return op
	}
	return op + " " + strings.Join(args, ", ")
}

func goArg(a Arg) string {
	switch a.Kind {
	case ArgReg:
		return obj.Rconv(ppc64.REG_R0 + a.Reg)
	case ArgFReg:
		return obj.Rconv(ppc64.REG_F0 + a.Reg)
	case ArgCR:
		return obj.Rconv(ppc64.REG_CR0 + a.Reg)
	case ArgImm:
		return fmt.Sprintf("$%d", a.Imm)
	case ArgMem:
		return fmt.Sprintf("%d(%s)", a.Imm, obj.Rconv(ppc64.REG_R0+a.Reg))
	}
	return a.String()
}
