package disasm

import "github.com/tetratelabs/ppcasm/internal/asm/ppc"

// unconditional maps the branches to LR and CTR to their BO=20 forms.
var unconditional = map[string]string{"bclr": "blr", "bcctr": "bctr", "bcctrl": "bctrl"}

// simplify rewrites inst to the simplified mnemonic the assembler has a
// method for, when one applies. inst.Base is left untouched.
func simplify(inst *Inst) {
	a := inst.Args
	switch inst.Op {
	case "or":
		if a[1] == a[2] {
			inst.Op, inst.Args = "mr", a[:2]
		}
	case "ori":
		if a[0].Reg == 0 && a[1].Reg == 0 && a[2].Imm == 0 {
			inst.Op, inst.Args = "nop", nil
		}
	case "addi":
		if a[1].Reg == 0 {
			inst.Op, inst.Args = "li", []Arg{a[0], a[2]}
		}
	case "addis":
		if a[1].Reg == 0 {
			inst.Op, inst.Args = "lis", []Arg{a[0], a[2]}
		}
	case "subf":
		inst.Op, inst.Args = "sub", []Arg{a[0], a[2], a[1]}
	case "bclr", "bcctr", "bcctrl":
		if a[0].Imm == ppc.BOAlways && a[1].Imm == 0 {
			inst.Op, inst.Args = unconditional[inst.Op], nil
		}
	case "bc":
		if op, ok := conditionMnemonic(a[0].Imm, a[1].Imm); ok {
			inst.Op = op
			if field := a[1].Imm / 4; field != 0 {
				inst.Args = []Arg{cr(uint32(field)), a[2]}
			} else {
				inst.Args = a[2:]
			}
		}
	case "rlwinm":
		sh, mb, me := a[2].Imm, a[3].Imm, a[4].Imm
		switch {
		case mb == 0 && me == 31-sh:
			inst.Op, inst.Args = "slwi", []Arg{a[0], a[1], imm(sh)}
		case me == 31 && sh == (32-mb)&31:
			inst.Op, inst.Args = "srwi", []Arg{a[0], a[1], imm(mb)}
		}
	case "rldicr":
		if sh, me := a[2].Imm, a[3].Imm; me == 63-sh {
			inst.Op, inst.Args = "sldi", a[:3]
		}
	case "rldicl":
		sh, mb := a[2].Imm, a[3].Imm
		switch {
		case sh == 0:
			inst.Op, inst.Args = "clrldi", []Arg{a[0], a[1], imm(mb)}
		case sh == (64-mb)&63:
			inst.Op, inst.Args = "srdi", []Arg{a[0], a[1], imm(mb)}
		}
	case "mfspr":
		switch ppc.SpecialRegister(a[1].Imm) {
		case ppc.LR:
			inst.Op, inst.Args = "mflr", a[:1]
		case ppc.CTR:
			inst.Op, inst.Args = "mfctr", a[:1]
		}
	case "mtspr":
		switch ppc.SpecialRegister(a[0].Imm) {
		case ppc.LR:
			inst.Op, inst.Args = "mtlr", a[1:]
		case ppc.CTR:
			inst.Op, inst.Args = "mtctr", a[1:]
		}
	case "mtcrf":
		if a[0].Imm == 0xff {
			inst.Op, inst.Args = "mtcr", a[1:]
		}
	case "tw":
		if a[0].Imm == ppc.TOAlways && a[1].Reg == 0 && a[2].Reg == 0 {
			inst.Op, inst.Args = "trap", nil
		}
	}
}

// conditionMnemonic returns the branch mnemonic testing one condition bit,
// e.g. "bne" for BO=4 on the EQ bit.
func conditionMnemonic(bo, bi int64) (string, bool) {
	var c ppc.Condition
	switch ppc.ConditionBit(bi % 4) {
	case ppc.BitLT:
		c = ppc.CondLT
	case ppc.BitGT:
		c = ppc.CondGT
	case ppc.BitEQ:
		c = ppc.CondEQ
	default:
		return "", false
	}
	switch bo {
	case ppc.BOTrue:
	case ppc.BOFalse:
		c = c.Negate()
	default:
		return "", false
	}
	return "b" + c.String(), true
}
