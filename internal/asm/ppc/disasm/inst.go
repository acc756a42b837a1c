// Package disasm decodes PowerPC instruction words back into assembler text.
// It is the verification oracle of package ppc: every word the assembler
// emits decodes to the mnemonic it was requested as, and decoded text can be
// fed back through the assembler to reproduce the word.
package disasm

import (
	"fmt"
	"strings"
)

// ArgKind is the kind of an instruction operand.
type ArgKind byte

const (
	ArgNone ArgKind = iota
	// ArgReg is a general purpose register; Arg.Reg holds its number.
	ArgReg
	ArgFReg
	ArgCR
	// ArgImm is an immediate operand, including shift amounts, masks, BO/BI
	// and SPR numbers.
	ArgImm
	// ArgMem is a displacement and base register, Arg.Imm(Arg.Reg).
	ArgMem
	// ArgTarget is the absolute address of a branch target.
	ArgTarget
)

// String implements fmt.Stringer.
func (k ArgKind) String() (ret string) {
	switch k {
	case ArgNone:
		ret = "none"
	case ArgReg:
		ret = "register"
	case ArgFReg:
		ret = "float register"
	case ArgCR:
		ret = "condition register"
	case ArgImm:
		ret = "immediate"
	case ArgMem:
		ret = "memory"
	case ArgTarget:
		ret = "branch target"
	default:
		ret = fmt.Sprintf("argkind(%d)", byte(k))
	}
	return
}

// Arg is one operand of a decoded instruction.
type Arg struct {
	Kind ArgKind
	Reg  int
	Imm  int64
}

// String implements fmt.Stringer using the GNU assembler syntax.
func (a Arg) String() string {
	switch a.Kind {
	case ArgReg:
		return fmt.Sprintf("r%d", a.Reg)
	case ArgFReg:
		return fmt.Sprintf("f%d", a.Reg)
	case ArgCR:
		return fmt.Sprintf("cr%d", a.Reg)
	case ArgImm:
		return fmt.Sprintf("%d", a.Imm)
	case ArgMem:
		return fmt.Sprintf("%d(r%d)", a.Imm, a.Reg)
	case ArgTarget:
		return fmt.Sprintf("%#x", a.Imm)
	}
	return "?"
}

// Inst is a decoded instruction.
type Inst struct {
	// Op is the printed mnemonic, after simplified mnemonics were applied.
	Op string
	// Base is the mnemonic of the table entry the word matched, before
	// simplification. It is empty for words that matched nothing.
	Base string
	Args []Arg
	Word uint32
	PC   int64
}

// String returns the instruction in assembler syntax, e.g. "addi r3, r1, -8".
func (i Inst) String() string {
	if !i.Known() && i.Op == ".long" {
		return fmt.Sprintf(".long 0x%08x", i.Word)
	}
	if len(i.Args) == 0 {
		return i.Op
	}
	var sb strings.Builder
	sb.WriteString(i.Op)
	for n, a := range i.Args {
		if n == 0 {
			sb.WriteByte(' ')
		} else {
			sb.WriteString(", ")
		}
		sb.WriteString(a.String())
	}
	return sb.String()
}

// Known reports whether the word matched an instruction of the decoding table.
func (i Inst) Known() bool {
	return i.Base != ""
}

func reg(n uint32) Arg          { return Arg{Kind: ArgReg, Reg: int(n)} }
func freg(n uint32) Arg         { return Arg{Kind: ArgFReg, Reg: int(n)} }
func cr(n uint32) Arg           { return Arg{Kind: ArgCR, Reg: int(n)} }
func imm(v int64) Arg           { return Arg{Kind: ArgImm, Imm: v} }
func target(pc int64) Arg       { return Arg{Kind: ArgTarget, Imm: pc} }
func mem(d int64, b uint32) Arg { return Arg{Kind: ArgMem, Reg: int(b), Imm: d} }
