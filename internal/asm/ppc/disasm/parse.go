package disasm

import (
	"fmt"
	"strconv"
	"strings"
)

// branches lists the mnemonics whose last operand is an absolute target address.
var branches = map[string]bool{
	"b": true, "bl": true, "bc": true, "bcl": true,
	"beq": true, "bne": true, "blt": true, "bge": true, "bgt": true, "ble": true,
}

// Parse parses one instruction in the syntax Inst.String produces, for
// example "stw r0, 8(r1)" or "bne cr7, 0x40". Immediates are decimal or
// 0x-prefixed hexadecimal, optionally negative.
func Parse(text string) (Inst, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Inst{}, fmt.Errorf("empty instruction")
	}
	op, rest := text, ""
	if i := strings.IndexAny(text, " \t"); i >= 0 {
		op, rest = text[:i], strings.TrimSpace(text[i+1:])
	}
	inst := Inst{Op: op}
	if rest == "" {
		return inst, nil
	}
	for _, field := range strings.Split(rest, ",") {
		a, err := parseArg(strings.TrimSpace(field))
		if err != nil {
			return Inst{}, fmt.Errorf("%s: %w", op, err)
		}
		inst.Args = append(inst.Args, a)
	}
	if last := &inst.Args[len(inst.Args)-1]; branches[op] && last.Kind == ArgImm {
		last.Kind = ArgTarget
	}
	return inst, nil
}

func parseArg(s string) (Arg, error) {
	switch {
	case s == "":
		return Arg{}, fmt.Errorf("missing operand")
	case strings.HasSuffix(s, ")"):
		open := strings.IndexByte(s, '(')
		if open < 0 {
			return Arg{}, fmt.Errorf("invalid memory operand %q", s)
		}
		d, err := parseImm(s[:open])
		if err != nil {
			return Arg{}, err
		}
		base, err := parseRegister(s[open+1:len(s)-1], "r", 31)
		if err != nil {
			return Arg{}, err
		}
		return mem(d, uint32(base)), nil
	case strings.HasPrefix(s, "cr"):
		n, err := parseRegister(s, "cr", 7)
		return cr(uint32(n)), err
	case strings.HasPrefix(s, "r"):
		n, err := parseRegister(s, "r", 31)
		return reg(uint32(n)), err
	case strings.HasPrefix(s, "f"):
		n, err := parseRegister(s, "f", 31)
		return freg(uint32(n)), err
	}
	v, err := parseImm(s)
	return imm(v), err
}

func parseRegister(s, prefix string, max int) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(s, prefix))
	if err != nil || !strings.HasPrefix(s, prefix) || n < 0 || n > max {
		return 0, fmt.Errorf("invalid register %q", s)
	}
	return n, nil
}

func parseImm(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid immediate %q", s)
	}
	return v, nil
}
