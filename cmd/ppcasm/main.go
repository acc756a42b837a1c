package main

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xyproto/env/v2"
	"golang.org/x/term"

	"github.com/tetratelabs/ppcasm/internal/asm/ppc"
	"github.com/tetratelabs/ppcasm/internal/asm/ppc/disasm"
	"github.com/tetratelabs/ppcasm/internal/version"
)

func main() {
	doMain(os.Stdout, os.Stderr, os.Exit)
}

// doMain is separated out for the purpose of unit testing.
func doMain(stdOut io.Writer, stdErr disasm.Writer, exit func(code int)) {
	flag.CommandLine.SetOutput(stdErr)

	var help bool
	flag.BoolVar(&help, "h", false, "print usage")

	flag.Parse()

	if help || flag.NArg() == 0 {
		printUsage(stdErr)
		exit(0)
	}

	subCmd := flag.Arg(0)
	switch subCmd {
	case "asm":
		doAsm(flag.Args()[1:], stdOut, stdErr, exit)
	case "dis":
		doDis(flag.Args()[1:], stdOut, stdErr, exit)
	case "version":
		fmt.Fprintln(stdOut, version.GetVersion())
		exit(0)
	default:
		fmt.Fprintln(stdErr, "invalid command")
		printUsage(stdErr)
		exit(1)
	}
}

// codeFlags are the flags shared by asm and dis.
type codeFlags struct {
	help bool
	le   bool
	base int64
}

func newCodeFlags(name string, stdErr io.Writer) (*flag.FlagSet, *codeFlags) {
	flags := flag.NewFlagSet(name, flag.ExitOnError)
	flags.SetOutput(stdErr)

	c := &codeFlags{}
	flags.BoolVar(&c.help, "h", false, "print usage")
	flags.BoolVar(&c.le, "le", env.Bool("PPCASM_LITTLE_ENDIAN"),
		"read and write little-endian instruction words. Defaults to $PPCASM_LITTLE_ENDIAN when set.")
	flags.Int64Var(&c.base, "base", 0, "address the code is loaded at, for branch targets and listings")
	return flags, c
}

func (c *codeFlags) byteOrder() binary.ByteOrder {
	if c.le {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

func doAsm(args []string, stdOut io.Writer, stdErr disasm.Writer, exit func(code int)) {
	flags, c := newCodeFlags("asm", stdErr)

	var targetName string
	flags.StringVar(&targetName, "target", env.Str("PPCASM_TARGET", ppc.PPC64.Name()),
		"ppc32 or ppc64. Defaults to $PPCASM_TARGET when set.")

	var verbose bool
	flags.BoolVar(&verbose, "v", false, "log every emitted and patched word to stderr")

	var out string
	flags.StringVar(&out, "o", "", "output file. Defaults to stdout, as a listing when stdout is a terminal.")

	_ = flags.Parse(args)

	if c.help {
		printAsmUsage(stdErr, flags)
		exit(0)
	}

	if flags.NArg() < 1 {
		fmt.Fprintln(stdErr, "missing path to assembly file")
		printAsmUsage(stdErr, flags)
		exit(1)
	}
	target := ppc.TargetByName(targetName)
	if target == nil {
		fmt.Fprintf(stdErr, "invalid target: %q\n", targetName)
		exit(1)
	}

	src, err := os.ReadFile(flags.Arg(0))
	if err != nil {
		fmt.Fprintf(stdErr, "error reading assembly file: %v\n", err)
		exit(1)
	}

	cfg := ppc.NewAssemblerConfig().WithTarget(target).WithByteOrder(c.byteOrder())
	if verbose {
		cfg = cfg.WithEmitListener(disasm.NewLoggingListener(stdErr, c.base, c.byteOrder()))
	}
	a := ppc.NewAssembler(cfg, nil)

	if err = assemble(a, src, c.base); err != nil {
		fmt.Fprintf(stdErr, "error assembling: %v\n", err)
		exit(1)
	}
	code := a.Finalize()

	switch {
	case out != "":
		if err = os.WriteFile(out, code, 0o644); err != nil {
			fmt.Fprintf(stdErr, "error writing output: %v\n", err)
			exit(1)
		}
	case isTerminal(stdOut):
		err = disasm.Disassemble(stdOut, code, c.base, c.byteOrder())
	default:
		_, err = stdOut.Write(code)
	}
	if err != nil {
		fmt.Fprintf(stdErr, "error writing output: %v\n", err)
		exit(1)
	}
	exit(0)
}

// assemble feeds each line of src through the assembler. Text after '#' is a
// comment. Branch targets are absolute, relative to the load address base.
func assemble(a *ppc.Assembler, src []byte, base int64) error {
	s := bufio.NewScanner(bytes.NewReader(src))
	for line := 1; s.Scan(); line++ {
		text := s.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		inst, err := disasm.Parse(text)
		if err == nil {
			err = disasm.Reassemble(a, inst, base+int64(a.Offset()))
		}
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
	return s.Err()
}

func doDis(args []string, stdOut io.Writer, stdErr io.Writer, exit func(code int)) {
	flags, c := newCodeFlags("dis", stdErr)

	var goSyntax bool
	flags.BoolVar(&goSyntax, "gosyntax", false, "print instructions in Go assembler syntax")

	_ = flags.Parse(args)

	if c.help {
		printDisUsage(stdErr, flags)
		exit(0)
	}

	if flags.NArg() < 1 {
		fmt.Fprintln(stdErr, "missing path to code file")
		printDisUsage(stdErr, flags)
		exit(1)
	}
	code, err := os.ReadFile(flags.Arg(0))
	if err != nil {
		fmt.Fprintf(stdErr, "error reading code file: %v\n", err)
		exit(1)
	}

	if goSyntax {
		err = disasm.DisassembleGo(stdOut, code, c.base, c.byteOrder())
	} else {
		err = disasm.Disassemble(stdOut, code, c.base, c.byteOrder())
	}
	if err != nil {
		fmt.Fprintf(stdErr, "error disassembling: %v\n", err)
		exit(1)
	}
	exit(0)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func printUsage(stdErr io.Writer) {
	fmt.Fprintln(stdErr, "ppcasm CLI")
	fmt.Fprintln(stdErr)
	fmt.Fprintln(stdErr, "Usage:\n  ppcasm <command>")
	fmt.Fprintln(stdErr)
	fmt.Fprintln(stdErr, "Commands:")
	fmt.Fprintln(stdErr, "  asm\t\tAssembles PowerPC instructions, one per line")
	fmt.Fprintln(stdErr, "  dis\t\tDisassembles PowerPC instruction words")
	fmt.Fprintln(stdErr, "  version\tDisplays the version of ppcasm CLI")
}

func printAsmUsage(stdErr io.Writer, flags *flag.FlagSet) {
	fmt.Fprintln(stdErr, "ppcasm CLI")
	fmt.Fprintln(stdErr)
	fmt.Fprintln(stdErr, "Usage:\n  ppcasm asm <options> <path to assembly file>")
	fmt.Fprintln(stdErr)
	fmt.Fprintln(stdErr, "Options:")
	flags.PrintDefaults()
}

func printDisUsage(stdErr io.Writer, flags *flag.FlagSet) {
	fmt.Fprintln(stdErr, "ppcasm CLI")
	fmt.Fprintln(stdErr)
	fmt.Fprintln(stdErr, "Usage:\n  ppcasm dis <options> <path to code file>")
	fmt.Fprintln(stdErr)
	fmt.Fprintln(stdErr, "Options:")
	flags.PrintDefaults()
}
