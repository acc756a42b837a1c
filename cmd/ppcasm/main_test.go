package main

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testSource = `# returns whether r3 is zero
mflr r0
li r3, 1
cmpwi cr7, r3, 0
beq cr7, 0x1014
nop          # skipped
blr
`

var testCode = []byte{
	0x7c, 0x08, 0x02, 0xa6,
	0x38, 0x60, 0x00, 0x01,
	0x2f, 0x83, 0x00, 0x00,
	0x41, 0x9e, 0x00, 0x08,
	0x60, 0x00, 0x00, 0x00,
	0x4e, 0x80, 0x00, 0x20,
}

const testListing = `00001000:  7c 08 02 a6  mflr r0
00001004:  38 60 00 01  li r3, 1
00001008:  2f 83 00 00  cmpwi cr7, r3, 0
0000100c:  41 9e 00 08  beq cr7, 0x1014
00001010:  60 00 00 00  nop
00001014:  4e 80 00 20  blr
`

func writeFile(t *testing.T, name string, data []byte) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestAsm(t *testing.T) {
	srcPath := writeFile(t, "test.s", []byte(testSource))

	t.Run("stdout", func(t *testing.T) {
		exitCode, stdOut, stdErr := runMain(t, []string{"asm", "-base", "0x1000", srcPath})
		require.Equal(t, 0, exitCode)
		require.Equal(t, "", stdErr)
		require.Equal(t, string(testCode), stdOut)
	})

	t.Run("little endian", func(t *testing.T) {
		exitCode, stdOut, _ := runMain(t, []string{"asm", "-base", "0x1000", "-le", srcPath})
		require.Equal(t, 0, exitCode)
		require.Equal(t, "\x20\x00\x80\x4e", stdOut[len(stdOut)-4:])
	})

	t.Run("output file", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "test.bin")
		exitCode, stdOut, _ := runMain(t, []string{"asm", "-base", "0x1000", "-o", out, srcPath})
		require.Equal(t, 0, exitCode)
		require.Equal(t, "", stdOut)

		code, err := os.ReadFile(out)
		require.NoError(t, err)
		require.Equal(t, testCode, code)
	})

	t.Run("verbose", func(t *testing.T) {
		exitCode, _, stdErr := runMain(t, []string{"asm", "-base", "0x1000", "-v", srcPath})
		require.Equal(t, 0, exitCode)
		require.Equal(t, testListing, stdErr)
	})

	t.Run("target from environment", func(t *testing.T) {
		t.Setenv("PPCASM_TARGET", "ppc32")
		exitCode, stdOut, _ := runMain(t, []string{"asm", "-base", "0x1000", srcPath})
		require.Equal(t, 0, exitCode)
		require.Equal(t, string(testCode), stdOut)
	})
}

func TestDis(t *testing.T) {
	codePath := writeFile(t, "test.bin", testCode)

	t.Run("listing", func(t *testing.T) {
		exitCode, stdOut, _ := runMain(t, []string{"dis", "-base", "0x1000", codePath})
		require.Equal(t, 0, exitCode)
		require.Equal(t, testListing, stdOut)
	})

	t.Run("go syntax", func(t *testing.T) {
		exitCode, stdOut, _ := runMain(t, []string{"dis", "-base", "0x1000", "-gosyntax", codePath})
		require.Equal(t, 0, exitCode)
		require.Equal(t, `00001000:  MOVD LR, R0
00001004:  MOVD $1, R3
00001008:  CMPW R3, $0, CR7
0000100c:  BEQ CR7, 0x1014
00001010:  NOP
00001014:  BLR
`, stdOut)
	})
}

func TestVersion(t *testing.T) {
	exitCode, stdOut, _ := runMain(t, []string{"version"})
	require.Equal(t, 0, exitCode)
	require.Equal(t, "dev\n", stdOut)
}

func TestHelp(t *testing.T) {
	exitCode, _, stdErr := runMain(t, []string{"-h"})
	require.Equal(t, 0, exitCode)
	require.Contains(t, stdErr, "ppcasm CLI\n\nUsage:")
}

func TestErrors(t *testing.T) {
	badSource := writeFile(t, "bad.s", []byte("nop\n\nadd r3, r4\n"))
	oddCode := writeFile(t, "odd.bin", []byte{0x60, 0, 0, 0, 0x60})

	tests := []struct {
		message string
		args    []string
	}{
		{
			message: "invalid command",
			args:    []string{"frob"},
		},
		{
			message: "missing path to assembly file",
			args:    []string{"asm"},
		},
		{
			message: `invalid target: "ppc16"`,
			args:    []string{"asm", "-target", "ppc16", badSource},
		},
		{
			message: "error reading assembly file",
			args:    []string{"asm", "non-existent.s"},
		},
		{
			message: "error assembling: line 3: add: operands (register, register) do not match (register, register, register)",
			args:    []string{"asm", badSource},
		},
		{
			message: "missing path to code file",
			args:    []string{"dis"},
		},
		{
			message: "error reading code file",
			args:    []string{"dis", "non-existent.bin"},
		},
		{
			message: "error disassembling: 1 trailing byte(s) at 0x4",
			args:    []string{"dis", oddCode},
		},
		{
			message: "error disassembling: 1 trailing byte(s) at 0x4",
			args:    []string{"dis", "-gosyntax", oddCode},
		},
	}

	for _, tc := range tests {
		tt := tc
		t.Run(tt.message, func(t *testing.T) {
			exitCode, _, stdErr := runMain(t, tt.args)

			require.Equal(t, 1, exitCode)
			require.Contains(t, stdErr, tt.message)
		})
	}
}

func runMain(t *testing.T, args []string) (int, string, string) {
	t.Helper()
	oldArgs := os.Args
	t.Cleanup(func() {
		os.Args = oldArgs
	})
	os.Args = append([]string{"ppcasm"}, args...)

	var exitCode int
	stdOut := &bytes.Buffer{}
	stdErr := &bytes.Buffer{}
	var exited bool
	func() {
		defer func() {
			if r := recover(); r != nil {
				exited = true
			}
		}()
		flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
		doMain(stdOut, stdErr, func(code int) {
			exitCode = code
			panic(code)
		})
	}()

	require.True(t, exited)

	return exitCode, stdOut.String(), stdErr.String()
}
