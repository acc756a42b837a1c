package disasm

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tetratelabs/ppcasm/internal/asm/ppc"
)

func TestNewLoggingListener(t *testing.T) {
	var buf bytes.Buffer
	cfg := ppc.NewAssemblerConfig().WithEmitListener(NewLoggingListener(&buf, 0x1000, binary.BigEndian))
	a := ppc.NewAssembler(cfg, nil)

	l := a.NewLabel()
	a.B(l)
	a.Nop()
	a.Bind(l)
	a.Blr()
	a.Finalize()

	require.Equal(t, `00001000:  48 00 00 00  b 0x1000
00001004:  60 00 00 00  nop
patch 00001000:  48 00 00 08  b 0x1008
00001008:  4e 80 00 20  blr
`, buf.String())
}

func TestNewLoggingListener_littleEndian(t *testing.T) {
	var buf bytes.Buffer
	cfg := ppc.NewAssemblerConfig().
		WithByteOrder(binary.LittleEndian).
		WithEmitListener(NewLoggingListener(&buf, 0, binary.LittleEndian))
	a := ppc.NewAssembler(cfg, nil)
	a.Mflr(ppc.R0)

	require.Equal(t, "00000000:  a6 02 08 7c  mflr r0\n", buf.String())
}
