package asm_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tetratelabs/ppcasm/internal/asm"
)

func TestCodeSegmentZeroValue(t *testing.T) {
	var code asm.CodeSegment
	require.Equal(t, 0, code.Size())
	require.Equal(t, 0, len(code.Bytes()))
	require.Equal(t, binary.BigEndian, code.ByteOrder())

	buf := code.Next()
	require.Equal(t, 0, buf.Len())
	require.Equal(t, 0, len(buf.Bytes()))
}

func TestCodeSegmentNextAligns(t *testing.T) {
	code := asm.NewCodeSegment(nil, nil)

	first := code.Next()
	first.AppendUint32(0x60000000)
	require.Equal(t, 4, code.Size())

	second := code.Next()
	require.Equal(t, 16, code.Size())
	require.Equal(t, 0, second.Len())

	second.AppendUint32(0x4e800020)
	require.Equal(t, []byte{0x4e, 0x80, 0x00, 0x20}, second.Bytes())
	require.Equal(t, []byte{0x60, 0, 0, 0}, first.Bytes()[:4])
}

func TestBufferAppendUint32(t *testing.T) {
	for _, tc := range []struct {
		name  string
		order binary.ByteOrder
		exp   []byte
	}{
		{name: "big endian", order: binary.BigEndian, exp: []byte{0x7c, 0x08, 0x02, 0xa6}},
		{name: "little endian", order: binary.LittleEndian, exp: []byte{0xa6, 0x02, 0x08, 0x7c}},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			buf := asm.NewBuffer(tc.order)
			buf.AppendUint32(0x7c0802a6)
			require.Equal(t, 4, buf.Len())
			require.Equal(t, tc.exp, buf.Bytes())
			require.Equal(t, uint32(0x7c0802a6), buf.Uint32At(0))
		})
	}
}

func TestBufferGrows(t *testing.T) {
	buf := asm.NewBuffer(nil)
	for i := 0; i < 5000; i++ {
		buf.AppendUint32(uint32(i))
	}
	require.Equal(t, 20000, buf.Len())
	require.Equal(t, uint32(4999), buf.Uint32At(19996))
	require.Equal(t, uint32(1234), buf.Uint32At(1234*4))
}

func TestBufferPutUint32At(t *testing.T) {
	buf := asm.NewBuffer(nil)
	buf.AppendUint32(0x48000000)
	buf.AppendUint32(0x60000000)

	buf.PutUint32At(0, 0x48000008)
	require.Equal(t, uint32(0x48000008), buf.Uint32At(0))
	require.Equal(t, uint32(0x60000000), buf.Uint32At(4))

	require.PanicsWithError(t, "BUG: word offset 8 out of range for buffer of length 8", func() {
		buf.PutUint32At(8, 0)
	})
	require.PanicsWithError(t, "BUG: word offset 2 out of range for buffer of length 8", func() {
		buf.Uint32At(2)
	})
}

func TestBufferResetAndTruncate(t *testing.T) {
	buf := asm.NewBuffer(nil)
	buf.AppendUint32(1)
	buf.AppendUint32(2)
	buf.Truncate(4)
	require.Equal(t, 4, buf.Len())
	require.Equal(t, uint32(1), buf.Uint32At(0))

	buf.Reset()
	require.Equal(t, 0, buf.Len())
	require.Equal(t, []byte{}, buf.Bytes())
}
