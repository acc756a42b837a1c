package ppc

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tetratelabs/ppcasm/internal/asm"
)

func TestAssemblerConfig(t *testing.T) {
	cfg := NewAssemblerConfig()
	require.Equal(t, PPC64, cfg.Target())
	require.Equal(t, binary.BigEndian, cfg.ByteOrder())

	t.Run("with methods copy", func(t *testing.T) {
		cfg32 := cfg.WithTarget(PPC32)
		require.Equal(t, PPC32, cfg32.Target())
		require.Equal(t, PPC64, cfg.Target())

		le := cfg32.WithByteOrder(binary.LittleEndian)
		require.Equal(t, binary.LittleEndian, le.ByteOrder())
		require.Equal(t, binary.BigEndian, cfg32.ByteOrder())
		require.Equal(t, PPC32, le.Target())
	})
	t.Run("nil keeps the default", func(t *testing.T) {
		require.Same(t, cfg, cfg.WithTarget(nil))
		require.Same(t, cfg, cfg.WithByteOrder(nil))
	})
	t.Run("nil config", func(t *testing.T) {
		a := NewAssembler(nil, nil)
		require.Equal(t, PPC64, a.Target())
	})
	t.Run("defaults are not shared", func(t *testing.T) {
		NewAssemblerConfig().WithEmitListener(&recordingListener{})
		require.Nil(t, defaultConfig.listener)
	})
}

func TestTargetByName(t *testing.T) {
	require.Equal(t, PPC32, TargetByName("ppc32"))
	require.Equal(t, PPC64, TargetByName("ppc64"))
	require.Nil(t, TargetByName("ppc"))

	for _, tc := range []struct {
		target    *Target
		word      int
		link, lr  int
		minParams int
	}{
		{target: PPC32, word: 4, link: 8, lr: 4, minParams: 0},
		{target: PPC64, word: 8, link: 48, lr: 16, minParams: 8},
	} {
		require.Equal(t, tc.word, tc.target.WordSize())
		require.Equal(t, tc.link, tc.target.LinkAreaSize())
		require.Equal(t, tc.lr, tc.target.LRSaveOffset())
		require.Equal(t, tc.minParams, tc.target.MinParamWords())
		require.Equal(t, 16, tc.target.StackAlignment())
		require.Equal(t, tc.target.Name(), tc.target.String())
	}
}

func TestNewAssembler_segment(t *testing.T) {
	seg := asm.NewCodeSegment(nil, binary.LittleEndian)

	a := NewAssembler(nil, seg)
	a.Blr()
	require.Equal(t, []byte{0x20, 0x00, 0x80, 0x4e}, a.Finalize())
	require.Equal(t, 0, a.Offset()%4)
}

func TestAddress(t *testing.T) {
	addr := NewAddress(SP, -8)
	require.Equal(t, "-8(r1)", addr.String())
	require.Equal(t, "8(r1)", addr.Offset(16).String())

	require.PanicsWithError(t, "address: r0 cannot be used as a base register", func() { NewAddress(R0, 0) })
	require.PanicsWithError(t, "address: invalid base register -1", func() { NewAddress(NoRegister, 0) })
}
