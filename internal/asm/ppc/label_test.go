package ppc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBranchTarget(t *testing.T) {
	for _, bits := range []uint{14, 24} {
		max := int64(1)<<(bits-1) - 1
		min := -int64(1) << (bits - 1)
		for _, from := range []int64{0, 0x1000, 0x7ff0} {
			for _, d := range []int64{0, 1, -1, 100, -100, max, min} {
				to := from + d*4
				actual, err := BranchTarget(from, to, bits)
				require.NoError(t, err)
				require.Equal(t, d, actual)

				// The field round trips through the branch encoding.
				mask := uint32(1)<<bits - 1
				require.Equal(t, to-from, signExtend(uint32(actual)&mask, bits)*4)
			}
			for _, d := range []int64{max + 1, min - 1} {
				_, err := BranchTarget(from, from+d*4, bits)
				require.Error(t, err)
				require.IsType(t, &BranchRangeError{}, err)
			}
			_, err := BranchTarget(from, from+2, bits)
			require.EqualError(t, err, (&BranchRangeError{From: from, To: from + 2, Bits: bits}).Error())
		}
	}
}

func TestAssembler_Bind(t *testing.T) {
	t.Run("forward unconditional", func(t *testing.T) {
		a := newTestAssembler(PPC64)
		l := a.NewLabel()
		a.B(l)
		a.Nop()
		require.False(t, a.IsBound(l))
		a.Bind(l)
		require.True(t, a.IsBound(l))
		require.Equal(t, 8, a.LabelOffset(l))
		require.Equal(t, []uint32{0x48000008, 0x60000000}, words(t, a))
	})
	t.Run("backward conditional", func(t *testing.T) {
		a := newTestAssembler(PPC64)
		l := a.NewLabel()
		a.Bind(l)
		a.Nop()
		a.Bne(l)
		require.Equal(t, []uint32{0x60000000, 0x4082fffc}, words(t, a))
	})
	t.Run("forward, several sites", func(t *testing.T) {
		a := newTestAssembler(PPC64)
		l := a.NewLabel()
		a.Beq(l)
		a.Bl(l)
		a.Blt(l)
		a.Bind(l)
		a.Blr()
		require.Equal(t, []uint32{
			0x4182000c, // beq +12
			0x48000009, // bl +8
			0x41800004, // blt +4
			0x4e800020,
		}, words(t, a))
	})
	t.Run("self loop", func(t *testing.T) {
		a := newTestAssembler(PPC32)
		l := a.NewLabel()
		a.Bind(l)
		a.B(l)
		require.Equal(t, []uint32{0x48000000}, words(t, a))
	})
	t.Run("unreferenced label may stay unbound", func(t *testing.T) {
		a := newTestAssembler(PPC64)
		a.NewLabel()
		a.Nop()
		require.Equal(t, []uint32{0x60000000}, words(t, a))
	})
}

func TestAssembler_Bind_errors(t *testing.T) {
	t.Run("bound twice", func(t *testing.T) {
		a := newTestAssembler(PPC64)
		l := a.NewLabel()
		a.Bind(l)
		a.Nop()
		require.PanicsWithError(t, "label 0 bound twice (at 0x0 and 0x4)", func() { a.Bind(l) })
	})
	t.Run("unbound at finalize", func(t *testing.T) {
		a := newTestAssembler(PPC64)
		a.NewLabel()
		l := a.NewLabel()
		a.Nop()
		a.Bgt(l)
		a.Bgt(l)
		require.PanicsWithError(t, "label 1 is unbound but referenced by 2 branch(es), first at 0x4",
			func() { a.Finalize() })
	})
	t.Run("foreign label", func(t *testing.T) {
		a, other := newTestAssembler(PPC64), newTestAssembler(PPC64)
		other.NewLabel()
		l := other.NewLabel()
		require.PanicsWithError(t, "label 1 was not created by this assembler", func() { a.B(l) })
	})
	t.Run("offset of unbound label", func(t *testing.T) {
		a := newTestAssembler(PPC64)
		l := a.NewLabel()
		require.PanicsWithError(t, "label 0 is not bound", func() { a.LabelOffset(l) })
	})
	t.Run("conditional out of range", func(t *testing.T) {
		a := newTestAssembler(PPC64)
		l := a.NewLabel()
		a.Beq(l)
		for i := 0; i < 1<<13; i++ {
			a.Nop()
		}
		require.PanicsWithError(t, "branch from 0x0 to 0x8004 does not fit in 14-bit displacement",
			func() { a.Bind(l) })
	})
	t.Run("backward out of range", func(t *testing.T) {
		a := newTestAssembler(PPC64)
		l := a.NewLabel()
		a.Bind(l)
		for i := 0; i < 1<<13; i++ {
			a.Nop()
		}
		a.Bne(l)
		require.PanicsWithError(t, "branch from 0x8004 to 0x0 does not fit in 14-bit displacement",
			func() { a.Bne(l) })
	})
	t.Run("patch collision", func(t *testing.T) {
		a := newTestAssembler(PPC64)
		l := a.NewLabel()
		a.B(l)
		a.buf.PutUint32At(0, 0x48000004)
		require.PanicsWithError(t, "BUG: patch collision at 0x0: displacement field already 0x4",
			func() { a.Bind(l) })
	})
	t.Run("absolute patch site", func(t *testing.T) {
		a := newTestAssembler(PPC64)
		l := a.NewLabel()
		a.Beq(l)
		a.buf.PutUint32At(0, 0x41820002) // beqa 0
		require.PanicsWithError(t, "BUG: patch site 0x0 holds an absolute branch", func() { a.Bind(l) })
	})
	t.Run("patch site overwritten", func(t *testing.T) {
		a := newTestAssembler(PPC64)
		l := a.NewLabel()
		a.B(l)
		a.buf.PutUint32At(0, 0x60000000)
		require.PanicsWithError(t, "BUG: opcode 24 at patch site 0x0 is not a branch", func() { a.Bind(l) })
	})
}

type recordingListener struct {
	emits, patches [][2]uint32
}

func (r *recordingListener) OnEmit(offset int, word uint32) {
	r.emits = append(r.emits, [2]uint32{uint32(offset), word})
}

func (r *recordingListener) OnPatch(offset int, word uint32) {
	r.patches = append(r.patches, [2]uint32{uint32(offset), word})
}

func TestAssembler_listener(t *testing.T) {
	l := &recordingListener{}
	a := NewAssembler(NewAssemblerConfig().WithEmitListener(l), nil)
	done := a.NewLabel()
	a.Beq(done)
	a.Nop()
	a.Bind(done)
	a.Blr()

	require.Equal(t, [][2]uint32{{0, 0x41820000}, {4, 0x60000000}, {8, 0x4e800020}}, l.emits)
	require.Equal(t, [][2]uint32{{0, 0x41820008}}, l.patches)
}
