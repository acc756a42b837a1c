package disasm

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/tetratelabs/ppcasm/internal/asm/ppc"
)

type Writer interface {
	io.Writer
	io.StringWriter
}

// NewLoggingListener is a ppc.EmitListener which writes a listing line for
// every word the assembler emits, and another, prefixed with "patch", when a
// branch to a label is resolved. base is the address the code will be loaded
// at, and order the byte order of the assembler's code segment.
func NewLoggingListener(w Writer, base int64, order binary.ByteOrder) ppc.EmitListener {
	return &loggingListener{w: toInternalWriter(w), base: base, order: order}
}

func toInternalWriter(w Writer) Writer {
	if _, ok := w.(flusher); ok {
		return w
	}
	return bufio.NewWriter(w)
}

type flusher interface {
	Flush() error
}

type loggingListener struct {
	w     Writer
	base  int64
	order binary.ByteOrder
}

// OnEmit implements ppc.EmitListener.
func (l *loggingListener) OnEmit(offset int, word uint32) {
	l.writeLine("", offset, word)
}

// OnPatch implements ppc.EmitListener.
func (l *loggingListener) OnPatch(offset int, word uint32) {
	l.writeLine("patch ", offset, word)
}

func (l *loggingListener) writeLine(prefix string, offset int, word uint32) {
	l.w.WriteString(prefix + Line(l.base+int64(offset), word, l.order) + "\n") //nolint
	if f, ok := l.w.(flusher); ok {
		f.Flush() //nolint
	}
}
