package asm

import (
	"encoding/binary"
	"fmt"
)

// InstructionWidth is the size in bytes of every instruction word written to a Buffer.
const InstructionWidth = 4

var zero [16]byte

// CodeSegment is the growable byte region where native CPU instructions are
// written. It plays the role of the code cache handed finished methods: each
// method is assembled into its own Buffer obtained by calling Next.
//
// The zero value is a valid, empty big-endian code segment, equivalent to
// being constructed by calling NewCodeSegment(nil, nil).
type CodeSegment struct {
	code  []byte
	size  int
	order binary.ByteOrder
}

// NewCodeSegment constructs a CodeSegment value from a byte slice. Instruction
// words are written with the given byte order, or big-endian if nil.
func NewCodeSegment(code []byte, order binary.ByteOrder) *CodeSegment {
	return &CodeSegment{code: code, size: len(code), order: order}
}

// ByteOrder returns the order in which instruction words are laid out.
func (seg *CodeSegment) ByteOrder() binary.ByteOrder {
	if seg.order == nil {
		return binary.BigEndian
	}
	return seg.order
}

// Size returns the number of bytes written to the code segment.
func (seg *CodeSegment) Size() int {
	return seg.size
}

// Bytes returns a byte slice to the written part of the code segment.
//
// The returned slice remains valid until more bytes are written to a buffer
// of the code segment.
func (seg *CodeSegment) Bytes() []byte {
	return seg.code[:seg.size:seg.size]
}

// Next returns a buffer pointed at the end of the code segment to support
// writing more code instructions to it.
//
// Buffers are passed by value, but they hold a reference to the code segment
// that they were created from.
func (seg *CodeSegment) Next() Buffer {
	// Align 16-bytes boundary.
	seg.write(zero[:(16-seg.size&15)&15])
	return Buffer{seg: seg, off: seg.size}
}

func (seg *CodeSegment) append(n int) []byte {
	i := seg.size
	j := seg.size + n
	if j > len(seg.code) {
		seg.grow(n)
	}
	seg.size = j
	return seg.code[i:j:j]
}

func (seg *CodeSegment) write(b []byte) {
	copy(seg.append(len(b)), b)
}

func (seg *CodeSegment) writeUint32(u uint32) {
	seg.ByteOrder().PutUint32(seg.append(4), u)
}

func (seg *CodeSegment) grow(n int) {
	size := len(seg.code)
	want := seg.size + n
	if size >= want {
		return
	}
	if size == 0 {
		size = 4096
	}
	for size < want {
		size *= 2
	}
	b := make([]byte, size)
	copy(b, seg.code[:seg.size])
	seg.code = b
}

// Buffer is a reference type representing a section beginning at the end of a
// code segment where new instructions can be written. Offsets accepted and
// returned by Buffer methods are relative to the start of the buffer, which
// makes Len the program counter of the code being assembled.
type Buffer struct {
	seg *CodeSegment
	off int
}

// NewBuffer returns a buffer writing to a fresh code segment.
func NewBuffer(order binary.ByteOrder) Buffer {
	return NewCodeSegment(nil, order).Next()
}

func (buf Buffer) Len() int {
	return buf.seg.size - buf.off
}

func (buf Buffer) Bytes() []byte {
	i := buf.off
	j := buf.seg.size
	return buf.seg.code[i:j:j]
}

func (buf Buffer) ByteOrder() binary.ByteOrder {
	return buf.seg.ByteOrder()
}

func (buf Buffer) Reset() {
	buf.seg.size = buf.off
}

func (buf Buffer) Truncate(n int) {
	buf.seg.size = buf.off + n
}

func (buf Buffer) AppendUint32(u uint32) {
	buf.seg.writeUint32(u)
}

// Uint32At reads back the instruction word written at the given offset.
func (buf Buffer) Uint32At(offset int) uint32 {
	buf.checkWordOffset(offset)
	i := buf.off + offset
	return buf.ByteOrder().Uint32(buf.seg.code[i : i+4])
}

// PutUint32At overwrites the instruction word written at the given offset.
func (buf Buffer) PutUint32At(offset int, u uint32) {
	buf.checkWordOffset(offset)
	i := buf.off + offset
	buf.ByteOrder().PutUint32(buf.seg.code[i:i+4], u)
}

func (buf Buffer) checkWordOffset(offset int) {
	if offset < 0 || offset%InstructionWidth != 0 || offset+InstructionWidth > buf.Len() {
		panic(fmt.Errorf("BUG: word offset %d out of range for buffer of length %d", offset, buf.Len()))
	}
}
