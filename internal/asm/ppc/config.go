package ppc

import "encoding/binary"

// EmitListener observes every instruction word as it is appended to the code
// buffer, and again when a pending branch is patched.
type EmitListener interface {
	// OnEmit is called after word was written at offset.
	OnEmit(offset int, word uint32)
	// OnPatch is called after the word at offset was rewritten to resolve a label.
	OnPatch(offset int, word uint32)
}

// AssemblerConfig controls assembler behavior, with the default implementation
// as NewAssemblerConfig.
type AssemblerConfig struct {
	target   *Target
	order    binary.ByteOrder
	listener EmitListener
}

// defaultConfig helps avoid copy/pasting the wrong defaults.
var defaultConfig = &AssemblerConfig{
	target: PPC64,
	order:  binary.BigEndian,
}

// clone ensures all fields are copied even if nil.
func (c *AssemblerConfig) clone() *AssemblerConfig {
	return &AssemblerConfig{
		target:   c.target,
		order:    c.order,
		listener: c.listener,
	}
}

// NewAssemblerConfig returns a config for the 64-bit big-endian target.
func NewAssemblerConfig() *AssemblerConfig {
	return defaultConfig.clone()
}

// WithTarget selects the 32-bit or 64-bit instruction and ABI variants. Defaults to PPC64.
func (c *AssemblerConfig) WithTarget(t *Target) *AssemblerConfig {
	if t == nil {
		return c
	}
	ret := c.clone()
	ret.target = t
	return ret
}

// WithByteOrder sets the order in which instruction words are written. Defaults to binary.BigEndian.
func (c *AssemblerConfig) WithByteOrder(order binary.ByteOrder) *AssemblerConfig {
	if order == nil {
		return c
	}
	ret := c.clone()
	ret.order = order
	return ret
}

// WithEmitListener installs a listener notified of every emitted word. Defaults to none.
func (c *AssemblerConfig) WithEmitListener(l EmitListener) *AssemblerConfig {
	ret := c.clone()
	ret.listener = l
	return ret
}

// Target returns the configured target.
func (c *AssemblerConfig) Target() *Target {
	return c.target
}

// ByteOrder returns the configured byte order.
func (c *AssemblerConfig) ByteOrder() binary.ByteOrder {
	return c.order
}
