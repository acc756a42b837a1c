package ppc

// memOp describes a load or store selected per target word size.
type memOp struct {
	mnemonic string
	opcode   int64
	// xo is the DS-form sub-opcode; unused for D-form.
	xo int64
	ds bool
}

// xOp describes an opcode-31 instruction selected per target word size.
type xOp struct {
	mnemonic string
	xo       int64
}

// shiftImm emits a shift by an immediate amount for one word size.
type shiftImm func(a *Assembler, ra, rs Register, n int64)

// Target is the strategy table selecting 32-bit or 64-bit instruction variants
// and ABI constants. The same mnemonic on the Assembler emits the encoding
// appropriate to the target it was configured with.
type Target struct {
	name     string
	wordSize int

	load, store, storeUpdate  memOp
	loadIndexed, storeIndexed xOp
	storeUpdateIndexed        xOp
	loadReserve, storeCond    xOp
	shiftLeft, shiftRight     xOp
	shiftRightAlgebraic       xOp
	// compareL is the L bit of cmp/cmpi/cmpl/cmpli.
	compareL int64
	maxShift int64

	shiftLeftImm, shiftRightImm, shiftRightAlgebraicImm shiftImm

	// ABI.
	linkAreaWords int
	// crSaveWords is the link area word holding the saved condition
	// register, or -1 when it is saved inside the frame.
	crSaveWords    int
	minParamWords  int
	lrSaveWords    int
	stackAlignment int
	// floatArgs is the number of floating point argument registers starting at f1.
	floatArgs int
	// pairWideValues is true when 64-bit integers occupy an aligned register or slot pair.
	pairWideValues bool
	// callRegister holds the callee address for Call.
	callRegister Register
	// descriptors is true when functions are called through an (entry, TOC)
	// descriptor, with r2 saved at tocSaveOffset across the call.
	descriptors   bool
	tocSaveOffset int64
}

// PPC32 is the 32-bit target using the System V ABI.
var PPC32 = &Target{
	name:                "ppc32",
	wordSize:            4,
	load:                memOp{mnemonic: "lwz", opcode: OpLWZ},
	store:               memOp{mnemonic: "stw", opcode: OpSTW},
	storeUpdate:         memOp{mnemonic: "stwu", opcode: OpSTWU},
	loadIndexed:         xOp{"lwzx", XoLWZX},
	storeIndexed:        xOp{"stwx", XoSTWX},
	storeUpdateIndexed:  xOp{"stwux", XoSTWUX},
	loadReserve:         xOp{"lwarx", XoLWARX},
	storeCond:           xOp{"stwcx.", XoSTWCX},
	shiftLeft:           xOp{"slw", XoSLW},
	shiftRight:          xOp{"srw", XoSRW},
	shiftRightAlgebraic: xOp{"sraw", XoSRAW},
	compareL:            0,
	maxShift:            31,
	shiftLeftImm:        (*Assembler).Slwi,
	shiftRightImm:       (*Assembler).Srwi,
	shiftRightAlgebraicImm: func(a *Assembler, ra, rs Register, n int64) {
		a.Srawi(ra, rs, n)
	},
	linkAreaWords:  2,
	crSaveWords:    -1,
	minParamWords:  0,
	lrSaveWords:    1,
	stackAlignment: 16,
	floatArgs:      8,
	pairWideValues: true,
	callRegister:   R0,
}

// PPC64 is the 64-bit target using the ELF v1 ABI.
var PPC64 = &Target{
	name:                "ppc64",
	wordSize:            8,
	load:                memOp{mnemonic: "ld", opcode: OpDSLoad, xo: XoLD, ds: true},
	store:               memOp{mnemonic: "std", opcode: OpDSStor, xo: XoSTD, ds: true},
	storeUpdate:         memOp{mnemonic: "stdu", opcode: OpDSStor, xo: XoSTDU, ds: true},
	loadIndexed:         xOp{"ldx", XoLDX},
	storeIndexed:        xOp{"stdx", XoSTDX},
	storeUpdateIndexed:  xOp{"stdux", XoSTDUX},
	loadReserve:         xOp{"ldarx", XoLDARX},
	storeCond:           xOp{"stdcx.", XoSTDCX},
	shiftLeft:           xOp{"sld", XoSLD},
	shiftRight:          xOp{"srd", XoSRD},
	shiftRightAlgebraic: xOp{"srad", XoSRAD},
	compareL:            1,
	maxShift:            63,
	shiftLeftImm:        (*Assembler).Sldi,
	shiftRightImm:       (*Assembler).Srdi,
	shiftRightAlgebraicImm: func(a *Assembler, ra, rs Register, n int64) {
		a.Sradi(ra, rs, n)
	},
	linkAreaWords:  6,
	crSaveWords:    1,
	minParamWords:  8,
	lrSaveWords:    2,
	stackAlignment: 16,
	floatArgs:      13,
	pairWideValues: false,
	callRegister:   R12,
	descriptors:    true,
	tocSaveOffset:  40,
}

// TargetByName returns PPC32 or PPC64 for "ppc32" or "ppc64", or nil.
func TargetByName(name string) *Target {
	switch name {
	case "ppc32":
		return PPC32
	case "ppc64":
		return PPC64
	}
	return nil
}

// Name returns "ppc32" or "ppc64".
func (t *Target) Name() string { return t.name }

// WordSize returns the size of a general purpose register in bytes.
func (t *Target) WordSize() int { return t.wordSize }

// Is64 reports whether this is the 64-bit target.
func (t *Target) Is64() bool { return t.wordSize == 8 }

// LinkAreaSize returns the size in bytes of the link area at the bottom of every frame.
func (t *Target) LinkAreaSize() int { return t.linkAreaWords * t.wordSize }

// MinParamWords returns the minimum size of the parameter area, in words.
func (t *Target) MinParamWords() int { return t.minParamWords }

// LRSaveOffset returns the offset from the stack pointer, in the caller's
// frame, where the return address is saved.
func (t *Target) LRSaveOffset() int { return t.lrSaveWords * t.wordSize }

// StackAlignment returns the required alignment of frame sizes in bytes.
func (t *Target) StackAlignment() int { return t.stackAlignment }

// String implements fmt.Stringer.
func (t *Target) String() string { return t.name }
