package ppc

import "fmt"

// Register is a general purpose register r0..r31.
type Register int8

// General purpose registers. Naming follows the PowerPC ISA books.
const (
	R0 Register = iota
	R1
	R2
	R3
	R4
	R5
	R6
	R7
	R8
	R9
	R10
	R11
	R12
	R13
	R14
	R15
	R16
	R17
	R18
	R19
	R20
	R21
	R22
	R23
	R24
	R25
	R26
	R27
	R28
	R29
	R30
	R31

	// NoRegister is the "no register" sentinel. It never encodes.
	NoRegister Register = -1
)

// SP is the stack pointer by ABI convention.
const SP = R1

func (r Register) IsValid() bool {
	return r >= R0 && r <= R31
}

// String implements fmt.Stringer.
func (r Register) String() string {
	if !r.IsValid() {
		return "noreg"
	}
	return fmt.Sprintf("r%d", int8(r))
}

// FloatRegister is a floating point register f0..f31.
type FloatRegister int8

const (
	F0 FloatRegister = iota
	F1
	F2
	F3
	F4
	F5
	F6
	F7
	F8
	F9
	F10
	F11
	F12
	F13
	F14
	F15
	F16
	F17
	F18
	F19
	F20
	F21
	F22
	F23
	F24
	F25
	F26
	F27
	F28
	F29
	F30
	F31

	NoFloatRegister FloatRegister = -1
)

func (f FloatRegister) IsValid() bool {
	return f >= F0 && f <= F31
}

// String implements fmt.Stringer.
func (f FloatRegister) String() string {
	if !f.IsValid() {
		return "nofreg"
	}
	return fmt.Sprintf("f%d", int8(f))
}

// ConditionRegister is one of the eight 4-bit fields cr0..cr7 of the condition register.
type ConditionRegister int8

const (
	CR0 ConditionRegister = iota
	CR1
	CR2
	CR3
	CR4
	CR5
	CR6
	CR7

	NoConditionRegister ConditionRegister = -1
)

func (c ConditionRegister) IsValid() bool {
	return c >= CR0 && c <= CR7
}

// String implements fmt.Stringer.
func (c ConditionRegister) String() string {
	if !c.IsValid() {
		return "nocr"
	}
	return fmt.Sprintf("cr%d", int8(c))
}

// Bit returns the BI operand selecting the given bit of this field.
func (c ConditionRegister) Bit(b ConditionBit) int64 {
	return int64(c)*4 + int64(b)
}

// ConditionBit is a bit within a condition register field.
type ConditionBit byte

const (
	BitLT ConditionBit = iota
	BitGT
	BitEQ
	BitSO
)

// SpecialRegister is a special purpose register number as used by mfspr/mtspr.
type SpecialRegister int16

const (
	XER SpecialRegister = 1
	LR  SpecialRegister = 8
	CTR SpecialRegister = 9
)

func (s SpecialRegister) IsValid() bool {
	return s >= 0 && s < 1<<10
}

// String implements fmt.Stringer.
func (s SpecialRegister) String() string {
	switch s {
	case XER:
		return "xer"
	case LR:
		return "lr"
	case CTR:
		return "ctr"
	}
	return fmt.Sprintf("spr%d", int16(s))
}

// Form identifies one of the fixed instruction bit-layouts.
type Form byte

const (
	FormI Form = iota
	FormB
	FormD
	FormDS
	FormX
	FormM
	FormMD
)

// String implements fmt.Stringer.
func (f Form) String() (ret string) {
	switch f {
	case FormI:
		ret = "I"
	case FormB:
		ret = "B"
	case FormD:
		ret = "D"
	case FormDS:
		ret = "DS"
	case FormX:
		ret = "X"
	case FormM:
		ret = "M"
	case FormMD:
		ret = "MD"
	default:
		ret = fmt.Sprintf("form(%d)", byte(f))
	}
	return
}

// Primary opcodes.
const (
	OpTDI    = 2
	OpTWI    = 3
	OpMULLI  = 7
	OpSUBFIC = 8
	OpCMPLI  = 10
	OpCMPI   = 11
	OpADDI   = 14
	OpADDIS  = 15
	OpBC     = 16
	OpB      = 18
	OpXL     = 19
	OpRLWINM = 21
	OpORI    = 24
	OpORIS   = 25
	OpXORI   = 26
	OpXORIS  = 27
	OpANDI   = 28
	OpANDIS  = 29
	OpMD     = 30
	OpX      = 31
	OpLWZ    = 32
	OpLWZU   = 33
	OpLBZ    = 34
	OpLBZU   = 35
	OpSTW    = 36
	OpSTWU   = 37
	OpSTB    = 38
	OpSTBU   = 39
	OpLHZ    = 40
	OpLHZU   = 41
	OpLHA    = 42
	OpSTH    = 44
	OpLFS    = 48
	OpLFD    = 50
	OpSTFS   = 52
	OpSTFD   = 54
	OpDSLoad = 58
	OpFPS    = 59
	OpDSStor = 62
	OpFP     = 63
)

// Sub-opcodes of the DS-form primary opcodes 58 and 62.
const (
	XoLD   = 0
	XoLDU  = 1
	XoLWA  = 2
	XoSTD  = 0
	XoSTDU = 1
)

// Extended opcodes of primary opcode 19 (XL-form).
const (
	XoMCRF  = 0
	XoBCLR  = 16
	XoISYNC = 150
	XoBCCTR = 528
)

// Extended opcodes of the MD-form primary opcode 30.
const (
	XoRLDICL = 0
	XoRLDICR = 1
	XoRLDIC  = 2
	XoRLDIMI = 3
)

// Extended opcodes of primary opcode 31, as the 10-bit X-form field.
const (
	XoCMP    = 0
	XoTW     = 4
	XoMFCR   = 19
	XoLWARX  = 20
	XoLDX    = 21
	XoLWZX   = 23
	XoSLW    = 24
	XoCNTLZW = 26
	XoSLD    = 27
	XoAND    = 28
	XoCMPL   = 32
	XoSUBF   = 40
	XoCNTLZD = 58
	XoANDC   = 60
	XoLDARX  = 84
	XoLBZX   = 87
	XoNEG    = 104
	XoNOR    = 124
	XoMTCRF  = 144
	XoSTDX   = 149
	XoSTWCX  = 150
	XoSTWX   = 151
	XoSTDUX  = 181
	XoSTWUX  = 183
	XoSTDCX  = 214
	XoSTBX   = 215
	XoMULLD  = 233
	XoMULLW  = 235
	XoADD    = 266
	XoLHZX   = 279
	XoXOR    = 316
	XoMFSPR  = 339
	XoLWAX   = 341
	XoOR     = 444
	XoDIVDU  = 457
	XoDIVWU  = 459
	XoMTSPR  = 467
	XoDIVD   = 489
	XoDIVW   = 491
	XoSRW    = 536
	XoSRD    = 539
	XoSYNC   = 598
	XoLFDX   = 599
	XoSTFDX  = 727
	XoSRAW   = 792
	XoSRAD   = 794
	XoSRAWI  = 824
	XoSRADI  = 826 // 9-bit XS-form opcode 413 shifted left by one; the low bit carries sh[5].
	XoEXTSH  = 922
	XoEXTSB  = 954
	XoEXTSW  = 986
)

// Extended opcodes of primary opcode 63. The A-form arithmetic opcodes occupy
// the low five bits of the X-form field; FRC occupies the upper five.
const (
	XoFCMPU = 0
	XoFDIV  = 18
	XoFSUB  = 20
	XoFADD  = 21
	XoFMUL  = 25
	XoFNEG  = 40
	XoFMR   = 72
)

// Branch options (BO field).
const (
	BOFalse  = 4
	BOTrue   = 12
	BOAlways = 20
)

// TOAlways is the TO field value which makes tw trap unconditionally.
const TOAlways = 31
