package ppc

import "fmt"

// ArgType tags one argument of a call signature.
type ArgType byte

const (
	// ArgInt is any integer of at most 32 bits.
	ArgInt ArgType = iota
	// ArgPointer is an address or object reference.
	ArgPointer
	// ArgLong is a 64-bit integer. It must be followed by ArgHalf.
	ArgLong
	// ArgFloat is a 32-bit float.
	ArgFloat
	// ArgDouble is a 64-bit float. It must be followed by ArgHalf.
	ArgDouble
	// ArgHalf is the placeholder for the second half of a preceding wide value.
	ArgHalf
)

// String implements fmt.Stringer.
func (t ArgType) String() (ret string) {
	switch t {
	case ArgInt:
		ret = "int"
	case ArgPointer:
		ret = "pointer"
	case ArgLong:
		ret = "long"
	case ArgFloat:
		ret = "float"
	case ArgDouble:
		ret = "double"
	case ArgHalf:
		ret = "half"
	default:
		ret = fmt.Sprintf("argtype(%d)", byte(t))
	}
	return
}

func (t ArgType) wide() bool {
	return t == ArgLong || t == ArgDouble
}

// LocationKind says where an argument was assigned.
type LocationKind byte

const (
	// LocNone is the location of an ArgHalf placeholder.
	LocNone LocationKind = iota
	LocRegister
	// LocRegisterPair is a wide value in Reg and Reg+1, high word first.
	LocRegisterPair
	LocFloatRegister
	LocStack
)

// ArgLocation is the register or stack slot assigned to one argument.
type ArgLocation struct {
	Kind     LocationKind
	Reg      Register
	FloatReg FloatRegister
	// Slot is the first stack slot, counted in 4-byte units from the start of
	// the outgoing argument area, and Slots the number of slots occupied.
	Slot, Slots int
}

// String implements fmt.Stringer.
func (l ArgLocation) String() string {
	switch l.Kind {
	case LocRegister:
		return l.Reg.String()
	case LocRegisterPair:
		return fmt.Sprintf("%s:%s", l.Reg, l.Reg+1)
	case LocFloatRegister:
		return l.FloatReg.String()
	case LocStack:
		return fmt.Sprintf("stack[%d:%d]", l.Slot, l.Slot+l.Slots)
	}
	return "-"
}

const (
	firstIntArg = R3
	intArgRegs  = 8 // r3-r10
	firstFPArg  = F1
	stackSlot   = 4
)

// AssignArguments assigns each argument of a signature a register or stack
// slot, greedily and in order, the way the native ABI of the target passes
// them. It returns the locations and the number of 4-byte stack slots used.
//
// Integer and pointer values take the next of r3-r10 or else a stack word.
// Floating point values take the next float argument register or else stack
// space, never an integer register. On 32-bit targets a long takes an aligned
// register pair (r3:r4, r5:r6, ...) or an even-aligned pair of slots. A
// spilled float is passed as a double there, so it too takes an even-aligned
// pair of slots.
//
// AssignArguments panics with *ProtocolError if ArgHalf does not follow a wide value.
func AssignArguments(t *Target, args []ArgType) ([]ArgLocation, int) {
	locs := make([]ArgLocation, len(args))
	slotsPerWord := t.wordSize / stackSlot
	var ints, floats, stack int

	stackLoc := func(slots int, even bool) ArgLocation {
		if even && stack&1 == 1 {
			stack++
		}
		l := ArgLocation{Kind: LocStack, Slot: stack, Slots: slots}
		stack += slots
		return l
	}

	for i, arg := range args {
		switch arg {
		case ArgInt, ArgPointer:
			if ints < intArgRegs {
				locs[i] = ArgLocation{Kind: LocRegister, Reg: firstIntArg + Register(ints)}
				ints++
			} else {
				locs[i] = stackLoc(slotsPerWord, false)
			}

		case ArgLong:
			if t.pairWideValues {
				if ints&1 == 1 {
					ints++
				}
				if ints < intArgRegs-1 {
					locs[i] = ArgLocation{Kind: LocRegisterPair, Reg: firstIntArg + Register(ints)}
					ints += 2
				} else {
					locs[i] = stackLoc(2, true)
				}
			} else if ints < intArgRegs {
				locs[i] = ArgLocation{Kind: LocRegister, Reg: firstIntArg + Register(ints)}
				ints++
			} else {
				locs[i] = stackLoc(2, false)
			}

		case ArgFloat:
			if floats < t.floatArgs {
				locs[i] = ArgLocation{Kind: LocFloatRegister, FloatReg: firstFPArg + FloatRegister(floats)}
				floats++
			} else if t.pairWideValues {
				locs[i] = stackLoc(2, true)
			} else {
				locs[i] = stackLoc(slotsPerWord, false)
			}

		case ArgDouble:
			if floats < t.floatArgs {
				locs[i] = ArgLocation{Kind: LocFloatRegister, FloatReg: firstFPArg + FloatRegister(floats)}
				floats++
			} else {
				locs[i] = stackLoc(2, true)
			}

		case ArgHalf:
			if i == 0 || !args[i-1].wide() {
				prev := "nothing"
				if i > 0 {
					prev = args[i-1].String()
				}
				protocolViolation("argument %d: half of a wide value follows %s", i, prev)
			}
			locs[i] = ArgLocation{Kind: LocNone}

		default:
			panic(fmt.Errorf("BUG: unknown argument type %d", arg))
		}
	}
	return locs, stack
}
