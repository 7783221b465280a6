package architecture

import (
	"math/bits"
	"strings"
)

const (
	// Candidate masks are fixed width bitsets.  No supported architecture has
	// more allocatable registers per class.
	MaxRegistersPerClass = 64
)

type RegisterClass string

const (
	// Usable for signed/unsigned int and pointer operations, as well as
	// general data storage.
	GeneralClass = RegisterClass("general")

	// Usable for float and vector operations.
	FloatClass = RegisterClass("float")
)

// A physical machine register.  Index is the register's bit position within
// its class's RegisterMask, assigned by NewRegisterSet in insertion order.
type Register struct {
	Name string

	Class RegisterClass

	Index int

	// When true, the register is reserved for stack pointer and is never an
	// allocation candidate.
	IsStackPointer bool
}

func NewStackPointerRegister(name string) *Register {
	return &Register{
		Name:           name,
		IsStackPointer: true,
	}
}

func NewGeneralRegister(name string) *Register {
	return &Register{
		Name:  name,
		Class: GeneralClass,
	}
}

func NewFloatRegister(name string) *Register {
	return &Register{
		Name:  name,
		Class: FloatClass,
	}
}

func (register *Register) Mask() RegisterMask {
	if register.IsStackPointer {
		panic("stack pointer register has no candidate mask")
	}
	return RegisterMask(1) << register.Index
}

// A bitset over the allocatable registers of a single register class.  The
// zero value is the empty mask.  An empty mask used as a requirement
// candidate set means unrestricted rather than unsatisfiable.
type RegisterMask uint64

func (mask RegisterMask) IsEmpty() bool {
	return mask == 0
}

func (mask RegisterMask) Count() int {
	return bits.OnesCount64(uint64(mask))
}

func (mask RegisterMask) Contains(register *Register) bool {
	return mask&register.Mask() != 0
}

func (mask RegisterMask) Add(register *Register) RegisterMask {
	return mask | register.Mask()
}

func (mask RegisterMask) Remove(register *Register) RegisterMask {
	return mask &^ register.Mask()
}

func (mask RegisterMask) Union(other RegisterMask) RegisterMask {
	return mask | other
}

func (mask RegisterMask) Intersect(other RegisterMask) RegisterMask {
	return mask & other
}

func (mask RegisterMask) Without(other RegisterMask) RegisterMask {
	return mask &^ other
}

// Assumptions:
//
// 1. A register belongs to exactly one class.  Architectures whose float
// registers alias general registers are not supported.
//
// 2. Each architecture has exactly one stack pointer register.  The stack
// pointer is always live and is never an allocation candidate.
//
// 3. Register indices are dense per class, in insertion order, so a class's
// full candidate mask is contiguous from bit zero.
type RegisterSet struct {
	StackPointer *Register

	// Allocatable registers by class, in mask bit order.
	General []*Register
	Float   []*Register
}

func NewRegisterSet(registers ...*Register) *RegisterSet {
	set := &RegisterSet{}

	names := map[string]struct{}{}
	for _, register := range registers {
		if register.Name == "" {
			panic("no register name")
		}

		_, ok := names[register.Name]
		if ok {
			panic("added duplicate register: " + register.Name)
		}
		names[register.Name] = struct{}{}

		set.add(register)
	}

	if set.StackPointer == nil {
		panic("no stack pointer register specified")
	}

	return set
}

func (set *RegisterSet) add(register *Register) {
	if register.IsStackPointer {
		if set.StackPointer != nil {
			panic("multiple stack pointer register specified")
		}
		set.StackPointer = register
		return
	}

	switch register.Class {
	case GeneralClass:
		register.Index = len(set.General)
		set.General = append(set.General, register)
	case FloatClass:
		register.Index = len(set.Float)
		set.Float = append(set.Float, register)
	default:
		panic("added register without class: " + register.Name)
	}

	if register.Index >= MaxRegistersPerClass {
		panic("too many " + string(register.Class) + " registers")
	}
}

func (set *RegisterSet) ClassRegisters(class RegisterClass) []*Register {
	switch class {
	case GeneralClass:
		return set.General
	case FloatClass:
		return set.Float
	}
	panic("unknown register class: " + string(class))
}

// The full candidate mask for a register class.
func (set *RegisterSet) AllOf(class RegisterClass) RegisterMask {
	registers := set.ClassRegisters(class)
	if len(registers) == MaxRegistersPerClass {
		return ^RegisterMask(0)
	}
	return (RegisterMask(1) << len(registers)) - 1
}

// All listed registers as a mask.  The registers must belong to a single
// class.
func (set *RegisterSet) Mask(registers ...*Register) RegisterMask {
	if len(registers) == 0 {
		panic("no register specified")
	}

	class := registers[0].Class
	mask := RegisterMask(0)
	for _, register := range registers {
		if register.Class != class {
			panic("mask mixes register classes")
		}
		mask = mask.Add(register)
	}
	return mask
}

func (set *RegisterSet) RegistersIn(
	class RegisterClass,
	mask RegisterMask,
) []*Register {
	registers := set.ClassRegisters(class)

	result := []*Register{}
	remaining := uint64(mask)
	for remaining != 0 {
		idx := bits.TrailingZeros64(remaining)
		remaining &^= uint64(1) << idx

		if idx >= len(registers) {
			panic("mask bit without matching register")
		}
		result = append(result, registers[idx])
	}
	return result
}

func (set *RegisterSet) MaskString(
	class RegisterClass,
	mask RegisterMask,
) string {
	names := []string{}
	for _, register := range set.RegistersIn(class, mask) {
		names = append(names, register.Name)
	}
	return "{" + strings.Join(names, " ") + "}"
}
