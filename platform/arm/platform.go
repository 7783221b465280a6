package arm

import (
	"github.com/pattyshack/shrike/architecture"
	"github.com/pattyshack/shrike/ir"
	"github.com/pattyshack/shrike/platform"
)

type Platform struct {
	os      platform.OperatingSystemName
	subsets *platform.RegisterSubsets
}

func NewPlatform(os platform.OperatingSystemName) platform.Platform {
	return Platform{
		os:      os,
		subsets: newRegisterSubsets(),
	}
}

func (Platform) ArchitectureName() platform.ArchitectureName {
	return platform.Arm
}

func (p Platform) OperatingSystemName() platform.OperatingSystemName {
	return p.os
}

func (Platform) RegisterSet() *architecture.RegisterSet {
	return RegisterSet
}

func (p Platform) Subsets() *platform.RegisterSubsets {
	return p.subsets
}

func (Platform) WordByteSize() int {
	return 4
}

// Paired d register transfers are the widest available; there is no baseline
// vector instruction set.
func (Platform) VectorByteSize() int {
	return 8
}

func (Platform) Is64Bit() bool {
	return false
}

func (Platform) HasBaselineVector() bool {
	return false
}

func (Platform) StagesUnalignedFloat() bool {
	return true
}

func (Platform) StagesFloatToIntCast() bool {
	return true
}

func (Platform) EncodableIndirOffset(
	offset int64,
	accessByteSize int,
	isFloat bool,
) bool {
	if isFloat {
		// Float transfers use a word scaled 8 bit field.
		return offset%4 == 0 && -1020 <= offset && offset <= 1020
	}

	switch accessByteSize {
	case 1, 4:
		return -4095 <= offset && offset <= 4095
	default:
		// Halfword and dual transfers only carry an 8 bit field.
		return -255 <= offset && offset <= 255
	}
}

func (Platform) ReturnRegister(
	idx int,
	class architecture.RegisterClass,
) *architecture.Register {
	switch class {
	case architecture.GeneralClass:
		switch idx {
		case 0:
			return r0
		case 1:
			return r1
		case 2:
			return r2
		case 3:
			return r3
		}
	case architecture.FloatClass:
		switch idx {
		case 0:
			return d0
		case 1:
			return d1
		case 2:
			return d2
		case 3:
			return d3
		}
	}
	panic("should never happen: no return register for result slot")
}

func (p Platform) KillSetForCall(call *ir.Call) platform.KillSet {
	return platform.CallKillSet(p.subsets, call)
}

func (p Platform) KillSetForBlockOp(op *ir.BlockOp) platform.KillSet {
	return platform.BlockOpKillSet(p.subsets, op)
}
