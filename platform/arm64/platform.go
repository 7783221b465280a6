package arm64

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
		subsets: newRegisterSubsets(os),
	}
}

func (Platform) ArchitectureName() platform.ArchitectureName {
	return platform.Arm64
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
	return 8
}

func (Platform) VectorByteSize() int {
	return 16
}

func (Platform) Is64Bit() bool {
	return true
}

func (Platform) HasBaselineVector() bool {
	return true
}

func (Platform) StagesUnalignedFloat() bool {
	return false
}

func (Platform) StagesFloatToIntCast() bool {
	return false
}

// Load/store immediates are either scaled unsigned 12 bit fields or signed
// 9 bit unscaled fields.
func (Platform) EncodableIndirOffset(
	offset int64,
	accessByteSize int,
	isFloat bool,
) bool {
	if offset == 0 {
		return true
	}

	width := int64(accessByteSize)
	if offset > 0 && offset%width == 0 && offset/width < 4096 {
		return true
	}

	return -256 <= offset && offset <= 255
}

func (Platform) ReturnRegister(
	idx int,
	class architecture.RegisterClass,
) *architecture.Register {
	switch class {
	case architecture.GeneralClass:
		switch idx {
		case 0:
			return x0
		case 1:
			return x1
		}
	case architecture.FloatClass:
		switch idx {
		case 0:
			return v0
		case 1:
			return v1
		case 2:
			return v2
		case 3:
			return v3
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
