package platform

import (
	"github.com/pattyshack/shrike/architecture"
	"github.com/pattyshack/shrike/ir"
)

type ArchitectureName string
type OperatingSystemName string

const (
	Arm   = ArchitectureName("arm")
	Arm64 = ArchitectureName("arm64")

	Linux  = OperatingSystemName("linux")
	Darwin = OperatingSystemName("darwin")
)

type Platform interface {
	ArchitectureName() ArchitectureName
	OperatingSystemName() OperatingSystemName

	RegisterSet() *architecture.RegisterSet
	Subsets() *RegisterSubsets

	WordByteSize() int
	VectorByteSize() int
	Is64Bit() bool

	// The baseline vector instruction set is available for block transfers.
	HasBaselineVector() bool

	// Unaligned float accesses cannot be performed by the float unit and
	// stage through general registers instead.
	StagesUnalignedFloat() bool

	// Float to integer conversion stages through a float scratch register
	// that must stay live until the result is written.
	StagesFloatToIntCast() bool

	// Whether offset fits the load/store immediate field for the access
	// width.
	EncodableIndirOffset(offset int64, accessByteSize int, isFloat bool) bool

	// The return home of result slot idx for a value of the given class.
	ReturnRegister(
		idx int,
		class architecture.RegisterClass,
	) *architecture.Register

	// Conservative clobber oracles consumed as-is by requirement building.
	KillSetForCall(call *ir.Call) KillSet
	KillSetForBlockOp(op *ir.BlockOp) KillSet
}

// Registers invalidated by a node without being a declared use or
// definition, per register class.
type KillSet struct {
	General architecture.RegisterMask
	Float   architecture.RegisterMask
}

func (kills KillSet) IsEmpty() bool {
	return kills.General.IsEmpty() && kills.Float.IsEmpty()
}
