package ir

import (
	"github.com/pattyshack/shrike/architecture"
)

// Value types as seen by register requirement building.  Aggregate layout is
// flattened away before this stage; only byte size, register class, and a
// handful of shape special cases matter here.
type Type string

const (
	VoidType = Type("void")

	Int8Type  = Type("int8")
	Int16Type = Type("int16")
	Int32Type = Type("int32")

	// Register sized on 64 bit targets, a register pair on 32 bit targets.
	Int64Type = Type("int64")

	// Pointer width integer / gc-untracked address.
	AddressType = Type("address")

	// GC tracked object reference.
	RefType = Type("ref")

	Float32Type = Type("float32")
	Float64Type = Type("float64")

	// A 3 element float vector packed into a 12 byte slot.  The value lives in
	// a 16 byte vector register, but memory transfers move 8+4 bytes.
	Vector12Type = Type("vector12")

	Vector16Type = Type("vector16")

	// Aggregate passed by layout.  Byte size is carried by the node.
	StructType = Type("struct")
)

func (t Type) IsFloat() bool {
	return t == Float32Type || t == Float64Type
}

func (t Type) IsVector() bool {
	return t == Vector12Type || t == Vector16Type
}

func (t Type) UsesFloatRegister() bool {
	return t.IsFloat() || t.IsVector()
}

func (t Type) RegisterClass() architecture.RegisterClass {
	if t.UsesFloatRegister() {
		return architecture.FloatClass
	}

	switch t {
	case Int8Type, Int16Type, Int32Type, Int64Type, AddressType, RefType:
		return architecture.GeneralClass
	}

	panic("should never happen: no register class for " + string(t))
}

// The access width in bytes.  Pointer width types depend on the target's word
// size.
func (t Type) ByteSize(wordByteSize int) int {
	switch t {
	case Int8Type:
		return 1
	case Int16Type:
		return 2
	case Int32Type, Float32Type:
		return 4
	case Int64Type, Float64Type:
		return 8
	case AddressType, RefType:
		return wordByteSize
	case Vector12Type:
		return 12
	case Vector16Type:
		return 16
	}

	panic("should never happen: no byte size for " + string(t))
}
