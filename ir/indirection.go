package ir

import (
	"github.com/pattyshack/gt/parseutil"
)

type IndirAccess string

const (
	LoadAccess  = IndirAccess("load")
	StoreAccess = IndirAccess("store")

	// Address probe that faults on nil without transferring data.
	NullCheckAccess = IndirAccess("null-check")
)

// A memory indirection.  Type is the accessed value type for all access
// kinds; only loads produce a result.
type Indir struct {
	NodeBase

	Access IndirAccess

	// A register value, a contained AddrMode, or a contained LocalAddr.
	Addr Node

	// Stores only.
	Value Node

	// Set when the address is not guaranteed aligned to the access width.
	// Unaligned float accesses stage through general registers on 32 bit
	// targets.
	Unaligned bool
}

var _ Node = &Indir{}
var _ Validator = &Indir{}

func (indir *Indir) ResultType() Type {
	if indir.Access != LoadAccess {
		return VoidType
	}
	return indir.Type
}

func (indir *Indir) Operands() []Node {
	operands := []Node{indir.Addr}
	if indir.Value != nil {
		operands = append(operands, indir.Value)
	}
	return operands
}

func (indir *Indir) Validate(emitter *parseutil.Emitter) {
	if indir.Addr == nil {
		emitter.Emit(indir.Loc(), "indirection without address")
	}

	switch indir.Access {
	case LoadAccess, NullCheckAccess:
		if indir.Value != nil {
			emitter.Emit(indir.Loc(), "%s indirection with value operand",
				indir.Access)
		}
	case StoreAccess:
		if indir.Value == nil {
			emitter.Emit(indir.Loc(), "store indirection without value operand")
		}
	default:
		emitter.Emit(indir.Loc(), "unknown indirection access: %s", indir.Access)
	}

	if indir.Type == VoidType {
		emitter.Emit(indir.Loc(), "indirection with void access type")
	} else if indir.Type == StructType && !indir.IsContained {
		// Aggregate indirections never load into registers; they appear only
		// as contained argument sources.
		emitter.Emit(indir.Loc(), "aggregate indirection must be contained")
	}
}
