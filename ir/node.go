package ir

import (
	"github.com/pattyshack/gt/parseutil"
)

// A lowered IR node.  Nodes are already architecture-legal when they reach
// the register allocator: containment flags, addressing mode decomposition,
// and block operation strategies were all decided by lowering.
type Node interface {
	parseutil.Locatable

	// The node's result type; VoidType if the node produces no value.
	ResultType() Type

	// True when the node's value is folded into its consumer's instruction
	// encoding and never occupies a register of its own.
	Contained() bool

	// Operand values in evaluation order.
	Operands() []Node
}

type Validator interface {
	Validate(*parseutil.Emitter)
}

type NodeBase struct {
	parseutil.StartEndPos

	Type Type

	// Set by lowering.  See Node.Contained.
	IsContained bool
}

func (base *NodeBase) ResultType() Type {
	return base.Type
}

func (base *NodeBase) Contained() bool {
	return base.IsContained
}

func (base *NodeBase) Operands() []Node {
	return nil
}

// A local variable value.  When contained, the variable is frame resident and
// the consumer accesses it directly at a frame offset.
type LocalVar struct {
	NodeBase

	Name string
}

var _ Node = &LocalVar{}
var _ Validator = &LocalVar{}

func (local *LocalVar) Validate(emitter *parseutil.Emitter) {
	if local.Name == "" {
		emitter.Emit(local.Loc(), "empty local variable name")
	}
}

// The address of a frame slot.  Always frame computable; typically contained
// into the consuming access.
type LocalAddr struct {
	NodeBase

	Name   string
	Offset int64
}

var _ Node = &LocalAddr{}
var _ Validator = &LocalAddr{}

func (addr *LocalAddr) Validate(emitter *parseutil.Emitter) {
	if addr.Name == "" {
		emitter.Emit(addr.Loc(), "empty local address name")
	}
}

type IntConst struct {
	NodeBase

	Value int64
}

var _ Node = &IntConst{}

// A contained base+index*scale+offset addressing expression.  Lowering
// guarantees at most one of {index, offset} survives into the final
// instruction encoding; the other is materialized through a scratch register
// at code generation time.
type AddrMode struct {
	NodeBase

	Base  Node // optional
	Index Node // optional

	Scale  int
	Offset int64
}

var _ Node = &AddrMode{}
var _ Validator = &AddrMode{}

func (addr *AddrMode) Operands() []Node {
	operands := []Node{}
	if addr.Base != nil {
		operands = append(operands, addr.Base)
	}
	if addr.Index != nil {
		operands = append(operands, addr.Index)
	}
	return operands
}

func (addr *AddrMode) Validate(emitter *parseutil.Emitter) {
	if !addr.IsContained {
		emitter.Emit(addr.Loc(), "addressing expression must be contained")
	}
	if addr.Base == nil && addr.Index == nil {
		emitter.Emit(addr.Loc(), "addressing expression without base or index")
	}
}

// A 64 bit value decomposed into two 32 bit halves on 32 bit targets.  The
// pair itself never occupies a register; its halves do.
type ValuePair struct {
	NodeBase

	Low  Node
	High Node
}

var _ Node = &ValuePair{}
var _ Validator = &ValuePair{}

func (pair *ValuePair) Operands() []Node {
	return []Node{pair.Low, pair.High}
}

func (pair *ValuePair) Validate(emitter *parseutil.Emitter) {
	if !pair.IsContained {
		emitter.Emit(pair.Loc(), "value pair must be contained")
	}
	if pair.Low == nil || pair.High == nil {
		emitter.Emit(pair.Loc(), "value pair missing a half")
	}
}
