package ir

import (
	"github.com/pattyshack/gt/parseutil"

	"github.com/pattyshack/shrike/architecture"
)

// Runtime helper identities that change register requirement shapes.  All
// other helpers behave like ordinary direct calls.
type HelperKind string

const (
	NotHelper = HelperKind("")

	// Establishes the native interop frame.  Defines its result in the fixed
	// thread control block register instead of the normal return register.
	InteropFrameHelper = HelperKind("interop-frame")

	// Resolves a thread local storage address.  On unix 64 bit targets the
	// call lowers to a fixed instruction pattern that a post-link step
	// rewrites, so specific registers must be pinned around it.
	TlsAddressHelper = HelperKind("tls-address")
)

type Call struct {
	NodeBase

	// Direct target symbol; empty for indirect calls.
	Label string

	// Control expression producing the target address.  nil when the target
	// is a direct symbol, or when the dispatch sequence materializes the
	// target itself.
	Target Node

	// PutArgReg / PutArgStk / PutArgSplit nodes in setup order.
	Args []Node

	Helper HelperKind

	// Per register return types of a value spanning multiple registers.
	// Empty for void and single register returns.
	MultiRetTypes []Type

	// The call is a tail call emitted as a direct jump.
	FastTailCall bool

	// The target is resolved through a runtime indirection cell (position
	// independent or stub dispatch).
	ViaDispatchCell bool

	// The callee/this pointer requires an implicit null check.
	NeedsNullCheck bool

	// The continuation context register must stay live across the call.
	ProtectsContinuation bool

	// The call follows a foreign error convention with a designated error
	// register that must stay live across the call.
	UsesForeignError bool
}

var _ Node = &Call{}
var _ Validator = &Call{}

func (call *Call) Operands() []Node {
	operands := append([]Node{}, call.Args...)
	if call.Target != nil {
		operands = append(operands, call.Target)
	}
	return operands
}

func (call *Call) ReturnsValue() bool {
	return call.Type != VoidType || len(call.MultiRetTypes) > 0
}

func (call *Call) Validate(emitter *parseutil.Emitter) {
	if call.Label == "" && call.Target == nil && call.Helper == NotHelper {
		emitter.Emit(call.Loc(), "call without target")
	}

	if len(call.MultiRetTypes) == 1 {
		emitter.Emit(call.Loc(), "multi-register return with one register")
	}

	if call.Type == StructType && len(call.MultiRetTypes) == 0 {
		emitter.Emit(call.Loc(), "aggregate return without per-register types")
	}

	for _, arg := range call.Args {
		switch arg.(type) {
		case *PutArgReg, *PutArgStk, *PutArgSplit:
		default:
			emitter.Emit(call.Loc(), "call argument is not an argument node")
		}
	}
}

// A scalar/chunk argument placed in a specific outgoing argument register.
type PutArgReg struct {
	NodeBase

	Source Node

	Reg *architecture.Register
}

var _ Node = &PutArgReg{}
var _ Validator = &PutArgReg{}

func (arg *PutArgReg) Operands() []Node {
	return []Node{arg.Source}
}

func (arg *PutArgReg) Validate(emitter *parseutil.Emitter) {
	if arg.Source == nil {
		emitter.Emit(arg.Loc(), "register argument without source")
	}
	if arg.Reg == nil {
		emitter.Emit(arg.Loc(), "register argument without assigned register")
	}
}

// An argument fully passed on the outgoing stack.
type PutArgStk struct {
	NodeBase

	// A FieldList, a contained aggregate Indir, a contained frame resident
	// LocalVar, or a scalar value.
	Source Node

	StackOffset int
	ByteSize    int
}

var _ Node = &PutArgStk{}
var _ Validator = &PutArgStk{}

func (arg *PutArgStk) Operands() []Node {
	return []Node{arg.Source}
}

func (arg *PutArgStk) Validate(emitter *parseutil.Emitter) {
	if arg.Source == nil {
		emitter.Emit(arg.Loc(), "stack argument without source")
	}
}

// An aggregate argument split between RegCount destination registers and the
// outgoing stack.  The destination register per slot is annotated during
// requirement building and read by later code generation.
type PutArgSplit struct {
	NodeBase

	// A FieldList or a contained aggregate Indir / frame resident LocalVar.
	Source Node

	RegCount int
	BaseReg  *architecture.Register
	ByteSize int

	destRegs []*architecture.Register
}

var _ Node = &PutArgSplit{}
var _ Validator = &PutArgSplit{}

func (arg *PutArgSplit) Operands() []Node {
	return []Node{arg.Source}
}

func (arg *PutArgSplit) SetDestinationRegister(
	idx int,
	register *architecture.Register,
) {
	if idx < 0 || idx >= arg.RegCount {
		panic("should never happen: destination register index out of range")
	}

	if arg.destRegs == nil {
		arg.destRegs = make([]*architecture.Register, arg.RegCount)
	}
	arg.destRegs[idx] = register
}

func (arg *PutArgSplit) DestinationRegister(idx int) *architecture.Register {
	if arg.destRegs == nil || idx < 0 || idx >= arg.RegCount {
		panic("should never happen: destination register index out of range")
	}
	return arg.destRegs[idx]
}

func (arg *PutArgSplit) Validate(emitter *parseutil.Emitter) {
	if arg.Source == nil {
		emitter.Emit(arg.Loc(), "split argument without source")
	}
	if arg.RegCount < 1 {
		emitter.Emit(arg.Loc(), "split argument without destination registers")
	}
	if arg.BaseReg == nil {
		emitter.Emit(arg.Loc(), "split argument without base register")
	}

	// Split destinations are general registers; lowering retypes float
	// field bits accordingly.
	if fieldList, ok := arg.Source.(*FieldList); ok {
		for _, field := range fieldList.Fields {
			if field.Value != nil &&
				field.Value.ResultType().UsesFloatRegister() {

				emitter.Emit(arg.Loc(), "split argument field in float register")
			}
		}
	}
}

// An aggregate decomposed into individually produced fields.  Always
// contained; the consuming argument node walks the fields directly.
type FieldList struct {
	NodeBase

	Fields []Field
}

type Field struct {
	Value Node

	// Byte offset within the aggregate.
	Offset int
}

var _ Node = &FieldList{}
var _ Validator = &FieldList{}

func (list *FieldList) Operands() []Node {
	operands := []Node{}
	for _, field := range list.Fields {
		operands = append(operands, field.Value)
	}
	return operands
}

func (list *FieldList) Validate(emitter *parseutil.Emitter) {
	if !list.IsContained {
		emitter.Emit(list.Loc(), "field list must be contained")
	}

	prevOffset := -1
	for _, field := range list.Fields {
		if field.Value == nil {
			emitter.Emit(list.Loc(), "field list with missing value")
			continue
		}
		if field.Offset <= prevOffset {
			emitter.Emit(list.Loc(), "field list offsets not increasing")
		}
		prevOffset = field.Offset
	}
}
