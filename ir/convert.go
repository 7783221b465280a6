package ir

import (
	"github.com/pattyshack/gt/parseutil"
)

// A numeric conversion.  Type is the destination type; the source type is the
// source operand's result type.  On 32 bit targets a 64 bit integer source is
// a contained ValuePair.
type Cast struct {
	NodeBase

	Source Node
}

var _ Node = &Cast{}
var _ Validator = &Cast{}

func (cast *Cast) Operands() []Node {
	return []Node{cast.Source}
}

func (cast *Cast) Validate(emitter *parseutil.Emitter) {
	if cast.Source == nil {
		emitter.Emit(cast.Loc(), "cast without source")
	}
	if cast.Type == VoidType || cast.Type == StructType {
		emitter.Emit(cast.Loc(), "cast to %s", cast.Type)
	}
}

// A conditional select between two values.  Cond is nil when the condition
// comes from already-set processor flags.
type Select struct {
	NodeBase

	Cond Node // optional
	Op1  Node
	Op2  Node
}

var _ Node = &Select{}
var _ Validator = &Select{}

func (sel *Select) Operands() []Node {
	operands := []Node{}
	if sel.Cond != nil {
		operands = append(operands, sel.Cond)
	}
	return append(operands, sel.Op1, sel.Op2)
}

func (sel *Select) Validate(emitter *parseutil.Emitter) {
	if sel.Op1 == nil || sel.Op2 == nil {
		emitter.Emit(sel.Loc(), "select without both value operands")
	}
}
