package ir

import (
	"github.com/pattyshack/gt/parseutil"
)

type BlockOpKind string

const (
	CopyBlockOp = BlockOpKind("copy")
	InitBlockOp = BlockOpKind("init")
)

// Code generation strategy chosen by lowering based on size and shape.
type BlockStrategy string

const (
	// Inline unrolled scalar/vector transfers.
	UnrollStrategy = BlockStrategy("unroll")

	// Init only: store loop with a running offset.
	LoopStrategy = BlockStrategy("loop")

	// Object reference copy through the write barrier helper.
	ObjCopyUnrollStrategy = BlockStrategy("obj-copy-unroll")

	// Overlap safe copy: the whole source is loaded into registers before any
	// store.
	MoveUnrollStrategy = BlockStrategy("move-unroll")
)

// A fixed size block copy or initialization.
type BlockOp struct {
	NodeBase // Type is VoidType

	Kind     BlockOpKind
	Strategy BlockStrategy

	ByteSize int

	// Destination address: a register value, or a contained AddrMode /
	// LocalAddr.
	Dst Node

	// Copy: the source address, same shapes as Dst.  Init: the fill value,
	// contained for constant fills.
	Src Node
}

var _ Node = &BlockOp{}
var _ Validator = &BlockOp{}

func (op *BlockOp) Operands() []Node {
	operands := []Node{}
	if op.Dst != nil {
		operands = append(operands, op.Dst)
	}
	if op.Src != nil {
		operands = append(operands, op.Src)
	}
	return operands
}

func (op *BlockOp) Validate(emitter *parseutil.Emitter) {
	if op.Dst == nil {
		emitter.Emit(op.Loc(), "block operation without destination address")
	}
	if op.Src == nil {
		emitter.Emit(op.Loc(), "block operation without source operand")
	}

	switch op.Kind {
	case CopyBlockOp:
		switch op.Strategy {
		case UnrollStrategy, ObjCopyUnrollStrategy, MoveUnrollStrategy:
		case LoopStrategy:
			emitter.Emit(op.Loc(), "loop strategy on block copy")
		default:
			emitter.Emit(op.Loc(), "unknown block strategy: %s", op.Strategy)
		}
	case InitBlockOp:
		switch op.Strategy {
		case UnrollStrategy, LoopStrategy:
		case ObjCopyUnrollStrategy, MoveUnrollStrategy:
			emitter.Emit(op.Loc(), "copy strategy on block init")
		default:
			emitter.Emit(op.Loc(), "unknown block strategy: %s", op.Strategy)
		}
	default:
		emitter.Emit(op.Loc(), "unknown block operation kind: %s", op.Kind)
	}

	if op.Strategy == MoveUnrollStrategy && op.ByteSize == 0 {
		// Lowering eliminates zero sized moves.
		emitter.Emit(op.Loc(), "overlap safe move with zero size")
	}
}
