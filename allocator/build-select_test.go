package allocator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pattyshack/shrike/ir"
)

func TestSelect(t *testing.T) {
	cond := local("c", ir.Int32Type)
	op1 := local("a", ir.Int64Type)
	op2 := local("b", ir.Int64Type)
	sel := &ir.Select{
		NodeBase: ir.NodeBase{Type: ir.Int64Type},
		Cond:     cond,
		Op1:      op1,
		Op2:      op2,
	}
	stream := build(t, newArm64(), cond, op1, op2, sel)

	location := stream.Locations[sel]
	assert.Equal(t, 3, stream.SlotCounts[sel])
	assert.Empty(t, stream.InternalsAt(location))

	uses := stream.UsesAt(location)
	require.Len(t, uses, 3)
	assert.Same(t, ir.Node(cond), uses[0].Node)
	assert.Same(t, ir.Node(op1), uses[1].Node)
	assert.Same(t, ir.Node(op2), uses[2].Node)

	defs := stream.DefsOf(sel)
	require.Len(t, defs, 1)
	assert.True(t, defs[0].Candidates.IsEmpty())
}

func TestSelectOnProcessorFlags(t *testing.T) {
	op1 := local("a", ir.Int64Type)
	op2 := local("b", ir.Int64Type)
	sel := &ir.Select{
		NodeBase: ir.NodeBase{Type: ir.Int64Type},
		Op1:      op1,
		Op2:      op2,
	}
	stream := build(t, newArm64(), op1, op2, sel)

	assert.Equal(t, 2, stream.SlotCounts[sel])
}

func TestSelectWithContainedOperand(t *testing.T) {
	cond := local("c", ir.Int32Type)
	op1 := local("a", ir.Int64Type)
	op2 := &ir.IntConst{
		NodeBase: ir.NodeBase{Type: ir.Int64Type, IsContained: true},
	}
	sel := &ir.Select{
		NodeBase: ir.NodeBase{Type: ir.Int64Type},
		Cond:     cond,
		Op1:      op1,
		Op2:      op2,
	}
	stream := build(t, newArm64(), cond, op1, op2, sel)

	assert.Equal(t, 2, stream.SlotCounts[sel])
}
