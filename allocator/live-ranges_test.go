package allocator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pattyshack/shrike/ir"
)

func TestLiveRanges(t *testing.T) {
	addr := addressLocal("p")
	first := loadOf(ir.Int32Type, addr)
	second := loadOf(ir.Int32Type, addr)

	stream := build(t, newArm64(), addr, first, second)
	ranges := ComputeLiveRanges(stream)
	require.Len(t, ranges, 3)

	addrRange := ranges[ir.Node(addr)]
	require.NotNil(t, addrRange)
	assert.Equal(t, 2, addrRange.Start)
	assert.Equal(t, 6, addrRange.End)
	assert.Equal(t, []int{4, 6}, addrRange.NextUses)

	// A dead definition still occupies its defining location.
	firstRange := ranges[ir.Node(first)]
	require.NotNil(t, firstRange)
	assert.Equal(t, 4, firstRange.Start)
	assert.Equal(t, 4, firstRange.End)
	assert.Empty(t, firstRange.NextUses)
}

func TestMultiSlotValueSharesOneRange(t *testing.T) {
	targetPlatform := newArm()
	subsets := targetPlatform.Subsets()

	aggregate := frameLocal("agg", ir.StructType)
	split := &ir.PutArgSplit{
		NodeBase: ir.NodeBase{Type: ir.StructType},
		Source:   aggregate,
		RegCount: 2,
		BaseReg:  subsets.ArgumentRegisters[0],
		ByteSize: 8,
	}
	call := &ir.Call{
		NodeBase: ir.NodeBase{Type: ir.VoidType},
		Label:    "callee",
		Args:     []ir.Node{split},
	}
	stream := build(t, targetPlatform, aggregate, split, call)

	ranges := ComputeLiveRanges(stream)
	splitRange := ranges[ir.Node(split)]
	require.NotNil(t, splitRange)
	assert.Equal(t, stream.Locations[split], splitRange.Start)
	assert.Equal(t, stream.Locations[call], splitRange.End)

	// Both slots' call site uses land at the same location.
	assert.Equal(
		t,
		[]int{stream.Locations[call], stream.Locations[call]},
		splitRange.NextUses)
}

func TestSortedLiveRanges(t *testing.T) {
	addr := addressLocal("p")
	value := local("v", ir.Int32Type)
	store := storeOf(ir.Int32Type, addr, value)

	stream := build(t, newArm64(), addr, value, store)
	sorted := SortedLiveRanges(ComputeLiveRanges(stream))

	require.Len(t, sorted, 2)
	assert.Same(t, ir.Node(addr), sorted[0].Def)
	assert.Same(t, ir.Node(value), sorted[1].Def)
}
