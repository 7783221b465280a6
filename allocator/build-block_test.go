package allocator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pattyshack/shrike/architecture"
	"github.com/pattyshack/shrike/ir"
)

func blockOp(
	kind ir.BlockOpKind,
	strategy ir.BlockStrategy,
	byteSize int,
	dst ir.Node,
	src ir.Node,
) *ir.BlockOp {
	return &ir.BlockOp{
		NodeBase: ir.NodeBase{Type: ir.VoidType},
		Kind:     kind,
		Strategy: strategy,
		ByteSize: byteSize,
		Dst:      dst,
		Src:      src,
	}
}

func containedZero() *ir.IntConst {
	return &ir.IntConst{
		NodeBase: ir.NodeBase{Type: ir.Int64Type, IsContained: true},
	}
}

func classCounts(internals []*Requirement) (int, int) {
	general := 0
	float := 0
	for _, requirement := range internals {
		if requirement.Class == architecture.GeneralClass {
			general++
		} else {
			float++
		}
	}
	return general, float
}

func TestInitUnroll(t *testing.T) {
	// A register destination with a register sized fill needs no scratch.
	dst := addressLocal("dst")
	fill := containedZero()
	op := blockOp(ir.InitBlockOp, ir.UnrollStrategy, 16, dst, fill)

	stream := build(t, newArm64(), dst, fill, op)
	assert.Empty(t, stream.InternalsAt(stream.Locations[op]))

	// Wide fills can use vector stores.
	wideDst := addressLocal("dst")
	wideFill := containedZero()
	wideOp := blockOp(ir.InitBlockOp, ir.UnrollStrategy, 24, wideDst, wideFill)

	stream = build(t, newArm64(), wideDst, wideFill, wideOp)
	internals := stream.InternalsAt(stream.Locations[wideOp])
	require.Len(t, internals, 1)
	assert.Equal(t, architecture.FloatClass, internals[0].Class)

	// A folded destination address is rematerialized at code generation
	// time.
	base := addressLocal("base")
	foldedDst := containedAddrMode(base, nil, 64)
	foldedFill := containedZero()
	foldedOp := blockOp(
		ir.InitBlockOp,
		ir.UnrollStrategy,
		24,
		foldedDst,
		foldedFill)

	stream = build(t, newArm64(), base, foldedDst, foldedFill, foldedOp)

	location := stream.Locations[foldedOp]
	general, float := classCounts(stream.InternalsAt(location))
	assert.Equal(t, 1, general)
	assert.Equal(t, 1, float)
	assert.Equal(t, 1, stream.SlotCounts[foldedOp])
}

func TestInitUnrollNeedsNoScratchOn32Bit(t *testing.T) {
	base := addressLocal("base")
	dst := containedAddrMode(base, nil, 64)
	fill := containedZero()
	op := blockOp(ir.InitBlockOp, ir.UnrollStrategy, 24, dst, fill)

	stream := build(t, newArm(), base, dst, fill, op)
	assert.Empty(t, stream.InternalsAt(stream.Locations[op]))
}

func TestInitLoop(t *testing.T) {
	dst := addressLocal("dst")
	fill := local("v", ir.Int64Type)
	op := blockOp(ir.InitBlockOp, ir.LoopStrategy, 256, dst, fill)

	stream := build(t, newArm64(), dst, fill, op)

	location := stream.Locations[op]
	assert.Equal(t, 2, stream.SlotCounts[op])

	// The store loop keeps a running offset.
	internals := stream.InternalsAt(location)
	require.Len(t, internals, 1)
	assert.Equal(t, architecture.GeneralClass, internals[0].Class)
}

func TestObjCopyUnroll(t *testing.T) {
	targetPlatform := newArm64()
	subsets := targetPlatform.Subsets()

	dst := addressLocal("dst")
	src := addressLocal("src")
	op := blockOp(ir.CopyBlockOp, ir.ObjCopyUnrollStrategy, 8, dst, src)

	stream := build(t, targetPlatform, dst, src, op)

	location := stream.Locations[op]
	require.Equal(
		t,
		[]RequirementKind{
			UseRequirement,
			UseRequirement,
			InternalRequirement,
			KillRequirement,
			KillRequirement,
		},
		kindsAt(stream, location))

	// The addresses arrive in the barrier helper's fixed registers.
	uses := stream.UsesAt(location)
	assert.Equal(t, subsets.WriteBarrierDst.Mask(), uses[0].Candidates)
	assert.Equal(t, subsets.WriteBarrierSrc.Mask(), uses[1].Candidates)

	// Scratches must stay clear of that pair.
	internals := stream.InternalsAt(location)
	assert.False(t, internals[0].Candidates.Contains(subsets.WriteBarrierDst))
	assert.False(t, internals[0].Candidates.Contains(subsets.WriteBarrierSrc))

	kills := stream.KillsAt(location)
	assert.Equal(t, subsets.CallerTrashedGeneral, kills[0].Candidates)
	assert.Equal(t, subsets.CallerTrashedFloat, kills[1].Candidates)
}

func TestObjCopyUnrollScratchTiers(t *testing.T) {
	// Paired transfers from two words up.
	dst := addressLocal("dst")
	src := addressLocal("src")
	op := blockOp(ir.CopyBlockOp, ir.ObjCopyUnrollStrategy, 16, dst, src)

	stream := build(t, newArm64(), dst, src, op)
	general, float := classCounts(stream.InternalsAt(stream.Locations[op]))
	assert.Equal(t, 2, general)
	assert.Equal(t, 0, float)

	// Vector transfers from four words up.
	wideDst := addressLocal("dst")
	wideSrc := addressLocal("src")
	wideOp := blockOp(ir.CopyBlockOp, ir.ObjCopyUnrollStrategy, 32, wideDst, wideSrc)

	stream = build(t, newArm64(), wideDst, wideSrc, wideOp)
	general, float = classCounts(stream.InternalsAt(stream.Locations[wideOp]))
	assert.Equal(t, 2, general)
	assert.Equal(t, 2, float)

	// No baseline vector support on 32 bit targets.
	dst32 := addressLocal("dst")
	src32 := addressLocal("src")
	op32 := blockOp(ir.CopyBlockOp, ir.ObjCopyUnrollStrategy, 32, dst32, src32)

	stream = build(t, newArm(), dst32, src32, op32)
	general, float = classCounts(stream.InternalsAt(stream.Locations[op32]))
	assert.Equal(t, 2, general)
	assert.Equal(t, 0, float)
}

func TestObjCopyFromFrameResidentSource(t *testing.T) {
	targetPlatform := newArm64()
	subsets := targetPlatform.Subsets()

	dst := addressLocal("dst")
	src := frameAddr("src")
	op := blockOp(ir.CopyBlockOp, ir.ObjCopyUnrollStrategy, 8, dst, src)

	stream := build(t, targetPlatform, dst, src, op)

	// Code generation computes the frame address directly into the
	// barrier's source register; only the destination claims a use here.
	location := stream.Locations[op]
	assert.Equal(t, 1, stream.SlotCounts[op])

	uses := stream.UsesAt(location)
	require.Len(t, uses, 1)
	assert.Equal(t, subsets.WriteBarrierDst.Mask(), uses[0].Candidates)
}

func TestCopyUnrollScratchTiers(t *testing.T) {
	cases := []struct {
		byteSize int
		general  int
		float    int
	}{
		{byteSize: 8, general: 1, float: 0},
		{byteSize: 16, general: 2, float: 0},
		{byteSize: 32, general: 2, float: 2},
	}

	for _, testCase := range cases {
		dst := addressLocal("dst")
		src := addressLocal("src")
		op := blockOp(
			ir.CopyBlockOp,
			ir.UnrollStrategy,
			testCase.byteSize,
			dst,
			src)

		stream := build(t, newArm64(), dst, src, op)
		general, float := classCounts(stream.InternalsAt(stream.Locations[op]))
		assert.Equal(t, testCase.general, general, "size %d", testCase.byteSize)
		assert.Equal(t, testCase.float, float, "size %d", testCase.byteSize)
	}
}

func TestCopyUnrollOn32Bit(t *testing.T) {
	dst := addressLocal("dst")
	src := addressLocal("src")
	op := blockOp(ir.CopyBlockOp, ir.UnrollStrategy, 32, dst, src)

	stream := build(t, newArm(), dst, src, op)

	internals := stream.InternalsAt(stream.Locations[op])
	require.Len(t, internals, 1)
	assert.Equal(t, architecture.GeneralClass, internals[0].Class)
}

// When both addresses are frame computable they materialize at code
// generation time, and the offset fixups need a register that collides with
// neither.
func TestCopyUnrollWithBothAddressesFolded(t *testing.T) {
	dst := frameAddr("dst")
	src := frameAddr("src")
	op := blockOp(ir.CopyBlockOp, ir.UnrollStrategy, 8, dst, src)

	stream := build(t, newArm64(), dst, src, op)

	location := stream.Locations[op]
	assert.Equal(t, 0, stream.SlotCounts[op])

	general, float := classCounts(stream.InternalsAt(location))
	assert.Equal(t, 2, general)
	assert.Equal(t, 0, float)
}

func TestMoveUnrollScratchCounts(t *testing.T) {
	cases := []struct {
		byteSize int
		general  int
		float    int
	}{
		{byteSize: 16, general: 0, float: 1},
		{byteSize: 40, general: 0, float: 3},
		{byteSize: 8, general: 1, float: 0},
		{byteSize: 12, general: 2, float: 0},
	}

	for _, testCase := range cases {
		dst := addressLocal("dst")
		src := addressLocal("src")
		op := blockOp(
			ir.CopyBlockOp,
			ir.MoveUnrollStrategy,
			testCase.byteSize,
			dst,
			src)

		stream := build(t, newArm64(), dst, src, op)
		general, float := classCounts(stream.InternalsAt(stream.Locations[op]))
		assert.Equal(t, testCase.general, general, "size %d", testCase.byteSize)
		assert.Equal(t, testCase.float, float, "size %d", testCase.byteSize)
	}
}

func TestMoveUnrollPanicsOn32Bit(t *testing.T) {
	dst := addressLocal("dst")
	src := addressLocal("src")
	op := blockOp(ir.CopyBlockOp, ir.MoveUnrollStrategy, 16, dst, src)

	require.PanicsWithValue(
		t,
		"should never happen: overlap safe move on a 32 bit target",
		func() {
			buildUnchecked(newArm(), dst, src, op)
		})
}

func TestPlainCopiesClobberNothing(t *testing.T) {
	dst := addressLocal("dst")
	src := addressLocal("src")
	op := blockOp(ir.CopyBlockOp, ir.UnrollStrategy, 16, dst, src)

	stream := build(t, newArm64(), dst, src, op)

	location := stream.Locations[op]
	assert.Empty(t, stream.KillsAt(location))
	assert.Empty(t, stream.DefsOf(op))
}
