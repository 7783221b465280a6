package ir

import (
	"testing"

	"github.com/pattyshack/gt/parseutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validateUnit(nodes ...Node) []error {
	unit := &Unit{Name: "test-unit"}
	unit.Append(nodes...)

	emitter := &parseutil.Emitter{}
	ValidateUnit(unit, emitter)
	return emitter.Errors()
}

func TestValidUnit(t *testing.T) {
	addr := &LocalVar{
		NodeBase: NodeBase{Type: AddressType},
		Name:     "p",
	}
	load := &Indir{
		NodeBase: NodeBase{Type: Int32Type},
		Access:   LoadAccess,
		Addr:     addr,
	}

	require.Empty(t, validateUnit(addr, load))
}

func TestOperandMustPrecedeConsumer(t *testing.T) {
	addr := &LocalVar{
		NodeBase: NodeBase{Type: AddressType},
		Name:     "p",
	}
	load := &Indir{
		NodeBase: NodeBase{Type: Int32Type},
		Access:   LoadAccess,
		Addr:     addr,
	}

	errs := validateUnit(load, addr)
	require.NotEmpty(t, errs)
	assert.ErrorContains(t, errs[0], "operand does not precede its consumer")
}

func TestContainedNodeNeedsConsumer(t *testing.T) {
	base := &LocalVar{
		NodeBase: NodeBase{Type: AddressType},
		Name:     "p",
	}
	addrMode := &AddrMode{
		NodeBase: NodeBase{Type: AddressType, IsContained: true},
		Base:     base,
		Offset:   8,
	}

	errs := validateUnit(base, addrMode)
	require.Len(t, errs, 1)
	assert.ErrorContains(t, errs[0], "contained node without consumer")
}

func TestIndirShapeChecks(t *testing.T) {
	addr := &LocalVar{
		NodeBase: NodeBase{Type: AddressType},
		Name:     "p",
	}

	storeWithoutValue := &Indir{
		NodeBase: NodeBase{Type: Int32Type},
		Access:   StoreAccess,
		Addr:     addr,
	}
	errs := validateUnit(addr, storeWithoutValue)
	require.Len(t, errs, 1)
	assert.ErrorContains(t, errs[0], "store indirection without value operand")

	value := &LocalVar{
		NodeBase: NodeBase{Type: Int32Type},
		Name:     "v",
	}
	probeWithValue := &Indir{
		NodeBase: NodeBase{Type: Int8Type},
		Access:   NullCheckAccess,
		Addr:     addr,
		Value:    value,
	}
	errs = validateUnit(addr, value, probeWithValue)
	require.Len(t, errs, 1)
	assert.ErrorContains(t, errs[0], "null-check indirection with value operand")
}

func TestIndirResultType(t *testing.T) {
	addr := &LocalVar{
		NodeBase: NodeBase{Type: AddressType},
		Name:     "p",
	}

	load := &Indir{
		NodeBase: NodeBase{Type: Float64Type},
		Access:   LoadAccess,
		Addr:     addr,
	}
	assert.Equal(t, Float64Type, load.ResultType())

	value := &LocalVar{
		NodeBase: NodeBase{Type: Float64Type},
		Name:     "v",
	}
	store := &Indir{
		NodeBase: NodeBase{Type: Float64Type},
		Access:   StoreAccess,
		Addr:     addr,
		Value:    value,
	}
	assert.Equal(t, VoidType, store.ResultType())

	probe := &Indir{
		NodeBase: NodeBase{Type: Int8Type},
		Access:   NullCheckAccess,
		Addr:     addr,
	}
	assert.Equal(t, VoidType, probe.ResultType())
}

func TestCallArgumentShapes(t *testing.T) {
	value := &LocalVar{
		NodeBase: NodeBase{Type: Int32Type},
		Name:     "v",
	}
	call := &Call{
		NodeBase: NodeBase{Type: VoidType},
		Label:    "callee",
		Args:     []Node{value},
	}

	errs := validateUnit(value, call)
	require.Len(t, errs, 1)
	assert.ErrorContains(t, errs[0], "call argument is not an argument node")
}

func TestCallRequiresTarget(t *testing.T) {
	call := &Call{
		NodeBase: NodeBase{Type: VoidType},
	}

	errs := validateUnit(call)
	require.Len(t, errs, 1)
	assert.ErrorContains(t, errs[0], "call without target")
}

func TestFieldListOffsetsIncreasing(t *testing.T) {
	a := &LocalVar{
		NodeBase: NodeBase{Type: Int32Type},
		Name:     "a",
	}
	b := &LocalVar{
		NodeBase: NodeBase{Type: Int32Type},
		Name:     "b",
	}
	list := &FieldList{
		NodeBase: NodeBase{Type: StructType, IsContained: true},
		Fields: []Field{
			{Value: a, Offset: 4},
			{Value: b, Offset: 0},
		},
	}
	arg := &PutArgStk{
		NodeBase: NodeBase{Type: VoidType},
		Source:   list,
		ByteSize: 8,
	}

	errs := validateUnit(a, b, list, arg)
	require.Len(t, errs, 1)
	assert.ErrorContains(t, errs[0], "field list offsets not increasing")
}

func TestBlockOpStrategyChecks(t *testing.T) {
	dst := &LocalVar{
		NodeBase: NodeBase{Type: AddressType},
		Name:     "dst",
	}
	fill := &IntConst{
		NodeBase: NodeBase{Type: Int32Type, IsContained: true},
	}

	loopCopy := &BlockOp{
		NodeBase: NodeBase{Type: VoidType},
		Kind:     CopyBlockOp,
		Strategy: LoopStrategy,
		ByteSize: 32,
		Dst:      dst,
		Src:      fill,
	}
	errs := validateUnit(dst, fill, loopCopy)
	require.Len(t, errs, 1)
	assert.ErrorContains(t, errs[0], "loop strategy on block copy")

	zeroMove := &BlockOp{
		NodeBase: NodeBase{Type: VoidType},
		Kind:     CopyBlockOp,
		Strategy: MoveUnrollStrategy,
		ByteSize: 0,
		Dst:      dst,
		Src:      fill,
	}
	errs = validateUnit(dst, fill, zeroMove)
	require.Len(t, errs, 1)
	assert.ErrorContains(t, errs[0], "overlap safe move with zero size")
}

func TestSplitArgAnnotations(t *testing.T) {
	src := &LocalVar{
		NodeBase: NodeBase{Type: StructType, IsContained: true},
		Name:     "s",
	}
	arg := &PutArgSplit{
		NodeBase: NodeBase{Type: StructType},
		Source:   src,
		RegCount: 2,
	}

	assert.Panics(t, func() {
		arg.SetDestinationRegister(2, nil)
	})
	assert.Panics(t, func() {
		arg.DestinationRegister(0)
	})
}
