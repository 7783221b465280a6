package allocator

import (
	"fmt"

	"github.com/pattyshack/shrike/ir"
)

// Build requirement records for every non-contained node, in unit order.
func (builder *Builder) BuildUnit() *Stream {
	for _, node := range builder.unit.Nodes {
		if node.Contained() {
			// Contained nodes fold into their consumer's encoding and never
			// claim registers of their own.
			continue
		}
		builder.BuildNode(node)
	}
	return builder.stream
}

// Build one node's records and return the number of operand register slots
// it consumed.  Scratch registers do not count as slots.
func (builder *Builder) BuildNode(node ir.Node) int {
	builder.startNode(node)

	count := 0
	switch typed := node.(type) {
	case *ir.Indir:
		count = builder.buildIndir(typed)
	case *ir.Call:
		count = builder.buildCall(typed)
	case *ir.PutArgReg:
		count = builder.buildPutArgReg(typed)
	case *ir.PutArgStk:
		count = builder.buildPutArgStk(typed)
	case *ir.PutArgSplit:
		count = builder.buildPutArgSplit(typed)
	case *ir.BlockOp:
		count = builder.buildBlockOp(typed)
	case *ir.Cast:
		count = builder.buildCast(typed)
	case *ir.Select:
		count = builder.buildSelect(typed)
	case *ir.AddrMode, *ir.ValuePair, *ir.FieldList:
		panic(fmt.Sprintf(
			"should never happen: non-contained %s node",
			describeNode(node)))
	default:
		count = builder.buildValue(node)
	}

	builder.finishNode(node, count)
	return count
}

func (builder *Builder) startNode(node ir.Node) {
	builder.currentLocation += 2
	builder.current = node
	builder.stream.Locations[node] = builder.currentLocation
}

func (builder *Builder) finishNode(node ir.Node, count int) {
	if len(builder.pendingInternals) > 0 {
		panic("should never happen: unflushed internal requirements")
	}
	builder.stream.SlotCounts[node] = count
	builder.current = nil
}

// Plain value producers with no special register shape: consume the operands
// and materialize the result into one register of its class.
func (builder *Builder) buildValue(node ir.Node) int {
	count := 0
	for _, operand := range node.Operands() {
		count += builder.buildOperandUses(operand)
	}
	if node.ResultType() != ir.VoidType {
		builder.Def(node)
	}
	return count
}

// Register uses of one operand.  A non-contained operand claims one register;
// a contained operand claims only the registers of its own non-contained
// pieces.
func (builder *Builder) buildOperandUses(node ir.Node) int {
	if !node.Contained() {
		builder.Use(node)
		return 1
	}

	switch typed := node.(type) {
	case *ir.ValuePair:
		count := builder.buildOperandUses(typed.Low)
		return count + builder.buildOperandUses(typed.High)
	case *ir.AddrMode:
		return builder.buildAddrModeUses(typed)
	case *ir.Indir:
		// A folded memory operand; only its address claims registers.
		return builder.buildAddrUses(typed.Addr)
	default:
		// Contained leaves fold fully into the consumer's encoding.
		return 0
	}
}

func (builder *Builder) buildAddrUses(addr ir.Node) int {
	if !addr.Contained() {
		builder.Use(addr)
		return 1
	}

	if addrMode, ok := addr.(*ir.AddrMode); ok {
		return builder.buildAddrModeUses(addrMode)
	}

	// Contained frame addresses are computed off the frame pointer.
	return 0
}

func (builder *Builder) buildAddrModeUses(addrMode *ir.AddrMode) int {
	count := 0
	if addrMode.Base != nil && !addrMode.Base.Contained() {
		builder.Use(addrMode.Base)
		count++
	}
	if addrMode.Index != nil && !addrMode.Index.Contained() {
		builder.Use(addrMode.Index)
		count++
	}
	return count
}
