package allocator

import (
	"github.com/pattyshack/shrike/architecture"
	"github.com/pattyshack/shrike/ir"
	"github.com/pattyshack/shrike/platform"
)

// Builder turns one unit's lowered nodes into an ordered requirement stream.
//
// Assumptions:
// 1. The unit passed ir.ValidateUnit.  Shape violations past that point are
// lowering bugs and panic.
// 2. Nodes are built strictly in unit order.  Record order encodes live range
// boundaries, so builders may not reorder emission.
// 3. A builder instance serves exactly one unit.  Units compiled concurrently
// need independent builders.
type Builder struct {
	platform.Platform

	subsets *platform.RegisterSubsets

	unit *ir.Unit

	stream *Stream

	current         ir.Node
	currentLocation int

	// Scratch requirements declared while building the current node.  They
	// are appended to the stream after the node's operand uses so the record
	// order matches the documented contract.
	pendingInternals []*Requirement

	// Cross call placement state.  Argument builders record which outgoing
	// argument registers already hold their value; the call builder asserts
	// residency and clears the state when the call's build completes.
	placedArgRegs      architecture.RegisterMask
	numPlacedArgLocals int
}

func NewBuilder(
	targetPlatform platform.Platform,
	unit *ir.Unit,
) *Builder {
	return &Builder{
		Platform: targetPlatform,
		subsets:  targetPlatform.Subsets(),
		unit:     unit,
		stream:   newStream(unit),
	}
}

func (builder *Builder) Stream() *Stream {
	return builder.stream
}

func (builder *Builder) emit(requirement *Requirement) *Requirement {
	builder.stream.append(requirement)
	return requirement
}

func (builder *Builder) classOf(node ir.Node) architecture.RegisterClass {
	return node.ResultType().RegisterClass()
}

func (builder *Builder) currentNode() ir.Node {
	return builder.current
}

// A use of one of node's result slots at the current location, restricted to
// candidates.  Empty candidates means any register of class.
func (builder *Builder) UseIndexedWithin(
	node ir.Node,
	resultIndex int,
	class architecture.RegisterClass,
	candidates architecture.RegisterMask,
) *Requirement {
	return builder.emit(&Requirement{
		Kind:        UseRequirement,
		Location:    builder.currentLocation,
		Node:        node,
		Class:       class,
		Candidates:  candidates,
		ResultIndex: resultIndex,
	})
}

// A use of node's value at the current location, restricted to candidates.
// Empty candidates means any register of the value's class.
func (builder *Builder) UseWithin(
	node ir.Node,
	candidates architecture.RegisterMask,
) *Requirement {
	return builder.UseIndexedWithin(node, 0, builder.classOf(node), candidates)
}

func (builder *Builder) Use(node ir.Node) *Requirement {
	return builder.UseWithin(node, architecture.RegisterMask(0))
}

func (builder *Builder) UseFixed(
	node ir.Node,
	register *architecture.Register,
) *Requirement {
	return builder.UseWithin(node, register.Mask())
}

func (builder *Builder) DefIndexedWithin(
	node ir.Node,
	resultIndex int,
	class architecture.RegisterClass,
	candidates architecture.RegisterMask,
) *Requirement {
	return builder.emit(&Requirement{
		Kind:        DefRequirement,
		Location:    builder.currentLocation,
		Node:        node,
		Class:       class,
		Candidates:  candidates,
		ResultIndex: resultIndex,
	})
}

func (builder *Builder) DefWithin(
	node ir.Node,
	candidates architecture.RegisterMask,
) *Requirement {
	return builder.DefIndexedWithin(node, 0, builder.classOf(node), candidates)
}

func (builder *Builder) Def(node ir.Node) *Requirement {
	return builder.DefWithin(node, architecture.RegisterMask(0))
}

// Declare a general scratch register for the current node.  The record is
// held back until FlushPendingInternals.
func (builder *Builder) PendingInternalGeneral(
	candidates architecture.RegisterMask,
) *Requirement {
	return builder.pendingInternal(architecture.GeneralClass, candidates)
}

func (builder *Builder) PendingInternalFloat(
	candidates architecture.RegisterMask,
) *Requirement {
	return builder.pendingInternal(architecture.FloatClass, candidates)
}

func (builder *Builder) pendingInternal(
	class architecture.RegisterClass,
	candidates architecture.RegisterMask,
) *Requirement {
	requirement := &Requirement{
		Kind:       InternalRequirement,
		Location:   builder.currentLocation,
		Node:       builder.currentNode(),
		Class:      class,
		Candidates: candidates,
	}
	builder.pendingInternals = append(builder.pendingInternals, requirement)
	return requirement
}

func (builder *Builder) FlushPendingInternals() {
	for _, requirement := range builder.pendingInternals {
		builder.emit(requirement)
	}
	builder.pendingInternals = nil
}

// One kill record per clobbered register class.
func (builder *Builder) Kill(kills platform.KillSet) {
	if !kills.General.IsEmpty() {
		builder.emit(&Requirement{
			Kind:       KillRequirement,
			Location:   builder.currentLocation,
			Node:       builder.currentNode(),
			Class:      architecture.GeneralClass,
			Candidates: kills.General,
		})
	}
	if !kills.Float.IsEmpty() {
		builder.emit(&Requirement{
			Kind:       KillRequirement,
			Location:   builder.currentLocation,
			Node:       builder.currentNode(),
			Class:      architecture.FloatClass,
			Candidates: kills.Float,
		})
	}
}

// Pin register busy at the current node's location.
func (builder *Builder) FixedRegister(
	register *architecture.Register,
) *Requirement {
	return builder.fixedRegisterAt(register, builder.currentLocation)
}

// Pin register busy between the previous node and the current one.  Fixed
// instruction patterns use this to force values live-in to the pattern.
func (builder *Builder) FixedRegisterBefore(
	register *architecture.Register,
) *Requirement {
	return builder.fixedRegisterAt(register, builder.currentLocation-1)
}

func (builder *Builder) fixedRegisterAt(
	register *architecture.Register,
	location int,
) *Requirement {
	return builder.emit(&Requirement{
		Kind:       FixedRequirement,
		Location:   location,
		Node:       builder.currentNode(),
		Class:      register.Class,
		Candidates: register.Mask(),
	})
}

func (builder *Builder) markPlacedArgument(register *architecture.Register) {
	builder.placedArgRegs = builder.placedArgRegs.Add(register)
}

func (builder *Builder) clearPlacedArguments() {
	builder.placedArgRegs = architecture.RegisterMask(0)
	builder.numPlacedArgLocals = 0
}

func (builder *Builder) PlacedArguments() architecture.RegisterMask {
	return builder.placedArgRegs
}

func (builder *Builder) PlacedArgumentLocals() int {
	return builder.numPlacedArgLocals
}
