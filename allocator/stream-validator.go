package allocator

import (
	"fmt"

	"github.com/pattyshack/shrike/architecture"
	"github.com/pattyshack/shrike/ir"
)

// Self check over a freshly built requirement stream.  Violations are builder
// bugs rather than input errors, and panic.
type streamValidator struct {
	registerSet *architecture.RegisterSet

	stream *Stream
}

func ValidateStream(
	registerSet *architecture.RegisterSet,
	stream *Stream,
) {
	validator := &streamValidator{
		registerSet: registerSet,
		stream:      stream,
	}
	validator.Process()
}

func (validator *streamValidator) Process() {
	validator.validateNodeBookkeeping()

	sawDef := map[int]struct{}{}
	for _, requirement := range validator.stream.Requirements {
		validator.validateRecord(requirement)

		// Clobbers take effect before the node's results are written.
		if requirement.Kind == KillRequirement {
			_, ok := sawDef[requirement.Location]
			if ok {
				panic(fmt.Sprintf("invalid: %s", requirement.Node.Loc()))
			}
		} else if requirement.Kind == DefRequirement {
			sawDef[requirement.Location] = struct{}{}
		}
	}

	for _, node := range validator.stream.Unit.Nodes {
		if node.Contained() {
			continue
		}
		validator.validateNodeRecords(node)
	}
}

// Every non-contained node has a location and a slot count, locations
// strictly increase in node order, and contained nodes have neither.
func (validator *streamValidator) validateNodeBookkeeping() {
	previous := 0
	for _, node := range validator.stream.Unit.Nodes {
		location, hasLocation := validator.stream.Locations[node]
		_, hasSlotCount := validator.stream.SlotCounts[node]

		if node.Contained() {
			if hasLocation || hasSlotCount {
				panic(fmt.Sprintf("invalid: %s", node.Loc()))
			}
			continue
		}

		if !hasLocation || !hasSlotCount {
			panic(fmt.Sprintf("invalid: %s", node.Loc()))
		}
		if location <= previous || location%2 != 0 {
			panic(fmt.Sprintf("invalid: %s", node.Loc()))
		}
		previous = location
	}
}

func (validator *streamValidator) validateRecord(requirement *Requirement) {
	if requirement.Node == nil {
		panic("invalid: requirement without node")
	}

	pos := requirement.Node.Loc()

	switch requirement.Class {
	case architecture.GeneralClass, architecture.FloatClass:
	default:
		panic(fmt.Sprintf("invalid: %s", pos))
	}

	allOfClass := validator.registerSet.AllOf(requirement.Class)
	if !requirement.Candidates.Without(allOfClass).IsEmpty() {
		panic(fmt.Sprintf("invalid: %s", pos))
	}

	if requirement.DelayFree && requirement.Kind != InternalRequirement {
		panic(fmt.Sprintf("invalid: %s", pos))
	}

	if requirement.ResultIndex < 0 {
		panic(fmt.Sprintf("invalid: %s", pos))
	}

	nodeLocation := validator.stream.Locations[requirement.Node]
	switch requirement.Kind {
	case UseRequirement:
		// The consumed value must come from an earlier node.
		if nodeLocation == 0 || nodeLocation >= requirement.Location {
			panic(fmt.Sprintf("invalid: %s", pos))
		}
		if requirement.ResultIndex >= len(validator.stream.DefsOf(requirement.Node)) {
			panic(fmt.Sprintf("invalid: %s", pos))
		}
	case DefRequirement:
		if requirement.Location != nodeLocation {
			panic(fmt.Sprintf("invalid: %s", pos))
		}
		if !producesValue(requirement.Node) {
			panic(fmt.Sprintf("invalid: %s", pos))
		}
	case InternalRequirement:
		if requirement.Location != nodeLocation {
			panic(fmt.Sprintf("invalid: %s", pos))
		}
	case KillRequirement:
		if requirement.Location != nodeLocation {
			panic(fmt.Sprintf("invalid: %s", pos))
		}
		if requirement.Candidates.IsEmpty() {
			panic(fmt.Sprintf("invalid: %s", pos))
		}
	case FixedRequirement:
		if !requirement.IsPinned() {
			panic(fmt.Sprintf("invalid: %s", pos))
		}
		if requirement.Location != nodeLocation &&
			requirement.Location != nodeLocation-1 {

			panic(fmt.Sprintf("invalid: %s", pos))
		}
	default:
		panic(fmt.Sprintf("invalid: %s", pos))
	}
}

func (validator *streamValidator) validateNodeRecords(node ir.Node) {
	location := validator.stream.Locations[node]

	uses := validator.stream.UsesAt(location)
	if len(uses) != validator.stream.SlotCounts[node] {
		panic(fmt.Sprintf("invalid: %s", node.Loc()))
	}

	defs := validator.stream.DefsOf(node)
	if !producesValue(node) {
		if len(defs) != 0 {
			panic(fmt.Sprintf("invalid: %s", node.Loc()))
		}
		return
	}

	if len(defs) == 0 {
		panic(fmt.Sprintf("invalid: %s", node.Loc()))
	}

	// Result slots are defined in slot order.
	for idx, def := range defs {
		if def.ResultIndex != idx {
			panic(fmt.Sprintf("invalid: %s", node.Loc()))
		}
	}
}

// Multi-register returning calls carry their result shape out of band, so
// ResultType alone does not decide whether a node defines registers.
func producesValue(node ir.Node) bool {
	call, ok := node.(*ir.Call)
	if ok {
		return call.ReturnsValue()
	}
	return node.ResultType() != ir.VoidType
}
