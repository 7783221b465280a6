package allocator

import (
	"github.com/pattyshack/shrike/architecture"
	"github.com/pattyshack/shrike/ir"
)

type RequirementKind string

const (
	// The node consumes a value that must occupy a register at this location.
	UseRequirement = RequirementKind("use")

	// The node produces a value into a register at this location.
	DefRequirement = RequirementKind("def")

	// A scratch register for the node's code sequence, live only within the
	// node.
	InternalRequirement = RequirementKind("internal")

	// Registers clobbered at this location without being uses or defs.
	KillRequirement = RequirementKind("kill")

	// A physical register pinned busy at this location.  Emitted for fixed
	// instruction patterns and for registers that must survive a call.
	FixedRequirement = RequirementKind("fixed")
)

// A single register demand handed to the assignment stage.  Record order
// within a stream is load bearing; it encodes live range boundaries.
type Requirement struct {
	Kind RequirementKind

	// Even locations address nodes in unit order; odd locations fall between
	// nodes and carry live-in pins.
	Location int

	// The value node for uses, the producing node for defs, and the built
	// node for internals, kills and fixed pins.
	Node ir.Node

	Class architecture.RegisterClass

	// Candidate registers.  Empty means any register of Class.
	Candidates architecture.RegisterMask

	// The value's result slot this record consumes or defines, for nodes
	// producing values in multiple registers.
	ResultIndex int

	// The scratch register must stay live through the instruction that also
	// writes the node's result.
	DelayFree bool
}

func (requirement *Requirement) IsPinned() bool {
	return requirement.Candidates.Count() == 1
}

// The ordered requirement records built for one unit.
type Stream struct {
	Unit *ir.Unit

	Requirements []*Requirement

	// Operand register slots consumed per built node, as returned by its
	// builder.
	SlotCounts map[ir.Node]int

	// Assigned build location per non-contained node.
	Locations map[ir.Node]int
}

func newStream(unit *ir.Unit) *Stream {
	return &Stream{
		Unit:       unit,
		SlotCounts: map[ir.Node]int{},
		Locations:  map[ir.Node]int{},
	}
}

func (stream *Stream) append(requirement *Requirement) {
	stream.Requirements = append(stream.Requirements, requirement)
}

func (stream *Stream) At(location int) []*Requirement {
	result := []*Requirement{}
	for _, requirement := range stream.Requirements {
		if requirement.Location == location {
			result = append(result, requirement)
		}
	}
	return result
}

func (stream *Stream) ofKind(
	location int,
	kind RequirementKind,
) []*Requirement {
	result := []*Requirement{}
	for _, requirement := range stream.At(location) {
		if requirement.Kind == kind {
			result = append(result, requirement)
		}
	}
	return result
}

// Operand uses emitted while building the node at location.
func (stream *Stream) UsesAt(location int) []*Requirement {
	return stream.ofKind(location, UseRequirement)
}

func (stream *Stream) InternalsAt(location int) []*Requirement {
	return stream.ofKind(location, InternalRequirement)
}

func (stream *Stream) KillsAt(location int) []*Requirement {
	return stream.ofKind(location, KillRequirement)
}

func (stream *Stream) FixedAt(location int) []*Requirement {
	return stream.ofKind(location, FixedRequirement)
}

// Definitions of the node's result slots, in slot order.
func (stream *Stream) DefsOf(node ir.Node) []*Requirement {
	result := []*Requirement{}
	for _, requirement := range stream.Requirements {
		if requirement.Kind == DefRequirement && requirement.Node == node {
			result = append(result, requirement)
		}
	}
	return result
}

// Uses consuming the node's value, across all consumers.
func (stream *Stream) UsesOf(node ir.Node) []*Requirement {
	result := []*Requirement{}
	for _, requirement := range stream.Requirements {
		if requirement.Kind == UseRequirement && requirement.Node == node {
			result = append(result, requirement)
		}
	}
	return result
}
