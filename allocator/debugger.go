package allocator

import (
	"bytes"
	"fmt"

	"github.com/pattyshack/shrike/architecture"
	"github.com/pattyshack/shrike/ir"
)

// Short human readable node label, used by debug output and panic messages.
func describeNode(node ir.Node) string {
	switch typed := node.(type) {
	case *ir.LocalVar:
		return "local " + typed.Name
	case *ir.LocalAddr:
		if typed.Offset == 0 {
			return "&" + typed.Name
		}
		return fmt.Sprintf("&%s+%d", typed.Name, typed.Offset)
	case *ir.IntConst:
		return fmt.Sprintf("const %d", typed.Value)
	case *ir.AddrMode:
		return "address mode"
	case *ir.ValuePair:
		return "register pair"
	case *ir.FieldList:
		return "field list"
	case *ir.Indir:
		switch typed.Access {
		case ir.LoadAccess:
			return "load " + string(typed.Type)
		case ir.StoreAccess:
			return "store " + string(typed.Type)
		case ir.NullCheckAccess:
			return "null check"
		}
		return "indirection"
	case *ir.Call:
		switch {
		case typed.Label != "":
			return "call " + typed.Label
		case typed.Helper != ir.NotHelper:
			return "call helper " + string(typed.Helper)
		default:
			return "indirect call"
		}
	case *ir.PutArgReg:
		return "register argument " + typed.Reg.Name
	case *ir.PutArgStk:
		return fmt.Sprintf("stack argument +%d", typed.StackOffset)
	case *ir.PutArgSplit:
		return "split argument " + typed.BaseReg.Name
	case *ir.BlockOp:
		return fmt.Sprintf("block %s (%s)", typed.Kind, typed.Strategy)
	case *ir.Cast:
		return "cast to " + string(typed.Type)
	case *ir.Select:
		return "select"
	}
	return fmt.Sprintf("%T", node)
}

func formatRequirement(
	registerSet *architecture.RegisterSet,
	requirement *Requirement,
) string {
	candidates := "any " + string(requirement.Class)
	if !requirement.Candidates.IsEmpty() {
		candidates = registerSet.MaskString(
			requirement.Class,
			requirement.Candidates)
	}

	result := fmt.Sprintf("%-8s %s", requirement.Kind, candidates)
	switch requirement.Kind {
	case UseRequirement:
		result += " <- " + describeNode(requirement.Node)
		if requirement.ResultIndex > 0 {
			result += fmt.Sprintf(" slot %d", requirement.ResultIndex)
		}
	case DefRequirement:
		if requirement.ResultIndex > 0 {
			result += fmt.Sprintf(" slot %d", requirement.ResultIndex)
		}
	}

	if requirement.DelayFree {
		result += " (delay free)"
	}
	return result
}

// Human readable dump of a built requirement stream.
func FormatStream(
	registerSet *architecture.RegisterSet,
	stream *Stream,
) string {
	buffer := &bytes.Buffer{}
	printf := func(template string, args ...interface{}) {
		fmt.Fprintf(buffer, template, args...)
	}

	printf("Unit: %s\n", stream.Unit.Name)
	printf("------------------------------------------\n")
	for _, node := range stream.Unit.Nodes {
		if node.Contained() {
			continue
		}

		location := stream.Locations[node]

		// Live-in pins emitted between the previous node and this one.
		for _, requirement := range stream.At(location - 1) {
			printf("%4d:   %s\n",
				requirement.Location,
				formatRequirement(registerSet, requirement))
		}

		printf("%4d: %s, %d operand slots\n",
			location,
			describeNode(node),
			stream.SlotCounts[node])
		for _, requirement := range stream.At(location) {
			printf("        %s\n", formatRequirement(registerSet, requirement))
		}
	}
	printf("==========================================\n")

	return buffer.String()
}
