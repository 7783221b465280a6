package allocator

import (
	"sort"

	"github.com/pattyshack/shrike/ir"
)

// All distances are in stream locations.
type LiveRange struct {
	Def ir.Node

	Start int // defining location
	End   int // last consuming location, inclusive

	// Consuming locations in stream order.  Empty for dead definitions.
	NextUses []int
}

// Value live ranges over a built stream.  Requirement streams are straight
// line, so a range simply spans first definition to last use.
//
// A multi register value shares one range covering all of its result slots;
// the assignment stage refines per slot placement from the record candidates.
func ComputeLiveRanges(stream *Stream) map[ir.Node]*LiveRange {
	ranges := map[ir.Node]*LiveRange{}
	for _, requirement := range stream.Requirements {
		switch requirement.Kind {
		case DefRequirement:
			_, ok := ranges[requirement.Node]
			if ok {
				// Additional result slots of the same node; the range already
				// starts at this location.
				continue
			}
			ranges[requirement.Node] = &LiveRange{
				Def:   requirement.Node,
				Start: requirement.Location,
				End:   requirement.Location,
			}
		case UseRequirement:
			liveRange, ok := ranges[requirement.Node]
			if !ok {
				panic("should never happen: use of an undefined value")
			}
			if requirement.Location > liveRange.End {
				liveRange.End = requirement.Location
			}
			liveRange.NextUses = append(liveRange.NextUses, requirement.Location)
		}
	}
	return ranges
}

// Ranges in increasing start order, the order a linear scan visits them.
// Start locations are unique since each defining node builds at its own
// location.
func SortedLiveRanges(ranges map[ir.Node]*LiveRange) []*LiveRange {
	result := make([]*LiveRange, 0, len(ranges))
	for _, liveRange := range ranges {
		result = append(result, liveRange)
	}

	sort.Slice(
		result,
		func(i int, j int) bool {
			return result[i].Start < result[j].Start
		})
	return result
}
