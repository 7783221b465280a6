package ir

import (
	"github.com/pattyshack/gt/parseutil"
)

// A compilation unit's lowered nodes in execution order.  Every node,
// including contained sub-expressions, appears exactly once on the list.
// Node order is load bearing: requirement records inherit it, and record
// order determines live range boundaries downstream.
type Unit struct {
	parseutil.StartEndPos

	Name string

	// The frame carries a stack overflow guard cookie.  The cookie check
	// sequence claims scratch registers around tail calls.
	UsesStackCookie bool

	Nodes []Node
}

func (unit *Unit) Append(nodes ...Node) {
	unit.Nodes = append(unit.Nodes, nodes...)
}

// Node list positions, for order checks and debug output.
func (unit *Unit) Positions() map[Node]int {
	positions := map[Node]int{}
	for idx, node := range unit.Nodes {
		positions[node] = idx
	}
	return positions
}
