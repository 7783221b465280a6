package ir

import (
	"github.com/pattyshack/gt/parseutil"
)

// Structural checks on a lowered unit.  Violations mean the lowering
// collaborator handed over shapes this stage was never designed to accept.
// They are reported through the emitter before requirement building runs, so
// the surrounding driver can reject the unit instead of tripping builder
// invariants.
func ValidateUnit(unit *Unit, emitter *parseutil.Emitter) {
	if unit.Name == "" {
		emitter.Emit(unit.Loc(), "unit without name")
	}

	positions := map[Node]int{}
	numConsumers := map[Node]int{}

	for _, node := range unit.Nodes {
		if node == nil {
			emitter.Emit(unit.Loc(), "unit %s: nil node", unit.Name)
			continue
		}

		validator, ok := node.(Validator)
		if ok {
			validator.Validate(emitter)
		}

		for _, operand := range node.Operands() {
			if operand == nil {
				emitter.Emit(node.Loc(), "nil operand")
				continue
			}

			_, ok := positions[operand]
			if !ok {
				emitter.Emit(node.Loc(), "operand does not precede its consumer")
			}
			numConsumers[operand]++
		}

		_, ok = positions[node]
		if ok {
			emitter.Emit(node.Loc(), "node appears multiple times")
			continue
		}
		positions[node] = len(positions)
	}

	for _, node := range unit.Nodes {
		if node == nil {
			continue
		}
		if node.Contained() && numConsumers[node] == 0 {
			emitter.Emit(node.Loc(), "contained node without consumer")
		}
	}
}
