package allocator

import (
	"github.com/pattyshack/shrike/ir"
)

// Requirements for a conditional select.  The simplest builder: uses, then a
// definition, never a scratch register.
func (builder *Builder) buildSelect(sel *ir.Select) int {
	srcCount := 0
	if sel.Cond != nil {
		srcCount += builder.buildOperandUses(sel.Cond)
	}
	srcCount += builder.buildOperandUses(sel.Op1)
	srcCount += builder.buildOperandUses(sel.Op2)

	builder.Def(sel)
	return srcCount
}
