package allocator

import (
	"github.com/pattyshack/shrike/architecture"
	"github.com/pattyshack/shrike/ir"
)

// Requirements for a numeric conversion.
func (builder *Builder) buildCast(cast *ir.Cast) int {
	sourceType := cast.Source.ResultType()

	if !builder.Is64Bit() && sourceType == ir.Int64Type {
		if _, ok := cast.Source.(*ir.ValuePair); !ok {
			panic("should never happen: undecomposed 64 bit cast source")
		}
	}

	if builder.StagesFloatToIntCast() &&
		sourceType.IsFloat() &&
		!cast.Type.IsFloat() {

		// The conversion instruction writes its intermediate into a float
		// scratch register that must survive until the integer result is
		// written.
		internal := builder.PendingInternalFloat(
			builder.RegisterSet().AllOf(architecture.FloatClass))
		internal.DelayFree = true
	}

	srcCount := builder.buildOperandUses(cast.Source)
	builder.FlushPendingInternals()
	builder.Def(cast)
	return srcCount
}
