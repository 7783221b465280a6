package allocator

import (
	"github.com/pattyshack/shrike/architecture"
	"github.com/pattyshack/shrike/ir"
	"github.com/pattyshack/shrike/platform"
)

// Requirements for placing an argument value in its outgoing register.  The
// value is computed directly into the argument register to avoid a move.
func (builder *Builder) buildPutArgReg(arg *ir.PutArgReg) int {
	if !builder.Is64Bit() && arg.Type == ir.Int64Type {
		return builder.buildPutArgRegPair(arg)
	}

	argMask := arg.Reg.Mask()

	builder.UseIndexedWithin(arg.Source, 0, arg.Reg.Class, argMask)
	builder.markPlacedArgument(arg.Reg)

	if _, ok := arg.Source.(*ir.LocalVar); ok && !arg.Source.Contained() {
		// A pass-through local: the local's value now also lives in the
		// argument register until the call consumes it.
		builder.numPlacedArgLocals++
	}

	builder.DefIndexedWithin(arg, 0, arg.Reg.Class, argMask)
	return 1
}

// A 64 bit chunk on a 32 bit target occupies the assigned register and the
// next consecutive argument register, one half each.
func (builder *Builder) buildPutArgRegPair(arg *ir.PutArgReg) int {
	pair, ok := arg.Source.(*ir.ValuePair)
	if !ok {
		panic("should never happen: undecomposed 64 bit register argument")
	}

	lowReg := arg.Reg
	highReg := builder.subsets.PairedArgument(lowReg)

	builder.UseFixed(pair.Low, lowReg)
	builder.UseFixed(pair.High, highReg)
	builder.markPlacedArgument(lowReg)
	builder.markPlacedArgument(highReg)

	builder.DefIndexedWithin(arg, 0, lowReg.Class, lowReg.Mask())
	builder.DefIndexedWithin(arg, 1, highReg.Class, highReg.Mask())
	return 2
}

// Requirements for an argument materialized onto the outgoing stack area.
func (builder *Builder) buildPutArgStk(arg *ir.PutArgStk) int {
	srcCount := 0

	if fieldList, ok := arg.Source.(*ir.FieldList); ok {
		// Store the individually produced fields one at a time.
		for _, field := range fieldList.Fields {
			builder.Use(field.Value)
			srcCount++

			if field.Value.ResultType() == ir.Vector12Type {
				// 8 byte plus 4 byte transfers; see buildIndir.
				builder.PendingInternalGeneral(architecture.RegisterMask(0))
			}
		}
	} else if arg.Source.ResultType() == ir.StructType {
		// A single aggregate copied through scratch registers; two on 64 bit
		// targets so the copy can use paired transfers.
		builder.PendingInternalGeneral(architecture.RegisterMask(0))
		if builder.Is64Bit() {
			builder.PendingInternalGeneral(architecture.RegisterMask(0))
		}

		switch source := arg.Source.(type) {
		case *ir.Indir:
			srcCount = builder.buildAddrUses(source.Addr)
		case *ir.LocalVar:
			// Frame resident; the copy reads directly off the frame pointer.
		default:
			panic("should never happen: unexpected aggregate stack argument source")
		}
	} else {
		if arg.Source.Contained() {
			panic("should never happen: contained scalar stack argument source")
		}
		srcCount = builder.buildOperandUses(arg.Source)

		if arg.ByteSize == 12 &&
			builder.OperatingSystemName() == platform.Darwin {

			// This ABI packs the 12 byte vector into a 12 byte stack slot, so
			// the store splits into 8 byte plus 4 byte transfers instead of
			// one 16 byte store.
			builder.PendingInternalGeneral(architecture.RegisterMask(0))
		}
	}

	builder.FlushPendingInternals()
	return srcCount
}

// Requirements for an aggregate split between argument registers and the
// outgoing stack.  The destination register annotations written here are
// read by later code generation.
func (builder *Builder) buildPutArgSplit(arg *ir.PutArgSplit) int {
	baseIndex := builder.subsets.ArgumentIndex(arg.BaseReg)

	argMask := architecture.RegisterMask(0)
	for idx := 0; idx < arg.RegCount; idx++ {
		register := builder.subsets.ArgumentAt(baseIndex + idx)
		argMask = argMask.Add(register)
		arg.SetDestinationRegister(idx, register)
	}

	srcCount := 0
	if fieldList, ok := arg.Source.(*ir.FieldList); ok {
		// Compute each field directly in the register it is passed in.  A
		// field spanning two registers on 32 bit targets expands into one
		// slot per half.
		ordinal := 0
		for _, field := range fieldList.Fields {
			for _, chunk := range splitChunks(field.Value) {
				if ordinal < arg.RegCount {
					register := arg.DestinationRegister(ordinal)
					builder.UseFixed(chunk, register)
					builder.markPlacedArgument(register)
				} else {
					// Beyond the register portion; a later store moves the
					// value to the stack from any free register.
					builder.Use(chunk)
				}
				ordinal++
			}
		}
		srcCount = ordinal
	} else {
		switch source := arg.Source.(type) {
		case *ir.Indir:
			if arg.RegCount == 1 {
				// The address computation register must not collide with the
				// single destination register.
				builder.PendingInternalGeneral(
					builder.RegisterSet().
						AllOf(architecture.GeneralClass).
						Without(argMask))
			}
			srcCount = builder.buildAddrUses(source.Addr)
		case *ir.LocalVar:
			// Frame resident; loads read directly off the frame pointer.
		default:
			panic("should never happen: unexpected aggregate split argument source")
		}
	}

	builder.FlushPendingInternals()

	for idx := 0; idx < arg.RegCount; idx++ {
		builder.DefIndexedWithin(
			arg,
			idx,
			architecture.GeneralClass,
			arg.DestinationRegister(idx).Mask())
	}
	return srcCount
}

// The per register value nodes of one split argument field.
func splitChunks(node ir.Node) []ir.Node {
	if pair, ok := node.(*ir.ValuePair); ok {
		return []ir.Node{pair.Low, pair.High}
	}
	return []ir.Node{node}
}
