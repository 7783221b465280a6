package allocator

import (
	"github.com/pattyshack/shrike/architecture"
	"github.com/pattyshack/shrike/ir"
)

// Requirements for a memory load, store, or null check probe.
func (builder *Builder) buildIndir(indir *ir.Indir) int {
	// The float unit cannot perform unaligned accesses; the value transfers
	// through general registers instead, one per word.  Null check probes
	// transfer nothing.
	if builder.StagesUnalignedFloat() &&
		indir.Unaligned &&
		indir.Access != ir.NullCheckAccess {

		switch indir.Type {
		case ir.Float32Type:
			builder.PendingInternalGeneral(architecture.RegisterMask(0))
		case ir.Float64Type:
			builder.PendingInternalGeneral(architecture.RegisterMask(0))
			builder.PendingInternalGeneral(architecture.RegisterMask(0))
		}
	}

	if addrMode, ok := indir.Addr.(*ir.AddrMode); ok && indir.Addr.Contained() {
		// A single scratch register always suffices since at most one of
		// {index, offset} survives into the final instruction encoding.
		if addrMode.Index != nil && addrMode.Offset != 0 {
			builder.PendingInternalGeneral(architecture.RegisterMask(0))
		} else if !builder.EncodableIndirOffset(
			addrMode.Offset,
			indir.Type.ByteSize(builder.WordByteSize()),
			indir.Type.UsesFloatRegister()) {

			builder.PendingInternalGeneral(architecture.RegisterMask(0))
		}
	}

	if indir.Type == ir.Vector12Type {
		if indir.Addr.Contained() {
			panic("should never happen: folded address on a 12 byte access")
		}
		// The 12 byte value moves as an 8 byte plus a 4 byte transfer;
		// reassembly needs a general scratch register.
		builder.PendingInternalGeneral(architecture.RegisterMask(0))
	}

	count := builder.buildAddrUses(indir.Addr)
	builder.FlushPendingInternals()

	if indir.Access == ir.StoreAccess && !indir.Value.Contained() {
		builder.Use(indir.Value)
		count++
	}

	if indir.Access == ir.LoadAccess {
		builder.Def(indir)
	}
	return count
}
