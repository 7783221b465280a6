package allocator

import (
	"fmt"
	"math/bits"

	"github.com/pattyshack/shrike/architecture"
	"github.com/pattyshack/shrike/ir"
)

// Requirements for a fixed size block copy or fill, by lowering's strategy
// tag.
func (builder *Builder) buildBlockOp(block *ir.BlockOp) int {
	dstCandidates := architecture.RegisterMask(0)
	srcCandidates := architecture.RegisterMask(0)

	if block.Kind == ir.InitBlockOp {
		switch block.Strategy {
		case ir.UnrollStrategy:
			if builder.Is64Bit() {
				if block.Dst.Contained() {
					// The folded destination address is recomputed at code
					// generation time.
					builder.PendingInternalGeneral(architecture.RegisterMask(0))
				}
				if block.ByteSize > builder.VectorByteSize() {
					// Larger fills may use wide vector stores.
					builder.PendingInternalFloat(architecture.RegisterMask(0))
				}
			}
		case ir.LoopStrategy:
			// Running offset register.
			builder.PendingInternalGeneral(architecture.RegisterMask(0))
		default:
			panic(fmt.Sprintf(
				"should never happen: block init with %s strategy",
				block.Strategy))
		}
	} else {
		switch block.Strategy {
		case ir.ObjCopyUnrollStrategy:
			// The load/store sequence runs between write barrier invocations,
			// so its scratch registers must avoid the barrier's fixed pair.
			scratch := builder.RegisterSet().
				AllOf(architecture.GeneralClass).
				Without(builder.subsets.WriteBarrierPair())

			builder.PendingInternalGeneral(scratch)
			if block.ByteSize >= 2*builder.WordByteSize() {
				builder.PendingInternalGeneral(scratch)
			}
			if block.ByteSize >= 4*builder.WordByteSize() &&
				builder.HasBaselineVector() {

				builder.PendingInternalFloat(architecture.RegisterMask(0))
				builder.PendingInternalFloat(architecture.RegisterMask(0))
			}

			dstCandidates = builder.subsets.WriteBarrierDst.Mask()

			// A frame local source needs no address register here; code
			// generation computes the address directly into the barrier's
			// source register, which the barrier clobbers regardless.
			if !block.Src.Contained() {
				srcCandidates = builder.subsets.WriteBarrierSrc.Mask()
			}

		case ir.UnrollStrategy:
			builder.PendingInternalGeneral(architecture.RegisterMask(0))
			if builder.Is64Bit() {
				if block.ByteSize >= 2*builder.WordByteSize() {
					// Paired transfers.
					builder.PendingInternalGeneral(architecture.RegisterMask(0))
				}
				if block.ByteSize >= 2*builder.VectorByteSize() {
					builder.PendingInternalFloat(architecture.RegisterMask(0))
					builder.PendingInternalFloat(architecture.RegisterMask(0))
				}
				if block.Src.Contained() && block.Dst.Contained() {
					// Both addresses materialize at code generation time and
					// may need offset fixups; keep them from colliding.
					builder.PendingInternalGeneral(architecture.RegisterMask(0))
				}
			}

		case ir.MoveUnrollStrategy:
			builder.buildMoveUnrollInternals(block)

		default:
			panic(fmt.Sprintf(
				"should never happen: block copy with %s strategy",
				block.Strategy))
		}
	}

	useCount := builder.buildBlockAddrUse(block.Dst, dstCandidates)
	useCount += builder.buildBlockAddrUse(block.Src, srcCandidates)

	builder.FlushPendingInternals()
	builder.Kill(builder.KillSetForBlockOp(block))
	return useCount
}

// Scratch registers for an overlap safe move: load the whole source before
// storing any of it.
func (builder *Builder) buildMoveUnrollInternals(block *ir.BlockOp) {
	if !builder.Is64Bit() {
		panic("should never happen: overlap safe move on a 32 bit target")
	}

	vectorSize := builder.VectorByteSize()
	if block.ByteSize >= vectorSize {
		numRegisters := block.ByteSize / vectorSize
		if block.ByteSize%vectorSize != 0 {
			numRegisters++
		}
		for count := 0; count < numRegisters; count++ {
			builder.PendingInternalFloat(architecture.RegisterMask(0))
		}
	} else if bits.OnesCount(uint(block.ByteSize)) == 1 {
		builder.PendingInternalGeneral(architecture.RegisterMask(0))
	} else {
		builder.PendingInternalGeneral(architecture.RegisterMask(0))
		builder.PendingInternalGeneral(architecture.RegisterMask(0))
	}
}

// The destination / source address use, or the fill value use for inits.
// Contained addressing expressions claim only their base register; contained
// frame addresses and constant fills claim nothing.
func (builder *Builder) buildBlockAddrUse(
	node ir.Node,
	candidates architecture.RegisterMask,
) int {
	if !node.Contained() {
		builder.UseWithin(node, candidates)
		return 1
	}

	if addrMode, ok := node.(*ir.AddrMode); ok && addrMode.Base != nil {
		return builder.buildAddrUses(addrMode.Base)
	}
	return 0
}
