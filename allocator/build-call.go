package allocator

import (
	"github.com/pattyshack/shrike/architecture"
	"github.com/pattyshack/shrike/ir"
)

// Requirements for a call: target staging, argument residency, return value
// homes, and the callee's clobber set.
func (builder *Builder) buildCall(call *ir.Call) int {
	// Placement state never survives a call node, on any path out of here.
	defer builder.clearPlacedArguments()

	ctrlExpr := call.Target
	ctrlCandidates := architecture.RegisterMask(0)

	if ctrlExpr != nil {
		if call.FastTailCall {
			// The target register must survive the epilog sequence of the
			// jump, so only volatiles qualify.  The epilog rewrites the link
			// register, and the cookie check claims its own temporaries.
			ctrlCandidates = builder.subsets.CallerTrashedGeneral.
				Remove(builder.subsets.LinkRegister)
			if builder.unit.UsesStackCookie {
				ctrlCandidates = ctrlCandidates.Without(
					builder.subsets.StackCookieTemps)
			}
			if ctrlCandidates.IsEmpty() {
				panic("should never happen: no usable tail call target register")
			}
		}
	} else if call.ViaDispatchCell {
		if call.FastTailCall {
			// The cell's stub address arrives in a fixed parameter register;
			// the resolved target loads into a scratch before the jump.
			builder.PendingInternalGeneral(builder.subsets.CallerTrashedGeneral)
		} else if builder.subsets.IndirectCallTarget == nil {
			builder.PendingInternalGeneral(architecture.RegisterMask(0))
		}
	} else if builder.subsets.IndirectCallTarget == nil {
		// No dedicated target staging register on this architecture; the
		// target address materializes through a scratch.
		builder.PendingInternalGeneral(architecture.RegisterMask(0))
	}

	if call.NeedsNullCheck && !builder.Is64Bit() {
		// A tail call frame leaves only two volatile registers and the
		// target may claim one, so force the probe onto the link register.
		candidates := architecture.RegisterMask(0)
		if call.FastTailCall {
			candidates = builder.subsets.LinkRegister.Mask()
		}
		builder.PendingInternalGeneral(candidates)
	}

	singleDstCandidates := architecture.RegisterMask(0)
	if call.Helper == ir.InteropFrameHelper &&
		builder.subsets.InteropFrameRegister != nil {

		// The interop frame helper follows a custom convention and returns
		// the thread control block in a fixed register.
		singleDstCandidates = builder.subsets.InteropFrameRegister.Mask()
	} else if len(call.MultiRetTypes) == 0 && call.Type != ir.VoidType {
		switch {
		case call.Type.UsesFloatRegister():
			singleDstCandidates = builder.subsets.FloatReturn
		case call.Type == ir.Int64Type &&
			!builder.subsets.LongReturnPair.IsEmpty():

			singleDstCandidates = builder.subsets.LongReturnPair
		default:
			singleDstCandidates = builder.subsets.GeneralReturn
		}
	}

	srcCount := builder.buildCallArgUses(call)

	if ctrlExpr != nil {
		if call.Helper == ir.TlsAddressHelper &&
			len(call.Args) == 0 &&
			len(builder.subsets.TlsFixedArgs) > 0 {

			// The TLS resolution call lowers to a fixed instruction pattern
			// that a post link step rewrites; its registers are not
			// negotiable.
			for _, register := range builder.subsets.TlsFixedArgs {
				builder.FixedRegisterBefore(register)
			}
			ctrlCandidates = builder.subsets.TlsTarget.Mask()
		}

		builder.UseWithin(ctrlExpr, ctrlCandidates)
		srcCount++
	}

	builder.FlushPendingInternals()

	if call.ProtectsContinuation &&
		!call.FastTailCall &&
		builder.subsets.ContinuationRegister != nil {

		builder.FixedRegister(builder.subsets.ContinuationRegister)
	}

	builder.Kill(builder.KillSetForCall(call))

	if len(call.MultiRetTypes) > 0 {
		builder.buildMultiRegisterDefs(call)
	} else if call.Type != ir.VoidType {
		builder.DefWithin(call, singleDstCandidates)
	}

	if call.UsesForeignError && builder.subsets.ForeignErrorRegister != nil {
		builder.FixedRegister(builder.subsets.ForeignErrorRegister)
	}

	return srcCount
}

// Register argument chunks must be resident in their assigned registers at
// the call.  Stack argument nodes fully materialized their values already and
// claim nothing here.
func (builder *Builder) buildCallArgUses(call *ir.Call) int {
	srcCount := 0
	for _, arg := range call.Args {
		switch typed := arg.(type) {
		case *ir.PutArgReg:
			builder.UseIndexedWithin(typed, 0, typed.Reg.Class, typed.Reg.Mask())
			srcCount++

			if !builder.Is64Bit() && typed.Type == ir.Int64Type {
				highReg := builder.subsets.PairedArgument(typed.Reg)
				builder.UseIndexedWithin(typed, 1, highReg.Class, highReg.Mask())
				srcCount++
			}
		case *ir.PutArgSplit:
			for idx := 0; idx < typed.RegCount; idx++ {
				register := typed.DestinationRegister(idx)
				builder.UseIndexedWithin(
					typed,
					idx,
					register.Class,
					register.Mask())
				srcCount++
			}
		case *ir.PutArgStk:
		default:
			panic("should never happen: unexpected call argument node")
		}
	}
	return srcCount
}

// One pinned definition per return register, in descriptor order.  Slots are
// assigned per class: the n-th general slot lands in the n-th general return
// register, independent of interleaved float slots.
func (builder *Builder) buildMultiRegisterDefs(call *ir.Call) {
	classCounts := map[architecture.RegisterClass]int{}
	for idx, retType := range call.MultiRetTypes {
		class := retType.RegisterClass()
		register := builder.ReturnRegister(classCounts[class], class)
		classCounts[class]++

		builder.DefIndexedWithin(call, idx, class, register.Mask())
	}
}
