package platform

import (
	"github.com/pattyshack/shrike/architecture"
)

// Named architectural register subsets consulted during requirement
// building.  Built once per platform and treated as immutable configuration.
type RegisterSubsets struct {
	// Registers the callee may freely clobber, per class.
	CallerTrashedGeneral architecture.RegisterMask
	CallerTrashedFloat   architecture.RegisterMask

	// Single register return homes.
	GeneralReturn architecture.RegisterMask
	FloatReturn   architecture.RegisterMask

	// 64 bit integer return pair on 32 bit targets; empty otherwise.
	LongReturnPair architecture.RegisterMask

	LinkRegister *architecture.Register

	// Temporaries of the stack overflow guard cookie check sequence.
	StackCookieTemps architecture.RegisterMask

	// Dedicated indirect call target staging register; nil when the
	// architecture has none and the target must be staged through a scratch
	// register instead.
	IndirectCallTarget *architecture.Register

	// Thread control block register defined by the interop frame helper.
	InteropFrameRegister *architecture.Register

	// Fixed byref write barrier helper address pair.
	WriteBarrierDst *architecture.Register
	WriteBarrierSrc *architecture.Register

	// Live-in pins and control expression home of the fixed TLS resolution
	// pattern; nil outside unix 64 bit targets.
	TlsFixedArgs []*architecture.Register
	TlsTarget    *architecture.Register

	// Continuation context register of the async mechanism.
	ContinuationRegister *architecture.Register

	// Designated error register of the foreign error convention; nil when
	// the target does not support it.
	ForeignErrorRegister *architecture.Register

	// Consecutive outgoing general argument registers, in assignment order.
	ArgumentRegisters []*architecture.Register
}

func (subsets *RegisterSubsets) ArgumentIndex(
	register *architecture.Register,
) int {
	for idx, argReg := range subsets.ArgumentRegisters {
		if argReg == register {
			return idx
		}
	}
	panic("not an argument register: " + register.Name)
}

// The idx-th outgoing general argument register.
func (subsets *RegisterSubsets) ArgumentAt(idx int) *architecture.Register {
	if idx < 0 || idx >= len(subsets.ArgumentRegisters) {
		panic("should never happen: argument register index out of range")
	}
	return subsets.ArgumentRegisters[idx]
}

// The consecutive argument register holding the high half of a 64 bit chunk
// whose low half sits in register.
func (subsets *RegisterSubsets) PairedArgument(
	register *architecture.Register,
) *architecture.Register {
	return subsets.ArgumentAt(subsets.ArgumentIndex(register) + 1)
}

func (subsets *RegisterSubsets) WriteBarrierPair() architecture.RegisterMask {
	return subsets.WriteBarrierDst.Mask().Union(subsets.WriteBarrierSrc.Mask())
}
