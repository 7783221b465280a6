package arm

import (
	"github.com/pattyshack/shrike/architecture"
	"github.com/pattyshack/shrike/platform"
)

var (
	sp = architecture.NewStackPointerRegister("sp")

	r0  = architecture.NewGeneralRegister("r0")
	r1  = architecture.NewGeneralRegister("r1")
	r2  = architecture.NewGeneralRegister("r2")
	r3  = architecture.NewGeneralRegister("r3")
	r4  = architecture.NewGeneralRegister("r4")
	r5  = architecture.NewGeneralRegister("r5")
	r6  = architecture.NewGeneralRegister("r6")
	r7  = architecture.NewGeneralRegister("r7")
	r8  = architecture.NewGeneralRegister("r8")
	r9  = architecture.NewGeneralRegister("r9")
	r10 = architecture.NewGeneralRegister("r10")
	r11 = architecture.NewGeneralRegister("r11")
	r12 = architecture.NewGeneralRegister("r12")
	lr  = architecture.NewGeneralRegister("lr")

	d0  = architecture.NewFloatRegister("d0")
	d1  = architecture.NewFloatRegister("d1")
	d2  = architecture.NewFloatRegister("d2")
	d3  = architecture.NewFloatRegister("d3")
	d4  = architecture.NewFloatRegister("d4")
	d5  = architecture.NewFloatRegister("d5")
	d6  = architecture.NewFloatRegister("d6")
	d7  = architecture.NewFloatRegister("d7")
	d8  = architecture.NewFloatRegister("d8")
	d9  = architecture.NewFloatRegister("d9")
	d10 = architecture.NewFloatRegister("d10")
	d11 = architecture.NewFloatRegister("d11")
	d12 = architecture.NewFloatRegister("d12")
	d13 = architecture.NewFloatRegister("d13")
	d14 = architecture.NewFloatRegister("d14")
	d15 = architecture.NewFloatRegister("d15")

	// pc is never allocatable.
	RegisterSet = architecture.NewRegisterSet(
		sp,
		r0, r1, r2, r3, r4, r5, r6, r7,
		r8, r9, r10, r11, r12, lr,
		d0, d1, d2, d3, d4, d5, d6, d7,
		d8, d9, d10, d11, d12, d13, d14, d15)
)

func newRegisterSubsets() *platform.RegisterSubsets {
	return &platform.RegisterSubsets{
		CallerTrashedGeneral: RegisterSet.Mask(r0, r1, r2, r3, r12, lr),
		CallerTrashedFloat:   RegisterSet.Mask(d0, d1, d2, d3, d4, d5, d6, d7),

		GeneralReturn: r0.Mask(),
		FloatReturn:   d0.Mask(),

		// 64 bit integer results come back in the r0:r1 pair.
		LongReturnPair: RegisterSet.Mask(r0, r1),

		LinkRegister: lr,

		// r12 and lr are the only volatile registers free in a tail call
		// frame; the cookie check sequence claims both.
		StackCookieTemps: RegisterSet.Mask(r12, lr),

		// No dedicated indirect call target register; the target is staged
		// through a scratch register instead.
		IndirectCallTarget: nil,

		InteropFrameRegister: r4,

		// The byref assign helper takes the destination address in r0 and
		// the source address in r1.
		WriteBarrierDst: r0,
		WriteBarrierSrc: r1,

		ContinuationRegister: r2,

		// The foreign error convention is not supported on 32 bit targets.
		ForeignErrorRegister: nil,

		ArgumentRegisters: []*architecture.Register{r0, r1, r2, r3},
	}
}
