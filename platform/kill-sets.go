package platform

import (
	"github.com/pattyshack/shrike/ir"
)

// Conservative call clobber set shared by both architectures.  The caller
// trashed set covers every supported convention; the interop frame helper is
// the one exception since its custom sequence preserves everything except
// its fixed result register.
func CallKillSet(subsets *RegisterSubsets, call *ir.Call) KillSet {
	if call.Helper == ir.InteropFrameHelper {
		return KillSet{
			General: subsets.InteropFrameRegister.Mask(),
		}
	}

	return KillSet{
		General: subsets.CallerTrashedGeneral,
		Float:   subsets.CallerTrashedFloat,
	}
}

// Block operations clobber nothing beyond their reserved scratch registers,
// except the write barrier path, which calls the byref assign helper.
func BlockOpKillSet(subsets *RegisterSubsets, op *ir.BlockOp) KillSet {
	if op.Strategy == ir.ObjCopyUnrollStrategy {
		return KillSet{
			General: subsets.CallerTrashedGeneral,
			Float:   subsets.CallerTrashedFloat,
		}
	}
	return KillSet{}
}
