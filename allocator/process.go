package allocator

import (
	"context"
	"sync"

	"github.com/pattyshack/gt/parseutil"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/pattyshack/shrike/ir"
	"github.com/pattyshack/shrike/platform"
)

// Build the requirement stream for one unit.
//
// Malformed units are reported through the emitter with source locations and
// return a terminal error without building anything.  Builder invariant
// violations abort only this unit's compilation; the recovered panic comes
// back as the error.
func Process(
	ctx context.Context,
	targetPlatform platform.Platform,
	unit *ir.Unit,
	emitter *parseutil.Emitter,
) (
	stream *Stream,
	err error,
) {
	tr, _ := tlog.SpawnFromContextAndWrap(
		ctx,
		"build register requirements",
		"unit", unit.Name,
		"arch", targetPlatform.ArchitectureName())
	defer tr.Finish("err", &err)

	ir.ValidateUnit(unit, emitter)
	if emitter.HasErrors() {
		return nil, errors.New("%v: malformed unit", unit.Name)
	}

	defer func() {
		recovered := recover()
		if recovered != nil {
			stream = nil
			err = errors.New("%v: %v", unit.Name, recovered)
		}
	}()

	stream = NewBuilder(targetPlatform, unit).BuildUnit()
	ValidateStream(targetPlatform.RegisterSet(), stream)

	tr.Printw(
		"built requirements",
		"nodes", len(unit.Nodes),
		"records", len(stream.Requirements))
	return stream, nil
}

// Build requirement streams for independent units concurrently.  Each unit
// gets its own builder and emitter; failures are merged into the caller's
// emitter after all units finish.  Failed units are absent from the result.
func ProcessAll(
	ctx context.Context,
	targetPlatform platform.Platform,
	units []*ir.Unit,
	emitter *parseutil.Emitter,
) map[string]*Stream {
	streams := map[string]*Stream{}
	mutex := &sync.Mutex{}

	unitEmitters := make([]*parseutil.Emitter, len(units))
	for idx := range units {
		unitEmitters[idx] = &parseutil.Emitter{}
	}

	wg := sync.WaitGroup{}
	wg.Add(len(units))
	for idx, unit := range units {
		go func(unitEmitter *parseutil.Emitter, unit *ir.Unit) {
			defer wg.Done()

			stream, err := Process(ctx, targetPlatform, unit, unitEmitter)
			if err != nil && !unitEmitter.HasErrors() {
				unitEmitter.EmitErrors(err)
			}

			if stream != nil {
				mutex.Lock()
				defer mutex.Unlock()
				streams[unit.Name] = stream
			}
		}(unitEmitters[idx], unit)
	}
	wg.Wait()

	for _, unitEmitter := range unitEmitters {
		emitter.EmitErrors(unitEmitter.Errors()...)
	}
	return streams
}
