package levelkit

import (
	"errors"
	"log/slog"
	"runtime/debug"
	"sync/atomic"

	"github.com/infinifold/levels/abi"
)

// Exports owns the state of one level library: its liveness flag and its instances.
// Its methods have the exact shapes of the contract functions, and each runs under a
// local recover. On a panic the diagnostic is logged, the library is marked not ok,
// and the method returns its safe default.
type Exports struct {
	name     string
	factory  Factory
	initFunc InitFunc
	logger   *slog.Logger

	ok     atomic.Bool
	levels Slots[Level]
}

// IsOk reports whether no export has faulted. It is true before any instance exists.
func (e *Exports) IsOk() bool {
	return e.ok.Load()
}

// Init runs the configured init function.
func (e *Exports) Init() {
	e.guard(abi.SymInit, func() {
		if err := e.initFunc(); err != nil {
			e.fault(abi.SymInit, "init failed", err)
		}
	})
}

// New creates an instance. It returns abi.Void if construction fails or the library
// already faulted.
func (e *Exports) New() abi.Handle {
	h := abi.Void
	e.guard(abi.SymNew, func() {
		if !e.IsOk() {
			e.logger.Warn("refusing to create an instance after a fault")
			return
		}
		lvl, err := e.factory()
		if err != nil {
			e.fault(abi.SymNew, "factory failed", err)
			return
		}
		if lvl == nil {
			e.fault(abi.SymNew, "factory returned no level", nil)
			return
		}
		h = e.levels.Insert(lvl)
	})
	return h
}

// Destroy releases the instance behind h.
func (e *Exports) Destroy(h abi.Handle) {
	e.guard(abi.SymDestroy, func() {
		lvl, ok := e.resolve(abi.SymDestroy, h, e.levels.Remove)
		if !ok {
			return
		}
		if d, ok := lvl.(Destroyer); ok {
			d.Destroy()
		}
	})
}

// GetFaces returns the geometry of the instance behind h, or an empty list.
func (e *Exports) GetFaces(h abi.Handle) []abi.Face {
	faces := []abi.Face{}
	e.guard(abi.SymGetFaces, func() {
		lvl, ok := e.resolve(abi.SymGetFaces, h, e.levels.Get)
		if !ok {
			return
		}
		faces = abi.CloneFaces(lvl.Faces())
	})
	return faces
}

// WhenAngled forwards angle to the instance behind h.
func (e *Exports) WhenAngled(h abi.Handle, angle float32) bool {
	changed := false
	e.guard(abi.SymWhenAngled, func() {
		lvl, ok := e.resolve(abi.SymWhenAngled, h, e.levels.Get)
		if !ok {
			return
		}
		changed = lvl.WhenAngled(angle)
	})
	return changed
}

// Live returns the number of instances not yet destroyed.
func (e *Exports) Live() int {
	return e.levels.Len()
}

// resolve looks h up with get. A void handle is answered quietly; any other bad
// handle is contract misuse and faults the library.
func (e *Exports) resolve(op string, h abi.Handle, get func(abi.Handle) (Level, error)) (Level, bool) {
	lvl, err := get(h)
	if err == nil {
		return lvl, true
	}
	if errors.Is(err, ErrVoidHandle) {
		return nil, false
	}
	e.fault(op, "bad handle", err)
	return nil, false
}

func (e *Exports) guard(op string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			e.ok.Store(false)
			e.logger.Error("level export panicked",
				"op", op,
				"panic", r,
				"stack", string(debug.Stack()),
			)
		}
	}()
	fn()
}

func (e *Exports) fault(op, msg string, err error) {
	e.ok.Store(false)
	e.logger.Error(msg, "op", op, "error", err)
}
