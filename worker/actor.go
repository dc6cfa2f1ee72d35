package worker

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/infinifold/levels/abi"
	"github.com/infinifold/levels/loader"
)

// actor is the worker goroutine's state. Nothing here is touched by the host.
type actor struct {
	ifc       *loader.Interface
	actions   <-chan Action
	callbacks chan<- Callback
	done      chan<- struct{}
	logger    *slog.Logger
	onFault   func(reason string)

	destroyed bool
}

func (a *actor) run() {
	defer close(a.done)
	defer close(a.callbacks)

	handle := abi.Void
	created := false
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("level worker panicked",
				"panic", r,
				"stack", string(debug.Stack()),
			)
			a.onFault(fmt.Sprint("panic: ", r))
			if created && !a.destroyed {
				a.destroySafely(handle)
			}
		}
	}()

	handle = a.ifc.New()
	created = true
	a.logger.Debug("level instance created", "handle", handle.String())

	if a.boot(handle) {
		a.serve(handle)
	}
	a.destroy(handle)
}

// boot sends the initial snapshot. It returns false if the level faulted while
// starting, in which case nothing is sent.
func (a *actor) boot(h abi.Handle) bool {
	if !a.ifc.IsOk() {
		a.onFault("level faulted in New")
		return false
	}
	faces := abi.CloneFaces(a.ifc.GetFaces(h))
	if !a.ifc.IsOk() {
		a.onFault("level faulted in GetFaces")
		return false
	}
	a.callbacks <- FacesCallback{Faces: faces, Alive: true}
	return true
}

func (a *actor) serve(h abi.Handle) {
	for act := range a.actions {
		var reply Callback
		switch act := act.(type) {
		case GetFacesAction:
			faces := abi.CloneFaces(a.ifc.GetFaces(h))
			reply = FacesCallback{Faces: faces, Alive: a.ifc.IsOk()}
		case AngledAction:
			changed := a.ifc.WhenAngled(h, act.Angle)
			reply = AngledCallback{Changed: changed, Alive: a.ifc.IsOk()}
		case DestroyAction:
			return
		default:
			a.onFault(fmt.Sprintf("unknown action %T", act))
			return
		}

		a.callbacks <- reply
		if !reply.alive() {
			a.onFault(fmt.Sprintf("level faulted in %T", act))
			return
		}
	}
}

func (a *actor) destroy(h abi.Handle) {
	a.destroyed = true
	a.ifc.Destroy(h)
	a.logger.Debug("level instance destroyed", "handle", h.String())
}

func (a *actor) destroySafely(h abi.Handle) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("level Destroy panicked during recovery", "panic", r)
		}
	}()
	a.destroy(h)
}
