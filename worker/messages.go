package worker

import "github.com/infinifold/levels/abi"

// Action is a request from the host to the worker.
type Action interface {
	action()
}

// GetFacesAction asks for the current geometry. Answered with FacesCallback.
type GetFacesAction struct{}

// AngledAction reports a new view angle in radians. Answered with AngledCallback.
type AngledAction struct {
	Angle float32
}

// DestroyAction stops the worker. It is not answered.
type DestroyAction struct{}

func (GetFacesAction) action() {}
func (AngledAction) action()   {}
func (DestroyAction) action()  {}

// Callback is a reply from the worker. Alive is the level's IsOk after the call;
// when it is false the worker exits right after sending.
type Callback interface {
	alive() bool
}

// AngledCallback answers AngledAction.
type AngledCallback struct {
	Changed bool
	Alive   bool
}

// FacesCallback answers GetFacesAction, and is sent once unprompted at startup.
type FacesCallback struct {
	Faces []abi.Face
	Alive bool
}

func (c AngledCallback) alive() bool { return c.Alive }
func (c FacesCallback) alive() bool  { return c.Alive }
