package geom

import (
	"fmt"

	"github.com/infinifold/levels/abi"
)

// Side names one face of a pillar.
type Side int

const (
	Right Side = iota
	Left
	Top
	Bottom
	Front
	Back
)

var sideNames = [...]string{"right", "left", "top", "bottom", "front", "back"}

func (s Side) String() string {
	if s < 0 || int(s) >= len(sideNames) {
		return fmt.Sprintf("Side(%d)", int(s))
	}
	return sideNames[s]
}

// Pillar is an axis-aligned box. It is a value; the With methods return modified copies.
type Pillar struct {
	faces [6]abi.Face
}

// NewPillar returns the box with corner pos and extent size. Negative extents are
// allowed and grow the box in the negative direction.
//
// Right and left sides are medium gray, top and bottom light, front and back dark.
func NewPillar(pos, size abi.Vec3) Pillar {
	var p Pillar
	p.faces[Right] = Flat(OnX(pos.X+size.X, pos.Y, pos.Z, size.Y, size.Z), Medium)
	p.faces[Left] = Flat(OnX(pos.X, pos.Y, pos.Z, size.Y, size.Z), Medium)
	p.faces[Top] = Flat(OnY(pos.Y+size.Y, pos.X, pos.Z, size.X, size.Z), Light)
	p.faces[Bottom] = Flat(OnY(pos.Y, pos.X, pos.Z, size.X, size.Z), Light)
	p.faces[Front] = Flat(OnZ(pos.Z+size.Z, pos.X, pos.Y, size.X, size.Y), Dark)
	p.faces[Back] = Flat(OnZ(pos.Z, pos.X, pos.Y, size.X, size.Y), Dark)
	return p
}

// WithWeight sets the draw index of every side.
func (p Pillar) WithWeight(w float32) Pillar {
	for i := range p.faces {
		p.faces[i].Index = w
	}
	return p
}

// WithSkipped marks exactly the given sides as skipped and all others as drawn.
func (p Pillar) WithSkipped(sides ...Side) Pillar {
	for i := range p.faces {
		p.faces[i].Skipped = false
	}
	for _, s := range sides {
		p.faces[s].Skipped = true
	}
	return p
}

// WithColor paints side s.
func (p Pillar) WithColor(s Side, c abi.Color) Pillar {
	p.faces[s] = Flat(p.faces[s], c)
	return p
}

// Side returns a copy of side s.
func (p Pillar) Side(s Side) abi.Face {
	return p.faces[s].Clone()
}

// Faces returns the six sides in Side order.
func (p Pillar) Faces() []abi.Face {
	return abi.CloneFaces(p.faces[:])
}

// Concat returns the faces of all pillars in order.
func Concat(pillars ...Pillar) []abi.Face {
	out := make([]abi.Face, 0, 6*len(pillars))
	for _, p := range pillars {
		out = append(out, p.Faces()...)
	}
	return out
}
