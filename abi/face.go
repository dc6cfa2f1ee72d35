package abi

// Vec3 is a point or direction in level space.
type Vec3 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// V3 is shorthand for Vec3{x, y, z}.
func V3(x, y, z float32) Vec3 { return Vec3{X: x, Y: y, Z: z} }

// Add returns v+o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Color is an RGBA color with components in [0, 1].
type Color struct {
	R float32 `json:"r"`
	G float32 `json:"g"`
	B float32 `json:"b"`
	A float32 `json:"a"`
}

// Mask clips a face against a half-space.
type Mask struct {
	Pos Vec3 `json:"pos"`
	Dir Vec3 `json:"dir"`
}

// Face is a quad produced by a level. The host moves faces around but does not
// interpret them; only the renderer does.
type Face struct {
	P11 Vec3 `json:"p11"`
	P12 Vec3 `json:"p12"`
	P21 Vec3 `json:"p21"`
	P22 Vec3 `json:"p22"`

	Mask *Mask `json:"mask,omitempty"`

	// Colors is empty for the renderer default, one entry for a flat color, or one
	// entry per corner.
	Colors []Color `json:"colors,omitempty"`

	// Index orders overlapping faces, in [-1, 1].
	Index float32 `json:"index"`

	// Skipped faces are kept in the list but not drawn.
	Skipped bool `json:"skipped,omitempty"`
}

// Clone returns a deep copy of f.
func (f Face) Clone() Face {
	c := f
	if f.Mask != nil {
		m := *f.Mask
		c.Mask = &m
	}
	if f.Colors != nil {
		c.Colors = append([]Color(nil), f.Colors...)
	}
	return c
}

// CloneFaces deep-copies a face list so the result shares no memory with the level.
// A nil list becomes an empty one.
func CloneFaces(faces []Face) []Face {
	out := make([]Face, len(faces))
	for i, f := range faces {
		out[i] = f.Clone()
	}
	return out
}
