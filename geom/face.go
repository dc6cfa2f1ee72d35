package geom

import "github.com/infinifold/levels/abi"

// Shades used for the sides of a pillar.
var (
	Light  = abi.Color{R: 0.8, G: 0.8, B: 0.8, A: 1}
	Medium = abi.Color{R: 0.5, G: 0.5, B: 0.5, A: 1}
	Dark   = abi.Color{R: 0.2, G: 0.2, B: 0.2, A: 1}
)

// Quad returns a face with the given corners and default color.
func Quad(p11, p12, p21, p22 abi.Vec3) abi.Face {
	return abi.Face{P11: p11, P12: p12, P21: p21, P22: p22}
}

// OnX returns the quad lying in the plane X=x, spanning [y, y+dy] and [z, z+dz].
func OnX(x, y, z, dy, dz float32) abi.Face {
	return Quad(
		abi.V3(x, y, z),
		abi.V3(x, y+dy, z),
		abi.V3(x, y, z+dz),
		abi.V3(x, y+dy, z+dz),
	)
}

// OnY returns the quad lying in the plane Y=y, spanning [x, x+dx] and [z, z+dz].
func OnY(y, x, z, dx, dz float32) abi.Face {
	return Quad(
		abi.V3(x, y, z),
		abi.V3(x+dx, y, z),
		abi.V3(x, y, z+dz),
		abi.V3(x+dx, y, z+dz),
	)
}

// OnZ returns the quad lying in the plane Z=z, spanning [x, x+dx] and [y, y+dy].
func OnZ(z, x, y, dx, dy float32) abi.Face {
	return Quad(
		abi.V3(x, y, z),
		abi.V3(x+dx, y, z),
		abi.V3(x, y+dy, z),
		abi.V3(x+dx, y+dy, z),
	)
}

// Flat sets a single color on f.
func Flat(f abi.Face, c abi.Color) abi.Face {
	f.Colors = []abi.Color{c}
	return f
}
