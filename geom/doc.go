// Package geom builds level geometry out of axis-aligned quads and boxes.
//
// Levels describe their scene as lists of abi.Face. Most scenes are assembled from
// pillars, boxes whose six sides are individually skippable:
//
//	base := geom.NewPillar(abi.V3(-6, -2, -1), abi.V3(12, 2, 2))
//	mask := geom.NewPillar(abi.V3(-6, -2, -11), abi.V3(2, 2, 4)).
//	    WithWeight(0.5).
//	    WithSkipped(geom.Left, geom.Bottom, geom.Front, geom.Back)
//	faces := geom.Concat(base, mask)
package geom
