// Package levelkit is compiled into every level library. It implements the exported
// contract functions around a plain Go type and contains the level's own panics.
//
// A level library is a main package built with -buildmode=plugin:
//
//	package main
//
//	import (
//	    "github.com/infinifold/levels/abi"
//	    "github.com/infinifold/levels/levelkit"
//	)
//
//	var REQUIRED_INCLUDED = levelkit.Included
//
//	var LEVEL_INFO abi.LevelInfo
//
//	var exports = levelkit.MustExport(func() *levelkit.Config {
//	    cfg := levelkit.NewConfig()
//	    cfg.SetName("spiral")
//	    cfg.SetInitFunc(func() error {
//	        LEVEL_INFO = abi.LevelInfo{ID: 3, Name: "Spiral", Group: "tutorial"}
//	        return nil
//	    })
//	    cfg.SetFactory(func() (levelkit.Level, error) { return newSpiral(), nil })
//	    return cfg
//	}())
//
//	func IsOk() bool                                  { return exports.IsOk() }
//	func Init()                                       { exports.Init() }
//	func New() abi.Handle                             { return exports.New() }
//	func Destroy(h abi.Handle)                        { exports.Destroy(h) }
//	func GetFaces(h abi.Handle) []abi.Face            { return exports.GetFaces(h) }
//	func WhenAngled(h abi.Handle, a float32) bool     { return exports.WhenAngled(h, a) }
//
//	func main() {}
//
// # Guarding
//
// Each exported method recovers from panics raised by level code. The panic is logged,
// the library is marked not ok (IsOk returns false from then on) and the method returns
// its safe default: abi.Void from New, false from WhenAngled, an empty list from
// GetFaces. The host checks IsOk after every call and stops the level.
//
// Faults that Go cannot recover from, such as a stack overflow, still bring the
// process down. Run such levels in subprocess isolation (package remote).
//
// # Instances
//
// Instances live in a generation-tagged slot table (Slots). Handles to destroyed
// instances stop resolving, so a stale handle is reported instead of reaching freed
// state.
package levelkit

// Included is the value a level library assigns to REQUIRED_INCLUDED.
const Included = true
