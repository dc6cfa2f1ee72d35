// Package abi defines the binary contract between the host and a level library.
//
// A level library is a Go plugin (built with -buildmode=plugin) whose main package
// exports a fixed set of symbols. The host resolves them by name, checks their types,
// and never calls anything else. This package is imported by both sides, so the
// types it declares are the only types that cross the plugin boundary.
//
// # Symbols
//
// Every level library must export:
//
//	var REQUIRED_INCLUDED bool            // must be true, checked before anything else
//	var LEVEL_INFO abi.LevelInfo          // copied once, right after Init
//	func IsOk() bool                      // liveness probe, safe to call at any time
//	func New() abi.Handle                 // creates the level instance
//	func Destroy(abi.Handle)              // releases the level instance
//
// and may export:
//
//	func Init()                              // called once after the library is opened
//	func GetFaces(abi.Handle) []abi.Face     // defaults to an empty list
//	func WhenAngled(abi.Handle, float32) bool // defaults to false
//
// Most levels do not write these by hand; see package levelkit for the guard that
// implements them around a plain Go type.
//
// # Handles
//
// A Handle is an opaque token for a level-owned instance. The host stores it and passes
// it back to functions resolved from the same library, and never looks inside.
package abi
