// Package loader opens level libraries, validates them against the contract in
// package abi and assembles the resolved functions into an Interface.
//
// # Loading
//
// Load follows a fixed order. The library is opened through an Opener, the
// REQUIRED_INCLUDED marker is checked before anything else is trusted, IsOk is
// resolved, the optional Init is called, LEVEL_INFO is copied once, New and Destroy
// are resolved, and the optional GetFaces and WhenAngled are bound to defaults when
// absent. Any failure closes the library and returns a *levelerr.Error of kind
// levelerr.KindLoad. The loader never calls New.
//
// Init runs arbitrary level code and is not recovered by Load. LoadSafe wraps Load in
// a recover boundary and turns a panic into levelerr.ErrLoadAborted, so a broken level
// cannot take the host down by being loaded:
//
//	l := loader.New(loader.WithLogger(logger))
//	ifc, err := l.LoadSafe(ctx, loader.ResolvePath("levels", "penrose"))
//	if err != nil {
//	    return err
//	}
//	defer ifc.Close()
//
// # Openers
//
// PluginOpener opens Go plugins built with -buildmode=plugin. It is only available on
// Linux, macOS and FreeBSD with cgo enabled; elsewhere Open returns
// levelerr.ErrPluginsUnsupported. StaticOpener serves levels linked into the host
// binary. Package remote provides an Opener that runs each level in a child process.
package loader
