// Package levels hosts dynamically loaded game levels.
//
// A level is a library that exports a small fixed contract (see package abi). The host
// opens it, checks the contract, and runs each instance on a worker goroutine that
// contains the level's panics. A level that faults is stopped and reported; the rest
// of the program keeps going.
//
// # Getting Started
//
// Load the host configuration and start a level by its base name:
//
//	cfg, err := config.LoadFromDir(".")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	host, err := levels.NewHost(cfg, levels.WithLogger(logger))
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer host.Close()
//
//	lvl, err := host.Start(ctx, "penrose")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	draw(lvl.GetFaces())
//	if lvl.WhenAngled(angle) {
//		draw(lvl.GetFaces())
//	}
//	if !lvl.IsOk() {
//		// the level faulted; pick another one
//	}
//
// # Isolation
//
// The configured isolation mode picks how libraries are opened:
//
//   - inprocess: Go plugins (-buildmode=plugin) opened into the host process
//   - subprocess: each level in its own levelhost process, reached over gRPC
//   - static: only levels linked into the host binary with WithStaticLevel
//
// Levels registered with WithStaticLevel are served in every mode; they shadow
// libraries of the same base name.
//
// # Packages
//
//   - abi: the contract shared by hosts and levels
//   - levelkit: guarded exports for level authors
//   - geom: face helpers for level authors
//   - loader: opening and validating level libraries
//   - worker: running a level on its own goroutine
//   - remote: subprocess isolation
//   - config, health, telemetry, levelerr: host plumbing
package levels
