// Package worker drives one loaded level from a dedicated goroutine.
//
// New starts the worker, which constructs the level instance, takes the initial face
// snapshot and then serves one action at a time. The host talks to it through a
// *Level: GetFaces reads the cached snapshot, WhenAngled performs one round trip (two
// when the geometry changed), Destroy stops the worker and closes the library.
//
// The worker goroutine owns the instance handle and is the only caller of the
// library's functions after New returns. It checks IsOk after every action and stops
// as soon as the level reports a fault. A panic that escapes a level call is
// recovered by the worker itself, logged, and treated the same way. Either way the
// Level becomes permanently not ok; no restart is attempted.
//
// There is no cancellation. A level call that never returns blocks WhenAngled
// forever.
package worker
