// Package health reports whether the pieces a level needs are in place.
//
// Checks return a Status that is healthy, degraded or unhealthy:
//
//   - LibraryCheck: a level library file exists and follows the platform naming
//   - PluginSupportCheck: this build can open Go plugins
//   - BinaryCheck: the subprocess host binary can be found
//   - LevelCheck: a running level has not faulted
//   - Combine: aggregate several checks
//
// # Usage Example
//
//	status := health.Combine(
//	    health.PluginSupportCheck(),
//	    health.LibraryCheck(loader.ResolvePath("levels", "penrose")),
//	)
//	if status.IsUnhealthy() {
//	    log.Printf("cannot start level: %s %v", status.Message, status.Details)
//	}
//
// When combining checks, any unhealthy check makes the result unhealthy; otherwise
// any degraded check makes it degraded.
package health
