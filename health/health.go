package health

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/infinifold/levels/abi"
	"github.com/infinifold/levels/loader"
)

// LibraryCheck verifies that a level library exists at path. A file whose name does
// not follow the platform convention is reported as degraded, since the level finder
// will not discover it.
//
// Example:
//
//	status := health.LibraryCheck("levels/libpenrose.so")
//	if status.IsUnhealthy() {
//	    log.Fatal(status.Message)
//	}
func LibraryCheck(path string) Status {
	if path == "" {
		return Unhealthy("library path cannot be empty", nil)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Unhealthy(
				fmt.Sprintf("level library '%s' does not exist", path),
				map[string]any{"path": path},
			)
		}
		return Unhealthy(
			fmt.Sprintf("failed to stat level library '%s'", path),
			map[string]any{
				"path":  path,
				"error": err.Error(),
			},
		)
	}

	if info.IsDir() {
		return Unhealthy(
			fmt.Sprintf("level library '%s' is a directory", path),
			map[string]any{"path": path},
		)
	}

	base := loader.BaseName(path)
	if want := loader.LibraryName(base); filepath.Base(path) != want {
		return Degraded(
			fmt.Sprintf("level library '%s' does not follow the %s naming convention", path, runtime.GOOS),
			map[string]any{
				"path":     path,
				"expected": want,
			},
		)
	}

	return Healthy(fmt.Sprintf("level library '%s' exists", path))
}

// PluginSupportCheck reports whether this build can open Go plugins. Without plugin
// support only static and subprocess isolation work, so the result is degraded.
func PluginSupportCheck() Status {
	if !loader.PluginsSupported {
		return Degraded(
			"go plugins are not supported by this build",
			map[string]any{
				"goos":   runtime.GOOS,
				"goarch": runtime.GOARCH,
			},
		)
	}
	return Healthy(fmt.Sprintf("go plugins are supported on %s/%s", runtime.GOOS, runtime.GOARCH))
}

// BinaryCheck verifies that a binary exists. A name without a path separator is
// looked up in PATH.
func BinaryCheck(name string) Status {
	if name == "" {
		return Unhealthy("binary name cannot be empty", nil)
	}

	path, err := exec.LookPath(name)
	if err != nil {
		return Unhealthy(
			fmt.Sprintf("binary '%s' not found", name),
			map[string]any{
				"binary": name,
				"error":  err.Error(),
			},
		)
	}

	return Healthy(fmt.Sprintf("binary '%s' found at %s", name, path))
}

// Level is the view of a running level that LevelCheck needs.
type Level interface {
	IsOk() bool
	Info() abi.LevelInfo
}

// LevelCheck reports whether a running level is still usable.
func LevelCheck(l Level) Status {
	if l == nil {
		return Unhealthy("no level", nil)
	}
	info := l.Info()
	if !l.IsOk() {
		return Unhealthy(
			fmt.Sprintf("level %s faulted", info),
			map[string]any{
				"id":    info.ID,
				"name":  info.Name,
				"group": info.Group,
			},
		)
	}
	return Healthy(fmt.Sprintf("level %s is running", info))
}

// Combine aggregates multiple checks into one status.
//
// Example:
//
//	status := health.Combine(
//	    health.PluginSupportCheck(),
//	    health.LibraryCheck(path),
//	)
func Combine(checks ...Status) Status {
	if len(checks) == 0 {
		return Healthy("no checks provided")
	}

	var unhealthy, degraded []string
	var healthyCount int

	for _, check := range checks {
		msg := check.Message
		if msg == "" {
			msg = "unnamed check"
		}
		switch check.Status {
		case StatusUnhealthy:
			unhealthy = append(unhealthy, msg)
		case StatusDegraded:
			degraded = append(degraded, msg)
		case StatusHealthy:
			healthyCount++
		}
	}

	if len(unhealthy) > 0 {
		return Unhealthy(
			fmt.Sprintf("%d check(s) failed", len(unhealthy)),
			map[string]any{
				"total":         len(checks),
				"unhealthy":     len(unhealthy),
				"degraded":      len(degraded),
				"healthy":       healthyCount,
				"failed_checks": unhealthy,
			},
		)
	}

	if len(degraded) > 0 {
		return Degraded(
			fmt.Sprintf("%d check(s) degraded", len(degraded)),
			map[string]any{
				"total":           len(checks),
				"degraded":        len(degraded),
				"healthy":         healthyCount,
				"degraded_checks": degraded,
			},
		)
	}

	return Healthy(fmt.Sprintf("all %d check(s) passed", len(checks)))
}
