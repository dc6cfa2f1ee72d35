//go:build !((linux || darwin || freebsd) && cgo)

package loader

import (
	"context"

	"github.com/infinifold/levels/levelerr"
)

// PluginsSupported reports whether PluginOpener can open libraries on this build.
const PluginsSupported = false

// PluginOpener opens Go plugins. This build has no plugin support.
type PluginOpener struct{}

// Open always fails with levelerr.ErrPluginsUnsupported.
func (PluginOpener) Open(_ context.Context, path string) (Library, error) {
	return nil, levelerr.NewUnsupportedError("open", path)
}
