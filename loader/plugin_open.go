//go:build (linux || darwin || freebsd) && cgo

package loader

import (
	"context"
	"fmt"
	"plugin"

	"github.com/infinifold/levels/levelerr"
)

// PluginsSupported reports whether PluginOpener can open libraries on this build.
const PluginsSupported = true

// PluginOpener opens Go plugins.
type PluginOpener struct{}

// Open opens the plugin at path. Opening the same path twice yields the same plugin.
func (PluginOpener) Open(_ context.Context, path string) (Library, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, err
	}
	return &pluginLibrary{p: p, path: path}, nil
}

type pluginLibrary struct {
	p    *plugin.Plugin
	path string
}

func (l *pluginLibrary) Lookup(name string) (any, error) {
	sym, err := l.p.Lookup(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s in %s", levelerr.ErrMissingSymbol, name, l.path)
	}
	return sym, nil
}

// Close is a no-op. The Go runtime cannot unload a plugin; once the last Interface is
// closed its code simply stays mapped.
func (l *pluginLibrary) Close() error {
	return nil
}
