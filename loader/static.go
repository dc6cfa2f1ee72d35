package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/infinifold/levels/abi"
	"github.com/infinifold/levels/levelerr"
	"github.com/infinifold/levels/levelkit"
)

// ErrLibraryClosed is returned by Lookup on a closed StaticLibrary.
var ErrLibraryClosed = errors.New("library is closed")

// StaticLibrary is a level library linked into the host binary. Symbols follow the
// plugin conventions: variables are stored as pointers, functions as values.
type StaticLibrary struct {
	mu      sync.Mutex
	symbols map[string]any
	closed  bool
	closes  int
}

// NewStaticLibrary returns a library exporting symbols. The map is copied.
func NewStaticLibrary(symbols map[string]any) *StaticLibrary {
	l := &StaticLibrary{symbols: make(map[string]any, len(symbols))}
	for k, v := range symbols {
		l.symbols[k] = v
	}
	return l
}

// FromExports returns a library exporting every contract symbol of e. info is the
// library's LEVEL_INFO variable; the level's Init usually fills it in.
func FromExports(e *levelkit.Exports, info *abi.LevelInfo) *StaticLibrary {
	included := levelkit.Included
	return NewStaticLibrary(map[string]any{
		abi.SymRequiredIncluded: &included,
		abi.SymLevelInfo:        info,
		abi.SymIsOk:             abi.IsOkFunc(e.IsOk),
		abi.SymInit:             abi.InitFunc(e.Init),
		abi.SymNew:              abi.NewFunc(e.New),
		abi.SymDestroy:          abi.DestroyFunc(e.Destroy),
		abi.SymGetFaces:         abi.GetFacesFunc(e.GetFaces),
		abi.SymWhenAngled:       abi.WhenAngledFunc(e.WhenAngled),
	})
}

// Set adds or replaces a symbol.
func (l *StaticLibrary) Set(name string, v any) *StaticLibrary {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.symbols[name] = v
	return l
}

// Without removes symbols.
func (l *StaticLibrary) Without(names ...string) *StaticLibrary {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, n := range names {
		delete(l.symbols, n)
	}
	return l
}

// Lookup implements Library.
func (l *StaticLibrary) Lookup(name string) (any, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil, ErrLibraryClosed
	}
	v, ok := l.symbols[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", levelerr.ErrMissingSymbol, name)
	}
	return v, nil
}

// Close implements Library.
func (l *StaticLibrary) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	l.closes++
	return nil
}

// Closed reports whether Close was called.
func (l *StaticLibrary) Closed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

// CloseCount returns how many times Close was called.
func (l *StaticLibrary) CloseCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closes
}

// StaticOpener opens libraries registered in process. Each Open calls the
// registered constructor, so every load gets fresh library state.
type StaticOpener struct {
	mu   sync.RWMutex
	libs map[string]func() Library
}

// NewStaticOpener returns an empty opener.
func NewStaticOpener() *StaticOpener {
	return &StaticOpener{libs: make(map[string]func() Library)}
}

// Register makes open available under path. A later registration replaces an
// earlier one.
func (o *StaticOpener) Register(path string, open func() Library) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.libs[path] = open
}

// Paths returns the registered paths.
func (o *StaticOpener) Paths() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]string, 0, len(o.libs))
	for p := range o.libs {
		out = append(out, p)
	}
	return out
}

// Open implements Opener.
func (o *StaticOpener) Open(_ context.Context, path string) (Library, error) {
	o.mu.RLock()
	open, ok := o.libs[path]
	o.mu.RUnlock()
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	lib := open()
	if lib == nil {
		return nil, fmt.Errorf("static level %s produced no library", path)
	}
	return lib, nil
}
