package loader

import (
	"slices"
	"sync"

	"github.com/infinifold/levels/abi"
)

// Interface is the host-side view of a loaded level library. Its functions are valid
// only until Close.
type Interface struct {
	IsOk       abi.IsOkFunc
	New        abi.NewFunc
	Destroy    abi.DestroyFunc
	GetFaces   abi.GetFacesFunc
	WhenAngled abi.WhenAngledFunc

	// Info is the LEVEL_INFO snapshot taken right after Init.
	Info abi.LevelInfo

	// Path is the library path the Interface was loaded from.
	Path string

	defaulted []string
	lib       Library
	closeOnce sync.Once
	closeErr  error
}

// Defaulted returns the optional symbols the library did not export.
func (i *Interface) Defaulted() []string {
	return slices.Clone(i.defaulted)
}

// Exports reports whether the library exported the optional symbol name.
func (i *Interface) Exports(name string) bool {
	return !slices.Contains(i.defaulted, name)
}

// Library returns the library the Interface was built from.
func (i *Interface) Library() Library {
	return i.lib
}

// Close releases the library. It is safe to call more than once.
func (i *Interface) Close() error {
	i.closeOnce.Do(func() {
		if i.lib != nil {
			i.closeErr = i.lib.Close()
		}
	})
	return i.closeErr
}
