package loader

import (
	"fmt"

	"github.com/infinifold/levels/abi"
	"github.com/infinifold/levels/levelerr"
)

// Builder assembles an Interface. Optional functions that are never set are bound to
// harmless defaults: GetFaces returns an empty list, WhenAngled returns false.
type Builder struct {
	path       string
	lib        Library
	info       abi.LevelInfo
	hasInfo    bool
	isOk       abi.IsOkFunc
	newFn      abi.NewFunc
	destroy    abi.DestroyFunc
	getFaces   abi.GetFacesFunc
	whenAngled abi.WhenAngledFunc
}

// NewBuilder starts an Interface for the library opened from path. lib is closed by
// Interface.Close and may be nil.
func NewBuilder(path string, lib Library) *Builder {
	return &Builder{path: path, lib: lib}
}

func (b *Builder) WithInfo(info abi.LevelInfo) *Builder {
	b.info = info
	b.hasInfo = true
	return b
}

func (b *Builder) WithIsOk(fn abi.IsOkFunc) *Builder {
	b.isOk = fn
	return b
}

func (b *Builder) WithNew(fn abi.NewFunc) *Builder {
	b.newFn = fn
	return b
}

func (b *Builder) WithDestroy(fn abi.DestroyFunc) *Builder {
	b.destroy = fn
	return b
}

func (b *Builder) WithGetFaces(fn abi.GetFacesFunc) *Builder {
	b.getFaces = fn
	return b
}

func (b *Builder) WithWhenAngled(fn abi.WhenAngledFunc) *Builder {
	b.whenAngled = fn
	return b
}

// Build returns the Interface, or an error wrapping levelerr.ErrMissingSymbol naming
// the first required part that was not set.
func (b *Builder) Build() (*Interface, error) {
	switch {
	case b.isOk == nil:
		return nil, fmt.Errorf("%w: %s", levelerr.ErrMissingSymbol, abi.SymIsOk)
	case !b.hasInfo:
		return nil, fmt.Errorf("%w: %s", levelerr.ErrMissingSymbol, abi.SymLevelInfo)
	case b.newFn == nil:
		return nil, fmt.Errorf("%w: %s", levelerr.ErrMissingSymbol, abi.SymNew)
	case b.destroy == nil:
		return nil, fmt.Errorf("%w: %s", levelerr.ErrMissingSymbol, abi.SymDestroy)
	}

	ifc := &Interface{
		IsOk:       b.isOk,
		New:        b.newFn,
		Destroy:    b.destroy,
		GetFaces:   b.getFaces,
		WhenAngled: b.whenAngled,
		Info:       b.info,
		Path:       b.path,
		lib:        b.lib,
	}
	if ifc.GetFaces == nil {
		ifc.GetFaces = noFaces
		ifc.defaulted = append(ifc.defaulted, abi.SymGetFaces)
	}
	if ifc.WhenAngled == nil {
		ifc.WhenAngled = neverAngled
		ifc.defaulted = append(ifc.defaulted, abi.SymWhenAngled)
	}
	return ifc, nil
}

func noFaces(abi.Handle) []abi.Face { return []abi.Face{} }

func neverAngled(abi.Handle, float32) bool { return false }
