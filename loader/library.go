package loader

import (
	"context"
	"fmt"
	"reflect"

	"github.com/infinifold/levels/levelerr"
)

// Library is an opened level library.
//
// Lookup returns variables as pointers and functions as function values, the same
// way plugin.Plugin does. A symbol that does not exist is reported with an error
// wrapping levelerr.ErrMissingSymbol.
type Library interface {
	Lookup(name string) (any, error)
	Close() error
}

// Opener opens the library at path.
type Opener interface {
	Open(ctx context.Context, path string) (Library, error)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(ctx context.Context, path string) (Library, error)

// Open calls f.
func (f OpenerFunc) Open(ctx context.Context, path string) (Library, error) {
	return f(ctx, path)
}

// Symbol looks up name and converts it to T. Both T and *T are accepted so a level
// may export a function either directly or through a variable; a variable of type T
// is returned as a copy.
func Symbol[T any](lib Library, name string) (T, error) {
	var zero T

	sym, err := lib.Lookup(name)
	if err != nil {
		return zero, err
	}

	switch v := sym.(type) {
	case T:
		if isNil(v) {
			return zero, fmt.Errorf("%w: %s is nil", levelerr.ErrSymbolType, name)
		}
		return v, nil
	case *T:
		if v == nil || isNil(*v) {
			return zero, fmt.Errorf("%w: %s is nil", levelerr.ErrSymbolType, name)
		}
		return *v, nil
	}
	return zero, fmt.Errorf("%w: %s is %T, want %s", levelerr.ErrSymbolType, name, sym, reflect.TypeFor[T]())
}

func isNil(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Func, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	case reflect.Invalid:
		return true
	}
	return false
}
