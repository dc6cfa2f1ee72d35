// Package levelerr defines the error taxonomy shared by the loader, the worker and the
// subprocess transport.
//
// Every error that leaves this module is, or wraps, a *Error carrying a Kind:
//
//   - KindLoad: the library could not be opened or does not honor the contract
//   - KindLoadPanic: the loader or the level's Init panicked
//   - KindRuntimeFault: the level's worker died or the level reported itself unhealthy
//   - KindConfiguration: host configuration is invalid
//   - KindUnsupported: the platform cannot load level libraries
//
// Load-time errors are ordinary return values and never panic the host. Runtime faults
// are additionally reflected by Level.IsOk.
package levelerr

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Sentinel errors. Use errors.Is to check for them.
var (
	// ErrNotLevelLibrary indicates REQUIRED_INCLUDED is missing or false.
	ErrNotLevelLibrary = errors.New("not a valid level library")

	// ErrMissingSymbol indicates a required symbol is not exported.
	ErrMissingSymbol = errors.New("required symbol not found")

	// ErrSymbolType indicates a symbol is exported with the wrong type.
	ErrSymbolType = errors.New("symbol has the wrong type")

	// ErrLoadAborted indicates the load panicked and was contained.
	ErrLoadAborted = errors.New("load aborted")

	// ErrWorkerExited indicates the level worker ended before it could answer.
	ErrWorkerExited = errors.New("level worker exited")

	// ErrPluginsUnsupported indicates Go plugins cannot be opened on this platform.
	ErrPluginsUnsupported = errors.New("level libraries are not supported on this platform")

	// ErrInvalidConfig indicates the host configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Kind categorizes an Error.
type Kind string

// Error kinds.
const (
	KindLoad          Kind = "load"
	KindLoadPanic     Kind = "load_panic"
	KindRuntimeFault  Kind = "runtime_fault"
	KindConfiguration Kind = "configuration"
	KindUnsupported   Kind = "unsupported"
)

// Error wraps an underlying error with the operation and level library involved.
type Error struct {
	// Op is the operation that failed, e.g. "loader.Load" or "worker.New".
	Op string

	// Kind categorizes the failure.
	Kind Kind

	// Path is the level library path, when known.
	Path string

	// Err is the underlying error.
	Err error

	// Context carries extra debugging detail such as the symbol name.
	Context map[string]any
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("levels: %s (%s)", e.Op, e.Kind)
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if len(e.Context) > 0 {
		msg += fmt.Sprintf(" [context: %+v]", e.Context)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by Kind (and Op when the target sets one), and otherwise
// defers to the wrapped error.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}
	if t, ok := target.(*Error); ok {
		if t.Kind != "" && e.Kind == t.Kind {
			return t.Op == "" || e.Op == t.Op
		}
	}
	return errors.Is(e.Err, target)
}

// WithContext returns a copy of e with ctx merged into its context.
func (e *Error) WithContext(ctx map[string]any) *Error {
	c := *e
	c.Context = make(map[string]any, len(e.Context)+len(ctx))
	for k, v := range e.Context {
		c.Context[k] = v
	}
	for k, v := range ctx {
		c.Context[k] = v
	}
	return &c
}

// KindOf returns the Kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given Kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// NewLoadError creates an Error with KindLoad.
func NewLoadError(op, path string, err error) *Error {
	return &Error{Op: op, Kind: KindLoad, Path: path, Err: err}
}

// NewLoadPanicError creates an Error with KindLoadPanic wrapping ErrLoadAborted.
func NewLoadPanicError(op, path string, recovered any) *Error {
	return &Error{
		Op:      op,
		Kind:    KindLoadPanic,
		Path:    path,
		Err:     ErrLoadAborted,
		Context: map[string]any{"panic": fmt.Sprint(recovered)},
	}
}

// NewRuntimeFault creates an Error with KindRuntimeFault.
func NewRuntimeFault(op, path string, err error) *Error {
	return &Error{Op: op, Kind: KindRuntimeFault, Path: path, Err: err}
}

// NewConfigurationError creates an Error with KindConfiguration.
func NewConfigurationError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindConfiguration, Err: err}
}

// NewUnsupportedError creates an Error with KindUnsupported.
func NewUnsupportedError(op, path string) *Error {
	return &Error{Op: op, Kind: KindUnsupported, Path: path, Err: ErrPluginsUnsupported}
}

// CloseWithLog closes c and logs a failure at warning level. Meant for defer.
func CloseWithLog(c io.Closer, logger *slog.Logger, name string) {
	if c == nil {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := c.Close(); err != nil {
		logger.Warn("failed to close resource", "resource", name, "error", err)
	}
}
