package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/infinifold/levels/abi"
	"github.com/infinifold/levels/levelerr"
)

const instrumentationName = "github.com/infinifold/levels/loader"

// Loader loads level libraries. It is safe for concurrent use.
type Loader struct {
	opener  Opener
	logger  *slog.Logger
	tp      trace.TracerProvider
	mp      metric.MeterProvider
	tracer  trace.Tracer
	metrics *loadMetrics
}

// New creates a Loader.
func New(opts ...Option) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	if l.opener == nil {
		l.opener = PluginOpener{}
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	if l.tp == nil {
		l.tp = otel.GetTracerProvider()
	}
	if l.mp == nil {
		l.mp = otel.GetMeterProvider()
	}
	l.tracer = l.tp.Tracer(instrumentationName)

	m, err := newLoadMetrics(l.mp.Meter(instrumentationName))
	if err != nil {
		l.logger.Warn("failed to create loader metrics", "error", err)
	}
	l.metrics = m
	return l
}

// Load opens the library at path and validates it. A panic raised by the library's
// Init escapes Load; use LoadSafe unless the caller recovers itself.
func (l *Loader) Load(ctx context.Context, path string) (*Interface, error) {
	ctx, span := l.tracer.Start(ctx, "loader.Load", trace.WithAttributes(
		attribute.String("level.path", path),
	))
	defer span.End()

	var lib Library
	ifc, err := l.load(ctx, path, &lib)
	l.finish(ctx, span, ifc, err)
	return ifc, err
}

// LoadSafe is Load with a recover boundary. A panic during loading, including one
// raised by the library's Init, is logged and returned as an error wrapping
// levelerr.ErrLoadAborted. The library is closed best-effort.
func (l *Loader) LoadSafe(ctx context.Context, path string) (ifc *Interface, err error) {
	ctx, span := l.tracer.Start(ctx, "loader.Load", trace.WithAttributes(
		attribute.String("level.path", path),
		attribute.Bool("level.safe", true),
	))
	defer span.End()

	var lib Library
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("level load panicked",
				"path", path,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			levelerr.CloseWithLog(lib, l.logger, path)
			ifc = nil
			err = levelerr.NewLoadPanicError("loader.LoadSafe", path, r)
		}
		l.finish(ctx, span, ifc, err)
	}()

	return l.load(ctx, path, &lib)
}

func (l *Loader) finish(ctx context.Context, span trace.Span, ifc *Interface, err error) {
	l.metrics.record(ctx, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetAttributes(
		attribute.Int("level.id", ifc.Info.ID),
		attribute.String("level.name", ifc.Info.Name),
		attribute.String("level.group", ifc.Info.Group),
	)
	span.SetStatus(codes.Ok, "")
}

// load runs the load steps. opened is set as soon as the library is open and cleared
// once it has been closed again, so a recovering caller knows what to release.
func (l *Loader) load(ctx context.Context, path string, opened *Library) (*Interface, error) {
	const op = "loader.Load"
	logger := l.logger.With("path", path)

	if path == "" {
		return nil, levelerr.NewLoadError(op, path, errors.New("library path is empty"))
	}
	if err := ctx.Err(); err != nil {
		return nil, levelerr.NewLoadError(op, path, err)
	}

	lib, err := l.opener.Open(ctx, path)
	if err != nil {
		var lerr *levelerr.Error
		if errors.As(err, &lerr) {
			return nil, err
		}
		return nil, levelerr.NewLoadError(op, path, err)
	}
	*opened = lib

	fail := func(symbol string, err error) (*Interface, error) {
		levelerr.CloseWithLog(lib, logger, path)
		*opened = nil
		logger.Debug("level library rejected", "symbol", symbol, "error", err)
		return nil, levelerr.NewLoadError(op, path, err).WithContext(map[string]any{"symbol": symbol})
	}

	included, err := Symbol[bool](lib, abi.SymRequiredIncluded)
	if err != nil {
		return fail(abi.SymRequiredIncluded, fmt.Errorf("%w: %w", levelerr.ErrNotLevelLibrary, err))
	}
	if !included {
		return fail(abi.SymRequiredIncluded, fmt.Errorf("%w: %s is false", levelerr.ErrNotLevelLibrary, abi.SymRequiredIncluded))
	}
	logger.Debug("level marker found", "symbol", abi.SymRequiredIncluded)

	isOk, err := Symbol[abi.IsOkFunc](lib, abi.SymIsOk)
	if err != nil {
		return fail(abi.SymIsOk, err)
	}

	initFn, found, err := optional[abi.InitFunc](lib, abi.SymInit)
	if err != nil {
		return fail(abi.SymInit, err)
	}
	if found {
		logger.Debug("calling level init", "symbol", abi.SymInit)
		initFn()
	}

	// Copied by value: later writes to the library's variable are not observed.
	info, err := Symbol[abi.LevelInfo](lib, abi.SymLevelInfo)
	if err != nil {
		return fail(abi.SymLevelInfo, err)
	}

	newFn, err := Symbol[abi.NewFunc](lib, abi.SymNew)
	if err != nil {
		return fail(abi.SymNew, err)
	}
	destroy, err := Symbol[abi.DestroyFunc](lib, abi.SymDestroy)
	if err != nil {
		return fail(abi.SymDestroy, err)
	}

	b := NewBuilder(path, lib).
		WithInfo(info).
		WithIsOk(isOk).
		WithNew(newFn).
		WithDestroy(destroy)

	getFaces, found, err := optional[abi.GetFacesFunc](lib, abi.SymGetFaces)
	if err != nil {
		return fail(abi.SymGetFaces, err)
	}
	if found {
		b.WithGetFaces(getFaces)
	}
	whenAngled, found, err := optional[abi.WhenAngledFunc](lib, abi.SymWhenAngled)
	if err != nil {
		return fail(abi.SymWhenAngled, err)
	}
	if found {
		b.WithWhenAngled(whenAngled)
	}

	ifc, err := b.Build()
	if err != nil {
		return fail("", err)
	}

	logger.Info("level loaded",
		"level", info.String(),
		"defaulted", ifc.Defaulted(),
	)
	return ifc, nil
}

// optional is Symbol for symbols that may be absent. A present symbol of the wrong
// type is still an error.
func optional[T any](lib Library, name string) (T, bool, error) {
	v, err := Symbol[T](lib, name)
	if err == nil {
		return v, true, nil
	}
	if errors.Is(err, levelerr.ErrMissingSymbol) {
		return v, false, nil
	}
	return v, false, err
}
