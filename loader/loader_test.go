package loader

import (
	"context"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/infinifold/levels/abi"
	"github.com/infinifold/levels/levelerr"
)

const testPath = "levels/libtriangle.so"

func TestLoadConformingLibrary(t *testing.T) {
	f := newFixture(t)
	l := New(WithOpener(f.opener(testPath)), WithLogger(quietLogger()))

	ifc, err := l.LoadSafe(context.Background(), testPath)
	require.NoError(t, err)
	defer ifc.Close()

	assert.Equal(t, fixtureInfo, ifc.Info)
	assert.Equal(t, testPath, ifc.Path)
	assert.Empty(t, ifc.Defaulted())
	assert.True(t, ifc.IsOk())
	assert.Zero(t, f.created.Load(), "the loader never constructs an instance")

	f.info.Name = "changed after load"
	assert.Equal(t, "Triangle", ifc.Info.Name)

	h := ifc.New()
	assert.Equal(t, []abi.Face{{Index: 0.25}}, ifc.GetFaces(h))
	assert.True(t, ifc.WhenAngled(h, 2))
	ifc.Destroy(h)
	assert.Zero(t, f.exports.Live())
}

func TestLoadMissingRequiredSymbol(t *testing.T) {
	tests := []struct {
		symbol string
		want   error
	}{
		{abi.SymRequiredIncluded, levelerr.ErrNotLevelLibrary},
		{abi.SymIsOk, levelerr.ErrMissingSymbol},
		{abi.SymNew, levelerr.ErrMissingSymbol},
		{abi.SymDestroy, levelerr.ErrMissingSymbol},
		{abi.SymLevelInfo, levelerr.ErrMissingSymbol},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			f := newFixture(t)
			f.lib.Without(tt.symbol)
			l := New(WithOpener(f.opener(testPath)), WithLogger(quietLogger()))

			ifc, err := l.LoadSafe(context.Background(), testPath)
			require.Error(t, err)
			assert.Nil(t, ifc)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, levelerr.IsKind(err, levelerr.KindLoad))
			assert.Contains(t, err.Error(), tt.symbol)

			assert.True(t, f.lib.Closed(), "rejected library must be closed")
			assert.Zero(t, f.created.Load())
			assert.Zero(t, f.exports.Live())
		})
	}
}

func TestLoadMarkerFalse(t *testing.T) {
	f := newFixture(t)
	included := false
	f.lib.Set(abi.SymRequiredIncluded, &included)
	l := New(WithOpener(f.opener(testPath)), WithLogger(quietLogger()))

	_, err := l.Load(context.Background(), testPath)
	assert.ErrorIs(t, err, levelerr.ErrNotLevelLibrary)
	assert.Contains(t, err.Error(), "not a valid level library")
}

func TestLoadMarkerCheckedFirst(t *testing.T) {
	f := newFixture(t)
	f.lib.Without(abi.SymRequiredIncluded)
	initCalled := false
	f.lib.Set(abi.SymInit, abi.InitFunc(func() { initCalled = true }))
	l := New(WithOpener(f.opener(testPath)), WithLogger(quietLogger()))

	_, err := l.Load(context.Background(), testPath)
	require.Error(t, err)
	assert.False(t, initCalled)
}

func TestLoadWrongSymbolType(t *testing.T) {
	tests := []struct {
		symbol string
		value  any
	}{
		{abi.SymIsOk, func() int { return 1 }},
		{abi.SymNew, "not a function"},
		{abi.SymLevelInfo, &struct{ ID int }{}},
		{abi.SymWhenAngled, func(abi.Handle, float64) bool { return true }},
		{abi.SymInit, func() error { return nil }},
		{abi.SymDestroy, abi.DestroyFunc(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			f := newFixture(t)
			f.lib.Set(tt.symbol, tt.value)
			l := New(WithOpener(f.opener(testPath)), WithLogger(quietLogger()))

			_, err := l.LoadSafe(context.Background(), testPath)
			assert.ErrorIs(t, err, levelerr.ErrSymbolType)
			assert.True(t, f.lib.Closed())
		})
	}
}

func TestLoadOptionalSymbolsDefault(t *testing.T) {
	f := newFixture(t)
	f.lib.Without(abi.SymGetFaces, abi.SymWhenAngled, abi.SymInit)
	f.info = abi.LevelInfo{ID: 9, Name: "static", Group: "g"}
	l := New(WithOpener(f.opener(testPath)), WithLogger(quietLogger()))

	ifc, err := l.LoadSafe(context.Background(), testPath)
	require.NoError(t, err)

	assert.Equal(t, 9, ifc.Info.ID, "LEVEL_INFO is read even without Init")
	assert.ElementsMatch(t, []string{abi.SymGetFaces, abi.SymWhenAngled}, ifc.Defaulted())
	assert.False(t, ifc.Exports(abi.SymWhenAngled))
	assert.True(t, ifc.Exports(abi.SymNew))

	h := ifc.New()
	assert.NotNil(t, ifc.GetFaces(h))
	assert.Empty(t, ifc.GetFaces(h))
	assert.False(t, ifc.WhenAngled(h, 3))
}

func TestLoadFunctionExportedThroughVariable(t *testing.T) {
	f := newFixture(t)
	isOk := abi.IsOkFunc(func() bool { return true })
	f.lib.Set(abi.SymIsOk, &isOk)
	l := New(WithOpener(f.opener(testPath)), WithLogger(quietLogger()))

	ifc, err := l.Load(context.Background(), testPath)
	require.NoError(t, err)
	assert.True(t, ifc.IsOk())
}

func TestLoadSafeInitPanics(t *testing.T) {
	for i := 0; i < 25; i++ {
		f := newFixture(t)
		f.lib.Set(abi.SymInit, abi.InitFunc(func() { panic("init exploded") }))
		l := New(WithOpener(f.opener(testPath)), WithLogger(quietLogger()))

		ifc, err := l.LoadSafe(context.Background(), testPath)
		require.Error(t, err)
		assert.Nil(t, ifc)
		assert.ErrorIs(t, err, levelerr.ErrLoadAborted)
		assert.True(t, levelerr.IsKind(err, levelerr.KindLoadPanic))
		assert.Contains(t, err.Error(), "load aborted")
		assert.True(t, f.lib.Closed())
		assert.Zero(t, f.created.Load())
	}
}

func TestLoadDoesNotRecover(t *testing.T) {
	f := newFixture(t)
	f.lib.Set(abi.SymInit, abi.InitFunc(func() { panic("init exploded") }))
	l := New(WithOpener(f.opener(testPath)), WithLogger(quietLogger()))

	assert.Panics(t, func() {
		_, _ = l.Load(context.Background(), testPath)
	})
}

func TestLoadSafeGuardedInitFailure(t *testing.T) {
	f := newFixture(t)
	f.lib.Set(abi.SymInit, abi.InitFunc(func() {
		f.exports.Init()
		panic("raw panic after guarded init")
	}))
	l := New(WithOpener(f.opener(testPath)), WithLogger(quietLogger()))

	_, err := l.LoadSafe(context.Background(), testPath)
	assert.ErrorIs(t, err, levelerr.ErrLoadAborted)
}

func TestLoadOpenFailure(t *testing.T) {
	l := New(WithOpener(NewStaticOpener()), WithLogger(quietLogger()))

	_, err := l.LoadSafe(context.Background(), "levels/libmissing.so")
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.True(t, levelerr.IsKind(err, levelerr.KindLoad))

	_, err = l.LoadSafe(context.Background(), "")
	assert.True(t, levelerr.IsKind(err, levelerr.KindLoad))
}

func TestLoadCanceledContext(t *testing.T) {
	f := newFixture(t)
	l := New(WithOpener(f.opener(testPath)), WithLogger(quietLogger()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.Load(ctx, testPath)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, f.lib.Closed(), "library was never opened")
}

func TestPluginOpener(t *testing.T) {
	l := New(WithLogger(quietLogger()))

	_, err := l.LoadSafe(context.Background(), "/nonexistent/libnothing.so")
	require.Error(t, err)
	if PluginsSupported {
		assert.True(t, levelerr.IsKind(err, levelerr.KindLoad))
	} else {
		assert.ErrorIs(t, err, levelerr.ErrPluginsUnsupported)
		assert.True(t, levelerr.IsKind(err, levelerr.KindUnsupported))
	}
}

func TestLoadSpans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	f := newFixture(t)
	l := New(WithOpener(f.opener(testPath)), WithLogger(quietLogger()), WithTracerProvider(tp))

	_, err := l.LoadSafe(context.Background(), testPath)
	require.NoError(t, err)
	_, err = l.LoadSafe(context.Background(), "levels/libother.so")
	require.Error(t, err)

	spans := sr.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, "loader.Load", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	attrs := map[string]any{}
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	assert.Equal(t, "Triangle", attrs["level.name"])
	assert.Equal(t, int64(2), attrs["level.id"])

	assert.Equal(t, codes.Error, spans[1].Status().Code)
}

func TestInterfaceCloseOnce(t *testing.T) {
	f := newFixture(t)
	l := New(WithOpener(f.opener(testPath)), WithLogger(quietLogger()))

	ifc, err := l.Load(context.Background(), testPath)
	require.NoError(t, err)

	require.NoError(t, ifc.Close())
	require.NoError(t, ifc.Close())
	assert.Equal(t, 1, f.lib.CloseCount())
}
