package levelkit

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infinifold/levels/abi"
)

type stubLevel struct {
	faces     []abi.Face
	panicOn   float32
	destroyed *int
}

func (s *stubLevel) Faces() []abi.Face { return s.faces }

func (s *stubLevel) WhenAngled(angle float32) bool {
	if angle == s.panicOn {
		panic("angle out of range")
	}
	if angle > 0 {
		s.faces = append(s.faces, abi.Face{Index: angle})
		return true
	}
	return false
}

func (s *stubLevel) Destroy() {
	if s.destroyed != nil {
		*s.destroyed++
	}
}

func newExports(t *testing.T, factory Factory) (*Exports, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	cfg := NewConfig()
	cfg.SetName("stub")
	cfg.SetFactory(factory)
	cfg.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	e, err := Export(cfg)
	require.NoError(t, err)
	return e, &buf
}

func TestExportValidation(t *testing.T) {
	_, err := Export(nil)
	assert.Error(t, err)

	cfg := NewConfig()
	_, err = Export(cfg)
	assert.ErrorContains(t, err, "name")

	cfg.SetName("x")
	_, err = Export(cfg)
	assert.ErrorContains(t, err, "factory")

	assert.Panics(t, func() { MustExport(NewConfig()) })
}

func TestExportsLifecycle(t *testing.T) {
	destroyed := 0
	e, _ := newExports(t, func() (Level, error) {
		return &stubLevel{faces: []abi.Face{{Index: 0.5}}, panicOn: -1, destroyed: &destroyed}, nil
	})

	assert.True(t, e.IsOk(), "IsOk is true before any instance exists")
	e.Init()
	assert.True(t, e.IsOk())

	h := e.New()
	require.True(t, h.IsLive())
	assert.Equal(t, 1, e.Live())

	assert.Equal(t, []abi.Face{{Index: 0.5}}, e.GetFaces(h))
	assert.False(t, e.WhenAngled(h, 0))
	assert.True(t, e.WhenAngled(h, 2))
	assert.Len(t, e.GetFaces(h), 2)

	e.Destroy(h)
	assert.Equal(t, 1, destroyed)
	assert.Equal(t, 0, e.Live())
	assert.True(t, e.IsOk())
}

func TestExportsGetFacesReturnsACopy(t *testing.T) {
	lvl := &stubLevel{faces: []abi.Face{{Colors: []abi.Color{{R: 1}}}}}
	e, _ := newExports(t, func() (Level, error) { return lvl, nil })

	h := e.New()
	faces := e.GetFaces(h)
	faces[0].Colors[0].R = 0
	assert.Equal(t, float32(1), lvl.faces[0].Colors[0].R)
}

func TestExportsPanicInWhenAngled(t *testing.T) {
	e, logs := newExports(t, func() (Level, error) {
		return &stubLevel{panicOn: -4}, nil
	})
	h := e.New()

	assert.False(t, e.WhenAngled(h, -4))
	assert.False(t, e.IsOk())
	assert.Contains(t, logs.String(), "level export panicked")
	assert.Contains(t, logs.String(), "angle out of range")

	assert.Equal(t, abi.Void, e.New(), "no new instances after a fault")
}

func TestExportsPanicDefaults(t *testing.T) {
	e, _ := newExports(t, func() (Level, error) { panic("constructor exploded") })

	assert.Equal(t, abi.Void, e.New())
	assert.False(t, e.IsOk())
}

func TestExportsFactoryError(t *testing.T) {
	e, logs := newExports(t, func() (Level, error) { return nil, errors.New("no assets") })

	assert.Equal(t, abi.Void, e.New())
	assert.False(t, e.IsOk())
	assert.Contains(t, logs.String(), "no assets")
}

func TestExportsNilLevel(t *testing.T) {
	e, _ := newExports(t, func() (Level, error) { return nil, nil })

	assert.Equal(t, abi.Void, e.New())
	assert.False(t, e.IsOk())
}

func TestExportsInitFailure(t *testing.T) {
	tests := []struct {
		name string
		init InitFunc
	}{
		{"error", func() error { return errors.New("bad data") }},
		{"panic", func() error { panic("bad data") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newExports(t, func() (Level, error) { return &stubLevel{}, nil })
			e.initFunc = tt.init

			assert.NotPanics(t, e.Init)
			assert.False(t, e.IsOk())
		})
	}
}

func TestExportsVoidHandleIsQuiet(t *testing.T) {
	e, _ := newExports(t, func() (Level, error) { return &stubLevel{}, nil })

	assert.Empty(t, e.GetFaces(abi.Void))
	assert.NotNil(t, e.GetFaces(abi.Void))
	assert.False(t, e.WhenAngled(abi.Void, 1))
	e.Destroy(abi.Void)
	assert.True(t, e.IsOk())
}

func TestExportsStaleHandleFaults(t *testing.T) {
	e, logs := newExports(t, func() (Level, error) { return &stubLevel{}, nil })

	h := e.New()
	e.Destroy(h)
	require.True(t, e.IsOk())

	assert.Empty(t, e.GetFaces(h))
	assert.False(t, e.IsOk())
	assert.Contains(t, logs.String(), "stale handle")
}

func TestExportsErrorHandleFaults(t *testing.T) {
	e, _ := newExports(t, func() (Level, error) { return &stubLevel{}, nil })

	assert.False(t, e.WhenAngled(abi.Error, 1))
	assert.False(t, e.IsOk())
}
