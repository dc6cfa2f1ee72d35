package loader

import (
	"bytes"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/infinifold/levels/abi"
	"github.com/infinifold/levels/levelkit"
)

type flatLevel struct {
	faces []abi.Face
}

func (f *flatLevel) Faces() []abi.Face { return f.faces }

func (f *flatLevel) WhenAngled(angle float32) bool {
	if angle > 1 {
		f.faces = append(f.faces, abi.Face{Index: angle})
		return true
	}
	return false
}

// fixture is an in-process level library with its exported variables.
type fixture struct {
	exports *levelkit.Exports
	info    abi.LevelInfo
	created atomic.Int32
	lib     *StaticLibrary
}

var fixtureInfo = abi.LevelInfo{ID: 2, Name: "Triangle", Group: "test"}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{}

	cfg := levelkit.NewConfig()
	cfg.SetName("fixture")
	cfg.SetLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	cfg.SetInitFunc(func() error {
		f.info = fixtureInfo
		return nil
	})
	cfg.SetFactory(func() (levelkit.Level, error) {
		f.created.Add(1)
		return &flatLevel{faces: []abi.Face{{Index: 0.25}}}, nil
	})
	e, err := levelkit.Export(cfg)
	require.NoError(t, err)

	f.exports = e
	f.lib = FromExports(e, &f.info)
	return f
}

func (f *fixture) opener(path string) *StaticOpener {
	o := NewStaticOpener()
	o.Register(path, func() Library { return f.lib })
	return o
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}
