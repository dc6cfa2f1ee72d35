package levelkit

import (
	"fmt"
	"log/slog"

	"github.com/infinifold/levels/abi"
)

// Level is the behavior a level author implements.
type Level interface {
	// Faces returns the current geometry.
	Faces() []abi.Face

	// WhenAngled is told the new view angle in radians and reports whether the
	// geometry changed.
	WhenAngled(angle float32) bool
}

// Destroyer is implemented by levels that hold resources beyond memory.
type Destroyer interface {
	Destroy()
}

// Factory creates a level instance.
type Factory func() (Level, error)

// InitFunc runs once after the library is opened, before LEVEL_INFO is read.
type InitFunc func() error

// Config holds the settings for Export. Create it with NewConfig.
type Config struct {
	name     string
	factory  Factory
	initFunc InitFunc
	logger   *slog.Logger
}

// NewConfig returns a configuration with a no-op init function and the default logger.
func NewConfig() *Config {
	return &Config{
		initFunc: func() error { return nil },
	}
}

// SetName sets the name used in diagnostics.
func (c *Config) SetName(name string) {
	c.name = name
}

// SetFactory sets the level constructor. Required.
func (c *Config) SetFactory(f Factory) {
	c.factory = f
}

// SetInitFunc sets the function run by the Init export.
func (c *Config) SetInitFunc(fn InitFunc) {
	c.initFunc = fn
}

// SetLogger sets the logger for diagnostics. Defaults to slog.Default().
func (c *Config) SetLogger(logger *slog.Logger) {
	c.logger = logger
}

// Export builds the guarded exports for a level library.
func Export(cfg *Config) (*Exports, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.name == "" {
		return nil, fmt.Errorf("level name is required")
	}
	if cfg.factory == nil {
		return nil, fmt.Errorf("level factory is required")
	}

	initFunc := cfg.initFunc
	if initFunc == nil {
		initFunc = func() error { return nil }
	}
	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	e := &Exports{
		name:     cfg.name,
		factory:  cfg.factory,
		initFunc: initFunc,
		logger:   logger.With("level", cfg.name),
	}
	e.ok.Store(true)
	return e, nil
}

// MustExport is like Export but panics on an invalid configuration. A level library
// calls it from a package-level variable, so a failure surfaces as an open error.
func MustExport(cfg *Config) *Exports {
	e, err := Export(cfg)
	if err != nil {
		panic(fmt.Sprintf("levelkit: %v", err))
	}
	return e
}
