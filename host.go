package levels

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/infinifold/levels/config"
	"github.com/infinifold/levels/health"
	"github.com/infinifold/levels/levelerr"
	"github.com/infinifold/levels/loader"
	"github.com/infinifold/levels/remote"
	"github.com/infinifold/levels/worker"
)

// ErrHostClosed is returned by Start after Close.
var ErrHostClosed = errors.New("host is closed")

// Host starts levels by name according to a configuration. It is safe for
// concurrent use.
type Host struct {
	cfg        *config.Config
	logger     *slog.Logger
	loader     *loader.Loader
	static     *loader.StaticOpener
	workerOpts []worker.Option

	mu      sync.Mutex
	running map[string]*worker.Level
	closed  bool
}

// NewHost creates a host for cfg. A nil cfg means config.Default().
func NewHost(cfg *config.Config, opts ...HostOption) (*Host, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	hc := &hostConfig{}
	for _, opt := range opts {
		opt(hc)
	}
	if hc.logger == nil {
		hc.logger = cfg.Log.NewLogger(os.Stderr)
	}

	static := loader.NewStaticOpener()
	for base, open := range hc.static {
		static.Register(base, open)
	}

	next := hc.opener
	if next == nil {
		next = openerFor(cfg, hc.logger)
	}

	loaderOpts := []loader.Option{
		loader.WithOpener(chainOpener{static: static, next: next}),
		loader.WithLogger(hc.logger),
	}
	workerOpts := []worker.Option{worker.WithLogger(hc.logger)}
	if hc.tp != nil {
		loaderOpts = append(loaderOpts, loader.WithTracerProvider(hc.tp))
		workerOpts = append(workerOpts, worker.WithTracerProvider(hc.tp))
	}
	if hc.mp != nil {
		loaderOpts = append(loaderOpts, loader.WithMeterProvider(hc.mp))
		workerOpts = append(workerOpts, worker.WithMeterProvider(hc.mp))
	}

	h := &Host{
		cfg:        cfg,
		logger:     hc.logger,
		loader:     loader.New(loaderOpts...),
		static:     static,
		workerOpts: workerOpts,
		running:    make(map[string]*worker.Level),
	}
	h.logger.Debug("level host ready",
		"isolation", cfg.GetIsolation(),
		"levels_dir", cfg.GetLevelsDir(),
		"static", len(hc.static),
	)
	return h, nil
}

// openerFor returns the opener of the configured isolation mode, or nil for static
// isolation.
func openerFor(cfg *config.Config, logger *slog.Logger) loader.Opener {
	switch cfg.GetIsolation() {
	case config.IsolationSubprocess:
		return remote.NewOpener(
			remote.WithBinary(cfg.Subprocess.GetBinary()),
			remote.WithHandshakeTimeout(cfg.Subprocess.GetHandshakeTimeout()),
			remote.WithShutdownTimeout(cfg.Subprocess.GetShutdownTimeout()),
			remote.WithLogger(logger),
		)
	case config.IsolationStatic:
		return nil
	}
	return loader.PluginOpener{}
}

// chainOpener serves static levels first and falls through to next for paths that
// are not registered.
type chainOpener struct {
	static *loader.StaticOpener
	next   loader.Opener
}

func (o chainOpener) Open(ctx context.Context, path string) (loader.Library, error) {
	lib, err := o.static.Open(ctx, path)
	if err == nil || !errors.Is(err, fs.ErrNotExist) || o.next == nil {
		return lib, err
	}
	return o.next.Open(ctx, path)
}

// Path returns the path Start loads base from. A static level is addressed by its
// base name.
func (h *Host) Path(base string) string {
	if slices.Contains(h.static.Paths(), base) {
		return base
	}
	return loader.ResolvePath(h.cfg.GetLevelsDir(), base)
}

// Start loads the level named base and starts its worker. Load failures, including
// panics during load, are returned as errors; see package levelerr for the kinds.
func (h *Host) Start(ctx context.Context, base string) (*worker.Level, error) {
	if strings.TrimSpace(base) == "" {
		return nil, levelerr.NewLoadError("levels.Start", "", fmt.Errorf("level name is empty"))
	}

	h.mu.Lock()
	closed := h.closed
	h.mu.Unlock()
	if closed {
		return nil, ErrHostClosed
	}

	path := h.Path(base)
	ifc, err := h.loader.LoadSafe(ctx, path)
	if err != nil {
		return nil, err
	}

	lvl, err := worker.New(ifc, h.workerOpts...)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		lvl.Destroy()
		return nil, ErrHostClosed
	}
	h.running[lvl.Session()] = lvl
	return lvl, nil
}

// Stop destroys lvl and forgets it.
func (h *Host) Stop(lvl *worker.Level) {
	if lvl == nil {
		return
	}
	h.mu.Lock()
	delete(h.running, lvl.Session())
	h.mu.Unlock()
	lvl.Destroy()
}

// Running returns the levels started and not yet stopped, including faulted ones.
func (h *Host) Running() []*worker.Level {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*worker.Level, 0, len(h.running))
	for _, lvl := range h.running {
		out = append(out, lvl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Session() < out[j].Session() })
	return out
}

// Available lists the level names Start can find: static levels and libraries in
// the levels directory that follow the platform naming convention.
func (h *Host) Available() ([]string, error) {
	names := h.static.Paths()

	if h.cfg.GetIsolation() != config.IsolationStatic {
		entries, err := os.ReadDir(h.cfg.GetLevelsDir())
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("list levels: %w", err)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			base := loader.BaseName(e.Name())
			if loader.LibraryName(base) == e.Name() && !slices.Contains(names, base) {
				names = append(names, base)
			}
		}
	}

	sort.Strings(names)
	return names, nil
}

// Health reports whether the host can load levels in its isolation mode and whether
// its running levels are ok.
func (h *Host) Health() health.Status {
	var checks []health.Status
	switch h.cfg.GetIsolation() {
	case config.IsolationInProcess:
		checks = append(checks, health.PluginSupportCheck())
	case config.IsolationSubprocess:
		checks = append(checks, health.BinaryCheck(h.cfg.Subprocess.GetBinary()))
	}
	for _, lvl := range h.Running() {
		checks = append(checks, lvl.Health())
	}
	return health.Combine(checks...)
}

// Close destroys every running level. Start fails afterwards.
func (h *Host) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	running := h.running
	h.running = nil
	h.mu.Unlock()

	for _, lvl := range running {
		lvl.Destroy()
	}
	h.logger.Debug("level host closed", "stopped", len(running))
	return nil
}
