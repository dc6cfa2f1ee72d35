package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/infinifold/levels/abi"
	"github.com/infinifold/levels/health"
	"github.com/infinifold/levels/levelerr"
	"github.com/infinifold/levels/loader"
)

const instrumentationName = "github.com/infinifold/levels/worker"

// Level is the host-facing proxy of a running level.
type Level struct {
	ifc     *loader.Interface
	session string
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *levelMetrics

	actions   chan Action
	callbacks chan Callback
	done      chan struct{}

	// mu serializes round trips; there is never more than one action in flight.
	// faces is swapped atomically so GetFaces never waits on mu.
	mu          sync.Mutex
	faces       atomic.Pointer[[]abi.Face]
	ok          atomic.Bool
	destroyOnce sync.Once
}

// New starts a worker for ifc and waits for the level's initial faces. If the worker
// ends before sending them, New closes ifc and returns an error wrapping
// levelerr.ErrWorkerExited. On success the Level owns ifc and closes it in Destroy.
func New(ifc *loader.Interface, opts ...Option) (*Level, error) {
	if ifc == nil {
		return nil, levelerr.NewRuntimeFault("worker.New", "", fmt.Errorf("interface cannot be nil"))
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.tp == nil {
		o.tp = otel.GetTracerProvider()
	}
	if o.mp == nil {
		o.mp = otel.GetMeterProvider()
	}
	if o.session == "" {
		o.session = uuid.NewString()
	}

	l := &Level{
		ifc:       ifc,
		session:   o.session,
		logger:    o.logger.With("level", ifc.Info.String(), "session", o.session),
		tracer:    o.tp.Tracer(instrumentationName),
		actions:   make(chan Action),
		callbacks: make(chan Callback),
		done:      make(chan struct{}),
	}

	m, err := newLevelMetrics(o.mp.Meter(instrumentationName),
		attribute.String("level.name", ifc.Info.Name),
		attribute.String("level.group", ifc.Info.Group),
	)
	if err != nil {
		l.logger.Warn("failed to create worker metrics", "error", err)
	}
	l.metrics = m

	_, span := l.tracer.Start(context.Background(), "worker.New", trace.WithAttributes(
		attribute.String("level.path", ifc.Path),
		attribute.String("level.session", o.session),
	))
	defer span.End()

	a := &actor{
		ifc:       ifc,
		actions:   l.actions,
		callbacks: l.callbacks,
		done:      l.done,
		logger:    l.logger,
		onFault: func(reason string) {
			l.metrics.fault()
			l.logger.Warn("level stopped by a fault", "reason", reason)
		},
	}
	go a.run()

	cb, ok := <-l.callbacks
	faces, isFaces := cb.(FacesCallback)
	if !ok || !isFaces {
		<-l.done
		levelerr.CloseWithLog(ifc, l.logger, ifc.Path)
		err := levelerr.NewRuntimeFault("worker.New", ifc.Path, levelerr.ErrWorkerExited)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	l.setFaces(faces.Faces)
	l.ok.Store(true)
	l.metrics.started()
	l.logger.Info("level started", "faces", len(faces.Faces))
	span.SetStatus(codes.Ok, "")
	return l, nil
}

// GetFaces returns the cached face snapshot. It does not contact the worker. The
// returned slice must not be modified.
func (l *Level) GetFaces() []abi.Face {
	if p := l.faces.Load(); p != nil {
		return *p
	}
	return nil
}

func (l *Level) setFaces(faces []abi.Face) {
	l.faces.Store(&faces)
}

// WhenAngled tells the level about a new view angle in radians. It reports whether
// the geometry changed; if so, GetFaces returns the new snapshot. Once the level has
// faulted WhenAngled returns false without contacting the worker.
func (l *Level) WhenAngled(angle float32) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.ok.Load() {
		return false
	}

	cb, ok := l.roundTrip(AngledAction{Angle: angle})
	if !ok {
		return false
	}
	angled, isAngled := cb.(AngledCallback)
	if !isAngled {
		l.fail("unexpected reply to angle change", cb)
		return false
	}
	if !angled.Changed {
		return false
	}

	cb, ok = l.roundTrip(GetFacesAction{})
	if !ok {
		return false
	}
	faces, isFaces := cb.(FacesCallback)
	if !isFaces {
		l.fail("unexpected reply to face request", cb)
		return false
	}
	l.setFaces(faces.Faces)
	l.metrics.faceUpdate()
	return true
}

// roundTrip sends act and waits for its reply. It returns false, with the level
// marked faulted, if the worker is gone or the level reported a fault.
func (l *Level) roundTrip(act Action) (Callback, bool) {
	select {
	case l.actions <- act:
	case <-l.done:
		l.fail("worker exited before the request", act)
		return nil, false
	}

	cb, ok := <-l.callbacks
	if !ok {
		l.fail("worker exited without replying", act)
		return nil, false
	}
	if !cb.alive() {
		l.fail("level reported a fault", act)
		return nil, false
	}
	return cb, true
}

func (l *Level) fail(msg string, detail any) {
	if l.ok.Swap(false) {
		l.logger.Error(msg, "detail", fmt.Sprintf("%T", detail))
	}
}

// Destroy stops the worker, waits for it to destroy the instance and closes the
// library. It is safe to call more than once and on a faulted Level.
func (l *Level) Destroy() {
	l.destroyOnce.Do(func() {
		l.mu.Lock()
		defer l.mu.Unlock()

		_, span := l.tracer.Start(context.Background(), "worker.Destroy", trace.WithAttributes(
			attribute.String("level.session", l.session),
		))
		defer span.End()

		select {
		case l.actions <- DestroyAction{}:
		case <-l.done:
		}
		<-l.done

		l.ok.Store(false)
		l.metrics.stopped()
		levelerr.CloseWithLog(l.ifc, l.logger, l.ifc.Path)
		l.logger.Info("level destroyed")
	})
}

// IsOk reports whether the level is still usable. Once false it stays false.
func (l *Level) IsOk() bool {
	return l.ok.Load()
}

// Info returns the level's LEVEL_INFO snapshot.
func (l *Level) Info() abi.LevelInfo {
	return l.ifc.Info
}

// Session returns the id of this level run.
func (l *Level) Session() string {
	return l.session
}

// Done is closed when the worker goroutine has returned.
func (l *Level) Done() <-chan struct{} {
	return l.done
}

// Health reports the level's state.
func (l *Level) Health() health.Status {
	return health.LevelCheck(l)
}
