package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"google.golang.org/grpc"

	"github.com/infinifold/levels/abi"
	"github.com/infinifold/levels/levelerr"
	"github.com/infinifold/levels/loader"
)

// CallError is the panic value of a stub whose call failed. It is an error, so a
// recovering caller can inspect it with errors.As.
type CallError struct {
	Method string
	Err    error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("remote %s failed: %v", e.Method, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// Library is a level library served by another process. It implements
// loader.Library.
//
// Lookup of REQUIRED_INCLUDED or LEVEL_INFO fetches the variable's current value and
// returns a pointer to a copy. Lookup of a contract function returns a stub that
// forwards the call and panics with a *CallError if the call fails.
type Library struct {
	conn    grpc.ClientConnInterface
	symbols map[string]string

	// ctx is canceled by Close so blocked stubs return.
	ctx    context.Context
	cancel context.CancelFunc

	closers   []io.Closer
	closeOnce sync.Once
	closeErr  error
}

var _ loader.Library = (*Library)(nil)

// NewLibrary asks the level service behind conn for its symbols. closers are closed,
// in order, by Library.Close; pass the connection to hand over its ownership.
func NewLibrary(ctx context.Context, conn grpc.ClientConnInterface, closers ...io.Closer) (*Library, error) {
	reply := &SymbolsReply{}
	if err := invoke(ctx, conn, methodSymbols, &Empty{}, reply); err != nil {
		return nil, fmt.Errorf("list level symbols: %w", err)
	}

	lctx, cancel := context.WithCancel(context.Background())
	return &Library{
		conn:    conn,
		symbols: reply.Symbols,
		ctx:     lctx,
		cancel:  cancel,
		closers: closers,
	}, nil
}

// Symbols returns the names the remote library exports.
func (l *Library) Symbols() []string {
	out := make([]string, 0, len(l.symbols))
	for name := range l.symbols {
		out = append(out, name)
	}
	return out
}

// Lookup implements loader.Library.
func (l *Library) Lookup(name string) (any, error) {
	if l.ctx.Err() != nil {
		return nil, loader.ErrLibraryClosed
	}
	problem, ok := l.symbols[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", levelerr.ErrMissingSymbol, name)
	}
	if problem != "" {
		return nil, fmt.Errorf("%w: %s", levelerr.ErrSymbolType, problem)
	}

	switch name {
	case abi.SymRequiredIncluded:
		reply := &BoolReply{}
		if err := l.invoke(methodIncluded, &Empty{}, reply); err != nil {
			return nil, err
		}
		return &reply.Value, nil
	case abi.SymLevelInfo:
		reply := &InfoReply{}
		if err := l.invoke(methodInfo, &Empty{}, reply); err != nil {
			return nil, err
		}
		return &reply.Info, nil
	case abi.SymIsOk:
		return abi.IsOkFunc(func() bool {
			reply := &BoolReply{}
			l.mustInvoke(methodIsOk, &Empty{}, reply)
			return reply.Value
		}), nil
	case abi.SymInit:
		return abi.InitFunc(func() {
			l.mustInvoke(methodInit, &Empty{}, &Empty{})
		}), nil
	case abi.SymNew:
		return abi.NewFunc(func() abi.Handle {
			reply := &HandleMessage{}
			l.mustInvoke(methodNew, &Empty{}, reply)
			return reply.Handle
		}), nil
	case abi.SymDestroy:
		return abi.DestroyFunc(func(h abi.Handle) {
			l.mustInvoke(methodDestroy, &HandleMessage{Handle: h}, &Empty{})
		}), nil
	case abi.SymGetFaces:
		return abi.GetFacesFunc(func(h abi.Handle) []abi.Face {
			reply := &FacesReply{}
			l.mustInvoke(methodGetFaces, &HandleMessage{Handle: h}, reply)
			if reply.Faces == nil {
				return []abi.Face{}
			}
			return reply.Faces
		}), nil
	case abi.SymWhenAngled:
		return abi.WhenAngledFunc(func(h abi.Handle, angle float32) bool {
			reply := &BoolReply{}
			l.mustInvoke(methodWhenAngled, &AngledRequest{Handle: h, Angle: angle}, reply)
			return reply.Value
		}), nil
	}
	return nil, fmt.Errorf("%w: %s is not a contract symbol", levelerr.ErrMissingSymbol, name)
}

// Close cancels pending calls and runs the closers, which stop the child process.
func (l *Library) Close() error {
	l.closeOnce.Do(func() {
		l.cancel()
		var errs []error
		for _, c := range l.closers {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		l.closeErr = errors.Join(errs...)
	})
	return l.closeErr
}

func (l *Library) invoke(method string, req, reply any) error {
	return invoke(l.ctx, l.conn, method, req, reply)
}

func (l *Library) mustInvoke(method string, req, reply any) {
	if err := l.invoke(method, req, reply); err != nil {
		panic(&CallError{Method: method, Err: err})
	}
}

func invoke(ctx context.Context, conn grpc.ClientConnInterface, method string, req, reply any) error {
	return conn.Invoke(ctx, fullMethod(method), req, reply, grpc.CallContentSubtype(CodecName))
}
