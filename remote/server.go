package remote

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"sync"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/infinifold/levels/abi"
	"github.com/infinifold/levels/levelerr"
	"github.com/infinifold/levels/loader"
)

// Server serves one opened level library to a parent process.
//
// Contract functions are resolved once, when the server is created. The variables
// REQUIRED_INCLUDED and LEVEL_INFO are read on every call, since Init may change them.
// A panic in a contract function is recovered and returned as codes.Internal; the
// parent treats it like a panic in process.
type Server struct {
	lib    loader.Library
	logger *slog.Logger

	// Calls into the library are serialized, as they are on the worker goroutine.
	mu sync.Mutex

	symbols    map[string]string
	isOk       abi.IsOkFunc
	init       abi.InitFunc
	newFn      abi.NewFunc
	destroy    abi.DestroyFunc
	getFaces   abi.GetFacesFunc
	whenAngled abi.WhenAngledFunc
}

var _ LevelServer = (*Server)(nil)

// NewServer resolves the contract symbols of lib. A missing or mistyped symbol is not
// an error here; it is reported to the parent through Symbols and the parent's loader
// decides.
func NewServer(lib loader.Library, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		lib:     lib,
		logger:  logger,
		symbols: make(map[string]string),
	}

	check[bool](s, abi.SymRequiredIncluded)
	check[abi.LevelInfo](s, abi.SymLevelInfo)
	s.isOk = check[abi.IsOkFunc](s, abi.SymIsOk)
	s.init = check[abi.InitFunc](s, abi.SymInit)
	s.newFn = check[abi.NewFunc](s, abi.SymNew)
	s.destroy = check[abi.DestroyFunc](s, abi.SymDestroy)
	s.getFaces = check[abi.GetFacesFunc](s, abi.SymGetFaces)
	s.whenAngled = check[abi.WhenAngledFunc](s, abi.SymWhenAngled)
	return s
}

func check[T any](s *Server, name string) T {
	v, err := loader.Symbol[T](s.lib, name)
	switch {
	case err == nil:
		s.symbols[name] = ""
	case errors.Is(err, levelerr.ErrMissingSymbol):
	default:
		s.symbols[name] = err.Error()
	}
	return v
}

// Symbols implements LevelServer.
func (s *Server) Symbols(context.Context, *Empty) (*SymbolsReply, error) {
	out := make(map[string]string, len(s.symbols))
	for k, v := range s.symbols {
		out[k] = v
	}
	return &SymbolsReply{Symbols: out}, nil
}

// Included implements LevelServer.
func (s *Server) Included(context.Context, *Empty) (*BoolReply, error) {
	v, err := loader.Symbol[bool](s.lib, abi.SymRequiredIncluded)
	if err != nil {
		return nil, symbolStatus(abi.SymRequiredIncluded, err)
	}
	return &BoolReply{Value: v}, nil
}

// Info implements LevelServer.
func (s *Server) Info(context.Context, *Empty) (*InfoReply, error) {
	v, err := loader.Symbol[abi.LevelInfo](s.lib, abi.SymLevelInfo)
	if err != nil {
		return nil, symbolStatus(abi.SymLevelInfo, err)
	}
	return &InfoReply{Info: v}, nil
}

// IsOk implements LevelServer.
func (s *Server) IsOk(context.Context, *Empty) (*BoolReply, error) {
	if s.isOk == nil {
		return nil, unimplemented(abi.SymIsOk)
	}
	reply := &BoolReply{}
	err := s.call(abi.SymIsOk, func() { reply.Value = s.isOk() })
	return reply, err
}

// Init implements LevelServer.
func (s *Server) Init(context.Context, *Empty) (*Empty, error) {
	if s.init == nil {
		return nil, unimplemented(abi.SymInit)
	}
	return &Empty{}, s.call(abi.SymInit, func() { s.init() })
}

// New implements LevelServer.
func (s *Server) New(context.Context, *Empty) (*HandleMessage, error) {
	if s.newFn == nil {
		return nil, unimplemented(abi.SymNew)
	}
	reply := &HandleMessage{}
	err := s.call(abi.SymNew, func() { reply.Handle = s.newFn() })
	return reply, err
}

// Destroy implements LevelServer.
func (s *Server) Destroy(_ context.Context, req *HandleMessage) (*Empty, error) {
	if s.destroy == nil {
		return nil, unimplemented(abi.SymDestroy)
	}
	return &Empty{}, s.call(abi.SymDestroy, func() { s.destroy(req.Handle) })
}

// GetFaces implements LevelServer.
func (s *Server) GetFaces(_ context.Context, req *HandleMessage) (*FacesReply, error) {
	if s.getFaces == nil {
		return nil, unimplemented(abi.SymGetFaces)
	}
	reply := &FacesReply{}
	err := s.call(abi.SymGetFaces, func() { reply.Faces = s.getFaces(req.Handle) })
	return reply, err
}

// WhenAngled implements LevelServer.
func (s *Server) WhenAngled(_ context.Context, req *AngledRequest) (*BoolReply, error) {
	if s.whenAngled == nil {
		return nil, unimplemented(abi.SymWhenAngled)
	}
	reply := &BoolReply{}
	err := s.call(abi.SymWhenAngled, func() { reply.Value = s.whenAngled(req.Handle, req.Angle) })
	return reply, err
}

// Close closes the library.
func (s *Server) Close() error {
	return s.lib.Close()
}

func (s *Server) call(symbol string, fn func()) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("level call panicked",
				"symbol", symbol,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			err = status.Errorf(codes.Internal, "%s panicked: %v", symbol, r)
		}
	}()
	fn()
	return nil
}

func symbolStatus(name string, err error) error {
	if errors.Is(err, levelerr.ErrMissingSymbol) {
		return unimplemented(name)
	}
	return status.Errorf(codes.FailedPrecondition, "%s: %v", name, err)
}

func unimplemented(name string) error {
	return status.Errorf(codes.Unimplemented, "library does not export %s", name)
}
