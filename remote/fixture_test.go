package remote

import (
	"bytes"
	"context"
	"log/slog"
	"net"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"github.com/infinifold/levels/abi"
	"github.com/infinifold/levels/levelkit"
	"github.com/infinifold/levels/loader"
)

// stepLevel adds a face every time the angle grows past its previous maximum.
type stepLevel struct {
	max       float32
	faces     []abi.Face
	destroyed *atomic.Int32
}

func (s *stepLevel) Faces() []abi.Face { return s.faces }

func (s *stepLevel) WhenAngled(angle float32) bool {
	if angle <= s.max {
		return false
	}
	s.max = angle
	s.faces = append(s.faces, abi.Face{Index: angle, Colors: []abi.Color{{R: 1, A: 1}}})
	return true
}

func (s *stepLevel) Destroy() { s.destroyed.Add(1) }

var stepInfo = abi.LevelInfo{ID: 4, Name: "Steps", Group: "remote"}

type fixture struct {
	info      abi.LevelInfo
	destroyed atomic.Int32
	lib       *loader.StaticLibrary
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f, err := buildFixture()
	require.NoError(t, err)
	return f
}

func buildFixture() (*fixture, error) {
	f := &fixture{}
	cfg := levelkit.NewConfig()
	cfg.SetName("steps")
	cfg.SetLogger(quietLogger())
	cfg.SetInitFunc(func() error {
		f.info = stepInfo
		return nil
	})
	cfg.SetFactory(func() (levelkit.Level, error) {
		return &stepLevel{faces: []abi.Face{{Index: 0}}, destroyed: &f.destroyed}, nil
	})
	e, err := levelkit.Export(cfg)
	if err != nil {
		return nil, err
	}
	f.lib = loader.FromExports(e, &f.info)
	return f, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

// serve serves lib over an in-memory connection.
func serve(t *testing.T, lib loader.Library) (*grpc.ClientConn, *grpc.Server) {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	gs := grpc.NewServer()
	RegisterLevelServer(gs, NewServer(lib, quietLogger()))
	go func() { _ = gs.Serve(lis) }()
	t.Cleanup(gs.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn, gs
}

// remoteLoader loads every path from the service behind conn.
func remoteLoader(conn *grpc.ClientConn) *loader.Loader {
	open := loader.OpenerFunc(func(ctx context.Context, _ string) (loader.Library, error) {
		return NewLibrary(ctx, conn)
	})
	return loader.New(loader.WithOpener(open), loader.WithLogger(quietLogger()))
}
