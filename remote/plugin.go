package remote

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/hashicorp/go-hclog"
	goplugin "github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"

	"github.com/infinifold/levels/loader"
)

// PluginName is the name the level service is dispensed under.
const PluginName = "level"

// Handshake is shared by the parent and cmd/levelhost. A levelhost started without the
// cookie refuses to run.
var Handshake = goplugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "INFINIFOLD_LEVEL_HOST",
	MagicCookieValue: "7d1c0f3e5a9b4e2f8c6d0a1b3e5f7a9c",
}

// PluginMap is the plugin set of the parent side.
var PluginMap = map[string]goplugin.Plugin{
	PluginName: &GRPCPlugin{},
}

// GRPCPlugin carries the level service over go-plugin. The child sets Impl; the
// parent dispenses a *Library.
type GRPCPlugin struct {
	goplugin.NetRPCUnsupportedPlugin
	Impl LevelServer
}

// GRPCServer registers the level service.
func (p *GRPCPlugin) GRPCServer(_ *goplugin.GRPCBroker, s *grpc.Server) error {
	if p.Impl == nil {
		return errors.New("level server implementation is nil")
	}
	RegisterLevelServer(s, p.Impl)
	return nil
}

// GRPCClient returns a *Library for the child's level service.
func (p *GRPCPlugin) GRPCClient(ctx context.Context, _ *goplugin.GRPCBroker, c *grpc.ClientConn) (interface{}, error) {
	return NewLibrary(ctx, c)
}

// Serve serves lib to the parent that started this process and returns once the
// parent has shut the plugin down. It is the body of cmd/levelhost.
func Serve(lib loader.Library, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	srv := NewServer(lib, logger)
	defer func() {
		if err := srv.Close(); err != nil {
			logger.Warn("failed to close level library", "error", err)
		}
	}()

	goplugin.Serve(&goplugin.ServeConfig{
		HandshakeConfig: Handshake,
		Plugins: map[string]goplugin.Plugin{
			PluginName: &GRPCPlugin{Impl: srv},
		},
		GRPCServer: goplugin.DefaultGRPCServer,
		Logger:     hclogFor(logger, os.Stderr),
	})
}

// hclogFor builds the go-plugin logger at the level logger has enabled. The output is
// JSON so the parent can parse what the child writes to stderr.
func hclogFor(logger *slog.Logger, w io.Writer) hclog.Logger {
	ctx := context.Background()
	level := hclog.Error
	switch {
	case logger.Enabled(ctx, slog.LevelDebug):
		level = hclog.Debug
	case logger.Enabled(ctx, slog.LevelInfo):
		level = hclog.Info
	case logger.Enabled(ctx, slog.LevelWarn):
		level = hclog.Warn
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:       "levelhost",
		Output:     w,
		Level:      level,
		JSONFormat: true,
	})
}
