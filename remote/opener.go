package remote

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	goplugin "github.com/hashicorp/go-plugin"

	"github.com/infinifold/levels/levelerr"
	"github.com/infinifold/levels/loader"
)

// Opener opens each level library in its own level host process. It implements
// loader.Opener.
type Opener struct {
	binary           string
	args             []string
	env              []string
	handshakeTimeout time.Duration
	shutdownTimeout  time.Duration
	stderr           io.Writer
	logger           *slog.Logger
}

var _ loader.Opener = (*Opener)(nil)

// OpenerOption configures an Opener.
type OpenerOption func(*Opener)

// WithBinary sets the level host executable. Default: "levelhost" from PATH.
func WithBinary(path string) OpenerOption {
	return func(o *Opener) {
		o.binary = path
	}
}

// WithArgs sets arguments passed before -library.
func WithArgs(args ...string) OpenerOption {
	return func(o *Opener) {
		o.args = args
	}
}

// WithEnv adds KEY=value entries to the child's environment.
func WithEnv(env ...string) OpenerOption {
	return func(o *Opener) {
		o.env = append(o.env, env...)
	}
}

// WithHandshakeTimeout bounds the wait for the child to start serving.
func WithHandshakeTimeout(d time.Duration) OpenerOption {
	return func(o *Opener) {
		o.handshakeTimeout = d
	}
}

// WithShutdownTimeout bounds how long closing the library waits for the child to exit.
func WithShutdownTimeout(d time.Duration) OpenerOption {
	return func(o *Opener) {
		o.shutdownTimeout = d
	}
}

// WithStderr sets where the child's stderr and go-plugin's own logs go. Default:
// os.Stderr.
func WithStderr(w io.Writer) OpenerOption {
	return func(o *Opener) {
		o.stderr = w
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) OpenerOption {
	return func(o *Opener) {
		o.logger = logger
	}
}

// NewOpener creates an Opener.
func NewOpener(opts ...OpenerOption) *Opener {
	o := &Opener{
		binary:           "levelhost",
		handshakeTimeout: 10 * time.Second,
		shutdownTimeout:  5 * time.Second,
		stderr:           os.Stderr,
		logger:           slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Open implements loader.Opener. It starts a child for path through go-plugin and
// returns the library it dispenses. Closing the library stops the child.
func (o *Opener) Open(ctx context.Context, path string) (loader.Library, error) {
	const op = "remote.Open"
	if err := ctx.Err(); err != nil {
		return nil, levelerr.NewLoadError(op, path, err)
	}
	logger := o.logger.With("path", path)

	cmd := exec.Command(o.binary, append(append([]string{}, o.args...), "-library", path)...)
	cmd.Env = append([]string{}, o.env...)

	client := goplugin.NewClient(&goplugin.ClientConfig{
		HandshakeConfig:  Handshake,
		Plugins:          PluginMap,
		Cmd:              cmd,
		AllowedProtocols: []goplugin.Protocol{goplugin.ProtocolGRPC},
		StartTimeout:     o.handshakeTimeout,
		Stderr:           o.stderr,
		Logger:           hclogFor(o.logger, o.stderr),
	})

	fail := func(err error) (loader.Library, error) {
		client.Kill()
		return nil, levelerr.NewLoadError(op, path, err)
	}

	rpc, err := client.Client()
	if err != nil {
		return fail(fmt.Errorf("start level host: %w", err))
	}
	raw, err := rpc.Dispense(PluginName)
	if err != nil {
		return fail(fmt.Errorf("dispense level: %w", err))
	}
	lib, ok := raw.(*Library)
	if !ok {
		return fail(fmt.Errorf("level host dispensed %T", raw))
	}

	lib.closers = append(lib.closers, &process{
		client:          client,
		logger:          logger,
		shutdownTimeout: o.shutdownTimeout,
	})
	logger.Debug("remote level library opened", "symbols", len(lib.symbols))
	return lib, nil
}
