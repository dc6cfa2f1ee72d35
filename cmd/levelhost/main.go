// Command levelhost serves one level library to a parent process. It is started by
// the subprocess isolation mode (package remote) through go-plugin and refuses to run
// without the parent's handshake cookie.
//
// Usage:
//
//	levelhost -library path/to/libpenrose.so
//
// levelhost serves until the parent shuts the plugin down. Logs go to stderr.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/infinifold/levels/config"
	"github.com/infinifold/levels/loader"
	"github.com/infinifold/levels/remote"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "levelhost: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	library := flag.String("library", "", "path of the level library to serve")
	flag.Parse()

	if *library == "" {
		return fmt.Errorf("-library is required")
	}

	cfg := config.Default()
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := cfg.Log.NewLogger(os.Stderr).With("component", "levelhost", "library", *library)

	lib, err := loader.PluginOpener{}.Open(context.Background(), *library)
	if err != nil {
		return err
	}

	remote.Serve(lib, logger)
	return nil
}
