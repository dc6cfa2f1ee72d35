package remote

import (
	"log/slog"
	"sync"
	"time"

	goplugin "github.com/hashicorp/go-plugin"
)

// process is a running level host child.
type process struct {
	client          *goplugin.Client
	logger          *slog.Logger
	shutdownTimeout time.Duration

	closeOnce sync.Once
}

// Close shuts the child down. go-plugin asks it to exit and kills it if it does not;
// Close stops waiting after the shutdown timeout.
func (p *process) Close() error {
	p.closeOnce.Do(func() {
		done := make(chan struct{})
		go func() {
			p.client.Kill()
			close(done)
		}()

		timer := time.NewTimer(p.shutdownTimeout)
		defer timer.Stop()

		select {
		case <-done:
			p.logger.Debug("level host exited")
		case <-timer.C:
			p.logger.Warn("level host still shutting down", "timeout", p.shutdownTimeout)
		}
	})
	return nil
}

// Exited reports whether the child has exited.
func (p *process) Exited() bool {
	return p.client.Exited()
}
