// Package sigctx ties a context to the process shutdown signals.
package sigctx

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

var shutdownSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
	syscall.SIGQUIT,
}

// NotifyContext returns a context that is canceled on the first shutdown
// signal or when the returned cancel func is called. The received signal
// is logged.
func NotifyContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	c := make(chan os.Signal, 1)
	signal.Notify(c, shutdownSignals...)

	go func() {
		defer signal.Stop(c)
		select {
		case s := <-c:
			slog.Info("shutdown signal received", "signal", s.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
