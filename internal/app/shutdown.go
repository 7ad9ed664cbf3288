package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hn-news-parser/internal/observability"
)

// GracefulShutdown returns a context that is cancelled on SIGINT/SIGTERM or
// once runTimeout elapses. The cancel func also stops signal delivery.
func GracefulShutdown(logger *observability.Logger, runTimeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}
