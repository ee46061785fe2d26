// Package signals maps process signals onto the watch loop: SIGINT and
// SIGTERM stop it, SIGHUP forces a filter reload.
package signals

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/endorses/seqfilter/internal/pkg/constants"
	"github.com/endorses/seqfilter/internal/pkg/logger"
)

// SetupHandler cancels ctx on SIGINT or SIGTERM and calls onHangup for every
// SIGHUP. onHangup may be nil. The returned cleanup stops signal delivery and
// waits for the handler goroutine.
func SetupHandler(ctx context.Context, cancel context.CancelFunc, onHangup func()) (cleanup func()) {
	sigCh := make(chan os.Signal, constants.SignalChannelBuffer)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case sig := <-sigCh:
				if sig == syscall.SIGHUP {
					logger.Info("Received hangup, reloading filters")
					if onHangup != nil {
						onHangup()
					}
					continue
				}
				logger.Info("Received signal, initiating shutdown", "signal", sig.String())
				cancel()
				return
			case <-ctx.Done():
				return
			case <-stop:
				return
			}
		}
	}()

	return func() {
		signal.Stop(sigCh)
		close(stop)
		<-done
	}
}
