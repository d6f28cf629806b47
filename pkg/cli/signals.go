package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// ShutdownSignals are the signals that stop the gateway gracefully.
var ShutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// SetupSignalHandler returns a context that is canceled on SIGINT or
// SIGTERM. Calling stop releases the signal registration; a second signal
// after cancellation falls through to the default handler and kills the
// process.
func SetupSignalHandler(parent context.Context) (ctx context.Context, stop context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, ShutdownSignals...)
}

// ReloadSignals ask a running gateway to re-read its configuration.
var ReloadSignals = []os.Signal{syscall.SIGHUP}

// NotifyReload relays every reload signal received until ctx is done. The
// returned channel is closed once ctx is done and the registration is
// released.
func NotifyReload(ctx context.Context) <-chan os.Signal {
	in := make(chan os.Signal, 1)
	signal.Notify(in, ReloadSignals...)

	out := make(chan os.Signal)
	go func() {
		defer close(out)
		defer signal.Stop(in)
		for {
			select {
			case <-ctx.Done():
				return
			case sig := <-in:
				select {
				case out <- sig:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
