package context

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/httpfn/httpfn/pkg/log"
)

var (
	ctx            context.Context
	cancel         context.CancelFunc
	ctxInitialized sync.Once

	// exit is replaced in tests
	exit = os.Exit
)

// AddInterruptCancellation will catch the first SIGINT or SIGTERM and cancel the context, so in flight
// requests fail with "Request was canceled." and the running command can print what it has.
// A second signal exits immediately
func AddInterruptCancellation(ctx context.Context, cancel context.CancelFunc) {
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go watchInterrupts(ctx, c, cancel)
}

func watchInterrupts(ctx context.Context, c <-chan os.Signal, cancel context.CancelFunc) {
	interrupts := 0
	done := ctx.Done()
	for {
		select {
		case sig := <-c:
			interrupts++
			if interrupts > 1 {
				log.Info().Str("signal", sig.String()).Msg("received multiple interrupt signals. exiting")
				exit(1)
				return
			}
			log.Info().Str("signal", sig.String()).Msg("received interrupt signal. cancelling requests")
			cancel()
		case <-done:
			// keep watching so a second signal still exits while the command unwinds
			if interrupts == 0 {
				return
			}
			done = nil
		}
	}
}

// InitContext will initialize the global context used to catch interrupts. This is automatically called
// by Context and Cancel
func InitContext() {
	ctxInitialized.Do(func() {
		ctx, cancel = context.WithCancel(context.Background())
		AddInterruptCancellation(ctx, cancel)
	})
}

// Context returns the process wide context, cancelled on the first interrupt.
// It is safe to call from multiple goroutines and always returns the same context
func Context() context.Context {
	InitContext()
	return ctx
}

// Cancel will cancel the global context
func Cancel() {
	InitContext()
	cancel()
}
