// Package signal stops a report run when the process is interrupted.
//
// Import rules:
//   - CAN import: std lib only
//   - MUST NOT import: internal packages
package signal

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
)

// Handler cancels its context on the first SIGINT or SIGTERM. The event
// reader and the report sink both watch that context, so an interrupted run
// stops reading and writes nothing.
type Handler struct {
	ctx         context.Context //nolint:containedctx // handler owns the run context
	cancel      context.CancelFunc
	sigChan     chan os.Signal
	done        chan struct{}
	interrupted atomic.Bool
	stopOnce    sync.Once
}

// NewHandler starts listening for interrupts. Callers must call Stop.
//
//	h := signal.NewHandler(ctx)
//	defer h.Stop()
//	summary, err := eventstream.Run(h.Context(), src, rep, opts, logger)
//	if h.Interrupted() {
//	    // report the interruption instead of err
//	}
func NewHandler(parent context.Context) *Handler {
	ctx, cancel := context.WithCancel(parent)
	h := &Handler{
		ctx:    ctx,
		cancel: cancel,
		// Buffered so signal.Notify never drops the first signal.
		sigChan: make(chan os.Signal, 1),
		done:    make(chan struct{}),
	}

	signal.Notify(h.sigChan, syscall.SIGINT, syscall.SIGTERM)
	go h.listen()

	return h
}

// Context returns the run context.
func (h *Handler) Context() context.Context {
	return h.ctx
}

// Interrupted reports whether a signal canceled the run.
func (h *Handler) Interrupted() bool {
	return h.interrupted.Load()
}

// Stop releases the signal subscription and cancels the context. It is
// safe to call more than once.
func (h *Handler) Stop() {
	h.stopOnce.Do(func() {
		signal.Stop(h.sigChan)
		close(h.done)
		h.cancel()
	})
}

// interrupt marks the run interrupted and cancels it. Later calls are no-ops.
func (h *Handler) interrupt() {
	if h.interrupted.CompareAndSwap(false, true) {
		h.cancel()
	}
}

// listen waits for a signal until Stop is called or the parent is done.
// Signals after the first are drained and ignored.
func (h *Handler) listen() {
	for {
		select {
		case <-h.ctx.Done():
			return
		case <-h.done:
			return
		case <-h.sigChan:
			h.interrupt()
		}
	}
}
