package signal

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_InitialState(t *testing.T) {
	h := NewHandler(context.Background())
	defer h.Stop()

	require.NoError(t, h.Context().Err())
	assert.False(t, h.Interrupted())
}

func TestHandler_InterruptCancelsContext(t *testing.T) {
	h := NewHandler(context.Background())
	defer h.Stop()

	h.interrupt()

	require.ErrorIs(t, h.Context().Err(), context.Canceled)
	assert.True(t, h.Interrupted())
}

func TestHandler_InterruptIsIdempotent(t *testing.T) {
	h := NewHandler(context.Background())
	defer h.Stop()

	h.interrupt()
	h.interrupt()
	h.interrupt()

	assert.True(t, h.Interrupted())
	require.Error(t, h.Context().Err())
}

func TestHandler_StopCancelsWithoutInterrupt(t *testing.T) {
	h := NewHandler(context.Background())
	h.Stop()
	h.Stop()

	require.Error(t, h.Context().Err())
	assert.False(t, h.Interrupted(), "Stop is not an interruption")
}

func TestHandler_ParentCanceled(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	h := NewHandler(parent)
	defer h.Stop()

	cancel()

	require.ErrorIs(t, h.Context().Err(), context.Canceled)
	assert.False(t, h.Interrupted())
}

func TestHandler_SignalDeliveredThroughChannel(t *testing.T) {
	h := NewHandler(context.Background())
	defer h.Stop()

	h.sigChan <- syscall.SIGTERM

	select {
	case <-h.Context().Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context was not canceled after signal")
	}
	assert.True(t, h.Interrupted())
}
