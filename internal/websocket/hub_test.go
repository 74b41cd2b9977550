package websocket

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"darwinian-be/internal/pkg/logger"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	h := NewHub(nil, logger.NewNopLogger())
	go h.Run(ctx)
	return h
}

func TestHub_SendToSessionReachesOnlyItsWatchers(t *testing.T) {
	h := startHub(t)
	a, b := uuid.New(), uuid.New()

	ca := &Client{Hub: h, SessionID: a, Send: make(chan []byte, 4)}
	cb := &Client{Hub: h, SessionID: b, Send: make(chan []byte, 4)}
	h.register <- ca
	h.register <- cb

	require.Eventually(t, func() bool { return h.Watchers(a) == 1 && h.Watchers(b) == 1 }, time.Second, 5*time.Millisecond)

	h.SendToSession(a, []byte(`{"type":"TURN_STEP"}`))

	select {
	case msg := <-ca.Send:
		assert.JSONEq(t, `{"type":"TURN_STEP"}`, string(msg))
	case <-time.After(time.Second):
		t.Fatal("watcher did not receive message")
	}
	assert.Len(t, cb.Send, 0)
}

func TestHub_UnregisterClosesChannel(t *testing.T) {
	h := startHub(t)
	sid := uuid.New()
	c := &Client{Hub: h, SessionID: sid, Send: make(chan []byte, 1)}

	h.register <- c
	h.unregister <- c

	require.Eventually(t, func() bool { return h.Watchers(sid) == 0 }, time.Second, 5*time.Millisecond)
	_, open := <-c.Send
	assert.False(t, open)
}

func TestHub_FullBufferDropsClient(t *testing.T) {
	h := startHub(t)
	sid := uuid.New()
	c := &Client{Hub: h, SessionID: sid, Send: make(chan []byte)} // unbuffered, never read

	h.register <- c
	require.Eventually(t, func() bool { return h.Watchers(sid) == 1 }, time.Second, 5*time.Millisecond)

	h.SendToSession(sid, []byte("x"))
	assert.Eventually(t, func() bool { return h.Watchers(sid) == 0 }, time.Second, 5*time.Millisecond)
}

func TestHub_StopClosesWatchersAndUnblocksDrop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub(nil, logger.NewNopLogger())
	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()

	c := &Client{Hub: h, SessionID: uuid.New(), Send: make(chan []byte, 1)}
	h.register <- c
	cancel()
	<-stopped

	_, open := <-c.Send
	assert.False(t, open)

	dropped := make(chan struct{})
	go func() {
		h.drop(c)
		close(dropped)
	}()
	select {
	case <-dropped:
	case <-time.After(time.Second):
		t.Fatal("drop blocked after hub stopped")
	}
}
