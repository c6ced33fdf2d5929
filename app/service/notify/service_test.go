package notify

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func captureLogs(t *testing.T) *syncBuffer {
	t.Helper()

	var out syncBuffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&out, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	return &out
}

func TestService_DeliversToOwnerChannel(t *testing.T) {
	out := captureLogs(t)
	svc := NewService()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go svc.Run(ctx)

	svc.Add(Event{Kind: KindOrder, SessionID: "s1", SaleID: 7, Item: "iPhone 15 Pro", Amount: 13799})

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), `"telegram":true`)
	}, time.Second, 10*time.Millisecond)

	require.Contains(t, out.String(), `"item":"iPhone 15 Pro"`)
	require.Contains(t, out.String(), `"sale_id":7`)
}

func TestService_DropsWhenFull(t *testing.T) {
	out := captureLogs(t)
	svc := NewService()

	for i := 0; i < bufferSize+3; i++ {
		svc.Add(Event{Kind: KindPayment, SaleID: i})
	}

	require.Len(t, svc.queue, bufferSize)
	require.Contains(t, out.String(), "notification queue is full")
}

func TestService_AddAfterShutdown(t *testing.T) {
	svc := NewService()
	require.NoError(t, svc.Shutdown())
	require.NoError(t, svc.Shutdown())

	require.NotPanics(t, func() {
		svc.Add(Event{Kind: KindOrder})
	})

	// Run returns once the queue is closed
	done := make(chan struct{})
	go func() {
		svc.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after shutdown")
	}
}
