package mq

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestMemoryBackendDeliversToSubscriber(t *testing.T) {
	backend := NewMemoryBackend(zap.NewNop())
	defer backend.Close()

	ctx, cancel := context.WithCancel(context.Background())
	received := make(chan Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- backend.Subscribe(ctx, "registrations.reviewed", func(_ context.Context, msg Message) error {
			received <- msg
			return nil
		})
	}()

	require.Eventually(t, func() bool {
		backend.mu.Lock()
		defer backend.mu.Unlock()
		return len(backend.subscribers["registrations.reviewed"]) == 1
	}, time.Second, 5*time.Millisecond)

	id, err := backend.Publish(context.Background(), "registrations.reviewed", []byte(`{"id":1}`), map[string]string{"status": "approved"})
	require.NoError(t, err)

	select {
	case msg := <-received:
		assert.Equal(t, id, msg.ID)
		assert.Equal(t, "approved", msg.Attributes["status"])
	case <-time.After(time.Second):
		t.Fatal("message not delivered")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestMemoryBackendPublishWithoutSubscribers(t *testing.T) {
	backend := NewMemoryBackend(nil)
	id, err := backend.Publish(context.Background(), "nobody", []byte("x"), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	require.NoError(t, backend.Close())
	_, err = backend.Publish(context.Background(), "nobody", []byte("x"), nil)
	assert.Error(t, err)
}
