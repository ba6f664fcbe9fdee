package mq

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MemoryBackend is an in-process broker used when RabbitMQ is disabled.
// Messages published before a subscriber attaches are only logged.
type MemoryBackend struct {
	logger *zap.Logger

	mu          sync.Mutex
	subscribers map[string][]chan Message
	closed      bool
}

// NewMemoryBackend constructs an in-process backend.
func NewMemoryBackend(logger *zap.Logger) *MemoryBackend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemoryBackend{logger: logger, subscribers: make(map[string][]chan Message)}
}

// Publish logs the message and fans it out to current subscribers.
func (m *MemoryBackend) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return "", errors.New("memory backend closed")
	}

	msg := Message{ID: uuid.NewString(), Data: data, Attributes: attrs}
	m.logger.Info("message published", zap.String("channel", channel), zap.String("message_id", msg.ID), zap.Int("bytes", len(data)))
	for _, sub := range m.subscribers[channel] {
		select {
		case sub <- msg:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return msg.ID, nil
}

// Subscribe delivers messages for channel until ctx is cancelled or the backend closes.
func (m *MemoryBackend) Subscribe(ctx context.Context, channel string, handler Handler) error {
	sub := make(chan Message, 16)
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return errors.New("memory backend closed")
	}
	m.subscribers[channel] = append(m.subscribers[channel], sub)
	m.mu.Unlock()

	defer m.unsubscribe(channel, sub)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-sub:
			if !ok {
				return nil
			}
			if err := handler(ctx, msg); err != nil {
				m.logger.Warn("message handler failed", zap.String("channel", channel), zap.String("message_id", msg.ID), zap.Error(err))
			}
		}
	}
}

// Close stops all subscribers.
func (m *MemoryBackend) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	for channel, subs := range m.subscribers {
		for _, sub := range subs {
			close(sub)
		}
		delete(m.subscribers, channel)
	}
	return nil
}

func (m *MemoryBackend) unsubscribe(channel string, target chan Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	subs := m.subscribers[channel]
	for i, sub := range subs {
		if sub == target {
			m.subscribers[channel] = append(subs[:i], subs[i+1:]...)
			return
		}
	}
}
