package queue

import (
	"context"
	"sync"
)

// MemoryClient buffers messages in process. Used by tests and local runs
// where no SQS queue is configured.
type MemoryClient struct {
	mu       sync.Mutex
	messages []Message
}

// Send records the message.
func (m *MemoryClient) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := EncodeMessage(msg); err != nil {
		return err
	}
	if msg.Version == 0 {
		msg.Version = CurrentVersion
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return nil
}

// Drain returns and clears the buffered messages.
func (m *MemoryClient) Drain() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.messages
	m.messages = nil
	return out
}

var _ Client = (*MemoryClient)(nil)
