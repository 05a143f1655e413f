package match

import "sync"

// PublishLog is an interface for publishing outbound messages (acks and fills).
// Publish is called from the engine's consumer goroutine, one call per inbound
// command, with the messages in their deterministic emission order.
type PublishLog interface {
	Publish(...Message)
}

// MemoryPublishLog stores messages in memory, useful for testing.
type MemoryPublishLog struct {
	mu       sync.RWMutex
	Messages []Message
}

// NewMemoryPublishLog creates a new MemoryPublishLog.
func NewMemoryPublishLog() *MemoryPublishLog {
	return &MemoryPublishLog{
		Messages: make([]Message, 0),
	}
}

// Publish appends messages to the in-memory slice.
func (m *MemoryPublishLog) Publish(msgs ...Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = append(m.Messages, msgs...)
}

// Count returns the number of messages stored.
func (m *MemoryPublishLog) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.Messages)
}

// Get returns the message at the specified index.
func (m *MemoryPublishLog) Get(index int) Message {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.Messages[index]
}

// Logs returns a copy of all messages stored.
func (m *MemoryPublishLog) Logs() []Message {
	m.mu.RLock()
	defer m.mu.RUnlock()

	logs := make([]Message, len(m.Messages))
	copy(logs, m.Messages)
	return logs
}

// DiscardPublishLog discards all messages, useful for benchmarking.
type DiscardPublishLog struct {
}

// NewDiscardPublishLog creates a new DiscardPublishLog.
func NewDiscardPublishLog() *DiscardPublishLog {
	return &DiscardPublishLog{}
}

// Publish does nothing.
func (p *DiscardPublishLog) Publish(msgs ...Message) {

}
