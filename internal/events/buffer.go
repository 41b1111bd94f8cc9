package events

import "sync"

const defaultBufferSize = 1024

type message struct {
	Kind string
	Data []byte
}

// buffer is a bounded FIFO ring of pending messages. When it is full the
// oldest message is overwritten and counted as dropped.
type buffer struct {
	mu      sync.Mutex
	ring    []*message
	start   int
	count   int
	dropped int
}

func newBuffer(capacity int) *buffer {
	if capacity <= 0 {
		capacity = defaultBufferSize
	}
	return &buffer{ring: make([]*message, capacity)}
}

func (b *buffer) PushBack(msg *message) {
	b.mu.Lock()
	defer b.mu.Unlock()

	end := (b.start + b.count) % len(b.ring)
	b.ring[end] = msg
	if b.count == len(b.ring) {
		b.start = (b.start + 1) % len(b.ring)
		b.dropped++
		return
	}
	b.count++
}

// Pop removes and returns the oldest message, nil when the buffer is empty.
func (b *buffer) Pop() *message {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.count == 0 {
		return nil
	}
	msg := b.ring[b.start]
	b.ring[b.start] = nil
	b.start = (b.start + 1) % len(b.ring)
	b.count--
	return msg
}

func (b *buffer) Size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

// Dropped returns how many messages were overwritten before being written.
func (b *buffer) Dropped() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}
