// Package bus provides the channel-based pub/sub broadcast for cross-pane
// project synchronization. Any component may subscribe at start and must
// unsubscribe at teardown; whichever pane initiates a project switch
// publishes it here so siblings stay consistent.
package bus

import (
	"log/slog"
	"sync"
)

// DefaultBufferSize is the default channel buffer size for subscribers.
const DefaultBufferSize = 16

// ProjectChanged announces that the active project changed.
// A nil ProjectID means no project is active.
type ProjectChanged struct {
	ProjectID *int64
}

// Bus broadcasts project-change notifications to all subscribers.
type Bus struct {
	subscribers []chan ProjectChanged
	bufferSize  int
	mu          sync.RWMutex
	closed      bool
}

// New creates a Bus with the specified default buffer size.
// If bufferSize is 0 or negative, DefaultBufferSize is used.
func New(bufferSize int) *Bus {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Bus{
		bufferSize: bufferSize,
	}
}

// Publish delivers the notification to all subscribers.
// Sends are non-blocking: if a subscriber's channel is full, the
// notification is dropped and a warning is logged.
// Publish is safe to call concurrently and after Close (becomes a no-op).
func (b *Bus) Publish(ev ProjectChanged) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	for _, ch := range b.subscribers {
		select {
		case ch <- ev:
			// Delivered
		default:
			slog.Warn("project change dropped: subscriber channel full")
		}
	}
}

// Subscribe returns a channel that receives all published notifications.
// The returned channel is closed when the bus is closed.
func (b *Bus) Subscribe() <-chan ProjectChanged {
	return b.SubscribeBuffered(b.bufferSize)
}

// SubscribeBuffered returns a subscription channel with the given buffer size.
func (b *Bus) SubscribeBuffered(size int) <-chan ProjectChanged {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		ch := make(chan ProjectChanged)
		close(ch)
		return ch
	}

	ch := make(chan ProjectChanged, size)
	b.subscribers = append(b.subscribers, ch)
	return ch
}

// Unsubscribe removes a subscription and closes its channel.
// It is safe to call with a channel that was never subscribed or already
// unsubscribed.
func (b *Bus) Unsubscribe(ch <-chan ProjectChanged) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, sub := range b.subscribers {
		if sub == ch {
			b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
			close(sub)
			return
		}
	}
}

// Close closes all subscriber channels and marks the bus as closed.
// Subsequent Publish calls become no-ops; subsequent Subscribe calls
// return closed channels. Close is safe to call multiple times.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.closed = true
	for _, ch := range b.subscribers {
		close(ch)
	}
	b.subscribers = nil
}
