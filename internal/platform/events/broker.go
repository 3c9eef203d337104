package events

import (
	"context"
	"log/slog"
	"sync"
)

const subscriberBuffer = 64

// Broker fans changes out to in-process subscribers.
type Broker struct {
	mu     sync.Mutex
	subs   map[chan Change]struct{}
	closed bool
}

func NewBroker() *Broker {
	return &Broker{subs: map[chan Change]struct{}{}}
}

func (b *Broker) Publish(ctx context.Context, change Change) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- change:
		default:
			slog.Warn("event subscriber full, dropping change", "key", change.Key, "op", change.Op)
		}
	}
	return nil
}

func (b *Broker) Subscribe(ctx context.Context) (<-chan Change, error) {
	ch := make(chan Change, subscriberBuffer)
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, nil
	}
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
	}()
	return ch, nil
}

func (b *Broker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
	return nil
}
