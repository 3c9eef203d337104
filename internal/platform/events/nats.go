package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
)

// NATSBus publishes changes on "<prefix>.<key>" and subscribes to "<prefix>.>",
// so several server processes sharing one store see each other's writes.
type NATSBus struct {
	nc     *nats.Conn
	prefix string
}

func NewNATSBus(url, prefix string) (*NATSBus, error) {
	nc, err := nats.Connect(url,
		nats.Name("workflowpro"),
		nats.MaxReconnects(5),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return &NATSBus{nc: nc, prefix: strings.TrimSuffix(prefix, ".")}, nil
}

func (b *NATSBus) Subject(key string) string {
	return b.prefix + "." + key
}

func (b *NATSBus) Publish(ctx context.Context, change Change) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled before publish: %w", err)
	}
	payload, err := json.Marshal(change)
	if err != nil {
		return err
	}
	return b.nc.Publish(b.Subject(change.Key), payload)
}

func (b *NATSBus) Subscribe(ctx context.Context) (<-chan Change, error) {
	out := make(chan Change, subscriberBuffer)
	msgs := make(chan *nats.Msg, subscriberBuffer)
	sub, err := b.nc.ChanSubscribe(b.prefix+".>", msgs)
	if err != nil {
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	go func() {
		defer close(out)
		defer func() {
			if err := sub.Unsubscribe(); err != nil {
				slog.Warn("nats unsubscribe failed", "err", err)
			}
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-msgs:
				var change Change
				if err := json.Unmarshal(msg.Data, &change); err != nil {
					slog.Warn("nats change decode failed", "subject", msg.Subject, "err", err)
					continue
				}
				select {
				case out <- change:
				default:
					slog.Warn("event subscriber full, dropping change", "key", change.Key, "op", change.Op)
				}
			}
		}
	}()
	return out, nil
}

func (b *NATSBus) Close() error {
	if err := b.nc.Drain(); err != nil {
		b.nc.Close()
		return err
	}
	return nil
}
