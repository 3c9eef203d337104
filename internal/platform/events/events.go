// Package events carries record store change notifications to subscribers
// such as the server-sent events stream.
package events

import (
	"context"
	"time"
)

const (
	OpSave   = "save"
	OpRemove = "remove"
)

type Change struct {
	Key string    `json:"key"`
	Op  string    `json:"op"`
	At  time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, change Change) error
}

// Bus is a Publisher whose subscribers receive every published change until
// their context ends.
type Bus interface {
	Publisher
	Subscribe(ctx context.Context) (<-chan Change, error)
	Close() error
}
