package messaging

import (
	"context"
	"errors"
)

// ErrClosed is returned by brokers after Close.
var ErrClosed = errors.New("broker closed")

// Broker defines the interface for message brokers
type Broker interface {
	// Publish sends raw bytes to every subscriber of channel.
	Publish(ctx context.Context, channel string, payload []byte) error
	// Subscribe delivers messages until ctx is done or the subscription
	// breaks, then closes the returned channel.
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

// Message is the envelope published on change channels.
type Message struct {
	Type    string `json:"type"`
	Source  string `json:"source,omitempty"`
	Payload []byte `json:"payload,omitempty"`
}
