package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myway/panel-api/pkg/messaging"
)

func TestBroker_PublishReachesAllSubscribers(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first, err := b.Subscribe(ctx, "changes")
	require.NoError(t, err)
	second, err := b.Subscribe(ctx, "changes")
	require.NoError(t, err)
	other, err := b.Subscribe(ctx, "other")
	require.NoError(t, err)

	require.NoError(t, b.Publish(ctx, "changes", []byte("ping")))

	for _, ch := range []<-chan []byte{first, second} {
		select {
		case msg := <-ch:
			assert.Equal(t, "ping", string(msg))
		case <-time.After(time.Second):
			t.Fatal("message not delivered")
		}
	}

	select {
	case msg := <-other:
		t.Fatalf("unexpected message on other channel: %s", msg)
	default:
	}
}

func TestBroker_CancelClosesSubscription(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := b.Subscribe(ctx, "changes")
	require.NoError(t, err)

	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel was not closed")
	}
}

func TestBroker_Closed(t *testing.T) {
	b := NewBroker()
	require.NoError(t, b.Close())

	_, err := b.Subscribe(context.Background(), "changes")
	assert.ErrorIs(t, err, messaging.ErrClosed)
	assert.ErrorIs(t, b.Publish(context.Background(), "changes", nil), messaging.ErrClosed)
}
