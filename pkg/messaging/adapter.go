package messaging

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/myway/panel-api/pkg/logger"
)

var errSubscriptionEnded = errors.New("subscription ended")

// Consume subscribes to channel and feeds each message to handler. When the
// subscription drops it resubscribes with exponential backoff until ctx is done.
func Consume(ctx context.Context, broker Broker, channel string, log *logger.Logger, handler func([]byte)) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 200 * time.Millisecond
	policy.MaxInterval = 10 * time.Second
	policy.MaxElapsedTime = 0

	op := func() error {
		msgs, err := broker.Subscribe(ctx, channel)
		if err != nil {
			if errors.Is(err, ErrClosed) {
				return backoff.Permanent(err)
			}
			return err
		}
		received := false
		for msg := range msgs {
			if !received {
				received = true
				policy.Reset()
			}
			handler(msg)
		}
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return errSubscriptionEnded
	}

	notify := func(err error, wait time.Duration) {
		log.Warn("broker subscription lost, resubscribing",
			"channel", channel, "error", err.Error(), "wait", wait.String())
	}

	if err := backoff.RetryNotify(op, backoff.WithContext(policy, ctx), notify); err != nil && ctx.Err() == nil {
		log.Error(err, "broker consumer stopped", "channel", channel)
	}
}
