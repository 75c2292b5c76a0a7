package sync

import (
	"context"
	"encoding/json"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/novalux/backend/internal/changefeed"
	"github.com/novalux/backend/pkg/logger"
)

type receiver interface {
	Receive(ctx context.Context, f func(context.Context, *pubsub.Message)) error
}

// Listener turns Pub/Sub change notifications for one table into watcher
// signals. The event payload is a refetch hint only, so every message is
// acked and collapsed into a Signal call.
type Listener struct {
	table      string
	subscriber receiver
	signal     func()
	logg       *logger.Logger
}

// NewListener wires a subscription to a watcher's Signal func.
func NewListener(table string, subscriber receiver, signal func(), logg *logger.Logger) (*Listener, error) {
	if table == "" {
		return nil, fmt.Errorf("table name required")
	}
	if subscriber == nil {
		return nil, fmt.Errorf("subscriber required")
	}
	if signal == nil {
		return nil, fmt.Errorf("signal func required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Listener{
		table:      table,
		subscriber: subscriber,
		signal:     signal,
		logg:       logg,
	}, nil
}

// Run blocks consuming the subscription until ctx is cancelled.
func (l *Listener) Run(ctx context.Context) error {
	ctx = l.logg.WithTable(ctx, l.table)
	l.logg.Info(ctx, "change listener started")

	err := l.subscriber.Receive(ctx, func(msgCtx context.Context, msg *pubsub.Message) {
		l.handle(msgCtx, msg)
	})
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("receiving on %s subscription: %w", l.table, err)
	}
	return nil
}

func (l *Listener) handle(ctx context.Context, msg *pubsub.Message) {
	// Malformed payloads still mean "something changed", so the message is
	// always acked and the watcher always pinged.
	var event changefeed.Event
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		l.logg.Warn(l.logg.WithField(ctx, "message_id", msg.ID), "undecodable change event")
	} else if event.Table != l.table {
		l.logg.Warn(l.logg.WithField(ctx, "event_table", event.Table), "change event for unexpected table")
	}

	msg.Ack()
	l.signal()
}
