package main

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	pubsublib "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"github.com/novalux/backend/internal/changefeed"
	"github.com/novalux/backend/pkg/config"
	"github.com/novalux/backend/pkg/db/models"
	"github.com/novalux/backend/pkg/enums"
	"github.com/novalux/backend/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResult struct {
	id  string
	err error
}

func (r stubResult) Get(context.Context) (string, error) {
	return r.id, r.err
}

type stubPublisher struct {
	calls    int
	failures int
	payloads [][]byte
}

func (p *stubPublisher) Publish(_ context.Context, msg *pubsublib.Message) publishResult {
	p.calls++
	p.payloads = append(p.payloads, msg.Data)
	if p.calls <= p.failures {
		return stubResult{err: errors.New("transient publish failure")}
	}
	return stubResult{id: "msg-1"}
}

func testWorkerLogger() *logger.Logger {
	return logger.New(logger.Options{
		ServiceName: "worker-test",
		Level:       zerolog.ErrorLevel,
		Output:      io.Discard,
	})
}

func testEvent(table string) models.ChangeEvent {
	recordID := uuid.New()
	return models.ChangeEvent{
		ID:        uuid.New(),
		TableName: table,
		Op:        enums.ChangeOpInsert,
		RecordID:  &recordID,
		CreatedAt: time.Now().UTC(),
	}
}

func testService(publishers map[string]publisher, attempts int) *Service {
	return &Service{
		cfg: config.ChangefeedConfig{
			BatchSize:       10,
			PollIntervalMS:  100,
			PublishAttempts: attempts,
		},
		logg:       testWorkerLogger(),
		publishers: publishers,
		now:        time.Now,
	}
}

func TestPublishEventRoutesByTable(t *testing.T) {
	products := &stubPublisher{}
	orders := &stubPublisher{}
	svc := testService(map[string]publisher{
		changefeed.TableProducts: products,
		changefeed.TableOrders:   orders,
	}, 3)

	event := testEvent(changefeed.TableOrders)
	require.NoError(t, svc.publishEvent(context.Background(), event))

	assert.Equal(t, 0, products.calls)
	require.Equal(t, 1, orders.calls)
	assert.Contains(t, string(orders.payloads[0]), event.ID.String())
	assert.Contains(t, string(orders.payloads[0]), `"table":"orders"`)
}

func TestPublishEventRetriesTransientFailures(t *testing.T) {
	pub := &stubPublisher{failures: 2}
	svc := testService(map[string]publisher{changefeed.TableProducts: pub}, 5)

	err := svc.publishEvent(context.Background(), testEvent(changefeed.TableProducts))

	require.NoError(t, err)
	assert.Equal(t, 3, pub.calls)
}

func TestPublishEventExhaustsAttemptBudget(t *testing.T) {
	pub := &stubPublisher{failures: 10}
	svc := testService(map[string]publisher{changefeed.TableProducts: pub}, 3)

	err := svc.publishEvent(context.Background(), testEvent(changefeed.TableProducts))

	require.Error(t, err)
	assert.Equal(t, 3, pub.calls)
}

func TestPublishEventUnknownTable(t *testing.T) {
	svc := testService(map[string]publisher{changefeed.TableProducts: &stubPublisher{}}, 3)

	err := svc.publishEvent(context.Background(), testEvent("customers"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no publisher")
}

func TestAttemptsBudget(t *testing.T) {
	assert.Equal(t, 0, testService(nil, 0).attemptsBudget())
	assert.Equal(t, 0, testService(nil, 1).attemptsBudget())
	assert.Equal(t, 4, testService(nil, 5).attemptsBudget())
}

func TestNewServiceValidation(t *testing.T) {
	_, err := NewService(ServiceParams{})
	require.Error(t, err)
}
