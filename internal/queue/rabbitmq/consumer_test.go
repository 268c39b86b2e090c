package rabbitmq

import (
	"context"
	"encoding/json"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/21haoxingxiu/core/internal/config"
	"github.com/21haoxingxiu/core/internal/event"
	"github.com/21haoxingxiu/core/internal/queue"
)

type dispatcherMock struct {
	mock.Mock
}

func (m *dispatcherMock) Dispatch(ctx context.Context, e event.Event) int {
	args := m.Called(ctx, e)
	return args.Int(0)
}

type publisherMock struct {
	mock.Mock
}

func (m *publisherMock) Publish(ctx context.Context, payload []byte, routingKey string) error {
	args := m.Called(ctx, payload, routingKey)
	return args.Error(0)
}

type ackMock struct {
	acked   int
	nacked  int
	requeue bool
}

func (a *ackMock) Ack(_ uint64, _ bool) error {
	a.acked++
	return nil
}

func (a *ackMock) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked++
	a.requeue = requeue
	return nil
}

func (a *ackMock) Reject(_ uint64, _ bool) error {
	return nil
}

func TestConsumerHandleMessage(t *testing.T) {
	t.Run("invalid json", func(t *testing.T) {
		bus := &dispatcherMock{}
		consumer := &Consumer{bus: bus, logger: zap.NewNop()}
		ack := &ackMock{}

		err := consumer.handleMessage(context.Background(), amqp.Delivery{
			Body:         []byte("{bad json"),
			Acknowledger: ack,
		})
		require.NoError(t, err)
		require.Equal(t, 1, ack.acked)
		bus.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
	})

	t.Run("missing kind", func(t *testing.T) {
		bus := &dispatcherMock{}
		consumer := &Consumer{bus: bus, logger: zap.NewNop()}
		ack := &ackMock{}

		err := consumer.handleMessage(context.Background(), amqp.Delivery{
			Body:         []byte(`{"scope":2}`),
			Acknowledger: ack,
		})
		require.NoError(t, err)
		require.Equal(t, 1, ack.acked)
		bus.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
	})

	t.Run("dispatches -> ack", func(t *testing.T) {
		e, err := event.New(event.KindPostCreated, event.ScopeVisitor|event.ScopeSystem, map[string]any{"id": 1})
		require.NoError(t, err)
		body, err := json.Marshal(e)
		require.NoError(t, err)

		bus := &dispatcherMock{}
		bus.On("Dispatch", mock.Anything, mock.MatchedBy(func(got event.Event) bool {
			return got.Kind == event.KindPostCreated && got.Scope == e.Scope && string(got.Payload) == string(e.Payload)
		})).Return(2).Once()
		consumer := &Consumer{bus: bus, logger: zap.NewNop()}
		ack := &ackMock{}

		err = consumer.handleMessage(context.Background(), amqp.Delivery{
			Body:         body,
			RoutingKey:   "event.post.created",
			Acknowledger: ack,
		})
		require.NoError(t, err)
		require.Equal(t, 1, ack.acked)
		require.Equal(t, 0, ack.nacked)
		bus.AssertExpectations(t)
	})
}

func TestNewConsumerOnlyOnLeader(t *testing.T) {
	bus := event.NewBus(zap.NewNop())

	_, ok := NewConsumer(&config.Config{}, bus, zap.NewNop()).(queue.NoopConsumer)
	require.True(t, ok)

	_, ok = NewConsumer(&config.Config{RabbitMQURL: "amqp://x", WorkerID: 2}, bus, zap.NewNop()).(queue.NoopConsumer)
	require.True(t, ok)

	_, ok = NewConsumer(&config.Config{RabbitMQURL: "amqp://x", WorkerID: 1}, bus, zap.NewNop()).(*Consumer)
	require.True(t, ok)
}

func TestForwarderRoutingKey(t *testing.T) {
	pub := &publisherMock{}
	pub.On("Publish", mock.Anything, mock.Anything, "event.subscriber.changed").Return(nil).Once()
	fwd := NewForwarder(&config.Config{}, pub)

	require.NoError(t, fwd.Forward(context.Background(), event.Event{Kind: event.KindSubscriberChanged, Scope: event.ScopeSystem}))
	pub.AssertExpectations(t)

	var got event.Event
	require.NoError(t, json.Unmarshal(pub.Calls[0].Arguments.Get(1).([]byte), &got))
	require.Equal(t, event.KindSubscriberChanged, got.Kind)
}

func TestNewPublisherWithoutBroker(t *testing.T) {
	_, ok := NewPublisher(&config.Config{}, zap.NewNop()).(queue.NoopPublisher)
	require.True(t, ok)
}

func TestHeadersCarryOriginWorker(t *testing.T) {
	headers := outgoingHeaders(context.Background(), 3)
	_, origin := incomingContext(context.Background(), headers)
	require.Equal(t, "3", origin)

	_, origin = incomingContext(context.Background(), amqp.Table{headerOriginWorker: int32(7)})
	require.Equal(t, "7", origin)

	_, origin = incomingContext(context.Background(), nil)
	require.Empty(t, origin)
}
