package rabbitmq

import (
	"context"
	"fmt"
	"strconv"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"
)

// headerOriginWorker names the worker that forwarded a message.
const headerOriginWorker = "x-origin-worker"

// headerCarrier lets the otel propagator read and write AMQP headers.
type headerCarrier amqp.Table

func (c headerCarrier) Get(key string) string {
	switch v := c[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func (c headerCarrier) Set(key, value string) {
	c[key] = value
}

func (c headerCarrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	return keys
}

func outgoingHeaders(ctx context.Context, workerID int) amqp.Table {
	headers := amqp.Table{headerOriginWorker: strconv.Itoa(workerID)}
	otel.GetTextMapPropagator().Inject(ctx, headerCarrier(headers))
	return headers
}

// incomingContext restores the sender's trace and reports its worker id.
func incomingContext(ctx context.Context, headers amqp.Table) (context.Context, string) {
	carrier := headerCarrier(headers)
	return otel.GetTextMapPropagator().Extract(ctx, carrier), carrier.Get(headerOriginWorker)
}
