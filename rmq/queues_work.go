package rmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// declareWorkQueue declares a durable queue that distributes each message to exactly
// one of the transaction workers consuming from it
func declareWorkQueue(ch *amqp.Channel, name string) (*amqp.Queue, error) {
	durable := true
	autoDelete := false
	exclusive := false
	noWait := false
	q, err := ch.QueueDeclare(name, durable, autoDelete, exclusive, noWait, nil)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// workProducer is an rmq.Producer implementation that publishes messages to a work
// queue
type workProducer struct {
	conn *amqp.Connection
	q    *amqp.Queue
}

func (p *workProducer) Send(ctx context.Context, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to serialize message for queue '%s': %w", p.q.Name, err)
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	// Publish via the default exchange, routed by queue name
	mandatory := false
	immediate := false
	return ch.PublishWithContext(ctx, "", p.q.Name, mandatory, immediate, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         jsonData,
	})
}

func (d *QueueDeclaration) newWorkProducer(conn *amqp.Connection, ch *amqp.Channel) (Producer, error) {
	q, err := declareWorkQueue(ch, d.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to declare work queue '%s': %w", d.Name, err)
	}
	return &workProducer{
		conn: conn,
		q:    q,
	}, nil
}
