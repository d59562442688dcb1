package rmq

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// NewProducer declares the queue described by d and returns a Producer that sends to
// it
func (d *QueueDeclaration) NewProducer(conn *amqp.Connection) (Producer, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	switch d.Type {
	case QueueTypeWork:
		return d.newWorkProducer(conn, ch)
	}
	return nil, fmt.Errorf("queue '%s' has unrecognized type %s", d.Name, d.Type)
}
