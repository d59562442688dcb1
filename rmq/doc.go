// Package rmq connects the payment verification backend to RabbitMQ, so that requests
// which pass HMAC verification and idempotency checks can be handed off to the
// transaction workers via a work queue.
package rmq
