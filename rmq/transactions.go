package rmq

import (
	"context"
	"time"

	"github.com/openpay/hmac-tools/payment"
)

// TransactionsQueue is the work queue from which transaction workers pick up accepted
// payment and collect requests
var TransactionsQueue = QueueDeclaration{
	Name: "openpay.transactions",
	Type: QueueTypeWork,
}

// TransactionType distinguishes push payments from collect (pull) requests
type TransactionType string

const (
	TransactionTypePay     TransactionType = "PAY"
	TransactionTypeCollect TransactionType = "COLLECT"
)

// TransactionEvent is the message published for each request that passes
// verification
type TransactionEvent struct {
	TransactionID  int64           `json:"transactionId"`
	Type           TransactionType `json:"type"`
	IdempotencyKey string          `json:"idempotencyKey"`
	Request        payment.Request `json:"request"`
	AcceptedAt     time.Time       `json:"acceptedAt"`
}

// TransactionPublisher sends TransactionEvents to the transactions queue
type TransactionPublisher struct {
	producer Producer
}

func NewTransactionPublisher(producer Producer) *TransactionPublisher {
	return &TransactionPublisher{producer: producer}
}

func (p *TransactionPublisher) Publish(ctx context.Context, ev TransactionEvent) error {
	return p.producer.Send(ctx, ev)
}
