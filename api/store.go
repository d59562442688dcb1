package api

import (
	"context"
	"sync"

	"github.com/openpay/hmac-tools/db"
	"github.com/openpay/hmac-tools/entry"
	"github.com/openpay/hmac-tools/rmq"
)

// KeyStore records idempotency keys and the status of the transaction each one
// produced; db.IdempotencyStore is the postgres-backed implementation
type KeyStore interface {
	IsDuplicate(ctx context.Context, key string) (bool, error)
	SaveKey(ctx context.Context, key string, transactionID int64, status string) error
	DeleteKey(ctx context.Context, key string) error
	TransactionStatus(ctx context.Context, transactionID int64) (string, error)
	LastTransactionID(ctx context.Context) (int64, error)
}

// Publisher hands accepted transactions off to the workers;
// rmq.TransactionPublisher is the RabbitMQ-backed implementation
type Publisher interface {
	Publish(ctx context.Context, ev rmq.TransactionEvent) error
}

type memoryTransaction struct {
	id     int64
	status string
}

// MemoryKeyStore is a KeyStore for running without a database
type MemoryKeyStore struct {
	mu   sync.Mutex
	keys map[string]memoryTransaction
}

func NewMemoryKeyStore() *MemoryKeyStore {
	return &MemoryKeyStore{keys: make(map[string]memoryTransaction)}
}

func (s *MemoryKeyStore) IsDuplicate(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.keys[key]
	return ok, nil
}

func (s *MemoryKeyStore) SaveKey(ctx context.Context, key string, transactionID int64, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.keys[key]; ok {
		return db.ErrDuplicateKey
	}
	s.keys[key] = memoryTransaction{id: transactionID, status: status}
	return nil
}

func (s *MemoryKeyStore) DeleteKey(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, key)
	return nil
}

func (s *MemoryKeyStore) TransactionStatus(ctx context.Context, transactionID int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tx := range s.keys {
		if tx.id == transactionID {
			return tx.status, nil
		}
	}
	return "", db.ErrTransactionNotFound
}

func (s *MemoryKeyStore) LastTransactionID(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var last int64
	for _, tx := range s.keys {
		if tx.id > last {
			last = tx.id
		}
	}
	return last, nil
}

// LogPublisher is a Publisher for running without a message broker: it only logs
type LogPublisher struct{}

func (LogPublisher) Publish(ctx context.Context, ev rmq.TransactionEvent) error {
	entry.Logger(ctx).Info("Transaction accepted",
		"transactionId", ev.TransactionID,
		"type", ev.Type,
		"idempotencyKey", ev.IdempotencyKey,
		"senderUpi", ev.Request.SenderUpi,
		"receiverUpi", ev.Request.ReceiverUpi,
		"amount", ev.Request.Amount.String(),
	)
	return nil
}

var (
	_ KeyStore  = (*MemoryKeyStore)(nil)
	_ KeyStore  = (*db.IdempotencyStore)(nil)
	_ Publisher = LogPublisher{}
	_ Publisher = (*rmq.TransactionPublisher)(nil)
)
