package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Schema creates the table that backs IdempotencyStore. Each row ties a key to the
// transaction it produced, along with that transaction's current status.
const Schema = `CREATE TABLE IF NOT EXISTS idempotency_keys (
    key            text PRIMARY KEY,
    transaction_id bigint NOT NULL UNIQUE,
    status         text NOT NULL,
    created_at     timestamptz NOT NULL DEFAULT now()
)`

var (
	// ErrDuplicateKey is returned when an idempotency key has already been recorded
	ErrDuplicateKey = errors.New("idempotency key already used")

	// ErrTransactionNotFound is returned when no key has been recorded for a
	// transaction ID
	ErrTransactionNotFound = errors.New("transaction not found")
)

// uniqueViolation is the postgres error code for a unique constraint violation
const uniqueViolation = pq.ErrorCode("23505")

// Querier is satisfied by both *sql.DB and *sql.Tx
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// EnsureSchema creates the idempotency_keys table if it doesn't already exist
func EnsureSchema(ctx context.Context, q Querier) error {
	if _, err := q.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create idempotency_keys table: %w", err)
	}
	return nil
}

// IdempotencyStore records each idempotency key along with the transaction it
// produced, so that retried requests can be detected
type IdempotencyStore struct {
	q Querier
}

func NewIdempotencyStore(q Querier) *IdempotencyStore {
	return &IdempotencyStore{q: q}
}

// IsDuplicate returns true if the given key has already been recorded
func (s *IdempotencyStore) IsDuplicate(ctx context.Context, key string) (bool, error) {
	var exists bool
	row := s.q.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM idempotency_keys WHERE key = $1)", key)
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check idempotency key: %w", err)
	}
	return exists, nil
}

// SaveKey records a key against the transaction it produced. If the key has already
// been recorded (e.g. by a concurrent request that won the race), returns
// ErrDuplicateKey.
func (s *IdempotencyStore) SaveKey(ctx context.Context, key string, transactionID int64, status string) error {
	_, err := s.q.ExecContext(ctx, "INSERT INTO idempotency_keys (key, transaction_id, status) VALUES ($1, $2, $3)", key, transactionID, status)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicateKey
		}
		return fmt.Errorf("failed to save idempotency key: %w", err)
	}
	return nil
}

// DeleteKey releases a key whose transaction was never handed off, so that the
// client can retry with it
func (s *IdempotencyStore) DeleteKey(ctx context.Context, key string) error {
	if _, err := s.q.ExecContext(ctx, "DELETE FROM idempotency_keys WHERE key = $1", key); err != nil {
		return fmt.Errorf("failed to delete idempotency key: %w", err)
	}
	return nil
}

// TransactionStatus returns the status recorded for a transaction, or
// ErrTransactionNotFound
func (s *IdempotencyStore) TransactionStatus(ctx context.Context, transactionID int64) (string, error) {
	var status string
	row := s.q.QueryRowContext(ctx, "SELECT status FROM idempotency_keys WHERE transaction_id = $1", transactionID)
	if err := row.Scan(&status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrTransactionNotFound
		}
		return "", fmt.Errorf("failed to look up transaction status: %w", err)
	}
	return status, nil
}

// LastTransactionID returns the highest transaction ID recorded so far, or 0 if none
func (s *IdempotencyStore) LastTransactionID(ctx context.Context) (int64, error) {
	var id int64
	row := s.q.QueryRowContext(ctx, "SELECT COALESCE(MAX(transaction_id), 0) FROM idempotency_keys")
	if err := row.Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to get last transaction ID: %w", err)
	}
	return id, nil
}
