package db_test

import (
	"context"
	"testing"

	"github.com/openpay/hmac-tools/db"
	"github.com/openpay/hmac-tools/querytest"
	"github.com/stretchr/testify/assert"
)

func Test_IdempotencyStore_Queries(t *testing.T) {
	tx := querytest.PrepareTx(t)
	store := db.NewIdempotencyStore(tx)
	ctx := context.Background()

	dup, err := store.IsDuplicate(ctx, "op-collect-20240603-testA")
	assert.NoError(t, err)
	assert.False(t, dup)

	err = store.SaveKey(ctx, "op-collect-20240603-testA", 1001, "REQUESTED")
	assert.NoError(t, err)
	querytest.AssertCount(t, tx, 1, "SELECT COUNT(*) FROM idempotency_keys WHERE transaction_id = $1", 1001)

	dup, err = store.IsDuplicate(ctx, "op-collect-20240603-testA")
	assert.NoError(t, err)
	assert.True(t, dup)

	res, err := tx.Exec("UPDATE idempotency_keys SET transaction_id = 1002 WHERE key = $1", "op-collect-20240603-testA")
	assert.NoError(t, err)
	querytest.AssertNumRowsChanged(t, res, 1)

	status, err := store.TransactionStatus(ctx, 1002)
	assert.NoError(t, err)
	assert.Equal(t, "REQUESTED", status)

	lastID, err := store.LastTransactionID(ctx)
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, lastID, int64(1002))

	assert.NoError(t, store.DeleteKey(ctx, "op-collect-20240603-testA"))
	dup, err = store.IsDuplicate(ctx, "op-collect-20240603-testA")
	assert.NoError(t, err)
	assert.False(t, dup)
}
