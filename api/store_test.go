package api

import (
	"context"
	"testing"

	"github.com/openpay/hmac-tools/db"
	"github.com/stretchr/testify/assert"
)

func Test_MemoryKeyStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryKeyStore()

	t.Run("keys are recorded once", func(t *testing.T) {
		dup, err := s.IsDuplicate(ctx, "op-test-20240603-xyz")
		assert.NoError(t, err)
		assert.False(t, dup)

		assert.NoError(t, s.SaveKey(ctx, "op-test-20240603-xyz", 1, "QUEUED"))
		dup, err = s.IsDuplicate(ctx, "op-test-20240603-xyz")
		assert.NoError(t, err)
		assert.True(t, dup)

		assert.ErrorIs(t, s.SaveKey(ctx, "op-test-20240603-xyz", 2, "QUEUED"), db.ErrDuplicateKey)
	})

	t.Run("status is looked up by transaction ID", func(t *testing.T) {
		status, err := s.TransactionStatus(ctx, 1)
		assert.NoError(t, err)
		assert.Equal(t, "QUEUED", status)

		_, err = s.TransactionStatus(ctx, 2)
		assert.ErrorIs(t, err, db.ErrTransactionNotFound)
	})

	t.Run("last transaction ID tracks the highest recorded ID", func(t *testing.T) {
		assert.NoError(t, s.SaveKey(ctx, "op-collect-20240603-testA", 7, "REQUESTED"))
		last, err := s.LastTransactionID(ctx)
		assert.NoError(t, err)
		assert.Equal(t, int64(7), last)
	})

	t.Run("deleted key can be reused", func(t *testing.T) {
		assert.NoError(t, s.DeleteKey(ctx, "op-test-20240603-xyz"))
		assert.NoError(t, s.SaveKey(ctx, "op-test-20240603-xyz", 8, "QUEUED"))
	})
}
