// Package db provides postgres connectivity for the payment verification backend,
// along with the store that records which idempotency keys have already been used.
package db
