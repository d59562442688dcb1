// Package api implements a local stand-in for the OpenPay payment backend's
// money-movement endpoints. It enforces the same X-HMAC contract as the real service,
// so that headers produced by gen-hmac can be checked end to end: the tag must equal
// the HMAC-SHA256 of the raw request body followed by the Idempotency-Key header.
package api
