// Package hmac implements the request-signing scheme used by the OpenPay payment API:
// a client that wants to move money sends its JSON payload along with an
// Idempotency-Key header, and proves that it holds the shared secret by attaching an
// X-HMAC header. That header carries the base64-encoded HMAC-SHA256 of the raw request
// body immediately followed by the idempotency key, with no delimiter in between.
//
// ComputeTag produces the tag for a given (secret, body, key) triple; Signer attaches
// it to an outgoing http.Request, and Verifier recomputes it on the receiving end.
package hmac
