package hmac

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// Message returns the exact byte sequence that gets signed: the UTF-8 request body
// followed immediately by the UTF-8 idempotency key
func Message(body, idempotencyKey string) []byte {
	message := make([]byte, 0, len(body)+len(idempotencyKey))
	message = append(message, body...)
	return append(message, idempotencyKey...)
}

// ComputeTag returns the standard base64 encoding (with padding) of
// HMAC-SHA256(secret, body || idempotencyKey)
func ComputeTag(secret []byte, body, idempotencyKey string) string {
	return base64.StdEncoding.EncodeToString(sum(secret, Message(body, idempotencyKey)))
}

// DecodeTag parses an X-HMAC header value back into raw tag bytes, failing if the
// value is not padded standard base64 or does not decode to exactly TagSize bytes
func DecodeTag(tag string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(tag)
	if err != nil {
		return nil, fmt.Errorf("tag is not valid base64: %w", err)
	}
	if len(raw) != TagSize {
		return nil, fmt.Errorf("tag decodes to %d bytes; expected %d", len(raw), TagSize)
	}
	return raw, nil
}

// FormatHeader renders a tag as the header line printed for manual API testing
func FormatHeader(tag string) string {
	return fmt.Sprintf("%s: %s", HeaderSignature, tag)
}

func sum(secret, message []byte) []byte {
	// hash.Hash.Write never returns an error
	h := hmac.New(sha256.New, secret)
	h.Write(message)
	return h.Sum(nil)
}
