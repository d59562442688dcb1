package hmac

const (
	// HeaderSignature is the name of the header that carries the base64-encoded HMAC
	// tag computed over the request body followed by the idempotency key
	HeaderSignature = "X-HMAC"

	// HeaderIdempotencyKey is the name of the header that carries the client-chosen
	// key the backend uses to deduplicate retried requests; it is also folded into the
	// signed message
	HeaderIdempotencyKey = "Idempotency-Key"
)

// TagSize is the length, in bytes, of a decoded HMAC-SHA256 tag
const TagSize = 32
