package hmac

import (
	"crypto/hmac"
	"errors"
	"net/http"
)

var (
	ErrVerificationFailed    = errors.New("verification failed")
	ErrMissingSignature      = errors.New("missing " + HeaderSignature + " header")
	ErrMissingIdempotencyKey = errors.New("missing " + HeaderIdempotencyKey + " header")
)

type Verifier interface {
	Verify(req *http.Request, body []byte) error
	VerifyTag(body []byte, idempotencyKey, tag string) error
}

func NewVerifier(secret string) Verifier {
	return &verifier{
		secret: []byte(secret),
	}
}

type verifier struct {
	secret []byte
}

func (v *verifier) Verify(req *http.Request, body []byte) error {
	idempotencyKey := req.Header.Get(HeaderIdempotencyKey)
	if idempotencyKey == "" {
		return ErrMissingIdempotencyKey
	}

	tag := req.Header.Get(HeaderSignature)
	if tag == "" {
		return ErrMissingSignature
	}
	return v.VerifyTag(body, idempotencyKey, tag)
}

func (v *verifier) VerifyTag(body []byte, idempotencyKey, tag string) error {
	provided, err := DecodeTag(tag)
	if err != nil {
		return ErrVerificationFailed
	}

	if !hmac.Equal(provided, sum(v.secret, Message(string(body), idempotencyKey))) {
		return ErrVerificationFailed
	}
	return nil
}

var _ Verifier = (*verifier)(nil)
