package hmac

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

type Signer interface {
	Sign(req *http.Request, body []byte) (*http.Request, error)
}

func NewSigner(secret string) Signer {
	return &signer{
		secret: []byte(secret),
	}
}

type signer struct {
	secret []byte
}

func (s *signer) Sign(req *http.Request, body []byte) (*http.Request, error) {
	if req == nil {
		return nil, fmt.Errorf("cannot sign nil request")
	}

	idempotencyKey := req.Header.Get(HeaderIdempotencyKey)
	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
		req.Header.Set(HeaderIdempotencyKey, idempotencyKey)
	}

	req.Header.Set(HeaderSignature, ComputeTag(s.secret, string(body), idempotencyKey))
	return req, nil
}

var _ Signer = (*signer)(nil)
