package hmac

import (
	"bytes"
	"io"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func Test_Sign(t *testing.T) {
	s := NewSigner(testSecret)

	t.Run("headers are populated as expected", func(t *testing.T) {
		// Verify that we can successfully sign a request that has no idempotency key
		body := []byte("hello world")
		req, err := http.NewRequest(http.MethodPost, "/pay", bytes.NewReader(body))
		assert.NoError(t, err)
		req, err = s.Sign(req, body)
		assert.NoError(t, err)

		// A fresh idempotency key should have been generated
		_, err = uuid.Parse(req.Header.Get(HeaderIdempotencyKey))
		assert.NoError(t, err)

		// The signature should be a decodable tag
		_, err = DecodeTag(req.Header.Get(HeaderSignature))
		assert.NoError(t, err)

		// Verify that the new request's body is still opened for read
		bodyCopy, err := io.ReadAll(req.Body)
		assert.NoError(t, err)
		assert.Equal(t, body, bodyCopy)
	})

	t.Run("signature is computed as expected", func(t *testing.T) {
		body := []byte(collectBody)
		req, err := http.NewRequest(http.MethodPost, "/collect", bytes.NewReader(body))
		assert.NoError(t, err)
		req.Header.Set(HeaderIdempotencyKey, collectKey)
		req, err = s.Sign(req, body)
		assert.NoError(t, err)
		assert.Equal(t, collectKey, req.Header.Get(HeaderIdempotencyKey))
		assert.Equal(t, "7myVnbWO9fYggV7ahYpcs9bjTwtzByqnNQGHBzyDX7M=", req.Header.Get(HeaderSignature))
	})

	t.Run("nil request is rejected", func(t *testing.T) {
		_, err := s.Sign(nil, nil)
		assert.Error(t, err)
	})
}
