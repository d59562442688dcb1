package payment

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

var (
	ErrInvalidUpi    = errors.New("invalid UPI handle")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrSameParty     = errors.New("sender and receiver UPI must be different")
)

// MinimumAmount is the smallest amount, in rupees, that can be transferred
var MinimumAmount = big.NewRat(1, 100)

// Request is the body of a payment or collect request. Amount is kept as a
// json.Number so that a decoded request re-encodes with the same literal text (e.g.
// "3490.40" rather than "3490.4"), since the signed message is byte-exact.
type Request struct {
	SenderUpi   string      `json:"senderUpi"`
	ReceiverUpi string      `json:"receiverUpi"`
	Amount      json.Number `json:"amount"`
}

// Parse decodes a request body, rejecting unknown fields
func Parse(body []byte) (*Request, error) {
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	decoder.DisallowUnknownFields()

	var req Request
	if err := decoder.Decode(&req); err != nil {
		return nil, fmt.Errorf("failed to decode payment request: %w", err)
	}
	return &req, nil
}

// Validate checks that both parties carry a plausible UPI handle, that they are not
// the same handle (compared case-insensitively), and that the amount is at least
// MinimumAmount
func (r *Request) Validate() error {
	if err := ValidateUpi(r.SenderUpi); err != nil {
		return fmt.Errorf("senderUpi: %w", err)
	}
	if err := ValidateUpi(r.ReceiverUpi); err != nil {
		return fmt.Errorf("receiverUpi: %w", err)
	}
	if strings.EqualFold(r.SenderUpi, r.ReceiverUpi) {
		return ErrSameParty
	}

	amount, ok := new(big.Rat).SetString(r.Amount.String())
	if !ok {
		return fmt.Errorf("%w: '%s' is not a number", ErrInvalidAmount, r.Amount)
	}
	if amount.Cmp(MinimumAmount) < 0 {
		return fmt.Errorf("%w: must be at least 0.01", ErrInvalidAmount)
	}
	return nil
}

// ValidateUpi performs the same basic check as the payment backend: a handle is
// non-blank and contains an '@'
func ValidateUpi(upi string) error {
	if strings.TrimSpace(upi) == "" {
		return fmt.Errorf("%w: UPI is required", ErrInvalidUpi)
	}
	if !strings.Contains(upi, "@") {
		return fmt.Errorf("%w: '%s' has no '@'", ErrInvalidUpi, upi)
	}
	return nil
}

// Marshal encodes the request with fields in their canonical order and no
// insignificant whitespace, which is how the backend serializes it
func (r *Request) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(r); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
