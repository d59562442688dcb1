package payment

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Parse(t *testing.T) {
	t.Run("preset bodies round-trip byte-for-byte", func(t *testing.T) {
		for _, name := range PresetNames() {
			preset := Presets[name]
			req, err := Parse([]byte(preset.Body))
			require.NoError(t, err)
			encoded, err := req.Marshal()
			require.NoError(t, err)
			assert.Equal(t, preset.Body, string(encoded), name)
		}
	})

	t.Run("amount literal is preserved", func(t *testing.T) {
		req, err := Parse([]byte(Presets["collect"].Body))
		require.NoError(t, err)
		assert.Equal(t, json.Number("3490.40"), req.Amount)
		assert.Equal(t, "oliver@upi", req.SenderUpi)
		assert.Equal(t, "lucas@upi", req.ReceiverUpi)
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		_, err := Parse([]byte(`{"senderUpi":"a@upi","receiverUpi":"b@upi","amount":1,"note":"hi"}`))
		assert.Error(t, err)
	})

	t.Run("malformed JSON is rejected", func(t *testing.T) {
		_, err := Parse([]byte(`{"senderUpi":`))
		assert.Error(t, err)
	})
}

func Test_Request_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{
			"valid request",
			Request{SenderUpi: "oliver@upi", ReceiverUpi: "lucas@upi", Amount: "3490.40"},
			nil,
		},
		{
			"minimum amount is accepted",
			Request{SenderUpi: "oliver@upi", ReceiverUpi: "lucas@upi", Amount: "0.01"},
			nil,
		},
		{
			"blank sender is rejected",
			Request{SenderUpi: " ", ReceiverUpi: "lucas@upi", Amount: "1"},
			ErrInvalidUpi,
		},
		{
			"receiver without '@' is rejected",
			Request{SenderUpi: "oliver@upi", ReceiverUpi: "lucas", Amount: "1"},
			ErrInvalidUpi,
		},
		{
			"sender and receiver differing only in case are rejected",
			Request{SenderUpi: "oliver@upi", ReceiverUpi: "OLIVER@upi", Amount: "10.00"},
			ErrSameParty,
		},
		{
			"amount below minimum is rejected",
			Request{SenderUpi: "oliver@upi", ReceiverUpi: "lucas@upi", Amount: "0.009"},
			ErrInvalidAmount,
		},
		{
			"negative amount is rejected",
			Request{SenderUpi: "oliver@upi", ReceiverUpi: "lucas@upi", Amount: "-5"},
			ErrInvalidAmount,
		},
		{
			"missing amount is rejected",
			Request{SenderUpi: "oliver@upi", ReceiverUpi: "lucas@upi"},
			ErrInvalidAmount,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func Test_LookupPreset(t *testing.T) {
	preset, err := LookupPreset(DefaultPreset)
	assert.NoError(t, err)
	assert.Equal(t, "op-collect-20240603-testA", preset.IdempotencyKey)
	assert.Equal(t, DevelopmentSecret, preset.Secret)

	_, err = LookupPreset("nope")
	assert.ErrorContains(t, err, "available: [collect test]")
}
