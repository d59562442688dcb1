package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/openpay/hmac-tools/payment"
	"github.com/spf13/cobra"
)

// signInputs holds the flags that select what gets signed: a preset supplies
// defaults, and any explicitly-set flag overrides the corresponding preset value
type signInputs struct {
	preset         string
	body           string
	bodyFile       string
	idempotencyKey string
	secret         string
}

func (in *signInputs) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&in.preset, "preset", "p", payment.DefaultPreset, fmt.Sprintf("Canned request to sign (%v)", payment.PresetNames()))
	flags.StringVarP(&in.body, "body", "b", "", "Request body, exactly as sent with curl -d")
	flags.StringVarP(&in.bodyFile, "body-file", "f", "", "Read the request body verbatim from a file ('-' for stdin)")
	flags.StringVarP(&in.idempotencyKey, "idempotency-key", "k", "", "Value of the Idempotency-Key header")
	flags.StringVar(&in.secret, "secret", "", "Shared HMAC secret (default $OPENPAY_HMAC_SECRET, then the preset's development secret)")
	cmd.MarkFlagsMutuallyExclusive("body", "body-file")
}

// resolved is the (secret, body, key) triple to be signed
type resolved struct {
	secret         []byte
	body           string
	idempotencyKey string
}

// errEmptySecret is returned when --secret is given explicitly but empty, so that a
// blank value (e.g. an unset shell variable) never signs with the development secret
var errEmptySecret = errors.New("--secret must not be empty")

func checkSecretFlag(cmd *cobra.Command) error {
	if f := cmd.Flags().Lookup("secret"); f != nil && f.Changed && f.Value.String() == "" {
		return errEmptySecret
	}
	return nil
}

func (in *signInputs) resolve(cmd *cobra.Command, configuredSecret string, logger *slog.Logger) (*resolved, error) {
	if err := checkSecretFlag(cmd); err != nil {
		return nil, err
	}
	preset, err := payment.LookupPreset(in.preset)
	if err != nil {
		return nil, err
	}

	r := &resolved{
		secret:         []byte(configuredSecret),
		body:           preset.Body,
		idempotencyKey: preset.IdempotencyKey,
	}
	if len(r.secret) == 0 {
		logger.Warn("No secret configured; using the local development secret", "preset", preset.Name)
		r.secret = []byte(preset.Secret)
	}

	if cmd.Flags().Changed("body") {
		r.body = in.body
	}
	if in.bodyFile != "" {
		data, err := readBodyFile(cmd.InOrStdin(), in.bodyFile)
		if err != nil {
			return nil, err
		}
		r.body = string(data)
	}
	if cmd.Flags().Changed("idempotency-key") {
		r.idempotencyKey = in.idempotencyKey
	}

	logger.Debug("Resolved signing inputs",
		"preset", preset.Name,
		"bodyBytes", len(r.body),
		"idempotencyKey", r.idempotencyKey,
	)
	return r, nil
}

// readBodyFile returns the file's bytes unmodified: a trailing newline is part of the
// body, and will be part of the signature
func readBodyFile(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read body from stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read body file: %w", err)
	}
	return data, nil
}
