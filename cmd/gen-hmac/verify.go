package main

import (
	"errors"
	"fmt"

	"github.com/openpay/hmac-tools/hmac"
	"github.com/spf13/cobra"
)

var errTagMismatch = errors.New("tag does not match")

func newVerifyCmd(opts *globalOptions) *cobra.Command {
	inputs := &signInputs{}
	var tag string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check an X-HMAC value against a body and idempotency key",
		Long: `Recompute the tag for the given body and idempotency key, and compare it against
the value passed via --tag. Exits nonzero on mismatch.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := opts.newApplication(cmd)
			defer app.Stop()

			cfg, err := loadConfig(opts.configFile, cmd.Flags(), map[string]string{"hmac.secret": "secret"})
			if err != nil {
				return err
			}
			r, err := inputs.resolve(cmd, cfg.HMAC.Secret, app.Log())
			if err != nil {
				return err
			}

			err = hmac.NewVerifier(string(r.secret)).VerifyTag([]byte(r.body), r.idempotencyKey, tag)
			if errors.Is(err, hmac.ErrVerificationFailed) {
				expected := hmac.ComputeTag(r.secret, r.body, r.idempotencyKey)
				fmt.Fprintf(cmd.OutOrStdout(), "MISMATCH (expected %s)\n", hmac.FormatHeader(expected))
				return errTagMismatch
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return nil
		},
	}

	inputs.register(cmd)
	cmd.Flags().StringVarP(&tag, "tag", "t", "", "X-HMAC value to check (without the header name)")
	cmd.MarkFlagRequired("tag")
	return cmd
}
