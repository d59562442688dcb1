package main

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/kballard/go-shellquote"
	"github.com/openpay/hmac-tools/entry"
	"github.com/openpay/hmac-tools/hmac"
	"github.com/openpay/hmac-tools/payment"
	"github.com/spf13/cobra"
)

// globalOptions are the persistent flags shared by every subcommand
type globalOptions struct {
	configFile string
	verbose    bool
}

func (o *globalOptions) newApplication(cmd *cobra.Command) entry.Application {
	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	return entry.NewApplication("gen-hmac", cmd.ErrOrStderr(), level)
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	inputs := &signInputs{}
	var curlURL string
	var validate bool

	cmd := &cobra.Command{
		Use:   "gen-hmac",
		Short: "Compute the X-HMAC header for an OpenPay API request",
		Long: `Compute the X-HMAC header for an OpenPay API request.

The tag is HMAC-SHA256(secret, body + idempotencyKey), base64-encoded. With no flags,
the built-in 'collect' request is signed.`,
		Example: `  gen-hmac
  gen-hmac --preset test
  gen-hmac -k op-pay-20240604-1 -b '{"senderUpi":"a@upi","receiverUpi":"b@upi","amount":10.00}'
  gen-hmac --preset test --curl http://localhost:8080/pay`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
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

			if validate {
				req, err := payment.Parse([]byte(r.body))
				if err != nil {
					return err
				}
				if err := req.Validate(); err != nil {
					return err
				}
			}

			tag := hmac.ComputeTag(r.secret, r.body, r.idempotencyKey)
			fmt.Fprintln(cmd.OutOrStdout(), hmac.FormatHeader(tag))
			if curlURL != "" {
				fmt.Fprintln(cmd.OutOrStdout(), formatCurl(curlURL, r.body, r.idempotencyKey, tag))
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "Path to a YAML config file")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	inputs.register(cmd)
	cmd.Flags().StringVar(&curlURL, "curl", "", "Also print a curl command that sends the signed request to this URL")
	cmd.Flags().BoolVar(&validate, "validate", false, "Reject bodies that are not valid payment requests")

	cmd.AddCommand(newVerifyCmd(opts))
	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// formatCurl renders a shell-safe curl invocation that sends exactly the signed body
func formatCurl(url, body, idempotencyKey, tag string) string {
	return shellquote.Join(
		"curl", "-X", http.MethodPost, url,
		"-H", "Content-Type: application/json",
		"-H", fmt.Sprintf("%s: %s", hmac.HeaderIdempotencyKey, idempotencyKey),
		"-H", hmac.FormatHeader(tag),
		"--data-raw", body,
	)
}
