/*
The gen-hmac command computes the X-HMAC header expected by the OpenPay payment API,
for use when testing the API by hand.

Usage:

	gen-hmac [flags]
	gen-hmac [command]

With no arguments, gen-hmac signs the built-in 'collect' request and prints a single
line of the form:

	X-HMAC: <base64-tag>

The tag is the standard base64 encoding of HMAC-SHA256(secret, body + idempotencyKey).
The body must be byte-for-byte identical to what is sent with curl -d, including any
whitespace.

Commands:

	verify  | Checks an existing X-HMAC value against a body and idempotency key
	serve   | Runs a local backend that enforces the X-HMAC contract on /pay and /collect
	version | Shows build information

The shared secret is read from --secret, then OPENPAY_HMAC_SECRET, then hmac.secret in
the file given by --config. If none is set, the local development secret is used.
*/
package main

import (
	"fmt"
	"os"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
