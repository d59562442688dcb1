// Package payment describes the JSON payloads accepted by the OpenPay /pay and
// /collect endpoints, along with the canned requests used when manually testing those
// endpoints with a signed X-HMAC header.
package payment
