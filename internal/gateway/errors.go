package gateway

import "errors"

// Failure categories surfaced to callers so each can map to a distinct
// user-facing message. Wrapped errors carry status and body detail;
// match with errors.Is.
var (
	// ErrRateLimited is returned when the provider keeps answering 429
	// after retries are exhausted.
	ErrRateLimited = errors.New("gateway: rate limited")

	// ErrQuotaExhausted is returned on 402: the account is out of credits.
	ErrQuotaExhausted = errors.New("gateway: usage quota exhausted")

	// ErrUnavailable covers transport failures and any other non-2xx status.
	ErrUnavailable = errors.New("gateway: service unavailable")

	// ErrMalformedResponse is returned when a 2xx response is missing the
	// expected payload shape.
	ErrMalformedResponse = errors.New("gateway: malformed response")
)
