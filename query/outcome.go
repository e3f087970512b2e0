package query

import (
	"context"
	"errors"
	"fmt"
)

// OutcomeKind classifies the result of one downstream call attempt.
type OutcomeKind int

const (
	// OutcomeSuccess carries the parsed agent output.
	OutcomeSuccess OutcomeKind = iota
	// OutcomeTimeout means the client deadline expired before a response.
	OutcomeTimeout
	// OutcomeNetworkError covers transport level failures (connection
	// reset, premature close, DNS).
	OutcomeNetworkError
	// OutcomeUpstreamError means the service answered with a non-2xx status.
	OutcomeUpstreamError
	// OutcomeParseFallback means a 2xx body did not match the expected
	// shape; the raw body is preserved verbatim.
	OutcomeParseFallback
)

// String returns the string representation of the outcome kind.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeTimeout:
		return "timeout"
	case OutcomeNetworkError:
		return "networkError"
	case OutcomeUpstreamError:
		return "upstreamError"
	case OutcomeParseFallback:
		return "parseFallback"
	default:
		return "unknown"
	}
}

// Outcome is the result of a downstream call attempt. It is produced once
// per eligible turn, consumed immediately by the reply path and never
// persisted. Exactly the fields relevant to the Kind are populated:
//
//	OutcomeSuccess       Text
//	OutcomeNetworkError  Message
//	OutcomeUpstreamError StatusCode
//	OutcomeParseFallback RawBody
type Outcome struct {
	Kind       OutcomeKind `json:"kind"`
	Text       string      `json:"text,omitempty"`
	Message    string      `json:"message,omitempty"`
	StatusCode int         `json:"status_code,omitempty"`
	RawBody    string      `json:"raw_body,omitempty"`
}

// Success constructs a successful outcome carrying the agent output.
func Success(text string) Outcome { return Outcome{Kind: OutcomeSuccess, Text: text} }

// Timeout constructs a deadline-expiry outcome.
func Timeout() Outcome { return Outcome{Kind: OutcomeTimeout} }

// NetworkError constructs a transport failure outcome.
func NetworkError(message string) Outcome {
	return Outcome{Kind: OutcomeNetworkError, Message: message}
}

// UpstreamError constructs a non-2xx outcome.
func UpstreamError(statusCode int) Outcome {
	return Outcome{Kind: OutcomeUpstreamError, StatusCode: statusCode}
}

// ParseFallback constructs an outcome preserving an unparseable 2xx body
// verbatim.
func ParseFallback(rawBody string) Outcome {
	return Outcome{Kind: OutcomeParseFallback, RawBody: rawBody}
}

// FromContextErr maps a context cancellation cause to the matching outcome:
// deadline expiry becomes Timeout, explicit cancellation a network-class
// failure.
func FromContextErr(err error) Outcome {
	if errors.Is(err, context.DeadlineExceeded) {
		return Timeout()
	}
	return NetworkError(fmt.Sprintf("call cancelled: %v", err))
}

// Responder answers one user input with an Outcome. The bearer token is
// optional; an empty string means an unauthenticated call. Implementations
// must respect ctx cancellation and must not retry on their own.
type Responder interface {
	Respond(ctx context.Context, input, bearer string) Outcome
}
