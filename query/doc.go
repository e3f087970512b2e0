// Package query provides the downstream Responder contract, the Outcome
// result union, and the HTTP recommender client that turngate uses on the
// default message path.
//
// The client issues exactly one bounded POST per eligible turn. Its deadline
// is computed strictly inside the channel's own response budget and is
// enforced by cancelling the in-flight request, composed with any
// caller-supplied cancellation; whichever fires first wins. Failures are
// classified into typed Outcome variants so the router can report each class
// with a distinguishing, human-readable message; none of them fail the turn.
//
// Alternative answering backends implementing the same Responder contract
// live in the openai and anthropic sub-packages.
package query
