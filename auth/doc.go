// Package auth implements the sign-in state machine that gates the
// authenticated features of a gateway.
//
// The machine is deliberately modeled as explicit transition functions:
// each handler takes the current dialog state and returns the next state
// plus the list of outbound message texts, instead of registering success /
// failure callbacks. The router persists the returned state and emits the
// messages, so transitions stay trivially testable.
//
// Token acquisition itself is an external capability: the channel delivers
// the provider's sign-in completion as a token-response turn, and sign-out
// goes through the Provider collaborator. The machine only sequences the
// flow and maintains the per-user token cache.
package auth
