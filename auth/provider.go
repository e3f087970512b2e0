package auth

import "context"

// Provider is the identity-provider collaborator. Implementations belong to
// the transport / bootstrap layer; this module only needs the sign-out
// capability, since sign-in completions arrive as token-response turns.
type Provider interface {
	// SignOut revokes the user's sign-in for the connection. It must be
	// idempotent: signing out a user with no live token is a no-op.
	SignOut(ctx context.Context, userID, connection, channelID string) error
}

// ProviderFunc adapts a plain function to the Provider interface.
type ProviderFunc func(ctx context.Context, userID, connection, channelID string) error

// SignOut implements Provider.
func (f ProviderFunc) SignOut(ctx context.Context, userID, connection, channelID string) error {
	return f(ctx, userID, connection, channelID)
}

// NopProvider ignores sign-out requests. Used when no real identity provider
// is wired, keeping the logout command functional.
type NopProvider struct{}

// SignOut implements Provider as a no-op.
func (NopProvider) SignOut(context.Context, string, string, string) error { return nil }
