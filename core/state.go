package core

import (
	"context"
	"fmt"
	"time"
)

// SignInStep enumerates the authentication machine's position within a
// sign-in sequence.
type SignInStep int

const (
	// StepIdle means no sign-in is pending.
	StepIdle SignInStep = iota
	// StepAwaitingCredential means a prompt was issued and the machine is
	// waiting for the provider callback.
	StepAwaitingCredential
	// StepCompleted means a token was obtained and cached.
	StepCompleted
	// StepFailed means the provider reported failure or the user abandoned
	// the sequence.
	StepFailed
)

// String returns the string representation of the sign-in step.
func (s SignInStep) String() string {
	switch s {
	case StepAwaitingCredential:
		return "awaitingCredential"
	case StepCompleted:
		return "completed"
	case StepFailed:
		return "failed"
	default:
		return "idle"
	}
}

// DialogState is the working state of a sign-in sequence. A sequence spans
// at most two turns (prompt turn, callback turn), so the state is persisted
// inside the conversation record between them and zeroed on completion or
// abandonment. PromptedAt drives the lazy expiry check performed at the
// start of each turn; there is no background timer.
type DialogState struct {
	Step              SignInStep `json:"step,omitempty"`
	PendingConnection string     `json:"pending_connection,omitempty"`
	PromptedAt        time.Time  `json:"prompted_at,omitempty"`
}

// ConversationState is the durable per-conversation record. MessageCount is
// incremented exactly once per processed message turn. The embedded dialog
// state survives the gap between a sign-in prompt and its callback. The
// /reset command restores the whole record to its zero value, which also
// abandons any pending sign-in.
type ConversationState struct {
	MessageCount int         `json:"message_count"`
	Dialog       DialogState `json:"dialog,omitempty"`
}

// Clone returns an independent copy of the conversation state.
func (c *ConversationState) Clone() *ConversationState {
	if c == nil {
		return &ConversationState{}
	}
	clone := *c
	return &clone
}

// Reset restores the record to its zero value.
func (c *ConversationState) Reset() { *c = ConversationState{} }

// UserAuthState is the durable per-user record: a token cache keyed by
// connection name. At most one live token per connection; tokens are opaque
// strings never parsed by this module.
type UserAuthState struct {
	Tokens map[string]string `json:"tokens,omitempty"`
}

// Token returns the cached bearer token for the connection, or "" when none
// is cached.
func (u *UserAuthState) Token(connection string) string {
	if u == nil {
		return ""
	}
	return u.Tokens[connection]
}

// SetToken caches a bearer token under the connection name, replacing any
// previous entry.
func (u *UserAuthState) SetToken(connection, token string) {
	if u.Tokens == nil {
		u.Tokens = make(map[string]string, 1)
	}
	u.Tokens[connection] = token
}

// ClearToken removes the cached token for the connection. Clearing an absent
// entry is a no-op.
func (u *UserAuthState) ClearToken(connection string) {
	delete(u.Tokens, connection)
}

// Clone returns an independent copy of the user state.
func (u *UserAuthState) Clone() *UserAuthState {
	clone := &UserAuthState{}
	if u == nil || len(u.Tokens) == 0 {
		return clone
	}
	clone.Tokens = make(map[string]string, len(u.Tokens))
	for k, v := range u.Tokens {
		clone.Tokens[k] = v
	}
	return clone
}

// ConversationKey derives the storage partition key for a conversation. The
// "conversation/" namespace discriminator makes collisions with user
// partitions impossible.
func ConversationKey(channelID, conversationID string) string {
	return fmt.Sprintf("conversation/%s/%s", channelID, conversationID)
}

// UserKey derives the storage partition key for a user.
func UserKey(channelID, userID string) string {
	return fmt.Sprintf("user/%s/%s", channelID, userID)
}

// StateStore persists the two logical partitions. Loads return a zero-value
// record when the key is absent and never fail on a missing key; saves are
// all-or-nothing per partition. There is no cross-partition transaction:
// the conversation and user partitions are saved independently, and a crash
// between the two saves is an accepted inconsistency window.
//
// Implementations must support concurrent access across distinct keys.
// Turns for one conversation are expected to arrive sequentially, but the
// save-then-load cycle is last-writer-wins rather than strictly ordered.
type StateStore interface {
	LoadConversation(ctx context.Context, key string) (*ConversationState, error)
	SaveConversation(ctx context.Context, key string, st *ConversationState) error
	LoadUser(ctx context.Context, key string) (*UserAuthState, error)
	SaveUser(ctx context.Context, key string, st *UserAuthState) error
}
