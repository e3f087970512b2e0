package testutil

import (
	"github.com/hupe1980/turngate/core"
)

// TurnBuilder provides a fluent helper for constructing turns in tests.
// Example:
//
//	turn := NewTurnBuilder().Conversation("c1").User("u1").Text("hello").Build()
//
// Chain only the parts you need; sensible defaults are applied.
type TurnBuilder struct {
	kind           core.TurnKind
	text           string
	channelID      string
	conversationID string
	userID         string
	userName       string
	recipientID    string
	members        []core.Member
	credential     *core.Credential
}

// NewTurnBuilder creates a builder defaulting to a message turn on channel
// "test" from user "user-1" in conversation "conv-1".
func NewTurnBuilder() *TurnBuilder {
	return &TurnBuilder{
		kind:           core.KindMessage,
		channelID:      "test",
		conversationID: "conv-1",
		userID:         "user-1",
	}
}

// Kind sets the turn kind (chainable).
func (b *TurnBuilder) Kind(k core.TurnKind) *TurnBuilder { b.kind = k; return b }

// Text sets the raw user input (chainable).
func (b *TurnBuilder) Text(t string) *TurnBuilder { b.text = t; return b }

// Channel sets the channel identifier (chainable).
func (b *TurnBuilder) Channel(id string) *TurnBuilder { b.channelID = id; return b }

// Conversation sets the conversation identifier (chainable).
func (b *TurnBuilder) Conversation(id string) *TurnBuilder { b.conversationID = id; return b }

// User sets the user identifier (chainable).
func (b *TurnBuilder) User(id string) *TurnBuilder { b.userID = id; return b }

// UserName sets the display name of the sender (chainable).
func (b *TurnBuilder) UserName(name string) *TurnBuilder { b.userName = name; return b }

// Recipient sets the agent's own channel identity (chainable).
func (b *TurnBuilder) Recipient(id string) *TurnBuilder { b.recipientID = id; return b }

// Members marks the turn as members-added with the given members (chainable).
func (b *TurnBuilder) Members(members ...core.Member) *TurnBuilder {
	b.kind = core.KindMembersAdded
	b.members = members
	return b
}

// Token marks the turn as a successful token response for the connection
// (chainable).
func (b *TurnBuilder) Token(connection, token string) *TurnBuilder {
	b.kind = core.KindTokenResponse
	b.credential = &core.Credential{Connection: connection, Token: token}
	return b
}

// TokenError marks the turn as a failed token response (chainable).
func (b *TurnBuilder) TokenError(connection, message string) *TurnBuilder {
	b.kind = core.KindTokenResponse
	b.credential = &core.Credential{Connection: connection, Error: message}
	return b
}

// Build constructs the core.Turn value.
func (b *TurnBuilder) Build() core.Turn {
	t := core.NewTurn(b.kind, b.channelID, b.conversationID, b.userID)
	t.Text = b.text
	t.UserName = b.userName
	t.RecipientID = b.recipientID
	t.Members = b.members
	t.Credential = b.credential
	return t
}
