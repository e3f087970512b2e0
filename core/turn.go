package core

import (
	"time"

	"github.com/google/uuid"
)

// NewID returns a random identifier for turns and replies.
func NewID() string { return uuid.NewString() }

// TurnKind classifies an inbound channel event. The router dispatches on the
// kind with an exhaustive switch; anything the transport adapter could not
// map onto a known kind arrives as KindUnrecognized.
type TurnKind int

const (
	// KindUnrecognized marks events the transport could not classify.
	KindUnrecognized TurnKind = iota
	// KindMessage is a plain user text message.
	KindMessage
	// KindMembersAdded signals members joining the conversation.
	KindMembersAdded
	// KindTokenResponse is the identity provider's sign-in callback.
	KindTokenResponse
)

// String returns the string representation of the turn kind.
func (k TurnKind) String() string {
	switch k {
	case KindMessage:
		return "message"
	case KindMembersAdded:
		return "membersAdded"
	case KindTokenResponse:
		return "tokenResponse"
	default:
		return "unrecognized"
	}
}

// Member identifies a conversation participant referenced by a
// MembersAdded turn.
type Member struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Credential carries the payload of an identity provider callback. A
// successful sign-in completion has a non-empty Token; a failed one carries
// the provider's error message instead. The token is an opaque bearer
// string, never parsed by this module.
type Credential struct {
	Connection string `json:"connection"`
	Token      string `json:"token,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Turn is one inbound event plus the identity needed to address state and
// replies. It is immutable once constructed and scoped to a single
// orchestration pass.
//
// Text is the raw user input and may be empty. RecipientID is the agent's
// own identity on the channel; it is used to filter self-referencing
// membership events. Members is populated only for KindMembersAdded turns
// and Credential only for KindTokenResponse turns.
type Turn struct {
	ID             string      `json:"id"`
	Kind           TurnKind    `json:"kind"`
	Text           string      `json:"text,omitempty"`
	ConversationID string      `json:"conversation_id"`
	UserID         string      `json:"user_id"`
	UserName       string      `json:"user_name,omitempty"`
	ChannelID      string      `json:"channel_id"`
	RecipientID    string      `json:"recipient_id,omitempty"`
	SenderIsSelf   bool        `json:"sender_is_self,omitempty"`
	Members        []Member    `json:"members,omitempty"`
	Credential     *Credential `json:"credential,omitempty"`
	Timestamp      time.Time   `json:"timestamp"`
}

// NewTurn creates a bare turn of the given kind addressed to a conversation.
// Prefer the kind-specific constructors for common cases.
func NewTurn(kind TurnKind, channelID, conversationID, userID string) Turn {
	return Turn{
		ID:             NewID(),
		Kind:           kind,
		ChannelID:      channelID,
		ConversationID: conversationID,
		UserID:         userID,
		Timestamp:      time.Now().UTC(),
	}
}

// NewMessageTurn creates a user text message turn.
func NewMessageTurn(channelID, conversationID, userID, text string) Turn {
	t := NewTurn(KindMessage, channelID, conversationID, userID)
	t.Text = text
	return t
}

// NewMembersAddedTurn creates a membership change turn listing the added
// members. recipientID is the agent's own channel identity.
func NewMembersAddedTurn(channelID, conversationID, recipientID string, members ...Member) Turn {
	t := NewTurn(KindMembersAdded, channelID, conversationID, "")
	t.RecipientID = recipientID
	t.Members = members
	return t
}

// NewTokenResponseTurn creates an authentication callback turn carrying the
// provider's credential payload.
func NewTokenResponseTurn(channelID, conversationID, userID string, cred Credential) Turn {
	t := NewTurn(KindTokenResponse, channelID, conversationID, userID)
	t.Credential = &cred
	return t
}

// IsSelf reports whether the member is the agent's own channel identity on
// the given turn.
func (t Turn) IsSelf(m Member) bool {
	return t.RecipientID != "" && m.ID == t.RecipientID
}
