package core

import (
	"context"

	"github.com/hupe1980/turngate/logging"
)

// TurnContext carries the mutable, per-turn execution scope threaded through
// the router and the authentication machine. It aggregates:
//   - The ambient cancellation Context
//   - The immutable inbound Turn
//   - Working snapshots of the loaded state records
//   - The outbound reply sender
//   - A logger scoped to the turn
//
// State mutations are applied directly to the Conversation/User snapshots;
// the router persists each touched partition exactly once at the end of the
// turn. No hidden per-request registry: everything a handler needs is an
// explicit field here.
type TurnContext struct {
	Context      context.Context
	Turn         Turn
	Conversation *ConversationState
	User         *UserAuthState
	Sender       ReplySender
	Logger       logging.Logger

	replies int
}

// NewTurnContext constructs a TurnContext. A nil logger is replaced with a
// no-op implementation so handlers never need nil checks.
func NewTurnContext(ctx context.Context, turn Turn, conv *ConversationState, user *UserAuthState, sender ReplySender, logger logging.Logger) *TurnContext {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &TurnContext{
		Context:      ctx,
		Turn:         turn,
		Conversation: conv,
		User:         user,
		Sender:       sender,
		Logger:       logger,
	}
}

// Done mirrors context.Context's Done.
func (tc *TurnContext) Done() <-chan struct{} { return tc.Context.Done() }

// Err returns the cancellation error (if any) from the underlying context.
func (tc *TurnContext) Err() error { return tc.Context.Err() }

// Reply emits one outbound text message. Send failures are logged and
// swallowed: a failed error report must never raise past the turn boundary.
func (tc *TurnContext) Reply(text string) {
	if tc.Sender == nil {
		return
	}
	reply := NewReply(text)
	if err := tc.Sender.Send(tc.Turn, reply); err != nil {
		tc.Logger.Warn("reply send failed", "turn_id", tc.Turn.ID, "reply_id", reply.ID, "error", err)
		return
	}
	tc.replies++
}

// ReplyAll emits each reply text in order.
func (tc *TurnContext) ReplyAll(texts []string) {
	for _, text := range texts {
		tc.Reply(text)
	}
}

// Replied reports whether at least one reply was delivered this turn.
func (tc *TurnContext) Replied() bool { return tc.replies > 0 }
