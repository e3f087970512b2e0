package router

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/turngate/auth"
	"github.com/hupe1980/turngate/core"
	"github.com/hupe1980/turngate/logging"
	"github.com/hupe1980/turngate/query"
)

// DefaultWelcomeText greets members added to a conversation and lists the
// available commands.
const DefaultWelcomeText = "Hello and welcome! Type 'login' to sign in, 'profile' to see your profile, " +
	"'logout' to sign out, '/reset' to start over, or send any message to get a query suggestion."

const (
	unrecognizedReply = "I received an activity I don't understand. Please send me a text message."
	storageApology    = "Sorry, something went wrong on my side. Please try again."
	authMissingReply  = "Authentication is not configured for this gateway."
	signInNudge       = "Please type 'login' to sign in before I can fetch suggestions."
)

// Options configure the Router.
type Options struct {
	// Responder answers the default message path. Nil degrades the gateway
	// to a plain echo.
	Responder query.Responder
	// Machine drives the sign-in flow. Nil disables authentication commands
	// with a friendly reply.
	Machine *auth.Machine
	// AuthRequired gates the query path behind a cached token. It is
	// ignored while Machine is nil.
	AuthRequired bool
	// WelcomeText overrides the members-added greeting.
	WelcomeText string
	// Logger receives per-turn diagnostics.
	Logger logging.Logger
	// Clock overrides time.Now for the lazy sign-in expiry. Tests inject a
	// fixed clock.
	Clock func() time.Time
}

// Router is the turn orchestrator. Turns for distinct conversations may be
// processed concurrently; the state store is the only shared mutable state.
type Router struct {
	store        core.StateStore
	responder    query.Responder
	machine      *auth.Machine
	authRequired bool
	welcomeText  string
	logger       logging.Logger
	clock        func() time.Time
}

// New constructs a Router over the given state store with optional
// overrides.
func New(store core.StateStore, optFns ...func(o *Options)) *Router {
	opts := Options{
		WelcomeText: DefaultWelcomeText,
		Logger:      logging.NoOpLogger{},
		Clock:       time.Now,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Router{
		store:        store,
		responder:    opts.Responder,
		machine:      opts.Machine,
		authRequired: opts.AuthRequired,
		welcomeText:  opts.WelcomeText,
		logger:       opts.Logger,
		clock:        opts.Clock,
	}
}

// Process handles one inbound turn end to end. Unrecognized and
// members-added turns are pure no-ops with respect to state; message and
// token-response turns load both partitions up front and save each exactly
// once at the end, on every branch. Reply-send failures are logged and
// swallowed inside the TurnContext; only storage faults surface as errors,
// and those are preceded by an apology reply.
func (r *Router) Process(ctx context.Context, turn core.Turn, sender core.ReplySender) error {
	start := r.clock()

	switch turn.Kind {
	case core.KindUnrecognized:
		tc := core.NewTurnContext(ctx, turn, nil, nil, sender, r.logger)
		tc.Reply(unrecognizedReply)
		r.logger.Debug("unrecognized turn", "turn_id", turn.ID)
		return nil

	case core.KindMembersAdded:
		tc := core.NewTurnContext(ctx, turn, nil, nil, sender, r.logger)
		r.handleMembersAdded(tc)
		return nil
	}

	convKey := core.ConversationKey(turn.ChannelID, turn.ConversationID)
	userKey := core.UserKey(turn.ChannelID, turn.UserID)

	conv, err := r.store.LoadConversation(ctx, convKey)
	if err != nil {
		r.apologize(ctx, turn, sender)
		return &core.StorageError{Op: "load", Key: convKey, Err: err}
	}
	user, err := r.store.LoadUser(ctx, userKey)
	if err != nil {
		r.apologize(ctx, turn, sender)
		return &core.StorageError{Op: "load", Key: userKey, Err: err}
	}

	tc := core.NewTurnContext(ctx, turn, conv, user, sender, r.logger)

	// Lazy expiry of an abandoned sign-in prompt, checked before dispatch so
	// a stale AwaitingCredential never gates this turn.
	if r.machine != nil {
		conv.Dialog = r.machine.Expire(conv.Dialog, start)
	}

	switch turn.Kind {
	case core.KindTokenResponse:
		r.handleTokenResponse(tc)
	default:
		r.handleMessage(tc)
	}

	// Exactly one save per touched partition, regardless of branch. The two
	// partitions are saved independently; a crash between them is the
	// documented inconsistency window.
	if err := r.store.SaveConversation(ctx, convKey, conv); err != nil {
		tc.Reply(storageApology)
		return &core.StorageError{Op: "save", Key: convKey, Err: err}
	}
	if err := r.store.SaveUser(ctx, userKey, user); err != nil {
		tc.Reply(storageApology)
		return &core.StorageError{Op: "save", Key: userKey, Err: err}
	}

	r.logger.Debug("turn processed",
		"turn_id", turn.ID,
		"turn_kind", turn.Kind.String(),
		"duration", r.clock().Sub(start),
	)
	return nil
}

// handleMembersAdded welcomes every added member except the agent itself.
// No state is touched.
func (r *Router) handleMembersAdded(tc *core.TurnContext) {
	for _, member := range tc.Turn.Members {
		if tc.Turn.IsSelf(member) {
			continue
		}
		r.logger.Debug("welcoming member", "member_id", member.ID)
		tc.Reply(r.welcomeText)
	}
}

// handleTokenResponse routes the provider callback into the sign-in machine
// regardless of text content.
func (r *Router) handleTokenResponse(tc *core.TurnContext) {
	if r.machine == nil {
		tc.Reply(authMissingReply)
		return
	}
	cred := core.Credential{}
	if tc.Turn.Credential != nil {
		cred = *tc.Turn.Credential
	}
	next, replies := r.machine.HandleTokenResponse(tc.Conversation.Dialog, cred, tc.User)
	tc.Conversation.Dialog = next
	tc.ReplyAll(replies)
}

// handleMessage matches the fixed command set before falling through to the
// default query path.
func (r *Router) handleMessage(tc *core.TurnContext) {
	command := strings.ToLower(strings.TrimSpace(tc.Turn.Text))

	switch command {
	case "/reset":
		tc.Conversation.Reset()
		tc.Reply("Ok I've deleted the current conversation state.")

	case "/signout", "logout":
		if r.machine == nil {
			tc.Reply(authMissingReply)
			return
		}
		next, replies := r.machine.HandleLogout(tc.Context, tc.Turn, tc.User)
		tc.Conversation.Dialog = next
		tc.ReplyAll(replies)

	case "login":
		if r.machine == nil {
			tc.Reply(authMissingReply)
			return
		}
		next, replies := r.machine.HandleLogin(tc.Conversation.Dialog, r.clock())
		tc.Conversation.Dialog = next
		tc.ReplyAll(replies)

	case "profile":
		if r.machine == nil {
			tc.Reply(authMissingReply)
			return
		}
		tc.ReplyAll(r.machine.HandleProfile(tc.Context, tc.User))

	default:
		r.handleDefault(tc)
	}
}

// handleDefault runs the query path: count the message, enforce the
// authentication gate, then issue at most one downstream call.
func (r *Router) handleDefault(tc *core.TurnContext) {
	tc.Conversation.MessageCount++
	count := tc.Conversation.MessageCount

	var bearer string
	if r.machine != nil {
		bearer = tc.User.Token(r.machine.Connection())
	}

	if r.authRequired && r.machine != nil && bearer == "" {
		tc.Reply(fmt.Sprintf("[%d] %s", count, signInNudge))
		return
	}

	if r.responder == nil {
		tc.Reply(fmt.Sprintf("[%d] Echo: %s", count, tc.Turn.Text))
		return
	}

	start := r.clock()
	outcome := r.responder.Respond(tc.Context, tc.Turn.Text, bearer)
	r.logger.Info("downstream query completed",
		"outcome", outcome.Kind.String(),
		"duration", r.clock().Sub(start),
	)
	tc.Reply(formatOutcome(count, outcome))
}

// formatOutcome maps each outcome class onto a distinguishing,
// human-readable reply so repeated failures stay diagnosable.
func formatOutcome(count int, outcome query.Outcome) string {
	switch outcome.Kind {
	case query.OutcomeSuccess:
		return fmt.Sprintf("[%d] Query suggestion: %s", count, outcome.Text)
	case query.OutcomeTimeout:
		return fmt.Sprintf("[%d] The suggestion service took too long to answer. Please try again.", count)
	case query.OutcomeNetworkError:
		return fmt.Sprintf("[%d] I couldn't reach the suggestion service: %s", count, outcome.Message)
	case query.OutcomeUpstreamError:
		return fmt.Sprintf("[%d] Failed to get a query suggestion. Status: %d", count, outcome.StatusCode)
	case query.OutcomeParseFallback:
		return fmt.Sprintf("[%d] Query suggestion: %s", count, outcome.RawBody)
	default:
		return fmt.Sprintf("[%d] Failed to get a query suggestion.", count)
	}
}

// apologize emits the generic storage apology on a load fault, before the
// turn is aborted with no partial state written.
func (r *Router) apologize(ctx context.Context, turn core.Turn, sender core.ReplySender) {
	tc := core.NewTurnContext(ctx, turn, nil, nil, sender, r.logger)
	tc.Reply(storageApology)
}
