package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/turngate/core"
	"github.com/hupe1980/turngate/logging"
)

// DefaultSignInTimeout is how long a sign-in prompt stays valid. The expiry
// is checked lazily at the start of the next turn; there is no background
// timer.
const DefaultSignInTimeout = 300 * time.Second

// Options configure the sign-in machine.
type Options struct {
	// PromptText is the sign-in prompt shown on the login command.
	PromptText string
	// SignInTimeout bounds the gap between prompt and provider callback.
	SignInTimeout time.Duration
	// Profiles resolves the authenticated user's profile for the profile
	// command. Nil disables the lookup with a friendly reply.
	Profiles ProfileFetcher
	// Logger receives transition diagnostics.
	Logger logging.Logger
}

// Machine drives one linear sign-in sequence per conversation:
//
//	Idle -> AwaitingCredential -> Completed | Failed
//
// A login while already awaiting restarts the prompt without stacking.
// Failed exchanges are never retried automatically; the user reissues
// login. All transition methods return the next dialog state plus the
// outbound message texts and leave persistence to the caller.
type Machine struct {
	connection    string
	promptText    string
	signInTimeout time.Duration
	provider      Provider
	profiles      ProfileFetcher
	logger        logging.Logger
}

// NewMachine constructs a machine for the given connection name and
// provider. A nil provider is replaced with NopProvider.
func NewMachine(connection string, provider Provider, optFns ...func(o *Options)) *Machine {
	opts := Options{
		PromptText:    "Please sign in to continue.",
		SignInTimeout: DefaultSignInTimeout,
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if provider == nil {
		provider = NopProvider{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Machine{
		connection:    connection,
		promptText:    opts.PromptText,
		signInTimeout: opts.SignInTimeout,
		provider:      provider,
		profiles:      opts.Profiles,
		logger:        opts.Logger,
	}
}

// Connection returns the connection name the machine authenticates against.
func (m *Machine) Connection() string { return m.connection }

// Expire reverts an abandoned prompt to idle once the sign-in window has
// passed. The revert is silent; a subsequent login starts fresh. The caller
// invokes this at the start of every turn (lazy check).
func (m *Machine) Expire(st core.DialogState, now time.Time) core.DialogState {
	if st.Step != core.StepAwaitingCredential {
		return st
	}
	if now.Sub(st.PromptedAt) <= m.signInTimeout {
		return st
	}
	m.logger.Debug("sign-in prompt expired", "connection", st.PendingConnection)
	return core.DialogState{}
}

// HandleLogin issues (or reissues) the sign-in prompt. Reissuing while a
// prompt is pending restarts the window without stacking prompts.
func (m *Machine) HandleLogin(st core.DialogState, now time.Time) (core.DialogState, []string) {
	next := core.DialogState{
		Step:              core.StepAwaitingCredential,
		PendingConnection: m.connection,
		PromptedAt:        now,
	}
	return next, []string{m.promptText}
}

// HandleTokenResponse consumes the provider callback. A non-empty token
// completes the sequence and caches the token under the connection name; an
// empty token or provider error fails it and clears any pending state. A
// callback with no pending prompt leaves the state untouched.
func (m *Machine) HandleTokenResponse(st core.DialogState, cred core.Credential, user *core.UserAuthState) (core.DialogState, []string) {
	if st.Step != core.StepAwaitingCredential {
		return st, []string{"I received a sign-in response I wasn't expecting. Type 'login' to start over."}
	}

	if cred.Error != "" || cred.Token == "" {
		reason := cred.Error
		if reason == "" {
			reason = "no token received"
		}
		m.logger.Warn("sign-in failed", "connection", m.connection, "reason", reason)
		return core.DialogState{Step: core.StepFailed}, []string{
			"Sign-in was not successful. Please try again by typing 'login'.",
		}
	}

	connection := cred.Connection
	if connection == "" {
		connection = m.connection
	}
	user.SetToken(connection, cred.Token)

	return core.DialogState{Step: core.StepCompleted}, []string{
		"You are now signed in!",
		"Type 'profile' to see your profile, 'logout' to sign out, or send any message for a suggestion.",
	}
}

// HandleLogout signs the user out. The provider sign-out is attempted
// unconditionally, even with no cached token, and the cache entry is removed
// either way. The sequence returns to idle.
func (m *Machine) HandleLogout(ctx context.Context, turn core.Turn, user *core.UserAuthState) (core.DialogState, []string) {
	if err := m.provider.SignOut(ctx, turn.UserID, m.connection, turn.ChannelID); err != nil {
		m.logger.Warn("provider sign-out failed", "user_id", turn.UserID, "error", err)
		user.ClearToken(m.connection)
		return core.DialogState{}, []string{
			fmt.Sprintf("Error during sign out: %v", err),
		}
	}
	user.ClearToken(m.connection)
	return core.DialogState{}, []string{"You have been signed out successfully."}
}

// HandleProfile resolves the authenticated user's profile. Without a live
// token it prompts for login and performs no external lookup.
func (m *Machine) HandleProfile(ctx context.Context, user *core.UserAuthState) []string {
	token := user.Token(m.connection)
	if token == "" {
		return []string{"You need to sign in first. Type 'login' to authenticate."}
	}
	if m.profiles == nil {
		return []string{"Profile lookup is not configured for this gateway."}
	}
	profile, err := m.profiles.Fetch(ctx, token)
	if err != nil {
		m.logger.Warn("profile lookup failed", "error", err)
		return []string{"Sorry, I couldn't retrieve your profile information."}
	}
	return []string{profile.Format()}
}
