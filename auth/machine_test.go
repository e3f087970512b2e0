package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hupe1980/turngate/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingProvider struct {
	calls int
	err   error
}

func (p *recordingProvider) SignOut(context.Context, string, string, string) error {
	p.calls++
	return p.err
}

func TestMachine_LoginIssuesPrompt(t *testing.T) {
	m := NewMachine("entra", nil)
	now := time.Now()

	next, replies := m.HandleLogin(core.DialogState{}, now)

	assert.Equal(t, core.StepAwaitingCredential, next.Step)
	assert.Equal(t, "entra", next.PendingConnection)
	assert.Equal(t, now, next.PromptedAt)
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "sign in")
}

func TestMachine_LoginWhileAwaitingRestartsPrompt(t *testing.T) {
	m := NewMachine("entra", nil)
	first := time.Now()
	st, _ := m.HandleLogin(core.DialogState{}, first)

	second := first.Add(time.Minute)
	restarted, replies := m.HandleLogin(st, second)

	assert.Equal(t, core.StepAwaitingCredential, restarted.Step)
	assert.Equal(t, second, restarted.PromptedAt, "restart should refresh the window")
	assert.Len(t, replies, 1, "prompts must not stack")
}

func TestMachine_TokenResponseSuccessCachesExactlyOneToken(t *testing.T) {
	m := NewMachine("entra", nil)
	user := &core.UserAuthState{}
	st, _ := m.HandleLogin(core.DialogState{}, time.Now())

	// Second login before the callback must not duplicate anything.
	st, _ = m.HandleLogin(st, time.Now())

	next, replies := m.HandleTokenResponse(st, core.Credential{Connection: "entra", Token: "tok-1"}, user)

	assert.Equal(t, core.StepCompleted, next.Step)
	assert.Equal(t, "tok-1", user.Token("entra"))
	assert.Len(t, user.Tokens, 1)
	assert.NotEmpty(t, replies)
}

func TestMachine_TokenResponseWithoutConnectionFallsBackToMachine(t *testing.T) {
	m := NewMachine("entra", nil)
	user := &core.UserAuthState{}
	st, _ := m.HandleLogin(core.DialogState{}, time.Now())

	_, _ = m.HandleTokenResponse(st, core.Credential{Token: "tok"}, user)
	assert.Equal(t, "tok", user.Token("entra"))
}

func TestMachine_TokenResponseFailure(t *testing.T) {
	m := NewMachine("entra", nil)
	user := &core.UserAuthState{}
	st, _ := m.HandleLogin(core.DialogState{}, time.Now())

	cases := []core.Credential{
		{Connection: "entra"},                            // no token
		{Connection: "entra", Error: "consent_declined"}, // provider error
	}
	for _, cred := range cases {
		next, replies := m.HandleTokenResponse(st, cred, user)
		assert.Equal(t, core.StepFailed, next.Step)
		assert.Empty(t, next.PendingConnection, "pending state must be cleared")
		assert.Empty(t, user.Tokens, "failed exchange must not cache a token")
		require.NotEmpty(t, replies)
		assert.Contains(t, replies[0], "not successful")
	}
}

func TestMachine_UnexpectedCallbackLeavesStateUntouched(t *testing.T) {
	m := NewMachine("entra", nil)
	user := &core.UserAuthState{}

	next, replies := m.HandleTokenResponse(core.DialogState{}, core.Credential{Token: "tok"}, user)

	assert.Equal(t, core.StepIdle, next.Step)
	assert.Empty(t, user.Tokens)
	assert.NotEmpty(t, replies)
}

func TestMachine_LogoutClearsTokenAndConfirms(t *testing.T) {
	provider := &recordingProvider{}
	m := NewMachine("entra", provider)
	user := &core.UserAuthState{}
	user.SetToken("entra", "tok")
	turn := core.NewMessageTurn("test", "c1", "u1", "logout")

	next, replies := m.HandleLogout(context.Background(), turn, user)

	assert.Equal(t, core.StepIdle, next.Step)
	assert.Empty(t, user.Token("entra"))
	assert.Equal(t, 1, provider.calls)
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "signed out")
}

func TestMachine_LogoutWithoutTokenIsIdempotent(t *testing.T) {
	provider := &recordingProvider{}
	m := NewMachine("entra", provider)
	user := &core.UserAuthState{}
	turn := core.NewMessageTurn("test", "c1", "u1", "logout")

	_, replies := m.HandleLogout(context.Background(), turn, user)

	assert.Equal(t, 1, provider.calls, "sign-out is attempted even with nothing cached")
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "signed out")
}

func TestMachine_LogoutProviderErrorIsReported(t *testing.T) {
	provider := &recordingProvider{err: errors.New("provider unavailable")}
	m := NewMachine("entra", provider)
	user := &core.UserAuthState{}
	user.SetToken("entra", "tok")
	turn := core.NewMessageTurn("test", "c1", "u1", "logout")

	next, replies := m.HandleLogout(context.Background(), turn, user)

	assert.Equal(t, core.StepIdle, next.Step)
	assert.Empty(t, user.Token("entra"), "local cache is cleared even on provider failure")
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "provider unavailable")
}

func TestMachine_ProfileRequiresToken(t *testing.T) {
	fetchCalls := 0
	m := NewMachine("entra", nil, func(o *Options) {
		o.Profiles = ProfileFetcherFunc(func(context.Context, string) (*Profile, error) {
			fetchCalls++
			return &Profile{DisplayName: "Ada"}, nil
		})
	})

	replies := m.HandleProfile(context.Background(), &core.UserAuthState{})
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "login")
	assert.Zero(t, fetchCalls, "no external lookup without a token")

	user := &core.UserAuthState{}
	user.SetToken("entra", "tok")
	replies = m.HandleProfile(context.Background(), user)
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "Ada")
	assert.Equal(t, 1, fetchCalls)
}

func TestMachine_ProfileLookupFailureIsFriendly(t *testing.T) {
	m := NewMachine("entra", nil, func(o *Options) {
		o.Profiles = ProfileFetcherFunc(func(context.Context, string) (*Profile, error) {
			return nil, errors.New("graph down")
		})
	})
	user := &core.UserAuthState{}
	user.SetToken("entra", "tok")

	replies := m.HandleProfile(context.Background(), user)
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "couldn't retrieve")
}

func TestMachine_ExpireIsLazyAndSilent(t *testing.T) {
	m := NewMachine("entra", nil, func(o *Options) { o.SignInTimeout = time.Minute })
	promptedAt := time.Now()
	st, _ := m.HandleLogin(core.DialogState{}, promptedAt)

	// Within the window nothing changes.
	within := m.Expire(st, promptedAt.Add(30*time.Second))
	assert.Equal(t, core.StepAwaitingCredential, within.Step)

	// Past the window the machine reverts to idle.
	expired := m.Expire(st, promptedAt.Add(2*time.Minute))
	assert.Equal(t, core.StepIdle, expired.Step)
	assert.Empty(t, expired.PendingConnection)

	// Idle states pass through untouched.
	idle := m.Expire(core.DialogState{}, promptedAt.Add(time.Hour))
	assert.Equal(t, core.StepIdle, idle.Step)
}
