package core

import (
	"context"
	"errors"
	"testing"
)

func TestPartitionKeys_Namespaced(t *testing.T) {
	conv := ConversationKey("msteams", "abc")
	user := UserKey("msteams", "abc")
	if conv == user {
		t.Fatalf("conversation and user keys must not collide: %q", conv)
	}
	if conv != "conversation/msteams/abc" {
		t.Errorf("unexpected conversation key: %q", conv)
	}
	if user != "user/msteams/abc" {
		t.Errorf("unexpected user key: %q", user)
	}
}

func TestUserAuthState_TokenLifecycle(t *testing.T) {
	u := &UserAuthState{}
	if u.Token("entra") != "" {
		t.Error("empty state should have no token")
	}

	u.SetToken("entra", "tok-1")
	u.SetToken("entra", "tok-2")
	if got := u.Token("entra"); got != "tok-2" {
		t.Errorf("expected replacement to win, got %q", got)
	}
	if len(u.Tokens) != 1 {
		t.Errorf("at most one live token per connection, got %d", len(u.Tokens))
	}

	// Clearing twice must stay a no-op.
	u.ClearToken("entra")
	u.ClearToken("entra")
	if u.Token("entra") != "" {
		t.Error("token should be cleared")
	}
}

func TestUserAuthState_CloneIsolation(t *testing.T) {
	u := &UserAuthState{}
	u.SetToken("entra", "tok")

	clone := u.Clone()
	clone.SetToken("entra", "changed")
	if u.Token("entra") != "tok" {
		t.Error("clone mutation leaked into original")
	}

	var nilState *UserAuthState
	if nilState.Clone() == nil {
		t.Error("cloning nil should yield a usable zero value")
	}
}

func TestConversationState_Reset(t *testing.T) {
	c := &ConversationState{MessageCount: 7, Dialog: DialogState{Step: StepAwaitingCredential}}
	c.Reset()
	if c.MessageCount != 0 || c.Dialog.Step != StepIdle {
		t.Errorf("reset should zero the record: %+v", c)
	}
}

func TestTurn_IsSelf(t *testing.T) {
	turn := NewMembersAddedTurn("test", "c1", "bot-1", Member{ID: "bot-1"}, Member{ID: "user-1"})
	if !turn.IsSelf(Member{ID: "bot-1"}) {
		t.Error("recipient member should be self")
	}
	if turn.IsSelf(Member{ID: "user-1"}) {
		t.Error("other member should not be self")
	}

	// Without a recipient identity nothing is treated as self.
	turn.RecipientID = ""
	if turn.IsSelf(Member{ID: "bot-1"}) {
		t.Error("missing recipient id must disable self matching")
	}
}

func TestErrors_Taxonomy(t *testing.T) {
	cause := errors.New("disk full")
	storageErr := &StorageError{Op: "save", Key: "conversation/test/c1", Err: cause}
	if !errors.Is(storageErr, cause) {
		t.Error("StorageError should unwrap to its cause")
	}

	var authErr error = &AuthProviderError{Stage: "signout", Message: "revoked"}
	if authErr.Error() == "" {
		t.Error("AuthProviderError should render a message")
	}
}

type failingSender struct{ sent int }

func (f *failingSender) Send(Turn, Reply) error {
	f.sent++
	return errors.New("channel rejected message")
}

func TestTurnContext_ReplySwallowsSendFailure(t *testing.T) {
	sender := &failingSender{}
	tc := NewTurnContext(context.Background(), NewMessageTurn("test", "c1", "u1", "hi"), nil, nil, sender, nil)

	tc.Reply("hello")
	if sender.sent != 1 {
		t.Fatalf("send should have been attempted once, got %d", sender.sent)
	}
	if tc.Replied() {
		t.Error("failed send must not count as a delivered reply")
	}
}
