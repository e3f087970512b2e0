package state

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/hupe1980/turngate/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Interface compliance (compile-time assertion)
var _ core.StateStore = (*InMemoryStore)(nil)

func TestInMemoryStore_LoadAbsentReturnsZeroValue(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	conv, err := store.LoadConversation(ctx, "conversation/test/missing")
	require.NoError(t, err)
	assert.Equal(t, 0, conv.MessageCount)

	user, err := store.LoadUser(ctx, "user/test/missing")
	require.NoError(t, err)
	assert.Empty(t, user.Token("entra"))
}

func TestInMemoryStore_SaveLoadRoundTrip(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	key := core.ConversationKey("test", "c1")

	require.NoError(t, store.SaveConversation(ctx, key, &core.ConversationState{MessageCount: 3}))

	loaded, err := store.LoadConversation(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.MessageCount)
}

func TestInMemoryStore_CloneIsolation(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	key := core.UserKey("test", "u1")

	original := &core.UserAuthState{}
	original.SetToken("entra", "tok")
	require.NoError(t, store.SaveUser(ctx, key, original))

	// Mutating the saved snapshot must not affect the store.
	original.SetToken("entra", "mutated")
	loaded, err := store.LoadUser(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "tok", loaded.Token("entra"))

	// Mutating a loaded record must not affect subsequent loads.
	loaded.SetToken("entra", "also-mutated")
	reloaded, err := store.LoadUser(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "tok", reloaded.Token("entra"))
}

func TestInMemoryStore_PartitionsAreIndependent(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.SaveConversation(ctx, core.ConversationKey("test", "x"), &core.ConversationState{MessageCount: 1}))

	user, err := store.LoadUser(ctx, core.UserKey("test", "x"))
	require.NoError(t, err)
	assert.Empty(t, user.Tokens, "conversation write must not leak into the user partition")
}

func TestInMemoryStore_ConcurrentDistinctKeys(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := core.ConversationKey("test", fmt.Sprintf("c%d", i))
			for n := 1; n <= 10; n++ {
				st, err := store.LoadConversation(ctx, key)
				assert.NoError(t, err)
				st.MessageCount++
				assert.NoError(t, store.SaveConversation(ctx, key, st))
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < 32; i++ {
		st, err := store.LoadConversation(ctx, core.ConversationKey("test", fmt.Sprintf("c%d", i)))
		require.NoError(t, err)
		assert.Equal(t, 10, st.MessageCount)
	}
}
