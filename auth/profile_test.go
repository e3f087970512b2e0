package auth

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hupe1980/turngate/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileClient_Fetch(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		io.WriteString(w, `{"id":"u-1","displayName":"Ada Lovelace","mail":"ada@example.com"}`)
	}))
	defer server.Close()

	profile, err := NewProfileClient(server.URL).Fetch(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "Ada Lovelace", profile.DisplayName)
	assert.Contains(t, profile.Format(), "ada@example.com")
}

func TestProfileClient_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := NewProfileClient(server.URL).Fetch(context.Background(), "tok")
	require.Error(t, err)

	var provErr *core.AuthProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "profile", provErr.Stage)
}

func TestProfile_FormatFallsBackPerField(t *testing.T) {
	p := &Profile{UserPrincipalName: "ada@corp.example"}
	formatted := p.Format()
	assert.Contains(t, formatted, "ada@corp.example")
	assert.Contains(t, formatted, "Not available")
}
