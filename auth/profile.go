package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hupe1980/turngate/core"
)

// Profile is the subset of identity attributes shown by the profile command.
type Profile struct {
	ID                string `json:"id"`
	DisplayName       string `json:"displayName"`
	Mail              string `json:"mail"`
	UserPrincipalName string `json:"userPrincipalName"`
}

// Format renders the profile as a user-facing reply.
func (p *Profile) Format() string {
	name := p.DisplayName
	if name == "" {
		name = "Not available"
	}
	mail := p.Mail
	if mail == "" {
		mail = p.UserPrincipalName
	}
	if mail == "" {
		mail = "Not available"
	}
	id := p.ID
	if id == "" {
		id = "Not available"
	}
	return fmt.Sprintf("Your profile: name %s, email %s, user id %s", name, mail, id)
}

// ProfileFetcher resolves the profile behind a bearer token.
type ProfileFetcher interface {
	Fetch(ctx context.Context, bearer string) (*Profile, error)
}

// ProfileFetcherFunc adapts a plain function to the ProfileFetcher interface.
type ProfileFetcherFunc func(ctx context.Context, bearer string) (*Profile, error)

// Fetch implements ProfileFetcher.
func (f ProfileFetcherFunc) Fetch(ctx context.Context, bearer string) (*Profile, error) {
	return f(ctx, bearer)
}

// ProfileClientOptions configure the HTTP profile client.
type ProfileClientOptions struct {
	Timeout    time.Duration
	HTTPClient *http.Client
}

// ProfileClient fetches the user profile from an identity endpoint (for
// Microsoft Graph this is /v1.0/me) using the cached bearer token.
type ProfileClient struct {
	endpoint   string
	timeout    time.Duration
	httpClient *http.Client
}

var _ ProfileFetcher = (*ProfileClient)(nil)

// NewProfileClient constructs a profile client for the endpoint URL.
func NewProfileClient(endpoint string, optFns ...func(o *ProfileClientOptions)) *ProfileClient {
	opts := ProfileClientOptions{
		Timeout:    10 * time.Second,
		HTTPClient: &http.Client{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &ProfileClient{endpoint: endpoint, timeout: opts.Timeout, httpClient: opts.HTTPClient}
}

// Fetch implements ProfileFetcher.
func (c *ProfileClient) Fetch(ctx context.Context, bearer string) (*Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &core.AuthProviderError{Stage: "profile", Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &core.AuthProviderError{
			Stage:   "profile",
			Message: fmt.Sprintf("status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &core.AuthProviderError{Stage: "profile", Message: err.Error()}
	}

	var profile Profile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, &core.AuthProviderError{Stage: "profile", Message: "unexpected profile body"}
	}
	return &profile, nil
}
