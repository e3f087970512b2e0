package query

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout is the client-side deadline for one downstream call. The
// channel allows 30s for the whole turn; 18s here leaves roughly 12s for
// reply transmission and the end-of-turn state save.
const DefaultTimeout = 18 * time.Second

// request is the wire shape of the downstream POST body.
type request struct {
	InputText string `json:"input_text"`
}

// response is the expected shape of a successful downstream body. Any other
// 2xx shape triggers the raw-body fallback.
type response struct {
	Status      string `json:"status"`
	AgentOutput string `json:"agent_output"`
}

// Options configure the HTTP recommender client.
type Options struct {
	// Timeout bounds one call including connection setup, request write and
	// full body read. Must stay strictly inside the channel response budget.
	Timeout time.Duration
	// HTTPClient allows injecting a custom transport. The client never
	// relies on HTTPClient.Timeout; the deadline is context based so it
	// composes with caller cancellation.
	HTTPClient *http.Client
}

// Client issues one bounded HTTP call per eligible turn against the
// configured recommendation endpoint. It performs no retries: the caller
// already races a tight deadline, so retry policy stays a caller decision.
type Client struct {
	endpoint   string
	timeout    time.Duration
	httpClient *http.Client
}

var _ Responder = (*Client)(nil)

// NewClient constructs a client for the given endpoint URL with optional
// overrides.
func NewClient(endpoint string, optFns ...func(o *Options)) *Client {
	opts := Options{
		Timeout:    DefaultTimeout,
		HTTPClient: &http.Client{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Client{endpoint: endpoint, timeout: opts.Timeout, httpClient: opts.HTTPClient}
}

// Endpoint returns the configured endpoint URL.
func (c *Client) Endpoint() string { return c.endpoint }

// Respond implements Responder. The configured timeout is composed with the
// caller context; whichever fires first cancels the in-flight request. A
// supplied bearer token is attached as an Authorization header, absence of a
// token is a valid unauthenticated call.
func (c *Client) Respond(ctx context.Context, input, bearer string) Outcome {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(request{InputText: input})
	if err != nil {
		return NetworkError(err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return NetworkError(err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransportErr(ctx, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return classifyTransportErr(ctx, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return UpstreamError(resp.StatusCode)
	}

	var parsed response
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return ParseFallback(string(raw))
	}
	if parsed.Status != "success" || parsed.AgentOutput == "" {
		return ParseFallback(string(raw))
	}
	return Success(parsed.AgentOutput)
}

// classifyTransportErr separates deadline expiry from genuine transport
// faults. The http client wraps context errors, so both the context state
// and the error chain are consulted.
func classifyTransportErr(ctx context.Context, err error) Outcome {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return FromContextErr(ctxErr)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Timeout()
	}
	return NetworkError(err.Error())
}
