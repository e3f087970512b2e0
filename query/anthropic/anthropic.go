// Package anthropic provides a query.Responder backed by the Anthropic
// Messages API, answering the same contract as the HTTP recommender client.
package anthropic

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/hupe1980/turngate/query"
)

// Options configure the Anthropic responder (model id, instruction, max
// tokens, API key, per-call timeout).
type Options struct {
	Model       anthropic.Model
	Instruction string
	MaxTokens   int64
	APIKey      string
	Timeout     time.Duration
}

// Responder wraps the Anthropic Messages API behind the generic
// query.Responder interface.
type Responder struct {
	client *anthropic.Client
	opts   Options
}

var _ query.Responder = (*Responder)(nil)

// NewResponder creates a responder using the official client.
func NewResponder(optFns ...func(o *Options)) *Responder {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := anthropic.NewClient(clientOpts...)

	return &Responder{client: &client, opts: opts}
}

// NewResponderFromClient creates a responder from an existing client.
func NewResponderFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Responder {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Responder{client: client, opts: opts}
}

func defaultOptions() Options {
	return Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Instruction: "You are a query recommendation assistant. Keep answers concise.",
		MaxTokens:   1024,
		Timeout:     query.DefaultTimeout,
	}
}

// Respond implements query.Responder with a single non-streaming message.
// The channel user's bearer token is ignored; SDK credentials authenticate
// the call.
func (r *Responder) Respond(ctx context.Context, input, _ string) query.Outcome {
	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	msg, err := r.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     r.opts.Model,
		MaxTokens: r.opts.MaxTokens,
		System: []anthropic.TextBlockParam{
			{Text: r.opts.Instruction},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(input)),
		},
	})
	if err != nil {
		return classify(ctx, err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}
	if sb.Len() == 0 {
		return query.ParseFallback(msg.RawJSON())
	}
	return query.Success(sb.String())
}

func classify(ctx context.Context, err error) query.Outcome {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return query.FromContextErr(ctxErr)
	}
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return query.UpstreamError(apiErr.StatusCode)
	}
	return query.NetworkError(err.Error())
}
