// Package openai provides a query.Responder backed by the OpenAI Chat
// Completions API. It lets a gateway answer the default message path with a
// model completion instead of the HTTP recommender while keeping the same
// Outcome contract.
package openai

import (
	"context"
	"errors"
	"time"

	"github.com/hupe1980/turngate/query"
	"github.com/openai/openai-go"
)

// Options configure the OpenAI responder. Fields mirror a small subset of
// Chat Completion parameters; extend via functional options without breaking
// callers.
type Options struct {
	Model               string
	Instruction         string
	Temperature         float64
	MaxCompletionTokens int64
	Timeout             time.Duration
}

// Responder wraps the OpenAI Chat Completions API behind the generic
// query.Responder interface.
type Responder struct {
	client *openai.Client
	opts   Options
}

var _ query.Responder = (*Responder)(nil)

// NewResponder creates a responder using the official client configured from
// the environment.
func NewResponder(optFns ...func(o *Options)) *Responder {
	client := openai.NewClient()
	return NewResponderFromClient(&client, optFns...)
}

// NewResponderFromClient creates a responder from an existing client.
func NewResponderFromClient(client *openai.Client, optFns ...func(o *Options)) *Responder {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Instruction:         "You are a query recommendation assistant. Keep answers concise.",
		Temperature:         0.7,
		MaxCompletionTokens: 1024,
		Timeout:             query.DefaultTimeout,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Responder{client: client, opts: opts}
}

// Respond implements query.Responder with a single non-streaming completion.
// The bearer token is ignored: authentication against OpenAI is carried by
// the SDK client, not by the channel user's token.
func (r *Responder) Respond(ctx context.Context, input, _ string) query.Outcome {
	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	completion, err := r.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: r.opts.Model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(r.opts.Instruction),
			openai.UserMessage(input),
		},
		Temperature:         openai.Float(r.opts.Temperature),
		MaxCompletionTokens: openai.Int(r.opts.MaxCompletionTokens),
	})
	if err != nil {
		return classify(ctx, err)
	}
	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return query.ParseFallback(completion.RawJSON())
	}
	return query.Success(completion.Choices[0].Message.Content)
}

func classify(ctx context.Context, err error) query.Outcome {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return query.FromContextErr(ctxErr)
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return query.UpstreamError(apiErr.StatusCode)
	}
	return query.NetworkError(err.Error())
}
