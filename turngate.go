// Package turngate provides a high-level façade over the turn router and
// its collaborators (state store, sign-in machine, downstream responder &
// logging) enabling rapid construction of conversational agent gateways.
// Most applications interact with this package by:
//  1. Creating a Gateway via New() or FromConfig() (optionally overriding
//     the default in-memory services)
//  2. Feeding it channel turn events through Process, together with a
//     ReplySender owned by the transport adapter
//
// The façade delegates orchestration to router.Router while keeping setup
// ergonomics concise. All defaults are safe for local development and
// testing; production deployments typically supply a durable state store,
// a real identity provider and a structured logger.
package turngate

import (
	"context"
	"time"

	"github.com/hupe1980/turngate/auth"
	"github.com/hupe1980/turngate/config"
	"github.com/hupe1980/turngate/core"
	"github.com/hupe1980/turngate/logging"
	"github.com/hupe1980/turngate/query"
	"github.com/hupe1980/turngate/router"
	"github.com/hupe1980/turngate/state"
)

// Options configures the Gateway instance.
type Options struct {
	// Store persists conversation and user state (defaults to in-memory).
	Store core.StateStore
	// Responder answers the default message path. Nil degrades to echo.
	Responder query.Responder
	// Provider handles sign-out against the identity provider.
	Provider auth.Provider
	// Profiles resolves the profile command lookup.
	Profiles auth.ProfileFetcher
	// ConnectionName enables the sign-in machine when non-empty.
	ConnectionName string
	// AuthRequired gates the query path behind a cached token.
	AuthRequired bool
	// PromptText overrides the sign-in prompt.
	PromptText string
	// SignInTimeout overrides the sign-in prompt window.
	SignInTimeout time.Duration
	// WelcomeText overrides the members-added greeting.
	WelcomeText string
	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// Gateway is the high-level façade aggregating the router and its services.
type Gateway struct {
	opts   Options
	router *router.Router
}

// New creates a Gateway with optional overrides. Any unset service is
// initialized with an in-memory or no-op implementation.
func New(optFns ...func(o *Options)) *Gateway {
	opts := Options{
		Store:         state.NewInMemoryStore(),
		Provider:      auth.NopProvider{},
		SignInTimeout: auth.DefaultSignInTimeout,
		WelcomeText:   router.DefaultWelcomeText,
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	var machine *auth.Machine
	if opts.ConnectionName != "" {
		machine = auth.NewMachine(opts.ConnectionName, opts.Provider, func(o *auth.Options) {
			if opts.PromptText != "" {
				o.PromptText = opts.PromptText
			}
			if opts.SignInTimeout > 0 {
				o.SignInTimeout = opts.SignInTimeout
			}
			o.Profiles = opts.Profiles
			o.Logger = opts.Logger
		})
	} else if opts.AuthRequired {
		// Matches the degradation rule: without a connection name the
		// authentication features are disabled, so the gate cannot hold.
		opts.Logger.Warn("auth required but no connection name configured; authentication features disabled")
		opts.AuthRequired = false
	}

	r := router.New(opts.Store, func(o *router.Options) {
		o.Responder = opts.Responder
		o.Machine = machine
		o.AuthRequired = opts.AuthRequired
		o.WelcomeText = opts.WelcomeText
		o.Logger = opts.Logger
	})

	return &Gateway{opts: opts, router: r}
}

// FromConfig wires a Gateway from a validated configuration: the HTTP
// recommender client when an endpoint is set, the HTTP profile client when a
// profile endpoint is set, and the sign-in machine when a connection name is
// present. Explicit option overrides still win.
func FromConfig(cfg config.Config, optFns ...func(o *Options)) (*Gateway, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	base := func(o *Options) {
		o.ConnectionName = cfg.ConnectionName
		o.AuthRequired = cfg.AuthRequired
		o.SignInTimeout = cfg.SignInTimeout
		if cfg.Endpoint != "" {
			o.Responder = query.NewClient(cfg.Endpoint, func(qo *query.Options) {
				qo.Timeout = cfg.QueryTimeout
			})
		}
		if cfg.ProfileEndpoint != "" {
			o.Profiles = auth.NewProfileClient(cfg.ProfileEndpoint)
		}
	}

	return New(append([]func(o *Options){base}, optFns...)...), nil
}

// Process handles one inbound turn, emitting replies through the sender and
// persisting state exactly once. It is safe for concurrent use across
// distinct conversations.
func (g *Gateway) Process(ctx context.Context, turn core.Turn, sender core.ReplySender) error {
	return g.router.Process(ctx, turn, sender)
}
