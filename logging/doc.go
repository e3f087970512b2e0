// Package logging provides a minimal logging interface and adapters for
// turngate.
//
// The Logger interface defines the standard logging methods (Debug, Info,
// Warn, Error) that the router, state store and query clients use for
// observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//   - GatewayLogger with contextual helpers (component, conversation) and
//     domain specific helpers for turns, downstream query calls and sign-in
//     outcomes
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	gw := turngate.New(func(o *turngate.Options) { o.Logger = logger })
//
// The design intentionally keeps the interface minimal to avoid vendor
// lock-in while supporting structured logging where available.
package logging
