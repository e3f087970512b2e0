package core

import "fmt"

// StorageError wraps a load or save fault from the state store. The turn is
// aborted with a generic apology; no partial state is written.
type StorageError struct {
	Op  string // "load" or "save"
	Key string
	Err error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed for %q: %v", e.Op, e.Key, e.Err)
}

// Unwrap returns the underlying cause.
func (e *StorageError) Unwrap() error { return e.Err }

// AuthProviderError reports a failed sign-in/out exchange with the identity
// provider. The provider's message is surfaced to the user and the machine
// reverts; the error is never fatal to the process.
type AuthProviderError struct {
	Stage   string // "signout", "profile", "exchange"
	Message string
}

// Error implements the error interface.
func (e *AuthProviderError) Error() string {
	return fmt.Sprintf("auth provider %s failed: %s", e.Stage, e.Message)
}

// ConfigError reports a missing or invalid configuration value detected at
// wiring time. Missing authentication settings degrade the feature to
// disabled instead of raising this error.
type ConfigError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config field %s: %s", e.Field, e.Reason)
}
