// Package state houses concrete implementations of core.StateStore. The
// interface itself (and the state records) live in the core package to
// centralize domain contracts. Keeping only implementations here prevents
// higher level packages (router, façade) from depending on concrete storage.
//
// Add additional backends (Redis, Cosmos, Postgres, etc.) in sub-packages
// without changing any calling code; only the wiring layer needs to decide
// which implementation to instantiate.
package state
