// Package core contains the domain contracts shared by every turngate
// package: the Turn tagged union describing one inbound channel event, the
// Reply value emitted back to the user, the durable per-conversation and
// per-user state records, the StateStore persistence contract, the
// TurnContext passed through a single orchestration pass, and the typed
// error taxonomy.
//
// Keeping only contracts here (implementations live in state/, query/,
// auth/ and router/) prevents higher level packages from depending on
// concrete storage or transport choices; only the wiring layer decides
// which implementation to instantiate.
package core
