// Package router classifies inbound turns and orchestrates one processing
// pass per turn: load state, dispatch to the sign-in machine, a housekeeping
// command or the query path, emit replies, then persist each touched
// partition exactly once regardless of which branch executed.
//
// Dispatch is an exhaustive switch over the turn kind followed by a
// case-insensitive match against the fixed command set (/reset, /signout,
// logout, login, profile). There is no dialog tree beyond the single linear
// sign-in sequence owned by the auth package.
package router
