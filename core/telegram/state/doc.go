// Package state stores per-user conversation sessions for Telegram bots.
// It is domain-agnostic: the session payload is a type parameter, so bots
// keep their own state machine and only delegate persistence here.
package state
