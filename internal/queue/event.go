// Package queue defines message payloads exchanged over the message broker.
package queue

// Event kinds published to the auth.events queue.
const (
	EventUserRegistered = "user.registered"
	EventUserLogin      = "user.login"
	EventUserLogout     = "user.logout"
)

// AuthEvent is published after a registration, login or logout completes.
// Consumers (audit log, fraud tooling) get enough context without querying
// the primary database. The event never carries credentials or tokens.
type AuthEvent struct {
	Kind       string `json:"kind"`
	UID        uint64 `json:"uid"`
	Username   string `json:"username"`
	OccurredAt string `json:"occurred_at"`
}
