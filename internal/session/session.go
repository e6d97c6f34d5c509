package session

import "github.com/google/uuid"

// Session is an anonymous client session: a random id plus the outcome
// of the identity-verification challenge. No accounts, no passwords.
type Session struct {
	ID       string
	Verified bool
}

func New() Session {
	return Session{ID: uuid.NewString()}
}
