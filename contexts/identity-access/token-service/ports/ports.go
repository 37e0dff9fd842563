package ports

import (
	"context"
	"time"
)

type Clock interface {
	Now() time.Time
}

// UserRegistry answers whether an email is a registered user. Credentials are
// only ever issued for existing identities.
type UserRegistry interface {
	Exists(ctx context.Context, email string) (bool, error)
}

// Credential is a short-lived bearer token bound to an email. Stateless: it is
// never persisted and is derivable from the user record's existence alone.
type Credential struct {
	Token     string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
