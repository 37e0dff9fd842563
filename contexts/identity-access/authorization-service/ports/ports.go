package ports

import (
	"context"
	"time"
)

// StatusAdmin mirrors the Identity Store's admin status value.
const StatusAdmin = "admin"

type Clock interface {
	Now() time.Time
}

// RoleRecord is the slice of identity state policy evaluation needs.
type RoleRecord struct {
	Email    string `json:"email"`
	Role     string `json:"role"`
	Status   string `json:"status"`
	Verified bool   `json:"verified"`
}

// RoleReader loads current role/status for a caller. Implemented over the
// Identity Store; lookups are read-only.
type RoleReader interface {
	GetRoleRecord(ctx context.Context, email string) (RoleRecord, bool, error)
}

// RoleCache stores role lookups with TTL semantics. Identity mutations must
// invalidate the affected email.
type RoleCache interface {
	Get(ctx context.Context, email string, now time.Time) (RoleRecord, bool, error)
	Set(ctx context.Context, email string, record RoleRecord, expiresAt time.Time) error
	Invalidate(ctx context.Context, email string) error
}

// Caller is the identity recovered from credential verification. Email is
// empty and Authenticated false for anonymous requests.
type Caller struct {
	Email         string
	Authenticated bool
}

// Target carries the owning email of the resource under evaluation. Zero for
// public and admin-scoped actions.
type Target struct {
	OwnerEmail string
}
