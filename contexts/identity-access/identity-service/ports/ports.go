package ports

import (
	"context"
	"time"
)

const (
	RoleNone   = "none"
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
)

const (
	StatusNone  = "none"
	StatusAdmin = "admin"
)

func IsValidRole(role string) bool {
	switch role {
	case RoleBuyer, RoleSeller:
		return true
	default:
		return false
	}
}

type Clock interface {
	Now() time.Time
}

// User is the identity record owned exclusively by this service.
// Role and status only ever move forward; see application.Service.
type User struct {
	Email     string
	Name      string
	Role      string
	Status    string
	Verified  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RoleCacheInvalidator drops cached role/status lookups after a mutation.
type RoleCacheInvalidator interface {
	Invalidate(ctx context.Context, email string) error
}

type Repository interface {
	CreateUser(ctx context.Context, user User) (User, error)
	GetUser(ctx context.Context, email string) (User, bool, error)
	ListSellers(ctx context.Context) ([]User, error)
	SetRole(ctx context.Context, email string, role string, now time.Time) (User, error)
	SetStatusAdmin(ctx context.Context, email string, now time.Time) (User, error)
	SetVerified(ctx context.Context, email string, now time.Time) (User, error)
	DeleteUser(ctx context.Context, email string) error
}
