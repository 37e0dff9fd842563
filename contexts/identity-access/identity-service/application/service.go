package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	domainerrors "phonedeck/contexts/identity-access/identity-service/domain/errors"
	"phonedeck/contexts/identity-access/identity-service/ports"
)

// Service owns the User lifecycle and the role/status state machine.
// Transitions are monotonic: none -> buyer|seller (self, one-time),
// seller -> verified (admin), any -> admin status (admin). Nothing demotes;
// removing seller/admin status requires deleting the record.
type Service struct {
	Repo      ports.Repository
	RoleCache ports.RoleCacheInvalidator
	Clock     ports.Clock
	Logger    *slog.Logger
}

type RoleFlags struct {
	Email    string
	IsBuyer  bool
	IsSeller bool
	Verified bool
}

func (s Service) Register(ctx context.Context, email string, name string, role string) (ports.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return ports.User{}, domainerrors.ErrInvalidRequest
	}
	role = strings.ToLower(strings.TrimSpace(role))
	if role != "" && !ports.IsValidRole(role) {
		return ports.User{}, domainerrors.ErrInvalidRole
	}
	if role == "" {
		role = ports.RoleNone
	}

	now := s.now()
	user, err := s.Repo.CreateUser(ctx, ports.User{
		Email:     email,
		Name:      strings.TrimSpace(name),
		Role:      role,
		Status:    ports.StatusNone,
		Verified:  false,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return ports.User{}, err
	}

	resolveLogger(s.Logger).Info("user registered",
		"event", "identity_user_registered",
		"module", "identity-access/identity-service",
		"layer", "application",
		"email", user.Email,
		"role", user.Role,
	)
	return user, nil
}

func (s Service) GetUser(ctx context.Context, email string) (ports.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return ports.User{}, domainerrors.ErrInvalidRequest
	}
	user, found, err := s.Repo.GetUser(ctx, email)
	if err != nil {
		return ports.User{}, err
	}
	if !found {
		return ports.User{}, domainerrors.ErrUserNotFound
	}
	return user, nil
}

// RoleFlags answers the public role probe without exposing the full record.
func (s Service) RoleFlags(ctx context.Context, email string) (RoleFlags, error) {
	user, err := s.GetUser(ctx, email)
	if err != nil {
		return RoleFlags{}, err
	}
	return RoleFlags{
		Email:    user.Email,
		IsBuyer:  user.Role == ports.RoleBuyer,
		IsSeller: user.Role == ports.RoleSeller,
		Verified: user.Verified,
	}, nil
}

func (s Service) IsAdmin(ctx context.Context, email string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" {
		return false, domainerrors.ErrInvalidRequest
	}
	user, found, err := s.Repo.GetUser(ctx, email)
	if err != nil {
		return false, err
	}
	return found && user.Status == ports.StatusAdmin, nil
}

// CompleteBuyerSignup is the self-service none -> buyer transition.
func (s Service) CompleteBuyerSignup(ctx context.Context, email string) (ports.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return ports.User{}, domainerrors.ErrInvalidRequest
	}
	user, err := s.Repo.SetRole(ctx, email, ports.RoleBuyer, s.now())
	if err != nil {
		return ports.User{}, err
	}
	s.invalidateRoleCache(ctx, email)
	resolveLogger(s.Logger).Info("buyer signup completed",
		"event", "identity_buyer_signup_completed",
		"module", "identity-access/identity-service",
		"layer", "application",
		"email", email,
	)
	return user, nil
}

// GrantAdmin escalates status to admin. Monotonic: granting to an existing
// admin is a no-op, never an error.
func (s Service) GrantAdmin(ctx context.Context, email string) (ports.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return ports.User{}, domainerrors.ErrInvalidRequest
	}
	user, err := s.Repo.SetStatusAdmin(ctx, email, s.now())
	if err != nil {
		return ports.User{}, err
	}
	s.invalidateRoleCache(ctx, email)
	resolveLogger(s.Logger).Info("admin status granted",
		"event", "identity_admin_granted",
		"module", "identity-access/identity-service",
		"layer", "application",
		"email", email,
	)
	return user, nil
}

// VerifySeller marks a seller verified. Monotonic; rejects non-sellers.
func (s Service) VerifySeller(ctx context.Context, email string) (ports.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return ports.User{}, domainerrors.ErrInvalidRequest
	}
	user, err := s.Repo.SetVerified(ctx, email, s.now())
	if err != nil {
		return ports.User{}, err
	}
	s.invalidateRoleCache(ctx, email)
	resolveLogger(s.Logger).Info("seller verified",
		"event", "identity_seller_verified",
		"module", "identity-access/identity-service",
		"layer", "application",
		"email", email,
	)
	return user, nil
}

func (s Service) ListSellers(ctx context.Context) ([]ports.User, error) {
	return s.Repo.ListSellers(ctx)
}

// DeleteSeller removes a seller record entirely. Only sellers can be deleted;
// this is the single path to removing seller status.
func (s Service) DeleteSeller(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return domainerrors.ErrInvalidRequest
	}
	user, found, err := s.Repo.GetUser(ctx, email)
	if err != nil {
		return err
	}
	if !found {
		return domainerrors.ErrUserNotFound
	}
	if user.Role != ports.RoleSeller {
		return domainerrors.ErrSellerDeletionOnly
	}
	if err := s.Repo.DeleteUser(ctx, email); err != nil {
		return err
	}
	s.invalidateRoleCache(ctx, email)
	resolveLogger(s.Logger).Info("seller deleted",
		"event", "identity_seller_deleted",
		"module", "identity-access/identity-service",
		"layer", "application",
		"email", email,
	)
	return nil
}

func (s Service) invalidateRoleCache(ctx context.Context, email string) {
	if s.RoleCache == nil {
		return
	}
	if err := s.RoleCache.Invalidate(ctx, email); err != nil {
		resolveLogger(s.Logger).Warn("role cache invalidation failed",
			"event", "identity_role_cache_invalidation_failed",
			"module", "identity-access/identity-service",
			"layer", "application",
			"email", email,
			"error", err.Error(),
		)
	}
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
