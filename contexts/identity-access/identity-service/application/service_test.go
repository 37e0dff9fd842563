package application_test

import (
	"context"
	"errors"
	"testing"

	"phonedeck/contexts/identity-access/identity-service/adapters/memory"
	"phonedeck/contexts/identity-access/identity-service/application"
	domainerrors "phonedeck/contexts/identity-access/identity-service/domain/errors"
	"phonedeck/contexts/identity-access/identity-service/ports"
)

func newService() (application.Service, *memory.Store) {
	store := memory.NewStore()
	return application.Service{Repo: store, Clock: store}, store
}

func TestRegisterDefaultsToNoRole(t *testing.T) {
	service, _ := newService()

	user, err := service.Register(context.Background(), "Pat@Example.com", "Pat", "")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Email != "pat@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.Role != ports.RoleNone {
		t.Fatalf("expected role none, got %q", user.Role)
	}
	if user.Status != ports.StatusNone || user.Verified {
		t.Fatalf("expected unprivileged fresh user, got status=%q verified=%v", user.Status, user.Verified)
	}
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	service, _ := newService()

	if _, err := service.Register(context.Background(), "pat@example.com", "Pat", "superuser"); !errors.Is(err, domainerrors.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	service, _ := newService()

	if _, err := service.Register(context.Background(), "pat@example.com", "Pat", "buyer"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := service.Register(context.Background(), "pat@example.com", "Pat", "buyer"); !errors.Is(err, domainerrors.ErrEmailAlreadyRegistered) {
		t.Fatalf("expected ErrEmailAlreadyRegistered, got %v", err)
	}
}

func TestCompleteBuyerSignupIsOneTime(t *testing.T) {
	service, _ := newService()

	if _, err := service.Register(context.Background(), "pat@example.com", "Pat", ""); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	user, err := service.CompleteBuyerSignup(context.Background(), "pat@example.com")
	if err != nil {
		t.Fatalf("buyer signup failed: %v", err)
	}
	if user.Role != ports.RoleBuyer {
		t.Fatalf("expected buyer role, got %q", user.Role)
	}

	if _, err := service.CompleteBuyerSignup(context.Background(), "pat@example.com"); !errors.Is(err, domainerrors.ErrRoleAlreadyAssigned) {
		t.Fatalf("expected ErrRoleAlreadyAssigned on second transition, got %v", err)
	}
}

func TestBuyerSignupCannotOverwriteSellerRole(t *testing.T) {
	service, _ := newService()

	if _, err := service.Register(context.Background(), "sam@example.com", "Sam", ports.RoleSeller); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := service.CompleteBuyerSignup(context.Background(), "sam@example.com"); !errors.Is(err, domainerrors.ErrRoleAlreadyAssigned) {
		t.Fatalf("expected ErrRoleAlreadyAssigned, got %v", err)
	}
}

func TestGrantAdminIsMonotonic(t *testing.T) {
	service, _ := newService()

	if _, err := service.Register(context.Background(), "root@example.com", "Root", "buyer"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	first, err := service.GrantAdmin(context.Background(), "root@example.com")
	if err != nil {
		t.Fatalf("grant admin failed: %v", err)
	}
	if first.Status != ports.StatusAdmin {
		t.Fatalf("expected admin status, got %q", first.Status)
	}

	second, err := service.GrantAdmin(context.Background(), "root@example.com")
	if err != nil {
		t.Fatalf("repeat grant should be a no-op, got %v", err)
	}
	if second.Status != ports.StatusAdmin {
		t.Fatalf("expected admin status preserved, got %q", second.Status)
	}
}

func TestVerifySellerRejectsNonSellers(t *testing.T) {
	service, _ := newService()

	if _, err := service.Register(context.Background(), "pat@example.com", "Pat", "buyer"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := service.VerifySeller(context.Background(), "pat@example.com"); !errors.Is(err, domainerrors.ErrNotSeller) {
		t.Fatalf("expected ErrNotSeller, got %v", err)
	}

	if _, err := service.Register(context.Background(), "sam@example.com", "Sam", ports.RoleSeller); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	user, err := service.VerifySeller(context.Background(), "sam@example.com")
	if err != nil {
		t.Fatalf("verify seller failed: %v", err)
	}
	if !user.Verified {
		t.Fatalf("expected verified seller")
	}
}

func TestDeleteSellerOnly(t *testing.T) {
	service, _ := newService()

	if _, err := service.Register(context.Background(), "pat@example.com", "Pat", "buyer"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := service.DeleteSeller(context.Background(), "pat@example.com"); !errors.Is(err, domainerrors.ErrSellerDeletionOnly) {
		t.Fatalf("expected ErrSellerDeletionOnly, got %v", err)
	}
	if err := service.DeleteSeller(context.Background(), "ghost@example.com"); !errors.Is(err, domainerrors.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	if _, err := service.Register(context.Background(), "sam@example.com", "Sam", ports.RoleSeller); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := service.DeleteSeller(context.Background(), "sam@example.com"); err != nil {
		t.Fatalf("delete seller failed: %v", err)
	}
	if _, err := service.GetUser(context.Background(), "sam@example.com"); !errors.Is(err, domainerrors.ErrUserNotFound) {
		t.Fatalf("expected seller record gone, got %v", err)
	}
}

func TestRoleFlagsShape(t *testing.T) {
	service, _ := newService()

	if _, err := service.Register(context.Background(), "sam@example.com", "Sam", ports.RoleSeller); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	flags, err := service.RoleFlags(context.Background(), "sam@example.com")
	if err != nil {
		t.Fatalf("role flags failed: %v", err)
	}
	if flags.IsBuyer || !flags.IsSeller {
		t.Fatalf("expected seller flags, got %+v", flags)
	}

	if _, err := service.RoleFlags(context.Background(), "ghost@example.com"); !errors.Is(err, domainerrors.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for unknown email, got %v", err)
	}
}
