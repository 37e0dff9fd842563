package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"phonedeck/contexts/identity-access/token-service/application"
	domainerrors "phonedeck/contexts/identity-access/token-service/domain/errors"
)

type fakeRegistry map[string]bool

func (f fakeRegistry) Exists(_ context.Context, email string) (bool, error) {
	return f[email], nil
}

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	return f.now
}

func newTokenService(clock *fakeClock) application.Service {
	return application.Service{
		Users:  fakeRegistry{"pat@example.com": true},
		Clock:  clock,
		Secret: []byte("test-secret"),
	}
}

func TestIssueAndVerifyRoundtrip(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	service := newTokenService(clock)

	credential, err := service.Issue(context.Background(), "Pat@Example.com")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if credential.Token == "" {
		t.Fatalf("expected signed token")
	}
	if got := credential.ExpiresAt.Sub(credential.IssuedAt); got != 2*time.Hour {
		t.Fatalf("expected 2h lifetime, got %s", got)
	}

	email, err := service.Verify(context.Background(), credential.Token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if email != "pat@example.com" {
		t.Fatalf("expected subject pat@example.com, got %q", email)
	}
}

func TestIssueRejectsUnregisteredEmail(t *testing.T) {
	service := newTokenService(&fakeClock{now: time.Now().UTC()})

	if _, err := service.Issue(context.Background(), "ghost@example.com"); !errors.Is(err, domainerrors.ErrNotRegistered) {
		t.Fatalf("expected ErrNotRegistered, got %v", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	service := newTokenService(clock)

	credential, err := service.Issue(context.Background(), "pat@example.com")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	clock.now = clock.now.Add(2*time.Hour + time.Minute)
	if _, err := service.Verify(context.Background(), credential.Token); !errors.Is(err, domainerrors.ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential after expiry, got %v", err)
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	service := newTokenService(clock)

	credential, err := service.Issue(context.Background(), "pat@example.com")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	other := newTokenService(clock)
	other.Secret = []byte("different-secret")
	if _, err := other.Verify(context.Background(), credential.Token); !errors.Is(err, domainerrors.ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential on wrong key, got %v", err)
	}

	if _, err := service.Verify(context.Background(), credential.Token+"x"); !errors.Is(err, domainerrors.ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential on tampered token, got %v", err)
	}
}

func TestVerifyRejectsEmptyToken(t *testing.T) {
	service := newTokenService(&fakeClock{now: time.Now().UTC()})

	if _, err := service.Verify(context.Background(), "  "); !errors.Is(err, domainerrors.ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential, got %v", err)
	}
}
