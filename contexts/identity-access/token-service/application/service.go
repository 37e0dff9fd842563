package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	domainerrors "phonedeck/contexts/identity-access/token-service/domain/errors"
	"phonedeck/contexts/identity-access/token-service/ports"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultTTL = 2 * time.Hour

// Service issues and verifies HS256 bearer credentials.
type Service struct {
	Users  ports.UserRegistry
	Clock  ports.Clock
	Secret []byte
	TTL    time.Duration
	Logger *slog.Logger
}

// Issue signs a credential for an existing user. Unknown emails fail with
// ErrNotRegistered so the endpoint can answer 403 without leaking detail.
func (s Service) Issue(ctx context.Context, email string) (ports.Credential, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return ports.Credential{}, domainerrors.ErrInvalidRequest
	}

	exists, err := s.Users.Exists(ctx, email)
	if err != nil {
		return ports.Credential{}, err
	}
	if !exists {
		return ports.Credential{}, domainerrors.ErrNotRegistered
	}

	now := s.now()
	expiresAt := now.Add(s.ttl())
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return ports.Credential{}, err
	}

	resolveLogger(s.Logger).Info("credential issued",
		"event", "token_credential_issued",
		"module", "identity-access/token-service",
		"layer", "application",
		"email", email,
		"expires_at", expiresAt,
	)
	return ports.Credential{
		Token:     signed,
		Email:     email,
		IssuedAt:  now,
		ExpiresAt: expiresAt,
	}, nil
}

// Verify resolves a bearer token into its caller email. Missing, malformed,
// badly signed, and expired tokens all collapse to ErrInvalidCredential.
func (s Service) Verify(_ context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", domainerrors.ErrInvalidCredential
	}

	claims := jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(
		token,
		&claims,
		func(*jwt.Token) (any, error) { return s.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid || strings.TrimSpace(claims.Subject) == "" {
		return "", domainerrors.ErrInvalidCredential
	}
	return strings.ToLower(claims.Subject), nil
}

func (s Service) ttl() time.Duration {
	if s.TTL <= 0 {
		return DefaultTTL
	}
	return s.TTL
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}
