package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	domainerrors "phonedeck/contexts/identity-access/identity-service/domain/errors"
	"phonedeck/contexts/identity-access/identity-service/ports"
)

// Store is the in-memory Repository used by tests and local development.
type Store struct {
	mu           sync.RWMutex
	usersByEmail map[string]ports.User
}

func NewStore() *Store {
	return &Store{
		usersByEmail: make(map[string]ports.User),
	}
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) CreateUser(_ context.Context, user ports.User) (ports.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, exists := s.usersByEmail[key]; exists {
		return ports.User{}, domainerrors.ErrEmailAlreadyRegistered
	}
	s.usersByEmail[key] = user
	return user, nil
}

func (s *Store) GetUser(_ context.Context, email string) (ports.User, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, found := s.usersByEmail[strings.ToLower(email)]
	return user, found, nil
}

func (s *Store) ListSellers(_ context.Context) ([]ports.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ports.User, 0)
	for _, user := range s.usersByEmail {
		if user.Role == ports.RoleSeller {
			items = append(items, user)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Email < items[j].Email })
	return items, nil
}

func (s *Store) SetRole(_ context.Context, email string, role string, now time.Time) (ports.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(email)
	user, found := s.usersByEmail[key]
	if !found {
		return ports.User{}, domainerrors.ErrUserNotFound
	}
	if user.Role == role {
		return ports.User{}, domainerrors.ErrRoleAlreadyAssigned
	}
	if user.Role != ports.RoleNone {
		// one-time transition only; a held role never changes
		return ports.User{}, domainerrors.ErrRoleAlreadyAssigned
	}
	user.Role = role
	user.UpdatedAt = now
	s.usersByEmail[key] = user
	return user, nil
}

func (s *Store) SetStatusAdmin(_ context.Context, email string, now time.Time) (ports.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(email)
	user, found := s.usersByEmail[key]
	if !found {
		return ports.User{}, domainerrors.ErrUserNotFound
	}
	if user.Status != ports.StatusAdmin {
		user.Status = ports.StatusAdmin
		user.UpdatedAt = now
		s.usersByEmail[key] = user
	}
	return user, nil
}

func (s *Store) SetVerified(_ context.Context, email string, now time.Time) (ports.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(email)
	user, found := s.usersByEmail[key]
	if !found {
		return ports.User{}, domainerrors.ErrUserNotFound
	}
	if user.Role != ports.RoleSeller {
		return ports.User{}, domainerrors.ErrNotSeller
	}
	if !user.Verified {
		user.Verified = true
		user.UpdatedAt = now
		s.usersByEmail[key] = user
	}
	return user, nil
}

func (s *Store) DeleteUser(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(email)
	if _, found := s.usersByEmail[key]; !found {
		return domainerrors.ErrUserNotFound
	}
	delete(s.usersByEmail, key)
	return nil
}
