package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"phonedeck/contexts/identity-access/authorization-service/ports"
)

type cachedRole struct {
	Record    ports.RoleRecord
	ExpiresAt time.Time
}

// Store backs the engine in tests and local development: a seedable
// RoleReader plus a TTL RoleCache.
type Store struct {
	mu             sync.RWMutex
	recordsByEmail map[string]ports.RoleRecord
	cacheByEmail   map[string]cachedRole
}

func NewStore() *Store {
	return &Store{
		recordsByEmail: make(map[string]ports.RoleRecord),
		cacheByEmail:   make(map[string]cachedRole),
	}
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

// SeedRole installs an identity record for policy evaluation tests.
func (s *Store) SeedRole(record ports.RoleRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recordsByEmail[strings.ToLower(record.Email)] = record
}

func (s *Store) GetRoleRecord(_ context.Context, email string) (ports.RoleRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, found := s.recordsByEmail[strings.ToLower(email)]
	return record, found, nil
}

func (s *Store) Get(_ context.Context, email string, now time.Time) (ports.RoleRecord, bool, error) {
	s.mu.RLock()
	entry, found := s.cacheByEmail[strings.ToLower(email)]
	s.mu.RUnlock()
	if !found {
		return ports.RoleRecord{}, false, nil
	}
	if now.After(entry.ExpiresAt) {
		s.mu.Lock()
		delete(s.cacheByEmail, strings.ToLower(email))
		s.mu.Unlock()
		return ports.RoleRecord{}, false, nil
	}
	return entry.Record, true, nil
}

func (s *Store) Set(_ context.Context, email string, record ports.RoleRecord, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cacheByEmail[strings.ToLower(email)] = cachedRole{
		Record:    record,
		ExpiresAt: expiresAt,
	}
	return nil
}

func (s *Store) Invalidate(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.cacheByEmail, strings.ToLower(email))
	return nil
}
