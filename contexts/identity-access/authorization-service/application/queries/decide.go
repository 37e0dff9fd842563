package queries

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "phonedeck/contexts/identity-access/authorization-service/application"
	"phonedeck/contexts/identity-access/authorization-service/domain/entities"
	domainerrors "phonedeck/contexts/identity-access/authorization-service/domain/errors"
	"phonedeck/contexts/identity-access/authorization-service/ports"
)

// DecideUseCase is the single policy entry point. Every protected route
// dispatches a (caller, action, target) triple through Execute; the rule
// classes are evaluated in precedence order and lookup failures deny closed.
type DecideUseCase struct {
	Roles        ports.RoleReader
	RoleCache    ports.RoleCache
	Clock        ports.Clock
	RoleCacheTTL time.Duration
	Logger       *slog.Logger
}

// Execute evaluates one action. It never mutates state: denials and cache
// refreshes aside, the Identity Store is only ever read.
func (u DecideUseCase) Execute(
	ctx context.Context,
	caller ports.Caller,
	action ports.Action,
	target ports.Target,
) (entities.Decision, error) {
	if action.IsZero() {
		return entities.Decision{}, domainerrors.ErrUnknownAction
	}

	logger := application.ResolveLogger(u.Logger)
	now := u.now()
	decision := entities.Decision{
		CallerEmail: caller.Email,
		Action:      action.Name,
		CheckedAt:   now,
	}

	if action.Scope == ports.ScopePublic {
		decision.Allowed = true
		decision.Reason = entities.ReasonPublicAction
		return decision, nil
	}

	if !caller.Authenticated || strings.TrimSpace(caller.Email) == "" {
		decision.Reason = entities.ReasonUnauthenticated
		return decision, nil
	}

	switch action.Scope {
	case ports.ScopeSelf:
		if sameEmail(caller.Email, target.OwnerEmail) {
			decision.Allowed = true
			decision.Reason = entities.ReasonSelfScopeMatch
		} else {
			decision.Reason = entities.ReasonSelfScopeMismatch
		}

	case ports.ScopeAdmin:
		isAdmin, cacheHit, err := u.callerIsAdmin(ctx, caller.Email, now)
		decision.CacheHit = cacheHit
		if err != nil {
			logger.Error("role lookup failed, deny by default",
				"event", "authz_role_lookup_failed",
				"module", "identity-access/authorization-service",
				"layer", "application",
				"caller", caller.Email,
				"action", action.Name,
				"error", err.Error(),
			)
			decision.Reason = entities.ReasonDenyByDefault
			return decision, nil
		}
		if isAdmin {
			decision.Allowed = true
			decision.Reason = entities.ReasonAdminStatus
		} else {
			decision.Reason = entities.ReasonAdminStatusRequired
		}

	case ports.ScopeOwnerOrAdmin:
		if sameEmail(caller.Email, target.OwnerEmail) {
			decision.Allowed = true
			decision.Reason = entities.ReasonResourceOwner
			break
		}
		isAdmin, cacheHit, err := u.callerIsAdmin(ctx, caller.Email, now)
		decision.CacheHit = cacheHit
		if err != nil {
			logger.Error("role lookup failed, deny by default",
				"event", "authz_role_lookup_failed",
				"module", "identity-access/authorization-service",
				"layer", "application",
				"caller", caller.Email,
				"action", action.Name,
				"error", err.Error(),
			)
			decision.Reason = entities.ReasonDenyByDefault
			return decision, nil
		}
		if isAdmin {
			decision.Allowed = true
			decision.Reason = entities.ReasonAdminStatus
		} else {
			decision.Reason = entities.ReasonDenyByDefault
		}

	default:
		return entities.Decision{}, domainerrors.ErrUnknownAction
	}

	if !decision.Allowed {
		logger.Warn("action denied",
			"event", "authz_action_denied",
			"module", "identity-access/authorization-service",
			"layer", "application",
			"caller", caller.Email,
			"action", action.Name,
			"reason", decision.Reason,
		)
	}
	return decision, nil
}

func (u DecideUseCase) callerIsAdmin(ctx context.Context, email string, now time.Time) (bool, bool, error) {
	record, cacheHit, err := u.loadRole(ctx, email, now)
	if err != nil {
		return false, cacheHit, err
	}
	return record.Status == ports.StatusAdmin, cacheHit, nil
}

func (u DecideUseCase) loadRole(ctx context.Context, email string, now time.Time) (ports.RoleRecord, bool, error) {
	key := strings.ToLower(strings.TrimSpace(email))
	if u.RoleCache != nil {
		record, hit, err := u.RoleCache.Get(ctx, key, now)
		if err == nil && hit {
			return record, true, nil
		}
	}

	record, found, err := u.Roles.GetRoleRecord(ctx, key)
	if err != nil {
		return ports.RoleRecord{}, false, err
	}
	if !found {
		// unknown caller: evaluate as a recordless identity, never cached
		return ports.RoleRecord{Email: key}, false, nil
	}

	if u.RoleCache != nil {
		_ = u.RoleCache.Set(ctx, key, record, now.Add(u.cacheTTL()))
	}
	return record, false, nil
}

func (u DecideUseCase) cacheTTL() time.Duration {
	if u.RoleCacheTTL <= 0 {
		return 5 * time.Minute
	}
	return u.RoleCacheTTL
}

func (u DecideUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func sameEmail(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	return a != "" && a == b
}
