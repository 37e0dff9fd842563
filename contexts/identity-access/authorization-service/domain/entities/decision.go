package entities

import "time"

// Decision is the outcome of one policy evaluation. Evaluations never mutate
// state; a denial carries the reason the precedence chain stopped.
type Decision struct {
	CallerEmail string    `json:"caller_email,omitempty"`
	Action      string    `json:"action"`
	Allowed     bool      `json:"allowed"`
	Reason      string    `json:"reason"`
	CheckedAt   time.Time `json:"checked_at"`
	CacheHit    bool      `json:"cache_hit"`
}

const (
	ReasonPublicAction        = "public_action"
	ReasonSelfScopeMatch      = "self_scope_match"
	ReasonSelfScopeMismatch   = "self_scope_mismatch"
	ReasonAdminStatus         = "admin_status"
	ReasonAdminStatusRequired = "admin_status_required"
	ReasonResourceOwner       = "resource_owner"
	ReasonUnauthenticated     = "unauthenticated"
	ReasonDenyByDefault       = "deny_by_default"
)
