package domain

import "context"

// VisibilityPolicy names the behavior applied when the caller's identity
// is not fully resolved. A complete identity always narrows queries to
// owned rows; the policy only governs the partial and anonymous cases.
type VisibilityPolicy string

const (
	// VisibilityFailOpen leaves partially identified callers unscoped
	// beyond the active/not-deleted predicate. This matches the reference
	// behavior and suits system-initiated operations without a tenant.
	VisibilityFailOpen VisibilityPolicy = "fail_open"

	// VisibilityFailClosed makes partially identified callers match no
	// rows at all.
	VisibilityFailClosed VisibilityPolicy = "fail_closed"
)

func (p VisibilityPolicy) Valid() bool {
	return p == VisibilityFailOpen || p == VisibilityFailClosed
}

// VisibilityInput describes one query authorization for the policy engine.
type VisibilityInput struct {
	HasUserID     bool `json:"has_user_id"`
	HasCustomerID bool `json:"has_customer_id"`
}

// VisibilityEngine decides the visibility policy for one request.
type VisibilityEngine interface {
	Decide(ctx context.Context, input VisibilityInput) (VisibilityPolicy, error)
}
