package usecase

import (
	"github.com/google/uuid"

	"tessera/internal/domain"
)

// CreateIdentityHints are the optional identity fields a create request
// may carry. They are raw strings off the wire; a hint that does not parse
// as an identifier is treated as absent, never as an error.
type CreateIdentityHints struct {
	CustomerID   string
	UserID       string
	CreateUserID string
	UpdateUserID string
}

// UpdateIdentityHints are the optional identity fields of an update
// request. There is deliberately no CreateUserID hint: creation
// attribution is permanent.
type UpdateIdentityHints struct {
	CustomerID   string
	UserID       string
	UpdateUserID string
}

// ResolveCreateIdentity merges explicit request hints with the resolved
// caller identity. An explicit hint wins when it parses; otherwise the
// caller's value applies. Creator and first updater both default to the
// caller, since on creation they are the same person. Absent everywhere
// resolves to absent, which is valid for system-initiated operations.
func ResolveCreateIdentity(hints CreateIdentityHints, caller domain.Identity) domain.EffectiveIdentity {
	return domain.EffectiveIdentity{
		CustomerID:   pick(hints.CustomerID, caller.CustomerID),
		UserID:       pick(hints.UserID, caller.UserID),
		CreateUserID: pick(hints.CreateUserID, caller.UserID),
		UpdateUserID: pick(hints.UpdateUserID, caller.UserID),
	}
}

// ResolveUpdateIdentity is the update-side merge with the same precedence
// rule. CreateUserID is never part of the result.
func ResolveUpdateIdentity(hints UpdateIdentityHints, caller domain.Identity) domain.EffectiveIdentity {
	return domain.EffectiveIdentity{
		CustomerID:   pick(hints.CustomerID, caller.CustomerID),
		UserID:       pick(hints.UserID, caller.UserID),
		UpdateUserID: pick(hints.UpdateUserID, caller.UserID),
	}
}

func pick(explicit string, fallback *uuid.UUID) *uuid.UUID {
	if id := domain.ParseID(explicit); id != nil {
		return id
	}
	return fallback
}
