package domain

import (
	"context"

	"github.com/google/uuid"
)

// DisplayIdentity pairs one audit id with its resolved display names.
// Built per response and discarded after serialization.
type DisplayIdentity struct {
	UserName     string
	CustomerName string
	FullName     string
}

// UnknownDisplayName marks an id that was looked up and not found,
// distinguishing it from an id that was never looked up at all.
const UnknownDisplayName = "unknown"

var UnknownDisplayIdentity = DisplayIdentity{
	UserName:     UnknownDisplayName,
	CustomerName: UnknownDisplayName,
	FullName:     UnknownDisplayName,
}

// Directory resolves display identities for a batch of ids in a single
// call. Implementations are idempotent and side-effect-free.
type Directory interface {
	GetDetails(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]DisplayIdentity, error)
}
