package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"tessera/internal/domain"
)

// Enricher resolves display identities for the audit ids referenced by a
// materialized result set. It issues at most one directory call per
// invocation regardless of how many entities or duplicate ids the set
// contains.
type Enricher struct {
	Directory domain.Directory
	Log       logrus.FieldLogger
}

// Enrich collects the union of owner and audit ids across the entities,
// plus any entity-specific reference ids passed in extra, and resolves
// them in one batched lookup. Ids the directory does not know map to the
// unknown sentinel. A directory failure degrades every id to the sentinel
// instead of failing the read path; the caller's context carries
// cancellation into the lookup.
func (e *Enricher) Enrich(ctx context.Context, entities []domain.Owned, extra ...uuid.UUID) map[uuid.UUID]domain.DisplayIdentity {
	seen := make(map[uuid.UUID]struct{})
	add := func(id *uuid.UUID) {
		if id != nil {
			seen[*id] = struct{}{}
		}
	}
	for _, entity := range entities {
		add(entity.OwnerUserID())
		add(entity.CreatedBy())
		add(entity.UpdatedBy())
	}
	for _, id := range extra {
		seen[id] = struct{}{}
	}
	if len(seen) == 0 {
		return map[uuid.UUID]domain.DisplayIdentity{}
	}

	ids := make([]uuid.UUID, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}

	resolved := map[uuid.UUID]domain.DisplayIdentity{}
	if e.Directory != nil {
		found, err := e.Directory.GetDetails(ctx, ids)
		if err != nil {
			if e.Log != nil {
				e.Log.WithError(err).Warn("audit enrichment degraded, identities resolve to unknown")
			}
		} else {
			resolved = found
		}
	}

	out := make(map[uuid.UUID]domain.DisplayIdentity, len(ids))
	for _, id := range ids {
		if display, ok := resolved[id]; ok {
			out[id] = display
		} else {
			out[id] = domain.UnknownDisplayIdentity
		}
	}
	return out
}
