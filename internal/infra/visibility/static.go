package visibility

import (
	"context"
	"fmt"

	"tessera/internal/domain"
)

// Static always answers with one configured policy. It is the engine used
// when no bundle is configured.
type Static struct {
	Policy domain.VisibilityPolicy
}

func NewStatic(policy domain.VisibilityPolicy) (Static, error) {
	if !policy.Valid() {
		return Static{}, fmt.Errorf("unknown visibility policy %q", policy)
	}
	return Static{Policy: policy}, nil
}

func (s Static) Decide(_ context.Context, _ domain.VisibilityInput) (domain.VisibilityPolicy, error) {
	return s.Policy, nil
}

var _ domain.VisibilityEngine = Static{}
