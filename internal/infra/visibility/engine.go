// Package visibility decides how queries are scoped for callers whose
// identity is not fully resolved. The decision is a named policy, never an
// implicit default: either a static policy from configuration or an OPA
// bundle evaluated per request.
package visibility

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/open-policy-agent/opa/rego"

	"tessera/internal/domain"
)

const defaultQuery = "data.tessera.visibility.result"

type Engine struct {
	query      rego.PreparedEvalQuery
	bundleHash string
	bundleID   string
}

func NewEngineFromBundlePath(ctx context.Context, bundlePath string, bundleID string) (*Engine, error) {
	bundleHash, err := ComputeBundleHashFromPath(bundlePath)
	if err != nil {
		return nil, err
	}

	r := rego.New(
		rego.Query(defaultQuery),
		rego.StrictBuiltinErrors(true),
		rego.Load([]string{bundlePath}, nil),
	)
	prepared, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, err
	}

	return &Engine{
		query:      prepared,
		bundleHash: bundleHash,
		bundleID:   bundleID,
	}, nil
}

func (e *Engine) BundleHash() string {
	return e.bundleHash
}

func (e *Engine) BundleID() string {
	return e.bundleID
}

func (e *Engine) Decide(ctx context.Context, input domain.VisibilityInput) (domain.VisibilityPolicy, error) {
	if e == nil {
		return "", errors.New("visibility engine is nil")
	}
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", err
	}
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return "", errors.New("empty visibility result")
	}
	policy, err := decodeResult(results[0].Expressions[0].Value)
	if err != nil {
		return "", err
	}
	if !policy.Valid() {
		return "", fmt.Errorf("unknown visibility policy %q", policy)
	}
	return policy, nil
}

func decodeResult(value any) (domain.VisibilityPolicy, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	var result struct {
		Policy string `json:"policy"`
	}
	if err := json.Unmarshal(payload, &result); err != nil {
		return "", err
	}
	return domain.VisibilityPolicy(result.Policy), nil
}

var _ domain.VisibilityEngine = (*Engine)(nil)
