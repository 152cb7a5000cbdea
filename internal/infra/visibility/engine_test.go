package visibility

import (
	"context"
	"path/filepath"
	"testing"

	"tessera/internal/domain"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	path := filepath.Join("..", "..", "..", "policy", "bundles", "visibility_v0")
	engine, err := NewEngineFromBundlePath(context.Background(), path, "visibility_v0")
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngine_Decisions(t *testing.T) {
	engine := newEngine(t)

	tests := []struct {
		name  string
		input domain.VisibilityInput
		want  domain.VisibilityPolicy
	}{
		{
			name:  "complete identity",
			input: domain.VisibilityInput{HasUserID: true, HasCustomerID: true},
			want:  domain.VisibilityFailOpen,
		},
		{
			name:  "anonymous",
			input: domain.VisibilityInput{},
			want:  domain.VisibilityFailOpen,
		},
		{
			name:  "user without customer",
			input: domain.VisibilityInput{HasUserID: true},
			want:  domain.VisibilityFailClosed,
		},
		{
			name:  "customer without user",
			input: domain.VisibilityInput{HasCustomerID: true},
			want:  domain.VisibilityFailClosed,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := engine.Decide(context.Background(), tc.input)
			if err != nil {
				t.Fatalf("decide: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestEngine_Deterministic(t *testing.T) {
	engine := newEngine(t)
	input := domain.VisibilityInput{HasUserID: true}

	first, err := engine.Decide(context.Background(), input)
	if err != nil {
		t.Fatalf("decide first: %v", err)
	}
	second, err := engine.Decide(context.Background(), input)
	if err != nil {
		t.Fatalf("decide second: %v", err)
	}
	if first != second {
		t.Fatal("expected deterministic policy evaluation")
	}
	if engine.BundleHash() == "" {
		t.Fatal("expected bundle hash to be set")
	}
}

func TestStatic(t *testing.T) {
	if _, err := NewStatic("whatever"); err == nil {
		t.Fatal("expected error for unknown policy")
	}
	static, err := NewStatic(domain.VisibilityFailClosed)
	if err != nil {
		t.Fatalf("new static: %v", err)
	}
	got, err := static.Decide(context.Background(), domain.VisibilityInput{})
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if got != domain.VisibilityFailClosed {
		t.Fatalf("got %q", got)
	}
}
