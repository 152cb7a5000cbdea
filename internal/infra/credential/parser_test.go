package credential

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"tessera/internal/domain"
)

func encodeToken(t *testing.T, claims map[string]any) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	body, err := json.Marshal(claims)
	if err != nil {
		t.Fatalf("marshal claims: %v", err)
	}
	payload := base64.RawURLEncoding.EncodeToString(body)
	return header + "." + payload + "."
}

func userDataClaim(t *testing.T, userID, customerID string) string {
	t.Helper()
	nested, err := json.Marshal(map[string]string{"UserId": userID, "CustomerId": customerID})
	if err != nil {
		t.Fatalf("marshal nested payload: %v", err)
	}
	return string(nested)
}

func TestParse_ValidToken(t *testing.T) {
	userID := "19a8b428-653b-488e-9e23-ac6500e4183e"
	customerID := "72c54b1a-a731-4b5c-a1b9-ac6500e41325"
	token := encodeToken(t, map[string]any{
		domain.UserDataClaim: userDataClaim(t, userID, customerID),
	})

	payload := Parse(token)
	if payload.UserID != userID {
		t.Fatalf("unexpected user id: %q", payload.UserID)
	}
	if payload.CustomerID != customerID {
		t.Fatalf("unexpected customer id: %q", payload.CustomerID)
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "two segments", token: "garbage.garbage"},
		{name: "four segments", token: "a.b.c.d"},
		{name: "invalid base64", token: "a.!!!!.c"},
		{name: "invalid json", token: "a." + base64.RawURLEncoding.EncodeToString([]byte("not json")) + ".c"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			payload := Parse(tc.token)
			if payload != (domain.CredentialPayload{}) {
				t.Fatalf("expected zero payload, got %+v", payload)
			}
		})
	}
}

func TestParse_MissingOrMalformedClaim(t *testing.T) {
	tests := []struct {
		name   string
		claims map[string]any
	}{
		{name: "claim absent", claims: map[string]any{"sub": "user-1"}},
		{name: "claim not a string", claims: map[string]any{domain.UserDataClaim: 42}},
		{name: "claim not nested json", claims: map[string]any{domain.UserDataClaim: "plain text"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			payload := Parse(encodeToken(t, tc.claims))
			if payload != (domain.CredentialPayload{}) {
				t.Fatalf("expected zero payload, got %+v", payload)
			}
		})
	}
}

func TestPayloadFromClaims(t *testing.T) {
	userID := "19a8b428-653b-488e-9e23-ac6500e4183e"
	claims := jwt.MapClaims{
		domain.UserDataClaim: userDataClaim(t, userID, ""),
	}
	payload := PayloadFromClaims(claims)
	if payload.UserID != userID {
		t.Fatalf("unexpected user id: %q", payload.UserID)
	}
	if payload.CustomerID != "" {
		t.Fatalf("expected empty customer id, got %q", payload.CustomerID)
	}
}

func TestResolveIdentity_GarbledHalvesDegradeToAbsent(t *testing.T) {
	ident := domain.ResolveIdentity(domain.CredentialPayload{
		UserID:     "not-a-uuid",
		CustomerID: "72c54b1a-a731-4b5c-a1b9-ac6500e41325",
	})
	if ident.UserID != nil {
		t.Fatalf("expected absent user id, got %v", ident.UserID)
	}
	if ident.CustomerID == nil {
		t.Fatal("expected customer id to be present")
	}
	if ident.Complete() {
		t.Fatal("identity with one half must not be complete")
	}
}
