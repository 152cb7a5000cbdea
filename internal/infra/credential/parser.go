// Package credential decodes the identity payload embedded in bearer
// credentials. Signature verification is not done here: validated claim
// sets arrive from the upstream authentication step, and Parse exists as a
// defensive decoder for telemetry on raw tokens.
package credential

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"tessera/internal/domain"
)

// Parse extracts the credential payload from a raw three-segment token
// without verifying anything about it. Every malformed input degrades to
// the zero payload; it never returns an error.
func Parse(credential string) domain.CredentialPayload {
	segments := strings.Split(credential, ".")
	if len(segments) != 3 {
		return domain.CredentialPayload{}
	}
	raw, err := decodeSegment(segments[1])
	if err != nil {
		return domain.CredentialPayload{}
	}
	var claims map[string]any
	if err := json.Unmarshal(raw, &claims); err != nil {
		return domain.CredentialPayload{}
	}
	return payloadFromValue(claims[domain.UserDataClaim])
}

// PayloadFromClaims extracts the payload from an already-parsed claim set.
// This is the primary path; Parse is the fallback for tokens the claim
// parser rejects outright.
func PayloadFromClaims(claims jwt.MapClaims) domain.CredentialPayload {
	return payloadFromValue(claims[domain.UserDataClaim])
}

// payloadFromValue decodes the double-encoded claim: the claim value is a
// JSON string whose text is itself the payload object.
func payloadFromValue(value any) domain.CredentialPayload {
	text, ok := value.(string)
	if !ok {
		return domain.CredentialPayload{}
	}
	var payload domain.CredentialPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return domain.CredentialPayload{}
	}
	return payload
}

func decodeSegment(segment string) ([]byte, error) {
	segment = strings.ReplaceAll(segment, "-", "+")
	segment = strings.ReplaceAll(segment, "_", "/")
	if m := len(segment) % 4; m != 0 {
		segment += strings.Repeat("=", 4-m)
	}
	return base64.StdEncoding.DecodeString(segment)
}
