package domain

import "github.com/google/uuid"

// UserDataClaim is the claim key whose value carries the JSON-encoded
// credential payload. The payload is double-encoded: the claim value is
// itself a JSON string holding UserId and CustomerId.
const UserDataClaim = "user_data"

// CredentialPayload is the raw identity payload as decoded from a bearer
// credential's claim set, before identifier validation.
type CredentialPayload struct {
	UserID     string `json:"UserId"`
	CustomerID string `json:"CustomerId"`
}

// Identity is the caller's resolved user/customer pair for one inbound
// request. Either half may be absent; the zero value is an anonymous
// caller. An Identity lives for exactly one request and is never cached
// across requests.
type Identity struct {
	UserID     *uuid.UUID
	CustomerID *uuid.UUID
}

func (i Identity) Anonymous() bool {
	return i.UserID == nil && i.CustomerID == nil
}

// Complete reports whether both halves of the identity are present. Only a
// complete identity narrows query visibility to owned rows.
func (i Identity) Complete() bool {
	return i.UserID != nil && i.CustomerID != nil
}

// ResolveIdentity validates a raw credential payload into an Identity.
// Values that do not parse as identifiers are treated as absent, never as
// errors: a garbled payload degrades to an anonymous caller.
func ResolveIdentity(payload CredentialPayload) Identity {
	return Identity{
		UserID:     ParseID(payload.UserID),
		CustomerID: ParseID(payload.CustomerID),
	}
}

// ParseID parses s into an identifier, returning nil when s is empty or
// does not parse.
func ParseID(s string) *uuid.UUID {
	if s == "" {
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return &id
}

// EffectiveIdentity is the per-request result of reconciling explicit
// request identity fields with the resolved caller identity. It is only
// ever written into an owned entity's stamp fields, never persisted on its
// own.
type EffectiveIdentity struct {
	CustomerID   *uuid.UUID
	UserID       *uuid.UUID
	CreateUserID *uuid.UUID
	UpdateUserID *uuid.UUID
}
