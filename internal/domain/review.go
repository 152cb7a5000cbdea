package domain

import (
	"time"

	"github.com/google/uuid"
)

// Review is the tenant-owned business entity served by the API. It stands
// in for any owned record: every row carries the owner stamp, the audit
// trail and the soft-delete flags.
type Review struct {
	ID         uuid.UUID
	Title      string
	Body       string
	Rating     int
	ReviewerID *uuid.UUID

	AuthUserID     *uuid.UUID
	AuthCustomerID *uuid.UUID
	CreateUserID   *uuid.UUID
	UpdateUserID   *uuid.UUID
	RowIsActive    bool
	RowIsDeleted   bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r *Review) OwnerUserID() *uuid.UUID     { return r.AuthUserID }
func (r *Review) OwnerCustomerID() *uuid.UUID { return r.AuthCustomerID }
func (r *Review) CreatedBy() *uuid.UUID       { return r.CreateUserID }
func (r *Review) UpdatedBy() *uuid.UUID       { return r.UpdateUserID }

var _ Owned = (*Review)(nil)

// ReviewFilter carries the caller scope and the business predicates of a
// review listing. The same filter value produces both the count query and
// the page query.
type ReviewFilter struct {
	Caller     Identity
	Policy     VisibilityPolicy
	ReviewerID *uuid.UUID
	MinRating  int
	Search     string
}

// ReviewUpdate is a partial update. Nil fields are left unchanged. The
// identity carries the reconciled updater stamp; creation attribution is
// not part of an update.
type ReviewUpdate struct {
	Title    *string
	Body     *string
	Rating   *int
	Identity EffectiveIdentity
}
