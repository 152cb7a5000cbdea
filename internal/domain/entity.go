package domain

import "github.com/google/uuid"

// Owned is implemented by every business entity carrying the tenant owner
// stamp and audit trail. The owner stamp is written once at creation from
// the reconciled identity; the updater changes on every mutation; the
// creator never changes.
type Owned interface {
	OwnerUserID() *uuid.UUID
	OwnerCustomerID() *uuid.UUID
	CreatedBy() *uuid.UUID
	UpdatedBy() *uuid.UUID
}
