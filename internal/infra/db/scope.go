package db

import (
	"gorm.io/gorm"

	"tessera/internal/domain"
)

// OwnedBy restricts a query to rows stamped with the caller's full
// user/customer identity. A partially resolved caller is governed by the
// named visibility policy: fail-open applies no further restriction
// beyond the predicates already on the query, fail-closed matches
// nothing. The scope is a lazy transformation and composes freely with
// business predicates on either side.
func OwnedBy(caller domain.Identity, policy domain.VisibilityPolicy) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if caller.Complete() {
			return tx.Where("auth_user_id = ? AND auth_customer_id = ?", *caller.UserID, *caller.CustomerID)
		}
		if policy == domain.VisibilityFailClosed {
			// Match nothing rather than expose other tenants' rows.
			return tx.Where("1 = 0")
		}
		return tx
	}
}

// ActiveRows keeps only live rows: active and not soft-deleted.
func ActiveRows() func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where("row_is_active = ? AND row_is_deleted = ?", true, false)
	}
}
