package db

import (
	"context"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"tessera/internal/domain"
)

// newDryRunDB builds a gorm handle over a mocked connection with DryRun
// enabled, so scopes can be asserted on the generated SQL without a
// database.
func newDryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	mock.ExpectQuery("SELECT version()").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("PostgreSQL 16.0"))
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB, PreferSimpleProtocol: true}), &gorm.Config{DryRun: true})
	if err != nil {
		t.Fatalf("open gorm: %v", err)
	}
	return gormDB
}

func fullIdentity(t *testing.T) domain.Identity {
	t.Helper()
	userID, err := uuid.Parse("19a8b428-653b-488e-9e23-ac6500e4183e")
	if err != nil {
		t.Fatalf("parse user id: %v", err)
	}
	customerID, err := uuid.Parse("72c54b1a-a731-4b5c-a1b9-ac6500e41325")
	if err != nil {
		t.Fatalf("parse customer id: %v", err)
	}
	return domain.Identity{UserID: &userID, CustomerID: &customerID}
}

func TestOwnedBy_CompleteIdentityScopesToOwner(t *testing.T) {
	gormDB := newDryRunDB(t)
	caller := fullIdentity(t)

	stmt := gormDB.Model(&ReviewModel{}).
		Scopes(ActiveRows(), OwnedBy(caller, domain.VisibilityFailOpen)).
		Find(&[]ReviewModel{}).Statement

	sql := stmt.SQL.String()
	if !strings.Contains(sql, "auth_user_id") || !strings.Contains(sql, "auth_customer_id") {
		t.Fatalf("owner predicate missing from query: %s", sql)
	}
	if !strings.Contains(sql, "row_is_active") || !strings.Contains(sql, "row_is_deleted") {
		t.Fatalf("active predicate missing from query: %s", sql)
	}
	foundUser, foundCustomer := false, false
	for _, v := range stmt.Vars {
		if id, ok := v.(uuid.UUID); ok {
			if id == *caller.UserID {
				foundUser = true
			}
			if id == *caller.CustomerID {
				foundCustomer = true
			}
		}
	}
	if !foundUser || !foundCustomer {
		t.Fatalf("caller identity not bound into query vars: %v", stmt.Vars)
	}
}

func TestOwnedBy_PartialIdentityFailOpen(t *testing.T) {
	gormDB := newDryRunDB(t)
	caller := fullIdentity(t)
	caller.CustomerID = nil

	stmt := gormDB.Model(&ReviewModel{}).
		Scopes(ActiveRows(), OwnedBy(caller, domain.VisibilityFailOpen)).
		Find(&[]ReviewModel{}).Statement

	sql := stmt.SQL.String()
	if strings.Contains(sql, "auth_user_id") {
		t.Fatalf("fail-open partial identity must not scope by owner: %s", sql)
	}
	if !strings.Contains(sql, "row_is_active") {
		t.Fatalf("active predicate must always apply: %s", sql)
	}
}

func TestOwnedBy_PartialIdentityFailClosed(t *testing.T) {
	gormDB := newDryRunDB(t)
	caller := fullIdentity(t)
	caller.UserID = nil

	stmt := gormDB.Model(&ReviewModel{}).
		Scopes(OwnedBy(caller, domain.VisibilityFailClosed)).
		Find(&[]ReviewModel{}).Statement

	sql := stmt.SQL.String()
	if !strings.Contains(sql, "1 = 0") {
		t.Fatalf("fail-closed partial identity must match nothing: %s", sql)
	}
}

func TestOwnedBy_AnonymousFailClosed(t *testing.T) {
	gormDB := newDryRunDB(t)

	stmt := gormDB.Model(&ReviewModel{}).
		Scopes(OwnedBy(domain.Identity{}, domain.VisibilityFailClosed)).
		Find(&[]ReviewModel{}).Statement

	if !strings.Contains(stmt.SQL.String(), "1 = 0") {
		t.Fatalf("fail-closed anonymous caller must match nothing: %s", stmt.SQL.String())
	}
}

// whereClause strips everything before the WHERE keyword so the count and
// page queries can be compared for predicate drift.
func whereClause(t *testing.T, sql string) string {
	t.Helper()
	idx := strings.Index(sql, "WHERE")
	if idx < 0 {
		t.Fatalf("no WHERE clause in query: %s", sql)
	}
	return sql[idx:]
}

func TestReviewRepository_CountAndPageShareOneFilterPath(t *testing.T) {
	gormDB := newDryRunDB(t)
	repo := NewReviewRepository(gormDB)

	minRating := 3
	filter := domain.ReviewFilter{
		Caller:    fullIdentity(t),
		Policy:    domain.VisibilityFailOpen,
		MinRating: minRating,
		Search:    "latency",
	}

	var total int64
	countStmt := repo.scoped(context.Background(), filter).Count(&total).Statement
	findStmt := repo.scoped(context.Background(), filter).Find(&[]ReviewModel{}).Statement

	countWhere := whereClause(t, countStmt.SQL.String())
	findWhere := whereClause(t, findStmt.SQL.String())
	if countWhere != findWhere {
		t.Fatalf("count and page predicates drifted:\ncount: %s\nfind:  %s", countWhere, findWhere)
	}
	if len(countStmt.Vars) != len(findStmt.Vars) {
		t.Fatalf("count and page bind different vars: %v vs %v", countStmt.Vars, findStmt.Vars)
	}
}
