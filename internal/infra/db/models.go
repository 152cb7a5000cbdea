package db

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tessera/internal/domain"
)

var errDBUnavailable = errors.New("database unavailable")

// AutoMigrate creates or updates the schema for every table the service
// owns.
func AutoMigrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(&CustomerModel{}, &UserModel{}, &ReviewModel{})
}

// OwnedColumns is the owner stamp, audit trail and soft-delete flags
// shared by every tenant-owned table. The owner stamp is written once at
// creation; update_user_id changes on every mutation; create_user_id never
// changes.
type OwnedColumns struct {
	AuthUserID     *uuid.UUID `gorm:"type:uuid;index"`
	AuthCustomerID *uuid.UUID `gorm:"type:uuid;index"`
	CreateUserID   *uuid.UUID `gorm:"type:uuid"`
	UpdateUserID   *uuid.UUID `gorm:"type:uuid"`
	RowIsActive    bool       `gorm:"not null;default:true"`
	RowIsDeleted   bool       `gorm:"not null;default:false"`
}

func (c OwnedColumns) OwnerUserID() *uuid.UUID     { return c.AuthUserID }
func (c OwnedColumns) OwnerCustomerID() *uuid.UUID { return c.AuthCustomerID }
func (c OwnedColumns) CreatedBy() *uuid.UUID       { return c.CreateUserID }
func (c OwnedColumns) UpdatedBy() *uuid.UUID       { return c.UpdateUserID }

var _ domain.Owned = OwnedColumns{}

type ReviewModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title      string    `gorm:"not null"`
	Body       string
	Rating     int        `gorm:"not null"`
	ReviewerID *uuid.UUID `gorm:"type:uuid;index"`
	OwnedColumns
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (ReviewModel) TableName() string {
	return "reviews"
}

type UserModel struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CustomerID *uuid.UUID `gorm:"type:uuid;index"`
	UserName   string     `gorm:"not null"`
	FullName   string
	CreatedAt  time.Time `gorm:"not null"`
}

func (UserModel) TableName() string {
	return "users"
}

type CustomerModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerName string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (CustomerModel) TableName() string {
	return "customers"
}

func (m ReviewModel) toDomain() domain.Review {
	return domain.Review{
		ID:             m.ID,
		Title:          m.Title,
		Body:           m.Body,
		Rating:         m.Rating,
		ReviewerID:     m.ReviewerID,
		AuthUserID:     m.AuthUserID,
		AuthCustomerID: m.AuthCustomerID,
		CreateUserID:   m.CreateUserID,
		UpdateUserID:   m.UpdateUserID,
		RowIsActive:    m.RowIsActive,
		RowIsDeleted:   m.RowIsDeleted,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func reviewModelFromDomain(review domain.Review) ReviewModel {
	return ReviewModel{
		ID:         review.ID,
		Title:      review.Title,
		Body:       review.Body,
		Rating:     review.Rating,
		ReviewerID: review.ReviewerID,
		OwnedColumns: OwnedColumns{
			AuthUserID:     review.AuthUserID,
			AuthCustomerID: review.AuthCustomerID,
			CreateUserID:   review.CreateUserID,
			UpdateUserID:   review.UpdateUserID,
			RowIsActive:    review.RowIsActive,
			RowIsDeleted:   review.RowIsDeleted,
		},
		CreatedAt: review.CreatedAt,
		UpdatedAt: review.UpdatedAt,
	}
}
