package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tessera/internal/domain"
)

type ReviewRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db, now: time.Now}
}

func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	if r.db == nil {
		return errDBUnavailable
	}
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	now := r.now().UTC()
	review.RowIsActive = true
	review.RowIsDeleted = false
	review.CreatedAt = now
	review.UpdatedAt = now
	model := reviewModelFromDomain(*review)
	return r.db.WithContext(ctx).Create(&model).Error
}

// scoped builds the filtered review query. It is the single construction
// path for both the count query and the page query, so the two cannot
// drift when business predicates are added.
func (r *ReviewRepository) scoped(ctx context.Context, filter domain.ReviewFilter) *gorm.DB {
	tx := r.db.WithContext(ctx).Model(&ReviewModel{}).
		Scopes(ActiveRows(), OwnedBy(filter.Caller, filter.Policy))
	if filter.ReviewerID != nil {
		tx = tx.Where("reviewer_id = ?", *filter.ReviewerID)
	}
	if filter.MinRating > 0 {
		tx = tx.Where("rating >= ?", filter.MinRating)
	}
	if filter.Search != "" {
		tx = tx.Where("title ILIKE ?", "%"+filter.Search+"%")
	}
	return tx
}

func (r *ReviewRepository) List(ctx context.Context, filter domain.ReviewFilter, page, size int) ([]domain.Review, int64, error) {
	if r.db == nil {
		return nil, 0, errDBUnavailable
	}
	var total int64
	if err := r.scoped(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var models []ReviewModel
	err := r.scoped(ctx, filter).
		Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}
	reviews := make([]domain.Review, 0, len(models))
	for _, model := range models {
		reviews = append(reviews, model.toDomain())
	}
	return reviews, total, nil
}

// GetByID returns domain.ErrNotFound both for rows that do not exist and
// for rows owned by another tenant: callers cannot distinguish the two.
func (r *ReviewRepository) GetByID(ctx context.Context, caller domain.Identity, policy domain.VisibilityPolicy, id uuid.UUID) (*domain.Review, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var model ReviewModel
	err := r.db.WithContext(ctx).
		Scopes(ActiveRows(), OwnedBy(caller, policy)).
		Where("id = ?", id).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	review := model.toDomain()
	return &review, nil
}

// Update applies a partial update to an owned row. The owner stamp and
// creation attribution are never modified; only the updater stamp changes,
// and only when the reconciled identity carries one.
func (r *ReviewRepository) Update(ctx context.Context, caller domain.Identity, policy domain.VisibilityPolicy, id uuid.UUID, update domain.ReviewUpdate) (*domain.Review, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var model ReviewModel
	err := r.db.WithContext(ctx).
		Scopes(ActiveRows(), OwnedBy(caller, policy)).
		Where("id = ?", id).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	changes := map[string]any{
		"updated_at": r.now().UTC(),
	}
	if update.Title != nil {
		changes["title"] = *update.Title
	}
	if update.Body != nil {
		changes["body"] = *update.Body
	}
	if update.Rating != nil {
		changes["rating"] = *update.Rating
	}
	if update.Identity.UpdateUserID != nil {
		changes["update_user_id"] = *update.Identity.UpdateUserID
	}
	err = r.db.WithContext(ctx).
		Model(&ReviewModel{}).
		Where("id = ?", model.ID).
		Updates(changes).Error
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, caller, policy, id)
}

// SoftDelete flips the soft-delete flags on an owned row; the row stays in
// place but leaves every scoped query.
func (r *ReviewRepository) SoftDelete(ctx context.Context, caller domain.Identity, policy domain.VisibilityPolicy, id uuid.UUID, updatedBy *uuid.UUID) error {
	if r.db == nil {
		return errDBUnavailable
	}
	changes := map[string]any{
		"row_is_active":  false,
		"row_is_deleted": true,
		"updated_at":     r.now().UTC(),
	}
	if updatedBy != nil {
		changes["update_user_id"] = *updatedBy
	}
	tx := r.db.WithContext(ctx).
		Model(&ReviewModel{}).
		Scopes(ActiveRows(), OwnedBy(caller, policy)).
		Where("id = ?", id).
		Updates(changes)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
