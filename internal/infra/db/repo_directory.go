package db

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tessera/internal/domain"
)

// DirectoryRepository resolves display identities for a batch of audit
// ids in one query over the users and customers tables.
type DirectoryRepository struct {
	db *gorm.DB
}

func NewDirectoryRepository(db *gorm.DB) *DirectoryRepository {
	return &DirectoryRepository{db: db}
}

func (r *DirectoryRepository) GetDetails(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.DisplayIdentity, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	if len(ids) == 0 {
		return map[uuid.UUID]domain.DisplayIdentity{}, nil
	}

	type directoryRow struct {
		ID           uuid.UUID
		UserName     string
		FullName     string
		CustomerName string
	}
	var rows []directoryRow
	err := r.db.WithContext(ctx).
		Table("users").
		Select("users.id, users.user_name, users.full_name, customers.customer_name").
		Joins("LEFT JOIN customers ON customers.id = users.customer_id").
		Where("users.id IN ?", ids).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[uuid.UUID]domain.DisplayIdentity, len(rows))
	for _, row := range rows {
		out[row.ID] = domain.DisplayIdentity{
			UserName:     row.UserName,
			CustomerName: row.CustomerName,
			FullName:     row.FullName,
		}
	}
	return out, nil
}

var _ domain.Directory = (*DirectoryRepository)(nil)
