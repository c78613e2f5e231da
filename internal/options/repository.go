package options

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emiliocantu/stockroom-backend/pkg/db/models"
)

// Repository wires together option template persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListGroups returns all option groups for the store with values preloaded,
// ordered by position then creation time. Value order inside a group is the
// order variants will enumerate in.
func (r *Repository) ListGroups(ctx context.Context, storeID uuid.UUID) ([]models.OptionGroup, error) {
	var groups []models.OptionGroup
	err := r.db.WithContext(ctx).
		Preload("Values", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, created_at ASC")
		}).
		Where("store_id = ?", storeID).
		Order("position ASC, created_at ASC").
		Find(&groups).Error
	if err != nil {
		return nil, err
	}
	return groups, nil
}

// FindGroup loads one option group with values.
func (r *Repository) FindGroup(ctx context.Context, id uuid.UUID) (*models.OptionGroup, error) {
	var group models.OptionGroup
	err := r.db.WithContext(ctx).
		Preload("Values", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, created_at ASC")
		}).
		First(&group, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// CreateGroup inserts the group and its values.
func (r *Repository) CreateGroup(ctx context.Context, group *models.OptionGroup) (*models.OptionGroup, error) {
	if err := r.db.WithContext(ctx).Create(group).Error; err != nil {
		return nil, err
	}
	return group, nil
}

// UpdateGroup saves the group row only.
func (r *Repository) UpdateGroup(ctx context.Context, group *models.OptionGroup) (*models.OptionGroup, error) {
	if err := r.db.WithContext(ctx).Omit("Values").Save(group).Error; err != nil {
		return nil, err
	}
	return group, nil
}

// ReplaceValues swaps the full value set of a group.
func (r *Repository) ReplaceValues(ctx context.Context, groupID uuid.UUID, values []models.OptionValue) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("group_id = ?", groupID).Delete(&models.OptionValue{}).Error; err != nil {
		return err
	}
	if len(values) == 0 {
		return nil
	}
	return tx.Create(&values).Error
}

// DeleteGroup removes the group; values cascade.
func (r *Repository) DeleteGroup(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.OptionGroup{}, "id = ?", id).Error
}
