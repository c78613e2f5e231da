package product

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emiliocantu/stockroom-backend/pkg/db/models"
	"github.com/emiliocantu/stockroom-backend/pkg/enums"
	"github.com/emiliocantu/stockroom-backend/pkg/pagination"
)

// Repository wires together product persistence helpers.
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

// FindByID loads the product without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindDetail loads the product with variants (and their options) and bundle
// items, ordered the way they were generated.
func (r *Repository) FindDetail(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Variants.Options").
		Preload("BundleItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDs loads several products at once, keyed by id.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]models.Product{}, nil
	}
	var rows []models.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]models.Product, len(rows))
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

// CreateProduct inserts the product row only.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Omit("Variants", "BundleItems").Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct saves the product row only.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Omit("Variants", "BundleItems").Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes the product; variants and bundle items cascade.
func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

// ReplaceVariants swaps the full variant set of a master product.
func (r *Repository) ReplaceVariants(ctx context.Context, productID uuid.UUID, variants []models.ProductVariant) error {
	tx := r.db.WithContext(ctx)

	var existing []models.ProductVariant
	if err := tx.Select("id").Where("product_id = ?", productID).Find(&existing).Error; err != nil {
		return err
	}
	if len(existing) > 0 {
		ids := make([]uuid.UUID, 0, len(existing))
		for _, v := range existing {
			ids = append(ids, v.ID)
		}
		if err := tx.Where("variant_id IN ?", ids).Delete(&models.VariantOption{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", productID).Delete(&models.ProductVariant{}).Error; err != nil {
			return err
		}
	}

	if len(variants) == 0 {
		return nil
	}
	return tx.Create(&variants).Error
}

// ReplaceBundleItems swaps the full component set of a bundle product.
func (r *Repository) ReplaceBundleItems(ctx context.Context, productID uuid.UUID, items []models.BundleItem) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.BundleItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return tx.Create(&items).Error
}

// ListQuery filters the product list.
type ListQuery struct {
	StoreID     uuid.UUID
	Search      string
	ProductType *enums.ProductType
	Pagination  pagination.Params
}

// ListProducts returns matching products ordered by name, newest first on
// ties, plus whether another page exists.
func (r *Repository) ListProducts(ctx context.Context, query ListQuery) ([]models.Product, bool, error) {
	params := pagination.Normalize(query.Pagination)

	tx := r.db.WithContext(ctx).Where("store_id = ?", query.StoreID)
	if search := strings.TrimSpace(query.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		tx = tx.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ?", pattern, pattern)
	}
	if query.ProductType != nil {
		tx = tx.Where("product_type = ?", *query.ProductType)
	}

	var rows []models.Product
	err := tx.Order("name ASC, created_at DESC").
		Limit(params.Limit + 1).
		Offset(params.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, false, err
	}

	hasMore := len(rows) > params.Limit
	if hasMore {
		rows = rows[:params.Limit]
	}
	return rows, hasMore, nil
}
