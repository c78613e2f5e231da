package models

import (
	"time"

	"github.com/google/uuid"
)

// BundleItem links a bundle product to one component product with a quantity.
// A component may appear at most once per bundle.
type BundleItem struct {
	ID                 uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID          uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_bundle_component"`
	ComponentProductID uuid.UUID `gorm:"column:component_product_id;type:uuid;not null;uniqueIndex:idx_bundle_component"`
	Quantity           int       `gorm:"column:quantity;not null;default:1"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
