package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductVariant is one concrete SKU generated from an option combination.
type ProductVariant struct {
	ID                 uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID          uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	SKU                string          `gorm:"column:sku;not null"`
	Name               string          `gorm:"column:name;not null"`
	PurchasePriceCents int             `gorm:"column:purchase_price_cents;not null;default:0"`
	SellingPriceCents  int             `gorm:"column:selling_price_cents;not null;default:0"`
	StockQty           int             `gorm:"column:stock_qty;not null;default:0"`
	Position           int             `gorm:"column:position;not null;default:0"`
	Options            []VariantOption `gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
