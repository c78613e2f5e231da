package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/emiliocantu/stockroom-backend/pkg/enums"
)

// Product is the canonical catalog row. A master product owns variants, a
// bundle product owns bundle items; a simple product owns neither.
type Product struct {
	ID                 uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID            uuid.UUID         `gorm:"column:store_id;type:uuid;not null"`
	SKU                string            `gorm:"column:sku;not null"`
	Name               string            `gorm:"column:name;not null"`
	ProductType        enums.ProductType `gorm:"column:product_type;type:product_type;not null;default:'simple'"`
	PurchasePriceCents int               `gorm:"column:purchase_price_cents;not null;default:0"`
	SellingPriceCents  int               `gorm:"column:selling_price_cents;not null;default:0"`
	StockQty           int               `gorm:"column:stock_qty;not null;default:0"`
	ImageURL           *string           `gorm:"column:image_url"`
	IsActive           bool              `gorm:"column:is_active;not null;default:true"`
	Variants           []ProductVariant  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	BundleItems        []BundleItem      `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
