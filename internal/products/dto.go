package product

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/emiliocantu/stockroom-backend/pkg/db/models"
)

// ProductDTO is the product payload returned to clients. Variants are
// present only for masters, bundle items only for bundles.
type ProductDTO struct {
	ID                 uuid.UUID       `json:"id"`
	SKU                string          `json:"sku"`
	Name               string          `json:"name"`
	ProductType        string          `json:"product_type"`
	PurchasePriceCents int             `json:"purchase_price_cents"`
	SellingPriceCents  int             `json:"selling_price_cents"`
	StockQty           int             `json:"stock_qty"`
	ImageURL           *string         `json:"image_url,omitempty"`
	IsActive           bool            `json:"is_active"`
	HasOptions         bool            `json:"has_options"`
	Variants           []VariantDTO    `json:"variants,omitempty"`
	BundleItems        []BundleItemDTO `json:"bundle_items,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// VariantDTO is one persisted variant with its option tuple. Name is the
// stored row label; DisplayName prefixes it with the parent product's name.
type VariantDTO struct {
	ID                 uuid.UUID          `json:"id"`
	SKU                string             `json:"sku"`
	Name               string             `json:"name"`
	DisplayName        string             `json:"display_name"`
	PurchasePriceCents int                `json:"purchase_price_cents"`
	SellingPriceCents  int                `json:"selling_price_cents"`
	StockQty           int                `json:"stock_qty"`
	Position           int                `json:"position"`
	Options            []VariantOptionDTO `json:"options"`
}

// VariantOptionDTO labels one axis of a variant.
type VariantOptionDTO struct {
	GroupID   uuid.UUID `json:"group_id"`
	ValueID   uuid.UUID `json:"value_id"`
	ValueName string    `json:"value_name"`
}

// BundleItemDTO is one component row with the component product's current
// name, unit prices, and image resolved for display and rehydration.
type BundleItemDTO struct {
	ComponentProductID uuid.UUID `json:"component_product_id"`
	Name               string    `json:"name"`
	PurchasePriceCents int       `json:"purchase_price_cents"`
	SellingPriceCents  int       `json:"selling_price_cents"`
	ImageURL           *string   `json:"image_url,omitempty"`
	Quantity           int       `json:"quantity"`
}

// ProductListResult is one page of the product list.
type ProductListResult struct {
	Products []ProductDTO `json:"products"`
	HasMore  bool         `json:"has_more"`
}

// NewProductDTO maps the model into the client payload. The components map
// supplies current data for bundle rows; entries may be missing when a
// component was deleted, in which case the row is labeled as unavailable.
func NewProductDTO(product *models.Product, components map[uuid.UUID]models.Product) *ProductDTO {
	if product == nil {
		return nil
	}
	dto := &ProductDTO{
		ID:                 product.ID,
		SKU:                product.SKU,
		Name:               product.Name,
		ProductType:        product.ProductType.String(),
		PurchasePriceCents: product.PurchasePriceCents,
		SellingPriceCents:  product.SellingPriceCents,
		StockQty:           product.StockQty,
		ImageURL:           product.ImageURL,
		IsActive:           product.IsActive,
		HasOptions:         len(product.Variants) > 0,
		CreatedAt:          product.CreatedAt,
		UpdatedAt:          product.UpdatedAt,
	}

	for _, variant := range product.Variants {
		options := make([]VariantOptionDTO, 0, len(variant.Options))
		for _, opt := range variant.Options {
			options = append(options, VariantOptionDTO{
				GroupID:   opt.GroupID,
				ValueID:   opt.ValueID,
				ValueName: opt.ValueName,
			})
		}
		dto.Variants = append(dto.Variants, VariantDTO{
			ID:                 variant.ID,
			SKU:                variant.SKU,
			Name:               variant.Name,
			DisplayName:        variantDisplayName(product.Name, variant.Name),
			PurchasePriceCents: variant.PurchasePriceCents,
			SellingPriceCents:  variant.SellingPriceCents,
			StockQty:           variant.StockQty,
			Position:           variant.Position,
			Options:            options,
		})
	}

	for _, item := range product.BundleItems {
		row := BundleItemDTO{
			ComponentProductID: item.ComponentProductID,
			Name:               "(unavailable)",
			Quantity:           item.Quantity,
		}
		if component, ok := components[item.ComponentProductID]; ok {
			row.Name = component.Name
			row.PurchasePriceCents = component.PurchasePriceCents
			row.SellingPriceCents = component.SellingPriceCents
			row.ImageURL = component.ImageURL
		}
		dto.BundleItems = append(dto.BundleItems, row)
	}

	return dto
}

func variantDisplayName(productName, rowName string) string {
	if productName == "" || rowName == "" {
		return rowName
	}
	return fmt.Sprintf("%s (%s)", productName, rowName)
}
