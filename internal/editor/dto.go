package editor

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/emiliocantu/stockroom-backend/pkg/db/models"
)

// SessionDTO is the full session payload returned after every mutation, so
// the client can redraw the edit form from one response.
type SessionDTO struct {
	ID          uuid.UUID  `json:"id"`
	ProductID   *uuid.UUID `json:"product_id,omitempty"`
	ProductType string     `json:"product_type"`

	Base         DraftBase       `json:"base"`
	OptionGroups []SelectedGroup `json:"option_groups"`

	Variants            []VariantRowDTO `json:"variants"`
	AllVariantsIncluded bool            `json:"all_variants_included"`

	BundleComponents []BundleComponent `json:"bundle_components"`
	BundleTotals     BundleTotals      `json:"bundle_totals"`
	MarginPercent    string            `json:"margin_percent"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VariantRowDTO is one generated row with its display name resolved against
// the draft's base name.
type VariantRowDTO struct {
	SessionVariant
	DisplayName string `json:"display_name"`
}

// ComponentSearchDTO is one component-search response. Stale marks a result
// superseded by a newer request; stale responses carry no rows.
type ComponentSearchDTO struct {
	Seq      int64                `json:"seq"`
	Stale    bool                 `json:"stale"`
	Products []ComponentResultDTO `json:"products"`
}

// ComponentResultDTO is one searchable catalog row.
type ComponentResultDTO struct {
	ID                 uuid.UUID `json:"id"`
	SKU                string    `json:"sku"`
	Name               string    `json:"name"`
	ProductType        string    `json:"product_type"`
	PurchasePriceCents int       `json:"purchase_price_cents"`
	SellingPriceCents  int       `json:"selling_price_cents"`
	ImageURL           *string   `json:"image_url,omitempty"`
}

// NewSessionDTO maps the session into its response payload.
func NewSessionDTO(session *Session) *SessionDTO {
	if session == nil {
		return nil
	}
	totals := session.Totals()
	variants := make([]VariantRowDTO, 0, len(session.Variants))
	for _, row := range session.Variants {
		variants = append(variants, VariantRowDTO{
			SessionVariant: row,
			DisplayName:    displayVariantName(session.Base.Name, row.Name),
		})
	}
	return &SessionDTO{
		ID:                  session.ID,
		ProductID:           session.ProductID,
		ProductType:         session.ProductType.String(),
		Base:                session.Base,
		OptionGroups:        session.OptionGroups,
		Variants:            variants,
		AllVariantsIncluded: session.AllVariantsIncluded(),
		BundleComponents:    session.BundleComponents,
		BundleTotals:        totals,
		MarginPercent:       totals.MarginPercent().StringFixed(2),
		CreatedAt:           session.CreatedAt,
		UpdatedAt:           session.UpdatedAt,
	}
}

// NewComponentResultDTO maps a catalog row into a search result.
func NewComponentResultDTO(product *models.Product) ComponentResultDTO {
	return ComponentResultDTO{
		ID:                 product.ID,
		SKU:                product.SKU,
		Name:               product.Name,
		ProductType:        product.ProductType.String(),
		PurchasePriceCents: product.PurchasePriceCents,
		SellingPriceCents:  product.SellingPriceCents,
		ImageURL:           product.ImageURL,
	}
}

// displayVariantName renders the full variant name, "{baseName} ({values})".
// Rows with no base name (or no label yet) keep the bare row label.
func displayVariantName(baseName, rowName string) string {
	if baseName == "" || rowName == "" {
		return rowName
	}
	return fmt.Sprintf("%s (%s)", baseName, rowName)
}
