package editor

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/emiliocantu/stockroom-backend/pkg/errors"
)

// BundleComponent is one component product inside a bundle, with unit prices
// snapshotted at add time.
type BundleComponent struct {
	ProductID          uuid.UUID `json:"product_id"`
	Name               string    `json:"name"`
	PurchasePriceCents int       `json:"purchase_price_cents"`
	SellingPriceCents  int       `json:"selling_price_cents"`
	ImageURL           *string   `json:"image_url,omitempty"`
	Quantity           int       `json:"quantity"`
}

// BundleTotals is the derived aggregate over all components. It is
// recomputed eagerly after every mutation and never cached stale.
type BundleTotals struct {
	PurchaseCents int64 `json:"purchase_cents"`
	SellingCents  int64 `json:"selling_cents"`
}

// MarginPercent returns the selling margin of the totals rounded to two
// decimal places, or zero when there is no selling total.
func (t BundleTotals) MarginPercent() decimal.Decimal {
	if t.SellingCents == 0 {
		return decimal.Zero
	}
	profit := decimal.NewFromInt(t.SellingCents - t.PurchaseCents)
	return profit.Div(decimal.NewFromInt(t.SellingCents)).Mul(decimal.NewFromInt(100)).Round(2)
}

// BundleItemSubmission is the wire shape persisted for one component.
type BundleItemSubmission struct {
	ProductID uuid.UUID
	Quantity  int
}

// AddComponent appends a component with the given quantity. A product
// already present in the bundle is rejected and the set is left unchanged.
func (s *Session) AddComponent(component BundleComponent, quantity int) error {
	if s.ProductID != nil && component.ProductID == *s.ProductID {
		return pkgerrors.New(pkgerrors.CodeValidation, "a bundle cannot contain itself")
	}
	for _, existing := range s.BundleComponents {
		if existing.ProductID == component.ProductID {
			return pkgerrors.New(pkgerrors.CodeValidation, "product already in bundle").
				WithDetails(map[string]any{"product": component.Name})
		}
	}
	component.Quantity = clampQuantity(quantity)
	s.BundleComponents = append(s.BundleComponents, component)
	s.recomputeBundle()
	return nil
}

// UpdateComponentQuantity sets the quantity for one component, clamped to a
// minimum of 1.
func (s *Session) UpdateComponentQuantity(productID uuid.UUID, quantity int) error {
	for i := range s.BundleComponents {
		if s.BundleComponents[i].ProductID == productID {
			s.BundleComponents[i].Quantity = clampQuantity(quantity)
			s.recomputeBundle()
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "component not in bundle")
}

// RemoveComponent deletes the component from the set.
func (s *Session) RemoveComponent(productID uuid.UUID) error {
	for i := range s.BundleComponents {
		if s.BundleComponents[i].ProductID == productID {
			s.BundleComponents = append(s.BundleComponents[:i], s.BundleComponents[i+1:]...)
			s.recomputeBundle()
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "component not in bundle")
}

// Totals computes the current aggregate purchase and selling totals.
func (s *Session) Totals() BundleTotals {
	var totals BundleTotals
	for _, c := range s.BundleComponents {
		totals.PurchaseCents += int64(c.Quantity) * int64(c.PurchasePriceCents)
		totals.SellingCents += int64(c.Quantity) * int64(c.SellingPriceCents)
	}
	return totals
}

// recomputeBundle refreshes the derived totals and back-fills the draft's
// price fields. A zero or auto-filled price keeps tracking the totals across
// later component changes; a price the user typed is never overwritten.
func (s *Session) recomputeBundle() {
	totals := s.Totals()
	if s.Base.PurchasePriceCents == 0 || s.AutoFilledPurchase {
		s.Base.PurchasePriceCents = int(totals.PurchaseCents)
		s.AutoFilledPurchase = s.Base.PurchasePriceCents != 0
	}
	if s.Base.SellingPriceCents == 0 || s.AutoFilledSelling {
		s.Base.SellingPriceCents = int(totals.SellingCents)
		s.AutoFilledSelling = s.Base.SellingPriceCents != 0
	}
}

// CollectBundleItems returns every component as {product_id, quantity};
// prices and names are re-resolved server-side from the product id.
func (s *Session) CollectBundleItems() []BundleItemSubmission {
	out := make([]BundleItemSubmission, 0, len(s.BundleComponents))
	for _, c := range s.BundleComponents {
		out = append(out, BundleItemSubmission{
			ProductID: c.ProductID,
			Quantity:  clampQuantity(c.Quantity),
		})
	}
	return out
}

func clampQuantity(quantity int) int {
	if quantity < 1 {
		return 1
	}
	return quantity
}
