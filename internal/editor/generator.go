package editor

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	pkgerrors "github.com/emiliocantu/stockroom-backend/pkg/errors"
)

// SessionVariant is one generated (or loaded) variant row in the edit table.
type SessionVariant struct {
	SKU                string          `json:"sku"`
	Name               string          `json:"name"`
	PurchasePriceCents int             `json:"purchase_price_cents"`
	SellingPriceCents  int             `json:"selling_price_cents"`
	StockQty           int             `json:"stock_qty"`
	Included           bool            `json:"included"`
	Edited             bool            `json:"edited"`
	Options            []VariantChoice `json:"options"`
}

// VariantChoice records which value of which group the variant was built from.
type VariantChoice struct {
	GroupID   uuid.UUID `json:"group_id"`
	ValueID   uuid.UUID `json:"value_id"`
	ValueName string    `json:"value_name"`
}

// VariantPatch carries optional row edits. Applying any field marks the row
// as manually edited, which protects it across regeneration.
type VariantPatch struct {
	SKU                *string `json:"sku,omitempty"`
	Name               *string `json:"name,omitempty"`
	PurchasePriceCents *int    `json:"purchase_price_cents,omitempty"`
	SellingPriceCents  *int    `json:"selling_price_cents,omitempty"`
	StockQty           *int    `json:"stock_qty,omitempty"`
}

// VariantSubmission is the wire shape persisted for one included variant.
type VariantSubmission struct {
	SKU                string
	Name               string
	PurchasePriceCents int
	SellingPriceCents  int
	StockQty           int
	Options            []VariantChoice
}

// optionKey identifies a variant by its option-value tuple. Rows are matched
// across regenerations by this key, not by table position.
func (v SessionVariant) optionKey() string {
	ids := make([]string, 0, len(v.Options))
	for _, opt := range v.Options {
		ids = append(ids, opt.ValueID.String())
	}
	return strings.Join(ids, "|")
}

// GenerateVariants expands the option selection into variant rows: the
// Cartesian product of every selected group's values, enumerated with the
// last-added group varying fastest. Row i gets SKU "{base}-{i+1}", a name
// joining the chosen values with " / ", the base purchase price, and the
// base selling price plus the sum of the chosen values' deltas.
//
// Rows whose option tuple survives from the previous generation keep their
// manual edits and included flag; everything else is rebuilt from defaults.
func (s *Session) GenerateVariants(maxVariants int) error {
	if len(s.OptionGroups) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "select at least one option group before generating variants")
	}

	total := 1
	for _, group := range s.OptionGroups {
		if len(group.Values) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "option group has no values").
				WithDetails(map[string]any{"group": group.Name})
		}
		total *= len(group.Values)
	}
	if maxVariants > 0 && total > maxVariants {
		return pkgerrors.New(pkgerrors.CodeValidation, "option selection produces too many variants").
			WithDetails(map[string]any{"combinations": total, "max": maxVariants})
	}

	previous := make(map[string]SessionVariant, len(s.Variants))
	for _, row := range s.Variants {
		if row.Edited || !row.Included {
			previous[row.optionKey()] = row
		}
	}

	next := make([]SessionVariant, 0, total)
	indexes := make([]int, len(s.OptionGroups))
	for i := 0; i < total; i++ {
		choices := make([]VariantChoice, len(s.OptionGroups))
		names := make([]string, len(s.OptionGroups))
		deltaSum := 0
		for g, group := range s.OptionGroups {
			value := group.Values[indexes[g]]
			choices[g] = VariantChoice{
				GroupID:   group.ID,
				ValueID:   value.ID,
				ValueName: value.Value,
			}
			names[g] = value.Value
			deltaSum += value.AdditionalPriceCents
		}

		row := SessionVariant{
			SKU:                fmt.Sprintf("%s-%d", s.Base.SKU, i+1),
			Name:               strings.Join(names, " / "),
			PurchasePriceCents: s.Base.PurchasePriceCents,
			SellingPriceCents:  s.Base.SellingPriceCents + deltaSum,
			StockQty:           0,
			Included:           true,
			Options:            choices,
		}
		if kept, ok := previous[row.optionKey()]; ok {
			kept.Options = choices
			row = kept
		}
		next = append(next, row)

		// odometer step, last group varies fastest
		for g := len(indexes) - 1; g >= 0; g-- {
			indexes[g]++
			if indexes[g] < len(s.OptionGroups[g].Values) {
				break
			}
			indexes[g] = 0
		}
	}

	s.Variants = next
	return nil
}

// ToggleVariant flips the inclusion flag of one row.
func (s *Session) ToggleVariant(index int, included bool) error {
	if index < 0 || index >= len(s.Variants) {
		return pkgerrors.New(pkgerrors.CodeValidation, "variant index out of range")
	}
	s.Variants[index].Included = included
	return nil
}

// ToggleAllVariants sets the inclusion flag on every row. Idempotent.
func (s *Session) ToggleAllVariants(included bool) {
	for i := range s.Variants {
		s.Variants[i].Included = included
	}
}

// AllVariantsIncluded reports whether every row is included; the select-all
// checkbox is the conjunction of the row flags.
func (s *Session) AllVariantsIncluded() bool {
	if len(s.Variants) == 0 {
		return false
	}
	for _, row := range s.Variants {
		if !row.Included {
			return false
		}
	}
	return true
}

// RemoveVariant deletes one row outright, as opposed to unchecking it.
func (s *Session) RemoveVariant(index int) error {
	if index < 0 || index >= len(s.Variants) {
		return pkgerrors.New(pkgerrors.CodeValidation, "variant index out of range")
	}
	s.Variants = append(s.Variants[:index], s.Variants[index+1:]...)
	return nil
}

// UpdateVariant applies a partial edit to one row and marks it as manually
// edited so regeneration will not reset it.
func (s *Session) UpdateVariant(index int, patch VariantPatch) error {
	if index < 0 || index >= len(s.Variants) {
		return pkgerrors.New(pkgerrors.CodeValidation, "variant index out of range")
	}
	row := &s.Variants[index]
	if patch.SKU != nil {
		row.SKU = strings.TrimSpace(*patch.SKU)
	}
	if patch.Name != nil {
		row.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.PurchasePriceCents != nil {
		row.PurchasePriceCents = *patch.PurchasePriceCents
	}
	if patch.SellingPriceCents != nil {
		row.SellingPriceCents = *patch.SellingPriceCents
	}
	if patch.StockQty != nil {
		row.StockQty = *patch.StockQty
	}
	row.Edited = true
	return nil
}

// CollectVariants returns the included rows in table order, coercing any
// negative numeric field to zero.
func (s *Session) CollectVariants() []VariantSubmission {
	out := make([]VariantSubmission, 0, len(s.Variants))
	for _, row := range s.Variants {
		if !row.Included {
			continue
		}
		out = append(out, VariantSubmission{
			SKU:                row.SKU,
			Name:               row.Name,
			PurchasePriceCents: coerceNonNegative(row.PurchasePriceCents),
			SellingPriceCents:  coerceNonNegative(row.SellingPriceCents),
			StockQty:           coerceNonNegative(row.StockQty),
			Options:            row.Options,
		})
	}
	return out
}

func coerceNonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
