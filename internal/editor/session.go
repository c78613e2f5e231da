package editor

import (
	"time"

	"github.com/google/uuid"

	"github.com/emiliocantu/stockroom-backend/pkg/enums"
	pkgerrors "github.com/emiliocantu/stockroom-backend/pkg/errors"
)

// Session is the full state of one product edit. It replaces the ambient
// per-page globals of older clients: every field the variant generator and
// bundle composer read or write lives here, nothing is shared between edits,
// and the whole value round-trips through the session store as JSON.
type Session struct {
	ID          uuid.UUID         `json:"id"`
	StoreID     uuid.UUID         `json:"store_id"`
	ProductID   *uuid.UUID        `json:"product_id,omitempty"`
	ProductType enums.ProductType `json:"product_type"`

	Base DraftBase `json:"base"`

	// OptionGroups is the ordered selection; order is combination order.
	OptionGroups []SelectedGroup `json:"option_groups"`

	Variants         []SessionVariant  `json:"variants"`
	BundleComponents []BundleComponent `json:"bundle_components"`

	// AutoFilledPurchase and AutoFilledSelling mark base prices that were
	// derived from the bundle totals rather than typed by the user. An
	// auto-filled price keeps tracking the totals; a user-set price does not.
	AutoFilledPurchase bool `json:"auto_filled_purchase,omitempty"`
	AutoFilledSelling  bool `json:"auto_filled_selling,omitempty"`

	// LastSearchSeq is the highest component-search sequence number issued
	// for this session; responses carrying a lower number are stale.
	LastSearchSeq int64 `json:"last_search_seq"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DraftBase carries the editable base-product fields of the draft.
type DraftBase struct {
	SKU                string  `json:"sku"`
	Name               string  `json:"name"`
	PurchasePriceCents int     `json:"purchase_price_cents"`
	SellingPriceCents  int     `json:"selling_price_cents"`
	StockQty           int     `json:"stock_qty"`
	ImageURL           *string `json:"image_url,omitempty"`
	IsActive           bool    `json:"is_active"`
}

// SelectedGroup is one option group chosen for the selection, with the value
// list snapshotted at add time so a later template edit cannot shift an
// in-progress generation.
type SelectedGroup struct {
	ID     uuid.UUID       `json:"id"`
	Name   string          `json:"name"`
	Values []SelectedValue `json:"values"`
}

// SelectedValue is one value of a selected group.
type SelectedValue struct {
	ID                   uuid.UUID `json:"id"`
	Value                string    `json:"value"`
	AdditionalPriceCents int       `json:"additional_price_cents"`
}

// NewSession opens a blank edit session in simple mode with an empty
// selection, mirroring the cleared state a fresh edit form starts from.
func NewSession(storeID uuid.UUID) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:               uuid.New(),
		StoreID:          storeID,
		ProductType:      enums.ProductTypeSimple,
		Base:             DraftBase{IsActive: true},
		OptionGroups:     []SelectedGroup{},
		Variants:         []SessionVariant{},
		BundleComponents: []BundleComponent{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// AddGroup appends the group to the ordered selection. A group already
// present (by id) is rejected and the selection is left untouched.
func (s *Session) AddGroup(group SelectedGroup) error {
	for _, existing := range s.OptionGroups {
		if existing.ID == group.ID {
			return pkgerrors.New(pkgerrors.CodeValidation, "option group already selected").
				WithDetails(map[string]any{"group": group.Name})
		}
	}
	if len(group.Values) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "option group has no values")
	}
	s.OptionGroups = append(s.OptionGroups, group)
	return nil
}

// RemoveGroup removes the group at the given position.
func (s *Session) RemoveGroup(index int) error {
	if index < 0 || index >= len(s.OptionGroups) {
		return pkgerrors.New(pkgerrors.CodeValidation, "option group index out of range")
	}
	s.OptionGroups = append(s.OptionGroups[:index], s.OptionGroups[index+1:]...)
	return nil
}

// ClearGroups empties the selection.
func (s *Session) ClearGroups() {
	s.OptionGroups = s.OptionGroups[:0]
}

// SetProductType switches the active mode. Rows belonging to the inactive
// mode are retained in the session; only the rows matching the mode at
// submit time are serialized.
func (s *Session) SetProductType(pt enums.ProductType) error {
	if !pt.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid product type")
	}
	s.ProductType = pt
	return nil
}

// ObserveSearchSeq records a component-search sequence number and returns
// the effective number with an acceptance flag. A zero seq means the caller
// is not sequencing its requests; it is assigned the next number and always
// accepted. A non-zero seq not newer than the latest issued is stale and the
// caller must discard the result set.
func (s *Session) ObserveSearchSeq(seq int64) (int64, bool) {
	if seq == 0 {
		s.LastSearchSeq++
		return s.LastSearchSeq, true
	}
	if seq <= s.LastSearchSeq {
		return seq, false
	}
	s.LastSearchSeq = seq
	return seq, true
}
