package product

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/emiliocantu/stockroom-backend/pkg/enums"
	pkgerrors "github.com/emiliocantu/stockroom-backend/pkg/errors"
)

func validMasterDraft() SaveDraftInput {
	return SaveDraftInput{
		StoreID:     uuid.New(),
		SKU:         "TS",
		Name:        "T-Shirt",
		ProductType: enums.ProductTypeMaster,
		Variants: []VariantInput{
			{SKU: "TS-1", Name: "Red / S"},
			{SKU: "TS-2", Name: "Red / M"},
		},
	}
}

func TestValidateDraftBaseFields(t *testing.T) {
	draft := validMasterDraft()
	draft.SKU = "   "
	if err := validateDraft(draft); err == nil {
		t.Fatalf("expected sku rejection")
	}

	draft = validMasterDraft()
	draft.Name = ""
	if err := validateDraft(draft); err == nil {
		t.Fatalf("expected name rejection")
	}

	draft = validMasterDraft()
	draft.ProductType = enums.ProductType("giftcard")
	if err := validateDraft(draft); err == nil {
		t.Fatalf("expected type rejection")
	}
}

func TestValidateDraftMaster(t *testing.T) {
	draft := validMasterDraft()
	if err := validateDraft(draft); err != nil {
		t.Fatalf("valid draft rejected: %v", err)
	}

	draft.Variants = nil
	err := validateDraft(draft)
	if err == nil {
		t.Fatalf("a master with no variants must be rejected")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("code = %s, want validation", pkgerrors.As(err).Code())
	}

	draft = validMasterDraft()
	draft.Variants[1].SKU = "TS-1"
	if err := validateDraft(draft); err == nil {
		t.Fatalf("duplicate variant skus must be rejected")
	}

	draft = validMasterDraft()
	draft.Variants[0].SKU = "  "
	if err := validateDraft(draft); err == nil {
		t.Fatalf("blank variant sku must be rejected")
	}
}

func TestValidateDraftBundle(t *testing.T) {
	componentID := uuid.New()
	draft := SaveDraftInput{
		StoreID:     uuid.New(),
		SKU:         "KIT",
		Name:        "Desk Kit",
		ProductType: enums.ProductTypeBundle,
		BundleItems: []BundleItemInput{{ProductID: componentID, Quantity: 2}},
	}
	if err := validateDraft(draft); err != nil {
		t.Fatalf("valid draft rejected: %v", err)
	}

	draft.BundleItems = nil
	if err := validateDraft(draft); err == nil {
		t.Fatalf("a bundle with no components must be rejected")
	}

	draft.BundleItems = []BundleItemInput{
		{ProductID: componentID, Quantity: 1},
		{ProductID: componentID, Quantity: 3},
	}
	if err := validateDraft(draft); err == nil {
		t.Fatalf("duplicate components must be rejected")
	}
}

func TestValidateDraftSimple(t *testing.T) {
	draft := SaveDraftInput{
		StoreID:     uuid.New(),
		SKU:         "TS",
		Name:        "T-Shirt",
		ProductType: enums.ProductTypeSimple,
	}
	if err := validateDraft(draft); err != nil {
		t.Fatalf("valid draft rejected: %v", err)
	}

	draft.Variants = []VariantInput{{SKU: "x", Name: "x"}}
	if err := validateDraft(draft); err == nil {
		t.Fatalf("a simple product must not carry variants")
	}
}

func TestBuildVariantRows(t *testing.T) {
	productID := uuid.New()
	groupID := uuid.New()
	valueID := uuid.New()

	rows := buildVariantRows(productID, []VariantInput{
		{SKU: " TS-1 ", Name: " Red ", SellingPriceCents: 10000,
			Options: []VariantOptionInput{{GroupID: groupID, ValueID: valueID, ValueName: "Red"}}},
		{SKU: "TS-2", Name: "Blue", SellingPriceCents: 10500},
	})

	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].SKU != "TS-1" || rows[0].Name != "Red" {
		t.Fatalf("fields not trimmed: %q %q", rows[0].SKU, rows[0].Name)
	}
	if rows[0].Position != 0 || rows[1].Position != 1 {
		t.Fatalf("positions must follow input order")
	}
	if rows[0].ProductID != productID {
		t.Fatalf("row not bound to product")
	}
	if len(rows[0].Options) != 1 || rows[0].Options[0].ValueName != "Red" {
		t.Fatalf("options not carried over")
	}
}

func TestBuildBundleRowsClampsQuantity(t *testing.T) {
	productID := uuid.New()
	rows := buildBundleRows(productID, []BundleItemInput{
		{ProductID: uuid.New(), Quantity: 0},
		{ProductID: uuid.New(), Quantity: -5},
		{ProductID: uuid.New(), Quantity: 3},
	})

	want := []int{1, 1, 3}
	for i, row := range rows {
		if row.Quantity != want[i] {
			t.Fatalf("row %d: quantity = %d, want %d", i, row.Quantity, want[i])
		}
		if row.ProductID != productID {
			t.Fatalf("row %d not bound to bundle", i)
		}
	}
}

func TestValidateDraftErrorMessages(t *testing.T) {
	draft := validMasterDraft()
	draft.Variants = nil
	err := validateDraft(draft)
	if err == nil || !strings.Contains(err.Error(), "variant") {
		t.Fatalf("unexpected error: %v", err)
	}
}
