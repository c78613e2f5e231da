package editor

import (
	"testing"

	"github.com/google/uuid"
)

func sessionWithGroups(t *testing.T) *Session {
	t.Helper()
	session := NewSession(uuid.New())
	session.Base.SKU = "TS"
	session.Base.PurchasePriceCents = 6000
	session.Base.SellingPriceCents = 10000

	color := SelectedGroup{
		ID:   uuid.New(),
		Name: "Color",
		Values: []SelectedValue{
			{ID: uuid.New(), Value: "Red", AdditionalPriceCents: 0},
			{ID: uuid.New(), Value: "Blue", AdditionalPriceCents: 500},
		},
	}
	size := SelectedGroup{
		ID:   uuid.New(),
		Name: "Size",
		Values: []SelectedValue{
			{ID: uuid.New(), Value: "S", AdditionalPriceCents: 0},
			{ID: uuid.New(), Value: "M", AdditionalPriceCents: 200},
			{ID: uuid.New(), Value: "L", AdditionalPriceCents: 400},
		},
	}
	if err := session.AddGroup(color); err != nil {
		t.Fatalf("add color: %v", err)
	}
	if err := session.AddGroup(size); err != nil {
		t.Fatalf("add size: %v", err)
	}
	return session
}

func TestGenerateVariantsCartesian(t *testing.T) {
	session := sessionWithGroups(t)

	if err := session.GenerateVariants(500); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(session.Variants) != 6 {
		t.Fatalf("expected 6 variants, got %d", len(session.Variants))
	}

	wantNames := []string{"Red / S", "Red / M", "Red / L", "Blue / S", "Blue / M", "Blue / L"}
	wantSelling := []int{10000, 10200, 10400, 10500, 10700, 10900}
	for i, row := range session.Variants {
		if row.Name != wantNames[i] {
			t.Fatalf("row %d: name = %q, want %q", i, row.Name, wantNames[i])
		}
		if row.SellingPriceCents != wantSelling[i] {
			t.Fatalf("row %d: selling = %d, want %d", i, row.SellingPriceCents, wantSelling[i])
		}
		if row.PurchasePriceCents != 6000 {
			t.Fatalf("row %d: purchase = %d, want 6000", i, row.PurchasePriceCents)
		}
		if !row.Included {
			t.Fatalf("row %d: expected included", i)
		}
		if len(row.Options) != 2 {
			t.Fatalf("row %d: expected 2 options, got %d", i, len(row.Options))
		}
	}
	if got := session.Variants[5].SKU; got != "TS-6" {
		t.Fatalf("last sku = %q, want TS-6", got)
	}
}

func TestGenerateVariantsDeterministic(t *testing.T) {
	session := sessionWithGroups(t)
	if err := session.GenerateVariants(500); err != nil {
		t.Fatalf("generate: %v", err)
	}
	first := make([]string, len(session.Variants))
	for i, row := range session.Variants {
		first[i] = row.SKU + "|" + row.Name
	}

	if err := session.GenerateVariants(500); err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	for i, row := range session.Variants {
		if got := row.SKU + "|" + row.Name; got != first[i] {
			t.Fatalf("row %d changed across identical generations: %q vs %q", i, got, first[i])
		}
	}
}

func TestGenerateVariantsPreservesManualState(t *testing.T) {
	session := sessionWithGroups(t)
	if err := session.GenerateVariants(500); err != nil {
		t.Fatalf("generate: %v", err)
	}

	customSKU := "CUSTOM-1"
	customPrice := 9999
	if err := session.UpdateVariant(0, VariantPatch{SKU: &customSKU, SellingPriceCents: &customPrice}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := session.ToggleVariant(2, false); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	session.Base.SellingPriceCents = 12000
	if err := session.GenerateVariants(500); err != nil {
		t.Fatalf("regenerate: %v", err)
	}

	if got := session.Variants[0].SKU; got != customSKU {
		t.Fatalf("edited row lost its sku: %q", got)
	}
	if got := session.Variants[0].SellingPriceCents; got != customPrice {
		t.Fatalf("edited row lost its price: %d", got)
	}
	if session.Variants[2].Included {
		t.Fatalf("unchecked row came back included")
	}
	// untouched rows are rebuilt from the new base price
	if got := session.Variants[1].SellingPriceCents; got != 12200 {
		t.Fatalf("unedited row selling = %d, want 12200", got)
	}
}

func TestGenerateVariantsDropsStaleTuples(t *testing.T) {
	session := sessionWithGroups(t)
	if err := session.GenerateVariants(500); err != nil {
		t.Fatalf("generate: %v", err)
	}
	customSKU := "KEEP-ME"
	if err := session.UpdateVariant(0, VariantPatch{SKU: &customSKU}); err != nil {
		t.Fatalf("update: %v", err)
	}

	// dropping the second group shrinks every tuple; no old key survives
	if err := session.RemoveGroup(1); err != nil {
		t.Fatalf("remove group: %v", err)
	}
	if err := session.GenerateVariants(500); err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	if len(session.Variants) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(session.Variants))
	}
	for i, row := range session.Variants {
		if row.SKU == customSKU {
			t.Fatalf("row %d kept an edit from a tuple that no longer exists", i)
		}
		if row.Edited {
			t.Fatalf("row %d should be a fresh row", i)
		}
	}
}

func TestGenerateVariantsLimits(t *testing.T) {
	session := sessionWithGroups(t)
	err := session.GenerateVariants(4)
	if err == nil {
		t.Fatalf("expected error for 6 combinations over a limit of 4")
	}

	empty := NewSession(uuid.New())
	if err := empty.GenerateVariants(500); err == nil {
		t.Fatalf("expected error for empty selection")
	}
}

func TestToggleAllAndCollect(t *testing.T) {
	session := sessionWithGroups(t)
	if err := session.GenerateVariants(500); err != nil {
		t.Fatalf("generate: %v", err)
	}

	if !session.AllVariantsIncluded() {
		t.Fatalf("fresh generation should have every row included")
	}
	if err := session.ToggleVariant(3, false); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if session.AllVariantsIncluded() {
		t.Fatalf("select-all must be false with one row unchecked")
	}

	session.ToggleAllVariants(false)
	if got := len(session.CollectVariants()); got != 0 {
		t.Fatalf("collected %d rows with everything unchecked", got)
	}

	session.ToggleAllVariants(true)
	negative := -50
	if err := session.UpdateVariant(0, VariantPatch{StockQty: &negative}); err != nil {
		t.Fatalf("update: %v", err)
	}
	collected := session.CollectVariants()
	if len(collected) != 6 {
		t.Fatalf("collected %d rows, want 6", len(collected))
	}
	if collected[0].StockQty != 0 {
		t.Fatalf("negative stock should collect as 0, got %d", collected[0].StockQty)
	}
}

func TestVariantIndexBounds(t *testing.T) {
	session := sessionWithGroups(t)
	if err := session.GenerateVariants(500); err != nil {
		t.Fatalf("generate: %v", err)
	}

	if err := session.ToggleVariant(99, true); err == nil {
		t.Fatalf("expected range error")
	}
	if err := session.UpdateVariant(-1, VariantPatch{}); err == nil {
		t.Fatalf("expected range error")
	}
	if err := session.RemoveVariant(6); err == nil {
		t.Fatalf("expected range error")
	}

	if err := session.RemoveVariant(0); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(session.Variants) != 5 {
		t.Fatalf("expected 5 variants after removal, got %d", len(session.Variants))
	}
}
