package editor

import (
	"testing"

	"github.com/google/uuid"
)

func component(name string, purchase, selling int) BundleComponent {
	return BundleComponent{
		ProductID:          uuid.New(),
		Name:               name,
		PurchasePriceCents: purchase,
		SellingPriceCents:  selling,
	}
}

func TestAddComponentTotals(t *testing.T) {
	session := NewSession(uuid.New())

	mouse := component("Mouse", 3000, 5000)
	pad := component("Mousepad", 500, 1500)
	if err := session.AddComponent(mouse, 2); err != nil {
		t.Fatalf("add mouse: %v", err)
	}
	if err := session.AddComponent(pad, 1); err != nil {
		t.Fatalf("add pad: %v", err)
	}

	totals := session.Totals()
	if totals.PurchaseCents != 6500 {
		t.Fatalf("purchase total = %d, want 6500", totals.PurchaseCents)
	}
	if totals.SellingCents != 11500 {
		t.Fatalf("selling total = %d, want 11500", totals.SellingCents)
	}
}

func TestAddComponentRejectsDuplicates(t *testing.T) {
	session := NewSession(uuid.New())
	mouse := component("Mouse", 3000, 5000)

	if err := session.AddComponent(mouse, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := session.AddComponent(mouse, 1); err == nil {
		t.Fatalf("expected duplicate rejection")
	}
	if len(session.BundleComponents) != 1 {
		t.Fatalf("duplicate add changed the set: %d components", len(session.BundleComponents))
	}
}

func TestAddComponentRejectsSelf(t *testing.T) {
	session := NewSession(uuid.New())
	self := uuid.New()
	session.ProductID = &self

	bad := BundleComponent{ProductID: self, Name: "Me"}
	if err := session.AddComponent(bad, 1); err == nil {
		t.Fatalf("a bundle must not contain the product being edited")
	}
}

func TestQuantityClamp(t *testing.T) {
	session := NewSession(uuid.New())
	mouse := component("Mouse", 3000, 5000)

	if err := session.AddComponent(mouse, 0); err != nil {
		t.Fatalf("add: %v", err)
	}
	if got := session.BundleComponents[0].Quantity; got != 1 {
		t.Fatalf("quantity = %d, want clamp to 1", got)
	}

	if err := session.UpdateComponentQuantity(mouse.ProductID, -3); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := session.BundleComponents[0].Quantity; got != 1 {
		t.Fatalf("quantity = %d, want clamp to 1", got)
	}

	if err := session.UpdateComponentQuantity(mouse.ProductID, 4); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := session.Totals().SellingCents; got != 20000 {
		t.Fatalf("selling total = %d, want 20000", got)
	}
}

func TestBundleAutofillTracksTotals(t *testing.T) {
	session := NewSession(uuid.New())
	if err := session.AddComponent(component("Mouse", 1000, 1500), 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	if session.Base.PurchasePriceCents != 2000 || session.Base.SellingPriceCents != 3000 {
		t.Fatalf("zero prices should auto-fill, got %d/%d",
			session.Base.PurchasePriceCents, session.Base.SellingPriceCents)
	}

	// an auto-filled price keeps following the totals as components change
	if err := session.AddComponent(component("Keyboard", 2000, 3000), 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if session.Base.PurchasePriceCents != 4000 || session.Base.SellingPriceCents != 6000 {
		t.Fatalf("auto-filled prices should track totals, got %d/%d",
			session.Base.PurchasePriceCents, session.Base.SellingPriceCents)
	}
}

func TestBundleAutofillStopsAtUserPrice(t *testing.T) {
	session := NewSession(uuid.New())
	if err := session.AddComponent(component("Mouse", 3000, 5000), 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	// a price the user typed stays put
	selling := 4500
	applyBasePatch(session, BasePatch{SellingPriceCents: &selling})
	if err := session.AddComponent(component("Mousepad", 500, 1500), 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if session.Base.SellingPriceCents != 4500 {
		t.Fatalf("user price was overwritten: %d", session.Base.SellingPriceCents)
	}
	if session.Base.PurchasePriceCents != 3500 {
		t.Fatalf("untouched purchase price should track totals, got %d", session.Base.PurchasePriceCents)
	}
}

func TestRemoveComponent(t *testing.T) {
	session := NewSession(uuid.New())
	mouse := component("Mouse", 3000, 5000)
	if err := session.AddComponent(mouse, 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := session.RemoveComponent(uuid.New()); err == nil {
		t.Fatalf("expected error for unknown component")
	}
	if err := session.RemoveComponent(mouse.ProductID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if got := session.Totals().SellingCents; got != 0 {
		t.Fatalf("selling total = %d after removal, want 0", got)
	}
}

func TestMarginPercent(t *testing.T) {
	totals := BundleTotals{PurchaseCents: 6500, SellingCents: 11500}
	if got := totals.MarginPercent().StringFixed(2); got != "43.48" {
		t.Fatalf("margin = %s, want 43.48", got)
	}

	zero := BundleTotals{}
	if !zero.MarginPercent().IsZero() {
		t.Fatalf("empty totals must have zero margin")
	}
}

func TestCollectBundleItems(t *testing.T) {
	session := NewSession(uuid.New())
	mouse := component("Mouse", 3000, 5000)
	pad := component("Mousepad", 500, 1500)
	if err := session.AddComponent(mouse, 3); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := session.AddComponent(pad, 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	items := session.CollectBundleItems()
	if len(items) != 2 {
		t.Fatalf("collected %d items, want 2", len(items))
	}
	if items[0].ProductID != mouse.ProductID || items[0].Quantity != 3 {
		t.Fatalf("unexpected first item: %+v", items[0])
	}
}
