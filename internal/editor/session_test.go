package editor

import (
	"testing"

	"github.com/google/uuid"

	"github.com/emiliocantu/stockroom-backend/pkg/enums"
)

func TestNewSessionDefaults(t *testing.T) {
	storeID := uuid.New()
	session := NewSession(storeID)

	if session.StoreID != storeID {
		t.Fatalf("store id mismatch")
	}
	if session.ProductType != enums.ProductTypeSimple {
		t.Fatalf("fresh session should be simple, got %s", session.ProductType)
	}
	if !session.Base.IsActive {
		t.Fatalf("fresh session should start active")
	}
	if len(session.OptionGroups) != 0 || len(session.Variants) != 0 || len(session.BundleComponents) != 0 {
		t.Fatalf("fresh session should be empty")
	}
}

func TestAddGroupRejectsDuplicates(t *testing.T) {
	session := NewSession(uuid.New())
	group := SelectedGroup{
		ID:     uuid.New(),
		Name:   "Color",
		Values: []SelectedValue{{ID: uuid.New(), Value: "Red"}},
	}

	if err := session.AddGroup(group); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := session.AddGroup(group); err == nil {
		t.Fatalf("expected duplicate rejection")
	}
	if len(session.OptionGroups) != 1 {
		t.Fatalf("selection changed on rejected add")
	}

	empty := SelectedGroup{ID: uuid.New(), Name: "Size"}
	if err := session.AddGroup(empty); err == nil {
		t.Fatalf("expected rejection for a group with no values")
	}
}

func TestRemoveAndClearGroups(t *testing.T) {
	session := NewSession(uuid.New())
	for _, name := range []string{"Color", "Size"} {
		group := SelectedGroup{
			ID:     uuid.New(),
			Name:   name,
			Values: []SelectedValue{{ID: uuid.New(), Value: "x"}},
		}
		if err := session.AddGroup(group); err != nil {
			t.Fatalf("add %s: %v", name, err)
		}
	}

	if err := session.RemoveGroup(2); err == nil {
		t.Fatalf("expected range error")
	}
	if err := session.RemoveGroup(0); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if session.OptionGroups[0].Name != "Size" {
		t.Fatalf("wrong group removed")
	}

	session.ClearGroups()
	if len(session.OptionGroups) != 0 {
		t.Fatalf("clear left %d groups", len(session.OptionGroups))
	}
}

func TestSetProductTypeRetainsRows(t *testing.T) {
	session := NewSession(uuid.New())
	session.Variants = []SessionVariant{{SKU: "X-1", Included: true}}
	session.BundleComponents = []BundleComponent{{ProductID: uuid.New(), Quantity: 1}}

	if err := session.SetProductType(enums.ProductTypeBundle); err != nil {
		t.Fatalf("set bundle: %v", err)
	}
	if len(session.Variants) != 1 {
		t.Fatalf("switching mode dropped variant rows")
	}
	if err := session.SetProductType(enums.ProductTypeMaster); err != nil {
		t.Fatalf("set master: %v", err)
	}
	if len(session.BundleComponents) != 1 {
		t.Fatalf("switching mode dropped bundle rows")
	}

	if err := session.SetProductType(enums.ProductType("giftcard")); err == nil {
		t.Fatalf("expected invalid type rejection")
	}
}

func TestObserveSearchSeq(t *testing.T) {
	session := NewSession(uuid.New())

	if _, ok := session.ObserveSearchSeq(1); !ok {
		t.Fatalf("first seq must be accepted")
	}
	if _, ok := session.ObserveSearchSeq(3); !ok {
		t.Fatalf("newer seq must be accepted")
	}
	if _, ok := session.ObserveSearchSeq(2); ok {
		t.Fatalf("older seq must be rejected")
	}
	if _, ok := session.ObserveSearchSeq(3); ok {
		t.Fatalf("replayed seq must be rejected")
	}
	if session.LastSearchSeq != 3 {
		t.Fatalf("last seq = %d, want 3", session.LastSearchSeq)
	}
}

func TestObserveSearchSeqUnsequenced(t *testing.T) {
	session := NewSession(uuid.New())

	seq, ok := session.ObserveSearchSeq(0)
	if !ok {
		t.Fatalf("unsequenced search on a fresh session must be accepted")
	}
	if seq != 1 {
		t.Fatalf("assigned seq = %d, want 1", seq)
	}

	seq, ok = session.ObserveSearchSeq(0)
	if !ok || seq != 2 {
		t.Fatalf("unsequenced search must always be accepted, got seq=%d ok=%v", seq, ok)
	}

	// an explicit number at or below the assigned ones is stale
	if _, ok := session.ObserveSearchSeq(2); ok {
		t.Fatalf("explicit seq equal to the latest assigned must be rejected")
	}
	if _, ok := session.ObserveSearchSeq(3); !ok {
		t.Fatalf("explicit seq above the latest assigned must be accepted")
	}
}
