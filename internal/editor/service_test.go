package editor

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	product "github.com/emiliocantu/stockroom-backend/internal/products"
	"github.com/emiliocantu/stockroom-backend/pkg/config"
	"github.com/emiliocantu/stockroom-backend/pkg/db/models"
	"github.com/emiliocantu/stockroom-backend/pkg/enums"
	pkgerrors "github.com/emiliocantu/stockroom-backend/pkg/errors"
	"github.com/emiliocantu/stockroom-backend/pkg/logger"
)

// memStore round-trips sessions through JSON like the redis store does, so
// tests catch anything that does not survive serialization.
type memStore struct {
	sessions map[uuid.UUID][]byte
}

func newMemStore() *memStore {
	return &memStore{sessions: map[uuid.UUID][]byte{}}
}

func (m *memStore) Save(_ context.Context, session *Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	m.sessions[session.ID] = raw
	return nil
}

func (m *memStore) Find(_ context.Context, id uuid.UUID) (*Session, error) {
	raw, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (m *memStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.sessions, id)
	return nil
}

type fakeCatalog struct {
	products map[uuid.UUID]*models.Product
}

func (f *fakeCatalog) FindDetail(_ context.Context, id uuid.UUID) (*models.Product, error) {
	return f.FindByID(context.Background(), id)
}

func (f *fakeCatalog) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	if p, ok := f.products[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCatalog) ListProducts(_ context.Context, query product.ListQuery) ([]models.Product, bool, error) {
	var out []models.Product
	for _, p := range f.products {
		if p.StoreID == query.StoreID {
			out = append(out, *p)
		}
	}
	return out, false, nil
}

type fakeOptions struct {
	groups map[uuid.UUID]*models.OptionGroup
}

func (f *fakeOptions) FindGroup(_ context.Context, id uuid.UUID) (*models.OptionGroup, error) {
	if g, ok := f.groups[id]; ok {
		return g, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeWriter struct {
	saved *product.SaveDraftInput
	fail  error
}

func (f *fakeWriter) SaveDraft(_ context.Context, input product.SaveDraftInput) (*product.ProductDTO, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	f.saved = &input
	return &product.ProductDTO{ID: uuid.New(), SKU: input.SKU, Name: input.Name}, nil
}

type serviceFixture struct {
	svc     Service
	store   *memStore
	catalog *fakeCatalog
	options *fakeOptions
	writer  *fakeWriter
	storeID uuid.UUID
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	store := newMemStore()
	catalog := &fakeCatalog{products: map[uuid.UUID]*models.Product{}}
	options := &fakeOptions{groups: map[uuid.UUID]*models.OptionGroup{}}
	writer := &fakeWriter{}
	log := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	svc, err := NewService(store, catalog, options, writer, config.EditorConfig{
		SearchLimit:       20,
		MaxVariantsPerGen: 500,
	}, log)
	require.NoError(t, err)

	return &serviceFixture{
		svc:     svc,
		store:   store,
		catalog: catalog,
		options: options,
		writer:  writer,
		storeID: uuid.New(),
	}
}

func TestOpenBlankSession(t *testing.T) {
	f := newServiceFixture(t)

	dto, err := f.svc.Open(context.Background(), f.storeID, OpenInput{})
	require.NoError(t, err)
	require.Equal(t, enums.ProductTypeSimple.String(), dto.ProductType)
	require.Empty(t, dto.Variants)
	require.Len(t, f.store.sessions, 1)
}

func TestOpenRehydratesExistingProduct(t *testing.T) {
	f := newServiceFixture(t)

	existing := &models.Product{
		ID:                uuid.New(),
		StoreID:           f.storeID,
		SKU:               "TS",
		Name:              "T-Shirt",
		ProductType:       enums.ProductTypeMaster,
		SellingPriceCents: 10000,
		IsActive:          true,
		Variants: []models.ProductVariant{
			{SKU: "TS-1", Name: "Red / S", SellingPriceCents: 10000,
				Options: []models.VariantOption{{GroupID: uuid.New(), ValueID: uuid.New(), ValueName: "Red"}}},
			{SKU: "TS-2", Name: "Red / M", SellingPriceCents: 10200},
		},
	}
	f.catalog.products[existing.ID] = existing

	dto, err := f.svc.Open(context.Background(), f.storeID, OpenInput{ProductID: &existing.ID})
	require.NoError(t, err)
	require.Equal(t, enums.ProductTypeMaster.String(), dto.ProductType)
	require.Equal(t, "TS", dto.Base.SKU)
	require.Len(t, dto.Variants, 2)
	for _, row := range dto.Variants {
		require.True(t, row.Included)
		require.True(t, row.Edited, "loaded rows must survive regeneration")
	}
}

func TestOpenRejectsForeignProduct(t *testing.T) {
	f := newServiceFixture(t)

	other := &models.Product{ID: uuid.New(), StoreID: uuid.New(), SKU: "X", Name: "X"}
	f.catalog.products[other.ID] = other

	_, err := f.svc.Open(context.Background(), f.storeID, OpenInput{ProductID: &other.ID})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}

func TestAddOptionGroupSnapshotsValues(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	group := &models.OptionGroup{
		ID:      uuid.New(),
		StoreID: f.storeID,
		Name:    "Color",
		Values: []models.OptionValue{
			{ID: uuid.New(), Value: "Red"},
			{ID: uuid.New(), Value: "Blue", AdditionalPriceCents: 500},
		},
	}
	f.options.groups[group.ID] = group

	opened, err := f.svc.Open(ctx, f.storeID, OpenInput{})
	require.NoError(t, err)

	dto, err := f.svc.AddOptionGroup(ctx, f.storeID, opened.ID, group.ID)
	require.NoError(t, err)
	require.Len(t, dto.OptionGroups, 1)
	require.Equal(t, "Color", dto.OptionGroups[0].Name)
	require.Equal(t, 500, dto.OptionGroups[0].Values[1].AdditionalPriceCents)

	_, err = f.svc.AddOptionGroup(ctx, f.storeID, opened.ID, group.ID)
	require.Error(t, err, "duplicate group must be rejected")
}

func TestGenerateThroughService(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	group := &models.OptionGroup{
		ID:      uuid.New(),
		StoreID: f.storeID,
		Name:    "Size",
		Values: []models.OptionValue{
			{ID: uuid.New(), Value: "S"},
			{ID: uuid.New(), Value: "M", AdditionalPriceCents: 200},
		},
	}
	f.options.groups[group.ID] = group

	opened, err := f.svc.Open(ctx, f.storeID, OpenInput{})
	require.NoError(t, err)
	sku := "TS"
	name := "Tee"
	price := 10000
	_, err = f.svc.UpdateBase(ctx, f.storeID, opened.ID, BasePatch{SKU: &sku, Name: &name, SellingPriceCents: &price})
	require.NoError(t, err)
	_, err = f.svc.AddOptionGroup(ctx, f.storeID, opened.ID, group.ID)
	require.NoError(t, err)

	dto, err := f.svc.Generate(ctx, f.storeID, opened.ID)
	require.NoError(t, err)
	require.Len(t, dto.Variants, 2)
	require.Equal(t, "TS-1", dto.Variants[0].SKU)
	require.Equal(t, "S", dto.Variants[0].Name)
	require.Equal(t, "Tee (S)", dto.Variants[0].DisplayName)
	require.Equal(t, 10200, dto.Variants[1].SellingPriceCents)
	require.True(t, dto.AllVariantsIncluded)
}

func TestSubmitMasterRequiresIncludedVariant(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	opened, err := f.svc.Open(ctx, f.storeID, OpenInput{})
	require.NoError(t, err)
	sku := "TS"
	name := "T-Shirt"
	_, err = f.svc.UpdateBase(ctx, f.storeID, opened.ID, BasePatch{SKU: &sku, Name: &name})
	require.NoError(t, err)
	_, err = f.svc.SetProductType(ctx, f.storeID, opened.ID, "master")
	require.NoError(t, err)

	_, err = f.svc.Submit(ctx, f.storeID, opened.ID)
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	require.Nil(t, f.writer.saved, "nothing may be written on a rejected submit")
	require.Len(t, f.store.sessions, 1, "a rejected submit keeps the session")
}

func TestSubmitBundle(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	mouse := &models.Product{ID: uuid.New(), StoreID: f.storeID, SKU: "M", Name: "Mouse",
		PurchasePriceCents: 3000, SellingPriceCents: 5000}
	f.catalog.products[mouse.ID] = mouse

	opened, err := f.svc.Open(ctx, f.storeID, OpenInput{})
	require.NoError(t, err)
	sku := "KIT"
	name := "Desk Kit"
	_, err = f.svc.UpdateBase(ctx, f.storeID, opened.ID, BasePatch{SKU: &sku, Name: &name})
	require.NoError(t, err)
	_, err = f.svc.SetProductType(ctx, f.storeID, opened.ID, "bundle")
	require.NoError(t, err)

	dto, err := f.svc.AddBundleComponent(ctx, f.storeID, opened.ID, mouse.ID, 2)
	require.NoError(t, err)
	require.Equal(t, int64(10000), dto.BundleTotals.SellingCents)

	saved, err := f.svc.Submit(ctx, f.storeID, opened.ID)
	require.NoError(t, err)
	require.Equal(t, "KIT", saved.SKU)
	require.NotNil(t, f.writer.saved)
	require.Len(t, f.writer.saved.BundleItems, 1)
	require.Equal(t, 2, f.writer.saved.BundleItems[0].Quantity)
	require.Empty(t, f.store.sessions, "a submitted session is discarded")
}

func TestSubmitEmptyBundleRejected(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	opened, err := f.svc.Open(ctx, f.storeID, OpenInput{})
	require.NoError(t, err)
	sku := "KIT"
	name := "Desk Kit"
	_, err = f.svc.UpdateBase(ctx, f.storeID, opened.ID, BasePatch{SKU: &sku, Name: &name})
	require.NoError(t, err)
	_, err = f.svc.SetProductType(ctx, f.storeID, opened.ID, "bundle")
	require.NoError(t, err)

	_, err = f.svc.Submit(ctx, f.storeID, opened.ID)
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	require.Nil(t, f.writer.saved)
}

func TestSearchComponentsStaleDiscard(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	mouse := &models.Product{ID: uuid.New(), StoreID: f.storeID, SKU: "M", Name: "Mouse"}
	f.catalog.products[mouse.ID] = mouse

	opened, err := f.svc.Open(ctx, f.storeID, OpenInput{})
	require.NoError(t, err)

	fresh, err := f.svc.SearchComponents(ctx, f.storeID, opened.ID, "mou", 2)
	require.NoError(t, err)
	require.False(t, fresh.Stale)
	require.Len(t, fresh.Products, 1)

	stale, err := f.svc.SearchComponents(ctx, f.storeID, opened.ID, "mouse", 1)
	require.NoError(t, err)
	require.True(t, stale.Stale)
	require.Empty(t, stale.Products)
}

func TestSearchWithoutSeqReturnsResults(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	mouse := &models.Product{ID: uuid.New(), StoreID: f.storeID, SKU: "M", Name: "Mouse"}
	f.catalog.products[mouse.ID] = mouse

	opened, err := f.svc.Open(ctx, f.storeID, OpenInput{})
	require.NoError(t, err)

	first, err := f.svc.SearchComponents(ctx, f.storeID, opened.ID, "mou", 0)
	require.NoError(t, err)
	require.False(t, first.Stale)
	require.Len(t, first.Products, 1)
	require.Equal(t, int64(1), first.Seq)

	// an unsequenced client is never locked out by its own earlier searches
	second, err := f.svc.SearchComponents(ctx, f.storeID, opened.ID, "mouse", 0)
	require.NoError(t, err)
	require.False(t, second.Stale)
	require.Len(t, second.Products, 1)
	require.Equal(t, int64(2), second.Seq)
}

func TestSearchExcludesEditedProduct(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	self := &models.Product{ID: uuid.New(), StoreID: f.storeID, SKU: "KIT", Name: "Desk Kit"}
	f.catalog.products[self.ID] = self

	opened, err := f.svc.Open(ctx, f.storeID, OpenInput{ProductID: &self.ID})
	require.NoError(t, err)

	res, err := f.svc.SearchComponents(ctx, f.storeID, opened.ID, "kit", 1)
	require.NoError(t, err)
	require.Empty(t, res.Products, "the product being edited is not a valid component")
}

func TestSessionScopedToStore(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	opened, err := f.svc.Open(ctx, f.storeID, OpenInput{})
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, uuid.New(), opened.ID)
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())

	err = f.svc.Close(ctx, f.storeID, opened.ID)
	require.NoError(t, err)
	_, err = f.svc.Get(ctx, f.storeID, opened.ID)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
