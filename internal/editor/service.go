package editor

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	product "github.com/emiliocantu/stockroom-backend/internal/products"
	"github.com/emiliocantu/stockroom-backend/pkg/config"
	"github.com/emiliocantu/stockroom-backend/pkg/db/models"
	"github.com/emiliocantu/stockroom-backend/pkg/enums"
	pkgerrors "github.com/emiliocantu/stockroom-backend/pkg/errors"
	"github.com/emiliocantu/stockroom-backend/pkg/logger"
	"github.com/emiliocantu/stockroom-backend/pkg/pagination"
)

// Service drives product edit sessions: opening and closing them, mutating
// the option selection, variant table and bundle set, and submitting the
// finished draft to the catalog.
type Service interface {
	Open(ctx context.Context, storeID uuid.UUID, input OpenInput) (*SessionDTO, error)
	Get(ctx context.Context, storeID, sessionID uuid.UUID) (*SessionDTO, error)
	Close(ctx context.Context, storeID, sessionID uuid.UUID) error

	SetProductType(ctx context.Context, storeID, sessionID uuid.UUID, productType string) (*SessionDTO, error)
	UpdateBase(ctx context.Context, storeID, sessionID uuid.UUID, patch BasePatch) (*SessionDTO, error)

	AddOptionGroup(ctx context.Context, storeID, sessionID, groupID uuid.UUID) (*SessionDTO, error)
	RemoveOptionGroup(ctx context.Context, storeID, sessionID uuid.UUID, index int) (*SessionDTO, error)
	ClearOptionGroups(ctx context.Context, storeID, sessionID uuid.UUID) (*SessionDTO, error)

	Generate(ctx context.Context, storeID, sessionID uuid.UUID) (*SessionDTO, error)
	UpdateVariant(ctx context.Context, storeID, sessionID uuid.UUID, index int, patch VariantPatch) (*SessionDTO, error)
	ToggleVariant(ctx context.Context, storeID, sessionID uuid.UUID, index int, included bool) (*SessionDTO, error)
	ToggleAllVariants(ctx context.Context, storeID, sessionID uuid.UUID, included bool) (*SessionDTO, error)
	RemoveVariant(ctx context.Context, storeID, sessionID uuid.UUID, index int) (*SessionDTO, error)

	AddBundleComponent(ctx context.Context, storeID, sessionID, productID uuid.UUID, quantity int) (*SessionDTO, error)
	UpdateBundleQuantity(ctx context.Context, storeID, sessionID, productID uuid.UUID, quantity int) (*SessionDTO, error)
	RemoveBundleComponent(ctx context.Context, storeID, sessionID, productID uuid.UUID) (*SessionDTO, error)
	SearchComponents(ctx context.Context, storeID, sessionID uuid.UUID, query string, seq int64) (*ComponentSearchDTO, error)

	Submit(ctx context.Context, storeID, sessionID uuid.UUID) (*product.ProductDTO, error)
}

// OpenInput starts a session; ProductID set means editing an existing product.
type OpenInput struct {
	ProductID *uuid.UUID
}

// BasePatch carries partial edits to the draft's base fields.
type BasePatch struct {
	SKU                *string `json:"sku,omitempty"`
	Name               *string `json:"name,omitempty"`
	PurchasePriceCents *int    `json:"purchase_price_cents,omitempty"`
	SellingPriceCents  *int    `json:"selling_price_cents,omitempty"`
	StockQty           *int    `json:"stock_qty,omitempty"`
	ImageURL           *string `json:"image_url,omitempty"`
	IsActive           *bool   `json:"is_active,omitempty"`
}

// ProductCatalog supplies product rows for rehydration and component lookups.
type ProductCatalog interface {
	FindDetail(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, query product.ListQuery) ([]models.Product, bool, error)
}

// OptionCatalog supplies option group templates for the selection.
type OptionCatalog interface {
	FindGroup(ctx context.Context, id uuid.UUID) (*models.OptionGroup, error)
}

// ProductWriter persists the finished draft.
type ProductWriter interface {
	SaveDraft(ctx context.Context, input product.SaveDraftInput) (*product.ProductDTO, error)
}

type service struct {
	store    SessionStore
	catalog  ProductCatalog
	options  OptionCatalog
	products ProductWriter
	cfg      config.EditorConfig
	log      *logger.Logger
}

// NewService constructs an editor service instance.
func NewService(store SessionStore, catalog ProductCatalog, options OptionCatalog, products ProductWriter, cfg config.EditorConfig, log *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("session store required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("product catalog required")
	}
	if options == nil {
		return nil, fmt.Errorf("option catalog required")
	}
	if products == nil {
		return nil, fmt.Errorf("product writer required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		store:    store,
		catalog:  catalog,
		options:  options,
		products: products,
		cfg:      cfg,
		log:      log,
	}, nil
}

// Open starts a new edit session. With a product id the session is seeded
// from the stored product so the edit form opens with current data.
func (s *service) Open(ctx context.Context, storeID uuid.UUID, input OpenInput) (*SessionDTO, error) {
	session := NewSession(storeID)

	if input.ProductID != nil {
		existing, err := s.catalog.FindDetail(ctx, *input.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
		}
		if existing.StoreID != storeID {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product does not belong to store")
		}
		if err := s.rehydrate(ctx, session, existing); err != nil {
			return nil, err
		}
	}

	if err := s.store.Save(ctx, session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "session store: save")
	}
	logCtx := s.log.WithFields(ctx, map[string]any{
		"session_id": session.ID.String(),
		"editing":    input.ProductID != nil,
	})
	s.log.Info(logCtx, "editor session opened")
	return NewSessionDTO(session), nil
}

func (s *service) Get(ctx context.Context, storeID, sessionID uuid.UUID) (*SessionDTO, error) {
	session, err := s.loadSession(ctx, storeID, sessionID)
	if err != nil {
		return nil, err
	}
	return NewSessionDTO(session), nil
}

// Close discards the session without saving anything.
func (s *service) Close(ctx context.Context, storeID, sessionID uuid.UUID) error {
	if _, err := s.loadSession(ctx, storeID, sessionID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "session store: delete")
	}
	return nil
}

// SetProductType switches the session's mode. Variant rows and bundle
// components both stay on the session; switching back restores them.
func (s *service) SetProductType(ctx context.Context, storeID, sessionID uuid.UUID, productType string) (*SessionDTO, error) {
	return s.mutate(ctx, storeID, sessionID, func(session *Session) error {
		parsed, err := enums.ParseProductType(productType)
		if err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid product type").
				WithDetails(map[string]any{"product_type": productType})
		}
		return session.SetProductType(parsed)
	})
}

func (s *service) UpdateBase(ctx context.Context, storeID, sessionID uuid.UUID, patch BasePatch) (*SessionDTO, error) {
	return s.mutate(ctx, storeID, sessionID, func(session *Session) error {
		applyBasePatch(session, patch)
		return nil
	})
}

// AddOptionGroup snapshots the group template into the session's selection.
func (s *service) AddOptionGroup(ctx context.Context, storeID, sessionID, groupID uuid.UUID) (*SessionDTO, error) {
	group, err := s.options.FindGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "option group not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load option group")
	}
	if group.StoreID != storeID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "option group does not belong to store")
	}

	return s.mutate(ctx, storeID, sessionID, func(session *Session) error {
		return session.AddGroup(snapshotGroup(group))
	})
}

func (s *service) RemoveOptionGroup(ctx context.Context, storeID, sessionID uuid.UUID, index int) (*SessionDTO, error) {
	return s.mutate(ctx, storeID, sessionID, func(session *Session) error {
		return session.RemoveGroup(index)
	})
}

func (s *service) ClearOptionGroups(ctx context.Context, storeID, sessionID uuid.UUID) (*SessionDTO, error) {
	return s.mutate(ctx, storeID, sessionID, func(session *Session) error {
		session.ClearGroups()
		return nil
	})
}

func (s *service) Generate(ctx context.Context, storeID, sessionID uuid.UUID) (*SessionDTO, error) {
	return s.mutate(ctx, storeID, sessionID, func(session *Session) error {
		return session.GenerateVariants(s.cfg.MaxVariantsPerGen)
	})
}

func (s *service) UpdateVariant(ctx context.Context, storeID, sessionID uuid.UUID, index int, patch VariantPatch) (*SessionDTO, error) {
	return s.mutate(ctx, storeID, sessionID, func(session *Session) error {
		return session.UpdateVariant(index, patch)
	})
}

func (s *service) ToggleVariant(ctx context.Context, storeID, sessionID uuid.UUID, index int, included bool) (*SessionDTO, error) {
	return s.mutate(ctx, storeID, sessionID, func(session *Session) error {
		return session.ToggleVariant(index, included)
	})
}

func (s *service) ToggleAllVariants(ctx context.Context, storeID, sessionID uuid.UUID, included bool) (*SessionDTO, error) {
	return s.mutate(ctx, storeID, sessionID, func(session *Session) error {
		session.ToggleAllVariants(included)
		return nil
	})
}

func (s *service) RemoveVariant(ctx context.Context, storeID, sessionID uuid.UUID, index int) (*SessionDTO, error) {
	return s.mutate(ctx, storeID, sessionID, func(session *Session) error {
		return session.RemoveVariant(index)
	})
}

// AddBundleComponent resolves the product and snapshots its current prices
// into the component row.
func (s *service) AddBundleComponent(ctx context.Context, storeID, sessionID, productID uuid.UUID, quantity int) (*SessionDTO, error) {
	component, err := s.catalog.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load component product")
	}
	if component.StoreID != storeID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product does not belong to store")
	}

	return s.mutate(ctx, storeID, sessionID, func(session *Session) error {
		return session.AddComponent(BundleComponent{
			ProductID:          component.ID,
			Name:               component.Name,
			PurchasePriceCents: component.PurchasePriceCents,
			SellingPriceCents:  component.SellingPriceCents,
			ImageURL:           component.ImageURL,
		}, quantity)
	})
}

func (s *service) UpdateBundleQuantity(ctx context.Context, storeID, sessionID, productID uuid.UUID, quantity int) (*SessionDTO, error) {
	return s.mutate(ctx, storeID, sessionID, func(session *Session) error {
		return session.UpdateComponentQuantity(productID, quantity)
	})
}

func (s *service) RemoveBundleComponent(ctx context.Context, storeID, sessionID, productID uuid.UUID) (*SessionDTO, error) {
	return s.mutate(ctx, storeID, sessionID, func(session *Session) error {
		return session.RemoveComponent(productID)
	})
}

// SearchComponents runs a catalog search scoped to the session's store. The
// caller tags every request with a climbing sequence number; a request that
// arrives after a newer one has been observed is answered as stale with no
// result rows, so a slow early response can never clobber a newer one. A
// request without a sequence number opts out of the guard and always gets
// the live results.
func (s *service) SearchComponents(ctx context.Context, storeID, sessionID uuid.UUID, query string, seq int64) (*ComponentSearchDTO, error) {
	session, err := s.loadSession(ctx, storeID, sessionID)
	if err != nil {
		return nil, err
	}

	effectiveSeq, accepted := session.ObserveSearchSeq(seq)
	if !accepted {
		return &ComponentSearchDTO{Seq: effectiveSeq, Stale: true, Products: []ComponentResultDTO{}}, nil
	}
	if err := s.store.Save(ctx, session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "session store: save")
	}

	rows, _, err := s.catalog.ListProducts(ctx, product.ListQuery{
		StoreID:    storeID,
		Search:     query,
		Pagination: pagination.Params{Limit: s.cfg.SearchLimit},
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: search products")
	}

	results := make([]ComponentResultDTO, 0, len(rows))
	for _, row := range rows {
		// a bundle cannot contain the product being edited
		if session.ProductID != nil && row.ID == *session.ProductID {
			continue
		}
		results = append(results, NewComponentResultDTO(&row))
	}
	return &ComponentSearchDTO{Seq: effectiveSeq, Stale: false, Products: results}, nil
}

// Submit validates the draft against its mode, persists it through the
// catalog, and discards the session on success. Validation happens before
// any write, so a rejected draft leaves both the database and the session
// untouched.
func (s *service) Submit(ctx context.Context, storeID, sessionID uuid.UUID) (*product.ProductDTO, error) {
	session, err := s.loadSession(ctx, storeID, sessionID)
	if err != nil {
		return nil, err
	}

	input := product.SaveDraftInput{
		StoreID:            storeID,
		ProductID:          session.ProductID,
		SKU:                session.Base.SKU,
		Name:               session.Base.Name,
		ProductType:        session.ProductType,
		PurchasePriceCents: session.Base.PurchasePriceCents,
		SellingPriceCents:  session.Base.SellingPriceCents,
		StockQty:           session.Base.StockQty,
		ImageURL:           session.Base.ImageURL,
		IsActive:           session.Base.IsActive,
	}

	switch session.ProductType {
	case enums.ProductTypeMaster:
		submissions := session.CollectVariants()
		if len(submissions) == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "a master product needs at least one included variant")
		}
		input.Variants = make([]product.VariantInput, 0, len(submissions))
		for _, sub := range submissions {
			options := make([]product.VariantOptionInput, 0, len(sub.Options))
			for _, opt := range sub.Options {
				options = append(options, product.VariantOptionInput{
					GroupID:   opt.GroupID,
					ValueID:   opt.ValueID,
					ValueName: opt.ValueName,
				})
			}
			input.Variants = append(input.Variants, product.VariantInput{
				SKU:                sub.SKU,
				Name:               sub.Name,
				PurchasePriceCents: sub.PurchasePriceCents,
				SellingPriceCents:  sub.SellingPriceCents,
				StockQty:           sub.StockQty,
				Options:            options,
			})
		}
	case enums.ProductTypeBundle:
		items := session.CollectBundleItems()
		if len(items) == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "a bundle needs at least one component")
		}
		input.BundleItems = make([]product.BundleItemInput, 0, len(items))
		for _, item := range items {
			input.BundleItems = append(input.BundleItems, product.BundleItemInput{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			})
		}
	}

	saved, err := s.products.SaveDraft(ctx, input)
	if err != nil {
		return nil, err
	}

	if err := s.store.Delete(ctx, sessionID); err != nil {
		// the draft is saved; an orphaned session just expires on its own
		s.log.Warn(s.log.WithField(ctx, "session_id", sessionID.String()), "editor session cleanup failed")
	}
	logCtx := s.log.WithFields(ctx, map[string]any{
		"session_id": sessionID.String(),
		"product_id": saved.ID.String(),
	})
	s.log.Info(logCtx, "editor session submitted")
	return saved, nil
}

// mutate loads the session, applies fn, and saves it back; any error from fn
// leaves the stored session unchanged.
func (s *service) mutate(ctx context.Context, storeID, sessionID uuid.UUID, fn func(*Session) error) (*SessionDTO, error) {
	session, err := s.loadSession(ctx, storeID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(session); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "session store: save")
	}
	return NewSessionDTO(session), nil
}

func (s *service) loadSession(ctx context.Context, storeID, sessionID uuid.UUID) (*Session, error) {
	session, err := s.store.Find(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "edit session not found or expired")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "session store: find")
	}
	if session.StoreID != storeID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "edit session does not belong to store")
	}
	return session, nil
}

// rehydrate seeds a fresh session from a stored product. Loaded variant rows
// are marked edited so a later regeneration cannot discard saved data; the
// option selection starts empty because the original group snapshots are not
// persisted with the product.
func (s *service) rehydrate(ctx context.Context, session *Session, existing *models.Product) error {
	session.ProductID = &existing.ID
	session.ProductType = existing.ProductType
	session.Base = DraftBase{
		SKU:                existing.SKU,
		Name:               existing.Name,
		PurchasePriceCents: existing.PurchasePriceCents,
		SellingPriceCents:  existing.SellingPriceCents,
		StockQty:           existing.StockQty,
		ImageURL:           existing.ImageURL,
		IsActive:           existing.IsActive,
	}

	for _, variant := range existing.Variants {
		choices := make([]VariantChoice, 0, len(variant.Options))
		for _, opt := range variant.Options {
			choices = append(choices, VariantChoice{
				GroupID:   opt.GroupID,
				ValueID:   opt.ValueID,
				ValueName: opt.ValueName,
			})
		}
		session.Variants = append(session.Variants, SessionVariant{
			SKU:                variant.SKU,
			Name:               variant.Name,
			PurchasePriceCents: variant.PurchasePriceCents,
			SellingPriceCents:  variant.SellingPriceCents,
			StockQty:           variant.StockQty,
			Included:           true,
			Edited:             true,
			Options:            choices,
		})
	}

	for _, item := range existing.BundleItems {
		component, err := s.catalog.FindByID(ctx, item.ComponentProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// deleted component, drop the row
				continue
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load bundle component")
		}
		session.BundleComponents = append(session.BundleComponents, BundleComponent{
			ProductID:          component.ID,
			Name:               component.Name,
			PurchasePriceCents: component.PurchasePriceCents,
			SellingPriceCents:  component.SellingPriceCents,
			ImageURL:           component.ImageURL,
			Quantity:           item.Quantity,
		})
	}
	return nil
}

func snapshotGroup(group *models.OptionGroup) SelectedGroup {
	values := make([]SelectedValue, 0, len(group.Values))
	for _, value := range group.Values {
		values = append(values, SelectedValue{
			ID:                   value.ID,
			Value:                value.Value,
			AdditionalPriceCents: value.AdditionalPriceCents,
		})
	}
	return SelectedGroup{ID: group.ID, Name: group.Name, Values: values}
}

// applyBasePatch writes the patched fields onto the draft. A patched price is
// user-typed from here on, so its auto-fill tracking stops.
func applyBasePatch(session *Session, patch BasePatch) {
	base := &session.Base
	if patch.SKU != nil {
		base.SKU = *patch.SKU
	}
	if patch.Name != nil {
		base.Name = *patch.Name
	}
	if patch.PurchasePriceCents != nil {
		base.PurchasePriceCents = *patch.PurchasePriceCents
		session.AutoFilledPurchase = false
	}
	if patch.SellingPriceCents != nil {
		base.SellingPriceCents = *patch.SellingPriceCents
		session.AutoFilledSelling = false
	}
	if patch.StockQty != nil {
		base.StockQty = *patch.StockQty
	}
	if patch.ImageURL != nil {
		base.ImageURL = patch.ImageURL
	}
	if patch.IsActive != nil {
		base.IsActive = *patch.IsActive
	}
}
