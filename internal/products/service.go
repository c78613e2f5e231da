package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emiliocantu/stockroom-backend/pkg/db/models"
	"github.com/emiliocantu/stockroom-backend/pkg/enums"
	pkgerrors "github.com/emiliocantu/stockroom-backend/pkg/errors"
	"github.com/emiliocantu/stockroom-backend/pkg/pagination"
)

// Service exposes product management operations.
type Service interface {
	SaveDraft(ctx context.Context, input SaveDraftInput) (*ProductDTO, error)
	GetProduct(ctx context.Context, storeID, productID uuid.UUID) (*ProductDTO, error)
	ListProducts(ctx context.Context, input ListInput) (*ProductListResult, error)
	DeleteProduct(ctx context.Context, storeID, productID uuid.UUID) error
}

// SaveDraftInput is the full draft being persisted. Exactly one of Variants
// or BundleItems may be populated, gated by ProductType.
type SaveDraftInput struct {
	StoreID            uuid.UUID
	ProductID          *uuid.UUID
	SKU                string
	Name               string
	ProductType        enums.ProductType
	PurchasePriceCents int
	SellingPriceCents  int
	StockQty           int
	ImageURL           *string
	IsActive           bool
	Variants           []VariantInput
	BundleItems        []BundleItemInput
}

// VariantInput is one variant row being persisted.
type VariantInput struct {
	SKU                string
	Name               string
	PurchasePriceCents int
	SellingPriceCents  int
	StockQty           int
	Options            []VariantOptionInput
}

// VariantOptionInput pins a variant to one option value.
type VariantOptionInput struct {
	GroupID   uuid.UUID
	ValueID   uuid.UUID
	ValueName string
}

// BundleItemInput is one component reference being persisted.
type BundleItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// ListInput filters the product list.
type ListInput struct {
	StoreID     uuid.UUID
	Search      string
	ProductType *enums.ProductType
	Pagination  pagination.Params
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo *Repository
	tx   txRunner
}

// NewService constructs a product service instance.
func NewService(repo *Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// SaveDraft validates the draft and persists it atomically: the product row
// plus its variants or bundle items, replacing whatever was saved before.
func (s *service) SaveDraft(ctx context.Context, input SaveDraftInput) (*ProductDTO, error) {
	if err := validateDraft(input); err != nil {
		return nil, err
	}

	if len(input.BundleItems) > 0 {
		if err := s.ensureComponentsExist(ctx, input); err != nil {
			return nil, err
		}
	}

	var product *models.Product
	if input.ProductID != nil {
		existing, err := s.loadStoreProduct(ctx, input.StoreID, *input.ProductID)
		if err != nil {
			return nil, err
		}
		product = existing
	} else {
		product = &models.Product{StoreID: input.StoreID}
	}

	product.SKU = strings.TrimSpace(input.SKU)
	product.Name = strings.TrimSpace(input.Name)
	product.ProductType = input.ProductType
	product.PurchasePriceCents = input.PurchasePriceCents
	product.SellingPriceCents = input.SellingPriceCents
	product.ImageURL = input.ImageURL
	product.IsActive = input.IsActive

	// stock on the parent row only makes sense for simple products; masters
	// track stock per variant, bundles have no stock of their own
	if input.ProductType == enums.ProductTypeSimple {
		product.StockQty = input.StockQty
	} else {
		product.StockQty = 0
	}

	var savedID uuid.UUID
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		var err error
		if input.ProductID != nil {
			_, err = txRepo.UpdateProduct(ctx, product)
		} else {
			_, err = txRepo.CreateProduct(ctx, product)
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save product")
		}
		savedID = product.ID

		variants := []models.ProductVariant{}
		if input.ProductType == enums.ProductTypeMaster {
			variants = buildVariantRows(product.ID, input.Variants)
		}
		if err := txRepo.ReplaceVariants(ctx, product.ID, variants); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace variants")
		}

		items := []models.BundleItem{}
		if input.ProductType == enums.ProductTypeBundle {
			items = buildBundleRows(product.ID, input.BundleItems)
		}
		if err := txRepo.ReplaceBundleItems(ctx, product.ID, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace bundle items")
		}

		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save product draft")
	}

	return s.GetProduct(ctx, input.StoreID, savedID)
}

// GetProduct loads the product with variants or bundle rows resolved.
func (s *service) GetProduct(ctx context.Context, storeID, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindDetail(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	if product.StoreID != storeID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product does not belong to store")
	}

	components, err := s.loadComponents(ctx, product)
	if err != nil {
		return nil, err
	}
	return NewProductDTO(product, components), nil
}

func (s *service) ListProducts(ctx context.Context, input ListInput) (*ProductListResult, error) {
	rows, hasMore, err := s.repo.ListProducts(ctx, ListQuery{
		StoreID:     input.StoreID,
		Search:      input.Search,
		ProductType: input.ProductType,
		Pagination:  input.Pagination,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}

	result := &ProductListResult{Products: make([]ProductDTO, 0, len(rows)), HasMore: hasMore}
	for i := range rows {
		result.Products = append(result.Products, *NewProductDTO(&rows[i], nil))
	}
	return result, nil
}

func (s *service) DeleteProduct(ctx context.Context, storeID, productID uuid.UUID) error {
	if _, err := s.loadStoreProduct(ctx, storeID, productID); err != nil {
		return err
	}
	if err := s.repo.DeleteProduct(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}
	return nil
}

func (s *service) loadStoreProduct(ctx context.Context, storeID, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	if product.StoreID != storeID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product does not belong to store")
	}
	return product, nil
}

func (s *service) loadComponents(ctx context.Context, product *models.Product) (map[uuid.UUID]models.Product, error) {
	if len(product.BundleItems) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(product.BundleItems))
	for _, item := range product.BundleItems {
		ids = append(ids, item.ComponentProductID)
	}
	components, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load bundle components")
	}
	return components, nil
}

func (s *service) ensureComponentsExist(ctx context.Context, input SaveDraftInput) error {
	ids := make([]uuid.UUID, 0, len(input.BundleItems))
	for _, item := range input.BundleItems {
		ids = append(ids, item.ProductID)
	}
	found, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: resolve bundle components")
	}
	for _, item := range input.BundleItems {
		component, ok := found[item.ProductID]
		if !ok {
			return pkgerrors.New(pkgerrors.CodeValidation, "bundle component does not exist").
				WithDetails(map[string]any{"product_id": item.ProductID})
		}
		if component.StoreID != input.StoreID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "bundle component belongs to another store")
		}
		if input.ProductID != nil && item.ProductID == *input.ProductID {
			return pkgerrors.New(pkgerrors.CodeValidation, "a bundle cannot contain itself")
		}
	}
	return nil
}

func validateDraft(input SaveDraftInput) error {
	if strings.TrimSpace(input.SKU) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if !input.ProductType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid product type")
	}

	switch input.ProductType {
	case enums.ProductTypeMaster:
		if len(input.Variants) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "a master product needs at least one included variant")
		}
		if err := ensureUniqueVariantSKUs(input.Variants); err != nil {
			return err
		}
	case enums.ProductTypeBundle:
		if len(input.BundleItems) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "a bundle needs at least one component")
		}
		if err := ensureUniqueComponents(input.BundleItems); err != nil {
			return err
		}
	case enums.ProductTypeSimple:
		if len(input.Variants) > 0 || len(input.BundleItems) > 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "a simple product cannot carry variants or bundle items")
		}
	}
	return nil
}

func ensureUniqueVariantSKUs(variants []VariantInput) error {
	seen := make(map[string]struct{}, len(variants))
	for _, variant := range variants {
		sku := strings.TrimSpace(variant.SKU)
		if sku == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "variant sku is required")
		}
		if _, ok := seen[sku]; ok {
			return pkgerrors.New(pkgerrors.CodeValidation, "duplicate variant sku").
				WithDetails(map[string]any{"sku": sku})
		}
		seen[sku] = struct{}{}
	}
	return nil
}

func ensureUniqueComponents(items []BundleItemInput) error {
	seen := make(map[uuid.UUID]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			return pkgerrors.New(pkgerrors.CodeValidation, "duplicate bundle component")
		}
		seen[item.ProductID] = struct{}{}
	}
	return nil
}

func buildVariantRows(productID uuid.UUID, inputs []VariantInput) []models.ProductVariant {
	rows := make([]models.ProductVariant, 0, len(inputs))
	for idx, input := range inputs {
		options := make([]models.VariantOption, 0, len(input.Options))
		for _, opt := range input.Options {
			options = append(options, models.VariantOption{
				GroupID:   opt.GroupID,
				ValueID:   opt.ValueID,
				ValueName: opt.ValueName,
			})
		}
		rows = append(rows, models.ProductVariant{
			ProductID:          productID,
			SKU:                strings.TrimSpace(input.SKU),
			Name:               strings.TrimSpace(input.Name),
			PurchasePriceCents: input.PurchasePriceCents,
			SellingPriceCents:  input.SellingPriceCents,
			StockQty:           input.StockQty,
			Position:           idx,
			Options:            options,
		})
	}
	return rows
}

func buildBundleRows(productID uuid.UUID, inputs []BundleItemInput) []models.BundleItem {
	rows := make([]models.BundleItem, 0, len(inputs))
	for _, input := range inputs {
		quantity := input.Quantity
		if quantity < 1 {
			quantity = 1
		}
		rows = append(rows, models.BundleItem{
			ProductID:          productID,
			ComponentProductID: input.ProductID,
			Quantity:           quantity,
		})
	}
	return rows
}
