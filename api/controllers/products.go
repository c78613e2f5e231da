package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/emiliocantu/stockroom-backend/api/responses"
	"github.com/emiliocantu/stockroom-backend/api/validators"
	product "github.com/emiliocantu/stockroom-backend/internal/products"
	"github.com/emiliocantu/stockroom-backend/pkg/enums"
	pkgerrors "github.com/emiliocantu/stockroom-backend/pkg/errors"
	"github.com/emiliocantu/stockroom-backend/pkg/logger"
	"github.com/emiliocantu/stockroom-backend/pkg/pagination"
)

func ListProducts(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1<<20)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := product.ListInput{
			StoreID:    storeID,
			Search:     strings.TrimSpace(r.URL.Query().Get("q")),
			Pagination: pagination.Params{Limit: limit, Offset: offset},
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("type")); raw != "" {
			parsed, err := enums.ParseProductType(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product type filter"))
				return
			}
			input.ProductType = &parsed
		}

		result, err := svc.ListProducts(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func GetProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.GetProduct(r.Context(), storeID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func CreateProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload productDraftRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput(storeID, nil)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.SaveDraft(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func UpdateProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload productDraftRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput(storeID, &productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.SaveDraft(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func DeleteProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), storeID, productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type productDraftRequest struct {
	SKU                string              `json:"sku" validate:"required"`
	Name               string              `json:"name" validate:"required"`
	ProductType        string              `json:"product_type" validate:"required,oneof=simple master bundle"`
	PurchasePriceCents int                 `json:"purchase_price_cents" validate:"omitempty,min=0"`
	SellingPriceCents  int                 `json:"selling_price_cents" validate:"omitempty,min=0"`
	StockQty           int                 `json:"stock_qty" validate:"omitempty,min=0"`
	ImageURL           *string             `json:"image_url,omitempty"`
	IsActive           bool                `json:"is_active"`
	Variants           []variantRequest    `json:"variants" validate:"omitempty,dive"`
	BundleItems        []bundleItemRequest `json:"bundle_items" validate:"omitempty,dive"`
}

type variantRequest struct {
	SKU                string                 `json:"sku" validate:"required"`
	Name               string                 `json:"name" validate:"required"`
	PurchasePriceCents int                    `json:"purchase_price_cents" validate:"omitempty,min=0"`
	SellingPriceCents  int                    `json:"selling_price_cents" validate:"omitempty,min=0"`
	StockQty           int                    `json:"stock_qty" validate:"omitempty,min=0"`
	Options            []variantOptionRequest `json:"options" validate:"omitempty,dive"`
}

type variantOptionRequest struct {
	GroupID   string `json:"group_id" validate:"required,uuid"`
	ValueID   string `json:"value_id" validate:"required,uuid"`
	ValueName string `json:"value_name" validate:"required"`
}

type bundleItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"omitempty,min=1"`
}

func (p productDraftRequest) toInput(storeID uuid.UUID, productID *uuid.UUID) (product.SaveDraftInput, error) {
	productType, err := enums.ParseProductType(p.ProductType)
	if err != nil {
		return product.SaveDraftInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product type")
	}

	input := product.SaveDraftInput{
		StoreID:            storeID,
		ProductID:          productID,
		SKU:                p.SKU,
		Name:               p.Name,
		ProductType:        productType,
		PurchasePriceCents: p.PurchasePriceCents,
		SellingPriceCents:  p.SellingPriceCents,
		StockQty:           p.StockQty,
		ImageURL:           p.ImageURL,
		IsActive:           p.IsActive,
	}

	for _, v := range p.Variants {
		variant := product.VariantInput{
			SKU:                v.SKU,
			Name:               v.Name,
			PurchasePriceCents: v.PurchasePriceCents,
			SellingPriceCents:  v.SellingPriceCents,
			StockQty:           v.StockQty,
		}
		for _, opt := range v.Options {
			groupID, err := uuid.Parse(opt.GroupID)
			if err != nil {
				return product.SaveDraftInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid option group id")
			}
			valueID, err := uuid.Parse(opt.ValueID)
			if err != nil {
				return product.SaveDraftInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid option value id")
			}
			variant.Options = append(variant.Options, product.VariantOptionInput{
				GroupID:   groupID,
				ValueID:   valueID,
				ValueName: opt.ValueName,
			})
		}
		input.Variants = append(input.Variants, variant)
	}

	for _, item := range p.BundleItems {
		componentID, err := uuid.Parse(item.ProductID)
		if err != nil {
			return product.SaveDraftInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid component product id")
		}
		input.BundleItems = append(input.BundleItems, product.BundleItemInput{
			ProductID: componentID,
			Quantity:  item.Quantity,
		})
	}

	return input, nil
}
