package controllers

import (
	"net/http"
	"strings"

	"github.com/everbean/roastery-backend/api/responses"
	"github.com/everbean/roastery-backend/api/validators"
	"github.com/everbean/roastery-backend/internal/catalog"
	pkgerrors "github.com/everbean/roastery-backend/pkg/errors"
	"github.com/everbean/roastery-backend/pkg/logger"
)

// CatalogController serves the storefront catalog plus the admin mutations.
type CatalogController struct {
	service catalog.Service
	logg    *logger.Logger
}

func NewCatalogController(service catalog.Service, logg *logger.Logger) *CatalogController {
	return &CatalogController{service: service, logg: logg}
}

func (c *CatalogController) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := c.service.ListProducts(r.Context())
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, products)
}

func (c *CatalogController) SearchProducts(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		responses.WriteError(r.Context(), c.logg, w,
			pkgerrors.New(pkgerrors.CodeValidation, "search query is required"))
		return
	}
	products, err := c.service.SearchProducts(r.Context(), query)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, products)
}

func (c *CatalogController) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "productID")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	product, err := c.service.GetProduct(r.Context(), id)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, product)
}

func (c *CatalogController) GetVariant(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "variantID")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	variant, err := c.service.GetVariant(r.Context(), id)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, variant)
}

func (c *CatalogController) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := c.service.ListCategories(r.Context())
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, categories)
}

func (c *CatalogController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var input catalog.ProductInput
	if err := validators.DecodeJSONBody(r, &input); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	product, err := c.service.CreateProduct(r.Context(), input)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccessStatus(w, http.StatusCreated, product)
}

func (c *CatalogController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "productID")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	var input catalog.ProductInput
	if err := validators.DecodeJSONBody(r, &input); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	if err := c.service.UpdateProduct(r.Context(), id, input); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, map[string]uint{"product_id": id})
}

func (c *CatalogController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "productID")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	if err := c.service.DeleteProduct(r.Context(), id); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *CatalogController) AddVariant(w http.ResponseWriter, r *http.Request) {
	productID, err := uintParam(r, "productID")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	var input catalog.VariantInput
	if err := validators.DecodeJSONBody(r, &input); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	variant, err := c.service.AddVariant(r.Context(), productID, input)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccessStatus(w, http.StatusCreated, variant)
}

func (c *CatalogController) UpdateVariantStock(w http.ResponseWriter, r *http.Request) {
	variantID, err := uintParam(r, "variantID")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	var input struct {
		Stock int `json:"stock" validate:"gte=0"`
	}
	if err := validators.DecodeJSONBody(r, &input); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	if err := c.service.UpdateVariantStock(r.Context(), variantID, input.Stock); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, map[string]any{"variant_id": variantID, "stock": input.Stock})
}

func (c *CatalogController) DeleteVariant(w http.ResponseWriter, r *http.Request) {
	variantID, err := uintParam(r, "variantID")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	if err := c.service.DeleteVariant(r.Context(), variantID); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *CatalogController) CreateDiscount(w http.ResponseWriter, r *http.Request) {
	variantID, err := uintParam(r, "variantID")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	var input catalog.DiscountInput
	if err := validators.DecodeJSONBody(r, &input); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	if err := c.service.CreateDiscount(r.Context(), variantID, input); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccessStatus(w, http.StatusCreated, map[string]uint{"variant_id": variantID})
}

func (c *CatalogController) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name string `json:"name" validate:"required"`
	}
	if err := validators.DecodeJSONBody(r, &input); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	category, err := c.service.CreateCategory(r.Context(), input.Name)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccessStatus(w, http.StatusCreated, category)
}

func (c *CatalogController) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "categoryID")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	if err := c.service.DeleteCategory(r.Context(), id); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
