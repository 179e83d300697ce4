package handlers

import (
	"net/http"

	"spinecrm/internal/models"
	"spinecrm/internal/services"

	"github.com/labstack/echo/v4"
)

// ProductHandlers handles product-related HTTP requests
type ProductHandlers struct {
	productService services.ProductService
}

// NewProductHandlers creates a new product handlers instance
func NewProductHandlers(productService services.ProductService) *ProductHandlers {
	return &ProductHandlers{productService: productService}
}

// CreateProduct godoc
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        product  body      models.ProductCreate  true  "Product"
// @Success      201      {object}  models.Product
// @Failure      400      {object}  common.ErrorResponse
// @Failure      422      {object}  common.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandlers) CreateProduct(c echo.Context) error {
	var req models.ProductCreate
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product, err := h.productService.Create(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, product)
}

// ListProducts godoc
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        skip   query     int  false  "Rows to skip"  default(0)
// @Param        limit  query     int  false  "Page size"     default(100)
// @Success      200    {array}   models.Product
// @Failure      422    {object}  common.ErrorResponse
// @Router       /api/products [get]
func (h *ProductHandlers) ListProducts(c echo.Context) error {
	skip, limit := 0, models.DefaultLimit
	if err := echo.QueryParamsBinder(c).
		Int("skip", &skip).
		Int("limit", &limit).
		BindError(); err != nil {
		return bindingError(err)
	}

	products, err := h.productService.List(c.Request().Context(), skip, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

// GetProduct godoc
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id   path      int  true  "Product ID"
// @Success      200  {object}  models.Product
// @Failure      404  {object}  common.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandlers) GetProduct(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	product, err := h.productService.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

// UpdateProduct godoc
// @Summary      Partially update a product
// @Description  Only fields present in the body are written; null clears short_description.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id       path      int                   true  "Product ID"
// @Param        product  body      models.ProductUpdate  true  "Fields to change"
// @Success      200      {object}  models.Product
// @Failure      400      {object}  common.ErrorResponse
// @Failure      404      {object}  common.ErrorResponse
// @Failure      422      {object}  common.ErrorResponse
// @Router       /api/products/{id} [patch]
func (h *ProductHandlers) UpdateProduct(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req models.ProductUpdate
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product, err := h.productService.Update(c.Request().Context(), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct godoc
// @Summary      Delete a product and its prospect links
// @Tags         products
// @Param        id  path  int  true  "Product ID"
// @Success      204
// @Failure      404  {object}  common.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandlers) DeleteProduct(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.productService.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
