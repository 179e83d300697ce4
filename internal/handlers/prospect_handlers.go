package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"spinecrm/internal/common"
	"spinecrm/internal/models"
	"spinecrm/internal/services"

	"github.com/labstack/echo/v4"
)

// ProspectHandlers handles prospect and product-interest HTTP requests
type ProspectHandlers struct {
	prospectService services.ProspectService
}

// NewProspectHandlers creates a new prospect handlers instance
func NewProspectHandlers(prospectService services.ProspectService) *ProspectHandlers {
	return &ProspectHandlers{prospectService: prospectService}
}

// CreateProspect godoc
// @Summary      Create a prospect
// @Description  Optionally links the prospect to existing products. Nothing is stored if any product id is unknown.
// @Tags         prospects
// @Accept       json
// @Produce      json
// @Param        prospect  body      models.ProspectCreate  true  "Prospect"
// @Success      201       {object}  models.Prospect
// @Failure      400       {object}  common.ErrorResponse
// @Failure      404       {object}  common.ErrorResponse
// @Failure      422       {object}  common.ErrorResponse
// @Router       /api/prospects [post]
func (h *ProspectHandlers) CreateProspect(c echo.Context) error {
	var req models.ProspectCreate
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	prospect, err := h.prospectService.Create(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, prospect)
}

// ListProspects godoc
// @Summary      List prospects
// @Tags         prospects
// @Produce      json
// @Param        skip    query     int     false  "Rows to skip"  default(0)
// @Param        limit   query     int     false  "Page size"     default(100)
// @Param        source  query     string  false  "Exact source match"
// @Param        status  query     string  false  "Exact status match"
// @Success      200     {array}   models.Prospect
// @Failure      422     {object}  common.ErrorResponse
// @Router       /api/prospects [get]
func (h *ProspectHandlers) ListProspects(c echo.Context) error {
	filter := models.ProspectFilter{Limit: models.DefaultLimit}
	var source, status string
	if err := echo.QueryParamsBinder(c).
		Int("skip", &filter.Skip).
		Int("limit", &filter.Limit).
		String("source", &source).
		String("status", &status).
		BindError(); err != nil {
		return bindingError(err)
	}

	details := map[string]string{}
	if source != "" {
		s := models.ProspectSource(source)
		if !s.IsValid() {
			details["source"] = "must be one of: " + joinEnum(models.AllProspectSources())
		}
		filter.Source = &s
	}
	if status != "" {
		s := models.ProspectStatus(status)
		if !s.IsValid() {
			details["status"] = "must be one of: " + joinEnum(models.AllProspectStatuses())
		}
		filter.Status = &s
	}
	if len(details) > 0 {
		return common.Validation("Invalid query parameters", details)
	}

	prospects, err := h.prospectService.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, prospects)
}

// GetProspect godoc
// @Summary      Get a prospect
// @Tags         prospects
// @Produce      json
// @Param        id   path      int  true  "Prospect ID"
// @Success      200  {object}  models.Prospect
// @Failure      404  {object}  common.ErrorResponse
// @Router       /api/prospects/{id} [get]
func (h *ProspectHandlers) GetProspect(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	prospect, err := h.prospectService.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, prospect)
}

// UpdateProspect godoc
// @Summary      Partially update a prospect
// @Description  Only fields present in the body are written. Any status may follow any other.
// @Tags         prospects
// @Accept       json
// @Produce      json
// @Param        id        path      int                    true  "Prospect ID"
// @Param        prospect  body      models.ProspectUpdate  true  "Fields to change"
// @Success      200       {object}  models.Prospect
// @Failure      400       {object}  common.ErrorResponse
// @Failure      404       {object}  common.ErrorResponse
// @Failure      422       {object}  common.ErrorResponse
// @Router       /api/prospects/{id} [patch]
func (h *ProspectHandlers) UpdateProspect(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req models.ProspectUpdate
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	prospect, err := h.prospectService.Update(c.Request().Context(), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, prospect)
}

// DeleteProspect godoc
// @Summary      Delete a prospect and its product links
// @Tags         prospects
// @Param        id  path  int  true  "Prospect ID"
// @Success      204
// @Failure      404  {object}  common.ErrorResponse
// @Router       /api/prospects/{id} [delete]
func (h *ProspectHandlers) DeleteProspect(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.prospectService.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// LinkProduct godoc
// @Summary      Link a prospect to a product of interest
// @Tags         prospects
// @Accept       json
// @Produce      json
// @Param        id    path      int                         true  "Prospect ID"
// @Param        link  body      models.ProspectProductLink  true  "Product to link"
// @Success      201   {object}  common.MessageResponse
// @Failure      400   {object}  common.ErrorResponse
// @Failure      404   {object}  common.ErrorResponse
// @Failure      422   {object}  common.ErrorResponse
// @Router       /api/prospects/{id}/products [post]
func (h *ProspectHandlers) LinkProduct(c echo.Context) error {
	prospectID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req models.ProspectProductLink
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	link, err := h.prospectService.LinkProduct(c.Request().Context(), prospectID, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, common.MessageResponse{
		Message: fmt.Sprintf("Prospect with ID %d linked to product with ID %d successfully", link.ProspectID, link.ProductID),
	})
}

// ListProspectProducts godoc
// @Summary      List the products a prospect is interested in
// @Tags         prospects
// @Produce      json
// @Param        id   path      int  true  "Prospect ID"
// @Success      200  {array}   models.Product
// @Failure      404  {object}  common.ErrorResponse
// @Router       /api/prospects/{id}/products [get]
func (h *ProspectHandlers) ListProspectProducts(c echo.Context) error {
	prospectID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	products, err := h.prospectService.ListProducts(c.Request().Context(), prospectID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

func joinEnum[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
