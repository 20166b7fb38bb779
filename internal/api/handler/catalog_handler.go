package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inventory-system/inventory-api/internal/api/metrics"
	"github.com/inventory-system/inventory-api/internal/core/ports"
)

// CatalogHandler handles HTTP requests for inventory items.
type CatalogHandler struct {
	service ports.InventoryService
}

func NewCatalogHandler(service ports.InventoryService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// List handles GET /catalog.
//
// @Summary      List inventory items
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Item
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /catalog [get]
func (h *CatalogHandler) List(c echo.Context) error {
	items, err := h.service.ListItems(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// Create handles POST /catalog.
//
// @Summary      Create an inventory item
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      itemRequest  true  "Item details"
// @Success      201   {object}  domain.Item
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /catalog [post]
func (h *CatalogHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req itemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	item, err := h.service.CreateItem(c.Request().Context(), toItemInput(req, actor))
	if err != nil {
		return err
	}

	metrics.CatalogMutationsTotal.WithLabelValues("create").Inc()
	return c.JSON(http.StatusCreated, item)
}

// Update handles PUT /catalog/:id.
//
// @Summary      Replace an inventory item
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int          true  "Item id"
// @Param        body  body      itemRequest  true  "Item details"
// @Success      200   {object}  domain.Item
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /catalog/{id} [put]
func (h *CatalogHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	id, err := itemID(c)
	if err != nil {
		return err
	}

	var req itemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	item, err := h.service.UpdateItem(c.Request().Context(), id, toItemInput(req, actor))
	if err != nil {
		return err
	}

	metrics.CatalogMutationsTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, item)
}

// Delete handles DELETE /catalog/:id.
//
// @Summary      Delete an inventory item
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Item id"
// @Success      200  {object}  deleteItemResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /catalog/{id} [delete]
func (h *CatalogHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	id, err := itemID(c)
	if err != nil {
		return err
	}

	item, err := h.service.DeleteItem(c.Request().Context(), id, actor)
	if err != nil {
		return err
	}

	metrics.CatalogMutationsTotal.WithLabelValues("delete").Inc()
	return c.JSON(http.StatusOK, deleteItemResponse{Message: "Inventory item deleted", Item: *item})
}

func toItemInput(req itemRequest, actor string) ports.ItemInput {
	return ports.ItemInput{
		Name:        req.Name,
		Description: req.Description,
		Quantity:    req.Quantity,
		Price:       req.Price,
		Actor:       actor,
	}
}
