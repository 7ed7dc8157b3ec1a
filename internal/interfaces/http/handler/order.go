package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	orderapp "github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// OrderHandler handles the shop owner's order management endpoints
type OrderHandler struct {
	BaseHandler
	lifecycle *orderapp.LifecycleService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(lifecycle *orderapp.LifecycleService) *OrderHandler {
	return &OrderHandler{
		lifecycle: lifecycle,
	}
}

// RegisterRoutes registers order management routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/shops/:shopId/orders")
	{
		orders.GET("", h.List)
		orders.GET("/:id", h.GetByID)
		orders.POST("/:id/approve", h.Approve)
		orders.POST("/:id/mark-paid", h.MarkPaid)
		orders.POST("/:id/process", h.StartProcessing)
		orders.POST("/:id/ship", h.Ship)
		orders.POST("/:id/deliver", h.Deliver)
		orders.POST("/:id/cancel", h.Cancel)
	}
}

// List returns the shop's orders with status, payment and search filters.
func (h *OrderHandler) List(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.BadRequest(c, "Invalid shop ID format")
		return
	}

	var filter orderapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	orders, total, err := h.lifecycle.List(c.Request.Context(), shopID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// GetByID returns a single order with its line items.
func (h *OrderHandler) GetByID(c *gin.Context) {
	shopID, orderID, ok := h.pathIDs(c)
	if !ok {
		return
	}

	resp, err := h.lifecycle.GetByID(c.Request.Context(), shopID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Approve confirms a pay-on-delivery order awaiting the owner's approval.
func (h *OrderHandler) Approve(c *gin.Context) {
	shopID, orderID, ok := h.pathIDs(c)
	if !ok {
		return
	}

	resp, err := h.lifecycle.Approve(c.Request.Context(), shopID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// MarkPaid marks a pending transfer order as paid and records the settlement.
func (h *OrderHandler) MarkPaid(c *gin.Context) {
	shopID, orderID, ok := h.pathIDs(c)
	if !ok {
		return
	}

	var req orderapp.MarkPaidRequest
	// Allow empty body
	_ = c.ShouldBindJSON(&req)

	resp, err := h.lifecycle.MarkPaid(c.Request.Context(), shopID, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// StartProcessing moves a paid or approved order into processing.
func (h *OrderHandler) StartProcessing(c *gin.Context) {
	shopID, orderID, ok := h.pathIDs(c)
	if !ok {
		return
	}

	resp, err := h.lifecycle.StartProcessing(c.Request.Context(), shopID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Ship sends an order out for delivery.
func (h *OrderHandler) Ship(c *gin.Context) {
	shopID, orderID, ok := h.pathIDs(c)
	if !ok {
		return
	}

	resp, err := h.lifecycle.Ship(c.Request.Context(), shopID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Deliver completes delivery. Pay-on-delivery orders settle their cash
// payment here.
func (h *OrderHandler) Deliver(c *gin.Context) {
	shopID, orderID, ok := h.pathIDs(c)
	if !ok {
		return
	}

	resp, err := h.lifecycle.Deliver(c.Request.Context(), shopID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Cancel cancels an order.
func (h *OrderHandler) Cancel(c *gin.Context) {
	shopID, orderID, ok := h.pathIDs(c)
	if !ok {
		return
	}

	var req orderapp.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.lifecycle.Cancel(c.Request.Context(), shopID, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// pathIDs parses the shop and order IDs from the URL path
func (h *OrderHandler) pathIDs(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	shopID, err := getShopID(c)
	if err != nil {
		h.BadRequest(c, "Invalid shop ID format")
		return uuid.Nil, uuid.Nil, false
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return uuid.Nil, uuid.Nil, false
	}

	return shopID, orderID, true
}
