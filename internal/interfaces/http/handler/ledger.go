package handler

import (
	"github.com/gin-gonic/gin"

	ledgerapp "github.com/storefront/backend/internal/application/ledger"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// LedgerHandler handles the shop owner's revenue ledger endpoints
type LedgerHandler struct {
	BaseHandler
	settlements *ledgerapp.SettlementService
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(settlements *ledgerapp.SettlementService) *LedgerHandler {
	return &LedgerHandler{
		settlements: settlements,
	}
}

// RegisterRoutes registers revenue ledger routes
func (h *LedgerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	ledger := rg.Group("/shops/:shopId/ledger")
	{
		ledger.GET("/entries", h.ListEntries)
		ledger.GET("/balance", h.Balance)
	}
}

// ledgerListQuery represents pagination parameters for ledger listings
type ledgerListQuery struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

// ListEntries returns the shop's settled revenue entries, newest first.
func (h *LedgerHandler) ListEntries(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.BadRequest(c, "Invalid shop ID format")
		return
	}

	var query ledgerListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	filter := shared.DefaultFilter()
	if query.Page > 0 {
		filter.Page = query.Page
	}
	if query.PageSize > 0 {
		filter.PageSize = query.PageSize
	}

	entries, err := h.settlements.ListEntries(c.Request.Context(), shopID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entries)
}

// Balance returns the shop's total settled revenue.
func (h *LedgerHandler) Balance(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.BadRequest(c, "Invalid shop ID format")
		return
	}

	balance, err := h.settlements.Balance(c.Request.Context(), shopID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, balance)
}
