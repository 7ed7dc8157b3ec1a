package handler

import (
	"io"

	"github.com/gin-gonic/gin"

	checkoutapp "github.com/storefront/backend/internal/application/checkout"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// signatureHeader carries the HMAC signature on gateway callbacks
const signatureHeader = "X-Paystack-Signature"

// CheckoutHandler handles the public storefront checkout endpoints.
// These are called by customers and by the payment gateway; none of
// them require owner authentication.
type CheckoutHandler struct {
	BaseHandler
	orchestrator *checkoutapp.Orchestrator
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(orchestrator *checkoutapp.Orchestrator) *CheckoutHandler {
	return &CheckoutHandler{
		orchestrator: orchestrator,
	}
}

// RegisterRoutes registers checkout routes
func (h *CheckoutHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/shops/:shopId/checkout", h.Initiate)

	sessions := rg.Group("/checkout")
	{
		sessions.GET("/:id", h.GetSession)
		sessions.POST("/:id/gateway/outcome", h.ResolveGatewayOutcome)
		sessions.POST("/:id/gateway/callback", h.GatewayCallback)
		sessions.POST("/:id/proof", h.SubmitProof)
		sessions.POST("/:id/complete", h.Complete)
	}
}

// Initiate starts a checkout from the contact form and cart snapshot and
// runs the selected payment strategy.
func (h *CheckoutHandler) Initiate(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.BadRequest(c, "Invalid shop ID format")
		return
	}

	var req checkoutapp.InitiateCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.orchestrator.InitiateCheckout(c.Request.Context(), shopID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetSession returns the current state of a checkout session and its order.
func (h *CheckoutHandler) GetSession(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		h.BadRequest(c, "Invalid session ID format")
		return
	}

	resp, err := h.orchestrator.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ResolveGatewayOutcome applies the outcome the storefront observed when
// the hosted payment dialog closed.
func (h *CheckoutHandler) ResolveGatewayOutcome(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		h.BadRequest(c, "Invalid session ID format")
		return
	}

	var req checkoutapp.GatewayOutcomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.orchestrator.ResolveGatewayOutcome(c.Request.Context(), sessionID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// GatewayCallback authenticates the gateway signature over the raw payload
// and settles the payment.
func (h *CheckoutHandler) GatewayCallback(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		h.BadRequest(c, "Invalid session ID format")
		return
	}

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.BadRequest(c, "Failed to read request body")
		return
	}

	resp, err := h.orchestrator.HandleGatewayCallback(c.Request.Context(), sessionID, payload, c.GetHeader(signatureHeader))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// SubmitProof records that the customer sent proof of payment for a
// pending transfer order.
func (h *CheckoutHandler) SubmitProof(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		h.BadRequest(c, "Invalid session ID format")
		return
	}

	resp, err := h.orchestrator.SubmitProof(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Complete finishes the checkout session. It is refused while the shop's
// proof gate is still open.
func (h *CheckoutHandler) Complete(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		h.BadRequest(c, "Invalid session ID format")
		return
	}

	resp, err := h.orchestrator.CompleteCheckout(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
