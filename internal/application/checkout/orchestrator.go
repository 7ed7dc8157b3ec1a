package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	ledgerapp "github.com/storefront/backend/internal/application/ledger"
	"github.com/storefront/backend/internal/domain/checkout"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/payment"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/domain/shop"
)

// Orchestrator drives the checkout workflow: cart capture, order
// creation, one of three payment strategies, and checkout completion.
// It owns the ordering rules between those steps; the legality of each
// individual state change stays inside the Order aggregate.
type Orchestrator struct {
	orderRepo       order.Repository
	shopRepo        shop.Repository
	sessions        checkout.Store
	gateway         payment.Gateway
	settlements     *ledgerapp.SettlementService
	eventPublisher  shared.EventPublisher
	logger          *zap.Logger
	callbackBaseURL string
}

// NewOrchestrator creates a new checkout Orchestrator
func NewOrchestrator(
	orderRepo order.Repository,
	shopRepo shop.Repository,
	sessions checkout.Store,
	gw payment.Gateway,
	settlements *ledgerapp.SettlementService,
	logger *zap.Logger,
	callbackBaseURL string,
) *Orchestrator {
	return &Orchestrator{
		orderRepo:       orderRepo,
		shopRepo:        shopRepo,
		sessions:        sessions,
		gateway:         gw,
		settlements:     settlements,
		logger:          logger,
		callbackBaseURL: strings.TrimRight(callbackBaseURL, "/"),
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *Orchestrator) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// InitiateCheckout validates the contact form, captures the cart,
// creates the order and runs the payment strategy for the chosen
// method. No order exists until validation passes; no order ID is
// handed to a payment strategy until the order save succeeded.
func (s *Orchestrator) InitiateCheckout(ctx context.Context, shopID uuid.UUID, req InitiateCheckoutRequest) (*CheckoutResponse, error) {
	contact := valueobject.NewCustomerContact(req.Contact.Name, req.Contact.Email, req.Contact.Phone, req.Contact.Address)
	if verrs := contact.Validate(); verrs.HasErrors() {
		return nil, verrs
	}

	method := order.PaymentMethod(strings.ToUpper(req.Method))
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method")
	}

	sh, err := s.shopRepo.FindByID(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if err := s.checkMethodAvailable(ctx, sh, method); err != nil {
		return nil, err
	}

	lines := make([]checkout.CartLine, len(req.Cart))
	for i, in := range req.Cart {
		lines[i] = checkout.CartLine{
			ProductID:      in.ProductID,
			ProductName:    in.ProductName,
			UnitPrice:      in.UnitPrice,
			StockAvailable: in.StockAvailable,
			Quantity:       in.Quantity,
		}
	}
	cart, err := checkout.NewCartSnapshot(lines, sh.Currency)
	if err != nil {
		return nil, err
	}

	session, err := checkout.NewSession(shopID, cart)
	if err != nil {
		return nil, err
	}

	o, err := order.NewOrder(shopID, contact, sh.Currency)
	if err != nil {
		return nil, err
	}
	for _, line := range cart.Lines {
		unitPrice, err := valueobject.NewMoney(line.UnitPrice, sh.Currency)
		if err != nil {
			return nil, err
		}
		if _, err := o.AddItem(line.ProductID, line.ProductName, line.Quantity, unitPrice); err != nil {
			return nil, err
		}
	}

	if method == order.PaymentMethodOnDelivery {
		err = o.SubmitForApproval()
	} else {
		err = o.SubmitPendingPayment(method)
	}
	if err != nil {
		return nil, err
	}

	// The save is atomic over header and items. If it fails there is
	// no order, no session, and nothing for a strategy to act on.
	if err := s.orderRepo.Save(ctx, o); err != nil {
		s.logger.Error("order save failed during checkout",
			zap.String("shop_id", shopID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	if err := session.AttachOrder(o.ID, method); err != nil {
		return nil, err
	}

	switch method {
	case order.PaymentMethodGateway:
		err = s.runGatewayStrategy(ctx, sh, session, o)
	case order.PaymentMethodBankTransfer:
		session.SurfaceBankDetails(*sh.BankDetails)
	case order.PaymentMethodOnDelivery:
		// The order request goes to the owner; checkout is done from
		// the customer's side once it is submitted.
		err = session.Complete()
	}
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, o)

	resp := ToCheckoutResponse(session, o, s.proofGateApplies(sh, o))
	return &resp, nil
}

// ResolveGatewayOutcome applies the resolution of a hosted payment
// attempt reported by the storefront client.
func (s *Orchestrator) ResolveGatewayOutcome(ctx context.Context, sessionID uuid.UUID, req GatewayOutcomeRequest) (*CheckoutResponse, error) {
	outcome := payment.Outcome{
		Status:    payment.OutcomeStatus(strings.ToUpper(req.Status)),
		Reference: req.Reference,
	}
	return s.resolveOutcome(ctx, sessionID, outcome)
}

// HandleGatewayCallback authenticates a raw gateway callback and
// applies the verified outcome. The signed callback is authoritative:
// it settles the payment even if the customer's dialog never reported
// back.
func (s *Orchestrator) HandleGatewayCallback(ctx context.Context, sessionID uuid.UUID, payload []byte, signature string) (*CheckoutResponse, error) {
	outcome, err := s.gateway.VerifyCallback(payload, signature)
	if err != nil {
		return nil, err
	}
	return s.resolveOutcome(ctx, sessionID, *outcome)
}

// SubmitProof records the customer's proof-of-payment signal for a
// pending bank transfer order.
func (s *Orchestrator) SubmitProof(ctx context.Context, sessionID uuid.UUID) (*CheckoutResponse, error) {
	session, o, err := s.loadSessionOrder(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sh, err := s.shopRepo.FindByID(ctx, session.ShopID)
	if err != nil {
		return nil, err
	}

	if err := o.MarkProofSent(); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, o)

	resp := ToCheckoutResponse(session, o, s.proofGateApplies(sh, o))
	return &resp, nil
}

// CompleteCheckout finishes a bank transfer or gateway checkout from
// the customer's side, clearing the cart. For a pay-before shop, a
// bank transfer order cannot complete until proof was submitted.
func (s *Orchestrator) CompleteCheckout(ctx context.Context, sessionID uuid.UUID) (*CheckoutResponse, error) {
	session, o, err := s.loadSessionOrder(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sh, err := s.shopRepo.FindByID(ctx, session.ShopID)
	if err != nil {
		return nil, err
	}

	if s.proofGateApplies(sh, o) {
		return nil, shared.ErrProofRequired
	}

	// A gateway checkout only finishes through a resolved payment. An
	// unpaid gateway order keeps its cart so the customer can retry.
	if o.PaymentMethod == order.PaymentMethodGateway && !o.IsPaid() {
		return nil, shared.NewDomainError("PAYMENT_NOT_SETTLED", "Gateway checkout completes only after the payment settles")
	}

	if !session.Completed {
		if err := session.Complete(); err != nil {
			return nil, err
		}
		if err := s.sessions.Save(ctx, session); err != nil {
			return nil, err
		}
	}

	resp := ToCheckoutResponse(session, o, false)
	return &resp, nil
}

// GetSession returns the current state of a checkout session
func (s *Orchestrator) GetSession(ctx context.Context, sessionID uuid.UUID) (*CheckoutResponse, error) {
	session, o, err := s.loadSessionOrder(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sh, err := s.shopRepo.FindByID(ctx, session.ShopID)
	if err != nil {
		return nil, err
	}
	resp := ToCheckoutResponse(session, o, s.proofGateApplies(sh, o))
	return &resp, nil
}

// checkMethodAvailable enforces the strategy guards before any order
// is created, so a misconfigured shop fails fast with no state change.
func (s *Orchestrator) checkMethodAvailable(ctx context.Context, sh *shop.Shop, method order.PaymentMethod) error {
	if !sh.SupportsMethod(method) {
		return shared.NewDomainError("METHOD_NOT_ENABLED", "Payment method is not enabled for this shop")
	}
	switch method {
	case order.PaymentMethodGateway:
		if !sh.HasGatewayConfigured() {
			return shared.NewDomainError("GATEWAY_NOT_CONFIGURED", "Shop has no payment gateway key configured")
		}
		if err := s.gateway.EnsureClientReady(ctx); err != nil {
			s.logger.Error("gateway client unavailable", zap.Error(err))
			return shared.ErrGatewayUnavailable
		}
	case order.PaymentMethodBankTransfer:
		if !sh.HasBankDetails() {
			return shared.NewDomainError("BANK_DETAILS_MISSING", "Shop has no bank transfer details configured")
		}
	}
	return nil
}

// runGatewayStrategy opens the hosted payment session for a freshly
// submitted gateway order. If the gateway refuses, the attempt is
// unwound and the order stays pending and payable.
func (s *Orchestrator) runGatewayStrategy(ctx context.Context, sh *shop.Shop, session *checkout.Session, o *order.Order) error {
	reference := payment.NewPaymentReference(o.ID, time.Now())

	if err := o.BeginGatewayPayment(reference); err != nil {
		return err
	}
	if err := session.BeginPaymentAttempt(reference); err != nil {
		return err
	}

	hosted, err := s.gateway.OpenSession(ctx, payment.HostedSessionRequest{
		PublicKey:   sh.GatewayPublicKey,
		Email:       o.Contact.Email,
		AmountMinor: o.GetTotalAmountMoney().MinorUnits(),
		Currency:    o.Currency,
		Reference:   reference,
		CallbackURL: s.callbackURL(session.ID),
	})
	if err != nil {
		s.logger.Error("gateway session open failed",
			zap.String("order_id", o.ID.String()),
			zap.String("reference", reference),
			zap.Error(err),
		)
		session.EndPaymentAttempt()
		if abandonErr := o.AbandonGatewayPayment(); abandonErr == nil {
			if saveErr := s.orderRepo.Save(ctx, o); saveErr != nil {
				s.logger.Error("failed to unwind gateway attempt", zap.Error(saveErr))
			}
		}
		if errors.Is(err, payment.ErrGatewayUnavailable) {
			return shared.ErrGatewayUnavailable
		}
		return shared.NewDomainError("GATEWAY_REQUEST_FAILED", "Could not open a payment session with the gateway")
	}

	session.AuthorizationURL = hosted.AuthorizationURL
	return s.orderRepo.Save(ctx, o)
}

// resolveOutcome applies a gateway outcome to the order and session.
// Success settles payment, records revenue and finishes the checkout;
// cancellation releases the attempt and keeps the cart so the customer
// can retry. Replays of an already settled outcome are absorbed.
func (s *Orchestrator) resolveOutcome(ctx context.Context, sessionID uuid.UUID, outcome payment.Outcome) (*CheckoutResponse, error) {
	if err := outcome.Validate(); err != nil {
		return nil, err
	}

	session, o, err := s.loadSessionOrder(ctx, sessionID)
	if err != nil {
		// The gateway is the source of payment truth. A success outcome
		// must settle even when the checkout session already expired
		// from the store, so fall back to the order the reference was
		// issued for.
		if errors.Is(err, shared.ErrNotFound) && outcome.IsSuccess() {
			return s.settleByReference(ctx, sessionID, outcome.Reference)
		}
		return nil, err
	}

	if o.IsPaid() {
		// The payment already settled; a duplicate callback or a late
		// dialog close changes nothing.
		s.logger.Info("gateway outcome for already settled order absorbed",
			zap.String("order_id", o.ID.String()),
			zap.String("outcome", string(outcome.Status)),
		)
		resp := ToCheckoutResponse(session, o, false)
		return &resp, nil
	}

	if outcome.IsSuccess() {
		return s.settleGatewayPayment(ctx, session, o, outcome.Reference)
	}

	if err := o.AbandonGatewayPayment(); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}
	session.EndPaymentAttempt()
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	resp := ToCheckoutResponse(session, o, false)
	return &resp, nil
}

func (s *Orchestrator) settleGatewayPayment(ctx context.Context, session *checkout.Session, o *order.Order, reference string) (*CheckoutResponse, error) {
	if err := o.ConfirmGatewayPayment(reference); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}

	// Payment truth lives on the order now. A ledger failure is a
	// reconciliation problem, not a reason to fail the customer.
	if _, err := s.settlements.RecordSettlement(ctx, o); err != nil {
		s.logger.Error("settlement recording failed after confirmed payment",
			zap.String("order_id", o.ID.String()),
			zap.String("reference", reference),
			zap.Error(err),
		)
	}

	session.EndPaymentAttempt()
	if !session.Completed {
		if err := session.Complete(); err != nil {
			return nil, err
		}
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, o)

	resp := ToCheckoutResponse(session, o, false)
	return &resp, nil
}

// settleByReference settles a verified success outcome whose checkout
// session no longer exists. The payment reference stays on the order
// from BeginGatewayPayment onward, including after abandonment, so a
// late callback always finds it.
func (s *Orchestrator) settleByReference(ctx context.Context, sessionID uuid.UUID, reference string) (*CheckoutResponse, error) {
	o, err := s.orderRepo.FindByPaymentReference(ctx, reference)
	if err != nil {
		return nil, err
	}

	if !o.IsPaid() {
		if err := o.ConfirmGatewayPayment(reference); err != nil {
			return nil, err
		}
		if err := s.orderRepo.Save(ctx, o); err != nil {
			return nil, err
		}
		if _, err := s.settlements.RecordSettlement(ctx, o); err != nil {
			s.logger.Error("settlement recording failed after confirmed payment",
				zap.String("order_id", o.ID.String()),
				zap.String("reference", reference),
				zap.Error(err),
			)
		}
		s.publishEvents(ctx, o)

		s.logger.Info("late gateway outcome settled without a live session",
			zap.String("order_id", o.ID.String()),
			zap.String("session_id", sessionID.String()),
			zap.String("reference", reference),
		)
	}

	resp := CheckoutResponse{
		SessionID:     sessionID,
		OrderID:       o.ID,
		OrderStatus:   string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		Method:        string(o.PaymentMethod),
		Total:         o.TotalAmount,
		Currency:      string(o.Currency),
		Completed:     true,
	}
	return &resp, nil
}

func (s *Orchestrator) loadSessionOrder(ctx context.Context, sessionID uuid.UUID) (*checkout.Session, *order.Order, error) {
	session, err := s.sessions.Find(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if session.OrderID == uuid.Nil {
		return nil, nil, shared.NewDomainError("INVALID_STATE", "Checkout session has no order attached")
	}
	o, err := s.orderRepo.FindByIDForShop(ctx, session.ShopID, session.OrderID)
	if err != nil {
		return nil, nil, err
	}
	return session, o, nil
}

// proofGateApplies returns true while the proof gate blocks checkout
// completion: a pay-before shop with a pending bank transfer order and
// no proof submitted yet.
func (s *Orchestrator) proofGateApplies(sh *shop.Shop, o *order.Order) bool {
	return sh.RequiresPaymentBeforeService() && o.RequiresProof()
}

func (s *Orchestrator) callbackURL(sessionID uuid.UUID) string {
	return fmt.Sprintf("%s/api/v1/checkout/%s/gateway/callback", s.callbackBaseURL, sessionID)
}

func (s *Orchestrator) publishEvents(ctx context.Context, o *order.Order) {
	if s.eventPublisher == nil {
		return
	}
	events := o.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish order events",
			zap.String("order_id", o.ID.String()),
			zap.Error(err),
		)
	}
	o.ClearDomainEvents()
}
