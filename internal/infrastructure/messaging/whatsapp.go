package messaging

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/notification"
)

// Sender delivers a composed message over the messaging channel.
// Implementations range from a logging sink in development to a real
// channel integration in production.
type Sender interface {
	Send(ctx context.Context, msg notification.Message) error
}

// WhatsAppDispatcher implements notification.Dispatcher by composing
// WhatsApp messages from order summaries. Delivery is attempted over
// the app deep link first; if that fails the web link is used after a
// short delay, matching how the storefront hands off to the app.
type WhatsAppDispatcher struct {
	sender        Sender
	fallbackDelay time.Duration
	sendTimeout   time.Duration
	logger        *zap.Logger
}

// NewWhatsAppDispatcher creates a new WhatsAppDispatcher
func NewWhatsAppDispatcher(sender Sender, fallbackDelay, sendTimeout time.Duration, logger *zap.Logger) *WhatsAppDispatcher {
	if fallbackDelay <= 0 {
		fallbackDelay = 1500 * time.Millisecond
	}
	if sendTimeout <= 0 {
		sendTimeout = 10 * time.Second
	}
	return &WhatsAppDispatcher{
		sender:        sender,
		fallbackDelay: fallbackDelay,
		sendTimeout:   sendTimeout,
		logger:        logger,
	}
}

// Dispatch composes and delivers the message for the template.
// Failures are logged and returned, but callers treat dispatch as
// fire-and-forget: a missed message never fails an order workflow.
func (d *WhatsAppDispatcher) Dispatch(ctx context.Context, template notification.Template, phone string, summary notification.OrderSummary) error {
	if !template.IsValid() {
		return fmt.Errorf("messaging: unknown template %q", template)
	}

	msg := d.compose(template, phone, summary)

	ctx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	if err := d.sender.Send(ctx, msg); err != nil {
		d.logger.Warn("deep link delivery failed, falling back to web link",
			zap.String("template", string(template)),
			zap.String("order_id", summary.OrderID.String()),
			zap.Error(err),
		)

		select {
		case <-time.After(d.fallbackDelay):
		case <-ctx.Done():
			return ctx.Err()
		}

		fallback := msg
		fallback.DeepLink = ""
		if err := d.sender.Send(ctx, fallback); err != nil {
			d.logger.Error("message delivery failed",
				zap.String("template", string(template)),
				zap.String("order_id", summary.OrderID.String()),
				zap.Error(err),
			)
			return err
		}
	}

	d.logger.Info("order message dispatched",
		zap.String("template", string(template)),
		zap.String("order_id", summary.OrderID.String()),
	)
	return nil
}

// compose builds the message body and links for a template
func (d *WhatsAppDispatcher) compose(template notification.Template, phone string, summary notification.OrderSummary) notification.Message {
	var body string
	switch template {
	case notification.TemplatePaymentProof:
		body = composeProofBody(summary)
	case notification.TemplateOrderRequest:
		body = composeOrderRequestBody(summary)
	case notification.TemplatePaymentSuccess:
		body = composePaymentSuccessBody(summary)
	}

	normalized := normalizePhone(phone)
	encoded := url.QueryEscape(body)

	return notification.Message{
		Template:      template,
		RecipientName: summary.ShopName,
		Phone:         normalized,
		Body:          body,
		DeepLink:      fmt.Sprintf("whatsapp://send?phone=%s&text=%s", normalized, encoded),
		WebLink:       fmt.Sprintf("https://wa.me/%s?text=%s", normalized, encoded),
	}
}

func composeProofBody(s notification.OrderSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s! I just sent the payment for my order %s.\n\n", s.ShopName, shortOrderID(s.OrderID.String()))
	writeOrderLines(&b, s)
	fmt.Fprintf(&b, "\nName: %s\nPhone: %s\n\nPlease confirm once you receive it.", s.CustomerName, s.CustomerPhone)
	return b.String()
}

func composeOrderRequestBody(s notification.OrderSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New order request %s (pay on delivery)\n\n", shortOrderID(s.OrderID.String()))
	writeOrderLines(&b, s)
	fmt.Fprintf(&b, "\nCustomer: %s\nPhone: %s\nDelivery address: %s", s.CustomerName, s.CustomerPhone, s.DeliveryAddress)
	return b.String()
}

func composePaymentSuccessBody(s notification.OrderSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Payment received for order %s\n\n", shortOrderID(s.OrderID.String()))
	writeOrderLines(&b, s)
	fmt.Fprintf(&b, "\nReference: %s\nCustomer: %s\nDelivery address: %s", s.PaymentReference, s.CustomerName, s.DeliveryAddress)
	return b.String()
}

func writeOrderLines(b *strings.Builder, s notification.OrderSummary) {
	for _, line := range s.Lines {
		fmt.Fprintf(b, "%dx %s - %s %s\n", line.Quantity, line.ProductName, s.Currency, line.Amount.StringFixed(2))
	}
	fmt.Fprintf(b, "Total: %s %s\n", s.Currency, s.Total.StringFixed(2))
}

// shortOrderID returns the first segment of the order UUID, which is
// what customers and owners quote to each other
func shortOrderID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return "#" + strings.ToUpper(id[:i])
	}
	return "#" + strings.ToUpper(id)
}

// normalizePhone strips everything but digits so the number fits the
// wa.me link format
func normalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Ensure WhatsAppDispatcher implements notification.Dispatcher
var _ notification.Dispatcher = (*WhatsAppDispatcher)(nil)

// LogSender is a Sender that records messages in the log instead of
// delivering them. Used in development and as a safe default when the
// messaging channel is disabled.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender creates a new LogSender
func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs the composed message
func (s *LogSender) Send(ctx context.Context, msg notification.Message) error {
	s.logger.Info("whatsapp message",
		zap.String("template", string(msg.Template)),
		zap.String("phone", msg.Phone),
		zap.String("web_link", msg.WebLink),
	)
	return nil
}
