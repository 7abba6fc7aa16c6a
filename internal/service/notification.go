package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/mail"
)

// Mailer delivers an email using the given SMTP settings.
type Mailer interface {
	Send(ctx context.Context, settings *domain.EmailSettings, msg mail.Message) error
}

// NotificationService sends order emails.
type NotificationService struct {
	emailConfig *EmailConfigProvider
	mailer      Mailer
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(emailConfig *EmailConfigProvider, mailer Mailer) *NotificationService {
	return &NotificationService{
		emailConfig: emailConfig,
		mailer:      mailer,
	}
}

// NotifyOrderConfirmed emails the shop recipient and, when known, the
// customer that the order has been paid.
func (s *NotificationService) NotifyOrderConfirmed(ctx context.Context, order *domain.Order) error {
	settings := s.emailConfig.EmailConfig(ctx)

	if settings.SMTPHost == "" {
		log.Printf("[NOTIFICATION] SMTP not configured, skipping confirmation for order %s", order.ID)
		return nil
	}

	var recipients []string
	if settings.Recipient != "" {
		recipients = append(recipients, settings.Recipient)
	}
	if order.CustomerEmail != "" && !strings.EqualFold(order.CustomerEmail, settings.Recipient) {
		recipients = append(recipients, order.CustomerEmail)
	}
	if len(recipients) == 0 {
		log.Printf("[NOTIFICATION] no recipients for order %s", order.ID)
		return nil
	}

	msg := mail.Message{
		From:    settings.Sender,
		To:      recipients,
		Subject: fmt.Sprintf("Order %s confirmed", shortID(order.ID)),
		Body:    FormatConfirmation(order),
	}

	log.Printf("[NOTIFICATION] Type=ORDER_CONFIRMED, Order=%s, Recipients=%s",
		order.ID, strings.Join(recipients, ","))

	return s.mailer.Send(ctx, settings, msg)
}

// FormatConfirmation renders the confirmation email body.
func FormatConfirmation(order *domain.Order) string {
	var b strings.Builder

	b.WriteString("Thank you for your order!\n\n")
	fmt.Fprintf(&b, "Order:  %s\n", order.ID)
	fmt.Fprintf(&b, "Status: %s\n\n", order.Status)

	for _, item := range order.Items {
		fmt.Fprintf(&b, "  %d x %-30s %s\n", item.Quantity, item.Name, formatAmount(item.Subtotal(), order.Currency))
	}

	fmt.Fprintf(&b, "\nTotal: %s\n", formatAmount(order.TotalAmount, order.Currency))

	return b.String()
}

func formatAmount(minor int64, currency string) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, minor/100, minor%100, strings.ToUpper(currency))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
