// Package orderflow owns the order status state machine. Transitions are
// constrained by an explicit table; delivered and cancelled are terminal.
// The same table gates the admin UI's status options and is re-asserted
// server-side: the client-side check is a UX convenience, not a security
// boundary.
package orderflow

import (
	"context"

	"github.com/matthieukhl/storefront/internal/models"
)

// transitions maps a current status to the statuses an operator may move
// the order to, the current status included (self-loops are no-ops the
// UI relies on).
var transitions = map[string][]string{
	models.OrderStatusPending: {
		models.OrderStatusPending,
		models.OrderStatusConfirmed,
		models.OrderStatusShipped,
		models.OrderStatusCancelled,
	},
	models.OrderStatusConfirmed: {
		models.OrderStatusConfirmed,
		models.OrderStatusShipped,
		models.OrderStatusDelivered,
	},
	models.OrderStatusShipped: {
		models.OrderStatusShipped,
		models.OrderStatusDelivered,
	},
	models.OrderStatusDelivered: {models.OrderStatusDelivered},
	models.OrderStatusCancelled: {models.OrderStatusCancelled},
}

// AllowedNext returns the statuses reachable from current, in table order
// so the UI can render options deterministically. Unknown statuses have
// no transitions.
func AllowedNext(current string) []string {
	next, ok := transitions[current]
	if !ok {
		return []string{}
	}
	out := make([]string, len(next))
	copy(out, next)
	return out
}

// CanTransition reports whether requested is reachable from current.
func CanTransition(current, requested string) bool {
	for _, s := range transitions[current] {
		if s == requested {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further status change is permitted.
func IsTerminal(status string) bool {
	return status == models.OrderStatusDelivered || status == models.OrderStatusCancelled
}

// Notifier receives the side effect of a successful transition. The
// refund flag marks cancellations, which present a refund notice distinct
// from the generic status-changed notice.
type Notifier interface {
	StatusChanged(ctx context.Context, order *models.Order, oldStatus, newStatus string, refund bool) error
}

// Machine applies validated transitions and drives the notifier.
type Machine struct {
	notifier Notifier
}

func NewMachine(n Notifier) *Machine {
	return &Machine{notifier: n}
}

// AttemptTransition moves the order to requested if the table allows it.
// On an illegal request the order is left untouched and an
// *InvalidTransitionError is returned.
//
// The notification is fire-and-forget with respect to the status change:
// a notifier failure never rolls the status back, but it is returned so
// the operator sees it.
func (m *Machine) AttemptTransition(ctx context.Context, order *models.Order, requested string) error {
	if order == nil {
		return nil
	}
	if !CanTransition(order.Status, requested) {
		return &InvalidTransitionError{Current: order.Status, Requested: requested}
	}
	oldStatus := order.Status
	order.Status = requested

	if m.notifier == nil || oldStatus == requested {
		return nil
	}
	refund := requested == models.OrderStatusCancelled
	if err := m.notifier.StatusChanged(ctx, order, oldStatus, requested, refund); err != nil {
		return &NotifyError{Err: err}
	}
	return nil
}

// Notify drives the notifier outside a transition, for manual re-sends
// of the current status notice.
func (m *Machine) Notify(ctx context.Context, order *models.Order, oldStatus, newStatus string, refund bool) error {
	if m.notifier == nil {
		return nil
	}
	return m.notifier.StatusChanged(ctx, order, oldStatus, newStatus, refund)
}
