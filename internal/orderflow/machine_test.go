package orderflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthieukhl/storefront/internal/models"
)

type recordingNotifier struct {
	calls []string
	fail  error
}

func (n *recordingNotifier) StatusChanged(_ context.Context, order *models.Order, oldStatus, newStatus string, refund bool) error {
	tag := oldStatus + "->" + newStatus
	if refund {
		tag += " (refund)"
	}
	n.calls = append(n.calls, tag)
	return n.fail
}

func TestAllowedNext(t *testing.T) {
	testCases := []struct {
		current  string
		expected []string
	}{
		{models.OrderStatusPending, []string{"pending", "confirmed", "shipped", "cancelled"}},
		{models.OrderStatusConfirmed, []string{"confirmed", "shipped", "delivered"}},
		{models.OrderStatusShipped, []string{"shipped", "delivered"}},
		{models.OrderStatusDelivered, []string{"delivered"}},
		{models.OrderStatusCancelled, []string{"cancelled"}},
		{"garbage", []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.current, func(t *testing.T) {
			assert.Equal(t, tc.expected, AllowedNext(tc.current))
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(models.OrderStatusDelivered))
	assert.True(t, IsTerminal(models.OrderStatusCancelled))
	assert.False(t, IsTerminal(models.OrderStatusPending))
	assert.False(t, IsTerminal(models.OrderStatusShipped))
}

func TestAttemptTransitionApplies(t *testing.T) {
	n := &recordingNotifier{}
	m := NewMachine(n)
	order := &models.Order{ID: "O1", Status: models.OrderStatusPending}

	require.NoError(t, m.AttemptTransition(context.Background(), order, models.OrderStatusShipped))
	assert.Equal(t, models.OrderStatusShipped, order.Status)
	assert.Equal(t, []string{"pending->shipped"}, n.calls)
}

func TestAttemptTransitionRejectsIllegal(t *testing.T) {
	n := &recordingNotifier{}
	m := NewMachine(n)

	testCases := []struct {
		name      string
		current   string
		requested string
	}{
		{"delivered is terminal", models.OrderStatusDelivered, models.OrderStatusPending},
		{"cancelled is terminal", models.OrderStatusCancelled, models.OrderStatusConfirmed},
		{"no skipping back", models.OrderStatusShipped, models.OrderStatusPending},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			order := &models.Order{ID: "O1", Status: tc.current}
			err := m.AttemptTransition(context.Background(), order, tc.requested)

			var invalid *InvalidTransitionError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tc.current, invalid.Current)
			assert.Equal(t, tc.requested, invalid.Requested)
			assert.Equal(t, tc.current, order.Status, "order must not be mutated")
		})
	}
	assert.Empty(t, n.calls, "no notification for rejected transitions")
}

func TestAttemptTransitionCancellationFlagsRefund(t *testing.T) {
	n := &recordingNotifier{}
	m := NewMachine(n)
	order := &models.Order{ID: "O1", Status: models.OrderStatusPending}

	require.NoError(t, m.AttemptTransition(context.Background(), order, models.OrderStatusCancelled))
	assert.Equal(t, []string{"pending->cancelled (refund)"}, n.calls)
}

func TestAttemptTransitionSelfLoopSkipsNotification(t *testing.T) {
	n := &recordingNotifier{}
	m := NewMachine(n)
	order := &models.Order{ID: "O1", Status: models.OrderStatusShipped}

	require.NoError(t, m.AttemptTransition(context.Background(), order, models.OrderStatusShipped))
	assert.Equal(t, models.OrderStatusShipped, order.Status)
	assert.Empty(t, n.calls)
}

func TestNotifierFailureDoesNotRollBack(t *testing.T) {
	boom := errors.New("smtp down")
	n := &recordingNotifier{fail: boom}
	m := NewMachine(n)
	order := &models.Order{ID: "O1", Status: models.OrderStatusConfirmed}

	err := m.AttemptTransition(context.Background(), order, models.OrderStatusShipped)

	var notify *NotifyError
	require.ErrorAs(t, err, &notify)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, models.OrderStatusShipped, order.Status, "status change stands")
}
