package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/matthieukhl/storefront/internal/database"
	"github.com/matthieukhl/storefront/internal/models"
	"github.com/matthieukhl/storefront/internal/orderflow"
)

type statusInput struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

func (s *Server) updateOrderStatus(c *gin.Context) {
	id := c.Param("id")
	var in statusInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"field": "status", "message": "status is required"})
		return
	}

	order, err := s.orders.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		s.log.Error("failed to load order", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load order"})
		return
	}

	if !orderflow.CanTransition(order.Status, in.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"field":   "status",
			"message": (&orderflow.InvalidTransitionError{Current: order.Status, Requested: in.Status}).Error(),
			"allowed": orderflow.AllowedNext(order.Status),
		})
		return
	}

	// Guarded write first: if another admin raced us, nothing has been
	// applied and no notification goes out.
	if err := s.orders.UpdateStatus(c.Request.Context(), id, order.Status, in.Status, in.Notes); err != nil {
		switch {
		case errors.Is(err, database.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		case errors.Is(err, database.ErrStatusConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "order status changed concurrently, reload and retry"})
		default:
			s.log.Error("failed to update order status", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order status"})
		}
		return
	}

	// The machine applies the same transition to the in-memory order and
	// drives the notification. A notify failure never rolls the status
	// back; it is surfaced as a warning for the operator.
	var warning string
	if err := s.machine.AttemptTransition(c.Request.Context(), order, in.Status); err != nil {
		var notifyErr *orderflow.NotifyError
		if errors.As(err, &notifyErr) {
			s.log.Warn("status changed but notification failed",
				zap.String("id", id), zap.String("status", in.Status), zap.Error(notifyErr))
			warning = notifyErr.Error()
		} else {
			// CanTransition passed above, so this is unreachable short
			// of a bug; fail loudly rather than hide it.
			s.log.Error("transition applied in store but rejected by machine",
				zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "inconsistent transition state"})
			return
		}
	}

	s.log.Info("order status updated",
		zap.String("id", id), zap.String("status", order.Status))

	resp := gin.H{"order": order, "allowed": orderflow.AllowedNext(order.Status)}
	if warning != "" {
		resp["warning"] = warning
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) sendStatusEmail(c *gin.Context) {
	id := c.Param("id")
	order, err := s.orders.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		s.log.Error("failed to load order", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load order"})
		return
	}

	// Re-send for the current status; a cancelled order gets the refund
	// notice again rather than the generic one.
	refund := order.Status == models.OrderStatusCancelled
	if err := s.machine.Notify(c.Request.Context(), order, order.Status, order.Status, refund); err != nil {
		s.log.Warn("failed to send status email", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"sent": false, "warning": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": true})
}

func (s *Server) myOrders(c *gin.Context) {
	customerID := c.GetHeader("X-Customer-ID")
	if customerID == "" {
		customerID = c.Query("customer")
	}
	if customerID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	orders, err := s.orders.GetByCustomer(c.Request.Context(), customerID)
	if err != nil {
		s.log.Error("failed to list orders", zap.String("customer", customerID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch orders"})
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	c.JSON(http.StatusOK, orders)
}
