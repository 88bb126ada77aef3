package handlers

import (
	"errors"
	"net/http"

	"velora-be/internal/logger"
	"velora-be/internal/metrics"
	"velora-be/internal/order"
	"velora-be/internal/payment"
	"velora-be/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OrderHandler struct {
	svc order.Service
}

func NewOrderHandler(svc order.Service) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type placeOrderRequest struct {
	Address order.Address `json:"address" binding:"required"`
	Amount  float64       `json:"amount"`
}

type updateStatusRequest struct {
	OrderID string `json:"orderId" binding:"required"`
	Status  string `json:"status" binding:"required"`
}

type callbackRequest struct {
	Response string `json:"response"`
}

// PlaceOrder creates a cash-on-delivery order from the caller's cart.
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	userID, _ := utils.GetUserIDFromContext(c.Request.Context())

	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, fail("Invalid order payload"))
		return
	}

	o, err := h.svc.PlaceCashOrder(c.Request.Context(), userID, req.Address, req.Amount)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	metrics.OrdersPlaced.WithLabelValues(string(order.MethodCOD)).Inc()
	c.JSON(http.StatusOK, ok(gin.H{"message": "Order Placed", "order": o}))
}

// PlacePhonePeOrder creates a Payment Pending order and returns the
// hosted payment page URL.
func (h *OrderHandler) PlacePhonePeOrder(c *gin.Context) {
	userID, _ := utils.GetUserIDFromContext(c.Request.Context())

	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, fail("Invalid order payload"))
		return
	}

	o, payURL, err := h.svc.PlaceGatewayOrder(c.Request.Context(), userID, req.Address, req.Amount)
	if err != nil {
		if errors.Is(err, payment.ErrGatewayRejected) || errors.Is(err, payment.ErrGatewayUnreachable) {
			c.JSON(http.StatusBadGateway, fail("Payment initiation failed"))
			return
		}
		respondOrderError(c, err)
		return
	}

	metrics.OrdersPlaced.WithLabelValues(string(order.MethodPhonePe)).Inc()
	c.JSON(http.StatusOK, ok(gin.H{"paymentUrl": payURL, "order": o}))
}

// PhonePeCallback receives the gateway's server-to-server notification.
// It always acknowledges with 200 OK: the gateway retries on anything
// else, and a malformed or duplicate body must never change state.
func (h *OrderHandler) PhonePeCallback(c *gin.Context) {
	log := logger.FromCtx(c.Request.Context())

	var req callbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("callback with unreadable body", zap.Error(err))
		metrics.PaymentCallbacks.WithLabelValues(metrics.OutcomeMalformed).Inc()
		c.String(http.StatusOK, "OK")
		return
	}

	cb, err := payment.DecodeCallback(req.Response)
	if err != nil {
		log.Warn("callback failed to decode", zap.Error(err))
		metrics.PaymentCallbacks.WithLabelValues(metrics.OutcomeMalformed).Inc()
		c.String(http.StatusOK, "OK")
		return
	}

	if err := h.svc.ConfirmGatewayPayment(c.Request.Context(), cb); err != nil {
		log.Error("callback processing failed", zap.Error(err))
		metrics.PaymentCallbacks.WithLabelValues(metrics.OutcomeFailed).Inc()
		c.String(http.StatusOK, "OK")
		return
	}

	if cb.Paid() {
		metrics.PaymentCallbacks.WithLabelValues(metrics.OutcomeConfirmed).Inc()
	} else {
		metrics.PaymentCallbacks.WithLabelValues(metrics.OutcomeFailed).Inc()
	}

	c.String(http.StatusOK, "OK")
}

// UpdateStatus moves an order along the fulfilment pipeline.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, fail("orderId and status are required"))
		return
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		c.JSON(http.StatusBadRequest, fail("Invalid order id"))
		return
	}

	if err := h.svc.UpdateStatus(c.Request.Context(), orderID, order.Status(req.Status)); err != nil {
		respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, ok(gin.H{"message": "Status Updated"}))
}

// UserOrders lists the caller's own orders.
func (h *OrderHandler) UserOrders(c *gin.Context) {
	userID, _ := utils.GetUserIDFromContext(c.Request.Context())

	orders, err := h.svc.UserOrders(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, fail("Failed to fetch orders"))
		return
	}
	if orders == nil {
		orders = []order.Order{}
	}

	c.JSON(http.StatusOK, ok(gin.H{"orders": orders}))
}

// ListOrders returns every order for the admin panel.
func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.svc.AllOrders(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, fail("Failed to fetch orders"))
		return
	}
	if orders == nil {
		orders = []order.Order{}
	}

	c.JSON(http.StatusOK, ok(gin.H{"orders": orders}))
}

func respondOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, order.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, fail("Cart is empty"))
	case errors.Is(err, order.ErrAmountMismatch):
		c.JSON(http.StatusBadRequest, fail("Order amount does not match cart total"))
	case errors.Is(err, order.ErrIncompleteAddress):
		c.JSON(http.StatusBadRequest, fail("Shipping address is incomplete"))
	case errors.Is(err, order.ErrProductGone):
		c.JSON(http.StatusConflict, fail("A cart item is no longer available"))
	case errors.Is(err, order.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, fail("Unknown order status"))
	case errors.Is(err, order.ErrInvalidTransition):
		c.JSON(http.StatusConflict, fail("Status transition not allowed"))
	case errors.Is(err, order.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, fail("Order not found"))
	default:
		c.JSON(http.StatusInternalServerError, fail("Something went wrong"))
	}
}
