package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"velora-be/internal/order"
	"velora-be/internal/payment"
	"velora-be/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) PlaceCashOrder(ctx context.Context, userID uint, addr order.Address, clientAmount float64) (*order.Order, error) {
	args := m.Called(ctx, userID, addr, clientAmount)
	if o := args.Get(0); o != nil {
		return o.(*order.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderService) PlaceGatewayOrder(ctx context.Context, userID uint, addr order.Address, clientAmount float64) (*order.Order, string, error) {
	args := m.Called(ctx, userID, addr, clientAmount)
	if o := args.Get(0); o != nil {
		return o.(*order.Order), args.String(1), args.Error(2)
	}
	return nil, args.String(1), args.Error(2)
}

func (m *MockOrderService) ConfirmGatewayPayment(ctx context.Context, cb *payment.CallbackResult) error {
	args := m.Called(ctx, cb)
	return args.Error(0)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status order.Status) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *MockOrderService) UserOrders(ctx context.Context, userID uint) ([]order.Order, error) {
	args := m.Called(ctx, userID)
	if o := args.Get(0); o != nil {
		return o.([]order.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderService) AllOrders(ctx context.Context) ([]order.Order, error) {
	args := m.Called(ctx)
	if o := args.Get(0); o != nil {
		return o.([]order.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderService) ExpireStalePending(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func newOrderRouter(svc order.Service) *gin.Engine {
	h := NewOrderHandler(svc)
	r := gin.New()
	auth := r.Group("/api/order", asUser(42, "user"))
	auth.POST("/place", h.PlaceOrder)
	auth.POST("/phonepe", h.PlacePhonePeOrder)
	auth.POST("/userorders", h.UserOrders)
	r.POST("/api/order/phonepe-callback", h.PhonePeCallback)
	admin := r.Group("/api/order", asUser(0, "admin"))
	admin.POST("/status", h.UpdateStatus)
	admin.POST("/list", h.ListOrders)
	return r
}

func testAddress() order.Address {
	return order.Address{
		FirstName: "Jane",
		LastName:  "Doe",
		Street:    "1 Main St",
		City:      "Pune",
		State:     "MH",
		ZipCode:   "411001",
		Country:   "IN",
		Phone:     "9999999999",
	}
}

// encodeCallback builds the base64 body the gateway posts back.
func encodeCallback(t *testing.T, success bool, code, txnID string) string {
	t.Helper()

	cb := payment.CallbackResult{Success: success, Code: code}
	cb.Data.MerchantTransactionID = txnID
	cb.Data.MerchantUserID = "MUID42"

	raw, err := json.Marshal(cb)
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(raw)
}

func TestOrderHandler_PlaceOrder(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(MockOrderService)
		placed := &order.Order{ID: uuid.New(), UserID: 42, Amount: 1010, Status: order.StatusOrderPlaced}
		svc.On("PlaceCashOrder", mock.Anything, uint(42), testAddress(), 1010.0).Return(placed, nil)

		rr := performJSON(t, newOrderRouter(svc), "POST", "/api/order/place", gin.H{
			"address": testAddress(), "amount": 1010,
		})

		assert.Equal(t, http.StatusOK, rr.Code)
		body := decodeBody(t, rr)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "Order Placed", body["message"])
		svc.AssertExpectations(t)
	})

	t.Run("AmountMismatch", func(t *testing.T) {
		svc := new(MockOrderService)
		svc.On("PlaceCashOrder", mock.Anything, uint(42), testAddress(), 999.0).
			Return(nil, order.ErrAmountMismatch)

		rr := performJSON(t, newOrderRouter(svc), "POST", "/api/order/place", gin.H{
			"address": testAddress(), "amount": 999,
		})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Order amount does not match cart total", decodeBody(t, rr)["message"])
	})

	t.Run("EmptyCart", func(t *testing.T) {
		svc := new(MockOrderService)
		svc.On("PlaceCashOrder", mock.Anything, uint(42), testAddress(), 0.0).
			Return(nil, order.ErrEmptyCart)

		rr := performJSON(t, newOrderRouter(svc), "POST", "/api/order/place", gin.H{
			"address": testAddress(),
		})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Cart is empty", decodeBody(t, rr)["message"])
	})

	t.Run("MissingAddress", func(t *testing.T) {
		svc := new(MockOrderService)

		rr := performJSON(t, newOrderRouter(svc), "POST", "/api/order/place", gin.H{"amount": 100})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		svc.AssertNotCalled(t, "PlaceCashOrder")
	})
}

func TestOrderHandler_PlacePhonePeOrder(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(MockOrderService)
		pending := &order.Order{
			ID:            uuid.New(),
			UserID:        42,
			Status:        order.StatusPaymentPending,
			TransactionID: utils.StrPtr("a-txn-id"),
		}
		svc.On("PlaceGatewayOrder", mock.Anything, uint(42), testAddress(), 1010.0).
			Return(pending, "https://pay.example/redirect", nil)

		rr := performJSON(t, newOrderRouter(svc), "POST", "/api/order/phonepe", gin.H{
			"address": testAddress(), "amount": 1010,
		})

		assert.Equal(t, http.StatusOK, rr.Code)
		body := decodeBody(t, rr)
		assert.Equal(t, "https://pay.example/redirect", body["paymentUrl"])
	})

	t.Run("GatewayDown", func(t *testing.T) {
		svc := new(MockOrderService)
		svc.On("PlaceGatewayOrder", mock.Anything, uint(42), testAddress(), 1010.0).
			Return(nil, "", payment.ErrGatewayUnreachable)

		rr := performJSON(t, newOrderRouter(svc), "POST", "/api/order/phonepe", gin.H{
			"address": testAddress(), "amount": 1010,
		})

		assert.Equal(t, http.StatusBadGateway, rr.Code)
		assert.Equal(t, "Payment initiation failed", decodeBody(t, rr)["message"])
	})
}

func TestOrderHandler_PhonePeCallback(t *testing.T) {
	t.Run("SuccessfulPayment", func(t *testing.T) {
		svc := new(MockOrderService)
		svc.On("ConfirmGatewayPayment", mock.Anything, mock.MatchedBy(func(cb *payment.CallbackResult) bool {
			return cb.Paid() && cb.TransactionID() == "TEST17000001"
		})).Return(nil)

		rr := performJSON(t, newOrderRouter(svc), "POST", "/api/order/phonepe-callback", gin.H{
			"response": encodeCallback(t, true, payment.CodePaymentSuccess, "TEST17000001"),
		})

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "OK", rr.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("FailedPaymentStillAcked", func(t *testing.T) {
		svc := new(MockOrderService)
		svc.On("ConfirmGatewayPayment", mock.Anything, mock.MatchedBy(func(cb *payment.CallbackResult) bool {
			return !cb.Paid()
		})).Return(nil)

		rr := performJSON(t, newOrderRouter(svc), "POST", "/api/order/phonepe-callback", gin.H{
			"response": encodeCallback(t, false, "PAYMENT_ERROR", "TEST17000001"),
		})

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "OK", rr.Body.String())
	})

	t.Run("MalformedBodyAcked", func(t *testing.T) {
		svc := new(MockOrderService)

		rr := performJSON(t, newOrderRouter(svc), "POST", "/api/order/phonepe-callback", gin.H{
			"response": "not-base64!!",
		})

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "OK", rr.Body.String())
		svc.AssertNotCalled(t, "ConfirmGatewayPayment")
	})

	t.Run("ServiceErrorAcked", func(t *testing.T) {
		svc := new(MockOrderService)
		svc.On("ConfirmGatewayPayment", mock.Anything, mock.Anything).Return(errors.New("db down"))

		rr := performJSON(t, newOrderRouter(svc), "POST", "/api/order/phonepe-callback", gin.H{
			"response": encodeCallback(t, true, payment.CodePaymentSuccess, "TEST17000001"),
		})

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "OK", rr.Body.String())
	})
}

func TestOrderHandler_UpdateStatus(t *testing.T) {
	orderID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		svc := new(MockOrderService)
		svc.On("UpdateStatus", mock.Anything, orderID, order.StatusPacking).Return(nil)

		rr := performJSON(t, newOrderRouter(svc), "POST", "/api/order/status", gin.H{
			"orderId": orderID.String(), "status": "Packing",
		})

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "Status Updated", decodeBody(t, rr)["message"])
	})

	t.Run("InvalidTransition", func(t *testing.T) {
		svc := new(MockOrderService)
		svc.On("UpdateStatus", mock.Anything, orderID, order.StatusDelivered).
			Return(order.ErrInvalidTransition)

		rr := performJSON(t, newOrderRouter(svc), "POST", "/api/order/status", gin.H{
			"orderId": orderID.String(), "status": "Delivered",
		})

		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Equal(t, "Status transition not allowed", decodeBody(t, rr)["message"])
	})

	t.Run("UnknownStatus", func(t *testing.T) {
		svc := new(MockOrderService)
		svc.On("UpdateStatus", mock.Anything, orderID, order.Status("Teleported")).
			Return(order.ErrInvalidStatus)

		rr := performJSON(t, newOrderRouter(svc), "POST", "/api/order/status", gin.H{
			"orderId": orderID.String(), "status": "Teleported",
		})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("BadOrderID", func(t *testing.T) {
		svc := new(MockOrderService)

		rr := performJSON(t, newOrderRouter(svc), "POST", "/api/order/status", gin.H{
			"orderId": "not-a-uuid", "status": "Packing",
		})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		svc.AssertNotCalled(t, "UpdateStatus")
	})

	t.Run("NotFound", func(t *testing.T) {
		svc := new(MockOrderService)
		svc.On("UpdateStatus", mock.Anything, orderID, order.StatusPacking).
			Return(order.ErrOrderNotFound)

		rr := performJSON(t, newOrderRouter(svc), "POST", "/api/order/status", gin.H{
			"orderId": orderID.String(), "status": "Packing",
		})

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestOrderHandler_UserOrders(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(MockOrderService)
		svc.On("UserOrders", mock.Anything, uint(42)).
			Return([]order.Order{{ID: uuid.New(), UserID: 42}}, nil)

		rr := performJSON(t, newOrderRouter(svc), "POST", "/api/order/userorders", nil)

		assert.Equal(t, http.StatusOK, rr.Code)
		body := decodeBody(t, rr)
		assert.Len(t, body["orders"], 1)
	})

	t.Run("EmptyListNotNull", func(t *testing.T) {
		svc := new(MockOrderService)
		svc.On("UserOrders", mock.Anything, uint(42)).Return(nil, nil)

		rr := performJSON(t, newOrderRouter(svc), "POST", "/api/order/userorders", nil)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"orders":[]`)
	})
}

func TestOrderHandler_ListOrders(t *testing.T) {
	svc := new(MockOrderService)
	svc.On("AllOrders", mock.Anything).
		Return([]order.Order{{ID: uuid.New()}, {ID: uuid.New()}}, nil)

	rr := performJSON(t, newOrderRouter(svc), "POST", "/api/order/list", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	assert.Len(t, body["orders"], 2)
}
