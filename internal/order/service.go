package order

import (
	"context"
	"math"
	"time"

	"velora-be/internal/cart"
	"velora-be/internal/config"
	"velora-be/internal/events"
	"velora-be/internal/logger"
	"velora-be/internal/payment"
	"velora-be/internal/product"
	"velora-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	// PlaceCashOrder creates a cash-on-delivery order and clears the
	// cart atomically.
	PlaceCashOrder(ctx context.Context, userID uint, addr Address, clientAmount float64) (*Order, error)
	// PlaceGatewayOrder creates a Payment Pending order and returns the
	// hosted payment page URL. The cart survives until the callback.
	PlaceGatewayOrder(ctx context.Context, userID uint, addr Address, clientAmount float64) (*Order, string, error)
	// ConfirmGatewayPayment applies a decoded gateway callback. Retried
	// callbacks for an already-paid order change nothing.
	ConfirmGatewayPayment(ctx context.Context, cb *payment.CallbackResult) error
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status Status) error
	UserOrders(ctx context.Context, userID uint) ([]Order, error)
	AllOrders(ctx context.Context) ([]Order, error)
	// ExpireStalePending cancels gateway orders the buyer abandoned.
	ExpireStalePending(ctx context.Context) (int64, error)
}

type service struct {
	repo        Repository
	cartRepo    cart.Repository
	productRepo product.Repository
	gateway     payment.Gateway
	cache       Cache
	publisher   events.Publisher
	cfg         *config.Config
}

func NewService(
	repo Repository,
	cartRepo cart.Repository,
	productRepo product.Repository,
	gateway payment.Gateway,
	cache Cache,
	publisher events.Publisher,
	cfg *config.Config,
) Service {
	return &service{
		repo:        repo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		gateway:     gateway,
		cache:       cache,
		publisher:   publisher,
		cfg:         cfg,
	}
}

// buildOrder snapshots the cart against catalog prices. The client's
// claimed total is only checked, never trusted.
func (s *service) buildOrder(ctx context.Context, userID uint, addr Address, clientAmount float64) (*Order, error) {
	if addr.Street == "" || addr.City == "" || addr.Phone == "" {
		return nil, ErrIncompleteAddress
	}

	cartItems, err := s.cartRepo.GetItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cartItems) == 0 {
		return nil, ErrEmptyCart
	}

	ids := make([]uint, 0, len(cartItems))
	seen := make(map[uint]bool, len(cartItems))
	for _, it := range cartItems {
		if !seen[it.ProductID] {
			seen[it.ProductID] = true
			ids = append(ids, it.ProductID)
		}
	}

	prices, err := s.productRepo.PricesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	names := make(map[uint]string, len(ids))
	for _, id := range ids {
		if _, ok := prices[id]; !ok {
			return nil, ErrProductGone
		}
		p, err := s.productRepo.GetByID(ctx, id)
		if err != nil {
			return nil, ErrProductGone
		}
		names[id] = p.Name
	}

	var subtotal float64
	items := make([]OrderItem, 0, len(cartItems))
	for _, it := range cartItems {
		price := prices[it.ProductID]
		subtotal += price * float64(it.Quantity)
		items = append(items, OrderItem{
			ProductID: it.ProductID,
			Name:      names[it.ProductID],
			Price:     price,
			Size:      it.Size,
			Quantity:  it.Quantity,
		})
	}

	amount := subtotal + s.cfg.DeliveryCharge
	if clientAmount != 0 && math.Abs(clientAmount-amount) > 0.005 {
		logger.FromCtx(ctx).Warn("client amount rejected",
			zap.Uint("user_id", userID),
			zap.Float64("claimed", clientAmount),
			zap.Float64("computed", amount),
		)
		return nil, ErrAmountMismatch
	}

	return &Order{
		ID:      uuid.New(),
		UserID:  userID,
		Items:   items,
		Amount:  amount,
		Address: addr,
	}, nil
}

func (s *service) PlaceCashOrder(ctx context.Context, userID uint, addr Address, clientAmount float64) (*Order, error) {
	log := logger.FromCtx(ctx).With(zap.Uint("user_id", userID))

	o, err := s.buildOrder(ctx, userID, addr, clientAmount)
	if err != nil {
		return nil, err
	}
	o.PaymentMethod = MethodCOD
	o.Payment = false
	o.Status = StatusOrderPlaced

	if err := s.repo.CreateCashOrderTx(ctx, o); err != nil {
		return nil, err
	}

	s.cache.InvalidateUser(ctx, userID)
	s.publish(ctx, events.TypeOrderCreated, o)

	log.Info("cash order placed",
		zap.String("order_id", o.ID.String()),
		zap.Float64("amount", o.Amount),
	)
	return o, nil
}

func (s *service) PlaceGatewayOrder(ctx context.Context, userID uint, addr Address, clientAmount float64) (*Order, string, error) {
	log := logger.FromCtx(ctx).With(zap.Uint("user_id", userID))

	o, err := s.buildOrder(ctx, userID, addr, clientAmount)
	if err != nil {
		return nil, "", err
	}

	transactionID := uuid.NewString()
	o.PaymentMethod = MethodPhonePe
	o.Payment = false
	o.Status = StatusPaymentPending
	o.TransactionID = &transactionID

	// The gateway is asked first: no order row may exist for a payment
	// that was never attempted.
	payURL, err := s.gateway.CreatePayment(ctx, payment.CreatePaymentParams{
		TransactionID: transactionID,
		UserID:        userID,
		AmountPaise:   int64(math.Round(o.Amount * 100)),
	})
	if err != nil {
		log.Error("gateway payment init failed",
			zap.String("transaction_id", transactionID),
			zap.Error(err),
		)
		return nil, "", err
	}

	if err := s.repo.CreateGatewayOrder(ctx, o); err != nil {
		return nil, "", err
	}

	s.cache.InvalidateUser(ctx, userID)
	s.publish(ctx, events.TypeOrderCreated, o)

	log.Info("gateway order placed",
		zap.String("order_id", o.ID.String()),
		zap.String("transaction_id", transactionID),
		zap.Float64("amount", o.Amount),
	)
	return o, payURL, nil
}

func (s *service) ConfirmGatewayPayment(ctx context.Context, cb *payment.CallbackResult) error {
	log := logger.FromCtx(ctx).With(zap.String("transaction_id", cb.TransactionID()))

	if !cb.Paid() {
		log.Info("gateway reported failed payment", zap.String("code", cb.Code))
		return s.repo.CancelUnpaidByTransactionID(ctx, cb.TransactionID())
	}

	userID, confirmed, err := s.repo.ConfirmPaymentByTransactionID(ctx, cb.TransactionID())
	if err != nil {
		return err
	}
	if !confirmed {
		log.Info("callback ignored: unknown transaction or already paid")
		return nil
	}

	// Gateway carts are cleared only on the first confirmation.
	if err := s.cartRepo.Clear(ctx, userID); err != nil {
		log.Error("failed to clear cart after payment", zap.Uint("user_id", userID), zap.Error(err))
	}

	s.cache.InvalidateUser(ctx, userID)

	e := events.NewEvent(events.TypeOrderPaid, cb.TransactionID(), userID)
	if err := s.publisher.Publish(ctx, e); err != nil {
		log.Warn("failed to publish order.paid", zap.Error(err))
	}

	log.Info("payment confirmed", zap.Uint("user_id", userID))
	return nil
}

func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, status Status) error {
	log := logger.FromCtx(ctx).With(
		zap.String("order_id", orderID.String()),
		zap.String("status", string(status)),
	)

	if !status.Valid() {
		return ErrInvalidStatus
	}

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	if !o.Status.CanTransitionTo(status) {
		log.Warn("rejected status transition", zap.String("from", string(o.Status)))
		return ErrInvalidTransition
	}

	// Delivery collects payment for cash orders. Gateway orders are only
	// marked paid here when explicitly configured, since their payment
	// normally arrives via the callback.
	markPaid := status == StatusDelivered && !o.Payment &&
		(o.PaymentMethod == MethodCOD || s.cfg.DeliveredMarksGatewayPaid)
	if err := s.repo.UpdateStatus(ctx, orderID, status, markPaid); err != nil {
		return err
	}

	s.cache.InvalidateUser(ctx, o.UserID)

	e := events.NewEvent(events.TypeOrderStatusChanged, orderID.String(), o.UserID)
	e.Status = string(status)
	if err := s.publisher.Publish(ctx, e); err != nil {
		log.Warn("failed to publish order.status_changed", zap.Error(err))
	}

	log.Info("order status updated",
		zap.Bool("marked_paid", markPaid),
		zap.String("transaction_id", utils.PtrString(o.TransactionID)),
	)
	return nil
}

func (s *service) UserOrders(ctx context.Context, userID uint) ([]Order, error) {
	if orders, ok := s.cache.GetUserOrders(ctx, userID); ok {
		return orders, nil
	}

	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.cache.SetUserOrders(ctx, userID, orders)
	return orders, nil
}

func (s *service) AllOrders(ctx context.Context) ([]Order, error) {
	return s.repo.ListAll(ctx)
}

func (s *service) ExpireStalePending(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-s.cfg.SweepPendingTTL)
	swept, err := s.repo.ExpireStalePending(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if swept > 0 {
		logger.FromCtx(ctx).Info("expired stale pending orders", zap.Int64("count", swept))
	}
	return swept, nil
}

func (s *service) publish(ctx context.Context, eventType string, o *Order) {
	e := events.NewEvent(eventType, o.ID.String(), o.UserID)
	e.Amount = o.Amount
	e.Status = string(o.Status)
	if err := s.publisher.Publish(ctx, e); err != nil {
		logger.FromCtx(ctx).Warn("failed to publish event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
