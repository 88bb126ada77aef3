package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"velora-be/internal/logger"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	// CreateCashOrderTx inserts the order with its item snapshot and
	// clears the buyer's cart in one transaction.
	CreateCashOrderTx(ctx context.Context, o *Order) error
	// CreateGatewayOrder inserts the order and items but leaves the
	// cart alone until the gateway confirms payment.
	CreateGatewayOrder(ctx context.Context, o *Order) error
	// ConfirmPaymentByTransactionID flips an unpaid order to paid.
	// confirmed is false when the transaction is unknown or the order
	// was already paid, making retried callbacks a no-op.
	ConfirmPaymentByTransactionID(ctx context.Context, transactionID string) (userID uint, confirmed bool, err error)
	// CancelUnpaidByTransactionID cancels an order whose payment the
	// gateway reported as failed. Paid orders are never touched.
	CancelUnpaidByTransactionID(ctx context.Context, transactionID string) error
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status, markPaid bool) error
	ListByUser(ctx context.Context, userID uint) ([]Order, error)
	ListAll(ctx context.Context) ([]Order, error)
	// ExpireStalePending cancels unpaid gateway orders created before
	// the cutoff and returns how many were swept.
	ExpireStalePending(ctx context.Context, cutoff time.Time) (int64, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const insertOrderSQL = `
	INSERT INTO orders (id, user_id, amount, address, payment_method, payment, status, transaction_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING created_at, updated_at`

const insertItemSQL = `
	INSERT INTO order_items (order_id, product_id, name, price, size, quantity)
	VALUES ($1, $2, $3, $4, $5, $6)`

func insertOrder(ctx context.Context, tx *sql.Tx, o *Order) error {
	addr, err := json.Marshal(o.Address)
	if err != nil {
		return err
	}

	err = tx.QueryRowContext(ctx, insertOrderSQL,
		o.ID, o.UserID, o.Amount, addr, o.PaymentMethod, o.Payment, o.Status, o.TransactionID,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return err
	}

	for i := range o.Items {
		o.Items[i].OrderID = o.ID
		it := o.Items[i]
		if _, err := tx.ExecContext(ctx, insertItemSQL,
			it.OrderID, it.ProductID, it.Name, it.Price, it.Size, it.Quantity,
		); err != nil {
			return err
		}
	}

	return nil
}

func (r *repository) CreateCashOrderTx(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("order_id", o.ID.String()),
		zap.Uint("user_id", o.UserID),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertOrder(ctx, tx, o); err != nil {
		log.Error("db: failed to insert cash order", zap.Error(err))
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM carts WHERE user_id = $1`, o.UserID); err != nil {
		log.Error("db: failed to clear cart", zap.Error(err))
		return err
	}

	return tx.Commit()
}

func (r *repository) CreateGatewayOrder(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("order_id", o.ID.String()),
		zap.Uint("user_id", o.UserID),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertOrder(ctx, tx, o); err != nil {
		log.Error("db: failed to insert gateway order", zap.Error(err))
		return err
	}

	return tx.Commit()
}

func (r *repository) ConfirmPaymentByTransactionID(ctx context.Context, transactionID string) (uint, bool, error) {
	var userID uint
	err := r.db.QueryRowContext(ctx, `
		UPDATE orders
		SET payment = true, status = $2, updated_at = NOW()
		WHERE transaction_id = $1 AND payment = false
		RETURNING user_id
	`, transactionID, StatusOrderPlaced).Scan(&userID)

	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	return userID, true, nil
}

func (r *repository) CancelUnpaidByTransactionID(ctx context.Context, transactionID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $2, updated_at = NOW()
		WHERE transaction_id = $1 AND payment = false
	`, transactionID, StatusCancelled)
	return err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	var o Order
	var addr []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, amount, address, payment_method, payment, status, transaction_id, created_at, updated_at
		FROM orders
		WHERE id = $1
	`, id).Scan(&o.ID, &o.UserID, &o.Amount, &addr, &o.PaymentMethod,
		&o.Payment, &o.Status, &o.TransactionID, &o.CreatedAt, &o.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(addr, &o.Address); err != nil {
		return nil, err
	}

	items, err := r.itemsForOrders(ctx, []uuid.UUID{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]

	return &o, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status, markPaid bool) error {
	var res sql.Result
	var err error

	if markPaid {
		res, err = r.db.ExecContext(ctx, `
			UPDATE orders SET status = $2, payment = true, updated_at = NOW() WHERE id = $1
		`, id, status)
	} else {
		res, err = r.db.ExecContext(ctx, `
			UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1
		`, id, status)
	}
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

func (r *repository) ListByUser(ctx context.Context, userID uint) ([]Order, error) {
	return r.list(ctx, `
		SELECT id, user_id, amount, address, payment_method, payment, status, transaction_id, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
}

func (r *repository) ListAll(ctx context.Context) ([]Order, error) {
	return r.list(ctx, `
		SELECT id, user_id, amount, address, payment_method, payment, status, transaction_id, created_at, updated_at
		FROM orders
		ORDER BY created_at DESC
	`)
}

func (r *repository) list(ctx context.Context, query string, args ...any) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	var ids []uuid.UUID
	for rows.Next() {
		var o Order
		var addr []byte
		if err := rows.Scan(&o.ID, &o.UserID, &o.Amount, &addr, &o.PaymentMethod,
			&o.Payment, &o.Status, &o.TransactionID, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(addr, &o.Address); err != nil {
			return nil, err
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	items, err := r.itemsForOrders(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}

	return orders, nil
}

func (r *repository) itemsForOrders(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]OrderItem, error) {
	byOrder := make(map[uuid.UUID][]OrderItem, len(ids))
	if len(ids) == 0 {
		return byOrder, nil
	}

	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = id.String()
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT order_id, product_id, name, price, size, quantity
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, product_id, size
	`, pq.Array(strIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.OrderID, &it.ProductID, &it.Name, &it.Price, &it.Size, &it.Quantity); err != nil {
			return nil, err
		}
		byOrder[it.OrderID] = append(byOrder[it.OrderID], it)
	}

	return byOrder, rows.Err()
}

func (r *repository) ExpireStalePending(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $2, updated_at = NOW()
		WHERE status = $1 AND payment = false AND created_at < $3
	`, StatusPaymentPending, StatusCancelled, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
