package cart

import (
	"context"
	"database/sql"

	"velora-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	// Upsert adds quantity to an existing row or inserts a new one.
	Upsert(ctx context.Context, userID, productID uint, size string, quantity int) error
	// SetQuantity overwrites the quantity; zero removes the row.
	SetQuantity(ctx context.Context, userID, productID uint, size string, quantity int) error
	GetItems(ctx context.Context, userID uint) ([]Item, error)
	Clear(ctx context.Context, userID uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Upsert(ctx context.Context, userID, productID uint, size string, quantity int) error {
	log := logger.FromCtx(ctx).With(
		zap.Uint("user_id", userID),
		zap.Uint("product_id", productID),
		zap.String("size", size),
	)

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO carts (user_id, product_id, size, quantity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, product_id, size)
		DO UPDATE SET quantity = carts.quantity + EXCLUDED.quantity, updated_at = NOW()
	`, userID, productID, size, quantity)
	if err != nil {
		log.Error("db: failed to upsert cart item", zap.Error(err))
	}

	return err
}

func (r *repository) SetQuantity(ctx context.Context, userID, productID uint, size string, quantity int) error {
	if quantity == 0 {
		_, err := r.db.ExecContext(ctx, `
			DELETE FROM carts
			WHERE user_id = $1 AND product_id = $2 AND size = $3
		`, userID, productID, size)
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE carts
		SET quantity = $4, updated_at = NOW()
		WHERE user_id = $1 AND product_id = $2 AND size = $3
	`, userID, productID, size, quantity)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrItemNotFound
	}

	return nil
}

func (r *repository) GetItems(ctx context.Context, userID uint) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, product_id, size, quantity, updated_at
		FROM carts
		WHERE user_id = $1
		ORDER BY product_id, size
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.UserID, &it.ProductID, &it.Size, &it.Quantity, &it.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}

	return items, rows.Err()
}

func (r *repository) Clear(ctx context.Context, userID uint) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM carts WHERE user_id = $1`, userID)
	return err
}
