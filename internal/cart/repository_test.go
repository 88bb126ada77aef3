package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO carts`).
			WithArgs(1, 2, "M", 1).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Upsert(ctx, 1, 2, "M", 1)
		assert.NoError(t, err)
	})

	t.Run("DBError", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO carts`).
			WillReturnError(errors.New("db error"))

		err := repo.Upsert(ctx, 1, 2, "M", 1)
		assert.Error(t, err)
	})
}

func TestRepository_SetQuantity(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Update", func(t *testing.T) {
		mock.ExpectExec(`UPDATE carts`).
			WithArgs(1, 2, "M", 3).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SetQuantity(ctx, 1, 2, "M", 3)
		assert.NoError(t, err)
	})

	t.Run("ZeroDeletesRow", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM carts`).
			WithArgs(1, 2, "M").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SetQuantity(ctx, 1, 2, "M", 0)
		assert.NoError(t, err)
	})

	t.Run("NoMatchingRow", func(t *testing.T) {
		mock.ExpectExec(`UPDATE carts`).
			WithArgs(1, 2, "XL", 3).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SetQuantity(ctx, 1, 2, "XL", 3)
		assert.Equal(t, ErrItemNotFound, err)
	})
}

func TestRepository_GetItems(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"user_id", "product_id", "size", "quantity", "updated_at"}).
			AddRow(1, 2, "M", 3, time.Now()).
			AddRow(1, 2, "L", 1, time.Now())

		mock.ExpectQuery(`SELECT user_id, product_id, size, quantity, updated_at\s+FROM carts`).
			WithArgs(1).
			WillReturnRows(rows)

		items, err := repo.GetItems(ctx, 1)
		assert.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, uint(2), items[0].ProductID)
		assert.Equal(t, "M", items[0].Size)
		assert.Equal(t, 3, items[0].Quantity)
	})

	t.Run("Empty", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM carts`).
			WithArgs(9).
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "product_id", "size", "quantity", "updated_at"}))

		items, err := repo.GetItems(ctx, 9)
		assert.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestRepository_Clear(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	mock.ExpectExec(`DELETE FROM carts WHERE user_id = \$1`).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 2))

	err = repo.Clear(ctx, 1)
	assert.NoError(t, err)
}
