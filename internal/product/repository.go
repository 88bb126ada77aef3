package product

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
)

type Repository interface {
	GetAll(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id uint) (Product, error)
	Create(ctx context.Context, p Product) (Product, error)
	// PricesByIDs returns the catalog price for each requested product.
	// Missing ids are absent from the map, not an error.
	PricesByIDs(ctx context.Context, ids []uint) (map[uint]float64, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetAll(ctx context.Context) ([]Product, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, description, price, images, category, sub_category, sizes, bestseller, created_at FROM products ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price,
			pq.Array(&p.Images), &p.Category, &p.SubCategory,
			pq.Array(&p.Sizes), &p.Bestseller, &p.CreatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

func (r *repository) GetByID(ctx context.Context, id uint) (Product, error) {
	var p Product
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, description, price, images, category, sub_category, sizes, bestseller, created_at FROM products WHERE id=$1",
		id,
	).Scan(&p.ID, &p.Name, &p.Description, &p.Price,
		pq.Array(&p.Images), &p.Category, &p.SubCategory,
		pq.Array(&p.Sizes), &p.Bestseller, &p.CreatedAt)
	return p, err
}

func (r *repository) Create(ctx context.Context, p Product) (Product, error) {
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO products (name, description, price, images, category, sub_category, sizes, bestseller) VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id, created_at",
		p.Name, p.Description, p.Price, pq.Array(p.Images),
		p.Category, p.SubCategory, pq.Array(p.Sizes), p.Bestseller,
	).Scan(&p.ID, &p.CreatedAt)
	return p, err
}

func (r *repository) PricesByIDs(ctx context.Context, ids []uint) (map[uint]float64, error) {
	prices := make(map[uint]float64, len(ids))
	if len(ids) == 0 {
		return prices, nil
	}

	int64IDs := make([]int64, len(ids))
	for i, id := range ids {
		int64IDs[i] = int64(id)
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT id, price FROM products WHERE id = ANY($1)",
		pq.Array(int64IDs),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id uint
		var price float64
		if err := rows.Scan(&id, &price); err != nil {
			return nil, err
		}
		prices[id] = price
	}

	return prices, rows.Err()
}
