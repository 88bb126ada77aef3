package cart

import (
	"context"
	"database/sql"
	"errors"

	"velora-be/internal/logger"
	"velora-be/internal/product"

	"go.uber.org/zap"
)

type Service interface {
	AddToCart(ctx context.Context, userID, productID uint, size string) error
	UpdateQuantity(ctx context.Context, userID, productID uint, size string, quantity int) error
	GetCart(ctx context.Context, userID uint) (Data, error)
	ClearCart(ctx context.Context, userID uint) error
}

type service struct {
	repo        Repository
	productRepo product.Repository
}

func NewService(repo Repository, productRepo product.Repository) Service {
	return &service{repo: repo, productRepo: productRepo}
}

func (s *service) AddToCart(ctx context.Context, userID, productID uint, size string) error {
	log := logger.FromCtx(ctx).With(
		zap.Uint("user_id", userID),
		zap.Uint("product_id", productID),
		zap.String("size", size),
	)

	if size == "" {
		return errors.New("size is required")
	}

	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return errors.New("product not found")
		}
		return err
	}

	if err := s.repo.Upsert(ctx, userID, productID, size, 1); err != nil {
		return err
	}

	log.Info("item added to cart")
	return nil
}

func (s *service) UpdateQuantity(ctx context.Context, userID, productID uint, size string, quantity int) error {
	if quantity < 0 {
		return ErrInvalidQuantity
	}
	return s.repo.SetQuantity(ctx, userID, productID, size, quantity)
}

func (s *service) GetCart(ctx context.Context, userID uint) (Data, error) {
	items, err := s.repo.GetItems(ctx, userID)
	if err != nil {
		return nil, err
	}

	data := make(Data)
	for _, it := range items {
		if data[it.ProductID] == nil {
			data[it.ProductID] = make(map[string]int)
		}
		data[it.ProductID][it.Size] = it.Quantity
	}

	return data, nil
}

func (s *service) ClearCart(ctx context.Context, userID uint) error {
	return s.repo.Clear(ctx, userID)
}
