package services

import (
	"basket-shop/models"
	"context"
	"fmt"
)

// BasketStore is the persistence surface the basket operations need. The
// pgx-backed implementation lives in repositories.
type BasketStore interface {
	GetOrCreateBasket(ctx context.Context, userID int, description string) (*models.Basket, error)
	GetBasketItems(ctx context.Context, basketID int) ([]models.BasketItem, error)
	AddItem(ctx context.Context, basketID, productID, quantity int, description string) (*models.BasketItem, error)
	RemoveItem(ctx context.Context, userID, itemID int) error
}

type BasketService struct {
	store BasketStore
}

func NewBasketService(store BasketStore) *BasketService {
	return &BasketService{store: store}
}

// GetBasket returns the user's basket with items and products loaded,
// creating an empty basket on first access.
func (s *BasketService) GetBasket(ctx context.Context, userID int, userName string) (*models.Basket, error) {
	basket, err := s.store.GetOrCreateBasket(ctx, userID, basketDescription(userName))
	if err != nil {
		return nil, err
	}

	items, err := s.store.GetBasketItems(ctx, basket.ID)
	if err != nil {
		return nil, err
	}
	basket.Items = items

	return basket, nil
}

// AddItem puts a product into the user's basket. Adding a product already in
// the basket merges quantities into the existing line item instead of
// creating a second one; either path fails when stock cannot cover the
// resulting quantity.
func (s *BasketService) AddItem(ctx context.Context, userID int, userName string, req models.AddToBasketRequest) (*models.BasketItem, error) {
	basket, err := s.store.GetOrCreateBasket(ctx, userID, basketDescription(userName))
	if err != nil {
		return nil, err
	}

	return s.store.AddItem(ctx, basket.ID, req.ProductID, req.Quantity, req.Description)
}

// RemoveItem deletes one of the user's basket items. The basket row itself
// persists even when its last item goes.
func (s *BasketService) RemoveItem(ctx context.Context, userID, itemID int) error {
	return s.store.RemoveItem(ctx, userID, itemID)
}

func basketDescription(userName string) string {
	return fmt.Sprintf("Shopping basket for %s", userName)
}
