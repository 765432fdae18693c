package services

import (
	"basket-shop/models"
	"basket-shop/repositories"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBasketStore struct {
	basket *models.Basket
	items  []models.BasketItem

	createdDescription string
	addedBasketID      int
	addedProductID     int
	addedQuantity      int
	addedDescription   string
	removedUserID      int
	removedItemID      int

	addErr    error
	removeErr error
}

func (f *fakeBasketStore) GetOrCreateBasket(_ context.Context, userID int, description string) (*models.Basket, error) {
	f.createdDescription = description
	if f.basket == nil {
		f.basket = &models.Basket{ID: 1, UserID: userID, Description: description}
	}
	return f.basket, nil
}

func (f *fakeBasketStore) GetBasketItems(_ context.Context, basketID int) ([]models.BasketItem, error) {
	return f.items, nil
}

func (f *fakeBasketStore) AddItem(_ context.Context, basketID, productID, quantity int, description string) (*models.BasketItem, error) {
	if f.addErr != nil {
		return nil, f.addErr
	}
	f.addedBasketID = basketID
	f.addedProductID = productID
	f.addedQuantity = quantity
	f.addedDescription = description
	return &models.BasketItem{ID: 10, BasketID: basketID, ProductID: productID, Quantity: quantity, Description: description}, nil
}

func (f *fakeBasketStore) RemoveItem(_ context.Context, userID, itemID int) error {
	f.removedUserID = userID
	f.removedItemID = itemID
	return f.removeErr
}

func TestGetBasketCreatesWithOwnerDescription(t *testing.T) {
	store := &fakeBasketStore{}
	svc := NewBasketService(store)

	basket, err := svc.GetBasket(context.Background(), 42, "Alice")

	require.NoError(t, err)
	assert.Equal(t, "Shopping basket for Alice", store.createdDescription)
	assert.Equal(t, 42, basket.UserID)
	assert.Empty(t, basket.Items)
}

func TestGetBasketLoadsItems(t *testing.T) {
	store := &fakeBasketStore{
		items: []models.BasketItem{
			{ID: 1, ProductID: 7, Quantity: 2},
			{ID: 2, ProductID: 9, Quantity: 1},
		},
	}
	svc := NewBasketService(store)

	basket, err := svc.GetBasket(context.Background(), 1, "Bob")

	require.NoError(t, err)
	require.Len(t, basket.Items, 2)
	assert.Equal(t, 7, basket.Items[0].ProductID)
}

func TestAddItemTargetsTheUsersBasket(t *testing.T) {
	store := &fakeBasketStore{}
	svc := NewBasketService(store)

	item, err := svc.AddItem(context.Background(), 5, "Carol", models.AddToBasketRequest{
		ProductID:   3,
		Quantity:    2,
		Description: "gift wrap",
	})

	require.NoError(t, err)
	assert.Equal(t, store.basket.ID, store.addedBasketID)
	assert.Equal(t, 3, store.addedProductID)
	assert.Equal(t, 2, store.addedQuantity)
	assert.Equal(t, "gift wrap", store.addedDescription)
	assert.Equal(t, 2, item.Quantity)
}

func TestAddItemPropagatesStockError(t *testing.T) {
	store := &fakeBasketStore{addErr: &repositories.InsufficientStockError{Requested: 6, Held: 4}}
	svc := NewBasketService(store)

	_, err := svc.AddItem(context.Background(), 1, "Dave", models.AddToBasketRequest{ProductID: 1, Quantity: 2})

	var stockErr *repositories.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 6, stockErr.Requested)
	assert.Equal(t, 4, stockErr.Held)
}

func TestRemoveItemDelegatesOwnershipCheck(t *testing.T) {
	store := &fakeBasketStore{removeErr: repositories.ErrNotBasketOwner}
	svc := NewBasketService(store)

	err := svc.RemoveItem(context.Background(), 8, 15)

	assert.ErrorIs(t, err, repositories.ErrNotBasketOwner)
	assert.Equal(t, 8, store.removedUserID)
	assert.Equal(t, 15, store.removedItemID)
}
