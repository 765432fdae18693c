package models

import "time"

// Basket holds one user's in-progress purchases. TotalPrice is derived
// from the items and kept in sync by the basket repository.
type Basket struct {
	ID          int          `json:"id"`
	UserID      int          `json:"user_id"`
	Description string       `json:"description"`
	TotalPrice  int          `json:"total_price"`
	Items       []BasketItem `json:"items"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type BasketItem struct {
	ID          int       `json:"id"`
	BasketID    int       `json:"basket_id"`
	ProductID   int       `json:"product_id"`
	Product     *Product  `json:"product,omitempty"`
	Quantity    int       `json:"quantity"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
