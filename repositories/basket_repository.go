package repositories

import (
	"basket-shop/models"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrItemNotFound    = errors.New("basket item not found")
	ErrNotBasketOwner  = errors.New("basket item belongs to another user")
)

// InsufficientStockError carries the total quantity the user asked for and
// how much of the product is already held in their basket.
type InsufficientStockError struct {
	Requested int
	Held      int
}

func (e *InsufficientStockError) Error() string {
	if e.Held > 0 {
		return fmt.Sprintf("Requested quantity %d is not available, you already have %d in your basket", e.Requested, e.Held)
	}
	return fmt.Sprintf("Requested quantity %d is not available", e.Requested)
}

// checkStock validates that stock covers the quantity already held in the
// basket plus the quantity being added. held is zero for a new line item.
func checkStock(stock, held, quantity int) error {
	requested := held + quantity
	if stock < requested {
		return &InsufficientStockError{Requested: requested, Held: held}
	}
	return nil
}

// ExpiringBasket is one row of the sweep's notify-phase selection.
type ExpiringBasket struct {
	BasketID  int
	UserID    int
	UserName  string
	UserEmail string
	ItemCount int
}

type BasketRepository struct {
	db *pgxpool.Pool
}

func NewBasketRepository(db *pgxpool.Pool) *BasketRepository {
	return &BasketRepository{db: db}
}

// GetOrCreateBasket returns the user's basket, creating an empty one if
// needed. The unique constraint on user_id makes concurrent first accesses
// converge on a single row.
func (r *BasketRepository) GetOrCreateBasket(ctx context.Context, userID int, description string) (*models.Basket, error) {
	now := time.Now()
	_, err := r.db.Exec(ctx,
		`INSERT INTO baskets (user_id, description, total_price, created_at, updated_at)
		 VALUES ($1, $2, 0, $3, $3)
		 ON CONFLICT (user_id) DO NOTHING`,
		userID, description, now)
	if err != nil {
		return nil, err
	}

	var b models.Basket
	err = r.db.QueryRow(ctx,
		`SELECT id, user_id, description, total_price, created_at, updated_at
		 FROM baskets WHERE user_id=$1`,
		userID).Scan(&b.ID, &b.UserID, &b.Description, &b.TotalPrice, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BasketRepository) GetBasketItems(ctx context.Context, basketID int) ([]models.BasketItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT bi.id, bi.basket_id, bi.product_id, bi.quantity, bi.description, bi.created_at, bi.updated_at,
		        p.id, p.name, p.description, p.price, p.stock, p.created_at, p.updated_at
		 FROM basket_items bi
		 JOIN products p ON p.id = bi.product_id
		 WHERE bi.basket_id = $1
		 ORDER BY bi.id`,
		basketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.BasketItem{}
	for rows.Next() {
		var item models.BasketItem
		var p models.Product
		if err := rows.Scan(
			&item.ID, &item.BasketID, &item.ProductID, &item.Quantity, &item.Description, &item.CreatedAt, &item.UpdatedAt,
			&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		item.Product = &p
		items = append(items, item)
	}
	return items, rows.Err()
}

// AddItem adds a product to the basket or merges it into an existing line
// item. The stock check, the write, and the total recompute run in one
// transaction with the product row locked so concurrent adds for the same
// product cannot jointly pass the check.
func (r *BasketRepository) AddItem(ctx context.Context, basketID, productID, quantity int, description string) (*models.BasketItem, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var p models.Product
	err = tx.QueryRow(ctx,
		`SELECT id, name, description, price, stock, created_at, updated_at
		 FROM products WHERE id=$1 FOR UPDATE`,
		productID).Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	now := time.Now()
	var item models.BasketItem

	err = tx.QueryRow(ctx,
		`SELECT id, basket_id, product_id, quantity, description, created_at, updated_at
		 FROM basket_items WHERE basket_id=$1 AND product_id=$2 FOR UPDATE`,
		basketID, productID).Scan(&item.ID, &item.BasketID, &item.ProductID, &item.Quantity, &item.Description, &item.CreatedAt, &item.UpdatedAt)

	switch {
	case err == nil:
		if err := checkStock(p.Stock, item.Quantity, quantity); err != nil {
			return nil, err
		}
		err = tx.QueryRow(ctx,
			`UPDATE basket_items SET quantity = quantity + $1, updated_at = $2
			 WHERE id = $3 RETURNING quantity, updated_at`,
			quantity, now, item.ID).Scan(&item.Quantity, &item.UpdatedAt)
		if err != nil {
			return nil, err
		}
	case errors.Is(err, pgx.ErrNoRows):
		if err := checkStock(p.Stock, 0, quantity); err != nil {
			return nil, err
		}
		if description == "" {
			description = p.Description
		}
		item = models.BasketItem{
			BasketID:    basketID,
			ProductID:   productID,
			Quantity:    quantity,
			Description: description,
		}
		err = tx.QueryRow(ctx,
			`INSERT INTO basket_items (basket_id, product_id, quantity, description, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $5) RETURNING id, created_at, updated_at`,
			basketID, productID, quantity, description, now).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := recomputeTotal(ctx, tx, basketID, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	item.Product = &p
	return &item, nil
}

// RemoveItem deletes a basket item after checking the requesting user owns
// the basket, then recomputes the total in the same transaction.
func (r *BasketRepository) RemoveItem(ctx context.Context, userID, itemID int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var basketID, ownerID int
	err = tx.QueryRow(ctx,
		`SELECT bi.basket_id, b.user_id
		 FROM basket_items bi
		 JOIN baskets b ON b.id = bi.basket_id
		 WHERE bi.id = $1 FOR UPDATE`,
		itemID).Scan(&basketID, &ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrItemNotFound
		}
		return err
	}

	if ownerID != userID {
		return ErrNotBasketOwner
	}

	if _, err := tx.Exec(ctx, `DELETE FROM basket_items WHERE id=$1`, itemID); err != nil {
		return err
	}

	if err := recomputeTotal(ctx, tx, basketID, time.Now()); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// recomputeTotal rewrites the basket's derived total from its items. Called
// inside every transaction that touches basket_items; an empty basket goes
// back to 0.
func recomputeTotal(ctx context.Context, tx pgx.Tx, basketID int, now time.Time) error {
	_, err := tx.Exec(ctx,
		`UPDATE baskets
		 SET total_price = COALESCE((
		         SELECT SUM(bi.quantity * p.price)
		         FROM basket_items bi
		         JOIN products p ON p.id = bi.product_id
		         WHERE bi.basket_id = $1
		     ), 0),
		     updated_at = $2
		 WHERE id = $1`,
		basketID, now)
	return err
}

// ExpiringBaskets selects baskets untouched since cutoff that still hold at
// least one item, with the owner loaded for notification.
func (r *BasketRepository) ExpiringBaskets(ctx context.Context, cutoff time.Time) ([]ExpiringBasket, error) {
	rows, err := r.db.Query(ctx,
		`SELECT b.id, b.user_id, u.name, u.email, COUNT(bi.id)
		 FROM baskets b
		 JOIN users u ON u.id = b.user_id
		 JOIN basket_items bi ON bi.basket_id = b.id
		 WHERE b.updated_at <= $1
		 GROUP BY b.id, b.user_id, u.name, u.email
		 ORDER BY b.id`,
		cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	baskets := []ExpiringBasket{}
	for rows.Next() {
		var eb ExpiringBasket
		if err := rows.Scan(&eb.BasketID, &eb.UserID, &eb.UserName, &eb.UserEmail, &eb.ItemCount); err != nil {
			return nil, err
		}
		baskets = append(baskets, eb)
	}
	return baskets, rows.Err()
}

// ExpiredBasketIDs returns the next batch of non-empty baskets untouched
// since cutoff, keyset-paged by id so deleted rows do not shift the scan.
func (r *BasketRepository) ExpiredBasketIDs(ctx context.Context, cutoff time.Time, afterID, limit int) ([]int, error) {
	rows, err := r.db.Query(ctx,
		`SELECT b.id
		 FROM baskets b
		 WHERE b.updated_at <= $1
		   AND b.id > $2
		   AND EXISTS (SELECT 1 FROM basket_items bi WHERE bi.basket_id = b.id)
		 ORDER BY b.id
		 LIMIT $3`,
		cutoff, afterID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeleteBasket removes a basket and its items in one transaction.
func (r *BasketRepository) DeleteBasket(ctx context.Context, basketID int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM basket_items WHERE basket_id=$1`, basketID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM baskets WHERE id=$1`, basketID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
