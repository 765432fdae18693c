package services

import (
	"basket-shop/repositories"
	"context"
	"log"
	"time"
)

const (
	notifyAfter = 23 * time.Hour
	clearAfter  = 24 * time.Hour
	clearBatch  = 100
)

// CleanupStore is the slice of the basket repository the sweep needs.
type CleanupStore interface {
	ExpiringBaskets(ctx context.Context, cutoff time.Time) ([]repositories.ExpiringBasket, error)
	ExpiredBasketIDs(ctx context.Context, cutoff time.Time, afterID, limit int) ([]int, error)
	DeleteBasket(ctx context.Context, basketID int) error
}

// Notifier delivers the "basket about to expire" message. Delivery is
// best-effort; the sweep never blocks on or retries a failed send.
type Notifier interface {
	BasketExpiring(toEmail, name string, itemCount int) error
}

// BasketCleanupService clears baskets left untouched for 24 hours and,
// when asked, warns owners of baskets approaching that threshold. One call
// to Run is one sweep; scheduling and mutual exclusion between runs belong
// to the external timer.
type BasketCleanupService struct {
	store    CleanupStore
	notifier Notifier
	now      func() time.Time
}

func NewBasketCleanupService(store CleanupStore, notifier Notifier) *BasketCleanupService {
	return &BasketCleanupService{
		store:    store,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *BasketCleanupService) Run(ctx context.Context, notify bool) error {
	log.Println("Starting to process inactive baskets...")

	if notify {
		log.Println("Sending notifications to users...")
		s.notifyExpiringBaskets(ctx)
	}

	return s.clearExpiredBaskets(ctx)
}

// notifyExpiringBaskets warns every owner of a non-empty basket inactive for
// 23 hours or more. Repeated runs within the same stale window re-notify;
// there is no delivery tracking.
func (s *BasketCleanupService) notifyExpiringBaskets(ctx context.Context) {
	if s.notifier == nil {
		log.Println("No notifier configured, skipping notifications")
		return
	}

	cutoff := s.now().Add(-notifyAfter)
	baskets, err := s.store.ExpiringBaskets(ctx, cutoff)
	if err != nil {
		log.Println("Failed to list expiring baskets:", err)
		return
	}

	log.Printf("Expiring baskets found: %d", len(baskets))

	for _, basket := range baskets {
		if err := s.notifier.BasketExpiring(basket.UserEmail, basket.UserName, basket.ItemCount); err != nil {
			log.Printf("Failed to send expiration notification for basket #%d: %v", basket.BasketID, err)
			continue
		}
		log.Printf("Sent expiration notification for basket #%d", basket.BasketID)
	}
}

// clearExpiredBaskets deletes every non-empty basket inactive for 24 hours
// or more, in batches of 100. A failure on one basket is logged and the scan
// moves on; only a failure to list batches aborts the run.
func (s *BasketCleanupService) clearExpiredBaskets(ctx context.Context) error {
	cutoff := s.now().Add(-clearAfter)

	afterID := 0
	for {
		ids, err := s.store.ExpiredBasketIDs(ctx, cutoff, afterID, clearBatch)
		if err != nil {
			log.Println("Failed to list expired baskets:", err)
			return err
		}
		if len(ids) == 0 {
			break
		}

		for _, id := range ids {
			if err := s.store.DeleteBasket(ctx, id); err != nil {
				log.Printf("Failed to clear basket #%d: %v", id, err)
				continue
			}
			log.Printf("Cleared basket #%d", id)
		}

		afterID = ids[len(ids)-1]
	}

	log.Println("Basket cleanup completed successfully")
	return nil
}
