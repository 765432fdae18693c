package services

import (
	"basket-shop/repositories"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCleanupStore struct {
	expiring []repositories.ExpiringBasket
	expired  []int

	expiringCutoff time.Time
	expiredCutoff  time.Time
	batchLimits    []int

	deleted    []int
	deleteErrs map[int]error
	listErr    error
}

func (f *fakeCleanupStore) ExpiringBaskets(_ context.Context, cutoff time.Time) ([]repositories.ExpiringBasket, error) {
	f.expiringCutoff = cutoff
	return f.expiring, nil
}

func (f *fakeCleanupStore) ExpiredBasketIDs(_ context.Context, cutoff time.Time, afterID, limit int) ([]int, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.expiredCutoff = cutoff
	f.batchLimits = append(f.batchLimits, limit)

	batch := []int{}
	for _, id := range f.expired {
		if id > afterID {
			batch = append(batch, id)
		}
		if len(batch) == limit {
			break
		}
	}
	return batch, nil
}

func (f *fakeCleanupStore) DeleteBasket(_ context.Context, basketID int) error {
	if err := f.deleteErrs[basketID]; err != nil {
		return err
	}
	f.deleted = append(f.deleted, basketID)
	return nil
}

type fakeNotifier struct {
	sent    []string
	counts  []int
	sendErr error
}

func (f *fakeNotifier) BasketExpiring(toEmail, name string, itemCount int) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, toEmail)
	f.counts = append(f.counts, itemCount)
	return nil
}

func newTestCleanup(store CleanupStore, notifier Notifier, now time.Time) *BasketCleanupService {
	svc := NewBasketCleanupService(store, notifier)
	svc.now = func() time.Time { return now }
	return svc
}

func TestRunClearsExpiredBaskets(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	store := &fakeCleanupStore{expired: []int{3, 7, 12}}

	err := newTestCleanup(store, nil, now).Run(context.Background(), false)

	require.NoError(t, err)
	assert.Equal(t, []int{3, 7, 12}, store.deleted)
	assert.Equal(t, now.Add(-24*time.Hour), store.expiredCutoff)
}

func TestRunWithoutNotifyFlagSkipsNotifications(t *testing.T) {
	now := time.Now()
	store := &fakeCleanupStore{
		expiring: []repositories.ExpiringBasket{{BasketID: 1, UserEmail: "a@example.com", ItemCount: 2}},
	}
	notifier := &fakeNotifier{}

	err := newTestCleanup(store, notifier, now).Run(context.Background(), false)

	require.NoError(t, err)
	assert.Empty(t, notifier.sent)
}

func TestNotifyPhaseUsesTwentyThreeHourCutoff(t *testing.T) {
	now := time.Date(2026, 3, 1, 23, 0, 0, 0, time.UTC)
	store := &fakeCleanupStore{
		expiring: []repositories.ExpiringBasket{
			{BasketID: 1, UserName: "Alice", UserEmail: "alice@example.com", ItemCount: 3},
			{BasketID: 2, UserName: "Bob", UserEmail: "bob@example.com", ItemCount: 1},
		},
	}
	notifier := &fakeNotifier{}

	err := newTestCleanup(store, notifier, now).Run(context.Background(), true)

	require.NoError(t, err)
	assert.Equal(t, now.Add(-23*time.Hour), store.expiringCutoff)
	assert.Equal(t, []string{"alice@example.com", "bob@example.com"}, notifier.sent)
	assert.Equal(t, []int{3, 1}, notifier.counts)
}

func TestNotifyPhaseDoesNotDeleteBaskets(t *testing.T) {
	now := time.Now()
	store := &fakeCleanupStore{
		expiring: []repositories.ExpiringBasket{{BasketID: 5, UserEmail: "a@example.com", ItemCount: 1}},
	}
	notifier := &fakeNotifier{}

	err := newTestCleanup(store, notifier, now).Run(context.Background(), true)

	require.NoError(t, err)
	assert.Equal(t, []string{"a@example.com"}, notifier.sent)
	assert.Empty(t, store.deleted)
}

func TestNotificationFailureDoesNotAbortRun(t *testing.T) {
	now := time.Now()
	store := &fakeCleanupStore{
		expiring: []repositories.ExpiringBasket{{BasketID: 1, UserEmail: "a@example.com", ItemCount: 1}},
		expired:  []int{9},
	}
	notifier := &fakeNotifier{sendErr: errors.New("smtp down")}

	err := newTestCleanup(store, notifier, now).Run(context.Background(), true)

	require.NoError(t, err)
	assert.Equal(t, []int{9}, store.deleted)
}

func TestNilNotifierSkipsNotifyPhase(t *testing.T) {
	now := time.Now()
	store := &fakeCleanupStore{
		expiring: []repositories.ExpiringBasket{{BasketID: 1, UserEmail: "a@example.com", ItemCount: 1}},
		expired:  []int{4},
	}

	err := newTestCleanup(store, nil, now).Run(context.Background(), true)

	require.NoError(t, err)
	assert.Equal(t, []int{4}, store.deleted)
}

func TestClearPhaseProcessesInBatches(t *testing.T) {
	now := time.Now()
	ids := make([]int, 250)
	for i := range ids {
		ids[i] = i + 1
	}
	store := &fakeCleanupStore{expired: ids}

	err := newTestCleanup(store, nil, now).Run(context.Background(), false)

	require.NoError(t, err)
	assert.Len(t, store.deleted, 250)
	for _, limit := range store.batchLimits {
		assert.Equal(t, 100, limit)
	}
	// 100 + 100 + 50 + empty terminating batch
	assert.Len(t, store.batchLimits, 4)
}

func TestDeleteFailureContinuesWithRemainingBaskets(t *testing.T) {
	now := time.Now()
	store := &fakeCleanupStore{
		expired:    []int{1, 2, 3},
		deleteErrs: map[int]error{2: errors.New("deadlock")},
	}

	err := newTestCleanup(store, nil, now).Run(context.Background(), false)

	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, store.deleted)
}

func TestListFailureFailsTheRun(t *testing.T) {
	store := &fakeCleanupStore{listErr: errors.New("connection refused")}

	err := newTestCleanup(store, nil, time.Now()).Run(context.Background(), false)

	require.Error(t, err)
}
