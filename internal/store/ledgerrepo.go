package store

import (
	"context"

	bolt "go.etcd.io/bbolt"

	"github.com/ddalicious/cafepos/internal/order"
)

// LedgerRepo is the bolt implementation of order.LedgerRepo.
type LedgerRepo struct {
	store *BaseStore
}

// NewLedgerRepo creates a new LedgerRepo backed by the shared store.
func NewLedgerRepo(store *BaseStore) *LedgerRepo {
	return &LedgerRepo{store: store}
}

// Append adds a finalized order to the end of the open ledger.
func (r *LedgerRepo) Append(ctx context.Context, o *order.Order) error {
	return r.store.update(func(b *bolt.Bucket) error {
		orders := r.load(b)
		orders = append(orders, o)
		return r.store.writeCollection(b, keyOrders, orders)
	})
}

// List returns all open orders in append order.
func (r *LedgerRepo) List(ctx context.Context) ([]*order.Order, error) {
	var orders []*order.Order
	err := r.store.view(func(b *bolt.Bucket) error {
		orders = r.load(b)
		return nil
	})
	return orders, err
}

// ListByDate returns the open orders whose date key matches.
func (r *LedgerRepo) ListByDate(ctx context.Context, dateKey string) ([]*order.Order, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	orders := make([]*order.Order, 0, len(all))
	for _, o := range all {
		if o.Date == dateKey {
			orders = append(orders, o)
		}
	}
	return orders, nil
}

// Delete removes one order from the ledger. Absent IDs are a no-op.
func (r *LedgerRepo) Delete(ctx context.Context, id string) error {
	return r.Remove(ctx, []string{id})
}

// Remove drops the given order IDs in a single write, leaving every other
// order in place.
func (r *LedgerRepo) Remove(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	return r.store.update(func(b *bolt.Bucket) error {
		orders := r.load(b)
		kept := make([]*order.Order, 0, len(orders))
		for _, o := range orders {
			if !drop[o.ID] {
				kept = append(kept, o)
			}
		}
		return r.store.writeCollection(b, keyOrders, kept)
	})
}

func (r *LedgerRepo) load(b *bolt.Bucket) []*order.Order {
	orders := []*order.Order{}
	r.store.readCollection(b, keyOrders, &orders)
	return orders
}
