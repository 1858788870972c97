package store

import (
	"context"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/ddalicious/cafepos/internal/menu"
)

// MenuRepo is the bolt implementation of menu.MenuItemRepo and
// menu.DisplayOrderRepo.
type MenuRepo struct {
	store *BaseStore
}

// NewMenuRepo creates a new MenuRepo backed by the shared store.
func NewMenuRepo(store *BaseStore) *MenuRepo {
	return &MenuRepo{store: store}
}

// Create appends a new menu item to the catalog.
func (r *MenuRepo) Create(ctx context.Context, item *menu.MenuItem) error {
	return r.store.update(func(b *bolt.Bucket) error {
		items := r.load(b)
		items = append(items, item)
		return r.store.writeCollection(b, keyMenu, items)
	})
}

// Get returns the item with the given ID, or (nil, nil) when absent.
func (r *MenuRepo) Get(ctx context.Context, id string) (*menu.MenuItem, error) {
	var found *menu.MenuItem
	err := r.store.view(func(b *bolt.Bucket) error {
		for _, item := range r.load(b) {
			if item.ID == id {
				found = item
				return nil
			}
		}
		return nil
	})
	return found, err
}

// List returns the whole catalog in stored order.
func (r *MenuRepo) List(ctx context.Context) ([]*menu.MenuItem, error) {
	var items []*menu.MenuItem
	err := r.store.view(func(b *bolt.Bucket) error {
		items = r.load(b)
		return nil
	})
	return items, err
}

// ListByCategory returns the catalog filtered to one category.
func (r *MenuRepo) ListByCategory(ctx context.Context, category menu.Category) ([]*menu.MenuItem, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]*menu.MenuItem, 0, len(all))
	for _, item := range all {
		if item.Category == category {
			items = append(items, item)
		}
	}
	return items, nil
}

// Save replaces the stored item with the same ID.
func (r *MenuRepo) Save(ctx context.Context, item *menu.MenuItem) error {
	return r.store.update(func(b *bolt.Bucket) error {
		items := r.load(b)
		for i, stored := range items {
			if stored.ID == item.ID {
				items[i] = item
				return r.store.writeCollection(b, keyMenu, items)
			}
		}
		return fmt.Errorf("%w: %s", menu.ErrMenuItemNotFound, item.ID)
	})
}

// Delete removes the item with the given ID. Deleting an absent item is a
// no-op.
func (r *MenuRepo) Delete(ctx context.Context, id string) error {
	return r.store.update(func(b *bolt.Bucket) error {
		items := r.load(b)
		kept := make([]*menu.MenuItem, 0, len(items))
		for _, item := range items {
			if item.ID != id {
				kept = append(kept, item)
			}
		}
		return r.store.writeCollection(b, keyMenu, kept)
	})
}

// GetDisplayOrder returns the stored ordering-screen ID list.
func (r *MenuRepo) GetDisplayOrder(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.store.view(func(b *bolt.Bucket) error {
		ids = []string{}
		r.store.readCollection(b, keyDisplayOrder, &ids)
		return nil
	})
	return ids, err
}

// SetDisplayOrder replaces the stored ordering-screen ID list.
func (r *MenuRepo) SetDisplayOrder(ctx context.Context, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	return r.store.update(func(b *bolt.Bucket) error {
		return r.store.writeCollection(b, keyDisplayOrder, ids)
	})
}

func (r *MenuRepo) load(b *bolt.Bucket) []*menu.MenuItem {
	items := []*menu.MenuItem{}
	r.store.readCollection(b, keyMenu, &items)
	return items
}

// displayOrderAdapter narrows MenuRepo to the menu.DisplayOrderRepo
// interface, whose method names clash with the catalog methods.
type displayOrderAdapter struct {
	repo *MenuRepo
}

// DisplayOrder returns the repo's display-order view.
func (r *MenuRepo) DisplayOrder() menu.DisplayOrderRepo {
	return displayOrderAdapter{repo: r}
}

func (a displayOrderAdapter) Get(ctx context.Context) ([]string, error) {
	return a.repo.GetDisplayOrder(ctx)
}

func (a displayOrderAdapter) Set(ctx context.Context, ids []string) error {
	return a.repo.SetDisplayOrder(ctx, ids)
}
