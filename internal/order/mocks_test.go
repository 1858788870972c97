package order

import (
	"context"

	"github.com/ddalicious/cafepos/internal/menu"
)

// MockLedgerRepo is a test mock for LedgerRepo
type MockLedgerRepo struct {
	orders     []*Order
	AppendFunc func(ctx context.Context, o *Order) error
	ListFunc   func(ctx context.Context) ([]*Order, error)
	RemoveFunc func(ctx context.Context, ids []string) error
}

func NewMockLedgerRepo() *MockLedgerRepo {
	return &MockLedgerRepo{orders: []*Order{}}
}

func (m *MockLedgerRepo) Append(ctx context.Context, o *Order) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, o)
	}
	m.orders = append(m.orders, o)
	return nil
}

func (m *MockLedgerRepo) List(ctx context.Context) ([]*Order, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return m.orders, nil
}

func (m *MockLedgerRepo) ListByDate(ctx context.Context, dateKey string) ([]*Order, error) {
	all, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]*Order, 0, len(all))
	for _, o := range all {
		if o.Date == dateKey {
			filtered = append(filtered, o)
		}
	}
	return filtered, nil
}

func (m *MockLedgerRepo) Delete(ctx context.Context, id string) error {
	return m.Remove(ctx, []string{id})
}

func (m *MockLedgerRepo) Remove(ctx context.Context, ids []string) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, ids)
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := make([]*Order, 0, len(m.orders))
	for _, o := range m.orders {
		if !drop[o.ID] {
			kept = append(kept, o)
		}
	}
	m.orders = kept
	return nil
}

// MockMenuRepo is a test mock for menu.MenuItemRepo
type MockMenuRepo struct {
	items   []*menu.MenuItem
	GetFunc func(ctx context.Context, id string) (*menu.MenuItem, error)
}

func NewMockMenuRepo(items ...*menu.MenuItem) *MockMenuRepo {
	return &MockMenuRepo{items: items}
}

func (m *MockMenuRepo) Create(ctx context.Context, item *menu.MenuItem) error {
	m.items = append(m.items, item)
	return nil
}

func (m *MockMenuRepo) Get(ctx context.Context, id string) (*menu.MenuItem, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	for _, item := range m.items {
		if item.ID == id {
			return item, nil
		}
	}
	return nil, nil
}

func (m *MockMenuRepo) List(ctx context.Context) ([]*menu.MenuItem, error) {
	return m.items, nil
}

func (m *MockMenuRepo) ListByCategory(ctx context.Context, category menu.Category) ([]*menu.MenuItem, error) {
	filtered := make([]*menu.MenuItem, 0, len(m.items))
	for _, item := range m.items {
		if item.Category == category {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}

func (m *MockMenuRepo) Save(ctx context.Context, item *menu.MenuItem) error {
	for i, stored := range m.items {
		if stored.ID == item.ID {
			m.items[i] = item
			return nil
		}
	}
	return menu.ErrMenuItemNotFound
}

func (m *MockMenuRepo) Delete(ctx context.Context, id string) error {
	kept := make([]*menu.MenuItem, 0, len(m.items))
	for _, item := range m.items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	m.items = kept
	return nil
}
