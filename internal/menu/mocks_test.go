package menu

import (
	"context"
)

// MockMenuItemRepo is a test mock for MenuItemRepo
type MockMenuItemRepo struct {
	items      []*MenuItem
	CreateFunc func(ctx context.Context, item *MenuItem) error
	GetFunc    func(ctx context.Context, id string) (*MenuItem, error)
	ListFunc   func(ctx context.Context) ([]*MenuItem, error)
	SaveFunc   func(ctx context.Context, item *MenuItem) error
	DeleteFunc func(ctx context.Context, id string) error
}

func NewMockMenuItemRepo() *MockMenuItemRepo {
	return &MockMenuItemRepo{items: []*MenuItem{}}
}

func (m *MockMenuItemRepo) Create(ctx context.Context, item *MenuItem) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, item)
	}
	m.items = append(m.items, item)
	return nil
}

func (m *MockMenuItemRepo) Get(ctx context.Context, id string) (*MenuItem, error) {
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

func (m *MockMenuItemRepo) List(ctx context.Context) ([]*MenuItem, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return m.items, nil
}

func (m *MockMenuItemRepo) ListByCategory(ctx context.Context, category Category) ([]*MenuItem, error) {
	all, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]*MenuItem, 0, len(all))
	for _, item := range all {
		if item.Category == category {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}

func (m *MockMenuItemRepo) Save(ctx context.Context, item *MenuItem) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, item)
	}
	for i, stored := range m.items {
		if stored.ID == item.ID {
			m.items[i] = item
			return nil
		}
	}
	return ErrMenuItemNotFound
}

func (m *MockMenuItemRepo) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	kept := make([]*MenuItem, 0, len(m.items))
	for _, item := range m.items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	m.items = kept
	return nil
}

// MockDisplayOrderRepo is a test mock for DisplayOrderRepo
type MockDisplayOrderRepo struct {
	ids     []string
	GetFunc func(ctx context.Context) ([]string, error)
	SetFunc func(ctx context.Context, ids []string) error
}

func NewMockDisplayOrderRepo() *MockDisplayOrderRepo {
	return &MockDisplayOrderRepo{ids: []string{}}
}

func (m *MockDisplayOrderRepo) Get(ctx context.Context) ([]string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx)
	}
	return m.ids, nil
}

func (m *MockDisplayOrderRepo) Set(ctx context.Context, ids []string) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, ids)
	}
	m.ids = ids
	return nil
}
