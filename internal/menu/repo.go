package menu

import (
	"context"
	"errors"
)

// ErrMenuItemNotFound means an update targeted an item that is not in the
// catalog.
var ErrMenuItemNotFound = errors.New("menu item not found")

// MenuItemRepo defines the repository interface for the menu catalog.
// Implementations return (nil, nil) from Get when the item does not exist and
// ErrMenuItemNotFound from Save when the target is absent.
type MenuItemRepo interface {
	Create(ctx context.Context, item *MenuItem) error
	Get(ctx context.Context, id string) (*MenuItem, error)
	List(ctx context.Context) ([]*MenuItem, error)
	ListByCategory(ctx context.Context, category Category) ([]*MenuItem, error)
	Save(ctx context.Context, item *MenuItem) error
	Delete(ctx context.Context, id string) error
}

// DisplayOrderRepo persists the manual sort order for the ordering screen as
// a flat list of menu item IDs.
type DisplayOrderRepo interface {
	Get(ctx context.Context) ([]string, error)
	Set(ctx context.Context, ids []string) error
}
