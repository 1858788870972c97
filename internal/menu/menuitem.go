package menu

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category classifies a menu item as a drink or food offering.
type Category string

const (
	CategoryDrink Category = "drink"
	CategoryFood  Category = "food"
)

// Valid reports whether the category is one of the known values.
func (c Category) Valid() bool {
	return c == CategoryDrink || c == CategoryFood
}

// AddOn is an optional priced modifier attachable to a menu item at order
// time. When AllowQuantity is set, a customer may pick a quantity multiplier
// for it on an order line; otherwise the quantity is always one.
type AddOn struct {
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	AllowQuantity bool            `json:"allowQuantity,omitempty"`
}

// UnmarshalJSON accepts both the current object shape and the legacy shape
// where an add-on was stored as a bare name string. Legacy names normalize
// to a zero-priced add-on so callers never branch on shape.
func (a *AddOn) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		a.Name = name
		a.Price = decimal.Zero
		a.AllowQuantity = false
		return nil
	}

	type alias AddOn
	var out alias
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*a = AddOn(out)
	return nil
}

// MenuItem represents a purchasable catalog entry. Orders hold a copy of the
// item, not a reference, so deleting a menu item never rewrites past orders.
type MenuItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category Category        `json:"category"`
	AddOns   []AddOn         `json:"addOns"`
}

// EnsureID generates a new ID if one is not set.
func (m *MenuItem) EnsureID() {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
}

// GetID returns the menu item ID.
func (m *MenuItem) GetID() string {
	return m.ID
}

// ResourceType returns the resource type for URL generation.
func (m *MenuItem) ResourceType() string {
	return "menu/item"
}

// FindAddOn returns the add-on definition with the given name.
func (m *MenuItem) FindAddOn(name string) (AddOn, bool) {
	for _, a := range m.AddOns {
		if a.Name == name {
			return a, true
		}
	}
	return AddOn{}, false
}

// ApplyDisplayOrder reorders items according to a persisted list of item IDs.
// IDs that match no current item are ignored; items missing from the list are
// appended in their natural order.
func ApplyDisplayOrder(items []*MenuItem, ids []string) []*MenuItem {
	if len(ids) == 0 {
		return items
	}

	byID := make(map[string]*MenuItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	ordered := make([]*MenuItem, 0, len(items))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if item, ok := byID[id]; ok && !seen[id] {
			ordered = append(ordered, item)
			seen[id] = true
		}
	}
	for _, item := range items {
		if !seen[item.ID] {
			ordered = append(ordered, item)
		}
	}
	return ordered
}
