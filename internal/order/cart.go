package order

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ddalicious/cafepos/internal/menu"
)

var (
	// ErrInsufficientPayment means the tendered amount does not cover the
	// cart total. The cart and ledger are left unchanged.
	ErrInsufficientPayment = errors.New("insufficient payment")

	// ErrEmptyCart means checkout was attempted with no lines in the cart.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrLineNotFound means a cart line index is out of range.
	ErrLineNotFound = errors.New("cart line not found")
)

// Receipt is the result of a successful checkout.
type Receipt struct {
	Order  *Order          `json:"order"`
	Change decimal.Decimal `json:"change"`
}

// Cart accumulates order lines for the purchase in progress. One cart serves
// the single active operator; the mutex only guards against overlapping HTTP
// requests.
type Cart struct {
	mu    sync.Mutex
	lines []OrderItem
	now   func() time.Time
}

// NewCart creates an empty cart.
func NewCart() *Cart {
	return &Cart{now: time.Now}
}

// AddLine puts one unit of a menu item with the given add-on selections into
// the cart. A line with the same menu item and an identical multiset of
// (add-on name, quantity) pairs is incremented instead of duplicated.
func (c *Cart) AddLine(item menu.MenuItem, addOns []SelectedAddOn, customText string) {
	selected := make([]SelectedAddOn, len(addOns))
	copy(selected, addOns)
	for i := range selected {
		selected[i].Normalize()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		line := &c.lines[i]
		if line.MenuItem.ID == item.ID && line.CustomText == customText && sameSelections(line.AddOns, selected) {
			line.Quantity++
			line.Reprice()
			return
		}
	}

	line := OrderItem{
		MenuItem:   item,
		Quantity:   1,
		AddOns:     selected,
		CustomText: customText,
	}
	line.Reprice()
	c.lines = append(c.lines, line)
}

// ChangeQuantity adjusts a line's quantity by delta. A resulting quantity of
// zero or less removes the line; otherwise the subtotal is recomputed from
// the line's own menu item and add-ons.
func (c *Cart) ChangeQuantity(index int, delta int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.lines) {
		return ErrLineNotFound
	}

	line := &c.lines[index]
	if line.Quantity+delta <= 0 {
		c.lines = append(c.lines[:index], c.lines[index+1:]...)
		return nil
	}

	line.Quantity += delta
	line.Reprice()
	return nil
}

// RemoveLine drops a line unconditionally.
func (c *Cart) RemoveLine(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.lines) {
		return ErrLineNotFound
	}
	c.lines = append(c.lines[:index], c.lines[index+1:]...)
	return nil
}

// Lines returns a copy of the current cart lines.
func (c *Cart) Lines() []OrderItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	lines := make([]OrderItem, len(c.lines))
	copy(lines, c.lines)
	return lines
}

// Total sums all line subtotals. It is a pure function of the cart state.
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total()
}

func (c *Cart) total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.Subtotal)
	}
	return total
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// Checkout finalizes the cart into an Order, appends it to the open ledger,
// and clears the cart. It fails without side effects when the cart is empty
// or the tendered amount is short.
func (c *Cart) Checkout(ctx context.Context, tendered decimal.Decimal, ledger LedgerRepo) (*Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.lines) == 0 {
		return nil, ErrEmptyCart
	}

	total := c.total()
	if tendered.LessThan(total) {
		return nil, ErrInsufficientPayment
	}

	items := make([]OrderItem, len(c.lines))
	copy(items, c.lines)

	o := NewOrder(items, total, c.now())
	if err := ledger.Append(ctx, o); err != nil {
		return nil, err
	}

	c.lines = nil
	return &Receipt{Order: o, Change: tendered.Sub(total)}, nil
}

// sameSelections compares two add-on selections as multisets of
// (name, quantity) pairs.
func sameSelections(a, b []SelectedAddOn) bool {
	if len(a) != len(b) {
		return false
	}

	as := make([]SelectedAddOn, len(a))
	bs := make([]SelectedAddOn, len(b))
	copy(as, a)
	copy(bs, b)

	less := func(sel []SelectedAddOn) func(i, j int) bool {
		return func(i, j int) bool {
			if sel[i].Name != sel[j].Name {
				return sel[i].Name < sel[j].Name
			}
			return sel[i].Quantity < sel[j].Quantity
		}
	}
	sort.Slice(as, less(as))
	sort.Slice(bs, less(bs))

	for i := range as {
		if as[i].Name != bs[i].Name || as[i].Quantity != bs[i].Quantity {
			return false
		}
	}
	return true
}
