package order

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ddalicious/cafepos/internal/menu"
)

func init() {
	// Monetary amounts go over the wire as plain JSON numbers, not quoted
	// strings, to stay compatible with the persisted collection format.
	decimal.MarshalJSONWithoutQuotes = true
}

// DateKeyLayout is the calendar-day key used to group orders into days.
const DateKeyLayout = "2006-01-02"

// timestampLayouts are the formats accepted when reading order timestamps.
// Imported legacy records carry locale-formatted strings, so parsing is
// tolerant; values that match nothing are preserved as-is and skipped by
// time-based aggregation.
var timestampLayouts = []string{
	time.RFC3339,
	"02/01/2006, 15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	DateKeyLayout,
}

// SelectedAddOn is an add-on definition snapshot plus the quantity chosen for
// one order line. Quantity is always one for add-ons that do not allow a
// multiplier.
type SelectedAddOn struct {
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	AllowQuantity bool            `json:"allowQuantity,omitempty"`
	Quantity      int64           `json:"quantity"`
}

// UnmarshalJSON normalizes legacy shapes at the boundary: bare strings become
// zero-priced selections and a missing quantity defaults to one.
func (s *SelectedAddOn) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*s = SelectedAddOn{Name: name, Price: decimal.Zero, Quantity: 1}
		return nil
	}

	type alias SelectedAddOn
	var out alias
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	if out.Quantity < 1 {
		out.Quantity = 1
	}
	*s = SelectedAddOn(out)
	return nil
}

// Normalize clamps the selection to the rules of its definition: quantity is
// at least one, and exactly one when the definition disallows multipliers.
func (s *SelectedAddOn) Normalize() {
	if s.Quantity < 1 || !s.AllowQuantity {
		s.Quantity = 1
	}
}

// Total is the priced contribution of this selection per unit of the line.
func (s SelectedAddOn) Total() decimal.Decimal {
	return s.Price.Mul(decimal.NewFromInt(s.Quantity))
}

// OrderItem is one priced line of an order: a copy of the chosen menu item,
// a quantity, and the selected add-ons. Subtotal is always recomputed from
// quantity, price and add-ons so it can never drift.
type OrderItem struct {
	MenuItem   menu.MenuItem   `json:"menuItem"`
	Quantity   int64           `json:"quantity"`
	AddOns     []SelectedAddOn `json:"addOns"`
	CustomText string          `json:"customText,omitempty"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

// UnitPrice derives the per-unit price from the line's own menu item copy
// and add-on selections. It is never cached.
func (i *OrderItem) UnitPrice() decimal.Decimal {
	price := i.MenuItem.Price
	for _, a := range i.AddOns {
		price = price.Add(a.Total())
	}
	return price
}

// Reprice sets Subtotal to unit price times quantity.
func (i *OrderItem) Reprice() {
	i.Subtotal = i.UnitPrice().Mul(decimal.NewFromInt(i.Quantity))
}

// Order is a finalized, immutable purchase written to the open ledger at
// checkout. Timestamp stays a string because imported legacy orders carry
// foreign formats that must round-trip untouched.
type Order struct {
	ID        string          `json:"id"`
	Items     []OrderItem     `json:"items"`
	Total     decimal.Decimal `json:"total"`
	Timestamp string          `json:"timestamp"`
	Date      string          `json:"date"`
}

// NewOrder builds an order from priced lines with a time-derived ID.
func NewOrder(items []OrderItem, total decimal.Decimal, now time.Time) *Order {
	return &Order{
		ID:        strconv.FormatInt(now.UnixMilli(), 10),
		Items:     items,
		Total:     total,
		Timestamp: now.Format(time.RFC3339),
		Date:      now.Format(DateKeyLayout),
	}
}

// Time parses the order's creation instant, trying the accepted layouts and
// falling back to the calendar-day key.
func (o *Order) Time() (time.Time, error) {
	t, err := ParseTimestamp(o.Timestamp)
	if err == nil {
		return t, nil
	}
	return time.ParseInLocation(DateKeyLayout, o.Date, time.Local)
}

// ItemCount is the number of units across all lines.
func (o *Order) ItemCount() int64 {
	var n int64
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

// GetID returns the order ID.
func (o *Order) GetID() string {
	return o.ID
}

// ResourceType returns the resource type for URL generation.
func (o *Order) ResourceType() string {
	return "order"
}

// ParseTimestamp parses a stored timestamp in any accepted layout.
func ParseTimestamp(ts string) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.ParseInLocation(layout, ts, time.Local)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
