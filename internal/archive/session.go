package archive

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ddalicious/cafepos/internal/order"
)

// SaleSession is an archived, closed batch of orders. TotalSales, TotalItems
// and OrderCount are denormalized caches of the orders they contain; every
// mutation goes through recompute so they can never drift from the fold of
// Orders.
type SaleSession struct {
	ID          string          `json:"id"`
	Name        string          `json:"name,omitempty"`
	Date        string          `json:"date"`
	ClosedAt    string          `json:"closedAt"`
	LastUpdated string          `json:"lastUpdated,omitempty"`
	Orders      []*order.Order  `json:"orders"`
	TotalSales  decimal.Decimal `json:"totalSales"`
	TotalItems  int64           `json:"totalItems"`
	OrderCount  int             `json:"orderCount"`
}

// NewSaleSession creates a closed session from a drained set of orders with
// aggregates computed from that set.
func NewSaleSession(name, dateKey string, orders []*order.Order, now time.Time) *SaleSession {
	if name == "" {
		name = "Sale Session " + now.Format("15:04:05")
	}
	s := &SaleSession{
		ID:       uuid.NewString(),
		Name:     name,
		Date:     dateKey,
		ClosedAt: now.Format(time.RFC3339),
		Orders:   orders,
	}
	s.recompute()
	return s
}

// Merge appends more drained orders to the session and refreshes the cached
// aggregates and LastUpdated.
func (s *SaleSession) Merge(orders []*order.Order, now time.Time) {
	s.Orders = append(s.Orders, orders...)
	s.LastUpdated = now.Format(time.RFC3339)
	s.recompute()
}

// RemoveOrder drops one order from the session and refreshes the cached
// aggregates. It reports whether the order was present.
func (s *SaleSession) RemoveOrder(orderID string, now time.Time) bool {
	for i, o := range s.Orders {
		if o.ID == orderID {
			s.Orders = append(s.Orders[:i], s.Orders[i+1:]...)
			s.LastUpdated = now.Format(time.RFC3339)
			s.recompute()
			return true
		}
	}
	return false
}

// recompute is the single mutation path for the cached aggregates: a fold
// over the session's own orders.
func (s *SaleSession) recompute() {
	total := decimal.Zero
	var items int64
	for _, o := range s.Orders {
		total = total.Add(o.Total)
		items += o.ItemCount()
	}
	s.TotalSales = total
	s.TotalItems = items
	s.OrderCount = len(s.Orders)
}

// GetID returns the session ID.
func (s *SaleSession) GetID() string {
	return s.ID
}

// ResourceType returns the resource type for URL generation.
func (s *SaleSession) ResourceType() string {
	return "archive/session"
}
