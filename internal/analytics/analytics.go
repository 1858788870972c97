package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ddalicious/cafepos/internal/menu"
	"github.com/ddalicious/cafepos/internal/order"
)

// Range selects the time window of a report, cut at calendar-day boundaries.
type Range string

const (
	RangeToday      Range = "today"
	RangeLast7Days  Range = "last-7-days"
	RangeLast30Days Range = "last-30-days"
	RangeAll        Range = "all"
)

// Valid reports whether the range is one of the known values.
func (r Range) Valid() bool {
	switch r {
	case RangeToday, RangeLast7Days, RangeLast30Days, RangeAll:
		return true
	}
	return false
}

// topSellerLimit caps the top-selling item list.
const topSellerLimit = 10

// dailyRevenueLimit caps the per-day revenue series to the most recent days.
const dailyRevenueLimit = 30

// ItemSales is the sales aggregate for one item name.
type ItemSales struct {
	Name     string          `json:"name"`
	Category menu.Category   `json:"category"`
	Quantity int64           `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// CategoryRevenue splits revenue between drinks and food.
type CategoryRevenue struct {
	Drink decimal.Decimal `json:"drink"`
	Food  decimal.Decimal `json:"food"`
}

// DayRevenue is the revenue and order count of one calendar day.
type DayRevenue struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int             `json:"orders"`
}

// Report is the full set of derived statistics for one time range. All
// fields are pure folds over the filtered order set.
type Report struct {
	Range             Range           `json:"range"`
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	TotalOrders       int             `json:"totalOrders"`
	TotalItems        int64           `json:"totalItems"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
	TopSellingItems   []ItemSales     `json:"topSellingItems"`
	RevenueByCategory CategoryRevenue `json:"revenueByCategory"`
	OrdersByHour      [24]int         `json:"ordersByHour"`
	PeakHour          string          `json:"peakHour"`
	DailyRevenue      []DayRevenue    `json:"dailyRevenue"`
}

// Compute derives a report from the combined order set (open ledger plus
// flattened archive sessions). It never mutates its input.
func Compute(orders []*order.Order, r Range, now time.Time) *Report {
	filtered := filterByRange(orders, r, now)

	report := &Report{
		Range:             r,
		TotalRevenue:      decimal.Zero,
		TotalOrders:       len(filtered),
		AverageOrderValue: decimal.Zero,
		TopSellingItems:   []ItemSales{},
		RevenueByCategory: CategoryRevenue{Drink: decimal.Zero, Food: decimal.Zero},
		DailyRevenue:      []DayRevenue{},
	}

	type itemGroup struct {
		stats ItemSales
		seen  int
	}
	groups := make(map[string]*itemGroup)
	groupOrder := make([]string, 0)

	days := make(map[string]*DayRevenue)

	for _, o := range filtered {
		report.TotalRevenue = report.TotalRevenue.Add(o.Total)
		report.TotalItems += o.ItemCount()

		for _, item := range o.Items {
			// Items with the same display name merge even across
			// recreated menu item IDs.
			name := item.MenuItem.Name
			g, ok := groups[name]
			if !ok {
				g = &itemGroup{stats: ItemSales{
					Name:     name,
					Category: item.MenuItem.Category,
					Revenue:  decimal.Zero,
				}}
				groups[name] = g
				groupOrder = append(groupOrder, name)
			}
			g.stats.Quantity += item.Quantity
			g.stats.Revenue = g.stats.Revenue.Add(item.Subtotal)

			switch item.MenuItem.Category {
			case menu.CategoryDrink:
				report.RevenueByCategory.Drink = report.RevenueByCategory.Drink.Add(item.Subtotal)
			default:
				report.RevenueByCategory.Food = report.RevenueByCategory.Food.Add(item.Subtotal)
			}
		}

		// The histogram needs a time of day, so only the raw timestamp
		// qualifies. The date-key fallback would dump every order with a
		// broken timestamp into the midnight bucket.
		if t, err := order.ParseTimestamp(o.Timestamp); err == nil {
			report.OrdersByHour[t.Hour()]++
		}

		dayKey := o.Date
		if dayKey == "" {
			if t, err := o.Time(); err == nil {
				dayKey = t.Format(order.DateKeyLayout)
			}
		}
		if dayKey != "" {
			day, ok := days[dayKey]
			if !ok {
				day = &DayRevenue{Date: dayKey, Revenue: decimal.Zero}
				days[dayKey] = day
			}
			day.Revenue = day.Revenue.Add(o.Total)
			day.Orders++
		}
	}

	if report.TotalOrders > 0 {
		report.AverageOrderValue = report.TotalRevenue.DivRound(decimal.NewFromInt(int64(report.TotalOrders)), 2)
	}

	sellers := make([]ItemSales, 0, len(groupOrder))
	for _, name := range groupOrder {
		sellers = append(sellers, groups[name].stats)
	}
	sort.SliceStable(sellers, func(i, j int) bool {
		return sellers[i].Quantity > sellers[j].Quantity
	})
	if len(sellers) > topSellerLimit {
		sellers = sellers[:topSellerLimit]
	}
	report.TopSellingItems = sellers

	report.PeakHour = peakHour(report.OrdersByHour)
	report.DailyRevenue = dailySeries(days)

	return report
}

// filterByRange keeps orders at or after the range cutoff. The comparison
// instant falls back to the order's date key when the timestamp is
// unparseable; orders with neither are kept for the all-time range and
// excluded from bounded ranges, since there is no instant to compare.
func filterByRange(orders []*order.Order, r Range, now time.Time) []*order.Order {
	if r == RangeAll || !r.Valid() {
		return orders
	}

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	cutoff := midnight
	switch r {
	case RangeLast7Days:
		cutoff = midnight.AddDate(0, 0, -6)
	case RangeLast30Days:
		cutoff = midnight.AddDate(0, 0, -29)
	}

	filtered := make([]*order.Order, 0, len(orders))
	for _, o := range orders {
		t, err := o.Time()
		if err != nil {
			continue
		}
		if !t.Before(cutoff) {
			filtered = append(filtered, o)
		}
	}
	return filtered
}

// peakHour returns the busiest hour bucket, lowest hour winning ties, or
// "N/A" when no order carried a usable timestamp.
func peakHour(buckets [24]int) string {
	best := 0
	bestCount := 0
	for hour, count := range buckets {
		if count > bestCount {
			best = hour
			bestCount = count
		}
	}
	if bestCount == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%02d:00", best)
}

// dailySeries sorts the per-day aggregates ascending by date and keeps only
// the most recent entries.
func dailySeries(days map[string]*DayRevenue) []DayRevenue {
	series := make([]DayRevenue, 0, len(days))
	for _, day := range days {
		series = append(series, *day)
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Date < series[j].Date
	})
	if len(series) > dailyRevenueLimit {
		series = series[len(series)-dailyRevenueLimit:]
	}
	return series
}
