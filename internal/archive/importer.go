package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ddalicious/cafepos/internal/menu"
	"github.com/ddalicious/cafepos/internal/order"
)

// ErrInvalidImportFormat means the import payload is not well-formed JSON in
// the expected legacy shape. Nothing is written; no partial conversion is
// attempted.
var ErrInvalidImportFormat = errors.New("invalid import format")

// legacy import shape: a date string mapping to that day's order records,
// each record holding a details map of item name to price and quantity.
type legacyOrder struct {
	ID        json.Number           `json:"id"`
	Details   map[string]legacyItem `json:"details"`
	Timestamp string                `json:"timestamp"`
}

type legacyItem struct {
	Price    decimal.Decimal `json:"price"`
	Quantity int64           `json:"quantity"`
}

// dateKeyLayouts are the formats accepted for legacy export date keys.
var dateKeyLayouts = []string{
	order.DateKeyLayout,
	"01/02/2006",
	"2/1/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Mon Jan 2 2006",
	time.RFC3339,
}

// PreviewImport converts a legacy export payload into candidate sale
// sessions without writing anything. Each imported item name is classified
// as drink or food by keyword matching. The whole payload is rejected when
// any date key or record fails to convert.
func (m *Manager) PreviewImport(data []byte) ([]*SaleSession, error) {
	var payload map[string][]legacyOrder
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImportFormat, err)
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: no date entries", ErrInvalidImportFormat)
	}

	dateKeys := make([]string, 0, len(payload))
	for key := range payload {
		dateKeys = append(dateKeys, key)
	}
	sort.Strings(dateKeys)

	now := m.now()
	sessions := make([]*SaleSession, 0, len(dateKeys))
	for _, key := range dateKeys {
		session, err := m.convertDay(key, payload[key], now)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

// ConfirmImport appends previously previewed sessions to the archive. The
// cached aggregates are recomputed server-side before writing.
func (m *Manager) ConfirmImport(ctx context.Context, sessions []*SaleSession) error {
	if len(sessions) == 0 {
		return fmt.Errorf("%w: no sessions to import", ErrInvalidImportFormat)
	}

	for _, s := range sessions {
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		s.recompute()
	}

	if err := m.sessions.CreateMany(ctx, sessions); err != nil {
		return fmt.Errorf("cannot store imported sessions: %w", err)
	}

	m.logger.Info("imported sale sessions", "sessions", len(sessions))
	return nil
}

func (m *Manager) convertDay(dateKey string, records []legacyOrder, now time.Time) (*SaleSession, error) {
	day, err := parseDateKey(dateKey)
	if err != nil {
		return nil, fmt.Errorf("%w: unrecognized date key %q", ErrInvalidImportFormat, dateKey)
	}
	canonicalDate := day.Format(order.DateKeyLayout)

	orders := make([]*order.Order, 0, len(records))
	for i, record := range records {
		if len(record.Details) == 0 {
			return nil, fmt.Errorf("%w: record %d under %q has no details", ErrInvalidImportFormat, i, dateKey)
		}
		orders = append(orders, convertRecord(record, canonicalDate, now))
	}

	session := NewSaleSession(
		fmt.Sprintf("Imported Session - %s", canonicalDate),
		canonicalDate,
		orders,
		now,
	)
	return session, nil
}

func convertRecord(record legacyOrder, dateKey string, now time.Time) *order.Order {
	names := make([]string, 0, len(record.Details))
	for name := range record.Details {
		names = append(names, name)
	}
	sort.Strings(names)

	items := make([]order.OrderItem, 0, len(names))
	total := decimal.Zero
	for _, name := range names {
		detail := record.Details[name]
		cleanName := strings.TrimSpace(name)

		quantity := detail.Quantity
		if quantity < 1 {
			quantity = 1
		}

		item := order.OrderItem{
			MenuItem: menu.MenuItem{
				ID:       uuid.NewString(),
				Name:     cleanName,
				Price:    detail.Price,
				Category: Classify(cleanName),
			},
			Quantity: quantity,
			AddOns:   []order.SelectedAddOn{},
		}
		item.Reprice()

		items = append(items, item)
		total = total.Add(item.Subtotal)
	}

	id := record.ID.String()
	if id == "" {
		id = strconv.FormatInt(now.UnixMilli(), 10)
	}

	timestamp := record.Timestamp
	if timestamp == "" {
		timestamp = now.Format(time.RFC3339)
	}

	return &order.Order{
		ID:        id,
		Items:     items,
		Total:     total,
		Timestamp: timestamp,
		Date:      dateKey,
	}
}

func parseDateKey(key string) (time.Time, error) {
	trimmed := strings.TrimSpace(key)
	var lastErr error
	for _, layout := range dateKeyLayouts {
		t, err := time.ParseInLocation(layout, trimmed, time.Local)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
