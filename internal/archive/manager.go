package archive

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aquamarinepk/aqm"

	"github.com/ddalicious/cafepos/internal/order"
)

var (
	// ErrNothingToClose means close-sale found no orders in scope. Nothing
	// is written.
	ErrNothingToClose = errors.New("no orders to close")

	// ErrSessionNotFound means the target session of a merge does not
	// exist. The ledger is left untouched so no orders are lost.
	ErrSessionNotFound = errors.New("sale session not found")
)

// CloseMode selects whether close-sale creates a new session or merges into
// an existing one.
type CloseMode string

const (
	ModeNew      CloseMode = "new"
	ModeExisting CloseMode = "existing"
)

// CloseScope selects which open-ledger orders a close-sale drains.
type CloseScope string

const (
	// ScopeToday drains only orders dated today. Stale orders from other
	// days stay in the ledger instead of being silently archived.
	ScopeToday CloseScope = "today"
	// ScopeAll drains the entire open ledger.
	ScopeAll CloseScope = "all"
)

// CloseSaleInput describes one close-sale operation.
type CloseSaleInput struct {
	Mode      CloseMode
	Scope     CloseScope
	SessionID string
	Name      string
}

// Manager owns the archive: closing the open ledger into sale sessions and
// keeping the sessions' cached aggregates correct.
type Manager struct {
	sessions SessionRepo
	ledger   order.LedgerRepo
	logger   aqm.Logger
	now      func() time.Time
}

// NewManager creates an archive manager.
func NewManager(sessions SessionRepo, ledger order.LedgerRepo, logger aqm.Logger) *Manager {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Manager{
		sessions: sessions,
		ledger:   ledger,
		logger:   logger,
		now:      time.Now,
	}
}

// CloseSale drains the scoped open-ledger orders into a new or existing sale
// session, then removes exactly those orders from the ledger.
func (m *Manager) CloseSale(ctx context.Context, in CloseSaleInput) (*SaleSession, error) {
	if in.Scope == "" {
		in.Scope = ScopeToday
	}

	now := m.now()
	dateKey := now.Format(order.DateKeyLayout)

	var drained []*order.Order
	var err error
	switch in.Scope {
	case ScopeToday:
		drained, err = m.ledger.ListByDate(ctx, dateKey)
	case ScopeAll:
		drained, err = m.ledger.List(ctx)
	default:
		return nil, fmt.Errorf("unknown close scope %q", in.Scope)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read open ledger: %w", err)
	}
	if len(drained) == 0 {
		return nil, ErrNothingToClose
	}

	var session *SaleSession
	switch in.Mode {
	case ModeNew, "":
		session = NewSaleSession(in.Name, dateKey, drained, now)
		if err := m.sessions.Create(ctx, session); err != nil {
			return nil, fmt.Errorf("cannot create sale session: %w", err)
		}
	case ModeExisting:
		session, err = m.sessions.Get(ctx, in.SessionID)
		if err != nil {
			return nil, fmt.Errorf("cannot load sale session: %w", err)
		}
		if session == nil {
			return nil, ErrSessionNotFound
		}
		session.Merge(drained, now)
		if err := m.sessions.Save(ctx, session); err != nil {
			return nil, fmt.Errorf("cannot update sale session: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown close mode %q", in.Mode)
	}

	// The session write above and this drain are separate store
	// transactions. A crash between the two leaves the drained orders in
	// both collections; they stay visible and deletable from either side.
	ids := make([]string, len(drained))
	for i, o := range drained {
		ids[i] = o.ID
	}
	if err := m.ledger.Remove(ctx, ids); err != nil {
		return nil, fmt.Errorf("cannot drain open ledger: %w", err)
	}

	m.logger.Info("closed sale", "session_id", session.ID, "orders", len(drained), "total", session.TotalSales.StringFixed(2))
	return session, nil
}

// DeleteSession removes a session entirely. Deleting an absent session is a
// no-op.
func (m *Manager) DeleteSession(ctx context.Context, id string) error {
	return m.sessions.Delete(ctx, id)
}

// DeleteOrderFromSession removes one order from a session and decrements the
// cached aggregates by exactly that order's contribution. A missing session
// or order is a no-op.
func (m *Manager) DeleteOrderFromSession(ctx context.Context, sessionID, orderID string) error {
	session, err := m.sessions.Get(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("cannot load sale session: %w", err)
	}
	if session == nil {
		return nil
	}

	if !session.RemoveOrder(orderID, m.now()) {
		return nil
	}

	if err := m.sessions.Save(ctx, session); err != nil {
		return fmt.Errorf("cannot update sale session: %w", err)
	}
	return nil
}

// SortBy selects the ordering of listed sessions.
type SortBy string

const (
	SortByDate  SortBy = "date"
	SortBySales SortBy = "sales"
)

// ListSessions returns archived sessions, optionally filtered by a search
// term matched against session name and date, order IDs and item names, and
// sorted by close time (newest first) or by total sales (highest first).
func (m *Manager) ListSessions(ctx context.Context, query string, sortBy SortBy) ([]*SaleSession, error) {
	sessions, err := m.sessions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot list sale sessions: %w", err)
	}

	if q := strings.ToLower(strings.TrimSpace(query)); q != "" {
		matched := make([]*SaleSession, 0, len(sessions))
		for _, s := range sessions {
			if sessionMatches(s, q) {
				matched = append(matched, s)
			}
		}
		sessions = matched
	}

	switch sortBy {
	case SortBySales:
		sort.SliceStable(sessions, func(i, j int) bool {
			return sessions[i].TotalSales.GreaterThan(sessions[j].TotalSales)
		})
	default:
		sort.SliceStable(sessions, func(i, j int) bool {
			return closedAt(sessions[i]).After(closedAt(sessions[j]))
		})
	}

	return sessions, nil
}

func sessionMatches(s *SaleSession, q string) bool {
	if strings.Contains(strings.ToLower(s.Name), q) || strings.Contains(strings.ToLower(s.Date), q) {
		return true
	}
	for _, o := range s.Orders {
		if strings.Contains(strings.ToLower(o.ID), q) {
			return true
		}
		for _, item := range o.Items {
			if strings.Contains(strings.ToLower(item.MenuItem.Name), q) {
				return true
			}
		}
	}
	return false
}

func closedAt(s *SaleSession) time.Time {
	t, err := order.ParseTimestamp(s.ClosedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}
