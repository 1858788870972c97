package archive

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aquamarinepk/aqm"

	"github.com/ddalicious/cafepos/internal/order"
)

func newTestManager(sessions SessionRepo, ledger order.LedgerRepo, now time.Time) *Manager {
	m := NewManager(sessions, ledger, aqm.NewNoopLogger())
	m.now = func() time.Time { return now }
	return m
}

func TestManagerCloseSale(t *testing.T) {
	now := time.Date(2026, 3, 14, 18, 30, 0, 0, time.Local)
	todayKey := now.Format(order.DateKeyLayout)

	todayOrder := func(id string) *order.Order {
		o := testOrder(id, "10.00", 1)
		o.Date = todayKey
		return o
	}
	staleOrder := func(id string) *order.Order {
		o := testOrder(id, "5.00", 1)
		o.Date = "2026-03-01"
		return o
	}

	t.Run("newSessionDrainsToday", func(t *testing.T) {
		sessions := NewMockSessionRepo()
		ledger := NewMockLedgerRepo(todayOrder("1"), todayOrder("2"), staleOrder("old"))
		m := newTestManager(sessions, ledger, now)

		session, err := m.CloseSale(context.Background(), CloseSaleInput{Mode: ModeNew, Name: "Evening Close"})
		if err != nil {
			t.Fatalf("CloseSale() error = %v", err)
		}

		if session.Name != "Evening Close" {
			t.Errorf("session name = %q, want Evening Close", session.Name)
		}
		if session.OrderCount != 2 {
			t.Errorf("session OrderCount = %d, want 2", session.OrderCount)
		}
		if session.TotalSales.String() != "20" {
			t.Errorf("session TotalSales = %s, want 20", session.TotalSales)
		}
		if len(sessions.sessions) != 1 {
			t.Fatalf("archive has %d sessions, want 1", len(sessions.sessions))
		}
		// Only today's orders drain; the stale one stays in the ledger.
		if len(ledger.orders) != 1 || ledger.orders[0].ID != "old" {
			t.Errorf("ledger after close = %v, want just the stale order", ledger.orders)
		}
	})

	t.Run("scopeAllDrainsEverything", func(t *testing.T) {
		sessions := NewMockSessionRepo()
		ledger := NewMockLedgerRepo(todayOrder("1"), staleOrder("old"))
		m := newTestManager(sessions, ledger, now)

		session, err := m.CloseSale(context.Background(), CloseSaleInput{Mode: ModeNew, Scope: ScopeAll})
		if err != nil {
			t.Fatalf("CloseSale() error = %v", err)
		}
		if session.OrderCount != 2 {
			t.Errorf("session OrderCount = %d, want 2", session.OrderCount)
		}
		if len(ledger.orders) != 0 {
			t.Errorf("ledger has %d orders after scope=all close, want 0", len(ledger.orders))
		}
	})

	t.Run("emptyModeDefaultsToNew", func(t *testing.T) {
		sessions := NewMockSessionRepo()
		ledger := NewMockLedgerRepo(todayOrder("1"))
		m := newTestManager(sessions, ledger, now)

		if _, err := m.CloseSale(context.Background(), CloseSaleInput{}); err != nil {
			t.Fatalf("CloseSale() error = %v", err)
		}
		if len(sessions.sessions) != 1 {
			t.Errorf("archive has %d sessions, want 1", len(sessions.sessions))
		}
	})

	t.Run("nothingToClose", func(t *testing.T) {
		m := newTestManager(NewMockSessionRepo(), NewMockLedgerRepo(staleOrder("old")), now)

		_, err := m.CloseSale(context.Background(), CloseSaleInput{Mode: ModeNew})
		if !errors.Is(err, ErrNothingToClose) {
			t.Errorf("CloseSale() error = %v, want ErrNothingToClose", err)
		}
	})

	t.Run("mergeIntoExisting", func(t *testing.T) {
		sessions := NewMockSessionRepo()
		existing := NewSaleSession("Morning", todayKey, []*order.Order{todayOrder("1")}, now)
		sessions.sessions = []*SaleSession{existing}
		ledger := NewMockLedgerRepo(todayOrder("2"), todayOrder("3"))
		m := newTestManager(sessions, ledger, now)

		session, err := m.CloseSale(context.Background(), CloseSaleInput{Mode: ModeExisting, SessionID: existing.ID})
		if err != nil {
			t.Fatalf("CloseSale() error = %v", err)
		}

		if session.ID != existing.ID {
			t.Errorf("merged into session %s, want %s", session.ID, existing.ID)
		}
		if session.OrderCount != 3 {
			t.Errorf("merged OrderCount = %d, want 3", session.OrderCount)
		}
		if session.TotalSales.String() != "30" {
			t.Errorf("merged TotalSales = %s, want 30", session.TotalSales)
		}
		if len(ledger.orders) != 0 {
			t.Errorf("ledger has %d orders after merge, want 0", len(ledger.orders))
		}
	})

	t.Run("mergeTargetMissingKeepsLedger", func(t *testing.T) {
		sessions := NewMockSessionRepo()
		ledger := NewMockLedgerRepo(todayOrder("1"))
		m := newTestManager(sessions, ledger, now)

		_, err := m.CloseSale(context.Background(), CloseSaleInput{Mode: ModeExisting, SessionID: "missing"})
		if !errors.Is(err, ErrSessionNotFound) {
			t.Fatalf("CloseSale() error = %v, want ErrSessionNotFound", err)
		}
		if len(ledger.orders) != 1 {
			t.Error("failed merge drained the ledger")
		}
	})

	t.Run("unknownMode", func(t *testing.T) {
		m := newTestManager(NewMockSessionRepo(), NewMockLedgerRepo(todayOrder("1")), now)
		if _, err := m.CloseSale(context.Background(), CloseSaleInput{Mode: CloseMode("weird")}); err == nil {
			t.Error("CloseSale() expected error for unknown mode")
		}
	})
}

func TestManagerDeleteOrderFromSession(t *testing.T) {
	now := time.Date(2026, 3, 14, 18, 30, 0, 0, time.Local)

	t.Run("removesAndRecomputes", func(t *testing.T) {
		sessions := NewMockSessionRepo()
		s := NewSaleSession("", "2026-03-14", []*order.Order{
			testOrder("1", "12.00", 2),
			testOrder("2", "8.00", 1),
		}, now)
		sessions.sessions = []*SaleSession{s}
		m := newTestManager(sessions, NewMockLedgerRepo(), now)

		if err := m.DeleteOrderFromSession(context.Background(), s.ID, "1"); err != nil {
			t.Fatalf("DeleteOrderFromSession() error = %v", err)
		}

		stored, _ := sessions.Get(context.Background(), s.ID)
		if stored.OrderCount != 1 {
			t.Errorf("OrderCount = %d, want 1", stored.OrderCount)
		}
		if stored.TotalSales.String() != "8" {
			t.Errorf("TotalSales = %s, want 8", stored.TotalSales)
		}
	})

	t.Run("missingSessionIsNoop", func(t *testing.T) {
		m := newTestManager(NewMockSessionRepo(), NewMockLedgerRepo(), now)
		if err := m.DeleteOrderFromSession(context.Background(), "missing", "1"); err != nil {
			t.Errorf("DeleteOrderFromSession() error = %v, want nil", err)
		}
	})

	t.Run("missingOrderIsNoop", func(t *testing.T) {
		sessions := NewMockSessionRepo()
		s := NewSaleSession("", "2026-03-14", []*order.Order{testOrder("1", "12.00", 2)}, now)
		sessions.sessions = []*SaleSession{s}
		saveCalled := false
		sessions.SaveFunc = func(ctx context.Context, s *SaleSession) error {
			saveCalled = true
			return nil
		}
		m := newTestManager(sessions, NewMockLedgerRepo(), now)

		if err := m.DeleteOrderFromSession(context.Background(), s.ID, "missing"); err != nil {
			t.Fatalf("DeleteOrderFromSession() error = %v", err)
		}
		if saveCalled {
			t.Error("no-op removal wrote the session")
		}
	})
}

func TestManagerListSessions(t *testing.T) {
	now := time.Date(2026, 3, 14, 18, 30, 0, 0, time.Local)
	sessions := NewMockSessionRepo()

	early := NewSaleSession("Morning Shift", "2026-03-13", []*order.Order{testOrder("100", "10.00", 1)}, now.Add(-24*time.Hour))
	late := NewSaleSession("Evening Shift", "2026-03-14", []*order.Order{testOrder("200", "50.00", 1)}, now)
	sessions.sessions = []*SaleSession{early, late}
	m := newTestManager(sessions, NewMockLedgerRepo(), now)

	t.Run("defaultSortNewestFirst", func(t *testing.T) {
		got, err := m.ListSessions(context.Background(), "", "")
		if err != nil {
			t.Fatalf("ListSessions() error = %v", err)
		}
		if len(got) != 2 || got[0].ID != late.ID {
			t.Errorf("first session = %s, want the newest close", got[0].Name)
		}
	})

	t.Run("sortBySales", func(t *testing.T) {
		got, err := m.ListSessions(context.Background(), "", SortBySales)
		if err != nil {
			t.Fatalf("ListSessions() error = %v", err)
		}
		if got[0].ID != late.ID {
			t.Errorf("first session = %s, want the highest-grossing", got[0].Name)
		}
	})

	t.Run("searchByName", func(t *testing.T) {
		got, _ := m.ListSessions(context.Background(), "morning", "")
		if len(got) != 1 || got[0].ID != early.ID {
			t.Errorf("search by name returned %d sessions, want 1", len(got))
		}
	})

	t.Run("searchByOrderID", func(t *testing.T) {
		got, _ := m.ListSessions(context.Background(), "200", "")
		if len(got) != 1 || got[0].ID != late.ID {
			t.Errorf("search by order ID returned %d sessions, want 1", len(got))
		}
	})

	t.Run("searchByItemName", func(t *testing.T) {
		got, _ := m.ListSessions(context.Background(), "americano", "")
		if len(got) != 2 {
			t.Errorf("search by item name returned %d sessions, want 2", len(got))
		}
	})

	t.Run("searchNoMatch", func(t *testing.T) {
		got, _ := m.ListSessions(context.Background(), "pizza", "")
		if len(got) != 0 {
			t.Errorf("search returned %d sessions, want 0", len(got))
		}
	})
}
