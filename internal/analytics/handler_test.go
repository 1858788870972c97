package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/go-chi/chi/v5"

	"github.com/ddalicious/cafepos/internal/archive"
	"github.com/ddalicious/cafepos/internal/menu"
	"github.com/ddalicious/cafepos/internal/order"
)

type stubLedger struct {
	orders []*order.Order
}

func (s *stubLedger) Append(ctx context.Context, o *order.Order) error { return nil }
func (s *stubLedger) List(ctx context.Context) ([]*order.Order, error) {
	return s.orders, nil
}
func (s *stubLedger) ListByDate(ctx context.Context, dateKey string) ([]*order.Order, error) {
	return nil, nil
}
func (s *stubLedger) Delete(ctx context.Context, id string) error    { return nil }
func (s *stubLedger) Remove(ctx context.Context, ids []string) error { return nil }

type stubSessions struct {
	sessions []*archive.SaleSession
}

func (s *stubSessions) Create(ctx context.Context, sess *archive.SaleSession) error { return nil }
func (s *stubSessions) CreateMany(ctx context.Context, sessions []*archive.SaleSession) error {
	return nil
}
func (s *stubSessions) Get(ctx context.Context, id string) (*archive.SaleSession, error) {
	return nil, nil
}
func (s *stubSessions) List(ctx context.Context) ([]*archive.SaleSession, error) {
	return s.sessions, nil
}
func (s *stubSessions) Save(ctx context.Context, sess *archive.SaleSession) error { return nil }
func (s *stubSessions) Delete(ctx context.Context, id string) error               { return nil }

func newTestRouter(ledger order.LedgerRepo, sessions archive.SessionRepo) *chi.Mux {
	h := NewHandler(ledger, sessions, aqm.NewConfig(), aqm.NewNoopLogger())
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func TestHandlerGetReport(t *testing.T) {
	open := orderAt(testNow.Add(-1*time.Hour), "9.00", line("Spanish Latte", menu.CategoryDrink, 2, "9.00"))
	archived := orderAt(testNow.Add(-2*time.Hour), "5.00", line("Big Cookie", menu.CategoryFood, 2, "5.00"))
	session := &archive.SaleSession{ID: "s1", Orders: []*order.Order{archived}}

	t.Run("combinesLedgerAndArchive", func(t *testing.T) {
		router := newTestRouter(&stubLedger{orders: []*order.Order{open}}, &stubSessions{sessions: []*archive.SaleSession{session}})

		req := httptest.NewRequest(http.MethodGet, "/analytics?range=all", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("GetReport() status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
		}

		var resp struct {
			Data Report `json:"data"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("cannot decode response: %v", err)
		}
		if resp.Data.TotalOrders != 2 {
			t.Errorf("TotalOrders = %d, want open plus archived = 2", resp.Data.TotalOrders)
		}
		if resp.Data.TotalRevenue.String() != "14" {
			t.Errorf("TotalRevenue = %s, want 14", resp.Data.TotalRevenue)
		}
	})

	t.Run("defaultsToAll", func(t *testing.T) {
		router := newTestRouter(&stubLedger{}, &stubSessions{})

		req := httptest.NewRequest(http.MethodGet, "/analytics", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("GetReport() status = %d, want %d", w.Code, http.StatusOK)
		}

		var resp struct {
			Data Report `json:"data"`
		}
		json.Unmarshal(w.Body.Bytes(), &resp)
		if resp.Data.Range != RangeAll {
			t.Errorf("Range = %s, want all", resp.Data.Range)
		}
	})

	t.Run("invalidRange", func(t *testing.T) {
		router := newTestRouter(&stubLedger{}, &stubSessions{})

		req := httptest.NewRequest(http.MethodGet, "/analytics?range=fortnight", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("GetReport() status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}
