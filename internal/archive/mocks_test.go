package archive

import (
	"context"

	"github.com/ddalicious/cafepos/internal/order"
)

// MockSessionRepo is a test mock for SessionRepo
type MockSessionRepo struct {
	sessions   []*SaleSession
	CreateFunc func(ctx context.Context, s *SaleSession) error
	GetFunc    func(ctx context.Context, id string) (*SaleSession, error)
	SaveFunc   func(ctx context.Context, s *SaleSession) error
}

func NewMockSessionRepo() *MockSessionRepo {
	return &MockSessionRepo{sessions: []*SaleSession{}}
}

func (m *MockSessionRepo) Create(ctx context.Context, s *SaleSession) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, s)
	}
	m.sessions = append(m.sessions, s)
	return nil
}

func (m *MockSessionRepo) CreateMany(ctx context.Context, sessions []*SaleSession) error {
	for _, s := range sessions {
		if err := m.Create(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (m *MockSessionRepo) Get(ctx context.Context, id string) (*SaleSession, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	for _, s := range m.sessions {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

func (m *MockSessionRepo) List(ctx context.Context) ([]*SaleSession, error) {
	return m.sessions, nil
}

func (m *MockSessionRepo) Save(ctx context.Context, s *SaleSession) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, s)
	}
	for i, stored := range m.sessions {
		if stored.ID == s.ID {
			m.sessions[i] = s
			return nil
		}
	}
	return ErrSessionNotFound
}

func (m *MockSessionRepo) Delete(ctx context.Context, id string) error {
	kept := make([]*SaleSession, 0, len(m.sessions))
	for _, s := range m.sessions {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	m.sessions = kept
	return nil
}

// MockLedgerRepo is a test mock for order.LedgerRepo
type MockLedgerRepo struct {
	orders     []*order.Order
	RemoveFunc func(ctx context.Context, ids []string) error
}

func NewMockLedgerRepo(orders ...*order.Order) *MockLedgerRepo {
	return &MockLedgerRepo{orders: orders}
}

func (m *MockLedgerRepo) Append(ctx context.Context, o *order.Order) error {
	m.orders = append(m.orders, o)
	return nil
}

func (m *MockLedgerRepo) List(ctx context.Context) ([]*order.Order, error) {
	return m.orders, nil
}

func (m *MockLedgerRepo) ListByDate(ctx context.Context, dateKey string) ([]*order.Order, error) {
	filtered := make([]*order.Order, 0, len(m.orders))
	for _, o := range m.orders {
		if o.Date == dateKey {
			filtered = append(filtered, o)
		}
	}
	return filtered, nil
}

func (m *MockLedgerRepo) Delete(ctx context.Context, id string) error {
	return m.Remove(ctx, []string{id})
}

func (m *MockLedgerRepo) Remove(ctx context.Context, ids []string) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, ids)
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := make([]*order.Order, 0, len(m.orders))
	for _, o := range m.orders {
		if !drop[o.ID] {
			kept = append(kept, o)
		}
	}
	m.orders = kept
	return nil
}
