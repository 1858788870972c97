package archive

import (
	"context"
)

// SessionRepo is the repository for archived sale sessions. Get returns
// (nil, nil) when the session does not exist.
type SessionRepo interface {
	Create(ctx context.Context, s *SaleSession) error
	CreateMany(ctx context.Context, sessions []*SaleSession) error
	Get(ctx context.Context, id string) (*SaleSession, error)
	List(ctx context.Context) ([]*SaleSession, error)
	Save(ctx context.Context, s *SaleSession) error
	Delete(ctx context.Context, id string) error
}
