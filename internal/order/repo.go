package order

import (
	"context"
)

// LedgerRepo is the open ledger: orders finalized at checkout that have not
// yet been archived into a sale session. Implementations rewrite the whole
// persisted collection on every mutation; there is no partial update.
type LedgerRepo interface {
	Append(ctx context.Context, o *Order) error
	List(ctx context.Context) ([]*Order, error)
	ListByDate(ctx context.Context, dateKey string) ([]*Order, error)
	Delete(ctx context.Context, id string) error
	// Remove drops the given order IDs in one write. Used by close-sale to
	// drain exactly the archived orders and nothing else.
	Remove(ctx context.Context, ids []string) error
}
