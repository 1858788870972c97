package store

import (
	"context"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/ddalicious/cafepos/internal/archive"
)

// SessionRepo is the bolt implementation of archive.SessionRepo.
type SessionRepo struct {
	store *BaseStore
}

// NewSessionRepo creates a new SessionRepo backed by the shared store.
func NewSessionRepo(store *BaseStore) *SessionRepo {
	return &SessionRepo{store: store}
}

// Create appends one sale session to the archive.
func (r *SessionRepo) Create(ctx context.Context, s *archive.SaleSession) error {
	return r.CreateMany(ctx, []*archive.SaleSession{s})
}

// CreateMany appends sessions to the archive in a single write.
func (r *SessionRepo) CreateMany(ctx context.Context, sessions []*archive.SaleSession) error {
	if len(sessions) == 0 {
		return nil
	}
	return r.store.update(func(b *bolt.Bucket) error {
		stored := r.load(b)
		stored = append(stored, sessions...)
		return r.store.writeCollection(b, keyArchive, stored)
	})
}

// Get returns the session with the given ID, or (nil, nil) when absent.
func (r *SessionRepo) Get(ctx context.Context, id string) (*archive.SaleSession, error) {
	var found *archive.SaleSession
	err := r.store.view(func(b *bolt.Bucket) error {
		for _, s := range r.load(b) {
			if s.ID == id {
				found = s
				return nil
			}
		}
		return nil
	})
	return found, err
}

// List returns all archived sessions in stored order.
func (r *SessionRepo) List(ctx context.Context) ([]*archive.SaleSession, error) {
	var sessions []*archive.SaleSession
	err := r.store.view(func(b *bolt.Bucket) error {
		sessions = r.load(b)
		return nil
	})
	return sessions, err
}

// Save replaces the stored session with the same ID.
func (r *SessionRepo) Save(ctx context.Context, s *archive.SaleSession) error {
	return r.store.update(func(b *bolt.Bucket) error {
		sessions := r.load(b)
		for i, stored := range sessions {
			if stored.ID == s.ID {
				sessions[i] = s
				return r.store.writeCollection(b, keyArchive, sessions)
			}
		}
		return fmt.Errorf("%w: %s", archive.ErrSessionNotFound, s.ID)
	})
}

// Delete removes the session with the given ID. Deleting an absent session is
// a no-op.
func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	return r.store.update(func(b *bolt.Bucket) error {
		sessions := r.load(b)
		kept := make([]*archive.SaleSession, 0, len(sessions))
		for _, s := range sessions {
			if s.ID != id {
				kept = append(kept, s)
			}
		}
		return r.store.writeCollection(b, keyArchive, kept)
	})
}

func (r *SessionRepo) load(b *bolt.Bucket) []*archive.SaleSession {
	sessions := []*archive.SaleSession{}
	r.store.readCollection(b, keyArchive, &sessions)
	return sessions
}
