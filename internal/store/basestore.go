// Package store persists the shared collections in an embedded bbolt file.
// Each collection lives under one key as a whole JSON array, so every write
// is a read-modify-write of the full collection. There are no partial
// updates; concurrent writers are last-write-wins within one bolt
// transaction.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/aquamarinepk/aqm"
	bolt "go.etcd.io/bbolt"
)

// Collection keys, kept byte-compatible with the original storage layout so
// exported data round-trips.
const (
	keyMenu         = "cafe-menu"
	keyOrders       = "cafe-orders"
	keyArchive      = "cafe-archive"
	keyDisplayOrder = "cafe-menu-display-order"
)

var bucketCollections = []byte("collections")

// BaseStore owns the bolt file handle shared by all repositories.
type BaseStore struct {
	db     *bolt.DB
	logger aqm.Logger
	config *aqm.Config
	path   string
}

// NewBaseStore creates the store. Start must be called before use.
func NewBaseStore(config *aqm.Config, logger aqm.Logger) *BaseStore {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &BaseStore{
		logger: logger,
		config: config,
	}
}

// Start opens the bolt file and creates the collections bucket.
func (s *BaseStore) Start(ctx context.Context) error {
	path := s.path
	if path == "" {
		path = "cafepos.db"
		if s.config != nil {
			path = s.config.GetStringOrDef("db.bolt.path", path)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return fmt.Errorf("cannot open store at %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketCollections)
		return err
	})
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("cannot initialize store: %w", err)
	}

	s.db = db
	s.logger.Infof("Store opened at %s", path)
	return nil
}

// Stop closes the bolt file.
func (s *BaseStore) Stop(ctx context.Context) error {
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return fmt.Errorf("cannot close store: %w", err)
		}
		s.logger.Info("Store closed")
	}
	return nil
}

// Reset deletes every stored collection. Used by the maintenance CLI only.
func (s *BaseStore) Reset(ctx context.Context) error {
	keys := []string{keyMenu, keyOrders, keyArchive, keyDisplayOrder}
	return s.update(func(b *bolt.Bucket) error {
		for _, key := range keys {
			if err := b.Delete([]byte(key)); err != nil {
				return fmt.Errorf("cannot delete collection %s: %w", key, err)
			}
		}
		return nil
	})
}

// view runs fn with read access to the collections bucket.
func (s *BaseStore) view(fn func(b *bolt.Bucket) error) error {
	return s.db.View(func(tx *bolt.Tx) error {
		return fn(tx.Bucket(bucketCollections))
	})
}

// update runs fn with write access to the collections bucket. The whole
// read-modify-write cycle of a mutation happens inside one transaction.
func (s *BaseStore) update(fn func(b *bolt.Bucket) error) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return fn(tx.Bucket(bucketCollections))
	})
}

// readCollection decodes the JSON array stored under key into v, which must
// be a pointer to a slice. A missing key leaves v untouched. A stored value
// that fails to parse degrades to the empty collection with a logged warning:
// the data is unrecoverable and the consuming component must keep working.
func (s *BaseStore) readCollection(b *bolt.Bucket, key string, v interface{}) {
	raw := b.Get([]byte(key))
	if raw == nil {
		return
	}
	if err := json.Unmarshal(raw, v); err != nil {
		s.logger.Error("malformed stored collection, treating as empty", "key", key, "error", err)
		// Unmarshal may have filled a valid prefix before failing; wipe it
		// so callers see the empty collection, not a truncated one.
		elem := reflect.ValueOf(v).Elem()
		elem.Set(reflect.MakeSlice(elem.Type(), 0, 0))
	}
}

// writeCollection encodes v and stores it whole under key.
func (s *BaseStore) writeCollection(b *bolt.Bucket, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cannot encode collection %s: %w", key, err)
	}
	if err := b.Put([]byte(key), raw); err != nil {
		return fmt.Errorf("cannot store collection %s: %w", key, err)
	}
	return nil
}
