// Package kvstore keeps catalog snapshots in a pogreb key-value database,
// one JSON-encoded snapshot per key.
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/akrylysov/pogreb"

	"github.com/cognicore/deinflect/pkg/deinflect/catalog"
	"github.com/cognicore/deinflect/pkg/deinflect/internalerr"
	"github.com/cognicore/deinflect/pkg/deinflect/store"
)

type kvStore struct {
	db *pogreb.DB
}

// Open opens or creates a pogreb database in the directory at path.
func Open(path string) (store.Store, error) {
	db, err := pogreb.Open(path, &pogreb.Options{
		BackgroundSyncInterval:       0,
		BackgroundCompactionInterval: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}
	return &kvStore{db: db}, nil
}

func (s *kvStore) Close() error {
	return s.db.Close()
}

type record struct {
	Name      string          `json:"name"`
	CreatedAt time.Time       `json:"created_at"`
	Entries   []catalog.Entry `json:"entries"`
}

func (s *kvStore) SaveSnapshot(ctx context.Context, name string, entries []catalog.Entry) (string, error) {
	now := time.Now().UTC()
	id := store.NewID(now)
	val, err := json.Marshal(record{Name: name, CreatedAt: now, Entries: entries})
	if err != nil {
		return "", err
	}
	if err := s.db.Put([]byte(id), val); err != nil {
		return "", err
	}
	return id, nil
}

func (s *kvStore) GetSnapshot(ctx context.Context, id string) (store.Snapshot, error) {
	val, err := s.db.Get([]byte(id))
	if err != nil {
		return store.Snapshot{}, err
	}
	if val == nil {
		return store.Snapshot{}, fmt.Errorf("snapshot %s: %w", id, internalerr.ErrNotFound)
	}
	return decode(id, val)
}

func decode(id string, val []byte) (store.Snapshot, error) {
	var rec record
	if err := json.Unmarshal(val, &rec); err != nil {
		return store.Snapshot{}, fmt.Errorf("snapshot %s: %w", id, err)
	}
	return store.Snapshot{ID: id, Name: rec.Name, CreatedAt: rec.CreatedAt, Entries: rec.Entries}, nil
}

// each calls fn for every stored snapshot in no particular order.
func (s *kvStore) each(fn func(store.Snapshot) error) error {
	it := s.db.Items()
	for {
		key, val, err := it.Next()
		if errors.Is(err, pogreb.ErrIterationDone) {
			return nil
		}
		if err != nil {
			return err
		}
		snap, err := decode(string(key), val)
		if err != nil {
			return err
		}
		if err := fn(snap); err != nil {
			return err
		}
	}
}

func (s *kvStore) LatestSnapshot(ctx context.Context) (store.Snapshot, bool, error) {
	var latest store.Snapshot
	err := s.each(func(snap store.Snapshot) error {
		if snap.ID > latest.ID {
			latest = snap
		}
		return nil
	})
	if err != nil {
		return store.Snapshot{}, false, err
	}
	return latest, latest.ID != "", nil
}

func (s *kvStore) ListSnapshots(ctx context.Context) ([]store.SnapshotInfo, error) {
	var out []store.SnapshotInfo
	err := s.each(func(snap store.Snapshot) error {
		out = append(out, snap.Info())
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *kvStore) DeleteSnapshot(ctx context.Context, id string) error {
	ok, err := s.db.Has([]byte(id))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("snapshot %s: %w", id, internalerr.ErrNotFound)
	}
	return s.db.Delete([]byte(id))
}
