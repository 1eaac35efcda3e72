package memstore

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/cognicore/deinflect/pkg/deinflect/catalog"
	"github.com/cognicore/deinflect/pkg/deinflect/internalerr"
	"github.com/cognicore/deinflect/pkg/deinflect/store"
)

// Store is an in-memory implementation of store.Store.
type Store struct {
	mu        sync.RWMutex
	snapshots map[string]store.Snapshot
	now       func() time.Time
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		snapshots: make(map[string]store.Snapshot),
		now:       time.Now,
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveSnapshot copies entries into a new snapshot.
func (s *Store) SaveSnapshot(ctx context.Context, name string, entries []catalog.Entry) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	id := store.NewID(now)
	s.snapshots[id] = store.Snapshot{
		ID:        id,
		Name:      name,
		CreatedAt: now,
		Entries:   slices.Clone(entries),
	}
	return id, nil
}

// GetSnapshot returns a snapshot by ID.
func (s *Store) GetSnapshot(ctx context.Context, id string) (store.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snapshots[id]
	if !ok {
		return store.Snapshot{}, fmt.Errorf("snapshot %s: %w", id, internalerr.ErrNotFound)
	}
	return copySnapshot(snap), nil
}

// LatestSnapshot returns the most recently saved snapshot.
func (s *Store) LatestSnapshot(ctx context.Context) (store.Snapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest string
	for id := range s.snapshots {
		if id > latest {
			latest = id
		}
	}
	if latest == "" {
		return store.Snapshot{}, false, nil
	}
	return copySnapshot(s.snapshots[latest]), true, nil
}

// ListSnapshots returns headers newest first.
func (s *Store) ListSnapshots(ctx context.Context) ([]store.SnapshotInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.SnapshotInfo, 0, len(s.snapshots))
	for _, snap := range s.snapshots {
		out = append(out, snap.Info())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// DeleteSnapshot removes a snapshot.
func (s *Store) DeleteSnapshot(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.snapshots[id]; !ok {
		return fmt.Errorf("snapshot %s: %w", id, internalerr.ErrNotFound)
	}
	delete(s.snapshots, id)
	return nil
}

func copySnapshot(s store.Snapshot) store.Snapshot {
	s.Entries = slices.Clone(s.Entries)
	return s
}
