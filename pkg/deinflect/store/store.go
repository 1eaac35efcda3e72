// Package store persists versioned snapshots of the rule catalog.
package store

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/deinflect/pkg/deinflect/catalog"
)

// Store is the interface for saving and loading catalog snapshots
type Store interface {
	Close() error

	// SaveSnapshot stores entries under a new ID and returns it.
	SaveSnapshot(ctx context.Context, name string, entries []catalog.Entry) (string, error)
	// GetSnapshot returns internalerr.ErrNotFound when id is unknown.
	GetSnapshot(ctx context.Context, id string) (Snapshot, error)
	LatestSnapshot(ctx context.Context) (Snapshot, bool, error)
	// ListSnapshots returns snapshot headers, newest first.
	ListSnapshots(ctx context.Context) ([]SnapshotInfo, error)
	DeleteSnapshot(ctx context.Context, id string) error
}

// Snapshot is a stored catalog version
type Snapshot struct {
	ID        string
	Name      string
	CreatedAt time.Time
	Entries   []catalog.Entry
}

// SnapshotInfo describes a snapshot without its rules
type SnapshotInfo struct {
	ID        string
	Name      string
	CreatedAt time.Time
	Rules     int
}

// Info returns the header of s.
func (s Snapshot) Info() SnapshotInfo {
	return SnapshotInfo{ID: s.ID, Name: s.Name, CreatedAt: s.CreatedAt, Rules: len(s.Entries)}
}

// BuildCatalog validates the snapshot's entries and indexes them.
func BuildCatalog(s Snapshot) (*catalog.Catalog, error) {
	return catalog.Build(s.Entries)
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewID returns a ULID for t. IDs generated in sequence sort in creation
// order, including within the same millisecond.
func NewID(t time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}
