// Package source picks the rule catalog a binary runs with: a rules file, a
// stored snapshot, or the embedded default.
package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/cognicore/deinflect/pkg/deinflect"
	"github.com/cognicore/deinflect/pkg/deinflect/config"
	"github.com/cognicore/deinflect/pkg/deinflect/internalerr"
	"github.com/cognicore/deinflect/pkg/deinflect/store"
	"github.com/cognicore/deinflect/pkg/deinflect/store/kvstore"
	"github.com/cognicore/deinflect/pkg/deinflect/store/sqlite"
)

// Options selects the catalog. RulesPath and StorePath are exclusive; with
// neither set the embedded catalog is used.
type Options struct {
	RulesPath string
	StorePath string
	// Snapshot is a snapshot ID in StorePath. Empty means the latest.
	Snapshot string
}

// Open builds a Deinflector and returns a short description of where its
// catalog came from.
func Open(ctx context.Context, opts Options) (*deinflect.Deinflector, string, error) {
	if opts.RulesPath != "" && opts.StorePath != "" {
		return nil, "", fmt.Errorf("%w: rules file and store are mutually exclusive", internalerr.ErrInvalidConfig)
	}
	if opts.StorePath == "" {
		loader := config.Loader{RulesPath: opts.RulesPath}
		comp, err := loader.Load()
		if err != nil {
			return nil, "", err
		}
		return deinflect.New(comp.Catalog), comp.Source, nil
	}

	st, err := OpenStore(ctx, opts.StorePath)
	if err != nil {
		return nil, "", fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	snap, err := Snapshot(ctx, st, opts.Snapshot)
	if err != nil {
		return nil, "", err
	}
	cat, err := store.BuildCatalog(snap)
	if err != nil {
		return nil, "", fmt.Errorf("snapshot %s: %w", snap.ID, err)
	}
	return deinflect.New(cat), "snapshot " + snap.ID, nil
}

// KVPrefix marks a store path as a pogreb directory instead of a SQLite file.
const KVPrefix = "kv:"

// OpenStore opens the snapshot store at path. Paths starting with KVPrefix
// open a pogreb database; anything else is a SQLite file.
func OpenStore(ctx context.Context, path string) (store.Store, error) {
	if dir, ok := strings.CutPrefix(path, KVPrefix); ok {
		return kvstore.Open(dir)
	}
	return sqlite.Open(ctx, path)
}

// Snapshot returns the snapshot with the given ID, or the latest when id is
// empty.
func Snapshot(ctx context.Context, st store.Store, id string) (store.Snapshot, error) {
	if id != "" {
		return st.GetSnapshot(ctx, id)
	}
	snap, ok, err := st.LatestSnapshot(ctx)
	if err != nil {
		return store.Snapshot{}, err
	}
	if !ok {
		return store.Snapshot{}, fmt.Errorf("store has no snapshots: %w", internalerr.ErrNotFound)
	}
	return snap, nil
}
