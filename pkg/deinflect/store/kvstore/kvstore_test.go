package kvstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/cognicore/deinflect/pkg/deinflect/catalog"
	"github.com/cognicore/deinflect/pkg/deinflect/internalerr"
)

func TestKVStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "snapshots")

	st, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if _, ok, err := st.LatestSnapshot(ctx); err != nil || ok {
		t.Fatalf("expected empty store, got ok=%v err=%v", ok, err)
	}

	entries := []catalog.Entry{
		{MatchSuffix: "ない", ReplaceSuffix: "る", Result: catalog.V1, Reason: "negative"},
		{MatchSuffix: "て", ReplaceSuffix: "る", Required: catalog.Iru, Result: catalog.V1, Reason: "-te"},
	}
	first, err := st.SaveSnapshot(ctx, "first", entries)
	if err != nil {
		t.Fatal(err)
	}
	second, err := st.SaveSnapshot(ctx, "second", entries[:1])
	if err != nil {
		t.Fatal(err)
	}

	snap, err := st.GetSnapshot(ctx, first)
	if err != nil {
		t.Fatalf("GetSnapshot: %v", err)
	}
	if snap.Name != "first" || len(snap.Entries) != 2 || snap.Entries[1] != entries[1] {
		t.Errorf("unexpected snapshot %+v", snap)
	}

	latest, ok, err := st.LatestSnapshot(ctx)
	if err != nil || !ok || latest.ID != second {
		t.Fatalf("LatestSnapshot: id=%s ok=%v err=%v", latest.ID, ok, err)
	}

	list, err := st.ListSnapshots(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].ID != second || list[1].Rules != 2 {
		t.Errorf("unexpected list %+v", list)
	}

	if err := st.DeleteSnapshot(ctx, second); err != nil {
		t.Fatalf("DeleteSnapshot: %v", err)
	}
	if err := st.DeleteSnapshot(ctx, second); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := st.GetSnapshot(ctx, second); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatal(err)
	}

	// Data survives a reopen.
	st, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	if _, err := st.GetSnapshot(ctx, first); err != nil {
		t.Errorf("GetSnapshot after reopen: %v", err)
	}
}
