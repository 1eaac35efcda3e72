package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cognicore/deinflect/internal/source"
	"github.com/cognicore/deinflect/pkg/deinflect/config"
	"github.com/cognicore/deinflect/pkg/deinflect/internalerr"
	"github.com/cognicore/deinflect/pkg/deinflect/store/memstore"
)

func TestImportExportList(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()

	path := filepath.Join(t.TempDir(), "mini.yaml")
	content := `"-te":
  - {kanaIn: て, kanaOut: る, rulesIn: [iru], rulesOut: [v1]}
past:
  - {kanaIn: た, kanaOut: る, rulesIn: [], rulesOut: [v1]}
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	id, n, err := importRules(ctx, st, path, "")
	if err != nil {
		t.Fatalf("importRules: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 rules, got %d", n)
	}

	var list bytes.Buffer
	if err := listSnapshots(ctx, &list, st); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(list.String(), id) || !strings.Contains(list.String(), "mini") {
		t.Errorf("unexpected listing: %q", list.String())
	}

	var out bytes.Buffer
	if err := exportSnapshot(ctx, &out, st, id); err != nil {
		t.Fatalf("exportSnapshot: %v", err)
	}
	back, err := config.ParseRules(out.Bytes())
	if err != nil {
		t.Fatalf("exported YAML does not parse: %v\n%s", err, out.String())
	}
	if len(back) != 2 || back[0].Reason != "-te" {
		t.Errorf("unexpected round trip: %+v", back)
	}
}

func TestImportEmbedded(t *testing.T) {
	st := memstore.New()
	_, n, err := importRules(context.Background(), st, "embedded", "default")
	if err != nil {
		t.Fatalf("importRules: %v", err)
	}
	if n == 0 {
		t.Error("expected embedded rules")
	}
}

func TestImportRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()

	path := filepath.Join(t.TempDir(), "bad.yaml")
	content := "past:\n  - {kanaIn: る, kanaOut: る, rulesIn: [v1], rulesOut: [v1]}\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := importRules(ctx, st, path, ""); !errors.Is(err, internalerr.ErrInvalidCatalog) {
		t.Errorf("expected ErrInvalidCatalog, got %v", err)
	}
	infos, _ := st.ListSnapshots(ctx)
	if len(infos) != 0 {
		t.Error("invalid catalog must not be stored")
	}
}

func TestListEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := listSnapshots(context.Background(), &buf, memstore.New()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "No snapshots") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestRunClosesStoreOnError(t *testing.T) {
	ctx := context.Background()
	db := source.KVPrefix + filepath.Join(t.TempDir(), "snapshots")

	if err := run(ctx, options{dbPath: db, rulesPath: "embedded", name: "default"}, io.Discard); err != nil {
		t.Fatalf("import: %v", err)
	}

	var list bytes.Buffer
	if err := run(ctx, options{dbPath: db, list: true}, &list); err != nil {
		t.Fatalf("list: %v", err)
	}
	id, _, _ := strings.Cut(list.String(), " ")
	if id == "" || !strings.Contains(list.String(), "default") {
		t.Fatalf("unexpected listing %q", list.String())
	}

	err := run(ctx, options{dbPath: db, del: "missing"}, io.Discard)
	if !errors.Is(err, internalerr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// The failed delete must have released the store.
	var out bytes.Buffer
	if err := run(ctx, options{dbPath: db, export: id}, &out); err != nil {
		t.Fatalf("export after failed delete: %v", err)
	}
	if out.Len() == 0 {
		t.Error("expected exported rules")
	}
}

func TestRunRequiresCommand(t *testing.T) {
	if err := run(context.Background(), options{}, io.Discard); err == nil {
		t.Error("expected error without --db")
	}
	db := filepath.Join(t.TempDir(), "snapshots.db")
	if err := run(context.Background(), options{dbPath: db}, io.Discard); err == nil {
		t.Error("expected error without a command")
	}
}
