package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/cognicore/deinflect/internal/source"
	"github.com/cognicore/deinflect/pkg/deinflect/catalog"
	"github.com/cognicore/deinflect/pkg/deinflect/config"
	"github.com/cognicore/deinflect/pkg/deinflect/data"
	"github.com/cognicore/deinflect/pkg/deinflect/store"
)

type options struct {
	dbPath    string
	rulesPath string
	name      string
	list      bool
	export    string
	del       string
}

func main() {
	var opts options
	flag.StringVar(&opts.dbPath, "db", "", "Snapshot store: SQLite file, or kv:<dir> for pogreb (required)")
	flag.StringVar(&opts.rulesPath, "rules", "", "Rules file to import, or \"embedded\"")
	flag.StringVar(&opts.name, "name", "", "Snapshot name (default: rules file name)")
	flag.BoolVar(&opts.list, "list", false, "List stored snapshots")
	flag.StringVar(&opts.export, "export", "", "Write snapshot ID as YAML to stdout")
	flag.StringVar(&opts.del, "delete", "", "Delete snapshot ID")
	flag.Parse()

	if err := run(context.Background(), opts, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

// run executes one command against the store and closes it before returning.
func run(ctx context.Context, opts options, w io.Writer) error {
	if opts.dbPath == "" {
		return errors.New("--db required")
	}
	if opts.rulesPath == "" && opts.export == "" && opts.del == "" && !opts.list {
		return errors.New("one of --rules, --export, --delete or --list required")
	}

	st, err := source.OpenStore(ctx, opts.dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	switch {
	case opts.rulesPath != "":
		id, n, err := importRules(ctx, st, opts.rulesPath, opts.name)
		if err != nil {
			return fmt.Errorf("import: %w", err)
		}
		log.Printf("stored %d rules as snapshot %s", n, id)
	case opts.export != "":
		if err := exportSnapshot(ctx, w, st, opts.export); err != nil {
			return fmt.Errorf("export: %w", err)
		}
	case opts.del != "":
		if err := st.DeleteSnapshot(ctx, opts.del); err != nil {
			return fmt.Errorf("delete: %w", err)
		}
		log.Printf("deleted snapshot %s", opts.del)
	default:
		if err := listSnapshots(ctx, w, st); err != nil {
			return fmt.Errorf("list: %w", err)
		}
	}
	return nil
}

// importRules validates the rules by building a catalog before storing them.
func importRules(ctx context.Context, st store.Store, path, name string) (string, int, error) {
	var (
		entries []catalog.Entry
		err     error
	)
	if path == "embedded" {
		entries, err = config.ParseRules(data.Rules)
	} else {
		entries, err = config.LoadRules(path)
	}
	if err != nil {
		return "", 0, err
	}
	if _, err := catalog.Build(entries); err != nil {
		return "", 0, err
	}

	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	id, err := st.SaveSnapshot(ctx, name, entries)
	if err != nil {
		return "", 0, err
	}
	return id, len(entries), nil
}

func exportSnapshot(ctx context.Context, w io.Writer, st store.Store, id string) error {
	snap, err := st.GetSnapshot(ctx, id)
	if err != nil {
		return err
	}
	out, err := config.MarshalRules(snap.Entries)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

func listSnapshots(ctx context.Context, w io.Writer, st store.Store) error {
	infos, err := st.ListSnapshots(ctx)
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Fprintln(w, "No snapshots.")
		return nil
	}
	for _, info := range infos {
		fmt.Fprintf(w, "%s  %-24s %5d rules  %s\n", info.ID, info.Name, info.Rules, info.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}
