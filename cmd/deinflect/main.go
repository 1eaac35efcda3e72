package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/cognicore/deinflect/internal/source"
	"github.com/cognicore/deinflect/pkg/deinflect"
	"github.com/cognicore/deinflect/pkg/deinflect/kana"
)

type options struct {
	prefixes  bool
	json      bool
	normalize bool
	hiragana  bool
	baseOnly  bool
}

func main() {
	var (
		rulesPath = flag.String("rules", "", "Rules file, YAML or yomichan JSON (default: embedded)")
		dbPath    = flag.String("db", "", "Snapshot store, SQLite file or kv:<dir> (alternative to --rules)")
		snapshot  = flag.String("snapshot", "", "Snapshot ID in --db (default: latest)")
		word      = flag.String("word", "", "One-shot word (non-interactive mode)")
		prefixes  = flag.Bool("prefixes", false, "Also deinflect every prefix of the input")
		asJSON    = flag.Bool("json", false, "Print JSON instead of text")
		normalize = flag.Bool("normalize", false, "Fold half-width kana and full-width ASCII first")
		hiragana  = flag.Bool("hiragana", false, "Convert katakana to hiragana first")
		baseOnly  = flag.Bool("base", false, "Only print candidates reached by at least one rule")
	)
	flag.Parse()

	if *rulesPath != "" && *dbPath != "" {
		log.Fatal("--rules and --db are mutually exclusive")
	}

	ctx := context.Background()

	d, src, err := buildEngine(ctx, *rulesPath, *dbPath, *snapshot)
	if err != nil {
		log.Fatal(err)
	}

	opts := options{
		prefixes:  *prefixes,
		json:      *asJSON,
		normalize: *normalize,
		hiragana:  *hiragana,
		baseOnly:  *baseOnly,
	}

	// One-shot mode
	if *word != "" {
		if err := run(os.Stdout, d, *word, opts); err != nil {
			log.Fatal(err)
		}
		return
	}

	// Interactive mode
	if !opts.json {
		fmt.Printf("deinflect: %d rules from %s\n", d.Catalog().Len(), src)
		fmt.Println("Type a word per line (Ctrl+D to exit):")
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		if !opts.json {
			fmt.Print("> ")
		}
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if err := run(os.Stdout, d, line, opts); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Fatal(err)
	}
}

func buildEngine(ctx context.Context, rulesPath, dbPath, snapshot string) (*deinflect.Deinflector, string, error) {
	d, src, err := source.Open(ctx, source.Options{
		RulesPath: rulesPath,
		StorePath: dbPath,
		Snapshot:  snapshot,
	})
	if err != nil {
		return nil, "", fmt.Errorf("load catalog: %w", err)
	}
	return d, src, nil
}

type wordOutput struct {
	Word       string             `json:"word"`
	Candidates []deinflect.Result `json:"candidates"`
}

func prepare(word string, opts options) string {
	if opts.normalize {
		word = kana.Normalize(word)
	}
	if opts.hiragana {
		word = kana.ToHiragana(word)
	}
	return word
}

func run(w io.Writer, d *deinflect.Deinflector, word string, opts options) error {
	word = prepare(word, opts)

	var sets []*deinflect.Deinflections
	if opts.prefixes {
		var err error
		if sets, err = d.Prefixes(word); err != nil {
			return err
		}
	} else {
		ds, err := d.Deinflect(word)
		if err != nil {
			return err
		}
		sets = []*deinflect.Deinflections{ds}
	}

	if opts.json {
		enc := json.NewEncoder(w)
		for _, ds := range sets {
			out := wordOutput{Word: ds.Source(), Candidates: filter(ds.Results(), opts)}
			if err := enc.Encode(out); err != nil {
				return err
			}
		}
		return nil
	}

	for _, ds := range sets {
		printText(w, ds, opts)
	}
	return nil
}

func filter(results []deinflect.Result, opts options) []deinflect.Result {
	if !opts.baseOnly {
		return results
	}
	out := results[:0:0]
	for _, r := range results {
		if r.Depth > 0 {
			out = append(out, r)
		}
	}
	return out
}

func printText(w io.Writer, ds *deinflect.Deinflections, opts options) {
	results := filter(ds.Results(), opts)
	fmt.Fprintf(w, "%s (%d)\n", ds.Source(), len(results))
	for _, r := range results {
		if r.Depth == 0 {
			fmt.Fprintf(w, "  %s\n", r.Term)
			continue
		}
		fmt.Fprintf(w, "  %s [%s] %s\n", r.Term, strings.Join(r.Categories, " "), strings.Join(r.Derivation, " → "))
	}
}
