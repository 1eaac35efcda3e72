package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/deinflect/pkg/deinflect/catalog"
	"github.com/cognicore/deinflect/pkg/deinflect/data"
	"github.com/cognicore/deinflect/pkg/deinflect/internalerr"
)

// ruleRecord is one rule in a rules file. Field names follow yomichan's
// deinflect.json so that file can be loaded as is.
type ruleRecord struct {
	KanaIn   string   `yaml:"kanaIn"`
	KanaOut  string   `yaml:"kanaOut"`
	RulesIn  []string `yaml:"rulesIn"`
	RulesOut []string `yaml:"rulesOut"`
}

// ParseRules reads a rules document: a mapping from reason to a list of
// rules. YAML and JSON are both accepted. Entries come back in document
// order.
func ParseRules(data []byte) ([]catalog.Entry, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidCatalog, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("%w: empty rules document", internalerr.ErrInvalidCatalog)
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: line %d: expected a mapping of reasons", internalerr.ErrInvalidCatalog, root.Line)
	}

	var entries []catalog.Entry
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		reason := key.Value
		if val.Kind != yaml.SequenceNode {
			return nil, fmt.Errorf("%w: line %d: reason %q must hold a list of rules", internalerr.ErrInvalidCatalog, val.Line, reason)
		}
		for _, item := range val.Content {
			var rec ruleRecord
			if err := item.Decode(&rec); err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", internalerr.ErrInvalidCatalog, item.Line, err)
			}
			e, err := rec.entry(reason)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", internalerr.ErrInvalidCatalog, item.Line, err)
			}
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (r ruleRecord) entry(reason string) (catalog.Entry, error) {
	required, err := catalog.ParseCategories(r.RulesIn)
	if err != nil {
		return catalog.Entry{}, err
	}
	result, err := catalog.ParseCategories(r.RulesOut)
	if err != nil {
		return catalog.Entry{}, err
	}
	return catalog.Entry{
		MatchSuffix:   r.KanaIn,
		ReplaceSuffix: r.KanaOut,
		Required:      required,
		Result:        result,
		Reason:        reason,
	}, nil
}

// LoadRules reads a rules file from disk.
func LoadRules(path string) ([]catalog.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseRules(data)
}

// MarshalRules writes entries in the format ParseRules reads. Entries that
// share a reason are grouped under its first appearance.
func MarshalRules(entries []catalog.Entry) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	lists := make(map[string]*yaml.Node)
	for _, e := range entries {
		seq, ok := lists[e.Reason]
		if !ok {
			seq = &yaml.Node{Kind: yaml.SequenceNode}
			lists[e.Reason] = seq
			root.Content = append(root.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Reason}, seq)
		}
		item := &yaml.Node{}
		rec := ruleRecord{
			KanaIn:   e.MatchSuffix,
			KanaOut:  e.ReplaceSuffix,
			RulesIn:  e.Required.Names(),
			RulesOut: e.Result.Names(),
		}
		if err := item.Encode(rec); err != nil {
			return nil, err
		}
		item.Style = yaml.FlowStyle
		seq.Content = append(seq.Content, item)
	}
	return yaml.Marshal(root)
}

// DefaultCatalog builds the embedded rule catalog.
func DefaultCatalog() (*catalog.Catalog, error) {
	entries, err := ParseRules(data.Rules)
	if err != nil {
		return nil, fmt.Errorf("parse embedded rules: %w", err)
	}
	return catalog.Build(entries)
}
