package services

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"travelmap-service/internal/domain"
)

//go:embed aliases.yaml
var defaultAliases []byte

type aliasFile struct {
	Countries map[string][]string `yaml:"countries"`
}

// AliasTable joins reference-map admin names and local country spellings onto
// one canonical key.
type AliasTable struct {
	canonical map[string]string
}

// DefaultAliasTable returns the embedded alias table.
func DefaultAliasTable() *AliasTable {
	t, err := LoadAliasTable(bytes.NewReader(defaultAliases))
	if err != nil {
		panic(fmt.Sprintf("embedded alias table: %v", err))
	}
	return t
}

// LoadAliasTableFile reads an alias table from a YAML file.
func LoadAliasTableFile(path string) (*AliasTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load alias table: open %q: %w", path, err)
	}
	defer f.Close()

	t, err := LoadAliasTable(f)
	if err != nil {
		return nil, fmt.Errorf("load alias table %q: %w", path, err)
	}
	return t, nil
}

// LoadAliasTable parses a YAML alias table. An alias claimed by two canonical
// names is an error.
func LoadAliasTable(r io.Reader) (*AliasTable, error) {
	var file aliasFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parse alias table: %w", err)
	}

	t := &AliasTable{canonical: make(map[string]string)}
	names := make([]string, 0, len(file.Countries))
	for name := range file.Countries {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		key := foldName(name)
		if key == "" {
			return nil, fmt.Errorf("parse alias table: empty canonical name")
		}
		if err := t.add(key, key); err != nil {
			return nil, err
		}
		for _, alias := range file.Countries[name] {
			if err := t.add(foldName(alias), key); err != nil {
				return nil, err
			}
		}
	}
	return t, nil
}

func (t *AliasTable) add(alias, canonical string) error {
	if alias == "" {
		return fmt.Errorf("parse alias table: empty alias for %q", canonical)
	}
	if prev, ok := t.canonical[alias]; ok && prev != canonical {
		return fmt.Errorf("parse alias table: alias %q maps to both %q and %q", alias, prev, canonical)
	}
	t.canonical[alias] = canonical
	return nil
}

// Normalize folds a country name and maps it through the alias table.
func (t *AliasTable) Normalize(name string) string {
	key := foldName(name)
	if t == nil {
		return key
	}
	if c, ok := t.canonical[key]; ok {
		return c
	}
	return key
}

// Len reports the number of known spellings.
func (t *AliasTable) Len() int { return len(t.canonical) }

// foldName lowercases, strips diacritics and punctuation, and collapses whitespace.
func foldName(s string) string {
	// Transformers carry state; build one per call.
	tr := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(tr, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)
	folded = strings.ReplaceAll(folded, "&", " and ")
	folded = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, folded)
	fields := strings.Fields(folded)
	if len(fields) > 1 && fields[0] == "the" {
		fields = fields[1:]
	}
	return strings.Join(fields, " ")
}

// ValidateAliases returns the distinct local country names that match no
// boundary feature after normalization, sorted.
func ValidateAliases(t *AliasTable, features []domain.CountryFeature, locations []domain.Location) []string {
	known := make(map[string]struct{}, len(features))
	for _, f := range features {
		known[t.Normalize(f.Admin)] = struct{}{}
	}

	seen := make(map[string]struct{})
	var unmatched []string
	for _, loc := range locations {
		if loc.Country == "" {
			continue
		}
		if _, ok := seen[loc.Country]; ok {
			continue
		}
		seen[loc.Country] = struct{}{}
		if _, ok := known[t.Normalize(loc.Country)]; !ok {
			unmatched = append(unmatched, loc.Country)
		}
	}
	sort.Strings(unmatched)
	return unmatched
}
