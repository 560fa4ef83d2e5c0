package classify

import (
	"fmt"
	"regexp"
	"strings"
)

// Normalizer prepares raw text for scoring.
type Normalizer func(string) string

// TableConfig describes a category table.
type TableConfig struct {
	Name       string
	Categories []CategorySpec
	// Fallback wins when no category scores above Policy.LowSignal.
	Fallback string
	// Empty is reported for blank input.
	Empty string
	// NoEvidence replaces an empty evidence list when set.
	NoEvidence  string
	Normalizer  Normalizer
	Adjustments []Adjustment
	Policy      Policy
}

// Table is an ordered, read-only set of categories plus the policy used to
// classify against them. Declaration order breaks score ties.
type Table struct {
	normalize   Normalizer
	index       map[string]int
	name        string
	noEvidence  string
	categories  []Category
	adjustments []Adjustment
	policy      Policy
	fallback    int
	empty       int
}

// NewTable compiles cfg into a Table.
func NewTable(cfg TableConfig) (*Table, error) {
	if len(cfg.Categories) == 0 {
		return nil, fmt.Errorf("table %s has no categories", cfg.Name)
	}
	if err := cfg.Policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid policy for table %s: %w", cfg.Name, err)
	}

	t := &Table{
		name:        cfg.Name,
		noEvidence:  cfg.NoEvidence,
		normalize:   cfg.Normalizer,
		policy:      cfg.Policy,
		index:       make(map[string]int, len(cfg.Categories)),
		categories:  make([]Category, 0, len(cfg.Categories)),
		adjustments: append([]Adjustment(nil), cfg.Adjustments...),
	}
	if t.normalize == nil {
		t.normalize = Normalize
	}

	for _, spec := range cfg.Categories {
		if _, dup := t.index[spec.Name]; dup {
			return nil, fmt.Errorf("table %s declares category %s twice", cfg.Name, spec.Name)
		}
		c, err := NewCategory(spec)
		if err != nil {
			return nil, err
		}
		t.index[c.Name()] = len(t.categories)
		t.categories = append(t.categories, c)
	}

	var ok bool
	if t.fallback, ok = t.index[cfg.Fallback]; !ok {
		return nil, fmt.Errorf("table %s: fallback category %q is not declared", cfg.Name, cfg.Fallback)
	}
	if t.empty, ok = t.index[cfg.Empty]; !ok {
		return nil, fmt.Errorf("table %s: empty-text category %q is not declared", cfg.Name, cfg.Empty)
	}

	return t, nil
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// Policy returns the table's classification policy.
func (t *Table) Policy() Policy { return t.policy }

// Categories returns a copy of the categories in declaration order.
func (t *Table) Categories() []Category {
	return append([]Category(nil), t.categories...)
}

// Labels returns the category names in declaration order.
func (t *Table) Labels() []string {
	labels := make([]string, 0, len(t.categories))
	for _, c := range t.categories {
		labels = append(labels, c.Name())
	}
	return labels
}

// Has reports whether label names a category of the table.
func (t *Table) Has(label string) bool {
	_, ok := t.index[label]
	return ok
}

// Fallback returns the label used when no category has a strong signal.
func (t *Table) Fallback() string { return t.categories[t.fallback].Name() }

// Empty returns the label used for blank input.
func (t *Table) Empty() string { return t.categories[t.empty].Name() }

// Normalize applies the table's normalizer to text.
func (t *Table) Normalize(text string) string { return t.normalize(text) }

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	punctuation   = regexp.MustCompile(`[^\p{L}\p{N}_\s'\-]`)
)

// Normalize lower-cases text and collapses whitespace runs to one space.
func Normalize(text string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(strings.ToLower(text), " "))
}

// NormalizeWords is Normalize with punctuation other than apostrophes and
// hyphens replaced by spaces.
func NormalizeWords(text string) string {
	return Normalize(punctuation.ReplaceAllString(text, " "))
}
