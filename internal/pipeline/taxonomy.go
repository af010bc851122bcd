package pipeline

import "strings"

// Taxonomy dimensions. Each dimension is an independent label space.
const (
	DimGroup    = "group"    // Task groups
	DimCategory = "category" // Remember categories
	DimTopic    = "topic"    // Journal topics
)

// Taxonomy is the per-request label accumulator. It is loaded once at
// batch start from storage and appended to as handlers create novel
// labels, so intent k sees labels introduced by intent k-1 in the same
// batch. It is never shared across requests.
type Taxonomy struct {
	labels map[string][]string
}

// NewTaxonomy creates an empty taxonomy snapshot.
func NewTaxonomy() *Taxonomy {
	return &Taxonomy{labels: make(map[string][]string)}
}

// Load seeds a dimension with the labels known to storage, preserving
// their order.
func (t *Taxonomy) Load(dim string, labels []string) {
	t.labels[dim] = append([]string(nil), labels...)
}

// Resolve returns the canonical existing label for candidate under a
// case-insensitive exact match, first match wins. A novel candidate is
// appended to the dimension and returned unchanged. No fuzzy matching:
// this keeps "Groceries" and "groceries" together without ever guessing
// that "Errand" and "Errands" are the same thing.
func (t *Taxonomy) Resolve(dim, candidate string) string {
	if candidate == "" {
		return candidate
	}

	for _, existing := range t.labels[dim] {
		if strings.EqualFold(existing, candidate) {
			return existing
		}
	}

	t.labels[dim] = append(t.labels[dim], candidate)
	return candidate
}
