package models

import (
	"sort"
	"strings"
)

// Vocabulary is the controlled set of material-category labels. The remote
// store persists materials as a comma-joined string, so labels must not
// contain commas.
var Vocabulary = []string{
	"Papel",
	"Plástico",
	"Vidro",
	"Metal",
	"Eletrônicos",
	"Óleo de Cozinha",
	"Pilhas e Baterias",
	"Orgânico",
}

// MaterialSet is the in-memory representation of the materials accepted by
// a collection point. The comma-joined wire form is a serialization
// boundary, not part of the data model.
type MaterialSet map[string]struct{}

// NewMaterialSet builds a set from the given labels, dropping empties.
func NewMaterialSet(labels ...string) MaterialSet {
	set := make(MaterialSet, len(labels))
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l != "" {
			set[l] = struct{}{}
		}
	}
	return set
}

// SplitMaterials decodes the comma-joined wire string into a set.
// Whitespace around labels is tolerated; empty segments are dropped, so a
// malformed or empty string decodes to an empty set and never fails.
func SplitMaterials(s string) MaterialSet {
	return NewMaterialSet(strings.Split(s, ",")...)
}

// Join encodes the set to its wire form: labels sorted and comma-joined.
// Sorting keeps the encoding deterministic; the decoded result is
// order-independent either way.
func (m MaterialSet) Join() string {
	return strings.Join(m.Slice(), ",")
}

// Has reports whether the set contains the given label.
func (m MaterialSet) Has(label string) bool {
	_, ok := m[label]
	return ok
}

// Add inserts a label into the set.
func (m MaterialSet) Add(label string) {
	label = strings.TrimSpace(label)
	if label != "" {
		m[label] = struct{}{}
	}
}

// Slice returns the labels sorted alphabetically.
func (m MaterialSet) Slice() []string {
	labels := make([]string, 0, len(m))
	for l := range m {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

// Equal reports whether two sets contain the same labels.
func (m MaterialSet) Equal(other MaterialSet) bool {
	if len(m) != len(other) {
		return false
	}
	for l := range m {
		if !other.Has(l) {
			return false
		}
	}
	return true
}

// IsKnownMaterial reports whether the label belongs to the controlled
// vocabulary. Unknown labels are preserved on read and rejected on write
// by the caller that validates user input.
func IsKnownMaterial(label string) bool {
	for _, l := range Vocabulary {
		if l == label {
			return true
		}
	}
	return false
}
