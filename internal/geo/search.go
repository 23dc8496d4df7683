package geo

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/lmazzini/ecoponto/internal/models"
)

// normalizer strips diacritics: decompose, drop combining marks, recompose.
var normalizer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases the text and removes diacritics, so "Plástico"
// and "plastico" compare equal.
func Normalize(s string) string {
	out, _, err := transform.String(normalizer, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// MatchPoints returns the points whose name, address, or accepted
// materials contain the query, compared accent- and case-insensitively.
// An empty query matches everything. Input order is preserved.
func MatchPoints(points []models.CollectionPoint, query string) []models.CollectionPoint {
	q := Normalize(strings.TrimSpace(query))
	if q == "" {
		return points
	}

	var out []models.CollectionPoint
	for _, p := range points {
		if matches(p, q) {
			out = append(out, p)
		}
	}
	return out
}

func matches(p models.CollectionPoint, q string) bool {
	if strings.Contains(Normalize(p.Name), q) || strings.Contains(Normalize(p.Address), q) {
		return true
	}
	for _, m := range p.Materials.Slice() {
		if strings.Contains(Normalize(m), q) {
			return true
		}
	}
	return false
}
