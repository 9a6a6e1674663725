package dataset

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FoldLabel reduces a label to its comparison form: diacritics stripped,
// lower-cased, inner whitespace collapsed. "Économie " and "economie" fold
// to the same key.
func FoldLabel(label string) string {
	// transform.Chain keeps state, so build one per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, label)
	if err != nil {
		folded = label
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// vocabulary tracks the distinct values of one column in appearance order,
// keeping the first spelling seen for every folded key.
type vocabulary struct {
	canonical map[string]string
	order     []string
}

func newVocabulary() *vocabulary {
	return &vocabulary{canonical: make(map[string]string)}
}

// add registers label and returns its canonical spelling.
func (v *vocabulary) add(label string) string {
	key := FoldLabel(label)
	if c, ok := v.canonical[key]; ok {
		return c
	}
	v.canonical[key] = label
	v.order = append(v.order, label)
	return label
}

func (v *vocabulary) lookup(label string) (string, bool) {
	c, ok := v.canonical[FoldLabel(label)]
	return c, ok
}
