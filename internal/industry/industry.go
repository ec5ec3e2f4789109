// Package industry holds the fixed vocabulary of reference industries and the
// RI_* indicator columns derived from it.
package industry

import (
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/antzucaro/matchr"
)

// FuzzyThreshold is the minimum Jaro-Winkler similarity for a label to be
// considered a spelling variant of a vocabulary entry.
const FuzzyThreshold = 0.95

// Default is the compiled-in list of the 22 industries the partner directory
// uses for references.
var Default = MustVocabulary(
	"Agriculture",
	"Construction & Renovation",
	"ECO liable to deduct TCS u/s 52",
	"ECO liable to pay GST u/s 9(5)",
	"Education",
	"Entertainment / Media",
	"Finance / Legal / Insurance",
	"Food / Hospitality / Tourism / Beverage",
	"Government",
	"HR / Administrative / Consulting",
	"Health / Social Welfare / Pharmaceutical",
	"Households",
	"IT / Communication / Marketing",
	"Manufacturing / Maintenance",
	"Mining & Quarrying",
	"NGO",
	"Other Services",
	"Real Estate",
	"Science & Technology",
	"Transportation/Logistics",
	"Utilities / Energy / Water supply",
	"Wholesale / Retail",
)

var (
	nonAlnum         = regexp.MustCompile(`[^A-Za-z0-9]+`)
	repeatUnderscore = regexp.MustCompile(`_+`)
	whitespace       = regexp.MustCompile(`\s+`)
	slashSpacing     = regexp.MustCompile(`\s*/\s*`)
	countedLabel     = regexp.MustCompile(`(\d{1,6})\s+([^\d|]+)`)
)

// ColumnName returns the indicator column name of an industry label,
// ex. "Wholesale / Retail" -> "RI_Wholesale_Retail".
func ColumnName(label string) string {
	lab := strings.TrimSpace(label)
	lab = whitespace.ReplaceAllString(lab, " ")
	lab = nonAlnum.ReplaceAllString(lab, "_")
	lab = repeatUnderscore.ReplaceAllString(lab, "_")
	lab = strings.Trim(lab, "_")
	return "RI_" + lab
}

func normalize(label string) string {
	label = strings.ToLower(strings.TrimSpace(label))
	label = whitespace.ReplaceAllString(label, " ")
	label = slashSpacing.ReplaceAllString(label, "/")
	return label
}

// Count is the number of references a partner lists for one industry.
type Count struct {
	Industry string
	Count    int
}

// Format renders counts as "Label N; Label N".
func Format(counts []Count) string {
	parts := make([]string, len(counts))
	for i, c := range counts {
		parts[i] = fmt.Sprintf("%s %d", c.Industry, c.Count)
	}
	return strings.Join(parts, "; ")
}

// Vocabulary is an immutable, ordered set of industry names.
type Vocabulary struct {
	names      []string
	columns    []string
	exact      map[string]int
	normalized map[string]int
	pattern    *regexp.Regexp
}

// NewVocabulary validates that the names are non-empty and that neither the names
// nor their column names collide.
func NewVocabulary(names ...string) (Vocabulary, error) {
	if len(names) == 0 {
		return Vocabulary{}, fmt.Errorf("vocabulary: no industries given")
	}

	v := Vocabulary{
		names:      make([]string, len(names)),
		columns:    make([]string, len(names)),
		exact:      make(map[string]int, len(names)),
		normalized: make(map[string]int, len(names)),
	}
	seenColumns := map[string]string{}
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return Vocabulary{}, fmt.Errorf("vocabulary: industry %d is empty", i)
		}
		if _, ok := v.exact[name]; ok {
			return Vocabulary{}, fmt.Errorf("vocabulary: duplicate industry %q", name)
		}
		col := ColumnName(name)
		if other, ok := seenColumns[col]; ok {
			return Vocabulary{}, fmt.Errorf("vocabulary: %q and %q share column %s", other, name, col)
		}
		seenColumns[col] = name

		v.names[i] = name
		v.columns[i] = col
		v.exact[name] = i
		v.normalized[normalize(name)] = i
	}

	// longest first so that an alternation never stops at a shorter prefix
	byLength := slices.Clone(v.names)
	sort.SliceStable(byLength, func(a, b int) bool {
		return len(byLength[a]) > len(byLength[b])
	})
	alternatives := make([]string, len(byLength))
	for i, name := range byLength {
		alternatives[i] = regexp.QuoteMeta(name)
	}
	v.pattern = regexp.MustCompile(fmt.Sprintf(`(\d{1,6})\s+(%s)`, strings.Join(alternatives, "|")))

	return v, nil
}

// MustVocabulary is NewVocabulary that panics on an invalid list.
func MustVocabulary(names ...string) Vocabulary {
	v, err := NewVocabulary(names...)
	if err != nil {
		panic(err)
	}
	return v
}

func (v Vocabulary) Len() int {
	return len(v.names)
}

// Names returns the industries in vocabulary order.
func (v Vocabulary) Names() []string {
	return slices.Clone(v.names)
}

// Columns returns the RI_* column names in vocabulary order.
func (v Vocabulary) Columns() []string {
	return slices.Clone(v.columns)
}

// Match maps a label found in markup onto its vocabulary spelling. Exact matches
// win, then matches ignoring case and whitespace, then the closest fuzzy match
// at or above FuzzyThreshold.
func (v Vocabulary) Match(label string) (string, bool) {
	label = strings.TrimSpace(label)
	if label == "" {
		return "", false
	}
	if i, ok := v.exact[label]; ok {
		return v.names[i], true
	}
	norm := normalize(label)
	if i, ok := v.normalized[norm]; ok {
		return v.names[i], true
	}

	best := -1
	bestScore := 0.0
	for i, name := range v.names {
		score := matchr.JaroWinkler(norm, normalize(name), false)
		if score > bestScore {
			best = i
			bestScore = score
		}
	}
	if best < 0 || bestScore < FuzzyThreshold {
		return "", false
	}
	return v.names[best], true
}

type hit struct {
	pos   int
	name  string
	count int
}

func precededByDigit(s string, pos int) bool {
	if pos == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:pos])
	return unicode.IsDigit(r)
}

func followedByWord(s string, pos int) bool {
	if pos >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[pos:])
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// ExtractCounts finds every "<count> <industry>" pair in text. Vocabulary names
// spelled exactly are found first, the remaining text is then searched for labels
// that Match a vocabulary entry. Labels outside of the vocabulary are ignored.
// Each industry is returned once, in order of first appearance, with the largest
// count seen for it.
func (v Vocabulary) ExtractCounts(text string) []Count {
	var hits []hit

	residual := []byte(text)
	for _, m := range v.pattern.FindAllStringSubmatchIndex(text, -1) {
		if precededByDigit(text, m[0]) || followedByWord(text, m[1]) {
			continue
		}
		n, err := strconv.Atoi(text[m[2]:m[3]])
		if err != nil {
			continue
		}
		hits = append(hits, hit{pos: m[0], name: text[m[4]:m[5]], count: n})
		for i := m[0]; i < m[1]; i++ {
			residual[i] = '|'
		}
	}

	rest := string(residual)
	for _, m := range countedLabel.FindAllStringSubmatchIndex(rest, -1) {
		if precededByDigit(rest, m[0]) {
			continue
		}
		name, ok := v.Match(rest[m[4]:m[5]])
		if !ok {
			continue
		}
		n, err := strconv.Atoi(rest[m[2]:m[3]])
		if err != nil {
			continue
		}
		hits = append(hits, hit{pos: m[0], name: name, count: n})
	}

	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].pos < hits[b].pos
	})

	var out []Count
	index := map[string]int{}
	for _, h := range hits {
		if i, ok := index[h.name]; ok {
			out[i].Count = max(out[i].Count, h.count)
			continue
		}
		index[h.name] = len(out)
		out = append(out, Count{Industry: h.name, Count: h.count})
	}
	return out
}

// Indicators returns one "1" or "0" per vocabulary entry, "1" when the industry
// appears in counts.
func (v Vocabulary) Indicators(counts []Count) []string {
	out := make([]string, len(v.names))
	for i := range out {
		out[i] = "0"
	}
	for _, c := range counts {
		if i, ok := v.exact[c.Industry]; ok {
			out[i] = "1"
		}
	}
	return out
}
