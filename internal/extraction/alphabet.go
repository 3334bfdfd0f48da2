package extraction

import (
	"regexp"
	"sort"
	"strings"
)

// Alphabet describes one script as regexp range fragments.
type Alphabet struct {
	Upper string
	Lower string
}

var (
	Latin    = Alphabet{Upper: "A-Z", Lower: "a-z"}
	Cyrillic = Alphabet{Upper: "А-ЯЁ", Lower: "а-яё"}
)

// Letters joining the parts of compound names: apostrophe variants and hyphen.
const (
	apostrophes = `'’‘ʼ`
	joiners     = apostrophes + `\-`
)

// classes builds every name-shaped sub-pattern from a union of alphabets,
// so each rule is written once for all supported scripts.
type classes struct {
	upper string
	lower string
}

func newClasses(alphabets ...Alphabet) classes {
	var upper, lower strings.Builder
	for _, a := range alphabets {
		upper.WriteString(a.Upper)
		lower.WriteString(a.Lower)
	}
	return classes{
		upper: "[" + upper.String() + "]",
		lower: "[" + lower.String() + "]",
	}
}

// word matches one capitalized name token: Anna, Smith-Jones, O'Connor, Д'Артаньян.
func (c classes) word() string {
	segment := "[" + joiners + "]" + c.upper + "?" + c.lower + "+"
	return c.upper + "(?:" +
		c.lower + "+(?:" + segment + ")*" +
		"|[" + apostrophes + "]" + c.upper + c.lower + "+(?:" + segment + ")*" +
		")"
}

// name matches exactly two capitalized words on one line.
func (c classes) name() string {
	return c.word() + `[ \t\x{00A0}]+` + c.word()
}

// longName matches two or more capitalized words on one line.
func (c classes) longName() string {
	return c.word() + `(?:[ \t\x{00A0}]+` + c.word() + `)+`
}

// capitalized matches a sequence of one or more capitalized words.
func (c classes) capitalized() string {
	return c.word() + `(?:[ \t]+` + c.word() + `)*`
}

func (c classes) startsUpper() *regexp.Regexp {
	return regexp.MustCompile("^" + c.upper)
}

// alternation quotes words into a non-capturing group, longest first so
// "based in" wins over "in" at the same position.
func alternation(words []string) string {
	quoted := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			quoted = append(quoted, regexp.QuoteMeta(w))
		}
	}
	sort.SliceStable(quoted, func(i, j int) bool { return len(quoted[i]) > len(quoted[j]) })
	if len(quoted) == 0 {
		// never matches
		return `(?:[^\x00-\x{10FFFF}])`
	}
	return "(?:" + strings.Join(quoted, "|") + ")"
}

// foldedAlternation is alternation matched case-insensitively.
func foldedAlternation(words []string) string {
	return "(?i:" + strings.TrimPrefix(alternation(words), "(?:")
}
