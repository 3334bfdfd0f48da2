package extraction

import (
	"regexp"
	"strings"
)

// NameRule finds candidate person names in a message. Rules are tried in order
// over the whole text; a name reported by an earlier rule keeps its position.
type NameRule interface {
	Name() string
	FindNames(text string) []string
}

// regexRule reports the first capture group of every match.
type regexRule struct {
	name  string
	regex *regexp.Regexp
}

func (r *regexRule) Name() string { return r.name }

func (r *regexRule) FindNames(text string) []string {
	var names []string
	for _, m := range r.regex.FindAllStringSubmatch(text, -1) {
		if len(m) < 2 || m[1] == "" {
			continue
		}
		names = append(names, strings.TrimSpace(m[1]))
	}
	return names
}

// listRule reports every comma-separated name of a matched list.
type listRule struct {
	name  string
	regex *regexp.Regexp
}

var listSeparator = regexp.MustCompile(`\s*,\s*`)

func (r *listRule) Name() string { return r.name }

func (r *listRule) FindNames(text string) []string {
	var names []string
	for _, m := range r.regex.FindAllStringSubmatch(text, -1) {
		if len(m) < 2 {
			continue
		}
		for _, part := range listSeparator.Split(m[1], -1) {
			if part = strings.TrimSpace(part); part != "" {
				names = append(names, part)
			}
		}
	}
	return names
}

// boldFallbackRule accepts any bold span made of two or more words that all
// start with a capital letter. It trades precision for recall: capitalized
// headings such as "**Key Contacts**" pass as well.
type boldFallbackRule struct {
	regex *regexp.Regexp
	upper *regexp.Regexp
}

func (r *boldFallbackRule) Name() string { return "bold_fallback" }

func (r *boldFallbackRule) FindNames(text string) []string {
	var names []string
	for _, m := range r.regex.FindAllStringSubmatch(text, -1) {
		candidate := strings.TrimSpace(m[1])
		words := strings.Fields(candidate)
		if len(words) < 2 {
			continue
		}
		capitalized := true
		for _, w := range words {
			if !r.upper.MatchString(w) {
				capitalized = false
				break
			}
		}
		if capitalized {
			names = append(names, candidate)
		}
	}
	return names
}

// DefaultRules returns the name rules in priority order.
func DefaultRules(vocab *Vocabulary, alphabets ...Alphabet) []NameRule {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	if len(alphabets) == 0 {
		alphabets = []Alphabet{Latin, Cyrillic}
	}

	c := newClasses(alphabets...)
	name := "(" + c.name() + ")"

	rule := func(ruleName, pattern string) NameRule {
		return &regexRule{name: ruleName, regex: regexp.MustCompile(pattern)}
	}

	return []NameRule{
		rule("bold", `\*\*`+name+`\*\*`),
		rule("italic", `\*`+name+`\*`),
		rule("bullet", `(?m)^\s*[-•*]\s*`+name),
		rule("numbered", `(?m)^\s*\d+\.\s*`+name),
		rule("quoted", `["“«]`+name+`["”»]`),
		rule("after_colon", `:\s*`+name),
		&listRule{
			name:  "colon_list",
			regex: regexp.MustCompile(`:\s*(` + c.name() + `(?:\s*,\s*` + c.name() + `)+)`),
		},
		rule("line_start", `(?m)^\s*`+name),
		rule("here_intro", alternation(vocab.ListIntros)+`[^:]*:\s*`+name),
		rule("dash_suffix", `(?m)^\s*`+name+`\s*[–-]`),
		rule("experts_header", alternation(vocab.ExpertHeaders)+`[^:]*:\s*`+name),
		rule("numbered_dash", `(?m)^\s*\d+\.\s*`+name+`\s*[–-]`),
		rule("bullet_colon", `(?m)^\s*[•*]\s*`+name+`\s*:`),
		rule("paren_role", `(?m)^\s*`+name+`\s*\(`),
		rule("em_dash", `(?m)^\s*`+name+`\s*—`),
		rule("comma_role", `(?m)^\s*`+name+`\s*,`),
		rule("key_contacts", alternation(vocab.KeyContactIntros)+`[^:]*:\s*\d+\.\s*\*\*`+name+`\*\*`),
		rule("bold_multi", `\*\*(`+c.longName()+`)\*\*`),
		&boldFallbackRule{
			regex: regexp.MustCompile(`\*\*([^*]+)\*\*`),
			upper: c.startsUpper(),
		},
	}
}
