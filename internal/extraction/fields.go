package extraction

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	maxRoleLength        = 100
	minDescriptionLength = 10
	maxLocationLength    = 50
)

// wordStart anchors a marker at the start of the text or after a non-letter,
// so "в" never matches the last letter of "Иванов".
const wordStart = `(?:^|[^\p{L}])`

var (
	trailingDot   = regexp.MustCompile(`\s*\.\s*$`)
	trailingComma = regexp.MustCompile(`\s*,\s*$`)
	tagSeparator  = regexp.MustCompile(`[,;]`)
)

// fieldPatterns holds the compiled secondary extractors. Role patterns depend
// on the matched name and are compiled per person.
type fieldPatterns struct {
	vocab *Vocabulary

	roleCleanup    *regexp.Regexp
	companyRes     []*regexp.Regexp
	descriptionRes []*regexp.Regexp
	expertiseRes   []*regexp.Regexp
	locationRes    []*regexp.Regexp
}

func newFieldPatterns(vocab *Vocabulary, c classes) *fieldPatterns {
	place := "(" + c.capitalized() + ")"

	entity := alternation(vocab.CompanyEntities)
	company := "(" +
		"(?:" + alternation(vocab.KnownCompanies) + "|" +
		"(?:" + entity + `[ \t]+)?["«]?` + c.capitalized() + `["»]?` +
		")" +
		`(?:,?[ \t]+` + entity + `\.?)?` +
		")"

	locationMarkers := alternation(append(append([]string(nil), vocab.LocationMarkers...), vocab.LocalMarkers...))

	return &fieldPatterns{
		vocab:       vocab,
		roleCleanup: regexp.MustCompile(`(?i)(?:^|\s+)` + locationMarkers + `\s+[^.,\n]*$`),
		companyRes: []*regexp.Regexp{
			regexp.MustCompile(wordStart + foldedAlternation(vocab.CompanyMarkers) + `\s+` + company),
			regexp.MustCompile(foldedAlternation(vocab.CompanyLabels) + `\s*:\s*` + company),
		},
		descriptionRes: []*regexp.Regexp{
			regexp.MustCompile(`[—–-][ \t]*([^,\n]+)`),
			regexp.MustCompile(`:[ \t]*([^,\n]+)`),
			regexp.MustCompile(`\([ \t]*([^)\n]+?)[ \t]*\)`),
			regexp.MustCompile(`,[ \t]*([^,\n]+)`),
		},
		expertiseRes: []*regexp.Regexp{
			regexp.MustCompile(foldedAlternation(vocab.ExpertiseMarkers) + `\s*:\s*([^\n]+)`),
			regexp.MustCompile(foldedAlternation(vocab.FocusMarkers) + `\s*:\s*([^\n]+)`),
		},
		locationRes: []*regexp.Regexp{
			regexp.MustCompile(wordStart + foldedAlternation(vocab.LocationMarkers) + `\s+` + place),
			regexp.MustCompile(wordStart + foldedAlternation(vocab.LocalMarkers) + `\s+` + place),
			regexp.MustCompile(`(?i)` + wordStart + "(" + alternation(vocab.Cities) + `)(?:[^\p{L}]|$)`),
		},
	}
}

// rolePatterns anchor on the literal name: "**Name** – role", "**Name**: role",
// "Name – role", "Name: role".
func rolePatterns(name string) []*regexp.Regexp {
	quoted := regexp.QuoteMeta(name)
	return []*regexp.Regexp{
		regexp.MustCompile(`(?i)\*\*` + quoted + `\*\*\s*[–—-]\s*([^.,\n]+)`),
		regexp.MustCompile(`(?i)\*\*` + quoted + `\*\*\s*:\s*([^.,\n]+)`),
		regexp.MustCompile(`(?i)` + quoted + `\s*[–—-]\s*([^.,\n]+)`),
		regexp.MustCompile(`(?i)` + quoted + `\s*:\s*([^.,\n]+)`),
	}
}

// firstAccepted tries every pattern on every segment in order and returns the
// first capture the accept function keeps.
func firstAccepted(segments []string, patterns []*regexp.Regexp, accept func(string) (string, bool)) (string, bool) {
	for _, segment := range segments {
		for _, re := range patterns {
			m := re.FindStringSubmatch(segment)
			if len(m) < 2 || m[1] == "" {
				continue
			}
			if value, ok := accept(m[1]); ok {
				return value, true
			}
		}
	}
	return "", false
}

func (f *fieldPatterns) role(name string, segments []string) (string, bool) {
	return firstAccepted(segments, rolePatterns(name), func(raw string) (string, bool) {
		role := strings.TrimSpace(raw)
		role = f.roleCleanup.ReplaceAllString(role, "")
		role = trailingDot.ReplaceAllString(role, "")
		role = trailingComma.ReplaceAllString(role, "")
		role = strings.TrimSpace(role)

		if role == "" || utf8.RuneCountInString(role) >= maxRoleLength {
			return "", false
		}
		if containsAnyPhrase(role, f.vocab.RoleRejectPhrases) {
			return "", false
		}
		return role, true
	})
}

func (f *fieldPatterns) company(segments []string) (string, bool) {
	return firstAccepted(segments, f.companyRes, func(raw string) (string, bool) {
		company := strings.TrimSpace(raw)
		return company, company != ""
	})
}

func (f *fieldPatterns) description(role string, segments []string) (string, bool) {
	return firstAccepted(segments, f.descriptionRes, func(raw string) (string, bool) {
		desc := strings.TrimSpace(raw)
		if desc == role || utf8.RuneCountInString(desc) <= minDescriptionLength {
			return "", false
		}
		if containsAnyPhrase(desc, f.vocab.DescriptionRejectPhrases) {
			return "", false
		}
		return desc, true
	})
}

func (f *fieldPatterns) expertise(segments []string) ([]string, bool) {
	raw, ok := firstAccepted(segments, f.expertiseRes, func(raw string) (string, bool) {
		raw = trailingDot.ReplaceAllString(strings.TrimSpace(raw), "")
		return raw, raw != ""
	})
	if !ok {
		return nil, false
	}

	var tags []string
	for _, tag := range tagSeparator.Split(raw, -1) {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags, len(tags) > 0
}

func (f *fieldPatterns) location(segments []string) (string, bool) {
	return firstAccepted(segments, f.locationRes, func(raw string) (string, bool) {
		loc := strings.TrimSpace(raw)
		loc = trailingDot.ReplaceAllString(loc, "")
		loc = trailingComma.ReplaceAllString(loc, "")
		n := utf8.RuneCountInString(loc)
		return loc, n > 0 && n < maxLocationLength
	})
}

// containsAnyPhrase reports whether s contains one of phrases starting at a word boundary.
// Comparison is case-insensitive.
func containsAnyPhrase(s string, phrases []string) bool {
	lower := strings.ToLower(s)
	for _, phrase := range phrases {
		if containsPhrase(lower, strings.ToLower(phrase)) {
			return true
		}
	}
	return false
}

func containsPhrase(s, phrase string) bool {
	if phrase == "" {
		return false
	}
	offset := 0
	for {
		idx := strings.Index(s[offset:], phrase)
		if idx < 0 {
			return false
		}
		pos := offset + idx
		if pos == 0 {
			return true
		}
		prev, _ := utf8.DecodeLastRuneInString(s[:pos])
		if !unicode.IsLetter(prev) {
			return true
		}
		offset = pos + len(phrase)
	}
}
