package trigger

import (
	"regexp"
	"strings"
)

// Category groups the people a replica can recommend.
type Category string

const (
	Investors Category = "investors"
	Mentors   Category = "mentors"
	Founders  Category = "founders"
	// General is used when a message carries no marker.
	General Category = "general"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case Investors, Mentors, Founders, General:
		return true
	}
	return false
}

// categoryTerms are checked in order; the first category with a matching term wins.
var categoryTerms = []struct {
	category Category
	terms    []string
}{
	{Investors, []string{"investor", "investment", "fund", "capital"}},
	{Mentors, []string{"mentor", "advisor", "expert"}},
	{Founders, []string{"founder", "startup", "entrepreneur"}},
}

// DetectCategory guesses the category a query is about.
func DetectCategory(query string) (Category, bool) {
	query = strings.ToLower(query)
	for _, ct := range categoryTerms {
		for _, term := range ct.terms {
			if strings.Contains(query, term) {
				return ct.category, true
			}
		}
	}
	return "", false
}

var searchStopwords = regexp.MustCompile(`\b(?:find|looking|need|want|show|list|people)\b`)

// SearchKeywords lower-cases query and drops filler words such as "find" or "people".
func SearchKeywords(query string) string {
	cleaned := searchStopwords.ReplaceAllString(strings.ToLower(query), "")
	return strings.Join(strings.Fields(cleaned), " ")
}
