// Package ranking scores extracted people against the user's query and
// orders them into a list with unique match percentages.
package ranking

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/replica-matcher/internal/people"
)

// Score weights.
const (
	baseRoleScore        = 25
	categoryMatchScore   = 40
	categoryRelatedScore = 25
	techMatchScore       = 35
	techRelatedScore     = 20
	stageMatchScore      = 25

	queryWordScore          = 8
	multipleMatchesBonus    = 10
	descriptionTechScore    = 25
	longDescriptionScore    = 5
	longDescriptionRunes    = 50
	expertiseTechScore      = 15
	completeCompanyScore    = 5
	completeLocationScore   = 3
	minQueryWordRunes       = 3
	floorScore              = 20
	maxScore                = 100
	minScore                = 0
	percentageStepsPerPoint = 10
)

type Ranker struct {
	keywords *Keywords
	logger   *zap.Logger
}

// New returns a ranker using keywords, or DefaultKeywords when nil.
func New(keywords *Keywords, logger *zap.Logger) *Ranker {
	if keywords == nil {
		keywords = DefaultKeywords()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ranker{keywords: keywords, logger: logger}
}

// Score returns the compatibility of person with query in [0, 100].
// An empty query scores 0.
func (r *Ranker) Score(query string, person people.RawPerson) float64 {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return 0
	}

	words := queryWords(query)
	kw := r.keywords
	techQuery := containsAny(query, kw.Tech)
	score := 0

	if person.HasRole() {
		score += baseRoleScore
	}

	description := strings.ToLower(person.Description)

	if person.Role != "" {
		role := strings.ToLower(person.Role)

		if containsAny(query, kw.Investor) {
			switch {
			case containsAny(role, kw.Investor):
				score += categoryMatchScore
			case containsAny(role, kw.InvestorRelated):
				score += categoryRelatedScore
			}
		}

		if containsAny(query, kw.Advisor) {
			switch {
			case containsAny(role, kw.Advisor):
				score += categoryMatchScore
			case containsAny(role, kw.AdvisorRelated):
				score += categoryRelatedScore
			}
		}

		if techQuery {
			switch {
			case containsAny(role, kw.Tech) || containsAny(description, kw.Tech):
				score += techMatchScore
			case containsAny(role, kw.TechRelated):
				score += techRelatedScore
			}
		}

		if containsAny(query, kw.Stage) {
			if containsAny(role, kw.Stage) || containsAny(description, kw.Stage) {
				score += stageMatchScore
			}
		}
	}

	if description != "" {
		matches := 0
		for _, w := range words {
			if strings.Contains(description, w) {
				matches++
				score += queryWordScore
			}
		}
		if matches >= 2 {
			score += multipleMatchesBonus
		}
		if techQuery && containsAny(description, kw.Tech) {
			score += descriptionTechScore
		}
		if utf8.RuneCountInString(description) > longDescriptionRunes {
			score += longDescriptionScore
		}
	}

	if len(person.Expertise) > 0 {
		matches := 0
		for _, skill := range person.Expertise {
			skill = strings.ToLower(skill)
			if techQuery && containsAny(skill, kw.Tech) {
				matches++
				score += expertiseTechScore
			}
			for _, w := range words {
				if strings.Contains(skill, w) {
					matches++
					score += queryWordScore
				}
			}
		}
		if matches >= 2 {
			score += multipleMatchesBonus
		}
	}

	if person.HasCompany() {
		score += completeCompanyScore
	}
	if person.Location != "" {
		score += completeLocationScore
	}

	return clamp(applyFloor(float64(score), person))
}

// Rank scores candidates, sorts them best first and makes every percentage
// unique by stepping duplicates down by 0.1. The first record is the best match.
func (r *Ranker) Rank(candidates []people.RawPerson, query string) []people.RankedPerson {
	ranked := make([]people.RankedPerson, 0, len(candidates))
	if len(candidates) == 0 {
		return ranked
	}

	for _, candidate := range candidates {
		score := clamp(applyFloor(r.Score(query, candidate), candidate))
		ranked = append(ranked, people.RankedPerson{RawPerson: candidate, MatchPercentage: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MatchPercentage > ranked[j].MatchPercentage
	})

	// Work in tenths of a percent to avoid accumulating float error.
	assigned := make(map[int]struct{}, len(ranked))
	for i := range ranked {
		tenths := int(math.Round(ranked[i].MatchPercentage * percentageStepsPerPoint))
		for {
			if _, taken := assigned[tenths]; !taken || tenths <= 0 {
				break
			}
			tenths--
		}
		assigned[tenths] = struct{}{}

		ranked[i].MatchPercentage = float64(tenths) / percentageStepsPerPoint
		ranked[i].IsBestMatch = i == 0
	}

	r.logger.Debug("people ranked",
		zap.Int("count", len(ranked)),
		zap.String("best_match", ranked[0].Name),
		zap.Float64("best_score", ranked[0].MatchPercentage),
	)

	return ranked
}

// applyFloor lifts a low score to the floor when the person has any role or description.
func applyFloor(score float64, person people.RawPerson) float64 {
	if score < floorScore && (person.Role != "" || person.Description != "") {
		return floorScore
	}
	return score
}

func clamp(score float64) float64 {
	return math.Max(minScore, math.Min(maxScore, score))
}

func queryWords(query string) []string {
	var words []string
	for _, w := range strings.Fields(query) {
		if utf8.RuneCountInString(w) >= minQueryWordRunes {
			words = append(words, w)
		}
	}
	return words
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if term != "" && strings.Contains(s, term) {
			return true
		}
	}
	return false
}
