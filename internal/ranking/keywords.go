package ranking

// Keywords holds the category term lists used for scoring. All terms are
// lower-case and matched as substrings of the lower-cased text.
type Keywords struct {
	// Investor terms select the investor category in a query and confirm it in a role.
	Investor []string
	// InvestorRelated terms in a role earn the smaller investor bonus.
	InvestorRelated []string

	Advisor        []string
	AdvisorRelated []string

	// Tech terms are checked in the role, the description and expertise tags.
	Tech        []string
	TechRelated []string

	Stage []string
}

// DefaultKeywords returns the built-in English and Russian keyword tables.
func DefaultKeywords() *Keywords {
	return &Keywords{
		Investor: []string{
			"инвестор", "investor", "angel", "ангел", "vc", "venture", "capital",
			"фонд", "fund", "partner", "партнер", "партнёр",
		},
		InvestorRelated: []string{"investment", "invest", "fund", "capital"},
		Advisor: []string{
			"советник", "advisor", "mentor", "ментор", "коуч", "coach",
			"консультант", "consultant", "expert", "эксперт",
		},
		AdvisorRelated: []string{"consult", "advise", "expert", "director"},
		Tech: []string{
			"ai", "artificial intelligence", "искусственный интеллект", "машинное обучение",
			"machine learning", "startup", "стартап", "tech", "технологии", "technology",
			"innovation", "инновации", "software", "софт",
		},
		TechRelated: []string{"tech", "software", "digital", "innovation"},
		Stage: []string{
			"pre-seed", "seed", "series a", "series b", "early stage",
			"ранняя стадия", "начальная стадия", "early", "начальная",
		},
	}
}
