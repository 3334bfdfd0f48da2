package extraction

// Vocabulary holds the fixed word lists the extractor matches against.
// Lists are plain data so tests and configuration can substitute them.
type Vocabulary struct {
	// Stopwords are name-shaped strings that are never people. Matching is exact and case-sensitive.
	Stopwords []string

	// ListIntros introduce a list of people ("here are").
	ListIntros []string
	// ExpertHeaders are section headers followed by people ("specialists").
	ExpertHeaders []string
	// KeyContactIntros introduce a numbered list of bold contacts.
	KeyContactIntros []string

	// CompanyMarkers precede a company name ("at", "works at").
	CompanyMarkers []string
	// CompanyLabels precede "label: Company".
	CompanyLabels []string
	// CompanyEntities are legal-entity tokens that may prefix or suffix a company name.
	CompanyEntities []string
	// KnownCompanies are accepted even when they do not look like capitalized words.
	KnownCompanies []string

	// LocationMarkers precede a location ("based in", "from").
	LocationMarkers []string
	// LocalMarkers are short prepositions that precede either a place or a company ("в", "из").
	LocalMarkers []string
	// Cities are matched directly when no marker is found.
	Cities []string

	// RoleRejectPhrases disqualify a role candidate after cleanup.
	RoleRejectPhrases []string
	// DescriptionRejectPhrases disqualify a description candidate.
	DescriptionRejectPhrases []string

	// ExpertiseMarkers precede a skills list ("expertise:").
	ExpertiseMarkers []string
	// FocusMarkers precede a focus list ("focus:").
	FocusMarkers []string
}

// DefaultVocabulary returns the built-in English and Russian word lists.
func DefaultVocabulary() *Vocabulary {
	return &Vocabulary{
		Stopwords: []string{
			"Вот", "вот", "Here", "here",
			"Список", "список", "List", "list",
			"Специалисты", "специалисты", "Specialists", "specialists", "Experts", "experts",
			"Люди", "люди", "People", "people",
			"Рекомендую", "рекомендую", "Recommend", "recommend",
			"Могу", "могу", "Can", "can",
			"Предлагаю", "предлагаю", "Suggest", "suggest",
			"Найденные", "найденные", "Найдено", "найдено", "Found", "found",
			"Результаты", "результаты", "Results", "results",
			"Поиск", "поиск", "Search", "search",
			"Советую", "советую", "Advise", "advise",
			"Рекомендации", "рекомендации", "Recommendations", "recommendations",
			"Можете", "можете", "You can", "you can",
			"Свяжитесь", "свяжитесь", "Contact", "contact",
			"Обратитесь", "обратитесь", "Reach out", "reach out",
		},
		ListIntros:       []string{"Вот", "вот", "Here", "here"},
		ExpertHeaders:    []string{"Специалисты", "специалисты", "Эксперты", "эксперты", "Specialists", "specialists", "Experts", "experts"},
		KeyContactIntros: []string{"Вот ключевые контакты", "Here are key contacts", "ключевые контакты", "key contacts"},
		CompanyMarkers:   []string{"работает в", "works at", "компания", "company", "в", "at", "@"},
		CompanyLabels:    []string{"компания", "company"},
		CompanyEntities:  []string{"Inc", "LLC", "Corp", "Ltd", "ООО", "АО", "ЗАО", "Group", "Capital", "Ventures"},
		KnownCompanies:   []string{"Google", "Microsoft", "Apple", "Meta", "Amazon", "Яндекс", "Mail.ru", "VK"},
		LocationMarkers:  []string{"based in", "from"},
		LocalMarkers:     []string{"в", "из"},
		Cities: []string{
			"Москва", "Санкт-Петербург", "Казань", "Новосибирск", "Екатеринбург",
			"London", "New York", "Dubai", "Barcelona", "Paris", "Berlin", "Tokyo", "Singapore",
			"Amsterdam", "Stockholm", "Copenhagen", "Vienna", "Zurich", "Frankfurt", "Munich",
			"Madrid", "Rome", "Milan", "Lisbon", "Dublin", "Edinburgh", "Glasgow", "Manchester",
			"Birmingham", "Liverpool", "Leeds", "Bristol", "Cardiff", "Belfast",
		},
		RoleRejectPhrases:        []string{"based in", "from", "в ", "из "},
		DescriptionRejectPhrases: []string{"в ", "at ", "based in", "from ", "из "},
		ExpertiseMarkers:         []string{"экспертиза", "expertise", "навыки", "skills", "специализация", "specialization"},
		FocusMarkers:             []string{"область", "area", "фокус", "focus"},
	}
}

// WithStopwords returns a copy of the vocabulary with extra stopwords appended.
func (v *Vocabulary) WithStopwords(extra ...string) *Vocabulary {
	clone := *v
	clone.Stopwords = append(append([]string(nil), v.Stopwords...), extra...)
	return &clone
}

func (v *Vocabulary) isStopword(s string) bool {
	for _, w := range v.Stopwords {
		if w == s {
			return true
		}
	}
	return false
}
