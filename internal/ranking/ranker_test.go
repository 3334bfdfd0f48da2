package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/replica-matcher/internal/people"
)

func person(name, role string) people.RawPerson {
	p := people.New(name)
	if role != "" {
		p.Role = role
	}
	return p
}

func TestScore(t *testing.T) {
	r := New(nil, nil)

	withCompany := person("Maria Lopez", "Partner")
	withCompany.Company = "Acme Corp"
	withCompany.Location = "Berlin"

	withExpertise := person("Ivan Petrov", "CTO")
	withExpertise.Expertise = []string{"Machine learning", "Go"}

	tests := []struct {
		name   string
		query  string
		person people.RawPerson
		want   float64
	}{
		{
			name:   "investor role for investor query",
			query:  "looking for investors",
			person: person("Anna Ivanova", "Angel investor"),
			// base 25, investor 40, "for" found in the placeholder description 8
			want: 73,
		},
		{
			name:   "investment related role",
			query:  "need a fund",
			person: person("Oleg Kim", "Investment director"),
			want:   50,
		},
		{
			name:   "expertise overlap for tech query",
			query:  "machine learning engineer",
			person: withExpertise,
			// base 25, tech tag 15, two query words 16, multiple matches 10
			want: 66,
		},
		{
			name:   "completeness bonuses",
			query:  "anything",
			person: withCompany,
			want:   33,
		},
		{
			name:   "floor for placeholders",
			query:  "anything",
			person: people.New("Some One"),
			want:   20,
		},
		{
			name:   "no data stays at zero",
			query:  "anything",
			person: people.RawPerson{Name: "Ghost Person"},
			want:   0,
		},
		{
			name:   "clamped to maximum",
			query:  "ai startup investor mentor seed",
			person: person("Max Power", "AI startup investor and mentor, seed fund"),
			want:   100,
		},
		{
			name:   "empty query",
			query:  "   ",
			person: person("Anna Ivanova", "Angel investor"),
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Score(tt.query, tt.person))
		})
	}
}

func TestScoreExampleInvestor(t *testing.T) {
	r := New(nil, nil)

	anna := person("Anna Ivanova", "Angel investor focused on fintech")

	assert.Greater(t, r.Score("looking for investors", anna), 60.0)
}

func TestRankEmpty(t *testing.T) {
	r := New(nil, nil)

	ranked := r.Rank(nil, "anything")

	require.NotNil(t, ranked)
	assert.Empty(t, ranked)
}

func TestRankUniqueDescending(t *testing.T) {
	r := New(nil, nil)

	candidates := []people.RawPerson{
		people.New("Low Score"),
		person("First Investor", "Angel investor"),
		person("Second Investor", "Angel investor"),
		person("Third Investor", "Angel investor"),
	}

	ranked := r.Rank(candidates, "looking for investors")
	require.Len(t, ranked, 4)

	got := make([]string, 0, len(ranked))
	scores := make([]float64, 0, len(ranked))
	for _, p := range ranked {
		got = append(got, p.Name)
		scores = append(scores, p.MatchPercentage)
	}

	assert.Equal(t, []string{"First Investor", "Second Investor", "Third Investor", "Low Score"}, got)
	assert.Equal(t, []float64{73, 72.9, 72.8, 20}, scores)

	assert.True(t, ranked[0].IsBestMatch)
	for _, p := range ranked[1:] {
		assert.False(t, p.IsBestMatch)
	}
}

func TestRankEmptyQueryUsesFloor(t *testing.T) {
	r := New(nil, nil)

	ranked := r.Rank([]people.RawPerson{people.New("Anna Ivanova"), people.New("John Smith")}, "")

	require.Len(t, ranked, 2)
	assert.Equal(t, 20.0, ranked[0].MatchPercentage)
	assert.Equal(t, 19.9, ranked[1].MatchPercentage)
	assert.Equal(t, "Anna Ivanova", ranked[0].Name)
}

func TestRankZeroScoresMayCollide(t *testing.T) {
	r := New(nil, nil)

	ranked := r.Rank([]people.RawPerson{{Name: "Ghost One"}, {Name: "Ghost Two"}}, "")

	require.Len(t, ranked, 2)
	assert.Zero(t, ranked[0].MatchPercentage)
	assert.Zero(t, ranked[1].MatchPercentage)
	assert.True(t, ranked[0].IsBestMatch)
	assert.False(t, ranked[1].IsBestMatch)
}

func TestRankInvariants(t *testing.T) {
	r := New(nil, nil)

	expert := person("Ivan Petrov", "CTO")
	expert.Expertise = []string{"AI", "machine learning", "fintech"}
	expert.Description = "Built three AI startups and advises seed stage founders"

	candidates := []people.RawPerson{
		people.New("Some One"),
		person("Anna Ivanova", "Angel investor"),
		person("Oleg Kim", "Investment director"),
		expert,
		{Name: "Ghost Person"},
		person("Jane Doe", "Mentor for early stage startups"),
	}

	queries := []string{"", "looking for investors", "ai mentor", "seed stage fintech", "инвестор"}

	for _, q := range queries {
		ranked := r.Rank(candidates, q)
		require.Len(t, ranked, len(candidates))

		best := 0
		seen := make(map[float64]bool)
		maxRaw := 0.0
		for _, c := range candidates {
			raw := r.Score(q, c)
			assert.GreaterOrEqual(t, raw, 0.0)
			assert.LessOrEqual(t, raw, 100.0)
			if floored := applyFloor(raw, c); floored > maxRaw {
				maxRaw = floored
			}
		}

		for i, p := range ranked {
			assert.GreaterOrEqual(t, p.MatchPercentage, 0.0)
			assert.LessOrEqual(t, p.MatchPercentage, 100.0)
			if p.MatchPercentage > 0 {
				assert.False(t, seen[p.MatchPercentage], "duplicate score %v for query %q", p.MatchPercentage, q)
			}
			seen[p.MatchPercentage] = true
			if i > 0 {
				assert.Less(t, p.MatchPercentage, ranked[i-1].MatchPercentage+0.0001)
			}
			if p.IsBestMatch {
				best++
			}
		}

		assert.Equal(t, 1, best)
		assert.True(t, ranked[0].IsBestMatch)
		assert.Equal(t, maxRaw, ranked[0].MatchPercentage)

		again := r.Rank(candidates, q)
		assert.Equal(t, ranked, again)
	}
}

func TestCustomKeywords(t *testing.T) {
	r := New(&Keywords{Investor: []string{"backer"}}, nil)

	assert.Equal(t, 65.0, r.Score("a backer please", person("Big Backer", "Backer")))
}
