package people

import (
	"path/filepath"
	"testing"
)

func TestNewUsesPlaceholdersAndStableID(t *testing.T) {
	p := New("Anna Ivanova")

	if p.Role != PlaceholderRole {
		t.Fatalf("expected placeholder role, got %q", p.Role)
	}
	if p.Description != PlaceholderDescription {
		t.Fatalf("expected placeholder description, got %q", p.Description)
	}
	if p.Company != PlaceholderCompany {
		t.Fatalf("expected placeholder company, got %q", p.Company)
	}
	if p.HasRole() {
		t.Fatalf("placeholder role must not count as a role")
	}
	if p.HasCompany() {
		t.Fatalf("placeholder company must not count as a company")
	}
	if p.ID != New("Anna Ivanova").ID {
		t.Fatalf("expected the same id for the same name")
	}
	if p.ID == New("Anna Petrova").ID {
		t.Fatalf("expected different ids for different names")
	}
}

func TestCandidatesExcludeKeepsOrder(t *testing.T) {
	c := &Candidates{Items: []RawPerson{New("Anna Ivanova"), New("John Smith"), New("Jane Doe"), New("Carlos Ruiz")}}

	excluded := c.Exclude(NameField, []string{" john smith ", "Carlos Ruiz", "Nobody Here"})

	if len(excluded) != 2 {
		t.Fatalf("expected 2 excluded, got %v", excluded)
	}
	names := c.Names()
	if len(names) != 2 || names[0] != "Anna Ivanova" || names[1] != "Jane Doe" {
		t.Fatalf("unexpected remaining names: %v", names)
	}
}

func TestCandidatesTruncate(t *testing.T) {
	c := &Candidates{Items: []RawPerson{New("Anna Ivanova"), New("John Smith"), New("Jane Doe")}}

	if dropped := c.Truncate(0); dropped != nil {
		t.Fatalf("zero limit must not drop anything, got %v", dropped)
	}

	dropped := c.Truncate(2)
	if len(dropped) != 1 || dropped[0] != "Jane Doe" {
		t.Fatalf("unexpected dropped names: %v", dropped)
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 candidates left, got %d", c.Len())
	}
}

func TestReportByCompany(t *testing.T) {
	anna := New("Anna Ivanova")
	anna.Company = "Sequoia Capital"
	anna.Location = "London"
	john := New("John Smith")
	john.Company = PlaceholderCompany

	ranked := &Ranked{Items: []RankedPerson{
		{RawPerson: anna, MatchPercentage: 72, IsBestMatch: true},
		{RawPerson: john, MatchPercentage: 20},
	}}

	report := ranked.ReportByCompany()

	entries := report["Sequoia Capital"]
	if len(entries) != 1 {
		t.Fatalf("expected one entry for Sequoia Capital, got %d", len(entries))
	}
	if entries[0]["match"] != "72.0%" {
		t.Fatalf("unexpected match: %q", entries[0]["match"])
	}
	if entries[0]["best_match"] != "true" {
		t.Fatalf("expected best match flag")
	}
	if len(report["unknown"]) != 1 {
		t.Fatalf("expected placeholder company to be reported as unknown")
	}
	if best := ranked.Best(); best == nil || best.Name != "Anna Ivanova" {
		t.Fatalf("unexpected best match: %+v", best)
	}
}

func TestContactedFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacted.json")

	missing, err := GetContactedFromFile(path)
	if err != nil {
		t.Fatalf("missing file must not fail: %v", err)
	}
	if len(missing.Items) != 0 {
		t.Fatalf("expected empty list for missing file")
	}

	ranked := &Ranked{Items: []RankedPerson{{RawPerson: New("Anna Ivanova")}, {RawPerson: New("John Smith")}}}
	missing.Append(ranked.ToContacted())
	missing.Append(ranked.ToContacted())

	if err := missing.ToFile(path); err != nil {
		t.Fatalf("writing contacted file: %v", err)
	}

	loaded, err := GetContactedFromFile(path)
	if err != nil {
		t.Fatalf("reading contacted file: %v", err)
	}
	names := loaded.Names()
	if len(names) != 2 || names[0] != "Anna Ivanova" || names[1] != "John Smith" {
		t.Fatalf("unexpected contacted names: %v", names)
	}
}
