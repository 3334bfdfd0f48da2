package people

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

const (
	NameField    = "Name"
	CompanyField = "Company"
)

type Candidates struct {
	Items []RawPerson
}

type Ranked struct {
	Items []RankedPerson
}

func (c *Candidates) Len() int {
	return len(c.Items)
}

func (c *Candidates) Names() []string {
	names := make([]string, 0, len(c.Items))
	for _, p := range c.Items {
		names = append(names, p.Name)
	}
	return names
}

func (p RawPerson) GetStringField(name string) string {
	switch name {
	case NameField:
		return p.Name
	case CompanyField:
		return p.Company
	default:
		return ""
	}
}

// Exclude removes candidates whose field equals one of targets (case-insensitive).
// Order of the remaining candidates is preserved and the removed names are returned.
func (c *Candidates) Exclude(field string, targets []string) []string {
	if len(targets) == 0 {
		return nil
	}

	set := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			set[t] = struct{}{}
		}
	}

	var excluded []string
	kept := c.Items[:0]
	for _, p := range c.Items {
		if _, ok := set[strings.ToLower(p.GetStringField(field))]; ok {
			excluded = append(excluded, p.Name)
			continue
		}
		kept = append(kept, p)
	}
	c.Items = kept

	return excluded
}

// Truncate keeps at most n candidates and returns the names of the dropped ones.
func (c *Candidates) Truncate(n int) []string {
	if n <= 0 || len(c.Items) <= n {
		return nil
	}
	dropped := make([]string, 0, len(c.Items)-n)
	for _, p := range c.Items[n:] {
		dropped = append(dropped, p.Name)
	}
	c.Items = c.Items[:n]
	return dropped
}

func (r *Ranked) Len() int {
	return len(r.Items)
}

// Best returns the best match or nil for an empty list.
func (r *Ranked) Best() *RankedPerson {
	for i := range r.Items {
		if r.Items[i].IsBestMatch {
			return &r.Items[i]
		}
	}
	return nil
}

func (r *Ranked) FindByName(name string) *RankedPerson {
	for i := range r.Items {
		if r.Items[i].Name == name {
			return &r.Items[i]
		}
	}
	return nil
}

// ReportByCompany groups people by company. People without a known company go under "unknown".
func (r *Ranked) ReportByCompany() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, p := range r.Items {
		key := "unknown"
		if p.HasCompany() {
			key = p.Company
		}
		entry := map[string]string{
			"name":  p.Name,
			"role":  p.Role,
			"match": fmt.Sprintf("%.1f%%", p.MatchPercentage),
		}
		if p.Location != "" {
			entry["location"] = p.Location
		}
		if len(p.Expertise) > 0 {
			entry["expertise"] = strings.Join(p.Expertise, ", ")
		}
		if p.IsBestMatch {
			entry["best_match"] = "true"
		}
		report[key] = append(report[key], entry)
	}
	return report
}

func (r *Ranked) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "people_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r.Items); err != nil {
		return "", err
	}
	return file.Name(), nil
}
