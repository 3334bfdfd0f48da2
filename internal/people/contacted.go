package people

import (
	"encoding/json"
	"errors"
	"os"
	"time"
)

// ContactedPeople is stored on disk as a JSON array of ContactedPerson.
type ContactedPeople struct {
	Items []*ContactedPerson
}

type ContactedPerson struct {
	Name        string    `json:"name"`
	Company     string    `json:"company,omitempty"`
	ContactedAt time.Time `json:"contacted_at"`
}

func (r *Ranked) ToContacted() *ContactedPeople {
	contacted := &ContactedPeople{}
	for _, p := range r.Items {
		company := ""
		if p.HasCompany() {
			company = p.Company
		}
		contacted.Items = append(contacted.Items, &ContactedPerson{
			Name:        p.Name,
			Company:     company,
			ContactedAt: time.Now().UTC(),
		})
	}
	return contacted
}

// GetContactedFromFile reads the contacted list. A missing or empty file yields an empty list.
func GetContactedFromFile(path string) (*ContactedPeople, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &ContactedPeople{}, nil
		}
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &ContactedPeople{}, nil
	}

	var contacted ContactedPeople
	if err := json.NewDecoder(file).Decode(&contacted.Items); err != nil {
		return nil, err
	}
	return &contacted, nil
}

// Append adds people not already present by name.
func (c *ContactedPeople) Append(s *ContactedPeople) {
	seen := make(map[string]struct{}, len(c.Items))
	for _, p := range c.Items {
		seen[p.Name] = struct{}{}
	}
	for _, p := range s.Items {
		if _, ok := seen[p.Name]; ok {
			continue
		}
		seen[p.Name] = struct{}{}
		c.Items = append(c.Items, p)
	}
}

func (c *ContactedPeople) Names() []string {
	names := make([]string, 0, len(c.Items))
	for _, p := range c.Items {
		names = append(names, p.Name)
	}
	return names
}

func (c *ContactedPeople) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(c.Items)
}
