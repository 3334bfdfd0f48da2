package people

import (
	"github.com/google/uuid"
)

const (
	// PlaceholderRole is assigned when no role phrase is found near a name.
	PlaceholderRole = "Specialist"
	// PlaceholderDescription is assigned when no descriptive phrase is found near a name.
	PlaceholderDescription = "Specialist information"
	// PlaceholderCompany is assigned when no company is found near a name.
	PlaceholderCompany = "Not specified"
)

// idNamespace scopes person IDs so the same name always maps to the same ID.
var idNamespace = uuid.MustParse("6f1c2b0e-5a7d-4c4e-9a51-2f8e3d9b7c10")

// RawPerson is a person record extracted from free text before scoring.
type RawPerson struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	Company     string   `json:"company"`
	Description string   `json:"description"`
	Location    string   `json:"location,omitempty"`
	Expertise   []string `json:"expertise,omitempty"`
}

// RankedPerson is a RawPerson with its compatibility score.
type RankedPerson struct {
	RawPerson
	MatchPercentage float64 `json:"matchPercentage"`
	IsBestMatch     bool    `json:"isBestMatch"`
}

// New returns a person with placeholder fields and an ID derived from the name.
func New(name string) RawPerson {
	return RawPerson{
		ID:          ID(name),
		Name:        name,
		Role:        PlaceholderRole,
		Company:     PlaceholderCompany,
		Description: PlaceholderDescription,
	}
}

// ID returns the stable identifier of a person name.
func ID(name string) string {
	return "person-" + uuid.NewSHA1(idNamespace, []byte(name)).String()
}

// HasRole reports whether the role was actually found in text.
func (p RawPerson) HasRole() bool {
	return p.Role != "" && p.Role != PlaceholderRole
}

// HasCompany reports whether a real company is known.
func (p RawPerson) HasCompany() bool {
	return p.Company != "" && p.Company != PlaceholderCompany
}
