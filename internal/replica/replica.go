// Package replica defines the chat personas that recommend people.
package replica

import (
	"embed"
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownPersona is returned by Parse for names that match no persona.
var ErrUnknownPersona = errors.New("unknown replica persona")

type Persona int

const (
	Matchmaker Persona = iota + 1
	Mentor
	Buddy
)

//go:embed templates/*.md
var templateFS embed.FS

// Template describes how a persona talks and what it is for.
type Template struct {
	Persona            Persona
	Name               string
	SystemMessage      string
	Greeting           string
	Purpose            string
	SuggestedQuestions []string
}

var templates = map[Persona]Template{
	Matchmaker: {
		Persona:  Matchmaker,
		Name:     "Matchmaker",
		Greeting: "Hello! I'm your personal Matchmaker for this event. Tell me about your business goals and interests and I'll find the right connections.",
		Purpose:  "Finding and evaluating business matches between event participants",
		SuggestedQuestions: []string{
			"What are your business interests?",
			"What stage is your company in?",
			"Who are you looking to collaborate with?",
			"What are your goals for this event?",
		},
	},
	Mentor: {
		Persona:  Mentor,
		Name:     "Mentor",
		Greeting: "Hello! I'm your personal mentor. Tell me about your project and the challenges you're facing.",
		Purpose:  "Providing expert consultations and mentorship for entrepreneurs",
		SuggestedQuestions: []string{
			"Tell me about your project",
			"What are your main challenges?",
			"Need help with presentation?",
			"Looking for investors or partners?",
		},
	},
	Buddy: {
		Persona:  Buddy,
		Name:     "Buddy",
		Greeting: "Hello! I'm here to help you get oriented at this event. Let's start small.",
		Purpose:  "Helping newcomers navigate business events and networking",
		SuggestedQuestions: []string{
			"Is this your first business event?",
			"What worries you most?",
			"What field do you work in?",
			"Want to meet someone specific?",
		},
	},
}

func init() {
	people := mustRead("templates/people.md")
	for persona, tmpl := range templates {
		tmpl.SystemMessage = mustRead("templates/"+persona.key()+".md") + "\n" + people
		templates[persona] = tmpl
	}
}

func mustRead(name string) string {
	data, err := templateFS.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("replica template %s: %v", name, err))
	}
	return strings.TrimSpace(string(data))
}

// All returns the personas in display order.
func All() []Persona {
	return []Persona{Matchmaker, Mentor, Buddy}
}

func (p Persona) key() string {
	switch p {
	case Matchmaker:
		return "matchmaker"
	case Mentor:
		return "mentor"
	case Buddy:
		return "buddy"
	default:
		return ""
	}
}

func (p Persona) String() string {
	if k := p.key(); k != "" {
		return k
	}
	return fmt.Sprintf("persona(%d)", int(p))
}

// Template returns the persona template. The zero Template is returned for unknown personas.
func (p Persona) Template() Template {
	return templates[p]
}

// Parse finds a persona by identifier or display name, case-insensitively.
// A name containing an identifier, or contained in one, matches as well.
func Parse(name string) (Persona, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		return 0, fmt.Errorf("%w: empty name", ErrUnknownPersona)
	}

	for _, p := range All() {
		if p.key() == normalized {
			return p, nil
		}
	}
	for _, p := range All() {
		if strings.Contains(normalized, p.key()) || strings.Contains(p.key(), normalized) {
			return p, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownPersona, name)
}
