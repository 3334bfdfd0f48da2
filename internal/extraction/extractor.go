// Package extraction finds people recommended in an assistant chat message.
//
// The extractor is a heuristic: it relies on how language models format
// names (bold, list items, "Name – role") rather than on understanding text.
// It never fails; a message without recognizable names yields no people.
package extraction

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/spigell/replica-matcher/internal/people"
	"github.com/spigell/replica-matcher/internal/utils"
)

const (
	defaultContextWindow    = 300
	defaultMaxMessageLength = 20000
	defaultMaxCandidates    = 50
	minNameLength           = 4
	logPreviewLength        = 200
)

// Config controls the extractor. Zero values fall back to defaults.
type Config struct {
	// ContextWindow is the number of runes before and after a name searched for its fields.
	ContextWindow int
	// MaxMessageLength caps the runes of a message that are processed.
	MaxMessageLength int
	// MaxCandidates caps the people collected from one message.
	MaxCandidates int
	// Vocabulary defaults to DefaultVocabulary.
	Vocabulary *Vocabulary
	// Alphabets default to Latin and Cyrillic.
	Alphabets []Alphabet
	// Rules default to DefaultRules built from Vocabulary and Alphabets.
	Rules []NameRule
}

// Stats describes one extraction run.
type Stats struct {
	// RuleHits counts accepted names per rule.
	RuleHits map[string]int
	// Rejected counts matches dropped as duplicates, too short or stopwords.
	Rejected int
	// Truncated is set when the message was longer than MaxMessageLength.
	Truncated bool
	// Capped is set when MaxCandidates was reached.
	Capped bool
}

// Extractor finds people in assistant messages. It is safe for concurrent use.
type Extractor struct {
	rules         []NameRule
	vocab         *Vocabulary
	fields        *fieldPatterns
	window        int
	maxLength     int
	maxCandidates int
	logger        *zap.Logger
}

// New returns an Extractor for cfg. A nil logger disables logging.
func New(cfg Config, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}

	vocab := cfg.Vocabulary
	if vocab == nil {
		vocab = DefaultVocabulary()
	}

	alphabets := cfg.Alphabets
	if len(alphabets) == 0 {
		alphabets = []Alphabet{Latin, Cyrillic}
	}

	rules := cfg.Rules
	if len(rules) == 0 {
		rules = DefaultRules(vocab, alphabets...)
	}

	window := cfg.ContextWindow
	if window <= 0 {
		window = defaultContextWindow
	}

	maxLength := cfg.MaxMessageLength
	if maxLength <= 0 {
		maxLength = defaultMaxMessageLength
	}

	maxCandidates := cfg.MaxCandidates
	if maxCandidates <= 0 {
		maxCandidates = defaultMaxCandidates
	}

	return &Extractor{
		rules:         rules,
		vocab:         vocab,
		fields:        newFieldPatterns(vocab, newClasses(alphabets...)),
		window:        window,
		maxLength:     maxLength,
		maxCandidates: maxCandidates,
		logger:        logger,
	}
}

// Extract returns the people found in text in first-seen order.
func (e *Extractor) Extract(text string) []people.RawPerson {
	found, _ := e.ExtractWithStats(text)
	return found
}

// ExtractWithStats is Extract that also reports what the rules did.
func (e *Extractor) ExtractWithStats(text string) ([]people.RawPerson, Stats) {
	stats := Stats{RuleHits: make(map[string]int)}
	found := make([]people.RawPerson, 0)

	text, stats.Truncated = e.prepare(text)
	if text == "" {
		return found, stats
	}

	e.logger.Debug("extracting people from message",
		zap.Int("message_length", utf8.RuneCountInString(text)),
		zap.String("message_preview", utils.TruncateForLog(text, logPreviewLength)),
	)

	seen := make(map[string]struct{})

	for _, rule := range e.rules {
		for _, name := range rule.FindNames(text) {
			if reason := e.reject(name, seen); reason != "" {
				stats.Rejected++
				e.logger.Debug("name rejected",
					zap.String("rule", rule.Name()),
					zap.String("name", name),
					zap.String("reason", reason),
				)
				continue
			}

			if len(found) >= e.maxCandidates {
				stats.Capped = true
				e.logger.Debug("candidate limit reached", zap.Int("limit", e.maxCandidates))
				return found, stats
			}

			seen[name] = struct{}{}
			stats.RuleHits[rule.Name()]++
			person := e.describe(text, name)
			found = append(found, person)

			e.logger.Debug("name accepted",
				zap.String("rule", rule.Name()),
				zap.String("name", name),
				zap.String("role", person.Role),
				zap.String("company", person.Company),
				zap.String("location", person.Location),
			)
		}
	}

	return found, stats
}

func (e *Extractor) prepare(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	text = norm.NFC.String(text)
	if utf8.RuneCountInString(text) <= e.maxLength {
		return text, false
	}
	return string([]rune(text)[:e.maxLength]), true
}

func (e *Extractor) reject(name string, seen map[string]struct{}) string {
	switch {
	case name == "":
		return "empty"
	case utf8.RuneCountInString(name) < minNameLength:
		return "too short"
	}
	if _, ok := seen[name]; ok {
		return "duplicate"
	}
	if e.vocab.isStopword(name) {
		return "stopword"
	}
	return ""
}

// describe builds a person and fills whatever fields the text around the
// first occurrence of the name reveals.
func (e *Extractor) describe(text, name string) people.RawPerson {
	person := people.New(name)

	line, trailing, window := e.segments(text, name)
	around := []string{line, window}

	if role, ok := e.fields.role(name, around); ok {
		person.Role = role
	}
	if company, ok := e.fields.company(around); ok {
		person.Company = company
	}
	// descriptions follow the name; text before it belongs to someone else
	if desc, ok := e.fields.description(person.Role, []string{line, trailing}); ok {
		person.Description = desc
	}
	if tags, ok := e.fields.expertise(around); ok {
		person.Expertise = tags
	}
	if loc, ok := e.fields.location(around); ok {
		person.Location = loc
	}

	return person
}

// segments returns the rest of the line after the name, the rest of the
// window after the name and the whole window around the name.
func (e *Extractor) segments(text, name string) (line, trailing, window string) {
	idx := strings.Index(text, name)
	if idx < 0 {
		return text, text, text
	}

	start := moveBack(text, idx, e.window)
	end := moveForward(text, idx, e.window)
	nameEnd := idx + len(name)
	if nameEnd > end {
		nameEnd = end
	}

	trailing = text[nameEnd:end]
	line = trailing
	if nl := strings.IndexByte(line, '\n'); nl >= 0 {
		line = line[:nl]
	}

	return line, trailing, text[start:end]
}

func moveBack(s string, pos, runes int) int {
	for i := 0; i < runes && pos > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(s[:pos])
		pos -= size
	}
	return pos
}

func moveForward(s string, pos, runes int) int {
	for i := 0; i < runes && pos < len(s); i++ {
		_, size := utf8.DecodeRuneInString(s[pos:])
		pos += size
	}
	return pos
}
