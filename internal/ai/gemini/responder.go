package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/replica-matcher/internal/ai"
	"github.com/spigell/replica-matcher/internal/logger"
	"github.com/spigell/replica-matcher/internal/replica"
	"github.com/spigell/replica-matcher/internal/trigger"
	"github.com/spigell/replica-matcher/internal/utils"
)

const (
	providerName        = "gemini"
	defaultMaxLogLength = 200
	unknownCategory     = "any"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
	Model() string
}

//go:embed prompt.md
var promptTemplate string

// Responder asks Gemini to answer as a replica persona.
type Responder struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

var _ ai.Responder = (*Responder)(nil)

func NewResponder(generator contentGenerator, maxLogLength int, log *zap.Logger) *Responder {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Responder{
		generator: generator,
		logger:    logger.WithAI(log, providerName, generator.Model()),
		maxLogLen: maxLogLength,
	}
}

// Reply sends query to the persona. When the reply has no trigger marker but
// the query names a people category, a marker for that category is appended.
func (r *Responder) Reply(ctx context.Context, persona replica.Persona, query string) (*ai.Reply, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query is required")
	}

	tmpl := persona.Template()
	if tmpl.Name == "" {
		return nil, replica.ErrUnknownPersona
	}

	category, detected := trigger.DetectCategory(query)
	prompt := buildPrompt(query, category, detected)

	log := r.logger.With(logger.SessionFields(persona.String(), string(category))...)
	log.Debug("gemini generate content request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, r.maxLogLen)),
	)

	raw, err := r.generator.GenerateContent(ctx, tmpl.SystemMessage, prompt)
	if err != nil {
		return nil, err
	}

	log.Debug("gemini generate content response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, r.maxLogLen)),
	)

	text := raw
	if _, err := trigger.Parse(raw); errors.Is(err, trigger.ErrNoMarker) && detected {
		marker, err := trigger.Generate(category, trigger.SearchKeywords(query))
		if err != nil {
			return nil, fmt.Errorf("appending people list marker: %w", err)
		}
		text = raw + "\n\n" + marker
	}

	return &ai.Reply{Text: text, Model: r.generator.Model()}, nil
}

func buildPrompt(query string, category trigger.Category, detected bool) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "User request:\n{{QUERY}}\n\nPeople category: {{CATEGORY}}"
	}

	categoryText := unknownCategory
	if detected {
		categoryText = string(category)
	}

	prompt := strings.ReplaceAll(template, "{{QUERY}}", query)
	prompt = strings.ReplaceAll(prompt, "{{CATEGORY}}", categoryText)
	return prompt
}
