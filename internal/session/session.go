// Package session turns assistant chat messages into ranked people lists.
//
// A Tracker keeps the result of the most recent assistant message. Messages
// may be observed concurrently; a result computed for an older message never
// replaces the result of a newer one.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/replica-matcher/internal/extraction"
	"github.com/spigell/replica-matcher/internal/filtering"
	"github.com/spigell/replica-matcher/internal/logger"
	"github.com/spigell/replica-matcher/internal/metrics"
	"github.com/spigell/replica-matcher/internal/people"
	"github.com/spigell/replica-matcher/internal/ranking"
	"github.com/spigell/replica-matcher/internal/trigger"
)

var (
	// ErrStale is returned when a newer message has already been processed.
	ErrStale = errors.New("message is older than the current result")
	// ErrNotAssistant is returned for messages that were not written by a replica.
	ErrNotAssistant = errors.New("message is not an assistant message")
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat message.
type Message struct {
	ID      string    `json:"id"`
	Role    Role      `json:"role"`
	Content string    `json:"content"`
	Replica string    `json:"replica,omitempty"`
	Created time.Time `json:"created_at"`
	// UserQuery is the user request the message answers, if known.
	UserQuery string `json:"user_query,omitempty"`
}

// Result is the ranked people list derived from one assistant message.
type Result struct {
	MessageID string                `json:"message_id"`
	Replica   string                `json:"replica,omitempty"`
	Category  trigger.Category      `json:"category"`
	Query     string                `json:"query"`
	People    []people.RankedPerson `json:"people"`
	Created   time.Time             `json:"created_at"`
}

// Best returns the best match or nil for an empty list.
func (r *Result) Best() *people.RankedPerson {
	if r == nil {
		return nil
	}
	ranked := people.Ranked{Items: r.People}
	return ranked.Best()
}

// Config controls query resolution and filtering.
type Config struct {
	// FallbackQuery is used when neither a marker nor the message carries a query.
	FallbackQuery string
	Filters       *filtering.Config
}

// Deps are the collaborators of a Tracker. Nil fields get defaults.
type Deps struct {
	Extractor *extraction.Extractor
	Ranker    *ranking.Ranker
	Filters   []filtering.Filter
	Metrics   *metrics.Metrics
	Logger    *zap.Logger
}

type Tracker struct {
	extractor *extraction.Extractor
	ranker    *ranking.Ranker
	filters   []filtering.Filter
	fallback  string
	metrics   *metrics.Metrics
	logger    *zap.Logger
	now       func() time.Time

	mu      sync.RWMutex
	current *Result
}

// New validates the filters against cfg and returns a Tracker.
func New(deps Deps, cfg Config) (*Tracker, error) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Extractor == nil {
		deps.Extractor = extraction.New(extraction.Config{}, deps.Logger)
	}
	if deps.Ranker == nil {
		deps.Ranker = ranking.New(nil, deps.Logger)
	}

	if err := filtering.Validate(cfg.Filters, deps.Filters); err != nil {
		return nil, fmt.Errorf("validating filters: %w", err)
	}

	return &Tracker{
		extractor: deps.Extractor,
		ranker:    deps.Ranker,
		filters:   deps.Filters,
		fallback:  cfg.FallbackQuery,
		metrics:   deps.Metrics,
		logger:    deps.Logger,
		now:       time.Now,
	}, nil
}

// Observe processes one assistant message and makes its result current.
// Messages created before the current result are rejected with ErrStale.
func (t *Tracker) Observe(ctx context.Context, msg Message) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if msg.Role != RoleAssistant {
		t.metrics.RecordMessage(metrics.ResultNotAssistant)
		return nil, fmt.Errorf("%w: role %q", ErrNotAssistant, msg.Role)
	}

	if msg.Created.IsZero() {
		msg.Created = t.now()
	}

	if t.isStale(msg.Created) {
		t.metrics.RecordMessage(metrics.ResultStale)
		return nil, ErrStale
	}

	started := time.Now()
	result, err := t.process(ctx, msg)
	if err != nil {
		t.metrics.RecordMessage(metrics.ResultFailed)
		return nil, err
	}
	t.metrics.ObserveDuration(time.Since(started))

	t.mu.Lock()
	if t.current != nil && msg.Created.Before(t.current.Created) {
		t.mu.Unlock()
		t.metrics.RecordMessage(metrics.ResultStale)
		return nil, ErrStale
	}
	t.current = result
	t.mu.Unlock()

	t.metrics.RecordMessage(metrics.ResultProcessed)
	t.metrics.RecordCurrent(len(result.People))

	return result.clone(), nil
}

// ObserveLatest processes the last assistant message of a conversation. When
// that message has no UserQuery, the closest preceding user message is used.
func (t *Tracker) ObserveLatest(ctx context.Context, history []Message) (*Result, error) {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role != RoleAssistant {
			continue
		}

		msg := history[i]
		if msg.UserQuery == "" {
			for j := i - 1; j >= 0; j-- {
				if history[j].Role == RoleUser {
					msg.UserQuery = history[j].Content
					break
				}
			}
		}
		return t.Observe(ctx, msg)
	}

	return nil, fmt.Errorf("%w: no assistant message in history", ErrNotAssistant)
}

// Current returns a copy of the current result.
func (t *Tracker) Current() (*Result, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.current == nil {
		return nil, false
	}
	return t.current.clone(), true
}

// Clear drops the current result.
func (t *Tracker) Clear() {
	t.mu.Lock()
	t.current = nil
	t.mu.Unlock()

	t.metrics.RecordCurrent(0)
}

// Filters returns the status of the configured filters.
func (t *Tracker) Filters() []filtering.Status {
	return filtering.Describe(t.filters)
}

func (t *Tracker) isStale(created time.Time) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current != nil && created.Before(t.current.Created)
}

func (t *Tracker) process(ctx context.Context, msg Message) (*Result, error) {
	category, query := t.resolve(msg)
	log := logger.With(t.logger, logger.MessageFields(msg.ID, msg.Replica, string(category))...)

	found, stats := t.extractor.ExtractWithStats(trigger.Strip(msg.Content))
	t.metrics.RecordExtraction(stats.RuleHits, stats.Rejected, len(found))

	candidates, err := filtering.Run(ctx, filtering.Deps{Logger: log}, t.filters, &people.Candidates{Items: found})
	if err != nil {
		return nil, fmt.Errorf("filtering people: %w", err)
	}

	ranked := t.ranker.Rank(candidates.Items, query)

	log.Debug("people list updated",
		zap.String("query", query),
		zap.Int("extracted", len(found)),
		zap.Int("ranked", len(ranked)),
		zap.Bool("truncated", stats.Truncated),
		zap.Bool("capped", stats.Capped),
	)

	return &Result{
		MessageID: msg.ID,
		Replica:   msg.Replica,
		Category:  category,
		Query:     query,
		People:    ranked,
		Created:   msg.Created,
	}, nil
}

// resolve picks the category and scoring query: a people-list marker wins,
// then the message's user query, then the configured fallback.
func (t *Tracker) resolve(msg Message) (trigger.Category, string) {
	category := trigger.General
	query := msg.UserQuery
	if query == "" {
		query = t.fallback
	}

	marker, err := trigger.Parse(msg.Content)
	switch {
	case errors.Is(err, trigger.ErrNoMarker):
		return category, query
	case err != nil:
		t.metrics.RecordTriggerError()
		t.logger.Warn("ignoring malformed trigger marker",
			zap.String("message_id", msg.ID),
			zap.Error(err),
		)
		return category, query
	case !marker.ShowsPeople():
		t.logger.Debug("ignoring trigger marker", zap.String("action", marker.Action))
		return category, query
	}

	if marker.Payload.Query != "" {
		query = marker.Payload.Query
	}

	switch {
	case marker.Payload.Category.Valid():
		category = marker.Payload.Category
	default:
		if detected, ok := trigger.DetectCategory(query); ok {
			category = detected
		}
	}

	return category, query
}

func (r *Result) clone() *Result {
	c := *r
	c.People = make([]people.RankedPerson, len(r.People))
	copy(c.People, r.People)
	return &c
}
