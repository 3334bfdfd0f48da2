package filtering

import (
	"context"
	"errors"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/replica-matcher/internal/people"
)

type limitFilter struct {
	toggle
	limit int
}

// NewLimit creates a filter that keeps only the first configured number of candidates.
func NewLimit() Filter {
	return &limitFilter{}
}

func (f *limitFilter) Name() string { return "limit" }

func (f *limitFilter) Validate(cfg *Config) error {
	f.limit = 0
	if cfg == nil {
		return nil
	}
	if cfg.Limit < 0 {
		return errors.New("limit must not be negative")
	}
	f.limit = cfg.Limit
	return nil
}

func (f *limitFilter) Apply(_ context.Context, deps Deps, c *people.Candidates) (*people.Candidates, Step, error) {
	initial := c.Len()
	dropped := c.Truncate(f.limit)
	if deps.Logger != nil && len(dropped) > 0 {
		deps.Logger.Info("dropping people over the limit",
			zap.Int("limit", f.limit),
			zap.Strings("dropped_people", dropped),
		)
	}
	return c, Step{Initial: initial, Dropped: len(dropped), Left: c.Len()}, nil
}

func (f *limitFilter) Status() Status {
	details := map[string]string{}
	if f.limit > 0 {
		details["limit"] = strconv.Itoa(f.limit)
	}
	return f.status(f.Name(), details)
}
