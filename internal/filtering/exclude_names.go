package filtering

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/replica-matcher/internal/people"
)

type excludeNamesFilter struct {
	toggle
	names []string
}

// NewExcludeNames creates a filter that removes candidates listed in the config.
func NewExcludeNames() Filter {
	return &excludeNamesFilter{}
}

func (f *excludeNamesFilter) Name() string { return "exclude_names" }

func (f *excludeNamesFilter) Validate(cfg *Config) error {
	f.names = nil
	if cfg != nil {
		f.names = append(f.names, cfg.ExcludeNames...)
	}
	return nil
}

func (f *excludeNamesFilter) Apply(_ context.Context, deps Deps, c *people.Candidates) (*people.Candidates, Step, error) {
	initial := c.Len()
	if len(f.names) == 0 {
		return c, Step{Initial: initial, Dropped: 0, Left: c.Len()}, nil
	}

	excluded := c.Exclude(people.NameField, f.names)
	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Info("excluding people by name",
			zap.Strings("excluded_people", excluded),
			zap.Int("people_left", c.Len()),
		)
	}

	return c, Step{Initial: initial, Dropped: len(excluded), Left: c.Len()}, nil
}

func (f *excludeNamesFilter) Status() Status {
	details := map[string]string{}
	if len(f.names) > 0 {
		details["names"] = strings.Join(f.names, ",")
	}
	return f.status(f.Name(), details)
}
