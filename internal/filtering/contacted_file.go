package filtering

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/replica-matcher/internal/people"
)

type contactedFileFilter struct {
	toggle
	path string
}

// NewContactedFile creates a filter that removes people already recorded in the contacted file.
func NewContactedFile() Filter {
	return &contactedFileFilter{}
}

func (f *contactedFileFilter) Name() string { return "contacted_file" }

func (f *contactedFileFilter) Validate(cfg *Config) error {
	f.path = ""
	if cfg != nil {
		f.path = strings.TrimSpace(cfg.ContactedFile)
	}
	return nil
}

func (f *contactedFileFilter) Apply(_ context.Context, deps Deps, c *people.Candidates) (*people.Candidates, Step, error) {
	initial := c.Len()
	if f.path == "" {
		return c, Step{Initial: initial, Dropped: 0, Left: c.Len()}, nil
	}

	contacted, err := people.GetContactedFromFile(f.path)
	if err != nil {
		return c, Step{}, fmt.Errorf("getting contacted people from file: %w", err)
	}

	removed := c.Exclude(people.NameField, contacted.Names())
	if deps.Logger != nil && len(removed) > 0 {
		deps.Logger.Info("excluding people based on contacted file",
			zap.String("path", f.path),
			zap.Strings("excluded_people", removed),
			zap.Int("people_left", c.Len()),
		)
	}

	return c, Step{Initial: initial, Dropped: len(removed), Left: c.Len()}, nil
}

func (f *contactedFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return f.status(f.Name(), details)
}
