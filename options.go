package pddlrun

import (
	"time"

	"github.com/rs/zerolog"
)

// Option configures a Planner.
type Option func(*Planner)

// WithLogger sets the planner's logger.
func WithLogger(log zerolog.Logger) Option {
	return func(p *Planner) {
		p.log = log
	}
}

// WithWorkDir sets the directory the planner subprocess runs in. The
// planner drops its fixed-name result file there, so concurrent
// invocations must use distinct working directories.
func WithWorkDir(dir string) Option {
	return func(p *Planner) {
		p.workDir = dir
	}
}

// WithResultLocator overrides how a finished run is detected.
func WithResultLocator(locator ResultLocator) Option {
	return func(p *Planner) {
		p.locator = locator
	}
}

// WithTTY runs the planner attached to a pseudo-terminal.
func WithTTY(enabled bool) Option {
	return func(p *Planner) {
		p.useTTY = enabled
	}
}

// WithFilePattern overrides the plan file prefix and extension used for
// indexed output slots.
func WithFilePattern(prefix, ext string) Option {
	return func(p *Planner) {
		p.planPrefix = prefix
		p.planExt = ext
	}
}

// WithSleep overrides the retry backoff sleep, for tests.
func WithSleep(sleep func(time.Duration)) Option {
	return func(p *Planner) {
		p.sleep = sleep
	}
}
