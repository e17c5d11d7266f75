package engine

import (
	"errors"
	"runtime"
	"time"

	"go.uber.org/zap"
)

// ErrInvalidRuleSet is returned when a rule breaks a structural invariant:
// an unknown transform type, an empty path or an expression without logic.
var ErrInvalidRuleSet = errors.New("invalid rule set")

// Engine executes rule sets.
type Engine struct {
	now         func() time.Time
	logger      *zap.Logger
	concurrency int
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock read by getCurrentDate.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger == nil {
			logger = zap.NewNop()
		}

		e.logger = logger
	}
}

// WithConcurrency bounds the documents processed at once by TransformEach.
// Values below one are treated as one.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		e.concurrency = max(n, 1)
	}
}

// New creates an Engine. By default it uses the wall clock, a no-op logger
// and GOMAXPROCS workers.
func New(opts ...Option) *Engine {
	e := &Engine{
		now:         time.Now,
		logger:      zap.NewNop(),
		concurrency: runtime.GOMAXPROCS(0),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}
