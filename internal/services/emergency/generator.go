package emergency

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Generator is the external text generator: one prompt in, one text response out.
// Implementations must be safe for concurrent use if the Engine is shared.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFactory builds the generator client. It is called at most once per Handle.
type GeneratorFactory func() (Generator, error)

// HandleState is the lifecycle state of a generator Handle
type HandleState int

const (
	StateUninitialized HandleState = iota
	StateReady
	StateDisabled
)

func (s HandleState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateDisabled:
		return "disabled"
	default:
		return fmt.Sprintf("HandleState(%d)", int(s))
	}
}

// Handle lazily initializes a Generator exactly once. A failed or skipped
// initialization leaves the handle disabled for its whole lifetime.
type Handle struct {
	factory GeneratorFactory
	logger  zerolog.Logger

	once      sync.Once
	mu        sync.RWMutex
	state     HandleState
	generator Generator
	initErr   error
}

// NewHandle returns an uninitialized handle. A nil factory yields a handle that
// disables itself on first use.
func NewHandle(factory GeneratorFactory, logger zerolog.Logger) *Handle {
	return &Handle{
		factory: factory,
		logger:  logger,
		state:   StateUninitialized,
	}
}

// Get returns the generator, initializing it on first call. Once disabled it
// always returns ErrGeneratorDisabled wrapping the original cause.
func (h *Handle) Get() (Generator, error) {
	h.once.Do(h.initialize)

	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.state != StateReady {
		return nil, fmt.Errorf("%w: %v", ErrGeneratorDisabled, h.initErr)
	}
	return h.generator, nil
}

// State reports the current lifecycle state without triggering initialization
func (h *Handle) State() HandleState {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}

func (h *Handle) initialize() {
	var (
		gen Generator
		err error
	)

	if h.factory == nil {
		err = ErrNoCredential
	} else {
		gen, err = h.factory()
		if err == nil && gen == nil {
			err = fmt.Errorf("generator factory returned nil client")
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err != nil {
		h.state = StateDisabled
		h.initErr = err
		h.logger.Info().
			Err(err).
			Msg("External generator unavailable, running in fallback-only mode")
		return
	}

	h.state = StateReady
	h.generator = gen
	h.logger.Info().Msg("External generator initialized")
}
