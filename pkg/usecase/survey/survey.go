package survey

import (
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/hablacanaria/hablabot/pkg/adapter"
	"github.com/hablacanaria/hablabot/pkg/repository"
	"github.com/m-mizutani/goerr/v2"
)

var (
	// ErrConfiguration marks faults caused by missing or insufficient deployment data
	ErrConfiguration = goerr.New("invalid survey configuration")

	// ErrRetryable marks faults after which the current state can be prompted again
	ErrRetryable = goerr.New("retryable fault")
)

type retryableError struct {
	err error
}

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

func (e *retryableError) Is(target error) bool {
	return target == ErrRetryable
}

// retryable marks err so that the dispatcher keeps the session and re-prompts
func retryable(err error) error {
	if err == nil {
		return nil
	}
	return &retryableError{err: err}
}

// IsRetryable reports whether err leaves the session resumable
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRetryable)
}

// UseCase runs survey conversations
type UseCase struct {
	repo     repository.Repository
	channel  adapter.Channel
	audio    adapter.AudioStore
	sessions *SessionStore
	rngMu    sync.Mutex
	rng      *rand.Rand
	now      func() time.Time
}

// Option is a functional option for UseCase
type Option func(*UseCase)

// WithRand sets the random source used to pick open question groups
func WithRand(rng *rand.Rand) Option {
	return func(uc *UseCase) {
		uc.rng = rng
	}
}

// WithClock sets the time source used for timestamps and age checks
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) {
		uc.now = now
	}
}

// WithSessionStore shares a session store between use cases
func WithSessionStore(store *SessionStore) Option {
	return func(uc *UseCase) {
		uc.sessions = store
	}
}

// New creates a new survey UseCase instance
func New(
	repo repository.Repository,
	channel adapter.Channel,
	audio adapter.AudioStore,
	opts ...Option,
) *UseCase {
	seed := uint64(time.Now().UnixNano())
	uc := &UseCase{
		repo:     repo,
		channel:  channel,
		audio:    audio,
		sessions: NewSessionStore(),
		rng:      rand.New(rand.NewPCG(seed, seed>>1)),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// Sessions returns the session store
func (uc *UseCase) Sessions() *SessionStore {
	return uc.sessions
}
