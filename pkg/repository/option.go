package repository

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/hablacanaria/hablabot/pkg/model"
)

type Option func(*repoOptions)

type repoOptions struct {
	rng *rand.Rand
}

// WithRand sets the random source used for client-side sampling
func WithRand(rng *rand.Rand) Option {
	return func(o *repoOptions) {
		o.rng = rng
	}
}

func newOptions(opts []Option) *repoOptions {
	o := &repoOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if o.rng == nil {
		seed := uint64(time.Now().UnixNano())
		o.rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return o
}

// sampler guards a *rand.Rand, which is not safe for concurrent use
type sampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// pick shuffles questions in place and returns at most n of them
func (s *sampler) pick(questions []*model.Question, n int) []*model.Question {
	s.mu.Lock()
	s.rng.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})
	s.mu.Unlock()

	if n < len(questions) {
		return questions[:n]
	}
	return questions
}
