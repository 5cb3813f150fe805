package repository

import (
	"context"
	"slices"
	"sync"

	"github.com/hablacanaria/hablabot/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

// Memory implements Repository in process. Used by the console command and tests.
type Memory struct {
	mu             sync.RWMutex
	taskSelections []*model.TaskSelection
	consents       []*model.Consent
	consentTexts   map[string]*model.ConsentText
	participants   []*model.Participant
	pairs          []*model.Pair
	answers        []*model.Answer
	questions      map[model.QuestionKind]map[model.QuestionID]*model.Question
	sampler        *sampler
}

var _ Repository = (*Memory)(nil)

func NewMemory(opts ...Option) *Memory {
	o := newOptions(opts)
	return &Memory{
		consentTexts: make(map[string]*model.ConsentText),
		questions: map[model.QuestionKind]map[model.QuestionID]*model.Question{
			model.QuestionMultipleChoice: {},
			model.QuestionOpen:           {},
		},
		sampler: &sampler{rng: o.rng},
	}
}

func (r *Memory) PutTaskSelection(ctx context.Context, sel *model.TaskSelection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *sel
	r.taskSelections = append(r.taskSelections, &copied)
	return nil
}

// TaskSelections returns a snapshot of stored task selections
func (r *Memory) TaskSelections() []*model.TaskSelection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.taskSelections)
}

func (r *Memory) PutConsent(ctx context.Context, consent *model.Consent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *consent
	r.consents = append(r.consents, &copied)
	return nil
}

// Consents returns a snapshot of stored consent decisions
func (r *Memory) Consents() []*model.Consent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.consents)
}

func (r *Memory) PutConsentText(ctx context.Context, text *model.ConsentText) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *text
	r.consentTexts[text.Version] = &copied
	return nil
}

func (r *Memory) GetConsentText(ctx context.Context, version string) (*model.ConsentText, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	text, ok := r.consentTexts[version]
	if !ok {
		return nil, goerr.Wrap(model.ErrNotFound, "consent text not found", goerr.V("version", version))
	}
	copied := *text
	return &copied, nil
}

func (r *Memory) PutParticipant(ctx context.Context, p *model.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *p
	r.participants = append(r.participants, &copied)
	return nil
}

// Participants returns a snapshot of stored individual registrations
func (r *Memory) Participants() []*model.Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.participants)
}

func (r *Memory) PutPair(ctx context.Context, pair *model.Pair) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *pair
	r.pairs = append(r.pairs, &copied)
	return nil
}

// Pairs returns a snapshot of stored group registrations
func (r *Memory) Pairs() []*model.Pair {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.pairs)
}

func (r *Memory) PutAnswer(ctx context.Context, answer *model.Answer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *answer
	r.answers = append(r.answers, &copied)
	return nil
}

func (r *Memory) ListAnswers(ctx context.Context, filter AnswerFilter) ([]*model.Answer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var answers []*model.Answer
	for _, a := range r.answers {
		if filter.Match(a) {
			copied := *a
			answers = append(answers, &copied)
		}
	}
	slices.SortStableFunc(answers, func(a, b *model.Answer) int {
		return a.AnsweredAt.Compare(b.AnsweredAt)
	})
	return answers, nil
}

func (r *Memory) PutQuestion(ctx context.Context, q *model.Question) error {
	bank, ok := r.questions[q.Kind]
	if !ok {
		return goerr.Wrap(model.ErrInvalidQuestion, "unknown question kind", goerr.V("kind", q.Kind))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *q
	copied.Options = slices.Clone(q.Options)
	bank[q.ID] = &copied
	return nil
}

func (r *Memory) listQuestions(kind model.QuestionKind, flow model.FlowKind) []*model.Question {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var questions []*model.Question
	for _, q := range r.questions[kind] {
		if q.Applicability.Matches(flow) {
			copied := *q
			copied.Options = slices.Clone(q.Options)
			questions = append(questions, &copied)
		}
	}
	model.SortQuestions(questions)
	return questions
}

func (r *Memory) SampleMultipleChoice(ctx context.Context, flow model.FlowKind, n int) ([]*model.Question, error) {
	return r.sampler.pick(r.listQuestions(model.QuestionMultipleChoice, flow), n), nil
}

func (r *Memory) ListMultipleChoice(ctx context.Context, flow model.FlowKind) ([]*model.Question, error) {
	return r.listQuestions(model.QuestionMultipleChoice, flow), nil
}

func (r *Memory) ListOpenQuestions(ctx context.Context, flow model.FlowKind) ([]*model.Question, error) {
	return r.listQuestions(model.QuestionOpen, flow), nil
}
