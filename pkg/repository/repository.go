package repository

import (
	"context"
	"time"

	"github.com/hablacanaria/hablabot/pkg/model"
)

// AnswerFilter narrows ListAnswers. Zero values match everything.
type AnswerFilter struct {
	UserID string
	PairID model.PairID
	Since  time.Time
}

// Match reports whether the answer passes the filter
func (f AnswerFilter) Match(a *model.Answer) bool {
	if f.UserID != "" && a.UserID != f.UserID {
		return false
	}
	if f.PairID != "" && a.PairID != f.PairID {
		return false
	}
	if !f.Since.IsZero() && a.AnsweredAt.Before(f.Since) {
		return false
	}
	return true
}

// Repository defines the interface for survey data persistence
type Repository interface {
	// PutTaskSelection saves the flow chosen by a user
	PutTaskSelection(ctx context.Context, sel *model.TaskSelection) error

	// GetConsentText retrieves a consent text by version. Returns model.ErrNotFound if missing.
	GetConsentText(ctx context.Context, version string) (*model.ConsentText, error)

	// PutConsentText saves or replaces a consent text
	PutConsentText(ctx context.Context, text *model.ConsentText) error

	// PutConsent saves a consent decision
	PutConsent(ctx context.Context, consent *model.Consent) error

	// PutParticipant saves an individual registration
	PutParticipant(ctx context.Context, p *model.Participant) error

	// PutPair saves a group registration
	PutPair(ctx context.Context, pair *model.Pair) error

	// PutAnswer saves one answer
	PutAnswer(ctx context.Context, answer *model.Answer) error

	// ListAnswers retrieves answers ordered by AnsweredAt
	ListAnswers(ctx context.Context, filter AnswerFilter) ([]*model.Answer, error)

	// PutQuestion saves or replaces a question in the bank of its kind
	PutQuestion(ctx context.Context, q *model.Question) error

	// SampleMultipleChoice returns up to n random multiple-choice questions applicable to flow
	SampleMultipleChoice(ctx context.Context, flow model.FlowKind, n int) ([]*model.Question, error)

	// ListMultipleChoice returns multiple-choice questions applicable to flow in bank order
	ListMultipleChoice(ctx context.Context, flow model.FlowKind) ([]*model.Question, error)

	// ListOpenQuestions returns open questions applicable to flow in bank order
	ListOpenQuestions(ctx context.Context, flow model.FlowKind) ([]*model.Question, error)
}

const (
	collectionTaskSelections = "task_selections"
	collectionConsents       = "consents"
	collectionConsentTexts   = "consent_texts"
	collectionParticipants   = "participants"
	collectionPairs          = "pairs"
	collectionAnswers        = "answers"
	collectionMultipleChoice = "multiple_choice_questions"
	collectionOpenQuestions  = "open_questions"
)

func questionCollection(kind model.QuestionKind) string {
	if kind == model.QuestionOpen {
		return collectionOpenQuestions
	}
	return collectionMultipleChoice
}

func applicabilityValues(flow model.FlowKind) []string {
	values := model.ApplicableTo(flow)
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
