package model

import (
	"cmp"
	"slices"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

var (
	ErrNotFound             = goerr.New("not found")
	ErrInvalidQuestion      = goerr.New("invalid question")
	ErrInvalidApplicability = goerr.New("invalid applicability")
)

type QuestionID string

// GroupKey returns the part of the ID before the first dot. Open questions
// sharing a group key are asked together.
func (id QuestionID) GroupKey() string {
	key, _, _ := strings.Cut(string(id), ".")
	return key
}

type QuestionKind string

const (
	QuestionMultipleChoice QuestionKind = "multiple_choice"
	QuestionOpen           QuestionKind = "open"
)

// Applicability tells which flows may ask a question
type Applicability string

const (
	ApplicabilityIndividual Applicability = "individual"
	ApplicabilityGroup      Applicability = "group"
	ApplicabilityBoth       Applicability = "both"
)

// Validate checks if the applicability is valid
func (a Applicability) Validate() error {
	switch a {
	case ApplicabilityIndividual, ApplicabilityGroup, ApplicabilityBoth:
		return nil
	default:
		return goerr.Wrap(ErrInvalidApplicability, "unknown applicability", goerr.V("applicability", a))
	}
}

// ApplicableTo returns the applicability values a flow may draw from
func ApplicableTo(flow FlowKind) []Applicability {
	if flow == FlowGroup {
		return []Applicability{ApplicabilityGroup, ApplicabilityBoth}
	}
	return []Applicability{ApplicabilityIndividual, ApplicabilityBoth}
}

// Matches reports whether a question with this applicability may be asked in flow
func (a Applicability) Matches(flow FlowKind) bool {
	for _, v := range ApplicableTo(flow) {
		if v == a {
			return true
		}
	}
	return false
}

type Question struct {
	ID            QuestionID    `firestore:"id" bson:"_id" yaml:"id"`
	Prompt        string        `firestore:"prompt" bson:"prompt" yaml:"prompt"`
	Kind          QuestionKind  `firestore:"kind" bson:"kind" yaml:"-"`
	Options       []string      `firestore:"options,omitempty" bson:"options,omitempty" yaml:"options,omitempty"`
	Applicability Applicability `firestore:"applicability" bson:"applicability" yaml:"applicability"`
	// Position orders a bank; ties are broken by ID
	Position int `firestore:"position" bson:"position" yaml:"position"`
}

// Validate checks the question shape. Multiple-choice questions with no
// options are valid here and skipped at runtime.
func (q *Question) Validate() error {
	if q.ID == "" {
		return goerr.Wrap(ErrInvalidQuestion, "question id is empty")
	}
	if strings.TrimSpace(q.Prompt) == "" {
		return goerr.Wrap(ErrInvalidQuestion, "question prompt is empty", goerr.V("id", q.ID))
	}
	switch q.Kind {
	case QuestionMultipleChoice:
	case QuestionOpen:
		if len(q.Options) > 0 {
			return goerr.Wrap(ErrInvalidQuestion, "open question has options", goerr.V("id", q.ID))
		}
	default:
		return goerr.Wrap(ErrInvalidQuestion, "unknown question kind", goerr.V("id", q.ID), goerr.V("kind", q.Kind))
	}
	if err := q.Applicability.Validate(); err != nil {
		return goerr.Wrap(err, "invalid question", goerr.V("id", q.ID))
	}
	return nil
}

// SortQuestions orders questions by Position then ID, in place
func SortQuestions(questions []*Question) {
	slices.SortStableFunc(questions, func(a, b *Question) int {
		if c := cmp.Compare(a.Position, b.Position); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
