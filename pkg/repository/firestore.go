package repository

import (
	"context"
	"slices"

	"cloud.google.com/go/firestore"
	"github.com/hablacanaria/hablabot/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Firestore implements Repository on Cloud Firestore. Every record type has
// its own collection and the record ID is the document ID.
type Firestore struct {
	client  *firestore.Client
	sampler *sampler
}

var _ Repository = (*Firestore)(nil)

// NewFirestore creates a new Firestore repository
func NewFirestore(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("project_id", projectID),
			goerr.V("database_id", databaseID))
	}

	o := newOptions(opts)
	return &Firestore{
		client:  client,
		sampler: &sampler{rng: o.rng},
	}, nil
}

// Close closes the underlying client
func (r *Firestore) Close() error {
	return r.client.Close()
}

func (r *Firestore) put(ctx context.Context, collection, id string, v any) error {
	if _, err := r.client.Collection(collection).Doc(id).Set(ctx, v); err != nil {
		return goerr.Wrap(err, "failed to put document",
			goerr.V("collection", collection),
			goerr.V("id", id))
	}
	return nil
}

func (r *Firestore) PutTaskSelection(ctx context.Context, sel *model.TaskSelection) error {
	return r.put(ctx, collectionTaskSelections, string(sel.ID), sel)
}

func (r *Firestore) PutConsent(ctx context.Context, consent *model.Consent) error {
	return r.put(ctx, collectionConsents, string(consent.ID), consent)
}

func (r *Firestore) PutConsentText(ctx context.Context, text *model.ConsentText) error {
	return r.put(ctx, collectionConsentTexts, text.Version, text)
}

func (r *Firestore) GetConsentText(ctx context.Context, version string) (*model.ConsentText, error) {
	doc, err := r.client.Collection(collectionConsentTexts).Doc(version).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrNotFound, "consent text not found", goerr.V("version", version))
		}
		return nil, goerr.Wrap(err, "failed to get consent text", goerr.V("version", version))
	}

	var text model.ConsentText
	if err := doc.DataTo(&text); err != nil {
		return nil, goerr.Wrap(err, "failed to decode consent text", goerr.V("version", version))
	}
	return &text, nil
}

func (r *Firestore) PutParticipant(ctx context.Context, p *model.Participant) error {
	return r.put(ctx, collectionParticipants, string(p.ID), p)
}

func (r *Firestore) PutPair(ctx context.Context, pair *model.Pair) error {
	return r.put(ctx, collectionPairs, string(pair.ID), pair)
}

func (r *Firestore) PutAnswer(ctx context.Context, answer *model.Answer) error {
	return r.put(ctx, collectionAnswers, string(answer.ID), answer)
}

// ListAnswers sorts on the client so that no composite index is needed
func (r *Firestore) ListAnswers(ctx context.Context, filter AnswerFilter) ([]*model.Answer, error) {
	q := r.client.Collection(collectionAnswers).Query
	if filter.UserID != "" {
		q = q.Where("user_id", "==", filter.UserID)
	}
	if filter.PairID != "" {
		q = q.Where("pair_id", "==", string(filter.PairID))
	}
	if !filter.Since.IsZero() {
		q = q.Where("answered_at", ">=", filter.Since)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var answers []*model.Answer
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate answers")
		}

		var answer model.Answer
		if err := doc.DataTo(&answer); err != nil {
			return nil, goerr.Wrap(err, "failed to decode answer", goerr.V("doc_id", doc.Ref.ID))
		}
		answers = append(answers, &answer)
	}

	slices.SortStableFunc(answers, func(a, b *model.Answer) int {
		return a.AnsweredAt.Compare(b.AnsweredAt)
	})
	return answers, nil
}

func (r *Firestore) PutQuestion(ctx context.Context, q *model.Question) error {
	return r.put(ctx, questionCollection(q.Kind), string(q.ID), q)
}

func (r *Firestore) listQuestions(ctx context.Context, kind model.QuestionKind, flow model.FlowKind) ([]*model.Question, error) {
	iter := r.client.Collection(questionCollection(kind)).
		Where("applicability", "in", applicabilityValues(flow)).
		Documents(ctx)
	defer iter.Stop()

	var questions []*model.Question
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate questions",
				goerr.V("kind", kind),
				goerr.V("flow", flow))
		}

		var q model.Question
		if err := doc.DataTo(&q); err != nil {
			return nil, goerr.Wrap(err, "failed to decode question", goerr.V("doc_id", doc.Ref.ID))
		}
		q.Kind = kind
		questions = append(questions, &q)
	}

	model.SortQuestions(questions)
	return questions, nil
}

// SampleMultipleChoice shuffles on the client; Firestore has no random sampling
func (r *Firestore) SampleMultipleChoice(ctx context.Context, flow model.FlowKind, n int) ([]*model.Question, error) {
	questions, err := r.listQuestions(ctx, model.QuestionMultipleChoice, flow)
	if err != nil {
		return nil, err
	}
	return r.sampler.pick(questions, n), nil
}

func (r *Firestore) ListMultipleChoice(ctx context.Context, flow model.FlowKind) ([]*model.Question, error) {
	return r.listQuestions(ctx, model.QuestionMultipleChoice, flow)
}

func (r *Firestore) ListOpenQuestions(ctx context.Context, flow model.FlowKind) ([]*model.Question, error) {
	return r.listQuestions(ctx, model.QuestionOpen, flow)
}
