package repository

import (
	"context"
	"errors"

	"github.com/hablacanaria/hablabot/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo implements Repository on MongoDB. Collections have the same names as
// on Firestore and documents are keyed by the record ID in _id.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ Repository = (*Mongo)(nil)

// NewMongo connects to uri and uses the named database
func NewMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to connect mongodb", goerr.V("database", database))
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, goerr.Wrap(err, "failed to ping mongodb", goerr.V("database", database))
	}

	return &Mongo{
		client: client,
		db:     client.Database(database),
	}, nil
}

// Close disconnects the client
func (r *Mongo) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *Mongo) insert(ctx context.Context, collection string, doc any) error {
	if _, err := r.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to insert document", goerr.V("collection", collection))
	}
	return nil
}

func (r *Mongo) upsert(ctx context.Context, collection, id string, doc any) error {
	_, err := r.db.Collection(collection).ReplaceOne(ctx,
		bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return goerr.Wrap(err, "failed to upsert document",
			goerr.V("collection", collection),
			goerr.V("id", id))
	}
	return nil
}

func (r *Mongo) PutTaskSelection(ctx context.Context, sel *model.TaskSelection) error {
	return r.insert(ctx, collectionTaskSelections, sel)
}

func (r *Mongo) PutConsent(ctx context.Context, consent *model.Consent) error {
	return r.insert(ctx, collectionConsents, consent)
}

func (r *Mongo) PutConsentText(ctx context.Context, text *model.ConsentText) error {
	return r.upsert(ctx, collectionConsentTexts, text.Version, text)
}

func (r *Mongo) GetConsentText(ctx context.Context, version string) (*model.ConsentText, error) {
	var text model.ConsentText
	err := r.db.Collection(collectionConsentTexts).FindOne(ctx, bson.M{"_id": version}).Decode(&text)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, goerr.Wrap(model.ErrNotFound, "consent text not found", goerr.V("version", version))
		}
		return nil, goerr.Wrap(err, "failed to get consent text", goerr.V("version", version))
	}
	return &text, nil
}

func (r *Mongo) PutParticipant(ctx context.Context, p *model.Participant) error {
	return r.insert(ctx, collectionParticipants, p)
}

func (r *Mongo) PutPair(ctx context.Context, pair *model.Pair) error {
	return r.insert(ctx, collectionPairs, pair)
}

func (r *Mongo) PutAnswer(ctx context.Context, answer *model.Answer) error {
	return r.insert(ctx, collectionAnswers, answer)
}

func (r *Mongo) ListAnswers(ctx context.Context, filter AnswerFilter) ([]*model.Answer, error) {
	query := bson.M{}
	if filter.UserID != "" {
		query["user_id"] = filter.UserID
	}
	if filter.PairID != "" {
		query["pair_id"] = string(filter.PairID)
	}
	if !filter.Since.IsZero() {
		query["answered_at"] = bson.M{"$gte": filter.Since}
	}

	cur, err := r.db.Collection(collectionAnswers).Find(ctx, query,
		options.Find().SetSort(bson.D{{Key: "answered_at", Value: 1}}))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to find answers")
	}

	var answers []*model.Answer
	if err := cur.All(ctx, &answers); err != nil {
		return nil, goerr.Wrap(err, "failed to decode answers")
	}
	return answers, nil
}

func (r *Mongo) PutQuestion(ctx context.Context, q *model.Question) error {
	return r.upsert(ctx, questionCollection(q.Kind), string(q.ID), q)
}

func applicabilityMatch(flow model.FlowKind) bson.M {
	return bson.M{"applicability": bson.M{"$in": applicabilityValues(flow)}}
}

func (r *Mongo) decodeQuestions(ctx context.Context, cur *mongo.Cursor, kind model.QuestionKind) ([]*model.Question, error) {
	var questions []*model.Question
	if err := cur.All(ctx, &questions); err != nil {
		return nil, goerr.Wrap(err, "failed to decode questions", goerr.V("kind", kind))
	}
	for _, q := range questions {
		q.Kind = kind
	}
	return questions, nil
}

// SampleMultipleChoice draws server side with $sample
func (r *Mongo) SampleMultipleChoice(ctx context.Context, flow model.FlowKind, n int) ([]*model.Question, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: applicabilityMatch(flow)}},
		{{Key: "$sample", Value: bson.M{"size": n}}},
	}

	cur, err := r.db.Collection(collectionMultipleChoice).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to sample multiple choice questions",
			goerr.V("flow", flow),
			goerr.V("n", n))
	}
	return r.decodeQuestions(ctx, cur, model.QuestionMultipleChoice)
}

func (r *Mongo) listQuestions(ctx context.Context, kind model.QuestionKind, flow model.FlowKind) ([]*model.Question, error) {
	cur, err := r.db.Collection(questionCollection(kind)).Find(ctx, applicabilityMatch(flow),
		options.Find().SetSort(bson.D{{Key: "position", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to find questions",
			goerr.V("kind", kind),
			goerr.V("flow", flow))
	}
	return r.decodeQuestions(ctx, cur, kind)
}

func (r *Mongo) ListMultipleChoice(ctx context.Context, flow model.FlowKind) ([]*model.Question, error) {
	return r.listQuestions(ctx, model.QuestionMultipleChoice, flow)
}

func (r *Mongo) ListOpenQuestions(ctx context.Context, flow model.FlowKind) ([]*model.Question, error) {
	return r.listQuestions(ctx, model.QuestionOpen, flow)
}
