package export

import (
	"context"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/hablacanaria/hablabot/pkg/adapter"
	"github.com/hablacanaria/hablabot/pkg/repository"
	"github.com/hablacanaria/hablabot/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

const defaultBatchSize = 500

var ErrInvalidInput = goerr.New("invalid export input")

// UseCase copies stored answers into BigQuery
type UseCase struct {
	repo      repository.Repository
	bq        adapter.BigQuery
	batchSize int
}

// Option is a functional option for UseCase
type Option func(*UseCase)

// WithBatchSize sets how many rows are streamed per insert call
func WithBatchSize(n int) Option {
	return func(uc *UseCase) {
		if n > 0 {
			uc.batchSize = n
		}
	}
}

// New creates a new export UseCase instance
func New(repo repository.Repository, bq adapter.BigQuery, opts ...Option) *UseCase {
	uc := &UseCase{
		repo:      repo,
		bq:        bq,
		batchSize: defaultBatchSize,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// AnswersInput selects the destination table and the answers to copy
type AnswersInput struct {
	Dataset string
	Table   string
	// Since skips answers given before it. Zero exports everything.
	Since time.Time
}

// AnswerRow is the BigQuery row of one answer
type AnswerRow struct {
	AnswerID   string    `bigquery:"answer_id"`
	QuestionID string    `bigquery:"question_id"`
	GroupKey   string    `bigquery:"group_key"`
	UserID     string    `bigquery:"user_id"`
	PairID     string    `bigquery:"pair_id"`
	Value      string    `bigquery:"value"`
	AnsweredAt time.Time `bigquery:"answered_at"`
}

// Answers exports answers and returns how many rows were written. The table
// is created when it does not exist yet.
func (uc *UseCase) Answers(ctx context.Context, input AnswersInput) (int, error) {
	if input.Dataset == "" || input.Table == "" {
		return 0, goerr.Wrap(ErrInvalidInput, "dataset and table are required")
	}
	logger := logging.From(ctx).With("dataset", input.Dataset, "table", input.Table)

	answers, err := uc.repo.ListAnswers(ctx, repository.AnswerFilter{Since: input.Since})
	if err != nil {
		return 0, goerr.Wrap(err, "failed to list answers")
	}
	if len(answers) == 0 {
		logger.Info("no answers to export")
		return 0, nil
	}

	if err := uc.ensureTable(ctx, input); err != nil {
		return 0, err
	}

	rows := make([]*AnswerRow, 0, len(answers))
	for _, a := range answers {
		rows = append(rows, &AnswerRow{
			AnswerID:   string(a.ID),
			QuestionID: string(a.QuestionID),
			GroupKey:   a.QuestionID.GroupKey(),
			UserID:     a.UserID,
			PairID:     string(a.PairID),
			Value:      a.Value,
			AnsweredAt: a.AnsweredAt,
		})
	}

	for start := 0; start < len(rows); start += uc.batchSize {
		end := min(start+uc.batchSize, len(rows))
		if err := uc.bq.PutRows(ctx, input.Dataset, input.Table, rows[start:end]); err != nil {
			return start, goerr.Wrap(err, "failed to export answers",
				goerr.V("exported", start),
				goerr.V("total", len(rows)))
		}
	}

	logger.Info("answers exported", "count", len(rows))
	return len(rows), nil
}

func (uc *UseCase) ensureTable(ctx context.Context, input AnswersInput) error {
	exists, err := uc.bq.TableExists(ctx, input.Dataset, input.Table)
	if err != nil {
		return goerr.Wrap(err, "failed to check table")
	}
	if exists {
		return nil
	}

	schema, err := bigquery.InferSchema(AnswerRow{})
	if err != nil {
		return goerr.Wrap(err, "failed to infer answer schema")
	}
	if err := uc.bq.CreateTable(ctx, input.Dataset, input.Table, schema); err != nil {
		return goerr.Wrap(err, "failed to create answer table")
	}
	logging.From(ctx).Info("answer table created", "dataset", input.Dataset, "table", input.Table)
	return nil
}
