package bank

import (
	"context"
	"os"

	"github.com/hablacanaria/hablabot/pkg/model"
	"github.com/hablacanaria/hablabot/pkg/repository"
	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"
)

var ErrInvalidBank = goerr.New("invalid question bank")

// Bank is the file form of the consent texts and both question pools.
// Questions without a position take their place in the file.
type Bank struct {
	ConsentTexts   []*model.ConsentText `yaml:"consent_texts"`
	MultipleChoice []*model.Question    `yaml:"multiple_choice"`
	Open           []*model.Question    `yaml:"open"`
}

// Load reads and validates a YAML bank file
func Load(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read bank file", goerr.V("path", path))
	}

	b, err := Parse(data)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse bank file", goerr.V("path", path))
	}
	return b, nil
}

// Parse decodes and validates a YAML bank
func Parse(data []byte) (*Bank, error) {
	var b Bank
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, goerr.Wrap(err, "failed to decode yaml")
	}

	normalize(b.MultipleChoice, model.QuestionMultipleChoice)
	normalize(b.Open, model.QuestionOpen)

	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// normalize sets the kind of every question. Questions without a position
// are placed after the largest explicit one, keeping file order.
func normalize(questions []*model.Question, kind model.QuestionKind) {
	next := 0
	for _, q := range questions {
		if q != nil {
			next = max(next, q.Position)
		}
	}

	for _, q := range questions {
		if q == nil {
			continue
		}
		q.Kind = kind
		if q.Position == 0 {
			next++
			q.Position = next
		}
	}
}

// Validate checks every entry and rejects duplicate IDs within a pool
func (b *Bank) Validate() error {
	versions := map[string]bool{}
	for i, text := range b.ConsentTexts {
		if text == nil || text.Version == "" {
			return goerr.Wrap(ErrInvalidBank, "consent text without version", goerr.V("index", i))
		}
		if text.Text == "" {
			return goerr.Wrap(ErrInvalidBank, "consent text is empty", goerr.V("version", text.Version))
		}
		if versions[text.Version] {
			return goerr.Wrap(ErrInvalidBank, "duplicated consent version", goerr.V("version", text.Version))
		}
		versions[text.Version] = true
	}

	for _, pool := range [][]*model.Question{b.MultipleChoice, b.Open} {
		ids := map[model.QuestionID]bool{}
		for i, q := range pool {
			if q == nil {
				return goerr.Wrap(ErrInvalidBank, "empty question entry", goerr.V("index", i))
			}
			if err := q.Validate(); err != nil {
				return goerr.Wrap(ErrInvalidBank, err.Error(), goerr.V("index", i))
			}
			if ids[q.ID] {
				return goerr.Wrap(ErrInvalidBank, "duplicated question id", goerr.V("id", q.ID))
			}
			ids[q.ID] = true
		}
	}
	return nil
}

// Result counts what an import wrote
type Result struct {
	ConsentTexts   int
	MultipleChoice int
	Open           int
}

// UseCase writes banks into the repository
type UseCase struct {
	repo repository.Repository
}

// New creates a new bank UseCase instance
func New(repo repository.Repository) *UseCase {
	return &UseCase{repo: repo}
}

// Import stores every consent text and question of b. Existing entries with
// the same key are replaced.
func (uc *UseCase) Import(ctx context.Context, b *Bank) (*Result, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	var result Result
	for _, text := range b.ConsentTexts {
		if err := uc.repo.PutConsentText(ctx, text); err != nil {
			return nil, goerr.Wrap(err, "failed to import consent text", goerr.V("version", text.Version))
		}
		result.ConsentTexts++
	}

	for _, q := range b.MultipleChoice {
		if err := uc.repo.PutQuestion(ctx, q); err != nil {
			return nil, goerr.Wrap(err, "failed to import question", goerr.V("id", q.ID))
		}
		result.MultipleChoice++
	}
	for _, q := range b.Open {
		if err := uc.repo.PutQuestion(ctx, q); err != nil {
			return nil, goerr.Wrap(err, "failed to import question", goerr.V("id", q.ID))
		}
		result.Open++
	}

	return &result, nil
}
