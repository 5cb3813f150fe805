package survey_test

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/hablacanaria/hablabot/pkg/model"
	"github.com/hablacanaria/hablabot/pkg/usecase/survey"
	"github.com/m-mizutani/gt"
)

func mcPool(n int, app model.Applicability) []*model.Question {
	out := make([]*model.Question, n)
	for i := range n {
		out[i] = &model.Question{
			ID:            model.QuestionID(fmt.Sprintf("mc-%02d", i+1)),
			Prompt:        fmt.Sprintf("Pregunta %d", i+1),
			Kind:          model.QuestionMultipleChoice,
			Options:       []string{"sí", "no"},
			Applicability: app,
			Position:      i + 1,
		}
	}
	return out
}

// openPool builds groups with keys[i] holding sizes[i] questions
func openPool(keys []string, sizes []int, app model.Applicability) []*model.Question {
	var out []*model.Question
	pos := 0
	for i, key := range keys {
		for j := range sizes[i] {
			pos++
			out = append(out, &model.Question{
				ID:            model.QuestionID(fmt.Sprintf("%s.%d", key, j+1)),
				Prompt:        "Describe " + key,
				Kind:          model.QuestionOpen,
				Applicability: app,
				Position:      pos,
			})
		}
	}
	return out
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed+1))
}

func TestBuildIndividualSequence(t *testing.T) {
	keys := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I"}
	sizes := []int{1, 2, 3, 1, 2, 3, 1, 2, 3}
	mc := mcPool(15, model.ApplicabilityBoth)
	open := openPool(keys, sizes, model.ApplicabilityIndividual)
	groupSize := map[string]int{}
	for i, k := range keys {
		groupSize[k] = sizes[i]
	}

	for seed := range uint64(20) {
		t.Run(fmt.Sprintf("seed %d", seed), func(t *testing.T) {
			seq, err := survey.BuildIndividualSequence(mc, open, newRand(seed))
			gt.NoError(t, err)

			// split into runs of consecutive multiple-choice and open groups
			var pattern []int
			var groups []string
			seenMC := map[model.QuestionID]bool{}
			total := 0
			for i := 0; i < len(seq); {
				if seq[i].Kind == model.QuestionMultipleChoice {
					n := 0
					for i < len(seq) && seq[i].Kind == model.QuestionMultipleChoice {
						gt.False(t, seenMC[seq[i].ID])
						seenMC[seq[i].ID] = true
						n++
						i++
					}
					pattern = append(pattern, n)
					continue
				}

				key := seq[i].ID.GroupKey()
				n := 0
				for i < len(seq) && seq[i].Kind == model.QuestionOpen && seq[i].ID.GroupKey() == key {
					gt.Equal(t, seq[i].ID, model.QuestionID(fmt.Sprintf("%s.%d", key, n+1)))
					n++
					i++
				}
				gt.Equal(t, n, groupSize[key])
				groups = append(groups, key)
				total += n
			}

			gt.Equal(t, len(seenMC), 15)
			gt.A(t, groups).Length(7)
			distinct := map[string]bool{}
			for _, g := range groups {
				distinct[g] = true
			}
			gt.Equal(t, len(distinct), 7)
			gt.Equal(t, pattern, []int{3, 2, 2, 2, 2, 2, 2})
			gt.Equal(t, len(seq), 15+total)
			gt.Equal(t, seq[len(seq)-1].Kind, model.QuestionOpen)
		})
	}
}

func TestBuildIndividualSequenceInsufficientPools(t *testing.T) {
	keys := []string{"A", "B", "C", "D", "E", "F", "G"}
	sizes := []int{1, 1, 1, 1, 1, 1, 1}

	t.Run("fewer than 15 multiple choice", func(t *testing.T) {
		_, err := survey.BuildIndividualSequence(mcPool(14, model.ApplicabilityBoth), openPool(keys, sizes, model.ApplicabilityBoth), newRand(1))
		gt.Error(t, err)
		gt.True(t, errors.Is(err, survey.ErrConfiguration))
	})

	t.Run("fewer than 7 groups", func(t *testing.T) {
		_, err := survey.BuildIndividualSequence(mcPool(15, model.ApplicabilityBoth), openPool(keys[:6], sizes[:6], model.ApplicabilityBoth), newRand(1))
		gt.Error(t, err)
		gt.True(t, errors.Is(err, survey.ErrConfiguration))
	})

	t.Run("exactly 7 groups uses all", func(t *testing.T) {
		seq, err := survey.BuildIndividualSequence(mcPool(15, model.ApplicabilityBoth), openPool(keys, sizes, model.ApplicabilityBoth), newRand(1))
		gt.NoError(t, err)
		gt.A(t, seq).Length(22)
	})
}

func TestBuildGroupSequence(t *testing.T) {
	mc := mcPool(8, model.ApplicabilityGroup)
	// shuffled input must still yield bank order
	shuffled := []*model.Question{mc[5], mc[2], mc[0], mc[7], mc[1], mc[4], mc[3], mc[6]}
	open := append(
		openPool([]string{"A", "B", "C", "D"}, []int{2, 1, 3, 2}, model.ApplicabilityBoth),
		openPool([]string{survey.MandatoryGroup}, []int{3}, model.ApplicabilityGroup)...,
	)
	for i, q := range open {
		q.Position = 100 - i
	}

	for seed := range uint64(10) {
		seq, err := survey.BuildGroupSequence(shuffled, open, newRand(seed))
		gt.NoError(t, err)

		gt.Equal(t, seq[0].ID, model.QuestionID("mc-01"))
		gt.Equal(t, seq[1].ID, model.QuestionID("mc-02"))
		gt.Equal(t, seq[2].ID, model.QuestionID("mc-03"))
		for i := range 3 {
			gt.Equal(t, seq[3+i].ID.GroupKey(), survey.MandatoryGroup)
		}

		rest := seq[6:]
		var groups []string
		i := 0
		for i < len(rest) && rest[i].Kind == model.QuestionOpen {
			key := rest[i].ID.GroupKey()
			gt.NotEqual(t, key, survey.MandatoryGroup)
			if len(groups) == 0 || groups[len(groups)-1] != key {
				groups = append(groups, key)
			}
			i++
		}
		gt.A(t, groups).Length(3)

		tail := rest[i:]
		gt.A(t, tail).Length(5)
		for j, q := range tail {
			gt.Equal(t, q.ID, model.QuestionID(fmt.Sprintf("mc-%02d", j+4)))
		}
	}
}

func TestBuildGroupSequenceConfigurationErrors(t *testing.T) {
	mc := mcPool(5, model.ApplicabilityGroup)

	t.Run("missing mandatory group", func(t *testing.T) {
		open := openPool([]string{"A", "B", "C", "D"}, []int{1, 1, 1, 1}, model.ApplicabilityGroup)
		_, err := survey.BuildGroupSequence(mc, open, newRand(1))
		gt.Error(t, err)
		gt.True(t, errors.Is(err, survey.ErrConfiguration))
	})

	t.Run("fewer than 3 other groups", func(t *testing.T) {
		open := openPool([]string{survey.MandatoryGroup, "A", "B"}, []int{1, 1, 1}, model.ApplicabilityGroup)
		_, err := survey.BuildGroupSequence(mc, open, newRand(1))
		gt.Error(t, err)
		gt.True(t, errors.Is(err, survey.ErrConfiguration))
	})

	t.Run("fewer than 3 multiple choice uses what exists", func(t *testing.T) {
		open := openPool([]string{survey.MandatoryGroup, "A", "B", "C"}, []int{1, 1, 1, 1}, model.ApplicabilityGroup)
		seq, err := survey.BuildGroupSequence(mc[:2], open, newRand(1))
		gt.NoError(t, err)
		gt.A(t, seq).Length(6)
		gt.Equal(t, seq[0].ID, model.QuestionID("mc-01"))
		gt.Equal(t, seq[2].ID, model.QuestionID("G-1.1"))
	})
}

func TestValidEmail(t *testing.T) {
	for _, tc := range []struct {
		email string
		valid bool
	}{
		{"ana@example.com", true},
		{"a.b+c@ull.edu.es", true},
		{"ana@", false},
		{"ana.example.com", false},
		{"ana@example", false},
		{"ana lopez@example.com", false},
	} {
		t.Run(tc.email, func(t *testing.T) {
			gt.Equal(t, survey.ValidEmail(tc.email), tc.valid)
		})
	}
}

func TestValidBirthYear(t *testing.T) {
	const current = 2025
	for year := 1900; year <= current; year++ {
		age := current - year
		gt.Equal(t, survey.ValidBirthYear(year, current), age >= 18 && age <= 120)
	}
}
