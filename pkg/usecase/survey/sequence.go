package survey

import (
	"context"
	"math/rand/v2"
	"slices"

	"github.com/hablacanaria/hablabot/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

const (
	// MandatoryGroup is always asked first among open questions in the group flow
	MandatoryGroup = "G-1"

	individualMultipleChoice = 15
	individualLeadingMC      = 3
	individualMCPerGroup     = 2
	individualGroups         = 7

	groupLeadingMC = 3
	groupRandom    = 3
)

type openGroup struct {
	key       string
	questions []*model.Question
}

// groupOpenQuestions splits open questions by group key. Groups and their
// questions keep bank order.
func groupOpenQuestions(open []*model.Question) []openGroup {
	sorted := slices.Clone(open)
	model.SortQuestions(sorted)

	var groups []openGroup
	index := map[string]int{}
	for _, q := range sorted {
		key := q.ID.GroupKey()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, openGroup{key: key})
		}
		groups[i].questions = append(groups[i].questions, q)
	}
	return groups
}

func pickGroups(groups []openGroup, n int, rng *rand.Rand) []openGroup {
	perm := rng.Perm(len(groups))
	picked := make([]openGroup, n)
	for i := range n {
		picked[i] = groups[perm[i]]
	}
	return picked
}

// BuildIndividualSequence interleaves 15 sampled multiple-choice questions
// with 7 random open groups: 3 MC, group, then 2 MC and a group six times.
func BuildIndividualSequence(mc, open []*model.Question, rng *rand.Rand) ([]*model.Question, error) {
	if len(mc) < individualMultipleChoice {
		return nil, goerr.Wrap(ErrConfiguration, "not enough multiple choice questions",
			goerr.V("required", individualMultipleChoice),
			goerr.V("available", len(mc)))
	}

	groups := groupOpenQuestions(open)
	if len(groups) < individualGroups {
		return nil, goerr.Wrap(ErrConfiguration, "not enough open question groups",
			goerr.V("required", individualGroups),
			goerr.V("available", len(groups)))
	}
	chosen := pickGroups(groups, individualGroups, rng)

	seq := make([]*model.Question, 0, individualMultipleChoice+len(open))
	seq = append(seq, mc[:individualLeadingMC]...)
	seq = append(seq, chosen[0].questions...)

	next := individualLeadingMC
	for _, g := range chosen[1:] {
		seq = append(seq, mc[next:next+individualMCPerGroup]...)
		seq = append(seq, g.questions...)
		next += individualMCPerGroup
	}
	return seq, nil
}

// BuildGroupSequence lays out the first 3 multiple-choice questions in bank
// order, the G-1 group, 3 random other groups and the remaining
// multiple-choice questions.
func BuildGroupSequence(mc, open []*model.Question, rng *rand.Rand) ([]*model.Question, error) {
	var mandatory *openGroup
	var others []openGroup
	for _, g := range groupOpenQuestions(open) {
		if g.key == MandatoryGroup {
			mandatory = &g
			continue
		}
		others = append(others, g)
	}

	if mandatory == nil {
		return nil, goerr.Wrap(ErrConfiguration, "mandatory open question group is missing",
			goerr.V("group", MandatoryGroup))
	}
	if len(others) < groupRandom {
		return nil, goerr.Wrap(ErrConfiguration, "not enough open question groups",
			goerr.V("required", groupRandom),
			goerr.V("available", len(others)))
	}

	ordered := slices.Clone(mc)
	model.SortQuestions(ordered)
	lead := min(groupLeadingMC, len(ordered))

	seq := make([]*model.Question, 0, len(mc)+len(open))
	seq = append(seq, ordered[:lead]...)
	seq = append(seq, mandatory.questions...)
	for _, g := range pickGroups(others, groupRandom, rng) {
		seq = append(seq, g.questions...)
	}
	seq = append(seq, ordered[lead:]...)
	return seq, nil
}

func (uc *UseCase) buildSequence(ctx context.Context, flow model.FlowKind) ([]*model.Question, error) {
	open, err := uc.repo.ListOpenQuestions(ctx, flow)
	if err != nil {
		return nil, retryable(goerr.Wrap(err, "failed to list open questions"))
	}

	var mc []*model.Question
	if flow == model.FlowGroup {
		mc, err = uc.repo.ListMultipleChoice(ctx, flow)
	} else {
		mc, err = uc.repo.SampleMultipleChoice(ctx, flow, individualMultipleChoice)
	}
	if err != nil {
		return nil, retryable(goerr.Wrap(err, "failed to load multiple choice questions"))
	}

	uc.rngMu.Lock()
	defer uc.rngMu.Unlock()

	if flow == model.FlowGroup {
		return BuildGroupSequence(mc, open, uc.rng)
	}
	return BuildIndividualSequence(mc, open, uc.rng)
}
