package survey

import (
	"context"
	"regexp"
	"strconv"
	"unicode/utf8"

	"github.com/hablacanaria/hablabot/pkg/adapter"
	"github.com/hablacanaria/hablabot/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

const (
	minAge            = 18
	maxAge            = 120
	minDegreeFieldLen = 2
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)

// ValidEmail reports whether s looks like local@domain.tld
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidBirthYear reports whether someone born in year is 18 to 120 years old in currentYear
func ValidBirthYear(year, currentYear int) bool {
	age := currentYear - year
	return age >= minAge && age <= maxAge
}

func (uc *UseCase) handleRole(ctx context.Context, s *Session, ev adapter.Event) (outcome, error) {
	opt, out, err := uc.readChoice(ctx, s, ev, roleOptions)
	if err != nil || out != outcomeAdvanced {
		return out, err
	}
	if err := uc.confirm(ctx, s, opt); err != nil {
		return outcomeRejected, err
	}
	if opt.Other {
		return outcomeAdvanced, uc.enter(ctx, s, StateRoleOther)
	}
	s.Profile().Role = opt.Value
	return outcomeAdvanced, uc.enter(ctx, s, StateEmail)
}

func (uc *UseCase) handleRoleOther(ctx context.Context, s *Session, ev adapter.Event) (outcome, error) {
	text, out, err := uc.readText(ctx, s, ev)
	if err != nil || out != outcomeAdvanced {
		return out, err
	}
	s.Profile().Role = text
	return outcomeAdvanced, uc.enter(ctx, s, StateEmail)
}

func (uc *UseCase) handleEmail(ctx context.Context, s *Session, ev adapter.Event) (outcome, error) {
	text, out, err := uc.readText(ctx, s, ev)
	if err != nil || out != outcomeAdvanced {
		return out, err
	}
	if !ValidEmail(text) {
		return outcomeRejected, uc.sendText(ctx, s, msgEmailInvalid)
	}
	s.Profile().Email = text
	return outcomeAdvanced, uc.enter(ctx, s, StateName)
}

func (uc *UseCase) handleName(ctx context.Context, s *Session, ev adapter.Event) (outcome, error) {
	text, out, err := uc.readText(ctx, s, ev)
	if err != nil || out != outcomeAdvanced {
		return out, err
	}
	s.Profile().Name = text
	return outcomeAdvanced, uc.enter(ctx, s, StateBirthYear)
}

func (uc *UseCase) handleBirthYear(ctx context.Context, s *Session, ev adapter.Event) (outcome, error) {
	text, out, err := uc.readText(ctx, s, ev)
	if err != nil || out != outcomeAdvanced {
		return out, err
	}

	year, err := strconv.Atoi(text)
	if err != nil {
		return outcomeRejected, uc.sendText(ctx, s, msgYearNotNumber)
	}
	if !ValidBirthYear(year, uc.now().Year()) {
		return outcomeRejected, uc.sendText(ctx, s, msgYearRange)
	}

	s.Profile().BirthYear = year
	return outcomeAdvanced, uc.enter(ctx, s, StateGender)
}

func (uc *UseCase) handleGender(ctx context.Context, s *Session, ev adapter.Event) (outcome, error) {
	opt, out, err := uc.readChoice(ctx, s, ev, genderOptions)
	if err != nil || out != outcomeAdvanced {
		return out, err
	}
	if err := uc.confirm(ctx, s, opt); err != nil {
		return outcomeRejected, err
	}
	s.Profile().Gender = opt.Value
	return outcomeAdvanced, uc.enter(ctx, s, StateEducation)
}

func (uc *UseCase) handleEducation(ctx context.Context, s *Session, ev adapter.Event) (outcome, error) {
	opt, out, err := uc.readChoice(ctx, s, ev, educationOptions)
	if err != nil || out != outcomeAdvanced {
		return out, err
	}
	if err := uc.confirm(ctx, s, opt); err != nil {
		return outcomeRejected, err
	}

	switch {
	case opt.Other:
		return outcomeAdvanced, uc.enter(ctx, s, StateEducationOther)
	case opt.Value == educationUndergraduate:
		s.Profile().EducationLevel = opt.Value
		return outcomeAdvanced, uc.enter(ctx, s, StateDegreeYear)
	default:
		s.Profile().EducationLevel = opt.Value
		return outcomeAdvanced, uc.enter(ctx, s, StateUniversity)
	}
}

func (uc *UseCase) handleEducationOther(ctx context.Context, s *Session, ev adapter.Event) (outcome, error) {
	text, out, err := uc.readText(ctx, s, ev)
	if err != nil || out != outcomeAdvanced {
		return out, err
	}
	s.Profile().EducationLevel = text
	return outcomeAdvanced, uc.enter(ctx, s, StateUniversity)
}

func (uc *UseCase) handleDegreeYear(ctx context.Context, s *Session, ev adapter.Event) (outcome, error) {
	opt, out, err := uc.readChoice(ctx, s, ev, degreeYearOptions)
	if err != nil || out != outcomeAdvanced {
		return out, err
	}
	if err := uc.confirm(ctx, s, opt); err != nil {
		return outcomeRejected, err
	}
	s.Profile().DegreeYear = opt.Value
	return outcomeAdvanced, uc.enter(ctx, s, StateDegreeField)
}

func (uc *UseCase) handleDegreeField(ctx context.Context, s *Session, ev adapter.Event) (outcome, error) {
	text, out, err := uc.readText(ctx, s, ev)
	if err != nil || out != outcomeAdvanced {
		return out, err
	}
	if utf8.RuneCountInString(text) < minDegreeFieldLen {
		return outcomeRejected, uc.sendText(ctx, s, msgDegreeShort)
	}
	s.Profile().DegreeField = text
	return outcomeAdvanced, uc.enter(ctx, s, StateUniversity)
}

func (uc *UseCase) handleUniversity(ctx context.Context, s *Session, ev adapter.Event) (outcome, error) {
	opt, out, err := uc.readChoice(ctx, s, ev, universityOptions)
	if err != nil || out != outcomeAdvanced {
		return out, err
	}
	if err := uc.confirm(ctx, s, opt); err != nil {
		return outcomeRejected, err
	}
	if opt.Other {
		return outcomeAdvanced, uc.enter(ctx, s, StateUniversityOther)
	}
	s.Profile().University = opt.Value
	return outcomeAdvanced, uc.enterGeography(ctx, s, model.PlaceBirth)
}

func (uc *UseCase) handleUniversityOther(ctx context.Context, s *Session, ev adapter.Event) (outcome, error) {
	text, out, err := uc.readText(ctx, s, ev)
	if err != nil || out != outcomeAdvanced {
		return out, err
	}
	s.Profile().University = text
	return outcomeAdvanced, uc.enterGeography(ctx, s, model.PlaceBirth)
}

// handleResidenceDuration closes the registration of the active slot. The
// group flow continues with slot 2; otherwise the record is written and the
// questions begin.
func (uc *UseCase) handleResidenceDuration(ctx context.Context, s *Session, ev adapter.Event) (outcome, error) {
	opt, out, err := uc.readChoice(ctx, s, ev, residenceDurationOptions)
	if err != nil || out != outcomeAdvanced {
		return out, err
	}

	if s.Flow == model.FlowGroup && s.Slot == 1 {
		s.Profile().ResidenceDuration = opt.Value
		if err := uc.confirm(ctx, s, opt); err != nil {
			return outcomeRejected, err
		}
		// status line, sent without the slot header
		if err := uc.channel.SendText(ctx, s.ChatID, msgSecondParticipant); err != nil {
			return outcomeRejected, goerr.Wrap(err, "failed to send message", goerr.V("state", s.State.String()))
		}
		s.Slot = 2
		return outcomeAdvanced, uc.enter(ctx, s, StateRole)
	}

	questions, err := uc.buildSequence(ctx, s.Flow)
	if err != nil {
		return outcomeRejected, err
	}

	profile := *s.Profile()
	profile.ResidenceDuration = opt.Value
	if err := uc.register(ctx, s, profile); err != nil {
		return outcomeRejected, retryable(err)
	}
	*s.Profile() = profile

	if err := uc.confirm(ctx, s, opt); err != nil {
		return outcomeRejected, err
	}
	if err := uc.sendText(ctx, s, msgQuestionsStart); err != nil {
		return outcomeRejected, err
	}

	s.Questions = questions
	s.Cursor = 0
	return outcomeAdvanced, uc.askNext(ctx, s)
}

// register writes the participant record; last is the profile of the active slot
func (uc *UseCase) register(ctx context.Context, s *Session, last model.Profile) error {
	now := uc.now()

	if s.Flow == model.FlowGroup {
		pair := &model.Pair{
			ID:           model.NewRecordID(),
			PairID:       s.PairID,
			UserID:       s.UserID,
			Participant1: s.Profiles[0],
			Participant2: last,
			RegisteredAt: now,
		}
		if err := uc.repo.PutPair(ctx, pair); err != nil {
			return goerr.Wrap(err, "failed to save pair", goerr.V("pair_id", s.PairID))
		}
		return nil
	}

	participant := &model.Participant{
		ID:           model.NewRecordID(),
		UserID:       s.UserID,
		Profile:      last,
		RegisteredAt: now,
	}
	if err := uc.repo.PutParticipant(ctx, participant); err != nil {
		return goerr.Wrap(err, "failed to save participant")
	}
	return nil
}
