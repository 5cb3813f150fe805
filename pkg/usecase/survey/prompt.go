package survey

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/hablacanaria/hablabot/pkg/adapter"
	"github.com/hablacanaria/hablabot/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

func isRegistration(state State) bool {
	return state >= StateRole && state <= StateResidenceDuration
}

// label prefixes registration prompts with the participant slot in the group flow
func label(s *Session, text string) string {
	if s.Flow == model.FlowGroup && isRegistration(s.State) {
		return fmt.Sprintf(msgParticipantHeader, s.Slot) + "\n" + text
	}
	return text
}

func (uc *UseCase) sendText(ctx context.Context, s *Session, text string) error {
	if err := uc.channel.SendText(ctx, s.ChatID, label(s, text)); err != nil {
		return goerr.Wrap(err, "failed to send message", goerr.V("state", s.State.String()))
	}
	return nil
}

func (uc *UseCase) sendChoices(ctx context.Context, s *Session, text string, set choiceSet) error {
	id, err := uc.channel.SendChoices(ctx, s.ChatID, label(s, text), set.choices())
	if err != nil {
		return goerr.Wrap(err, "failed to send choices", goerr.V("state", s.State.String()))
	}
	s.PromptID = id
	return nil
}

// closePrompt replaces the active prompt text and stops accepting its choices
func (uc *UseCase) closePrompt(ctx context.Context, s *Session, text string) error {
	id := s.PromptID
	s.PromptID = ""
	if err := uc.channel.EditText(ctx, s.ChatID, id, text); err != nil {
		return goerr.Wrap(err, "failed to edit message", goerr.V("message_id", id))
	}
	return nil
}

func (uc *UseCase) confirm(ctx context.Context, s *Session, opt option) error {
	return uc.closePrompt(ctx, s, fmt.Sprintf(msgSelected, opt.Label))
}

// enter moves the session to state and emits its prompt
func (uc *UseCase) enter(ctx context.Context, s *Session, state State) error {
	s.State = state
	return uc.prompt(ctx, s)
}

// prompt emits the prompt of the current state. It is also used to re-prompt
// after a retryable fault.
func (uc *UseCase) prompt(ctx context.Context, s *Session) error {
	s.PromptID = ""

	switch s.State {
	case StateTaskSelection:
		return uc.sendChoices(ctx, s, msgWelcome, taskOptions)
	case StateConsent:
		if s.Consent == nil {
			return goerr.Wrap(ErrConfiguration, "consent text is not loaded")
		}
		return uc.sendChoices(ctx, s, s.Consent.Text, consentOptions)

	case StateRole:
		return uc.sendChoices(ctx, s, msgRole, roleOptions)
	case StateRoleOther:
		return uc.sendText(ctx, s, msgRoleOther)
	case StateEmail:
		return uc.sendText(ctx, s, msgEmail)
	case StateName:
		return uc.sendText(ctx, s, msgName)
	case StateBirthYear:
		return uc.sendText(ctx, s, msgBirthYear)
	case StateGender:
		return uc.sendChoices(ctx, s, msgGender, genderOptions)
	case StateEducation:
		return uc.sendChoices(ctx, s, msgEducation, educationOptions)
	case StateEducationOther:
		return uc.sendText(ctx, s, msgEducationOth)
	case StateDegreeYear:
		return uc.sendChoices(ctx, s, msgDegreeYear, degreeYearOptions)
	case StateDegreeField:
		return uc.sendText(ctx, s, msgDegreeField)
	case StateUniversity:
		return uc.sendChoices(ctx, s, msgUniversity, universityOptions)
	case StateUniversityOther:
		return uc.sendText(ctx, s, msgUniversityOth)

	case StateCountry:
		return uc.sendChoices(ctx, s, geoTable[s.Geo].Country, countryOptions)
	case StateCountryInput:
		return uc.sendText(ctx, s, geoTable[s.Geo].CountryInput)
	case StateProvince:
		return uc.sendChoices(ctx, s, geoTable[s.Geo].Province, provinceOptions)
	case StateProvinceInput:
		return uc.sendText(ctx, s, geoTable[s.Geo].ProvinceInput)
	case StateMunicipality:
		return uc.sendText(ctx, s, geoTable[s.Geo].Municipality)
	case StateResidenceDuration:
		return uc.sendChoices(ctx, s, msgResidence, residenceDurationOptions)

	case StateMultipleChoice:
		q := s.Current()
		if q == nil {
			return goerr.New("no current question", goerr.V("cursor", s.Cursor))
		}
		return uc.sendChoices(ctx, s, q.Prompt, questionOptions(q))
	case StateVoice:
		q := s.Current()
		if q == nil {
			return goerr.New("no current question", goerr.V("cursor", s.Cursor))
		}
		return uc.sendText(ctx, s, fmt.Sprintf(msgVoiceQuestion, q.Prompt))
	case StateVoiceFollowUp:
		return uc.sendChoices(ctx, s, msgFollowUp, followUpOptions)
	case StateFinished:
		return uc.sendChoices(ctx, s, msgFinished, terminalOptions)

	default:
		return goerr.New("no prompt for state", goerr.V("state", s.State))
	}
}

// readChoice accepts a choice event only for the active prompt. Choices for
// any other message are stale and ignored, so replays never write twice.
func (uc *UseCase) readChoice(ctx context.Context, s *Session, ev adapter.Event, set choiceSet) (option, outcome, error) {
	if ev.Kind != adapter.EventChoice {
		return option{}, outcomeRejected, uc.sendText(ctx, s, msgUseButtons)
	}
	if s.PromptID == "" || ev.MessageID != s.PromptID {
		return option{}, outcomeIgnored, nil
	}

	opt, ok := set.find(ev.Choice)
	if !ok {
		if err := uc.sendText(ctx, s, msgInvalidChoice); err != nil {
			return option{}, outcomeRejected, err
		}
		return option{}, outcomeRejected, uc.prompt(ctx, s)
	}
	return opt, outcomeAdvanced, nil
}

// readText accepts a non-empty text message, trimmed
func (uc *UseCase) readText(ctx context.Context, s *Session, ev adapter.Event) (string, outcome, error) {
	switch ev.Kind {
	case adapter.EventText:
	case adapter.EventChoice:
		return "", outcomeIgnored, nil
	default:
		return "", outcomeRejected, uc.sendText(ctx, s, msgWriteText)
	}

	text := strings.TrimSpace(ev.Text)
	if text == "" {
		return "", outcomeRejected, uc.sendText(ctx, s, msgEmptyText)
	}
	return text, outcomeAdvanced, nil
}

// questionOptions uses the option index as payload and the option text as value
func questionOptions(q *model.Question) choiceSet {
	set := make(choiceSet, len(q.Options))
	for i, text := range q.Options {
		set[i] = option{Payload: strconv.Itoa(i), Label: text, Value: text}
	}
	return set
}
