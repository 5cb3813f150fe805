package survey

import (
	"context"

	"github.com/hablacanaria/hablabot/pkg/adapter"
	"github.com/hablacanaria/hablabot/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

const commandStart = "start"

// outcome is the flow result of a handler. Faults are reported separately as errors.
type outcome int

const (
	outcomeAdvanced outcome = iota
	outcomeRejected
	outcomeIgnored
	outcomeEnded
)

type handler func(ctx context.Context, s *Session, ev adapter.Event) (outcome, error)

func (uc *UseCase) route(state State) handler {
	switch state {
	case StateTaskSelection:
		return uc.handleTaskSelection
	case StateConsent:
		return uc.handleConsent
	case StateRole:
		return uc.handleRole
	case StateRoleOther:
		return uc.handleRoleOther
	case StateEmail:
		return uc.handleEmail
	case StateName:
		return uc.handleName
	case StateBirthYear:
		return uc.handleBirthYear
	case StateGender:
		return uc.handleGender
	case StateEducation:
		return uc.handleEducation
	case StateEducationOther:
		return uc.handleEducationOther
	case StateDegreeYear:
		return uc.handleDegreeYear
	case StateDegreeField:
		return uc.handleDegreeField
	case StateUniversity:
		return uc.handleUniversity
	case StateUniversityOther:
		return uc.handleUniversityOther
	case StateCountry:
		return uc.handleCountry
	case StateCountryInput:
		return uc.handleCountryInput
	case StateProvince:
		return uc.handleProvince
	case StateProvinceInput:
		return uc.handleProvinceInput
	case StateMunicipality:
		return uc.handleMunicipality
	case StateResidenceDuration:
		return uc.handleResidenceDuration
	case StateMultipleChoice:
		return uc.handleMultipleChoice
	case StateVoice:
		return uc.handleVoice
	case StateVoiceFollowUp:
		return uc.handleVoiceFollowUp
	case StateFinished:
		return uc.handleFinished
	default:
		return func(ctx context.Context, s *Session, ev adapter.Event) (outcome, error) {
			return outcomeRejected, goerr.New("no handler for state", goerr.V("state", s.State))
		}
	}
}

// HandleEvent processes one inbound event. It returns an error only when a
// fault could not be reported to the user.
func (uc *UseCase) HandleEvent(ctx context.Context, ev adapter.Event) error {
	ctx = logging.WithAttrs(ctx, "user_id", ev.UserID)

	if ev.Kind == adapter.EventCommand && ev.Text == commandStart {
		return uc.start(ctx, ev)
	}

	s, ok := uc.sessions.Get(ev.UserID)
	if !ok {
		logging.From(ctx).Debug("event without session", "kind", ev.Kind)
		if err := uc.channel.SendText(ctx, ev.ChatID, msgStartHint); err != nil {
			return goerr.Wrap(err, "failed to send start hint")
		}
		return nil
	}

	ctx = logging.WithAttrs(ctx, "state", s.State.String(), "flow", s.Flow)
	logger := logging.From(ctx)

	if ev.Kind == adapter.EventCommand {
		logger.Info("unknown command", "command", ev.Text)
		if err := uc.channel.SendText(ctx, s.ChatID, msgUnknownCommand); err != nil {
			return uc.fail(ctx, s, goerr.Wrap(err, "failed to send message"))
		}
		return nil
	}

	out, err := uc.route(s.State)(ctx, s, ev)
	if err != nil {
		return uc.fail(ctx, s, err)
	}

	switch out {
	case outcomeAdvanced:
		logger.Debug("state advanced", "next", s.State.String())
	case outcomeRejected:
		logger.Info("input rejected", "kind", ev.Kind)
	case outcomeIgnored:
		logger.Debug("input ignored", "kind", ev.Kind, "message_id", ev.MessageID)
	case outcomeEnded:
		logger.Info("conversation ended")
		uc.sessions.Delete(s.UserID)
	}
	return nil
}

// start discards any previous session and sends the welcome prompt
func (uc *UseCase) start(ctx context.Context, ev adapter.Event) error {
	uc.sessions.Delete(ev.UserID)

	s := newSession(ev.UserID, ev.ChatID)
	if err := uc.prompt(ctx, s); err != nil {
		return goerr.Wrap(err, "failed to start conversation")
	}
	uc.sessions.Put(s)

	logging.From(ctx).Info("conversation started")
	return nil
}

// fail applies the fault policy: retryable faults keep the session and
// prompt the current state again, anything else drops the session.
func (uc *UseCase) fail(ctx context.Context, s *Session, err error) error {
	logger := logging.From(ctx)

	if IsRetryable(err) {
		logger.Warn("retryable fault", "error", err)
		retryErr := uc.retry(ctx, s)
		if retryErr == nil {
			return nil
		}
		err = retryErr
	}

	logger.Error("conversation aborted", "error", err)
	uc.sessions.Delete(s.UserID)
	if sendErr := uc.channel.SendText(ctx, s.ChatID, msgFatal); sendErr != nil {
		return goerr.Wrap(sendErr, "failed to report fault", goerr.V("cause", err.Error()))
	}
	return nil
}

func (uc *UseCase) retry(ctx context.Context, s *Session) error {
	if err := uc.channel.SendText(ctx, s.ChatID, msgRetry); err != nil {
		return goerr.Wrap(err, "failed to send apology")
	}
	return uc.prompt(ctx, s)
}
