package survey

import (
	"context"
	"errors"
	"fmt"

	"github.com/hablacanaria/hablabot/pkg/adapter"
	"github.com/hablacanaria/hablabot/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

func (uc *UseCase) handleTaskSelection(ctx context.Context, s *Session, ev adapter.Event) (outcome, error) {
	opt, out, err := uc.readChoice(ctx, s, ev, taskOptions)
	if err != nil || out != outcomeAdvanced {
		return out, err
	}
	flow := model.FlowKind(opt.Value)

	version := model.ConsentVersion(flow)
	text, err := uc.repo.GetConsentText(ctx, version)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return outcomeRejected, goerr.Wrap(ErrConfiguration, "consent text is missing", goerr.V("version", version))
		}
		return outcomeRejected, retryable(goerr.Wrap(err, "failed to get consent text", goerr.V("version", version)))
	}

	sel := &model.TaskSelection{
		ID:         model.NewRecordID(),
		UserID:     s.UserID,
		Flow:       flow,
		SelectedAt: uc.now(),
	}
	if err := uc.repo.PutTaskSelection(ctx, sel); err != nil {
		return outcomeRejected, retryable(goerr.Wrap(err, "failed to save task selection"))
	}

	s.Flow = flow
	s.Consent = text
	if err := uc.confirm(ctx, s, opt); err != nil {
		return outcomeRejected, err
	}
	return outcomeAdvanced, uc.enter(ctx, s, StateConsent)
}

func (uc *UseCase) handleConsent(ctx context.Context, s *Session, ev adapter.Event) (outcome, error) {
	opt, out, err := uc.readChoice(ctx, s, ev, consentOptions)
	if err != nil || out != outcomeAdvanced {
		return out, err
	}

	decision := model.ConsentSigned
	if opt.Payload == payloadDecline {
		decision = model.ConsentDeclined
	}

	consent := &model.Consent{
		ID:        model.NewRecordID(),
		UserID:    s.UserID,
		Decision:  decision,
		Version:   s.Consent.Version,
		Flow:      s.Flow,
		DecidedAt: uc.now(),
	}
	if err := uc.repo.PutConsent(ctx, consent); err != nil {
		return outcomeRejected, retryable(goerr.Wrap(err, "failed to save consent", goerr.V("decision", decision)))
	}

	group := s.Flow == model.FlowGroup
	if decision == model.ConsentDeclined {
		msg := msgConsentDeclined
		if group {
			msg = msgConsentDeclinedGroup
		}
		return outcomeEnded, uc.closePrompt(ctx, s, msg)
	}

	msg := msgConsentAccepted
	if group {
		msg = msgConsentAcceptedGroup
	}
	if err := uc.closePrompt(ctx, s, msg); err != nil {
		return outcomeRejected, err
	}

	s.Slot = 1
	if group {
		s.PairID = model.NewPairID()
		if err := uc.sendText(ctx, s, fmt.Sprintf(msgPairID, s.PairID)); err != nil {
			return outcomeRejected, err
		}
	}
	return outcomeAdvanced, uc.enter(ctx, s, StateRole)
}
