package survey

import (
	"context"

	"github.com/hablacanaria/hablabot/pkg/adapter"
	"github.com/hablacanaria/hablabot/pkg/model"
)

// enterGeography starts the country, province and municipality capture for
// kind on the active slot. Prompts and routing come from geoTable.
func (uc *UseCase) enterGeography(ctx context.Context, s *Session, kind model.PlaceKind) error {
	s.Geo = kind
	return uc.enter(ctx, s, StateCountry)
}

// enterProvince offers the Canary provinces only when the country is Spain
func (uc *UseCase) enterProvince(ctx context.Context, s *Session) error {
	if s.Place().Country == countrySpain {
		return uc.enter(ctx, s, StateProvince)
	}
	return uc.enter(ctx, s, StateProvinceInput)
}

func (uc *UseCase) handleCountry(ctx context.Context, s *Session, ev adapter.Event) (outcome, error) {
	opt, out, err := uc.readChoice(ctx, s, ev, countryOptions)
	if err != nil || out != outcomeAdvanced {
		return out, err
	}
	if err := uc.confirm(ctx, s, opt); err != nil {
		return outcomeRejected, err
	}
	if opt.Other {
		return outcomeAdvanced, uc.enter(ctx, s, StateCountryInput)
	}
	s.Place().Country = opt.Value
	return outcomeAdvanced, uc.enterProvince(ctx, s)
}

func (uc *UseCase) handleCountryInput(ctx context.Context, s *Session, ev adapter.Event) (outcome, error) {
	text, out, err := uc.readText(ctx, s, ev)
	if err != nil || out != outcomeAdvanced {
		return out, err
	}
	s.Place().Country = text
	return outcomeAdvanced, uc.enterProvince(ctx, s)
}

func (uc *UseCase) handleProvince(ctx context.Context, s *Session, ev adapter.Event) (outcome, error) {
	opt, out, err := uc.readChoice(ctx, s, ev, provinceOptions)
	if err != nil || out != outcomeAdvanced {
		return out, err
	}
	if err := uc.confirm(ctx, s, opt); err != nil {
		return outcomeRejected, err
	}
	if opt.Other {
		return outcomeAdvanced, uc.enter(ctx, s, StateProvinceInput)
	}
	s.Place().Province = opt.Value
	return outcomeAdvanced, uc.enter(ctx, s, StateMunicipality)
}

func (uc *UseCase) handleProvinceInput(ctx context.Context, s *Session, ev adapter.Event) (outcome, error) {
	text, out, err := uc.readText(ctx, s, ev)
	if err != nil || out != outcomeAdvanced {
		return out, err
	}
	s.Place().Province = text
	return outcomeAdvanced, uc.enter(ctx, s, StateMunicipality)
}

func (uc *UseCase) handleMunicipality(ctx context.Context, s *Session, ev adapter.Event) (outcome, error) {
	text, out, err := uc.readText(ctx, s, ev)
	if err != nil || out != outcomeAdvanced {
		return out, err
	}
	s.Place().Municipality = text

	if next := geoTable[s.Geo].Next; next != "" {
		return outcomeAdvanced, uc.enterGeography(ctx, s, next)
	}
	return outcomeAdvanced, uc.enter(ctx, s, StateResidenceDuration)
}
