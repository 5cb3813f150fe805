package survey

import (
	"github.com/hablacanaria/hablabot/pkg/adapter"
	"github.com/hablacanaria/hablabot/pkg/model"
)

// option maps a button payload to the label shown and the value stored.
// Other options lead to a free-text state instead of storing a value.
type option struct {
	Payload string
	Label   string
	Value   string
	Other   bool
}

type choiceSet []option

func (c choiceSet) find(payload string) (option, bool) {
	for _, opt := range c {
		if opt.Payload == payload {
			return opt, true
		}
	}
	return option{}, false
}

func (c choiceSet) choices() []adapter.Choice {
	out := make([]adapter.Choice, len(c))
	for i, opt := range c {
		out[i] = adapter.Choice{Label: opt.Label, Payload: opt.Payload}
	}
	return out
}

const (
	educationUndergraduate = "Grado"
	countrySpain           = "España"
)

const (
	payloadAccept   = "accept"
	payloadDecline  = "decline"
	payloadAnother  = "another_audio"
	payloadContinue = "continue"
	payloadRestart  = "restart"
	payloadExit     = "exit"
)

var (
	taskOptions = choiceSet{
		{Payload: string(model.FlowIndividual), Label: "🧍 Tarea individual", Value: string(model.FlowIndividual)},
		{Payload: string(model.FlowGroup), Label: "👪 Tarea grupal", Value: string(model.FlowGroup)},
	}

	consentOptions = choiceSet{
		{Payload: payloadAccept, Label: "🤝 Aceptar"},
		{Payload: payloadDecline, Label: "🚫 Rechazar"},
	}

	roleOptions = choiceSet{
		{Payload: "student", Label: "🎓 Estudiante", Value: "Estudiante"},
		{Payload: "professor", Label: "🏫 Docente", Value: "Docente"},
		{Payload: "researcher", Label: "🔬 Investigador(a)", Value: "Investigador(a)"},
		{Payload: "other", Label: "👤 Otro", Other: true},
	}

	genderOptions = choiceSet{
		{Payload: "male", Label: "Masculino", Value: "Masculino"},
		{Payload: "female", Label: "Femenino", Value: "Femenino"},
		{Payload: "other", Label: "Otro", Value: "Otro"},
		{Payload: "undisclosed", Label: "Prefiero no decirlo", Value: "Prefiero no decirlo"},
	}

	educationOptions = choiceSet{
		{Payload: "undergraduate", Label: "🎓 Grado", Value: educationUndergraduate},
		{Payload: "master", Label: "🏫 Máster", Value: "Máster"},
		{Payload: "doctorate", Label: "🔬 Doctorado", Value: "Doctorado"},
		{Payload: "other", Label: "Otro", Other: true},
	}

	degreeYearOptions = choiceSet{
		{Payload: "1", Label: "1", Value: "1"},
		{Payload: "2", Label: "2", Value: "2"},
		{Payload: "3", Label: "3", Value: "3"},
		{Payload: "4", Label: "4", Value: "4"},
		{Payload: "completed", Label: "Terminado", Value: "terminado"},
	}

	universityOptions = choiceSet{
		{Payload: "ull", Label: "Universidad de La Laguna 🏝️", Value: "Universidad de La Laguna"},
		{Payload: "ulpgc", Label: "Universidad de Las Palmas Gran Canaria 🏝️", Value: "Universidad de Las Palmas Gran Canaria"},
		{Payload: "other", Label: "Otra 🌍", Other: true},
	}

	residenceDurationOptions = choiceSet{
		{Payload: "lifetime", Label: "💡 Toda la vida", Value: "Toda la vida"},
		{Payload: "over_5", Label: "🕓 Más de 5 años", Value: "Más de 5 años"},
		{Payload: "3_to_5", Label: "🕑 Entre 3 y 5 años", Value: "Entre 3 y 5 años"},
		{Payload: "1_to_3", Label: "🕐 Entre 1 y 3 años", Value: "Entre 1 y 3 años"},
		{Payload: "under_1", Label: "🕜 Menos de un año", Value: "Menos de un año"},
	}

	countryOptions = choiceSet{
		{Payload: "spain", Label: "🇪🇸 España", Value: countrySpain},
		{Payload: "other", Label: "🌐 Otro", Other: true},
	}

	provinceOptions = choiceSet{
		{Payload: "tenerife", Label: "Santa Cruz de Tenerife", Value: "Santa Cruz de Tenerife"},
		{Payload: "las_palmas", Label: "Las Palmas", Value: "Las Palmas"},
		{Payload: "other", Label: "Otra", Other: true},
	}

	followUpOptions = choiceSet{
		{Payload: payloadAnother, Label: "🎙 Enviar otro audio"},
		{Payload: payloadContinue, Label: "➡️ Continuar"},
	}

	terminalOptions = choiceSet{
		{Payload: payloadRestart, Label: "🔁 Volver a empezar"},
		{Payload: payloadExit, Label: "🚪 Salir"},
	}
)

// geoPrompts holds the per-context texts of the geography sub-flow and the
// context that follows. An empty next means residence duration comes next.
type geoPrompts struct {
	Country       string
	CountryInput  string
	Province      string
	ProvinceInput string
	Municipality  string
	Next          model.PlaceKind
}

var geoTable = map[model.PlaceKind]geoPrompts{
	model.PlaceBirth: {
		Country:       "🌍 ¿En qué país naciste?",
		CountryInput:  "❓ Escribe el nombre del país donde naciste:",
		Province:      "📍 ¿En qué provincia naciste?",
		ProvinceInput: "❓ Escribe el nombre de la provincia donde naciste:",
		Municipality:  "🏘 ¿En qué municipio naciste?",
		Next:          model.PlaceUpbringing,
	},
	model.PlaceUpbringing: {
		Country:       "🌍 ¿En qué país te criaste?",
		CountryInput:  "❓ Escribe el nombre del país donde te criaste:",
		Province:      "📍 ¿En qué provincia te criaste?",
		ProvinceInput: "❓ Escribe el nombre de la provincia donde te criaste:",
		Municipality:  "🏘 ¿En qué municipio te criaste?",
		Next:          model.PlaceResidence,
	},
	model.PlaceResidence: {
		Country:       "🌍 ¿En qué país resides actualmente?",
		CountryInput:  "❓ Escribe el nombre del país donde resides:",
		Province:      "📍 ¿En qué provincia resides?",
		ProvinceInput: "❓ Escribe el nombre de la provincia donde resides:",
		Municipality:  "🏘 ¿En qué municipio resides?",
	},
}
