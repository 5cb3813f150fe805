package survey

import (
	"sync"

	"github.com/hablacanaria/hablabot/pkg/adapter"
	"github.com/hablacanaria/hablabot/pkg/model"
)

// State is the step a conversation is parked in
type State int

const (
	StateTaskSelection State = iota
	StateConsent

	StateRole
	StateRoleOther
	StateEmail
	StateName
	StateBirthYear
	StateGender
	StateEducation
	StateEducationOther
	StateDegreeYear
	StateDegreeField
	StateUniversity
	StateUniversityOther

	StateCountry
	StateCountryInput
	StateProvince
	StateProvinceInput
	StateMunicipality
	StateResidenceDuration

	StateMultipleChoice
	StateVoice
	StateVoiceFollowUp
	StateFinished
)

var stateNames = map[State]string{
	StateTaskSelection:     "task_selection",
	StateConsent:           "consent",
	StateRole:              "role",
	StateRoleOther:         "role_other",
	StateEmail:             "email",
	StateName:              "name",
	StateBirthYear:         "birth_year",
	StateGender:            "gender",
	StateEducation:         "education",
	StateEducationOther:    "education_other",
	StateDegreeYear:        "degree_year",
	StateDegreeField:       "degree_field",
	StateUniversity:        "university",
	StateUniversityOther:   "university_other",
	StateCountry:           "country",
	StateCountryInput:      "country_input",
	StateProvince:          "province",
	StateProvinceInput:     "province_input",
	StateMunicipality:      "municipality",
	StateResidenceDuration: "residence_duration",
	StateMultipleChoice:    "multiple_choice",
	StateVoice:             "voice",
	StateVoiceFollowUp:     "voice_follow_up",
	StateFinished:          "finished",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Session is the ephemeral state of one conversation
type Session struct {
	UserID string
	ChatID string
	State  State
	Flow   model.FlowKind

	Consent *model.ConsentText

	// Slot is 1 or 2 and selects the profile being filled
	Slot     int
	PairID   model.PairID
	Profiles [2]model.Profile
	Geo      model.PlaceKind

	Questions []*model.Question
	Cursor    int

	// PromptID is the message whose choices are currently accepted
	PromptID adapter.MessageID
}

func newSession(userID, chatID string) *Session {
	return &Session{
		UserID: userID,
		ChatID: chatID,
		State:  StateTaskSelection,
		Slot:   1,
	}
}

// Profile returns the profile of the active slot
func (s *Session) Profile() *model.Profile {
	return &s.Profiles[s.Slot-1]
}

// Place returns the place of the active slot and geography context
func (s *Session) Place() *model.Place {
	return s.Profile().Place(s.Geo)
}

// Current returns the question under the cursor, or nil past the end
func (s *Session) Current() *model.Question {
	if s.Cursor < 0 || s.Cursor >= len(s.Questions) {
		return nil
	}
	return s.Questions[s.Cursor]
}

// AwaitingDecision reports whether a voice take waits for send-another or continue
func (s *Session) AwaitingDecision() bool {
	return s.State == StateVoiceFollowUp
}

// SessionStore keeps sessions by user identity. Events of one user arrive
// serially; different users may be handled concurrently.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*Session)}
}

func (x *SessionStore) Get(userID string) (*Session, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	s, ok := x.sessions[userID]
	return s, ok
}

func (x *SessionStore) Put(s *Session) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.sessions[s.UserID] = s
}

func (x *SessionStore) Delete(userID string) {
	x.mu.Lock()
	defer x.mu.Unlock()
	delete(x.sessions, userID)
}

func (x *SessionStore) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.sessions)
}
