package model

import (
	"time"

	"github.com/google/uuid"
)

// PlaceKind names the semantic context of a geographic answer
type PlaceKind string

const (
	PlaceBirth      PlaceKind = "birth"
	PlaceUpbringing PlaceKind = "upbringing"
	PlaceResidence  PlaceKind = "residence"
)

type Place struct {
	Country      string `firestore:"country" bson:"country"`
	Province     string `firestore:"province" bson:"province"`
	Municipality string `firestore:"municipality" bson:"municipality"`
}

// Profile holds the demographic and geographic answers of one participant
type Profile struct {
	Role              string `firestore:"role" bson:"role"`
	Email             string `firestore:"email" bson:"email"`
	Name              string `firestore:"name" bson:"name"`
	BirthYear         int    `firestore:"birth_year" bson:"birth_year"`
	Gender            string `firestore:"gender" bson:"gender"`
	EducationLevel    string `firestore:"education_level" bson:"education_level"`
	DegreeYear        string `firestore:"degree_year,omitempty" bson:"degree_year,omitempty"`
	DegreeField       string `firestore:"degree_field,omitempty" bson:"degree_field,omitempty"`
	University        string `firestore:"university" bson:"university"`
	Birth             Place  `firestore:"birth" bson:"birth"`
	Upbringing        Place  `firestore:"upbringing" bson:"upbringing"`
	Residence         Place  `firestore:"residence" bson:"residence"`
	ResidenceDuration string `firestore:"residence_duration" bson:"residence_duration"`
}

// Place returns the place record for the given kind. Unknown kinds return nil.
func (p *Profile) Place(kind PlaceKind) *Place {
	switch kind {
	case PlaceBirth:
		return &p.Birth
	case PlaceUpbringing:
		return &p.Upbringing
	case PlaceResidence:
		return &p.Residence
	default:
		return nil
	}
}

// Participant is the registration record of the individual flow
type Participant struct {
	ID           RecordID  `firestore:"id" bson:"_id"`
	UserID       string    `firestore:"user_id" bson:"user_id"`
	Profile      Profile   `firestore:"profile" bson:"profile"`
	RegisteredAt time.Time `firestore:"registered_at" bson:"registered_at"`
}

type PairID string

// NewPairID generates a new unique PairID
func NewPairID() PairID {
	return PairID(uuid.New().String())
}

// Pair is the registration record of the group flow, both participants nested
type Pair struct {
	ID           RecordID  `firestore:"id" bson:"_id"`
	PairID       PairID    `firestore:"pair_id" bson:"pair_id"`
	UserID       string    `firestore:"user_id" bson:"user_id"`
	Participant1 Profile   `firestore:"participant_1" bson:"participant_1"`
	Participant2 Profile   `firestore:"participant_2" bson:"participant_2"`
	RegisteredAt time.Time `firestore:"registered_at" bson:"registered_at"`
}
