package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

var (
	ErrInvalidFlow = goerr.New("invalid flow kind")
)

// FlowKind distinguishes the single-participant path from the paired one
type FlowKind string

const (
	FlowIndividual FlowKind = "individual"
	FlowGroup      FlowKind = "group"
)

// Validate checks if the flow kind is valid
func (f FlowKind) Validate() error {
	switch f {
	case FlowIndividual, FlowGroup:
		return nil
	default:
		return goerr.Wrap(ErrInvalidFlow, "unknown flow", goerr.V("flow", f))
	}
}

type RecordID string

// NewRecordID generates a new unique RecordID
func NewRecordID() RecordID {
	return RecordID(uuid.New().String())
}

// TaskSelection is written once when the user picks a flow, before consent
type TaskSelection struct {
	ID         RecordID  `firestore:"id" bson:"_id"`
	UserID     string    `firestore:"user_id" bson:"user_id"`
	Flow       FlowKind  `firestore:"flow" bson:"flow"`
	SelectedAt time.Time `firestore:"selected_at" bson:"selected_at"`
}
