package model

import "time"

type ConsentDecision string

const (
	ConsentSigned   ConsentDecision = "signed"
	ConsentDeclined ConsentDecision = "declined"
)

const (
	ConsentVersionIndividual = "1.0"
	ConsentVersionGroup      = "1.0_grupal"
)

// ConsentVersion returns the consent text version shown for the flow
func ConsentVersion(flow FlowKind) string {
	if flow == FlowGroup {
		return ConsentVersionGroup
	}
	return ConsentVersionIndividual
}

// ConsentText is the read-only text of one consent version
type ConsentText struct {
	Version string `firestore:"version" bson:"_id" yaml:"version"`
	Text    string `firestore:"text" bson:"text" yaml:"text"`
}

// Consent records one answer to the consent prompt. Never updated.
type Consent struct {
	ID        RecordID        `firestore:"id" bson:"_id"`
	UserID    string          `firestore:"user_id" bson:"user_id"`
	Decision  ConsentDecision `firestore:"decision" bson:"decision"`
	Version   string          `firestore:"version" bson:"version"`
	Flow      FlowKind        `firestore:"flow" bson:"flow"`
	DecidedAt time.Time       `firestore:"decided_at" bson:"decided_at"`
}
