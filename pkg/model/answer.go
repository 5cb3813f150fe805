package model

import (
	"time"

	"github.com/google/uuid"
)

type AnswerID string

// NewAnswerID generates a new unique AnswerID
func NewAnswerID() AnswerID {
	return AnswerID(uuid.New().String())
}

// Answer stores one response to one question. Voice questions produce one
// Answer per take, Value being the path of the stored clip.
type Answer struct {
	ID         AnswerID   `firestore:"id" bson:"_id"`
	QuestionID QuestionID `firestore:"question_id" bson:"question_id"`
	UserID     string     `firestore:"user_id" bson:"user_id"`
	PairID     PairID     `firestore:"pair_id,omitempty" bson:"pair_id,omitempty"`
	Value      string     `firestore:"value" bson:"value"`
	AnsweredAt time.Time  `firestore:"answered_at" bson:"answered_at"`
}
