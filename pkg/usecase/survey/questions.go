package survey

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hablacanaria/hablabot/pkg/adapter"
	"github.com/hablacanaria/hablabot/pkg/model"
	"github.com/hablacanaria/hablabot/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// askNext asks the question under the cursor. Multiple-choice questions
// without options are skipped; past the end the terminal choice is shown.
func (uc *UseCase) askNext(ctx context.Context, s *Session) error {
	for {
		q := s.Current()
		if q == nil {
			return uc.enter(ctx, s, StateFinished)
		}

		switch q.Kind {
		case model.QuestionMultipleChoice:
			if len(q.Options) == 0 {
				logging.From(ctx).Info("skip multiple choice question without options", "question_id", q.ID)
				s.Cursor++
				continue
			}
			return uc.enter(ctx, s, StateMultipleChoice)
		case model.QuestionOpen:
			return uc.enter(ctx, s, StateVoice)
		default:
			return goerr.New("unknown question kind", goerr.V("question_id", q.ID), goerr.V("kind", q.Kind))
		}
	}
}

func (uc *UseCase) saveAnswer(ctx context.Context, s *Session, q *model.Question, value string) error {
	answer := &model.Answer{
		ID:         model.NewAnswerID(),
		QuestionID: q.ID,
		UserID:     s.UserID,
		PairID:     s.PairID,
		Value:      value,
		AnsweredAt: uc.now(),
	}
	if err := uc.repo.PutAnswer(ctx, answer); err != nil {
		return goerr.Wrap(err, "failed to save answer", goerr.V("question_id", q.ID))
	}
	return nil
}

// AudioKey is the storage key of one voice take
func AudioKey(userID string, questionID model.QuestionID) string {
	return fmt.Sprintf("audios/%s_%s_%s.ogg", userID, questionID, uuid.NewString())
}

func (uc *UseCase) storeVoice(ctx context.Context, s *Session, q *model.Question, fileID string) (string, error) {
	r, err := uc.channel.FetchVoice(ctx, fileID)
	if err != nil {
		return "", goerr.Wrap(err, "failed to fetch voice", goerr.V("file_id", fileID))
	}
	defer r.Close()

	key := AudioKey(s.UserID, q.ID)
	path, err := uc.audio.Save(ctx, key, r)
	if err != nil {
		return "", goerr.Wrap(err, "failed to save voice", goerr.V("key", key))
	}
	return path, nil
}

func (uc *UseCase) handleMultipleChoice(ctx context.Context, s *Session, ev adapter.Event) (outcome, error) {
	q := s.Current()
	opt, out, err := uc.readChoice(ctx, s, ev, questionOptions(q))
	if err != nil || out != outcomeAdvanced {
		return out, err
	}

	if err := uc.saveAnswer(ctx, s, q, opt.Value); err != nil {
		return outcomeRejected, retryable(err)
	}
	s.Cursor++

	if err := uc.closePrompt(ctx, s, fmt.Sprintf(msgAnswerSelected, q.Prompt, opt.Value)); err != nil {
		return outcomeRejected, err
	}
	return outcomeAdvanced, uc.askNext(ctx, s)
}

func (uc *UseCase) handleVoice(ctx context.Context, s *Session, ev adapter.Event) (outcome, error) {
	switch {
	case ev.Kind == adapter.EventChoice:
		return outcomeIgnored, nil
	case ev.Kind != adapter.EventVoice || ev.Voice == nil:
		return outcomeRejected, uc.sendText(ctx, s, msgVoiceOnly)
	}

	q := s.Current()
	path, err := uc.storeVoice(ctx, s, q, ev.Voice.FileID)
	if err != nil {
		return outcomeRejected, retryable(err)
	}
	if err := uc.saveAnswer(ctx, s, q, path); err != nil {
		return outcomeRejected, retryable(err)
	}

	s.State = StateVoiceFollowUp
	if err := uc.sendText(ctx, s, msgAnswerSaved); err != nil {
		return outcomeRejected, err
	}
	return outcomeAdvanced, uc.prompt(ctx, s)
}

// handleVoiceFollowUp rejects everything except the send-another or continue decision
func (uc *UseCase) handleVoiceFollowUp(ctx context.Context, s *Session, ev adapter.Event) (outcome, error) {
	if ev.Kind != adapter.EventChoice {
		return outcomeRejected, uc.sendText(ctx, s, msgDecideFirst)
	}

	opt, out, err := uc.readChoice(ctx, s, ev, followUpOptions)
	if err != nil || out != outcomeAdvanced {
		return out, err
	}
	if err := uc.confirm(ctx, s, opt); err != nil {
		return outcomeRejected, err
	}

	if opt.Payload == payloadAnother {
		s.State = StateVoice
		return outcomeAdvanced, uc.sendText(ctx, s, msgRecordAnother)
	}

	s.Cursor++
	return outcomeAdvanced, uc.askNext(ctx, s)
}

func (uc *UseCase) handleFinished(ctx context.Context, s *Session, ev adapter.Event) (outcome, error) {
	opt, out, err := uc.readChoice(ctx, s, ev, terminalOptions)
	if err != nil || out != outcomeAdvanced {
		return out, err
	}
	if err := uc.confirm(ctx, s, opt); err != nil {
		return outcomeRejected, err
	}

	if opt.Payload == payloadExit {
		return outcomeEnded, uc.sendText(ctx, s, msgFarewell)
	}

	*s = *newSession(s.UserID, s.ChatID)
	return outcomeAdvanced, uc.prompt(ctx, s)
}
