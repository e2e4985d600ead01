// Package round orchestrates the game protocol on top of the session store:
// round lifecycle, the question -> oracle -> answer pipeline, and resolution.
package round

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/wordspy/backend/internal/session"
)

var (
	// ErrNoActiveRound is recoverable: the caller should start a round (or
	// report the in-flight operation dropped) and let the client retry.
	ErrNoActiveRound = errors.New("no active round")
	// ErrRoundResolved rejects new questions once the round has ended.
	ErrRoundResolved = errors.New("round already resolved")
)

// Answers produced without (or in spite of) the oracle.
const (
	answerCorrect = "🎉 Correct!"
	answerError   = "⚠️ Error"
)

// Oracle is the narrow collaborator boundary to the answering engine.
type Oracle interface {
	Classify(ctx context.Context, term string) (string, error)
	Answer(ctx context.Context, question, term string) (string, error)
}

type Controller struct {
	store    *session.Store
	oracle   Oracle
	log      *zap.Logger
	pickTerm func() string
}

// NewController wires the controller's collaborators explicitly; pick
// selects the secret term for each new round (RandomTerm in production).
func NewController(store *session.Store, oracle Oracle, pick func() string, log *zap.Logger) *Controller {
	return &Controller{
		store:    store,
		oracle:   oracle,
		log:      log,
		pickTerm: pick,
	}
}

// StartRound selects a fresh secret term, classifies it, and replaces the
// room's round state. Oracle failure degrades the category to "unknown"
// rather than blocking the round.
func (c *Controller) StartRound(ctx context.Context, roomID string) (session.Snapshot, error) {
	term := c.pickTerm()

	category, err := c.oracle.Classify(ctx, term)
	if err != nil {
		c.log.Warn("classify failed, using fallback category",
			zap.String("room", roomID),
			zap.Error(err),
		)
		category = "unknown"
	}

	return c.store.StartRound(roomID, term, category), nil
}

// SubmitQuestion is the synchronous half of the question pipeline: guard the
// round state and append the pending record so it becomes visible to every
// participant immediately. The answer arrives later via ResolveAnswer.
func (c *Controller) SubmitQuestion(roomID, connID, questionID, text string) (session.QuestionRecord, error) {
	if !c.store.HasRoom(roomID) {
		return session.QuestionRecord{}, ErrNoActiveRound
	}
	if c.store.Resolved(roomID) {
		return session.QuestionRecord{}, ErrRoundResolved
	}

	rec := session.QuestionRecord{
		ID:      questionID,
		Text:    text,
		AskedBy: connID,
	}
	c.store.RecordQuestion(roomID, rec)
	return rec, nil
}

// ResolveAnswer is the asynchronous half: decide the answer (direct guess
// short-circuits the oracle entirely), patch the record by id, and resolve
// the round on a conclusive answer. ok is false when the answer landed on a
// record that no longer exists (round was reset mid-flight) and nothing was
// mutated.
func (c *Controller) ResolveAnswer(ctx context.Context, roomID, connID, questionID, text string) (rec session.QuestionRecord, res *session.ResolutionInfo, ok bool) {
	secret, exists := c.store.SecretTerm(roomID)
	if !exists {
		return session.QuestionRecord{}, nil, false
	}

	var (
		answer     string
		conclusive bool
		isError    bool
	)
	if CheckDirectGuess(text, secret) {
		answer = answerCorrect
		conclusive = true
	} else if got, err := c.oracle.Answer(ctx, text, secret); err != nil {
		c.log.Warn("oracle answer failed",
			zap.String("room", roomID),
			zap.String("question", questionID),
			zap.Error(err),
		)
		answer = answerError
		isError = true
	} else {
		answer = got
	}

	patch := session.QuestionPatch{
		Answer:       &answer,
		IsConclusive: &conclusive,
	}
	if isError {
		patch.IsError = &isError
	}
	if !c.store.UpdateQuestion(roomID, questionID, patch) {
		return session.QuestionRecord{}, nil, false
	}

	rec, _ = c.store.Question(roomID, questionID)
	if conclusive {
		winner := connID
		res = c.store.SetResolution(roomID, &winner)
	}
	return rec, res, true
}

// GiveUp resolves the round with no winner, revealing the secret.
func (c *Controller) GiveUp(roomID string) (*session.ResolutionInfo, error) {
	if !c.store.HasRoom(roomID) {
		return nil, ErrNoActiveRound
	}
	return c.store.SetResolution(roomID, nil), nil
}

// CheckDirectGuess reports whether the question text plainly contains the
// secret term: both sides lowercased, everything but letters and spaces
// stripped from the question.
func CheckDirectGuess(question, term string) bool {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || r == ' ' {
			return r
		}
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return -1
	}, question)

	return strings.Contains(cleaned, strings.ToLower(term))
}
