// Package oracle answers free-text questions about a secret term through a
// language model. Two backends exist (local Ollama, hosted OpenAI); the
// choice is made once at startup and injected, never looked up per call.
package oracle

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Categorical answer labels. Everything a model says is normalized down to
// one of these before it reaches a client.
const (
	AnswerYes       = "✅"
	AnswerNo        = "❌"
	AnswerMaybe     = "Maybe"
	AnswerSometimes = "Sometimes"
	AnswerUnclear   = "😛"
)

// query mirrors what both backends need for a single generation call.
type query struct {
	prompt      string
	temperature float64
	topP        float64
}

// model is the narrow capability both backends implement.
type model interface {
	ask(ctx context.Context, q query) (string, error)
}

// Client wraps a model backend with the game's prompting and answer
// normalization.
type Client struct {
	m   model
	log *zap.Logger
}

func NewClient(m model, log *zap.Logger) *Client {
	return &Client{m: m, log: log}
}

// Classify returns a short category label for the term, e.g. "food".
func (c *Client) Classify(ctx context.Context, term string) (string, error) {
	raw, err := c.m.ask(ctx, query{prompt: classifyPrompt(term)})
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(raw)), nil
}

// Answer asks the model the player's question about the secret term and
// normalizes the reply to a categorical label.
func (c *Client) Answer(ctx context.Context, question, term string) (string, error) {
	raw, err := c.m.ask(ctx, query{
		prompt:      answerPrompt(question, term),
		temperature: 0.1,
		topP:        0.9,
	})
	if err != nil {
		return "", err
	}
	answer := c.postProcess(raw)
	c.log.Debug("oracle answered",
		zap.String("question", question),
		zap.String("answer", answer),
		zap.String("raw", raw),
	)
	return answer, nil
}

// postProcess extracts a categorical answer from whatever the model said.
func (c *Client) postProcess(raw string) string {
	cleaned := strings.ToLower(strings.TrimSpace(raw))

	hasYes := strings.Contains(cleaned, "yes")
	hasNo := strings.Contains(cleaned, "no")
	switch {
	case hasYes && !hasNo:
		return AnswerYes
	case hasNo && !hasYes:
		return AnswerNo
	case strings.Contains(cleaned, "maybe"):
		return AnswerMaybe
	case strings.Contains(cleaned, "sometimes"):
		return AnswerSometimes
	case strings.Contains(cleaned, "unclear"):
		return AnswerUnclear
	}

	// Replies containing both "yes" and "no" ("yes, but not...") fall
	// through to a plain-text label decided by the leading word.
	switch {
	case strings.HasPrefix(cleaned, "yes"):
		return "Yes"
	case strings.HasPrefix(cleaned, "no"):
		return "No"
	case strings.HasPrefix(cleaned, "maybe"):
		return AnswerMaybe
	}

	c.log.Warn("unexpected oracle response format", zap.String("raw", raw))
	return "Unclear"
}
