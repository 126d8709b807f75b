// Package nl2sql holds the two language-model stages of a turn: turning a
// question into SQL and turning query results into an answer.
package nl2sql

import (
	"context"
	"fmt"

	"github.com/projectsamarth/samarth/internal/llm"
	"github.com/projectsamarth/samarth/internal/query"
)

// Translator is the question to query stage.
type Translator struct {
	completer llm.Completer
}

func NewTranslator(completer llm.Completer) *Translator {
	return &Translator{completer: completer}
}

// ToQuery returns the completion verbatim. Fencing or commentary the model
// adds is not removed.
func (t *Translator) ToQuery(ctx context.Context, question, schema string) (string, error) {
	if t == nil || t.completer == nil {
		return "", fmt.Errorf("query translator is not configured")
	}
	text, err := t.completer.Complete(ctx, RenderQueryPrompt(schema, question))
	if err != nil {
		return "", fmt.Errorf("generate query: %w", err)
	}
	return text, nil
}

// Narrator is the query to answer stage.
type Narrator struct {
	completer llm.Completer
}

func NewNarrator(completer llm.Completer) *Narrator {
	return &Narrator{completer: completer}
}

// ToAnswer feeds outcome.Text() to the model whether the query succeeded,
// failed or returned nothing.
func (n *Narrator) ToAnswer(ctx context.Context, question string, outcome query.Outcome) (string, error) {
	if n == nil || n.completer == nil {
		return "", fmt.Errorf("answer narrator is not configured")
	}
	text, err := n.completer.Complete(ctx, RenderAnswerPrompt(question, outcome.Text()))
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}
	return text, nil
}
