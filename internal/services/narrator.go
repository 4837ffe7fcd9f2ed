package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Narrator turns raw result data into a plain-language answer.
type Narrator interface {
	Narrate(ctx context.Context, query string, data interface{}) (string, error)
}

// LLMNarrator hands the question and a bounded slice of the data to the
// model and returns its prose answer verbatim.
type LLMNarrator struct {
	completer Completer
	logger    *logrus.Logger
}

func NewLLMNarrator(completer Completer, logger *logrus.Logger) *LLMNarrator {
	return &LLMNarrator{completer: completer, logger: logger}
}

const narratePromptTemplate = `You are the assistant for a legal case management system used by attorneys and paralegals.

%sAnswer this question in two or three plain sentences, citing case numbers when they appear in the data. If the data does not answer the question, say so rather than guessing.

Question: %q`

// maxNarrationRows caps how much result data goes into the prompt.
const maxNarrationRows = 25

func (n *LLMNarrator) Narrate(ctx context.Context, query string, data interface{}) (string, error) {
	dataBlock := ""
	if data != nil {
		bounded := data
		if rows, ok := data.([]map[string]interface{}); ok && len(rows) > maxNarrationRows {
			bounded = rows[:maxNarrationRows]
		}
		if encoded, err := json.Marshal(bounded); err == nil {
			dataBlock = fmt.Sprintf("Relevant data from the database:\n%s\n\n", encoded)
		}
	}

	prompt := fmt.Sprintf(narratePromptTemplate, dataBlock, query)

	answer, err := n.completer.CompleteWithRetry(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("narration failed: %w", err)
	}
	if n.logger != nil {
		n.logger.WithField("answer_length", len(answer)).Debug("Narrated query result")
	}
	return answer, nil
}
