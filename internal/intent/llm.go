package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/loisapp/lois/internal/anthropic"
	"github.com/loisapp/lois/internal/models"
)

// Completer is the slice of the model client the classifier needs.
type Completer interface {
	CompleteWithRetry(ctx context.Context, prompt string) (string, error)
}

// LLMClassifier asks the model to pick a kind and parses its JSON verdict.
// Callers are expected to fall back to conversational handling when it
// errors; it never invents a kind outside the closed set.
type LLMClassifier struct {
	completer Completer
	logger    *logrus.Logger
}

func NewLLMClassifier(completer Completer, logger *logrus.Logger) *LLMClassifier {
	return &LLMClassifier{completer: completer, logger: logger}
}

const classifyPromptTemplate = `You are a query classifier for a legal case management system. Classify the user's question into exactly one of these types:

- "search": a direct lookup of a specific person or case. Examples: "John Smith", "CV-2024-00123", "look up Maria Garcia". A bare name with no other words is ALWAYS "search", never "sql".
- "sql": a structured data question needing counting, filtering, or aggregation over cases, contacts, time entries, expenses, or invoices. Examples: "how many open cases do we have", "total billable hours last month", "cases with medical expenses over $10,000", "which of these cases are in discovery".
- "document_search": a full-text search over document content. Examples: "find documents mentioning asbestos", "search pleadings about the zoning dispute".
- "general": conversational or explanatory questions, summaries, and anything that fits none of the above. Examples: "what can you do", "explain the discovery process".

Follow-up questions that filter a previous result set ("which of these mention a settlement") are "sql", not "document_search".
%s
User question: %q

Respond with ONLY a JSON object, no markdown, in this exact shape:
{"type": "<search|sql|document_search|general>", "confidence": <0.0-1.0>, "reasoning": "<one sentence>"}`

type llmVerdict struct {
	Type       string   `json:"type"`
	Confidence *float64 `json:"confidence"`
	Reasoning  string   `json:"reasoning"`
}

func (lc *LLMClassifier) Classify(ctx context.Context, query string, qc *models.QueryContext) (Result, error) {
	contextBlock := ""
	if qc != nil && qc.PreviousQuery != "" {
		contextBlock = fmt.Sprintf("\nThe previous question in this conversation was: %q\n", qc.PreviousQuery)
	}

	prompt := fmt.Sprintf(classifyPromptTemplate, contextBlock, query)

	reply, err := lc.completer.CompleteWithRetry(ctx, prompt)
	if err != nil {
		return Result{}, fmt.Errorf("classification request failed: %w", err)
	}

	var verdict llmVerdict
	if err := json.Unmarshal([]byte(anthropic.ExtractJSON(reply)), &verdict); err != nil {
		return Result{}, fmt.Errorf("failed to parse classification response: %w", err)
	}

	kind := Intent(strings.TrimSpace(strings.ToLower(verdict.Type)))
	if !kind.Valid() {
		return Result{}, fmt.Errorf("classifier returned unknown type %q", verdict.Type)
	}

	confidence := 1.0
	if verdict.Confidence != nil {
		confidence = *verdict.Confidence
	}
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	if lc.logger != nil {
		lc.logger.WithFields(logrus.Fields{
			"intent":     kind,
			"confidence": confidence,
		}).Debug("Classified query via model")
	}

	return Result{
		Intent:          kind,
		Confidence:      confidence,
		Reasoning:       verdict.Reasoning,
		SuggestedAction: SuggestedAction(kind),
	}, nil
}
