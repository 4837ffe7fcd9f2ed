// Package intent classifies free-text user queries into a closed set of
// handler kinds. The local classifier scores a declarative rule table; the
// LLM classifier delegates the same mapping to the model and parses its
// JSON verdict.
package intent

import (
	"context"

	"github.com/loisapp/lois/internal/models"
)

// Intent is the closed set of query kinds the router dispatches on.
type Intent string

const (
	// IntentSearch is a direct entity lookup: a bare name or case number.
	IntentSearch Intent = "search"
	// IntentSQL is a structured data query: counts, filters, aggregations.
	IntentSQL Intent = "sql"
	// IntentDocumentSearch is a full-text search over document content.
	IntentDocumentSearch Intent = "document_search"
	// IntentGeneral is the conversational default.
	IntentGeneral Intent = "general"
)

// Intents lists every recognized kind. The router's dispatch is tested
// against this slice so a new kind cannot land without a handler.
var Intents = []Intent{IntentSearch, IntentSQL, IntentDocumentSearch, IntentGeneral}

// Valid reports whether the intent is one of the recognized kinds.
func (i Intent) Valid() bool {
	switch i {
	case IntentSearch, IntentSQL, IntentDocumentSearch, IntentGeneral:
		return true
	}
	return false
}

// Result is the outcome of classifying one query.
type Result struct {
	Intent          Intent  `json:"type"`
	Confidence      float64 `json:"confidence"`
	Reasoning       string  `json:"reasoning"`
	SuggestedAction string  `json:"suggested_action"`
}

// Classifier maps a query (and optional prior-turn context) to a Result.
// Implementations may call out to the network; the local classifier does not.
type Classifier interface {
	Classify(ctx context.Context, query string, qc *models.QueryContext) (Result, error)
}

// SuggestedAction returns the user-facing progress line for a kind.
func SuggestedAction(i Intent) string {
	switch i {
	case IntentSearch:
		return "Looking up matching cases and contacts..."
	case IntentSQL:
		return "Querying case database..."
	case IntentDocumentSearch:
		return "Searching through documents..."
	case IntentGeneral:
		return "Analyzing your question..."
	}
	return "Processing..."
}
