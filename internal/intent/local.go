package intent

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/loisapp/lois/internal/models"
)

// LocalClassifier scores the rule table. It is deterministic, never touches
// the network, and never returns an error.
type LocalClassifier struct {
	rules  []rule
	logger *logrus.Logger
}

func NewLocalClassifier(logger *logrus.Logger) *LocalClassifier {
	return &LocalClassifier{rules: allRules(), logger: logger}
}

const noIndicatorsReasoning = "No strong indicators found, defaulting to conversational handling"

var reasonings = map[Intent]string{
	IntentSearch:         "Query looks like a direct lookup of a person or case",
	IntentSQL:            "Query contains structured data indicators (aggregation, filtering, or entity references)",
	IntentDocumentSearch: "Query asks to search document content",
	IntentGeneral:        "Query is conversational or explanatory in nature",
}

// Classify scores every rule against the query and picks the kind with the
// maximum score. The direct-lookup kind wins ties against the structured
// kind when its score is at least 2, so a bare name is never treated as an
// aggregation. A query matching no rules is conversational with confidence
// 0.5. The context only sharpens scores, it never changes an otherwise
// unambiguous verdict.
func (lc *LocalClassifier) Classify(_ context.Context, query string, qc *models.QueryContext) (Result, error) {
	raw := strings.TrimSpace(query)
	normalized := strings.ToLower(raw)

	scores := map[Intent]float64{}
	for _, r := range lc.rules {
		switch {
		case r.keyword != "":
			if strings.Contains(normalized, r.keyword) {
				scores[r.intent] += r.weight
			}
		case r.raw:
			if r.pattern.MatchString(raw) {
				scores[r.intent] += r.weight
			}
		default:
			if r.pattern.MatchString(normalized) {
				scores[r.intent] += r.weight
			}
		}
	}

	// Follow-up filters over a prior result set ("which of these mention
	// asbestos") re-query rather than re-search.
	if anaphoraPattern.MatchString(normalized) && mentionPattern.MatchString(normalized) {
		scores[IntentSQL] += 2
	}
	if qc != nil && qc.PreviousResult != nil && anaphoraPattern.MatchString(normalized) {
		scores[IntentSQL] += 1
	}

	// Polite phrasing alone should not tip a data question conversational.
	if strings.Contains(normalized, "can you") {
		scores[IntentGeneral] += 0.5
	}

	max := 0.0
	total := 0.0
	for _, s := range scores {
		total += s
		if s > max {
			max = s
		}
	}

	if max == 0 {
		return Result{
			Intent:          IntentGeneral,
			Confidence:      0.5,
			Reasoning:       noIndicatorsReasoning,
			SuggestedAction: SuggestedAction(IntentGeneral),
		}, nil
	}

	var winner Intent
	switch {
	case scores[IntentSearch] >= 2 && scores[IntentSearch] >= max:
		winner = IntentSearch
	case scores[IntentSQL] == max:
		winner = IntentSQL
	case scores[IntentDocumentSearch] == max:
		winner = IntentDocumentSearch
	case scores[IntentSearch] == max:
		winner = IntentSearch
	default:
		winner = IntentGeneral
	}

	confidence := max / total
	if confidence > 1 {
		confidence = 1
	}

	if lc.logger != nil {
		lc.logger.WithFields(logrus.Fields{
			"intent":     winner,
			"confidence": confidence,
			"scores":     scores,
		}).Debug("Classified query locally")
	}

	return Result{
		Intent:          winner,
		Confidence:      confidence,
		Reasoning:       reasonings[winner],
		SuggestedAction: SuggestedAction(winner),
	}, nil
}
