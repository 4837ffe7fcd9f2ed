package intent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loisapp/lois/internal/models"
)

func classify(t *testing.T, query string, qc *models.QueryContext) Result {
	t.Helper()
	lc := NewLocalClassifier(nil)
	res, err := lc.Classify(context.Background(), query, qc)
	require.NoError(t, err)
	return res
}

func TestLocalClassifier_BareNameIsSearch(t *testing.T) {
	res := classify(t, "John Smith", nil)
	assert.Equal(t, IntentSearch, res.Intent)
	assert.Greater(t, res.Confidence, 0.0)
}

func TestLocalClassifier_SurnameWithInteriorCapital(t *testing.T) {
	for _, q := range []string{"Harold McLaughlin", "Mary O'Brien"} {
		res := classify(t, q, nil)
		assert.Equal(t, IntentSearch, res.Intent, "query %q", q)
	}
}

func TestLocalClassifier_OpenCaseCountIsSQL(t *testing.T) {
	res := classify(t, "How many open Personal Injury cases are there?", nil)
	assert.Equal(t, IntentSQL, res.Intent)
}

func TestLocalClassifier_MiddleInitialNameIsSearch(t *testing.T) {
	res := classify(t, "Maria T. Garcia", nil)
	assert.Equal(t, IntentSearch, res.Intent)
}

func TestLocalClassifier_CaseNumberIsSearch(t *testing.T) {
	for _, q := range []string{"CV-2024-00123", "look up PI-2023-004", "what happened with cv-2024-00123"} {
		res := classify(t, q, nil)
		assert.Equal(t, IntentSearch, res.Intent, "query %q", q)
	}
}

func TestLocalClassifier_SearchWinsTieAgainstSQL(t *testing.T) {
	// Three structured keywords tie the case-number signal; the lookup
	// kind takes priority because its score clears the threshold.
	res := classify(t, "count total filter cv-2024-00123", nil)
	assert.Equal(t, IntentSearch, res.Intent)
}

func TestLocalClassifier_AggregationIsSQL(t *testing.T) {
	for _, q := range []string{
		"how many open cases do we have",
		"what is the total billable hours in the last 30 days",
		"show me all cases with medical expenses over $10,000",
		"list all contacts with unpaid invoices",
	} {
		res := classify(t, q, nil)
		assert.Equal(t, IntentSQL, res.Intent, "query %q", q)
	}
}

func TestLocalClassifier_NumericThresholdBoostsSQL(t *testing.T) {
	res := classify(t, "cases with more than 100 hours logged", nil)
	assert.Equal(t, IntentSQL, res.Intent)
}

func TestLocalClassifier_DocumentSearch(t *testing.T) {
	for _, q := range []string{
		"find documents mentioning asbestos",
		"search pleadings about the zoning dispute",
		"what documents reference the settlement agreement",
	} {
		res := classify(t, q, nil)
		assert.Equal(t, IntentDocumentSearch, res.Intent, "query %q", q)
	}
}

func TestLocalClassifier_AnaphoraWithContextPrefersSQL(t *testing.T) {
	qc := &models.QueryContext{
		PreviousQuery:  "show me all personal injury cases",
		PreviousResult: []map[string]interface{}{{"case_number": "PI-2024-00001"}},
		PreviousSQL:    "SELECT * FROM projects WHERE case_type = 'Personal Injury'",
	}
	res := classify(t, "which of these cases mention a settlement", qc)
	assert.Equal(t, IntentSQL, res.Intent)
}

func TestLocalClassifier_AnaphoraOnlySignalIsSQL(t *testing.T) {
	qc := &models.QueryContext{PreviousResult: []map[string]interface{}{{"id": "1"}}}
	res := classify(t, "narrow those cases down", qc)
	assert.Equal(t, IntentSQL, res.Intent)
}

func TestLocalClassifier_NoIndicatorsDefaultsToGeneral(t *testing.T) {
	res := classify(t, "hello there", nil)
	assert.Equal(t, IntentGeneral, res.Intent)
	assert.Equal(t, 0.5, res.Confidence)
	assert.Equal(t, noIndicatorsReasoning, res.Reasoning)
}

func TestLocalClassifier_ConversationalQuestions(t *testing.T) {
	for _, q := range []string{
		"can you help me get started",
		"explain the discovery process",
		"tell me about this system",
	} {
		res := classify(t, q, nil)
		assert.Equal(t, IntentGeneral, res.Intent, "query %q", q)
	}
}

func TestLocalClassifier_ConfidenceBounds(t *testing.T) {
	for _, q := range []string{
		"John Smith",
		"how many cases were filed in the last 90 days",
		"find documents mentioning arbitration",
		"hello there",
	} {
		res := classify(t, q, nil)
		assert.Greater(t, res.Confidence, 0.0, "query %q", q)
		assert.LessOrEqual(t, res.Confidence, 1.0, "query %q", q)
	}
}

func TestLocalClassifier_Deterministic(t *testing.T) {
	lc := NewLocalClassifier(nil)
	first, err := lc.Classify(context.Background(), "how many cases settled in the last 6 months", nil)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := lc.Classify(context.Background(), "how many cases settled in the last 6 months", nil)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestLocalClassifier_SuggestedActionMatchesIntent(t *testing.T) {
	res := classify(t, "how many open cases do we have", nil)
	assert.Equal(t, SuggestedAction(IntentSQL), res.SuggestedAction)
}
