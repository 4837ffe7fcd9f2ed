package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/loisapp/lois/internal/models"
)

func TestFormatForDisplay_ErrorWinsOverData(t *testing.T) {
	out := FormatForDisplay(QueryResult{
		Error: "query execution failed: relation does not exist",
		Data:  []map[string]interface{}{{"should": "not appear"}},
	})
	assert.Equal(t, "I encountered an error: query execution failed: relation does not exist", out)
	assert.NotContains(t, out, "not appear")
}

func TestFormatForDisplay_SingleAggregateValue(t *testing.T) {
	out := FormatForDisplay(QueryResult{Data: []map[string]interface{}{{"count": 17}}})
	assert.Equal(t, "count: 17", out)
}

func TestFormatForDisplay_CaseRows(t *testing.T) {
	out := FormatForDisplay(QueryResult{Data: []map[string]interface{}{
		{"case_number": "PI-2024-00017", "title": "Smith v. Acme"},
		{"case_number": "CV-2023-00456", "title": "Jones v. Mercer"},
	}})
	assert.Contains(t, out, "Found 2 results:")
	assert.Contains(t, out, "PI-2024-00017: Smith v. Acme")
}

func TestFormatForDisplay_TruncatesLongRowLists(t *testing.T) {
	rows := make([]map[string]interface{}, 15)
	for i := range rows {
		rows[i] = map[string]interface{}{"title": "Case"}
	}
	out := FormatForDisplay(QueryResult{Data: rows})
	assert.Contains(t, out, "...and 5 more.")
}

func TestFormatForDisplay_EmptyResults(t *testing.T) {
	assert.Equal(t, "No results found.", FormatForDisplay(QueryResult{Data: []map[string]interface{}{}}))
	assert.Equal(t, "No results found.", FormatForDisplay(QueryResult{}))
}

func TestFormatForDisplay_Documents(t *testing.T) {
	docs := []models.Document{
		{Title: "Settlement offer", DocumentType: "Correspondence", Project: models.Project{CaseNumber: "PI-2024-00017"}},
	}
	out := FormatForDisplay(QueryResult{Data: docs})
	assert.Contains(t, out, "Settlement offer (Correspondence), case PI-2024-00017")
}

func TestFormatForDisplay_NoDocuments(t *testing.T) {
	out := FormatForDisplay(QueryResult{Data: []models.Document{}})
	assert.Equal(t, "No matching documents found.", out)
}

func TestFormatForDisplay_ConversationalAnswer(t *testing.T) {
	out := FormatForDisplay(QueryResult{Data: map[string]interface{}{"answer": "You have 42 open cases."}})
	assert.Equal(t, "You have 42 open cases.", out)
}

func TestFormatForDisplay_EntityLookup(t *testing.T) {
	out := FormatForDisplay(QueryResult{Data: map[string]interface{}{
		"projects": []models.Project{{CaseNumber: "CV-2024-00123", Title: "Jones v. Mercer", Status: "Open"}},
		"contacts": []models.Contact{{FirstName: "John", LastName: "Smith", ContactType: "Client"}},
	}})
	assert.Contains(t, out, "Case CV-2024-00123: Jones v. Mercer (Open)")
	assert.Contains(t, out, "Contact: John Smith (Client)")
}

func TestFormatForDisplay_Statistics(t *testing.T) {
	out := FormatForDisplay(QueryResult{Data: &models.CaseStatistics{
		Total:  42,
		ByType: map[string]int{"Personal Injury": 12},
	}})
	assert.Contains(t, out, "Tracking 42 cases.")
	assert.Contains(t, out, "Personal Injury: 12")
}
