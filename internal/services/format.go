package services

import (
	"fmt"
	"strings"

	"github.com/loisapp/lois/internal/models"
)

// FormatForDisplay renders a routed result as the text shown to the user.
// A result carrying an error renders only the error, regardless of what
// else is set.
func FormatForDisplay(result QueryResult) string {
	if result.Error != "" {
		return fmt.Sprintf("I encountered an error: %s", result.Error)
	}

	switch data := result.Data.(type) {
	case nil:
		return "No results found."
	case []map[string]interface{}:
		return formatRows(data)
	case []models.Document:
		return formatDocuments(data)
	case map[string]interface{}:
		if answer, ok := data["answer"].(string); ok {
			return answer
		}
		return formatEntities(data)
	case *models.CaseStatistics:
		return formatStatistics(data)
	default:
		return fmt.Sprintf("%v", data)
	}
}

func formatRows(rows []map[string]interface{}) string {
	if len(rows) == 0 {
		return "No results found."
	}
	if len(rows) == 1 && len(rows[0]) == 1 {
		for key, value := range rows[0] {
			return fmt.Sprintf("%s: %v", key, value)
		}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d results:\n", len(rows))
	for i, row := range rows {
		if i >= 10 {
			fmt.Fprintf(&b, "...and %d more.\n", len(rows)-10)
			break
		}
		fmt.Fprintf(&b, "- %s\n", describeRow(row))
	}
	return strings.TrimRight(b.String(), "\n")
}

// describeRow prefers the identifying columns when present so case rows
// read naturally instead of as raw maps.
func describeRow(row map[string]interface{}) string {
	num, _ := row["case_number"].(string)
	title, _ := row["title"].(string)
	switch {
	case num != "" && title != "":
		return fmt.Sprintf("%s: %s", num, title)
	case num != "":
		return num
	case title != "":
		return title
	}
	parts := make([]string, 0, len(row))
	for key, value := range row {
		parts = append(parts, fmt.Sprintf("%s=%v", key, value))
	}
	return strings.Join(parts, ", ")
}

func formatDocuments(docs []models.Document) string {
	if len(docs) == 0 {
		return "No matching documents found."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d documents:\n", len(docs))
	for _, doc := range docs {
		line := doc.Title
		if doc.DocumentType != "" {
			line = fmt.Sprintf("%s (%s)", line, doc.DocumentType)
		}
		if doc.Project.CaseNumber != "" {
			line = fmt.Sprintf("%s, case %s", line, doc.Project.CaseNumber)
		}
		fmt.Fprintf(&b, "- %s\n", line)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatEntities(data map[string]interface{}) string {
	projects, _ := data["projects"].([]models.Project)
	contacts, _ := data["contacts"].([]models.Contact)
	if len(projects) == 0 && len(contacts) == 0 {
		return "No matching cases or contacts found."
	}
	var b strings.Builder
	for _, p := range projects {
		fmt.Fprintf(&b, "Case %s: %s (%s)\n", p.CaseNumber, p.Title, p.Status)
	}
	for _, c := range contacts {
		fmt.Fprintf(&b, "Contact: %s %s (%s)\n", c.FirstName, c.LastName, c.ContactType)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatStatistics(stats *models.CaseStatistics) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Tracking %d cases.\n", stats.Total)
	for caseType, count := range stats.ByType {
		fmt.Fprintf(&b, "- %s: %d\n", caseType, count)
	}
	return strings.TrimRight(b.String(), "\n")
}
