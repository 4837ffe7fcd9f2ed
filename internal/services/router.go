package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/loisapp/lois/internal/intent"
	"github.com/loisapp/lois/internal/models"
)

// QueryResult is the routed outcome of one question. Data and Error are
// mutually exclusive: a failed handler reports Error with Data nil, and
// display formatting renders only the error when one is set.
type QueryResult struct {
	Type       intent.Intent `json:"type"`
	Action     string        `json:"action"`
	Data       interface{}   `json:"data,omitempty"`
	Prompt     string        `json:"prompt,omitempty"`
	SQLQuery   string        `json:"sql_query,omitempty"`
	Error      string        `json:"error,omitempty"`
	Confidence float64       `json:"confidence"`
	Reasoning  string        `json:"reasoning,omitempty"`
}

// RouterRepos is the data access the router needs, satisfied by the
// repository manager and by fakes in tests.
type RouterRepos struct {
	Project  models.ProjectRepository
	Contact  models.ContactRepository
	Document models.DocumentRepository
	Executor models.QueryExecutor
}

// Router classifies a question and dispatches it to the matching handler.
// Route never returns an error: every failure is contained in the
// QueryResult so one bad turn cannot take down the conversation.
type Router struct {
	classifier intent.Classifier
	generator  SQLGenerator
	narrator   Narrator
	repos      RouterRepos
	logger     *logrus.Logger
}

func NewRouter(classifier intent.Classifier, generator SQLGenerator, narrator Narrator, repos RouterRepos, logger *logrus.Logger) *Router {
	return &Router{
		classifier: classifier,
		generator:  generator,
		narrator:   narrator,
		repos:      repos,
		logger:     logger,
	}
}

var caseNumberPattern = regexp.MustCompile(`(?i)\b[a-z]{2,4}-\d{4}-\d{3,6}\b`)

// lookupNoise strips imperative framing off a direct lookup so only the
// name or number reaches the match term.
var lookupNoise = regexp.MustCompile(`(?i)\b(look up|pull up|open case|find|show me|search for)\b`)

// stopPhrases are framing words removed from free-text document searches
// before handing the remainder to full-text search.
var stopPhrases = regexp.MustCompile(`(?i)\b(search|find|documents?|for|about|containing|with|mentioning|related|these|those|this|that|cases?)\b`)

func (r *Router) Route(ctx context.Context, query string, qc *models.QueryContext) QueryResult {
	verdict, err := r.classifier.Classify(ctx, query, qc)
	if err != nil {
		if r.logger != nil {
			r.logger.WithError(err).Warn("Classification failed, handling conversationally")
		}
		verdict = intent.Result{
			Intent:          intent.IntentGeneral,
			Confidence:      0.5,
			Reasoning:       "Classification unavailable, handled conversationally",
			SuggestedAction: intent.SuggestedAction(intent.IntentGeneral),
		}
	}

	var result QueryResult
	switch verdict.Intent {
	case intent.IntentSQL:
		result = r.handleSQL(ctx, query, qc)
	case intent.IntentSearch:
		result = r.handleSearch(ctx, query)
	case intent.IntentDocumentSearch:
		result = r.handleDocumentSearch(ctx, query, qc)
	default:
		result = r.handleGeneral(ctx, query, qc)
	}

	result.Type = verdict.Intent
	result.Action = verdict.SuggestedAction
	result.Confidence = verdict.Confidence
	result.Reasoning = verdict.Reasoning
	return result
}

func (r *Router) handleSQL(ctx context.Context, query string, qc *models.QueryContext) QueryResult {
	generated, err := r.generator.Generate(ctx, query, qc)
	if err != nil {
		return QueryResult{Error: fmt.Sprintf("could not build a query for that question: %v", err)}
	}

	rows, err := r.repos.Executor.RunReadOnly(generated.SQL)
	if err != nil {
		return QueryResult{SQLQuery: generated.SQL, Error: fmt.Sprintf("query execution failed: %v", err)}
	}

	return QueryResult{
		Data:     rows,
		SQLQuery: generated.SQL,
		Prompt:   fmt.Sprintf("The user asked: %q. The query returned %d rows. %s Summarize the answer in plain language.", query, len(rows), generated.Explanation),
	}
}

func (r *Router) handleSearch(_ context.Context, query string) QueryResult {
	term := strings.TrimSpace(lookupNoise.ReplaceAllString(query, " "))
	term = strings.Join(strings.Fields(term), " ")

	if num := caseNumberPattern.FindString(query); num != "" {
		project, err := r.repos.Project.GetByCaseNumber(strings.ToUpper(num))
		if err != nil {
			return QueryResult{Error: fmt.Sprintf("lookup failed: %v", err)}
		}
		data := map[string]interface{}{"projects": []models.Project{}, "contacts": []models.Contact{}}
		if project != nil {
			data["projects"] = []models.Project{*project}
		}
		return QueryResult{
			Data:   data,
			Prompt: fmt.Sprintf("The user looked up case %s. Describe the matching case briefly.", strings.ToUpper(num)),
		}
	}

	projects, err := r.repos.Project.SearchByTitleOrNumber(term, 10)
	if err != nil {
		return QueryResult{Error: fmt.Sprintf("lookup failed: %v", err)}
	}
	contacts, err := r.repos.Contact.SearchByName(term, 10)
	if err != nil {
		return QueryResult{Error: fmt.Sprintf("lookup failed: %v", err)}
	}

	return QueryResult{
		Data:   map[string]interface{}{"projects": projects, "contacts": contacts},
		Prompt: fmt.Sprintf("The user looked up %q. Describe the matching cases and people briefly.", term),
	}
}

func (r *Router) handleDocumentSearch(_ context.Context, query string, qc *models.QueryContext) QueryResult {
	if nums := caseNumbersFromContext(qc); len(nums) > 0 {
		docs, err := r.repos.Document.SearchByCaseNumbers(nums, 50)
		if err != nil {
			return QueryResult{Error: fmt.Sprintf("document search failed: %v", err)}
		}
		return QueryResult{
			Data:   docs,
			Prompt: fmt.Sprintf("The user asked: %q. %d documents were found for the cases in the previous result. Summarize what was found.", query, len(docs)),
		}
	}

	terms := strings.TrimSpace(stopPhrases.ReplaceAllString(query, " "))
	terms = strings.Join(strings.Fields(terms), " ")
	if terms == "" {
		return QueryResult{Error: "please describe what the documents should contain"}
	}

	docs, err := r.repos.Document.FullTextSearch(terms, 20)
	if err != nil {
		return QueryResult{Error: fmt.Sprintf("document search failed: %v", err)}
	}

	return QueryResult{
		Data:   docs,
		Prompt: fmt.Sprintf("The user searched documents for %q and %d documents matched. Summarize what was found.", terms, len(docs)),
	}
}

var documentMention = regexp.MustCompile(`(?i)document|file|pleading|motion|brief|contract|correspondence`)

const recentDocumentsSQL = `SELECT d.title, d.document_type, d.date_filed, LEFT(d.content, 500) AS excerpt, p.case_number
FROM documents d JOIN projects p ON p.id = d.project_id
ORDER BY d.date_filed DESC NULLS LAST LIMIT 20`

// excerptLength bounds how much document content goes into a narration prompt.
const excerptLength = 500

func (r *Router) handleGeneral(ctx context.Context, query string, qc *models.QueryContext) QueryResult {
	var contextData interface{}
	if documentMention.MatchString(query) {
		// A document question that still lands here stays anchored to the
		// previous turn's cases when there is one.
		if nums := caseNumbersFromContext(qc); len(nums) > 0 {
			docs, err := r.repos.Document.GetForCases(nums, 20)
			if err == nil {
				contextData = documentExcerpts(docs)
			}
		} else {
			rows, err := r.repos.Executor.RunReadOnly(recentDocumentsSQL)
			if err == nil {
				contextData = rows
			}
		}
	} else {
		stats, err := r.repos.Project.GetStatistics()
		if err == nil {
			contextData = stats
		}
	}

	answer, err := r.narrator.Narrate(ctx, query, contextData)
	if err != nil {
		return QueryResult{Error: fmt.Sprintf("could not answer that right now: %v", err)}
	}

	return QueryResult{
		Data: map[string]interface{}{"answer": answer},
	}
}

// documentExcerpts flattens documents into the fields a narration prompt
// needs, truncating content so one long filing cannot swamp the prompt.
func documentExcerpts(docs []models.Document) []map[string]interface{} {
	rows := make([]map[string]interface{}, 0, len(docs))
	for _, doc := range docs {
		excerpt := doc.Content
		if len(excerpt) > excerptLength {
			excerpt = excerpt[:excerptLength]
		}
		rows = append(rows, map[string]interface{}{
			"case_number":   doc.Project.CaseNumber,
			"title":         doc.Title,
			"document_type": doc.DocumentType,
			"date_filed":    doc.DateFiled,
			"excerpt":       excerpt,
		})
	}
	return rows
}

// caseNumbersFromContext pulls case numbers out of the previous result's
// rows, whether they carry case_number directly or nested under a joined
// projects object.
func caseNumbersFromContext(qc *models.QueryContext) []string {
	rows := previousRows(qc)
	if len(rows) == 0 {
		return nil
	}
	seen := map[string]bool{}
	var nums []string
	for _, row := range rows {
		if num, ok := row["case_number"].(string); ok && num != "" && !seen[num] {
			seen[num] = true
			nums = append(nums, num)
		}
		if nested, ok := row["projects"].(map[string]interface{}); ok {
			if num, ok := nested["case_number"].(string); ok && num != "" && !seen[num] {
				seen[num] = true
				nums = append(nums, num)
			}
		}
	}
	return nums
}
