package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/loisapp/lois/internal/anthropic"
	"github.com/loisapp/lois/internal/models"
	"github.com/loisapp/lois/internal/schema"
	"github.com/loisapp/lois/internal/sqlsafe"
)

// Completer is the slice of the model client the services need.
type Completer interface {
	CompleteWithRetry(ctx context.Context, prompt string) (string, error)
}

// GenerateResult is a validated, ready-to-run query with its explanation.
type GenerateResult struct {
	SQL           string `json:"sql"`
	Explanation   string `json:"explanation"`
	EstimatedRows int    `json:"estimated_rows"`
}

// SQLGenerator turns a natural-language question into a safe SELECT.
type SQLGenerator interface {
	Generate(ctx context.Context, query string, qc *models.QueryContext) (GenerateResult, error)
}

// LLMSQLGenerator prompts the model with the schema summary and the
// previous turn, then validates whatever comes back before returning it.
type LLMSQLGenerator struct {
	completer Completer
	schema    schema.Context
	logger    *logrus.Logger
}

func NewLLMSQLGenerator(completer Completer, logger *logrus.Logger) *LLMSQLGenerator {
	return &LLMSQLGenerator{completer: completer, schema: schema.Current(), logger: logger}
}

const generatePromptTemplate = `You are a PostgreSQL query generator for a legal case management system.

%s

%sGenerate a single SELECT statement answering this question: %q

Rules:
- SELECT statements only. Never modify data.
- When the question refers to "these" or "those" results, constrain the new query using the previous SQL or the case numbers visible in the sample rows above.
- Respond with ONLY a JSON object, no markdown fences, in this exact shape:
{"sql": "<the query>", "explanation": "<one sentence describing what it returns>", "estimated_rows": <integer>}`

// buildContextBlock renders the previous turn for the prompt. At most two
// sample rows go in so large result sets do not blow up the prompt.
func buildContextBlock(qc *models.QueryContext) string {
	if qc == nil {
		return ""
	}
	var b strings.Builder
	if qc.PreviousQuery != "" {
		fmt.Fprintf(&b, "The previous question was: %q\n", qc.PreviousQuery)
	}
	if qc.PreviousSQL != "" {
		fmt.Fprintf(&b, "The SQL that answered it was: %s\n", qc.PreviousSQL)
	}
	if rows := previousRows(qc); len(rows) > 0 {
		sample := rows
		if len(sample) > 2 {
			sample = sample[:2]
		}
		if encoded, err := json.Marshal(sample); err == nil {
			fmt.Fprintf(&b, "Sample rows from the previous result: %s\n", encoded)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return b.String() + "\n"
}

func (g *LLMSQLGenerator) Generate(ctx context.Context, query string, qc *models.QueryContext) (GenerateResult, error) {
	prompt := fmt.Sprintf(generatePromptTemplate, g.schema.Text, buildContextBlock(qc), query)

	reply, err := g.completer.CompleteWithRetry(ctx, prompt)
	if err != nil {
		return GenerateResult{}, fmt.Errorf("query generation failed: %w", err)
	}

	var result GenerateResult
	if err := json.Unmarshal([]byte(anthropic.ExtractJSON(reply)), &result); err != nil {
		return GenerateResult{}, fmt.Errorf("failed to parse generated query: %w", err)
	}

	cleaned, err := sqlsafe.Clean(result.SQL)
	if err != nil {
		return GenerateResult{}, fmt.Errorf("generated query rejected: %w", err)
	}
	result.SQL = cleaned

	if g.logger != nil {
		g.logger.WithFields(logrus.Fields{
			"schema_version": g.schema.Version,
			"estimated_rows": result.EstimatedRows,
		}).Debug("Generated SQL query")
	}

	return result, nil
}
