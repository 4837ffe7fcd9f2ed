package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loisapp/lois/internal/intent"
	"github.com/loisapp/lois/internal/models"
	"github.com/loisapp/lois/internal/services"
)

type stubClassifier struct {
	result intent.Result
	err    error
}

func (s *stubClassifier) Classify(_ context.Context, _ string, _ *models.QueryContext) (intent.Result, error) {
	return s.result, s.err
}

type stubGenerator struct {
	result services.GenerateResult
	err    error
}

func (s *stubGenerator) Generate(_ context.Context, _ string, _ *models.QueryContext) (services.GenerateResult, error) {
	return s.result, s.err
}

type stubNarrator struct {
	answer string
	err    error
}

func (s *stubNarrator) Narrate(_ context.Context, _ string, _ interface{}) (string, error) {
	return s.answer, s.err
}

type stubExecutor struct {
	rows []map[string]interface{}
	err  error
}

func (s *stubExecutor) RunReadOnly(string) ([]map[string]interface{}, error) { return s.rows, s.err }

type stubQueryLogs struct {
	logs []models.QueryLog
}

func (s *stubQueryLogs) Create(entry *models.QueryLog) error {
	s.logs = append(s.logs, *entry)
	return nil
}
func (s *stubQueryLogs) GetRecent(int) ([]models.QueryLog, error) { return s.logs, nil }

func newTestHandler(classifier intent.Classifier, generator services.SQLGenerator, narrator services.Narrator, executor models.QueryExecutor) *QueryHandler {
	if narrator == nil {
		narrator = &stubNarrator{answer: "ok"}
	}
	router := services.NewRouter(classifier, generator, narrator, services.RouterRepos{Executor: executor}, nil)
	return NewQueryHandler(router, classifier, generator, narrator, executor, nil, nil)
}

func performJSON(t *testing.T, handler gin.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	_, engine := gin.CreateTestContext(recorder)
	engine.POST("/test", handler)
	req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(recorder, req)
	return recorder
}

func TestAsk_FullPipeline(t *testing.T) {
	classifier := &stubClassifier{result: intent.Result{
		Intent: intent.IntentSQL, Confidence: 0.9, SuggestedAction: intent.SuggestedAction(intent.IntentSQL),
	}}
	generator := &stubGenerator{result: services.GenerateResult{SQL: "SELECT COUNT(*) FROM projects", Explanation: "Counts cases."}}
	executor := &stubExecutor{rows: []map[string]interface{}{{"count": 42}}}

	handler := newTestHandler(classifier, generator, nil, executor)
	recorder := performJSON(t, handler.Ask, `{"query": "how many cases do we have"}`)

	require.Equal(t, http.StatusOK, recorder.Code)
	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Display string `json:"display"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "count: 42", resp.Data.Display)
}

func TestAsk_EmptyQueryRejected(t *testing.T) {
	handler := newTestHandler(&stubClassifier{}, &stubGenerator{}, nil, &stubExecutor{})

	recorder := performJSON(t, handler.Ask, `{"query": "   "}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = performJSON(t, handler.Ask, `{}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestAsk_OverlongQueryRejected(t *testing.T) {
	handler := newTestHandler(&stubClassifier{}, &stubGenerator{}, nil, &stubExecutor{})
	body := `{"query": "` + strings.Repeat("a", maxQueryLength+1) + `"}`
	recorder := performJSON(t, handler.Ask, body)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestAsk_HandlerFailureStillReturns200(t *testing.T) {
	classifier := &stubClassifier{result: intent.Result{Intent: intent.IntentSQL}}
	generator := &stubGenerator{err: errors.New("model unavailable")}

	handler := newTestHandler(classifier, generator, nil, &stubExecutor{})
	recorder := performJSON(t, handler.Ask, `{"query": "how many cases"}`)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "I encountered an error")
}

func TestClassify_FallsBackToLocalRules(t *testing.T) {
	classifier := &stubClassifier{err: errors.New("api overloaded")}
	handler := newTestHandler(classifier, &stubGenerator{}, nil, &stubExecutor{})

	recorder := performJSON(t, handler.Classify, `{"query": "how many open cases do we have"}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp struct {
		Data intent.Result `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, intent.IntentSQL, resp.Data.Intent)
}

func TestGenerateQuery_ReturnsSQL(t *testing.T) {
	generator := &stubGenerator{result: services.GenerateResult{
		SQL: "SELECT case_number FROM projects", Explanation: "Lists case numbers.", EstimatedRows: 100,
	}}
	handler := newTestHandler(&stubClassifier{}, generator, nil, &stubExecutor{})

	recorder := performJSON(t, handler.GenerateQuery, `{"query": "list all case numbers"}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "SELECT case_number FROM projects")
}

func TestGenerateQuery_FailureIs422(t *testing.T) {
	generator := &stubGenerator{err: errors.New("rejected")}
	handler := newTestHandler(&stubClassifier{}, generator, nil, &stubExecutor{})

	recorder := performJSON(t, handler.GenerateQuery, `{"query": "anything"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
}

func TestExecuteQuery_RejectsNonSelect(t *testing.T) {
	handler := newTestHandler(&stubClassifier{}, &stubGenerator{}, nil, &stubExecutor{})

	recorder := performJSON(t, handler.ExecuteQuery, `{"sql": "DROP TABLE projects"}`)
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var resp models.ExecuteResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
}

func TestExecuteQuery_RunsSelect(t *testing.T) {
	executor := &stubExecutor{rows: []map[string]interface{}{{"case_number": "CV-2024-00123"}}}
	handler := newTestHandler(&stubClassifier{}, &stubGenerator{}, nil, executor)

	recorder := performJSON(t, handler.ExecuteQuery, `{"sql": "SELECT case_number FROM projects"}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp models.ExecuteResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 1, resp.RowCount)
}

func TestExecuteQuery_DatabaseErrorReported(t *testing.T) {
	executor := &stubExecutor{err: errors.New("relation does not exist")}
	handler := newTestHandler(&stubClassifier{}, &stubGenerator{}, nil, executor)

	recorder := performJSON(t, handler.ExecuteQuery, `{"sql": "SELECT * FROM nope"}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp models.ExecuteResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "relation does not exist")
}

func TestNarrate_ReturnsAnswer(t *testing.T) {
	narrator := &stubNarrator{answer: "You have 42 open cases."}
	handler := newTestHandler(&stubClassifier{}, &stubGenerator{}, narrator, &stubExecutor{})

	recorder := performJSON(t, handler.Narrate, `{"query": "how many open cases", "data": [{"count": 42}]}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "You have 42 open cases.")
}

func TestNarrate_UpstreamFailureIs502(t *testing.T) {
	narrator := &stubNarrator{err: errors.New("api overloaded")}
	handler := newTestHandler(&stubClassifier{}, &stubGenerator{}, narrator, &stubExecutor{})

	recorder := performJSON(t, handler.Narrate, `{"query": "anything"}`)
	assert.Equal(t, http.StatusBadGateway, recorder.Code)
}
