package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/loisapp/lois/internal/intent"
	"github.com/loisapp/lois/internal/models"
	"github.com/loisapp/lois/internal/services"
	"github.com/loisapp/lois/internal/sqlsafe"
	"github.com/loisapp/lois/pkg/utils"
)

// maxQueryLength bounds free-text questions before anything else runs.
const maxQueryLength = 2000

// QueryHandler serves the ask pipeline and its discrete building-block
// endpoints (classify, generate, execute, narrate).
type QueryHandler struct {
	router     *services.Router
	classifier intent.Classifier
	fallback   *intent.LocalClassifier
	generator  services.SQLGenerator
	narrator   services.Narrator
	executor   models.QueryExecutor
	queryLogs  models.QueryLogRepository
	logger     *logrus.Logger
}

func NewQueryHandler(
	router *services.Router,
	classifier intent.Classifier,
	generator services.SQLGenerator,
	narrator services.Narrator,
	executor models.QueryExecutor,
	queryLogs models.QueryLogRepository,
	logger *logrus.Logger,
) *QueryHandler {
	return &QueryHandler{
		router:     router,
		classifier: classifier,
		fallback:   intent.NewLocalClassifier(logger),
		generator:  generator,
		narrator:   narrator,
		executor:   executor,
		queryLogs:  queryLogs,
		logger:     logger,
	}
}

// Ask runs the full pipeline: classify, route, format, log.
func (h *QueryHandler) Ask(c *gin.Context) {
	var req models.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Query must not be empty", nil)
		return
	}
	if len(query) > maxQueryLength {
		utils.ErrorResponse(c, http.StatusBadRequest, "Query is too long", nil)
		return
	}

	start := time.Now()
	result := h.router.Route(c.Request.Context(), query, req.Context)
	display := services.FormatForDisplay(result)

	h.logQuery(c, query, result, time.Since(start))

	utils.SuccessResponse(c, http.StatusOK, "Query processed", gin.H{
		"result":  result,
		"display": display,
	})
}

// logQuery records the turn for analytics without blocking the response.
func (h *QueryHandler) logQuery(c *gin.Context, query string, result services.QueryResult, elapsed time.Duration) {
	if h.queryLogs == nil {
		return
	}
	rows := 0
	if data, ok := result.Data.([]map[string]interface{}); ok {
		rows = len(data)
	}
	entry := &models.QueryLog{
		QueryText:      query,
		UserSession:    utils.GenerateSessionID(c.ClientIP() + c.Request.UserAgent()),
		Intent:         string(result.Type),
		Confidence:     result.Confidence,
		RowsReturned:   rows,
		SQLText:        result.SQLQuery,
		ErrorText:      result.Error,
		ResponseTimeMs: int(elapsed.Milliseconds()),
		UserAgent:      c.Request.UserAgent(),
		IPAddress:      c.ClientIP(),
		AskedAt:        time.Now(),
	}
	go func() {
		if err := h.queryLogs.Create(entry); err != nil && h.logger != nil {
			h.logger.WithError(err).Warn("Failed to record query log")
		}
	}()
}

// Classify exposes classification on its own. A model failure degrades to
// the local rule table instead of surfacing an error.
func (h *QueryHandler) Classify(c *gin.Context) {
	var req models.ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.classifier.Classify(c.Request.Context(), req.Query, req.Context)
	if err != nil {
		if h.logger != nil {
			h.logger.WithError(err).Warn("Classifier failed, using local rules")
		}
		result, _ = h.fallback.Classify(c.Request.Context(), req.Query, req.Context)
	}

	utils.SuccessResponse(c, http.StatusOK, "Query classified", result)
}

// GenerateQuery turns a question into validated SQL without running it.
func (h *QueryHandler) GenerateQuery(c *gin.Context) {
	var req models.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.generator.Generate(c.Request.Context(), req.Query, req.Context)
	if err != nil {
		utils.ErrorResponse(c, http.StatusUnprocessableEntity, "Could not generate a query", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Query generated", models.GenerateResponse{
		SQL:           result.SQL,
		Explanation:   result.Explanation,
		EstimatedRows: result.EstimatedRows,
	})
}

// ExecuteQuery runs caller-supplied SQL. Validation happens here as well
// as inside the executor so this endpoint is safe on its own.
func (h *QueryHandler) ExecuteQuery(c *gin.Context) {
	var req models.ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := sqlsafe.Validate(req.SQL); err != nil {
		c.JSON(http.StatusBadRequest, models.ExecuteResponse{Success: false, Error: err.Error()})
		return
	}

	rows, err := h.executor.RunReadOnly(req.SQL)
	if err != nil {
		c.JSON(http.StatusOK, models.ExecuteResponse{Success: false, Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.ExecuteResponse{Success: true, Data: rows, RowCount: len(rows)})
}

// Narrate turns a question plus raw data into a prose answer.
func (h *QueryHandler) Narrate(c *gin.Context) {
	var req models.NarrateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	answer, err := h.narrator.Narrate(c.Request.Context(), req.Query, req.Data)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadGateway, "Could not generate a response", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Response generated", gin.H{"answer": answer})
}

// History returns the most recent logged queries for analytics.
func (h *QueryHandler) History(c *gin.Context) {
	logs, err := h.queryLogs.GetRecent(50)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to load query history", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Query history", logs)
}
