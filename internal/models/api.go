package models

// QueryTurn is one prior (query, result) pair carried by the caller.
type QueryTurn struct {
	Query  string      `json:"query"`
	Result interface{} `json:"result"`
}

// QueryContext is optional carry-over state from the previous turn of a
// conversation. The router only reads it; the caller owns it.
type QueryContext struct {
	PreviousQuery  string      `json:"previous_query,omitempty"`
	PreviousResult interface{} `json:"previous_result,omitempty"`
	PreviousSQL    string      `json:"previous_sql,omitempty"`
	History        []QueryTurn `json:"history,omitempty"`
}

type AskRequest struct {
	Query   string        `json:"query" binding:"required"`
	Context *QueryContext `json:"context,omitempty"`
}

type ClassifyRequest struct {
	Query   string        `json:"query" binding:"required"`
	Context *QueryContext `json:"context,omitempty"`
}

type GenerateRequest struct {
	Query   string        `json:"query" binding:"required"`
	Context *QueryContext `json:"context,omitempty"`
}

type GenerateResponse struct {
	SQL           string `json:"sql"`
	Explanation   string `json:"explanation"`
	EstimatedRows int    `json:"estimated_rows,omitempty"`
}

type ExecuteRequest struct {
	SQL string `json:"sql" binding:"required"`
}

type ExecuteResponse struct {
	Success  bool                     `json:"success"`
	Data     []map[string]interface{} `json:"data,omitempty"`
	RowCount int                      `json:"row_count"`
	Error    string                   `json:"error,omitempty"`
}

type NarrateRequest struct {
	Query string      `json:"query" binding:"required"`
	Data  interface{} `json:"data,omitempty"`
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services,omitempty"`
}
