package utils

import "github.com/gin-gonic/gin"

// APIResponse is the envelope every endpoint returns. Data carries the
// payload on success; Error carries the failure detail otherwise. Routed
// query failures are not envelope errors: a QueryResult with its error
// field set still travels as a successful response.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// SuccessResponse writes the success envelope with the given payload.
func SuccessResponse(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, APIResponse{Success: true, Message: message, Data: data})
}

// ErrorResponse writes the failure envelope. A nil err leaves Error empty
// so validation failures can carry the message alone.
func ErrorResponse(c *gin.Context, code int, message string, err error) {
	resp := APIResponse{Message: message}
	if err != nil {
		resp.Error = err.Error()
	}
	c.JSON(code, resp)
}
