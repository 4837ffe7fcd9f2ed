package services

import "github.com/loisapp/lois/internal/models"

// previousRows returns the prior turn's result as row maps regardless of how
// the context arrived. In-process callers hand over []map[string]interface{}
// directly; a context bound from a JSON request body decodes as []interface{}
// (or a bare map for a single record), so every shape is walked here before
// any handler inspects the rows.
func previousRows(qc *models.QueryContext) []map[string]interface{} {
	if qc == nil || qc.PreviousResult == nil {
		return nil
	}

	switch v := qc.PreviousResult.(type) {
	case []map[string]interface{}:
		return v
	case map[string]interface{}:
		return []map[string]interface{}{v}
	case []interface{}:
		rows := make([]map[string]interface{}, 0, len(v))
		for _, item := range v {
			if row, ok := item.(map[string]interface{}); ok {
				rows = append(rows, row)
			}
		}
		return rows
	}
	return nil
}
