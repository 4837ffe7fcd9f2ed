package schema

import (
	"reflect"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loisapp/lois/internal/models"
)

var quotedValue = regexp.MustCompile(`'([^']+)'`)

// checkConstraintValues pulls the quoted values out of a field's gorm check
// constraint so the prompt text can be pinned against the model.
func checkConstraintValues(t *testing.T, model interface{}, field string) []string {
	t.Helper()
	f, ok := reflect.TypeOf(model).FieldByName(field)
	require.True(t, ok, "field %s not found", field)

	var values []string
	for _, m := range quotedValue.FindAllStringSubmatch(f.Tag.Get("gorm"), -1) {
		values = append(values, m[1])
	}
	require.NotEmpty(t, values, "no check constraint values on %s", field)
	return values
}

func TestSchemaText_StatusValuesMatchModelConstraints(t *testing.T) {
	text := Current().Text

	for _, status := range checkConstraintValues(t, models.Project{}, "Status") {
		assert.Contains(t, text, "'"+status+"'")
	}
	for _, status := range checkConstraintValues(t, models.Invoice{}, "Status") {
		assert.Contains(t, text, "'"+status+"'")
	}
}

func TestSchemaText_EnumeratedValuesAreStoredForm(t *testing.T) {
	text := Current().Text

	for _, value := range []string{
		"'Personal Injury'", "'Corporate'", "'Family Law'", "'Employment'", "'Real Estate'",
		"'Discovery'", "'Trial'", "'Settlement'", "'Pre-Trial'", "'Appeal'",
		"'Attorney'", "'Client'", "'Opposing Counsel'", "'Witness'", "'Expert'",
		"'Pleading'", "'Correspondence'", "'Evidence'", "'Contract'", "'Motion'",
	} {
		assert.Contains(t, text, value)
	}

	// Lowercase snake_case variants are never stored; the prompt must not
	// teach them.
	for _, wrong := range []string{"personal_injury", "contract_dispute", "'active'", "'on_hold'"} {
		assert.NotContains(t, text, wrong)
	}
}

func TestSchemaText_ColumnsMatchModels(t *testing.T) {
	text := Current().Text

	for _, column := range []string{
		"case_number", "estimated_value", "custom_fields",
		"contact_type", "bar_number",
		"document_type", "date_filed", "file_size_kb",
		"activity_type", "total_amount", "is_billable",
		"expense_type", "vendor",
		"invoice_number", "paid_date",
	} {
		assert.Contains(t, text, column)
	}
}

func TestSchemaText_Versioned(t *testing.T) {
	assert.NotEmpty(t, Current().Version)
	assert.Equal(t, Current(), Current())
}
