// Package validate checks header completeness and per-row field validity.
//
// Boolean columns are validated against the exact tokens "True"/"False".
// The normalizer applies a different, looser boolean coercion on purpose:
// validation and normalization are decoupled stages with different leniency,
// and the two rules must not be unified.
package validate

import (
	"encoding/json"
	"strconv"
	"strings"

	"catalog-transformer/internal/models"
)

// RequiredColumns must all appear in the header, order-independent.
var RequiredColumns = []string{
	"category_code",
	"style_code",
	"product_name",
	"category_main",
	"category_sub",
	"price",
	"isNew",
	"onSale",
	"discountRate",
	"description",
	"materials",
	"variants_input",
}

// Canonical boolean tokens accepted by row validation, exact case.
const (
	TokenTrue  = "True"
	TokenFalse = "False"
)

// Validate returns the file-level verdict for the given header and rows.
// A missing required column fails the whole outcome. Rows failing the
// per-row checks are dropped, not fatal; the outcome is only invalid when
// zero rows survive, in which case the row errors are aggregated into one
// message.
func Validate(header []string, rows []models.RawRow) models.ValidationOutcome {
	present := make(map[string]struct{}, len(header))
	for _, col := range header {
		present[col] = struct{}{}
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := present[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		schemaErr := &models.SchemaError{Missing: missing}
		return models.ValidationOutcome{
			IsValid:        false,
			Message:        schemaErr.Error(),
			MissingColumns: missing,
		}
	}

	var validRows []models.ValidRow
	var rowErrors []string
	for i, row := range rows {
		if err := validateRow(row); err != nil {
			err.Row = i + 1
			rowErrors = append(rowErrors, err.Error())
			continue
		}
		validRows = append(validRows, models.ValidRow{Ordinal: i + 1, Row: row})
	}

	if len(validRows) == 0 {
		message := "no valid rows"
		if len(rowErrors) > 0 {
			message = strings.Join(rowErrors, "; ")
		}
		return models.ValidationOutcome{IsValid: false, Message: message}
	}

	return models.ValidationOutcome{IsValid: true, ValidRows: validRows}
}

func validateRow(row models.RawRow) *models.RowValidationError {
	if _, err := strconv.ParseFloat(row["price"], 64); err != nil {
		return &models.RowValidationError{Column: "price", Message: "price must be a valid number"}
	}

	for _, col := range []string{"isNew", "onSale"} {
		if v := row[col]; v != TokenTrue && v != TokenFalse {
			return &models.RowValidationError{Column: col, Message: col + " must be True or False"}
		}
	}

	var parsed interface{}
	if err := json.Unmarshal([]byte(row["variants_input"]), &parsed); err != nil {
		return &models.RowValidationError{Column: "variants_input", Message: "variants_input is not valid JSON"}
	}
	if _, ok := parsed.([]interface{}); !ok {
		return &models.RowValidationError{Column: "variants_input", Message: "variants_input must be a JSON array"}
	}

	return nil
}
