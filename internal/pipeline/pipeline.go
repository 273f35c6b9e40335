// Package pipeline sequences ingestion, validation, normalization and
// transformation, and aggregates one status per attempt.
package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"unicode"

	"github.com/sirupsen/logrus"

	"catalog-transformer/internal/ingest"
	"catalog-transformer/internal/models"
	"catalog-transformer/internal/normalize"
	"catalog-transformer/internal/transform"
	"catalog-transformer/internal/validate"
)

// Result is the outcome of one run. Exactly one status message is produced
// per attempt: a success count, or a single failure message drawn from
// whichever stage failed.
type Result struct {
	Products     []models.Product `json:"products"`
	Status       models.Status    `json:"status"`
	ErrorCode    string           `json:"errorCode,omitempty"`
	Count        int              `json:"count"`
	FallbackRows int              `json:"fallbackRows"`
	Warnings     []models.Warning `json:"warnings,omitempty"`
}

// Pipeline runs the transform end to end. One run is one attempt; there is
// no retry and no cancellation mid-run.
type Pipeline struct {
	transformer *transform.Transformer
	logger      *logrus.Logger
}

// New creates a pipeline with the given color resolver and logger.
func New(colors *transform.ColorResolver, logger *logrus.Logger) *Pipeline {
	return &Pipeline{
		transformer: transform.NewTransformer(colors),
		logger:      logger,
	}
}

// Run processes one file's content synchronously to completion. File-level
// errors abort the run and surface their message, capitalized, as the
// status. Normalization fallbacks never fail the run; they are counted and
// logged as warnings.
func (p *Pipeline) Run(content, filename string) Result {
	header, rows, err := ingest.Parse(content, filename)
	if err != nil {
		p.logger.WithError(err).WithField("filename", filename).Warn("ingestion failed")
		return failure(err.Error(), errorCode(err))
	}

	outcome := validate.Validate(header, rows)
	if !outcome.IsValid {
		code := models.ErrCodeNoValidRows
		if len(outcome.MissingColumns) > 0 {
			code = models.ErrCodeSchemaError
		}
		p.logger.WithFields(logrus.Fields{
			"filename": filename,
			"code":     code,
		}).Warn("validation failed: " + outcome.Message)
		return failure(outcome.Message, code)
	}

	products := make([]models.Product, 0, len(outcome.ValidRows))
	var warnings []models.Warning
	fallbackRows := 0
	for _, valid := range outcome.ValidRows {
		input, rowWarnings := normalize.Normalize(valid.Row)
		if len(rowWarnings) > 0 {
			fallbackRows++
			for _, w := range rowWarnings {
				w.Row = valid.Ordinal
				warnings = append(warnings, w)
				p.logger.WithFields(logrus.Fields{
					"filename": filename,
					"row":      w.Row,
				}).Warn("normalization fallback: " + w.Message)
			}
		}
		products = append(products, p.transformer.Transform(input))
	}

	p.logger.WithFields(logrus.Fields{
		"filename":     filename,
		"count":        len(products),
		"fallbackRows": fallbackRows,
	}).Info("conversion completed")

	return Result{
		Products:     products,
		Status:       models.Status{Message: capitalize(fmt.Sprintf("converted %d products", len(products)))},
		Count:        len(products),
		FallbackRows: fallbackRows,
		Warnings:     warnings,
	}
}

// Document serializes a result's products as a JSON array, pretty-printed
// with 2-space indentation.
func (r Result) Document() ([]byte, error) {
	return json.MarshalIndent(r.Products, "", "  ")
}

// ExportFilename suggests the export file name for a run completed at t.
func ExportFilename(t time.Time) string {
	return "products_" + t.Format("2006-01-02") + ".json"
}

func failure(message, code string) Result {
	return Result{
		Status:    models.Status{Message: capitalize(message), IsError: true},
		ErrorCode: code,
	}
}

func errorCode(err error) string {
	var formatErr *models.UnsupportedFormatError
	if errors.As(err, &formatErr) {
		return models.ErrCodeUnsupportedFormat
	}
	return models.ErrCodeParseError
}

// capitalize upper-cases the first character of a message for display.
func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
