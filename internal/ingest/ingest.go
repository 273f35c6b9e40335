// Package ingest parses raw delimited text into header-keyed rows.
package ingest

import (
	"path/filepath"
	"strings"

	"catalog-transformer/internal/models"
)

// Extension is the only accepted file extension.
const Extension = ".csv"

// Parse splits raw text content into a header and a sequence of rows. The
// first non-blank line is the header; every following non-blank line is
// zipped positionally against it. Rows shorter than the header get empty
// strings for the missing trailing columns, fields beyond the header length
// are discarded, and blank lines are skipped entirely.
//
// Fields are split on commas with quote awareness within a single line:
// a doubled quote inside a quoted field unescapes to one quote. Quoted
// fields spanning multiple lines are not supported.
func Parse(content, filename string) ([]string, []models.RawRow, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != Extension {
		return nil, nil, &models.UnsupportedFormatError{Extension: ext}
	}

	var lines []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) < 2 {
		return nil, nil, &models.ParseError{Reason: "missing header or data"}
	}

	header := splitLine(lines[0])
	rows := make([]models.RawRow, 0, len(lines)-1)
	for _, line := range lines[1:] {
		fields := splitLine(line)
		row := make(models.RawRow, len(header))
		for i, col := range header {
			if i < len(fields) {
				row[col] = fields[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}

	return header, rows, nil
}

// splitLine splits one line on commas, treating double quotes as field
// delimiters and unescaping doubled quotes. Values are trimmed of
// surrounding whitespace.
func splitLine(line string) []string {
	var fields []string
	var field strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				field.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(field.String()))
			field.Reset()
		default:
			field.WriteByte(ch)
		}
	}
	fields = append(fields, strings.TrimSpace(field.String()))

	return fields
}
