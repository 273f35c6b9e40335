package ingest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-transformer/internal/models"
)

func TestParseRejectsUnsupportedExtension(t *testing.T) {
	_, _, err := Parse("a,b\n1,2", "feed.txt")
	require.Error(t, err)

	var formatErr *models.UnsupportedFormatError
	require.True(t, errors.As(err, &formatErr))
	assert.Equal(t, ".txt", formatErr.Extension)
	assert.Contains(t, err.Error(), ".txt")
}

func TestParseRequiresHeaderAndData(t *testing.T) {
	cases := map[string]string{
		"empty":        "",
		"header only":  "a,b,c",
		"blanks only":  "\n\n\n",
		"header blank": "a,b,c\n\n\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := Parse(content, "feed.csv")
			var parseErr *models.ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, "missing header or data", parseErr.Reason)
		})
	}
}

func TestParseZipsRowsAgainstHeader(t *testing.T) {
	header, rows, err := Parse("a,b,c\n1,2,3\n4,5,6", "feed.csv")
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, header)
	require.Len(t, rows, 2)
	assert.Equal(t, models.RawRow{"a": "1", "b": "2", "c": "3"}, rows[0])
	assert.Equal(t, models.RawRow{"a": "4", "b": "5", "c": "6"}, rows[1])
}

func TestParseSkipsBlankLines(t *testing.T) {
	_, rows, err := Parse("a,b\n\n1,2\n   \n3,4\n", "feed.csv")
	require.NoError(t, err)
	require.Len(t, rows, 2)
}

func TestParsePadsShortRows(t *testing.T) {
	_, rows, err := Parse("a,b,c\n1,2", "feed.csv")
	require.NoError(t, err)
	assert.Equal(t, models.RawRow{"a": "1", "b": "2", "c": ""}, rows[0])
}

func TestParseDiscardsExtraFields(t *testing.T) {
	_, rows, err := Parse("a,b\n1,2,3,4", "feed.csv")
	require.NoError(t, err)
	assert.Equal(t, models.RawRow{"a": "1", "b": "2"}, rows[0])
}

func TestParseHandlesCRLF(t *testing.T) {
	_, rows, err := Parse("a,b\r\n1,2\r\n", "feed.csv")
	require.NoError(t, err)
	assert.Equal(t, models.RawRow{"a": "1", "b": "2"}, rows[0])
}

func TestSplitLineQuoting(t *testing.T) {
	cases := []struct {
		name string
		line string
		want []string
	}{
		{"plain", "a,b,c", []string{"a", "b", "c"}},
		{"trims whitespace", " a , b ", []string{"a", "b"}},
		{"strips wrapping quotes", `"A shirt",x`, []string{"A shirt", "x"}},
		{"comma inside quotes", `"a,b",c`, []string{"a,b", "c"}},
		{"doubled quotes unescape", `"say ""hi""",x`, []string{`say "hi"`, "x"}},
		{"quoted json", `"[{""sizes"":{""M"":5}}]",x`, []string{`[{"sizes":{"M":5}}]`, "x"}},
		{"empty fields", "a,,c", []string{"a", "", "c"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, splitLine(tc.line))
		})
	}
}
