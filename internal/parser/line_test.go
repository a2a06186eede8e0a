package parser

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/food-ledger/internal/models"
	"github.com/insightdelivered/food-ledger/internal/writer"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"empty line", "", []string{""}},
		{"plain fields", "a,b,c", []string{"a", "b", "c"}},
		{"empty fields", ",,", []string{"", "", ""}},
		{"quoted delimiter", `a,"b,c",d`, []string{"a", "b,c", "d"}},
		{"doubled quote", `"say ""hi""",x`, []string{`say "hi"`, "x"}},
		{"only a literal quote", `""""`, []string{`"`}},
		{"empty quoted field", `"",x`, []string{"", "x"}},
		{"quote mid-field toggles", `ab"c,d"e,f`, []string{"abc,de", "f"}},
		{"quoted newline", "\"two\nlines\",x", []string{"two\nlines", "x"}},
		{"unterminated quote runs to end", `a,"b,c`, []string{"a", "b,c"}},
		{"multibyte text", "crème brûlée,日本", []string{"crème brûlée", "日本"}},
		{"invalid utf8 kept", "\xff,\xfe", []string{"\xff", "\xfe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseLine(models.DefaultDialect, tt.input)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseLineCustomDialect(t *testing.T) {
	d := models.Dialect{Delimiter: '|', Quote: '\''}
	got := ParseLine(d, `a,b|'c|''d'''|"e"`)
	assert.Equal(t, []string{"a,b", "c|'d'", `"e"`}, got)
}

// TestRoundTrip checks parse(encode(v)) == v for generated names made of
// delimiters, quotes, line breaks and ordinary text.
func TestRoundTrip(t *testing.T) {
	dialects := []models.Dialect{
		models.DefaultDialect,
		{Delimiter: ';', Quote: '\''},
		{Delimiter: '\t', Quote: '"'},
	}
	rng := rand.New(rand.NewSource(42))

	for _, d := range dialects {
		alphabet := []string{string(d.Delimiter), string(d.Quote), "\n", "\r", "a", " ", "é", ","}
		for i := 0; i < 500; i++ {
			var sb strings.Builder
			for n := rng.Intn(12); n > 0; n-- {
				sb.WriteString(alphabet[rng.Intn(len(alphabet))])
			}
			name := sb.String()

			r := models.Record{ID: "id", Date: "2026-02-11", Name: name, Calories: 1, LoggedAt: "ts"}
			line, err := writer.EncodeRecord(d, r)
			require.NoError(t, err)

			fields := ParseLine(d, line)
			require.Len(t, fields, models.FieldCount, "line %q", line)
			assert.Equal(t, name, fields[2], "line %q", line)

			chunks, open := splitChunks(d, line+"\n")
			require.Len(t, chunks, 1, "line %q", line)
			assert.False(t, open, "line %q", line)
			assert.Equal(t, line, chunks[0].text)
		}
	}
}

func TestSplitChunks(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"empty", "", nil},
		{"single with newline", "a,b\n", []string{"a,b"}},
		{"no trailing newline", "a\nb", []string{"a", "b"}},
		{"blank lines kept", "a\n\nb\n", []string{"a", "", "b"}},
		{"quoted newline", "h\n\"x\ny\",z\nnext\n", []string{"h", "\"x\ny\",z", "next"}},
		{"crlf", "a,b\r\nc\r\n", []string{"a,b", "c"}},
		{"doubled quotes stay balanced", "\"a\"\"b\",c\nd\n", []string{"\"a\"\"b\",c", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks, _ := splitChunks(models.DefaultDialect, tt.input)
			var got []string
			for _, c := range chunks {
				got = append(got, c.text)
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSplitChunksTracksLines(t *testing.T) {
	chunks, open := splitChunks(models.DefaultDialect, "h\n\"x\ny\",z\nnext\n\"cut")
	require.Len(t, chunks, 4)
	assert.Equal(t, []int{1, 2, 4, 5}, []int{chunks[0].line, chunks[1].line, chunks[2].line, chunks[3].line})
	assert.Equal(t, 2, chunks[1].lines)
	assert.True(t, chunks[2].closed)
	assert.False(t, chunks[3].closed)
	assert.True(t, open)
}
