package writer

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/insightdelivered/food-ledger/internal/models"
)

// ErrUnencodable is returned for records whose fields have no text form,
// such as NaN or infinite quantities.
var ErrUnencodable = errors.New("record is not encodable")

// HeaderLine returns the fixed first line of a ledger file, without the
// trailing newline.
func HeaderLine(d models.Dialect) string {
	return strings.Join(models.Header, string(d.Delimiter))
}

// EncodeRecord renders r as a single ledger line without the trailing
// newline. Fields are written in header order and quoted only when needed.
func EncodeRecord(d models.Dialect, r models.Record) (string, error) {
	numbers := []struct {
		name  string
		value float64
	}{
		{"calories", r.Calories},
		{"protein", r.Protein},
		{"carbs", r.Carbs},
		{"fat", r.Fat},
	}

	fields := make([]string, 0, models.FieldCount)
	fields = append(fields, r.ID, r.Date, r.Name)
	for _, n := range numbers {
		s, err := formatNumber(n.value)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrUnencodable, n.name, err)
		}
		fields = append(fields, s)
	}
	fields = append(fields, r.LoggedAt)

	var sb strings.Builder
	for i, f := range fields {
		if i > 0 {
			sb.WriteRune(d.Delimiter)
		}
		sb.WriteString(escapeField(d, f))
	}
	return sb.String(), nil
}

// RecordWriter writes newline-terminated ledger lines.
type RecordWriter struct {
	Dialect models.Dialect
}

// Write encodes r and writes it to out in a single call.
func (w *RecordWriter) Write(out io.Writer, r models.Record) error {
	line, err := EncodeRecord(w.Dialect, r)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(out, line+"\n"); err != nil {
		return fmt.Errorf("failed to write record %q: %w", r.ID, err)
	}
	return nil
}

// escapeField wraps s in quotes, doubling any embedded quote, when it holds
// the delimiter, the quote or a line break.
func escapeField(d models.Dialect, s string) string {
	if !strings.ContainsRune(s, d.Delimiter) &&
		!strings.ContainsRune(s, d.Quote) &&
		!strings.ContainsAny(s, "\r\n") {
		return s
	}

	q := string(d.Quote)
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteString(q)
	sb.WriteString(strings.ReplaceAll(s, q, q+q))
	sb.WriteString(q)
	return sb.String()
}

// formatNumber writes the shortest decimal form that parses back to v.
func formatNumber(v float64) (string, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", fmt.Errorf("non-finite value %v", v)
	}
	return strconv.FormatFloat(v, 'f', -1, 64), nil
}
