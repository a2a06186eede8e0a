package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Layouts used when stamping new records. LoggedAt is ISO 8601 in UTC with
// millisecond precision, the form existing ledger files contain.
const (
	DateLayout     = "2006-01-02"
	LoggedAtLayout = "2006-01-02T15:04:05.000Z"
)

// Header lists the ledger columns in their serialized order.
var Header = []string{"id", "date", "name", "calories", "protein", "carbs", "fat", "loggedAt"}

// FieldCount is the number of positional fields in a serialized record.
const FieldCount = 8

// Record is one logged food entry. Records are immutable once appended.
type Record struct {
	ID       string  `json:"id"`
	Date     string  `json:"date"` // YYYY-MM-DD
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"` // grams
	Carbs    float64 `json:"carbs"`   // grams
	Fat      float64 `json:"fat"`     // grams
	LoggedAt string  `json:"loggedAt"`
}

// NewRecord stamps a fresh record with a random id and the UTC day and
// timestamp of now.
func NewRecord(name string, calories, protein, carbs, fat float64, now time.Time) Record {
	now = now.UTC()
	return Record{
		ID:       uuid.NewString(),
		Date:     now.Format(DateLayout),
		Name:     strings.TrimSpace(name),
		Calories: calories,
		Protein:  protein,
		Carbs:    carbs,
		Fat:      fat,
		LoggedAt: now.Format(LoggedAtLayout),
	}
}

// Totals is the derived macro/calorie sum over a set of records.
type Totals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// ErrInvalidDialect is returned when a delimiter/quote pair cannot describe a
// ledger line.
var ErrInvalidDialect = errors.New("invalid ledger dialect")

// Dialect holds the two special characters of the ledger text format.
type Dialect struct {
	Delimiter rune
	Quote     rune
}

// DefaultDialect is plain comma-separated text with double-quote quoting.
var DefaultDialect = Dialect{Delimiter: ',', Quote: '"'}

// Validate reports whether d can be used to encode and parse records.
func (d Dialect) Validate() error {
	for _, r := range []rune{d.Delimiter, d.Quote} {
		if r == 0 || r == '\n' || r == '\r' || r == utf8.RuneError {
			return fmt.Errorf("%w: unusable character %q", ErrInvalidDialect, r)
		}
	}
	if d.Delimiter == d.Quote {
		return fmt.Errorf("%w: delimiter and quote are both %q", ErrInvalidDialect, d.Delimiter)
	}
	return nil
}
