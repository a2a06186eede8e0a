package parser

import (
	"github.com/insightdelivered/food-ledger/internal/models"
)

// DecodeRecord parses one ledger line into a record. It reports false for a
// malformed line: fewer than eight fields or a quantity that is not a
// number. Fields past the eighth are ignored.
func DecodeRecord(d models.Dialect, line string) (models.Record, bool) {
	fields := ParseLine(d, line)
	if len(fields) < models.FieldCount {
		return models.Record{}, false
	}

	var quantities [4]float64
	for i := range quantities {
		v, err := parseAmount(fields[3+i])
		if err != nil {
			return models.Record{}, false
		}
		quantities[i] = v
	}

	return models.Record{
		ID:       fields[0],
		Date:     fields[1],
		Name:     fields[2],
		Calories: quantities[0],
		Protein:  quantities[1],
		Carbs:    quantities[2],
		Fat:      quantities[3],
		LoggedAt: fields[7],
	}, true
}
