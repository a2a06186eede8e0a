package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/food-ledger/internal/models"
)

const (
	rowA = "a,2026-02-11,Apple,95,0.5,25,0.3,2026-02-11T08:00:00.000Z"
	rowC = "c,2026-02-11,Cheese,113,7,0.4,9.3,2026-02-11T09:00:00.000Z"
	rowD = `d,2026-02-11,"Rice, white",206,4.3,45,0.4,2026-02-11T12:00:00.000Z`
)

func rowTexts(rows []Row) []string {
	var out []string
	for _, r := range rows {
		out = append(out, r.Text)
	}
	return out
}

func TestScanRecords(t *testing.T) {
	multi := "m,2026-02-11,\"Soup\nwith bread\",300,10,40,8,2026-02-11T13:00:00.000Z"

	tests := []struct {
		name     string
		input    string
		expected []string
		open     bool
	}{
		{"well formed", rowA + "\n" + rowD + "\n", []string{rowA, rowD}, false},
		{"multi-line record kept whole", rowA + "\n" + multi + "\n" + rowC + "\n", []string{rowA, multi, rowC}, false},
		{
			"stray quote only costs its line",
			rowA + "\nb,2026-02-11,Bad\"row\n" + rowC + "\n" + rowD + "\n",
			[]string{rowA, "b,2026-02-11,Bad\"row", rowC, rowD, ""},
			true,
		},
		{
			"unterminated quote is cut back to lines",
			rowA + "\nb,2026-02-11,\"Rice, wh\n" + rowC + "\n",
			[]string{rowA, "b,2026-02-11,\"Rice, wh", rowC, ""},
			true,
		},
		{
			"closed chunk hiding valid lines is cut back",
			"b,2026-02-11,\"Bad\n" + rowC + "\n\",1,2,3,4,ts\n",
			[]string{"b,2026-02-11,\"Bad", rowC, "\",1,2,3,4,ts"},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, open := ScanRecords(models.DefaultDialect, tt.input)
			assert.Equal(t, tt.expected, rowTexts(rows))
			assert.Equal(t, tt.open, open)
		})
	}
}

func TestScanRecordsLineNumbers(t *testing.T) {
	input := "header\n" + rowA + "\nb,2026-02-11,Bad\"row\n" + rowC + "\n"
	rows, _ := ScanRecords(models.DefaultDialect, input)

	require.Len(t, rows, 5)
	for i, r := range rows {
		assert.Equal(t, i+1, r.Line, r.Text)
	}
}
