package parser

import (
	"strings"

	"github.com/insightdelivered/food-ledger/internal/models"
)

// Row is one logical record of ledger text and the physical line it starts
// on.
type Row struct {
	Line int
	Text string
}

// ScanRecords cuts ledger text into rows. A quoted field may carry line
// breaks, but a stray or unterminated quote only costs the lines it touches:
// a multi-line chunk is kept whole only when its quotes close, it decodes,
// and none of its continuation lines is a valid record on its own.
// Otherwise it is cut back into physical lines, each decoded by itself.
//
// open reports whether the raw text ends inside a quote, which is the case
// after a write was cut short in the middle of a quoted field.
func ScanRecords(d models.Dialect, data string) (rows []Row, open bool) {
	chunks, open := splitChunks(d, data)
	for _, c := range chunks {
		if c.lines == 1 || keepWhole(d, c) {
			rows = append(rows, Row{Line: c.line, Text: c.text})
			continue
		}
		for i, l := range strings.Split(c.text, "\n") {
			rows = append(rows, Row{Line: c.line + i, Text: strings.TrimSuffix(l, "\r")})
		}
	}
	return rows, open
}

func keepWhole(d models.Dialect, c chunk) bool {
	if !c.closed {
		return false
	}
	if _, ok := DecodeRecord(d, c.text); !ok {
		return false
	}
	lines := strings.Split(c.text, "\n")
	for _, l := range lines[1:] {
		if _, ok := DecodeRecord(d, strings.TrimSuffix(l, "\r")); ok {
			return false
		}
	}
	return true
}
