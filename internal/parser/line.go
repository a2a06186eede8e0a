package parser

import (
	"strings"
	"unicode/utf8"

	"github.com/insightdelivered/food-ledger/internal/models"
)

// lineLexer splits one ledger line into raw field values.
type lineLexer struct {
	dialect models.Dialect
	input   string
	pos     int
	field   strings.Builder
	fields  []string
}

// stateFn is one state of the lexer; it returns the next state, or nil once
// the input is consumed.
type stateFn func(*lineLexer) stateFn

// ParseLine returns the field values of line. It never fails: quoting that
// is unbalanced simply runs to the end of the line.
func ParseLine(d models.Dialect, line string) []string {
	l := &lineLexer{dialect: d, input: line}
	for state := lexUnquoted; state != nil; {
		state = state(l)
	}
	l.flush()
	return l.fields
}

// next returns the rune at the current position along with its raw bytes,
// so invalid UTF-8 is copied through untouched.
func (l *lineLexer) next() (rune, string, bool) {
	if l.pos >= len(l.input) {
		return 0, "", false
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	raw := l.input[l.pos : l.pos+w]
	l.pos += w
	return r, raw, true
}

// acceptQuote consumes a quote at the current position if there is one.
func (l *lineLexer) acceptQuote() bool {
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	if w > 0 && r == l.dialect.Quote {
		l.pos += w
		return true
	}
	return false
}

func (l *lineLexer) flush() {
	l.fields = append(l.fields, l.field.String())
	l.field.Reset()
}

// lexUnquoted handles text outside quotes: the delimiter ends a field and a
// quote opens a quoted section without being stored.
func lexUnquoted(l *lineLexer) stateFn {
	for {
		r, raw, ok := l.next()
		if !ok {
			return nil
		}
		switch r {
		case l.dialect.Quote:
			return lexQuoted
		case l.dialect.Delimiter:
			l.flush()
		default:
			l.field.WriteString(raw)
		}
	}
}

// lexQuoted handles text inside quotes: a doubled quote is a literal quote,
// a single one closes the section.
func lexQuoted(l *lineLexer) stateFn {
	for {
		r, raw, ok := l.next()
		if !ok {
			return nil
		}
		if r != l.dialect.Quote {
			l.field.WriteString(raw)
			continue
		}
		if !l.acceptQuote() {
			return lexUnquoted
		}
		l.field.WriteString(raw)
	}
}

// chunk is a run of text that quote parity treats as one record.
type chunk struct {
	text  string
	line  int // 1-based physical line the chunk starts on
	lines int // physical lines spanned
	// closed is false when the data ended inside an open quote.
	closed bool
}

// splitChunks cuts ledger text at line breaks that fall outside quotes, so
// quoted fields may span lines. A trailing carriage return is dropped from
// each chunk. open reports whether the data ends inside a quote.
func splitChunks(d models.Dialect, data string) (chunks []chunk, open bool) {
	var (
		start    int
		line     = 1
		startAt  = 1
		inQuotes bool
	)
	for i, r := range data {
		switch {
		case r == d.Quote:
			inQuotes = !inQuotes
		case r == '\n' && !inQuotes:
			chunks = append(chunks, chunk{
				text:   strings.TrimSuffix(data[start:i], "\r"),
				line:   startAt,
				lines:  line - startAt + 1,
				closed: true,
			})
			start = i + 1
			line++
			startAt = line
		case r == '\n':
			line++
		}
	}
	if start < len(data) {
		chunks = append(chunks, chunk{
			text:   strings.TrimSuffix(data[start:], "\r"),
			line:   startAt,
			lines:  line - startAt + 1,
			closed: !inQuotes,
		})
	}
	return chunks, inQuotes
}
