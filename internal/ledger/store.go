// Package ledger persists food records in an append-only delimited text file
// and aggregates them into daily totals.
//
// The store holds no locks and no cache. Every Load re-reads the whole file,
// and concurrent Append calls from separate goroutines or processes may
// interleave bytes when the underlying write is not atomic for the line
// length. Callers that need multiple writers must serialize them.
package ledger

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/insightdelivered/food-ledger/internal/models"
	"github.com/insightdelivered/food-ledger/internal/parser"
	"github.com/insightdelivered/food-ledger/internal/writer"
)

// Config locates the ledger file and describes its text dialect.
type Config struct {
	Path    string
	Dialect models.Dialect
}

// Store is a flat-file ledger of records.
type Store struct {
	cfg Config
	log *slog.Logger
}

// Option customizes a Store.
type Option func(*Store)

// WithLogger sets the logger used for diagnostics about skipped rows.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// New returns a Store for cfg. It does not touch the filesystem.
func New(cfg Config, opts ...Option) (*Store, error) {
	if cfg.Path == "" {
		return nil, errors.New("ledger: empty file path")
	}
	if err := cfg.Dialect.Validate(); err != nil {
		return nil, fmt.Errorf("ledger: %w", err)
	}
	s := &Store{cfg: cfg, log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Path returns the ledger file location.
func (s *Store) Path() string {
	return s.cfg.Path
}

// Ensure creates the containing directory and a header-only file if they
// are missing. An existing empty file also receives the header. Otherwise it
// does nothing.
func (s *Store) Ensure() error {
	if err := os.MkdirAll(filepath.Dir(s.cfg.Path), 0o750); err != nil {
		return fmt.Errorf("ledger: create directory for %s: %w", s.cfg.Path, err)
	}

	info, err := os.Stat(s.cfg.Path)
	switch {
	case err == nil && info.Size() > 0:
		return nil
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("ledger: stat %s: %w", s.cfg.Path, err)
	}

	header := writer.HeaderLine(s.cfg.Dialect) + "\n"
	if err := os.WriteFile(s.cfg.Path, []byte(header), 0o600); err != nil {
		return fmt.Errorf("ledger: write header %s: %w", s.cfg.Path, err)
	}
	return nil
}

// Append encodes r and writes it as the new last line of the file with a
// single write call. No buffering is held between calls.
//
// A damaged tail left by an interrupted write is sealed off first: a missing
// final newline is added, and a quote left open is closed, so the damaged
// row is dropped on load without swallowing this one.
func (s *Store) Append(r models.Record) error {
	var buf bytes.Buffer
	rw := writer.RecordWriter{Dialect: s.cfg.Dialect}
	if err := rw.Write(&buf, r); err != nil {
		return fmt.Errorf("ledger: append %s: %w", r.ID, err)
	}
	if err := s.Ensure(); err != nil {
		return err
	}

	f, err := os.OpenFile(s.cfg.Path, os.O_RDWR|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("ledger: open %s: %w", s.cfg.Path, err)
	}

	prefix, err := s.healPrefix(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("ledger: inspect %s: %w", s.cfg.Path, err)
	}

	_, werr := f.Write(append([]byte(prefix), buf.Bytes()...))
	cerr := f.Close()
	if werr != nil {
		return fmt.Errorf("ledger: append %s: %w", r.ID, werr)
	}
	if cerr != nil {
		return fmt.Errorf("ledger: close %s: %w", s.cfg.Path, cerr)
	}
	return nil
}

// healPrefix returns what must precede a new line so that it starts a
// record of its own.
func (s *Store) healPrefix(f *os.File) (string, error) {
	info, err := f.Stat()
	if err != nil {
		return "", err
	}
	if info.Size() == 0 {
		return "", nil
	}
	raw := make([]byte, info.Size())
	if _, err := f.ReadAt(raw, 0); err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}

	if _, open := parser.ScanRecords(s.cfg.Dialect, string(raw)); open {
		s.log.Warn("ledger: file ends inside a quoted field", "path", s.cfg.Path)
		return string(s.cfg.Dialect.Quote) + "\n", nil
	}
	if raw[len(raw)-1] != '\n' {
		s.log.Warn("ledger: file did not end with a newline", "path", s.cfg.Path)
		return "\n", nil
	}
	return "", nil
}

// LoadResult is the outcome of a full scan.
type LoadResult struct {
	Records []models.Record
	// Skipped counts malformed rows that were dropped, whatever the date
	// filter.
	Skipped int
}

// Load returns the records dated exactly date, in file order. An empty date
// returns every record. Malformed rows are dropped.
func (s *Store) Load(date string) ([]models.Record, error) {
	res, err := s.LoadReport(date)
	if err != nil {
		return nil, err
	}
	return res.Records, nil
}

// LoadReport is Load plus the number of rows that could not be decoded.
func (s *Store) LoadReport(date string) (*LoadResult, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(s.cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("ledger: read %s: %w", s.cfg.Path, err)
	}

	res := &LoadResult{Records: []models.Record{}}
	headerSeen := false
	rows, _ := parser.ScanRecords(s.cfg.Dialect, string(raw))
	for _, row := range rows {
		if strings.TrimSpace(row.Text) == "" {
			continue
		}
		if !headerSeen {
			headerSeen = true
			continue
		}

		r, ok := parser.DecodeRecord(s.cfg.Dialect, row.Text)
		if !ok {
			res.Skipped++
			s.log.Debug("ledger: skipping malformed row", "path", s.cfg.Path, "line", row.Line)
			continue
		}
		if date == "" || r.Date == date {
			res.Records = append(res.Records, r)
		}
	}
	return res, nil
}
