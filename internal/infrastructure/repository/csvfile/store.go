// Package csvfile keeps match history in a flat CSV file with a header row.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/fc24pred/internal/domain/match"
)

// Header is the fixed column layout of the history file.
var Header = []string{"team1", "team2", "score1_ht", "score2_ht", "score1_ft", "score2_ft"}

var ErrMalformedRow = crerr.New("malformed history row")

// Store appends records to a CSV file. Writes are serialised by the store;
// readers always see whole rows.
type Store struct {
	path string
	mu   sync.RWMutex
}

// New opens the history file at path, creating it with a header when missing.
func New(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, crerr.New("history file path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, crerr.Wrapf(err, "create history dir %s", dir)
		}
	}

	s := &Store{path: path}
	if err := s.ensureHeader(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) ensureHeader() error {
	info, err := os.Stat(s.path)
	if err == nil && info.Size() > 0 {
		return nil
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return crerr.Wrapf(err, "stat %s", s.path)
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return crerr.Wrapf(err, "create %s", s.path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		return crerr.Wrap(err, "write header")
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return crerr.Wrap(err, "flush header")
	}
	return f.Sync()
}

func (s *Store) List(ctx context.Context) ([]match.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Open(s.path)
	if err != nil {
		return nil, crerr.Wrapf(err, "open %s", s.path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	columns, err := readHeader(r)
	if errors.Is(err, io.EOF) {
		return []match.Record{}, nil
	}
	if err != nil {
		return nil, err
	}

	out := make([]match.Record, 0, 64)
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, crerr.Wrapf(err, "read %s line %d", s.path, line)
		}
		if isBlank(fields) {
			continue
		}
		record, err := parseRow(columns, fields)
		if err != nil {
			return nil, crerr.Wrapf(err, "%s line %d", s.path, line)
		}
		out = append(out, record)
	}

	return out, nil
}

func (s *Store) Append(ctx context.Context, record match.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return crerr.Wrapf(err, "open %s for append", s.path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(formatRow(record)); err != nil {
		return crerr.Wrap(err, "write history row")
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return crerr.Wrap(err, "flush history row")
	}
	if err := f.Sync(); err != nil {
		return crerr.Wrapf(err, "sync %s", s.path)
	}

	return nil
}

// readHeader maps each known column to its position, so files written with
// reordered columns still load.
func readHeader(r *csv.Reader) (map[string]int, error) {
	fields, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, err
		}
		return nil, crerr.Wrap(err, "read header")
	}

	columns := make(map[string]int, len(fields))
	for i, name := range fields {
		columns[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	for _, name := range Header {
		if _, ok := columns[name]; !ok {
			return nil, crerr.Wrapf(ErrMalformedRow, "header is missing column %q", name)
		}
	}
	return columns, nil
}

func parseRow(columns map[string]int, fields []string) (match.Record, error) {
	get := func(name string) (string, error) {
		idx := columns[name]
		if idx >= len(fields) {
			return "", crerr.Wrapf(ErrMalformedRow, "missing %s", name)
		}
		return strings.TrimSpace(fields[idx]), nil
	}
	score := func(name string) (int, error) {
		raw, err := get(name)
		if err != nil {
			return 0, err
		}
		return parseScore(name, raw)
	}

	var (
		out match.Record
		err error
	)
	if out.Team1, err = get("team1"); err != nil {
		return match.Record{}, err
	}
	if out.Team2, err = get("team2"); err != nil {
		return match.Record{}, err
	}
	if out.HalftimeScore1, err = score("score1_ht"); err != nil {
		return match.Record{}, err
	}
	if out.HalftimeScore2, err = score("score2_ht"); err != nil {
		return match.Record{}, err
	}
	if out.FulltimeScore1, err = score("score1_ft"); err != nil {
		return match.Record{}, err
	}
	if out.FulltimeScore2, err = score("score2_ft"); err != nil {
		return match.Record{}, err
	}

	return out, nil
}

// parseScore accepts integers and integral floats such as "2.0".
func parseScore(name, raw string) (int, error) {
	if v, err := strconv.Atoi(raw); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, crerr.Wrapf(ErrMalformedRow, "%s=%q is not a whole number", name, raw)
	}
	return int(f), nil
}

func formatRow(r match.Record) []string {
	return []string{
		r.Team1,
		r.Team2,
		strconv.Itoa(r.HalftimeScore1),
		strconv.Itoa(r.HalftimeScore2),
		strconv.Itoa(r.FulltimeScore1),
		strconv.Itoa(r.FulltimeScore2),
	}
}

func isBlank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
