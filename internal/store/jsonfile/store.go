// Package jsonfile persists the full record collection as an indented JSON
// array in a single file.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"spesedesk/internal/core"
)

// DefaultFilename is used when no filename is configured.
const DefaultFilename = "expenses.json"

// Accepted date layouts on read, tried in order. Files written by this
// package always use the first one.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.9999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Store reads and writes the record snapshot at a fixed path.
type Store struct {
	path string
}

// NewDefault returns a store for DefaultFilename inside dir.
func NewDefault(dir string) (*Store, error) {
	return New(dir, DefaultFilename)
}

// New returns a store for filename resolved against dir, or against the
// working directory when dir is empty.
func New(dir, filename string) (*Store, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, &core.ConfigurationError{Setting: "filename", Message: "must not be blank"}
	}
	path := filename
	if dir != "" && !filepath.IsAbs(filename) {
		path = filepath.Join(dir, filename)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &core.ConfigurationError{Setting: "filename", Message: err.Error()}
	}
	return &Store{path: abs}, nil
}

// Path returns the resolved file location.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether the file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

type recordJSON struct {
	ID          string      `json:"id,omitempty"`
	Description string      `json:"description,omitempty"`
	Amount      json.Number `json:"amount"`
	Date        string      `json:"date,omitempty"`
}

// Load decodes the file. A missing or blank file yields an empty collection.
func (s *Store) Load(_ context.Context) ([]core.Record, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []core.Record{}, nil
	}
	if err != nil {
		return nil, s.fail("load", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []core.Record{}, nil
	}

	var wire []recordJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, s.fail("load", fmt.Errorf("decode json: %w", err))
	}

	records := make([]core.Record, 0, len(wire))
	for i, w := range wire {
		r, err := w.record()
		if err != nil {
			return nil, s.fail("load", fmt.Errorf("record %d: %w", i, err))
		}
		records = append(records, r)
	}
	return records, nil
}

// Save overwrites the file with the given records.
func (s *Store) Save(_ context.Context, records []core.Record) error {
	wire := make([]recordJSON, len(records))
	for i, r := range records {
		wire[i] = recordJSON{
			ID:          r.ID,
			Description: r.Description,
			Amount:      json.Number(r.Amount.String()),
		}
		if !r.Date.IsZero() {
			wire[i].Date = r.Date.Format(time.RFC3339Nano)
		}
	}

	data, err := json.MarshalIndent(wire, "", "  ")
	if err != nil {
		return s.fail("save", fmt.Errorf("encode json: %w", err))
	}
	if err := atomicWrite(s.path, data); err != nil {
		return s.fail("save", err)
	}
	return nil
}

func (s *Store) fail(op string, err error) error {
	return &core.PersistenceError{Op: op, Path: s.path, Err: err}
}

func (w recordJSON) record() (core.Record, error) {
	amount := decimal.Zero
	if w.Amount != "" {
		d, err := decimal.NewFromString(w.Amount.String())
		if err != nil {
			return core.Record{}, fmt.Errorf("amount %q: %w", w.Amount, err)
		}
		amount = d
	}
	var date time.Time
	if w.Date != "" {
		d, err := parseDate(w.Date)
		if err != nil {
			return core.Record{}, err
		}
		date = d
	}
	return core.Record{
		ID:          w.ID,
		Description: w.Description,
		Amount:      amount,
		Date:        date,
	}, nil
}

func parseDate(s string) (time.Time, error) {
	for i, layout := range dateLayouts {
		var (
			t   time.Time
			err error
		)
		if i == 0 {
			t, err = time.Parse(layout, s)
		} else {
			t, err = time.ParseInLocation(layout, s, time.Local)
		}
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("date %q: unrecognised format", s)
}

// atomicWrite writes through a temp file in the target directory and renames
// it over path.
func atomicWrite(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".expenses-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}
