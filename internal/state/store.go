// Package state persists the baseline of already-reported error list entries.
//
// The baseline file is a JSON array of 4-element string arrays, one per
// identity key: [["E001","WP1","18.02.2026","12:00:00"], ...]. The display
// number of a row is deliberately not stored.
package state

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mbeckert/heatpump-monitor/internal/errorlist"
)

// ErrCorrupt marks a baseline file that exists but cannot be decoded. A
// corrupt file must abort the run: treating it as a first run would flood the
// operator with old entries, treating it as empty would do the same.
var ErrCorrupt = errors.New("baseline file is corrupt")

// Baseline is the result of loading the state file. Absent means the file
// does not exist yet, which is a first run and distinct from a run that
// recorded zero entries.
type Baseline struct {
	Absent bool
	Keys   map[errorlist.Key]struct{}
}

// Store reads and writes the baseline file at a fixed path.
type Store struct {
	path string
}

// NewStore returns a Store bound to path. Nothing is touched on disk until
// Load or Save is called.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the baseline. A missing file yields Baseline{Absent: true} and
// no error; unreadable or undecodable content is an error.
func (s *Store) Load() (Baseline, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Baseline{Absent: true}, nil
	}
	if err != nil {
		return Baseline{}, fmt.Errorf("read baseline %s: %w", s.path, err)
	}

	var entries [][]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return Baseline{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	keys := make(map[errorlist.Key]struct{}, len(entries))
	for i, e := range entries {
		if len(e) != 4 {
			return Baseline{}, fmt.Errorf("%w: entry %d has %d elements, want 4", ErrCorrupt, i, len(e))
		}
		keys[errorlist.Key{Code: e[0], HeatPump: e[1], Date: e[2], Time: e[3]}] = struct{}{}
	}
	return Baseline{Keys: keys}, nil
}

// Save overwrites the baseline with the identity keys of records. The data is
// written to a temp file in the same directory and renamed into place, so a
// crash mid-write leaves the previous baseline intact.
func (s *Store) Save(records []errorlist.Record) error {
	entries := make([][]string, 0, len(records))
	for _, r := range records {
		k := r.Key()
		entries = append(entries, []string{k.Code, k.HeatPump, k.Date, k.Time})
	}
	// Plain encoding without HTML escaping, so codes containing & or <
	// land in the file verbatim the way the deployed baselines have them.
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("encode baseline: %w", err)
	}
	data := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp baseline: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp baseline: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp baseline: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace baseline %s: %w", s.path, err)
	}
	return nil
}
