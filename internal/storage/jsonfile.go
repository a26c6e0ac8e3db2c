package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/claude/fittrack/internal/exercise"
)

// JSONFile keeps the catalog as an indented JSON array of records in one file.
type JSONFile struct {
	path string
}

func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

// Save replaces the file atomically: the records go to a temp file in the same
// directory which is then renamed over the old one.
func (s *JSONFile) Save(_ context.Context, records []exercise.Record) error {
	if records == nil {
		records = []exercise.Record{}
	}
	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding catalog: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op once renamed

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("writing catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing catalog: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}
	return nil
}

// Load reads the file. A missing file is an empty catalog. Entries that are not
// JSON objects come back as empty field maps so the loader skips them.
func (s *JSONFile) Load(_ context.Context) ([]exercise.Fields, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []exercise.Fields{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}
	return DecodeRecords(data)
}

// DecodeRecords parses a JSON array of records. Numbers are kept as json.Number
// so integer fields are not rounded through float64.
func DecodeRecords(data []byte) ([]exercise.Fields, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}

	out := make([]exercise.Fields, len(raw))
	for i, msg := range raw {
		dec := json.NewDecoder(bytes.NewReader(msg))
		dec.UseNumber()
		var f exercise.Fields
		if err := dec.Decode(&f); err != nil || f == nil {
			f = exercise.Fields{}
		}
		out[i] = f
	}
	return out, nil
}

func (s *JSONFile) Close() error { return nil }
