// Package audit persists one immutable record per answered query so any
// response can be replayed and its citations re-checked later.
package audit

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/SingularityNET-Archive/Archive-RAG-sub000/evidence"
)

// Record is the audit trail entry for a single query. Seed and
// ModelVersion are captured so a deterministic replay of the generation
// step is possible.
type Record struct {
	QueryID       string              `json:"query_id"`
	Query         string              `json:"query"`
	CallerID      string              `json:"caller_id,omitempty"`
	Answer        string              `json:"answer"`
	Citations     []evidence.Citation `json:"citations"`
	EvidenceFound bool                `json:"evidence_found"`
	Intent        string              `json:"intent"`
	ModelVersion  string              `json:"model_version"`
	Seed          int                 `json:"seed"`
	Timestamp     time.Time           `json:"timestamp"`
	Anomalies     []string            `json:"anomalies,omitempty"`
}

// Sink stores audit records.
type Sink interface {
	Append(rec *Record) (path string, err error)
}

// FileSink writes each record to <dir>/<query-id>.json. Writes are
// create-only: retrying the same query id returns the already written
// file instead of overwriting it.
type FileSink struct {
	dir    string
	logger *slog.Logger
}

// NewFileSink creates the audit directory if needed. logger may be nil.
func NewFileSink(dir string, logger *slog.Logger) (*FileSink, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating audit directory: %w", err)
	}
	return &FileSink{dir: dir, logger: logger}, nil
}

// Append writes the record and returns the file path. A record that
// already exists for the same query id is left untouched.
func (s *FileSink) Append(rec *Record) (string, error) {
	if rec.QueryID == "" {
		return "", errors.New("audit: record has no query id")
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	path := filepath.Join(s.dir, rec.QueryID+".json")

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding audit record: %w", err)
	}
	data = append(data, '\n')

	// Publish atomically: the record is written to a temp file and
	// hard-linked into place, so path never holds a partial record and a
	// retry with the same query id keeps the first write.
	tmp, err := os.CreateTemp(s.dir, ".audit-*")
	if err != nil {
		return "", fmt.Errorf("creating audit record: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing audit record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("writing audit record: %w", err)
	}

	if err := os.Link(tmp.Name(), path); err != nil {
		if os.IsExist(err) {
			s.logger.Debug("audit record already exists", "query_id", rec.QueryID)
			return path, nil
		}
		return "", fmt.Errorf("publishing audit record: %w", err)
	}
	return path, nil
}

// Read loads a previously written record by query id.
func (s *FileSink) Read(queryID string) (*Record, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, queryID+".json"))
	if err != nil {
		return nil, fmt.Errorf("reading audit record: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding audit record: %w", err)
	}
	return &rec, nil
}
