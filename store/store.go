// Package store persists archived meeting records and their embeddings in
// SQLite, with vector search provided by sqlite-vec.
package store

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"
)

func init() {
	sqlite_vec.Auto()
}

// Meeting represents a row in the meetings table.
type Meeting struct {
	ID        string `json:"id"`
	Date      string `json:"date"` // YYYY-MM-DD, empty if unknown
	Workgroup string `json:"workgroup"`
	Summary   string `json:"summary"`
	Metadata  string `json:"metadata,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Excerpt represents a row in the excerpts table.
type Excerpt struct {
	ID        int64  `json:"id"`
	MeetingID string `json:"meeting_id"`
	Content   string `json:"content"`
	Section   string `json:"section,omitempty"`
	Tags      string `json:"tags,omitempty"` // JSON extraction tags, empty if absent
}

// SearchHit is an excerpt returned from vector search along with its
// meeting-record metadata and similarity score.
type SearchHit struct {
	ExcerptID int64   `json:"excerpt_id"`
	MeetingID string  `json:"meeting_id"`
	Date      string  `json:"date"`
	Workgroup string  `json:"workgroup"`
	Content   string  `json:"content"`
	Section   string  `json:"section,omitempty"`
	Tags      string  `json:"tags,omitempty"`
	Score     float64 `json:"score"`
}

// Store wraps the SQLite database for all archive persistence.
type Store struct {
	db           *sql.DB
	embeddingDim int
}

// New opens (or creates) a SQLite database at the given path and
// initialises the schema including the sqlite-vec virtual table.
func New(dbPath string, embeddingDim int) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if _, err := db.Exec(schemaSQL(embeddingDim)); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	// Connection pool settings for SQLite.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	s := &Store{db: db, embeddingDim: embeddingDim}
	if err := s.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// EmbeddingDim returns the configured embedding dimension.
func (s *Store) EmbeddingDim() int {
	return s.embeddingDim
}

// --- Meeting operations ---

// UpsertMeeting inserts or updates a meeting record.
func (s *Store) UpsertMeeting(ctx context.Context, m Meeting) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO meetings (id, date, workgroup, summary, metadata)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			workgroup = excluded.workgroup,
			summary = excluded.summary,
			metadata = excluded.metadata,
			updated_at = CURRENT_TIMESTAMP
	`, m.ID, m.Date, m.Workgroup, m.Summary, m.Metadata)
	return err
}

// GetMeeting returns a meeting by its canonical identifier.
func (s *Store) GetMeeting(ctx context.Context, id string) (*Meeting, error) {
	var m Meeting
	err := s.db.QueryRowContext(ctx, `
		SELECT id, COALESCE(date,''), workgroup, summary, COALESCE(metadata,''), created_at, updated_at
		FROM meetings WHERE id = ?
	`, id).Scan(&m.ID, &m.Date, &m.Workgroup, &m.Summary, &m.Metadata, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CountMeetings returns the number of archived meeting records.
func (s *Store) CountMeetings(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM meetings").Scan(&n)
	return n, err
}

// MeetingDates returns the dates of all dated meetings, for statistics.
func (s *Store) MeetingDates(ctx context.Context) ([]time.Time, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT date FROM meetings WHERE date IS NOT NULL AND date != '' ORDER BY date")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		t, err := time.Parse("2006-01-02", d)
		if err != nil {
			continue // undated rows are skipped, not fatal
		}
		dates = append(dates, t)
	}
	return dates, rows.Err()
}

// DeleteMeetingData removes a meeting's excerpts and embeddings, keeping
// the meeting row itself (re-ingest path).
func (s *Store) DeleteMeetingData(ctx context.Context, meetingID string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM vec_excerpts WHERE excerpt_id IN
				(SELECT id FROM excerpts WHERE meeting_id = ?)
		`, meetingID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, "DELETE FROM excerpts WHERE meeting_id = ?", meetingID)
		return err
	})
}

// --- Excerpt operations ---

// InsertExcerpts stores excerpts in a single transaction and returns their ids.
func (s *Store) InsertExcerpts(ctx context.Context, excerpts []Excerpt) ([]int64, error) {
	ids := make([]int64, 0, len(excerpts))
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			"INSERT INTO excerpts (meeting_id, content, section, tags) VALUES (?, ?, ?, ?)")
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, e := range excerpts {
			res, err := stmt.ExecContext(ctx, e.MeetingID, e.Content, e.Section, e.Tags)
			if err != nil {
				return err
			}
			id, err := res.LastInsertId()
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// InsertEmbedding stores the embedding for an excerpt.
func (s *Store) InsertEmbedding(ctx context.Context, excerptID int64, embedding []float32) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO vec_excerpts (excerpt_id, embedding) VALUES (?, ?)",
		excerptID, serializeFloat32(embedding))
	return err
}

// VectorSearch returns the k nearest excerpts to the query embedding.
func (s *Store) VectorSearch(ctx context.Context, queryEmbedding []float32, k int) ([]SearchHit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT v.excerpt_id, v.distance,
			e.content, COALESCE(e.section,''), COALESCE(e.tags,''), e.meeting_id,
			COALESCE(m.date,''), m.workgroup
		FROM vec_excerpts v
		JOIN excerpts e ON e.id = v.excerpt_id
		JOIN meetings m ON m.id = e.meeting_id
		WHERE v.embedding MATCH ? AND k = ?
		ORDER BY v.distance
	`, serializeFloat32(queryEmbedding), k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hits []SearchHit
	for rows.Next() {
		var h SearchHit
		var distance float64
		if err := rows.Scan(&h.ExcerptID, &distance,
			&h.Content, &h.Section, &h.Tags, &h.MeetingID,
			&h.Date, &h.Workgroup); err != nil {
			return nil, err
		}
		// Convert distance to similarity score (1 - distance for cosine).
		h.Score = 1.0 - distance
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// MeetingsMentioning returns excerpts whose content contains the term.
// The LIKE scan over-matches; the caller applies word-boundary filtering.
func (s *Store) MeetingsMentioning(ctx context.Context, term string, limit int) ([]SearchHit, error) {
	if limit == 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.id, e.content, COALESCE(e.section,''), COALESCE(e.tags,''), e.meeting_id,
			COALESCE(m.date,''), m.workgroup
		FROM excerpts e
		JOIN meetings m ON m.id = e.meeting_id
		WHERE e.content LIKE '%' || ? || '%'
		ORDER BY m.date DESC
		LIMIT ?
	`, term, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hits []SearchHit
	for rows.Next() {
		var h SearchHit
		if err := rows.Scan(&h.ExcerptID, &h.Content, &h.Section, &h.Tags,
			&h.MeetingID, &h.Date, &h.Workgroup); err != nil {
			return nil, err
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// inTx runs fn inside a transaction, rolling back on error.
func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// serializeFloat32 converts a float32 slice to little-endian bytes for sqlite-vec.
func serializeFloat32(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}
