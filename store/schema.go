package store

import "fmt"

// schemaSQL returns the DDL for all tables. embeddingDim controls the
// vec0 virtual table dimension.
func schemaSQL(embeddingDim int) string {
	return fmt.Sprintf(`
-- Archived meeting records. The id is the archive's canonical meeting
-- identifier (UUID form).
CREATE TABLE IF NOT EXISTS meetings (
    id TEXT PRIMARY KEY,
    date TEXT,
    workgroup TEXT NOT NULL,
    summary TEXT NOT NULL,
    metadata JSON,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Retrievable excerpts of a meeting summary (one per section).
CREATE TABLE IF NOT EXISTS excerpts (
    id INTEGER PRIMARY KEY,
    meeting_id TEXT NOT NULL REFERENCES meetings(id) ON DELETE CASCADE,
    content TEXT NOT NULL,
    section TEXT,
    tags JSON
);

-- Vector embeddings via sqlite-vec
CREATE VIRTUAL TABLE IF NOT EXISTS vec_excerpts USING vec0(
    excerpt_id INTEGER PRIMARY KEY,
    embedding float[%d]
);

-- Indexes
CREATE INDEX IF NOT EXISTS idx_excerpts_meeting ON excerpts(meeting_id);
CREATE INDEX IF NOT EXISTS idx_meetings_workgroup ON meetings(workgroup);
CREATE INDEX IF NOT EXISTS idx_meetings_date ON meetings(date);
`, embeddingDim)
}
