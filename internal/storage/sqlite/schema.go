// ABOUTME: SQLite schema for the knowledge-base vector index
// ABOUTME: One row per chunk: text, source metadata, and the embedding blob
package sqlite

// Schema contains all SQL statements for database initialization.
const Schema = `
-- Knowledge-base chunks with their embedding vectors
CREATE TABLE IF NOT EXISTS chunks (
    id TEXT PRIMARY KEY,
    source_id TEXT NOT NULL,
    source_kind TEXT NOT NULL,
    source_uri TEXT NOT NULL,
    text TEXT NOT NULL,
    start_offset INTEGER NOT NULL,
    end_offset INTEGER NOT NULL,
    vector BLOB NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_chunks_source ON chunks(source_id);
`

// SchemaVersion is the current schema version.
const SchemaVersion = 1
