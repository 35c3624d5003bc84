// ABOUTME: SQLite database schema for the knowledge store
// ABOUTME: Notes, the singleton user profile and chunk embeddings
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- User profile singleton table
CREATE TABLE IF NOT EXISTS user_profile (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    name TEXT,
    bio TEXT,
    location TEXT,
    occupation TEXT,
    preferences TEXT,
    topics_of_interest TEXT,
    embedding BLOB,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

-- Notes table; tags is a JSON array, embedding is little-endian float64,
-- timestamps are unix nanoseconds so ordering is exact
CREATE TABLE IF NOT EXISTS notes (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL DEFAULT '',
    content TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL DEFAULT '[]',
    embedding BLOB,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

-- Chunk embeddings for long items; no foreign key so chunks outlive a deleted parent
CREATE TABLE IF NOT EXISTS item_chunks (
    id TEXT PRIMARY KEY,
    parent_kind TEXT NOT NULL,
    parent_id TEXT NOT NULL,
    chunk_index INTEGER NOT NULL,
    content TEXT NOT NULL,
    embedding BLOB NOT NULL,
    created_at INTEGER NOT NULL
);

-- Indexes for efficient querying
CREATE INDEX IF NOT EXISTS idx_notes_updated ON notes(updated_at);
CREATE INDEX IF NOT EXISTS idx_chunks_parent ON item_chunks(parent_kind, parent_id);
`

// SchemaVersion is the current schema version for migrations
const SchemaVersion = 2
