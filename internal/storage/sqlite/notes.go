// ABOUTME: Note storage operations for SQLite
// ABOUTME: Implements CRUD plus the item store queries used by search and relations
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harper/recall/internal/models"
)

const noteColumns = `id, title, content, tags, embedding, created_at, updated_at`

// NoteStore handles note persistence
type NoteStore struct {
	db     *DB
	chunks *ChunkStore
}

// NewNoteStore creates a new NoteStore
func NewNoteStore(db *DB) *NoteStore {
	return &NoteStore{db: db, chunks: NewChunkStore(db)}
}

// Save inserts or replaces a note. A stored embedding is kept only when the
// note carries one; editing text without a new vector clears it.
func (s *NoteStore) Save(ctx context.Context, note *models.Note) error {
	tags, err := encodeStrings(note.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now().UTC()
	}
	if note.UpdatedAt.IsZero() {
		note.UpdatedAt = note.CreatedAt
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO notes (id, title, content, tags, embedding, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			tags = excluded.tags,
			embedding = excluded.embedding,
			updated_at = excluded.updated_at
	`, note.ID, note.Title, note.Content, tags, vectorToBlob(note.Embedding),
		toUnix(note.CreatedAt), toUnix(note.UpdatedAt))
	return err
}

// Get retrieves a note by ID, returning nil if not found
func (s *NoteStore) Get(ctx context.Context, id string) (*models.Note, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = ?`, id)
	note, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return note, nil
}

// Delete removes a note. Its chunks are left in place.
func (s *NoteStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Count returns how many notes exist and how many have an embedding
func (s *NoteStore) Count(ctx context.Context) (total, embedded int, err error) {
	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(embedding) FROM notes
	`).Scan(&total, &embedded)
	return total, embedded, err
}

// GetByID returns the note as an item, or nil if not found
func (s *NoteStore) GetByID(ctx context.Context, id string) (*models.Item, error) {
	note, err := s.Get(ctx, id)
	if err != nil || note == nil {
		return nil, err
	}
	item := note.Item()
	return &item, nil
}

// ListWithEmbedding returns up to limit embedded notes, newest first
func (s *NoteStore) ListWithEmbedding(ctx context.Context, limit int) ([]models.Item, error) {
	return s.queryItems(ctx, `WHERE embedding IS NOT NULL`, limit, 0)
}

// ListOtherWithEmbedding returns embedded notes other than excludeID
func (s *NoteStore) ListOtherWithEmbedding(ctx context.Context, excludeID string, limit int) ([]models.Item, error) {
	return s.queryItems(ctx, `WHERE embedding IS NOT NULL AND id != ?`, limit, 0, excludeID)
}

// ListWithTags returns notes carrying at least one tag
func (s *NoteStore) ListWithTags(ctx context.Context, limit int) ([]models.Item, error) {
	return s.queryItems(ctx, `WHERE tags != '[]' AND tags != ''`, limit, 0)
}

// ListWithoutEmbedding returns notes that still need an embedding
func (s *NoteStore) ListWithoutEmbedding(ctx context.Context, limit int) ([]models.Item, error) {
	return s.queryItems(ctx, `WHERE embedding IS NULL`, limit, 0)
}

// Recent returns the most recently updated notes
func (s *NoteStore) Recent(ctx context.Context, limit int) ([]models.Item, error) {
	return s.queryItems(ctx, ``, limit, 0)
}

// KeywordSearch runs a case-insensitive substring search
func (s *NoteStore) KeywordSearch(ctx context.Context, filter models.KeywordFilter) ([]models.Item, error) {
	where, args := buildKeywordWhere(filter, "title", "content", "tags")
	return s.queryItems(ctx, where, filter.Limit, filter.Offset, args...)
}

// UpdateEmbedding stores a vector for a note without touching updated_at
func (s *NoteStore) UpdateEmbedding(ctx context.Context, id string, vector []float64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE notes SET embedding = ? WHERE id = ?`, vectorToBlob(vector), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("note %s not found", id)
	}
	return nil
}

// InsertChunk stores a chunk of a note
func (s *NoteStore) InsertChunk(ctx context.Context, chunk *models.Chunk) (string, error) {
	chunk.ParentKind = models.KindNote
	return s.chunks.Insert(ctx, chunk)
}

func (s *NoteStore) queryItems(ctx context.Context, where string, limit, offset int, args ...interface{}) ([]models.Item, error) {
	query := `SELECT ` + noteColumns + ` FROM notes ` + where + ` ORDER BY updated_at DESC, id ASC`
	if limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	} else if offset > 0 {
		query += ` LIMIT -1 OFFSET ?`
		args = append(args, offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := []models.Item{}
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, note.Item())
	}
	return items, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanNote(row rowScanner) (*models.Note, error) {
	var (
		note      models.Note
		tags      sql.NullString
		blob      []byte
		createdAt int64
		updatedAt int64
	)
	if err := row.Scan(&note.ID, &note.Title, &note.Content, &tags, &blob, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	vector, err := blobToVector(blob)
	if err != nil {
		return nil, fmt.Errorf("note %s: %w", note.ID, err)
	}
	note.Embedding = vector
	note.Tags = decodeStrings(tags.String)
	note.CreatedAt = fromUnix(createdAt)
	note.UpdatedAt = fromUnix(updatedAt)
	return &note, nil
}

// buildKeywordWhere turns a keyword filter into a WHERE clause over the given
// text columns and tags column
func buildKeywordWhere(filter models.KeywordFilter, titleCol, contentCol, tagsCol string) (string, []interface{}) {
	var (
		conditions []string
		args       []interface{}
	)

	if len(filter.Keywords) > 0 {
		var clauses []string
		for _, kw := range filter.Keywords {
			pattern := containsPattern(kw)
			clauses = append(clauses, "("+likeClause(titleCol)+" OR "+likeClause(contentCol)+" OR "+likeClause(tagsCol)+")")
			args = append(args, pattern, pattern, pattern)
		}
		conditions = append(conditions, "("+strings.Join(clauses, " OR ")+")")
	} else if strings.TrimSpace(filter.Phrase) != "" {
		pattern := containsPattern(filter.Phrase)
		conditions = append(conditions, "("+likeClause(titleCol)+" OR "+likeClause(contentCol)+")")
		args = append(args, pattern, pattern)
	}

	if len(filter.Tags) > 0 {
		var clauses []string
		for _, tag := range filter.Tags {
			clauses = append(clauses, likeClause(tagsCol))
			args = append(args, containsPattern(tag))
		}
		conditions = append(conditions, "("+strings.Join(clauses, " OR ")+")")
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}
