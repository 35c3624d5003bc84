// ABOUTME: Unified Storage layer that wraps all SQLite stores
// ABOUTME: Owns the connection and hands out per-kind item stores to the engines
package sqlite

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/harper/recall/internal/models"
)

// Storage manages all persistent data using SQLite
type Storage struct {
	db      *DB
	notes   *NoteStore
	profile *ProfileStore
	chunks  *ChunkStore
	mu      sync.Mutex
}

// Stats summarizes what the store holds
type Stats struct {
	Notes           int  `json:"notes"`
	EmbeddedNotes   int  `json:"embedded_notes"`
	Chunks          int  `json:"chunks"`
	HasProfile      bool `json:"has_profile"`
	ProfileEmbedded bool `json:"profile_embedded"`
}

// NewStorage initializes storage at the default XDG path
func NewStorage() (*Storage, error) {
	return NewStorageWithPath(DefaultDBPath())
}

// NewStorageWithPath initializes storage with a custom database path
func NewStorageWithPath(dbPath string) (*Storage, error) {
	db, err := Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return newStorage(db), nil
}

// NewStorageInMemory creates an in-memory storage (for testing)
func NewStorageInMemory() (*Storage, error) {
	db, err := OpenInMemory()
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	return newStorage(db), nil
}

// NewStorageFromDB builds storage over an already opened database
func NewStorageFromDB(db *DB) *Storage {
	return newStorage(db)
}

func newStorage(db *DB) *Storage {
	return &Storage{
		db:      db,
		notes:   NewNoteStore(db),
		profile: NewProfileStore(db),
		chunks:  NewChunkStore(db),
	}
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database file path
func (s *Storage) Path() string {
	return s.db.Path()
}

// Notes returns the note store
func (s *Storage) Notes() *NoteStore {
	return s.notes
}

// Profile returns the profile store
func (s *Storage) Profile() *ProfileStore {
	return s.profile
}

// Chunks returns the chunk store
func (s *Storage) Chunks() *ChunkStore {
	return s.chunks
}

// --- Note operations ---

// SaveNote inserts or replaces a note
func (s *Storage) SaveNote(ctx context.Context, note *models.Note) error {
	return s.notes.Save(ctx, note)
}

// GetNote loads a note by ID, returning nil if not found
func (s *Storage) GetNote(ctx context.Context, id string) (*models.Note, error) {
	return s.notes.Get(ctx, id)
}

// DeleteNote removes a note and reports whether it existed
func (s *Storage) DeleteNote(ctx context.Context, id string) (bool, error) {
	return s.notes.Delete(ctx, id)
}

// ListNotes pages through notes, newest first
func (s *Storage) ListNotes(ctx context.Context, limit, offset int) ([]models.Item, error) {
	return s.notes.KeywordSearch(ctx, models.KeywordFilter{Limit: limit, Offset: offset})
}

// --- Profile operations ---

// GetUserProfile loads the user profile
func (s *Storage) GetUserProfile(ctx context.Context) (*models.UserProfile, error) {
	return s.profile.Get(ctx)
}

// SaveUserProfile saves the user profile. The stored vector is cleared since
// it no longer describes the new text.
func (s *Storage) SaveUserProfile(ctx context.Context, profile *models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile.Embedding = nil
	profile.LastUpdated = time.Now().UTC()
	return s.profile.Save(ctx, profile)
}

// UpdateUserProfile merges new fields into the stored profile, creating it if
// needed, and returns the result
func (s *Storage) UpdateUserProfile(ctx context.Context, info map[string]interface{}) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, err := s.profile.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		profile = &models.UserProfile{}
	}
	profile.Merge(info)

	if err := s.profile.Save(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return profile, nil
}

// Stats counts notes, embeddings and chunks
func (s *Storage) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats
	var err error

	stats.Notes, stats.EmbeddedNotes, err = s.notes.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count notes: %w", err)
	}
	stats.Chunks, err = s.chunks.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count chunks: %w", err)
	}

	profile, err := s.profile.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile != nil {
		stats.HasProfile = true
		stats.ProfileEmbedded = len(profile.Embedding) > 0
	}
	return &stats, nil
}
