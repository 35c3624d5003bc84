// ABOUTME: User profile storage operations for SQLite
// ABOUTME: Singleton row that also serves the item store queries for the profile kind
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/harper/recall/internal/models"
)

// profileContentExpr approximates the profile's description text for substring search
const profileContentExpr = `(COALESCE(bio, '') || ' ' || COALESCE(occupation, '') || ' ' ||
	COALESCE(location, '') || ' ' || COALESCE(preferences, '') || ' ' || COALESCE(topics_of_interest, ''))`

// ProfileStore handles user profile persistence
type ProfileStore struct {
	db     *DB
	chunks *ChunkStore
}

// NewProfileStore creates a new ProfileStore
func NewProfileStore(db *DB) *ProfileStore {
	return &ProfileStore{db: db, chunks: NewChunkStore(db)}
}

// Get retrieves the user profile, returning nil if not found
func (s *ProfileStore) Get(ctx context.Context) (*models.UserProfile, error) {
	var (
		name, bio, location, occupation sql.NullString
		prefsJSON, topicsJSON           sql.NullString
		blob                            []byte
		createdAt, updatedAt            int64
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT name, bio, location, occupation, preferences, topics_of_interest,
			embedding, created_at, updated_at
		FROM user_profile
		WHERE id = 1
	`).Scan(&name, &bio, &location, &occupation, &prefsJSON, &topicsJSON, &blob, &createdAt, &updatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	vector, err := blobToVector(blob)
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}

	return &models.UserProfile{
		Name:             name.String,
		Bio:              bio.String,
		Location:         location.String,
		Occupation:       occupation.String,
		Preferences:      decodeStrings(prefsJSON.String),
		TopicsOfInterest: decodeStrings(topicsJSON.String),
		Embedding:        vector,
		CreatedAt:        fromUnix(createdAt),
		LastUpdated:      fromUnix(updatedAt),
	}, nil
}

// Save saves or updates the user profile (upsert). created_at is set once.
func (s *ProfileStore) Save(ctx context.Context, profile *models.UserProfile) error {
	prefsJSON, err := encodeStrings(profile.Preferences)
	if err != nil {
		return err
	}
	topicsJSON, err := encodeStrings(profile.TopicsOfInterest)
	if err != nil {
		return err
	}

	if profile.LastUpdated.IsZero() {
		profile.LastUpdated = time.Now().UTC()
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = profile.LastUpdated
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO user_profile (id, name, bio, location, occupation, preferences,
			topics_of_interest, embedding, created_at, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			bio = excluded.bio,
			location = excluded.location,
			occupation = excluded.occupation,
			preferences = excluded.preferences,
			topics_of_interest = excluded.topics_of_interest,
			embedding = excluded.embedding,
			updated_at = excluded.updated_at
	`, profile.Name, profile.Bio, profile.Location, profile.Occupation, prefsJSON, topicsJSON,
		vectorToBlob(profile.Embedding), toUnix(profile.CreatedAt), toUnix(profile.LastUpdated))

	return err
}

// GetByID returns the profile item when id is the profile's item ID
func (s *ProfileStore) GetByID(ctx context.Context, id string) (*models.Item, error) {
	if id != models.ProfileItemID {
		return nil, nil
	}
	profile, err := s.Get(ctx)
	if err != nil || profile == nil {
		return nil, err
	}
	item := profile.Item()
	return &item, nil
}

// ListWithEmbedding returns the profile if it has been embedded
func (s *ProfileStore) ListWithEmbedding(ctx context.Context, limit int) ([]models.Item, error) {
	return s.items(ctx, limit, 0, func(item *models.Item) bool { return item.HasEmbedding() })
}

// ListOtherWithEmbedding is ListWithEmbedding minus excludeID
func (s *ProfileStore) ListOtherWithEmbedding(ctx context.Context, excludeID string, limit int) ([]models.Item, error) {
	return s.items(ctx, limit, 0, func(item *models.Item) bool {
		return item.ID != excludeID && item.HasEmbedding()
	})
}

// ListWithTags returns the profile if it lists topics of interest
func (s *ProfileStore) ListWithTags(ctx context.Context, limit int) ([]models.Item, error) {
	return s.items(ctx, limit, 0, func(item *models.Item) bool { return len(item.Tags) > 0 })
}

// ListWithoutEmbedding returns the profile if it still needs an embedding
func (s *ProfileStore) ListWithoutEmbedding(ctx context.Context, limit int) ([]models.Item, error) {
	return s.items(ctx, limit, 0, func(item *models.Item) bool { return !item.HasEmbedding() })
}

// Recent returns the profile if one exists
func (s *ProfileStore) Recent(ctx context.Context, limit int) ([]models.Item, error) {
	return s.items(ctx, limit, 0, nil)
}

// KeywordSearch matches the filter against the profile row
func (s *ProfileStore) KeywordSearch(ctx context.Context, filter models.KeywordFilter) ([]models.Item, error) {
	where, args := buildKeywordWhere(filter, "COALESCE(name, '')", profileContentExpr, "COALESCE(topics_of_interest, '')")
	if where == "" {
		return s.items(ctx, filter.Limit, filter.Offset, nil)
	}

	var matched int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM user_profile `+where, args...).Scan(&matched)
	if err != nil {
		return nil, err
	}
	if matched == 0 {
		return []models.Item{}, nil
	}
	return s.items(ctx, filter.Limit, filter.Offset, nil)
}

// UpdateEmbedding stores the profile vector without touching updated_at
func (s *ProfileStore) UpdateEmbedding(ctx context.Context, id string, vector []float64) error {
	if id != models.ProfileItemID {
		return fmt.Errorf("profile item id must be %q, got %q", models.ProfileItemID, id)
	}
	res, err := s.db.ExecContext(ctx, `UPDATE user_profile SET embedding = ? WHERE id = 1`, vectorToBlob(vector))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.New("profile not found")
	}
	return nil
}

// InsertChunk stores a chunk of the profile description
func (s *ProfileStore) InsertChunk(ctx context.Context, chunk *models.Chunk) (string, error) {
	chunk.ParentKind = models.KindProfile
	return s.chunks.Insert(ctx, chunk)
}

// items loads the profile as a zero or one element list
func (s *ProfileStore) items(ctx context.Context, limit, offset int, keep func(*models.Item) bool) ([]models.Item, error) {
	items := []models.Item{}
	if offset > 0 || limit < 0 {
		return items, nil
	}

	profile, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return items, nil
	}

	item := profile.Item()
	if keep != nil && !keep(&item) {
		return items, nil
	}
	return append(items, item), nil
}
