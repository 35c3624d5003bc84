// ABOUTME: Note is a user-authored record with title, content and tags
// ABOUTME: Handles validation, tag normalization and projection to Item
package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrEmptyNote is returned when a note has neither title nor content
var ErrEmptyNote = errors.New("note requires a title or content")

// Note represents a stored note
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	Embedding []float64 `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewNote builds a validated note with a fresh ID and normalized tags
func NewNote(title, content string, tags []string) (*Note, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" && content == "" {
		return nil, ErrEmptyNote
	}

	now := time.Now().UTC()
	return &Note{
		ID:        uuid.New().String(),
		Title:     title,
		Content:   content,
		Tags:      NormalizeTags(tags),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Item projects the note into the retrieval shape
func (n *Note) Item() Item {
	tags := n.Tags
	if tags == nil {
		tags = []string{}
	}
	return Item{
		ID:        n.ID,
		Kind:      KindNote,
		Title:     n.Title,
		Content:   n.Content,
		Tags:      tags,
		Embedding: n.Embedding,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

// NormalizeTags trims, lower-cases and de-duplicates tags, dropping empty ones.
// Input order is preserved.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
