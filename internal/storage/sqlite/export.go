// ABOUTME: Export functionality for stored notes and the profile
// ABOUTME: Supports YAML and Markdown export plus a JSON dump of embeddings
package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ExportData represents the complete exportable data structure
type ExportData struct {
	Version    string         `yaml:"version" json:"version"`
	ExportedAt string         `yaml:"exported_at" json:"exported_at"`
	Tool       string         `yaml:"tool" json:"tool"`
	Profile    *ExportProfile `yaml:"profile,omitempty" json:"profile,omitempty"`
	Notes      []ExportNote   `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// ExportProfile represents user profile for export
type ExportProfile struct {
	Name             string   `yaml:"name" json:"name"`
	Bio              string   `yaml:"bio,omitempty" json:"bio,omitempty"`
	Location         string   `yaml:"location,omitempty" json:"location,omitempty"`
	Occupation       string   `yaml:"occupation,omitempty" json:"occupation,omitempty"`
	Preferences      []string `yaml:"preferences" json:"preferences"`
	TopicsOfInterest []string `yaml:"topics_of_interest" json:"topics_of_interest"`
	Embedded         bool     `yaml:"embedded" json:"embedded"`
}

// ExportNote represents a note for export
type ExportNote struct {
	ID        string   `yaml:"id" json:"id"`
	Title     string   `yaml:"title,omitempty" json:"title,omitempty"`
	Content   string   `yaml:"content" json:"content"`
	Tags      []string `yaml:"tags,omitempty" json:"tags,omitempty"`
	Embedded  bool     `yaml:"embedded" json:"embedded"`
	CreatedAt string   `yaml:"created_at" json:"created_at"`
	UpdatedAt string   `yaml:"updated_at" json:"updated_at"`
}

// ExportEmbedding is one vector in the embeddings dump
type ExportEmbedding struct {
	Kind       string    `json:"kind"`
	ItemID     string    `json:"item_id"`
	ChunkIndex *int      `json:"chunk_index,omitempty"`
	Vector     []float64 `json:"vector"`
}

// Export collects the profile and every note
func (s *Storage) Export(ctx context.Context) (*ExportData, error) {
	data := &ExportData{
		Version:    "1.0",
		ExportedAt: time.Now().Format(time.RFC3339),
		Tool:       AppName,
	}

	profile, err := s.GetUserProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if profile != nil {
		data.Profile = &ExportProfile{
			Name:             profile.Name,
			Bio:              profile.Bio,
			Location:         profile.Location,
			Occupation:       profile.Occupation,
			Preferences:      profile.Preferences,
			TopicsOfInterest: profile.TopicsOfInterest,
			Embedded:         len(profile.Embedding) > 0,
		}
	}

	items, err := s.notes.Recent(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	for _, item := range items {
		data.Notes = append(data.Notes, ExportNote{
			ID:        item.ID,
			Title:     item.Title,
			Content:   item.Content,
			Tags:      item.Tags,
			Embedded:  item.HasEmbedding(),
			CreatedAt: item.CreatedAt.Format(time.RFC3339),
			UpdatedAt: item.UpdatedAt.Format(time.RFC3339),
		})
	}

	return data, nil
}

// ExportToYAML exports data to a YAML file
func (s *Storage) ExportToYAML(ctx context.Context, outputPath string) error {
	data, err := s.Export(ctx)
	if err != nil {
		return err
	}

	return writeFile(outputPath, func(w io.Writer) error {
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(data); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return encoder.Close()
	})
}

// ExportToMarkdown exports data to a Markdown file
func (s *Storage) ExportToMarkdown(ctx context.Context, outputPath string) error {
	data, err := s.Export(ctx)
	if err != nil {
		return err
	}

	return writeFile(outputPath, func(w io.Writer) error {
		writeMarkdown(w, data)
		return nil
	})
}

// ExportEmbeddingsToJSON dumps item and chunk vectors to a JSON file
func (s *Storage) ExportEmbeddingsToJSON(ctx context.Context, outputPath string) error {
	embeddings := []ExportEmbedding{}

	notes, err := s.notes.ListWithEmbedding(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to list note embeddings: %w", err)
	}
	for _, item := range notes {
		embeddings = append(embeddings, ExportEmbedding{Kind: string(item.Kind), ItemID: item.ID, Vector: item.Embedding})
	}

	profiles, err := s.profile.ListWithEmbedding(ctx, 1)
	if err != nil {
		return fmt.Errorf("failed to load profile embedding: %w", err)
	}
	for _, item := range profiles {
		embeddings = append(embeddings, ExportEmbedding{Kind: string(item.Kind), ItemID: item.ID, Vector: item.Embedding})
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT parent_kind, parent_id, chunk_index, embedding
		FROM item_chunks
		ORDER BY parent_kind, parent_id, chunk_index
	`)
	if err != nil {
		return fmt.Errorf("failed to query chunks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			emb   ExportEmbedding
			index int
			blob  []byte
		)
		if err := rows.Scan(&emb.Kind, &emb.ItemID, &index, &blob); err != nil {
			continue
		}
		vector, err := blobToVector(blob)
		if err != nil {
			continue
		}
		emb.ChunkIndex = &index
		emb.Vector = vector
		embeddings = append(embeddings, emb)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read chunks: %w", err)
	}

	return writeFile(outputPath, func(w io.Writer) error {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(embeddings); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		return nil
	})
}

func writeFile(outputPath string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(outputPath) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return write(file)
}

func writeMarkdown(w io.Writer, data *ExportData) {
	_, _ = fmt.Fprintf(w, "# Recall Export - %s\n\n", time.Now().Format("2006-01-02"))
	_, _ = fmt.Fprintf(w, "Generated: %s\n\n", data.ExportedAt)

	if p := data.Profile; p != nil {
		_, _ = fmt.Fprintln(w, "## User Profile")
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintf(w, "- **Name:** %s\n", p.Name)
		if p.Bio != "" {
			_, _ = fmt.Fprintf(w, "- **Bio:** %s\n", p.Bio)
		}
		if p.Occupation != "" {
			_, _ = fmt.Fprintf(w, "- **Occupation:** %s\n", p.Occupation)
		}
		if p.Location != "" {
			_, _ = fmt.Fprintf(w, "- **Location:** %s\n", p.Location)
		}
		if len(p.Preferences) > 0 {
			_, _ = fmt.Fprintln(w, "- **Preferences:**")
			for _, pref := range p.Preferences {
				_, _ = fmt.Fprintf(w, "  - %s\n", pref)
			}
		}
		if len(p.TopicsOfInterest) > 0 {
			_, _ = fmt.Fprintln(w, "- **Topics of Interest:**")
			for _, topic := range p.TopicsOfInterest {
				_, _ = fmt.Fprintf(w, "  - %s\n", topic)
			}
		}
		_, _ = fmt.Fprintln(w)
	}

	if len(data.Notes) > 0 {
		_, _ = fmt.Fprintln(w, "## Notes")
		_, _ = fmt.Fprintln(w)
		for _, note := range data.Notes {
			title := note.Title
			if title == "" {
				title = note.ID
			}
			_, _ = fmt.Fprintf(w, "### %s\n\n", title)
			if len(note.Tags) > 0 {
				_, _ = fmt.Fprintf(w, "*Tags: %s*\n\n", strings.Join(note.Tags, ", "))
			}
			if note.Content != "" {
				_, _ = fmt.Fprintf(w, "%s\n\n", note.Content)
			}
			_, _ = fmt.Fprintln(w, "---")
			_, _ = fmt.Fprintln(w)
		}
	}
}
