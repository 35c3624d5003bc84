// ABOUTME: MCP tool handler implementations for the recall server
// ABOUTME: Thin adapters from tool arguments to the app's note, search and profile operations
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/harper/recall/internal/app"
	"github.com/harper/recall/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	app        *app.App
	shutdownWg *sync.WaitGroup // Track background backfills
	// backfilling is set while a backfill started through the tools runs
	backfilling atomic.Bool
}

// AddNote handles the add_note tool
func (h *Handlers) AddNote(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title := request.GetString("title", "")
	content := request.GetString("content", "")
	tags := extractStringArray(arguments(request), "tags")

	note, err := h.app.AddNote(ctx, title, content, tags)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add note: %v", err)), nil
	}

	stored, err := h.app.Storage.GetNote(ctx, note.ID)
	if err != nil || stored == nil {
		stored = note
	}

	return jsonResult(map[string]interface{}{
		"note":     noteView(stored),
		"embedded": len(stored.Embedding) > 0,
	})
}

// GetNote handles the get_note tool
func (h *Handlers) GetNote(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id argument is required and must be a string"), nil
	}

	note, err := h.app.Storage.GetNote(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get note: %v", err)), nil
	}
	if note == nil {
		return mcp.NewToolResultError(fmt.Sprintf("note %s not found", id)), nil
	}

	return jsonResult(map[string]interface{}{
		"note": noteView(note),
	})
}

// DeleteNote handles the delete_note tool
func (h *Handlers) DeleteNote(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id argument is required and must be a string"), nil
	}

	deleted, err := h.app.Storage.DeleteNote(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete note: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"id":      id,
		"deleted": deleted,
	})
}

// SearchNotes handles the search_notes tool
func (h *Handlers) SearchNotes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	engine, err := h.app.Engine(models.ItemKind(request.GetString("kind", string(models.KindNote))))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	query := models.SearchQuery{
		Query:          request.GetString("query", ""),
		Tags:           extractStringArray(arguments(request), "tags"),
		Limit:          request.GetInt("limit", 0),
		Offset:         request.GetInt("offset", 0),
		SemanticSearch: request.GetBool("semantic", true),
	}

	items, err := engine.Search(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"items": itemViews(items),
		"count": len(items),
	})
}

// FindRelated handles the find_related tool
func (h *Handlers) FindRelated(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id argument is required and must be a string"), nil
	}

	engine, err := h.app.Engine(models.ItemKind(request.GetString("kind", string(models.KindNote))))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	items, err := engine.FindRelated(ctx, id, request.GetInt("max_results", 5))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("relation lookup failed: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"id":      id,
		"related": itemViews(items),
	})
}

// GetUserProfile handles the get_user_profile tool
func (h *Handlers) GetUserProfile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	profile, err := h.app.Storage.GetUserProfile(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load profile: %v", err)), nil
	}

	// If no profile exists, return an empty one
	if profile == nil {
		profile = &models.UserProfile{LastUpdated: time.Now()}
	}

	return jsonResult(map[string]interface{}{
		"profile": profileView(profile),
	})
}

// UpdateUserProfile handles the update_user_profile tool
func (h *Handlers) UpdateUserProfile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	updateInfo := make(map[string]interface{})
	for _, key := range []string{"name", "bio", "location", "occupation"} {
		if value := request.GetString(key, ""); value != "" {
			updateInfo[key] = value
		}
	}

	args := arguments(request)
	for _, key := range []string{"preferences", "topics_of_interest"} {
		if values := extractStringArray(args, key); len(values) > 0 {
			updateInfo[key] = values
		}
	}

	if len(updateInfo) == 0 {
		return mcp.NewToolResultError("at least one profile field is required"), nil
	}

	profile, err := h.app.UpdateProfile(ctx, updateInfo)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to save profile: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"success": true,
		"profile": profileView(profile),
	})
}

// BackfillEmbeddings handles the backfill_embeddings tool
func (h *Handlers) BackfillEmbeddings(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.app.Gateway == nil {
		return mcp.NewToolResultError("embeddings are disabled; set OPENAI_API_KEY or configure a compatible provider"), nil
	}

	if !h.backfilling.CompareAndSwap(false, true) {
		return mcp.NewToolResultError("a backfill is already running"), nil
	}

	if request.GetBool("background", false) {
		// Outlive the request; Shutdown waits for it
		bgCtx := context.WithoutCancel(ctx)
		h.shutdownWg.Add(1)
		go func() {
			defer h.shutdownWg.Done()
			defer h.backfilling.Store(false)
			report, err := h.app.Backfill(bgCtx)
			if err != nil {
				h.app.Logger.Warn("background backfill failed", "component", "mcp", "err", err)
				return
			}
			h.app.Logger.Info("background backfill complete", "component", "mcp",
				"notes_updated", report.Notes.Updated, "notes_failed", report.Notes.Failed,
				"profile_updated", report.Profile.Updated)
		}()
		return jsonResult(map[string]interface{}{
			"started": true,
		})
	}

	defer h.backfilling.Store(false)
	report, err := h.app.Backfill(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("backfill failed: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"report": report,
	})
}

// Shutdown waits for background backfills to complete
func (h *Handlers) Shutdown() {
	h.app.Logger.Info("waiting for background backfills to complete", "component", "mcp")
	h.shutdownWg.Wait()
}

func arguments(request mcp.CallToolRequest) map[string]any {
	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return nil
	}
	return args
}

// extractStringArray extracts a string array from tool arguments
func extractStringArray(args map[string]any, key string) []string {
	if val, ok := args[key]; ok {
		switch arr := val.(type) {
		case []string:
			return arr
		case []interface{}:
			result := make([]string, 0, len(arr))
			for _, item := range arr {
				if str, ok := item.(string); ok {
					result = append(result, str)
				}
			}
			return result
		}
	}
	return nil
}

func noteView(note *models.Note) map[string]interface{} {
	tags := note.Tags
	if tags == nil {
		tags = []string{}
	}
	return map[string]interface{}{
		"id":         note.ID,
		"title":      note.Title,
		"content":    note.Content,
		"tags":       tags,
		"created_at": note.CreatedAt.Format(time.RFC3339),
		"updated_at": note.UpdatedAt.Format(time.RFC3339),
	}
}

func itemViews(items []models.Item) []map[string]interface{} {
	views := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		tags := item.Tags
		if tags == nil {
			tags = []string{}
		}
		views = append(views, map[string]interface{}{
			"id":         item.ID,
			"kind":       string(item.Kind),
			"title":      item.Title,
			"content":    item.Content,
			"tags":       tags,
			"updated_at": item.UpdatedAt.Format(time.RFC3339),
		})
	}
	return views
}

func profileView(profile *models.UserProfile) map[string]interface{} {
	preferences := profile.Preferences
	if preferences == nil {
		preferences = []string{}
	}
	topics := profile.TopicsOfInterest
	if topics == nil {
		topics = []string{}
	}
	return map[string]interface{}{
		"name":               profile.Name,
		"bio":                profile.Bio,
		"location":           profile.Location,
		"occupation":         profile.Occupation,
		"preferences":        preferences,
		"topics_of_interest": topics,
		"last_updated":       profile.LastUpdated.Format(time.RFC3339),
	}
}

func jsonResult(response map[string]interface{}) (*mcp.CallToolResult, error) {
	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}
