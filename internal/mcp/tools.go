// ABOUTME: MCP tool definitions and registration for the recall server
// ABOUTME: Declares JSON schemas for note, search, relation, profile and backfill tools
package mcp

import (
	"sync"

	"github.com/harper/recall/internal/app"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, application *app.App) *Handlers {
	handlers := NewHandlers(application)

	server.AddTool(mcp.Tool{
		Name:        "add_note",
		Description: "Store a note. The note is embedded right away when an embedding provider is configured.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"title": map[string]interface{}{
					"type":        "string",
					"description": "Note title",
				},
				"content": map[string]interface{}{
					"type":        "string",
					"description": "Note body",
				},
				"tags": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Tags for the note (case-insensitive)",
				},
			},
		},
	}, handlers.AddNote)

	server.AddTool(mcp.Tool{
		Name:        "get_note",
		Description: "Get a single note by ID.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"id": map[string]interface{}{
					"type":        "string",
					"description": "Note ID",
				},
			},
			Required: []string{"id"},
		},
	}, handlers.GetNote)

	server.AddTool(mcp.Tool{
		Name:        "delete_note",
		Description: "Delete a note by ID.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"id": map[string]interface{}{
					"type":        "string",
					"description": "Note ID",
				},
			},
			Required: []string{"id"},
		},
	}, handlers.DeleteNote)

	server.AddTool(mcp.Tool{
		Name: "search_notes",
		Description: "Search notes or the user profile. With semantic enabled the query is embedded and ranked by similarity; " +
			"keywords are matched when semantic is off, no provider is configured, the provider fails, or nothing is embedded yet. " +
			"An empty query lists the most recent items.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"kind": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"note", "profile"},
					"description": "Which items to search (default: note)",
					"default":     "note",
				},
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search text",
				},
				"semantic": map[string]interface{}{
					"type":        "boolean",
					"description": "Rank by embedding similarity first (default: true)",
					"default":     true,
				},
				"tags": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Only return items carrying one of these tags",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of results (default: 10)",
					"default":     10,
				},
				"offset": map[string]interface{}{
					"type":        "number",
					"description": "Number of results to skip",
					"default":     0,
				},
			},
		},
	}, handlers.SearchNotes)

	server.AddTool(mcp.Tool{
		Name:        "find_related",
		Description: "Find items related to an existing item by shared tags, embedding similarity, keywords, then recency.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"kind": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"note", "profile"},
					"description": "Which items to search (default: note)",
					"default":     "note",
				},
				"id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the source item",
				},
				"max_results": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of related items (default: 5)",
					"default":     5,
				},
			},
			Required: []string{"id"},
		},
	}, handlers.FindRelated)

	server.AddTool(mcp.Tool{
		Name:        "get_user_profile",
		Description: "Get the user profile with preferences and topics of interest.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.GetUserProfile)

	server.AddTool(mcp.Tool{
		Name:        "update_user_profile",
		Description: "Update the user profile. All fields are optional - only provided fields are updated and list fields are appended.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "User's name",
				},
				"bio": map[string]interface{}{
					"type":        "string",
					"description": "Short description of the user",
				},
				"location": map[string]interface{}{
					"type":        "string",
					"description": "Where the user is based",
				},
				"occupation": map[string]interface{}{
					"type":        "string",
					"description": "What the user does",
				},
				"preferences": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "User preferences to add (e.g., 'prefers dark mode', 'uses vim keybindings')",
				},
				"topics_of_interest": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Topics the user is interested in (e.g., 'Go programming', 'distributed systems')",
				},
			},
		},
	}, handlers.UpdateUserProfile)

	server.AddTool(mcp.Tool{
		Name:        "backfill_embeddings",
		Description: "Generate embeddings for notes and the profile that do not have one yet.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"background": map[string]interface{}{
					"type":        "boolean",
					"description": "Return immediately and run the backfill in the background (default: false)",
					"default":     false,
				},
			},
		},
	}, handlers.BackfillEmbeddings)

	return handlers
}

// NewHandlers builds handlers over an application without registering them
func NewHandlers(application *app.App) *Handlers {
	return &Handlers{
		app:        application,
		shutdownWg: &sync.WaitGroup{},
	}
}
