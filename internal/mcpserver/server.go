// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the note store as tools for LLM agents via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/ansuz/internal/notestore"
)

// Server wraps the MCP server with Ansuz tools.
type Server struct {
	mcp   *server.MCPServer
	store *notestore.Store
}

// New creates a new MCP server with all note tools registered.
func New(store *notestore.Store) *Server {
	s := &Server{store: store}

	s.mcp = server.NewMCPServer(
		"Ansuz",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s.mcp.AddTool(mcp.NewTool("create_note",
		mcp.WithDescription("Create a new note with a title, content, and optional tags."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Title of the note (must be non-empty)")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Content body of the note")),
		mcp.WithString("tags", mcp.Description("Optional comma-separated list of tags")),
	), s.createNote)

	s.mcp.AddTool(mcp.NewTool("get_note",
		mcp.WithDescription("Read the full content of a note by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
	), s.getNote)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List note summaries, newest first, optionally filtered by tag."),
		mcp.WithString("tag", mcp.Description("Optional tag to filter by")),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("update_note",
		mcp.WithDescription("Update an existing note. Omitted fields are left unchanged; "+
			"an empty tags string clears the tags."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
		mcp.WithString("title", mcp.Description("New title")),
		mcp.WithString("content", mcp.Description("New content")),
		mcp.WithString("tags", mcp.Description("New comma-separated tags")),
	), s.updateNote)

	s.mcp.AddTool(mcp.NewTool("delete_note",
		mcp.WithDescription("Delete a note by id. The id is never reused."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
	), s.deleteNote)

	s.mcp.AddTool(mcp.NewTool("search_notes",
		mcp.WithDescription("Case-insensitive substring search over note titles and content."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchNotes)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) createNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var tags []string
	if raw, err := req.RequireString("tags"); err == nil {
		tags = splitTags(raw)
	}

	note, err := s.store.Create(ctx, title, content, tags)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s", note.ID)), nil
}

func (s *Server) getNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := s.store.Get(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(note, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tag := ""
	if t, err := req.RequireString("tag"); err == nil {
		tag = t
	}
	entries, err := s.store.List(ctx, tag)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(entries) == 0 {
		return mcp.NewToolResultText("no notes found"), nil
	}
	out, _ := json.MarshalIndent(entries, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) updateNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var p notestore.UpdateParams
	if v, err := req.RequireString("title"); err == nil {
		p.Title = &v
	}
	if v, err := req.RequireString("content"); err == nil {
		p.Content = &v
	}
	if raw, err := req.RequireString("tags"); err == nil {
		tags := splitTags(raw)
		p.Tags = &tags
	}

	note, err := s.store.Update(ctx, id, p)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("updated: %s", note.ID)), nil
}

func (s *Server) deleteNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted: %s", id)), nil
}

func (s *Server) searchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.store.Search(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("no notes found"), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

// splitTags parses a comma-separated tag string, trimming whitespace and
// dropping empty segments.
func splitTags(raw string) []string {
	tags := []string{}
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
