package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/notestore"
	"github.com/starford/ansuz/internal/testutil"
)

func testServer(t *testing.T) (*Server, *notestore.Store) {
	t.Helper()
	_, store := testutil.TestStore(t)
	return New(store), store
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go does not expose a direct "call tool" test helper, so we call
	// the tool handler functions directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "create_note":
		result, err = srv.createNote(ctx, req)
	case "get_note":
		result, err = srv.getNote(ctx, req)
	case "list_notes":
		result, err = srv.listNotes(ctx, req)
	case "update_note":
		result, err = srv.updateNote(ctx, req)
	case "delete_note":
		result, err = srv.deleteNote(ctx, req)
	case "search_notes":
		result, err = srv.searchNotes(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestCreateAndGetNote(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "create_note", map[string]interface{}{
		"title":   "Test",
		"content": "Hello",
		"tags":    "a, b",
	})
	text := resultText(r)
	if !strings.HasPrefix(text, "created: ") {
		t.Fatalf("create result = %q", text)
	}
	id := strings.TrimPrefix(text, "created: ")

	r = callTool(t, srv, "get_note", map[string]interface{}{"id": id})
	var note models.Note
	if err := json.Unmarshal([]byte(resultText(r)), &note); err != nil {
		t.Fatalf("decode get result: %v", err)
	}
	if note.Title != "Test" || note.Content != "Hello" || len(note.Tags) != 2 {
		t.Errorf("note = %+v", note)
	}
}

func TestCreateNoteEmptyTitle(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "create_note", map[string]interface{}{
		"title":   "",
		"content": "c",
	})
	if !r.IsError {
		t.Error("expected error for empty title")
	}
}

func TestListNotesWithTag(t *testing.T) {
	srv, store := testServer(t)
	ctx := context.Background()
	_, _ = store.Create(ctx, "Work", "c", []string{"work"})
	_, _ = store.Create(ctx, "Home", "c", []string{"home"})

	r := callTool(t, srv, "list_notes", map[string]interface{}{"tag": "work"})
	var entries []models.IndexEntry
	if err := json.Unmarshal([]byte(resultText(r)), &entries); err != nil {
		t.Fatalf("decode list result: %v", err)
	}
	if len(entries) != 1 || entries[0].Title != "Work" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestListNotesEmpty(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "list_notes", map[string]interface{}{})
	if resultText(r) != "no notes found" {
		t.Errorf("result = %q", resultText(r))
	}
}

func TestUpdateNotePartial(t *testing.T) {
	srv, store := testServer(t)
	n, _ := store.Create(context.Background(), "Old", "keep", nil)

	r := callTool(t, srv, "update_note", map[string]interface{}{
		"id":    n.ID,
		"title": "New",
	})
	if r.IsError {
		t.Fatalf("update error: %q", resultText(r))
	}

	got, err := store.Get(context.Background(), n.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "New" || got.Content != "keep" {
		t.Errorf("note = %+v", got)
	}
}

func TestDeleteNote(t *testing.T) {
	srv, store := testServer(t)
	n, _ := store.Create(context.Background(), "T", "c", nil)

	r := callTool(t, srv, "delete_note", map[string]interface{}{"id": n.ID})
	if resultText(r) != "deleted: "+n.ID {
		t.Errorf("result = %q", resultText(r))
	}

	r = callTool(t, srv, "get_note", map[string]interface{}{"id": n.ID})
	if !r.IsError {
		t.Error("expected error getting deleted note")
	}
}

func TestSearchNotes(t *testing.T) {
	srv, store := testServer(t)
	n, _ := store.Create(context.Background(), "Meeting", "Discuss Q1", []string{"work"})

	r := callTool(t, srv, "search_notes", map[string]interface{}{"query": "q1"})
	var results []notestore.SearchResult
	if err := json.Unmarshal([]byte(resultText(r)), &results); err != nil {
		t.Fatalf("decode search result: %v", err)
	}
	if len(results) != 1 || results[0].ID != n.ID || results[0].Matched != "content" {
		t.Errorf("results = %+v", results)
	}
}

func TestGetNoteMissing(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "get_note", map[string]interface{}{"id": "nope"})
	if !r.IsError {
		t.Error("expected error for missing note")
	}
}
