// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes note selection and task extraction over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/notetasks/internal/frontmatter"
	"github.com/starford/notetasks/internal/models"
	"github.com/starford/notetasks/internal/processor"
	"github.com/starford/notetasks/internal/selector"
	"github.com/starford/notetasks/internal/storage"
)

// Server wraps the MCP server with the notetasks tools.
type Server struct {
	mcp   *server.MCPServer
	store storage.Provider
	sel   *selector.Selector
	sum   processor.Summarizer
}

// NoteInfo describes a note as returned by read_note.
type NoteInfo struct {
	Path      string         `json:"path"`
	Title     string         `json:"title,omitempty"`
	Processed bool           `json:"processed"`
	Meta      map[string]any `json:"frontmatter,omitempty"`
	Body      string         `json:"body"`
}

// New creates a new MCP server with all tools registered. Extraction through
// the server never stamps notes.
func New(store storage.Provider, sel *selector.Selector, sum processor.Summarizer, version string) *Server {
	s := &Server{store: store, sel: sel, sum: sum}

	s.mcp = server.NewMCPServer(
		"notetasks",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_pending_notes",
		mcp.WithDescription("List recent dated notes that have not been processed yet, grouped by subject directory."),
		mcp.WithString("subject", mcp.Description("Optional subject directory to restrict the listing to")),
	), s.listPendingNotes)

	s.mcp.AddTool(mcp.NewTool("extract_tasks",
		mcp.WithDescription("Extract the task list from one note with the configured model. "+
			"The note is not marked as processed. Output follows the get_task_format contract."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Note path relative to the base directory (e.g. Redes/2025-06-11 clase.md)")),
	), s.extractTasks)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read a note and report whether it has been processed."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Note path relative to the base directory")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("get_task_format",
		mcp.WithDescription("Returns the task line format and the instructions given to the model."),
	), s.getTaskFormat)

	s.mcp.AddResource(
		mcp.NewResource(TaskFormatURI, "Task List Format",
			mcp.WithResourceDescription("Format of the task lists extracted from notes."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readTaskFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) listPendingNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var subjects []string
	if subj, err := req.RequireString("subject"); err == nil && subj != "" {
		subjects = []string{subj}
	} else {
		all, err := s.store.Subjects()
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		subjects = all
	}

	notes := []models.Note{}
	for _, subj := range subjects {
		notes = append(notes, s.sel.Select(subj)...)
	}
	out, _ := json.MarshalIndent(notes, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) extractTasks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	subject := subjectOf(path)
	if subject == "" {
		return mcp.NewToolResultError(fmt.Sprintf("path must be inside a subject directory: %s", path)), nil
	}
	res := s.sum.Summarize(ctx, path, subject)
	if res.Err != nil {
		return mcp.NewToolResultError(res.String()), nil
	}
	return mcp.NewToolResultText(res.String()), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.store.Read(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}
	parsed := frontmatter.Parse(data)
	info := NoteInfo{
		Path:      path,
		Title:     parsed.Title,
		Processed: frontmatter.HasMarker(data),
		Meta:      parsed.Frontmatter,
		Body:      parsed.Body,
	}
	out, _ := json.MarshalIndent(info, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getTaskFormat(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(TaskFormatContract), nil
}

func (s *Server) readTaskFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      TaskFormatURI,
			MIMEType: "text/markdown",
			Text:     TaskFormatContract,
		},
	}, nil
}

// subjectOf returns the first path segment of a note path, or "" when the
// note is not inside a subject directory.
func subjectOf(path string) string {
	clean := filepath.ToSlash(filepath.Clean(path))
	i := strings.Index(clean, "/")
	if i <= 0 {
		return ""
	}
	return clean[:i]
}
