package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/juliankahlert/the-almanac-of-codecraft/internal/fetch"
	"github.com/juliankahlert/the-almanac-of-codecraft/internal/outline"
)

// handleListPages renders the menu as text for agent consumption.
func (s *Server) handleListPages(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	menu, err := s.content.Menu(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("menu unavailable: %v", err)), nil
	}

	if len(menu.Sections) == 0 {
		return mcp.NewToolResultText("The menu is empty."), nil
	}

	return mcp.NewToolResultText(formatMenu(menu)), nil
}

// handleReadPage fetches a page and returns its raw Markdown.
func (s *Server) handleReadPage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	page, err := request.RequireString("page")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: page"), nil
	}

	body, err := s.content.Page(ctx, page)
	if err != nil {
		return mcp.NewToolResultError(pageError(page, err)), nil
	}

	return mcp.NewToolResultText(string(body)), nil
}

// handlePageOutline fetches a page and returns its numbered heading outline.
func (s *Server) handlePageOutline(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	page, err := request.RequireString("page")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: page"), nil
	}

	body, err := s.content.Page(ctx, page)
	if err != nil {
		return mcp.NewToolResultError(pageError(page, err)), nil
	}

	headings := outline.Build(string(body))
	if len(headings) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("%s has no headings.", page)), nil
	}

	var sb strings.Builder
	for _, h := range headings {
		sb.WriteString(strings.Repeat("  ", h.Level-1))
		sb.WriteString(h.ID)
		sb.WriteString(" ")
		sb.WriteString(h.Title)
		sb.WriteString("\n")
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func pageError(page string, err error) string {
	if errors.Is(err, fetch.ErrDenied) {
		return fmt.Sprintf("%q is outside the configured content set", page)
	}
	return fmt.Sprintf("could not read %q: %v", page, err)
}

// formatMenu converts the menu into a text form agents can navigate from.
func formatMenu(menu *fetch.Menu) string {
	var sb strings.Builder
	for _, section := range menu.Sections {
		sb.WriteString("## " + section.Name + "\n")
		if section.Description != "" {
			sb.WriteString(section.Description + "\n")
		}
		for _, p := range section.Pages {
			sb.WriteString(fmt.Sprintf("- %s (%s)\n", p.Title, p.Page))
		}
		sb.WriteString("\n")
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
