package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/juliankahlert/the-almanac-of-codecraft/internal/fetch"
)

// stubContent implements Content for testing.
type stubContent struct {
	pages map[string]string
	menu  *fetch.Menu
}

func (c *stubContent) Page(_ context.Context, page string) ([]byte, error) {
	if strings.Contains(page, "..") {
		return nil, fmt.Errorf("page %q: %w", page, fetch.ErrDenied)
	}
	body, ok := c.pages[page]
	if !ok {
		return nil, &fetch.FetchError{Page: page, Status: 404}
	}
	return []byte(body), nil
}

func (c *stubContent) Menu(_ context.Context) (*fetch.Menu, error) {
	if c.menu == nil {
		return nil, errors.New("menu unreachable")
	}
	return c.menu, nil
}

func newStubContent() *stubContent {
	return &stubContent{
		pages: map[string]string{
			"README.md": "# Welcome\n\n## Start Here\n\n## Go Deeper\n\n### Appendix\n",
			"plain.md":  "Just prose, no headings.\n",
		},
		menu: &fetch.Menu{
			Sections: []fetch.Section{
				{
					Name:        "Guides",
					Description: "Getting around.",
					Pages: []fetch.MenuPage{
						{Title: "Welcome", Page: "README.md"},
					},
				},
			},
		},
	}
}

// extractText gets the text content from a CallToolResult.
func extractText(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"list_pages", listPagesTool, "list_pages"},
		{"read_page", readPageTool, "read_page"},
		{"page_outline", pageOutlineTool, "page_outline"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	content := newStubContent()
	srv := NewServer(content)

	if srv == nil {
		t.Fatal("NewServer returned nil")
	}
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
	if srv.content != content {
		t.Error("content client not set correctly")
	}
}

func TestHandleListPages(t *testing.T) {
	ctx := context.Background()

	t.Run("lists sections and pages", func(t *testing.T) {
		srv := NewServer(newStubContent())
		result, err := srv.handleListPages(ctx, mcp.CallToolRequest{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		text := extractText(result)
		if !strings.Contains(text, "## Guides") {
			t.Errorf("text is missing the section: %q", text)
		}
		if !strings.Contains(text, "Welcome (README.md)") {
			t.Errorf("text is missing the page: %q", text)
		}
	})

	t.Run("menu unreachable", func(t *testing.T) {
		srv := NewServer(&stubContent{})
		result, err := srv.handleListPages(ctx, mcp.CallToolRequest{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error when the menu cannot be fetched")
		}
	})

	t.Run("empty menu", func(t *testing.T) {
		srv := NewServer(&stubContent{menu: &fetch.Menu{}})
		result, err := srv.handleListPages(ctx, mcp.CallToolRequest{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		if extractText(result) != "The menu is empty." {
			t.Errorf("text = %q", extractText(result))
		}
	})
}

func TestHandleReadPage(t *testing.T) {
	srv := NewServer(newStubContent())
	ctx := context.Background()

	t.Run("returns raw markdown", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"page": "README.md"}

		result, err := srv.handleReadPage(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		if !strings.Contains(extractText(result), "# Welcome") {
			t.Errorf("text = %q", extractText(result))
		}
	})

	t.Run("missing page parameter", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleReadPage(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing page")
		}
	})

	t.Run("denied page", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"page": "../secrets.md"}

		result, err := srv.handleReadPage(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for a page outside the content set")
		}
		if !strings.Contains(extractText(result), "outside the configured content set") {
			t.Errorf("text = %q", extractText(result))
		}
	})

	t.Run("unknown page", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"page": "nope.md"}

		result, err := srv.handleReadPage(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for an unknown page")
		}
	})
}

func TestHandlePageOutline(t *testing.T) {
	srv := NewServer(newStubContent())
	ctx := context.Background()

	t.Run("numbered outline", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"page": "README.md"}

		result, err := srv.handlePageOutline(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}

		text := extractText(result)
		for _, line := range []string{"1 Welcome", "1.1 Start Here", "1.2 Go Deeper", "1.2.1 Appendix"} {
			if !strings.Contains(text, line) {
				t.Errorf("outline is missing %q:\n%s", line, text)
			}
		}
	})

	t.Run("page without headings", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"page": "plain.md"}

		result, err := srv.handlePageOutline(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		if extractText(result) != "plain.md has no headings." {
			t.Errorf("text = %q", extractText(result))
		}
	})
}
