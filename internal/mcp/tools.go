package mcp

import "github.com/mark3labs/mcp-go/mcp"

// listPagesTool defines the list_pages MCP tool.
var listPagesTool = mcp.NewTool("list_pages",
	mcp.WithDescription("List the almanac's table of contents: every section and the pages it holds."),
)

// readPageTool defines the read_page MCP tool.
var readPageTool = mcp.NewTool("read_page",
	mcp.WithDescription("Read one almanac page as raw Markdown."),
	mcp.WithString("page",
		mcp.Required(),
		mcp.Description("Page path relative to the content root, e.g. guide/setup.md"),
	),
)

// pageOutlineTool defines the page_outline MCP tool.
var pageOutlineTool = mcp.NewTool("page_outline",
	mcp.WithDescription("Get the heading outline of a page with its dotted section numbers."),
	mcp.WithString("page",
		mcp.Required(),
		mcp.Description("Page path relative to the content root, e.g. guide/setup.md"),
	),
)
