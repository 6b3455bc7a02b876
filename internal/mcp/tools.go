package mcp

import "github.com/mark3labs/mcp-go/mcp"

// searchDocsTool defines the search_docs MCP tool.
var searchDocsTool = mcp.NewTool("search_docs",
	mcp.WithDescription("Search the KinLink documentation and examples. Returns matching routes with snippets."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Words to look for in page titles, descriptions and bodies"),
	),
	mcp.WithString("locale",
		mcp.Description("Documentation language (defaults to the site default)"),
		mcp.Enum("en", "zh"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 8)"),
	),
)

// getPageTool defines the get_page MCP tool.
var getPageTool = mcp.NewTool("get_page",
	mcp.WithDescription("Get the markdown source of one documentation page, including every tab panel."),
	mcp.WithString("route",
		mcp.Required(),
		mcp.Description("Locale-free route such as /docs/installation"),
	),
	mcp.WithString("locale",
		mcp.Description("Documentation language (defaults to the site default)"),
		mcp.Enum("en", "zh"),
	),
)

// listSamplesTool defines the list_samples MCP tool.
var listSamplesTool = mcp.NewTool("list_samples",
	mcp.WithDescription("List the code samples shown on the example pages."),
)

// getSampleTool defines the get_sample MCP tool.
var getSampleTool = mcp.NewTool("get_sample",
	mcp.WithDescription("Get the full source of a code sample, exactly as the copy button places it on the clipboard."),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("Sample name as returned by list_samples"),
	),
)
