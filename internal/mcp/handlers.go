package mcp

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/kinlink-docs/internal/content"
	"github.com/ziadkadry99/kinlink-docs/internal/search"
)

func (s *Server) locale(request mcp.CallToolRequest) string {
	if l := request.GetString("locale", ""); l != "" {
		return l
	}
	return s.defaultLocale
}

// handleSearchDocs runs a full-text query against the page index.
func (s *Server) handleSearchDocs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	limit := request.GetInt("limit", search.DefaultLimit)
	if limit <= 0 {
		limit = search.DefaultLimit
	}

	locale := s.locale(request)
	hits, err := s.docs.Index().Search(ctx, locale, query, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	if len(hits) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No %s pages match %q.", locale, query)), nil
	}

	return mcp.NewToolResultText(formatHits(hits)), nil
}

// handleGetPage returns the markdown of a page with its panels appended.
func (s *Server) handleGetPage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	route, err := request.RequireString("route")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: route"), nil
	}
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	if route != "/" {
		route = strings.TrimSuffix(route, "/")
	}

	locale := s.locale(request)
	page, err := s.docs.Content().Page(locale, route)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf(
				"No %s page at %s. Use search_docs to find the right route.",
				locale, route,
			)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to load page: %v", err)), nil
	}

	return mcp.NewToolResultText(s.formatPage(page)), nil
}

func (s *Server) handleListSamples(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	samples := s.docs.Content().Samples()
	if len(samples) == 0 {
		return mcp.NewToolResultText("No code samples are loaded."), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d sample(s):\n", len(samples)))
	for _, sample := range samples {
		sb.WriteString(fmt.Sprintf("- %s (%s, %s): %s\n", sample.Name, sample.Filename, sample.Language, sample.Title))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) handleGetSample(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: name"), nil
	}

	sample, err := s.docs.Content().Sample(name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("No sample named %q. Use list_samples to see what exists.", name)), nil
	}

	return mcp.NewToolResultText(sample.Source), nil
}

// formatHits renders search hits as plain text for agent consumption.
func formatHits(hits []search.Hit) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d result(s):\n", len(hits)))

	for i, h := range hits {
		sb.WriteString(fmt.Sprintf("\n--- Result %d ---\n", i+1))
		sb.WriteString(fmt.Sprintf("Route: %s\n", h.Route))
		sb.WriteString(fmt.Sprintf("Title: %s\n", h.Title))
		if h.Section != "" {
			sb.WriteString(fmt.Sprintf("Section: %s\n", h.Section))
		}
		if h.Description != "" {
			sb.WriteString(fmt.Sprintf("Description: %s\n", h.Description))
		}
		if h.Snippet != "" {
			sb.WriteString("\n")
			sb.WriteString(h.Snippet)
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// samplePre matches the raw code blocks that @sample lines expand to.
var samplePre = regexp.MustCompile(`(?s)<pre data-filename="[^"]*" data-sample="([^"]+)">.*?</pre>`)

// formatPage renders a page as markdown, turning embedded samples back
// into fenced code blocks.
func (s *Server) formatPage(p *content.Page) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Route: %s\nTitle: %s\n", p.Route, p.Title))
	if p.Description != "" {
		sb.WriteString(fmt.Sprintf("Description: %s\n", p.Description))
	}
	sb.WriteString("\n")
	sb.WriteString(s.unexpand(p.Body))
	sb.WriteString("\n")

	if p.Tabs != nil {
		for _, panel := range p.Tabs.Panels {
			sb.WriteString(fmt.Sprintf("\n## Tab: %s\n\n", panel.Label))
			sb.WriteString(s.unexpand(panel.Body))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (s *Server) unexpand(md string) string {
	src := s.docs.Content()
	return strings.TrimSpace(samplePre.ReplaceAllStringFunc(md, func(block string) string {
		name := samplePre.FindStringSubmatch(block)[1]
		sample, err := src.Sample(name)
		if err != nil {
			return block
		}
		return fmt.Sprintf("```%s title=%q\n%s\n```", sample.Language, sample.Filename, strings.TrimRight(sample.Source, "\n"))
	}))
}
