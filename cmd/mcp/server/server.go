// Package server provides the MCP server implementation.
package server

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/smartcontent/engine/cmd/mcp/client"
)

// Server is the MCP server for the SmartContent engine.
type Server struct {
	client    *client.Client
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server with the given API client.
func NewServer(apiClient *client.Client) *Server {
	s := &Server{
		client: apiClient,
	}

	s.mcpServer = server.NewMCPServer(
		"smartcontent",
		"1.0.0",
		server.WithResourceCapabilities(true, false),
		server.WithLogging(),
	)

	s.registerTools()
	s.registerResources()

	return s
}

// Run starts the MCP server with stdio transport.
func (s *Server) Run() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	// search_content - Search the content catalog
	s.mcpServer.AddTool(mcp.NewTool("search_content",
		mcp.WithDescription(
			"Search the content catalog by keyword, kind, or category. "+
				"Returns a paginated list of active content items sorted by "+
				"creation date (newest first)."),
		mcp.WithString("query",
			mcp.Description("Search query matched against titles, descriptions, and tags"),
		),
		mcp.WithString("kind",
			mcp.Description("Only include items of this kind: 'article', 'video', or 'product'"),
		),
		mcp.WithString("category",
			mcp.Description("Only include items in this category (e.g., 'technology')"),
		),
		mcp.WithNumber("page",
			mcp.Description("Page number for pagination (1-indexed, default: 1)"),
		),
		mcp.WithNumber("page_size",
			mcp.Description("Number of items per page (default: 20, max: 100)"),
		),
	), s.handleSearchContent)

	// get_content - Get full content item details
	s.mcpServer.AddTool(mcp.NewTool("get_content",
		mcp.WithDescription(
			"Get full details of a specific content item by its ID, including "+
				"kind-specific metadata and engagement stats."),
		mcp.WithString("content_id",
			mcp.Required(),
			mcp.Description("The ID of the content item to retrieve"),
		),
	), s.handleGetContent)

	// get_ranking - Popularity rankings
	s.mcpServer.AddTool(mcp.NewTool("get_ranking",
		mcp.WithDescription(
			"Get a popularity ranking over the content catalog. Supported rankings: "+
				"'most_viewed', 'most_liked', 'top_rated' (unrated items excluded), "+
				"and 'trending' (views plus weighted likes)."),
		mcp.WithString("ranking",
			mcp.Required(),
			mcp.Description("Ranking kind: 'most_viewed', 'most_liked', 'top_rated', or 'trending'"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of items to return (default: 10, max: 100)"),
		),
	), s.handleGetRanking)

	// get_similar_content - Find similar content
	s.mcpServer.AddTool(mcp.NewTool("get_similar_content",
		mcp.WithDescription(
			"Find content items similar to a given item, by tag overlap or "+
				"semantic similarity depending on server configuration."),
		mcp.WithString("content_id",
			mcp.Required(),
			mcp.Description("The ID of the content item to find similar items for"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of similar items to return (default: 10, max: 100)"),
		),
	), s.handleGetSimilarContent)

	// get_recommendations - Personalized recommendations
	s.mcpServer.AddTool(mcp.NewTool("get_recommendations",
		mcp.WithDescription(
			"Get personalized content recommendations based on your declared "+
				"preferences and interaction history. Falls back to most-viewed "+
				"content for new users. Requires authentication."),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of recommendations to return (default: 10, max: 100)"),
		),
	), s.handleGetRecommendations)

	// record_interaction - Record a view, like toggle, or rating
	s.mcpServer.AddTool(mcp.NewTool("record_interaction",
		mcp.WithDescription(
			"Record an interaction with a content item: a 'view' (deduplicated "+
				"within a short window), a 'like' (toggles on repeat), or a "+
				"'rating' from 1 to 5 (replaces any previous rating). "+
				"This affects your personalized recommendations. Requires authentication."),
		mcp.WithString("content_id",
			mcp.Required(),
			mcp.Description("The ID of the content item to interact with"),
		),
		mcp.WithString("kind",
			mcp.Required(),
			mcp.Description("Interaction kind: 'view', 'like', or 'rating'"),
		),
		mcp.WithNumber("rating",
			mcp.Description("Rating value from 1 to 5 (required when kind is 'rating')"),
		),
	), s.handleRecordInteraction)

	// get_overview - Engine-wide aggregate
	s.mcpServer.AddTool(mcp.NewTool("get_overview",
		mcp.WithDescription(
			"Get an engine-wide overview: total content items, distinct users, "+
				"interactions, views, and likes."),
	), s.handleGetOverview)
}
