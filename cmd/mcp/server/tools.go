package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/smartcontent/engine/cmd/mcp/client"
)

func (s *Server) handleSearchContent(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	filters := parseSearchFilters(request.Params.Arguments)

	result, err := s.client.SearchContent(ctx, filters)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to search content: %v", err)), nil
	}

	if len(result.Data) == 0 {
		return mcp.NewToolResultText("No content found."), nil
	}

	data, err := json.MarshalIndent(result.Data, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to format content: %v", err)), nil
	}

	msg := fmt.Sprintf("Found %d item(s) of %d total (page %d):\n\n%s",
		len(result.Data), result.Metadata.Total, result.Metadata.Page, string(data))
	return mcp.NewToolResultText(msg), nil
}

func parseSearchFilters(args map[string]any) client.SearchFilters {
	filters := client.SearchFilters{
		PageSize: 20, // Default page size
	}

	if query, ok := args["query"].(string); ok && query != "" {
		filters.Query = query
	}
	if kind, ok := args["kind"].(string); ok && kind != "" {
		filters.Kind = kind
	}
	if category, ok := args["category"].(string); ok && category != "" {
		filters.Category = category
	}
	if page, ok := args["page"].(float64); ok && page > 0 {
		filters.Page = int(page)
	}
	if pageSize, ok := args["page_size"].(float64); ok && pageSize > 0 {
		filters.PageSize = min(int(pageSize), 100)
	}

	return filters
}

func (s *Server) handleGetContent(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments

	contentID, ok := args["content_id"].(string)
	if !ok || contentID == "" {
		return mcp.NewToolResultError("content_id is required"), nil
	}

	item, err := s.client.GetContent(ctx, contentID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get content: %v", err)), nil
	}

	return formatItemResult(item)
}

func (s *Server) handleGetRanking(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments

	ranking, ok := args["ranking"].(string)
	if !ok || ranking == "" {
		errMsg := "ranking is required (must be 'most_viewed', 'most_liked', 'top_rated', or 'trending')"
		return mcp.NewToolResultError(errMsg), nil
	}

	limit := parseLimit(args)

	items, err := s.client.GetRanking(ctx, ranking, limit)
	if err != nil {
		errMsg := fmt.Sprintf("failed to get ranking: %v", err)
		return mcp.NewToolResultError(errMsg), nil
	}

	return formatItemsResult(items)
}

func (s *Server) handleGetSimilarContent(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments

	contentID, ok := args["content_id"].(string)
	if !ok || contentID == "" {
		return mcp.NewToolResultError("content_id is required"), nil
	}

	limit := parseLimit(args)

	items, err := s.client.GetSimilarContent(ctx, contentID, limit)
	if err != nil {
		errMsg := fmt.Sprintf("failed to get similar content: %v", err)
		return mcp.NewToolResultError(errMsg), nil
	}

	return formatItemsResult(items)
}

func (s *Server) handleGetRecommendations(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	limit := parseLimit(request.Params.Arguments)

	result, err := s.client.GetRecommendations(ctx, limit)
	if err != nil {
		errMsg := fmt.Sprintf("failed to get recommendations: %v", err)
		return mcp.NewToolResultError(errMsg), nil
	}

	if len(result.Data) == 0 {
		return mcp.NewToolResultText("No recommendations found."), nil
	}

	data, err := json.MarshalIndent(result.Data, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to format recommendations: %v", err)), nil
	}

	kind := "popular"
	if result.Metadata.Personalized {
		kind = "personalized"
	}
	msg := fmt.Sprintf("Found %d %s recommendation(s):\n\n%s", len(result.Data), kind, string(data))
	return mcp.NewToolResultText(msg), nil
}

func (s *Server) handleRecordInteraction(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments

	contentID, ok := args["content_id"].(string)
	if !ok || contentID == "" {
		return mcp.NewToolResultError("content_id is required"), nil
	}

	kind, ok := args["kind"].(string)
	if !ok || kind == "" {
		errMsg := "kind is required (must be 'view', 'like', or 'rating')"
		return mcp.NewToolResultError(errMsg), nil
	}

	rating := 0
	if r, ok := args["rating"].(float64); ok {
		rating = int(r)
	}
	if kind == "rating" && rating == 0 {
		return mcp.NewToolResultError("rating is required when kind is 'rating' (1 to 5)"), nil
	}

	result, err := s.client.RecordInteraction(ctx, contentID, kind, rating)
	if err != nil {
		errMsg := fmt.Sprintf("failed to record interaction: %v", err)
		return mcp.NewToolResultError(errMsg), nil
	}

	stats, err := json.MarshalIndent(result.Stats, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to format stats: %v", err)), nil
	}

	msg := fmt.Sprintf("Recorded '%s' on content %s (outcome: %s). Updated stats:\n\n%s",
		kind, contentID, result.Outcome, string(stats))
	return mcp.NewToolResultText(msg), nil
}

func (s *Server) handleGetOverview(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	overview, err := s.client.GetOverview(ctx)
	if err != nil {
		errMsg := fmt.Sprintf("failed to get overview: %v", err)
		return mcp.NewToolResultError(errMsg), nil
	}

	data, err := json.MarshalIndent(overview, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to format overview: %v", err)), nil
	}

	return mcp.NewToolResultText(string(data)), nil
}

func parseLimit(args map[string]any) int {
	limit := 10
	if l, ok := args["limit"].(float64); ok && l > 0 {
		limit = min(int(l), 100)
	}
	return limit
}

func formatItemsResult(items []client.ContentItem) (*mcp.CallToolResult, error) {
	if len(items) == 0 {
		return mcp.NewToolResultText("No content found."), nil
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		errMsg := fmt.Sprintf("failed to format content: %v", err)
		return mcp.NewToolResultError(errMsg), nil
	}

	msg := fmt.Sprintf("Found %d item(s):\n\n%s", len(items), string(data))
	return mcp.NewToolResultText(msg), nil
}

func formatItemResult(item *client.ContentItem) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(item, "", "  ")
	if err != nil {
		errMsg := fmt.Sprintf("failed to format content: %v", err)
		return mcp.NewToolResultError(errMsg), nil
	}

	return mcp.NewToolResultText(string(data)), nil
}
