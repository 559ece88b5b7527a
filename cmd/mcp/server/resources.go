package server

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerResources() {
	// Register the content item resource template
	s.mcpServer.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"content://{content_id}",
			"Individual item from the content catalog",
			mcp.WithTemplateDescription(
				"Fetch a specific content item by its ID. Use this to get full "+
					"item details including title, description, kind-specific "+
					"metadata (article source, video duration, or product price), "+
					"tags, and engagement stats."),
			mcp.WithTemplateMIMEType("application/json"),
		),
		s.handleContentResource,
	)
}

func (s *Server) handleContentResource(
	ctx context.Context,
	request mcp.ReadResourceRequest,
) ([]mcp.ResourceContents, error) {
	// Extract content_id from the URI (format: content://{content_id})
	uri := request.Params.URI
	if !strings.HasPrefix(uri, "content://") {
		return nil, fmt.Errorf("invalid content URI format: %s", uri)
	}

	contentID := strings.TrimPrefix(uri, "content://")
	if contentID == "" {
		return nil, fmt.Errorf("missing content_id in URI: %s", uri)
	}

	item, err := s.client.GetContent(ctx, contentID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch content %s: %w", contentID, err)
	}

	data, err := json.MarshalIndent(item, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal content: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
