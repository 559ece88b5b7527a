// Package main provides the entry point for the SmartContent MCP server.
//
// This MCP server allows AI agents (Claude Code, Cursor, Cline, Windsurf) to
// browse the content catalog, record interactions, and pull rankings and
// recommendations programmatically.
//
// Configuration:
//
//	SMARTCONTENT_API_URL   - Base URL of the API (default: http://localhost:8080)
//	SMARTCONTENT_API_TOKEN - Bearer token for authentication (optional)
//	SMARTCONTENT_USER_ID   - User ID sent as the X-User-ID development header
//	                         (optional; for instances with the dev auth driver)
//
// Usage with Claude Code:
//
//	claude mcp add smartcontent --transport stdio \
//	  --env SMARTCONTENT_API_TOKEN=xxx \
//	  -- /path/to/smartcontent-mcp
package main

import (
	"log"
	"os"

	"github.com/smartcontent/engine/cmd/mcp/client"
	"github.com/smartcontent/engine/cmd/mcp/server"
)

func main() {
	apiURL := os.Getenv("SMARTCONTENT_API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080"
	}

	apiToken := os.Getenv("SMARTCONTENT_API_TOKEN")
	userID := os.Getenv("SMARTCONTENT_USER_ID")
	if apiToken == "" && userID == "" {
		log.Println("no SMARTCONTENT_API_TOKEN or SMARTCONTENT_USER_ID set; only public endpoints will work")
	}

	apiClient := client.NewClient(apiURL, apiToken, userID)
	srv := server.NewServer(apiClient)

	if err := srv.Run(); err != nil {
		log.Fatal(err)
	}
}
