package utility

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/velosovictor/graforest-mcp/internal/server"
	"github.com/velosovictor/graforest-mcp/internal/tools"
)

// handleFetchURL handles the fetch_url_content tool request. The tool
// needs no project or API key; the fetcher talks to the open web.
func handleFetchURL(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	rawURL, errResult := tools.RequiredString(args, "url")
	if errResult != nil {
		return errResult, nil
	}

	result, err := sc.Fetcher().FetchURL(ctx, rawURL)
	if err != nil {
		return tools.ErrorResult(err), nil
	}

	return tools.FormatJSONResult(result)
}
