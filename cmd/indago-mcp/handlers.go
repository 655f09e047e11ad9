package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/indago/internal/app"
)

// handleGenerateReport implements the generate_report tool
func handleGenerateReport(application *app.App, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticker, err := request.RequireString("ticker")
		if err != nil || strings.TrimSpace(ticker) == "" {
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent("Error: ticker parameter is required"),
				},
			}, nil
		}

		result, err := application.Pipeline.Run(ctx, ticker)
		if err != nil {
			logger.Error().Err(err).Str("ticker", ticker).Msg("Report generation failed")
			message := fmt.Sprintf("Report generation failed: %v", err)
			if result != nil {
				// Export failed but the report itself was generated
				message = fmt.Sprintf("%s\n\n%s", message, formatRunResult(result))
			}
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent(message),
				},
			}, nil
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent(formatRunResult(result)),
			},
		}, nil
	}
}

// handleGetCachedResearch implements the get_cached_research tool
func handleGetCachedResearch(application *app.App, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticker, err := request.RequireString("ticker")
		if err != nil || strings.TrimSpace(ticker) == "" {
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent("Error: ticker parameter is required"),
				},
			}, nil
		}

		if application.Cache == nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent("Cache storage is not available"),
				},
			}, nil
		}

		normalized := strings.ToUpper(strings.TrimSpace(ticker))
		research, ok := application.Cache.Get(ctx, normalized)
		if !ok {
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent(fmt.Sprintf("No cached research for %s.", normalized)),
				},
			}, nil
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent(formatCachedResearch(normalized, research)),
			},
		}, nil
	}
}

// handleClearCache implements the clear_cache tool
func handleClearCache(application *app.App, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if application.Cache == nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent("Cache storage is not available"),
				},
			}, nil
		}

		ticker := strings.ToUpper(strings.TrimSpace(request.GetString("ticker", "")))
		if ticker == "" {
			if err := application.Cache.ClearAll(ctx); err != nil {
				logger.Error().Err(err).Msg("Clear cache failed")
				return &mcp.CallToolResult{
					Content: []mcp.Content{
						mcp.NewTextContent(fmt.Sprintf("Failed to clear cache: %v", err)),
					},
				}, nil
			}
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent("Cleared all cached research."),
				},
			}, nil
		}

		if err := application.Cache.ClearTicker(ctx, ticker); err != nil {
			logger.Error().Err(err).Str("ticker", ticker).Msg("Clear cache failed")
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent(fmt.Sprintf("Failed to clear cached research for %s: %v", ticker, err)),
				},
			}, nil
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent(fmt.Sprintf("Cleared cached research for %s.", ticker)),
			},
		}, nil
	}
}
