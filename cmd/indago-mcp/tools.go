package main

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createGenerateReportTool returns the generate_report tool definition
func createGenerateReportTool() mcp.Tool {
	return mcp.NewTool("generate_report",
		mcp.WithDescription("Generate a full investment research report for a stock ticker. Writes markdown and PDF artifacts to the configured output directory and returns a summary."),
		mcp.WithString("ticker",
			mcp.Required(),
			mcp.Description("Stock ticker symbol (e.g. NVDA, AAPL)"),
		),
	)
}

// createGetCachedResearchTool returns the get_cached_research tool definition
func createGetCachedResearchTool() mcp.Tool {
	return mcp.NewTool("get_cached_research",
		mcp.WithDescription("Retrieve the cached research bundle for a ticker: company name, planned outline, queries, and the citation-indexed research context"),
		mcp.WithString("ticker",
			mcp.Required(),
			mcp.Description("Stock ticker symbol (e.g. NVDA, AAPL)"),
		),
	)
}

// createClearCacheTool returns the clear_cache tool definition
func createClearCacheTool() mcp.Tool {
	return mcp.NewTool("clear_cache",
		mcp.WithDescription("Clear cached research for one ticker, or the whole cache when no ticker is given"),
		mcp.WithString("ticker",
			mcp.Description("Stock ticker symbol to clear; omit to clear everything"),
		),
	)
}
