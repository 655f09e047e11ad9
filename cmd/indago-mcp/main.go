package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
	arbor_models "github.com/ternarybob/arbor/models"

	"github.com/ternarybob/indago/internal/app"
	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/interfaces"
	"github.com/ternarybob/indago/internal/models"
)

func main() {
	// Config path from environment, falling back to the working directory
	configPath := os.Getenv("INDAGO_CONFIG")
	var configPaths []string
	if configPath != "" {
		configPaths = append(configPaths, configPath)
	} else if _, err := os.Stat("indago.toml"); err == nil {
		configPaths = append(configPaths, "indago.toml")
	}

	config, err := common.LoadFromFiles(configPaths...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Minimal logging to avoid cluttering MCP stdio
	logger := arbor.NewLogger().WithConsoleWriter(arbor_models.WriterConfiguration{
		Type:             arbor_models.LogWriterTypeConsole,
		TimeFormat:       "15:04:05",
		DisableTimestamp: false,
	}).WithLevelFromString("warn")

	// Progress events are logged, not forwarded; MCP tool calls are
	// request/response
	progress := interfaces.ProgressFunc(func(event models.ProgressEvent) {
		logger.Debug().Msg(event.Message)
	})

	application, err := app.New(config, logger, progress)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize application")
		os.Exit(1)
	}
	defer application.Close()

	mcpServer := server.NewMCPServer(
		"indago",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(createGenerateReportTool(), handleGenerateReport(application, logger))
	mcpServer.AddTool(createGetCachedResearchTool(), handleGetCachedResearch(application, logger))
	mcpServer.AddTool(createClearCacheTool(), handleClearCache(application, logger))

	// Start server (blocks on stdio)
	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Fatal().Err(err).Msg("MCP server failed")
	}
}
