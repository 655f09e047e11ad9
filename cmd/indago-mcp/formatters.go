package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/indago/internal/models"
	"github.com/ternarybob/indago/internal/services/pipeline"
)

// formatRunResult formats a completed report run as markdown
func formatRunResult(result *pipeline.RunResult) string {
	report := result.Report

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s (%s) Investment Report\n\n", report.CompanyName, report.Ticker))
	sb.WriteString(fmt.Sprintf("**Generated:** %s\n", report.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("**Sections:** %d\n", len(report.Sections)))
	sb.WriteString(fmt.Sprintf("**Cited sources:** %d\n", len(report.CitedSources)))
	sb.WriteString(fmt.Sprintf("**Policy:** %s\n", report.Policy))
	sb.WriteString(fmt.Sprintf("**From cache:** %t\n", report.FromCache))
	sb.WriteString(fmt.Sprintf("**Duration:** %s\n\n", result.Duration))

	if result.Export.MarkdownPath != "" {
		sb.WriteString(fmt.Sprintf("**Markdown:** %s\n", result.Export.MarkdownPath))
	}
	if result.Export.PDFGenerated {
		sb.WriteString(fmt.Sprintf("**PDF:** %s", result.Export.PDFPath))
		if result.Export.PageCount > 0 {
			sb.WriteString(fmt.Sprintf(" (%d pages)", result.Export.PageCount))
		}
		sb.WriteString("\n")
	} else {
		sb.WriteString("**PDF:** not generated\n")
	}

	if report.ExecutiveSummary != "" {
		sb.WriteString("\n## Executive Summary\n\n")
		sb.WriteString(report.ExecutiveSummary)
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatCachedResearch formats a cached research bundle as markdown
func formatCachedResearch(ticker string, research *models.CachedResearch) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Cached Research: %s (%s)\n\n", research.CompanyName, ticker))
	if !research.CachedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("**Cached:** %s\n", research.CachedAt.Format(time.RFC3339)))
	}
	sb.WriteString(fmt.Sprintf("**Sources:** %d\n\n", len(research.Sources)))

	if len(research.Structure) > 0 {
		sb.WriteString("## Planned Structure\n\n")
		for _, title := range research.Structure {
			sb.WriteString(fmt.Sprintf("- %s\n", title))
		}
		sb.WriteString("\n")
	}

	if len(research.WebQueries) > 0 {
		sb.WriteString("## Web Queries\n\n")
		for _, query := range research.WebQueries {
			sb.WriteString(fmt.Sprintf("- %s\n", query))
		}
		sb.WriteString("\n")
	}

	if len(research.FinancialQueries) > 0 {
		sb.WriteString("## Financial Queries\n\n")
		for _, query := range research.FinancialQueries {
			sb.WriteString(fmt.Sprintf("- %s\n", query.Query))
		}
		sb.WriteString("\n")
	}

	if research.Context != "" {
		sb.WriteString("## Research Context\n\n")
		sb.WriteString(research.Context)
		sb.WriteString("\n")
	}

	return sb.String()
}
