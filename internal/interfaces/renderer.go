package interfaces

import "context"

// DocumentRenderer converts report markdown into a PDF file.
// The primary implementation renders through headless Chrome for full
// HTML and chart support; a pure-Go fallback covers environments
// without a browser.
type DocumentRenderer interface {
	// RenderPDF writes the rendered document to outputPath.
	RenderPDF(ctx context.Context, markdown, outputPath, title string) error

	// Name identifies the renderer for logging.
	Name() string
}
