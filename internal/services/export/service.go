// Package export writes the assembled report to disk as markdown and
// PDF. Markdown is the source of truth: it is written first and kept
// even when rendering fails, so a broken renderer never costs the
// report itself.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/interfaces"
	"github.com/ternarybob/indago/internal/models"
)

const defaultOutputDir = "./reports"

// Result records what Export wrote to disk.
type Result struct {
	MarkdownPath string `json:"markdown_path"`
	PDFPath      string `json:"pdf_path"`
	PDFGenerated bool   `json:"pdf_generated"`
	PageCount    int    `json:"page_count,omitempty"`
}

// Service persists finished reports under the configured output
// directory as <TICKER>_Report.md and <TICKER>_Report.pdf.
type Service struct {
	renderer  interfaces.DocumentRenderer
	outputDir string
	validate  bool
	progress  interfaces.ProgressNotifier
	logger    arbor.ILogger
}

// NewService creates an export service. progress may be nil.
func NewService(renderer interfaces.DocumentRenderer, report common.ReportConfig, render common.RenderConfig, progress interfaces.ProgressNotifier, logger arbor.ILogger) *Service {
	outputDir := report.OutputDir
	if outputDir == "" {
		outputDir = defaultOutputDir
	}
	return &Service{
		renderer:  renderer,
		outputDir: outputDir,
		validate:  render.Validate,
		progress:  progress,
		logger:    logger,
	}
}

// Export writes the markdown report, then renders and validates the
// PDF. Pre-existing output files are removed first so reruns always
// overwrite. A markdown write failure is returned as an error; render
// and validation failures are reported through progress and the result
// but never returned, since the markdown artifact stands on its own.
func (s *Service) Export(ctx context.Context, markdown, ticker, companyName string) (Result, error) {
	result := Result{}

	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return result, fmt.Errorf("failed to create output directory %s: %w", s.outputDir, err)
	}

	mdPath := filepath.Join(s.outputDir, fmt.Sprintf("%s_Report.md", ticker))
	result.MarkdownPath = mdPath

	s.removeStale(mdPath, "markdown")

	if err := os.WriteFile(mdPath, []byte(markdown), 0644); err != nil {
		s.logger.Error().Err(err).Str("path", mdPath).Msg("Failed to write markdown report")
		s.notify(fmt.Sprintf("Failed to save markdown report: %v", err), nil)
		return result, fmt.Errorf("failed to write markdown report: %w", err)
	}
	s.notify(fmt.Sprintf("Markdown report saved: %s", mdPath), nil)

	s.notify("Converting report to PDF...", nil)

	pdfPath := filepath.Join(s.outputDir, fmt.Sprintf("%s_Report.pdf", ticker))
	result.PDFPath = pdfPath

	s.removeStale(pdfPath, "PDF")

	if err := s.renderer.RenderPDF(ctx, markdown, pdfPath, companyName); err != nil {
		s.logger.Error().Err(err).Str("renderer", s.renderer.Name()).Str("ticker", ticker).Msg("PDF rendering failed")
		s.notify("Failed to generate PDF report.", nil)
		return result, nil
	}

	info, err := os.Stat(pdfPath)
	if err != nil || info.Size() == 0 {
		s.logger.Error().Str("path", pdfPath).Msg("Rendered PDF is missing or empty")
		s.notify("PDF file was not created properly or is empty.", nil)
		return result, nil
	}

	if s.validate {
		pageCount, err := pdfPageCount(pdfPath)
		if err != nil {
			s.logger.Error().Err(err).Str("path", pdfPath).Msg("Generated PDF failed structural validation")
			s.notify("Generated PDF failed validation.", nil)
			return result, nil
		}
		result.PageCount = pageCount
		s.logger.Info().Int("pages", pageCount).Str("path", pdfPath).Msg("PDF passed structural validation")
	}

	result.PDFGenerated = true
	s.notify("PDF report saved", map[string]interface{}{"path": pdfPath})
	return result, nil
}

// removeStale deletes a leftover output file from a previous run.
// Removal failure is reported but does not abort the export, the
// subsequent write truncates the file anyway.
func (s *Service) removeStale(path, kind string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := os.Remove(path); err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("Could not remove existing output file")
		s.notify(fmt.Sprintf("Warning: Could not remove existing %s file: %v", kind, err), nil)
		return
	}
	s.notify(fmt.Sprintf("Removed existing %s file: %s", kind, path), nil)
}

// pdfPageCount opens the generated document with pdfcpu to confirm it
// parses as a PDF and reports its page count.
func pdfPageCount(path string) (int, error) {
	pdfCtx, err := api.ReadContextFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read PDF context: %w", err)
	}
	return pdfCtx.PageCount, nil
}

func (s *Service) notify(message string, data map[string]interface{}) {
	if s.progress != nil {
		s.progress.Notify(models.ProgressEvent{Message: message, Data: data})
	}
}
