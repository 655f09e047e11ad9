// Package render turns assembled report markdown into a styled PDF.
// Fenced chart blocks are screenshotted on standalone pages first, then
// the full document is converted to HTML and printed through headless
// Chrome. Environments without a browser use the pure-Go renderer in
// services/pdf instead.
package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/interfaces"
)

const (
	defaultRenderTimeout = 45 * time.Second
	defaultChartWait     = 2 * time.Second

	// chartLoadTimeout bounds each wait inside a chart page: script
	// availability and canvas presence.
	chartLoadTimeout   = 10 * time.Second
	chartRenderTimeout = 30 * time.Second

	chartViewportWidth  = 800
	chartViewportHeight = 600

	// A4 portrait with 20mm margins, in inches as PrintToPDF expects.
	pageWidthInches  = 8.27
	pageHeightInches = 11.69
	pageMarginInches = 0.79
)

// ChromeRenderer prints report markdown through headless Chrome.
type ChromeRenderer struct {
	chartjsSrc string
	timeout    time.Duration
	chartWait  time.Duration
	logger     arbor.ILogger
}

var _ interfaces.DocumentRenderer = (*ChromeRenderer)(nil)

// NewChromeRenderer creates a Chrome-backed document renderer.
func NewChromeRenderer(config common.RenderConfig, logger arbor.ILogger) *ChromeRenderer {
	timeout := defaultRenderTimeout
	if d, err := time.ParseDuration(config.Timeout); err == nil && d > 0 {
		timeout = d
	}

	chartWait := defaultChartWait
	if d, err := time.ParseDuration(config.ChartWaitTime); err == nil && d > 0 {
		chartWait = d
	}

	return &ChromeRenderer{
		chartjsSrc: config.ChartJSSource,
		timeout:    timeout,
		chartWait:  chartWait,
		logger:     logger,
	}
}

// Name identifies the renderer for logging.
func (r *ChromeRenderer) Name() string {
	return "chrome"
}

// RenderPDF renders the report markdown to a PDF at outputPath. Chart
// blocks that fail to render are replaced with an inline notice rather
// than failing the document.
func (r *ChromeRenderer) RenderPDF(ctx context.Context, markdown, outputPath, title string) error {
	tempDir, err := os.MkdirTemp("", "indago-render-")
	if err != nil {
		return fmt.Errorf("failed to create render temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("force-color-profile", "srgb"),
		chromedp.WindowSize(chartViewportWidth, chartViewportHeight),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	withImages := replaceChartBlocks(markdown, func(index int, chartHTML string) string {
		return r.renderChart(allocCtx, tempDir, index, chartHTML)
	})

	bodyHTML, err := markdownToHTML(withImages)
	if err != nil {
		return fmt.Errorf("failed to convert markdown to HTML: %w", err)
	}

	docPath := filepath.Join(tempDir, "report.html")
	if err := os.WriteFile(docPath, []byte(reportDocument(bodyHTML, title)), 0644); err != nil {
		return fmt.Errorf("failed to write report HTML: %w", err)
	}

	return r.printPDF(allocCtx, docPath, outputPath)
}

// renderChart screenshots one chart block on its standalone page and
// returns the inline image markup, or a failure notice when the chart
// cannot be produced.
func (r *ChromeRenderer) renderChart(allocCtx context.Context, tempDir string, index int, chartHTML string) string {
	if !hasCanvas(chartHTML) {
		r.logger.Warn().
			Int("chart", index).
			Msg("Fenced html block has no canvas element, passing through unrendered")
		return chartHTML
	}

	pagePath := filepath.Join(tempDir, fmt.Sprintf("chart_%d.html", index))
	if err := os.WriteFile(pagePath, []byte(chartDocument(chartHTML, r.chartjsSrc)), 0644); err != nil {
		r.logger.Error().Err(err).Int("chart", index).Msg("Failed to write chart page")
		return chartFailureHTML
	}

	r.logger.Info().Int("chart", index).Msg("Rendering chart")

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()
	runCtx, cancelRun := context.WithTimeout(tabCtx, chartRenderTimeout)
	defer cancelRun()

	var shot []byte
	err := chromedp.Run(runCtx,
		chromedp.Navigate("file://"+pagePath),
		chromedp.Poll("typeof Chart !== 'undefined'", nil, chromedp.WithPollingTimeout(chartLoadTimeout)),
		chromedp.WaitReady("canvas", chromedp.ByQuery),
		chromedp.Sleep(r.chartWait),
		chromedp.CaptureScreenshot(&shot),
	)
	if err != nil {
		r.logger.Error().Err(err).Int("chart", index).Msg("Failed to render chart")
		return chartFailureHTML
	}

	if len(shot) < 1000 {
		r.logger.Warn().
			Int("chart", index).
			Int("bytes", len(shot)).
			Msg("Chart screenshot is suspiciously small")
	}

	r.logger.Info().
		Int("chart", index).
		Int("bytes", len(shot)).
		Msg("Chart rendered")

	return chartImage(shot)
}

// printPDF loads the report document and prints it with the page-number
// footer and A4 margins.
func (r *ChromeRenderer) printPDF(allocCtx context.Context, docPath, outputPath string) error {
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()
	runCtx, cancelRun := context.WithTimeout(tabCtx, r.timeout)
	defer cancelRun()

	var pdf []byte
	err := chromedp.Run(runCtx,
		chromedp.Navigate("file://"+docPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			if err := emulation.SetEmulatedMedia().WithMedia("print").Do(ctx); err != nil {
				return err
			}

			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(pageWidthInches).
				WithPaperHeight(pageHeightInches).
				WithMarginTop(pageMarginInches).
				WithMarginBottom(pageMarginInches).
				WithMarginLeft(pageMarginInches).
				WithMarginRight(pageMarginInches).
				WithDisplayHeaderFooter(true).
				WithHeaderTemplate("<span></span>").
				WithFooterTemplate(footerHTML).
				WithPreferCSSPageSize(true).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to print PDF: %w", err)
	}

	if err := os.WriteFile(outputPath, pdf, 0644); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}

	r.logger.Info().
		Str("path", outputPath).
		Int("bytes", len(pdf)).
		Msg("PDF generated")

	return nil
}
