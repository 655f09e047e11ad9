package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/models"
	"github.com/ternarybob/indago/internal/services/pdf"
)

// stubRenderer writes a canned payload to the output path. skipWrite
// simulates a renderer that reports success without producing a file.
type stubRenderer struct {
	err       error
	payload   []byte
	skipWrite bool
	calls     int
	lastPath  string
	lastTitle string
}

func (r *stubRenderer) RenderPDF(_ context.Context, _ string, outputPath, title string) error {
	r.calls++
	r.lastPath = outputPath
	r.lastTitle = title
	if r.err != nil {
		return r.err
	}
	if r.skipWrite {
		return nil
	}
	return os.WriteFile(outputPath, r.payload, 0644)
}

func (r *stubRenderer) Name() string { return "stub" }

type progressRecorder struct {
	events []models.ProgressEvent
}

func (p *progressRecorder) Notify(event models.ProgressEvent) {
	p.events = append(p.events, event)
}

func (p *progressRecorder) messages() []string {
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Message)
	}
	return out
}

func newService(t *testing.T, renderer *stubRenderer, validate bool) (*Service, *progressRecorder, string) {
	t.Helper()
	dir := t.TempDir()
	rec := &progressRecorder{}
	svc := NewService(renderer,
		common.ReportConfig{OutputDir: dir},
		common.RenderConfig{Validate: validate},
		rec, common.GetLogger())
	return svc, rec, dir
}

func TestExportWritesMarkdownAndPDF(t *testing.T) {
	renderer := &stubRenderer{payload: []byte("%PDF-1.4 stub payload")}
	svc, rec, dir := newService(t, renderer, false)

	markdown := "## Executive Summary\n\nStrong quarter for NVIDIA [1]."
	result, err := svc.Export(context.Background(), markdown, "NVDA", "NVIDIA Corp.")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "NVDA_Report.md"), result.MarkdownPath)
	assert.Equal(t, filepath.Join(dir, "NVDA_Report.pdf"), result.PDFPath)
	assert.True(t, result.PDFGenerated)

	content, err := os.ReadFile(result.MarkdownPath)
	require.NoError(t, err)
	assert.Equal(t, markdown, string(content))

	assert.Equal(t, 1, renderer.calls)
	assert.Equal(t, result.PDFPath, renderer.lastPath)
	assert.Equal(t, "NVIDIA Corp.", renderer.lastTitle)

	require.Len(t, rec.events, 3)
	assert.Equal(t, "Markdown report saved: "+result.MarkdownPath, rec.events[0].Message)
	assert.Equal(t, "Converting report to PDF...", rec.events[1].Message)
	assert.Equal(t, "PDF report saved", rec.events[2].Message)
	assert.Equal(t, result.PDFPath, rec.events[2].Data["path"])
}

func TestExportValidatesRealPDF(t *testing.T) {
	svc := NewService(pdf.NewRenderer(common.GetLogger()),
		common.ReportConfig{OutputDir: t.TempDir()},
		common.RenderConfig{Validate: true},
		nil, common.GetLogger())

	markdown := "## Executive Summary\n\nApple posted record services revenue [1].\n\n## References\n\n1. [Apple Newsroom](https://www.apple.com/newsroom/)"
	result, err := svc.Export(context.Background(), markdown, "AAPL", "Apple Inc.")
	require.NoError(t, err)

	assert.True(t, result.PDFGenerated)
	assert.GreaterOrEqual(t, result.PageCount, 1)

	info, err := os.Stat(result.PDFPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestExportOverwritesPreviousRun(t *testing.T) {
	renderer := &stubRenderer{payload: []byte("%PDF-1.4 fresh")}
	svc, rec, dir := newService(t, renderer, false)

	mdPath := filepath.Join(dir, "NVDA_Report.md")
	pdfPath := filepath.Join(dir, "NVDA_Report.pdf")
	require.NoError(t, os.WriteFile(mdPath, []byte("stale markdown"), 0644))
	require.NoError(t, os.WriteFile(pdfPath, []byte("stale pdf"), 0644))

	result, err := svc.Export(context.Background(), "fresh markdown", "NVDA", "NVIDIA Corp.")
	require.NoError(t, err)
	assert.True(t, result.PDFGenerated)

	content, err := os.ReadFile(mdPath)
	require.NoError(t, err)
	assert.Equal(t, "fresh markdown", string(content))

	messages := rec.messages()
	assert.Contains(t, messages, "Removed existing markdown file: "+mdPath)
	assert.Contains(t, messages, "Removed existing PDF file: "+pdfPath)
}

func TestExportRenderFailureKeepsMarkdown(t *testing.T) {
	renderer := &stubRenderer{err: errors.New("browser crashed")}
	svc, rec, _ := newService(t, renderer, false)

	result, err := svc.Export(context.Background(), "report body", "NVDA", "NVIDIA Corp.")
	require.NoError(t, err)

	assert.False(t, result.PDFGenerated)
	assert.FileExists(t, result.MarkdownPath)
	assert.Contains(t, rec.messages(), "Failed to generate PDF report.")
}

func TestExportEmptyPDFReported(t *testing.T) {
	renderer := &stubRenderer{}
	svc, rec, _ := newService(t, renderer, false)

	result, err := svc.Export(context.Background(), "report body", "NVDA", "NVIDIA Corp.")
	require.NoError(t, err)

	assert.False(t, result.PDFGenerated)
	assert.Contains(t, rec.messages(), "PDF file was not created properly or is empty.")
}

func TestExportMissingPDFReported(t *testing.T) {
	renderer := &stubRenderer{skipWrite: true}
	svc, rec, _ := newService(t, renderer, false)

	result, err := svc.Export(context.Background(), "report body", "NVDA", "NVIDIA Corp.")
	require.NoError(t, err)

	assert.False(t, result.PDFGenerated)
	assert.Contains(t, rec.messages(), "PDF file was not created properly or is empty.")
}

func TestExportStructuralValidationFailure(t *testing.T) {
	renderer := &stubRenderer{payload: []byte("%PDF-1.4 not actually parseable")}
	svc, rec, _ := newService(t, renderer, true)

	result, err := svc.Export(context.Background(), "report body", "NVDA", "NVIDIA Corp.")
	require.NoError(t, err)

	assert.False(t, result.PDFGenerated)
	assert.Zero(t, result.PageCount)
	assert.FileExists(t, result.MarkdownPath)
	assert.Contains(t, rec.messages(), "Generated PDF failed validation.")
}

func TestExportMarkdownWriteFailure(t *testing.T) {
	renderer := &stubRenderer{payload: []byte("%PDF-1.4")}
	svc, rec, dir := newService(t, renderer, false)

	// A non-empty directory at the markdown path defeats both the stale
	// file removal and the write itself.
	mdPath := filepath.Join(dir, "NVDA_Report.md")
	require.NoError(t, os.MkdirAll(filepath.Join(mdPath, "blocker"), 0755))

	_, err := svc.Export(context.Background(), "report body", "NVDA", "NVIDIA Corp.")
	require.Error(t, err)

	assert.Equal(t, 0, renderer.calls)

	messages := rec.messages()
	require.NotEmpty(t, messages)
	assert.Contains(t, messages[len(messages)-1], "Failed to save markdown report:")
}

func TestExportCreatesOutputDir(t *testing.T) {
	renderer := &stubRenderer{payload: []byte("%PDF-1.4")}
	dir := filepath.Join(t.TempDir(), "nested", "reports")
	svc := NewService(renderer,
		common.ReportConfig{OutputDir: dir},
		common.RenderConfig{},
		nil, common.GetLogger())

	result, err := svc.Export(context.Background(), "report body", "MSFT", "Microsoft Corporation")
	require.NoError(t, err)

	assert.DirExists(t, dir)
	assert.FileExists(t, result.MarkdownPath)
}
