// Package pdf renders report markdown straight to PDF without a
// browser. Charts cannot be produced this way, so fenced chart blocks
// become placeholder notes; everything else is drawn from the goldmark
// AST. Used when the Chrome renderer is unavailable or disabled.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/ternarybob/arbor"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/ternarybob/indago/internal/interfaces"
)

var (
	chartBlockRegex = regexp.MustCompile("(?s)```html\n.*?\n```")
	htmlTagRegex    = regexp.MustCompile(`<[^>]*>`)
)

const chartPlaceholder = "*[Chart omitted in text rendering]*"

// Renderer is the pure-Go fallback document renderer.
type Renderer struct {
	logger arbor.ILogger
}

var _ interfaces.DocumentRenderer = (*Renderer)(nil)

// NewRenderer creates a fallback PDF renderer.
func NewRenderer(logger arbor.ILogger) *Renderer {
	return &Renderer{logger: logger}
}

// Name identifies the renderer for logging.
func (r *Renderer) Name() string {
	return "fpdf"
}

// RenderPDF writes the report as a text-oriented PDF to outputPath.
func (r *Renderer) RenderPDF(ctx context.Context, markdown, outputPath, title string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.logger.Debug().
		Int("markdown_len", len(markdown)).
		Str("title", title).
		Msg("Rendering PDF without browser")

	markdown = chartBlockRegex.ReplaceAllString(markdown, chartPlaceholder)

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle("Investment Report - "+title, true)
	doc.SetMargins(15, 15, 15)
	doc.SetAutoPageBreak(true, 15)
	doc.AddPage()
	doc.SetFont("Times", "", 10)

	md := goldmark.New(
		goldmark.WithExtensions(extension.Table, extension.Strikethrough),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)

	source := []byte(markdown)
	tree := md.Parser().Parse(text.NewReader(source))

	w := &walker{
		pdf:    doc,
		source: source,
		logger: r.logger,
		font:   "Times",
		size:   10,
	}
	if err := ast.Walk(tree, w.walk); err != nil {
		return fmt.Errorf("failed to render PDF: %w", err)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return fmt.Errorf("failed to generate PDF output: %w", err)
	}
	if err := os.WriteFile(outputPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}

	r.logger.Info().
		Str("path", outputPath).
		Int("bytes", buf.Len()).
		Msg("PDF generated")

	return nil
}

// walker draws the markdown AST onto an fpdf page.
type walker struct {
	pdf       *fpdf.Fpdf
	source    []byte
	logger    arbor.ILogger
	font      string
	size      float64
	bold      bool
	italic    bool
	inList    bool
	listLevel int
}

func (w *walker) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch n.Kind() {
	case ast.KindHeading:
		return w.handleHeading(n.(*ast.Heading), entering)
	case ast.KindParagraph:
		return w.handleParagraph(entering)
	case ast.KindText:
		return w.handleText(n.(*ast.Text), entering)
	case ast.KindEmphasis:
		return w.handleEmphasis(n.(*ast.Emphasis), entering)
	case ast.KindLink:
		return w.handleLink(n.(*ast.Link), entering)
	case ast.KindCodeSpan:
		return w.handleCodeSpan(n.(*ast.CodeSpan), entering)
	case ast.KindFencedCodeBlock:
		if entering {
			w.writeCodeBlock(n.(*ast.FencedCodeBlock).Lines())
			return ast.WalkSkipChildren, nil
		}
	case ast.KindCodeBlock:
		if entering {
			w.writeCodeBlock(n.(*ast.CodeBlock).Lines())
			return ast.WalkSkipChildren, nil
		}
	case ast.KindHTMLBlock:
		return w.handleHTMLBlock(n.(*ast.HTMLBlock), entering)
	case ast.KindList:
		return w.handleList(entering)
	case ast.KindListItem:
		return w.handleListItem(entering)
	case ast.KindThematicBreak:
		if entering {
			w.pdf.Ln(2)
			w.pdf.Line(15, w.pdf.GetY(), 195, w.pdf.GetY())
			w.pdf.Ln(2)
		}
	case extast.KindTable:
		return w.handleTable(n.(*extast.Table), entering)
	}
	return ast.WalkContinue, nil
}

func (w *walker) updateFont() {
	style := ""
	if w.bold {
		style += "B"
	}
	if w.italic {
		style += "I"
	}
	w.pdf.SetFont(w.font, style, w.size)
}

// Heading sizes mirror the print stylesheet: 20pt H1 down to 12pt H4.
func (w *walker) handleHeading(n *ast.Heading, entering bool) (ast.WalkStatus, error) {
	if entering {
		w.pdf.Ln(6)
		size := 12.0
		switch n.Level {
		case 1:
			size = 20
		case 2:
			size = 16
		case 3:
			size = 14
		}
		w.pdf.SetFont(w.font, "B", size)
	} else {
		w.pdf.Ln(8)
		w.updateFont()
	}
	return ast.WalkContinue, nil
}

func (w *walker) handleParagraph(entering bool) (ast.WalkStatus, error) {
	if !entering {
		w.pdf.Ln(7)
	}
	return ast.WalkContinue, nil
}

func (w *walker) handleText(n *ast.Text, entering bool) (ast.WalkStatus, error) {
	if entering {
		w.pdf.Write(5, string(n.Text(w.source)))
		if n.SoftLineBreak() || n.HardLineBreak() {
			w.pdf.Write(5, " ")
		}
	}
	return ast.WalkContinue, nil
}

func (w *walker) handleEmphasis(n *ast.Emphasis, entering bool) (ast.WalkStatus, error) {
	if n.Level == 2 {
		w.bold = entering
	} else {
		w.italic = entering
	}
	w.updateFont()
	return ast.WalkContinue, nil
}

// handleLink renders the link text followed by the destination so
// reference entries keep their URLs in a flat text rendering.
func (w *walker) handleLink(n *ast.Link, entering bool) (ast.WalkStatus, error) {
	if !entering {
		dest := string(n.Destination)
		if strings.HasPrefix(dest, "http") {
			w.pdf.Write(5, " ("+dest+")")
		}
	}
	return ast.WalkContinue, nil
}

func (w *walker) handleCodeSpan(n *ast.CodeSpan, entering bool) (ast.WalkStatus, error) {
	if entering {
		w.pdf.SetFont("Courier", "", w.size)
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if textNode, ok := c.(*ast.Text); ok {
				w.pdf.Write(5, string(textNode.Segment.Value(w.source)))
			}
		}
	} else {
		w.updateFont()
	}
	return ast.WalkSkipChildren, nil
}

func (w *walker) writeCodeBlock(lines *text.Segments) {
	w.pdf.Ln(2)
	w.pdf.SetFont("Courier", "", 9)
	w.pdf.SetFillColor(245, 245, 245)

	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		w.pdf.MultiCell(0, 5, string(line.Value(w.source)), "", "L", true)
	}

	w.pdf.SetFillColor(255, 255, 255)
	w.updateFont()
	w.pdf.Ln(2)
}

// handleHTMLBlock extracts the text inside raw HTML the assembler
// emits. Title-page markup gets display treatment; page-break and
// anchor markup strips to nothing and is skipped.
func (w *walker) handleHTMLBlock(n *ast.HTMLBlock, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	raw := w.blockText(n)
	stripped := strings.TrimSpace(htmlTagRegex.ReplaceAllString(raw, ""))
	if stripped == "" {
		return ast.WalkSkipChildren, nil
	}

	switch {
	case strings.Contains(raw, "title-page-title"):
		w.pdf.Ln(30)
		w.pdf.SetFont(w.font, "B", 20)
		w.pdf.MultiCell(0, 10, stripped, "", "C", false)
		w.pdf.Ln(6)
	case strings.Contains(raw, "title-page-info"):
		w.pdf.SetFont(w.font, "B", 12)
		for _, line := range strings.Split(stripped, "\n") {
			line = strings.TrimSpace(line)
			if line != "" {
				w.pdf.MultiCell(0, 8, line, "", "C", false)
			}
		}
		w.pdf.Ln(10)
	default:
		w.pdf.MultiCell(0, 5, stripped, "", "L", false)
	}

	w.updateFont()
	return ast.WalkSkipChildren, nil
}

func (w *walker) blockText(n *ast.HTMLBlock) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		b.Write(lines.At(i).Value(w.source))
	}
	if n.HasClosure() {
		b.Write(n.ClosureLine.Value(w.source))
	}
	return b.String()
}

func (w *walker) handleList(entering bool) (ast.WalkStatus, error) {
	if entering {
		w.inList = true
		w.listLevel++
	} else {
		w.listLevel--
		if w.listLevel == 0 {
			w.inList = false
			w.pdf.Ln(2)
		}
	}
	return ast.WalkContinue, nil
}

func (w *walker) handleListItem(entering bool) (ast.WalkStatus, error) {
	if entering {
		w.pdf.Ln(5)
		indent := float64(w.listLevel) * 5.0
		w.pdf.SetX(15 + indent)
		w.pdf.Write(5, "- ")
	}
	return ast.WalkContinue, nil
}

func (w *walker) handleTable(n *extast.Table, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	var rows [][]string
	var collect func(node ast.Node)
	collect = func(node ast.Node) {
		for child := node.FirstChild(); child != nil; child = child.NextSibling() {
			switch c := child.(type) {
			case *extast.TableRow:
				rows = append(rows, w.rowCells(c))
			case *extast.TableHeader:
				collect(c)
			}
		}
	}
	collect(n)

	w.writeTable(rows)
	return ast.WalkSkipChildren, nil
}

func (w *walker) rowCells(n *extast.TableRow) []string {
	var row []string
	for cell := n.FirstChild(); cell != nil; cell = cell.NextSibling() {
		if _, ok := cell.(*extast.TableCell); ok {
			row = append(row, string(cell.Text(w.source)))
		}
	}
	return row
}

// writeTable draws a bordered table with measured column widths. The
// first row is the header. Rows are capped at eight wrapped lines.
func (w *walker) writeTable(rows [][]string) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return
	}

	w.pdf.Ln(2)

	pageWidth := 180.0
	numCols := len(rows[0])
	fontSize := 8.0
	lineHeight := 4.0

	widths := w.columnWidths(rows, numCols, pageWidth, fontSize)

	for i, row := range rows {
		if i == 0 {
			w.pdf.SetFont("Helvetica", "B", fontSize)
			w.pdf.SetFillColor(230, 230, 230)
		} else {
			w.pdf.SetFont("Helvetica", "", fontSize)
			w.pdf.SetFillColor(255, 255, 255)
		}

		maxLines := 1
		for j, cell := range row {
			if j < numCols {
				if lines := w.linesNeeded(cell, widths[j]-2); lines > maxLines {
					maxLines = lines
				}
			}
		}
		if maxLines > 8 {
			maxLines = 8
		}

		rowHeight := float64(maxLines)*lineHeight + 2
		startY := w.pdf.GetY()
		startX := w.pdf.GetX()

		if startY+rowHeight > 282 {
			w.pdf.AddPage()
			startY = w.pdf.GetY()
		}

		for j, cell := range row {
			if j >= numCols {
				break
			}
			x := startX
			for k := 0; k < j; k++ {
				x += widths[k]
			}

			if i == 0 {
				w.pdf.Rect(x, startY, widths[j], rowHeight, "FD")
			} else {
				w.pdf.Rect(x, startY, widths[j], rowHeight, "D")
			}

			w.pdf.SetXY(x+1, startY+1)
			w.writeCellText(cell, widths[j]-2, lineHeight, maxLines)
		}

		w.pdf.SetXY(startX, startY+rowHeight)
	}

	w.pdf.Ln(3)
	w.updateFont()
}

// columnWidths sizes columns from measured cell widths, then clamps and
// scales them to the printable width.
func (w *walker) columnWidths(rows [][]string, numCols int, pageWidth, fontSize float64) []float64 {
	widths := make([]float64, numCols)

	w.pdf.SetFont("Helvetica", "", fontSize)
	for _, row := range rows {
		for i, cell := range row {
			if i < numCols {
				if cw := w.pdf.GetStringWidth(cell) + 4; cw > widths[i] {
					widths[i] = cw
				}
			}
		}
	}

	w.pdf.SetFont("Helvetica", "B", fontSize)
	for i, cell := range rows[0] {
		if i < numCols {
			if cw := w.pdf.GetStringWidth(cell) + 4; cw > widths[i] {
				widths[i] = cw
			}
		}
	}
	w.pdf.SetFont("Helvetica", "", fontSize)

	minWidth := 12.0
	maxWidth := pageWidth / 3.0
	for i := range widths {
		if widths[i] < minWidth {
			widths[i] = minWidth
		}
		if widths[i] > maxWidth {
			widths[i] = maxWidth
		}
	}

	total := 0.0
	for _, cw := range widths {
		total += cw
	}

	if total > pageWidth {
		scale := pageWidth / total
		for i := range widths {
			widths[i] *= scale
			if widths[i] < minWidth*0.8 {
				widths[i] = minWidth * 0.8
			}
		}
	} else if total < pageWidth*0.9 {
		scale := (pageWidth * 0.95) / total
		if scale > 1.5 {
			scale = 1.5
		}
		for i := range widths {
			widths[i] *= scale
		}
	}

	return widths
}

func (w *walker) linesNeeded(cellText string, width float64) int {
	if cellText == "" || width <= 0 {
		return 1
	}

	words := strings.Fields(cellText)
	if len(words) == 0 {
		return 1
	}

	lines := 1
	lineWidth := 0.0
	spaceWidth := w.pdf.GetStringWidth(" ")

	for _, word := range words {
		wordWidth := w.pdf.GetStringWidth(word)
		switch {
		case lineWidth == 0:
			lineWidth = wordWidth
		case lineWidth+spaceWidth+wordWidth <= width:
			lineWidth += spaceWidth + wordWidth
		default:
			lines++
			lineWidth = wordWidth
		}
	}

	return lines
}

// writeCellText word-wraps cell text, truncating with an ellipsis when
// it exceeds maxLines.
func (w *walker) writeCellText(cellText string, width, lineHeight float64, maxLines int) {
	words := strings.Fields(cellText)
	if len(words) == 0 {
		return
	}

	var lines []string
	current := ""
	currentWidth := 0.0
	spaceWidth := w.pdf.GetStringWidth(" ")

	for _, word := range words {
		wordWidth := w.pdf.GetStringWidth(word)
		switch {
		case current == "":
			current = word
			currentWidth = wordWidth
		case currentWidth+spaceWidth+wordWidth <= width:
			current += " " + word
			currentWidth += spaceWidth + wordWidth
		default:
			lines = append(lines, current)
			current = word
			currentWidth = wordWidth
		}
	}
	if current != "" {
		lines = append(lines, current)
	}

	for i := 0; i < len(lines) && i < maxLines; i++ {
		line := lines[i]
		if i == maxLines-1 && len(lines) > maxLines {
			for w.pdf.GetStringWidth(line+"...") > width && len(line) > 3 {
				line = line[:len(line)-1]
			}
			line += "..."
		}
		w.pdf.CellFormat(width, lineHeight, line, "", 2, "L", false, 0, "")
	}
}
