package render

import (
	"bytes"
	"encoding/base64"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// chartBlockRegex matches the fenced html blocks section generation emits
// for Chart.js specifications.
var chartBlockRegex = regexp.MustCompile("(?s)```html\n(.*?)\n```")

const defaultChartJSSource = "https://cdn.jsdelivr.net/npm/chart.js"

// chartFailureHTML stands in for a chart that could not be rendered. The
// report still prints with an inline notice where the figure would sit.
const chartFailureHTML = `<div style="text-align:center; color: red;">Chart could not be rendered</div>`

// replaceChartBlocks rewrites every fenced html block through render,
// passing the block body without its fence lines. Blocks are numbered in
// document order starting at zero.
func replaceChartBlocks(markdown string, render func(index int, chartHTML string) string) string {
	index := 0
	return chartBlockRegex.ReplaceAllStringFunc(markdown, func(block string) string {
		inner := chartBlockRegex.FindStringSubmatch(block)[1]
		replacement := render(index, inner)
		index++
		return replacement
	})
}

// hasCanvas reports whether the chart markup contains a canvas element.
// Blocks without one are not Chart.js specifications and would never
// satisfy the canvas wait before the screenshot.
func hasCanvas(chartHTML string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(chartHTML))
	if err != nil {
		return false
	}
	return doc.Find("canvas").Length() > 0
}

// markdownToHTML converts report markdown to an HTML body. Unsafe
// rendering is required here: the assembled report embeds raw title-page
// divs and anchor tags that must pass through to the printed document.
func markdownToHTML(markdown string) (string, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.Table, extension.Strikethrough),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)

	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// chartImage embeds a rendered chart PNG as an inline data URI figure.
func chartImage(png []byte) string {
	data := base64.StdEncoding.EncodeToString(png)
	return `<div style="text-align:center; page-break-inside: avoid; margin: 20px 0;"><img src="data:image/png;base64,` + data + `" alt="Chart" style="max-width: 90%; height: auto; border: 1px solid #ddd; border-radius: 4px;"></div>`
}

// footerHTML is the print footer template with right-aligned page numbers.
const footerHTML = `
<style>
  .footer {
    font-size: 9px;
    color: #666;
    width: 100%;
    padding: 0 12mm;
    display: flex;
    justify-content: flex-end;  /* right-align */
    align-items: center;
  }
  /* Avoid unexpected page scaling artifacts */
  .footer * { font-family: Arial, sans-serif; }
</style>
<div class="footer">
  <span><span class="pageNumber"></span> of <span class="totalPages"></span></span>
</div>
`

// reportDocument wraps a converted markdown body in the full report
// stylesheet: Georgia serif, A4 portrait with 20mm margins, centered
// title-page and key-section headings, justified paragraphs.
func reportDocument(bodyHTML, companyName string) string {
	return `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Investment Report - ` + companyName + `</title>
    <style>
        /* Reset default margins and padding */
        * { margin: 0; padding: 0; box-sizing: border-box; }
        
        body { 
            font-family: 'Georgia', 'Times New Roman', serif; 
            line-height: 1.4; 
            color: #000000;
            margin: 0;
            padding: 0;
            font-size: 10pt;
        }
        
        /* Enhanced paragraph spacing with 1.5 line spacing */
        p { 
            margin: 0.6em 0; 
            text-align: justify;
            orphans: 3;
            widows: 3;
            line-height: 1.5;
        }
        
        /* Title page specific styling */
        h1:first-child { 
            font-size: 24pt; 
            font-weight: bold; 
            text-align: center !important;
            margin: 2em 0 1.5em 0;
            border-bottom: none;
            padding-bottom: 0;
            page-break-after: avoid;
            color: #000000;
        }
        
        /* Ensure title page title is centered */
        .title-page-title {
            text-align: center !important;
            font-size: 24pt;
            font-weight: bold;
            margin: 2em 0 1.5em 0;
            color: #000000;
        }
        
        /* Regular H1 styling with enhanced spacing */
        h1 { 
            font-size: 20pt; 
            font-weight: bold; 
            margin: 2em 0 1em 0;
            border-bottom: 3px solid #000000;
            padding-bottom: 10px;
            page-break-after: avoid;
            color: #000000;
        }
        
        /* H2 styling with enhanced spacing */
        h2 { 
            font-size: 16pt; 
            font-weight: bold; 
            margin: 1.8em 0 1em 0;
            border-bottom: 2px solid #000000;
            padding-bottom: 8px;
            page-break-after: avoid;
            color: #000000;
        }
        
        /* H3 styling with enhanced spacing */
        h3 { 
            font-size: 14pt; 
            font-weight: bold; 
            margin: 1.5em 0 0.8em 0;
            page-break-after: avoid;
            color: #000000;
        }
        
        /* H4 styling */
        h4 { 
            font-size: 12pt; 
            font-weight: bold; 
            margin: 1.2em 0 0.6em 0;
            page-break-after: avoid;
            color: #000000;
        }
        
        /* Title page company info styling */
        .title-page-info { 
            text-align: center !important;
            margin: 2em 0;
            line-height: 2;
            font-size: 12pt;
        }
        
        /* Ensure title page elements are properly centered */
        .title-page-info strong {
            display: inline-block;
            margin: 0.2em 0;
        }
        
        /* Special styling for key sections */
        a#table-of-contents + h2,
        a#executive-summary + h2,
        a#references + h2 {
            text-align: center;
            font-size: 18pt;
            border-bottom: 3px solid #000000;
            padding-bottom: 10px;
            margin-bottom: 1.5em;
        }
        
        /* List styling */
        ul {
            list-style-type: disc;
            margin: 0.8em 0 0.8em 1.5em;
            padding: 0;
            line-height: 1.5;
        }
        
        ol { 
            margin: 0.8em 0 0.8em 1.5em; 
            padding: 0;
            line-height: 1.5;
        }
        
        li {
            margin: 0.5em 0;
            line-height: 1.5;
            text-align: justify;
            word-wrap: break-word;
            hyphens: none;
        }
        
        /* Prevent colon jumping in list items */
        li p {
            text-align: justify;
            margin: 0.3em 0;
        }
        
        /* Specific styling for bullet point content */
        li strong {
            display: inline;
            white-space: nowrap;
        }
        
        /* Prevent colon orphaning - keep colons with preceding words */
        li strong:after {
            content: "";
            white-space: nowrap;
        }
        
        /* General text formatting to prevent colon issues */
        .no-break {
            white-space: nowrap;
        }
        
        /* Improved word breaking for better text flow */
        p, li {
            word-break: normal;
            overflow-wrap: break-word;
            hyphens: auto;
        }
        
        /* Table styling */
        table { 
            width: 100%; 
            border-collapse: collapse; 
            margin: 0.5em 0;
            page-break-inside: avoid;
            font-size: 10pt;
        }
        
        th, td { 
            border: 1px solid #bdc3c7; 
            padding: 6px 8px;
            text-align: left;
            vertical-align: top;
        }
        
        th { 
            background-color: #f8f9fa; 
            font-weight: bold;
            color: #000000;
        }
        
        /* Image styling */
        img { 
            max-width: 100%; 
            height: auto; 
        }
        
        /* Strong/Bold text */
        strong, b { 
            font-weight: bold; 
            color: #000000;
        }
        
        /* Code blocks */
        code { 
            background-color: #f8f9fa; 
            padding: 2px 4px; 
            border-radius: 3px;
            font-family: 'Courier New', monospace;
            font-size: 9pt;
        }
        
        /* Horizontal rules */
        hr { 
            border: none; 
            border-top: 1px solid #bdc3c7; 
            margin: 0.5em 0;
        }
        
        /* Blockquotes */
        blockquote { 
            margin: 1em 0; 
            padding: 0.8em 1em; 
            border-left: 3px solid #3498db; 
            background-color: #f8f9fa;
            font-style: italic;
            line-height: 1.5;
        }
        
        /* Anchor styling */
        a { color: #0066cc; text-decoration: underline; }
        
        /* Page settings */
        @page { 
            size: A4 portrait;
            margin: 20mm;
        }
        
        /* Page break utilities */
        .page-break { page-break-before: always; }
        .no-break { page-break-inside: avoid; }
    </style>
</head>
<body>` + bodyHTML + `</body>
</html>`
}

// chartDocument builds the standalone page a single chart block is
// rendered on. The styling forces a light color scheme and exact color
// printing so screenshots keep their palette under software rendering.
func chartDocument(chartHTML, chartjsSrc string) string {
	src := chartjsSrc
	if src == "" {
		src = defaultChartJSSource
	}
	return `<!DOCTYPE html>
<html style="background: white !important;">
<head>
    <meta charset="UTF-8">
    <meta name="color-scheme" content="light only">
    <meta name="supported-color-schemes" content="light">
    <meta name="theme-color" content="#ffffff">
    <script src="` + src + `"></script>
    <style>
        /* CRITICAL: Force color rendering at every level */
        * {
            -webkit-print-color-adjust: exact !important;
            color-adjust: exact !important;
            print-color-adjust: exact !important;
            -webkit-filter: none !important;
            filter: none !important;
            color-scheme: light !important;
            forced-color-adjust: none !important;
        }
        
        html {
            background: white !important;
            color-scheme: light !important;
            -webkit-color-scheme: light !important;
        }
        
        body { 
            background: white !important;
            margin: 0 !important;
            padding: 20px !important;
            color-scheme: light !important;
            -webkit-color-scheme: light !important;
        }
        
        canvas {
            background: transparent !important;
            max-width: 100% !important;
            height: auto !important;
            image-rendering: -webkit-optimize-contrast !important;
            image-rendering: crisp-edges !important;
        }
        
        .chartjs-render-monitor {
            background: transparent !important;
        }
        
        /* Force specific Chart.js element colors */
        .chartjs-tooltip {
            background: rgba(0,0,0,0.8) !important;
            color: white !important;
        }
        
        /* Prevent any grayscale filters */
        @media (prefers-color-scheme: dark) {
            * {
                filter: none !important;
                -webkit-filter: none !important;
            }
        }
    </style>
</head>
<body style="background: white !important;">
    ` + chartHTML + `
    <script>
        // Wait for DOM and Chart.js to load, then force color settings
        document.addEventListener('DOMContentLoaded', function() {
            // Force Chart.js defaults for color preservation
            if (typeof Chart !== 'undefined') {
                Chart.defaults.plugins.legend.labels.usePointStyle = true;
                Chart.defaults.color = '#000000';
                Chart.defaults.backgroundColor = 'rgba(255, 255, 255, 1)';
                Chart.defaults.borderColor = 'rgba(0, 0, 0, 0.1)';
                
                // Override any potential theme detection
                Chart.defaults.plugins.legend.labels.color = '#000000';
                Chart.defaults.scales = Chart.defaults.scales || {};
                Chart.defaults.scales.x = Chart.defaults.scales.x || {};
                Chart.defaults.scales.y = Chart.defaults.scales.y || {};
                Chart.defaults.scales.x.ticks = Chart.defaults.scales.x.ticks || {};
                Chart.defaults.scales.y.ticks = Chart.defaults.scales.y.ticks || {};
                Chart.defaults.scales.x.ticks.color = '#000000';
                Chart.defaults.scales.y.ticks.color = '#000000';
            }
            
            // Force all canvas elements to use proper color space
            const canvases = document.querySelectorAll('canvas');
            canvases.forEach(canvas => {
                const ctx = canvas.getContext('2d');
                if (ctx) {
                    ctx.imageSmoothingEnabled = true;
                    ctx.imageSmoothingQuality = 'high';
                }
            });
        });
    </script>
</body>
</html>`
}
