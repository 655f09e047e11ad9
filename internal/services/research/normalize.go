package research

import (
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/indago/internal/models"
)

// Search providers occasionally return raw page markup instead of
// extracted text. Markup in the research context wastes model tokens
// and produces citations that quote tag soup, so HTML-shaped content
// is converted to markdown before the results leave this package.

var (
	htmlTagPattern  = regexp.MustCompile(`(?i)</?(p|div|span|a|br|li|ul|ol|h[1-6]|table|tr|td|th|strong|em|b|i|img|article|section|blockquote)\b[^>]*>`)
	anyTagPattern   = regexp.MustCompile(`<[^>]*>`)
	multiSpaceRegex = regexp.MustCompile(`\s+`)
)

// normalizeWebResults rewrites HTML-shaped content in place. Error
// entries carry no content and are left alone.
func normalizeWebResults(results []models.WebResult, logger arbor.ILogger) []models.WebResult {
	for i := range results {
		if results[i].Failed() {
			continue
		}
		results[i].Content = normalizeContent(results[i].Content, results[i].URL, logger)
	}
	return results
}

// normalizeContent converts HTML content to markdown, passing plain
// text through unchanged. Conversion failures fall back to tag
// stripping so a usable result is never lost to a markup quirk.
func normalizeContent(content, baseURL string, logger arbor.ILogger) string {
	if content == "" || !looksLikeHTML(content) {
		return content
	}

	converter := md.NewConverter(baseURL, true, nil)
	converted, err := converter.ConvertString(content)
	if err != nil {
		logger.Warn().
			Err(err).
			Str("url", baseURL).
			Msg("HTML to markdown conversion failed, stripping tags")
		return stripHTMLTags(content)
	}

	trimmed := strings.TrimSpace(converted)
	if trimmed == "" {
		return stripHTMLTags(content)
	}

	logger.Debug().
		Int("html_length", len(content)).
		Int("markdown_length", len(trimmed)).
		Msg("Converted HTML result content to markdown")

	return trimmed
}

// looksLikeHTML reports whether content carries actual markup. Search
// snippets legitimately contain "<" in prose (price comparisons, code
// quotes), so detection requires at least two recognizable tags.
func looksLikeHTML(content string) bool {
	return len(htmlTagPattern.FindAllStringIndex(content, 2)) >= 2
}

// stripHTMLTags is the fallback when conversion fails: remove tags,
// collapse whitespace, and decode the common entities.
func stripHTMLTags(content string) string {
	stripped := anyTagPattern.ReplaceAllString(content, " ")
	stripped = multiSpaceRegex.ReplaceAllString(stripped, " ")

	stripped = strings.ReplaceAll(stripped, "&amp;", "&")
	stripped = strings.ReplaceAll(stripped, "&lt;", "<")
	stripped = strings.ReplaceAll(stripped, "&gt;", ">")
	stripped = strings.ReplaceAll(stripped, "&quot;", "\"")
	stripped = strings.ReplaceAll(stripped, "&#39;", "'")
	stripped = strings.ReplaceAll(stripped, "&nbsp;", " ")

	return strings.TrimSpace(stripped)
}
