package research

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"
)

var (
	spaceRegex   = regexp.MustCompile(`[ \t]+`)
	newlineRegex = regexp.MustCompile(`\n{3,}`)
)

// ArticleScraper fetches a news article page and extracts its readable
// text. Used by the stock news tool so the research context carries
// article bodies rather than headlines alone.
type ArticleScraper struct {
	httpClient *http.Client
	userAgent  string
	logger     arbor.ILogger
}

// NewArticleScraper creates a scraper with the given user agent.
func NewArticleScraper(userAgent string, logger arbor.ILogger) *ArticleScraper {
	return &ArticleScraper{
		httpClient: &http.Client{Timeout: 20 * time.Second},
		userAgent:  userAgent,
		logger:     logger,
	}
}

// Extract fetches a URL and returns the cleaned article text. Boilerplate
// containers are stripped before text extraction; an article or main
// element is preferred over the full body when present.
func (s *ArticleScraper) Extract(ctx context.Context, articleURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, articleURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch article: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("article fetch returned status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(strings.ToLower(contentType), "html") {
		return "", fmt.Errorf("unsupported content type: %s", contentType)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse article HTML: %w", err)
	}

	body := doc.Find("body")
	if body.Length() == 0 {
		return "", fmt.Errorf("no body element in article page")
	}

	if main := body.Find("main, article, [role=main]").First(); main.Length() > 0 {
		body = main
	}

	body.Find("script, style, noscript").Remove()
	body.Find("nav, header, footer, aside").Remove()
	body.Find("[class*=ad], [id*=ad], [class*=promo]").Remove()

	text := cleanWhitespace(body.Text())
	if text == "" {
		return "", fmt.Errorf("no readable text in article page")
	}

	s.logger.Debug().
		Str("url", articleURL).
		Int("chars", len(text)).
		Msg("Article text extracted")

	return text, nil
}

func cleanWhitespace(text string) string {
	text = spaceRegex.ReplaceAllString(text, " ")

	// Collapse runs of spaced-out blank lines so paragraph breaks survive.
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")
	text = newlineRegex.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}
